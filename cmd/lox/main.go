package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/midbel/lox"
	"github.com/midbel/lox/config"
	"github.com/midbel/lox/history"
	"github.com/peterh/liner"
)

const (
	exitOk       = 0
	exitUsage    = 64
	exitData     = 65
	exitNoInput  = 66
	exitSoftware = 70
)

const historyFile = ".lox_history"

func main() {
	log.SetFlags(0)
	log.SetPrefix("lox: ")

	var (
		file   = flag.String("c", "", "configuration file")
		tokens = flag.Bool("tokens", false, "print tokens instead of running")
		ast    = flag.Bool("ast", false, "print syntax tree instead of running")
	)
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: lox [-c config] [-tokens] [-ast] [script]")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := config.Default()
	if *file != "" {
		c, err := config.Load(*file)
		if err != nil {
			log.Println(err)
			os.Exit(exitUsage)
		}
		cfg = c
	}
	switch {
	case *tokens:
		cfg.Dump = config.DumpTokens
	case *ast:
		cfg.Dump = config.DumpAst
	}

	var code int
	switch flag.NArg() {
	case 0:
		code = runPrompt(cfg)
	case 1:
		code = runFile(flag.Arg(0), cfg)
	default:
		flag.Usage()
		code = exitUsage
	}
	os.Exit(code)
}

func runFile(file string, cfg config.Config) int {
	buf, err := os.ReadFile(file)
	if err != nil {
		log.Println(err)
		return exitNoInput
	}
	if cfg.Dump != config.DumpNone {
		return dump(string(buf), cfg.Dump, os.Stdout)
	}
	sess := lox.NewSession(os.Stdout, os.Stderr)
	sess.Run(string(buf))
	switch {
	case sess.HadError():
		return exitData
	case sess.HadRuntimeError():
		return exitSoftware
	default:
		return exitOk
	}
}

func runPrompt(cfg config.Config) int {
	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	store := openHistory(cfg)
	if store != nil {
		defer store.Close()
		lines, err := store.Lines(cfg.History.Limit)
		if err != nil {
			log.Println(err)
		}
		for _, line := range lines {
			ln.AppendHistory(line)
		}
	}

	sess := lox.NewSession(os.Stdout, os.Stderr)
	for {
		line, err := ln.Prompt(cfg.Prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			break
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			log.Println(err)
			break
		}
		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}
		if input == ":quit" {
			break
		}
		ln.AppendHistory(input)
		if store != nil {
			if err := store.Append(input); err != nil {
				log.Println(err)
			}
		}
		if cfg.Dump != config.DumpNone {
			dump(line, cfg.Dump, os.Stdout)
			continue
		}
		sess.Run(line)
		sess.Reset()
	}
	return exitOk
}

func openHistory(cfg config.Config) *history.Store {
	file := cfg.History.File
	if file == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Println(err)
			return nil
		}
		file = filepath.Join(home, historyFile)
	}
	store, err := history.Open(file, cfg.History.Limit)
	if err != nil {
		log.Println(err)
		return nil
	}
	return store
}

func dump(src, mode string, w io.Writer) int {
	rep := lox.NewReporter(os.Stderr)
	tokens := lox.NewScanner(src, rep).Tokens()
	switch mode {
	case config.DumpTokens:
		for _, tok := range tokens {
			fmt.Fprintf(w, "%d:%d %s\n", tok.Line, tok.Column, tok)
		}
	case config.DumpAst:
		stmts, _ := lox.NewParser(tokens, rep).Parse()
		fmt.Fprintln(w, lox.Sprint(stmts))
	}
	if rep.HadError() {
		return exitData
	}
	return exitOk
}
