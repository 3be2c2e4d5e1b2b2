package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

var ErrDump = errors.New("invalid dump mode")

const (
	DumpNone   = ""
	DumpTokens = "tokens"
	DumpAst    = "ast"
)

const (
	DefaultPrompt = "> "
	DefaultLimit  = 1000
)

type History struct {
	File  string `yaml:"file"`
	Limit int    `yaml:"limit"`
}

// Config holds the settings of the command line front end.
type Config struct {
	Prompt  string  `yaml:"prompt"`
	History History `yaml:"history"`
	Dump    string  `yaml:"dump"`
}

func Default() Config {
	return Config{
		Prompt: DefaultPrompt,
		History: History{
			Limit: DefaultLimit,
		},
	}
}

// Load reads the configuration in file. Settings missing from the file keep
// their default value.
func Load(file string) (Config, error) {
	r, err := os.Open(file)
	if err != nil {
		return Default(), err
	}
	defer r.Close()

	cfg, err := Decode(r)
	if err != nil {
		return cfg, fmt.Errorf("config: %s: %w", file, err)
	}
	return cfg, nil
}

func Decode(r io.Reader) (Config, error) {
	cfg := Default()

	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Default(), err
	}
	switch cfg.Dump {
	case DumpNone, DumpTokens, DumpAst:
	default:
		return Default(), fmt.Errorf("%s: %w", cfg.Dump, ErrDump)
	}
	if cfg.History.Limit < 0 {
		cfg.History.Limit = 0
	}
	return cfg, nil
}
