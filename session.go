package lox

import (
	"errors"
	"io"
)

var ErrStatic = errors.New("static error")

// Session runs successive pieces of source against the same globals. It is
// what an interactive prompt keeps between two lines.
type Session struct {
	interp   *Interpreter
	resolver *Resolver
	report   *ErrorReporter
}

func NewSession(out, errw io.Writer) *Session {
	rep := NewReporter(errw)
	return &Session{
		interp:   New(out),
		resolver: NewResolver(rep),
		report:   rep,
	}
}

// Run scans, parses, resolves and interprets src. ErrStatic is returned when
// a lexical, syntax or resolution error was reported for src, in which case
// nothing is executed. A failure during execution is returned as a
// *RuntimeError after being reported.
func (s *Session) Run(src string) error {
	before := len(s.report.Diagnostics())

	tokens := NewScanner(src, s.report).Tokens()
	stmts, err := NewParser(tokens, s.report).Parse()
	if err != nil || len(s.report.Diagnostics()) > before {
		return ErrStatic
	}
	locals, err := s.resolver.Resolve(stmts)
	if err != nil {
		return ErrStatic
	}
	s.interp.Resolve(locals)

	if err := s.interp.Interpret(stmts); err != nil {
		var re *RuntimeError
		if errors.As(err, &re) {
			s.report.RuntimeError(re)
		}
		return err
	}
	return nil
}

func (s *Session) Reset() {
	s.report.Reset()
}

func (s *Session) HadError() bool {
	return s.report.HadError()
}

func (s *Session) HadRuntimeError() bool {
	return s.report.HadRuntimeError()
}

func (s *Session) Reporter() *ErrorReporter {
	return s.report
}

func (s *Session) Interpreter() *Interpreter {
	return s.interp
}
