package lox

import (
	"fmt"
	"io"
)

type Reporter interface {
	// Error reports a lexical error that has no token to point at.
	Error(int, string)
	// ErrorAt reports a syntax or static error located at the given token.
	ErrorAt(Token, string)
	RuntimeError(*RuntimeError)

	HadError() bool
	HadRuntimeError() bool
	Reset()
}

type Diagnostic struct {
	Line    int
	Where   string
	Message string
	Runtime bool
}

func (d Diagnostic) String() string {
	if d.Runtime {
		return fmt.Sprintf("%s\n[line %d]", d.Message, d.Line)
	}
	return fmt.Sprintf("[line %d] Error%s: %s", d.Line, d.Where, d.Message)
}

type ErrorReporter struct {
	w io.Writer

	diagnostics []Diagnostic
	hadError    bool
	hadRuntime  bool
}

func NewReporter(w io.Writer) *ErrorReporter {
	if w == nil {
		w = io.Discard
	}
	return &ErrorReporter{
		w: w,
	}
}

func (r *ErrorReporter) Error(line int, msg string) {
	r.report(Diagnostic{
		Line:    line,
		Message: msg,
	})
}

func (r *ErrorReporter) ErrorAt(tok Token, msg string) {
	d := Diagnostic{
		Line:    tok.Line,
		Message: msg,
	}
	if tok.Type == EOF {
		d.Where = " at end"
	} else {
		d.Where = fmt.Sprintf(" at '%s'", tok.Lexeme)
	}
	r.report(d)
}

func (r *ErrorReporter) RuntimeError(err *RuntimeError) {
	d := Diagnostic{
		Line:    err.Token.Line,
		Message: err.Error(),
		Runtime: true,
	}
	r.diagnostics = append(r.diagnostics, d)
	r.hadRuntime = true
	fmt.Fprintln(r.w, d)
}

func (r *ErrorReporter) HadError() bool {
	return r.hadError
}

func (r *ErrorReporter) HadRuntimeError() bool {
	return r.hadRuntime
}

// Reset clears the flags and the recorded diagnostics. It is called between
// lines of an interactive session.
func (r *ErrorReporter) Reset() {
	r.hadError = false
	r.hadRuntime = false
	r.diagnostics = r.diagnostics[:0]
}

func (r *ErrorReporter) Diagnostics() []Diagnostic {
	return r.diagnostics
}

func (r *ErrorReporter) report(d Diagnostic) {
	r.diagnostics = append(r.diagnostics, d)
	r.hadError = true
	fmt.Fprintln(r.w, d)
}
