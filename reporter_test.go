package lox

import (
	"bytes"
	"testing"
)

func TestReporter(t *testing.T) {
	var buf bytes.Buffer
	rep := NewReporter(&buf)

	rep.Error(1, "Unexpected character.")
	rep.ErrorAt(Token{Type: Ident, Lexeme: "foo", Position: Position{Line: 2}}, "Expect ';' after value.")
	rep.ErrorAt(Token{Type: EOF, Position: Position{Line: 3}}, "Expect expression.")
	if !rep.HadError() || rep.HadRuntimeError() {
		t.Fatalf("unexpected flags after static errors")
	}
	rep.RuntimeError(&RuntimeError{
		Token: Token{Type: Div, Lexeme: "/", Position: Position{Line: 4}},
		Err:   ErrZero,
	})
	if !rep.HadRuntimeError() {
		t.Fatalf("runtime flag not set")
	}

	want := "[line 1] Error: Unexpected character.\n" +
		"[line 2] Error at 'foo': Expect ';' after value.\n" +
		"[line 3] Error at end: Expect expression.\n" +
		"division by zero\n[line 4]\n"
	if got := buf.String(); got != want {
		t.Errorf("output mismatched!\nwant: %q\ngot:  %q", want, got)
	}
	if n := len(rep.Diagnostics()); n != 4 {
		t.Errorf("expected 4 diagnostics, got %d", n)
	}

	rep.Reset()
	if rep.HadError() || rep.HadRuntimeError() || len(rep.Diagnostics()) != 0 {
		t.Errorf("reset should clear flags and diagnostics")
	}
}
