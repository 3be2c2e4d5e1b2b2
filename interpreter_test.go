package lox

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/midbel/lox/environ"
)

func runSource(src string) (string, *Session, error) {
	var out bytes.Buffer
	s := NewSession(&out, nil)
	err := s.Run(src)
	return out.String(), s, err
}

func TestInterpret(t *testing.T) {
	tests := []struct {
		Name  string
		Input string
		Want  []string
	}{
		{
			Name:  "arithmetic",
			Input: "print 1 + 2 * 3; print (1 + 2) * 3; print 10 / 4; print -2 - -3;",
			Want:  []string{"7", "9", "2.5", "1"},
		},
		{
			Name:  "numbers",
			Input: "print 3.0; print 1.5; print -0.5; print 100;",
			Want:  []string{"3", "1.5", "-0.5", "100"},
		},
		{
			Name:  "concat",
			Input: `print "a" + "b"; print "n" + 1; print 1 + "n"; print "" + nil; print true + "!";`,
			Want:  []string{"ab", "n1", "1n", "nil", "true!"},
		},
		{
			Name:  "truthiness",
			Input: `print !nil; print !false; print !0; print !""; print !true;`,
			Want:  []string{"true", "true", "false", "false", "false"},
		},
		{
			Name:  "equality",
			Input: `print nil == nil; print nil == false; print 1 == 1; print "a" == "a"; print 1 == "1"; print 1 != 2;`,
			Want:  []string{"true", "false", "true", "true", "false", "true"},
		},
		{
			Name:  "comparison",
			Input: "print 1 < 2; print 2 <= 2; print 3 > 4; print 4 >= 5;",
			Want:  []string{"true", "true", "false", "false"},
		},
		{
			Name:  "logical",
			Input: `print nil or "x"; print 1 and 2; print false and boom; print "a" or boom;`,
			Want:  []string{"x", "2", "false", "a"},
		},
		{
			Name:  "shadowing",
			Input: "var a = 1; { var a = a + 1; print a; } print a;",
			Want:  []string{"2", "1"},
		},
		{
			Name:  "shadow-initializer",
			Input: "var a = 1; { var a = a; print a; }",
			Want:  []string{"1"},
		},
		{
			Name:  "nested-shadow-initializer",
			Input: "{ var a = 10; { var a = a * 2; print a; } print a; }",
			Want:  []string{"20", "10"},
		},
		{
			Name:  "uninitialized",
			Input: "var a; print a;",
			Want:  []string{"nil"},
		},
		{
			Name:  "assignment",
			Input: "var a; var b; a = b = 3; print a; print b;",
			Want:  []string{"3", "3"},
		},
		{
			Name:  "if",
			Input: `if (0) print "zero"; else print "no"; if (nil) print "nil"; else print "else";`,
			Want:  []string{"zero", "else"},
		},
		{
			Name:  "while",
			Input: "var i = 0; while (i < 3) { print i; i = i + 1; }",
			Want:  []string{"0", "1", "2"},
		},
		{
			Name:  "for",
			Input: "for (var i = 0; i < 3; i = i + 1) print i;",
			Want:  []string{"0", "1", "2"},
		},
		{
			Name:  "for-scope",
			Input: "var i = 10; for (var i = 0; i < 1; i = i + 1) print i; print i;",
			Want:  []string{"0", "10"},
		},
		{
			Name:  "assign-in-initializer",
			Input: "{ var a = 1; { var a = (a = 2); print a; } print a; }",
			Want:  []string{"2", "2"},
		},
		{
			Name:  "recursion",
			Input: "fun fib(n) { if (n < 2) return n; return fib(n - 1) + fib(n - 2); } print fib(10);",
			Want:  []string{"55"},
		},
		{
			Name:  "return-from-loop",
			Input: "fun first() { for (var i = 0; ; i = i + 1) { if (i == 2) return i; } } print first();",
			Want:  []string{"2"},
		},
		{
			Name:  "implicit-nil",
			Input: "fun f() {} fun g() { return; } print f(); print g();",
			Want:  []string{"nil", "nil"},
		},
		{
			Name: "closure",
			Input: `
			fun adder(n) {
				fun add(x) { return x + n; }
				return add;
			}
			var add2 = adder(2);
			print add2(3);`,
			Want: []string{"5"},
		},
		{
			Name: "closure-binding",
			Input: `
			var a = "global";
			{
				fun show() { print a; }
				show();
				var a = "block";
				show();
			}`,
			Want: []string{"global", "global"},
		},
		{
			Name:  "stringify",
			Input: "fun f() {} class A {} print f; print clock; print A; print A();",
			Want:  []string{"<fn f>", "<native fn>", "A", "A instance"},
		},
		{
			Name:  "clock",
			Input: "print clock() > 0;",
			Want:  []string{"true"},
		},
		{
			Name: "class",
			Input: `
			class Point {
				init(x, y) {
					this.x = x;
					this.y = y;
				}
				sum() { return this.x + this.y; }
			}
			var p = Point(1, 2);
			print p.sum();
			p.x = 10;
			print p.sum();`,
			Want: []string{"3", "12"},
		},
		{
			Name: "bound-method",
			Input: `
			class Box {
				init(v) { this.v = v; }
				get() { return this.v; }
			}
			var a = Box(1).get;
			var b = Box(2).get;
			print a();
			print b();`,
			Want: []string{"1", "2"},
		},
		{
			Name:  "field-shadows-method",
			Input: "class A { f() { return 1; } } var a = A(); print a.f(); a.f = 2; print a.f;",
			Want:  []string{"1", "2"},
		},
		{
			Name:  "initializer-returns-this",
			Input: "class A { init() { this.v = 1; return; } } var a = A(); print a.init() == a; print a.v;",
			Want:  []string{"true", "1"},
		},
		{
			Name:  "default-arity",
			Input: "class A {} print A();",
			Want:  []string{"A instance"},
		},
		{
			Name: "inherit",
			Input: `
			class A { hello() { return "hello"; } }
			class B < A {}
			print B().hello();`,
			Want: []string{"hello"},
		},
		{
			Name: "super",
			Input: `
			class Base { greet() { return "base"; } }
			class Derived < Base { greet() { return super.greet() + "-derived"; } }
			class Leaf < Derived {}
			class Deeper < Derived { greet() { return super.greet() + "!"; } }
			print Derived().greet();
			print Leaf().greet();
			print Deeper().greet();`,
			Want: []string{"base-derived", "base-derived", "base-derived!"},
		},
		{
			Name: "super-init",
			Input: `
			class A { init(n) { this.n = n; } }
			class B < A { init(n) { super.init(n * 2); } }
			print B(2).n;`,
			Want: []string{"4"},
		},
		{
			Name: "this-in-closure",
			Input: `
			class A {
				init() { this.name = "a"; }
				getter() {
					fun inner() { return this.name; }
					return inner;
				}
			}
			print A().getter()();`,
			Want: []string{"a"},
		},
	}
	for _, c := range tests {
		t.Run(c.Name, func(t *testing.T) {
			out, s, err := runSource(c.Input)
			if err != nil {
				t.Fatalf("unexpected error: %s (%v)", err, s.Reporter().Diagnostics())
			}
			want := strings.Join(c.Want, "\n") + "\n"
			if out != want {
				t.Errorf("output mismatched!\nwant: %q\ngot:  %q", want, out)
			}
		})
	}
}

func TestClosureCounters(t *testing.T) {
	src := `
	var inc;
	var get;
	fun counter() {
		var n = 0;
		fun i() { n = n + 1; }
		fun g() { return n; }
		inc = i;
		get = g;
	}
	counter();
	inc();
	inc();
	print get();

	var first = get;
	counter();
	inc();
	print get();
	print first();
	`
	out, s, err := runSource(src)
	if err != nil {
		t.Fatalf("unexpected error: %s (%v)", err, s.Reporter().Diagnostics())
	}
	if want := "2\n1\n2\n"; out != want {
		t.Errorf("output mismatched! want %q, got %q", want, out)
	}
}

func TestRuntimeErrors(t *testing.T) {
	tests := []struct {
		Input string
		Err   error
		Msg   string
	}{
		{Input: "print 5 / 0;", Err: ErrZero},
		{Input: "print -\"a\";", Err: ErrNumber},
		{Input: "print 1 < \"a\";", Err: ErrNumbers},
		{Input: "print 2 * nil;", Err: ErrNumbers},
		{Input: "print true + 1;", Err: ErrOperands},
		{Input: "print nil + nil;", Err: ErrOperands},
		{
			Input: "fun f(a, b) {} f(1);",
			Err:   ErrArity,
			Msg:   "invalid number of arguments: expected 2 arguments but got 1",
		},
		{
			Input: "class A { init(x) {} } A();",
			Err:   ErrArity,
			Msg:   "invalid number of arguments: expected 1 arguments but got 0",
		},
		{Input: "var x = 1; x();", Err: ErrCallable},
		{Input: "\"text\"();", Err: ErrCallable},
		{Input: "print missing;", Err: environ.ErrUndefined, Msg: "missing: undefined variable"},
		{Input: "missing = 1;", Err: environ.ErrUndefined},
		{Input: "class A {} print A().missing;", Err: ErrProperty},
		{Input: "var a = 1; print a.x;", Err: ErrInstance},
		{Input: "var a = 1; a.x = 1;", Err: ErrField},
		{Input: "var B = 1; class A < B {}", Err: ErrSuperclass},
		{Input: "fun f() { return 1 / 0; } f();", Err: ErrZero},
	}
	for _, c := range tests {
		_, s, err := runSource(c.Input)
		if !errors.Is(err, c.Err) {
			t.Errorf("%s: expected %v, got %v", c.Input, c.Err, err)
			continue
		}
		var re *RuntimeError
		if !errors.As(err, &re) {
			t.Errorf("%s: expected runtime error, got %T", c.Input, err)
			continue
		}
		if c.Msg != "" && re.Error() != c.Msg {
			t.Errorf("%s: message mismatched! want %q, got %q", c.Input, c.Msg, re.Error())
		}
		if !s.HadRuntimeError() || s.HadError() {
			t.Errorf("%s: unexpected reporter state", c.Input)
		}
	}
}

func TestRuntimeErrorAborts(t *testing.T) {
	var out, errw bytes.Buffer
	s := NewSession(&out, &errw)
	err := s.Run("print 1;\nprint 1 / 0;\nprint 2;")
	if !errors.Is(err, ErrZero) {
		t.Fatalf("expected division by zero, got %v", err)
	}
	if got := out.String(); got != "1\n" {
		t.Errorf("remaining statements should not run, got %q", got)
	}
	if got, want := errw.String(), "division by zero\n[line 2]\n"; got != want {
		t.Errorf("report mismatched! want %q, got %q", want, got)
	}
}

type unknownStmt struct{}

func (*unknownStmt) stmt() {}

type unknownExpr struct{}

func (*unknownExpr) expr() {}

func TestUnknownNodes(t *testing.T) {
	tests := []struct {
		Name string
		Stmt Stmt
	}{
		{Name: "statement", Stmt: &unknownStmt{}},
		{Name: "expression", Stmt: &PrintStmt{Expr: &unknownExpr{}}},
	}
	for _, c := range tests {
		t.Run(c.Name, func(t *testing.T) {
			err := New(nil).Interpret([]Stmt{c.Stmt})
			var re *RuntimeError
			if !errors.As(err, &re) {
				t.Fatalf("expected runtime error, got %T (%v)", err, err)
			}
		})
	}
}

func TestStaticErrorPreventsRun(t *testing.T) {
	for _, src := range []string{
		"print 1; print a b;",
		"print 1; @",
		"print 1; return 2;",
		"print 1; { var x = x; }",
		"print 1; { var x = (x = 1); }",
	} {
		out, s, err := runSource(src)
		if !errors.Is(err, ErrStatic) {
			t.Errorf("%s: expected static error, got %v", src, err)
		}
		if out != "" {
			t.Errorf("%s: nothing should run, got %q", src, out)
		}
		if !s.HadError() || s.HadRuntimeError() {
			t.Errorf("%s: unexpected reporter state", src)
		}
	}
}

func TestSessionKeepsGlobals(t *testing.T) {
	var out bytes.Buffer
	s := NewSession(&out, nil)
	lines := []struct {
		Input string
		Fail  bool
	}{
		{Input: "var a = 1;"},
		{Input: "fun bump() { a = a + 1; }"},
		{Input: "bump(); print 1 / 0;", Fail: true},
		{Input: "print a b;", Fail: true},
		{Input: "var a = a + 1;"},
		{Input: "print a;"},
	}
	for _, i := range lines {
		err := s.Run(i.Input)
		if i.Fail && err == nil {
			t.Errorf("%s: expected error", i.Input)
		}
		if !i.Fail && err != nil {
			t.Errorf("%s: unexpected error: %s", i.Input, err)
		}
		s.Reset()
		if s.HadError() || s.HadRuntimeError() {
			t.Errorf("%s: reset should clear flags", i.Input)
		}
	}
	if got := out.String(); got != "3\n" {
		t.Errorf("globals should survive errors, got %q", got)
	}
}
