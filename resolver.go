package lox

import (
	"errors"
)

var ErrResolve = errors.New("resolve error")

type funcKind int8

const (
	funcNone funcKind = iota
	funcFunction
	funcMethod
	funcInit
)

type classKind int8

const (
	classNone classKind = iota
	classClass
	classSub
)

// Resolver computes, for every local variable reference, the number of
// frames between the reference and the frame that defines the name.
// References that are not found in any scope are left out of the result and
// are looked up in the globals at run time.
//
// Top level declarations are remembered from one call of Resolve to the
// next so that a Resolver can follow an interactive session.
type Resolver struct {
	scopes  []map[string]bool
	globals map[string]bool
	locals  map[Expr]int

	fn    funcKind
	class classKind

	report Reporter
	failed bool
}

func NewResolver(report Reporter) *Resolver {
	if report == nil {
		report = NewReporter(nil)
	}
	return &Resolver{
		report:  report,
		globals: make(map[string]bool),
	}
}

func (r *Resolver) Resolve(stmts []Stmt) (map[Expr]int, error) {
	r.locals = make(map[Expr]int)
	r.failed = false
	r.resolveStmts(stmts)
	if r.failed {
		return r.locals, ErrResolve
	}
	return r.locals, nil
}

func (r *Resolver) resolveStmts(stmts []Stmt) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
}

func (r *Resolver) resolveStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *BlockStmt:
		r.enter()
		r.resolveStmts(s.Stmts)
		r.leave()
	case *VarStmt:
		r.declare(s.Name)
		if s.Init != nil {
			r.resolveExpr(s.Init)
		}
		r.define(s.Name)
	case *FunctionStmt:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s, funcFunction)
	case *ClassStmt:
		r.resolveClass(s)
	case *ExprStmt:
		r.resolveExpr(s.Expr)
	case *PrintStmt:
		r.resolveExpr(s.Expr)
	case *IfStmt:
		r.resolveExpr(s.Cdt)
		r.resolveStmt(s.Csq)
		if s.Alt != nil {
			r.resolveStmt(s.Alt)
		}
	case *WhileStmt:
		r.resolveExpr(s.Cdt)
		r.resolveStmt(s.Body)
	case *ReturnStmt:
		if r.fn == funcNone {
			r.error(s.Keyword, "Can't return from top-level code.")
		}
		if s.Value != nil {
			if r.fn == funcInit {
				r.error(s.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(s.Value)
		}
	}
}

func (r *Resolver) resolveClass(s *ClassStmt) {
	enclosing := r.class
	defer func() {
		r.class = enclosing
	}()
	r.class = classClass

	r.declare(s.Name)
	r.define(s.Name)

	if s.Super != nil {
		if s.Super.Name.Lexeme == s.Name.Lexeme {
			r.error(s.Super.Name, "A class can't inherit from itself.")
		}
		r.class = classSub
		r.resolveExpr(s.Super)

		r.enter()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.enter()
	r.scopes[len(r.scopes)-1]["this"] = true
	for _, m := range s.Methods {
		kind := funcMethod
		if m.Name.Lexeme == "init" {
			kind = funcInit
		}
		r.resolveFunction(m, kind)
	}
	r.leave()

	if s.Super != nil {
		r.leave()
	}
}

func (r *Resolver) resolveFunction(fn *FunctionStmt, kind funcKind) {
	enclosing := r.fn
	r.fn = kind

	r.enter()
	for _, p := range fn.Params {
		r.declare(p)
		r.define(p)
	}
	r.resolveStmts(fn.Body)
	r.leave()

	r.fn = enclosing
}

func (r *Resolver) resolveExpr(expr Expr) {
	switch e := expr.(type) {
	case *Variable:
		r.resolveName(e, e.Name)
	case *Assignment:
		r.resolveExpr(e.Value)
		r.resolveName(e, e.Name)
	case *Binary:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *Logical:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *Unary:
		r.resolveExpr(e.Right)
	case *Grouping:
		r.resolveExpr(e.Expr)
	case *Call:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}
	case *Get:
		r.resolveExpr(e.Object)
	case *Set:
		r.resolveExpr(e.Value)
		r.resolveExpr(e.Object)
	case *Self:
		if r.class == classNone {
			r.error(e.Keyword, "Can't use 'this' outside of a class.")
			return
		}
		r.resolveLocal(e, "this")
	case *Base:
		switch r.class {
		case classNone:
			r.error(e.Keyword, "Can't use 'super' outside of a class.")
		case classClass:
			r.error(e.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		r.resolveLocal(e, "super")
	case *Literal:
	}
}

// resolveName skips declarations whose initializer is being resolved, so
// that var a = a; in a nested scope reads the enclosing a. Assignments follow
// the same rule. Without any enclosing declaration the reference is an error.
func (r *Resolver) resolveName(expr Expr, tok Token) {
	var (
		name    = tok.Lexeme
		pending bool
	)
	for i := len(r.scopes) - 1; i >= 0; i-- {
		ready, ok := r.scopes[i][name]
		if !ok {
			continue
		}
		if !ready {
			pending = true
			continue
		}
		r.locals[expr] = len(r.scopes) - 1 - i
		return
	}
	if ready, ok := r.globals[name]; ok {
		if ready {
			return
		}
		pending = true
	}
	if pending {
		r.error(tok, "Can't read local variable in its own initializer.")
	}
}

func (r *Resolver) resolveLocal(expr Expr, name string) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name]; ok {
			r.locals[expr] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) declare(name Token) {
	if len(r.scopes) == 0 {
		if _, ok := r.globals[name.Lexeme]; !ok {
			r.globals[name.Lexeme] = false
		}
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.error(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = false
}

func (r *Resolver) define(name Token) {
	if len(r.scopes) == 0 {
		r.globals[name.Lexeme] = true
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

func (r *Resolver) enter() {
	r.scopes = append(r.scopes, make(map[string]bool))
}

func (r *Resolver) leave() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) error(tok Token, msg string) {
	r.failed = true
	r.report.ErrorAt(tok, msg)
}
