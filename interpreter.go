package lox

import (
	"errors"
	"fmt"
	"io"

	"github.com/midbel/lox/environ"
)

type RuntimeError struct {
	Token Token
	Err   error
}

func runtimeError(tok Token, err error) error {
	var re *RuntimeError
	if errors.As(err, &re) {
		return err
	}
	return &RuntimeError{
		Token: tok,
		Err:   err,
	}
}

func (e *RuntimeError) Error() string {
	return e.Err.Error()
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// completion is the outcome of executing a statement. returning is set when
// a return statement was executed and value holds what it produced.
type completion struct {
	returning bool
	value     Value
}

type Interpreter struct {
	globals environ.Environment[Value]
	locals  map[Expr]int
	out     io.Writer
}

func New(out io.Writer) *Interpreter {
	if out == nil {
		out = io.Discard
	}
	it := Interpreter{
		globals: environ.Empty[Value](),
		locals:  make(map[Expr]int),
		out:     out,
	}
	for _, b := range builtins {
		it.globals.Define(b.Name, b)
	}
	return &it
}

func (it *Interpreter) Globals() environ.Environment[Value] {
	return it.globals
}

// Resolve records the scope distances computed by a Resolver. It can be
// called several times; the entries are merged.
func (it *Interpreter) Resolve(locals map[Expr]int) {
	for e, d := range locals {
		it.locals[e] = d
	}
}

// Interpret executes stmts in the global frame and stops at the first runtime
// error, which is always a *RuntimeError.
func (it *Interpreter) Interpret(stmts []Stmt) error {
	for _, s := range stmts {
		if _, err := it.exec(s, it.globals); err != nil {
			return err
		}
	}
	return nil
}

func (it *Interpreter) executeBlock(stmts []Stmt, env environ.Environment[Value]) (completion, error) {
	for _, s := range stmts {
		res, err := it.exec(s, env)
		if err != nil || res.returning {
			return res, err
		}
	}
	return completion{}, nil
}

func (it *Interpreter) exec(stmt Stmt, env environ.Environment[Value]) (completion, error) {
	switch s := stmt.(type) {
	case *ExprStmt:
		_, err := it.eval(s.Expr, env)
		return completion{}, err
	case *PrintStmt:
		v, err := it.eval(s.Expr, env)
		if err != nil {
			return completion{}, err
		}
		fmt.Fprintln(it.out, stringify(v))
		return completion{}, nil
	case *VarStmt:
		return completion{}, it.execVar(s, env)
	case *BlockStmt:
		return it.executeBlock(s.Stmts, environ.Enclosed(env))
	case *IfStmt:
		return it.execIf(s, env)
	case *WhileStmt:
		return it.execWhile(s, env)
	case *FunctionStmt:
		env.Define(s.Name.Lexeme, NewFunction(s, env, false))
		return completion{}, nil
	case *ReturnStmt:
		return it.execReturn(s, env)
	case *ClassStmt:
		return completion{}, it.execClass(s, env)
	default:
		return completion{}, runtimeError(Token{}, fmt.Errorf("%T: unsupported statement", stmt))
	}
}

func (it *Interpreter) execVar(s *VarStmt, env environ.Environment[Value]) error {
	var value Value = Nil{}
	if s.Init != nil {
		v, err := it.eval(s.Init, env)
		if err != nil {
			return err
		}
		value = v
	}
	env.Define(s.Name.Lexeme, value)
	return nil
}

func (it *Interpreter) execIf(s *IfStmt, env environ.Environment[Value]) (completion, error) {
	cdt, err := it.eval(s.Cdt, env)
	if err != nil {
		return completion{}, err
	}
	if isTrue(cdt) {
		return it.exec(s.Csq, env)
	}
	if s.Alt != nil {
		return it.exec(s.Alt, env)
	}
	return completion{}, nil
}

func (it *Interpreter) execWhile(s *WhileStmt, env environ.Environment[Value]) (completion, error) {
	for {
		cdt, err := it.eval(s.Cdt, env)
		if err != nil {
			return completion{}, err
		}
		if !isTrue(cdt) {
			break
		}
		res, err := it.exec(s.Body, env)
		if err != nil || res.returning {
			return res, err
		}
	}
	return completion{}, nil
}

func (it *Interpreter) execReturn(s *ReturnStmt, env environ.Environment[Value]) (completion, error) {
	res := completion{
		returning: true,
		value:     Nil{},
	}
	if s.Value != nil {
		v, err := it.eval(s.Value, env)
		if err != nil {
			return completion{}, err
		}
		res.value = v
	}
	return res, nil
}

func (it *Interpreter) execClass(s *ClassStmt, env environ.Environment[Value]) error {
	var super *Class
	if s.Super != nil {
		v, err := it.eval(s.Super, env)
		if err != nil {
			return err
		}
		c, ok := v.(*Class)
		if !ok {
			return runtimeError(s.Super.Name, ErrSuperclass)
		}
		super = c
	}
	env.Define(s.Name.Lexeme, Nil{})

	closure := env
	if super != nil {
		closure = environ.Enclosed(env)
		closure.Define("super", super)
	}
	methods := make(map[string]*Function)
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = NewFunction(m, closure, m.Name.Lexeme == "init")
	}
	class := NewClass(s.Name.Lexeme, super, methods)
	if err := env.Assign(s.Name.Lexeme, class); err != nil {
		return runtimeError(s.Name, err)
	}
	return nil
}

func (it *Interpreter) eval(expr Expr, env environ.Environment[Value]) (Value, error) {
	switch e := expr.(type) {
	case *Literal:
		if e.Value == nil {
			return Nil{}, nil
		}
		return e.Value, nil
	case *Grouping:
		return it.eval(e.Expr, env)
	case *Variable:
		return it.lookup(e.Name, e, env)
	case *Assignment:
		return it.evalAssign(e, env)
	case *Unary:
		return it.evalUnary(e, env)
	case *Binary:
		return it.evalBinary(e, env)
	case *Logical:
		return it.evalLogical(e, env)
	case *Call:
		return it.evalCall(e, env)
	case *Get:
		return it.evalGet(e, env)
	case *Set:
		return it.evalSet(e, env)
	case *Self:
		return it.lookup(e.Keyword, e, env)
	case *Base:
		return it.evalSuper(e, env)
	default:
		return nil, runtimeError(Token{}, fmt.Errorf("%T: unsupported expression", expr))
	}
}

func (it *Interpreter) lookup(name Token, expr Expr, env environ.Environment[Value]) (Value, error) {
	var (
		v   Value
		err error
	)
	if dist, ok := it.locals[expr]; ok {
		v, err = env.ResolveAt(dist, name.Lexeme)
	} else {
		v, err = it.globals.Resolve(name.Lexeme)
	}
	if err != nil {
		return nil, runtimeError(name, err)
	}
	return v, nil
}

func (it *Interpreter) evalAssign(e *Assignment, env environ.Environment[Value]) (Value, error) {
	v, err := it.eval(e.Value, env)
	if err != nil {
		return nil, err
	}
	if dist, ok := it.locals[e]; ok {
		err = env.AssignAt(dist, e.Name.Lexeme, v)
	} else {
		err = it.globals.Assign(e.Name.Lexeme, v)
	}
	if err != nil {
		return nil, runtimeError(e.Name, err)
	}
	return v, nil
}

func (it *Interpreter) evalUnary(e *Unary, env environ.Environment[Value]) (Value, error) {
	right, err := it.eval(e.Right, env)
	if err != nil {
		return nil, err
	}
	switch e.Op.Type {
	case Not:
		return Bool(!isTrue(right)), nil
	case Sub:
		n, ok := right.(Number)
		if !ok {
			return nil, runtimeError(e.Op, ErrNumber)
		}
		return -n, nil
	default:
		return nil, runtimeError(e.Op, fmt.Errorf("%s: unsupported operator", e.Op.Lexeme))
	}
}

func (it *Interpreter) evalBinary(e *Binary, env environ.Environment[Value]) (Value, error) {
	left, err := it.eval(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := it.eval(e.Right, env)
	if err != nil {
		return nil, err
	}
	switch e.Op.Type {
	case Eq:
		return Bool(isEqual(left, right)), nil
	case Ne:
		return Bool(!isEqual(left, right)), nil
	case Add:
		return it.evalAdd(e.Op, left, right)
	}

	x, ok1 := left.(Number)
	y, ok2 := right.(Number)
	if !ok1 || !ok2 {
		return nil, runtimeError(e.Op, ErrNumbers)
	}
	switch e.Op.Type {
	case Sub:
		return x - y, nil
	case Mul:
		return x * y, nil
	case Div:
		if y == 0 {
			return nil, runtimeError(e.Op, ErrZero)
		}
		return x / y, nil
	case Gt:
		return Bool(x > y), nil
	case Ge:
		return Bool(x >= y), nil
	case Lt:
		return Bool(x < y), nil
	case Le:
		return Bool(x <= y), nil
	default:
		return nil, runtimeError(e.Op, fmt.Errorf("%s: unsupported operator", e.Op.Lexeme))
	}
}

// evalAdd adds two numbers or concatenates when at least one side is text.
func (it *Interpreter) evalAdd(op Token, left, right Value) (Value, error) {
	if x, ok := left.(Number); ok {
		if y, ok := right.(Number); ok {
			return x + y, nil
		}
	}
	_, ok1 := left.(String)
	_, ok2 := right.(String)
	if ok1 || ok2 {
		return String(stringify(left) + stringify(right)), nil
	}
	return nil, runtimeError(op, ErrOperands)
}

func (it *Interpreter) evalLogical(e *Logical, env environ.Environment[Value]) (Value, error) {
	left, err := it.eval(e.Left, env)
	if err != nil {
		return nil, err
	}
	if e.Op.Type == Or {
		if isTrue(left) {
			return left, nil
		}
	} else if !isTrue(left) {
		return left, nil
	}
	return it.eval(e.Right, env)
}

func (it *Interpreter) evalCall(e *Call, env environ.Environment[Value]) (Value, error) {
	callee, err := it.eval(e.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]Value, 0, len(e.Args))
	for _, a := range e.Args {
		v, err := it.eval(a, env)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}
	fn, ok := callee.(Callable)
	if !ok {
		return nil, runtimeError(e.Paren, ErrCallable)
	}
	if n := fn.Arity(); n != len(args) {
		err := fmt.Errorf("%w: expected %d arguments but got %d", ErrArity, n, len(args))
		return nil, runtimeError(e.Paren, err)
	}
	v, err := fn.Call(it, args)
	if err != nil {
		return nil, runtimeError(e.Paren, err)
	}
	return v, nil
}

func (it *Interpreter) evalGet(e *Get, env environ.Environment[Value]) (Value, error) {
	obj, err := it.eval(e.Object, env)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*Instance)
	if !ok {
		return nil, runtimeError(e.Name, ErrInstance)
	}
	v, err := inst.Get(e.Name.Lexeme)
	if err != nil {
		return nil, runtimeError(e.Name, err)
	}
	return v, nil
}

func (it *Interpreter) evalSet(e *Set, env environ.Environment[Value]) (Value, error) {
	obj, err := it.eval(e.Object, env)
	if err != nil {
		return nil, err
	}
	inst, ok := obj.(*Instance)
	if !ok {
		return nil, runtimeError(e.Name, ErrField)
	}
	v, err := it.eval(e.Value, env)
	if err != nil {
		return nil, err
	}
	inst.Set(e.Name.Lexeme, v)
	return v, nil
}

// evalSuper finds the superclass in the frame created when the class was
// declared and the receiver in the frame just below it.
func (it *Interpreter) evalSuper(e *Base, env environ.Environment[Value]) (Value, error) {
	dist, ok := it.locals[e]
	if !ok {
		return nil, runtimeError(e.Keyword, fmt.Errorf("super: %w", environ.ErrUndefined))
	}
	v, err := env.ResolveAt(dist, "super")
	if err != nil {
		return nil, runtimeError(e.Keyword, err)
	}
	super, ok := v.(*Class)
	if !ok {
		return nil, runtimeError(e.Keyword, ErrSuperclass)
	}
	v, err = env.ResolveAt(dist-1, "this")
	if err != nil {
		return nil, runtimeError(e.Keyword, err)
	}
	inst, ok := v.(*Instance)
	if !ok {
		return nil, runtimeError(e.Keyword, ErrInstance)
	}
	method := super.FindMethod(e.Method.Lexeme)
	if method == nil {
		return nil, runtimeError(e.Method, fmt.Errorf("%s: %w", e.Method.Lexeme, ErrProperty))
	}
	return method.Bind(inst), nil
}
