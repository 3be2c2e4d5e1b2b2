package lox

import (
	"fmt"

	"github.com/midbel/lox/environ"
)

type Callable interface {
	Value
	Arity() int
	Call(*Interpreter, []Value) (Value, error)
}

type Function struct {
	decl    *FunctionStmt
	closure environ.Environment[Value]
	init    bool
}

func NewFunction(decl *FunctionStmt, closure environ.Environment[Value], init bool) *Function {
	return &Function{
		decl:    decl,
		closure: closure,
		init:    init,
	}
}

func (f *Function) Kind() Kind {
	return KindCallable
}

func (f *Function) True() bool {
	return true
}

func (f *Function) String() string {
	return fmt.Sprintf("<fn %s>", f.decl.Name.Lexeme)
}

func (f *Function) Arity() int {
	return len(f.decl.Params)
}

// Bind returns a copy of f whose closure has an extra frame defining this.
func (f *Function) Bind(inst *Instance) *Function {
	env := environ.Enclosed(f.closure)
	env.Define("this", inst)
	return NewFunction(f.decl, env, f.init)
}

func (f *Function) Call(it *Interpreter, args []Value) (Value, error) {
	env := environ.Enclosed(f.closure)
	for i, p := range f.decl.Params {
		env.Define(p.Lexeme, args[i])
	}
	res, err := it.executeBlock(f.decl.Body, env)
	if err != nil {
		return nil, err
	}
	if f.init {
		return f.closure.ResolveAt(0, "this")
	}
	if res.returning {
		return res.value, nil
	}
	return Nil{}, nil
}

type Native struct {
	Name  string
	arity int
	fn    func([]Value) (Value, error)
}

func NewNative(name string, arity int, fn func([]Value) (Value, error)) *Native {
	return &Native{
		Name:  name,
		arity: arity,
		fn:    fn,
	}
}

func (n *Native) Kind() Kind {
	return KindCallable
}

func (n *Native) True() bool {
	return true
}

func (n *Native) String() string {
	return "<native fn>"
}

func (n *Native) Arity() int {
	return n.arity
}

func (n *Native) Call(_ *Interpreter, args []Value) (Value, error) {
	return n.fn(args)
}

type Class struct {
	Name    string
	Super   *Class
	Methods map[string]*Function
}

func NewClass(name string, super *Class, methods map[string]*Function) *Class {
	return &Class{
		Name:    name,
		Super:   super,
		Methods: methods,
	}
}

func (c *Class) Kind() Kind {
	return KindCallable
}

func (c *Class) True() bool {
	return true
}

func (c *Class) String() string {
	return c.Name
}

// FindMethod looks up name in the class own methods then in its ancestors.
func (c *Class) FindMethod(name string) *Function {
	for k := c; k != nil; k = k.Super {
		if fn, ok := k.Methods[name]; ok {
			return fn
		}
	}
	return nil
}

func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

func (c *Class) Call(it *Interpreter, args []Value) (Value, error) {
	inst := NewInstance(c)
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.Bind(inst).Call(it, args); err != nil {
			return nil, err
		}
	}
	return inst, nil
}

type Instance struct {
	class  *Class
	fields map[string]Value
}

func NewInstance(class *Class) *Instance {
	return &Instance{
		class:  class,
		fields: make(map[string]Value),
	}
}

func (i *Instance) Kind() Kind {
	return KindInstance
}

func (i *Instance) True() bool {
	return true
}

func (i *Instance) String() string {
	return fmt.Sprintf("%s instance", i.class.Name)
}

func (i *Instance) Class() *Class {
	return i.class
}

func (i *Instance) Get(name string) (Value, error) {
	if v, ok := i.fields[name]; ok {
		return v, nil
	}
	if fn := i.class.FindMethod(name); fn != nil {
		return fn.Bind(i), nil
	}
	return nil, fmt.Errorf("%s: %w", name, ErrProperty)
}

func (i *Instance) Set(name string, value Value) {
	i.fields[name] = value
}
