package lox

import (
	"errors"
	"strconv"
)

var (
	ErrNumber     = errors.New("operand must be a number")
	ErrNumbers    = errors.New("operands must be numbers")
	ErrOperands   = errors.New("operands must be two numbers or two strings")
	ErrZero       = errors.New("division by zero")
	ErrCallable   = errors.New("can only call functions and classes")
	ErrArity      = errors.New("invalid number of arguments")
	ErrProperty   = errors.New("undefined property")
	ErrInstance   = errors.New("only instances have properties")
	ErrField      = errors.New("only instances have fields")
	ErrSuperclass = errors.New("superclass must be a class")
)

type Kind int

const (
	KindNil Kind = iota
	KindBool
	KindNumber
	KindString
	KindCallable
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindCallable:
		return "callable"
	case KindInstance:
		return "instance"
	default:
		return "unknown"
	}
}

// Value is implemented by Nil, Bool, Number, String, *Function, *Native,
// *Class and *Instance. All of them are comparable with ==.
type Value interface {
	Kind() Kind
	True() bool
	String() string
}

type Nil struct{}

func (Nil) Kind() Kind {
	return KindNil
}

func (Nil) True() bool {
	return false
}

func (Nil) String() string {
	return "nil"
}

type Bool bool

func (b Bool) Kind() Kind {
	return KindBool
}

func (b Bool) True() bool {
	return bool(b)
}

func (b Bool) String() string {
	return strconv.FormatBool(bool(b))
}

type Number float64

func (n Number) Kind() Kind {
	return KindNumber
}

func (n Number) True() bool {
	return true
}

func (n Number) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

type String string

func (s String) Kind() Kind {
	return KindString
}

func (s String) True() bool {
	return true
}

func (s String) String() string {
	return string(s)
}

func isTrue(v Value) bool {
	if v == nil {
		return false
	}
	return v.True()
}

func isEqual(left, right Value) bool {
	if left == nil {
		left = Nil{}
	}
	if right == nil {
		right = Nil{}
	}
	return left == right
}

func stringify(v Value) string {
	if v == nil {
		return Nil{}.String()
	}
	return v.String()
}
