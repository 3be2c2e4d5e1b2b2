package environ

import (
	"errors"
	"fmt"
)

var ErrUndefined = errors.New("undefined variable")

type Environment[T any] interface {
	Define(string, T)
	Assign(string, T) error
	Resolve(string) (T, error)
	AssignAt(int, string, T) error
	ResolveAt(int, string) (T, error)
	Parent() Environment[T]
}

type Env[T any] struct {
	parent Environment[T]
	values map[string]T
}

func Empty[T any]() Environment[T] {
	return Enclosed[T](nil)
}

func Enclosed[T any](parent Environment[T]) Environment[T] {
	return &Env[T]{
		parent: parent,
		values: make(map[string]T),
	}
}

func (e *Env[T]) Parent() Environment[T] {
	return e.parent
}

// Define never fails: an existing binding in this frame is overwritten.
func (e *Env[T]) Define(ident string, value T) {
	e.values[ident] = value
}

func (e *Env[T]) Assign(ident string, value T) error {
	if _, ok := e.values[ident]; ok {
		e.values[ident] = value
		return nil
	}
	if e.parent != nil {
		return e.parent.Assign(ident, value)
	}
	return fmt.Errorf("%s: %w", ident, ErrUndefined)
}

func (e *Env[T]) Resolve(ident string) (T, error) {
	v, ok := e.values[ident]
	if ok {
		return v, nil
	}
	if e.parent != nil {
		return e.parent.Resolve(ident)
	}
	return v, fmt.Errorf("%s: %w", ident, ErrUndefined)
}

func (e *Env[T]) ResolveAt(dist int, ident string) (T, error) {
	var t T
	env, err := Ancestor[T](e, dist)
	if err != nil {
		return t, err
	}
	x, ok := env.(*Env[T])
	if !ok {
		return env.Resolve(ident)
	}
	v, ok := x.values[ident]
	if !ok {
		return t, fmt.Errorf("%s: %w", ident, ErrUndefined)
	}
	return v, nil
}

func (e *Env[T]) AssignAt(dist int, ident string, value T) error {
	env, err := Ancestor[T](e, dist)
	if err != nil {
		return err
	}
	x, ok := env.(*Env[T])
	if !ok {
		return env.Assign(ident, value)
	}
	if _, ok := x.values[ident]; !ok {
		return fmt.Errorf("%s: %w", ident, ErrUndefined)
	}
	x.values[ident] = value
	return nil
}

// Ancestor walks exactly dist parent links starting at env.
func Ancestor[T any](env Environment[T], dist int) (Environment[T], error) {
	for i := 0; i < dist; i++ {
		if env == nil {
			break
		}
		env = env.Parent()
	}
	if env == nil {
		return nil, fmt.Errorf("no frame at distance %d", dist)
	}
	return env, nil
}
