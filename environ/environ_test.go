package environ

import (
	"errors"
	"testing"
)

func TestDefineResolve(t *testing.T) {
	top := Empty[int]()
	top.Define("a", 1)
	top.Define("a", 2)

	v, err := top.Resolve("a")
	if err != nil {
		t.Fatalf("unexpected error: %s", err)
	}
	if v != 2 {
		t.Fatalf("redefinition: want 2, got %d", v)
	}

	child := Enclosed(top)
	v, err = child.Resolve("a")
	if err != nil || v != 2 {
		t.Fatalf("lookup through parent: got %d (%v)", v, err)
	}
	if _, err := child.Resolve("b"); !errors.Is(err, ErrUndefined) {
		t.Fatalf("expected ErrUndefined, got %v", err)
	}
}

func TestAssign(t *testing.T) {
	top := Empty[string]()
	top.Define("name", "outer")
	child := Enclosed(Enclosed(top))

	if err := child.Assign("name", "changed"); err != nil {
		t.Fatalf("assign: %s", err)
	}
	if v, _ := top.Resolve("name"); v != "changed" {
		t.Fatalf("assign did not reach outer frame: %q", v)
	}
	if err := child.Assign("missing", "x"); !errors.Is(err, ErrUndefined) {
		t.Fatalf("assign must not create bindings: %v", err)
	}
	if _, err := top.Resolve("missing"); err == nil {
		t.Fatalf("binding created by failed assign")
	}
}

func TestResolveAt(t *testing.T) {
	top := Empty[int]()
	top.Define("x", 1)
	mid := Enclosed(top)
	mid.Define("x", 2)
	inner := Enclosed(mid)
	inner.Define("x", 3)

	tests := []struct {
		dist int
		want int
	}{
		{0, 3},
		{1, 2},
		{2, 1},
	}
	for _, tt := range tests {
		got, err := inner.ResolveAt(tt.dist, "x")
		if err != nil {
			t.Errorf("distance %d: %s", tt.dist, err)
			continue
		}
		if got != tt.want {
			t.Errorf("distance %d: want %d, got %d", tt.dist, tt.want, got)
		}
	}

	if err := inner.AssignAt(1, "x", 20); err != nil {
		t.Fatalf("assign at: %s", err)
	}
	if v, _ := mid.Resolve("x"); v != 20 {
		t.Fatalf("assign at distance 1: want 20, got %d", v)
	}
	if v, _ := inner.Resolve("x"); v != 3 {
		t.Fatalf("assign at distance 1 touched inner frame: %d", v)
	}
	if _, err := inner.ResolveAt(3, "x"); err == nil {
		t.Fatalf("expected error past the outermost frame")
	}
	if _, err := inner.ResolveAt(1, "y"); !errors.Is(err, ErrUndefined) {
		t.Fatalf("expected ErrUndefined, got %v", err)
	}
}

func TestAssignAtMissing(t *testing.T) {
	top := Empty[int]()
	top.Define("x", 1)
	inner := Enclosed(top)

	tests := []struct {
		dist  int
		ident string
	}{
		{0, "x"},
		{1, "y"},
		{0, "y"},
	}
	for _, tt := range tests {
		if err := inner.AssignAt(tt.dist, tt.ident, 10); !errors.Is(err, ErrUndefined) {
			t.Errorf("%s at distance %d: expected ErrUndefined, got %v", tt.ident, tt.dist, err)
		}
	}
	if _, err := inner.ResolveAt(0, "x"); !errors.Is(err, ErrUndefined) {
		t.Fatalf("failed assign at created a binding in the inner frame")
	}
	if v, _ := top.Resolve("x"); v != 1 {
		t.Fatalf("failed assign at changed the outer frame: %d", v)
	}
}
