package environment

import (
	"testing"

	"github.com/mycolang/myco/internal/value"
)

func TestDefineAndGet(t *testing.T) {
	env := New()
	env.Define("x", value.Integer{Value: 1})
	v, ok := env.Get("x")
	if !ok || v.(value.Integer).Value != 1 {
		t.Errorf("Get(x) = (%v, %v), want (1, true)", v, ok)
	}
}

func TestGetSearchesOuterScopes(t *testing.T) {
	outer := New()
	outer.Define("x", value.Integer{Value: 1})
	inner := NewEnclosed(outer)
	v, ok := inner.Get("x")
	if !ok || v.(value.Integer).Value != 1 {
		t.Errorf("inner.Get(x) did not find outer binding: (%v, %v)", v, ok)
	}
}

func TestSetOnUnboundNameFails(t *testing.T) {
	env := New()
	if err := env.Set("ghost", value.Integer{Value: 1}); err == nil {
		t.Error("Set on an unbound name should return an error, not create a binding")
	}
	if env.Has("ghost") {
		t.Error("Set on an unbound name must not silently define it")
	}
}

func TestSetUpdatesOuterBinding(t *testing.T) {
	outer := New()
	outer.Define("x", value.Integer{Value: 1})
	inner := NewEnclosed(outer)
	if err := inner.Set("x", value.Integer{Value: 2}); err != nil {
		t.Fatalf("Set(x) in inner scope failed: %v", err)
	}
	v, _ := outer.Get("x")
	if v.(value.Integer).Value != 2 {
		t.Errorf("outer binding not updated through inner.Set: got %v", v)
	}
}

func TestDefineShadowsOuterWithoutMutatingIt(t *testing.T) {
	outer := New()
	outer.Define("x", value.Integer{Value: 1})
	inner := NewEnclosed(outer)
	inner.Define("x", value.Integer{Value: 99})

	innerVal, _ := inner.GetLocal("x")
	outerVal, _ := outer.Get("x")
	if innerVal.(value.Integer).Value != 99 {
		t.Errorf("inner shadow = %v, want 99", innerVal)
	}
	if outerVal.(value.Integer).Value != 1 {
		t.Errorf("outer binding mutated by inner shadow: got %v", outerVal)
	}
}

func TestNamesPreservesInsertionOrder(t *testing.T) {
	env := New()
	env.Define("b", value.Integer{Value: 1})
	env.Define("a", value.Integer{Value: 2})
	names := env.Names()
	if len(names) != 2 || names[0] != "b" || names[1] != "a" {
		t.Errorf("Names() = %v, want [b a]", names)
	}
}

func TestOuterReturnsNilAtRoot(t *testing.T) {
	env := New()
	if env.Outer() != nil {
		t.Error("root Environment.Outer() should be nil")
	}
}
