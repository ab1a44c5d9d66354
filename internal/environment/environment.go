// Package environment implements Myco's lexical scope stack: a chain of
// insertion-ordered binding maps in the common Get/Set/Define/Has
// outer-chain shape of tree-walk evaluators, with case-sensitive
// identifiers (Myco has no case-folding convention).
package environment

import (
	"fmt"

	"github.com/mycolang/myco/internal/value"
)

// Environment is a single scope plus a pointer to its enclosing scope.
type Environment struct {
	store map[string]value.Value
	order []string
	outer *Environment
}

// New creates a root-level environment with no outer scope.
func New() *Environment {
	return &Environment{store: make(map[string]value.Value)}
}

// NewEnclosed creates a scope nested inside outer.
func NewEnclosed(outer *Environment) *Environment {
	return &Environment{store: make(map[string]value.Value), outer: outer}
}

// Get resolves name inner-to-outer.
func (e *Environment) Get(name string) (value.Value, bool) {
	if v, ok := e.store[name]; ok {
		return v, true
	}
	if e.outer != nil {
		return e.outer.Get(name)
	}
	return nil, false
}

// Define creates or overwrites a binding in the current (innermost) scope.
func (e *Environment) Define(name string, v value.Value) {
	if _, exists := e.store[name]; !exists {
		e.order = append(e.order, name)
	}
	e.store[name] = v
}

// Set updates the most recent binding for name, searching outward. It
// returns an error if name is not bound in any enclosing scope.
//
// This is the resolution of spec.md §9's assign-to-unbound Open Question:
// assign never creates a binding; only let does. See SPEC_FULL.md §4.5.
func (e *Environment) Set(name string, v value.Value) error {
	if _, ok := e.store[name]; ok {
		e.store[name] = v
		return nil
	}
	if e.outer != nil {
		return e.outer.Set(name, v)
	}
	return fmt.Errorf("undefined variable: %s", name)
}

// Has reports whether name is bound in this scope or any enclosing one.
func (e *Environment) Has(name string) bool {
	_, ok := e.Get(name)
	return ok
}

// GetLocal looks up name in only the current scope, without searching outer
// scopes; used to detect shadowing.
func (e *Environment) GetLocal(name string) (value.Value, bool) {
	v, ok := e.store[name]
	return v, ok
}

// Outer returns the enclosing scope, or nil at the root.
func (e *Environment) Outer() *Environment {
	return e.outer
}

// Names returns the bindings introduced directly in this scope, in
// insertion order.
func (e *Environment) Names() []string {
	return append([]string(nil), e.order...)
}
