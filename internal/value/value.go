// Package value implements Myco's tagged runtime value model: a closed
// sum type with none, integer, float, boolean, string, array, object and
// function-closure variants.
package value

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mycolang/myco/internal/ast"
	"golang.org/x/text/unicode/norm"
)

// Value is satisfied by every runtime value kind.
type Value interface {
	Type() string
	String() string
}

// None is the singleton absence-of-value, used for bare return, missing
// parameters, and uninitialized object slots.
type None struct{}

func (None) Type() string   { return "none" }
func (None) String() string { return "none" }

// Singleton shared by every caller; None carries no state.
var NoneValue = None{}

type Integer struct {
	Value int64
}

func (i Integer) Type() string   { return "int" }
func (i Integer) String() string { return strconv.FormatInt(i.Value, 10) }

// Float is a native float64 value. spec.md §9 explicitly sanctions
// dropping the source's fixed-point×10^6 integer encoding in favor of a
// native floating-point tagged variant; this implementation does so and
// formats with the shortest round-tripping representation, matching the
// display precision the tests expect.
type Float struct {
	Value float64
}

func (f Float) Type() string   { return "float" }
func (f Float) String() string { return strconv.FormatFloat(f.Value, 'g', -1, 64) }

type Boolean struct {
	Value bool
}

func (b Boolean) Type() string { return "bool" }
func (b Boolean) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

// String is a mutable string binding: upper/lower/trim mutate in place
// per spec.md §4.5, so the value is held behind a pointer-receiver box
// rather than copied value semantics for these specific methods, while
// ordinary assignment still produces an independent copy (Clone).
type String struct {
	Value string
}

func (s *String) Type() string   { return "string" }
func (s *String) String() string { return s.Value }

// NewString allocates an independent string value, normalizing to NFC so
// that byte length stays well-defined across composed/decomposed input.
func NewString(v string) *String {
	return &String{Value: norm.NFC.String(v)}
}

// Clone produces an independent copy, matching the copy-on-assign
// semantics spec.md §3 requires for strings.
func (s *String) Clone() *String {
	return &String{Value: s.Value}
}

func (s *String) Upper() { s.Value = norm.NFC.String(strings.ToUpper(s.Value)) }
func (s *String) Lower() { s.Value = norm.NFC.String(strings.ToLower(s.Value)) }
func (s *String) Trim()  { s.Value = norm.NFC.String(strings.TrimSpace(s.Value)) }
func (s *String) Length() int64 { return int64(len(s.Value)) }

// Array is an ordered sequence whose number and string elements are never
// mixed. Kind reports which of the two it holds; spec.md §3 requires the
// flag, not per-element tags.
type Array struct {
	Elements []Value
	Kind     string // "number", "string", or "" if no element is either
}

func (a *Array) Type() string { return "array" }
func (a *Array) String() string {
	parts := make([]string, len(a.Elements))
	for i, e := range a.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Clone performs the copy-on-assign duplication spec.md §3 requires.
func (a *Array) Clone() *Array {
	elems := make([]Value, len(a.Elements))
	copy(elems, a.Elements)
	return &Array{Elements: elems, Kind: a.Kind}
}

// Object is an insertion-ordered property mapping.
type Object struct {
	keys   []string
	values map[string]Value
}

func NewObject() *Object {
	return &Object{values: make(map[string]Value)}
}

func (o *Object) Type() string { return "object" }
func (o *Object) String() string {
	parts := make([]string, 0, len(o.keys))
	for _, k := range o.keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, o.values[k].String()))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (o *Object) Set(key string, v Value) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

func (o *Object) Get(key string) (Value, bool) {
	v, ok := o.values[key]
	return v, ok
}

func (o *Object) Keys() []string { return o.keys }

// Clone copies the property map, preserving insertion order; the property
// values themselves are shared with the original, not cloned.
func (o *Object) Clone() *Object {
	clone := NewObject()
	for _, k := range o.keys {
		clone.Set(k, o.values[k])
	}
	return clone
}

// Function is a closure: ordered parameter list, body AST reference, and
// the scope captured at definition time. Closure is an interface{} to avoid
// an import cycle with internal/environment; callers type-assert it back.
type Function struct {
	Name       string
	Parameters []*ast.Parameter
	Body       *ast.BlockStatement
	Closure    interface{}
}

func (f *Function) Type() string   { return "function" }
func (f *Function) String() string { return fmt.Sprintf("<function %s>", f.Name) }

// Truthy implements spec.md §4.3's truthiness rule: booleans map directly,
// numbers are truthy iff non-zero, strings iff non-empty, none is falsy.
func Truthy(v Value) bool {
	switch val := v.(type) {
	case Boolean:
		return val.Value
	case Integer:
		return val.Value != 0
	case Float:
		return val.Value != 0
	case *String:
		return val.Value != ""
	case None:
		return false
	default:
		return true
	}
}

// Equal implements spec.md §4.3 equality: defined between two numbers, two
// strings (byte-for-byte), two booleans; cross-kind comparisons are false.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Integer:
		switch bv := b.(type) {
		case Integer:
			return av.Value == bv.Value
		case Float:
			return float64(av.Value) == bv.Value
		}
		return false
	case Float:
		switch bv := b.(type) {
		case Float:
			return av.Value == bv.Value
		case Integer:
			return av.Value == float64(bv.Value)
		}
		return false
	case *String:
		if bv, ok := b.(*String); ok {
			return av.Value == bv.Value
		}
		return false
	case Boolean:
		if bv, ok := b.(Boolean); ok {
			return av.Value == bv.Value
		}
		return false
	case None:
		_, ok := b.(None)
		return ok
	}
	return false
}

// AsNumber reports a value's numeric contents for arithmetic, in float64
// form, plus whether the value is an integer so the caller can decide the
// result kind (int+int stays int; anything touching float promotes).
func AsNumber(v Value) (f float64, isInt bool, ok bool) {
	switch val := v.(type) {
	case Integer:
		return float64(val.Value), true, true
	case Float:
		return val.Value, false, true
	}
	return 0, false, false
}

// Decimal renders v as its decimal string form for use as the non-string
// operand of a "+" string concatenation (spec.md §4.3).
func Decimal(v Value) string {
	switch val := v.(type) {
	case Integer:
		return strconv.FormatInt(val.Value, 10)
	case Float:
		return strconv.FormatFloat(val.Value, 'g', -1, 64)
	case Boolean:
		return val.String()
	case None:
		return "none"
	case *String:
		return val.Value
	}
	return v.String()
}
