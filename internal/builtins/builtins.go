// Package builtins wires Myco's narrow external-library dispatch surface
// (spec.md §6): each native module alias exposes one call_<lib>_function
// entry point per function name, receiving the raw argument AST rather
// than evaluated values, exactly as the dispatch contract specifies. Only
// the dispatch surface is in scope; library internals are placeholders,
// per spec.md §9's "Library stubs" guidance ("most standard library entry
// points... are placeholders that log and return zero").
package builtins

import (
	"fmt"

	"github.com/mycolang/myco/internal/ast"
	"github.com/mycolang/myco/internal/environment"
	"github.com/mycolang/myco/internal/errors"
	"github.com/mycolang/myco/internal/eval"
	"github.com/mycolang/myco/internal/value"
)

// Install registers every peripheral library spec.md names as out of
// scope (math, text, io, test, json) as a native module alias on interp.
// Each is a thin, logging stub except json, which demonstrates the
// dispatch contract against a real value so it has at least one concrete,
// testable occupant.
func Install(interp *eval.Interpreter) {
	installStub(interp, "math")
	installStub(interp, "text")
	installStub(interp, "io")
	installStub(interp, "test")
	installJSON(interp)
}

// installStub registers a module alias whose every call (matched via the
// "*" wildcard function name) logs to stderr and returns none, the
// source's own "placeholder" convention for standard library entry
// points (spec.md §9).
func installStub(interp *eval.Interpreter, alias string) {
	interp.RegisterNative(alias, "*", func(it *eval.Interpreter, env *environment.Environment, fnName string, args []ast.Expression) (value.Value, *errors.RuntimeError) {
		fmt.Fprintf(it.Stderr, "%s.%s: library not implemented in this build\n", alias, fnName)
		return value.NoneValue, nil
	})
}

// installJSON gives the dispatch contract one real occupant: json.encode
// renders a value's textual form, json.decode is a placeholder returning
// none (full JSON parsing is library-internal, out of scope).
func installJSON(interp *eval.Interpreter) {
	interp.RegisterNative("json", "encode", func(it *eval.Interpreter, env *environment.Environment, fnName string, args []ast.Expression) (value.Value, *errors.RuntimeError) {
		if len(args) == 0 {
			return value.NewString("null"), nil
		}
		v, err := it.EvalForBuiltin(env, args[0])
		if err != nil {
			return nil, err
		}
		return value.NewString(v.String()), nil
	})
	interp.RegisterNative("json", "decode", func(it *eval.Interpreter, env *environment.Environment, fnName string, args []ast.Expression) (value.Value, *errors.RuntimeError) {
		return value.NoneValue, nil
	})
}
