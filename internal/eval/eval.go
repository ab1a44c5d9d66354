// Package eval implements Myco's tree-walking evaluator: statement
// execution, expression evaluation, name resolution through lexical
// scopes and the module registry, and the try/catch error-propagation
// contract from spec.md §4.5/§7.
package eval

import (
	"fmt"
	"io"
	"strings"

	"github.com/mycolang/myco/internal/ast"
	"github.com/mycolang/myco/internal/environment"
	"github.com/mycolang/myco/internal/errors"
	"github.com/mycolang/myco/internal/lexer"
	"github.com/mycolang/myco/internal/module"
	"github.com/mycolang/myco/internal/parser"
	"github.com/mycolang/myco/internal/value"
)

const maxLoopIterations = 1_000_000

// Signal is the unwind reason a statement's evaluation may request,
// replacing the source's global return/break/continue flags with an
// explicit per-call result per spec.md §9's "Return flow" guidance.
type Signal int

const (
	SigNone Signal = iota
	SigReturn
	SigBreak
	SigContinue
)

// Outcome is the result of evaluating one statement or block.
type Outcome struct {
	Signal Signal
	Return value.Value
	Err    *errors.RuntimeError
}

func none() Outcome { return Outcome{} }

func errOutcome(err *errors.RuntimeError) Outcome {
	return Outcome{Err: err}
}

// NativeFunc is a library function exposed through the builtins dispatch
// contract (spec.md §6 "Library dispatch surface"): it receives the
// called function's name and its raw, unevaluated argument AST, matching
// call_<lib>_function(fn_name, args_ast).
type NativeFunc func(interp *Interpreter, env *environment.Environment, fnName string, args []ast.Expression) (value.Value, *errors.RuntimeError)

// Interpreter owns every piece of process-wide runtime state spec.md §5
// calls out as singletons: the global environment, the module/function
// registry, and the loop-context stack. There is no stored error state: an
// error travels in the Outcome (or return value) of the call that raised it.
type Interpreter struct {
	Global   *environment.Environment
	Modules  *module.Registry
	Stdout   io.Writer
	Stderr   io.Writer
	loops    []*loopContext
	natives  map[string]NativeFunc
	baseDir  string
}

type loopContext struct {
	varName  string
	current  float64
	end      float64
	step     float64
	iter     int64
	line     int
}

// New creates an Interpreter rooted at baseDir, the directory "use"
// statements in the entry script resolve relative to.
func New(baseDir string, stdout, stderr io.Writer) *Interpreter {
	return &Interpreter{
		Global:  environment.New(),
		Modules: module.New(baseDir),
		Stdout:  stdout,
		Stderr:  stderr,
		natives: make(map[string]NativeFunc),
		baseDir: baseDir,
	}
}

// RegisterNative installs a native library function under "alias.fnName",
// the shape the evaluator dispatches "lib.fn(args)" calls through.
func (it *Interpreter) RegisterNative(alias, fnName string, fn NativeFunc) {
	it.Modules.RegisterNative(alias, nil)
	if it.natives == nil {
		it.natives = make(map[string]NativeFunc)
	}
	it.natives[alias+"."+fnName] = fn
}

// Reset discards every singleton, per spec.md §5's reset contract, so
// independent program runs never observe each other's state.
func (it *Interpreter) Reset() {
	it.Global = environment.New()
	it.Modules.Reset(it.baseDir)
	it.loops = nil
	it.natives = make(map[string]NativeFunc)
}

// Run evaluates an already parsed program's top-level statements. Per
// spec.md §7, an error escaping a top-level statement is printed once and
// recovery continues at the next top-level statement. It reports whether
// every top-level statement ran clean, so a caller (the CLI) can map an
// uncaught runtime error to a non-zero exit status per spec.md §6.
func (it *Interpreter) Run(program *ast.Program) bool {
	ok := true
	for _, stmt := range program.Statements {
		outcome := it.evalStatement(it.Global, stmt)
		if outcome.Err != nil {
			fmt.Fprintln(it.Stderr, outcome.Err.Format())
			ok = false
		}
	}
	return ok
}

// parseSource is the parse function module.Registry.Load needs; kept here
// (not in package module) so module stays free of a lexer/parser import.
func (it *Interpreter) parseSource(source string) (*ast.Program, error) {
	l := lexer.New(source)
	p := parser.New(l)
	prog := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		return nil, fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return prog, nil
}

// evalBlock pushes a scope (spec.md §9's "safer default": scope every
// block) and evaluates statements in order, short-circuiting on the first
// error or unwind signal.
func (it *Interpreter) evalBlock(env *environment.Environment, block *ast.BlockStatement) Outcome {
	inner := environment.NewEnclosed(env)
	for _, stmt := range block.Statements {
		outcome := it.evalStatement(inner, stmt)
		if outcome.Err != nil || outcome.Signal != SigNone {
			return outcome
		}
	}
	return none()
}

func (it *Interpreter) evalStatement(env *environment.Environment, stmt ast.Statement) Outcome {
	switch s := stmt.(type) {
	case *ast.LetStatement:
		v, err := it.evalExpression(env, s.Value)
		if err != nil {
			return errOutcome(err)
		}
		env.Define(s.Name, copyOnBind(v))
		return none()

	case *ast.AssignStatement:
		v, err := it.evalExpression(env, s.Value)
		if err != nil {
			return errOutcome(err)
		}
		if setErr := env.Set(s.Name, copyOnBind(v)); setErr != nil {
			return errOutcome(errors.New(errors.UndefinedVariable, s.Line()))
		}
		return none()

	case *ast.ArrayAssignStatement:
		return it.evalArrayAssign(env, s)

	case *ast.ObjectAssignStatement:
		return it.evalObjectAssign(env, s)

	case *ast.ExpressionStatement:
		_, err := it.evalExpression(env, s.Expr)
		if err != nil {
			return errOutcome(err)
		}
		return none()

	case *ast.IfStatement:
		cond, err := it.evalExpression(env, s.Condition)
		if err != nil {
			return errOutcome(err)
		}
		if value.Truthy(cond) {
			return it.evalBlock(env, s.Then)
		}
		if s.Else != nil {
			return it.evalBlock(env, s.Else)
		}
		return none()

	case *ast.WhileStatement:
		return it.evalWhile(env, s)

	case *ast.ForStatement:
		return it.evalFor(env, s)

	case *ast.ReturnStatement:
		if s.Value == nil {
			return Outcome{Signal: SigReturn, Return: value.NoneValue}
		}
		v, err := it.evalExpression(env, s.Value)
		if err != nil {
			return errOutcome(err)
		}
		return Outcome{Signal: SigReturn, Return: v}

	case *ast.PrintStatement:
		return it.evalPrint(env, s)

	case *ast.SwitchStatement:
		return it.evalSwitch(env, s)

	case *ast.TryStatement:
		return it.evalTry(env, s)

	case *ast.FunctionDefinition:
		it.Modules.RegisterFunction(s.Name, s)
		return none()

	case *ast.UseStatement:
		return it.evalUse(env, s)

	case *ast.BlockStatement:
		return it.evalBlock(env, s)

	default:
		return errOutcome(errors.New(errors.BadMemory, stmt.Line()))
	}
}

func (it *Interpreter) evalWhile(env *environment.Environment, s *ast.WhileStatement) Outcome {
	ctx := &loopContext{line: s.Line()}
	it.loops = append(it.loops, ctx)
	defer func() { it.loops = it.loops[:len(it.loops)-1] }()

	for {
		cond, err := it.evalExpression(env, s.Condition)
		if err != nil {
			return errOutcome(err)
		}
		if !value.Truthy(cond) {
			return none()
		}

		ctx.iter++
		if ctx.iter > maxLoopIterations {
			return errOutcome(errors.New(errors.BadMemory, s.Line()))
		}

		outcome := it.evalBlock(env, s.Body)
		if outcome.Err != nil {
			return outcome
		}
		switch outcome.Signal {
		case SigBreak:
			return none()
		case SigReturn:
			return outcome
		}
	}
}

func (it *Interpreter) evalFor(env *environment.Environment, s *ast.ForStatement) Outcome {
	startVal, err := it.evalExpression(env, s.Start)
	if err != nil {
		return errOutcome(err)
	}
	endVal, err := it.evalExpression(env, s.End)
	if err != nil {
		return errOutcome(err)
	}
	start, startIsInt, ok := value.AsNumber(startVal)
	if !ok {
		return errOutcome(errors.New(errors.TypeMismatch, s.Line()))
	}
	end, endIsInt, ok := value.AsNumber(endVal)
	if !ok {
		return errOutcome(errors.New(errors.TypeMismatch, s.Line()))
	}

	step := 1.0
	stepIsInt := true
	if s.Step != nil {
		stepVal, err := it.evalExpression(env, s.Step)
		if err != nil {
			return errOutcome(err)
		}
		step, stepIsInt, ok = value.AsNumber(stepVal)
		if !ok {
			return errOutcome(errors.New(errors.TypeMismatch, s.Line()))
		}
	}

	isInt := startIsInt && endIsInt && stepIsInt
	ctx := &loopContext{varName: s.Variable, current: start, end: end, step: step, line: s.Line()}
	it.loops = append(it.loops, ctx)
	defer func() { it.loops = it.loops[:len(it.loops)-1] }()

	for (step > 0 && ctx.current <= ctx.end) || (step < 0 && ctx.current >= ctx.end) {
		if step == 0 {
			break
		}
		ctx.iter++
		if ctx.iter > maxLoopIterations {
			return errOutcome(errors.New(errors.BadMemory, s.Line()))
		}

		inner := environment.NewEnclosed(env)
		if isInt {
			inner.Define(s.Variable, value.Integer{Value: int64(ctx.current)})
		} else {
			inner.Define(s.Variable, value.Float{Value: ctx.current})
		}

		outcome := it.evalBlock(inner, s.Body)
		if outcome.Err != nil {
			return outcome
		}
		switch outcome.Signal {
		case SigBreak:
			return none()
		case SigReturn:
			return outcome
		}

		ctx.current += step
	}
	return none()
}

func (it *Interpreter) evalSwitch(env *environment.Environment, s *ast.SwitchStatement) Outcome {
	subject, err := it.evalExpression(env, s.Subject)
	if err != nil {
		return errOutcome(err)
	}
	for _, c := range s.Cases {
		caseVal, cerr := it.evalExpression(env, c.Value)
		if cerr != nil {
			return errOutcome(cerr)
		}
		if value.Equal(subject, caseVal) {
			return it.evalBlock(env, c.Body)
		}
	}
	if s.Default != nil {
		return it.evalBlock(env, s.Default)
	}
	return none()
}

// evalTry implements spec.md §4.5's try/catch contract: evaluate the body
// in a scope that rolls back on exit, and if it raised, bind the code to
// the catch variable in a fresh scope and evaluate the handler. The error
// state is cleared unconditionally on exit, whether or not the body
// raised, matching the §8 testable property.
func (it *Interpreter) evalTry(env *environment.Environment, s *ast.TryStatement) Outcome {
	bodyOutcome := it.evalBlock(env, s.Body)
	if bodyOutcome.Err == nil {
		return bodyOutcome
	}

	handlerEnv := environment.NewEnclosed(env)
	handlerEnv.Define(s.ErrorVar, value.ErrorCode{Code: bodyOutcome.Err.Code, Line: bodyOutcome.Err.Line})
	return it.evalBlock(handlerEnv, s.Handler)
}

func (it *Interpreter) evalPrint(env *environment.Environment, s *ast.PrintStatement) Outcome {
	parts := make([]string, 0, len(s.Arguments))
	for _, arg := range s.Arguments {
		v, err := it.evalExpression(env, arg)
		if err != nil {
			return errOutcome(err)
		}
		parts = append(parts, displayString(v))
	}
	fmt.Fprintln(it.Stdout, strings.Join(parts, " "))
	return none()
}

// displayString renders a value for print: string literals/bindings print
// unquoted contents, numbers print decimal, error codes print their
// ANSI-colored description (spec.md §4.5).
func displayString(v value.Value) string {
	if s, ok := v.(*value.String); ok {
		return s.Value
	}
	return v.String()
}

func (it *Interpreter) evalUse(env *environment.Environment, s *ast.UseStatement) Outcome {
	if err := it.loadModule(s.Path, s.Alias); err != nil {
		return errOutcome(errors.New(errors.FunctionCall, s.Line()))
	}
	return none()
}

// loadModule loads path under alias if it isn't already registered,
// evaluating its top-level "let"s and recursing into its own top-level
// "use"s (spec.md §4.5(g) nested imports) so a module's own dependencies
// are loaded before its functions can ever run.
func (it *Interpreter) loadModule(path, alias string) error {
	if _, exists := it.Modules.Get(alias); exists {
		return nil
	}

	return it.Modules.Load(path, alias, it.parseSource, func(loadedAlias string, prog *ast.Program) error {
		for _, topStmt := range prog.Statements {
			switch ts := topStmt.(type) {
			case *ast.LetStatement:
				v, verr := it.evalExpression(it.Global, ts.Value)
				if verr != nil {
					return verr
				}
				it.Global.Define(loadedAlias+"."+ts.Name, copyOnBind(v))
			case *ast.UseStatement:
				if err := it.loadModule(ts.Path, ts.Alias); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

func (it *Interpreter) evalArrayAssign(env *environment.Environment, s *ast.ArrayAssignStatement) Outcome {
	subject, err := it.evalExpression(env, s.Subject)
	if err != nil {
		return errOutcome(err)
	}
	arr, ok := subject.(*value.Array)
	if !ok {
		return errOutcome(errors.New(errors.TypeMismatch, s.Line()))
	}
	idxVal, err := it.evalExpression(env, s.Index)
	if err != nil {
		return errOutcome(err)
	}
	idx, ok := idxVal.(value.Integer)
	if !ok {
		return errOutcome(errors.New(errors.TypeMismatch, s.Line()))
	}
	if idx.Value < 0 || int(idx.Value) >= len(arr.Elements) {
		return errOutcome(errors.New(errors.BadMemory, s.Line()))
	}
	v, err := it.evalExpression(env, s.Value)
	if err != nil {
		return errOutcome(err)
	}
	arr.Elements[idx.Value] = copyOnBind(v)
	return none()
}

func (it *Interpreter) evalObjectAssign(env *environment.Environment, s *ast.ObjectAssignStatement) Outcome {
	subject, err := it.evalExpression(env, s.Subject)
	if err != nil {
		return errOutcome(err)
	}
	obj, ok := subject.(*value.Object)
	if !ok {
		return errOutcome(errors.New(errors.TypeMismatch, s.Line()))
	}
	v, err := it.evalExpression(env, s.Value)
	if err != nil {
		return errOutcome(err)
	}
	obj.Set(s.Property, copyOnBind(v))
	return none()
}

// copyOnBind implements spec.md §3's "assigning an array or string
// duplicates content semantics" rule.
func copyOnBind(v value.Value) value.Value {
	switch val := v.(type) {
	case *value.String:
		return val.Clone()
	case *value.Array:
		return val.Clone()
	case *value.Object:
		return val.Clone()
	default:
		return v
	}
}
