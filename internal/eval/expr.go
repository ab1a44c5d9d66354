package eval

import (
	"github.com/mycolang/myco/internal/ast"
	"github.com/mycolang/myco/internal/environment"
	"github.com/mycolang/myco/internal/errors"
	"github.com/mycolang/myco/internal/value"
)

// EvalForBuiltin lets a native module (internal/builtins) evaluate an
// argument expression against the caller's scope, since the dispatch
// contract (spec.md §6) hands libraries the raw argument AST rather than
// pre-evaluated values.
func (it *Interpreter) EvalForBuiltin(env *environment.Environment, expr ast.Expression) (value.Value, *errors.RuntimeError) {
	return it.evalExpression(env, expr)
}

func (it *Interpreter) evalExpression(env *environment.Environment, expr ast.Expression) (value.Value, *errors.RuntimeError) {
	switch e := expr.(type) {
	case *ast.IntegerLiteral:
		return value.Integer{Value: e.Value}, nil
	case *ast.FloatLiteral:
		return value.Float{Value: e.Value}, nil
	case *ast.StringLiteral:
		return value.NewString(e.Value), nil
	case *ast.BooleanLiteral:
		return value.Boolean{Value: e.Value}, nil

	case *ast.Identifier:
		if v, ok := env.Get(e.Name); ok {
			return v, nil
		}
		return nil, errors.New(errors.UndefinedVariable, e.Line())

	case *ast.UnaryExpression:
		return it.evalUnary(env, e)

	case *ast.BinaryExpression:
		return it.evalBinary(env, e)

	case *ast.TernaryExpression:
		cond, err := it.evalExpression(env, e.Condition)
		if err != nil {
			return nil, err
		}
		if value.Truthy(cond) {
			return it.evalExpression(env, e.Then)
		}
		return it.evalExpression(env, e.Else)

	case *ast.ArrayLiteral:
		return it.evalArrayLiteral(env, e)

	case *ast.ObjectLiteral:
		return it.evalObjectLiteral(env, e)

	case *ast.ArrayAccess:
		return it.evalArrayAccess(env, e)

	case *ast.CallExpression:
		return it.evalCall(env, e)

	case *ast.DotExpression:
		return it.evalDot(env, e)

	case *ast.LambdaExpression:
		return &value.Function{Name: "<lambda>", Parameters: e.Parameters, Body: e.Body, Closure: env}, nil

	default:
		return nil, errors.New(errors.BadMemory, expr.Line())
	}
}

func (it *Interpreter) evalUnary(env *environment.Environment, e *ast.UnaryExpression) (value.Value, *errors.RuntimeError) {
	right, err := it.evalExpression(env, e.Right)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case "-":
		n, isInt, ok := value.AsNumber(right)
		if !ok {
			return nil, errors.New(errors.TypeMismatch, e.Line())
		}
		if isInt {
			return value.Integer{Value: -int64(n)}, nil
		}
		return value.Float{Value: -n}, nil
	case "not":
		return value.Boolean{Value: !value.Truthy(right)}, nil
	default:
		return nil, errors.New(errors.InvalidOp, e.Line())
	}
}

// evalBinary centralizes "+" overloading for string concatenation in one
// place, per spec.md §9's "Concatenation precedence" guidance: both
// operands are evaluated first, then inspected by tag.
func (it *Interpreter) evalBinary(env *environment.Environment, e *ast.BinaryExpression) (value.Value, *errors.RuntimeError) {
	switch e.Operator {
	case "and":
		left, err := it.evalExpression(env, e.Left)
		if err != nil {
			return nil, err
		}
		if !value.Truthy(left) {
			return value.Boolean{Value: false}, nil
		}
		right, err := it.evalExpression(env, e.Right)
		if err != nil {
			return nil, err
		}
		return value.Boolean{Value: value.Truthy(right)}, nil
	case "or":
		left, err := it.evalExpression(env, e.Left)
		if err != nil {
			return nil, err
		}
		if value.Truthy(left) {
			return value.Boolean{Value: true}, nil
		}
		right, err := it.evalExpression(env, e.Right)
		if err != nil {
			return nil, err
		}
		return value.Boolean{Value: value.Truthy(right)}, nil
	}

	left, err := it.evalExpression(env, e.Left)
	if err != nil {
		return nil, err
	}
	right, err := it.evalExpression(env, e.Right)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case "+":
		return evalPlus(left, right, e.Line())
	case "-", "*", "/", "%":
		return evalArithmetic(e.Operator, left, right, e.Line())
	case "==":
		return value.Boolean{Value: value.Equal(left, right)}, nil
	case "!=":
		return value.Boolean{Value: !value.Equal(left, right)}, nil
	case "<", ">", "<=", ">=":
		return evalRelational(e.Operator, left, right, e.Line())
	default:
		return nil, errors.New(errors.InvalidOp, e.Line())
	}
}

func evalPlus(left, right value.Value, line int) (value.Value, *errors.RuntimeError) {
	leftStr, leftIsStr := left.(*value.String)
	rightStr, rightIsStr := right.(*value.String)
	if leftIsStr || rightIsStr {
		var l, r string
		if leftIsStr {
			l = leftStr.Value
		} else {
			l = value.Decimal(left)
		}
		if rightIsStr {
			r = rightStr.Value
		} else {
			r = value.Decimal(right)
		}
		return value.NewString(l + r), nil
	}

	lf, lIsInt, lok := value.AsNumber(left)
	rf, rIsInt, rok := value.AsNumber(right)
	if !lok || !rok {
		return nil, errors.New(errors.TypeMismatch, line)
	}
	if lIsInt && rIsInt {
		return value.Integer{Value: int64(lf) + int64(rf)}, nil
	}
	return value.Float{Value: lf + rf}, nil
}

func evalArithmetic(op string, left, right value.Value, line int) (value.Value, *errors.RuntimeError) {
	lf, lIsInt, lok := value.AsNumber(left)
	rf, rIsInt, rok := value.AsNumber(right)
	if !lok || !rok {
		return nil, errors.New(errors.TypeMismatch, line)
	}

	bothInt := lIsInt && rIsInt
	li, ri := int64(lf), int64(rf)

	switch op {
	case "-":
		if bothInt {
			return value.Integer{Value: li - ri}, nil
		}
		return value.Float{Value: lf - rf}, nil
	case "*":
		if bothInt {
			return value.Integer{Value: li * ri}, nil
		}
		return value.Float{Value: lf * rf}, nil
	case "/":
		if bothInt {
			if ri == 0 {
				return value.Integer{Value: 0}, errors.New(errors.DivisionByZero, line)
			}
			return value.Integer{Value: li / ri}, nil
		}
		if rf == 0 {
			return value.Float{Value: 0}, errors.New(errors.DivisionByZero, line)
		}
		return value.Float{Value: lf / rf}, nil
	case "%":
		if !bothInt {
			return nil, errors.New(errors.TypeMismatch, line)
		}
		if ri == 0 {
			return value.Integer{Value: 0}, errors.New(errors.ModuloByZero, line)
		}
		return value.Integer{Value: li % ri}, nil
	default:
		return nil, errors.New(errors.InvalidOp, line)
	}
}

func evalRelational(op string, left, right value.Value, line int) (value.Value, *errors.RuntimeError) {
	if ls, ok := left.(*value.String); ok {
		rs, ok := right.(*value.String)
		if !ok {
			return nil, errors.New(errors.TypeMismatch, line)
		}
		return value.Boolean{Value: compareStrings(op, ls.Value, rs.Value)}, nil
	}

	lf, _, lok := value.AsNumber(left)
	rf, _, rok := value.AsNumber(right)
	if !lok || !rok {
		return nil, errors.New(errors.TypeMismatch, line)
	}
	switch op {
	case "<":
		return value.Boolean{Value: lf < rf}, nil
	case ">":
		return value.Boolean{Value: lf > rf}, nil
	case "<=":
		return value.Boolean{Value: lf <= rf}, nil
	case ">=":
		return value.Boolean{Value: lf >= rf}, nil
	default:
		return nil, errors.New(errors.InvalidOp, line)
	}
}

func compareStrings(op, a, b string) bool {
	switch op {
	case "<":
		return a < b
	case ">":
		return a > b
	case "<=":
		return a <= b
	case ">=":
		return a >= b
	}
	return false
}

func (it *Interpreter) evalArrayLiteral(env *environment.Environment, e *ast.ArrayLiteral) (value.Value, *errors.RuntimeError) {
	elems := make([]value.Value, len(e.Elements))
	kind := ""
	for i, el := range e.Elements {
		v, err := it.evalExpression(env, el)
		if err != nil {
			return nil, err
		}
		elems[i] = v
		switch v.(type) {
		case *value.String:
			if kind == "" {
				kind = "string"
			} else if kind != "string" {
				return nil, errors.New(errors.TypeMismatch, e.Line())
			}
		case value.Integer, value.Float:
			if kind == "" {
				kind = "number"
			} else if kind != "number" {
				return nil, errors.New(errors.TypeMismatch, e.Line())
			}
		}
	}
	return &value.Array{Elements: elems, Kind: kind}, nil
}

// evalObjectLiteral builds a value.Object from an ordered "key: expr" list,
// object's only construction syntax — this is what makes evalObjectAssign
// and evalDot's object branch reachable from parsed source.
func (it *Interpreter) evalObjectLiteral(env *environment.Environment, e *ast.ObjectLiteral) (value.Value, *errors.RuntimeError) {
	obj := value.NewObject()
	for i, key := range e.Keys {
		v, err := it.evalExpression(env, e.Values[i])
		if err != nil {
			return nil, err
		}
		obj.Set(key, v)
	}
	return obj, nil
}

func (it *Interpreter) evalArrayAccess(env *environment.Environment, e *ast.ArrayAccess) (value.Value, *errors.RuntimeError) {
	subject, err := it.evalExpression(env, e.Subject)
	if err != nil {
		return nil, err
	}
	arr, ok := subject.(*value.Array)
	if !ok {
		return nil, errors.New(errors.TypeMismatch, e.Line())
	}
	idxVal, err := it.evalExpression(env, e.Index)
	if err != nil {
		return nil, err
	}
	idx, ok := idxVal.(value.Integer)
	if !ok {
		return nil, errors.New(errors.TypeMismatch, e.Line())
	}
	if idx.Value < 0 || int(idx.Value) >= len(arr.Elements) {
		return nil, errors.New(errors.BadMemory, e.Line())
	}
	return arr.Elements[idx.Value], nil
}

// evalDot resolves "X.Y" outside of a call per spec.md §4.5: a module
// alias resolves Y as a qualified constant; an object X resolves Y as a
// property (none if absent); otherwise X must be a string and Y is a
// zero-argument string method.
func (it *Interpreter) evalDot(env *environment.Environment, e *ast.DotExpression) (value.Value, *errors.RuntimeError) {
	if ident, ok := e.Left.(*ast.Identifier); ok {
		if _, isModule := it.Modules.Get(ident.Name); isModule {
			if v, ok := env.Get(ident.Name + "." + e.Right); ok {
				return v, nil
			}
			return nil, errors.New(errors.FunctionCall, e.Line())
		}
	}

	subject, err := it.evalExpression(env, e.Left)
	if err != nil {
		return nil, err
	}

	if obj, ok := subject.(*value.Object); ok {
		if v, ok := obj.Get(e.Right); ok {
			return v, nil
		}
		return value.NoneValue, nil
	}

	s, ok := subject.(*value.String)
	if !ok {
		return nil, errors.New(errors.TypeMismatch, e.Line())
	}
	return it.stringMethod(s, e.Right, nil, e.Line())
}

// stringMethod implements the method table from spec.md §4.5. upper,
// lower, and trim mutate s in place; length reads it; join/split are
// recognized but, per the source's near-no-op baseline and spec.md §9's
// unresolved Open Question, do not construct arrays in this
// implementation — see SPEC_FULL.md / DESIGN.md for the resolution.
func (it *Interpreter) stringMethod(s *value.String, name string, args []value.Value, line int) (value.Value, *errors.RuntimeError) {
	switch name {
	case "length":
		return value.Integer{Value: s.Length()}, nil
	case "upper":
		s.Upper()
		return s, nil
	case "lower":
		s.Lower()
		return s, nil
	case "trim":
		s.Trim()
		return s, nil
	case "join", "split":
		return value.NoneValue, nil
	default:
		return nil, errors.New(errors.FunctionCall, line)
	}
}

// evalCall implements spec.md §4.5's call-name-resolution rules: a bare
// identifier callee looks up the function registry with module fallback;
// a dot-expression callee is either a module-qualified function call, a
// native library dispatch, or a string-method call with arguments.
func (it *Interpreter) evalCall(env *environment.Environment, e *ast.CallExpression) (value.Value, *errors.RuntimeError) {
	args := make([]value.Value, len(e.Arguments))
	for i, a := range e.Arguments {
		v, err := it.evalExpression(env, a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	switch callee := e.Callee.(type) {
	case *ast.Identifier:
		if fn, ok := env.Get(callee.Name); ok {
			if closure, ok := fn.(*value.Function); ok {
				return it.callFunction(closure, args, e.Line())
			}
		}
		fnDef, ok := it.Modules.Resolve(callee.Name)
		if !ok {
			return nil, errors.New(errors.FunctionCall, e.Line())
		}
		return it.callUserFunction(fnDef, args, e.Line())

	case *ast.DotExpression:
		if ident, ok := callee.Left.(*ast.Identifier); ok {
			if _, isModule := it.Modules.Get(ident.Name); isModule {
				qualified := ident.Name + "." + callee.Right
				if native, ok := it.natives[qualified]; ok {
					return native(it, env, callee.Right, e.Arguments)
				}
				if native, ok := it.natives[ident.Name+".*"]; ok {
					return native(it, env, callee.Right, e.Arguments)
				}
				fnDef, ok := it.Modules.Resolve(qualified)
				if !ok {
					return nil, errors.New(errors.FunctionCall, e.Line())
				}
				return it.callUserFunction(fnDef, args, e.Line())
			}
		}

		subject, err := it.evalExpression(env, callee.Left)
		if err != nil {
			return nil, err
		}
		s, ok := subject.(*value.String)
		if !ok {
			return nil, errors.New(errors.TypeMismatch, e.Line())
		}
		return it.stringMethod(s, callee.Right, args, e.Line())

	default:
		return nil, errors.New(errors.FunctionCall, e.Line())
	}
}

// callUserFunction binds args positionally into a fresh callee scope:
// extras are ignored, missing parameters default to none, and type
// markers in the parameter list are skipped (spec.md §4.5).
func (it *Interpreter) callUserFunction(fn *ast.FunctionDefinition, args []value.Value, line int) (value.Value, *errors.RuntimeError) {
	scope := environment.NewEnclosed(it.Global)
	bindParams(scope, fn.Parameters, args)

	outcome := it.evalBlock(scope, fn.Body)
	if outcome.Err != nil {
		return nil, outcome.Err
	}
	if outcome.Signal == SigReturn {
		return outcome.Return, nil
	}
	return value.NoneValue, nil
}

// callFunction invokes a closure value (lambda), binding into a scope
// enclosed by its captured environment rather than the interpreter's
// global scope, giving it proper lexical closure semantics.
func (it *Interpreter) callFunction(fn *value.Function, args []value.Value, line int) (value.Value, *errors.RuntimeError) {
	closureEnv, _ := fn.Closure.(*environment.Environment)
	if closureEnv == nil {
		closureEnv = it.Global
	}
	scope := environment.NewEnclosed(closureEnv)
	bindParams(scope, fn.Parameters, args)

	outcome := it.evalBlock(scope, fn.Body)
	if outcome.Err != nil {
		return nil, outcome.Err
	}
	if outcome.Signal == SigReturn {
		return outcome.Return, nil
	}
	return value.NoneValue, nil
}

func bindParams(scope *environment.Environment, params []*ast.Parameter, args []value.Value) {
	for i, param := range params {
		if i < len(args) {
			scope.Define(param.Name, copyOnBind(args[i]))
		} else {
			scope.Define(param.Name, value.NoneValue)
		}
	}
}
