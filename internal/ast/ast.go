// Package ast defines the Myco abstract syntax tree: a variant-tag node
// model where every node owns its children exclusively.
package ast

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/mycolang/myco/internal/lexer"
)

// Node is satisfied by every AST node.
type Node interface {
	TokenLiteral() string
	String() string
	Line() int
}

// Expression-producing nodes evaluate to a Value.
type Expression interface {
	Node
	expressionNode()
}

// Statement-producing nodes execute for effect.
type Statement interface {
	Node
	statementNode()
}

// Program is the AST root: an ordered block of top-level statements.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) Line() int {
	if len(p.Statements) > 0 {
		return p.Statements[0].Line()
	}
	return 0
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

type Base struct {
	Tok lexer.Token
}

func (b Base) TokenLiteral() string { return b.Tok.Literal }
func (b Base) Line() int            { return b.Tok.Pos.Line }

// ---- Expressions ----

type IntegerLiteral struct {
	Base
	Value int64
}

func (n *IntegerLiteral) expressionNode() {}
func (n *IntegerLiteral) String() string  { return n.Tok.Literal }

type FloatLiteral struct {
	Base
	Value float64
}

func (n *FloatLiteral) expressionNode() {}
func (n *FloatLiteral) String() string  { return n.Tok.Literal }

// StringLiteral's Value is the decoded contents (quotes stripped, escapes
// resolved); Raw keeps the original quoted lexeme for literality checks.
type StringLiteral struct {
	Base
	Value string
	Raw   string
}

func (n *StringLiteral) expressionNode() {}
func (n *StringLiteral) String() string  { return n.Raw }

type BooleanLiteral struct {
	Base
	Value bool
}

func (n *BooleanLiteral) expressionNode() {}
func (n *BooleanLiteral) String() string  { return n.Tok.Literal }

type Identifier struct {
	Base
	Name string
}

func (n *Identifier) expressionNode() {}
func (n *Identifier) String() string  { return n.Name }

type BinaryExpression struct {
	Base
	Left     Expression
	Operator string
	Right    Expression
}

func (n *BinaryExpression) expressionNode() {}
func (n *BinaryExpression) String() string {
	return fmt.Sprintf("(%s %s %s)", n.Left.String(), n.Operator, n.Right.String())
}

type UnaryExpression struct {
	Base
	Operator string
	Right    Expression
}

func (n *UnaryExpression) expressionNode() {}
func (n *UnaryExpression) String() string {
	if n.Operator == "not" {
		return fmt.Sprintf("(not %s)", n.Right.String())
	}
	return fmt.Sprintf("(%s%s)", n.Operator, n.Right.String())
}

type TernaryExpression struct {
	Base
	Condition Expression
	Then      Expression
	Else      Expression
}

func (n *TernaryExpression) expressionNode() {}
func (n *TernaryExpression) String() string {
	return fmt.Sprintf("(%s ? %s : %s)", n.Condition.String(), n.Then.String(), n.Else.String())
}

type CallExpression struct {
	Base
	Callee    Expression
	Arguments []Expression
}

func (n *CallExpression) expressionNode() {}
func (n *CallExpression) String() string {
	args := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", n.Callee.String(), strings.Join(args, ", "))
}

type ArrayLiteral struct {
	Base
	Elements []Expression
}

func (n *ArrayLiteral) expressionNode() {}
func (n *ArrayLiteral) String() string {
	elems := make([]string, len(n.Elements))
	for i, e := range n.Elements {
		elems[i] = e.String()
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

type ArrayAccess struct {
	Base
	Subject Expression
	Index   Expression
}

func (n *ArrayAccess) expressionNode() {}
func (n *ArrayAccess) String() string {
	return fmt.Sprintf("%s[%s]", n.Subject.String(), n.Index.String())
}

// DotExpression is "left.right" member access: used for module-qualified
// calls, module constants, string-method dispatch, and object property
// reads. One node shape serves spec.md's "object-access" and "dot-access"
// node kinds; the evaluator distinguishes them by the type of Left at
// evaluation time rather than the parser distinguishing them by shape.
type DotExpression struct {
	Base
	Left  Expression
	Right string
}

func (n *DotExpression) expressionNode() {}
func (n *DotExpression) String() string {
	return fmt.Sprintf("%s.%s", n.Left.String(), n.Right)
}

// ObjectLiteral is an object value's only construction syntax: an ordered
// "{ key: expr, ... }" list of property entries, evaluated into a
// value.Object preserving this insertion order.
type ObjectLiteral struct {
	Base
	Keys   []string
	Values []Expression
}

func (n *ObjectLiteral) expressionNode() {}
func (n *ObjectLiteral) String() string {
	parts := make([]string, len(n.Keys))
	for i, k := range n.Keys {
		parts[i] = fmt.Sprintf("%s: %s", k, n.Values[i].String())
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

type LambdaExpression struct {
	Base
	Parameters []*Parameter
	Body       *BlockStatement
}

func (n *LambdaExpression) expressionNode() {}
func (n *LambdaExpression) String() string {
	params := make([]string, len(n.Parameters))
	for i, p := range n.Parameters {
		params[i] = p.String()
	}
	return fmt.Sprintf("func(%s): %s end", strings.Join(params, ", "), n.Body.String())
}

// Parameter is a function parameter name with an optional, evaluation-ignored
// type annotation (int/float/string/bool), parsed only for validation.
type Parameter struct {
	Name string
	Type string // "" if unannotated
}

func (p *Parameter) String() string {
	if p.Type == "" {
		return p.Name
	}
	return fmt.Sprintf("%s: %s", p.Name, p.Type)
}

// ---- Statements ----

type BlockStatement struct {
	Base
	Statements []Statement
}

func (n *BlockStatement) statementNode() {}
func (n *BlockStatement) String() string {
	var out bytes.Buffer
	for _, s := range n.Statements {
		out.WriteString("  " + s.String() + "\n")
	}
	return out.String()
}

type ExpressionStatement struct {
	Base
	Expr Expression
}

func (n *ExpressionStatement) statementNode() {}
func (n *ExpressionStatement) String() string { return n.Expr.String() }

type LetStatement struct {
	Base
	Name  string
	Type  string // optional annotation, ignored by the evaluator
	Value Expression
}

func (n *LetStatement) statementNode() {}
func (n *LetStatement) String() string {
	return fmt.Sprintf("let %s = %s;", n.Name, n.Value.String())
}

// AssignStatement covers plain-identifier assignment: name = value;
type AssignStatement struct {
	Base
	Name  string
	Value Expression
}

func (n *AssignStatement) statementNode() {}
func (n *AssignStatement) String() string {
	return fmt.Sprintf("%s = %s;", n.Name, n.Value.String())
}

// ArrayAssignStatement covers subject[index] = value;
type ArrayAssignStatement struct {
	Base
	Subject Expression
	Index   Expression
	Value   Expression
}

func (n *ArrayAssignStatement) statementNode() {}
func (n *ArrayAssignStatement) String() string {
	return fmt.Sprintf("%s[%s] = %s;", n.Subject.String(), n.Index.String(), n.Value.String())
}

// ObjectAssignStatement covers subject.property = value;
type ObjectAssignStatement struct {
	Base
	Subject  Expression
	Property string
	Value    Expression
}

func (n *ObjectAssignStatement) statementNode() {}
func (n *ObjectAssignStatement) String() string {
	return fmt.Sprintf("%s.%s = %s;", n.Subject.String(), n.Property, n.Value.String())
}

type IfStatement struct {
	Base
	Condition Expression
	Then      *BlockStatement
	Else      *BlockStatement // nil if absent
}

func (n *IfStatement) statementNode() {}
func (n *IfStatement) String() string {
	var out bytes.Buffer
	out.WriteString(fmt.Sprintf("if %s:\n%s", n.Condition.String(), n.Then.String()))
	if n.Else != nil {
		out.WriteString("else:\n" + n.Else.String())
	}
	out.WriteString("end")
	return out.String()
}

type WhileStatement struct {
	Base
	Condition Expression
	Body      *BlockStatement
}

func (n *WhileStatement) statementNode() {}
func (n *WhileStatement) String() string {
	return fmt.Sprintf("while %s:\n%send", n.Condition.String(), n.Body.String())
}

type ForStatement struct {
	Base
	Variable string
	Start    Expression
	End      Expression
	Step     Expression // nil if absent, default +1
	Body     *BlockStatement
}

func (n *ForStatement) statementNode() {}
func (n *ForStatement) String() string {
	step := ""
	if n.Step != nil {
		step = ":" + n.Step.String()
	}
	return fmt.Sprintf("for %s in %s:%s%s:\n%send", n.Variable, n.Start.String(), n.End.String(), step, n.Body.String())
}

type ReturnStatement struct {
	Base
	Value Expression // nil for bare return
}

func (n *ReturnStatement) statementNode() {}
func (n *ReturnStatement) String() string {
	if n.Value == nil {
		return "return;"
	}
	return fmt.Sprintf("return %s;", n.Value.String())
}

type PrintStatement struct {
	Base
	Arguments []Expression
}

func (n *PrintStatement) statementNode() {}
func (n *PrintStatement) String() string {
	args := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = a.String()
	}
	return fmt.Sprintf("print(%s);", strings.Join(args, ", "))
}

type SwitchStatement struct {
	Base
	Subject Expression
	Cases   []*CaseClause
	Default *BlockStatement // nil if absent
}

func (n *SwitchStatement) statementNode() {}
func (n *SwitchStatement) String() string {
	var out bytes.Buffer
	out.WriteString(fmt.Sprintf("switch %s:\n", n.Subject.String()))
	for _, c := range n.Cases {
		out.WriteString(c.String())
	}
	if n.Default != nil {
		out.WriteString("default:\n" + n.Default.String())
	}
	out.WriteString("end")
	return out.String()
}

// CaseClause is a single "case value: block" arm of a switch statement.
type CaseClause struct {
	Base
	Value Expression
	Body  *BlockStatement
}

func (n *CaseClause) statementNode() {}
func (n *CaseClause) String() string {
	return fmt.Sprintf("case %s:\n%s", n.Value.String(), n.Body.String())
}

type TryStatement struct {
	Base
	Body     *BlockStatement
	ErrorVar string
	Handler  *BlockStatement
}

func (n *TryStatement) statementNode() {}
func (n *TryStatement) String() string {
	return fmt.Sprintf("try:\n%scatch %s:\n%send", n.Body.String(), n.ErrorVar, n.Handler.String())
}

type FunctionDefinition struct {
	Base
	Name       string
	Parameters []*Parameter
	ReturnType string // optional annotation, ignored by the evaluator
	Body       *BlockStatement
}

func (n *FunctionDefinition) statementNode() {}
func (n *FunctionDefinition) String() string {
	params := make([]string, len(n.Parameters))
	for i, p := range n.Parameters {
		params[i] = p.String()
	}
	return fmt.Sprintf("func %s(%s):\n%send", n.Name, strings.Join(params, ", "), n.Body.String())
}

type UseStatement struct {
	Base
	Path  string
	Alias string
}

func (n *UseStatement) statementNode() {}
func (n *UseStatement) String() string {
	return fmt.Sprintf("use %q as %s;", n.Path, n.Alias)
}

// NewBase constructs the embedded position/literal carrier shared by every
// node.
func NewBase(tok lexer.Token) Base {
	return Base{Tok: tok}
}
