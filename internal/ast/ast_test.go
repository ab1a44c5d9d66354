package ast

import (
	"testing"

	"github.com/mycolang/myco/internal/lexer"
)

func tok(tt lexer.TokenType, lit string, line int) lexer.Token {
	return lexer.Token{Type: tt, Literal: lit, Pos: lexer.Position{Line: line, Column: 1}}
}

func TestProgramStringJoinsStatements(t *testing.T) {
	prog := &Program{
		Statements: []Statement{
			&LetStatement{Base: NewBase(tok(lexer.LET, "let", 1)), Name: "x", Value: &IntegerLiteral{Base: NewBase(tok(lexer.INT, "1", 1)), Value: 1}},
		},
	}
	want := "let x = 1;\n"
	if got := prog.String(); got != want {
		t.Errorf("Program.String() = %q, want %q", got, want)
	}
	if prog.TokenLiteral() != "let" {
		t.Errorf("TokenLiteral() = %q, want %q", prog.TokenLiteral(), "let")
	}
	if prog.Line() != 1 {
		t.Errorf("Line() = %d, want 1", prog.Line())
	}
}

func TestEmptyProgram(t *testing.T) {
	prog := &Program{}
	if prog.TokenLiteral() != "" {
		t.Errorf("empty program TokenLiteral() = %q, want empty", prog.TokenLiteral())
	}
	if prog.Line() != 0 {
		t.Errorf("empty program Line() = %d, want 0", prog.Line())
	}
}

func TestBinaryExpressionString(t *testing.T) {
	expr := &BinaryExpression{
		Base:     NewBase(tok(lexer.PLUS, "+", 1)),
		Left:     &IntegerLiteral{Base: NewBase(tok(lexer.INT, "1", 1)), Value: 1},
		Operator: "+",
		Right:    &IntegerLiteral{Base: NewBase(tok(lexer.INT, "2", 1)), Value: 2},
	}
	if got, want := expr.String(), "(1 + 2)"; got != want {
		t.Errorf("BinaryExpression.String() = %q, want %q", got, want)
	}
}

func TestTernaryExpressionString(t *testing.T) {
	expr := &TernaryExpression{
		Base:      NewBase(tok(lexer.QUESTION, "?", 1)),
		Condition: &BooleanLiteral{Base: NewBase(tok(lexer.TRUE, "true", 1)), Value: true},
		Then:      &IntegerLiteral{Base: NewBase(tok(lexer.INT, "1", 1)), Value: 1},
		Else:      &IntegerLiteral{Base: NewBase(tok(lexer.INT, "2", 1)), Value: 2},
	}
	if got, want := expr.String(), "(true ? 1 : 2)"; got != want {
		t.Errorf("TernaryExpression.String() = %q, want %q", got, want)
	}
}

func TestDotExpressionUnifiesObjectAndModuleAccess(t *testing.T) {
	left := &Identifier{Base: NewBase(tok(lexer.IDENT, "m", 1)), Name: "m"}
	expr := &DotExpression{Base: NewBase(tok(lexer.DOT, ".", 1)), Left: left, Right: "field"}
	if got, want := expr.String(), "m.field"; got != want {
		t.Errorf("DotExpression.String() = %q, want %q", got, want)
	}
}

func TestObjectLiteralString(t *testing.T) {
	expr := &ObjectLiteral{
		Base:   NewBase(tok(lexer.LBRACE, "{", 1)),
		Keys:   []string{"a", "b"},
		Values: []Expression{&IntegerLiteral{Base: NewBase(tok(lexer.INT, "1", 1)), Value: 1}, &IntegerLiteral{Base: NewBase(tok(lexer.INT, "2", 1)), Value: 2}},
	}
	if got, want := expr.String(), "{a: 1, b: 2}"; got != want {
		t.Errorf("ObjectLiteral.String() = %q, want %q", got, want)
	}
}

func TestFunctionDefinitionString(t *testing.T) {
	fn := &FunctionDefinition{
		Base:       NewBase(tok(lexer.FUNC, "func", 1)),
		Name:       "double",
		Parameters: []*Parameter{{Name: "n"}},
		Body: &BlockStatement{
			Statements: []Statement{
				&ReturnStatement{Base: NewBase(tok(lexer.RETURN, "return", 2)), Value: &Identifier{Base: NewBase(tok(lexer.IDENT, "n", 2)), Name: "n"}},
			},
		},
	}
	want := "func double(n):\n  return n;\nend"
	if got := fn.String(); got != want {
		t.Errorf("FunctionDefinition.String() = %q, want %q", got, want)
	}
}

func TestUseStatementString(t *testing.T) {
	use := &UseStatement{Base: NewBase(tok(lexer.USE, "use", 1)), Path: "m.myco", Alias: "m"}
	if got, want := use.String(), `use "m.myco" as m;`; got != want {
		t.Errorf("UseStatement.String() = %q, want %q", got, want)
	}
}
