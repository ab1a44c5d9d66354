// Package parser builds a Myco AST from a lexer.Lexer's token stream: a
// precedence-climbing expression parser over block-based, "end"-terminated
// statement forms.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mycolang/myco/internal/ast"
	"github.com/mycolang/myco/internal/lexer"
)

// precedence levels, lowest to highest, per spec.md §4.2.
const (
	_ int = iota
	LOWEST
	TERNARY
	LOGIC_OR
	LOGIC_AND
	EQUALITY
	RELATIONAL
	ADDITIVE
	MULTIPLICATIVE
	UNARY
	CALL
)

var precedences = map[lexer.TokenType]int{
	lexer.OR:       LOGIC_OR,
	lexer.AND:      LOGIC_AND,
	lexer.EQ:       EQUALITY,
	lexer.NOT_EQ:   EQUALITY,
	lexer.LT:       RELATIONAL,
	lexer.GT:       RELATIONAL,
	lexer.LT_EQ:    RELATIONAL,
	lexer.GT_EQ:    RELATIONAL,
	lexer.PLUS:     ADDITIVE,
	lexer.MINUS:    ADDITIVE,
	lexer.STAR:     MULTIPLICATIVE,
	lexer.SLASH:    MULTIPLICATIVE,
	lexer.PERCENT:  MULTIPLICATIVE,
	lexer.LPAREN:   CALL,
	lexer.LBRACKET: CALL,
	lexer.DOT:      CALL,
}

// ParseError is a single parse failure with position information.
type ParseError struct {
	Message string
	Pos     lexer.Position
}

func (e ParseError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Pos.Line, e.Message)
}

// Parser consumes a lexer's token stream and produces an *ast.Program.
type Parser struct {
	l *lexer.Lexer

	cur  lexer.Token
	peek lexer.Token

	errors []ParseError
}

// New constructs a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.next()
	p.next()
	return p
}

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

// Errors returns every parse error accumulated so far.
func (p *Parser) Errors() []ParseError { return p.errors }

func (p *Parser) errorf(pos lexer.Position, format string, args ...interface{}) {
	p.errors = append(p.errors, ParseError{Message: fmt.Sprintf(format, args...), Pos: pos})
}

func (p *Parser) expect(t lexer.TokenType) bool {
	if p.cur.Type == t {
		p.next()
		return true
	}
	p.errorf(p.cur.Pos, "expected %s, got %s (%q)", t, p.cur.Type, p.cur.Literal)
	return false
}

// skipSemicolons consumes zero or more optional trailing semicolons.
func (p *Parser) skipSemicolons() {
	for p.cur.Type == lexer.SEMICOLON {
		p.next()
	}
}

// synchronize implements spec.md §4.2's minimal resynchronization: advance
// to the next ';', '}', "end", or EOF, then let the caller resume.
func (p *Parser) synchronize() {
	for p.cur.Type != lexer.SEMICOLON && p.cur.Type != lexer.RBRACE &&
		p.cur.Type != lexer.END && p.cur.Type != lexer.EOF {
		p.next()
	}
	if p.cur.Type == lexer.SEMICOLON {
		p.next()
	}
}

// ParseProgram parses the whole token stream into a Program. Errors are
// accumulated in p.Errors(); the caller decides whether to discard the
// result.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}
	for p.cur.Type != lexer.EOF {
		startErrs := len(p.errors)
		stmt := p.parseStatement()
		if len(p.errors) > startErrs {
			p.synchronize()
			continue
		}
		if stmt != nil {
			program.Statements = append(program.Statements, stmt)
		}
		p.skipSemicolons()
	}
	return program
}

func (p *Parser) parseStatement() ast.Statement {
	switch p.cur.Type {
	case lexer.LET:
		return p.parseLetStatement()
	case lexer.FUNC:
		return p.parseFunctionDefinition()
	case lexer.IF:
		return p.parseIfStatement()
	case lexer.WHILE:
		return p.parseWhileStatement()
	case lexer.FOR:
		return p.parseForStatement()
	case lexer.RETURN:
		return p.parseReturnStatement()
	case lexer.PRINT:
		return p.parsePrintStatement()
	case lexer.SWITCH:
		return p.parseSwitchStatement()
	case lexer.TRY:
		return p.parseTryStatement()
	case lexer.USE:
		return p.parseUseStatement()
	default:
		return p.parseExpressionOrAssignStatement()
	}
}

// parseBlockUntil parses statements until a terminator token ("end" or
// "else") is reached, without consuming the terminator.
func (p *Parser) parseBlockUntil(terminators ...lexer.TokenType) *ast.BlockStatement {
	tok := p.cur
	block := &ast.BlockStatement{Base: ast.NewBase(tok)}
	for !p.atAny(terminators...) && p.cur.Type != lexer.EOF {
		startErrs := len(p.errors)
		stmt := p.parseStatement()
		if len(p.errors) > startErrs {
			p.synchronize()
			continue
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
		p.skipSemicolons()
	}
	return block
}

func (p *Parser) atAny(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.cur.Type == t {
			return true
		}
	}
	return false
}

func (p *Parser) parseTypeAnnotation() string {
	switch p.cur.Type {
	case lexer.INT_TYPE, lexer.FLOAT_TYPE, lexer.STRING_TYPE, lexer.BOOL_TYPE:
		t := p.cur.Literal
		p.next()
		return t
	default:
		p.errorf(p.cur.Pos, "expected type annotation, got %s", p.cur.Type)
		return ""
	}
}

func (p *Parser) parseLetStatement() ast.Statement {
	tok := p.cur
	p.next() // consume "let"
	if p.cur.Type != lexer.IDENT {
		p.errorf(p.cur.Pos, "expected identifier after let, got %s", p.cur.Type)
		return nil
	}
	name := p.cur.Literal
	p.next()

	typ := ""
	if p.cur.Type == lexer.COLON {
		p.next()
		typ = p.parseTypeAnnotation()
	}

	if !p.expect(lexer.ASSIGN) {
		return nil
	}
	value := p.parseExpression(LOWEST)
	p.skipSemicolons()
	return &ast.LetStatement{Base: ast.NewBase(tok), Name: name, Type: typ, Value: value}
}

func (p *Parser) parseParameterList() []*ast.Parameter {
	var params []*ast.Parameter
	if p.cur.Type == lexer.RPAREN {
		return params
	}
	for {
		if p.cur.Type != lexer.IDENT {
			p.errorf(p.cur.Pos, "expected parameter name, got %s", p.cur.Type)
			return params
		}
		param := &ast.Parameter{Name: p.cur.Literal}
		p.next()
		if p.cur.Type == lexer.COLON {
			p.next()
			param.Type = p.parseTypeAnnotation()
		}
		params = append(params, param)
		if p.cur.Type != lexer.COMMA {
			break
		}
		p.next()
	}
	return params
}

func (p *Parser) parseFunctionDefinition() ast.Statement {
	tok := p.cur
	p.next() // consume "func"
	if p.cur.Type != lexer.IDENT {
		p.errorf(p.cur.Pos, "expected function name, got %s", p.cur.Type)
		return nil
	}
	name := p.cur.Literal
	p.next()

	if !p.expect(lexer.LPAREN) {
		return nil
	}
	params := p.parseParameterList()
	if !p.expect(lexer.RPAREN) {
		return nil
	}

	retType := ""
	if p.cur.Type == lexer.COLON && p.peek.Type != lexer.COLON {
		// ambiguous with the block-opening colon; func_decl's grammar is
		// "(":" type)? ":" block", so only consume a return type if the
		// token after it is itself a colon (the block opener).
	}
	if p.cur.Type == lexer.COLON {
		save := p.l.SaveState()
		curSave, peekSave := p.cur, p.peek
		p.next()
		if isTypeToken(p.cur.Type) && p.peek.Type == lexer.COLON {
			retType = p.parseTypeAnnotation()
		} else {
			p.l.RestoreState(save)
			p.cur, p.peek = curSave, peekSave
		}
	}

	if !p.expect(lexer.COLON) {
		return nil
	}
	body := p.parseBlockUntil(lexer.END)
	p.expect(lexer.END)

	return &ast.FunctionDefinition{Base: ast.NewBase(tok), Name: name, Parameters: params, ReturnType: retType, Body: body}
}

func isTypeToken(t lexer.TokenType) bool {
	switch t {
	case lexer.INT_TYPE, lexer.FLOAT_TYPE, lexer.STRING_TYPE, lexer.BOOL_TYPE:
		return true
	}
	return false
}

func (p *Parser) parseIfStatement() ast.Statement {
	tok := p.cur
	p.next() // consume "if"
	cond := p.parseExpression(LOWEST)
	if !p.expect(lexer.COLON) {
		return nil
	}
	then := p.parseBlockUntil(lexer.ELSE, lexer.END)

	var elseBlock *ast.BlockStatement
	if p.cur.Type == lexer.ELSE {
		p.next()
		if !p.expect(lexer.COLON) {
			return nil
		}
		elseBlock = p.parseBlockUntil(lexer.END)
	}
	p.expect(lexer.END)

	return &ast.IfStatement{Base: ast.NewBase(tok), Condition: cond, Then: then, Else: elseBlock}
}

func (p *Parser) parseWhileStatement() ast.Statement {
	tok := p.cur
	p.next() // consume "while"
	cond := p.parseExpression(LOWEST)
	if !p.expect(lexer.COLON) {
		return nil
	}
	body := p.parseBlockUntil(lexer.END)
	p.expect(lexer.END)
	return &ast.WhileStatement{Base: ast.NewBase(tok), Condition: cond, Body: body}
}

func (p *Parser) parseForStatement() ast.Statement {
	tok := p.cur
	p.next() // consume "for"
	if p.cur.Type != lexer.IDENT {
		p.errorf(p.cur.Pos, "expected loop variable, got %s", p.cur.Type)
		return nil
	}
	variable := p.cur.Literal
	p.next()

	if !p.expect(lexer.IN) {
		return nil
	}
	start := p.parseExpression(LOWEST)
	if !p.expect(lexer.COLON) {
		return nil
	}
	end := p.parseExpression(LOWEST)

	// The colon after the end bound opens either a step expression or the
	// body: it is a step only if an expression followed by another colon
	// comes next; otherwise backtrack and leave the step unset.
	var step ast.Expression
	if p.cur.Type == lexer.COLON {
		save := p.l.SaveState()
		curSave, peekSave := p.cur, p.peek
		errSave, lexErrSave := len(p.errors), len(p.l.Errors)
		p.next()
		step = p.parseExpression(LOWEST)
		if len(p.errors) > errSave || p.cur.Type != lexer.COLON {
			p.l.RestoreState(save)
			p.cur, p.peek = curSave, peekSave
			p.errors = p.errors[:errSave]
			p.l.Errors = p.l.Errors[:lexErrSave]
			step = nil
		}
	}

	if !p.expect(lexer.COLON) {
		return nil
	}
	body := p.parseBlockUntil(lexer.END)
	p.expect(lexer.END)

	return &ast.ForStatement{Base: ast.NewBase(tok), Variable: variable, Start: start, End: end, Step: step, Body: body}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	tok := p.cur
	p.next() // consume "return"
	var value ast.Expression
	if p.cur.Type != lexer.SEMICOLON && p.cur.Type != lexer.END && p.cur.Type != lexer.EOF {
		value = p.parseExpression(LOWEST)
	}
	p.skipSemicolons()
	return &ast.ReturnStatement{Base: ast.NewBase(tok), Value: value}
}

func (p *Parser) parsePrintStatement() ast.Statement {
	tok := p.cur
	p.next() // consume "print"
	if !p.expect(lexer.LPAREN) {
		return nil
	}
	var args []ast.Expression
	if p.cur.Type != lexer.RPAREN {
		args = append(args, p.parseExpression(LOWEST))
		for p.cur.Type == lexer.COMMA {
			p.next()
			args = append(args, p.parseExpression(LOWEST))
		}
	}
	p.expect(lexer.RPAREN)
	p.skipSemicolons()
	return &ast.PrintStatement{Base: ast.NewBase(tok), Arguments: args}
}

func (p *Parser) parseSwitchStatement() ast.Statement {
	tok := p.cur
	p.next() // consume "switch"
	subject := p.parseExpression(LOWEST)
	if !p.expect(lexer.COLON) {
		return nil
	}

	stmt := &ast.SwitchStatement{Base: ast.NewBase(tok), Subject: subject}
	for p.cur.Type == lexer.CASE {
		caseTok := p.cur
		p.next()
		val := p.parseExpression(LOWEST)
		if !p.expect(lexer.COLON) {
			return nil
		}
		body := p.parseBlockUntil(lexer.CASE, lexer.DEFAULT, lexer.END)
		stmt.Cases = append(stmt.Cases, &ast.CaseClause{Base: ast.NewBase(caseTok), Value: val, Body: body})
	}
	if p.cur.Type == lexer.DEFAULT {
		p.next()
		if !p.expect(lexer.COLON) {
			return nil
		}
		stmt.Default = p.parseBlockUntil(lexer.END)
	}
	p.expect(lexer.END)
	return stmt
}

func (p *Parser) parseTryStatement() ast.Statement {
	tok := p.cur
	p.next() // consume "try"
	if !p.expect(lexer.COLON) {
		return nil
	}
	body := p.parseBlockUntil(lexer.CATCH)
	if !p.expect(lexer.CATCH) {
		return nil
	}
	if p.cur.Type != lexer.IDENT {
		p.errorf(p.cur.Pos, "expected catch variable, got %s", p.cur.Type)
		return nil
	}
	errVar := p.cur.Literal
	p.next()
	if !p.expect(lexer.COLON) {
		return nil
	}
	handler := p.parseBlockUntil(lexer.END)
	p.expect(lexer.END)
	return &ast.TryStatement{Base: ast.NewBase(tok), Body: body, ErrorVar: errVar, Handler: handler}
}

func (p *Parser) parseUseStatement() ast.Statement {
	tok := p.cur
	p.next() // consume "use"
	var path string
	switch p.cur.Type {
	case lexer.STRING:
		path = decodeString(p.cur.Literal)
	case lexer.IDENT:
		path = p.cur.Literal
	default:
		p.errorf(p.cur.Pos, "expected module path, got %s", p.cur.Type)
		return nil
	}
	p.next()
	if !p.expect(lexer.AS) {
		return nil
	}
	if p.cur.Type != lexer.IDENT {
		p.errorf(p.cur.Pos, "expected alias, got %s", p.cur.Type)
		return nil
	}
	alias := p.cur.Literal
	p.next()
	p.skipSemicolons()
	return &ast.UseStatement{Base: ast.NewBase(tok), Path: path, Alias: alias}
}

// parseExpressionOrAssignStatement resolves spec.md §9's Open Question on
// bare identifiers at statement position: this implementation treats any
// expression not followed by "=" as an expression statement rather than a
// parse error, so a bare call like foo(); is legal and a bare identifier
// like x; is a (side-effect-free but legal) expression statement.
func (p *Parser) parseExpressionOrAssignStatement() ast.Statement {
	tok := p.cur
	expr := p.parseExpression(LOWEST)

	if p.cur.Type == lexer.ASSIGN {
		p.next()
		value := p.parseExpression(LOWEST)
		p.skipSemicolons()
		switch target := expr.(type) {
		case *ast.Identifier:
			return &ast.AssignStatement{Base: ast.NewBase(tok), Name: target.Name, Value: value}
		case *ast.ArrayAccess:
			return &ast.ArrayAssignStatement{Base: ast.NewBase(tok), Subject: target.Subject, Index: target.Index, Value: value}
		case *ast.DotExpression:
			return &ast.ObjectAssignStatement{Base: ast.NewBase(tok), Subject: target.Left, Property: target.Right, Value: value}
		default:
			p.errorf(tok.Pos, "invalid assignment target")
			return nil
		}
	}

	p.skipSemicolons()
	return &ast.ExpressionStatement{Base: ast.NewBase(tok), Expr: expr}
}

// ---- Expressions ----

func (p *Parser) parseExpression(precedence int) ast.Expression {
	left := p.parseUnary()

	for {
		nextPrec, ok := precedences[p.cur.Type]
		if !ok || precedence >= nextPrec {
			break
		}
		left = p.parseInfix(left, nextPrec)
	}

	if precedence < TERNARY && p.cur.Type == lexer.QUESTION {
		left = p.parseTernary(left)
	}

	return left
}

func (p *Parser) parseTernary(cond ast.Expression) ast.Expression {
	tok := p.cur
	p.next() // consume "?"
	then := p.parseExpression(LOWEST)
	if !p.expect(lexer.COLON) {
		return cond
	}
	elseExpr := p.parseExpression(LOWEST)
	return &ast.TernaryExpression{Base: ast.NewBase(tok), Condition: cond, Then: then, Else: elseExpr}
}

func (p *Parser) parseInfix(left ast.Expression, prec int) ast.Expression {
	switch p.cur.Type {
	case lexer.LPAREN:
		return p.parseCallExpression(left)
	case lexer.LBRACKET:
		return p.parseArrayAccess(left)
	case lexer.DOT:
		return p.parseDotExpression(left)
	default:
		tok := p.cur
		op := p.cur.Literal
		p.next()
		right := p.parseExpression(prec)
		return &ast.BinaryExpression{Base: ast.NewBase(tok), Left: left, Operator: op, Right: right}
	}
}

func (p *Parser) parseUnary() ast.Expression {
	switch p.cur.Type {
	case lexer.MINUS, lexer.NOT:
		tok := p.cur
		op := p.cur.Literal
		p.next()
		right := p.parseUnary()
		return &ast.UnaryExpression{Base: ast.NewBase(tok), Operator: op, Right: right}
	default:
		return p.parsePrimary()
	}
}

func (p *Parser) parsePrimary() ast.Expression {
	switch p.cur.Type {
	case lexer.INT:
		return p.parseIntegerLiteral()
	case lexer.FLOAT:
		return p.parseFloatLiteral()
	case lexer.STRING:
		return p.parseStringLiteral()
	case lexer.TRUE, lexer.FALSE:
		return p.parseBooleanLiteral()
	case lexer.IDENT:
		tok := p.cur
		p.next()
		return &ast.Identifier{Base: ast.NewBase(tok), Name: tok.Literal}
	case lexer.LPAREN:
		p.next()
		expr := p.parseExpression(LOWEST)
		p.expect(lexer.RPAREN)
		return expr
	case lexer.LBRACKET:
		return p.parseArrayLiteral()
	case lexer.LBRACE:
		return p.parseObjectLiteral()
	case lexer.FUNC:
		return p.parseLambda()
	default:
		p.errorf(p.cur.Pos, "unexpected token %s (%q)", p.cur.Type, p.cur.Literal)
		tok := p.cur
		p.next()
		return &ast.Identifier{Base: ast.NewBase(tok), Name: tok.Literal}
	}
}

func (p *Parser) parseIntegerLiteral() ast.Expression {
	tok := p.cur
	v, err := strconv.ParseInt(tok.Literal, 10, 64)
	if err != nil {
		p.errorf(tok.Pos, "invalid integer literal %q", tok.Literal)
	}
	p.next()
	return &ast.IntegerLiteral{Base: ast.NewBase(tok), Value: v}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	tok := p.cur
	v, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.errorf(tok.Pos, "invalid float literal %q", tok.Literal)
	}
	p.next()
	return &ast.FloatLiteral{Base: ast.NewBase(tok), Value: v}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.cur
	p.next()
	return &ast.StringLiteral{Base: ast.NewBase(tok), Value: decodeString(tok.Literal), Raw: tok.Literal}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	tok := p.cur
	p.next()
	return &ast.BooleanLiteral{Base: ast.NewBase(tok), Value: tok.Type == lexer.TRUE}
}

func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.cur
	p.next() // consume "["
	lit := &ast.ArrayLiteral{Base: ast.NewBase(tok)}
	if p.cur.Type != lexer.RBRACKET {
		lit.Elements = append(lit.Elements, p.parseExpression(LOWEST))
		for p.cur.Type == lexer.COMMA {
			p.next()
			lit.Elements = append(lit.Elements, p.parseExpression(LOWEST))
		}
	}
	p.expect(lexer.RBRACKET)
	return lit
}

// parseObjectLiteral parses "{ ident: expr, ... }", object's only
// construction syntax: an empty "{}" is the empty object.
func (p *Parser) parseObjectLiteral() ast.Expression {
	tok := p.cur
	p.next() // consume "{"
	lit := &ast.ObjectLiteral{Base: ast.NewBase(tok)}
	for p.cur.Type != lexer.RBRACE && p.cur.Type != lexer.EOF {
		if p.cur.Type != lexer.IDENT {
			p.errorf(p.cur.Pos, "expected property name, got %s", p.cur.Type)
			break
		}
		key := p.cur.Literal
		p.next()
		if !p.expect(lexer.COLON) {
			break
		}
		lit.Keys = append(lit.Keys, key)
		lit.Values = append(lit.Values, p.parseExpression(LOWEST))
		if p.cur.Type != lexer.COMMA {
			break
		}
		p.next()
	}
	p.expect(lexer.RBRACE)
	return lit
}

func (p *Parser) parseCallExpression(callee ast.Expression) ast.Expression {
	tok := p.cur
	p.next() // consume "("
	call := &ast.CallExpression{Base: ast.NewBase(tok), Callee: callee}
	if p.cur.Type != lexer.RPAREN {
		call.Arguments = append(call.Arguments, p.parseExpression(LOWEST))
		for p.cur.Type == lexer.COMMA {
			p.next()
			call.Arguments = append(call.Arguments, p.parseExpression(LOWEST))
		}
	}
	p.expect(lexer.RPAREN)
	return call
}

func (p *Parser) parseArrayAccess(subject ast.Expression) ast.Expression {
	tok := p.cur
	p.next() // consume "["
	index := p.parseExpression(LOWEST)
	p.expect(lexer.RBRACKET)
	return &ast.ArrayAccess{Base: ast.NewBase(tok), Subject: subject, Index: index}
}

func (p *Parser) parseDotExpression(left ast.Expression) ast.Expression {
	tok := p.cur
	p.next() // consume "."
	if p.cur.Type != lexer.IDENT {
		p.errorf(p.cur.Pos, "expected property name after '.', got %s", p.cur.Type)
		return left
	}
	name := p.cur.Literal
	p.next()
	return &ast.DotExpression{Base: ast.NewBase(tok), Left: left, Right: name}
}

func (p *Parser) parseLambda() ast.Expression {
	tok := p.cur
	p.next() // consume "func"
	if !p.expect(lexer.LPAREN) {
		return nil
	}
	params := p.parseParameterList()
	if !p.expect(lexer.RPAREN) {
		return nil
	}
	if !p.expect(lexer.COLON) {
		return nil
	}
	body := p.parseBlockUntil(lexer.END)
	p.expect(lexer.END)
	return &ast.LambdaExpression{Base: ast.NewBase(tok), Parameters: params, Body: body}
}

// decodeString strips the surrounding quotes from a raw string lexeme and
// resolves the lone escape the lexer recognizes (\").
func decodeString(raw string) string {
	if len(raw) < 2 {
		return raw
	}
	inner := raw[1 : len(raw)-1]
	return strings.ReplaceAll(inner, `\"`, `"`)
}
