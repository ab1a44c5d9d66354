package lexer

import "testing"

func TestNextTokenBasic(t *testing.T) {
	input := `let x = 2 + 3 * 4;`

	want := []struct {
		typ TokenType
		lit string
	}{
		{LET, "let"},
		{IDENT, "x"},
		{ASSIGN, "="},
		{INT, "2"},
		{PLUS, "+"},
		{INT, "3"},
		{STAR, "*"},
		{INT, "4"},
		{SEMICOLON, ";"},
		{EOF, ""},
	}

	l := New(input)
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w.typ {
			t.Fatalf("token %d: type = %s, want %s", i, tok.Type, w.typ)
		}
		if tok.Literal != w.lit {
			t.Fatalf("token %d: literal = %q, want %q", i, tok.Literal, w.lit)
		}
	}
}

func TestNextTokenKeywordsAndOperators(t *testing.T) {
	input := `if else end while for in switch case default try catch func return use as true false and or not int float string bool == != <= >= < >`

	want := []TokenType{
		IF, ELSE, END, WHILE, FOR, IN, SWITCH, CASE, DEFAULT, TRY, CATCH,
		FUNC, RETURN, USE, AS, TRUE, FALSE, AND, OR, NOT,
		INT_TYPE, FLOAT_TYPE, STRING_TYPE, BOOL_TYPE,
		EQ, NOT_EQ, LT_EQ, GT_EQ, LT, GT, EOF,
	}

	l := New(input)
	for i, w := range want {
		tok := l.NextToken()
		if tok.Type != w {
			t.Fatalf("token %d: type = %s, want %s", i, tok.Type, w)
		}
	}
}

func TestNextTokenComment(t *testing.T) {
	input := "let x = 1; # trailing comment\nlet y = 2;"
	l := New(input)

	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			break
		}
	}

	want := []TokenType{LET, IDENT, ASSIGN, INT, SEMICOLON, LET, IDENT, ASSIGN, INT, SEMICOLON, EOF}
	if len(types) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(types), len(want), types)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("token %d: got %s, want %s", i, types[i], want[i])
		}
	}
}

func TestNextTokenString(t *testing.T) {
	l := New(`"hello world"`)
	tok := l.NextToken()
	if tok.Type != STRING {
		t.Fatalf("type = %s, want STRING", tok.Type)
	}
	if tok.Literal != `"hello world"` {
		t.Fatalf("literal = %q, want quoted lexeme", tok.Literal)
	}
}

func TestNextTokenFloat(t *testing.T) {
	l := New(`3.14 5`)
	tok := l.NextToken()
	if tok.Type != FLOAT || tok.Literal != "3.14" {
		t.Fatalf("got %v, want FLOAT 3.14", tok)
	}
	tok = l.NextToken()
	if tok.Type != INT || tok.Literal != "5" {
		t.Fatalf("got %v, want INT 5", tok)
	}
}

func TestNextTokenIllegal(t *testing.T) {
	l := New(`@`)
	tok := l.NextToken()
	if tok.Type != ILLEGAL {
		t.Fatalf("type = %s, want ILLEGAL", tok.Type)
	}
	if len(l.Errors) != 1 {
		t.Fatalf("expected one lexer error, got %d", len(l.Errors))
	}
}

func TestPositionTracking(t *testing.T) {
	l := New("let x\n  = 1;")
	tok := l.NextToken() // let
	if tok.Pos.Line != 1 {
		t.Fatalf("line = %d, want 1", tok.Pos.Line)
	}
	l.NextToken() // x
	tok = l.NextToken() // =
	if tok.Pos.Line != 2 {
		t.Fatalf("line = %d, want 2", tok.Pos.Line)
	}
}

func TestSaveRestoreState(t *testing.T) {
	l := New("a b c")
	first := l.NextToken()
	state := l.SaveState()
	second := l.NextToken()
	l.RestoreState(state)
	replay := l.NextToken()
	if second.Literal != replay.Literal {
		t.Fatalf("replay = %q, want %q", replay.Literal, second.Literal)
	}
	_ = first
}
