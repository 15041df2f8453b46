package lexer

import "testing"

func TestNextTokenBasics(t *testing.T) {
	input := `local function add(x: integer, y: integer): integer return x + y end`

	expected := []TokenType{
		LOCAL, FUNCTION, IDENT, LPAREN, IDENT, COLON, IDENT, COMMA, IDENT, COLON, IDENT, RPAREN,
		COLON, IDENT, RETURN, IDENT, PLUS, IDENT, END, EOF,
	}

	l := New(input, "t.titan")
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d: got %v, want %v (literal %q)", i, tok.Type, want, tok.Literal)
		}
	}
}

func TestNextTokenOperators(t *testing.T) {
	input := `+ - * / // ^ % ~ | & << >> # .. == != < > <= >= := : -> { } [ ]`
	expected := []TokenType{
		PLUS, MINUS, STAR, SLASH, SLASHSLASH, CARET, PERCENT, TILDE, PIPE, AMP, LSHIFT, RSHIFT,
		HASH, DOTDOT, EQ, NEQ, LT, GT, LE, GE, COLONEQ, COLON, ARROW, LBRACE, RBRACE, LBRACKET, RBRACKET, EOF,
	}

	l := New(input, "t.titan")
	for i, want := range expected {
		tok := l.NextToken()
		if tok.Type != want {
			t.Fatalf("token %d: got %v (%q), want %v", i, tok.Type, tok.Literal, want)
		}
	}
}

func TestNextTokenNumbers(t *testing.T) {
	tests := []struct {
		input string
		typ TokenType
	}{
		{"42", INT},
		{"3.14", FLOAT},
		{"1e10", FLOAT},
		{"1.5e-3", FLOAT},
	}
	for _, tt := range tests {
		l := New(tt.input, "t.titan")
		tok := l.NextToken()
		if tok.Type != tt.typ || tok.Literal != tt.input {
			t.Errorf("lexing %q: got (%v, %q)", tt.input, tok.Type, tok.Literal)
		}
	}
}

func TestNextTokenString(t *testing.T) {
	l := New(`"hello\nworld"`, "t.titan")
	tok := l.NextToken()
	if tok.Type != STRING || tok.Literal != "hello\nworld" {
		t.Errorf("got (%v, %q)", tok.Type, tok.Literal)
	}
}

func TestNextTokenComment(t *testing.T) {
	l := New("x -- this is a comment\ny", "t.titan")
	first := l.NextToken()
	second := l.NextToken()
	if first.Literal != "x" || second.Literal != "y" {
		t.Errorf("comment should be skipped: got %q, %q", first.Literal, second.Literal)
	}
}

func TestNextTokenPositions(t *testing.T) {
	l := New("x\ny", "f.titan")
	first := l.NextToken()
	second := l.NextToken()

	if first.Pos.Line != 1 {
		t.Errorf("first token line = %d, want 1", first.Pos.Line)
	}
	if second.Pos.Line != 2 {
		t.Errorf("second token line = %d, want 2", second.Pos.Line)
	}
	if first.Pos.File != "f.titan" || second.Pos.File != "f.titan" {
		t.Error("tokens should carry the lexer's filename")
	}
}

func TestLookupIdentKeywords(t *testing.T) {
	if LookupIdent("function") != FUNCTION {
		t.Error("\"function\" should lex as FUNCTION")
	}
	if LookupIdent("somename") != IDENT {
		t.Error("an unreserved word should lex as IDENT")
	}
}
