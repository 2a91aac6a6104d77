package lexer

import "testing"

func tokenTypes(toks []Token) []TokenType {
	var out []TokenType
	for _, t := range toks {
		out = append(out, t.Type)
	}
	return out
}

func TestLexer_Numbers(t *testing.T) {
	cases := []struct {
		src   string
		value int64
		radix int
	}{
		{"$4200", 0x4200, 16},
		{"0FFh", 0xFF, 16},
		{"FFH", 0xFF, 16},
		{"%10101010", 0xAA, 2},
		{"255", 255, 10},
	}

	for _, c := range cases {
		l := New(c.src)
		tok := l.NextToken()
		if tok.Type != TokenNumber {
			t.Fatalf("%q: expected Number, got %s (%s)", c.src, tok.Type, tok.Literal)
		}
		if tok.Value != c.value {
			t.Errorf("%q: expected value %d, got %d", c.src, c.value, tok.Value)
		}
		if tok.Radix != c.radix {
			t.Errorf("%q: expected radix %d, got %d", c.src, c.radix, tok.Radix)
		}
	}
}

func TestLexer_DollarAloneIsOperator(t *testing.T) {
	l := New("$ + 1")
	tok := l.NextToken()
	if tok.Type != TokenOperator || tok.Literal != "$" {
		t.Fatalf("expected operator $, got %v", tok)
	}
}

func TestLexer_Classification(t *testing.T) {
	l := New("START: LD A,(HL)\n")
	toks := l.TokenizeAll()
	got := tokenTypes(toks)
	want := []TokenType{
		TokenLabel, TokenColon, TokenMnemonic, TokenRegister, TokenComma,
		TokenLParen, TokenRegister, TokenRParen, TokenNewline, TokenEOF,
	}
	if len(got) != len(want) {
		t.Fatalf("token count mismatch: got %d want %d (%v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s want %s", i, got[i], want[i])
		}
	}
	if toks[0].Literal != "START" {
		t.Errorf("expected label START, got %q", toks[0].Literal)
	}
}

func TestLexer_Directives(t *testing.T) {
	for _, src := range []string{".ORG", "ORG", ".DB", "DEFB", ".EQU", "DEFL"} {
		l := New(src)
		tok := l.NextToken()
		if tok.Type != TokenDirective {
			t.Errorf("%q: expected Directive, got %s", src, tok.Type)
		}
	}
}

func TestLexer_AFPrime(t *testing.T) {
	l := New("EX AF,AF'")
	toks := l.TokenizeAll()
	if toks[0].Type != TokenMnemonic || toks[0].Literal != "EX" {
		t.Fatalf("expected mnemonic EX, got %v", toks[0])
	}
	last := toks[len(toks)-2] // skip EOF
	if last.Type != TokenRegister || last.Literal != "AF'" {
		t.Fatalf("expected register AF', got %v", last)
	}
}

func TestLexer_Comment(t *testing.T) {
	l := New("NOP ; a comment\nHALT")
	toks := l.TokenizeAll()
	if toks[1].Type != TokenComment {
		t.Fatalf("expected comment token, got %v", toks[1])
	}
	if toks[1].Literal != " a comment" {
		t.Errorf("expected comment text preserved, got %q", toks[1].Literal)
	}
}

func TestLexer_UnterminatedStringStopsAtNewline(t *testing.T) {
	l := New("\"abc\ndef")
	tok := l.NextToken()
	if tok.Type != TokenString || tok.Literal != "abc" {
		t.Fatalf("expected string 'abc', got %v", tok)
	}
}

func TestLexer_UnrecognizedCharacterEmitsErrorAndContinues(t *testing.T) {
	l := New("NOP @ HALT")
	toks := l.TokenizeAll()
	if toks[1].Type != TokenError {
		t.Fatalf("expected error token for '@', got %v", toks[1])
	}
	if toks[2].Type != TokenMnemonic || toks[2].Literal != "HALT" {
		t.Fatalf("expected scanning to continue to HALT, got %v", toks[2])
	}
}

func TestLexer_DBStringOperand(t *testing.T) {
	l := New(`.DB "HI"`)
	toks := l.TokenizeAll()
	if toks[1].Type != TokenString || toks[1].Literal != "HI" {
		t.Fatalf("expected string HI, got %v", toks[1])
	}
}
