package lexer

import "fmt"

// TokenType identifies the lexical class of a Token.
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNewline
	TokenComment
	TokenError

	TokenLabel     // identifier that is not a mnemonic/register/directive
	TokenMnemonic  // Z80 instruction mnemonic
	TokenRegister  // A, BC, HL, AF', IX, IYH, ...
	TokenNumber    // numeric literal, any radix
	TokenString    // "..." or '...'
	TokenDirective // .ORG, DB, DEFW, EQU, ...

	TokenOperator // + - * / $
	TokenLParen
	TokenRParen
	TokenComma
	TokenColon
)

var tokenNames = map[TokenType]string{
	TokenEOF:       "EOF",
	TokenNewline:   "NEWLINE",
	TokenComment:   "COMMENT",
	TokenError:     "ERROR",
	TokenLabel:     "LABEL",
	TokenMnemonic:  "MNEMONIC",
	TokenRegister:  "REGISTER",
	TokenNumber:    "NUMBER",
	TokenString:    "STRING",
	TokenDirective: "DIRECTIVE",
	TokenOperator:  "OPERATOR",
	TokenLParen:    "(",
	TokenRParen:    ")",
	TokenComma:     ",",
	TokenColon:     ":",
}

func (t TokenType) String() string {
	if name, ok := tokenNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TokenType(%d)", t)
}

// Token is a single lexical unit produced by the Lexer.
//
// Literal holds the normalized form: uppercased for Label/Mnemonic/
// Register/Directive, for Number the literal digit text without its
// radix marker, and for Comment the text after the ';'. Raw preserves the original source text verbatim
// (used only for diagnostics and the token round-trip property).
type Token struct {
	Type    TokenType
	Literal string
	Raw     string
	Pos     Position

	// Number-only fields.
	Value int64
	Radix int // 10, 16, or 2
}

func (t Token) String() string {
	return fmt.Sprintf("%s(%q) at %s", t.Type, t.Literal, t.Pos)
}
