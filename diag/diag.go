// Package diag defines the diagnostic vocabulary shared by every assembly
// stage: a severity, a kind taxonomy (§7), and the Diagnostic value the
// façade ultimately aggregates into Result.Errors / Result.Warnings.
//
// Each stage still owns its own error TYPE for internal control flow
// (lexer tokens carry their own Error kind, parser.Error wraps a
// Diagnostic with parse-time context, encoder.EncodingError carries a
// Kind and message for encoding failures) — this package only standardizes the externally
// visible shape so the façade doesn't need stage-specific adapters.
package diag

import (
	"fmt"

	"github.com/cschweda/z80-assembler/lexer"
)

// Severity distinguishes a fatal Diagnostic from an advisory one.
type Severity int

const (
	Error Severity = iota
	Warning
)

func (s Severity) String() string {
	if s == Warning {
		return "warning"
	}
	return "error"
}

// Kind categorizes a Diagnostic per §7. It is informational — callers
// needing typed dispatch should use errors.As against the stage-specific
// error type that produced the Diagnostic (where one exists).
type Kind string

const (
	UnexpectedCharacter           Kind = "UnexpectedCharacter"
	EmptySource                   Kind = "EmptySource"
	InvalidSourceType             Kind = "InvalidSourceType"
	SyntaxError                   Kind = "SyntaxError"
	UnmatchedParenthesis          Kind = "UnmatchedParenthesis"
	DivByZero                     Kind = "DivByZero"
	UndefinedSymbol               Kind = "UndefinedSymbol"
	DuplicateSymbol               Kind = "DuplicateSymbol"
	UnsupportedInstructionPattern Kind = "UnsupportedInstructionPattern"
	InvalidRSTAddress             Kind = "InvalidRSTAddress"
	RelativeJumpOutOfRange        Kind = "RelativeJumpOutOfRange"
	Internal                      Kind = "Internal"
)

// Diagnostic is one line/column-anchored message produced by any stage.
type Diagnostic struct {
	Kind     Kind
	Message  string
	Pos      lexer.Position
	Severity Severity
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s: %s: %s", d.Pos, d.Severity, d.Message)
}

// New builds an Error-severity Diagnostic.
func New(kind Kind, pos lexer.Position, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos, Severity: Error}
}

// Warn builds a Warning-severity Diagnostic.
func Warn(kind Kind, pos lexer.Position, format string, args ...any) Diagnostic {
	return Diagnostic{Kind: kind, Message: fmt.Sprintf(format, args...), Pos: pos, Severity: Warning}
}
