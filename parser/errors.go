package parser

import (
	"strings"

	"github.com/cschweda/z80-assembler/diag"
	"github.com/cschweda/z80-assembler/lexer"
)

// Error is a parse-time failure, synchronized at statement granularity
// (§7: "Parser errors at statement level are caught, appended to
// diagnostics, and the parser advances to the next newline").
type Error struct {
	Diag diag.Diagnostic
}

func (e *Error) Error() string {
	return e.Diag.String()
}

// NewError builds a parser Error at Error severity.
func NewError(kind diag.Kind, pos lexer.Position, format string, args ...any) *Error {
	return &Error{Diag: diag.New(kind, pos, format, args...)}
}

// ErrorList accumulates every diagnostic produced while parsing, split
// into fatal errors and non-fatal warnings (symbol redefinition, §7).
type ErrorList struct {
	Errors   []diag.Diagnostic
	Warnings []diag.Diagnostic
}

// Add appends d to Errors or Warnings depending on its severity.
func (el *ErrorList) Add(d diag.Diagnostic) {
	if d.Severity == diag.Warning {
		el.Warnings = append(el.Warnings, d)
		return
	}
	el.Errors = append(el.Errors, d)
}

// AddError appends a parser Error's diagnostic.
func (el *ErrorList) AddError(err *Error) {
	el.Add(err.Diag)
}

// HasErrors reports whether any Error-severity diagnostic was collected.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// Error implements the error interface, rendering every collected error.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}
	var sb strings.Builder
	for _, d := range el.Errors {
		sb.WriteString(d.String())
		sb.WriteString("\n")
	}
	return sb.String()
}

// String renders every collected warning, one per line.
func (el *ErrorList) String() string {
	var sb strings.Builder
	for _, d := range el.Warnings {
		sb.WriteString(d.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
