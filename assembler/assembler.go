// Package assembler is the single entry point the rest of the tree calls
// through: Assemble(source) runs the lexer, both parser passes, and the
// code generator, then aggregates every diagnostic into one Result (§4.6).
package assembler

import (
	"fmt"

	"github.com/cschweda/z80-assembler/codegen"
	"github.com/cschweda/z80-assembler/diag"
	"github.com/cschweda/z80-assembler/lexer"
	"github.com/cschweda/z80-assembler/parser"
)

// Result is the façade's output aggregate (§6).
type Result struct {
	Success      bool
	Bytes        []byte
	StartAddress uint16
	Errors       []diag.Diagnostic
	Warnings     []diag.Diagnostic
	Symbols      *parser.SymbolTable
	Instructions []*parser.Record
}

// Assemble runs the full pipeline over source and returns a Result.
// success is true exactly when no error-severity diagnostic was produced
// (§4.6). An unexpected panic anywhere in the pipeline is converted into
// a single Internal diagnostic at line 1 column 1, with an empty byte
// image — the façade never lets an internal failure escape as a Go panic.
func Assemble(source string) (result Result) {
	defer func() {
		if r := recover(); r != nil {
			result = Result{
				Success: false,
				Bytes:   nil,
				Errors: []diag.Diagnostic{
					diag.New(diag.Internal, lexer.Position{Line: 1, Column: 1}, "internal assembler failure: %v", r),
				},
			}
		}
	}()

	if source == "" {
		return Result{
			Success: false,
			Errors: []diag.Diagnostic{
				diag.New(diag.EmptySource, lexer.Position{Line: 1, Column: 1}, "source is empty"),
			},
		}
	}

	tokens := lexer.New(source).TokenizeAll()
	prog, errs := parser.Parse(tokens)
	bytes := codegen.Generate(prog, errs)

	return Result{
		Success:      !errs.HasErrors(),
		Bytes:        bytes,
		StartAddress: prog.StartAddress,
		Errors:       errs.Errors,
		Warnings:     errs.Warnings,
		Symbols:      prog.Symbols,
		Instructions: prog.Records,
	}
}

// AssembleBytes is a convenience wrapper for callers already holding a
// byte slice (e.g. a file read); per §6 only string source is a defined
// input. A slice containing a NUL byte yields an InvalidSourceType
// diagnostic; any other bytes, including invalid UTF-8, are assembled.
func AssembleBytes(source []byte) Result {
	if !isValidText(source) {
		return Result{
			Success: false,
			Errors: []diag.Diagnostic{
				diag.New(diag.InvalidSourceType, lexer.Position{Line: 1, Column: 1}, "source is not valid text"),
			},
		}
	}
	return Assemble(string(source))
}

func isValidText(b []byte) bool {
	for _, c := range b {
		if c == 0 {
			return false
		}
	}
	return true
}

// String renders a Result summary for debugging/logging callers.
func (r Result) String() string {
	status := "ok"
	if !r.Success {
		status = "failed"
	}
	return fmt.Sprintf("assemble: %s, %d bytes at %#04x, %d error(s), %d warning(s)",
		status, len(r.Bytes), r.StartAddress, len(r.Errors), len(r.Warnings))
}
