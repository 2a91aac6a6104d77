// Package codegen performs the final encoding pass over a parser.Program:
// it rebinds labels to their pass-2-assigned address, substitutes every
// deferred LabelRef operand against the completed symbol table, and
// re-encodes any instruction whose label target moved once the whole
// program had been walked (§4.5).
package codegen

import (
	"github.com/cschweda/z80-assembler/diag"
	"github.com/cschweda/z80-assembler/encoder"
	"github.com/cschweda/z80-assembler/lexer"
	"github.com/cschweda/z80-assembler/parser"
)

// Generate walks prog.Records in source order, producing the final byte
// image. Each Record's Address was already fixed by pass 2 (which tracks
// every .ORG reset as it walks the source), so Generate trusts it rather
// than re-deriving a PC by accumulating byte lengths from StartAddress —
// that accumulation has no way to learn about a later .ORG and would
// silently drift once one appears. Generate mutates Bytes in place and
// rebinds Label-kind symbols in prog.Symbols to their authoritative
// address. Errors accumulate into errs; Generate always returns the
// best-effort byte image assembled so far.
func Generate(prog *parser.Program, errs *parser.ErrorList) []byte {
	for _, rec := range prog.Records {
		if rec.Label != "" {
			prog.Symbols.Rebind(rec.Label, rec.Address, parser.SymLabel)
		}

		switch rec.Kind {
		case parser.KindData:
			// bytes already fully resolved in pass 2.
		case parser.KindInstruction:
			bytes, err := encodeRecord(rec, prog.Symbols, rec.Address)
			if err != nil {
				errs.Add(toDiag(rec, err))
				bytes = nil
			}
			rec.Bytes = bytes
		}
	}

	// Second pass: re-encode any instruction that resolved cleanly but
	// still referenced a label, in case that label's address moved once
	// every definition in the program had been walked. Records that
	// already failed to encode are left alone to avoid duplicate
	// diagnostics for the same failure.
	for _, rec := range prog.Records {
		if rec.Kind == parser.KindInstruction && rec.Bytes != nil && rec.HasLabelRef() {
			origLen := len(rec.Bytes)
			bytes, err := encodeRecord(rec, prog.Symbols, rec.Address)
			if err != nil {
				errs.Add(toDiag(rec, err))
				continue
			}
			if len(bytes) != origLen {
				errs.Add(diag.New(diag.Internal, rec.Pos,
					"instruction length changed between passes for %s (was %d bytes, now %d)",
					rec.Mnemonic, origLen, len(bytes)))
				continue
			}
			rec.Bytes = bytes
		}
	}

	out := make([]byte, 0, len(prog.Records)*2)
	for _, rec := range prog.Records {
		out = append(out, rec.Bytes...)
	}
	return out
}

// resolveOperand substitutes LabelRef operands against symbols, turning
// a bare label into an Immediate and a (label) form into an IndirectAddr
// (§4.5 Operand resolution).
func resolveOperand(op parser.Operand, symbols *parser.SymbolTable, pos lexer.Position) (parser.Operand, error) {
	ref, ok := op.(parser.LabelRefOperand)
	if !ok {
		return op, nil
	}
	addr, found := symbols.Lookup(ref.Name)
	if !found {
		return nil, &encoder.EncodingError{
			Kind:    diag.UndefinedSymbol,
			Message: "undefined symbol " + ref.Name,
		}
	}
	if ref.Indirect {
		return parser.IndirectAddrOperand{Value: addr}, nil
	}
	return parser.ImmediateOperand{Value: addr}, nil
}

func encodeRecord(rec *parser.Record, symbols *parser.SymbolTable, addr uint16) ([]byte, error) {
	resolved := make([]parser.Operand, len(rec.Operands))
	for i, op := range rec.Operands {
		r, err := resolveOperand(op, symbols, rec.Pos)
		if err != nil {
			return nil, err
		}
		resolved[i] = r
	}
	return encoder.Encode(rec.Mnemonic, resolved, addr)
}

func toDiag(rec *parser.Record, err error) diag.Diagnostic {
	if ee, ok := err.(*encoder.EncodingError); ok {
		return diag.New(ee.Kind, rec.Pos, "%s", ee.Message)
	}
	return diag.New(diag.Internal, rec.Pos, "%v", err)
}
