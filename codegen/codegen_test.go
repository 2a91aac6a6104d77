package codegen

import (
	"testing"

	"github.com/cschweda/z80-assembler/lexer"
	"github.com/cschweda/z80-assembler/parser"
)

func assembleBytes(t *testing.T, source string) ([]byte, *parser.ErrorList) {
	t.Helper()
	toks := lexer.New(source).TokenizeAll()
	prog, errs := parser.Parse(toks)
	bytes := Generate(prog, errs)
	return bytes, errs
}

func TestGenerateSimpleProgram(t *testing.T) {
	bytes, errs := assembleBytes(t, "NOP\nHALT\n")
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	want := []byte{0x00, 0x76}
	if string(bytes) != string(want) {
		t.Fatalf("got %#v, want %#v", bytes, want)
	}
}

func TestGenerateForwardLabelReference(t *testing.T) {
	src := "LD A,(VALUE)\nHALT\nVALUE: DB 42\n"
	bytes, errs := assembleBytes(t, src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	// LD A,(nn) = 3 bytes, HALT = 1 byte, so VALUE = 0x4200+4 = 0x4204.
	want := []byte{0x3A, 0x04, 0x42, 0x76, 42}
	if string(bytes) != string(want) {
		t.Fatalf("got %#v, want %#v", bytes, want)
	}
}

func TestGenerateBackwardJR(t *testing.T) {
	src := "LOOP: NOP\nJR LOOP\n"
	bytes, errs := assembleBytes(t, src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	// LOOP at 0x4200; JR at 0x4201, target 0x4200, disp = 0x4200 - 0x4203 = -3.
	want := []byte{0x00, 0x18, 0xFD}
	if string(bytes) != string(want) {
		t.Fatalf("got %#v, want %#v", bytes, want)
	}
}

func TestGenerateNoOrgUsesDefaultOrg(t *testing.T) {
	// No .ORG at all: LOOP must bind to DefaultOrg (0x4200), not 0.
	src := "LOOP: NOP\nLD A,(LOOP)\n"
	bytes, errs := assembleBytes(t, src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	want := []byte{0x00, 0x3A, 0x00, 0x42}
	if string(bytes) != string(want) {
		t.Fatalf("got %#v, want %#v", bytes, want)
	}
}

func TestGenerateRelativeJumpOutOfRange(t *testing.T) {
	src := "JR FAR\n.ORG $4300\nFAR: NOP\n"
	_, errs := assembleBytes(t, src)
	if !errs.HasErrors() {
		t.Fatal("expected a relative-jump-out-of-range error")
	}
}

func TestGenerateUndefinedSymbol(t *testing.T) {
	src := "LD A,(MISSING)\n"
	_, errs := assembleBytes(t, src)
	if !errs.HasErrors() {
		t.Fatal("expected an undefined-symbol error")
	}
}

func TestGenerateOrgDoesNotPad(t *testing.T) {
	src := ".ORG $4200\nNOP\n.ORG $5000\nHALT\n"
	bytes, errs := assembleBytes(t, src)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors)
	}
	want := []byte{0x00, 0x76}
	if string(bytes) != string(want) {
		t.Fatalf("got %#v, want %#v (.ORG must not pad)", bytes, want)
	}
}
