package format

import (
	"strings"
	"testing"

	"github.com/cschweda/z80-assembler/lexer"
	"github.com/cschweda/z80-assembler/parser"
)

func TestIntelHexSingleRecord(t *testing.T) {
	hex, err := IntelHex([]byte{0x00, 0x76}, 0x4200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(hex, "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected a data record and an EOF record, got %d lines: %q", len(lines), hex)
	}
	if !strings.HasPrefix(lines[0], ":0242000000") {
		t.Errorf("unexpected data record: %s", lines[0])
	}
	if lines[1] != ":00000001FF" {
		t.Errorf("unexpected EOF record: %s", lines[1])
	}
}

func TestIntelHexMultipleRecords(t *testing.T) {
	bytes := make([]byte, 20)
	for i := range bytes {
		bytes[i] = byte(i)
	}
	hex, err := IntelHex(bytes, 0x4200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimRight(hex, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected two data records plus EOF, got %d: %q", len(lines), hex)
	}
	if !strings.HasPrefix(lines[0], ":10") {
		t.Errorf("expected first record of length 16, got %s", lines[0])
	}
	if !strings.HasPrefix(lines[1], ":04") {
		t.Errorf("expected second record of length 4, got %s", lines[1])
	}
}

func TestIntelHexEmpty(t *testing.T) {
	hex, err := IntelHex(nil, 0x4200)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hex != ":00000001FF\n" {
		t.Fatalf("expected a bare EOF record, got %q", hex)
	}
}

func TestSymbolListingSortedByAddress(t *testing.T) {
	st := parser.NewSymbolTable()
	st.Define("RESULT", 0x4209, parser.SymLabel, lexer.Position{})
	st.Define("START", 0x4200, parser.SymLabel, lexer.Position{})
	st.Define("COUNT", 10, parser.SymEqu, lexer.Position{})

	listing := SymbolListing(st)

	startIdx := strings.Index(listing, "START")
	countIdx := strings.Index(listing, "COUNT")
	resultIdx := strings.Index(listing, "RESULT")

	if !(countIdx < startIdx && startIdx < resultIdx) {
		t.Fatalf("expected symbols sorted by address, got listing:\n%s", listing)
	}
	if !strings.Contains(listing, "NAME") || !strings.Contains(listing, "ADDRESS") {
		t.Fatalf("expected a header row, got:\n%s", listing)
	}
}
