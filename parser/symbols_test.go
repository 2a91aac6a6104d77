package parser

import (
	"testing"

	"github.com/cschweda/z80-assembler/lexer"
)

func TestSymbolTableDefineAndLookup(t *testing.T) {
	st := NewSymbolTable()
	if w := st.Define("START", 0x4200, SymLabel, lexer.Position{}); w != nil {
		t.Fatalf("unexpected warning on first definition: %v", w)
	}
	addr, ok := st.Lookup("START")
	if !ok || addr != 0x4200 {
		t.Fatalf("got %v, %v, want 0x4200, true", addr, ok)
	}
}

func TestSymbolTableRedefinitionWarns(t *testing.T) {
	st := NewSymbolTable()
	st.Define("START", 0x4200, SymLabel, lexer.Position{})
	w := st.Define("START", 0x4300, SymLabel, lexer.Position{})
	if w == nil {
		t.Fatal("expected a warning on redefinition")
	}
	addr, _ := st.Lookup("START")
	if addr != 0x4300 {
		t.Errorf("expected the later binding to win, got %#04x", addr)
	}
}

func TestSymbolTableDeflNeverWarns(t *testing.T) {
	st := NewSymbolTable()
	st.Define("N", 1, SymDefl, lexer.Position{})
	w := st.Define("N", 2, SymDefl, lexer.Position{})
	if w != nil {
		t.Fatalf("DEFL redefinition should never warn, got: %v", w)
	}
}

func TestSymbolTableRebindNeverWarns(t *testing.T) {
	st := NewSymbolTable()
	st.Define("START", 0x4200, SymLabel, lexer.Position{})
	st.Rebind("START", 0x4201, SymLabel)
	addr, ok := st.Lookup("START")
	if !ok || addr != 0x4201 {
		t.Fatalf("got %v, %v, want 0x4201, true", addr, ok)
	}
}

func TestSymbolTableNamesSortedByAddress(t *testing.T) {
	st := NewSymbolTable()
	st.Define("B", 0x4300, SymLabel, lexer.Position{})
	st.Define("A", 0x4200, SymLabel, lexer.Position{})
	names := st.Names()
	if len(names) != 2 || names[0] != "A" || names[1] != "B" {
		t.Fatalf("got %v, want [A B]", names)
	}
}

func TestSymbolTableLookupMissing(t *testing.T) {
	st := NewSymbolTable()
	if _, ok := st.Lookup("MISSING"); ok {
		t.Fatal("expected lookup of an undefined symbol to fail")
	}
}
