package parser

import (
	"sort"

	"github.com/cschweda/z80-assembler/diag"
	"github.com/cschweda/z80-assembler/lexer"
)

// SymbolKind distinguishes how a Symbol's address was bound (§3 of the
// data model: Label | Equ | Defl).
type SymbolKind int

const (
	SymLabel SymbolKind = iota
	SymEqu
	SymDefl
)

func (k SymbolKind) String() string {
	switch k {
	case SymEqu:
		return "Equ"
	case SymDefl:
		return "Defl"
	default:
		return "Label"
	}
}

// Symbol is one entry of the symbol table: an uppercased name bound to a
// 16-bit address and the directive that bound it.
type Symbol struct {
	Address uint16
	Kind    SymbolKind
}

// SymbolTable maps uppercased identifiers to their Symbol. It satisfies
// eval.Symbols directly, so the expression evaluator can resolve names
// without an adapter.
type SymbolTable struct {
	entries map[string]Symbol
}

// NewSymbolTable returns an empty table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{entries: make(map[string]Symbol)}
}

// Lookup implements eval.Symbols.
func (st *SymbolTable) Lookup(name string) (int64, bool) {
	sym, ok := st.entries[name]
	if !ok {
		return 0, false
	}
	return int64(sym.Address), true
}

// Get returns the full Symbol for a name.
func (st *SymbolTable) Get(name string) (Symbol, bool) {
	sym, ok := st.entries[name]
	return sym, ok
}

// Define binds name to value with the given kind, returning a Warning
// diagnostic if name was already bound and the new kind is not Defl. A
// Defl binding never warns, whatever kind it replaces; the later binding
// always wins.
func (st *SymbolTable) Define(name string, value uint16, kind SymbolKind, pos lexer.Position) *diag.Diagnostic {
	existing, existed := st.entries[name]
	st.entries[name] = Symbol{Address: value, Kind: kind}
	if existed && kind != SymDefl {
		d := diag.Warn(diag.DuplicateSymbol, pos, "symbol %q redefined (was %#04x kind %s, now %#04x kind %s)",
			name, existing.Address, existing.Kind, value, kind)
		return &d
	}
	return nil
}

// Rebind overwrites name's address without ever producing a warning. The
// code generator uses this to install the authoritative address computed
// during final sizing, which supersedes the pass-1 binding for the same
// definition site.
func (st *SymbolTable) Rebind(name string, value uint16, kind SymbolKind) {
	st.entries[name] = Symbol{Address: value, Kind: kind}
}

// Names returns every symbol name ordered by address, then name.
func (st *SymbolTable) Names() []string {
	names := make([]string, 0, len(st.entries))
	for name := range st.entries {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		si, sj := st.entries[names[i]], st.entries[names[j]]
		if si.Address != sj.Address {
			return si.Address < sj.Address
		}
		return names[i] < names[j]
	})
	return names
}

// All returns a copy of the underlying name->Symbol map.
func (st *SymbolTable) All() map[string]Symbol {
	out := make(map[string]Symbol, len(st.entries))
	for k, v := range st.entries {
		out[k] = v
	}
	return out
}
