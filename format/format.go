// Package format renders the assembler's output (the byte image and the
// symbol table of an assembler.Result) into encodings beyond a raw byte
// slice: Intel HEX for toolchain interchange and a
// columnar symbol-table listing for debugging, grounded on the same
// tabular conventions the teacher's cross-reference tooling uses.
package format

import (
	"fmt"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/cschweda/z80-assembler/parser"
)

// Binary returns the raw byte image — the contract already specified by
// the core assembler (§6).
func Binary(bytes []byte) []byte {
	return bytes
}

// IntelHex renders bytes starting at origin as Intel HEX text: the image
// is treated as one contiguous run from origin and split into data
// records of at most 16 bytes each, terminated by an EOF record.
func IntelHex(bytes []byte, origin uint16) (string, error) {
	var sb strings.Builder
	const maxRecordLen = 16

	addr := origin
	for offset := 0; offset < len(bytes); offset += maxRecordLen {
		end := offset + maxRecordLen
		if end > len(bytes) {
			end = len(bytes)
		}
		chunk := bytes[offset:end]
		if err := writeHexRecord(&sb, addr, 0x00, chunk); err != nil {
			return "", err
		}
		addr += uint16(len(chunk))
	}

	if err := writeHexRecord(&sb, 0, 0x01, nil); err != nil {
		return "", err
	}

	return sb.String(), nil
}

func writeHexRecord(sb *strings.Builder, addr uint16, recType byte, data []byte) error {
	length := byte(len(data))
	checksum := length + byte(addr>>8) + byte(addr&0xFF) + recType
	for _, b := range data {
		checksum += b
	}
	checksum = byte(-int8(checksum))

	fmt.Fprintf(sb, ":%02X%04X%02X", length, addr, recType)
	for _, b := range data {
		fmt.Fprintf(sb, "%02X", b)
	}
	fmt.Fprintf(sb, "%02X\n", checksum)
	return nil
}

// SymbolListing renders a NAME / ADDRESS / KIND table sorted by address,
// using text/tabwriter for column alignment.
func SymbolListing(symbols *parser.SymbolTable) string {
	names := symbols.Names()

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tADDRESS\tKIND")
	for _, name := range sortedByAddress(symbols, names) {
		sym, _ := symbols.Get(name)
		fmt.Fprintf(w, "%s\t%#04x\t%s\n", name, sym.Address, sym.Kind)
	}
	w.Flush()
	return sb.String()
}

func sortedByAddress(symbols *parser.SymbolTable, names []string) []string {
	out := make([]string, len(names))
	copy(out, names)
	sort.SliceStable(out, func(i, j int) bool {
		si, _ := symbols.Get(out[i])
		sj, _ := symbols.Get(out[j])
		if si.Address != sj.Address {
			return si.Address < sj.Address
		}
		return out[i] < out[j]
	})
	return out
}
