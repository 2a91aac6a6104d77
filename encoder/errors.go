package encoder

import (
	"fmt"

	"github.com/cschweda/z80-assembler/diag"
)

// EncodingError carries a diagnostic Kind alongside the human-readable
// message every encoder failure path produces.
type EncodingError struct {
	Kind    diag.Kind
	Message string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}
