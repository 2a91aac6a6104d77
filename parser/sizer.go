package parser

import "github.com/cschweda/z80-assembler/lexer"

// operandShape is the coarse classification the sizer needs to pick an
// instruction width without evaluating any expression (§4.3.3).
type operandShape int

const (
	shapeReg8 operandShape = iota
	shapeReg16
	shapeIndirectHL
	shapeIndirectRegPair // (BC) or (DE)
	shapeIndirectExpr    // (expr) — an address form
	shapeCondition
	shapeLabel // bare identifier, not a condition name
	shapeNumber
)

var reg8Set = map[string]bool{"A": true, "B": true, "C": true, "D": true, "E": true, "H": true, "L": true}
var reg16Set = map[string]bool{"BC": true, "DE": true, "HL": true, "SP": true, "AF": true}
var conditionSet = map[string]bool{"NZ": true, "Z": true, "NC": true, "C": true, "PO": true, "PE": true, "P": true, "M": true}

// shapeOf classifies one operand's raw token slice. name is the register
// or label literal when meaningful for the caller's dispatch.
func shapeOf(toks []lexer.Token) (shape operandShape, name string) {
	if len(toks) == 1 {
		t := toks[0]
		switch t.Type {
		case lexer.TokenRegister:
			if reg8Set[t.Literal] {
				return shapeReg8, t.Literal
			}
			return shapeReg16, t.Literal
		case lexer.TokenLabel:
			if conditionSet[t.Literal] {
				return shapeCondition, t.Literal
			}
			return shapeLabel, t.Literal
		case lexer.TokenNumber:
			return shapeNumber, ""
		}
	}
	if len(toks) == 3 && toks[0].Type == lexer.TokenLParen && toks[2].Type == lexer.TokenRParen && toks[1].Type == lexer.TokenRegister {
		if toks[1].Literal == "HL" {
			return shapeIndirectHL, "HL"
		}
		return shapeIndirectRegPair, toks[1].Literal
	}
	if len(toks) >= 2 && toks[0].Type == lexer.TokenLParen && toks[len(toks)-1].Type == lexer.TokenRParen {
		return shapeIndirectExpr, ""
	}
	return shapeNumber, ""
}

// splitOperands splits a statement's operand tokens on top-level commas,
// respecting parenthesis nesting.
func splitOperands(tokens []lexer.Token) [][]lexer.Token {
	if len(tokens) == 0 {
		return nil
	}
	var groups [][]lexer.Token
	var cur []lexer.Token
	depth := 0
	for _, t := range tokens {
		switch t.Type {
		case lexer.TokenLParen:
			depth++
		case lexer.TokenRParen:
			depth--
		}
		if t.Type == lexer.TokenComma && depth == 0 {
			groups = append(groups, cur)
			cur = nil
			continue
		}
		cur = append(cur, t)
	}
	groups = append(groups, cur)
	return groups
}

// sizeInstruction implements the §4.3.3 decision table: mnemonic plus a
// lookahead over its (unevaluated) operand tokens yields a byte count.
// The encoder remains authoritative; this is a best-effort estimate that
// pass 1 uses to advance currentAddress and that §9 requires to agree
// with the code generator's actual encoding for label-bearing forms.
func sizeInstruction(mnemonic string, operandTokens []lexer.Token) int {
	groups := splitOperands(operandTokens)

	switch mnemonic {
	case "NOP", "HALT", "DI", "EI", "SCF", "CCF", "CPL", "DAA",
		"RLCA", "RRCA", "RLA", "RRA", "RET", "EXX", "EX":
		return 1
	case "LDI", "LDD", "LDIR", "LDDR", "RETI", "RETN", "NEG":
		return 2
	case "JP", "CALL":
		return 3
	case "JR", "DJNZ":
		return 2
	case "LD":
		return sizeLD(groups)
	case "ADD", "ADC", "SUB", "SBC", "AND", "OR", "XOR", "CP":
		return sizeALU(mnemonic, groups)
	case "INC", "DEC", "PUSH", "POP", "RST":
		return 1
	case "RLC", "RRC", "RL", "RR", "SLA", "SRA", "SLL", "SRL", "BIT", "SET", "RES":
		return 2
	case "IN", "OUT":
		return 2
	default:
		return 1
	}
}

func sizeLD(groups [][]lexer.Token) int {
	if len(groups) != 2 {
		return 1
	}
	dShape, dName := shapeOf(groups[0])
	sShape, sName := shapeOf(groups[1])

	switch {
	case dShape == shapeReg8 && sShape == shapeReg8:
		return 1
	case dShape == shapeReg8 && sShape == shapeIndirectHL:
		return 1
	case dShape == shapeIndirectHL && sShape == shapeReg8:
		return 1
	case dShape == shapeReg8 && dName == "A" && sShape == shapeIndirectRegPair:
		return 1
	case dShape == shapeIndirectRegPair && sShape == shapeReg8 && sName == "A":
		return 1
	case dShape == shapeReg8 && (sShape == shapeNumber || sShape == shapeLabel):
		return 2
	case dShape == shapeIndirectHL && (sShape == shapeNumber || sShape == shapeLabel):
		return 2
	case dShape == shapeReg16 && dName == "SP" && sShape == shapeReg16 && sName == "HL":
		return 1
	case dShape == shapeReg16 && (sShape == shapeNumber || sShape == shapeLabel):
		// Forward-referenced labels are assumed 16-bit (§4.3.3).
		return 3
	case dShape == shapeIndirectExpr && sShape == shapeReg8 && sName == "A":
		return 3
	case dShape == shapeReg8 && dName == "A" && sShape == shapeIndirectExpr:
		return 3
	case dShape == shapeIndirectExpr && sShape == shapeReg16 && sName == "HL":
		return 3
	case dShape == shapeReg16 && dName == "HL" && sShape == shapeIndirectExpr:
		return 3
	default:
		return 3
	}
}

func sizeALU(mnemonic string, groups [][]lexer.Token) int {
	if mnemonic == "ADD" && len(groups) == 2 {
		if dShape, _ := shapeOf(groups[0]); dShape == shapeReg16 {
			return 1
		}
	}
	var operand []lexer.Token
	switch len(groups) {
	case 2:
		operand = groups[1]
	case 1:
		operand = groups[0]
	default:
		return 1
	}
	shape, _ := shapeOf(operand)
	switch shape {
	case shapeReg8, shapeIndirectHL:
		return 1
	default:
		return 2
	}
}
