package lexer

// mnemonics is the fixed, case-insensitive set of Z80 instruction mnemonics
// this assembler recognizes. Matched before registers and directives.
var mnemonics = map[string]bool{
	"NOP": true, "HALT": true, "DI": true, "EI": true, "SCF": true, "CCF": true,
	"CPL": true, "DAA": true, "RLCA": true, "RRCA": true, "RLA": true, "RRA": true,
	"RET": true, "EXX": true, "EX": true,
	"LDI": true, "LDD": true, "LDIR": true, "LDDR": true, "RETI": true, "RETN": true, "NEG": true,
	"JP": true, "CALL": true, "JR": true, "DJNZ": true,
	"LD": true,
	"ADD": true, "ADC": true, "SUB": true, "SBC": true, "AND": true, "OR": true, "XOR": true, "CP": true,
	"INC": true, "DEC": true,
	"PUSH": true, "POP": true,
	"RST": true,
	"RLC": true, "RRC": true, "RL": true, "RR": true, "SLA": true, "SRA": true,
	"SLL": true, "SRL": true, "BIT": true, "SET": true, "RES": true,
	"IN": true, "OUT": true,
}

// registers is the fixed set of register names. AF' is handled specially
// in the lexer since the apostrophe is not a valid identifier character.
// IX/IY and their halves are recognized (§1 Non-goals: not required to
// encode) so they lex as registers rather than bare labels.
var registers = map[string]bool{
	"A": true, "B": true, "C": true, "D": true, "E": true, "H": true, "L": true,
	"BC": true, "DE": true, "HL": true, "SP": true, "AF": true,
	"IX": true, "IY": true, "IXH": true, "IXL": true, "IYH": true, "IYL": true,
	"I": true, "R": true,
}

// directives is the fixed set of assembler directive names, dotted and
// undotted forms plus aliases, all stored without a leading dot.
var directives = map[string]bool{
	"ORG": true,
	"DB":  true, "DEFB": true,
	"DW": true, "DEFW": true,
	"DS": true, "DEFS": true,
	"EQU":  true,
	"DEFL": true,
	"END":  true,
}

// IsMnemonic reports whether the uppercased name is a recognized mnemonic.
func IsMnemonic(name string) bool { return mnemonics[name] }

// IsRegister reports whether the uppercased name is a recognized register.
func IsRegister(name string) bool { return registers[name] }

// IsDirective reports whether the uppercased name (without a leading dot)
// is a recognized directive.
func IsDirective(name string) bool { return directives[name] }
