// Package encoder implements the fixed, pure mapping from a Z80 mnemonic
// and its resolved operands to opcode bytes (§4.4). It never consults a
// symbol table or parser state directly — every operand arriving here
// has already been reduced to a concrete value by the code generator.
package encoder

import (
	"fmt"

	"github.com/cschweda/z80-assembler/diag"
	"github.com/cschweda/z80-assembler/parser"
)

func unsupported(format string, args ...any) error {
	return &EncodingError{Kind: diag.UnsupportedInstructionPattern, Message: fmt.Sprintf(format, args...)}
}

func outOfRange(kind diag.Kind, format string, args ...any) error {
	return &EncodingError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func split16(v int64) (lo, hi byte) {
	u := uint16(uint64(v) & 0xFFFF)
	return byte(u & 0xFF), byte(u >> 8)
}

func toAddr(op parser.Operand) (int64, bool) {
	switch v := op.(type) {
	case parser.ImmediateOperand:
		return v.Value, true
	case parser.IndirectAddrOperand:
		return v.Value, true
	default:
		return 0, false
	}
}

// Encode returns the opcode bytes for mnemonic applied to operands.
// operands must be free of parser.LabelRefOperand — the code generator
// resolves those against the finalized symbol table before calling in.
// addr is the instruction's own address, needed only for JR/DJNZ
// relative-displacement arithmetic.
func Encode(mnemonic string, operands []parser.Operand, addr uint16) ([]byte, error) {
	switch mnemonic {
	case "NOP":
		return []byte{0x00}, nil
	case "HALT":
		return []byte{0x76}, nil
	case "DI":
		return []byte{0xF3}, nil
	case "EI":
		return []byte{0xFB}, nil
	case "SCF":
		return []byte{0x37}, nil
	case "CCF":
		return []byte{0x3F}, nil
	case "CPL":
		return []byte{0x2F}, nil
	case "DAA":
		return []byte{0x27}, nil
	case "RLCA":
		return []byte{0x07}, nil
	case "RRCA":
		return []byte{0x0F}, nil
	case "RLA":
		return []byte{0x17}, nil
	case "RRA":
		return []byte{0x1F}, nil
	case "EXX":
		return []byte{0xD9}, nil
	case "RET":
		return encodeRet(operands)
	case "EX":
		return encodeEx(operands)
	case "LDI":
		return []byte{0xED, 0xA0}, nil
	case "LDD":
		return []byte{0xED, 0xA8}, nil
	case "LDIR":
		return []byte{0xED, 0xB0}, nil
	case "LDDR":
		return []byte{0xED, 0xB8}, nil
	case "RETI":
		return []byte{0xED, 0x4D}, nil
	case "RETN":
		return []byte{0xED, 0x45}, nil
	case "NEG":
		return []byte{0xED, 0x44}, nil
	case "JP":
		return encodeJP(operands)
	case "CALL":
		return encodeCall(operands)
	case "JR":
		return encodeJR(operands, addr)
	case "DJNZ":
		return encodeDJNZ(operands, addr)
	case "LD":
		return encodeLD(operands)
	case "ADD", "ADC", "SUB", "SBC", "AND", "OR", "XOR", "CP":
		return encodeALU(mnemonic, operands)
	case "INC":
		return encodeIncDec(true, operands)
	case "DEC":
		return encodeIncDec(false, operands)
	case "PUSH":
		return encodePushPop(0xC5, operands)
	case "POP":
		return encodePushPop(0xC1, operands)
	case "RST":
		return encodeRST(operands)
	case "RLC", "RRC", "RL", "RR", "SLA", "SRA", "SLL", "SRL":
		return encodeRotateShift(mnemonic, operands)
	case "BIT", "SET", "RES":
		return encodeBitOp(mnemonic, operands)
	case "IN":
		return encodeIN(operands)
	case "OUT":
		return encodeOUT(operands)
	default:
		return nil, unsupported("unknown mnemonic %q", mnemonic)
	}
}

func encodeRet(operands []parser.Operand) ([]byte, error) {
	switch len(operands) {
	case 0:
		return []byte{0xC9}, nil
	case 1:
		cc, ok := operands[0].(parser.ConditionOperand)
		if !ok {
			return nil, unsupported("RET expects a condition code")
		}
		idx, ok := conditionIndex[cc.CC]
		if !ok {
			return nil, unsupported("RET: unknown condition %q", cc.CC)
		}
		return []byte{0xC0 | idx<<3}, nil
	default:
		return nil, unsupported("RET takes at most one operand")
	}
}

func encodeEx(operands []parser.Operand) ([]byte, error) {
	if len(operands) != 2 {
		return nil, unsupported("EX takes two operands")
	}
	a, b := operands[0], operands[1]
	if ra, ok := a.(parser.RegisterOperand); ok {
		if rb, ok := b.(parser.RegisterOperand); ok {
			switch {
			case ra.Name == "DE" && rb.Name == "HL":
				return []byte{0xEB}, nil
			case ra.Name == "AF" && rb.Name == "AF'":
				return []byte{0x08}, nil
			}
		}
	}
	if ia, ok := a.(parser.IndirectOperand); ok && ia.Name == "SP" {
		if rb, ok := b.(parser.RegisterOperand); ok && rb.Name == "HL" {
			return []byte{0xE3}, nil
		}
	}
	return nil, unsupported("unsupported EX form")
}

func encodeJP(operands []parser.Operand) ([]byte, error) {
	switch len(operands) {
	case 1:
		if ind, ok := operands[0].(parser.IndirectOperand); ok && ind.Name == "HL" {
			return []byte{0xE9}, nil
		}
		target, ok := toAddr(operands[0])
		if !ok {
			return nil, unsupported("JP expects an address")
		}
		lo, hi := split16(target)
		return []byte{0xC3, lo, hi}, nil
	case 2:
		cc, ok := operands[0].(parser.ConditionOperand)
		if !ok {
			return nil, unsupported("JP cc,nn expects a condition code")
		}
		idx, ok := conditionIndex[cc.CC]
		if !ok {
			return nil, unsupported("JP: unknown condition %q", cc.CC)
		}
		target, ok := toAddr(operands[1])
		if !ok {
			return nil, unsupported("JP cc,nn expects an address")
		}
		lo, hi := split16(target)
		return []byte{0xC2 | idx<<3, lo, hi}, nil
	default:
		return nil, unsupported("JP takes one or two operands")
	}
}

func encodeCall(operands []parser.Operand) ([]byte, error) {
	switch len(operands) {
	case 1:
		target, ok := toAddr(operands[0])
		if !ok {
			return nil, unsupported("CALL expects an address")
		}
		lo, hi := split16(target)
		return []byte{0xCD, lo, hi}, nil
	case 2:
		cc, ok := operands[0].(parser.ConditionOperand)
		if !ok {
			return nil, unsupported("CALL cc,nn expects a condition code")
		}
		idx, ok := conditionIndex[cc.CC]
		if !ok {
			return nil, unsupported("CALL: unknown condition %q", cc.CC)
		}
		target, ok := toAddr(operands[1])
		if !ok {
			return nil, unsupported("CALL cc,nn expects an address")
		}
		lo, hi := split16(target)
		return []byte{0xC4 | idx<<3, lo, hi}, nil
	default:
		return nil, unsupported("CALL takes one or two operands")
	}
}

func relativeDisplacement(target int64, addr uint16) (byte, error) {
	disp := target - int64(addr) - 2
	if disp < -128 || disp > 127 {
		return 0, outOfRange(diag.RelativeJumpOutOfRange,
			"relative jump target %#04x out of range from %#04x (offset %d)", target, addr, disp)
	}
	return byte(disp), nil
}

func encodeJR(operands []parser.Operand, addr uint16) ([]byte, error) {
	var targetOp parser.Operand
	base := byte(0x18)
	switch len(operands) {
	case 1:
		targetOp = operands[0]
	case 2:
		cc, ok := operands[0].(parser.ConditionOperand)
		if !ok {
			return nil, unsupported("JR cc,e expects a condition code")
		}
		idx, ok := jrConditionIndex[cc.CC]
		if !ok {
			return nil, unsupported("JR condition must be NZ, Z, NC, or C")
		}
		base = 0x20 | idx<<3
		targetOp = operands[1]
	default:
		return nil, unsupported("JR takes one or two operands")
	}
	target, ok := toAddr(targetOp)
	if !ok {
		return nil, unsupported("JR expects an address")
	}
	disp, err := relativeDisplacement(target, addr)
	if err != nil {
		return nil, err
	}
	return []byte{base, disp}, nil
}

func encodeDJNZ(operands []parser.Operand, addr uint16) ([]byte, error) {
	if len(operands) != 1 {
		return nil, unsupported("DJNZ takes one operand")
	}
	target, ok := toAddr(operands[0])
	if !ok {
		return nil, unsupported("DJNZ expects an address")
	}
	disp, err := relativeDisplacement(target, addr)
	if err != nil {
		return nil, err
	}
	return []byte{0x10, disp}, nil
}

func encodeLD(operands []parser.Operand) ([]byte, error) {
	if len(operands) != 2 {
		return nil, unsupported("LD takes two operands")
	}
	dst, src := operands[0], operands[1]

	switch d := dst.(type) {
	case parser.RegisterOperand:
		if dr, ok := reg8Index[d.Name]; ok {
			switch s := src.(type) {
			case parser.RegisterOperand:
				if sr, ok := reg8Index[s.Name]; ok {
					return []byte{0x40 | dr<<3 | sr}, nil
				}
			case parser.IndirectOperand:
				if s.Name == "HL" {
					return []byte{0x40 | dr<<3 | 6}, nil
				}
				if d.Name == "A" && s.Name == "BC" {
					return []byte{0x0A}, nil
				}
				if d.Name == "A" && s.Name == "DE" {
					return []byte{0x1A}, nil
				}
			case parser.ImmediateOperand:
				return []byte{0x06 | dr<<3, byte(s.Value & 0xFF)}, nil
			case parser.IndirectAddrOperand:
				if d.Name == "A" {
					lo, hi := split16(s.Value)
					return []byte{0x3A, lo, hi}, nil
				}
			}
			return nil, unsupported("unsupported LD %s,... form", d.Name)
		}
		if _, ok := regPairIndex[d.Name]; ok || d.Name == "SP" {
			switch s := src.(type) {
			case parser.RegisterOperand:
				if d.Name == "SP" && s.Name == "HL" {
					return []byte{0xF9}, nil
				}
			case parser.ImmediateOperand:
				p, ok := regPairIndex[d.Name]
				if !ok {
					break
				}
				lo, hi := split16(s.Value)
				return []byte{0x01 | p<<4, lo, hi}, nil
			case parser.LabelRefOperand:
				// resolved upstream; unreachable in practice
			case parser.IndirectAddrOperand:
				if d.Name == "HL" {
					lo, hi := split16(s.Value)
					return []byte{0x2A, lo, hi}, nil
				}
			}
			return nil, unsupported("unsupported LD %s,... form", d.Name)
		}
		return nil, unsupported("unsupported LD destination register %q", d.Name)

	case parser.IndirectOperand:
		switch d.Name {
		case "HL":
			switch s := src.(type) {
			case parser.RegisterOperand:
				if sr, ok := reg8Index[s.Name]; ok {
					return []byte{0x70 | sr}, nil
				}
			case parser.ImmediateOperand:
				return []byte{0x36, byte(s.Value & 0xFF)}, nil
			}
		case "BC", "DE":
			if s, ok := src.(parser.RegisterOperand); ok && s.Name == "A" {
				if d.Name == "BC" {
					return []byte{0x02}, nil
				}
				return []byte{0x12}, nil
			}
		}
		return nil, unsupported("unsupported LD (%s),... form", d.Name)

	case parser.IndirectAddrOperand:
		if s, ok := src.(parser.RegisterOperand); ok {
			switch s.Name {
			case "A":
				lo, hi := split16(d.Value)
				return []byte{0x32, lo, hi}, nil
			case "HL":
				lo, hi := split16(d.Value)
				return []byte{0x22, lo, hi}, nil
			}
		}
		return nil, unsupported("unsupported LD (nn),... form")
	}

	return nil, unsupported("unsupported LD form")
}

func encodeALU(mnemonic string, operands []parser.Operand) ([]byte, error) {
	if mnemonic == "ADD" && len(operands) == 2 {
		if d, ok := operands[0].(parser.RegisterOperand); ok && d.Name == "HL" {
			if s, ok := operands[1].(parser.RegisterOperand); ok {
				if p, ok := regPairIndex[s.Name]; ok {
					return []byte{0x09 | p<<4}, nil
				}
			}
			return nil, unsupported("ADD HL, expects a register pair")
		}
	}

	var operand parser.Operand
	switch len(operands) {
	case 2:
		operand = operands[1]
	case 1:
		operand = operands[0]
	default:
		return nil, unsupported("%s takes one or two operands", mnemonic)
	}

	switch v := operand.(type) {
	case parser.RegisterOperand:
		if r, ok := reg8Index[v.Name]; ok {
			return []byte{aluReg8Base[mnemonic] | r}, nil
		}
	case parser.IndirectOperand:
		if v.Name == "HL" {
			return []byte{aluReg8Base[mnemonic] | 6}, nil
		}
	case parser.ImmediateOperand:
		return []byte{aluImmBase[mnemonic], byte(v.Value & 0xFF)}, nil
	}
	return nil, unsupported("unsupported %s operand", mnemonic)
}

func encodeIncDec(isInc bool, operands []parser.Operand) ([]byte, error) {
	if len(operands) != 1 {
		return nil, unsupported("INC/DEC takes one operand")
	}
	switch v := operands[0].(type) {
	case parser.RegisterOperand:
		if r, ok := reg8Index[v.Name]; ok {
			if isInc {
				return []byte{0x04 | r<<3}, nil
			}
			return []byte{0x05 | r<<3}, nil
		}
		if p, ok := regPairIndex[v.Name]; ok {
			if isInc {
				return []byte{0x03 | p<<4}, nil
			}
			return []byte{0x0B | p<<4}, nil
		}
	case parser.IndirectOperand:
		if v.Name == "HL" {
			if isInc {
				return []byte{0x34}, nil
			}
			return []byte{0x35}, nil
		}
	}
	return nil, unsupported("unsupported INC/DEC operand")
}

func encodePushPop(base byte, operands []parser.Operand) ([]byte, error) {
	if len(operands) != 1 {
		return nil, unsupported("PUSH/POP takes one operand")
	}
	r, ok := operands[0].(parser.RegisterOperand)
	if !ok {
		return nil, unsupported("PUSH/POP expects a register pair")
	}
	q, ok := stackPairIndex[r.Name]
	if !ok {
		return nil, unsupported("PUSH/POP: unsupported register pair %q", r.Name)
	}
	return []byte{base | q<<4}, nil
}

func encodeRST(operands []parser.Operand) ([]byte, error) {
	if len(operands) != 1 {
		return nil, unsupported("RST takes one operand")
	}
	imm, ok := operands[0].(parser.ImmediateOperand)
	if !ok {
		return nil, unsupported("RST expects a numeric target")
	}
	if !rstTargets[imm.Value] {
		return nil, outOfRange(diag.InvalidRSTAddress, "invalid RST target %#x", imm.Value)
	}
	return []byte{0xC7 | byte(imm.Value)}, nil
}

func encodeRotateShift(mnemonic string, operands []parser.Operand) ([]byte, error) {
	if len(operands) != 1 {
		return nil, unsupported("%s takes one operand", mnemonic)
	}
	base := rotateShiftBase[mnemonic]
	switch v := operands[0].(type) {
	case parser.RegisterOperand:
		if r, ok := reg8Index[v.Name]; ok {
			return []byte{0xCB, base | r}, nil
		}
	case parser.IndirectOperand:
		if v.Name == "HL" {
			return []byte{0xCB, base | 6}, nil
		}
	}
	return nil, unsupported("unsupported %s operand", mnemonic)
}

func encodeBitOp(mnemonic string, operands []parser.Operand) ([]byte, error) {
	if len(operands) != 2 {
		return nil, unsupported("%s takes two operands", mnemonic)
	}
	bitImm, ok := operands[0].(parser.ImmediateOperand)
	if !ok || bitImm.Value < 0 || bitImm.Value > 7 {
		return nil, unsupported("%s bit index must be a literal 0-7", mnemonic)
	}
	var base byte
	switch mnemonic {
	case "BIT":
		base = 0x40
	case "RES":
		base = 0x80
	case "SET":
		base = 0xC0
	}
	bit := byte(bitImm.Value)
	switch v := operands[1].(type) {
	case parser.RegisterOperand:
		if r, ok := reg8Index[v.Name]; ok {
			return []byte{0xCB, base | bit<<3 | r}, nil
		}
	case parser.IndirectOperand:
		if v.Name == "HL" {
			return []byte{0xCB, base | bit<<3 | 6}, nil
		}
	}
	return nil, unsupported("unsupported %s operand", mnemonic)
}

func encodeIN(operands []parser.Operand) ([]byte, error) {
	if len(operands) != 2 {
		return nil, unsupported("IN takes two operands")
	}
	r, ok := operands[0].(parser.RegisterOperand)
	if !ok || r.Name != "A" {
		return nil, unsupported("IN only supports the A,(n) form")
	}
	if v, ok := operands[1].(parser.IndirectAddrOperand); ok {
		return []byte{0xDB, byte(v.Value & 0xFF)}, nil
	}
	return nil, unsupported("IN expects a port address")
}

func encodeOUT(operands []parser.Operand) ([]byte, error) {
	if len(operands) != 2 {
		return nil, unsupported("OUT takes two operands")
	}
	v, ok := operands[0].(parser.IndirectAddrOperand)
	if !ok {
		return nil, unsupported("OUT expects a port address")
	}
	r, ok := operands[1].(parser.RegisterOperand)
	if !ok || r.Name != "A" {
		return nil, unsupported("OUT only supports the (n),A form")
	}
	return []byte{0xD3, byte(v.Value & 0xFF)}, nil
}
