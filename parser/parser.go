// Package parser implements the two-pass Z80 assembler parser: pass 1
// computes addresses and binds symbols tolerantly of forward references,
// pass 2 emits the intermediate Record list the code generator walks.
package parser

import (
	"github.com/cschweda/z80-assembler/diag"
	"github.com/cschweda/z80-assembler/eval"
	"github.com/cschweda/z80-assembler/lexer"
)

// DefaultOrg is the TRS-80 Model III conventional origin (§6).
const DefaultOrg uint16 = 0x4200

// Parser drives both passes over a filtered token stream.
type Parser struct {
	tokens         []lexer.Token
	pos            int
	symbols        *SymbolTable
	errs           ErrorList
	currentAddress uint16
	startAddress   uint16
	originSeen     bool
	stopped        bool
}

// New builds a Parser over tokens, stripping Comment tokens on intake
// (§4.3).
func New(tokens []lexer.Token) *Parser {
	filtered := make([]lexer.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Type != lexer.TokenComment {
			filtered = append(filtered, t)
		}
	}
	return &Parser{tokens: filtered, symbols: NewSymbolTable(), startAddress: DefaultOrg}
}

// Parse runs both passes and returns the resulting Program plus every
// diagnostic collected along the way.
func Parse(tokens []lexer.Token) (*Program, *ErrorList) {
	p := New(tokens)
	p.pass1()
	p.resetForPass2()
	records := p.pass2()
	prog := &Program{Records: records, Symbols: p.symbols, StartAddress: p.startAddress}
	return prog, &p.errs
}

func narrow16(v int64) uint16 {
	return uint16(uint64(v) & 0xFFFF)
}

func evalDiag(err error) diag.Diagnostic {
	if ee, ok := err.(*eval.Error); ok {
		var kind diag.Kind
		switch ee.Kind {
		case eval.UndefinedSymbol:
			kind = diag.UndefinedSymbol
		case eval.DivByZero:
			kind = diag.DivByZero
		case eval.UnmatchedParen:
			kind = diag.UnmatchedParenthesis
		default:
			kind = diag.SyntaxError
		}
		return diag.New(kind, ee.Pos, "%s", ee.Error())
	}
	return diag.New(diag.Internal, lexer.Position{Line: 1, Column: 1}, "%s", err.Error())
}

// --- token-stream helpers ---

func (p *Parser) cur() lexer.Token {
	if p.pos >= len(p.tokens) {
		return lexer.Token{Type: lexer.TokenEOF}
	}
	return p.tokens[p.pos]
}

func (p *Parser) peek() lexer.Token {
	if p.pos+1 >= len(p.tokens) {
		return lexer.Token{Type: lexer.TokenEOF}
	}
	return p.tokens[p.pos+1]
}

func (p *Parser) advance() lexer.Token {
	t := p.cur()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool { return p.cur().Type == lexer.TokenEOF }

// skipToNewline advances past any remaining tokens of the current
// statement and consumes the terminating Newline, implementing the
// statement-level synchronize policy (§7).
func (p *Parser) skipToNewline() {
	for p.cur().Type != lexer.TokenNewline && p.cur().Type != lexer.TokenEOF {
		p.advance()
	}
	if p.cur().Type == lexer.TokenNewline {
		p.advance()
	}
}

// readStatementTokens consumes and returns every token up to (not
// including) the statement-terminating Newline or Eof.
func (p *Parser) readStatementTokens() []lexer.Token {
	var out []lexer.Token
	for p.cur().Type != lexer.TokenNewline && p.cur().Type != lexer.TokenEOF {
		out = append(out, p.advance())
	}
	return out
}

// consumeLabelPrefix recognizes the two label-binding forms of §4.3 item
// 1: "Label Colon" and "Label" immediately before a directive. When
// bindLabels is true (pass 1) a colon-label or a label-before-non-EQU
// directive is bound into the symbol table immediately at
// currentAddress; pass 2 passes false since the code generator installs
// the authoritative binding and a second Define here would misreport as
// a redefinition.
func (p *Parser) consumeLabelPrefix(bindLabels bool) (label string, hasLabel bool, isEquDefl bool) {
	cur := p.cur()
	if cur.Type != lexer.TokenLabel {
		return "", false, false
	}
	nxt := p.peek()
	switch nxt.Type {
	case lexer.TokenColon:
		name, pos := cur.Literal, cur.Pos
		p.advance()
		p.advance()
		if bindLabels {
			if w := p.symbols.Define(name, p.currentAddress, SymLabel, pos); w != nil {
				p.errs.Add(*w)
			}
		}
		return name, true, false
	case lexer.TokenDirective:
		name, pos := cur.Literal, cur.Pos
		if nxt.Literal == "EQU" || nxt.Literal == "DEFL" {
			p.advance()
			return name, true, true
		}
		p.advance()
		if bindLabels {
			if w := p.symbols.Define(name, p.currentAddress, SymLabel, pos); w != nil {
				p.errs.Add(*w)
			}
		}
		return name, true, false
	default:
		return "", false, false
	}
}

// --- pass 1 ---

func (p *Parser) pass1() {
	p.pos = 0
	p.currentAddress = DefaultOrg
	p.originSeen = false
	p.stopped = false
	for !p.atEOF() {
		if p.cur().Type == lexer.TokenNewline {
			p.advance()
			continue
		}
		p.pass1Statement()
		if p.stopped {
			break
		}
	}
}

func (p *Parser) pass1Statement() {
	label, hasLabel, isEquDefl := p.consumeLabelPrefix(true)
	cur := p.cur()
	switch cur.Type {
	case lexer.TokenDirective:
		p.pass1Directive(cur, label, hasLabel, isEquDefl)
	case lexer.TokenMnemonic:
		p.advance()
		operandToks := p.readStatementTokens()
		p.currentAddress += uint16(sizeInstruction(cur.Literal, operandToks))
	case lexer.TokenEOF, lexer.TokenNewline:
		// bare label with nothing following; nothing further to size.
	default:
		p.errs.Add(diag.New(diag.SyntaxError, cur.Pos, "unexpected token %s", cur.Type))
	}
	p.skipToNewline()
}

func (p *Parser) pass1Directive(dirTok lexer.Token, label string, hasLabel, isEquDefl bool) {
	switch dirTok.Literal {
	case "ORG":
		p.advance()
		toks := p.readStatementTokens()
		val, err := eval.Evaluate(toks, p.symbols, int64(p.currentAddress), true)
		if err != nil {
			p.errs.Add(evalDiag(err))
			return
		}
		p.currentAddress = narrow16(val)
		if !p.originSeen {
			p.startAddress = p.currentAddress
			p.originSeen = true
		}

	case "DB", "DEFB":
		p.advance()
		toks := p.readStatementTokens()
		total := 0
		for _, g := range splitOperands(toks) {
			if len(g) == 1 && g[0].Type == lexer.TokenString {
				total += len(g[0].Literal)
			} else {
				total++
			}
		}
		p.currentAddress += uint16(total)

	case "DW", "DEFW":
		p.advance()
		toks := p.readStatementTokens()
		p.currentAddress += uint16(2 * len(splitOperands(toks)))

	case "DS", "DEFS":
		p.advance()
		toks := p.readStatementTokens()
		val, err := eval.Evaluate(toks, p.symbols, int64(p.currentAddress), true)
		if err != nil {
			p.errs.Add(evalDiag(err))
			return
		}
		p.currentAddress += narrow16(val)

	case "EQU", "DEFL":
		if !hasLabel || !isEquDefl {
			p.errs.Add(diag.New(diag.SyntaxError, dirTok.Pos, "%s requires a preceding label", dirTok.Literal))
			p.advance()
			return
		}
		p.advance()
		toks := p.readStatementTokens()
		val, err := eval.Evaluate(toks, p.symbols, int64(p.currentAddress), false)
		if err != nil {
			p.errs.Add(evalDiag(err))
			return
		}
		kind := SymEqu
		if dirTok.Literal == "DEFL" {
			kind = SymDefl
		}
		if w := p.symbols.Define(label, narrow16(val), kind, dirTok.Pos); w != nil {
			p.errs.Add(*w)
		}

	case "END":
		p.stopped = true
		p.pos = len(p.tokens) - 1

	default:
		p.errs.Add(diag.New(diag.SyntaxError, dirTok.Pos, "unknown directive %q", dirTok.Literal))
		p.advance()
	}
}

// --- pass 2 ---

func (p *Parser) resetForPass2() {
	p.pos = 0
	p.currentAddress = DefaultOrg
	p.stopped = false
}

func (p *Parser) pass2() []*Record {
	var records []*Record
	for !p.atEOF() {
		if p.cur().Type == lexer.TokenNewline {
			p.advance()
			continue
		}
		if rec := p.pass2Statement(); rec != nil {
			records = append(records, rec)
		}
		if p.stopped {
			break
		}
	}
	return records
}

func (p *Parser) pass2Statement() *Record {
	label, _, _ := p.consumeLabelPrefix(false)
	cur := p.cur()
	switch cur.Type {
	case lexer.TokenDirective:
		rec := p.pass2Directive(cur, label)
		p.skipToNewline()
		return rec
	case lexer.TokenMnemonic:
		rec := p.pass2Instruction(cur, label)
		p.skipToNewline()
		return rec
	default:
		p.skipToNewline()
		return nil
	}
}

func (p *Parser) pass2Directive(dirTok lexer.Token, label string) *Record {
	switch dirTok.Literal {
	case "ORG":
		p.advance()
		toks := p.readStatementTokens()
		val, err := eval.Evaluate(toks, p.symbols, int64(p.currentAddress), false)
		if err != nil {
			// Other evaluation failures were already reported in pass 1;
			// pass 1 tolerated undefined symbols, so those are reported here.
			if ee, ok := err.(*eval.Error); !ok || ee.Kind != eval.UndefinedSymbol {
				return nil
			}
			p.errs.Add(evalDiag(err))
		}
		p.currentAddress = narrow16(val)
		return nil

	case "DB", "DEFB":
		p.advance()
		toks := p.readStatementTokens()
		var bytes []byte
		for _, g := range splitOperands(toks) {
			if len(g) == 1 && g[0].Type == lexer.TokenString {
				bytes = append(bytes, []byte(g[0].Literal)...)
				continue
			}
			val, err := eval.Evaluate(g, p.symbols, int64(p.currentAddress), false)
			if err != nil {
				p.errs.Add(evalDiag(err))
				val = 0
			}
			bytes = append(bytes, byte(val&0xFF))
		}
		rec := &Record{Kind: KindData, Address: p.currentAddress, Bytes: bytes, Label: label}
		p.currentAddress += uint16(len(bytes))
		return rec

	case "DW", "DEFW":
		p.advance()
		toks := p.readStatementTokens()
		var bytes []byte
		for _, g := range splitOperands(toks) {
			val, err := eval.Evaluate(g, p.symbols, int64(p.currentAddress), false)
			if err != nil {
				p.errs.Add(evalDiag(err))
				val = 0
			}
			u := narrow16(val)
			bytes = append(bytes, byte(u&0xFF), byte(u>>8))
		}
		rec := &Record{Kind: KindData, Address: p.currentAddress, Bytes: bytes, Label: label}
		p.currentAddress += uint16(len(bytes))
		return rec

	case "DS", "DEFS":
		p.advance()
		toks := p.readStatementTokens()
		val, err := eval.Evaluate(toks, p.symbols, int64(p.currentAddress), false)
		n := 0
		if err == nil {
			n = int(val)
		} else {
			p.errs.Add(evalDiag(err))
		}
		if n < 0 {
			n = 0
		}
		rec := &Record{Kind: KindData, Address: p.currentAddress, Bytes: make([]byte, n), Label: label}
		p.currentAddress += uint16(n)
		return rec

	case "EQU", "DEFL":
		p.advance()
		p.readStatementTokens() // already bound in pass 1; nothing to emit
		return nil

	case "END":
		p.stopped = true
		p.pos = len(p.tokens) - 1
		return nil

	default:
		p.advance()
		return nil
	}
}

func (p *Parser) pass2Instruction(mnemTok lexer.Token, label string) *Record {
	p.advance()
	operandToks := p.readStatementTokens()
	groups := splitOperands(operandToks)

	var operands []Operand
	for i, g := range groups {
		if len(g) == 0 {
			continue
		}
		operands = append(operands, p.buildOperand(mnemTok.Literal, i, len(groups), g))
	}

	size := sizeInstruction(mnemTok.Literal, operandToks)
	rec := &Record{
		Kind:     KindInstruction,
		Address:  p.currentAddress,
		Mnemonic: mnemTok.Literal,
		Operands: operands,
		Label:    label,
		Pos:      mnemTok.Pos,
	}
	p.currentAddress += uint16(size)
	return rec
}

// buildOperand classifies one already-comma-split operand into its
// Operand variant (§3). idx/total let JP/CALL/JR/RET disambiguate a
// leading condition-code name from a plain register or label.
func (p *Parser) buildOperand(mnemonic string, idx, total int, toks []lexer.Token) Operand {
	shape, name := shapeOf(toks)

	conditionPosition := false
	switch mnemonic {
	case "JP", "CALL", "JR":
		conditionPosition = idx == 0 && total == 2
	case "RET":
		conditionPosition = idx == 0 && total == 1
	}
	if conditionPosition && (shape == shapeCondition || (shape == shapeReg8 && name == "C")) {
		return ConditionOperand{CC: name}
	}

	switch shape {
	case shapeReg8, shapeReg16:
		return RegisterOperand{Name: name}
	case shapeIndirectHL, shapeIndirectRegPair:
		return IndirectOperand{Name: name}
	case shapeCondition:
		return ConditionOperand{CC: name}
	case shapeLabel:
		return LabelRefOperand{Name: name}
	case shapeIndirectExpr:
		inner := toks[1 : len(toks)-1]
		if len(inner) == 1 && inner[0].Type == lexer.TokenLabel && !conditionSet[inner[0].Literal] {
			return LabelRefOperand{Name: inner[0].Literal, Indirect: true}
		}
		val, err := eval.Evaluate(inner, p.symbols, int64(p.currentAddress), false)
		if err != nil {
			p.errs.Add(evalDiag(err))
			val = 0
		}
		return IndirectAddrOperand{Value: val}
	default: // shapeNumber
		val, err := eval.Evaluate(toks, p.symbols, int64(p.currentAddress), false)
		if err != nil {
			p.errs.Add(evalDiag(err))
			val = 0
		}
		return ImmediateOperand{Value: val}
	}
}
