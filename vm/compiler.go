package vm

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/hashicorp/go-multierror"
	"github.com/loxide-lang/loxide/debug"
	e "github.com/loxide-lang/loxide/errors"
	"github.com/loxide-lang/loxide/utils"
	"github.com/sirupsen/logrus"
)

// Parser is the single-pass compiler: it pulls tokens from its Scanner and
// emits bytecode into compilingChunk as each construct is recognized.
type Parser struct {
	*Scanner
	prev, curr     Token
	compilingChunk *Chunk

	// Pool slots of the constants already emitted into compilingChunk.
	constSlots map[any]byte
	// Whether the value of the last expression statement is left on the
	// stack as the result of the chunk.
	resultOnStack bool

	errors *multierror.Error
	// Whether the parser is trying to sync, i.e. in the error recovery process.
	panicMode bool
}

func NewParser() *Parser { return &Parser{} }

// Compile compiles src into a fresh Chunk.
func Compile(src string) (*Chunk, error) { return NewParser().Compile(src) }

/* Single-pass compilation */

func (p *Parser) emitConst(val Value) { p.emitBytes(byte(OpConst), p.makeConst(val)) }

func (p *Parser) makeConst(val Value) byte {
	key := constKey(val)
	if slot, ok := p.constSlots[key]; ok {
		return slot
	}
	slot, ok := utils.Narrow[byte](p.currentChunk().AddConst(val))
	if !ok {
		p.Error("too many constants in one chunk")
		return 0
	}
	p.constSlots[key] = slot
	return slot
}

// constKey maps a constant to a comparable key so that equal literals share
// one pool slot.
func constKey(val Value) any {
	if s, ok := val.(VStr); ok {
		return s.Chars
	}
	return val
}

func (p *Parser) num(_canAssign bool) {
	// Out-of-range literals round to an infinity like any other float.
	val, err := strconv.ParseFloat(p.prev.Lexeme, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		p.Error(fmt.Sprintf("invalid number literal: %v", err))
		return
	}
	p.emitConst(VNum(val))
}

func (p *Parser) grouping(_canAssign bool) {
	p.expr()
	p.consume(TRParen, "expect ')' after expression")
}

func (p *Parser) lit(_canAssign bool) {
	switch p.prev.Type {
	case TFalse:
		p.emitBytes(byte(OpFalse))
	case TNil:
		p.emitBytes(byte(OpNil))
	case TTrue:
		p.emitBytes(byte(OpTrue))
	default:
		panic(e.Unreachable)
	}
}

func (p *Parser) str(_canAssign bool) {
	lexeme := p.prev.Lexeme
	p.emitConst(NewVStr(lexeme[1 : len(lexeme)-1]))
}

func (p *Parser) unary(_canAssign bool) {
	op := p.prev

	// Compile the RHS.
	p.parsePrec(PrecUnary)

	// Emit the operator instruction.
	switch op.Type {
	case TBang:
		p.emitBytesAt(op.Line, byte(OpNot))
	case TMinus:
		p.emitBytesAt(op.Line, byte(OpNeg))
	default:
		panic(e.Unreachable)
	}
}

func (p *Parser) binary(_canAssign bool) {
	op := p.prev
	rule := parseRules[op.Type]

	// Compile the RHS.
	p.parsePrec(rule.Prec + 1)

	// Emit the operator instruction.
	emit := func(bs ...byte) { p.emitBytesAt(op.Line, bs...) }
	switch op.Type {
	case TBangEqual:
		emit(byte(OpEqual), byte(OpNot))
	case TEqualEqual:
		emit(byte(OpEqual))
	case TGreater:
		emit(byte(OpGreater))
	case TGreaterEqual:
		emit(byte(OpLess), byte(OpNot))
	case TLess:
		emit(byte(OpLess))
	case TLessEqual:
		emit(byte(OpGreater), byte(OpNot))
	case TPlus:
		emit(byte(OpAdd))
	case TMinus:
		emit(byte(OpSub))
	case TStar:
		emit(byte(OpMul))
	case TSlash:
		emit(byte(OpDiv))
	default:
		panic(e.Unreachable)
	}
}

func (p *Parser) and(_canAssign bool) {
	endJump := p.emitJump(OpJumpIfFalse)
	p.emitBytes(byte(OpPop))
	p.parsePrec(PrecAnd)
	p.patchJump(endJump)
}

func (p *Parser) or(_canAssign bool) {
	elseJump := p.emitJump(OpJumpIfFalse)
	endJump := p.emitJump(OpJump)
	p.patchJump(elseJump)
	p.emitBytes(byte(OpPop))
	p.parsePrec(PrecOr)
	p.patchJump(endJump)
}

func (p *Parser) expr() { p.parsePrec(PrecAssign) }

// exprStmt compiles an expression statement. The trailing `;` may be
// omitted on the last statement, whose value becomes the chunk's result.
func (p *Parser) exprStmt() {
	p.expr()
	if !p.check(TEOF) {
		p.consume(TSemi, "expect ';' after expression")
	}
	if p.panicMode {
		return
	}
	if p.check(TEOF) {
		p.resultOnStack = true
		return
	}
	p.emitBytes(byte(OpPop))
}

func (p *Parser) printStmt() {
	p.expr()
	p.consume(TSemi, "expect ';' after value")
	p.emitBytes(byte(OpPrint))
}

func (p *Parser) stmt() {
	switch {
	case p.match(TPrint):
		p.printStmt()
	default:
		p.exprStmt()
	}
	if p.panicMode {
		p.sync()
	}
}

type ParseFn = func(p *Parser, canAssign bool)

type ParseRule struct {
	Prefix, Infix ParseFn
	Prec
}

var parseRules []ParseRule

func init() {
	parseRules = []ParseRule{
		TLParen:       {(*Parser).grouping, nil, PrecNone},
		TMinus:        {(*Parser).unary, (*Parser).binary, PrecTerm},
		TPlus:         {nil, (*Parser).binary, PrecTerm},
		TSlash:        {nil, (*Parser).binary, PrecFactor},
		TStar:         {nil, (*Parser).binary, PrecFactor},
		TBang:         {(*Parser).unary, nil, PrecNone},
		TBangEqual:    {nil, (*Parser).binary, PrecEqual},
		TEqualEqual:   {nil, (*Parser).binary, PrecEqual},
		TGreater:      {nil, (*Parser).binary, PrecComp},
		TGreaterEqual: {nil, (*Parser).binary, PrecComp},
		TLess:         {nil, (*Parser).binary, PrecComp},
		TLessEqual:    {nil, (*Parser).binary, PrecComp},
		TStr:          {(*Parser).str, nil, PrecNone},
		TNum:          {(*Parser).num, nil, PrecNone},
		TAnd:          {nil, (*Parser).and, PrecAnd},
		TOr:           {nil, (*Parser).or, PrecOr},
		TFalse:        {(*Parser).lit, nil, PrecNone},
		TNil:          {(*Parser).lit, nil, PrecNone},
		TTrue:         {(*Parser).lit, nil, PrecNone},
		TEOF:          {},
	}
}

func (p *Parser) parsePrec(prec Prec) {
	p.advance()

	// Parse LHS.
	prefix := parseRules[p.prev.Type].Prefix
	if prefix == nil {
		p.Error("expect expression")
		return
	}
	canAssign := prec <= PrecAssign
	prefix(p, canAssign)

	// Parse RHS if there's one maintaining rule.Prec >= prec.
	for {
		rule := parseRules[p.curr.Type]
		if rule.Prec < prec {
			break
		}
		p.advance()
		if rule.Infix == nil {
			panic(e.Unreachable)
		}
		rule.Infix(p, canAssign)
	}

	if canAssign && p.check(TEqual) {
		p.ErrorAtCurr("invalid assignment target")
	}
}

/* Parsing helpers */

func (p *Parser) check(ty TokenType) bool     { return p.curr.Type == ty }
func (p *Parser) checkPrev(ty TokenType) bool { return p.prev.Type == ty }

func (p *Parser) advance() {
	p.prev = p.curr
	for {
		// Skip until the first non-TErr token.
		if p.curr = p.ScanToken(); !p.check(TErr) {
			break
		}
		p.ErrorAtCurr(p.curr.String())
	}
}

func (p *Parser) match(ty TokenType) (matched bool) {
	if !p.check(ty) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(ty TokenType, errorMsg string) *Token {
	if !p.check(ty) {
		p.ErrorAtCurr(errorMsg)
		return nil
	}
	p.advance()
	return &p.prev
}

/* Compiling helpers */

// Compile resets the Parser and compiles src. A chunk is returned only if
// no error was reported.
func (p *Parser) Compile(src string) (res *Chunk, err error) {
	*p = Parser{
		Scanner:        NewScanner(src),
		compilingChunk: NewChunk(),
		constSlots:     make(map[any]byte),
	}
	defer func() { p.compilingChunk = nil }()

	p.advance()
	for !p.match(TEOF) {
		p.stmt()
	}
	p.endCompiler()
	if err = p.errors.ErrorOrNil(); err != nil {
		return nil, err
	}
	return p.currentChunk(), nil
}

func (p *Parser) currentChunk() *Chunk { return p.compilingChunk }

func (p *Parser) emitBytes(bs ...byte) { p.emitBytesAt(p.prev.Line, bs...) }

func (p *Parser) emitBytesAt(line int, bs ...byte) {
	for _, b := range bs {
		p.currentChunk().Write(b, line)
	}
}

// emitJump emits a jump with a placeholder offset and returns the offset
// of the placeholder for patchJump.
func (p *Parser) emitJump(op OpCode) int {
	p.emitBytes(byte(op), 0xff, 0xff)
	return p.currentChunk().Len() - 2
}

func (p *Parser) patchJump(offset int) {
	// -2 to adjust for the bytecode for the jump offset itself.
	jump, ok := utils.Narrow[uint16](p.currentChunk().Len() - offset - 2)
	if !ok {
		p.Error("too much code to jump over")
		return
	}
	p.currentChunk().patch(offset, byte(jump>>8))
	p.currentChunk().patch(offset+1, byte(jump))
}

func (p *Parser) endCompiler() {
	if !p.resultOnStack {
		p.emitBytes(byte(OpNil))
	}
	p.emitBytes(byte(OpReturn))
	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.Debugln(p.currentChunk().Disassemble("endCompiler"))
	}
}

/* Precedence */

//go:generate stringer -type=Prec
type Prec int

const (
	PrecNone   Prec = iota
	PrecAssign      // =
	PrecOr          // or
	PrecAnd         // and
	PrecEqual       // == !=
	PrecComp        // < > <= >=
	PrecTerm        // + -
	PrecFactor      // * /
	PrecUnary       // ! -
	PrecCall        // . ()
	PrecPrimary
)

/* Error handling */

// sync discards tokens until a statement boundary so that the next
// independent error can be reported. Only `print` starts a statement with a
// keyword; other keywords would just be rejected again by the next stmt.
func (p *Parser) sync() {
	p.panicMode = false
	for !p.check(TEOF) {
		if p.checkPrev(TSemi) || p.check(TPrint) {
			return
		}
		p.advance()
	}
}

func (p *Parser) ErrorAt(tk Token, reason string) {
	// Don't collect error when we're syncing.
	if p.panicMode {
		return
	}
	p.panicMode = true

	var tkStr string
	switch tk.Type {
	case TEOF:
		tkStr = "EOF"
	case TIdent:
		tkStr = fmt.Sprintf("identifier `%s`", tk.Lexeme)
	default:
		tkStr = fmt.Sprintf("`%s`", tk.Lexeme)
	}
	reason1 := fmt.Sprintf("at %s, %s", tkStr, reason)
	err := &e.CompilationError{Line: tk.Line, Reason: reason1}

	if debug.DEBUG {
		logrus.Debugln(p.currentChunk().Disassemble("ErrorAt"))
		logrus.Debugln(err)
	}

	p.errors = multierror.Append(p.errors, err)
}

func (p *Parser) Error(reason string)       { p.ErrorAt(p.prev, reason) }
func (p *Parser) ErrorAtCurr(reason string) { p.ErrorAt(p.curr, reason) }
func (p *Parser) HadError() bool            { return p.errors.ErrorOrNil() != nil }
