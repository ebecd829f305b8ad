package vm

import (
	"fmt"
	"strings"

	"github.com/loxide-lang/loxide/debug"
)

//go:generate stringer -type=OpCode
type OpCode byte

// Opcode byte values are only stable within one build.
const (
	OpReturn OpCode = iota
	OpConst
	OpNil
	OpTrue
	OpFalse
	OpPop
	OpEqual
	OpGreater
	OpLess
	OpNot
	OpNeg
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpPrint
	OpJump
	OpJumpIfFalse
)

// numOpCodes must track the last opcode above.
const numOpCodes = int(OpJumpIfFalse) + 1

// Width returns the number of operand bytes following the opcode.
func (op OpCode) Width() int {
	switch op {
	case OpConst:
		return 1
	case OpJump, OpJumpIfFalse:
		return 2
	default:
		return 0
	}
}

type Chunk struct {
	code []byte
	// Contract: len(lines) == len(code)
	lines  []int
	consts []Value
}

func NewChunk() *Chunk { return &Chunk{} }

func (c *Chunk) Write(b byte, line int) {
	c.code = append(c.code, b)
	c.lines = append(c.lines, line)
	debug.AssertSameLen(c.code, c.lines)
}

// AddConst appends to the constant pool. Indices are handed out in call
// order and never renumbered.
func (c *Chunk) AddConst(const_ Value) (idx int) {
	idx = len(c.consts)
	c.consts = append(c.consts, const_)
	return
}

func (c *Chunk) Read(offset int) byte     { return c.code[offset] }
func (c *Chunk) LineAt(offset int) int    { return c.lines[offset] }
func (c *Chunk) Const(idx int) Value      { return c.consts[idx] }
func (c *Chunk) Len() int                 { return len(c.code) }
func (c *Chunk) NumConsts() int           { return len(c.consts) }
// patch overwrites a jump placeholder byte.
func (c *Chunk) patch(offset int, b byte) {
	debug.AssertEq(byte(0xff), c.code[offset])
	c.code[offset] = b
}

func (c *Chunk) readShort(offset int) int {
	return int(c.code[offset])<<8 | int(c.code[offset+1])
}

// Verify statically checks that every instruction in c is well-formed, so
// that an untrusted chunk (e.g. one loaded from an image) can be executed.
func (c *Chunk) Verify() error {
	if len(c.code) != len(c.lines) {
		return fmt.Errorf("line map has %d entries for %d code bytes", len(c.lines), len(c.code))
	}
	for offset := 0; offset < len(c.code); {
		op := OpCode(c.code[offset])
		if int(op) >= numOpCodes {
			return fmt.Errorf("offset %d: unknown instruction '%d'", offset, op)
		}
		next := offset + 1 + op.Width()
		if next > len(c.code) {
			return fmt.Errorf("offset %d: %s operand truncated", offset, op)
		}
		switch op {
		case OpConst:
			if idx := int(c.code[offset+1]); idx >= len(c.consts) {
				return fmt.Errorf("offset %d: constant index %d out of range [0, %d)", offset, idx, len(c.consts))
			}
		case OpJump, OpJumpIfFalse:
			if target := next + c.readShort(offset+1); target > len(c.code) {
				return fmt.Errorf("offset %d: jump target %d past end of code", offset, target)
			}
		}
		offset = next
	}
	return nil
}

func (c *Chunk) DisassembleInst(offset int) (res string, newOffset int) {
	sprintf := func(format string, a ...any) { res += fmt.Sprintf(format, a...) }

	sprintf("%04d ", offset)
	if offset > 0 && c.lines[offset] == c.lines[offset-1] {
		sprintf("   | ")
	} else {
		sprintf("%4d ", c.lines[offset])
	}

	inst := OpCode(c.code[offset])
	if offset+inst.Width() >= len(c.code) {
		sprintf("%-16s <truncated>", inst)
		return res, len(c.code)
	}
	switch inst {
	case OpConst:
		const_ := int(c.code[offset+1])
		if const_ >= len(c.consts) {
			sprintf("%-16s %4d <out of range>", inst, const_)
		} else {
			sprintf("%-16s %4d '%s'", inst, const_, c.consts[const_])
		}
		return res, offset + 2
	case OpJump, OpJumpIfFalse:
		jump := c.readShort(offset + 1)
		sprintf("%-16s %4d -> %d", inst, offset, offset+3+jump)
		return res, offset + 3
	// Nullary operators.
	default:
		sprintf("%s", inst)
		return res, offset + 1
	}
}

func (c *Chunk) Disassemble(name string) string {
	var res strings.Builder
	fmt.Fprintf(&res, "== %s ==\n", name)
	for i := 0; i < len(c.code); {
		var delta string
		delta, i = c.DisassembleInst(i)
		res.WriteString(delta + "\n")
	}
	return res.String()
}
