package vm_test

import (
	"strings"
	"testing"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/loxide-lang/loxide/vm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddConstIndices(t *testing.T) {
	t.Parallel()
	c := vm.NewChunk()
	vals := []vm.Value{vm.VNum(1.2), vm.VBool(true), vm.VNil{}, vm.NewVStr("s"), vm.VNum(1.2)}
	for i, v := range vals {
		assert.Equal(t, i, c.AddConst(v))
	}
	assert.Equal(t, len(vals), c.NumConsts())
	for i, v := range vals {
		assert.Equal(t, v, c.Const(i))
	}
}

func TestWriteKeepsLinesInStep(t *testing.T) {
	t.Parallel()
	c := vm.NewChunk()
	for i := 0; i < 300; i++ {
		c.Write(byte(i), i/7+1)
		require.Equal(t, i+1, c.Len())
		assert.Equal(t, byte(i), c.Read(i))
		assert.Equal(t, i/7+1, c.LineAt(i))
	}
}

func TestDisassemble(t *testing.T) {
	t.Parallel()
	c, err := vm.Compile("-1.2 + \"x\"\n  or true")
	require.NoError(t, err)
	assert.Equal(t, heredoc.Doc(`
		== test ==
		0000    1 OpConst             0 '1.2'
		0002    | OpNeg
		0003    | OpConst             1 '"x"'
		0005    | OpAdd
		0006    2 OpJumpIfFalse       6 -> 12
		0009    | OpJump              9 -> 14
		0012    | OpPop
		0013    | OpTrue
		0014    | OpReturn
	`), c.Disassemble("test"))
}

func TestDisassembleMalformed(t *testing.T) {
	t.Parallel()
	c := vm.NewChunk()
	c.Write(byte(vm.OpConst), 1)
	c.Write(9, 1)
	c.Write(byte(vm.OpJump), 2)
	dump := c.Disassemble("bad")
	assert.True(t, strings.Contains(dump, "OpConst             9 <out of range>"), dump)
	assert.True(t, strings.Contains(dump, "OpJump           <truncated>"), dump)
}

func TestVerify(t *testing.T) {
	t.Parallel()
	ok, err := vm.Compile("1 and 2 or 3 == 4")
	require.NoError(t, err)
	assert.NoError(t, ok.Verify())

	for _, tc := range []struct {
		name, errSubstr string
		chunk           *vm.Chunk
	}{
		{"unknown opcode", "unknown instruction '200'", chunkOf(nil, []byte{200})},
		{"bad constant", "constant index 0 out of range [0, 0)", chunkOf(nil, op(vm.OpConst, 0))},
		{"truncated", "OpJumpIfFalse operand truncated", chunkOf(nil, op(vm.OpTrue), op(vm.OpJumpIfFalse, 1))},
		{"wild jump", "jump target 259 past end of code", chunkOf(nil, op(vm.OpJump, 1, 0), op(vm.OpReturn))},
	} {
		assert.ErrorContains(t, tc.chunk.Verify(), tc.errSubstr, tc.name)
	}
}
