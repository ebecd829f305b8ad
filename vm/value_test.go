package vm_test

import (
	"fmt"
	"math"
	"testing"

	"github.com/loxide-lang/loxide/vm"
	"github.com/stretchr/testify/assert"
)

func TestValueStrings(t *testing.T) {
	t.Parallel()
	for want, v := range map[string]fmt.Stringer{
		"nil":    vm.VNil{},
		"true":   vm.VBool(true),
		"7":      vm.VNum(7),
		"-0.5":   vm.VNum(-0.5),
		"1e+21":  vm.VNum(1e21),
		"+Inf":   vm.VNum(math.Inf(1)),
		`"a\"b"`: vm.NewVStr(`a"b`),
	} {
		assert.Equal(t, want, v.String())
	}

	assert.Equal(t, "boolean", vm.TypeName(vm.VBool(false)))
	assert.Equal(t, "string", vm.TypeName(vm.NewVStr("")))
}

func TestValueEquality(t *testing.T) {
	t.Parallel()
	assert.True(t, bool(vm.VEq(vm.NewVStr("x"), vm.NewVStr("x"))))
	assert.False(t, bool(vm.VEq(vm.NewVStr("x"), vm.NewVStr("y"))))
	assert.False(t, bool(vm.VEq(vm.VNum(0), vm.VBool(false))))
	assert.False(t, bool(vm.VEq(vm.VNil{}, vm.VBool(false))))
	assert.True(t, bool(vm.VEq(vm.VNil{}, vm.VNil{})))
}

func TestValueArithmetic(t *testing.T) {
	t.Parallel()
	res, ok := vm.VSub(vm.VNum(5), vm.VNum(7))
	assert.True(t, ok)
	assert.Equal(t, vm.VNum(-2), res)

	res, ok = vm.VLess(vm.VNum(5), vm.VNum(7))
	assert.True(t, ok)
	assert.Equal(t, vm.VBool(true), res)

	res, ok = vm.VAdd(vm.NewVStr("ab"), vm.NewVStr("cd"))
	assert.True(t, ok)
	assert.Equal(t, "abcd", res.(vm.VStr).Chars)

	for _, bad := range [][2]vm.Value{
		{vm.VNum(1), vm.NewVStr("1")},
		{vm.VNil{}, vm.VNum(1)},
		{vm.VBool(true), vm.VBool(true)},
	} {
		_, ok := vm.VAdd(bad[0], bad[1])
		assert.False(t, ok)
		_, ok = vm.VMul(bad[0], bad[1])
		assert.False(t, ok)
	}

	_, ok = vm.VNeg(vm.VBool(true))
	assert.False(t, ok)
	assert.Equal(t, vm.VBool(false), vm.VTruthy(vm.VNil{}))
	assert.Equal(t, vm.VBool(true), vm.VTruthy(vm.VNum(0)))
}
