package debug_test

import (
	"testing"

	"github.com/loxide-lang/loxide/debug"
	"github.com/stretchr/testify/assert"
)

func TestAssertions(t *testing.T) {
	t.Parallel()
	assert.NotPanics(t, func() { debug.AssertEq(1, 1) })
	assert.NotPanics(t, func() { debug.AssertSameLen([]byte{1, 2}, []int{3, 4}) })

	mismatch := func() { debug.AssertSameLen([]byte{1}, []int{}) }
	if debug.DEBUG {
		assert.PanicsWithValue(t, "assertion failed: parallel slices diverged: 1 != 0", mismatch)
	} else {
		assert.NotPanics(t, mismatch)
	}
}
