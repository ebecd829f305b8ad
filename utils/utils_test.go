package utils_test

import (
	"math"
	"testing"

	"github.com/loxide-lang/loxide/utils"
	"github.com/stretchr/testify/assert"
)

func TestRef(t *testing.T) {
	t.Parallel()
	s := utils.Ref("unterminated string")
	assert.Equal(t, "unterminated string", *s)
}

func TestNarrow(t *testing.T) {
	t.Parallel()
	for _, tc := range []struct {
		in int
		ok bool
	}{
		{0, true},
		{math.MaxUint8, true},
		{math.MaxUint8 + 1, false},
		{-1, false},
	} {
		got, ok := utils.Narrow[uint8](tc.in)
		assert.Equal(t, tc.ok, ok, "Narrow[uint8](%d)", tc.in)
		if ok {
			assert.EqualValues(t, tc.in, got)
		}
	}

	got, ok := utils.Narrow[uint16](math.MaxUint16)
	assert.True(t, ok)
	assert.EqualValues(t, math.MaxUint16, got)
	_, ok = utils.Narrow[uint16](math.MaxUint16 + 1)
	assert.False(t, ok)
}
