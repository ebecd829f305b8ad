package errors_test

import (
	"errors"
	"fmt"
	"testing"

	e "github.com/loxide-lang/loxide/errors"
	"github.com/stretchr/testify/assert"
)

func TestMessages(t *testing.T) {
	t.Parallel()
	assert.Equal(t,
		"compilation error [L3]: at EOF, expect expression",
		(&e.CompilationError{Line: 3, Reason: "at EOF, expect expression"}).Error(),
	)
	assert.Equal(t,
		"runtime error [L1]: type mismatch: operand must be a number",
		(&e.RuntimeError{Fault: e.FaultTypeMismatch, Line: 1, Reason: "operand must be a number"}).Error(),
	)
	assert.Equal(t,
		"config error [loxide.toml]: stack_max must be positive",
		(&e.ConfigError{Source: "loxide.toml", Reason: "stack_max must be positive"}).Error(),
	)
	assert.Equal(t, "Fault(42)", e.Fault(42).String())
}

func TestAsThroughWrapping(t *testing.T) {
	t.Parallel()
	var err error = &e.RuntimeError{Fault: e.FaultStackUnderflow, Line: 7}
	err = fmt.Errorf("running script: %w", err)

	var rtErr *e.RuntimeError
	if assert.True(t, errors.As(err, &rtErr)) {
		assert.Equal(t, e.FaultStackUnderflow, rtErr.Fault)
		assert.Equal(t, 7, rtErr.Line)
	}
}
