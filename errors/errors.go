package errors

import (
	"fmt"
)

type CompilationError struct {
	Line   int
	Reason string
}

func (e *CompilationError) Error() string {
	return fmt.Sprintf("compilation error [L%d]: %s", e.Line, e.Reason)
}

// Fault classifies a RuntimeError.
type Fault int

const (
	FaultTypeMismatch Fault = iota
	FaultStackUnderflow
	FaultStackOverflow
	FaultDivisionByZero
	FaultBadInstruction
)

func (f Fault) String() string {
	switch f {
	case FaultTypeMismatch:
		return "type mismatch"
	case FaultStackUnderflow:
		return "stack underflow"
	case FaultStackOverflow:
		return "stack overflow"
	case FaultDivisionByZero:
		return "division by zero"
	case FaultBadInstruction:
		return "bad instruction"
	default:
		return fmt.Sprintf("Fault(%d)", int(f))
	}
}

type RuntimeError struct {
	Fault
	Line   int
	Reason string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("runtime error [L%d]: %s: %s", e.Line, e.Fault, e.Reason)
}

// ConfigError reports a bad configuration value or invocation.
type ConfigError struct {
	Source string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("config error: %s", e.Reason)
	}
	return fmt.Sprintf("config error [%s]: %s", e.Source, e.Reason)
}

const Unreachable = "internal error: entered unreachable code"
