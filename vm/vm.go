package vm

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	e "github.com/loxide-lang/loxide/errors"
	"github.com/sirupsen/logrus"
)

const DefaultStackMax = 256

type VM struct {
	chunk *Chunk
	ip    int
	// Offset of the instruction being executed, for error reporting.
	inst  int
	stack []Value

	stackMax  int
	strictDiv bool
	trace     bool
	out       io.Writer
}

type Option func(*VM)

// WithStackMax bounds the operand stack; pushing past it is a fault.
func WithStackMax(n int) Option { return func(vm *VM) { vm.stackMax = n } }

// WithStrictDivision makes division by zero a fault instead of yielding
// an IEEE infinity or NaN.
func WithStrictDivision(strict bool) Option { return func(vm *VM) { vm.strictDiv = strict } }

// WithOutput redirects the output of `print` statements.
func WithOutput(w io.Writer) Option { return func(vm *VM) { vm.out = w } }

// WithTrace logs the stack and each instruction at trace level.
func WithTrace(trace bool) Option { return func(vm *VM) { vm.trace = trace } }

func NewVM(opts ...Option) *VM {
	vm := &VM{stackMax: DefaultStackMax, out: os.Stdout}
	for _, opt := range opts {
		opt(vm)
	}
	return vm
}

func (vm *VM) push(val Value) error {
	if len(vm.stack) >= vm.stackMax {
		return vm.Error(e.FaultStackOverflow, fmt.Sprintf("stack exceeds %d slots", vm.stackMax))
	}
	vm.stack = append(vm.stack, val)
	return nil
}

// pop must be preceded by a need check.
func (vm *VM) pop() (last Value) {
	len_ := len(vm.stack)
	vm.stack, last = vm.stack[:len_-1], vm.stack[len_-1]
	return
}

func (vm *VM) peek(distance int) Value {
	return vm.stack[len(vm.stack)-1-distance]
}

// need reports a stack underflow unless the stack holds at least n values.
func (vm *VM) need(n int) error {
	if len(vm.stack) < n {
		return vm.Error(e.FaultStackUnderflow, fmt.Sprintf(
			"%s needs %d operand(s), stack has %d", OpCode(vm.chunk.code[vm.inst]), n, len(vm.stack),
		))
	}
	return nil
}

func (vm *VM) REPL(prompt string) error {
	reader, err := readline.New(prompt)
	if err != nil {
		return err
	}
	defer reader.Close()

	for {
		line, err := reader.Readline()
		switch err {
		case nil:
			if strings.TrimSpace(line) == "" {
				continue
			}
		case readline.ErrInterrupt: // ^C
			continue
		case io.EOF: // ^D
			return nil
		default:
			return err
		}

		val, err := vm.Interpret(line)
		if err != nil {
			logrus.Error(err)
			continue
		}
		fmt.Fprintln(vm.out, val)
	}
}

// Interpret compiles src and, only if that succeeds, runs the result.
func (vm *VM) Interpret(src string) (Value, error) {
	chunk, err := Compile(src)
	if err != nil {
		return nil, err
	}
	return vm.Run(chunk)
}

// Run executes chunk from its first instruction and returns the value
// popped by the final OpReturn.
func (vm *VM) Run(chunk *Chunk) (Value, error) {
	vm.chunk, vm.ip, vm.inst = chunk, 0, 0
	vm.stack = vm.stack[:0]
	if vm.chunk == nil {
		return nil, &e.RuntimeError{Fault: e.FaultBadInstruction, Reason: "chunk uninitialized"}
	}
	defer func() { vm.chunk = nil }()
	return vm.run()
}

func (vm *VM) run() (Value, error) {
	code := vm.chunk.code

	for {
		if vm.ip >= len(code) {
			return nil, vm.endOfCode()
		}
		if vm.trace {
			logrus.Traceln(vm.stackTrace())
			instDump, _ := vm.chunk.DisassembleInst(vm.ip)
			logrus.Traceln(instDump)
		}

		vm.inst = vm.ip
		inst := OpCode(code[vm.ip])
		vm.ip += 1 + inst.Width()
		if vm.ip > len(code) {
			return nil, vm.Error(e.FaultBadInstruction, fmt.Sprintf("%s operand truncated", inst))
		}

		var err error
		switch inst {
		case OpReturn:
			if err = vm.need(1); err != nil {
				return nil, err
			}
			return vm.pop(), nil
		case OpConst:
			idx := int(code[vm.inst+1])
			if idx >= len(vm.chunk.consts) {
				return nil, vm.Error(e.FaultBadInstruction, fmt.Sprintf("constant index %d out of range", idx))
			}
			err = vm.push(vm.chunk.consts[idx])
		case OpNil:
			err = vm.push(VNil{})
		case OpTrue:
			err = vm.push(VBool(true))
		case OpFalse:
			err = vm.push(VBool(false))
		case OpPop:
			if err = vm.need(1); err == nil {
				vm.pop()
			}
		case OpEqual:
			err = vm.binaryOp(func(v, w Value) (Value, bool) { return VEq(v, w), true }, "")
		case OpNot:
			if err = vm.need(1); err == nil {
				err = vm.push(!VTruthy(vm.pop()))
			}
		case OpNeg:
			if err = vm.need(1); err != nil {
				break
			}
			res, ok := VNeg(vm.peek(0))
			if !ok {
				return nil, vm.typeError("operand must be a number", vm.peek(0))
			}
			vm.pop()
			err = vm.push(res)
		case OpAdd:
			err = vm.binaryOp(VAdd, "operands must be two numbers or two strings")
		case OpSub:
			err = vm.binaryOp(VSub, "operands must be numbers")
		case OpMul:
			err = vm.binaryOp(VMul, "operands must be numbers")
		case OpDiv:
			if vm.strictDiv && len(vm.stack) >= 2 {
				_, lhsOK := vm.peek(1).(VNum)
				if rhs, ok := vm.peek(0).(VNum); lhsOK && ok && rhs == 0 {
					return nil, vm.Error(e.FaultDivisionByZero, "division by zero")
				}
			}
			err = vm.binaryOp(VDiv, "operands must be numbers")
		case OpGreater:
			err = vm.binaryOp(VGreater, "operands must be numbers")
		case OpLess:
			err = vm.binaryOp(VLess, "operands must be numbers")
		case OpPrint:
			if err = vm.need(1); err == nil {
				err = vm.print(vm.pop())
			}
		case OpJump:
			vm.ip += vm.chunk.readShort(vm.inst + 1)
		case OpJumpIfFalse:
			if err = vm.need(1); err == nil && !VTruthy(vm.peek(0)) {
				vm.ip += vm.chunk.readShort(vm.inst + 1)
			}
		default:
			return nil, vm.Error(e.FaultBadInstruction, fmt.Sprintf("unknown instruction '%d'", inst))
		}
		if err != nil {
			return nil, err
		}
	}
}

// binaryOp pops the RHS then the LHS and pushes op(LHS, RHS). On a type
// mismatch the operands are left on the stack.
func (vm *VM) binaryOp(op func(v, w Value) (Value, bool), reason string) error {
	if err := vm.need(2); err != nil {
		return err
	}
	lhs, rhs := vm.peek(1), vm.peek(0)
	res, ok := op(lhs, rhs)
	if !ok {
		return vm.typeError(reason, lhs, rhs)
	}
	vm.pop()
	vm.pop()
	return vm.push(res)
}

func (vm *VM) print(val Value) (err error) {
	switch val := val.(type) {
	case VStr:
		_, err = fmt.Fprintln(vm.out, val.Chars)
	default:
		_, err = fmt.Fprintln(vm.out, val)
	}
	return
}

func (vm *VM) endOfCode() *e.RuntimeError {
	err := &e.RuntimeError{Fault: e.FaultBadInstruction, Reason: "ran past the end of the chunk without returning"}
	if n := len(vm.chunk.lines); n > 0 {
		err.Line = vm.chunk.lines[n-1]
	}
	return err
}

func (vm *VM) typeError(reason string, operands ...Value) *e.RuntimeError {
	names := make([]string, len(operands))
	for i, v := range operands {
		names[i] = TypeName(v)
	}
	return vm.Error(e.FaultTypeMismatch, fmt.Sprintf("%s, got %s", reason, strings.Join(names, " and ")))
}

// Error builds a RuntimeError located at the instruction being executed.
func (vm *VM) Error(fault e.Fault, reason string) *e.RuntimeError {
	err := &e.RuntimeError{Fault: fault, Reason: reason}
	if vm.chunk != nil && vm.inst < len(vm.chunk.lines) {
		err.Line = vm.chunk.lines[vm.inst]
	}
	return err
}

func (vm *VM) stackTrace() string {
	var res strings.Builder
	res.WriteString("          ")
	for _, slot := range vm.stack {
		fmt.Fprintf(&res, "[ %s ]", slot)
	}
	return res.String()
}
