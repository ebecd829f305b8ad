package vm

import (
	"fmt"
	"strconv"

	"github.com/josharian/intern"
)

// Value is a closed sum over VNil, VBool, VNum and VStr.
type Value interface{ isValue() }

func NewValue() Value { return VNil{} }

type VBool bool

func (_ VBool) isValue()       {}
func (v VBool) String() string { return fmt.Sprintf("%t", bool(v)) }

type VNil struct{}

func (_ VNil) isValue()       {}
func (v VNil) String() string { return "nil" }

type VNum float64

func (_ VNum) isValue()       {}
func (v VNum) String() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }

// ObjStr is an immutable heap string. VStr values referring to the same
// ObjStr share it; equality is still by content.
type ObjStr struct{ Chars string }

type VStr struct{ *ObjStr }

func NewVStr(s string) VStr { return VStr{&ObjStr{intern.String(s)}} }

func (_ VStr) isValue()       {}
func (v VStr) String() string { return strconv.Quote(v.Chars) }

func VAdd(v, w Value) (res Value, ok bool) {
	res = NewValue()
	switch v := v.(type) {
	case VNum:
		switch w := w.(type) {
		case VNum:
			return v + w, true
		}
	case VStr:
		switch w := w.(type) {
		case VStr:
			return NewVStr(v.Chars + w.Chars), true
		}
	}
	return
}

// numBinOp lifts a float operation to Values, failing unless both operands
// are numbers.
func numBinOp[R Value](f func(x, y VNum) R) func(v, w Value) (Value, bool) {
	return func(v, w Value) (Value, bool) {
		x, ok1 := v.(VNum)
		y, ok2 := w.(VNum)
		if !ok1 || !ok2 {
			return NewValue(), false
		}
		return f(x, y), true
	}
}

var (
	VSub     = numBinOp(func(x, y VNum) VNum { return x - y })
	VMul     = numBinOp(func(x, y VNum) VNum { return x * y })
	VDiv     = numBinOp(func(x, y VNum) VNum { return x / y })
	VGreater = numBinOp(func(x, y VNum) VBool { return x > y })
	VLess    = numBinOp(func(x, y VNum) VBool { return x < y })
)

func VNeg(v Value) (res Value, ok bool) {
	res = NewValue()
	switch v := v.(type) {
	case VNum:
		return -v, true
	}
	return
}

func VTruthy(v Value) VBool {
	switch v := v.(type) {
	case VBool:
		return v
	case VNil:
		return false
	default:
		return true
	}
}

func VEq(v, w Value) VBool {
	switch v := v.(type) {
	case VBool:
		switch w := w.(type) {
		case VBool:
			return v == w
		}
	case VNum:
		switch w := w.(type) {
		case VNum:
			return v == w
		}
	case VStr:
		switch w := w.(type) {
		case VStr:
			return VBool(v.ObjStr == w.ObjStr || v.Chars == w.Chars)
		}
	case VNil:
		_, ok := w.(VNil)
		return VBool(ok)
	}
	return false
}

// TypeName is the user-facing name of v's variant, used in diagnostics.
func TypeName(v Value) string {
	switch v.(type) {
	case VNil:
		return "nil"
	case VBool:
		return "boolean"
	case VNum:
		return "number"
	case VStr:
		return "string"
	default:
		panic(fmt.Sprintf("unknown value variant %T", v))
	}
}
