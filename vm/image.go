package vm

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// ImageVersion tags serialized chunks. Images are only meant to be read
// back by the build that wrote them, so any opcode change bumps it.
const ImageVersion = 1

var imageEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("vm: failed to create CBOR enc mode: %v", err))
	}
	imageEncMode = em
}

type image struct {
	Version int          `cbor:"1,keyasint"`
	Code    []byte       `cbor:"2,keyasint"`
	Lines   []int        `cbor:"3,keyasint"`
	Consts  []imageConst `cbor:"4,keyasint"`
}

type constKind uint8

const (
	constNil constKind = iota
	constBool
	constNum
	constStr
)

type imageConst struct {
	Kind constKind `cbor:"1,keyasint"`
	Bool bool      `cbor:"2,keyasint,omitempty"`
	Num  float64   `cbor:"3,keyasint,omitempty"`
	Str  string    `cbor:"4,keyasint,omitempty"`
}

// MarshalImage serializes c to canonical CBOR.
func (c *Chunk) MarshalImage() ([]byte, error) {
	img := image{Version: ImageVersion, Code: c.code, Lines: c.lines}
	for _, v := range c.consts {
		var ic imageConst
		switch v := v.(type) {
		case VNil:
			ic.Kind = constNil
		case VBool:
			ic.Kind, ic.Bool = constBool, bool(v)
		case VNum:
			ic.Kind, ic.Num = constNum, float64(v)
		case VStr:
			ic.Kind, ic.Str = constStr, v.Chars
		default:
			return nil, fmt.Errorf("vm: cannot serialize constant of type %T", v)
		}
		img.Consts = append(img.Consts, ic)
	}
	return imageEncMode.Marshal(img)
}

// UnmarshalImage deserializes and verifies a chunk written by MarshalImage.
func UnmarshalImage(data []byte) (*Chunk, error) {
	var img image
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("vm: unmarshal image: %w", err)
	}
	if img.Version != ImageVersion {
		return nil, fmt.Errorf("vm: image version %d, want %d", img.Version, ImageVersion)
	}

	c := &Chunk{code: img.Code, lines: img.Lines}
	for i, ic := range img.Consts {
		switch ic.Kind {
		case constNil:
			c.consts = append(c.consts, VNil{})
		case constBool:
			c.consts = append(c.consts, VBool(ic.Bool))
		case constNum:
			c.consts = append(c.consts, VNum(ic.Num))
		case constStr:
			c.consts = append(c.consts, NewVStr(ic.Str))
		default:
			return nil, fmt.Errorf("vm: constant %d has unknown kind %d", i, ic.Kind)
		}
	}
	if err := c.Verify(); err != nil {
		return nil, fmt.Errorf("vm: invalid image: %w", err)
	}
	return c, nil
}
