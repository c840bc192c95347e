package ir

import "fmt"

// Type is the type of a Value. The lower byte is the scalar element type, the next byte is the number of lanes for
// vector types (zero for scalars).
type Type uint16

const (
	typeInvalid Type = iota

	// TypeI1 is a 1-bit integer, the result of a comparison before it is materialized.
	TypeI1
	// TypeI8 is an 8-bit integer.
	TypeI8
	// TypeI16 is a 16-bit integer.
	TypeI16
	// TypeI32 is a 32-bit integer.
	TypeI32
	// TypeI64 is a 64-bit integer.
	TypeI64
	// TypeF32 is a 32-bit float.
	TypeF32
	// TypeF64 is a 64-bit float.
	TypeF64
	// TypeOther is the type of chains and other control tokens which carry no data.
	TypeOther

	typeScalarEnd
)

const laneShift = 8

// Vector types used by the target.
const (
	TypeV2I8  = TypeI8 | 2<<laneShift
	TypeV4I8  = TypeI8 | 4<<laneShift
	TypeV2I16 = TypeI16 | 2<<laneShift
	TypeV4I16 = TypeI16 | 4<<laneShift
	TypeV2I32 = TypeI32 | 2<<laneShift
	TypeV4I32 = TypeI32 | 4<<laneShift
	TypeV2F32 = TypeF32 | 2<<laneShift
	TypeV4F32 = TypeF32 | 4<<laneShift
	TypeV2I64 = TypeI64 | 2<<laneShift
	TypeV2F64 = TypeF64 | 2<<laneShift
)

// VectorOf returns the vector type of the given scalar element with n lanes. n == 1 returns elem itself.
func VectorOf(elem Type, n int) Type {
	if n == 1 {
		return elem
	}
	if elem.IsVector() || elem == TypeOther || elem == typeInvalid || elem >= typeScalarEnd {
		panic(fmt.Sprintf("BUG: invalid vector element type %s", elem))
	}
	switch n {
	case 2, 3, 4:
		return elem | Type(n)<<laneShift
	default:
		panic(fmt.Sprintf("BUG: invalid lane count %d", n))
	}
}

var scalarNames = [typeScalarEnd]string{
	typeInvalid: "invalid",
	TypeI1:      "i1",
	TypeI8:      "i8",
	TypeI16:     "i16",
	TypeI32:     "i32",
	TypeI64:     "i64",
	TypeF32:     "f32",
	TypeF64:     "f64",
	TypeOther:   "other",
}

var scalarBits = [typeScalarEnd]int{
	TypeI1:  1,
	TypeI8:  8,
	TypeI16: 16,
	TypeI32: 32,
	TypeI64: 64,
	TypeF32: 32,
	TypeF64: 64,
}

// String implements fmt.Stringer.
func (t Type) String() string {
	elem := t.Elem()
	if elem >= typeScalarEnd {
		return fmt.Sprintf("type(%#x)", uint16(t))
	}
	if t.IsVector() {
		return fmt.Sprintf("v%d%s", t.Lanes(), scalarNames[elem])
	}
	return scalarNames[elem]
}

// Valid returns true if this is a known scalar or vector type.
func (t Type) Valid() bool {
	elem := t.Elem()
	if elem == typeInvalid || elem >= typeScalarEnd {
		return false
	}
	switch t >> laneShift {
	case 0:
		return true
	case 2, 3, 4:
		return elem != TypeOther
	}
	return false
}

// Elem returns the scalar element type. For scalars this is the type itself.
func (t Type) Elem() Type {
	return t & (1<<laneShift - 1)
}

// Lanes returns the number of lanes, 1 for scalars.
func (t Type) Lanes() int {
	if n := int(t >> laneShift); n > 0 {
		return n
	}
	return 1
}

// IsVector returns true if the type has more than one lane.
func (t Type) IsVector() bool {
	return t>>laneShift != 0
}

// IsInt returns true if the element type is an integer.
func (t Type) IsInt() bool {
	switch t.Elem() {
	case TypeI1, TypeI8, TypeI16, TypeI32, TypeI64:
		return true
	}
	return false
}

// IsFloat returns true if the element type is a float.
func (t Type) IsFloat() bool {
	e := t.Elem()
	return e == TypeF32 || e == TypeF64
}

// Bits returns the bit width of one lane.
func (t Type) Bits() int {
	e := t.Elem()
	if e >= typeScalarEnd {
		return 0
	}
	return scalarBits[e]
}

// TotalBits returns the bit width of the whole value.
func (t Type) TotalBits() int {
	return t.Bits() * t.Lanes()
}

// WithElem returns the type with the same number of lanes as t and the element type elem.
func (t Type) WithElem(elem Type) Type {
	return VectorOf(elem, t.Lanes())
}

// IntOfSameWidth returns the integer type with the same lane width and lane count, e.g. v2i64 for v2f64.
func (t Type) IntOfSameWidth() Type {
	switch t.Bits() {
	case 1:
		return t.WithElem(TypeI1)
	case 8:
		return t.WithElem(TypeI8)
	case 16:
		return t.WithElem(TypeI16)
	case 32:
		return t.WithElem(TypeI32)
	case 64:
		return t.WithElem(TypeI64)
	}
	panic(fmt.Sprintf("BUG: no integer type for %s", t))
}

// ParseType parses the textual form produced by Type.String.
func ParseType(s string) (Type, error) {
	lanes := 1
	rest := s
	if len(s) > 2 && s[0] == 'v' && s[1] >= '2' && s[1] <= '4' {
		lanes = int(s[1] - '0')
		rest = s[2:]
	}
	for i := TypeI1; i < typeScalarEnd; i++ {
		if scalarNames[i] == rest {
			if lanes > 1 && i == TypeOther {
				break
			}
			return VectorOf(i, lanes), nil
		}
	}
	return typeInvalid, fmt.Errorf("unknown type %q", s)
}
