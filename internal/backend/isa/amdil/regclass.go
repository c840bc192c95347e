package amdil

import (
	"fmt"

	"github.com/radeon-go/amdil/ir"
)

// RegisterClass is a class of AMDIL general purpose registers holding one value type.
type RegisterClass byte

const (
	RegisterClassInvalid RegisterClass = iota
	RegisterClassGPRI8
	RegisterClassGPRI16
	RegisterClassGPRI32
	RegisterClassGPRF32
	RegisterClassGPRI64
	RegisterClassGPRF64
	RegisterClassGPRV2I8
	RegisterClassGPRV4I8
	RegisterClassGPRV2I16
	RegisterClassGPRV4I16
	RegisterClassGPRV2I32
	RegisterClassGPRV4I32
	RegisterClassGPRV2F32
	RegisterClassGPRV4F32
	RegisterClassGPRV2I64
	RegisterClassGPRV2F64
	registerClassEnd
)

var registerClassNames = [registerClassEnd]string{
	RegisterClassInvalid:  "invalid",
	RegisterClassGPRI8:    "GPRI8",
	RegisterClassGPRI16:   "GPRI16",
	RegisterClassGPRI32:   "GPRI32",
	RegisterClassGPRF32:   "GPRF32",
	RegisterClassGPRI64:   "GPRI64",
	RegisterClassGPRF64:   "GPRF64",
	RegisterClassGPRV2I8:  "GPRV2I8",
	RegisterClassGPRV4I8:  "GPRV4I8",
	RegisterClassGPRV2I16: "GPRV2I16",
	RegisterClassGPRV4I16: "GPRV4I16",
	RegisterClassGPRV2I32: "GPRV2I32",
	RegisterClassGPRV4I32: "GPRV4I32",
	RegisterClassGPRV2F32: "GPRV2F32",
	RegisterClassGPRV4F32: "GPRV4F32",
	RegisterClassGPRV2I64: "GPRV2I64",
	RegisterClassGPRV2F64: "GPRV2F64",
}

// String implements fmt.Stringer.
func (r RegisterClass) String() string {
	if r >= registerClassEnd {
		return fmt.Sprintf("regclass(%d)", byte(r))
	}
	return registerClassNames[r]
}

// Type returns the value type held by registers of this class.
func (r RegisterClass) Type() ir.Type {
	for _, e := range registerClasses {
		if e.class == r {
			return e.typ
		}
	}
	panic(fmt.Sprintf("BUG: invalid register class %d", byte(r)))
}

var registerClasses = [...]struct {
	typ   ir.Type
	class RegisterClass
}{
	{ir.TypeI8, RegisterClassGPRI8},
	{ir.TypeI16, RegisterClassGPRI16},
	{ir.TypeI32, RegisterClassGPRI32},
	{ir.TypeF32, RegisterClassGPRF32},
	{ir.TypeI64, RegisterClassGPRI64},
	{ir.TypeF64, RegisterClassGPRF64},
	{ir.TypeV2I8, RegisterClassGPRV2I8},
	{ir.TypeV4I8, RegisterClassGPRV4I8},
	{ir.TypeV2I16, RegisterClassGPRV2I16},
	{ir.TypeV4I16, RegisterClassGPRV4I16},
	{ir.TypeV2I32, RegisterClassGPRV2I32},
	{ir.TypeV4I32, RegisterClassGPRV4I32},
	{ir.TypeV2F32, RegisterClassGPRV2F32},
	{ir.TypeV4F32, RegisterClassGPRV4F32},
	{ir.TypeV2I64, RegisterClassGPRV2I64},
	{ir.TypeV2F64, RegisterClassGPRV2F64},
}

// RegisterClassOf returns the register class holding values of type typ.
func RegisterClassOf(typ ir.Type) RegisterClass {
	for _, e := range registerClasses {
		if e.typ == typ {
			return e.class
		}
	}
	panic(fmt.Sprintf("BUG: unsupported type %s has no register class", typ))
}
