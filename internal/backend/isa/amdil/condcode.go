package amdil

import (
	"fmt"

	"github.com/radeon-go/amdil/ir"
)

// condFamily is the column of ilConds an operand type selects.
type condFamily byte

const (
	condFamilyInt condFamily = iota
	condFamilyLong
	condFamilyFloat
	condFamilyDouble
	condFamilyNum
)

func condFamilyOf(typ ir.Type) (condFamily, bool) {
	switch typ.Elem() {
	case ir.TypeI1, ir.TypeI8, ir.TypeI16, ir.TypeI32:
		return condFamilyInt, true
	case ir.TypeI64:
		return condFamilyLong, true
	case ir.TypeF32:
		return condFamilyFloat, true
	case ir.TypeF64:
		return condFamilyDouble, true
	}
	return 0, false
}

// ilConds maps a predicate and an operand family to the AMDIL comparison. ILCondInvalid marks the combinations
// the instruction set cannot express, i.e. ordering predicates on integers.
var ilConds = [ir.CondTrue + 1][condFamilyNum]ir.ILCond{
	ir.CondEQ: {ir.ILCondIEQ, ir.ILCondLEQ, ir.ILCondFEQ, ir.ILCondDEQ},
	ir.CondNE: {ir.ILCondINE, ir.ILCondLNE, ir.ILCondFNE, ir.ILCondDNE},
	ir.CondGT: {ir.ILCondIGT, ir.ILCondLGT, ir.ILCondFGT, ir.ILCondDGT},
	ir.CondGE: {ir.ILCondIGE, ir.ILCondLGE, ir.ILCondFGE, ir.ILCondDGE},
	ir.CondLT: {ir.ILCondILT, ir.ILCondLLT, ir.ILCondFLT, ir.ILCondDLT},
	ir.CondLE: {ir.ILCondILE, ir.ILCondLLE, ir.ILCondFLE, ir.ILCondDLE},

	ir.CondUEQ: {ir.ILCondUEQ, ir.ILCondULEQ, ir.ILCondFUEQ, ir.ILCondDUEQ},
	ir.CondUNE: {ir.ILCondUNE, ir.ILCondULNE, ir.ILCondFUNE, ir.ILCondDUNE},
	ir.CondUGT: {ir.ILCondUGT, ir.ILCondULGT, ir.ILCondFUGT, ir.ILCondDUGT},
	ir.CondUGE: {ir.ILCondUGE, ir.ILCondULGE, ir.ILCondFUGE, ir.ILCondDUGE},
	ir.CondULT: {ir.ILCondULT, ir.ILCondULLT, ir.ILCondFULT, ir.ILCondDULT},
	ir.CondULE: {ir.ILCondULE, ir.ILCondULLE, ir.ILCondFULE, ir.ILCondDULE},

	ir.CondO:   {ir.ILCondInvalid, ir.ILCondInvalid, ir.ILCondFO, ir.ILCondDO},
	ir.CondUO:  {ir.ILCondInvalid, ir.ILCondInvalid, ir.ILCondFUO, ir.ILCondDUO},
	ir.CondOEQ: {ir.ILCondInvalid, ir.ILCondInvalid, ir.ILCondFOEQ, ir.ILCondDOEQ},
	ir.CondONE: {ir.ILCondInvalid, ir.ILCondInvalid, ir.ILCondFONE, ir.ILCondDONE},
	ir.CondOGT: {ir.ILCondInvalid, ir.ILCondInvalid, ir.ILCondFOGT, ir.ILCondDOGT},
	ir.CondOGE: {ir.ILCondInvalid, ir.ILCondInvalid, ir.ILCondFOGE, ir.ILCondDOGE},
	ir.CondOLT: {ir.ILCondInvalid, ir.ILCondInvalid, ir.ILCondFOLT, ir.ILCondDOLT},
	ir.CondOLE: {ir.ILCondInvalid, ir.ILCondInvalid, ir.ILCondFOLE, ir.ILCondDOLE},
}

// ILCondOf returns the AMDIL comparison evaluating cond on operands of type typ. Vectors use the code of their
// element type.
func ILCondOf(cond ir.CondCode, typ ir.Type) ir.ILCond {
	family, ok := condFamilyOf(typ)
	if !ok || int(cond) >= len(ilConds) {
		panic(fmt.Sprintf("BUG: no AMDIL condition for %s on %s", cond, typ))
	}
	c := ilConds[cond][family]
	if c == ir.ILCondInvalid {
		panic(fmt.Sprintf("BUG: no AMDIL condition for %s on %s", cond, typ))
	}
	return c
}
