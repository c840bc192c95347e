package amdil

// Files prefixed as lower_** do the instruction selection, meaning that lowering the target independent operations
// the hardware lacks into sequences of AMDIL instructions.
//
// Every routine receives the cursor positioned at the node being lowered and returns one value per result of
// that node. Routines may emit target independent operations that are themselves marked custom: the dispatcher
// lowers those in turn, so a routine only needs to produce the next step of the expansion.

import (
	"fmt"

	"github.com/radeon-go/amdil/api"
	"github.com/radeon-go/amdil/internal/backend"
	"github.com/radeon-go/amdil/ir"
)

var _ backend.Lowerer = (*Machine)(nil)

// LowerOperation implements backend.Lowerer.
func (m *Machine) LowerOperation(c *ir.Cursor, n *ir.Node) []ir.Value {
	var v ir.Value
	switch op := n.Opcode(); op {
	case ir.OpcodeGlobalAddress:
		v = m.lowerGlobalAddress(c, n)
	case ir.OpcodeJumpTable:
		v = c.EmitAux(ir.OpcodeTargetJumpTable, n.ResultType(0), n.Aux())
	case ir.OpcodeConstantPool:
		v = c.EmitAux(ir.OpcodeTargetConstantPool, n.ResultType(0), n.Aux())
	case ir.OpcodeExternalSymbol:
		v = c.EmitAux(ir.OpcodeTargetExternalSymbol, n.ResultType(0), n.Aux())
	case ir.OpcodeFPToUI, ir.OpcodeFPToSI:
		v = m.lowerFPToInt(c, n, op == ir.OpcodeFPToSI)
	case ir.OpcodeUIToFP:
		v = m.lowerUIToFP(c, n)
	case ir.OpcodeAdd, ir.OpcodeSub, ir.OpcodeMul:
		v = m.lowerInt64(c, n)
	case ir.OpcodeFDiv:
		v = m.lowerFDiv(c, n)
	case ir.OpcodeSDiv:
		v = m.lowerSDiv(c, n)
	case ir.OpcodeUDiv:
		v = m.lowerUDiv(c, n)
	case ir.OpcodeSRem:
		v = m.lowerSRem(c, n)
	case ir.OpcodeURem:
		v = m.lowerURem(c, n)
	case ir.OpcodeCtlz:
		v = m.lowerCtlz(c, n)
	case ir.OpcodeBuildVector:
		v = lowerBuildVector(c, n)
	case ir.OpcodeInsertVectorElt:
		v = lowerInsertVectorElt(c, n)
	case ir.OpcodeExtractVectorElt:
		v = lowerExtractVectorElt(c, n)
	case ir.OpcodeExtractSubvector:
		v = lowerExtractSubvector(c, n)
	case ir.OpcodeScalarToVector:
		v = c.Emit(ir.OpcodeILVbuild, n.ResultType(0), n.Input(0))
	case ir.OpcodeConcatVectors:
		v = c.Emit(ir.OpcodeILVconcat, n.ResultType(0), n.Input(0), n.Input(1))
	case ir.OpcodeSelect:
		v = c.Cmovlog(n.Input(0), n.Input(1), n.Input(2))
	case ir.OpcodeSelectCC:
		v = selectCC(c, n.CondCode(), n.Input(0), n.Input(1), n.Input(2), n.Input(3))
	case ir.OpcodeSetCC:
		v = lowerSetCC(c, n)
	case ir.OpcodeSignExtendInReg:
		v = lowerSignExtendInReg(c, n)
	case ir.OpcodeDynamicStackAlloc:
		return lowerDynamicStackAlloc(c, n)
	case ir.OpcodeBrCond:
		v = c.Emit(ir.OpcodeILBranchCond, ir.TypeOther, n.Input(0), n.Input(2), n.Input(1))
	case ir.OpcodeBrCC:
		v = lowerBrCC(c, n)
	case ir.OpcodeFPRound:
		v = lowerFPRound(c, n)
	default:
		panic(fmt.Sprintf("BUG: no AMDIL lowering for %s", ir.FormatNode(n)))
	}
	if !v.Valid() {
		return nil
	}
	return []ir.Value{v}
}

// constOf returns the bits of v if it is an integer constant.
func constOf(g *ir.Graph, v ir.Value) (uint64, bool) {
	if n := g.NodeOf(v); n.Opcode() == ir.OpcodeConstant {
		return n.Aux(), true
	}
	return 0, false
}

func isUndef(g *ir.Graph, v ir.Value) bool {
	return g.NodeOf(v).Opcode() == ir.OpcodeUndef
}

// resize sign or zero extends x to typ, or truncates it if typ is narrower.
func resize(c *ir.Cursor, x ir.Value, typ ir.Type, signed bool) ir.Value {
	from, to := x.Type().Bits(), typ.Bits()
	switch {
	case from == to:
		return x
	case from > to:
		return c.Unary(ir.OpcodeTruncate, typ, x)
	case signed:
		return c.Unary(ir.OpcodeSignExtend, typ, x)
	default:
		return c.Unary(ir.OpcodeZeroExtend, typ, x)
	}
}

func (m *Machine) clz32(c *ir.Cursor, x ir.Value) ir.Value {
	return strategy(clz32Strategies, m.tiers.Clz, "clz32")(m, c, x)
}

func (m *Machine) clz64(c *ir.Cursor, x ir.Value) ir.Value {
	return strategy(clz64Strategies, m.tiers.Clz, "clz64")(m, c, x)
}

func (m *Machine) lowerCtlz(c *ir.Cursor, n *ir.Node) ir.Value {
	x := n.Input(0)
	switch x.Type().Elem() {
	case ir.TypeI32:
		return m.clz32(c, x)
	case ir.TypeI64:
		z := m.clz64(c, x)
		return c.Emit(ir.OpcodeILLcreate, x.Type(), z, c.Const(z.Type(), 0))
	}
	return ir.ValueInvalid
}

func (m *Machine) lowerUIToFP(c *ir.Cursor, n *ir.Node) ir.Value {
	x, typ := n.Input(0), n.ResultType(0)
	if typ.Elem() != ir.TypeF64 {
		return ir.ValueInvalid
	}
	native := m.tiers.IntToDouble == api.IntToDoubleTierNative
	if typ.IsVector() && native {
		return scalarize(c, ir.OpcodeUIToFP, x, typ)
	}
	switch x.Type().Elem() {
	case ir.TypeI32:
		if native {
			return ir.ValueInvalid
		}
		return strategy(u32ToF64Strategies, m.tiers.IntToDouble, "u32tof64")(m, c, x, typ)
	case ir.TypeI64:
		return strategy(u64ToF64Strategies, m.tiers.IntToDouble, "u64tof64")(m, c, x, typ)
	}
	return ir.ValueInvalid
}

func (m *Machine) lowerFPToInt(c *ir.Cursor, n *ir.Node, signed bool) ir.Value {
	x, typ := n.Input(0), n.ResultType(0)
	if x.Type().Elem() != ir.TypeF64 {
		return ir.ValueInvalid
	}
	native := m.tiers.DoubleToInt == api.DoubleToIntTierNative
	if x.Type().IsVector() && native {
		return scalarize(c, n.Opcode(), x, typ)
	}
	switch typ.Elem() {
	case ir.TypeI32:
		if native {
			return ir.ValueInvalid
		}
		return m.f64ToI32(c, x, typ, signed)
	case ir.TypeI64:
		return strategy(f64ToI64Strategies, m.tiers.DoubleToInt, "f64toi64")(m, c, x, typ, signed)
	case ir.TypeI8, ir.TypeI16:
		wide := typ.WithElem(ir.TypeI32)
		var v ir.Value
		if native {
			v = c.Unary(n.Opcode(), wide, x)
		} else {
			v = m.f64ToI32(c, x, wide, signed)
		}
		return c.Unary(ir.OpcodeTruncate, typ, v)
	}
	return ir.ValueInvalid
}

func (m *Machine) f64ToI32(c *ir.Cursor, x ir.Value, typ ir.Type, signed bool) ir.Value {
	return strategy(f64ToI32Strategies, m.tiers.DoubleToInt, "f64toi32")(m, c, x, typ, signed)
}

// scalarize converts the vector x lane by lane with op, since the hardware conversions only take scalar doubles.
func scalarize(c *ir.Cursor, op ir.Opcode, x ir.Value, typ ir.Type) ir.Value {
	var ret ir.Value
	for k := 0; k < typ.Lanes(); k++ {
		e := c.Emit(ir.OpcodeExtractVectorElt, x.Type().Elem(), x, c.Const(ir.TypeI32, uint64(k)))
		e = c.Unary(op, typ.Elem(), e)
		if k == 0 {
			ret = c.Emit(ir.OpcodeILVbuild, typ, e)
		} else {
			ret = c.Emit(ir.OpcodeInsertVectorElt, typ, ret, e, c.Const(ir.TypeI32, uint64(k)))
		}
	}
	return ret
}

func (m *Machine) lowerInt64(c *ir.Cursor, n *ir.Node) ir.Value {
	typ := n.ResultType(0)
	if typ.Elem() != ir.TypeI64 {
		return ir.ValueInvalid
	}
	x, y := n.Input(0), n.Input(1)
	switch n.Opcode() {
	case ir.OpcodeAdd:
		return add64(c, x, y)
	case ir.OpcodeSub:
		return sub64(c, x, y)
	default:
		if m.tiers.Mul64 != api.Mul64TierEmulated {
			return ir.ValueInvalid
		}
		return mul64(c, x, y)
	}
}

func (m *Machine) lowerFDiv(c *ir.Cursor, n *ir.Node) ir.Value {
	if n.ResultType(0).Elem() != ir.TypeF32 {
		return ir.ValueInvalid
	}
	return strategy(fdiv32Strategies, m.tiers.FDiv, "fdiv32")(m, c, n.Input(0), n.Input(1))
}

func (m *Machine) lowerSDiv(c *ir.Cursor, n *ir.Node) ir.Value {
	x, y := n.Input(0), n.Input(1)
	switch x.Type().Bits() {
	case 8, 16:
		return sdiv24(c, x, y)
	case 32:
		return sdiv32(c, x, y)
	}
	return ir.ValueInvalid
}

func (m *Machine) lowerUDiv(c *ir.Cursor, n *ir.Node) ir.Value {
	x, y := n.Input(0), n.Input(1)
	switch x.Type().Bits() {
	case 8, 16:
		return udiv24(c, x, y)
	}
	return ir.ValueInvalid
}

func (m *Machine) lowerSRem(c *ir.Cursor, n *ir.Node) ir.Value {
	x, y := n.Input(0), n.Input(1)
	switch x.Type().Bits() {
	case 8, 16:
		return srem24(c, x, y)
	case 32:
		return srem32(c, x, y)
	}
	return ir.ValueInvalid
}

func (m *Machine) lowerURem(c *ir.Cursor, n *ir.Node) ir.Value {
	x, y := n.Input(0), n.Input(1)
	switch x.Type().Bits() {
	case 8, 16:
		return urem24(c, x, y)
	case 32:
		return urem32(c, x, y)
	}
	return ir.ValueInvalid
}
