package amdil

import "github.com/radeon-go/amdil/ir"

// lowerGlobalAddress folds the address of a constant scalar global into its value, since constant memory is not
// addressable from the kernel.
func (m *Machine) lowerGlobalAddress(c *ir.Cursor, n *ir.Node) ir.Value {
	g := c.Graph()
	typ := n.ResultType(0)
	gl := g.Globals[n.Aux()]
	if gl.HasInit {
		switch init := g.NodeOf(gl.Init); init.Opcode() {
		case ir.OpcodeConstant:
			if typ.IsInt() {
				return c.Const(typ, init.Aux())
			}
		case ir.OpcodeConstantFP:
			if typ.IsFloat() {
				return c.ConstFloat(typ, init.ConstantFloat())
			}
			return c.Const(typ, init.Aux())
		}
	}
	return c.EmitAux(ir.OpcodeTargetGlobalAddress, typ, n.Aux())
}

// selectCC compares x and y with cond and picks t or f per lane.
func selectCC(c *ir.Cursor, cond ir.CondCode, x, y, t, f ir.Value) ir.Value {
	switch cond {
	case ir.CondTrue:
		return t
	case ir.CondFalse:
		return f
	}
	opT := x.Type()
	cmp := c.ILCmp(opT.IntOfSameWidth(), ILCondOf(cond, opT), x, y)
	return c.Cmovlog(cmp, t, f)
}

// lowerSetCC materializes the comparison as 0 or 1.
func lowerSetCC(c *ir.Cursor, n *ir.Node) ir.Value {
	typ := n.ResultType(0)
	v := selectCC(c, n.CondCode(), n.Input(0), n.Input(1), c.Const(typ, ^uint64(0)), c.Const(typ, 0))
	return c.Binary(ir.OpcodeAnd, v, c.Const(typ, 1))
}

// lowerSignExtendInReg shifts the narrow value to the top of the lane and back. Lanes narrower than 32 bits are
// widened first since shifts work on full registers.
func lowerSignExtendInReg(c *ir.Cursor, n *ir.Node) ir.Value {
	x, typ := n.Input(0), n.ResultType(0)
	from := n.AuxType().Bits()
	wide := typ
	if typ.Bits() < 32 {
		wide = typ.WithElem(ir.TypeI32)
		x = c.Unary(ir.OpcodeZeroExtend, wide, x)
	}
	shift := c.Const(wide, uint64(wide.Bits()-from))
	x = c.Binary(ir.OpcodeSra, c.Binary(ir.OpcodeShl, x, shift), shift)
	if wide != typ {
		x = c.Unary(ir.OpcodeTruncate, typ, x)
	}
	return x
}

// lowerDynamicStackAlloc bumps the stack pointer register by the requested size and returns its new value.
func lowerDynamicStackAlloc(c *ir.Cursor, n *ir.Node) []ir.Value {
	chain, size := n.Input(0), n.Input(1)
	typ := n.ResultType(0)
	sp := c.CopyFromReg(chain, uint32(RegSP), typ, ir.ValueInvalid)
	newSP := c.Binary(ir.OpcodeAdd, sp.Result(0), size)
	cp := c.CopyToReg(sp.Result(1), uint32(RegSP), newSP, ir.ValueInvalid)
	return []ir.Value{newSP, cp.Result(0)}
}

func lowerBrCC(c *ir.Cursor, n *ir.Node) ir.Value {
	chain, x, y, block := n.Input(0), n.Input(1), n.Input(2), n.Input(3)
	cond := selectCC(c, n.CondCode(), x, y, c.Const(ir.TypeI32, ^uint64(0)), c.Const(ir.TypeI32, 0))
	return c.Emit(ir.OpcodeILBranchCond, ir.TypeOther, chain, block, cond)
}

func lowerFPRound(c *ir.Cursor, n *ir.Node) ir.Value {
	x, typ := n.Input(0), n.ResultType(0)
	if x.Type().Elem() == ir.TypeF64 && typ.Elem() == ir.TypeF32 {
		return c.Unary(ir.OpcodeILDpToFp, typ, x)
	}
	return ir.ValueInvalid
}
