package amdil

import "github.com/radeon-go/amdil/ir"

// 64-bit integer arithmetic on 32-bit halves. Vectors are handled lane by lane since lcomp and lcreate work per
// lane.

func add64(c *ir.Cursor, x, y ir.Value) ir.Value {
	lo0, hi0 := halves(c, x)
	lo1, hi1 := halves(c, y)
	lo := c.Binary(ir.OpcodeAdd, lo0, lo1)
	// The carry compares as all ones, so subtracting it adds one.
	carry := c.ILCmp(lo.Type(), ir.ILCondULT, lo, lo0)
	hi := c.Binary(ir.OpcodeSub, c.Binary(ir.OpcodeAdd, hi0, hi1), carry)
	return lcreate(c, x.Type(), lo, hi)
}

func sub64(c *ir.Cursor, x, y ir.Value) ir.Value {
	lo0, hi0 := halves(c, x)
	lo1, hi1 := halves(c, y)
	lo := c.Binary(ir.OpcodeSub, lo0, lo1)
	borrow := c.ILCmp(lo.Type(), ir.ILCondULT, lo0, lo1)
	hi := c.Binary(ir.OpcodeAdd, c.Binary(ir.OpcodeSub, hi0, hi1), borrow)
	return lcreate(c, x.Type(), lo, hi)
}

// mul64 keeps the low 64 bits of the product: the cross terms only reach the high half.
func mul64(c *ir.Cursor, x, y ir.Value) ir.Value {
	lo0, hi0 := halves(c, x)
	lo1, hi1 := halves(c, y)
	hi := c.Binary(ir.OpcodeAdd,
		c.Binary(ir.OpcodeILUmul, hi1, lo0),
		c.Binary(ir.OpcodeILUmul, lo1, hi0),
	)
	hi = c.Binary(ir.OpcodeAdd, hi, c.Binary(ir.OpcodeMulHU, lo1, lo0))
	lo := c.Binary(ir.OpcodeILUmul, lo0, lo1)
	return lcreate(c, x.Type(), lo, hi)
}
