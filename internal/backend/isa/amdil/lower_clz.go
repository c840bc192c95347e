package amdil

import "github.com/radeon-go/amdil/ir"

// clzField counts the leading zeros of x as an n-bit field, n <= 23, for each 32-bit lane of x. The field is
// placed in the mantissa of 1.0 so that subtracting 1.0 normalizes it, and the exponent then tells the position of
// its highest set bit.
func clzField(c *ir.Cursor, x ir.Value, n uint64) ir.Value {
	intT := x.Type()
	fT := intT.WithElem(ir.TypeF32)
	b := c.Unary(ir.OpcodeBitcast, fT, c.Binary(ir.OpcodeOr, x, c.Const(intT, 0x3f800000)))
	b = c.Binary(ir.OpcodeFSub, b, c.ConstFloat(fT, 1.0))
	e := c.Unary(ir.OpcodeBitcast, intT, b)
	e = c.Binary(ir.OpcodeAnd, c.Binary(ir.OpcodeSrl, e, c.Const(intT, 23)), c.Const(intT, 0xff))
	// The exponent of a value with its highest bit at position p is 127-23+p.
	r := c.Binary(ir.OpcodeSub, c.Const(intT, 103+n), e)
	nonZero := c.ILCmp(intT, ir.ILCondINE, x, c.Const(intT, 0))
	return c.Cmovlog(nonZero, r, c.Const(intT, n))
}

// selectIfEq returns t where x == k and f elsewhere.
func selectIfEq(c *ir.Cursor, x ir.Value, k uint64, t, f ir.Value) ir.Value {
	eq := c.ILCmp(x.Type(), ir.ILCondIEQ, x, c.Const(x.Type(), k))
	return c.Cmovlog(eq, t, f)
}

func clz32Native(_ *Machine, c *ir.Cursor, x ir.Value) ir.Value {
	intT := x.Type()
	z := c.Emit(ir.OpcodeILIffbHi, intT, x)
	// ffb_hi returns -1 for zero.
	neg := c.ILCmp(intT, ir.ILCondILT, z, c.Const(intT, 0))
	return c.Cmovlog(neg, c.Const(intT, 32), z)
}

func clz32Emulated(_ *Machine, c *ir.Cursor, x ir.Value) ir.Value {
	intT := x.Type()
	zh := clzField(c, c.Binary(ir.OpcodeSrl, x, c.Const(intT, 16)), 16)
	zl := clzField(c, c.Binary(ir.OpcodeAnd, x, c.Const(intT, 0xffff)), 16)
	return selectIfEq(c, zh, 16, c.Binary(ir.OpcodeAdd, zl, c.Const(intT, 16)), zh)
}

// clz64Native returns the 32-bit count of the 64-bit x by counting each half with the native instruction.
func clz64Native(m *Machine, c *ir.Cursor, x ir.Value) ir.Value {
	intT := x.Type().WithElem(ir.TypeI32)
	lo := c.Unary(ir.OpcodeILLcompLo, intT, x)
	hi := c.Unary(ir.OpcodeILLcompHi, intT, x)
	zhi, zlo := m.clz32(c, hi), m.clz32(c, lo)
	return selectIfEq(c, zhi, 32, c.Binary(ir.OpcodeAdd, zlo, c.Const(intT, 32)), zhi)
}

// clz64Emulated splits x into fields of 18, 23 and 23 bits, each small enough for clzField.
func clz64Emulated(_ *Machine, c *ir.Cursor, x ir.Value) ir.Value {
	longT := x.Type()
	intT := longT.WithElem(ir.TypeI32)
	mask := c.Const(intT, 0x7fffff)

	top := c.Unary(ir.OpcodeTruncate, intT, c.Binary(ir.OpcodeSrl, x, c.Const(longT, 46)))
	mid := c.Unary(ir.OpcodeTruncate, intT, c.Binary(ir.OpcodeSrl, x, c.Const(longT, 23)))
	mid = c.Binary(ir.OpcodeAnd, mid, mask)
	low := c.Binary(ir.OpcodeAnd, c.Unary(ir.OpcodeILLcompLo, intT, x), mask)

	zh := clzField(c, top, 23)
	zm := clzField(c, mid, 23)
	zl := clzField(c, low, 23)

	zh = c.Binary(ir.OpcodeSub, zh, c.Const(intT, 5))
	r := selectIfEq(c, zh, 18, c.Binary(ir.OpcodeAdd, zm, c.Const(intT, 18)), zh)
	return selectIfEq(c, c.Binary(ir.OpcodeAdd, zh, zm), 41, c.Binary(ir.OpcodeAdd, zl, c.Const(intT, 41)), r)
}
