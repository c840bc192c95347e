package amdil

import "github.com/radeon-go/amdil/ir"

// Integer division and remainder. 8 and 16-bit quotients are exact in single precision, so they go through the
// float divider; 32-bit ones fold the signs and reuse the unsigned divider.

func sdiv24(c *ir.Cursor, a, b ir.Value) ir.Value {
	typ := a.Type()
	intT, fT := typ.WithElem(ir.TypeI32), typ.WithElem(ir.TypeF32)

	// jq is +1 or -1 with the sign of the quotient.
	jq := c.Binary(ir.OpcodeSra, c.Binary(ir.OpcodeXor, a, b), c.Const(typ, uint64(typ.Bits()-1)))
	jq = c.Binary(ir.OpcodeOr, jq, c.Const(typ, 1))

	fa := c.Unary(ir.OpcodeSIToFP, fT, c.Unary(ir.OpcodeSignExtend, intT, a))
	fb := c.Unary(ir.OpcodeSIToFP, fT, c.Unary(ir.OpcodeSignExtend, intT, b))
	fq := c.Unary(ir.OpcodeFTrunc, fT, c.Binary(ir.OpcodeILDivInf, fa, fb))
	fr := c.Emit(ir.OpcodeILMad, fT, c.Unary(ir.OpcodeFNeg, fT, fq), fb, fa)
	iq := c.Unary(ir.OpcodeFPToSI, intT, fq)

	// A remainder as large as the divisor means the truncated quotient is one short.
	short := c.ILCmp(intT, ir.ILCondFOGE, c.Unary(ir.OpcodeFAbs, fT, fr), c.Unary(ir.OpcodeFAbs, fT, fb))
	jq = c.Cmovlog(short, jq, c.Const(typ, 0))
	return c.Binary(ir.OpcodeAdd, c.Unary(ir.OpcodeTruncate, typ, iq), jq)
}

func udiv24(c *ir.Cursor, a, b ir.Value) ir.Value {
	typ := a.Type()
	intT, fT := typ.WithElem(ir.TypeI32), typ.WithElem(ir.TypeF32)

	fa := c.Unary(ir.OpcodeSIToFP, fT, c.Unary(ir.OpcodeZeroExtend, intT, a))
	fb := c.Unary(ir.OpcodeSIToFP, fT, c.Unary(ir.OpcodeZeroExtend, intT, b))
	fq := c.Unary(ir.OpcodeFTrunc, fT, c.Binary(ir.OpcodeILDivInf, fa, fb))
	// (fq+1)*fb <= fa means the truncated quotient is one short.
	next := c.Emit(ir.OpcodeILMad, fT, fq, fb, fb)
	short := c.ILCmp(intT, ir.ILCondFLE, next, fa)
	iq := c.Binary(ir.OpcodeSub, c.Unary(ir.OpcodeFPToSI, intT, fq), short)
	return c.Unary(ir.OpcodeTruncate, typ, iq)
}

// abs32 returns |x| and the all ones mask of negative lanes.
func abs32(c *ir.Cursor, x ir.Value) (abs, neg ir.Value) {
	neg = c.ILCmp(x.Type(), ir.ILCondILT, x, c.Const(x.Type(), 0))
	abs = c.Binary(ir.OpcodeXor, c.Binary(ir.OpcodeAdd, x, neg), neg)
	return
}

// applySign negates x where neg is all ones.
func applySign(c *ir.Cursor, x, neg ir.Value) ir.Value {
	return c.Binary(ir.OpcodeXor, c.Binary(ir.OpcodeAdd, x, neg), neg)
}

func sdiv32(c *ir.Cursor, a, b ir.Value) ir.Value {
	r0, r10 := abs32(c, a)
	r1, r11 := abs32(c, b)
	q := c.Binary(ir.OpcodeUDiv, r0, r1)
	return applySign(c, q, c.Binary(ir.OpcodeXor, r10, r11))
}

func srem32(c *ir.Cursor, a, b ir.Value) ir.Value {
	r0, r10 := abs32(c, a)
	r1, _ := abs32(c, b)
	q := c.Binary(ir.OpcodeUDiv, r0, r1)
	r := c.Binary(ir.OpcodeSub, r0, c.Binary(ir.OpcodeILUmul, q, r1))
	return applySign(c, r, r10)
}

// srem24 widens to 32 bits; the wide remainder is lowered in turn.
func srem24(c *ir.Cursor, a, b ir.Value) ir.Value {
	intT := a.Type().WithElem(ir.TypeI32)
	r := c.Binary(ir.OpcodeSRem, resize(c, a, intT, true), resize(c, b, intT, true))
	return c.Unary(ir.OpcodeTruncate, a.Type(), r)
}

func urem24(c *ir.Cursor, a, b ir.Value) ir.Value {
	typ := a.Type()
	intT := typ.WithElem(ir.TypeI32)
	mask := c.Const(intT, 1<<typ.Bits()-1)
	r10 := c.Binary(ir.OpcodeAnd, resize(c, a, intT, false), mask)
	r11 := c.Binary(ir.OpcodeAnd, resize(c, b, intT, false), mask)
	// A zero divisor divides by one and leaves the dividend as the remainder.
	r3 := c.Cmovlog(r11, r11, c.Const(intT, 1))
	r3 = c.Binary(ir.OpcodeUDiv, r10, r3)
	r3 = c.Cmovlog(r11, r3, c.Const(intT, 0))
	r3 = c.Binary(ir.OpcodeSub, r10, c.Binary(ir.OpcodeILUmul, r3, r11))
	r3 = c.Binary(ir.OpcodeAnd, r3, mask)
	return c.Unary(ir.OpcodeTruncate, typ, r3)
}

func urem32(c *ir.Cursor, a, b ir.Value) ir.Value {
	q := c.Binary(ir.OpcodeUDiv, a, b)
	return c.Binary(ir.OpcodeSub, a, c.Binary(ir.OpcodeILUmul, q, b))
}
