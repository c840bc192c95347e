package amdil

import "github.com/radeon-go/amdil/ir"

// fdiv32Scaled divides with div_zeroop(infinity), scaling huge divisors down first so that their reciprocal does not
// flush to zero.
func fdiv32Scaled(_ *Machine, c *ir.Cursor, a, b ir.Value) ir.Value {
	typ := a.Type()
	huge := c.ILCmp(typ.IntOfSameWidth(), ir.ILCondFLT, c.ConstFloat(typ, 0x1p96), c.Unary(ir.OpcodeFAbs, typ, b))
	scale := c.Cmovlog(huge, c.ConstFloat(typ, 0x1p-32), c.ConstFloat(typ, 1.0))
	q := c.Binary(ir.OpcodeILDivInf, a, c.Binary(ir.OpcodeFMul, b, scale))
	return c.Binary(ir.OpcodeFMul, q, scale)
}

// fdiv32IEEE divides the mantissas, both normalized to [1, 2), and then adds the exponent difference back, handling
// zeros, denormals, infinities and NaNs the way IEEE-754 does. Denormal operands are flushed to zero.
func fdiv32IEEE(_ *Machine, c *ir.Cursor, a, b ir.Value) ir.Value {
	typ := a.Type()
	intT := typ.IntOfSameWidth()
	k := func(v uint64) ir.Value { return c.Const(intT, v) }
	bin := func(op ir.Opcode, x, y ir.Value) ir.Value { return c.Binary(op, x, y) }
	ieq := func(x ir.Value, v uint64) ir.Value { return c.ILCmp(intT, ir.ILCondIEQ, x, k(v)) }

	ia := c.Unary(ir.OpcodeBitcast, intT, a)
	ib := c.Unary(ir.OpcodeBitcast, intT, b)

	expA := bin(ir.OpcodeAnd, ia, k(0x7f800000))
	expB := bin(ir.OpcodeAnd, ib, k(0x7f800000))
	manA := bin(ir.OpcodeAnd, ia, k(0x807fffff))
	manB := bin(ir.OpcodeAnd, ib, k(0x807fffff))

	infA, infB := ieq(expA, 0x7f800000), ieq(expB, 0x7f800000)
	zeroA, zeroB := ieq(expA, 0), ieq(expB, 0)
	signA := bin(ir.OpcodeAnd, ia, k(0x80000000))
	signB := bin(ir.OpcodeAnd, ib, k(0x80000000))

	manA = bin(ir.OpcodeOr, manA, k(0x3f800000))
	manB = bin(ir.OpcodeOr, manB, k(0x3f800000))
	manA = c.Cmovlog(zeroA, signA, manA)
	manB = c.Cmovlog(zeroB, signB, manB)
	manA = c.Cmovlog(infA, ia, manA)
	manB = c.Cmovlog(infB, ib, manB)

	special := bin(ir.OpcodeOr, bin(ir.OpcodeOr, infA, infB), bin(ir.OpcodeOr, zeroA, zeroB))
	expDiff := bin(ir.OpcodeAdd, expA, c.Unary(ir.OpcodeILInegate, intT, expB))
	expDiff = c.Cmovlog(special, k(0), expDiff)

	rcp := bin(ir.OpcodeILDivInf, c.ConstFloat(typ, 1.0), c.Unary(ir.OpcodeBitcast, typ, manB))
	q := c.Unary(ir.OpcodeBitcast, intT, bin(ir.OpcodeFMul, c.Unary(ir.OpcodeBitcast, typ, manA), rcp))

	mag := bin(ir.OpcodeAnd, q, k(0x7fffffff))
	sign := bin(ir.OpcodeAnd, q, k(0x80000000))
	exp := bin(ir.OpcodeAdd, bin(ir.OpcodeSra, mag, k(23)), bin(ir.OpcodeSra, expDiff, k(23)))
	q = bin(ir.OpcodeAdd, q, expDiff)

	underflow := c.ILCmp(intT, ir.ILCondIGE, k(0), exp)
	inf := bin(ir.OpcodeOr, sign, k(0x7f800000))
	overflow := c.Cmovlog(special, k(0), c.ILCmp(intT, ir.ILCondIGE, exp, k(255)))

	q = c.Cmovlog(underflow, sign, q)
	q = c.Cmovlog(overflow, inf, q)
	return c.Unary(ir.OpcodeBitcast, typ, q)
}
