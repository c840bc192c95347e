package amdil

import "github.com/radeon-go/amdil/ir"

// Conversions between doubles and integers on devices lacking the instructions. Doubles are taken apart with
// lcreate/lcomp on their integer bit pattern.

const (
	twoPow32    = 4294967296.0
	twoPowNeg32 = 1.0 / twoPow32
)

// halves returns the low and high 32 bits of the 64-bit lanes of x.
func halves(c *ir.Cursor, x ir.Value) (lo, hi ir.Value) {
	intT := x.Type().WithElem(ir.TypeI32)
	if x.Type().IsFloat() {
		x = c.Unary(ir.OpcodeBitcast, x.Type().IntOfSameWidth(), x)
	}
	return c.Unary(ir.OpcodeILLcompLo, intT, x), c.Unary(ir.OpcodeILLcompHi, intT, x)
}

// lcreate builds the 64-bit lanes of type typ from their 32-bit halves, bitcasting if typ is a float.
func lcreate(c *ir.Cursor, typ ir.Type, lo, hi ir.Value) ir.Value {
	l := c.Emit(ir.OpcodeILLcreate, typ.IntOfSameWidth(), lo, hi)
	if typ.IsFloat() {
		return c.Unary(ir.OpcodeBitcast, typ, l)
	}
	return l
}

func u32ToF64Bias(_ *Machine, c *ir.Cursor, x ir.Value, typ ir.Type) ir.Value {
	intT := x.Type()
	// 2^52 + x, minus 2^52.
	d := lcreate(c, typ, x, c.Const(intT, 0x43300000))
	bias := c.Unary(ir.OpcodeBitcast, typ, c.Const(typ.IntOfSameWidth(), 0x4330000000000000))
	return c.Binary(ir.OpcodeFSub, d, bias)
}

func u32ToF64Manual(m *Machine, c *ir.Cursor, x ir.Value, typ ir.Type) ir.Value {
	intT := x.Type()
	clz := m.clz32(c, x)
	exp := c.Cmovlog(x, c.Binary(ir.OpcodeSub, c.Const(intT, 1054), clz), x)
	rhi := c.Binary(ir.OpcodeAnd, c.Binary(ir.OpcodeShl, x, clz), c.Const(intT, 0x7fffffff))
	rlo := c.Binary(ir.OpcodeShl, rhi, c.Const(intT, 21))
	rhi = c.Binary(ir.OpcodeOr,
		c.Binary(ir.OpcodeSrl, rhi, c.Const(intT, 11)),
		c.Binary(ir.OpcodeShl, exp, c.Const(intT, 20)),
	)
	return lcreate(c, typ, rlo, rhi)
}

func u64ToF64Native(_ *Machine, c *ir.Cursor, x ir.Value, typ ir.Type) ir.Value {
	lo, hi := halves(c, x)
	fhi := c.Unary(ir.OpcodeUIToFP, typ, hi)
	flo := c.Unary(ir.OpcodeUIToFP, typ, lo)
	return c.Emit(ir.OpcodeILMad, typ, fhi, c.ConstFloat(typ, twoPow32), flo)
}

func u64ToF64Bias(_ *Machine, c *ir.Cursor, x ir.Value, typ ir.Type) ir.Value {
	lo, hi := halves(c, x)
	intT := lo.Type()
	// lo is 2^52 + xlo and hi is 2^84 + xhi*2^32.
	dlo := lcreate(c, typ, lo, c.Const(intT, 0x43300000))
	dhi := lcreate(c, typ, hi, c.Const(intT, 0x45300000))
	bias := c.Unary(ir.OpcodeBitcast, typ, c.Const(typ.IntOfSameWidth(), 0x4530000000100000))
	return c.Binary(ir.OpcodeFAdd, c.Binary(ir.OpcodeFSub, dhi, bias), dlo)
}

// u64ToF64Manual normalizes x by its leading zero count, then rounds the 11 dropped bits to nearest even.
func u64ToF64Manual(m *Machine, c *ir.Cursor, x ir.Value, typ ir.Type) ir.Value {
	xlo, xhi := halves(c, x)
	intT := xlo.Type()
	k := func(v uint64) ir.Value { return c.Const(intT, v) }
	bin := func(op ir.Opcode, x, y ir.Value) ir.Value { return c.Binary(op, x, y) }

	clz := m.clz64(c, x)
	exp := bin(ir.OpcodeSub, k(1086), clz)
	mash := bin(ir.OpcodeOr, xhi, xlo)
	exp = c.Cmovlog(mash, exp, mash)

	clz31 := bin(ir.OpcodeAnd, clz, k(31))
	rshift := bin(ir.OpcodeSub, k(32), clz31)
	t1 := bin(ir.OpcodeShl, xhi, clz31)
	t2 := c.Cmovlog(clz31, bin(ir.OpcodeSrl, xlo, rshift), t1)
	rhi1 := bin(ir.OpcodeOr, t1, t2)
	rlo1 := bin(ir.OpcodeShl, xlo, clz31)
	rhi2 := bin(ir.OpcodeShl, xlo, clz31)

	clz32 := bin(ir.OpcodeAnd, clz, k(32))
	rhi := c.Cmovlog(clz32, rhi2, rhi1)
	rlo := c.Cmovlog(clz32, k(0), rlo1)

	rhi = bin(ir.OpcodeAnd, rhi, k(0x7fffffff))
	round := bin(ir.OpcodeAnd, rlo, k(0x7ff))
	rlo = bin(ir.OpcodeOr, bin(ir.OpcodeSrl, rlo, k(11)), bin(ir.OpcodeShl, rhi, k(21)))
	rhi = bin(ir.OpcodeOr, bin(ir.OpcodeSrl, rhi, k(11)), bin(ir.OpcodeShl, exp, k(20)))

	even := bin(ir.OpcodeAnd, rlo, k(1))
	grs := c.ILCmp(intT, ir.ILCondINE, bin(ir.OpcodeAnd, round, k(0x3ff)), k(0))
	grs = bin(ir.OpcodeOr, grs, even)
	round = bin(ir.OpcodeAnd, bin(ir.OpcodeSrl, round, k(10)), grs)

	longT := typ.IntOfSameWidth()
	res := bin(ir.OpcodeAdd, lcreate(c, longT, rlo, rhi), lcreate(c, longT, round, k(0)))
	return c.Unary(ir.OpcodeBitcast, typ, res)
}

// mantissaHi returns the top 32 bits of the 53-bit mantissa of a double, with the implicit one at bit 31, and the
// biased exponent.
func mantissaHi(c *ir.Cursor, xlo, xhi ir.Value) (mhi, exp ir.Value) {
	intT := xlo.Type()
	mhi = c.Binary(ir.OpcodeShl, c.Binary(ir.OpcodeOr, xhi, c.Const(intT, 0x100000)), c.Const(intT, 11))
	mhi = c.Binary(ir.OpcodeOr, mhi, c.Binary(ir.OpcodeSrl, xlo, c.Const(intT, 21)))
	exp = c.Binary(ir.OpcodeAnd, c.Binary(ir.OpcodeSrl, xhi, c.Const(intT, 20)), c.Const(intT, 0x7ff))
	return
}

// overflowLimit is the smallest right shift of the mantissa whose result still fits the destination.
func overflowLimit(signed bool) uint64 {
	if signed {
		return 1
	}
	return 0
}

func f64ToI32Manual(_ *Machine, c *ir.Cursor, x ir.Value, typ ir.Type, signed bool) ir.Value {
	xlo, xhi := halves(c, x)
	intT := xlo.Type()
	k := func(v uint64) ir.Value { return c.Const(intT, v) }

	mhi, e := mantissaHi(c, xlo, xhi)
	sr := c.Binary(ir.OpcodeSub, k(1054), e)
	res := c.Binary(ir.OpcodeSrl, mhi, sr)
	res = c.Cmovlog(c.ILCmp(intT, ir.ILCondIGE, sr, k(32)), k(0), res)

	ovf := c.ILCmp(intT, ir.ILCondILT, sr, k(overflowLimit(signed)))
	if !signed {
		return c.Cmovlog(ovf, k(0xffffffff), res)
	}
	sign := c.Binary(ir.OpcodeSra, xhi, k(31))
	res = c.Cmovlog(ovf, c.Binary(ir.OpcodeSub, k(0x7fffffff), sign), res)
	return c.Binary(ir.OpcodeXor, c.Binary(ir.OpcodeAdd, res, sign), sign)
}

func f64ToI64Manual(_ *Machine, c *ir.Cursor, x ir.Value, typ ir.Type, signed bool) ir.Value {
	xlo, xhi := halves(c, x)
	intT := xlo.Type()
	k := func(v uint64) ir.Value { return c.Const(intT, v) }
	bin := func(op ir.Opcode, x, y ir.Value) ir.Value { return c.Binary(op, x, y) }

	mhi, e := mantissaHi(c, xlo, xhi)
	mlo := bin(ir.OpcodeShl, xlo, k(11))
	sr := bin(ir.OpcodeSub, k(1086), e)
	srge64 := c.ILCmp(intT, ir.ILCondIGE, sr, k(64))
	srge32 := c.ILCmp(intT, ir.ILCondIGE, sr, k(32))

	rhi0 := bin(ir.OpcodeSrl, mhi, sr)
	rlo0 := bin(ir.OpcodeSrl, mlo, sr)
	carried := bin(ir.OpcodeOr, bin(ir.OpcodeShl, mhi, bin(ir.OpcodeSub, k(32), sr)), rlo0)
	rlo0 = c.Cmovlog(sr, carried, rlo0)
	rlo1 := c.Cmovlog(srge64, k(0), rhi0)
	rhi := c.Cmovlog(srge32, k(0), rhi0)
	rlo := c.Cmovlog(srge32, rlo1, rlo0)

	ovf := c.ILCmp(intT, ir.ILCondILT, sr, k(overflowLimit(signed)))
	if !signed {
		rhi = c.Cmovlog(ovf, k(0xffffffff), rhi)
		rlo = c.Cmovlog(ovf, k(0xffffffff), rlo)
		return lcreate(c, typ, rlo, rhi)
	}
	sign := bin(ir.OpcodeSra, xhi, k(31))
	rhi = c.Cmovlog(ovf, bin(ir.OpcodeSub, k(0x7fffffff), sign), rhi)
	rlo = c.Cmovlog(ovf, bin(ir.OpcodeXor, sign, k(0xffffffff)), rlo)
	res := lcreate(c, typ, rlo, rhi)
	s := lcreate(c, typ, sign, sign)
	return bin(ir.OpcodeXor, bin(ir.OpcodeAdd, res, s), s)
}

// f64ToI64Native converts each 32-bit half with the native instruction. The low half is what remains of the
// magnitude once the high half is subtracted, which a fused multiply-add computes exactly.
func f64ToI64Native(_ *Machine, c *ir.Cursor, x ir.Value, typ ir.Type, signed bool) ir.Value {
	fT := x.Type()
	intT := typ.WithElem(ir.TypeI32)
	d := x
	if signed {
		d = c.Unary(ir.OpcodeFAbs, fT, x)
	}
	uhi := c.Unary(ir.OpcodeFPToUI, intT, c.Binary(ir.OpcodeFMul, d, c.ConstFloat(fT, twoPowNeg32)))
	rem := c.Emit(ir.OpcodeILMad, fT, c.Unary(ir.OpcodeUIToFP, fT, uhi), c.ConstFloat(fT, -twoPow32), d)
	ulo := c.Unary(ir.OpcodeFPToUI, intT, rem)
	l := lcreate(c, typ, ulo, uhi)
	if !signed {
		return l
	}
	nl := c.Unary(ir.OpcodeILInegate, typ, l)
	nonNeg := c.ILCmp(typ, ir.ILCondDEQ, x, d)
	return c.Cmovlog(nonNeg, l, nl)
}
