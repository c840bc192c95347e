package interpreter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/radeon-go/amdil/ir"
)

func evalBinary(t *testing.T, op ir.Opcode, typ ir.Type, x, y Lanes) Lanes {
	g := ir.NewGraph("t")
	c := ir.NewCursor(g)
	g.AddOutput(c.Binary(op, c.Argument(typ, 0), c.Argument(typ, 1)))
	out, err := New(g, x, y).Run()
	require.NoError(t, err)
	return out[0]
}

func TestInterpreter_IntBinary(t *testing.T) {
	for _, tc := range []struct {
		name string
		op   ir.Opcode
		typ  ir.Type
		x, y uint64
		exp  uint64
	}{
		{name: "add wraps", op: ir.OpcodeAdd, typ: ir.TypeI8, x: 0xff, y: 2, exp: 1},
		{name: "sub", op: ir.OpcodeSub, typ: ir.TypeI32, x: 0, y: 1, exp: 0xffffffff},
		{name: "shl masks amount", op: ir.OpcodeShl, typ: ir.TypeI32, x: 1, y: 33, exp: 2},
		{name: "sra", op: ir.OpcodeSra, typ: ir.TypeI16, x: 0x8000, y: 15, exp: 0xffff},
		{name: "srl", op: ir.OpcodeSrl, typ: ir.TypeI64, x: 1 << 63, y: 63, exp: 1},
		{name: "rotl", op: ir.OpcodeRotl, typ: ir.TypeI8, x: 0x81, y: 1, exp: 0x03},
		{name: "rotr", op: ir.OpcodeRotr, typ: ir.TypeI8, x: 0x81, y: 1, exp: 0xc0},
		{name: "mulhu32", op: ir.OpcodeMulHU, typ: ir.TypeI32, x: 0xffffffff, y: 0xffffffff, exp: 0xfffffffe},
		{name: "mulhs32", op: ir.OpcodeMulHS, typ: ir.TypeI32, x: 0xffffffff, y: 3, exp: 0xffffffff},
		{name: "mulhs64", op: ir.OpcodeMulHS, typ: ir.TypeI64, x: math.MaxUint64, y: 3, exp: math.MaxUint64},
		{name: "sdiv truncates", op: ir.OpcodeSDiv, typ: ir.TypeI8, x: 0xf9, y: 2, exp: 0xfd},
		{name: "srem sign of dividend", op: ir.OpcodeSRem, typ: ir.TypeI8, x: 0xf9, y: 2, exp: 0xff},
		{name: "sdiv overflow", op: ir.OpcodeSDiv, typ: ir.TypeI32, x: 0x80000000, y: 0xffffffff, exp: 0x80000000},
		{name: "udiv by zero", op: ir.OpcodeUDiv, typ: ir.TypeI32, x: 5, y: 0, exp: 0},
		{name: "urem", op: ir.OpcodeURem, typ: ir.TypeI16, x: 0xffff, y: 10, exp: 5},
		{name: "smax", op: ir.OpcodeILSmax, typ: ir.TypeI32, x: 0xffffffff, y: 1, exp: 1},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, I(tc.exp), evalBinary(t, tc.op, tc.typ, I(tc.x), I(tc.y)))
		})
	}
}

func TestInterpreter_Float(t *testing.T) {
	require.Equal(t, F32(0.75, 1, float32(math.Inf(1)), 0),
		evalBinary(t, ir.OpcodeILDivInf, ir.TypeV4F32, F32(1.5, 1, 1, 0), F32(2, 1, 0, 1)))
	require.Equal(t, F64(1.75), evalBinary(t, ir.OpcodeFAdd, ir.TypeF64, F64(1.5), F64(0.25)))
}

func TestInterpreter_Convert(t *testing.T) {
	for _, tc := range []struct {
		name     string
		op       ir.Opcode
		from, to ir.Type
		x, exp   Lanes
	}{
		{name: "f64 to i32", op: ir.OpcodeFPToSI, from: ir.TypeF64, to: ir.TypeI32, x: F64(-2.9), exp: I(0xfffffffe)},
		{name: "f64 to i32 saturates", op: ir.OpcodeFPToSI, from: ir.TypeF64, to: ir.TypeI32, x: F64(1e20), exp: I(0x7fffffff)},
		{name: "f64 to i32 saturates negative", op: ir.OpcodeFPToSI, from: ir.TypeF64, to: ir.TypeI32, x: F64(-1e20), exp: I(0x80000000)},
		{name: "f64 to u32 negative", op: ir.OpcodeFPToUI, from: ir.TypeF64, to: ir.TypeI32, x: F64(-3), exp: I(0)},
		{name: "f64 to u64 saturates", op: ir.OpcodeFPToUI, from: ir.TypeF64, to: ir.TypeI64, x: F64(1e30), exp: I(math.MaxUint64)},
		{name: "nan", op: ir.OpcodeFPToSI, from: ir.TypeF64, to: ir.TypeI64, x: F64(math.NaN()), exp: I(0)},
		{name: "u32 to f64", op: ir.OpcodeUIToFP, from: ir.TypeI32, to: ir.TypeF64, x: I(0xffffffff), exp: F64(4294967295)},
		{name: "i32 to f32", op: ir.OpcodeSIToFP, from: ir.TypeI32, to: ir.TypeF32, x: I(0xffffffff), exp: F32(-1)},
		{name: "sext", op: ir.OpcodeSignExtend, from: ir.TypeI8, to: ir.TypeI32, x: I(0x80), exp: I(0xffffff80)},
		{name: "zext", op: ir.OpcodeZeroExtend, from: ir.TypeI8, to: ir.TypeI32, x: I(0x80), exp: I(0x80)},
		{name: "trunc", op: ir.OpcodeTruncate, from: ir.TypeI64, to: ir.TypeI16, x: I(0x12345678), exp: I(0x5678)},
		{name: "bitcast v2i32 to i64", op: ir.OpcodeBitcast, from: ir.TypeV2I32, to: ir.TypeI64, x: I(1, 2), exp: I(0x200000001)},
		{name: "bitcast f64 to v2i32", op: ir.OpcodeBitcast, from: ir.TypeF64, to: ir.TypeV2I32, x: F64(1), exp: I(0, 0x3ff00000)},
		{name: "bitcast v4i8 to i32", op: ir.OpcodeBitcast, from: ir.TypeV4I8, to: ir.TypeI32, x: I(1, 2, 3, 4), exp: I(0x04030201)},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			g := ir.NewGraph("t")
			c := ir.NewCursor(g)
			g.AddOutput(c.Unary(tc.op, tc.to, c.Argument(tc.from, 0)))
			out, err := New(g, tc.x).Run()
			require.NoError(t, err)
			require.Equal(t, tc.exp, out[0])
		})
	}
}

func TestInterpreter_Target(t *testing.T) {
	g := ir.NewGraph("t")
	c := ir.NewCursor(g)
	vec := c.Argument(ir.TypeV4I32, 0)
	x := c.Argument(ir.TypeI32, 1)

	cmp := c.ILCmp(ir.TypeV4I32, ir.ILCondULT, vec, c.EmitAux(ir.OpcodeConstant, ir.TypeV4I32, 3))
	sel := c.Cmovlog(cmp, vec, c.Const(ir.TypeV4I32, 0))
	ins := c.Emit(ir.OpcodeILVinsert, ir.TypeV4I32, vec, x, c.Const(ir.TypeI32, 0x04000201), c.Const(ir.TypeI32, 0x00010000))
	ext := c.EmitAux(ir.OpcodeILVextract, ir.TypeI32, 4, vec)
	lc := c.Emit(ir.OpcodeILLcreate, ir.TypeI64, x, c.Const(ir.TypeI32, 7))
	hi := c.Unary(ir.OpcodeILLcompHi, ir.TypeI32, lc)
	ffb := c.Unary(ir.OpcodeILIffbHi, ir.TypeV4I32, vec)
	for _, v := range []ir.Value{cmp, sel, ins, ext, lc, hi, ffb} {
		g.AddOutput(v)
	}

	out, err := New(g, I(1, 5, 2, 0), I(9)).Run()
	require.NoError(t, err)
	require.Equal(t, []Lanes{
		I(0xffffffff, 0, 0xffffffff, 0xffffffff),
		I(1, 0, 2, 0),
		I(1, 5, 9, 0),
		I(0),
		I(0x700000009),
		I(7),
		I(31, 29, 30, 0xffffffff),
	}, out)
}

func TestInterpreter_Compare(t *testing.T) {
	nan := math.NaN()
	for _, tc := range []struct {
		cond ir.CondCode
		a, b float64
		exp  bool
	}{
		{cond: ir.CondOLT, a: 1, b: 2, exp: true},
		{cond: ir.CondOLT, a: nan, b: 2, exp: false},
		{cond: ir.CondULT, a: nan, b: 2, exp: true},
		{cond: ir.CondUO, a: 1, b: nan, exp: true},
		{cond: ir.CondO, a: 1, b: 2, exp: true},
		{cond: ir.CondONE, a: nan, b: 2, exp: false},
		{cond: ir.CondNE, a: nan, b: 2, exp: true},
		{cond: ir.CondUEQ, a: 2, b: 2, exp: true},
	} {
		require.Equal(t, tc.exp, compareFloat(tc.cond, tc.a, tc.b), "%s(%v, %v)", tc.cond, tc.a, tc.b)
	}

	require.True(t, compare(ir.CondLT, ir.TypeI8, 0xff, 0))
	require.False(t, compare(ir.CondULT, ir.TypeI8, 0xff, 0))
	require.True(t, compareIL(ir.ILCondULGT, ir.TypeI64, math.MaxUint64, 0))
	require.False(t, compareIL(ir.ILCondLGT, ir.TypeI64, math.MaxUint64, 0))
	require.Panics(t, func() { compare(ir.CondUO, ir.TypeI32, 0, 0) })
}

func TestInterpreter_Chain(t *testing.T) {
	g := ir.NewGraph("t")
	c := ir.NewCursor(g)
	x := c.Argument(ir.TypeI32, 0)
	to := c.CopyToReg(g.EntryToken(), 1, x, ir.ValueInvalid)
	from := c.CopyFromReg(to.Result(0), 1, ir.TypeI32, to.Result(1))
	doubled := c.Binary(ir.OpcodeAdd, from.Result(0), from.Result(0))
	store := c.Emit(ir.OpcodeStore, ir.TypeOther, from.Result(1), doubled, c.Const(ir.TypeI32, 64))
	load := c.EmitNode(ir.OpcodeLoad, []ir.Type{ir.TypeI32, ir.TypeOther}, 0, store, c.Const(ir.TypeI32, 64))
	alloc := c.EmitNode(ir.OpcodeDynamicStackAlloc, []ir.Type{ir.TypeI32, ir.TypeOther}, 0,
		load.Result(1), c.Const(ir.TypeI32, 16), c.Const(ir.TypeI32, 4))
	g.SetRoot(alloc.Result(1))
	g.AddOutput(load.Result(0))
	g.AddOutput(alloc.Result(0))

	i := New(g, I(21))
	i.StackPointer = 100
	i.Registers[100] = I(32)
	out, err := i.Run()
	require.NoError(t, err)
	require.Equal(t, []Lanes{I(42), I(48)}, out)
	require.Equal(t, I(21), i.Registers[1])
	require.Equal(t, I(48), i.Registers[100])
}

func TestInterpreter_Errors(t *testing.T) {
	g := ir.NewGraph("t")
	c := ir.NewCursor(g)
	g.AddOutput(c.Argument(ir.TypeI32, 3))
	_, err := New(g).Run()
	require.EqualError(t, err, "missing argument 3")

	g = ir.NewGraph("t")
	c = ir.NewCursor(g)
	g.AddOutput(c.EmitAux(ir.OpcodeILVextract, ir.TypeI32, 0, c.Argument(ir.TypeV2I32, 0)))
	_, err = New(g, I(1, 2)).Run()
	require.EqualError(t, err, "vextract of lane 0 from v2i32")
}

func TestLanes(t *testing.T) {
	require.Equal(t, float32(1.5), F32(0, 1.5).Float32(1))
	require.Equal(t, -2.0, F64(-2).Float64(0))
	require.Equal(t, I(0xff, 0x01), I(0x1ff, 0x101, 7, 7).Mask(ir.TypeV2I8))
	require.Equal(t, int64(-1), signExtend(0xff, 8))
	require.Equal(t, uint64(0xffff), allOnes(16))
}
