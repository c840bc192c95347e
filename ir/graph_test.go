package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewGraph(t *testing.T) {
	g := NewGraph("kernel")
	require.Equal(t, "kernel", g.Name())
	require.Equal(t, 1, g.NumNodes())
	require.Equal(t, g.EntryToken(), g.Root())
	require.Equal(t, OpcodeEntryToken, g.NodeOf(g.Root()).Opcode())
	require.Equal(t, TypeOther, g.Root().Type())
	require.True(t, g.IsLive(g.Root().ID()))
	require.Equal(t, 1, g.NodeOf(g.Root()).Uses())
	require.NoError(t, Validate(g))
}

func TestGraph_SetRoot(t *testing.T) {
	g := NewGraph("f")
	entry := g.EntryToken()
	c := NewCursor(g)
	ret := c.Emit(OpcodeILRetFlag, TypeOther, entry)
	g.SetRoot(ret)
	require.Equal(t, 1, g.NodeOf(entry).Uses())
	require.Equal(t, 1, g.NodeOf(ret).Uses())
	require.NoError(t, Validate(g))

	g.SetRoot(entry)
	require.Equal(t, 2, g.NodeOf(entry).Uses())
	require.Equal(t, 0, g.NodeOf(ret).Uses())
	require.NoError(t, Validate(g))
}

func TestGraph_ReplaceAllUsesWith(t *testing.T) {
	g := NewGraph("f")
	c := NewCursor(g)
	x := c.Argument(TypeI32, 0)
	y := c.Argument(TypeI32, 1)
	sum := c.Binary(OpcodeAdd, x, y)
	prod := c.Binary(OpcodeMul, sum, sum)
	g.AddOutput(sum)
	g.AddOutput(prod)
	require.Equal(t, 3, g.NodeOf(sum).Uses())

	diff := c.Binary(OpcodeSub, x, y)
	g.ReplaceAllUsesWith(sum, diff)
	require.Equal(t, 0, g.NodeOf(sum).Uses())
	require.Equal(t, 3, g.NodeOf(diff).Uses())
	require.Equal(t, []Value{diff, diff}, g.NodeOf(prod).Inputs())
	require.Equal(t, []Value{diff, prod}, g.Outputs())
	require.False(t, g.IsLive(sum.ID()))
	require.NoError(t, Validate(g))

	require.Panics(t, func() { g.ReplaceAllUsesWith(diff, c.Const(TypeI64, 1)) })
}

func TestGraph_ReplaceNode(t *testing.T) {
	g := NewGraph("f")
	c := NewCursor(g)
	ptr := c.Argument(TypeI32, 0)
	load := c.EmitNode(OpcodeLoad, []Type{TypeF32, TypeOther}, 0, g.EntryToken(), ptr)
	g.SetRoot(load.Result(1))
	g.AddOutput(load.Result(0))

	merged := c.MergeValues(c.ConstFloat(TypeF32, 1), g.EntryToken())
	g.ReplaceNode(load.ID(), merged.Results())
	require.Equal(t, merged.Result(1), g.Root())
	require.Equal(t, []Value{merged.Result(0)}, g.Outputs())
	require.NoError(t, Validate(g))

	require.Panics(t, func() { g.ReplaceNode(load.ID(), []Value{ptr}) })
}

func TestGraph_InvalidInputs(t *testing.T) {
	g := NewGraph("f")
	c := NewCursor(g)
	x := c.Argument(TypeI32, 0)

	other := NewGraph("other")
	oc := NewCursor(other)
	oc.Argument(TypeI32, 0)
	foreign := oc.Const(TypeI32, 5)

	for _, tc := range []struct {
		name string
		v    Value
	}{
		{name: "invalid", v: ValueInvalid},
		{name: "unknown node", v: newValue(100, 0, TypeI32)},
		{name: "foreign", v: foreign},
		{name: "result out of range", v: newValue(x.ID(), 3, TypeI32)},
		{name: "wrong type", v: newValue(x.ID(), 0, TypeF32)},
	} {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			require.Panics(t, func() { c.Binary(OpcodeAdd, x, tc.v) })
		})
	}
}

func TestCursor(t *testing.T) {
	g := NewGraph("f")
	c := NewCursor(g)
	require.Equal(t, g, c.Graph())
	require.Equal(t, SourcePosUnknown, c.Pos())

	c.SetPos(42)
	v := c.Const(TypeI8, 0x1ff)
	n := g.NodeOf(v)
	require.Equal(t, SourcePos(42), n.Pos())
	require.Equal(t, uint64(0xff), n.Aux())
	require.True(t, n.IsConstant())

	f := c.ConstFloat(TypeV4F32, 0.5)
	require.Equal(t, 0.5, g.NodeOf(f).ConstantFloat())
	d := c.ConstFloat(TypeF64, -3)
	require.Equal(t, -3.0, g.NodeOf(d).ConstantFloat())

	require.Panics(t, func() { c.Const(TypeF32, 1) })
	require.Panics(t, func() { c.ConstFloat(TypeI32, 1) })

	from := c.CopyFromReg(g.EntryToken(), 3, TypeI32, ValueInvalid)
	require.Equal(t, 3, from.NumResults())
	require.Equal(t, TypeI32, from.ResultType(0))
	require.Equal(t, 2, from.NumInputs())
	to := c.CopyToReg(from.Result(1), 4, from.Result(0), from.Result(2))
	require.Equal(t, 4, to.NumInputs())
	require.Equal(t, from.Result(2), to.Input(3))
}

func TestFormat(t *testing.T) {
	g := NewGraph("kernel")
	c := NewCursor(g)
	x := c.Argument(TypeI32, 0)
	y := c.Argument(TypeI32, 1)
	cmp := c.ILCmp(TypeI32, ILCondULT, x, y)
	sel := c.Cmovlog(cmp, x, c.Const(TypeI32, 16))
	g.NodeOf(sel).SetOrder(3)
	c.Binary(OpcodeAdd, x, x) // dead
	g.AddOutput(sel)

	require.Equal(t, `graph kernel:
	v0:other = entry_token
	v1:i32 = argument 0
	v2:i32 = argument 1
	v3:i32 = amdil.cmp u_lt, v1, v2
	v4:i32 = constant 0x10
	v5:i32 = amdil.cmovlog v3, v1, v4 @3
	root v0
	outputs v5
`, Format(g))
}

func TestFormatNode(t *testing.T) {
	g := NewGraph("f")
	c := NewCursor(g)
	x := c.Argument(TypeV4F32, 0)
	for _, tc := range []struct {
		v   Value
		exp string
	}{
		{v: c.ConstFloat(TypeF32, 1.5), exp: "v2:f32 = constant_fp 1.5"},
		{v: c.ConstFloat(TypeF64, 0.1), exp: "v3:f64 = constant_fp 0.1"},
		{v: c.EmitAux(OpcodeILVextract, TypeF32, 2, x), exp: "v4:f32 = amdil.vextract lane2, v1"},
		{v: c.EmitAux(OpcodeSignExtendInReg, TypeI32, uint64(TypeI8), c.Argument(TypeI32, 1)), exp: "v6:i32 = sign_extend_inreg i8, v5"},
		{v: c.SetCC(TypeI1, CondOLT, x, x), exp: "v7:i1 = setcc olt, v1, v1"},
	} {
		require.Equal(t, tc.exp, FormatNode(g.NodeOf(tc.v)))
	}
	load := c.EmitNode(OpcodeLoad, []Type{TypeI32, TypeOther}, 0, g.EntryToken(), c.Argument(TypeI32, 2))
	require.Equal(t, "v9:i32, v9#1:other = load v0, v8", FormatNode(load))
}

func TestLiveNodes(t *testing.T) {
	g := NewGraph("f")
	c := NewCursor(g)
	x := c.Argument(TypeI32, 0)
	late := c.Const(TypeI32, 1)
	sum := c.Binary(OpcodeAdd, x, x)
	g.AddOutput(sum)
	// Re-point sum to a value created after its consumer would be.
	repl := c.Binary(OpcodeSub, x, late)
	g.ReplaceAllUsesWith(sum, repl)
	require.Equal(t, []NodeID{0, x.ID(), late.ID(), repl.ID()}, LiveNodes(g))
}
