package amdil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/radeon-go/amdil/internal/interpreter"
	"github.com/radeon-go/amdil/ir"
)

func TestVinsert(t *testing.T) {
	for k, exp := range []interpreter.Lanes{
		interpreter.I(9, 2, 3, 4),
		interpreter.I(1, 9, 3, 4),
		interpreter.I(1, 2, 9, 4),
		interpreter.I(1, 2, 3, 9),
	} {
		g := ir.NewGraph("f")
		c := ir.NewCursor(g)
		g.AddOutput(vinsert(c, c.Argument(ir.TypeV4I32, 0), c.Const(ir.TypeI32, 9), k))
		require.Equal(t, exp, eval(t, g, interpreter.I(1, 2, 3, 4)))
	}
}

func TestLowerBuildVector(t *testing.T) {
	t.Run("distinct", func(t *testing.T) {
		orig, lowered := loweredPair(t, hd5xxx, func(c *ir.Cursor) ir.Value {
			x, y := c.Argument(ir.TypeI32, 0), c.Argument(ir.TypeI32, 1)
			return c.Emit(ir.OpcodeBuildVector, ir.TypeV4I32, x, y, c.Const(ir.TypeI32, 7), x)
		})
		require.False(t, opcodes(lowered)[ir.OpcodeBuildVector])
		x, y := interpreter.I(1), interpreter.I(2)
		require.Equal(t, interpreter.I(1, 2, 7, 1), eval(t, orig, x, y))
		require.Equal(t, interpreter.I(1, 2, 7, 1), eval(t, lowered, x, y))
	})
	t.Run("splat", func(t *testing.T) {
		_, lowered := loweredPair(t, hd5xxx, func(c *ir.Cursor) ir.Value {
			x := c.Argument(ir.TypeF32, 0)
			return c.Emit(ir.OpcodeBuildVector, ir.TypeV4F32, x, x, x, x)
		})
		ops := opcodes(lowered)
		require.True(t, ops[ir.OpcodeILVbuild])
		require.False(t, ops[ir.OpcodeILVinsert])
		require.Equal(t, interpreter.F32(1.5, 1.5, 1.5, 1.5), eval(t, lowered, interpreter.F32(1.5)))
	})
	t.Run("undef lanes", func(t *testing.T) {
		_, lowered := loweredPair(t, hd5xxx, func(c *ir.Cursor) ir.Value {
			x, y := c.Argument(ir.TypeI32, 0), c.Argument(ir.TypeI32, 1)
			return c.Emit(ir.OpcodeBuildVector, ir.TypeV4I32, x, c.Undef(ir.TypeI32), y, c.Undef(ir.TypeI32))
		})
		actual := eval(t, lowered, interpreter.I(1), interpreter.I(2))
		require.Equal(t, uint64(1), actual[0])
		require.Equal(t, uint64(2), actual[2])
	})
}

func TestLowerInsertVectorElt(t *testing.T) {
	insert := func(idx func(c *ir.Cursor) ir.Value) func(c *ir.Cursor) ir.Value {
		return func(c *ir.Cursor) ir.Value {
			vec, x := c.Argument(ir.TypeV4I32, 0), c.Argument(ir.TypeI32, 1)
			return c.Emit(ir.OpcodeInsertVectorElt, ir.TypeV4I32, vec, x, idx(c))
		}
	}
	vec, x := interpreter.I(1, 2, 3, 4), interpreter.I(9)

	_, lowered := loweredPair(t, hd5xxx, insert(func(c *ir.Cursor) ir.Value { return c.Const(ir.TypeI32, 2) }))
	require.False(t, opcodes(lowered)[ir.OpcodeInsertVectorElt])
	require.Equal(t, interpreter.I(1, 2, 9, 4), eval(t, lowered, vec, x))

	orig, lowered := loweredPair(t, hd5xxx, insert(func(c *ir.Cursor) ir.Value { return c.Argument(ir.TypeI32, 2) }))
	require.False(t, opcodes(lowered)[ir.OpcodeInsertVectorElt])
	for idx := uint64(0); idx < 4; idx++ {
		exp := eval(t, orig, vec, x, interpreter.I(idx))
		require.Equal(t, exp, eval(t, lowered, vec, x, interpreter.I(idx)), "index %d", idx)
	}

	// Inserting an undefined value keeps the vector.
	_, lowered = loweredPair(t, hd5xxx, func(c *ir.Cursor) ir.Value {
		return c.Emit(ir.OpcodeInsertVectorElt, ir.TypeV4I32,
			c.Argument(ir.TypeV4I32, 0), c.Undef(ir.TypeI32), c.Const(ir.TypeI32, 1))
	})
	require.Equal(t, vec, eval(t, lowered, vec))
}

func TestLowerExtractVectorElt(t *testing.T) {
	for _, typ := range []ir.Type{ir.TypeV4I32, ir.TypeV2F64, ir.TypeV4I8} {
		typ := typ
		t.Run(typ.String(), func(t *testing.T) {
			vec := interpreter.I(11, 22, 33, 44).Mask(typ)
			orig, lowered := loweredPair(t, hd5xxx, func(c *ir.Cursor) ir.Value {
				return c.Emit(ir.OpcodeExtractVectorElt, typ.Elem(), c.Argument(typ, 0), c.Argument(ir.TypeI32, 1))
			})
			require.False(t, opcodes(lowered)[ir.OpcodeExtractVectorElt])
			for idx := 0; idx < typ.Lanes(); idx++ {
				i := interpreter.I(uint64(idx))
				require.Equal(t, interpreter.I(vec[idx]), eval(t, orig, vec, i))
				require.Equal(t, interpreter.I(vec[idx]), eval(t, lowered, vec, i), "index %d", idx)
			}

			_, lowered = loweredPair(t, hd5xxx, func(c *ir.Cursor) ir.Value {
				return c.Emit(ir.OpcodeExtractVectorElt, typ.Elem(), c.Argument(typ, 0), c.Const(ir.TypeI32, 1))
			})
			require.True(t, opcodes(lowered)[ir.OpcodeILVextract])
			require.Equal(t, interpreter.I(vec[1]), eval(t, lowered, vec))
		})
	}
}

func TestLowerExtractSubvector(t *testing.T) {
	vec := interpreter.I(1, 2, 3, 4)
	_, lowered := loweredPair(t, hd5xxx, func(c *ir.Cursor) ir.Value {
		return c.Emit(ir.OpcodeExtractSubvector, ir.TypeV2I32, c.Argument(ir.TypeV4I32, 0), c.Const(ir.TypeI32, 2))
	})
	require.False(t, opcodes(lowered)[ir.OpcodeExtractSubvector])
	require.Equal(t, interpreter.I(3, 4), eval(t, lowered, vec))

	orig, lowered := loweredPair(t, hd5xxx, func(c *ir.Cursor) ir.Value {
		return c.Emit(ir.OpcodeExtractSubvector, ir.TypeV2I32, c.Argument(ir.TypeV4I32, 0), c.Argument(ir.TypeI32, 1))
	})
	ops := opcodes(lowered)
	require.False(t, ops[ir.OpcodeExtractSubvector])
	require.False(t, ops[ir.OpcodeExtractVectorElt])
	for base := uint64(0); base < 3; base++ {
		require.Equal(t, eval(t, orig, vec, interpreter.I(base)), eval(t, lowered, vec, interpreter.I(base)))
	}
}

func TestLowerScalarToVector(t *testing.T) {
	_, lowered := loweredPair(t, hd5xxx, func(c *ir.Cursor) ir.Value {
		return c.Emit(ir.OpcodeScalarToVector, ir.TypeV4I32, c.Argument(ir.TypeI32, 0))
	})
	require.True(t, opcodes(lowered)[ir.OpcodeILVbuild])
	require.Equal(t, uint64(5), eval(t, lowered, interpreter.I(5))[0])
}

func TestLowerConcatVectors(t *testing.T) {
	orig, lowered := loweredPair(t, hd5xxx, func(c *ir.Cursor) ir.Value {
		return c.Emit(ir.OpcodeConcatVectors, ir.TypeV4I32, c.Argument(ir.TypeV2I32, 0), c.Argument(ir.TypeV2I32, 1))
	})
	require.True(t, opcodes(lowered)[ir.OpcodeILVconcat])
	x, y := interpreter.I(1, 2), interpreter.I(3, 4)
	require.Equal(t, eval(t, orig, x, y), eval(t, lowered, x, y))
}
