package amdil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/radeon-go/amdil/internal/interpreter"
	"github.com/radeon-go/amdil/ir"
)

func TestLowerDivRem(t *testing.T) {
	operands := map[ir.Type][]int64{
		ir.TypeI8:  {-128, -127, -7, -1, 0, 1, 2, 7, 100, 127},
		ir.TypeI16: {-32768, -1000, -7, -1, 0, 1, 3, 255, 32767},
		ir.TypeI32: {-2147483648, -7, -1, 0, 1, 2, 7, 1 << 30, 2147483647},
	}
	for _, op := range []ir.Opcode{ir.OpcodeSDiv, ir.OpcodeUDiv, ir.OpcodeSRem, ir.OpcodeURem} {
		for _, typ := range []ir.Type{ir.TypeI8, ir.TypeI16, ir.TypeI32} {
			op, typ := op, typ
			t.Run(fmt.Sprintf("%s %s", op, typ), func(t *testing.T) {
				orig, lowered := loweredPair(t, hd5xxx, binary(op, typ))
				if op != ir.OpcodeUDiv || typ != ir.TypeI32 {
					require.False(t, opcodes(lowered)[op], ir.Format(lowered))
				}
				mask := uint64(1)<<typ.Bits() - 1
				for _, a := range operands[typ] {
					for _, b := range operands[typ] {
						if b == 0 {
							continue
						}
						x, y := interpreter.I(uint64(a)&mask), interpreter.I(uint64(b)&mask)
						require.Equal(t, eval(t, orig, x, y), eval(t, lowered, x, y), fmt.Sprintf("%d, %d", a, b))
					}
				}
			})
		}
	}
}

func TestLowerSDiv_vector(t *testing.T) {
	orig, lowered := loweredPair(t, hd5xxx, binary(ir.OpcodeSDiv, ir.TypeV4I32))
	x, y := interpreter.I(7, 0xfffffff9, 100, 0xffffff9c), interpreter.I(2, 2, 0xfffffffd, 0xfffffffd)
	require.Equal(t, interpreter.I(3, 0xfffffffd, 0xffffffdf, 33), eval(t, orig, x, y))
	require.Equal(t, interpreter.I(3, 0xfffffffd, 0xffffffdf, 33), eval(t, lowered, x, y))
}

func TestLowerSDiv_i8(t *testing.T) {
	orig, lowered := loweredPair(t, hd4xxx, binary(ir.OpcodeSDiv, ir.TypeI8))
	x, y := interpreter.I(0xf9), interpreter.I(2)
	require.Equal(t, interpreter.I(0xfd), eval(t, orig, x, y))
	require.Equal(t, interpreter.I(0xfd), eval(t, lowered, x, y))
}

func TestLowerDiv_64BitLeftAlone(t *testing.T) {
	for _, op := range []ir.Opcode{ir.OpcodeSDiv, ir.OpcodeUDiv, ir.OpcodeSRem, ir.OpcodeURem} {
		_, lowered := loweredPair(t, hd5xxx, binary(op, ir.TypeI64))
		require.True(t, opcodes(lowered)[op], op.String())
	}
}
