package amdil

import (
	"fmt"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/radeon-go/amdil/internal/interpreter"
	"github.com/radeon-go/amdil/ir"
)

func TestLowerCtlz(t *testing.T) {
	clz := func(typ ir.Type) func(c *ir.Cursor) ir.Value {
		return func(c *ir.Cursor) ir.Value {
			return c.Unary(ir.OpcodeCtlz, typ, c.Argument(typ, 0))
		}
	}
	for _, device := range testDevices {
		device := device
		t.Run(device.String(), func(t *testing.T) {
			orig, lowered := loweredPair(t, device, clz(ir.TypeI32))
			require.False(t, opcodes(lowered)[ir.OpcodeCtlz])
			for _, x := range []uint32{0, 1, 2, 0xffff, 0x10000, 0x12345678, 0x7fffffff, 0x80000000, 0xffffffff} {
				exp := interpreter.I(uint64(bits.LeadingZeros32(x)))
				require.Equal(t, exp, eval(t, orig, interpreter.I(uint64(x))))
				require.Equal(t, exp, eval(t, lowered, interpreter.I(uint64(x))), fmt.Sprintf("clz32(%#x)", x))
			}

			orig, lowered = loweredPair(t, device, clz(ir.TypeI64))
			require.False(t, opcodes(lowered)[ir.OpcodeCtlz])
			for _, x := range []uint64{
				0, 1, 0x7fffff, 0x800000, 0xffffffff, 1 << 32, 1 << 45, 1 << 46, 0x3ffff << 46, 1 << 63,
				0xffffffffffffffff, 0x0000123400005678,
			} {
				exp := interpreter.I(uint64(bits.LeadingZeros64(x)))
				require.Equal(t, exp, eval(t, orig, interpreter.I(x)))
				require.Equal(t, exp, eval(t, lowered, interpreter.I(x)), fmt.Sprintf("clz64(%#x)", x))
			}
		})
	}
}

func TestClzField(t *testing.T) {
	g := ir.NewGraph("f")
	c := ir.NewCursor(g)
	g.AddOutput(clzField(c, c.Argument(ir.TypeV4I32, 0), 16))
	out, err := interpreter.New(g, interpreter.I(0, 1, 0x8000, 0x00ff)).Run()
	require.NoError(t, err)
	require.Equal(t, interpreter.I(16, 15, 0, 8), out[0])
}
