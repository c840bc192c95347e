package amdil

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/radeon-go/amdil/api"
	"github.com/radeon-go/amdil/internal/interpreter"
	"github.com/radeon-go/amdil/ir"
)

func convert(op ir.Opcode, from, to ir.Type) func(c *ir.Cursor) ir.Value {
	return func(c *ir.Cursor) ir.Value {
		return c.Unary(op, to, c.Argument(from, 0))
	}
}

func TestLowerUIToFP(t *testing.T) {
	for _, device := range testDevices {
		device := device
		t.Run(device.String(), func(t *testing.T) {
			orig, lowered := loweredPair(t, device, convert(ir.OpcodeUIToFP, ir.TypeI32, ir.TypeF64))
			for _, x := range []uint64{0, 1, 12345, 0x7fffffff, 0x80000000, 0xffffffff} {
				exp := interpreter.F64(float64(x))
				require.Equal(t, exp, eval(t, orig, interpreter.I(x)))
				require.Equal(t, exp, eval(t, lowered, interpreter.I(x)), fmt.Sprintf("u32 %#x", x))
			}

			orig, lowered = loweredPair(t, device, convert(ir.OpcodeUIToFP, ir.TypeI64, ir.TypeF64))
			for _, x := range []uint64{
				0, 1, 0xffffffff, 1 << 52, 1<<52 + 1,
				1<<53 + 1, // Ties to even, down.
				1<<53 + 3, // Ties to even, up.
				0x123456789abcdef0, 1 << 63, math.MaxUint64,
			} {
				exp := interpreter.F64(float64(x))
				require.Equal(t, exp, eval(t, orig, interpreter.I(x)))
				require.Equal(t, exp, eval(t, lowered, interpreter.I(x)), fmt.Sprintf("u64 %#x", x))
			}

			orig, lowered = loweredPair(t, device, convert(ir.OpcodeUIToFP, ir.TypeV2I32, ir.TypeV2F64))
			x := interpreter.I(7, 0xfffffffe)
			require.Equal(t, eval(t, orig, x), eval(t, lowered, x))
		})
	}
}

func TestLowerUIToFP_passThrough(t *testing.T) {
	// Single precision results are legal on every device.
	_, lowered := loweredPair(t, hd4xxx, convert(ir.OpcodeUIToFP, ir.TypeI32, ir.TypeF32))
	require.True(t, opcodes(lowered)[ir.OpcodeUIToFP])
	// So is the 32-bit double conversion once the hardware has it.
	_, lowered = loweredPair(t, hd7xxx, convert(ir.OpcodeUIToFP, ir.TypeI32, ir.TypeF64))
	require.True(t, opcodes(lowered)[ir.OpcodeUIToFP])
}

func TestLowerFPToInt(t *testing.T) {
	for _, tc := range []struct {
		op   ir.Opcode
		to   ir.Type
		vals []float64
		// saturating are out of range values, only checked on the manual tier.
		saturating []float64
	}{
		{
			op:         ir.OpcodeFPToSI,
			to:         ir.TypeI32,
			vals:       []float64{0, math.Copysign(0, -1), 0.25, 1.5, -1.5, 123456.789, -2147483648, 2147483647.9},
			saturating: []float64{1e20, -1e20, 2147483648},
		},
		{
			op:         ir.OpcodeFPToUI,
			to:         ir.TypeI32,
			vals:       []float64{0, 0.75, 1.5, 3e9, 4294967295},
			saturating: []float64{4294967296, 1e20},
		},
		{
			op:         ir.OpcodeFPToSI,
			to:         ir.TypeI64,
			vals:       []float64{0, -1.5, 4503599627370497, 123456789012.5, -123456789012.5, 9.2e18, -9.2e18},
			saturating: []float64{1e19, -1e30},
		},
		{
			op:         ir.OpcodeFPToUI,
			to:         ir.TypeI64,
			vals:       []float64{0, 1.5, 4294967296, 1 << 63, 1.8e19},
			saturating: []float64{2e19},
		},
		{
			op:   ir.OpcodeFPToSI,
			to:   ir.TypeI16,
			vals: []float64{0, -3.7, 32767, -32768},
		},
		{
			op:   ir.OpcodeFPToUI,
			to:   ir.TypeI8,
			vals: []float64{0, 3.7, 255},
		},
	} {
		tc := tc
		for _, device := range testDevices {
			device := device
			t.Run(fmt.Sprintf("%s %s %s", tc.op, tc.to, device), func(t *testing.T) {
				orig, lowered := loweredPair(t, device, convert(tc.op, ir.TypeF64, tc.to))
				vals := tc.vals
				if device.Tiers().DoubleToInt == api.DoubleToIntTierManual {
					vals = append(vals, tc.saturating...)
				}
				for _, v := range vals {
					x := interpreter.F64(v)
					require.Equal(t, eval(t, orig, x), eval(t, lowered, x), fmt.Sprintf("%v", v))
				}
			})
		}
	}
}

func TestLowerFPToUI_vector(t *testing.T) {
	for _, device := range testDevices {
		device := device
		t.Run(device.String(), func(t *testing.T) {
			orig, lowered := loweredPair(t, device, convert(ir.OpcodeFPToUI, ir.TypeV2F64, ir.TypeV2I32))
			x := interpreter.F64(3.5, 4e9)
			require.Equal(t, interpreter.I(3, 4000000000), eval(t, orig, x))
			require.Equal(t, interpreter.I(3, 4000000000), eval(t, lowered, x))
			require.False(t, opcodes(lowered)[ir.OpcodeExtractVectorElt])
		})
	}
}

func TestLowerFPRound(t *testing.T) {
	orig, lowered := loweredPair(t, hd5xxx, convert(ir.OpcodeFPRound, ir.TypeF64, ir.TypeF32))
	require.True(t, opcodes(lowered)[ir.OpcodeILDpToFp])
	for _, v := range []float64{0, 1.0 / 3, -1e30, 1e300} {
		x := interpreter.F64(v)
		require.Equal(t, eval(t, orig, x), eval(t, lowered, x))
	}
}
