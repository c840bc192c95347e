package amdil

import (
	"fmt"

	"github.com/radeon-go/amdil/api"
	"github.com/radeon-go/amdil/ir"
)

// Each capability tier selects one emission routine through these tables. A missing entry is a tier the routine
// is never asked to handle.

type (
	unaryEmitter  func(m *Machine, c *ir.Cursor, x ir.Value) ir.Value
	convEmitter   func(m *Machine, c *ir.Cursor, x ir.Value, typ ir.Type) ir.Value
	signedEmitter func(m *Machine, c *ir.Cursor, x ir.Value, typ ir.Type, signed bool) ir.Value
	binaryEmitter func(m *Machine, c *ir.Cursor, x, y ir.Value) ir.Value
)

var (
	clz32Strategies = map[api.ClzTier]unaryEmitter{
		api.ClzTierEmulated: clz32Emulated,
		api.ClzTierNative:   clz32Native,
	}
	clz64Strategies = map[api.ClzTier]unaryEmitter{
		api.ClzTierEmulated: clz64Emulated,
		api.ClzTierNative:   clz64Native,
	}
	u32ToF64Strategies = map[api.IntToDoubleTier]convEmitter{
		api.IntToDoubleTierManual: u32ToF64Manual,
		api.IntToDoubleTierBias:   u32ToF64Bias,
	}
	u64ToF64Strategies = map[api.IntToDoubleTier]convEmitter{
		api.IntToDoubleTierManual: u64ToF64Manual,
		api.IntToDoubleTierBias:   u64ToF64Bias,
		api.IntToDoubleTierNative: u64ToF64Native,
	}
	f64ToI32Strategies = map[api.DoubleToIntTier]signedEmitter{
		api.DoubleToIntTierManual: f64ToI32Manual,
	}
	f64ToI64Strategies = map[api.DoubleToIntTier]signedEmitter{
		api.DoubleToIntTierManual: f64ToI64Manual,
		api.DoubleToIntTierNative: f64ToI64Native,
	}
	fdiv32Strategies = map[api.FDivTier]binaryEmitter{
		api.FDivTierIEEEEmulated: fdiv32IEEE,
		api.FDivTierScaled:       fdiv32Scaled,
	}
)

// strategy returns the routine of table for tier.
func strategy[T ~byte, F any](table map[T]F, tier T, what string) F {
	if f, ok := table[tier]; ok {
		return f
	}
	panic(fmt.Sprintf("BUG: no %s routine for tier %d", what, tier))
}
