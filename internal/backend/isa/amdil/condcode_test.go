package amdil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/radeon-go/amdil/ir"
)

func TestILCondOf(t *testing.T) {
	for _, tc := range []struct {
		cond ir.CondCode
		typ  ir.Type
		exp  ir.ILCond
	}{
		{cond: ir.CondEQ, typ: ir.TypeI32, exp: ir.ILCondIEQ},
		{cond: ir.CondLT, typ: ir.TypeI8, exp: ir.ILCondILT},
		{cond: ir.CondULT, typ: ir.TypeI16, exp: ir.ILCondULT},
		{cond: ir.CondUGE, typ: ir.TypeV4I32, exp: ir.ILCondUGE},
		{cond: ir.CondGT, typ: ir.TypeI64, exp: ir.ILCondLGT},
		{cond: ir.CondULE, typ: ir.TypeV2I64, exp: ir.ILCondULLE},
		{cond: ir.CondOLT, typ: ir.TypeF32, exp: ir.ILCondFOLT},
		{cond: ir.CondUNE, typ: ir.TypeV4F32, exp: ir.ILCondFUNE},
		{cond: ir.CondUO, typ: ir.TypeF64, exp: ir.ILCondDUO},
		{cond: ir.CondEQ, typ: ir.TypeF64, exp: ir.ILCondDEQ},
	} {
		require.Equal(t, tc.exp, ILCondOf(tc.cond, tc.typ), "%s on %s", tc.cond, tc.typ)
	}
}

func TestILCondOf_invalid(t *testing.T) {
	// Ordering predicates only exist for floats.
	require.Panics(t, func() { ILCondOf(ir.CondOLT, ir.TypeI32) })
	require.Panics(t, func() { ILCondOf(ir.CondUO, ir.TypeI64) })
	require.Panics(t, func() { ILCondOf(ir.CondTrue, ir.TypeI32) })
	require.Panics(t, func() { ILCondOf(ir.CondEQ, ir.TypeOther) })
}
