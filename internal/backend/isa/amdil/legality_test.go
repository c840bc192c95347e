package amdil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/radeon-go/amdil/api"
	"github.com/radeon-go/amdil/internal/backend"
	"github.com/radeon-go/amdil/ir"
)

func TestFormatLegalizeTable(t *testing.T) {
	table := NewMachine(hd5xxx).LegalizeTable()
	require.Equal(t, "ctlz: i8=expand i16=expand i32=custom i64=custom\n", FormatLegalizeTable(table, ir.OpcodeCtlz))
	require.Equal(t, "", FormatLegalizeTable(table, ir.OpcodeAnd))
	require.Contains(t, FormatLegalizeTable(table), "dynamic_stackalloc: i32=custom\n")
}

func TestLegalizeTable_actions(t *testing.T) {
	for _, tc := range []struct {
		device api.Device
		op     ir.Opcode
		typ    ir.Type
		exp    backend.Action
	}{
		{device: hd5xxx, op: ir.OpcodeSDiv, typ: ir.TypeI32, exp: backend.ActionCustom},
		{device: hd5xxx, op: ir.OpcodeSDiv, typ: ir.TypeI64, exp: backend.ActionLegal},
		{device: hd5xxx, op: ir.OpcodeUDiv, typ: ir.TypeI16, exp: backend.ActionCustom},
		{device: hd5xxx, op: ir.OpcodeUDiv, typ: ir.TypeV4I8, exp: backend.ActionExpand},
		{device: hd5xxx, op: ir.OpcodeURem, typ: ir.TypeV4I32, exp: backend.ActionCustom},
		{device: hd5xxx, op: ir.OpcodeURem, typ: ir.TypeI64, exp: backend.ActionExpand},
		{device: hd5xxx, op: ir.OpcodeFDiv, typ: ir.TypeV4F32, exp: backend.ActionCustom},
		{device: hd5xxx, op: ir.OpcodeFDiv, typ: ir.TypeF64, exp: backend.ActionLegal},
		{device: hd5xxx, op: ir.OpcodeFDiv, typ: ir.TypeV2F64, exp: backend.ActionExpand},
		{device: hd5xxx, op: ir.OpcodeSetCC, typ: ir.TypeV4I32, exp: backend.ActionExpand},
		{device: hd5xxx, op: ir.OpcodeFPToSI, typ: ir.TypeI16, exp: backend.ActionCustom},
		{device: hd5xxx, op: ir.OpcodeBuildVector, typ: ir.TypeV2F64, exp: backend.ActionCustom},
		{device: hd5xxx, op: ir.OpcodeVectorShuffle, typ: ir.TypeV4F32, exp: backend.ActionExpand},
		{device: hd5xxx, op: ir.OpcodeDynamicStackAlloc, typ: ir.TypeI32, exp: backend.ActionCustom},
		{device: hd5xxx, op: ir.OpcodeSignExtendInReg, typ: ir.TypeOther, exp: backend.ActionExpand},
		{device: hd5xxx, op: ir.OpcodeMul, typ: ir.TypeI64, exp: backend.ActionLegal},
		{device: hd5xxxBias, op: ir.OpcodeMul, typ: ir.TypeI64, exp: backend.ActionCustom},
		{device: hd4xxx, op: ir.OpcodeAdd, typ: ir.TypeI64, exp: backend.ActionCustom},
		{device: hd4xxx, op: ir.OpcodeAdd, typ: ir.TypeI32, exp: backend.ActionLegal},
	} {
		actual := NewMachine(tc.device).LegalizeTable().Action(tc.op, tc.typ)
		require.Equal(t, tc.exp, actual, "%s %s on %s", tc.op, tc.typ, tc.device)
	}
}

func TestLegalizeTable_features(t *testing.T) {
	device := hd5xxx
	device.Features = api.FeaturesAll.SetEnabled(api.FeatureByteOps|api.FeatureLongOps, false)
	table := NewMachine(device).LegalizeTable()

	types := RegisterTypes(table)
	require.NotContains(t, types, ir.TypeI8)
	require.NotContains(t, types, ir.TypeV4I8)
	require.NotContains(t, types, ir.TypeI64)
	require.Contains(t, types, ir.TypeI16)
	require.Contains(t, types, ir.TypeV2F64)

	require.Equal(t, backend.ActionExpand, table.Action(ir.OpcodeSDiv, ir.TypeI8))
	require.Equal(t, backend.ActionExpand, table.Action(ir.OpcodeAdd, ir.TypeI64))
	require.Equal(t, backend.ActionCustom, table.Action(ir.OpcodeSDiv, ir.TypeI16))
	require.Equal(t, "ctlz: i16=expand i32=custom\n", FormatLegalizeTable(table, ir.OpcodeCtlz))
}
