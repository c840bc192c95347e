package amdil

import (
	"fmt"
	"strings"

	"github.com/radeon-go/amdil/api"
	"github.com/radeon-go/amdil/internal/amdilapi"
	"github.com/radeon-go/amdil/internal/backend"
	"github.com/radeon-go/amdil/ir"
)

var (
	allTypes = []ir.Type{
		ir.TypeI8, ir.TypeI16, ir.TypeI32, ir.TypeF32, ir.TypeF64, ir.TypeI64,
		ir.TypeV2I8, ir.TypeV4I8, ir.TypeV2I16, ir.TypeV4I16, ir.TypeV4F32, ir.TypeV4I32,
		ir.TypeV2F32, ir.TypeV2I32, ir.TypeV2F64, ir.TypeV2I64,
	}
	intTypes    = []ir.Type{ir.TypeI8, ir.TypeI16, ir.TypeI32, ir.TypeI64}
	floatTypes  = []ir.Type{ir.TypeF32, ir.TypeF64}
	vectorTypes = []ir.Type{
		ir.TypeV2I8, ir.TypeV4I8, ir.TypeV2I16, ir.TypeV4I16, ir.TypeV4F32, ir.TypeV4I32,
		ir.TypeV2F32, ir.TypeV2I32, ir.TypeV2F64, ir.TypeV2I64,
	}
	// remTypes are the types the remainder routines handle. 64-bit remainders are left to the CAL compiler.
	remTypes = []ir.Type{
		ir.TypeI8, ir.TypeI16, ir.TypeI32,
		ir.TypeV2I8, ir.TypeV4I8, ir.TypeV2I16, ir.TypeV4I16, ir.TypeV2I32, ir.TypeV4I32,
	}
)

func newLegalizeTable(device api.Device, tiers api.Tiers) *backend.LegalizeTable {
	t := backend.NewLegalizeTable()
	features := device.Features

	t.AddRegisterType(ir.TypeI32)
	t.AddRegisterType(ir.TypeF32)
	if features.IsEnabled(api.FeatureDoubleOps) {
		t.AddRegisterType(ir.TypeF64)
		t.AddRegisterType(ir.TypeV2F64)
	}
	if features.IsEnabled(api.FeatureByteOps) {
		t.AddRegisterType(ir.TypeI8)
		t.AddRegisterType(ir.TypeV2I8)
		t.AddRegisterType(ir.TypeV4I8)
	}
	if features.IsEnabled(api.FeatureShortOps) {
		t.AddRegisterType(ir.TypeI16)
		t.AddRegisterType(ir.TypeV2I16)
		t.AddRegisterType(ir.TypeV4I16)
	}
	t.AddRegisterType(ir.TypeV2F32)
	t.AddRegisterType(ir.TypeV4F32)
	t.AddRegisterType(ir.TypeV2I32)
	t.AddRegisterType(ir.TypeV4I32)
	if features.IsEnabled(api.FeatureLongOps) {
		t.AddRegisterType(ir.TypeI64)
		t.AddRegisterType(ir.TypeV2I64)
	}

	for _, typ := range allTypes {
		for _, op := range []ir.Opcode{
			ir.OpcodeSignExtendInReg, ir.OpcodeExtractSubvector, ir.OpcodeSetCC, ir.OpcodeBrCond, ir.OpcodeBrCC,
			ir.OpcodeUIToFP, ir.OpcodeFPToUI, ir.OpcodeGlobalAddress, ir.OpcodeJumpTable, ir.OpcodeConstantPool,
			ir.OpcodeExternalSymbol, ir.OpcodeSelectCC, ir.OpcodeSelect, ir.OpcodeInsertVectorElt,
			ir.OpcodeExtractVectorElt,
		} {
			t.Set(op, typ, backend.ActionCustom)
		}
		for _, op := range []ir.Opcode{
			ir.OpcodeFPRound, ir.OpcodeBrInd, ir.OpcodeURem, ir.OpcodeSRem, ir.OpcodeSMulLoHi, ir.OpcodeUMulLoHi,
		} {
			t.Set(op, typ, backend.ActionExpand)
		}
		if typ.Elem() != ir.TypeI64 {
			t.Set(ir.OpcodeSDiv, typ, backend.ActionCustom)
		}
	}

	for _, typ := range floatTypes {
		t.Set(ir.OpcodeFPRound, typ, backend.ActionCustom)
	}

	for _, typ := range intTypes {
		for _, op := range []ir.Opcode{
			ir.OpcodeSDivRem, ir.OpcodeUDivRem, ir.OpcodeFPRound, ir.OpcodeSMulLoHi, ir.OpcodeUMulLoHi,
			ir.OpcodeRotr, ir.OpcodeRotl, ir.OpcodeBswap, ir.OpcodeCtpop, ir.OpcodeCttz, ir.OpcodeCtlz,
		} {
			t.Set(op, typ, backend.ActionExpand)
		}
	}

	for _, typ := range vectorTypes {
		for _, op := range []ir.Opcode{
			ir.OpcodeBuildVector, ir.OpcodeExtractSubvector, ir.OpcodeScalarToVector, ir.OpcodeConcatVectors,
		} {
			t.Set(op, typ, backend.ActionCustom)
		}
		for _, op := range []ir.Opcode{
			ir.OpcodeVectorShuffle, ir.OpcodeFPRound, ir.OpcodeSDivRem, ir.OpcodeUDivRem, ir.OpcodeSMulLoHi,
			ir.OpcodeSetCC, ir.OpcodeSelectCC, ir.OpcodeSelect,
		} {
			t.Set(op, typ, backend.ActionExpand)
		}
	}

	t.Set(ir.OpcodeFPRound, ir.TypeOther, backend.ActionExpand)
	if features.IsEnabled(api.FeatureLongOps) {
		if tiers.Mul64 == api.Mul64TierEmulated {
			t.Set(ir.OpcodeMul, ir.TypeI64, backend.ActionCustom)
		}
		t.Set(ir.OpcodeSub, ir.TypeI64, backend.ActionCustom)
		t.Set(ir.OpcodeAdd, ir.TypeI64, backend.ActionCustom)
		t.SetAll(ir.OpcodeMulHU, []ir.Type{ir.TypeI64, ir.TypeV2I64}, backend.ActionExpand)
		t.SetAll(ir.OpcodeMulHS, []ir.Type{ir.TypeI64, ir.TypeV2I64}, backend.ActionExpand)
		for _, op := range []ir.Opcode{
			ir.OpcodeMul, ir.OpcodeSub, ir.OpcodeAdd, ir.OpcodeSRem, ir.OpcodeSDiv, ir.OpcodeUIToFP, ir.OpcodeFPToUI,
			ir.OpcodeTruncate, ir.OpcodeSignExtend, ir.OpcodeZeroExtend, ir.OpcodeAnyExtend,
		} {
			t.Set(op, ir.TypeV2I64, backend.ActionExpand)
		}
	}
	if features.IsEnabled(api.FeatureDoubleOps) {
		// Doubles can be loaded and stored as pairs, but every operation on them is split.
		for _, op := range []ir.Opcode{
			ir.OpcodeFAdd, ir.OpcodeFSub, ir.OpcodeFMul, ir.OpcodeFPRound, ir.OpcodeFPExtend, ir.OpcodeFDiv,
			ir.OpcodeUIToFP, ir.OpcodeFPToUI, ir.OpcodeTruncate, ir.OpcodeSignExtend, ir.OpcodeZeroExtend,
			ir.OpcodeAnyExtend, ir.OpcodeFAbs,
		} {
			t.Set(op, ir.TypeV2F64, backend.ActionExpand)
		}
		t.Set(ir.OpcodeFAbs, ir.TypeF64, backend.ActionExpand)
		t.SetAll(ir.OpcodeFPToSI, intTypes, backend.ActionCustom)
	}

	t.SetAll(ir.OpcodeUDiv, []ir.Type{ir.TypeV2I8, ir.TypeV4I8, ir.TypeV2I16, ir.TypeV4I16}, backend.ActionExpand)
	t.SetAll(ir.OpcodeUDiv, []ir.Type{ir.TypeI8, ir.TypeI16}, backend.ActionCustom)
	t.Set(ir.OpcodeSignExtendInReg, ir.TypeI1, backend.ActionCustom)
	t.Set(ir.OpcodeSignExtendInReg, ir.TypeOther, backend.ActionExpand)
	t.Set(ir.OpcodeBrInd, ir.TypeOther, backend.ActionExpand)
	t.Set(ir.OpcodeBrCond, ir.TypeOther, backend.ActionCustom)
	t.Set(ir.OpcodeBrCC, ir.TypeOther, backend.ActionCustom)
	t.Set(ir.OpcodeSetCC, ir.TypeOther, backend.ActionCustom)
	t.SetAll(ir.OpcodeFDiv, []ir.Type{ir.TypeF32, ir.TypeV2F32, ir.TypeV4F32}, backend.ActionCustom)
	t.Set(ir.OpcodeBuildVector, ir.TypeOther, backend.ActionCustom)
	t.Set(ir.OpcodeDynamicStackAlloc, ir.TypeI32, backend.ActionCustom)

	t.SetAll(ir.OpcodeSRem, remTypes, backend.ActionCustom)
	t.SetAll(ir.OpcodeURem, remTypes, backend.ActionCustom)
	t.SetAll(ir.OpcodeCtlz, []ir.Type{ir.TypeI32, ir.TypeI64}, backend.ActionCustom)

	if amdilapi.PrintLegalizeTable {
		fmt.Printf("[[[legalize table %s]]]\n%s", device, FormatLegalizeTable(t))
	}
	return t
}

// RegisterTypes returns the types that have a register class on the device of t.
func RegisterTypes(t *backend.LegalizeTable) []ir.Type {
	var ret []ir.Type
	for _, typ := range allTypes {
		if t.HasRegisterType(typ) {
			ret = append(ret, typ)
		}
	}
	return ret
}

// FormatLegalizeTable returns one line per opcode listing the registered types on which it is not legal, e.g.
// "sdiv: i8=custom i16=custom". Only the given opcodes are listed, or every target independent opcode if none is
// given.
func FormatLegalizeTable(t *backend.LegalizeTable, ops ...ir.Opcode) string {
	if len(ops) == 0 {
		for op := ir.OpcodeEntryToken; op < ir.OpcodeILCmp; op++ {
			ops = append(ops, op)
		}
	}
	types := append(RegisterTypes(t), ir.TypeOther)
	var sb strings.Builder
	for _, op := range ops {
		var entries []string
		for _, typ := range types {
			if a := t.Action(op, typ); a != backend.ActionLegal {
				entries = append(entries, fmt.Sprintf("%s=%s", typ, a))
			}
		}
		if len(entries) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%s: %s\n", op, strings.Join(entries, " "))
	}
	return sb.String()
}
