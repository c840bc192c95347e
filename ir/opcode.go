package ir

import "fmt"

// Opcode represents an operation kind of a Node. Opcodes before OpcodeILCmp are target independent, the rest are
// AMDIL instructions produced by lowering.
type Opcode uint32

const (
	OpcodeInvalid Opcode = iota

	// OpcodeEntryToken is the initial chain of a graph: `v0:other = entry_token`.
	OpcodeEntryToken

	// OpcodeArgument is an input of the graph; Aux is the argument index.
	OpcodeArgument

	// OpcodeUndef is a value whose contents are unspecified.
	OpcodeUndef

	// OpcodeConstant is an integer constant; Aux holds the bits, replicated to every lane of a vector.
	OpcodeConstant

	// OpcodeConstantFP is a float constant; Aux holds the IEEE-754 bits of one lane.
	OpcodeConstantFP

	// OpcodeRegister names a physical register; Aux is the register number.
	OpcodeRegister

	// OpcodeBasicBlock names a branch target; Aux is the block number.
	OpcodeBasicBlock

	// OpcodeFrameIndex is the address of a fixed stack object; Aux is its byte offset.
	OpcodeFrameIndex

	// OpcodeGlobalAddress is the address of Graph.Globals[Aux].
	OpcodeGlobalAddress

	// OpcodeJumpTable is the address of jump table Aux.
	OpcodeJumpTable

	// OpcodeConstantPool is the address of constant pool entry Aux.
	OpcodeConstantPool

	// OpcodeExternalSymbol is the address of Graph.Symbols[Aux].
	OpcodeExternalSymbol

	// OpcodeTargetGlobalAddress is OpcodeGlobalAddress once it must not be legalized any further.
	OpcodeTargetGlobalAddress

	// OpcodeTargetJumpTable is the target form of OpcodeJumpTable.
	OpcodeTargetJumpTable

	// OpcodeTargetConstantPool is the target form of OpcodeConstantPool.
	OpcodeTargetConstantPool

	// OpcodeTargetExternalSymbol is the target form of OpcodeExternalSymbol.
	OpcodeTargetExternalSymbol

	// OpcodeCopyFromReg reads a register: `value, chain, glue = copy_from_reg chain, reg [, glue]`.
	OpcodeCopyFromReg

	// OpcodeCopyToReg writes a register: `chain, glue = copy_to_reg chain, reg, value [, glue]`.
	OpcodeCopyToReg

	// OpcodeLoad reads memory: `value, chain = load chain, ptr`.
	OpcodeLoad

	// OpcodeStore writes memory: `chain = store chain, value, ptr`.
	OpcodeStore

	// OpcodeTokenFactor joins chains: `chain = token_factor chain...`.
	OpcodeTokenFactor

	// OpcodeCallSeqStart opens a call sequence: `chain, glue = callseq_start chain, bytes`.
	OpcodeCallSeqStart

	// OpcodeCallSeqEnd closes a call sequence: `chain, glue = callseq_end chain, bytes, popped, glue`.
	OpcodeCallSeqEnd

	// OpcodeMergeValues groups its operands into one node with one result per operand.
	OpcodeMergeValues

	// OpcodeAssertSext asserts that x is the sign extension of a value of type Aux.
	OpcodeAssertSext

	// OpcodeAssertZext asserts that x is the zero extension of a value of type Aux.
	OpcodeAssertZext

	// OpcodeAdd is an integer addition: `v = add x, y`.
	OpcodeAdd

	// OpcodeSub is an integer subtraction: `v = sub x, y`.
	OpcodeSub

	// OpcodeMul is an integer multiplication: `v = mul x, y`.
	OpcodeMul

	// OpcodeMulHU is the high half of an unsigned multiplication.
	OpcodeMulHU

	// OpcodeMulHS is the high half of a signed multiplication.
	OpcodeMulHS

	// OpcodeSDiv is a signed division truncating toward zero.
	OpcodeSDiv

	// OpcodeUDiv is an unsigned division.
	OpcodeUDiv

	// OpcodeSRem is the remainder of OpcodeSDiv, with the sign of the dividend.
	OpcodeSRem

	// OpcodeURem is the remainder of OpcodeUDiv.
	OpcodeURem

	// OpcodeSDivRem computes both signed quotient and remainder.
	OpcodeSDivRem

	// OpcodeUDivRem computes both unsigned quotient and remainder.
	OpcodeUDivRem

	// OpcodeSMulLoHi computes both halves of a signed multiplication.
	OpcodeSMulLoHi

	// OpcodeUMulLoHi computes both halves of an unsigned multiplication.
	OpcodeUMulLoHi

	// OpcodeAnd is a bitwise and.
	OpcodeAnd

	// OpcodeOr is a bitwise or.
	OpcodeOr

	// OpcodeXor is a bitwise xor.
	OpcodeXor

	// OpcodeShl shifts left; the amount is taken modulo the lane width.
	OpcodeShl

	// OpcodeSrl shifts right logically; the amount is taken modulo the lane width.
	OpcodeSrl

	// OpcodeSra shifts right arithmetically; the amount is taken modulo the lane width.
	OpcodeSra

	// OpcodeRotl rotates left.
	OpcodeRotl

	// OpcodeRotr rotates right.
	OpcodeRotr

	// OpcodeBswap reverses the bytes of each lane.
	OpcodeBswap

	// OpcodeCtlz counts leading zero bits.
	OpcodeCtlz

	// OpcodeCttz counts trailing zero bits.
	OpcodeCttz

	// OpcodeCtpop counts set bits.
	OpcodeCtpop

	// OpcodeFAdd is a float addition.
	OpcodeFAdd

	// OpcodeFSub is a float subtraction.
	OpcodeFSub

	// OpcodeFMul is a float multiplication.
	OpcodeFMul

	// OpcodeFDiv is a float division.
	OpcodeFDiv

	// OpcodeFNeg negates a float.
	OpcodeFNeg

	// OpcodeFAbs clears the sign of a float.
	OpcodeFAbs

	// OpcodeFTrunc rounds a float toward zero.
	OpcodeFTrunc

	// OpcodeSignExtend sign extends an integer to a wider type.
	OpcodeSignExtend

	// OpcodeZeroExtend zero extends an integer to a wider type.
	OpcodeZeroExtend

	// OpcodeAnyExtend extends an integer leaving the new high bits unspecified.
	OpcodeAnyExtend

	// OpcodeTruncate drops the high bits of an integer.
	OpcodeTruncate

	// OpcodeSignExtendInReg sign extends the low bits of type Aux within x's own type.
	OpcodeSignExtendInReg

	// OpcodeFPToSI converts a float to a signed integer, truncating toward zero.
	OpcodeFPToSI

	// OpcodeFPToUI converts a float to an unsigned integer, truncating toward zero.
	OpcodeFPToUI

	// OpcodeSIToFP converts a signed integer to a float.
	OpcodeSIToFP

	// OpcodeUIToFP converts an unsigned integer to a float.
	OpcodeUIToFP

	// OpcodeFPRound converts a float to a narrower float.
	OpcodeFPRound

	// OpcodeFPExtend converts a float to a wider float.
	OpcodeFPExtend

	// OpcodeBitcast reinterprets the bits of x as another type of the same width.
	OpcodeBitcast

	// OpcodeSetCC compares x and y with the CondCode in Aux: `v = setcc x, y`. True is 1.
	OpcodeSetCC

	// OpcodeSelect chooses between t and f: `v = select c, t, f`.
	OpcodeSelect

	// OpcodeSelectCC compares and selects: `v = select_cc x, y, t, f` with the CondCode in Aux.
	OpcodeSelectCC

	// OpcodeBr branches unconditionally: `chain = br chain, block`.
	OpcodeBr

	// OpcodeBrCond branches on a condition: `chain = brcond chain, c, block`.
	OpcodeBrCond

	// OpcodeBrCC compares and branches: `chain = br_cc chain, x, y, block` with the CondCode in Aux.
	OpcodeBrCC

	// OpcodeBrInd branches to an address.
	OpcodeBrInd

	// OpcodeDynamicStackAlloc grows the stack: `ptr, chain = dynamic_stackalloc chain, size, align`.
	OpcodeDynamicStackAlloc

	// OpcodeBuildVector builds a vector from one scalar per lane.
	OpcodeBuildVector

	// OpcodeInsertVectorElt replaces one lane: `v = insert_vector_elt vec, x, index`.
	OpcodeInsertVectorElt

	// OpcodeExtractVectorElt reads one lane: `v = extract_vector_elt vec, index`.
	OpcodeExtractVectorElt

	// OpcodeExtractSubvector reads consecutive lanes: `v = extract_subvector vec, index`.
	OpcodeExtractSubvector

	// OpcodeScalarToVector places a scalar in lane 0 of a vector.
	OpcodeScalarToVector

	// OpcodeConcatVectors concatenates two vectors.
	OpcodeConcatVectors

	// OpcodeVectorShuffle permutes the lanes of two vectors.
	OpcodeVectorShuffle

	// OpcodeILCmp compares x and y with the ILCond in Aux: `v = amdil.cmp x, y`. True is all ones.
	OpcodeILCmp

	// OpcodeILCmovLogical selects per lane: `v = amdil.cmovlog c, t, f` picks t where c is non zero.
	OpcodeILCmovLogical

	// OpcodeILInegate negates an integer.
	OpcodeILInegate

	// OpcodeILMad is a float multiply-add: `v = amdil.mad a, b, c` computes a*b+c.
	OpcodeILMad

	// OpcodeILUmul is the low 32 bits of an unsigned multiplication.
	OpcodeILUmul

	// OpcodeILDivInf is a float division producing infinity on a zero divisor.
	OpcodeILDivInf

	// OpcodeILIffbHi is the number of leading zeros, or -1 for a zero input.
	OpcodeILIffbHi

	// OpcodeILDpToFp converts a double to a float.
	OpcodeILDpToFp

	// OpcodeILMove copies a value to a new register.
	OpcodeILMove

	// OpcodeILVbuild broadcasts a scalar to every lane.
	OpcodeILVbuild

	// OpcodeILVextract reads the lane selected by the 1-based swizzle in Aux.
	OpcodeILVextract

	// OpcodeILVinsert replaces lanes: `v = amdil.vinsert vec, x, mask2, mask3`. Byte i of mask3 set means lane i
	// takes x; otherwise lane i takes lane (byte i of mask2)-1 of vec.
	OpcodeILVinsert

	// OpcodeILVconcat concatenates two vectors.
	OpcodeILVconcat

	// OpcodeILLcreate builds a 64-bit integer: `v = amdil.lcreate lo, hi`.
	OpcodeILLcreate

	// OpcodeILLcompHi extracts the high 32 bits of a 64-bit integer.
	OpcodeILLcompHi

	// OpcodeILLcompLo extracts the low 32 bits of a 64-bit integer.
	OpcodeILLcompLo

	// OpcodeILDcreate builds a double from its halves: `v = amdil.dcreate lo, hi`.
	OpcodeILDcreate

	// OpcodeILDcompHi extracts the high 32 bits of a double.
	OpcodeILDcompHi

	// OpcodeILDcompLo extracts the low 32 bits of a double.
	OpcodeILDcompLo

	// OpcodeILCall calls a function: `chain, glue = amdil.call chain, callee, reg... [, glue]`.
	OpcodeILCall

	// OpcodeILRetFlag returns from the function: `chain = amdil.ret_flag chain, bytes [, glue]`.
	OpcodeILRetFlag

	// OpcodeILBranchCond branches when c is non zero: `chain = amdil.branch_cond chain, block, c`.
	OpcodeILBranchCond

	// OpcodeILCmov selects with a boolean in bit 0 of c: `v = amdil.cmov c, t, f`.
	OpcodeILCmov

	// OpcodeILUmad is an unsigned 32-bit multiply-add: `v = amdil.umad a, b, c`.
	OpcodeILUmad

	// OpcodeILIffbLo is the number of trailing zeros, or -1 for a zero input.
	OpcodeILIffbLo

	// OpcodeILSmax is the signed maximum of x and y.
	OpcodeILSmax

	// OpcodeILFpToDp converts a float to a double.
	OpcodeILFpToDp

	// OpcodeILAddAddr adds an offset to an address: `v = amdil.addaddr base, offset`.
	OpcodeILAddAddr

	opcodeEnd
)

var opcodeNames = [opcodeEnd]string{
	OpcodeInvalid:              "invalid",
	OpcodeEntryToken:           "entry_token",
	OpcodeArgument:             "argument",
	OpcodeUndef:                "undef",
	OpcodeConstant:             "constant",
	OpcodeConstantFP:           "constant_fp",
	OpcodeRegister:             "register",
	OpcodeBasicBlock:           "basic_block",
	OpcodeFrameIndex:           "frame_index",
	OpcodeGlobalAddress:        "global_address",
	OpcodeJumpTable:            "jump_table",
	OpcodeConstantPool:         "constant_pool",
	OpcodeExternalSymbol:       "external_symbol",
	OpcodeTargetGlobalAddress:  "target_global_address",
	OpcodeTargetJumpTable:      "target_jump_table",
	OpcodeTargetConstantPool:   "target_constant_pool",
	OpcodeTargetExternalSymbol: "target_external_symbol",
	OpcodeCopyFromReg:          "copy_from_reg",
	OpcodeCopyToReg:            "copy_to_reg",
	OpcodeLoad:                 "load",
	OpcodeStore:                "store",
	OpcodeTokenFactor:          "token_factor",
	OpcodeCallSeqStart:         "callseq_start",
	OpcodeCallSeqEnd:           "callseq_end",
	OpcodeMergeValues:          "merge_values",
	OpcodeAssertSext:           "assert_sext",
	OpcodeAssertZext:           "assert_zext",
	OpcodeAdd:                  "add",
	OpcodeSub:                  "sub",
	OpcodeMul:                  "mul",
	OpcodeMulHU:                "mulhu",
	OpcodeMulHS:                "mulhs",
	OpcodeSDiv:                 "sdiv",
	OpcodeUDiv:                 "udiv",
	OpcodeSRem:                 "srem",
	OpcodeURem:                 "urem",
	OpcodeSDivRem:              "sdivrem",
	OpcodeUDivRem:              "udivrem",
	OpcodeSMulLoHi:             "smul_lohi",
	OpcodeUMulLoHi:             "umul_lohi",
	OpcodeAnd:                  "and",
	OpcodeOr:                   "or",
	OpcodeXor:                  "xor",
	OpcodeShl:                  "shl",
	OpcodeSrl:                  "srl",
	OpcodeSra:                  "sra",
	OpcodeRotl:                 "rotl",
	OpcodeRotr:                 "rotr",
	OpcodeBswap:                "bswap",
	OpcodeCtlz:                 "ctlz",
	OpcodeCttz:                 "cttz",
	OpcodeCtpop:                "ctpop",
	OpcodeFAdd:                 "fadd",
	OpcodeFSub:                 "fsub",
	OpcodeFMul:                 "fmul",
	OpcodeFDiv:                 "fdiv",
	OpcodeFNeg:                 "fneg",
	OpcodeFAbs:                 "fabs",
	OpcodeFTrunc:               "ftrunc",
	OpcodeSignExtend:           "sign_extend",
	OpcodeZeroExtend:           "zero_extend",
	OpcodeAnyExtend:            "any_extend",
	OpcodeTruncate:             "truncate",
	OpcodeSignExtendInReg:      "sign_extend_inreg",
	OpcodeFPToSI:               "fp_to_sint",
	OpcodeFPToUI:               "fp_to_uint",
	OpcodeSIToFP:               "sint_to_fp",
	OpcodeUIToFP:               "uint_to_fp",
	OpcodeFPRound:              "fp_round",
	OpcodeFPExtend:             "fp_extend",
	OpcodeBitcast:              "bitcast",
	OpcodeSetCC:                "setcc",
	OpcodeSelect:               "select",
	OpcodeSelectCC:             "select_cc",
	OpcodeBr:                   "br",
	OpcodeBrCond:               "brcond",
	OpcodeBrCC:                 "br_cc",
	OpcodeBrInd:                "brind",
	OpcodeDynamicStackAlloc:    "dynamic_stackalloc",
	OpcodeBuildVector:          "build_vector",
	OpcodeInsertVectorElt:      "insert_vector_elt",
	OpcodeExtractVectorElt:     "extract_vector_elt",
	OpcodeExtractSubvector:     "extract_subvector",
	OpcodeScalarToVector:       "scalar_to_vector",
	OpcodeConcatVectors:        "concat_vectors",
	OpcodeVectorShuffle:        "vector_shuffle",
	OpcodeILCmp:                "amdil.cmp",
	OpcodeILCmovLogical:        "amdil.cmovlog",
	OpcodeILInegate:            "amdil.inegate",
	OpcodeILMad:                "amdil.mad",
	OpcodeILUmul:               "amdil.umul",
	OpcodeILDivInf:             "amdil.div_inf",
	OpcodeILIffbHi:             "amdil.iffb_hi",
	OpcodeILDpToFp:             "amdil.dp_to_fp",
	OpcodeILMove:               "amdil.move",
	OpcodeILVbuild:             "amdil.vbuild",
	OpcodeILVextract:           "amdil.vextract",
	OpcodeILVinsert:            "amdil.vinsert",
	OpcodeILVconcat:            "amdil.vconcat",
	OpcodeILLcreate:            "amdil.lcreate",
	OpcodeILLcompHi:            "amdil.lcomphi",
	OpcodeILLcompLo:            "amdil.lcomplo",
	OpcodeILDcreate:            "amdil.dcreate",
	OpcodeILDcompHi:            "amdil.dcomphi",
	OpcodeILDcompLo:            "amdil.dcomplo",
	OpcodeILCall:               "amdil.call",
	OpcodeILRetFlag:            "amdil.ret_flag",
	OpcodeILBranchCond:         "amdil.branch_cond",
	OpcodeILCmov:               "amdil.cmov",
	OpcodeILUmad:               "amdil.umad",
	OpcodeILIffbLo:             "amdil.iffb_lo",
	OpcodeILSmax:               "amdil.smax",
	OpcodeILFpToDp:             "amdil.fp_to_dp",
	OpcodeILAddAddr:            "amdil.addaddr",
}

// String implements fmt.Stringer.
func (o Opcode) String() string {
	if o >= opcodeEnd {
		return fmt.Sprintf("opcode(%d)", uint32(o))
	}
	return opcodeNames[o]
}

// IsTarget returns true if this is an AMDIL instruction rather than a target independent operation.
func (o Opcode) IsTarget() bool {
	return o >= OpcodeILCmp && o < opcodeEnd
}

// ParseOpcode returns the Opcode named s, as printed by Opcode.String.
func ParseOpcode(s string) (Opcode, error) {
	for o := OpcodeEntryToken; o < opcodeEnd; o++ {
		if opcodeNames[o] == s {
			return o, nil
		}
	}
	return OpcodeInvalid, fmt.Errorf("unknown opcode %q", s)
}

// OpcodeCount returns the number of opcodes, including OpcodeInvalid.
func OpcodeCount() int {
	return int(opcodeEnd)
}

// auxKind describes how Format prints the Aux payload of an opcode.
type auxKind byte

const (
	auxNone auxKind = iota
	auxInt
	auxFloat
	auxCond
	auxILCond
	auxType
	auxLane
)

var opcodeAux = [opcodeEnd]auxKind{
	OpcodeArgument:             auxInt,
	OpcodeConstant:             auxInt,
	OpcodeConstantFP:           auxFloat,
	OpcodeRegister:             auxInt,
	OpcodeBasicBlock:           auxInt,
	OpcodeFrameIndex:           auxInt,
	OpcodeGlobalAddress:        auxInt,
	OpcodeJumpTable:            auxInt,
	OpcodeConstantPool:         auxInt,
	OpcodeExternalSymbol:       auxInt,
	OpcodeTargetGlobalAddress:  auxInt,
	OpcodeTargetJumpTable:      auxInt,
	OpcodeTargetConstantPool:   auxInt,
	OpcodeTargetExternalSymbol: auxInt,
	OpcodeAssertSext:           auxType,
	OpcodeAssertZext:           auxType,
	OpcodeSignExtendInReg:      auxType,
	OpcodeSetCC:                auxCond,
	OpcodeSelectCC:             auxCond,
	OpcodeBrCC:                 auxCond,
	OpcodeILCmp:                auxILCond,
	OpcodeILVextract:           auxLane,
}
