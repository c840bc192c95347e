package main

import (
	"fmt"
	"strings"

	"github.com/radeon-go/amdil"
	"github.com/radeon-go/amdil/internal/interpreter"
	"github.com/radeon-go/amdil/ir"
)

// kind is the shape of the function wrapping a single operation.
type kind byte

const (
	kindUnary kind = iota
	kindBinary
)

var (
	unaryOps = []ir.Opcode{
		ir.OpcodeUIToFP, ir.OpcodeSIToFP, ir.OpcodeFPToUI, ir.OpcodeFPToSI, ir.OpcodeFPRound, ir.OpcodeFPExtend,
		ir.OpcodeSignExtend, ir.OpcodeZeroExtend, ir.OpcodeTruncate, ir.OpcodeCtlz, ir.OpcodeFAbs, ir.OpcodeFNeg,
	}
	binaryOps = []ir.Opcode{
		ir.OpcodeAdd, ir.OpcodeSub, ir.OpcodeMul, ir.OpcodeMulHU, ir.OpcodeMulHS, ir.OpcodeSDiv, ir.OpcodeUDiv,
		ir.OpcodeSRem, ir.OpcodeURem, ir.OpcodeAnd, ir.OpcodeOr, ir.OpcodeXor, ir.OpcodeShl, ir.OpcodeSrl,
		ir.OpcodeSra, ir.OpcodeFAdd, ir.OpcodeFSub, ir.OpcodeFMul, ir.OpcodeFDiv,
	}
	// signedOps read their integer operands as signed.
	signedOps = []ir.Opcode{
		ir.OpcodeSIToFP, ir.OpcodeFPToSI, ir.OpcodeSignExtend, ir.OpcodeMulHS, ir.OpcodeSDiv, ir.OpcodeSRem,
		ir.OpcodeSra,
	}
)

func contains(ops []ir.Opcode, op ir.Opcode) bool {
	for _, o := range ops {
		if o == op {
			return true
		}
	}
	return false
}

func kindOf(op ir.Opcode) (kind, error) {
	switch {
	case contains(unaryOps, op):
		return kindUnary, nil
	case contains(binaryOps, op):
		return kindBinary, nil
	}
	return 0, fmt.Errorf("%s cannot be lowered on its own", op)
}

// functionBuilder wraps one operation in a function taking its operands in registers and returning its result
// in R1.
type functionBuilder struct {
	op                      ir.Opcode
	kind                    kind
	operandType, resultType ir.Type
	signed                  bool
}

func newFunctionBuilder(op ir.Opcode, k kind, operandType, resultType ir.Type) *functionBuilder {
	return &functionBuilder{
		op:          op,
		kind:        k,
		operandType: operandType,
		resultType:  resultType,
		signed:      contains(signedOps, op),
	}
}

func (fb *functionBuilder) params() []amdil.Param {
	n := 1
	if fb.kind == kindBinary {
		n = 2
	}
	ret := make([]amdil.Param, n)
	for i := range ret {
		ret[i] = amdil.Param{Type: fb.operandType, Signed: fb.signed}
	}
	return ret
}

func (fb *functionBuilder) build(b *amdil.Backend) *amdil.Function {
	results := []amdil.Param{{Type: fb.resultType, Signed: fb.signed}}
	f := b.NewFunction(fb.op.String(), fb.params(), results)
	c := f.Cursor
	var v ir.Value
	switch fb.kind {
	case kindUnary:
		v = c.Unary(fb.op, fb.resultType, f.Params[0])
	case kindBinary:
		v = c.Binary(fb.op, f.Params[0], f.Params[1])
	}
	f.Return(v)
	return f
}

// parseOperands parses the comma-separated operands of the function, as they are found in R1 and the
// following registers.
func (fb *functionBuilder) parseOperands(s string) ([]interpreter.Lanes, error) {
	fields := strings.Split(s, ",")
	if n := len(fb.params()); len(fields) != n {
		return nil, fmt.Errorf("%s takes %d operands, got %d", fb.op, n, len(fields))
	}
	ret := make([]interpreter.Lanes, len(fields))
	for i, field := range fields {
		lanes := strings.Split(strings.TrimSpace(field), ":")
		if len(lanes) > fb.operandType.Lanes() {
			return nil, fmt.Errorf("operand %d has %d lanes, %s has %d", i, len(lanes), fb.operandType, fb.operandType.Lanes())
		}
		for k, lane := range lanes {
			v, err := parseLane(lane, fb.operandType.Elem(), fb.signed)
			if err != nil {
				return nil, fmt.Errorf("operand %d: %w", i, err)
			}
			ret[i][k] = v
		}
	}
	return ret, nil
}

// eval runs f with operands in its argument registers and returns the result, as the result type sees it.
func (fb *functionBuilder) eval(f *amdil.Function, operands []interpreter.Lanes) (interpreter.Lanes, error) {
	i := interpreter.New(f.Graph)
	for k, operand := range operands {
		i.Registers[uint32(k+1)] = operand
	}
	if _, err := i.Run(); err != nil {
		return interpreter.Lanes{}, err
	}
	return i.Registers[1].Mask(fb.resultType), nil
}

func (fb *functionBuilder) formatResult(l interpreter.Lanes) string {
	return formatLanes(l, fb.resultType)
}
