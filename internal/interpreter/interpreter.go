// Package interpreter evaluates operation graphs, both before and after lowering, so that a lowered graph can be
// checked bit for bit against the graph it was lowered from.
package interpreter

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/radeon-go/amdil/ir"
)

// Interpreter evaluates the values of one Graph. Evaluation is demand driven: a node is evaluated once, after all
// its inputs, which runs side effects such as register writes in chain order.
type Interpreter struct {
	g    *ir.Graph
	args []Lanes

	// Registers holds the contents of physical registers read by CopyFromReg and written by CopyToReg.
	Registers map[uint32]Lanes
	// Memory maps an address to the value stored there by Store, read by Load.
	Memory map[uint64]Lanes
	// StackPointer is the register DynamicStackAlloc bumps.
	StackPointer uint32

	results [][]Lanes
}

// New returns an Interpreter for g with the given argument values, indexed by the Aux of OpcodeArgument.
func New(g *ir.Graph, args ...Lanes) *Interpreter {
	return &Interpreter{
		g:         g,
		args:      args,
		Registers: map[uint32]Lanes{},
		Memory:    map[uint64]Lanes{},
		results:   make([][]Lanes, g.NumNodes()),
	}
}

// Run evaluates the root chain and then every output, returning the output values.
func (i *Interpreter) Run() (outputs []Lanes, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	i.Eval(i.g.Root())
	for _, out := range i.g.Outputs() {
		outputs = append(outputs, i.Eval(out))
	}
	return
}

// Eval returns the value of v.
func (i *Interpreter) Eval(v ir.Value) Lanes {
	id := v.ID()
	if int(id) >= len(i.results) {
		panic(fmt.Sprintf("%s was created after the interpreter", v))
	}
	if i.results[id] == nil {
		i.results[id] = i.evalNode(i.g.Node(id))
	}
	return i.results[id][v.Result()]
}

func (i *Interpreter) evalNode(n *ir.Node) []Lanes {
	in := make([]Lanes, n.NumInputs())
	for k, v := range n.Inputs() {
		in[k] = i.Eval(v)
	}
	typ := n.ResultType(0)
	lanes := typ.Lanes()
	one := func(l Lanes) []Lanes {
		if typ == ir.TypeOther {
			return []Lanes{{}}
		}
		return []Lanes{l.Mask(typ)}
	}
	inType := func(k int) ir.Type { return n.Input(k).Type() }

	switch op := n.Opcode(); op {
	case ir.OpcodeEntryToken, ir.OpcodeUndef, ir.OpcodeTokenFactor, ir.OpcodeBr, ir.OpcodeBrCond, ir.OpcodeBrCC,
		ir.OpcodeBrInd, ir.OpcodeILBranchCond, ir.OpcodeILRetFlag:
		return one(Lanes{})
	case ir.OpcodeCallSeqStart, ir.OpcodeCallSeqEnd, ir.OpcodeILCall:
		return make([]Lanes, n.NumResults())
	case ir.OpcodeArgument:
		if int(n.Aux()) >= len(i.args) {
			panic(fmt.Sprintf("missing argument %d", n.Aux()))
		}
		return one(i.args[n.Aux()])
	case ir.OpcodeConstant, ir.OpcodeConstantFP:
		return one(broadcast(n.Aux(), lanes))
	case ir.OpcodeRegister, ir.OpcodeFrameIndex, ir.OpcodeGlobalAddress, ir.OpcodeJumpTable, ir.OpcodeConstantPool,
		ir.OpcodeExternalSymbol, ir.OpcodeTargetGlobalAddress, ir.OpcodeTargetJumpTable,
		ir.OpcodeTargetConstantPool, ir.OpcodeTargetExternalSymbol, ir.OpcodeBasicBlock:
		return one(broadcast(n.Aux(), lanes))
	case ir.OpcodeCopyFromReg:
		reg := uint32(i.g.NodeOf(n.Input(1)).Aux())
		return []Lanes{i.Registers[reg].Mask(typ), {}, {}}
	case ir.OpcodeCopyToReg:
		reg := uint32(i.g.NodeOf(n.Input(1)).Aux())
		i.Registers[reg] = in[2]
		return []Lanes{{}, {}}
	case ir.OpcodeLoad:
		return []Lanes{i.Memory[in[1][0]].Mask(typ), {}}
	case ir.OpcodeStore:
		i.Memory[in[2][0]] = in[1]
		return one(Lanes{})
	case ir.OpcodeMergeValues:
		return in
	case ir.OpcodeDynamicStackAlloc:
		sp := i.Registers[i.StackPointer][0]
		newSP := truncBits(sp+in[1][0], typ.Bits())
		i.Registers[i.StackPointer] = I(newSP)
		return []Lanes{I(newSP), {}}
	case ir.OpcodeAssertSext, ir.OpcodeAssertZext, ir.OpcodeILMove:
		return one(in[0])

	case ir.OpcodeAdd, ir.OpcodeSub, ir.OpcodeMul, ir.OpcodeAnd, ir.OpcodeOr, ir.OpcodeXor, ir.OpcodeShl,
		ir.OpcodeSrl, ir.OpcodeSra, ir.OpcodeRotl, ir.OpcodeRotr, ir.OpcodeMulHU, ir.OpcodeMulHS, ir.OpcodeSDiv,
		ir.OpcodeUDiv, ir.OpcodeSRem, ir.OpcodeURem, ir.OpcodeILUmul, ir.OpcodeILSmax, ir.OpcodeILAddAddr:
		var ret Lanes
		for k := 0; k < lanes; k++ {
			ret[k] = intBinary(op, in[0][k], in[1][k], typ.Bits())
		}
		return one(ret)
	case ir.OpcodeSDivRem, ir.OpcodeUDivRem, ir.OpcodeSMulLoHi, ir.OpcodeUMulLoHi:
		first, second := splitPair(op)
		var a, b Lanes
		for k := 0; k < lanes; k++ {
			a[k] = intBinary(first, in[0][k], in[1][k], typ.Bits())
			b[k] = intBinary(second, in[0][k], in[1][k], typ.Bits())
		}
		return []Lanes{a, b}
	case ir.OpcodeILUmad:
		var ret Lanes
		for k := 0; k < lanes; k++ {
			ret[k] = in[0][k]*in[1][k] + in[2][k]
		}
		return one(ret)
	case ir.OpcodeILInegate:
		var ret Lanes
		for k := 0; k < lanes; k++ {
			ret[k] = -in[0][k]
		}
		return one(ret)
	case ir.OpcodeBswap, ir.OpcodeCtlz, ir.OpcodeCttz, ir.OpcodeCtpop, ir.OpcodeILIffbHi, ir.OpcodeILIffbLo:
		var ret Lanes
		for k := 0; k < lanes; k++ {
			ret[k] = intUnary(op, in[0][k], typ.Bits())
		}
		return one(ret)

	case ir.OpcodeFAdd, ir.OpcodeFSub, ir.OpcodeFMul, ir.OpcodeFDiv, ir.OpcodeILDivInf:
		var ret Lanes
		for k := 0; k < lanes; k++ {
			ret[k] = floatBinary(op, in[0][k], in[1][k], typ.Elem())
		}
		return one(ret)
	case ir.OpcodeILMad:
		var ret Lanes
		for k := 0; k < lanes; k++ {
			switch typ.Elem() {
			case ir.TypeF32:
				a, b, c := in[0].Float32(k), in[1].Float32(k), in[2].Float32(k)
				ret[k] = uint64(math.Float32bits(float32(math.FMA(float64(a), float64(b), float64(c)))))
			case ir.TypeF64:
				ret[k] = math.Float64bits(math.FMA(in[0].Float64(k), in[1].Float64(k), in[2].Float64(k)))
			default:
				ret[k] = in[0][k]*in[1][k] + in[2][k]
			}
		}
		return one(ret)
	case ir.OpcodeFNeg, ir.OpcodeFAbs, ir.OpcodeFTrunc:
		var ret Lanes
		for k := 0; k < lanes; k++ {
			ret[k] = floatUnary(op, in[0][k], typ.Elem())
		}
		return one(ret)

	case ir.OpcodeSignExtend, ir.OpcodeZeroExtend, ir.OpcodeAnyExtend, ir.OpcodeTruncate:
		var ret Lanes
		from := inType(0).Bits()
		for k := 0; k < lanes; k++ {
			if op == ir.OpcodeSignExtend {
				ret[k] = uint64(signExtend(in[0][k], from))
			} else {
				ret[k] = in[0][k]
			}
		}
		return one(ret)
	case ir.OpcodeSignExtendInReg:
		var ret Lanes
		from := n.AuxType().Bits()
		for k := 0; k < lanes; k++ {
			ret[k] = uint64(signExtend(in[0][k], from))
		}
		return one(ret)
	case ir.OpcodeFPToSI, ir.OpcodeFPToUI, ir.OpcodeSIToFP, ir.OpcodeUIToFP, ir.OpcodeFPRound, ir.OpcodeFPExtend,
		ir.OpcodeILDpToFp, ir.OpcodeILFpToDp:
		var ret Lanes
		for k := 0; k < lanes; k++ {
			ret[k] = convert(op, in[0][k], inType(0), typ)
		}
		return one(ret)
	case ir.OpcodeBitcast:
		if inType(0).TotalBits() != typ.TotalBits() {
			panic(fmt.Sprintf("bitcast of %s to %s", inType(0), typ))
		}
		return one(unpackBits(packBits(in[0], inType(0)), typ))

	case ir.OpcodeSetCC:
		var ret Lanes
		for k := 0; k < lanes; k++ {
			if compare(n.CondCode(), inType(0), in[0][k], in[1][k]) {
				ret[k] = 1
			}
		}
		return one(ret)
	case ir.OpcodeSelectCC:
		var ret Lanes
		for k := 0; k < lanes; k++ {
			if compare(n.CondCode(), inType(0), laneOf(in[0], inType(0), k), laneOf(in[1], inType(1), k)) {
				ret[k] = in[2][k]
			} else {
				ret[k] = in[3][k]
			}
		}
		return one(ret)
	case ir.OpcodeILCmp:
		var ret Lanes
		cond := n.ILCond()
		for k := 0; k < lanes; k++ {
			if compareIL(cond, inType(0), in[0][k], in[1][k]) {
				ret[k] = math.MaxUint64
			}
		}
		return one(ret)
	case ir.OpcodeSelect, ir.OpcodeILCmovLogical, ir.OpcodeILCmov:
		var ret Lanes
		for k := 0; k < lanes; k++ {
			c := laneOf(in[0], inType(0), k)
			if op == ir.OpcodeILCmov {
				c &= 1
			}
			if c != 0 {
				ret[k] = in[1][k]
			} else {
				ret[k] = in[2][k]
			}
		}
		return one(ret)

	case ir.OpcodeBuildVector:
		var ret Lanes
		for k := range in {
			ret[k] = in[k][0]
		}
		return one(ret)
	case ir.OpcodeScalarToVector, ir.OpcodeILVbuild:
		if op == ir.OpcodeScalarToVector {
			return one(I(in[0][0]))
		}
		return one(broadcast(in[0][0], lanes))
	case ir.OpcodeInsertVectorElt:
		ret := in[0]
		if idx := in[2][0]; idx < uint64(lanes) {
			ret[idx] = in[1][0]
		}
		return one(ret)
	case ir.OpcodeExtractVectorElt:
		if idx := in[1][0]; idx < uint64(inType(0).Lanes()) {
			return one(I(in[0][idx]))
		}
		return one(Lanes{})
	case ir.OpcodeILVextract:
		lane := n.Aux()
		if lane < 1 || lane > uint64(inType(0).Lanes()) {
			panic(fmt.Sprintf("vextract of lane %d from %s", lane, inType(0)))
		}
		return one(I(in[0][lane-1]))
	case ir.OpcodeExtractSubvector:
		var ret Lanes
		base := in[1][0]
		for k := 0; k < lanes; k++ {
			if src := base + uint64(k); src < uint64(inType(0).Lanes()) {
				ret[k] = in[0][src]
			}
		}
		return one(ret)
	case ir.OpcodeConcatVectors, ir.OpcodeILVconcat:
		var ret Lanes
		first := inType(0).Lanes()
		for k := 0; k < lanes; k++ {
			if k < first {
				ret[k] = in[0][k]
			} else {
				ret[k] = in[1][k-first]
			}
		}
		return one(ret)
	case ir.OpcodeVectorShuffle:
		var ret Lanes
		first := inType(0).Lanes()
		for k := 0; k < lanes; k++ {
			src := int(byte(n.Aux() >> (8 * k)))
			switch {
			case src < first:
				ret[k] = in[0][src]
			case src < first+inType(1).Lanes():
				ret[k] = in[1][src-first]
			}
		}
		return one(ret)
	case ir.OpcodeILVinsert:
		var ret Lanes
		mask2, mask3 := in[2][0], in[3][0]
		for k := 0; k < lanes; k++ {
			if byte(mask3>>(8*k)) != 0 {
				ret[k] = in[1][0]
			} else if src := int(byte(mask2 >> (8 * k))); src >= 1 && src <= lanes {
				ret[k] = in[0][src-1]
			}
		}
		return one(ret)

	case ir.OpcodeILLcreate, ir.OpcodeILDcreate:
		var ret Lanes
		for k := 0; k < lanes; k++ {
			ret[k] = uint64(uint32(in[0][k])) | in[1][k]<<32
		}
		return one(ret)
	case ir.OpcodeILLcompHi, ir.OpcodeILDcompHi:
		var ret Lanes
		for k := 0; k < lanes; k++ {
			ret[k] = in[0][k] >> 32
		}
		return one(ret)
	case ir.OpcodeILLcompLo, ir.OpcodeILDcompLo:
		var ret Lanes
		for k := 0; k < lanes; k++ {
			ret[k] = uint64(uint32(in[0][k]))
		}
		return one(ret)
	}
	panic(fmt.Sprintf("cannot evaluate %s", ir.FormatNode(n)))
}

// laneOf returns lane k of l, broadcasting scalars.
func laneOf(l Lanes, typ ir.Type, k int) uint64 {
	if !typ.IsVector() {
		return l[0]
	}
	return l[k]
}

func intBinary(op ir.Opcode, x, y uint64, w int) uint64 {
	x, y = truncBits(x, w), truncBits(y, w)
	sx, sy := signExtend(x, w), signExtend(y, w)
	amount := y & uint64(w-1)
	switch op {
	case ir.OpcodeAdd, ir.OpcodeILAddAddr:
		return x + y
	case ir.OpcodeSub:
		return x - y
	case ir.OpcodeMul, ir.OpcodeILUmul:
		return x * y
	case ir.OpcodeAnd:
		return x & y
	case ir.OpcodeOr:
		return x | y
	case ir.OpcodeXor:
		return x ^ y
	case ir.OpcodeShl:
		return x << amount
	case ir.OpcodeSrl:
		return x >> amount
	case ir.OpcodeSra:
		return uint64(sx >> amount)
	case ir.OpcodeRotl:
		if amount == 0 {
			return x
		}
		return truncBits(x<<amount|x>>(uint64(w)-amount), w)
	case ir.OpcodeRotr:
		if amount == 0 {
			return x
		}
		return truncBits(x>>amount|x<<(uint64(w)-amount), w)
	case ir.OpcodeMulHU:
		if w == 64 {
			hi, _ := bits.Mul64(x, y)
			return hi
		}
		return x * y >> w
	case ir.OpcodeMulHS:
		if w == 64 {
			hi, _ := bits.Mul64(x, y)
			if sx < 0 {
				hi -= y
			}
			if sy < 0 {
				hi -= x
			}
			return hi
		}
		return uint64(sx * sy >> w)
	case ir.OpcodeSDiv, ir.OpcodeSRem:
		if sy == 0 {
			return 0
		}
		if sy == -1 {
			// Avoids the overflow trap of MinInt64 / -1.
			if op == ir.OpcodeSDiv {
				return uint64(-sx)
			}
			return 0
		}
		if op == ir.OpcodeSDiv {
			return uint64(sx / sy)
		}
		return uint64(sx % sy)
	case ir.OpcodeUDiv:
		if y == 0 {
			return 0
		}
		return x / y
	case ir.OpcodeURem:
		if y == 0 {
			return 0
		}
		return x % y
	case ir.OpcodeILSmax:
		if sx > sy {
			return x
		}
		return y
	}
	panic(fmt.Sprintf("BUG: %s is not an integer binary operation", op))
}

// splitPair returns the single result operations computing the two results of op.
func splitPair(op ir.Opcode) (first, second ir.Opcode) {
	switch op {
	case ir.OpcodeSDivRem:
		return ir.OpcodeSDiv, ir.OpcodeSRem
	case ir.OpcodeUDivRem:
		return ir.OpcodeUDiv, ir.OpcodeURem
	case ir.OpcodeSMulLoHi:
		return ir.OpcodeMul, ir.OpcodeMulHS
	default:
		return ir.OpcodeMul, ir.OpcodeMulHU
	}
}

func intUnary(op ir.Opcode, x uint64, w int) uint64 {
	x = truncBits(x, w)
	switch op {
	case ir.OpcodeBswap:
		return bits.ReverseBytes64(x) >> (64 - w)
	case ir.OpcodeCtlz:
		return uint64(bits.LeadingZeros64(x) - (64 - w))
	case ir.OpcodeCttz:
		if x == 0 {
			return uint64(w)
		}
		return uint64(bits.TrailingZeros64(x))
	case ir.OpcodeCtpop:
		return uint64(bits.OnesCount64(x))
	case ir.OpcodeILIffbHi:
		if uint32(x) == 0 {
			return math.MaxUint64
		}
		return uint64(bits.LeadingZeros32(uint32(x)))
	case ir.OpcodeILIffbLo:
		if uint32(x) == 0 {
			return math.MaxUint64
		}
		return uint64(bits.TrailingZeros32(uint32(x)))
	}
	panic(fmt.Sprintf("BUG: %s is not an integer unary operation", op))
}

func floatBinary(op ir.Opcode, x, y uint64, elem ir.Type) uint64 {
	if elem == ir.TypeF32 {
		a, b := math.Float32frombits(uint32(x)), math.Float32frombits(uint32(y))
		var r float32
		switch op {
		case ir.OpcodeFAdd:
			r = a + b
		case ir.OpcodeFSub:
			r = a - b
		case ir.OpcodeFMul:
			r = a * b
		case ir.OpcodeFDiv, ir.OpcodeILDivInf:
			r = a / b
		}
		return uint64(math.Float32bits(r))
	}
	a, b := math.Float64frombits(x), math.Float64frombits(y)
	var r float64
	switch op {
	case ir.OpcodeFAdd:
		r = a + b
	case ir.OpcodeFSub:
		r = a - b
	case ir.OpcodeFMul:
		r = a * b
	case ir.OpcodeFDiv, ir.OpcodeILDivInf:
		r = a / b
	}
	return math.Float64bits(r)
}

func floatUnary(op ir.Opcode, x uint64, elem ir.Type) uint64 {
	sign := uint64(1) << 63
	if elem == ir.TypeF32 {
		sign = 1 << 31
	}
	switch op {
	case ir.OpcodeFNeg:
		return x ^ sign
	case ir.OpcodeFAbs:
		return x &^ sign
	case ir.OpcodeFTrunc:
		if elem == ir.TypeF32 {
			return uint64(math.Float32bits(float32(math.Trunc(float64(math.Float32frombits(uint32(x)))))))
		}
		return math.Float64bits(math.Trunc(math.Float64frombits(x)))
	}
	panic(fmt.Sprintf("BUG: %s is not a float unary operation", op))
}

func toFloat(x uint64, typ ir.Type) float64 {
	if typ.Elem() == ir.TypeF32 {
		return float64(math.Float32frombits(uint32(x)))
	}
	return math.Float64frombits(x)
}

func fromFloat(f float64, typ ir.Type) uint64 {
	if typ.Elem() == ir.TypeF32 {
		return uint64(math.Float32bits(float32(f)))
	}
	return math.Float64bits(f)
}

// convert implements the numeric conversions. Float to integer conversions truncate toward zero and saturate out
// of range inputs; NaN converts to zero.
func convert(op ir.Opcode, x uint64, from, to ir.Type) uint64 {
	switch op {
	case ir.OpcodeFPToSI:
		f, w := math.Trunc(toFloat(x, from)), to.Bits()
		minimum, maximum := -math.Ldexp(1, w-1), math.Ldexp(1, w-1)
		switch {
		case math.IsNaN(f):
			return 0
		case f < minimum:
			return truncBits(uint64(1)<<(w-1), w)
		case f >= maximum:
			return allOnes(w - 1)
		}
		return truncBits(uint64(int64(f)), w)
	case ir.OpcodeFPToUI:
		f, w := math.Trunc(toFloat(x, from)), to.Bits()
		switch {
		case math.IsNaN(f) || f <= 0:
			return 0
		case f >= math.Ldexp(1, w):
			return allOnes(w)
		}
		return uint64(f)
	case ir.OpcodeSIToFP:
		v := signExtend(x, from.Bits())
		if to.Elem() == ir.TypeF32 {
			return uint64(math.Float32bits(float32(v)))
		}
		return math.Float64bits(float64(v))
	case ir.OpcodeUIToFP:
		v := truncBits(x, from.Bits())
		if to.Elem() == ir.TypeF32 {
			return uint64(math.Float32bits(float32(v)))
		}
		return math.Float64bits(float64(v))
	case ir.OpcodeFPRound, ir.OpcodeFPExtend, ir.OpcodeILDpToFp, ir.OpcodeILFpToDp:
		return fromFloat(toFloat(x, from), to)
	}
	panic(fmt.Sprintf("BUG: %s is not a conversion", op))
}

func compare(cond ir.CondCode, typ ir.Type, x, y uint64) bool {
	if typ.IsFloat() {
		return compareFloat(cond, toFloat(x, typ), toFloat(y, typ))
	}
	w := typ.Bits()
	x, y = truncBits(x, w), truncBits(y, w)
	sx, sy := signExtend(x, w), signExtend(y, w)
	switch cond {
	case ir.CondFalse:
		return false
	case ir.CondTrue:
		return true
	case ir.CondEQ, ir.CondUEQ:
		return x == y
	case ir.CondNE, ir.CondUNE:
		return x != y
	case ir.CondGT:
		return sx > sy
	case ir.CondGE:
		return sx >= sy
	case ir.CondLT:
		return sx < sy
	case ir.CondLE:
		return sx <= sy
	case ir.CondUGT:
		return x > y
	case ir.CondUGE:
		return x >= y
	case ir.CondULT:
		return x < y
	case ir.CondULE:
		return x <= y
	}
	panic(fmt.Sprintf("BUG: %s on integers", cond))
}

func compareFloat(cond ir.CondCode, a, b float64) bool {
	unordered := math.IsNaN(a) || math.IsNaN(b)
	switch cond {
	case ir.CondFalse:
		return false
	case ir.CondTrue:
		return true
	case ir.CondEQ, ir.CondOEQ:
		return a == b
	case ir.CondNE:
		return a != b
	case ir.CondONE:
		return !unordered && a != b
	case ir.CondGT, ir.CondOGT:
		return a > b
	case ir.CondGE, ir.CondOGE:
		return a >= b
	case ir.CondLT, ir.CondOLT:
		return a < b
	case ir.CondLE, ir.CondOLE:
		return a <= b
	case ir.CondO:
		return !unordered
	case ir.CondUO:
		return unordered
	case ir.CondUEQ:
		return unordered || a == b
	case ir.CondUNE:
		return unordered || a != b
	case ir.CondUGT:
		return unordered || a > b
	case ir.CondUGE:
		return unordered || a >= b
	case ir.CondULT:
		return unordered || a < b
	case ir.CondULE:
		return unordered || a <= b
	}
	panic(fmt.Sprintf("BUG: invalid condition %s", cond))
}

func compareIL(cond ir.ILCond, typ ir.Type, x, y uint64) bool {
	switch cond.Family() {
	case ir.ILCondFamilySigned, ir.ILCondFamilyUnsigned:
		w := typ.Bits()
		if w > 32 {
			panic(fmt.Sprintf("BUG: %s on %s", cond, typ))
		}
		return compare(cond.Predicate(), typ, x, y)
	case ir.ILCondFamilyLong, ir.ILCondFamilyULong:
		return compare(cond.Predicate(), ir.TypeI64, x, y)
	case ir.ILCondFamilyFloat:
		return compareFloat(cond.Predicate(), toFloat(x, ir.TypeF32), toFloat(y, ir.TypeF32))
	case ir.ILCondFamilyDouble:
		return compareFloat(cond.Predicate(), toFloat(x, ir.TypeF64), toFloat(y, ir.TypeF64))
	}
	panic(fmt.Sprintf("BUG: invalid condition %s", cond))
}
