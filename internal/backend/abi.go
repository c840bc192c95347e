package backend

import (
	"fmt"

	"github.com/radeon-go/amdil/ir"
)

// RealReg is a physical register number of the target.
type RealReg uint32

// FunctionABIRegInfo is implemented by targets to describe their calling convention registers.
type FunctionABIRegInfo interface {
	// ArgsResultsRegs returns the registers used for passing parameters and results, in assignment order.
	ArgsResultsRegs() (args, results []RealReg)
}

type (
	// Signature is the type of a function as seen by the calling convention.
	Signature struct {
		Params, Results []ABIParam
	}

	// ABIParam is one parameter or result of a Signature.
	ABIParam struct {
		Type ir.Type
		// Ext is how a value narrower than its register is widened.
		Ext Extension
	}

	// Extension is how a narrow integer is widened to fill a register.
	Extension byte

	FunctionABI[R FunctionABIRegInfo] struct {
		r           R
		Initialized bool

		Args, Rets                 []ABIArg
		ArgStackSize, RetStackSize int64

		ArgRealRegs []RealReg
		RetRealRegs []RealReg
	}

	// ABIArg represents either argument or return value's location.
	ABIArg struct {
		// Index is the index of the argument.
		Index int
		// Kind is the kind of the argument.
		Kind ABIArgKind
		// Reg is valid if Kind == ABIArgKindReg.
		Reg RealReg
		// Offset is valid if Kind == ABIArgKindStack.
		// This is the offset from the beginning of either arg or ret stack slot.
		Offset int64
		// Type is the type of the argument.
		Type ir.Type
		// Ext is copied from the ABIParam.
		Ext Extension
	}

	// ABIArgKind is the kind of ABI argument.
	ABIArgKind byte
)

const (
	// ExtensionNone leaves the high bits unspecified.
	ExtensionNone Extension = iota
	// ExtensionSign sign extends.
	ExtensionSign
	// ExtensionZero zero extends.
	ExtensionZero
)

const (
	// ABIArgKindReg represents an argument passed in a register.
	ABIArgKindReg ABIArgKind = iota
	// ABIArgKindStack represents an argument passed in the stack.
	ABIArgKindStack
)

// StackSlotSize is the size and alignment of every stack slot. Each slot holds one register of up to four lanes.
const StackSlotSize = 16

// String implements fmt.Stringer.
func (a *ABIArg) String() string {
	if a.Kind == ABIArgKindReg {
		return fmt.Sprintf("args[%d]: %s r%d", a.Index, a.Kind, a.Reg)
	}
	return fmt.Sprintf("args[%d]: %s %d", a.Index, a.Kind, a.Offset)
}

// String implements fmt.Stringer.
func (a ABIArgKind) String() string {
	switch a {
	case ABIArgKindReg:
		return "reg"
	case ABIArgKindStack:
		return "stack"
	default:
		panic("BUG")
	}
}

// NewFunctionABI returns a FunctionABI using the registers of r.
func NewFunctionABI[R FunctionABIRegInfo](r R) *FunctionABI[R] {
	return &FunctionABI[R]{r: r}
}

// Init initializes the FunctionABI for the given signature.
func (a *FunctionABI[R]) Init(sig *Signature) {
	argRegs, resultRegs := a.r.ArgsResultsRegs()

	if len(a.Rets) < len(sig.Results) {
		a.Rets = make([]ABIArg, len(sig.Results))
	}
	a.Rets = a.Rets[:len(sig.Results)]
	a.RetStackSize = a.setABIArgs(a.Rets, sig.Results, resultRegs)
	if argsNum := len(sig.Params); len(a.Args) < argsNum {
		a.Args = make([]ABIArg, argsNum)
	}
	a.Args = a.Args[:len(sig.Params)]
	a.ArgStackSize = a.setABIArgs(a.Args, sig.Params, argRegs)

	// Gather the real registers usages in arg/return.
	a.RetRealRegs = a.RetRealRegs[:0]
	for i := range a.Rets {
		r := &a.Rets[i]
		if r.Kind == ABIArgKindReg {
			a.RetRealRegs = append(a.RetRealRegs, r.Reg)
		}
	}
	a.ArgRealRegs = a.ArgRealRegs[:0]
	for i := range a.Args {
		arg := &a.Args[i]
		if arg.Kind == ABIArgKindReg {
			a.ArgRealRegs = append(a.ArgRealRegs, arg.Reg)
		}
	}

	a.Initialized = true
}

// setABIArgs sets the ABI arguments in the given slice. This assumes that len(s) >= len(params).
// Registers are handed out in order; once they run out every remaining value goes to the stack.
func (a *FunctionABI[R]) setABIArgs(s []ABIArg, params []ABIParam, regs []RealReg) (stackSize int64) {
	var stackOffset int64
	regIndex := 0
	for i, p := range params {
		arg := &s[i]
		*arg = ABIArg{Index: i, Type: p.Type, Ext: p.Ext}
		if regIndex >= len(regs) {
			arg.Kind = ABIArgKindStack
			arg.Offset = stackOffset
			stackOffset += StackSlotSize
		} else {
			arg.Kind = ABIArgKindReg
			arg.Reg = regs[regIndex]
			regIndex++
		}
	}
	return stackOffset
}

// AlignedArgResultStackSlotSize returns the stack space needed by the arguments and results.
func (a *FunctionABI[R]) AlignedArgResultStackSlotSize() int64 {
	stackSlotSize := a.RetStackSize + a.ArgStackSize
	// Align stackSlotSize to 16 bytes.
	stackSlotSize = (stackSlotSize + 15) &^ 15
	return stackSlotSize
}
