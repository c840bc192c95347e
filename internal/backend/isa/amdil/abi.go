package amdil

import (
	"fmt"

	"github.com/radeon-go/amdil/internal/amdilapi"
	"github.com/radeon-go/amdil/internal/backend"
	"github.com/radeon-go/amdil/ir"
)

// Calling convention: values travel in R1..R16 in order and the rest in 16-byte stack slots. Integers narrower
// than 32 bits are widened to fill their register as their ABIParam.Ext says.

type abiImpl = backend.FunctionABI[*Machine]

func (m *Machine) newABI(sig *backend.Signature) *abiImpl {
	a := backend.NewFunctionABI(m)
	a.Init(sig)
	if amdilapi.ABILoggingEnabled {
		for i := range a.Args {
			fmt.Printf("abi: %s\n", a.Args[i].String())
		}
	}
	return a
}

// regType returns the type a value of type typ has while in a register.
func regType(typ ir.Type) ir.Type {
	if typ.IsInt() && typ.Bits() < 32 {
		return typ.WithElem(ir.TypeI32)
	}
	return typ
}

func extend(c *ir.Cursor, v ir.Value, ext backend.Extension) ir.Value {
	to := regType(v.Type())
	if to == v.Type() {
		return v
	}
	switch ext {
	case backend.ExtensionSign:
		return c.Unary(ir.OpcodeSignExtend, to, v)
	case backend.ExtensionZero:
		return c.Unary(ir.OpcodeZeroExtend, to, v)
	default:
		return c.Unary(ir.OpcodeAnyExtend, to, v)
	}
}

// narrow converts v, as read from a register, back to typ, recording the extension the caller applied.
func narrow(c *ir.Cursor, v ir.Value, typ ir.Type, ext backend.Extension) ir.Value {
	if v.Type() == typ {
		return v
	}
	switch ext {
	case backend.ExtensionSign:
		v = c.EmitAux(ir.OpcodeAssertSext, v.Type(), uint64(typ), v)
	case backend.ExtensionZero:
		v = c.EmitAux(ir.OpcodeAssertZext, v.Type(), uint64(typ), v)
	}
	return c.Unary(ir.OpcodeTruncate, typ, v)
}

// LowerFormalArguments creates the values of the parameters of a function with the signature sig, reading them
// after chain. It returns the parameters and the chain following the reads.
func (m *Machine) LowerFormalArguments(c *ir.Cursor, chain ir.Value, sig *backend.Signature) ([]ir.Value, ir.Value) {
	a := m.newABI(sig)
	args := make([]ir.Value, len(a.Args))
	for i := range a.Args {
		arg := &a.Args[i]
		switch arg.Kind {
		case backend.ABIArgKindReg:
			cp := c.CopyFromReg(chain, uint32(arg.Reg), regType(arg.Type), ir.ValueInvalid)
			chain = cp.Result(1)
			args[i] = narrow(c, cp.Result(0), arg.Type, arg.Ext)
		case backend.ABIArgKindStack:
			fi := c.EmitAux(ir.OpcodeFrameIndex, ir.TypeI32, uint64(arg.Offset))
			ld := c.EmitNode(ir.OpcodeLoad, []ir.Type{arg.Type, ir.TypeOther}, 0, chain, fi)
			chain = ld.Result(1)
			args[i] = ld.Result(0)
		}
	}
	return args, chain
}

// LowerCall creates the call of callee with args after chain, following the signature sig. It returns the results
// of the call and the chain following it.
func (m *Machine) LowerCall(c *ir.Cursor, chain, callee ir.Value, sig *backend.Signature, args []ir.Value) ([]ir.Value, ir.Value) {
	if len(args) != len(sig.Params) {
		panic(fmt.Sprintf("BUG: call with %d arguments to a function taking %d", len(args), len(sig.Params)))
	}
	a := m.newABI(sig)
	bytes := c.Const(ir.TypeI32, uint64(a.AlignedArgResultStackSlotSize()))
	start := c.EmitNode(ir.OpcodeCallSeqStart, []ir.Type{ir.TypeOther, ir.TypeOther}, 0, chain, bytes)
	chain = start.Result(0)

	var stores, values []ir.Value
	for i := range a.Args {
		arg := &a.Args[i]
		v := args[i]
		switch arg.Kind {
		case backend.ABIArgKindReg:
			values = append(values, extend(c, v, arg.Ext))
		case backend.ABIArgKindStack:
			fi := c.EmitAux(ir.OpcodeFrameIndex, ir.TypeI32, uint64(arg.Offset))
			stores = append(stores, c.Emit(ir.OpcodeStore, ir.TypeOther, chain, v, fi))
		}
	}
	if len(stores) > 0 {
		chain = c.Emit(ir.OpcodeTokenFactor, ir.TypeOther, stores...)
	}

	// The register copies are glued so nothing is scheduled between them and the call.
	glue := ir.ValueInvalid
	regs := make([]ir.Value, len(values))
	for i, v := range values {
		reg := uint32(a.ArgRealRegs[i])
		cp := c.CopyToReg(chain, reg, v, glue)
		chain, glue = cp.Result(0), cp.Result(1)
		regs[i] = c.Register(v.Type(), reg)
	}

	switch n := c.Graph().NodeOf(callee); n.Opcode() {
	case ir.OpcodeGlobalAddress:
		callee = c.EmitAux(ir.OpcodeTargetGlobalAddress, callee.Type(), n.Aux())
	case ir.OpcodeExternalSymbol:
		callee = c.EmitAux(ir.OpcodeTargetExternalSymbol, callee.Type(), n.Aux())
	}
	inputs := append([]ir.Value{chain, callee}, regs...)
	if glue.Valid() {
		inputs = append(inputs, glue)
	}
	call := c.EmitNode(ir.OpcodeILCall, []ir.Type{ir.TypeOther, ir.TypeOther}, 0, inputs...)
	end := c.EmitNode(ir.OpcodeCallSeqEnd, []ir.Type{ir.TypeOther, ir.TypeOther}, 0,
		call.Result(0), bytes, c.Const(ir.TypeI32, 0), call.Result(1))
	return m.lowerCallResult(c, a, end.Result(0), end.Result(1))
}

// lowerCallResult reads the results of a call from their registers.
func (m *Machine) lowerCallResult(c *ir.Cursor, a *abiImpl, chain, glue ir.Value) ([]ir.Value, ir.Value) {
	results := make([]ir.Value, len(a.Rets))
	for i := range a.Rets {
		r := &a.Rets[i]
		if r.Kind != backend.ABIArgKindReg {
			panic(fmt.Sprintf("BUG: result %d of a call does not fit in registers", i))
		}
		cp := c.CopyFromReg(chain, uint32(r.Reg), regType(r.Type), glue)
		chain, glue = cp.Result(1), cp.Result(2)
		results[i] = narrow(c, cp.Result(0), r.Type, r.Ext)
	}
	return results, chain
}

// LowerReturn copies values to the result registers of sig after chain and returns the chain of the return.
func (m *Machine) LowerReturn(c *ir.Cursor, chain ir.Value, sig *backend.Signature, values []ir.Value) ir.Value {
	if len(values) != len(sig.Results) {
		panic(fmt.Sprintf("BUG: return of %d values from a function returning %d", len(values), len(sig.Results)))
	}
	a := m.newABI(sig)
	glue := ir.ValueInvalid
	for i := range a.Rets {
		r := &a.Rets[i]
		if r.Kind != backend.ABIArgKindReg {
			panic(fmt.Sprintf("BUG: result %d does not fit in registers", i))
		}
		cp := c.CopyToReg(chain, uint32(r.Reg), extend(c, values[i], r.Ext), glue)
		chain, glue = cp.Result(0), cp.Result(1)
	}
	inputs := []ir.Value{chain, c.Const(ir.TypeI32, 0)}
	if glue.Valid() {
		inputs = append(inputs, glue)
	}
	return c.Emit(ir.OpcodeILRetFlag, ir.TypeOther, inputs...)
}
