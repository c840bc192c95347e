package amdil

import (
	"github.com/radeon-go/amdil/internal/backend"
	"github.com/radeon-go/amdil/ir"
)

// Param is a parameter or result of a function.
type Param struct {
	Type ir.Type
	// Signed widens an integer narrower than 32 bits by sign extension instead of zero extension.
	Signed bool
}

func (p Param) abi() backend.ABIParam {
	ret := backend.ABIParam{Type: p.Type}
	if p.Type.IsInt() && p.Type.Bits() < 32 {
		if p.Signed {
			ret.Ext = backend.ExtensionSign
		} else {
			ret.Ext = backend.ExtensionZero
		}
	}
	return ret
}

func signatureOf(params, results []Param) *backend.Signature {
	sig := &backend.Signature{
		Params:  make([]backend.ABIParam, len(params)),
		Results: make([]backend.ABIParam, len(results)),
	}
	for i, p := range params {
		sig.Params[i] = p.abi()
	}
	for i, r := range results {
		sig.Results[i] = r.abi()
	}
	return sig
}

// Function is the graph of a function under construction, following the calling convention of the device:
// parameters and results travel in R1..R16 and the parameters past the sixteenth in stack slots.
type Function struct {
	b     *Backend
	sig   *backend.Signature
	chain ir.Value

	// Graph is the graph of the function.
	Graph *ir.Graph
	// Cursor creates nodes in Graph.
	Cursor *ir.Cursor
	// Params are the values of the parameters, as read from their registers or stack slots.
	Params []ir.Value
}

// NewFunction starts the graph of a function called name.
func (b *Backend) NewFunction(name string, params, results []Param) *Function {
	g := ir.NewGraph(name)
	f := &Function{b: b, sig: signatureOf(params, results), Graph: g, Cursor: ir.NewCursor(g)}
	f.Params, f.chain = b.machine.LowerFormalArguments(f.Cursor, g.EntryToken(), f.sig)
	g.SetRoot(f.chain)
	return f
}

// Call emits a call of callee, an OpcodeGlobalAddress or OpcodeExternalSymbol, with args, and returns its
// results. Calls are ordered after the previous calls of the function.
func (f *Function) Call(callee ir.Value, params, results []Param, args ...ir.Value) []ir.Value {
	var ret []ir.Value
	ret, f.chain = f.b.machine.LowerCall(f.Cursor, f.chain, callee, signatureOf(params, results), args)
	f.Graph.SetRoot(f.chain)
	return ret
}

// Return ends the function by writing values to the result registers. It must be called once, last.
func (f *Function) Return(values ...ir.Value) {
	f.chain = f.b.machine.LowerReturn(f.Cursor, f.chain, f.sig, values)
	f.Graph.SetRoot(f.chain)
}
