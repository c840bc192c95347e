package ir

import (
	"fmt"
	"math"
)

// SourcePos is the position in the kernel source a Node was created for. SourcePosUnknown means none.
type SourcePos int64

// SourcePosUnknown is the SourcePos of nodes without a source position.
const SourcePosUnknown SourcePos = -1

// Node is one operation of a Graph. Nodes are owned by the Graph and always accessed through a pointer obtained
// from Graph.Node, which stays valid while the graph grows.
type Node struct {
	id      NodeID
	opcode  Opcode
	inputs  []Value
	results []Type
	// order is the execution order tag. Zero means the node can be scheduled anywhere.
	order uint32
	pos   SourcePos
	aux   uint64
	// uses counts the references to any result of this node from other nodes, the root and the outputs.
	uses uint32
}

// ID returns the NodeID of this node.
func (n *Node) ID() NodeID {
	return n.id
}

// Opcode returns the Opcode of this node.
func (n *Node) Opcode() Opcode {
	return n.opcode
}

// Inputs returns the input values of this node. The returned slice must not be modified.
func (n *Node) Inputs() []Value {
	return n.inputs
}

// Input returns the i-th input value of this node.
func (n *Node) Input(i int) Value {
	if i >= len(n.inputs) {
		panic(fmt.Sprintf("BUG: %s has %d inputs, requested #%d", n.opcode, len(n.inputs), i))
	}
	return n.inputs[i]
}

// NumInputs returns the number of inputs.
func (n *Node) NumInputs() int {
	return len(n.inputs)
}

// NumResults returns the number of results.
func (n *Node) NumResults() int {
	return len(n.results)
}

// ResultType returns the type of the i-th result.
func (n *Node) ResultType(i int) Type {
	return n.results[i]
}

// Result returns the i-th result as a Value.
func (n *Node) Result(i int) Value {
	if i >= len(n.results) {
		panic(fmt.Sprintf("BUG: %s has %d results, requested #%d", n.opcode, len(n.results), i))
	}
	return newValue(n.id, i, n.results[i])
}

// Results returns every result of this node as a Value.
func (n *Node) Results() []Value {
	ret := make([]Value, len(n.results))
	for i := range ret {
		ret[i] = n.Result(i)
	}
	return ret
}

// Order returns the execution order tag of this node, zero if unordered.
func (n *Node) Order() uint32 {
	return n.order
}

// SetOrder sets the execution order tag of this node.
func (n *Node) SetOrder(order uint32) {
	n.order = order
}

// Pos returns the source position of this node.
func (n *Node) Pos() SourcePos {
	return n.pos
}

// Aux returns the raw auxiliary payload.
func (n *Node) Aux() uint64 {
	return n.aux
}

// CondCode returns the condition code of SetCC, SelectCC or BrCC.
func (n *Node) CondCode() CondCode {
	return CondCode(n.aux)
}

// ILCond returns the condition of OpcodeILCmp.
func (n *Node) ILCond() ILCond {
	return ILCond(n.aux)
}

// AuxType returns the type payload of AssertSext, AssertZext and SignExtendInReg.
func (n *Node) AuxType() Type {
	return Type(n.aux)
}

// ConstantFloat returns the value of OpcodeConstantFP widened to float64.
func (n *Node) ConstantFloat() float64 {
	if n.results[0].Elem() == TypeF32 {
		return float64(math.Float32frombits(uint32(n.aux)))
	}
	return math.Float64frombits(n.aux)
}

// IsConstant returns true if this node is an integer or float constant.
func (n *Node) IsConstant() bool {
	return n.opcode == OpcodeConstant || n.opcode == OpcodeConstantFP
}

// Uses returns the number of references to the results of this node.
func (n *Node) Uses() int {
	return int(n.uses)
}
