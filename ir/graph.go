package ir

import (
	"fmt"

	"github.com/radeon-go/amdil/internal/amdilapi"
)

// Global is a global variable referenced by OpcodeGlobalAddress.
type Global struct {
	Name string
	// Init is the constant initializer, only meaningful when HasInit is true.
	Init Value
	// HasInit is true if the variable is a constant with a known scalar initializer.
	HasInit bool
}

// ConstantPoolEntry is an entry of the constant pool referenced by OpcodeConstantPool.
type ConstantPoolEntry struct {
	Type Type
	Bits uint64
}

// Graph is the operation graph of one function. It exclusively owns its nodes, which are addressed by NodeID.
type Graph struct {
	name  string
	nodes amdilapi.Pool[Node]

	entry   Value
	root    Value
	outputs []Value

	// Globals is the table of global variables indexed by the Aux of OpcodeGlobalAddress.
	Globals []Global
	// Symbols is the table of external symbols indexed by the Aux of OpcodeExternalSymbol.
	Symbols []string
	// JumpTables holds the target block numbers of each jump table indexed by the Aux of OpcodeJumpTable.
	JumpTables [][]uint32
	// ConstantPool is indexed by the Aux of OpcodeConstantPool.
	ConstantPool []ConstantPoolEntry
}

// NewGraph returns a new Graph whose root is the entry token.
func NewGraph(name string) *Graph {
	g := &Graph{name: name, nodes: amdilapi.NewPool[Node](), root: ValueInvalid}
	g.entry = g.newNode(OpcodeEntryToken, []Type{TypeOther}, nil, 0, SourcePosUnknown).Result(0)
	g.SetRoot(g.entry)
	return g
}

// Name returns the name of the function this graph belongs to.
func (g *Graph) Name() string {
	return g.name
}

// NumNodes returns the number of nodes ever created in this graph, including the ones no longer referenced.
func (g *Graph) NumNodes() int {
	return g.nodes.Allocated()
}

// Node returns the node of the given id.
func (g *Graph) Node(id NodeID) *Node {
	if int(id) >= g.nodes.Allocated() {
		panic(fmt.Sprintf("BUG: node v%d does not exist in graph %s", id, g.name))
	}
	return g.nodes.View(int(id))
}

// NodeOf returns the producer of v.
func (g *Graph) NodeOf(v Value) *Node {
	return g.Node(v.ID())
}

// EntryToken returns the chain value every graph starts with.
func (g *Graph) EntryToken() Value {
	return g.entry
}

// Root returns the head of the control chain.
func (g *Graph) Root() Value {
	return g.root
}

// SetRoot sets the head of the control chain.
func (g *Graph) SetRoot(v Value) {
	g.checkValue(v)
	if g.root.Valid() {
		g.NodeOf(g.root).uses--
	}
	g.root = v
	g.NodeOf(v).uses++
}

// Outputs returns the live-out values of this graph. The returned slice must not be modified.
func (g *Graph) Outputs() []Value {
	return g.outputs
}

// AddOutput appends v to the live-out values.
func (g *Graph) AddOutput(v Value) {
	g.checkValue(v)
	g.outputs = append(g.outputs, v)
	g.NodeOf(v).uses++
}

// AddGlobal registers a global variable and returns its index.
func (g *Graph) AddGlobal(gl Global) int {
	if gl.HasInit {
		g.checkValue(gl.Init)
	}
	g.Globals = append(g.Globals, gl)
	return len(g.Globals) - 1
}

// AddSymbol registers an external symbol and returns its index.
func (g *Graph) AddSymbol(name string) int {
	g.Symbols = append(g.Symbols, name)
	return len(g.Symbols) - 1
}

// IsLive returns true if a result of the node is referenced from the root, the outputs or another node.
func (g *Graph) IsLive(id NodeID) bool {
	return g.Node(id).uses > 0
}

func (g *Graph) checkValue(v Value) {
	if !v.Valid() {
		panic(fmt.Sprintf("BUG: invalid value used in graph %s", g.name))
	}
	if int(v.ID()) >= g.nodes.Allocated() {
		panic(fmt.Sprintf("BUG: %s refers to a node outside of graph %s", v, g.name))
	}
	n := g.nodes.View(int(v.ID()))
	if v.Result() >= len(n.results) {
		panic(fmt.Sprintf("BUG: %s refers to result #%d of %s which has %d results",
			v, v.Result(), n.opcode, len(n.results)))
	}
	if n.results[v.Result()] != v.Type() {
		panic(fmt.Sprintf("BUG: %s has type %s but its producer defines %s", v, v.Type(), n.results[v.Result()]))
	}
}

// newNode allocates a node. Inputs must refer to nodes already present in this graph.
func (g *Graph) newNode(op Opcode, results []Type, inputs []Value, aux uint64, pos SourcePos) *Node {
	if len(results) == 0 {
		panic(fmt.Sprintf("BUG: %s without results", op))
	}
	for _, in := range inputs {
		g.checkValue(in)
	}
	id, n := g.nodes.Allocate()
	*n = Node{
		id:      NodeID(id),
		opcode:  op,
		inputs:  append([]Value(nil), inputs...),
		results: append([]Type(nil), results...),
		pos:     pos,
		aux:     aux,
	}
	for _, in := range inputs {
		g.nodes.View(int(in.ID())).uses++
	}
	return n
}

// ReplaceAllUsesWith re-points every reference to from, including the root and the outputs, to to.
func (g *Graph) ReplaceAllUsesWith(from, to Value) {
	if from == to {
		return
	}
	g.checkValue(to)
	if from.Type() != to.Type() {
		panic(fmt.Sprintf("BUG: cannot replace %s with %s", from.formatWithType(), to.formatWithType()))
	}
	fromNode, toNode := g.NodeOf(from), g.NodeOf(to)
	var moved uint32
	for i := 0; i < g.nodes.Allocated(); i++ {
		n := g.nodes.View(i)
		for j, in := range n.inputs {
			if in == from {
				n.inputs[j] = to
				moved++
			}
		}
	}
	if g.root == from {
		g.root = to
		moved++
	}
	for i, out := range g.outputs {
		if out == from {
			g.outputs[i] = to
			moved++
		}
	}
	fromNode.uses -= moved
	toNode.uses += moved
}

// ReplaceNode re-points every result of the node id to the corresponding value of replacement.
func (g *Graph) ReplaceNode(id NodeID, replacement []Value) {
	n := g.Node(id)
	if len(replacement) != len(n.results) {
		panic(fmt.Sprintf("BUG: %s has %d results but the replacement has %d",
			n.opcode, len(n.results), len(replacement)))
	}
	for i, r := range replacement {
		g.ReplaceAllUsesWith(n.Result(i), r)
	}
}
