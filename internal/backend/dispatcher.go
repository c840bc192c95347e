package backend

import (
	"fmt"

	"github.com/radeon-go/amdil/internal/amdilapi"
	"github.com/radeon-go/amdil/ir"
)

// Lowerer is implemented by a target to lower the operations its LegalizeTable marks ActionCustom.
type Lowerer interface {
	// LowerOperation creates, through c, the nodes replacing n and returns one replacement value per result of n.
	// A nil return leaves n in the graph unchanged.
	LowerOperation(c *ir.Cursor, n *ir.Node) []ir.Value
}

// DispatchListener observes the nodes lowered by a Dispatcher.
type DispatchListener interface {
	// BeforeLower is called before n is handed to the target.
	BeforeLower(n *ir.Node)
	// AfterLower is called once the results of n have been replaced by replacement.
	AfterLower(n *ir.Node, replacement []ir.Value)
}

// State is the lowering state of a node.
type State byte

const (
	// StateUnvisited is the state of a node that was not looked at yet.
	StateUnvisited State = iota
	// StateInProgress is the state of a node whose replacement is being built.
	StateInProgress
	// StateLowered is the state of a node that was replaced, or that needed no replacement.
	StateLowered
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateUnvisited:
		return "unvisited"
	case StateInProgress:
		return "in-progress"
	case StateLowered:
		return "lowered"
	}
	return fmt.Sprintf("state(%d)", byte(s))
}

// Dispatcher drives the lowering of one Graph: it hands every node marked ActionCustom to the target, splices the
// replacement in, and propagates the execution order tag of the replaced node to the new nodes.
//
// A Dispatcher is not safe for concurrent use; lowering several graphs in parallel needs one Dispatcher each.
type Dispatcher struct {
	table  *LegalizeTable
	target Lowerer

	g            *ir.Graph
	cursor       *ir.Cursor
	listener     DispatchListener
	states       []State
	replacements [][]ir.Value
	lowered      int
}

// NewDispatcher returns a Dispatcher for the given table and target.
func NewDispatcher(table *LegalizeTable, target Lowerer) *Dispatcher {
	return &Dispatcher{table: table, target: target}
}

// Init prepares the dispatcher to lower g. listener can be nil.
func (d *Dispatcher) Init(g *ir.Graph, listener DispatchListener) {
	d.g = g
	d.cursor = ir.NewCursor(g)
	d.listener = listener
	d.states = d.states[:0]
	d.replacements = d.replacements[:0]
	d.lowered = 0
	d.grow()
}

// Graph returns the graph being lowered.
func (d *Dispatcher) Graph() *ir.Graph {
	return d.g
}

// Lowered returns the number of nodes replaced by a target routine so far.
func (d *Dispatcher) Lowered() int {
	return d.lowered
}

func (d *Dispatcher) grow() {
	for n := d.g.NumNodes(); len(d.states) < n; {
		d.states = append(d.states, StateUnvisited)
		d.replacements = append(d.replacements, nil)
	}
}

// State returns the lowering state of the node id.
func (d *Dispatcher) State(id ir.NodeID) State {
	d.grow()
	return d.states[id]
}

// Run lowers every live node of the graph marked ActionCustom, in creation order. Nodes created by the target
// are visited as well, so a routine may emit operations that need further lowering.
func (d *Dispatcher) Run() {
	if amdilapi.PrintGraphBeforeLowering {
		fmt.Printf("[[[before lowering]]]\n%s\n", ir.Format(d.g))
	}
	for i := 0; i < d.g.NumNodes(); i++ {
		id := ir.NodeID(i)
		if !d.g.IsLive(id) || d.State(id) != StateUnvisited {
			continue
		}
		if d.table.ActionOf(d.g.Node(id)) == ActionCustom {
			d.LowerNode(id)
		}
	}
	if amdilapi.PrintLoweredGraph {
		fmt.Printf("[[[after lowering]]]\n%s\n", ir.Format(d.g))
	}
	if amdilapi.GraphValidationEnabled {
		if err := ir.Validate(d.g); err != nil {
			panic(fmt.Sprintf("BUG: invalid graph after lowering %s: %v", d.g.Name(), err))
		}
	}
}

// LowerNode lowers the node id, which must be marked ActionCustom, and returns the values standing for its results.
// Lowering a node twice returns the replacement of the first time without touching the graph.
func (d *Dispatcher) LowerNode(id ir.NodeID) []ir.Value {
	d.grow()
	switch d.states[id] {
	case StateLowered:
		return d.replacements[id]
	case StateInProgress:
		panic(fmt.Sprintf("BUG: %s is lowered recursively", ir.FormatNode(d.g.Node(id))))
	}

	n := d.g.Node(id)
	if a := d.table.ActionOf(n); a != ActionCustom {
		panic(fmt.Sprintf("BUG: %s is %s, not custom", ir.FormatNode(n), a))
	}
	d.states[id] = StateInProgress

	// Operands first, so the routine sees the final form of its inputs.
	for _, in := range n.Inputs() {
		if d.State(in.ID()) == StateUnvisited && d.table.ActionOf(d.g.NodeOf(in)) == ActionCustom {
			d.LowerNode(in.ID())
		}
	}

	if d.listener != nil {
		d.listener.BeforeLower(n)
	}
	if amdilapi.DispatcherLoggingEnabled {
		fmt.Printf("--> lower %s\n", ir.FormatNode(n))
	}

	first := ir.NodeID(d.g.NumNodes())
	d.cursor.SetPos(n.Pos())
	replacement := d.target.LowerOperation(d.cursor, n)
	if replacement == nil {
		replacement = n.Results()
	}
	d.g.ReplaceNode(id, replacement)
	if order := n.Order(); order != 0 {
		for _, v := range replacement {
			d.propagateOrder(v, first, order)
		}
	}

	d.grow()
	d.states[id] = StateLowered
	d.replacements[id] = replacement
	if replacement[0] != n.Result(0) {
		d.lowered++
	}

	if amdilapi.DispatcherLoggingEnabled {
		fmt.Printf("<-- %s => %v\n", n.Result(0), replacement)
	}
	if d.listener != nil {
		d.listener.AfterLower(n, replacement)
	}
	return replacement
}

// propagateOrder tags v and, depth first, every input of v created at or after first that has no order yet.
func (d *Dispatcher) propagateOrder(v ir.Value, first ir.NodeID, order uint32) {
	stack := []ir.NodeID{v.ID()}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if id < first {
			continue
		}
		n := d.g.Node(id)
		if n.Order() != 0 {
			continue
		}
		n.SetOrder(order)
		for _, in := range n.Inputs() {
			stack = append(stack, in.ID())
		}
	}
}
