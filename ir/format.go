package ir

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Format returns the textual representation of the live part of g: every node reachable from the root and the
// outputs, inputs before consumers.
func Format(g *Graph) string {
	var sb strings.Builder
	sb.WriteString("graph ")
	sb.WriteString(g.name)
	sb.WriteString(":\n")
	for _, id := range LiveNodes(g) {
		sb.WriteByte('\t')
		sb.WriteString(FormatNode(g.Node(id)))
		sb.WriteByte('\n')
	}
	sb.WriteString("\troot ")
	sb.WriteString(g.root.String())
	if len(g.outputs) > 0 {
		sb.WriteString("\n\toutputs ")
		for i, v := range g.outputs {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(v.String())
		}
	}
	sb.WriteByte('\n')
	return sb.String()
}

// LiveNodes returns the ids of the nodes reachable from the root and the outputs of g, every node after all the
// nodes it uses. Nodes that do not depend on each other keep their creation order.
func LiveNodes(g *Graph) []NodeID {
	visited := make([]bool, g.NumNodes())
	var ret []NodeID
	type frame struct {
		id   NodeID
		next int
	}
	var stack []frame
	visit := func(v Value) {
		if visited[v.ID()] {
			return
		}
		visited[v.ID()] = true
		stack = append(stack, frame{id: v.ID()})
		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			inputs := g.Node(top.id).inputs
			if top.next < len(inputs) {
				in := inputs[top.next]
				top.next++
				if !visited[in.ID()] {
					visited[in.ID()] = true
					stack = append(stack, frame{id: in.ID()})
				}
				continue
			}
			ret = append(ret, top.id)
			stack = stack[:len(stack)-1]
		}
	}
	visit(g.root)
	for _, out := range g.outputs {
		visit(out)
	}
	return ret
}

// FormatNode returns the textual representation of n, e.g. `v12:i32 = add v3, v4`.
func FormatNode(n *Node) string {
	var sb strings.Builder
	for i := range n.results {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(n.Result(i).formatWithType())
	}
	sb.WriteString(" = ")
	sb.WriteString(n.opcode.String())

	args := make([]string, 0, len(n.inputs)+1)
	if n.opcode < opcodeEnd {
		if aux := formatAux(n); aux != "" {
			args = append(args, aux)
		}
	}
	for _, in := range n.inputs {
		args = append(args, in.String())
	}
	if len(args) > 0 {
		sb.WriteByte(' ')
		sb.WriteString(strings.Join(args, ", "))
	}
	if n.order != 0 {
		fmt.Fprintf(&sb, " @%d", n.order)
	}
	return sb.String()
}

func formatAux(n *Node) string {
	switch opcodeAux[n.opcode] {
	case auxInt:
		if n.opcode == OpcodeArgument || n.opcode == OpcodeRegister {
			return strconv.FormatUint(n.aux, 10)
		}
		return fmt.Sprintf("%#x", n.aux)
	case auxFloat:
		if n.results[0].Elem() == TypeF32 {
			return strconv.FormatFloat(float64(math.Float32frombits(uint32(n.aux))), 'g', -1, 32)
		}
		return strconv.FormatFloat(math.Float64frombits(n.aux), 'g', -1, 64)
	case auxCond:
		return CondCode(n.aux).String()
	case auxILCond:
		return ILCond(n.aux).String()
	case auxType:
		return Type(n.aux).String()
	case auxLane:
		return "lane" + strconv.FormatUint(n.aux, 10)
	}
	return ""
}
