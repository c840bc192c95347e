package ir

import (
	"errors"
	"fmt"
)

// Validate checks the structural invariants of g: every input refers to an existing result of the declared type,
// the live part of the graph is acyclic and use counts agree with the references.
func Validate(g *Graph) error {
	var errs []error
	uses := make([]uint32, g.NumNodes())
	for i := 0; i < g.NumNodes(); i++ {
		n := g.Node(NodeID(i))
		for j, in := range n.inputs {
			if err := checkRef(g, in); err != nil {
				errs = append(errs, fmt.Errorf("input #%d of %s: %w", j, FormatNode(n), err))
				continue
			}
			uses[in.ID()]++
		}
	}
	for _, v := range append([]Value{g.root}, g.outputs...) {
		if err := checkRef(g, v); err != nil {
			errs = append(errs, fmt.Errorf("root or output: %w", err))
			continue
		}
		uses[v.ID()]++
	}
	for i, u := range uses {
		if n := g.Node(NodeID(i)); n.uses != u {
			errs = append(errs, fmt.Errorf("%s: use count %d but %d references", FormatNode(n), n.uses, u))
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	position := make([]int, g.NumNodes())
	for i := range position {
		position[i] = -1
	}
	for i, id := range LiveNodes(g) {
		position[id] = i
	}
	for _, id := range LiveNodes(g) {
		n := g.Node(id)
		for _, in := range n.inputs {
			if position[in.ID()] >= position[id] {
				errs = append(errs, fmt.Errorf("cycle through %s", FormatNode(n)))
			}
		}
	}
	return errors.Join(errs...)
}

func checkRef(g *Graph, v Value) error {
	if !v.Valid() {
		return errors.New("invalid value")
	}
	if int(v.ID()) >= g.NumNodes() {
		return fmt.Errorf("%s does not exist", v)
	}
	n := g.Node(v.ID())
	if v.Result() >= len(n.results) {
		return fmt.Errorf("%s: %s has %d results", v, n.opcode, len(n.results))
	}
	if n.results[v.Result()] != v.Type() {
		return fmt.Errorf("%s: type %s, defined as %s", v, v.Type(), n.results[v.Result()])
	}
	return nil
}
