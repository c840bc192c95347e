package ir

import (
	"fmt"
	"math"
)

// Cursor creates nodes in a Graph. It carries the source position attached to every node it creates, so
// emission routines receive their insertion state explicitly instead of reading it from the graph.
type Cursor struct {
	g   *Graph
	pos SourcePos
}

// NewCursor returns a Cursor creating nodes in g without a source position.
func NewCursor(g *Graph) *Cursor {
	return &Cursor{g: g, pos: SourcePosUnknown}
}

// Graph returns the graph this cursor creates nodes in.
func (c *Cursor) Graph() *Graph {
	return c.g
}

// Pos returns the current source position.
func (c *Cursor) Pos() SourcePos {
	return c.pos
}

// SetPos sets the source position attached to the following nodes.
func (c *Cursor) SetPos(pos SourcePos) {
	c.pos = pos
}

// EmitNode creates a node with any number of results.
func (c *Cursor) EmitNode(op Opcode, results []Type, aux uint64, inputs ...Value) *Node {
	return c.g.newNode(op, results, inputs, aux, c.pos)
}

// Emit creates a single result node and returns its result.
func (c *Cursor) Emit(op Opcode, typ Type, inputs ...Value) Value {
	return c.g.newNode(op, []Type{typ}, inputs, 0, c.pos).Result(0)
}

// EmitAux creates a single result node with an auxiliary payload and returns its result.
func (c *Cursor) EmitAux(op Opcode, typ Type, aux uint64, inputs ...Value) Value {
	return c.g.newNode(op, []Type{typ}, inputs, aux, c.pos).Result(0)
}

// Argument creates the index-th argument of the graph.
func (c *Cursor) Argument(typ Type, index int) Value {
	return c.EmitAux(OpcodeArgument, typ, uint64(index))
}

// Undef creates a value with unspecified contents.
func (c *Cursor) Undef(typ Type) Value {
	return c.Emit(OpcodeUndef, typ)
}

// Const creates an integer constant, replicated to every lane of a vector type. Bits above the lane width are
// dropped.
func (c *Cursor) Const(typ Type, bits uint64) Value {
	if !typ.IsInt() {
		panic(fmt.Sprintf("BUG: integer constant of type %s", typ))
	}
	if w := typ.Bits(); w < 64 {
		bits &= 1<<w - 1
	}
	return c.EmitAux(OpcodeConstant, typ, bits)
}

// ConstFloat creates a float constant, replicated to every lane of a vector type.
func (c *Cursor) ConstFloat(typ Type, v float64) Value {
	switch typ.Elem() {
	case TypeF32:
		return c.EmitAux(OpcodeConstantFP, typ, uint64(math.Float32bits(float32(v))))
	case TypeF64:
		return c.EmitAux(OpcodeConstantFP, typ, math.Float64bits(v))
	}
	panic(fmt.Sprintf("BUG: float constant of type %s", typ))
}

// Binary creates `op x, y` whose result has the type of x.
func (c *Cursor) Binary(op Opcode, x, y Value) Value {
	return c.Emit(op, x.Type(), x, y)
}

// Unary creates `op x` of the given result type.
func (c *Cursor) Unary(op Opcode, typ Type, x Value) Value {
	return c.Emit(op, typ, x)
}

// SetCC creates a target independent comparison.
func (c *Cursor) SetCC(typ Type, cond CondCode, x, y Value) Value {
	return c.EmitAux(OpcodeSetCC, typ, uint64(cond), x, y)
}

// SelectCC creates `select_cc x, y, t, f`.
func (c *Cursor) SelectCC(cond CondCode, x, y, t, f Value) Value {
	return c.EmitAux(OpcodeSelectCC, t.Type(), uint64(cond), x, y, t, f)
}

// ILCmp creates an AMDIL comparison producing all ones for true.
func (c *Cursor) ILCmp(typ Type, cond ILCond, x, y Value) Value {
	return c.EmitAux(OpcodeILCmp, typ, uint64(cond), x, y)
}

// Cmovlog creates a per lane select of t where cond is non zero, otherwise f.
func (c *Cursor) Cmovlog(cond, t, f Value) Value {
	return c.Emit(OpcodeILCmovLogical, t.Type(), cond, t, f)
}

// Register creates a reference to the physical register reg.
func (c *Cursor) Register(typ Type, reg uint32) Value {
	return c.EmitAux(OpcodeRegister, typ, uint64(reg))
}

// CopyFromReg reads reg after chain. The returned node has the results (value, chain, glue).
func (c *Cursor) CopyFromReg(chain Value, reg uint32, typ Type, glue Value) *Node {
	inputs := []Value{chain, c.Register(typ, reg)}
	if glue.Valid() {
		inputs = append(inputs, glue)
	}
	return c.EmitNode(OpcodeCopyFromReg, []Type{typ, TypeOther, TypeOther}, 0, inputs...)
}

// CopyToReg writes v to reg after chain. The returned node has the results (chain, glue).
func (c *Cursor) CopyToReg(chain Value, reg uint32, v Value, glue Value) *Node {
	inputs := []Value{chain, c.Register(v.Type(), reg), v}
	if glue.Valid() {
		inputs = append(inputs, glue)
	}
	return c.EmitNode(OpcodeCopyToReg, []Type{TypeOther, TypeOther}, 0, inputs...)
}

// MergeValues groups values into one node with one result per value.
func (c *Cursor) MergeValues(values ...Value) *Node {
	types := make([]Type, len(values))
	for i, v := range values {
		types[i] = v.Type()
	}
	return c.EmitNode(OpcodeMergeValues, types, 0, values...)
}
