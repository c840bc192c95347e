package amdil

import "github.com/radeon-go/amdil/ir"

// vinsert replaces lane k of vec with x. Byte i of the second mask names the source lane of vec, 1-based, and byte i
// of the third mask selects x instead.
func vinsert(c *ir.Cursor, vec, x ir.Value, k int) ir.Value {
	lane := uint64(0xff) << (8 * k)
	mask2 := c.Const(ir.TypeI32, 0x04030201&^lane)
	mask3 := c.Const(ir.TypeI32, 0x01010101&lane)
	return c.Emit(ir.OpcodeILVinsert, vec.Type(), vec, x, mask2, mask3)
}

func vextract(c *ir.Cursor, vec ir.Value, k int) ir.Value {
	return c.EmitAux(ir.OpcodeILVextract, vec.Type().Elem(), uint64(k+1), vec)
}

// laneEq returns all ones where the runtime index idx equals k.
func laneEq(c *ir.Cursor, idx ir.Value, k int) ir.Value {
	typ := idx.Type()
	return c.ILCmp(typ, ILCondOf(ir.CondEQ, typ), idx, c.Const(typ, uint64(k)))
}

func lowerBuildVector(c *ir.Cursor, n *ir.Node) ir.Value {
	typ, elems := n.ResultType(0), n.Inputs()
	splat := true
	for _, e := range elems[1:] {
		if e != elems[0] {
			splat = false
			break
		}
	}
	ret := c.Emit(ir.OpcodeILVbuild, typ, elems[0])
	if splat {
		return ret
	}
	g := c.Graph()
	for k, e := range elems {
		if k == 0 || isUndef(g, e) {
			continue
		}
		ret = vinsert(c, ret, e, k)
	}
	return ret
}

func lowerInsertVectorElt(c *ir.Cursor, n *ir.Node) ir.Value {
	vec, x, idx := n.Input(0), n.Input(1), n.Input(2)
	typ := vec.Type()
	g := c.Graph()
	if !typ.IsVector() || isUndef(g, x) {
		return vec
	}
	if k, ok := constOf(g, idx); ok {
		if k >= uint64(typ.Lanes()) {
			return vec
		}
		return vinsert(c, vec, x, int(k))
	}
	ret := vinsert(c, vec, x, 0)
	for k := 1; k < typ.Lanes(); k++ {
		cond := c.Emit(ir.OpcodeILVbuild, typ.WithElem(idx.Type().Elem()), laneEq(c, idx, k))
		ret = c.Cmovlog(cond, vinsert(c, vec, x, k), ret)
	}
	return ret
}

func lowerExtractVectorElt(c *ir.Cursor, n *ir.Node) ir.Value {
	vec, idx := n.Input(0), n.Input(1)
	typ := vec.Type()
	if !typ.IsVector() {
		return vec
	}
	g := c.Graph()
	if k, ok := constOf(g, idx); ok {
		if k >= uint64(typ.Lanes()) {
			return c.Undef(n.ResultType(0))
		}
		return vextract(c, vec, int(k))
	}
	ret := vextract(c, vec, 0)
	for k := 1; k < typ.Lanes(); k++ {
		ret = c.Cmovlog(laneEq(c, idx, k), vextract(c, vec, k), ret)
	}
	return ret
}

// lowerExtractSubvector builds the result lane by lane. Source lanes past the end of the vector are left
// unspecified.
func lowerExtractSubvector(c *ir.Cursor, n *ir.Node) ir.Value {
	src, idx := n.Input(0), n.Input(1)
	typ := n.ResultType(0)
	g := c.Graph()

	base, constant := constOf(g, idx)
	elem := func(k int) (ir.Value, bool) {
		if constant {
			s := base + uint64(k)
			if s >= uint64(src.Type().Lanes()) {
				return ir.ValueInvalid, false
			}
			return vextract(c, src, int(s)), true
		}
		i := idx
		if k > 0 {
			i = c.Binary(ir.OpcodeAdd, idx, c.Const(idx.Type(), uint64(k)))
		}
		return c.Emit(ir.OpcodeExtractVectorElt, typ.Elem(), src, i), true
	}

	if !typ.IsVector() {
		if e, ok := elem(0); ok {
			return e
		}
		return c.Undef(typ)
	}
	var ret ir.Value
	for k := 0; k < typ.Lanes(); k++ {
		e, ok := elem(k)
		if !ok {
			break
		}
		if k == 0 {
			ret = c.Emit(ir.OpcodeILVbuild, typ, e)
		} else {
			ret = vinsert(c, ret, e, k)
		}
	}
	if !ret.Valid() {
		return c.Undef(typ)
	}
	return ret
}
