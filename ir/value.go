package ir

import (
	"fmt"
	"math"
)

// NodeID identifies a Node within its Graph. It is the index of the node in the graph's arena.
type NodeID uint32

// NodeIDInvalid is the NodeID of no node.
const NodeIDInvalid NodeID = math.MaxUint32

// Value is one result of a Node together with its type.
//
// The lower 32-bit is the NodeID of the producer, the next 8-bit is the result number and the higher bits store the
// Type of the result.
type Value uint64

// ValueInvalid is the zero value of no result.
const ValueInvalid = Value(NodeIDInvalid)

const (
	valueResultShift = 32
	valueTypeShift   = 40
)

func newValue(id NodeID, result int, typ Type) Value {
	return Value(id) | Value(result)<<valueResultShift | Value(typ)<<valueTypeShift
}

// Valid returns true if this value is valid.
func (v Value) Valid() bool {
	return v.ID() != NodeIDInvalid
}

// ID returns the NodeID of the producer of this value.
func (v Value) ID() NodeID {
	return NodeID(v)
}

// Result returns the result number of this value in its producer.
func (v Value) Result() int {
	return int(byte(v >> valueResultShift))
}

// Type returns the Type of this value.
func (v Value) Type() Type {
	return Type(v >> valueTypeShift)
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if !v.Valid() {
		return "invalid"
	}
	if r := v.Result(); r != 0 {
		return fmt.Sprintf("v%d#%d", v.ID(), r)
	}
	return fmt.Sprintf("v%d", v.ID())
}

func (v Value) formatWithType() string {
	return fmt.Sprintf("%s:%s", v, v.Type())
}
