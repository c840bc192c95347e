package backend

import (
	"fmt"

	"github.com/radeon-go/amdil/ir"
)

// Action is what legalization does with an (opcode, type) pair.
type Action byte

const (
	// ActionLegal means the target supports the operation natively.
	ActionLegal Action = iota
	// ActionCustom means the target lowers the operation with its own routine.
	ActionCustom
	// ActionExpand means a separate, target independent expansion pass rewrites the operation.
	ActionExpand
)

// String implements fmt.Stringer.
func (a Action) String() string {
	switch a {
	case ActionLegal:
		return "legal"
	case ActionCustom:
		return "custom"
	case ActionExpand:
		return "expand"
	default:
		return fmt.Sprintf("action(%d)", byte(a))
	}
}

const (
	// typeSlotLanes is the number of lane encodings of ir.Type: 0 for scalars, then 1 to 4.
	typeSlotLanes = 5
	typeSlots     = 16 * typeSlotLanes
)

func typeSlot(t ir.Type) int {
	lanes := 0
	if t.IsVector() {
		lanes = t.Lanes()
	}
	slot := int(t.Elem())*typeSlotLanes + lanes
	if slot >= typeSlots {
		panic(fmt.Sprintf("BUG: type %s has no legalization slot", t))
	}
	return slot
}

// LegalizeTable maps every (opcode, type) pair to an Action. It is built once per device and only read during
// lowering, so it can be shared between goroutines lowering different graphs.
type LegalizeTable struct {
	actions []Action
	// registered is set for the types that have a register class.
	registered [typeSlots]bool
}

// NewLegalizeTable returns a table where every operation is legal on every registered type.
func NewLegalizeTable() *LegalizeTable {
	return &LegalizeTable{actions: make([]Action, ir.OpcodeCount()*typeSlots)}
}

// AddRegisterType marks typ as having a register class. Operations on other types are always ActionExpand.
func (t *LegalizeTable) AddRegisterType(typ ir.Type) {
	t.registered[typeSlot(typ)] = true
}

// HasRegisterType returns true if typ has a register class.
func (t *LegalizeTable) HasRegisterType(typ ir.Type) bool {
	return t.registered[typeSlot(typ)]
}

// Set sets the action of op on typ.
func (t *LegalizeTable) Set(op ir.Opcode, typ ir.Type, a Action) {
	t.actions[int(op)*typeSlots+typeSlot(typ)] = a
}

// SetAll sets the action of op on every type of types.
func (t *LegalizeTable) SetAll(op ir.Opcode, types []ir.Type, a Action) {
	for _, typ := range types {
		t.Set(op, typ, a)
	}
}

// Action returns the action of op on typ.
func (t *LegalizeTable) Action(op ir.Opcode, typ ir.Type) Action {
	if typ != ir.TypeOther && !t.registered[typeSlot(typ)] {
		return ActionExpand
	}
	return t.actions[int(op)*typeSlots+typeSlot(typ)]
}

// ActionOf returns the action of the node n, looked up with KeyType(n).
func (t *LegalizeTable) ActionOf(n *ir.Node) Action {
	return t.Action(n.Opcode(), KeyType(n))
}

// KeyType returns the type the legality of n depends on. This is the first result type, except for the
// operations whose support depends on an operand.
func KeyType(n *ir.Node) ir.Type {
	switch n.Opcode() {
	case ir.OpcodeSIToFP, ir.OpcodeUIToFP, ir.OpcodeSetCC, ir.OpcodeSelectCC:
		return n.Input(0).Type()
	case ir.OpcodeBrCC:
		// chain, x, y, block.
		return n.Input(1).Type()
	case ir.OpcodeBrCond, ir.OpcodeBr, ir.OpcodeBrInd, ir.OpcodeTokenFactor, ir.OpcodeStore,
		ir.OpcodeCallSeqStart, ir.OpcodeCallSeqEnd:
		return ir.TypeOther
	}
	return n.ResultType(0)
}
