package ir

import "fmt"

// ILCond is an AMDIL comparison condition, the payload of OpcodeILCmp. The integer, float, double and 64-bit
// integer families are distinct because the instruction set encodes them as different instructions.
type ILCond byte

const (
	ILCondInvalid ILCond = iota

	ILCondIEQ
	ILCondINE
	ILCondIGT
	ILCondIGE
	ILCondILT
	ILCondILE

	ILCondUEQ
	ILCondUNE
	ILCondUGT
	ILCondUGE
	ILCondULT
	ILCondULE

	ILCondFEQ
	ILCondFNE
	ILCondFGT
	ILCondFGE
	ILCondFLT
	ILCondFLE
	ILCondFO
	ILCondFUO
	ILCondFOEQ
	ILCondFONE
	ILCondFOGT
	ILCondFOGE
	ILCondFOLT
	ILCondFOLE
	ILCondFUEQ
	ILCondFUNE
	ILCondFUGT
	ILCondFUGE
	ILCondFULT
	ILCondFULE

	ILCondDEQ
	ILCondDNE
	ILCondDGT
	ILCondDGE
	ILCondDLT
	ILCondDLE
	ILCondDO
	ILCondDUO
	ILCondDOEQ
	ILCondDONE
	ILCondDOGT
	ILCondDOGE
	ILCondDOLT
	ILCondDOLE
	ILCondDUEQ
	ILCondDUNE
	ILCondDUGT
	ILCondDUGE
	ILCondDULT
	ILCondDULE

	ILCondLEQ
	ILCondLNE
	ILCondLGT
	ILCondLGE
	ILCondLLT
	ILCondLLE

	ILCondULEQ
	ILCondULNE
	ILCondULGT
	ILCondULGE
	ILCondULLT
	ILCondULLE

	ilCondEnd
)

// ILCondFamily is the operand family an ILCond compares.
type ILCondFamily byte

const (
	ILCondFamilyInvalid ILCondFamily = iota
	// ILCondFamilySigned compares 32-bit (or narrower) lanes as signed integers.
	ILCondFamilySigned
	// ILCondFamilyUnsigned compares 32-bit (or narrower) lanes as unsigned integers.
	ILCondFamilyUnsigned
	// ILCondFamilyFloat compares f32 lanes.
	ILCondFamilyFloat
	// ILCondFamilyDouble compares f64 lanes.
	ILCondFamilyDouble
	// ILCondFamilyLong compares i64 lanes as signed integers.
	ILCondFamilyLong
	// ILCondFamilyULong compares i64 lanes as unsigned integers.
	ILCondFamilyULong
)

type ilCondInfo struct {
	name   string
	family ILCondFamily
	// pred is the target independent predicate the condition evaluates within its family.
	pred CondCode
}

var ilConds = [ilCondEnd]ilCondInfo{
	ILCondInvalid: {name: "invalid"},

	ILCondIEQ: {"i_eq", ILCondFamilySigned, CondEQ},
	ILCondINE: {"i_ne", ILCondFamilySigned, CondNE},
	ILCondIGT: {"i_gt", ILCondFamilySigned, CondGT},
	ILCondIGE: {"i_ge", ILCondFamilySigned, CondGE},
	ILCondILT: {"i_lt", ILCondFamilySigned, CondLT},
	ILCondILE: {"i_le", ILCondFamilySigned, CondLE},

	ILCondUEQ: {"u_eq", ILCondFamilyUnsigned, CondEQ},
	ILCondUNE: {"u_ne", ILCondFamilyUnsigned, CondNE},
	ILCondUGT: {"u_gt", ILCondFamilyUnsigned, CondUGT},
	ILCondUGE: {"u_ge", ILCondFamilyUnsigned, CondUGE},
	ILCondULT: {"u_lt", ILCondFamilyUnsigned, CondULT},
	ILCondULE: {"u_le", ILCondFamilyUnsigned, CondULE},

	ILCondFEQ:  {"f_eq", ILCondFamilyFloat, CondEQ},
	ILCondFNE:  {"f_ne", ILCondFamilyFloat, CondNE},
	ILCondFGT:  {"f_gt", ILCondFamilyFloat, CondGT},
	ILCondFGE:  {"f_ge", ILCondFamilyFloat, CondGE},
	ILCondFLT:  {"f_lt", ILCondFamilyFloat, CondLT},
	ILCondFLE:  {"f_le", ILCondFamilyFloat, CondLE},
	ILCondFO:   {"f_o", ILCondFamilyFloat, CondO},
	ILCondFUO:  {"f_uo", ILCondFamilyFloat, CondUO},
	ILCondFOEQ: {"f_oeq", ILCondFamilyFloat, CondOEQ},
	ILCondFONE: {"f_one", ILCondFamilyFloat, CondONE},
	ILCondFOGT: {"f_ogt", ILCondFamilyFloat, CondOGT},
	ILCondFOGE: {"f_oge", ILCondFamilyFloat, CondOGE},
	ILCondFOLT: {"f_olt", ILCondFamilyFloat, CondOLT},
	ILCondFOLE: {"f_ole", ILCondFamilyFloat, CondOLE},
	ILCondFUEQ: {"f_ueq", ILCondFamilyFloat, CondUEQ},
	ILCondFUNE: {"f_une", ILCondFamilyFloat, CondUNE},
	ILCondFUGT: {"f_ugt", ILCondFamilyFloat, CondUGT},
	ILCondFUGE: {"f_uge", ILCondFamilyFloat, CondUGE},
	ILCondFULT: {"f_ult", ILCondFamilyFloat, CondULT},
	ILCondFULE: {"f_ule", ILCondFamilyFloat, CondULE},

	ILCondDEQ:  {"d_eq", ILCondFamilyDouble, CondEQ},
	ILCondDNE:  {"d_ne", ILCondFamilyDouble, CondNE},
	ILCondDGT:  {"d_gt", ILCondFamilyDouble, CondGT},
	ILCondDGE:  {"d_ge", ILCondFamilyDouble, CondGE},
	ILCondDLT:  {"d_lt", ILCondFamilyDouble, CondLT},
	ILCondDLE:  {"d_le", ILCondFamilyDouble, CondLE},
	ILCondDO:   {"d_o", ILCondFamilyDouble, CondO},
	ILCondDUO:  {"d_uo", ILCondFamilyDouble, CondUO},
	ILCondDOEQ: {"d_oeq", ILCondFamilyDouble, CondOEQ},
	ILCondDONE: {"d_one", ILCondFamilyDouble, CondONE},
	ILCondDOGT: {"d_ogt", ILCondFamilyDouble, CondOGT},
	ILCondDOGE: {"d_oge", ILCondFamilyDouble, CondOGE},
	ILCondDOLT: {"d_olt", ILCondFamilyDouble, CondOLT},
	ILCondDOLE: {"d_ole", ILCondFamilyDouble, CondOLE},
	ILCondDUEQ: {"d_ueq", ILCondFamilyDouble, CondUEQ},
	ILCondDUNE: {"d_une", ILCondFamilyDouble, CondUNE},
	ILCondDUGT: {"d_ugt", ILCondFamilyDouble, CondUGT},
	ILCondDUGE: {"d_uge", ILCondFamilyDouble, CondUGE},
	ILCondDULT: {"d_ult", ILCondFamilyDouble, CondULT},
	ILCondDULE: {"d_ule", ILCondFamilyDouble, CondULE},

	ILCondLEQ: {"l_eq", ILCondFamilyLong, CondEQ},
	ILCondLNE: {"l_ne", ILCondFamilyLong, CondNE},
	ILCondLGT: {"l_gt", ILCondFamilyLong, CondGT},
	ILCondLGE: {"l_ge", ILCondFamilyLong, CondGE},
	ILCondLLT: {"l_lt", ILCondFamilyLong, CondLT},
	ILCondLLE: {"l_le", ILCondFamilyLong, CondLE},

	ILCondULEQ: {"ul_eq", ILCondFamilyULong, CondEQ},
	ILCondULNE: {"ul_ne", ILCondFamilyULong, CondNE},
	ILCondULGT: {"ul_gt", ILCondFamilyULong, CondUGT},
	ILCondULGE: {"ul_ge", ILCondFamilyULong, CondUGE},
	ILCondULLT: {"ul_lt", ILCondFamilyULong, CondULT},
	ILCondULLE: {"ul_le", ILCondFamilyULong, CondULE},
}

// String implements fmt.Stringer.
func (c ILCond) String() string {
	if c >= ilCondEnd {
		return fmt.Sprintf("ilcond(%d)", c)
	}
	return ilConds[c].name
}

// Family returns the operand family compared by this condition.
func (c ILCond) Family() ILCondFamily {
	if c >= ilCondEnd {
		return ILCondFamilyInvalid
	}
	return ilConds[c].family
}

// Predicate returns the predicate evaluated within the family. For the unsigned families this is expressed with
// the U* predicates where ordering matters.
func (c ILCond) Predicate() CondCode {
	if c >= ilCondEnd {
		return CondInvalid
	}
	return ilConds[c].pred
}
