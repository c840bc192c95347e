package ir

import "fmt"

// CondCode is a target independent comparison predicate carried by SetCC, SelectCC and BrCC.
//
// For integers, the plain predicates compare signed and the U* predicates compare unsigned. For floats, the plain
// predicates do not care about NaN ordering, the O* predicates are false when either operand is NaN and the U*
// predicates are true when either operand is NaN.
type CondCode byte

const (
	CondInvalid CondCode = iota
	// CondFalse is always false.
	CondFalse
	// CondEQ is equal.
	CondEQ
	// CondNE is not equal.
	CondNE
	// CondGT is (signed) greater than.
	CondGT
	// CondGE is (signed) greater than or equal.
	CondGE
	// CondLT is (signed) less than.
	CondLT
	// CondLE is (signed) less than or equal.
	CondLE
	// CondUEQ is unordered or equal.
	CondUEQ
	// CondUNE is unordered or not equal.
	CondUNE
	// CondUGT is unsigned (or unordered) greater than.
	CondUGT
	// CondUGE is unsigned (or unordered) greater than or equal.
	CondUGE
	// CondULT is unsigned (or unordered) less than.
	CondULT
	// CondULE is unsigned (or unordered) less than or equal.
	CondULE
	// CondO is true if neither float operand is NaN.
	CondO
	// CondUO is true if either float operand is NaN.
	CondUO
	// CondOEQ is ordered and equal.
	CondOEQ
	// CondONE is ordered and not equal.
	CondONE
	// CondOGT is ordered and greater than.
	CondOGT
	// CondOGE is ordered and greater than or equal.
	CondOGE
	// CondOLT is ordered and less than.
	CondOLT
	// CondOLE is ordered and less than or equal.
	CondOLE
	// CondTrue is always true.
	CondTrue

	condCodeEnd
)

var condCodeNames = [condCodeEnd]string{
	CondInvalid: "invalid",
	CondFalse:   "false",
	CondEQ:      "eq",
	CondNE:      "ne",
	CondGT:      "gt",
	CondGE:      "ge",
	CondLT:      "lt",
	CondLE:      "le",
	CondUEQ:     "ueq",
	CondUNE:     "une",
	CondUGT:     "ugt",
	CondUGE:     "uge",
	CondULT:     "ult",
	CondULE:     "ule",
	CondO:       "o",
	CondUO:      "uo",
	CondOEQ:     "oeq",
	CondONE:     "one",
	CondOGT:     "ogt",
	CondOGE:     "oge",
	CondOLT:     "olt",
	CondOLE:     "ole",
	CondTrue:    "true",
}

// String implements fmt.Stringer.
func (c CondCode) String() string {
	if c >= condCodeEnd {
		return fmt.Sprintf("cond(%d)", c)
	}
	return condCodeNames[c]
}

// ParseCondCode parses the textual form produced by CondCode.String.
func ParseCondCode(s string) (CondCode, error) {
	for c := CondFalse; c < condCodeEnd; c++ {
		if condCodeNames[c] == s {
			return c, nil
		}
	}
	return CondInvalid, fmt.Errorf("unknown condition code %q", s)
}

// CondCodeCount returns the number of condition codes, including CondInvalid.
func CondCodeCount() int {
	return int(condCodeEnd)
}
