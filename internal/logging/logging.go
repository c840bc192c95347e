// Package logging includes utilities used to log lowered nodes. This is in
// an independent package to avoid dependency cycles.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/radeon-go/amdil/ir"
)

// LogScopes selects the families of lowered operations that are logged.
type LogScopes uint64

const (
	LogScopeNone                 = LogScopes(0)
	LogScopeConversion LogScopes = 1 << iota
	LogScopeInteger
	LogScopeDivision
	LogScopeVector
	LogScopeCompare
	LogScopeCall
	LogScopeAddress
	LogScopeAll = LogScopes(0xffffffffffffffff)
)

func scopeName(s LogScopes) string {
	switch s {
	case LogScopeConversion:
		return "conversion"
	case LogScopeInteger:
		return "integer"
	case LogScopeDivision:
		return "division"
	case LogScopeVector:
		return "vector"
	case LogScopeCompare:
		return "compare"
	case LogScopeCall:
		return "call"
	case LogScopeAddress:
		return "address"
	default:
		return fmt.Sprintf("<unknown=%d>", s)
	}
}

// IsEnabled returns true if the scope (or group of scopes) is enabled.
func (f LogScopes) IsEnabled(scope LogScopes) bool {
	return f&scope != 0
}

// String implements fmt.Stringer by returning each enabled log scope.
func (f LogScopes) String() string {
	if f == LogScopeAll {
		return "all"
	}
	var builder strings.Builder
	for i := 1; i <= 7; i++ {
		target := LogScopes(1 << i)
		if f.IsEnabled(target) {
			if builder.Len() > 0 {
				builder.WriteByte('|')
			}
			builder.WriteString(scopeName(target))
		}
	}
	return builder.String()
}

// ParseLogScopes parses a comma separated list of scope names, e.g. "vector,division". "all" enables every scope.
func ParseLogScopes(s string) (LogScopes, error) {
	var ret LogScopes
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		if field == "all" {
			return LogScopeAll, nil
		}
		found := false
		for i := 1; i <= 7; i++ {
			if target := LogScopes(1 << i); scopeName(target) == field {
				ret |= target
				found = true
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown log scope %q", field)
		}
	}
	return ret, nil
}

// ScopeOf returns the scope lowering of op is logged under.
func ScopeOf(op ir.Opcode) LogScopes {
	switch op {
	case ir.OpcodeFPToSI, ir.OpcodeFPToUI, ir.OpcodeSIToFP, ir.OpcodeUIToFP, ir.OpcodeFPRound,
		ir.OpcodeSignExtendInReg:
		return LogScopeConversion
	case ir.OpcodeAdd, ir.OpcodeSub, ir.OpcodeMul, ir.OpcodeCtlz:
		return LogScopeInteger
	case ir.OpcodeSDiv, ir.OpcodeUDiv, ir.OpcodeSRem, ir.OpcodeURem, ir.OpcodeFDiv:
		return LogScopeDivision
	case ir.OpcodeBuildVector, ir.OpcodeInsertVectorElt, ir.OpcodeExtractVectorElt, ir.OpcodeExtractSubvector,
		ir.OpcodeScalarToVector, ir.OpcodeConcatVectors:
		return LogScopeVector
	case ir.OpcodeSetCC, ir.OpcodeSelectCC, ir.OpcodeSelect, ir.OpcodeBrCond, ir.OpcodeBrCC:
		return LogScopeCompare
	case ir.OpcodeDynamicStackAlloc:
		return LogScopeCall
	case ir.OpcodeGlobalAddress, ir.OpcodeJumpTable, ir.OpcodeConstantPool, ir.OpcodeExternalSymbol:
		return LogScopeAddress
	}
	return LogScopeNone
}

type Writer interface {
	io.Writer
	io.StringWriter
	io.ByteWriter
}

// WriteBefore writes the line announcing the lowering of n, e.g. `--> lower v7:i8 = sdiv v1, v2`.
func WriteBefore(w Writer, n *ir.Node) {
	w.WriteString("--> lower ") //nolint
	w.WriteString(ir.FormatNode(n)) //nolint
	w.WriteByte('\n') //nolint
}

// WriteAfter writes the line reporting the replacement of n, e.g. `<-- v7 => v31`.
func WriteAfter(w Writer, n *ir.Node, replacement []ir.Value) {
	w.WriteString("<-- ") //nolint
	w.WriteString(n.Result(0).String()) //nolint
	w.WriteString(" => ") //nolint
	for i, v := range replacement {
		if i > 0 {
			w.WriteString(", ") //nolint
		}
		w.WriteString(v.String()) //nolint
	}
	w.WriteByte('\n') //nolint
}
