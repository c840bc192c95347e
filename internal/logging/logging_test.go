package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/radeon-go/amdil/ir"
)

// TestLogScopes tests the bitset works as expected
func TestLogScopes(t *testing.T) {
	tests := []struct {
		name   string
		scopes LogScopes
	}{
		{
			name:   "conversion",
			scopes: LogScopeConversion,
		},
		{
			name:   "address",
			scopes: LogScopeAddress,
		},
	}

	for _, tt := range tests {
		tc := tt

		t.Run(tc.name, func(t *testing.T) {
			f := LogScopes(0)

			// Defaults to false
			require.False(t, f.IsEnabled(tc.scopes))

			// Set true makes it true
			f = f | tc.scopes
			require.True(t, f.IsEnabled(tc.scopes))

			// Set false makes it false again
			f = f ^ tc.scopes
			require.False(t, f.IsEnabled(tc.scopes))
		})
	}
}

func TestLogScopes_String(t *testing.T) {
	tests := []struct {
		name     string
		scopes   LogScopes
		expected string
	}{
		{name: "none", scopes: LogScopeNone, expected: ""},
		{name: "any", scopes: LogScopeAll, expected: "all"},
		{name: "conversion", scopes: LogScopeConversion, expected: "conversion"},
		{name: "division", scopes: LogScopeDivision, expected: "division"},
		{name: "vector|call", scopes: LogScopeVector | LogScopeCall, expected: "vector|call"},
	}

	for _, tt := range tests {
		tc := tt
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, tc.scopes.String())
		})
	}
}

func TestParseLogScopes(t *testing.T) {
	scopes, err := ParseLogScopes("vector, division")
	require.NoError(t, err)
	require.Equal(t, LogScopeVector|LogScopeDivision, scopes)

	scopes, err = ParseLogScopes("all")
	require.NoError(t, err)
	require.Equal(t, LogScopeAll, scopes)

	scopes, err = ParseLogScopes("")
	require.NoError(t, err)
	require.Equal(t, LogScopeNone, scopes)

	_, err = ParseLogScopes("vector,clock")
	require.EqualError(t, err, `unknown log scope "clock"`)
}

func TestScopeOf(t *testing.T) {
	require.Equal(t, LogScopeDivision, ScopeOf(ir.OpcodeSRem))
	require.Equal(t, LogScopeVector, ScopeOf(ir.OpcodeExtractSubvector))
	require.Equal(t, LogScopeConversion, ScopeOf(ir.OpcodeUIToFP))
	require.Equal(t, LogScopeNone, ScopeOf(ir.OpcodeAnd))
}

func TestWriteBeforeAfter(t *testing.T) {
	g := ir.NewGraph("f")
	c := ir.NewCursor(g)
	x := c.Argument(ir.TypeI32, 0)
	n := g.NodeOf(c.Binary(ir.OpcodeSDiv, x, x))
	replacement := c.Binary(ir.OpcodeAdd, x, x)

	var buf bytes.Buffer
	WriteBefore(&buf, n)
	WriteAfter(&buf, n, []ir.Value{replacement})
	require.Equal(t, "--> lower v2:i32 = sdiv v1, v1\n<-- v2 => v3\n", buf.String())
}
