package ir

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValue(t *testing.T) {
	v := newValue(1234, 2, TypeV4F32)
	require.True(t, v.Valid())
	require.Equal(t, NodeID(1234), v.ID())
	require.Equal(t, 2, v.Result())
	require.Equal(t, TypeV4F32, v.Type())
	require.Equal(t, "v1234#2", v.String())
	require.Equal(t, "v1234#2:v4f32", v.formatWithType())

	v = newValue(7, 0, TypeI32)
	require.Equal(t, "v7", v.String())

	require.False(t, ValueInvalid.Valid())
	require.Equal(t, "invalid", ValueInvalid.String())
}
