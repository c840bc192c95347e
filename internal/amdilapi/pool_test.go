package amdilapi

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPool(t *testing.T) {
	p := NewPool[uint64]()
	require.Equal(t, 0, p.Allocated())

	ptrs := make([]*uint64, 0, poolPageSize*3)
	for i := 0; i < poolPageSize*3; i++ {
		idx, v := p.Allocate()
		require.Equal(t, i, idx)
		*v = uint64(i)
		ptrs = append(ptrs, v)
	}
	require.Equal(t, poolPageSize*3, p.Allocated())

	// Pointers handed out earlier stay valid across page growth.
	for i, ptr := range ptrs {
		require.Equal(t, uint64(i), *ptr)
		require.Same(t, ptr, p.View(i))
	}

	idx, v := p.Allocate()
	require.Equal(t, poolPageSize*3, idx)
	require.Equal(t, uint64(0), *v)
	require.Equal(t, 4, len(p.pages))
}

func TestPool_ViewOutOfRange(t *testing.T) {
	p := NewPool[int]()
	p.Allocate()
	require.Panics(t, func() { p.View(1) })
	require.Panics(t, func() { p.View(-1) })
}
