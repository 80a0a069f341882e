package alloc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type typedProbe struct {
	value int
}

func TestTypedLookaside_AllocateReuse(t *testing.T) {
	l := NewTypedLookaside(4, func() *typedProbe { return &typedProbe{} }, func(p *typedProbe) { p.value = 0 })

	p1 := l.Allocate()
	p1.value = 99
	l.Free(p1)

	require.Equal(t, int32(1), l.CurrentCachedElements())

	p2 := l.Allocate()
	assert.Same(t, p1, p2)
	assert.Equal(t, 0, p2.value)
}

func TestTypedLookaside_BoundedCache(t *testing.T) {
	l := NewTypedLookaside(2, func() *typedProbe { return &typedProbe{} }, nil)

	var probes []*typedProbe
	for i := 0; i < 5; i++ {
		probes = append(probes, l.Allocate())
	}
	for _, p := range probes {
		l.Free(p)
	}

	assert.LessOrEqual(t, l.CurrentCachedElements(), int32(2))
}
