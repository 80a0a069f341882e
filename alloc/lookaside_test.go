package alloc

import (
	"sync"
	"testing"

	"github.com/joeycumines/go-rtcore/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookaside_AllocateRejectsOversize(t *testing.T) {
	l := NewLookaside(64, 8, false, provider.OS)
	_, code := l.Allocate(128)
	assert.False(t, code.Ok())
}

func TestLookaside_FreeThenReuse(t *testing.T) {
	l := NewLookaside(64, 8, false, provider.OS)

	buf, code := l.Allocate(64)
	require.True(t, code.Ok())
	for i := range buf {
		buf[i] = 0xff
	}
	l.Free(buf)

	require.Equal(t, int32(1), l.CurrentCachedElements())

	buf2, code := l.Allocate(64)
	require.True(t, code.Ok())
	for _, b := range buf2 {
		assert.Equal(t, byte(0), b)
	}
}

func TestLookaside_RespectsMaxCachedElements(t *testing.T) {
	l := NewLookaside(64, 2, false, provider.OS)

	var bufs [5][]byte
	for i := range bufs {
		buf, code := l.Allocate(64)
		require.True(t, code.Ok())
		bufs[i] = buf
	}
	for _, buf := range bufs {
		l.Free(buf)
	}

	assert.LessOrEqual(t, l.CurrentCachedElements(), int32(2))
}

func TestLookaside_Deinitialize(t *testing.T) {
	l := NewLookaside(64, 8, false, provider.OS)
	buf, _ := l.Allocate(64)
	l.Free(buf)
	l.Deinitialize()
	assert.Equal(t, int32(0), l.CurrentCachedElements())
}

func TestLookaside_ConcurrentAllocateFree(t *testing.T) {
	l := NewLookaside(64, 16, false, provider.OS)
	var wg sync.WaitGroup

	const goroutines = 16
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				buf, code := l.Allocate(64)
				require.True(t, code.Ok())
				l.Free(buf)
			}
		}()
	}
	wg.Wait()
}
