package ptr

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShared_InitialRefCountIsOne(t *testing.T) {
	s := NewShared(10, nil)
	assert.Equal(t, int32(1), s.RefCount())
}

func TestShared_CloneIncrementsAndReleaseDecrements(t *testing.T) {
	s := NewShared(10, nil)
	c := s.Clone()

	assert.Equal(t, int32(2), s.RefCount())
	c.Release()
	assert.Equal(t, int32(1), s.RefCount())
}

func TestShared_TerminalReleaseRunsDestructor(t *testing.T) {
	destroyed := false
	s := NewShared(10, func(*int) { destroyed = true })
	c := s.Clone()

	s.Release()
	assert.False(t, destroyed)

	c.Release()
	assert.True(t, destroyed)
}

func TestShared_ConcurrentCloneRelease(t *testing.T) {
	var destructions int
	var mu sync.Mutex

	s := NewShared(5, func(*int) {
		mu.Lock()
		destructions++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	const goroutines = 32
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			c := s.Clone()
			c.Release()
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), s.RefCount())
	s.Release()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, destructions)
}
