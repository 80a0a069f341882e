package syncx

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRundown_AcquireReleaseBasic(t *testing.T) {
	var r Rundown
	require.True(t, r.Acquire())
	r.Release()
}

func TestRundown_WaitForReleaseBlocksNewAcquirers(t *testing.T) {
	var r Rundown
	require.True(t, r.Acquire())

	done := make(chan struct{})
	go func() {
		r.WaitForRelease()
		close(done)
	}()

	select {
	case <-done:
		t.Fatal("WaitForRelease returned before the outstanding reference was released")
	case <-time.After(50 * time.Millisecond):
	}

	assert.False(t, r.Acquire())

	r.Release()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("WaitForRelease did not return after the outstanding reference was released")
	}

	assert.True(t, r.IsRundown())
}

func TestRundown_ReleaseWithoutAcquirePanics(t *testing.T) {
	var r Rundown
	assert.Panics(t, func() { r.Release() })
}

func TestRundown_ConcurrentAcquireRelease(t *testing.T) {
	var r Rundown
	var wg sync.WaitGroup

	const goroutines = 32
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if r.Acquire() {
					r.Release()
				}
			}
		}()
	}
	wg.Wait()
	r.WaitForRelease()
	assert.True(t, r.IsRundown())
}
