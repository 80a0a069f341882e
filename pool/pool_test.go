package pool

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPool_EnqueueRunsCallback(t *testing.T) {
	p := New(WithInitialThreads(2), WithMaxThreads(2))
	defer p.Rundown()

	var wg sync.WaitGroup
	wg.Add(1)
	code := p.Enqueue(func() { wg.Done() }, func() { wg.Done() })
	require.True(t, code.Ok())

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("callback did not run")
	}
}

func TestPool_FanOutAcrossWorkers(t *testing.T) {
	p := New(WithInitialThreads(4), WithMaxThreads(4))
	defer p.Rundown()

	const n = 200
	var completed atomic.Int64
	var wg sync.WaitGroup
	wg.Add(n)

	for i := 0; i < n; i++ {
		code := p.Enqueue(func() {
			completed.Add(1)
			wg.Done()
		}, func() { wg.Done() })
		require.True(t, code.Ok())
	}

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("not all items completed")
	}
	assert.Equal(t, int64(n), completed.Load())
}

func TestPool_RundownDrainsRemainingWithRundownCallback(t *testing.T) {
	p := New(WithInitialThreads(1), WithMaxThreads(1))

	block := make(chan struct{})
	var rundownCalled atomic.Bool
	var normalCalled atomic.Bool

	// Occupy the single worker so the second item is still queued when
	// Rundown is invoked.
	require.True(t, p.Enqueue(func() { <-block }, func() {}).Ok())
	require.True(t, p.Enqueue(func() { normalCalled.Store(true) }, func() { rundownCalled.Store(true) }).Ok())

	time.Sleep(20 * time.Millisecond)
	go func() {
		time.Sleep(20 * time.Millisecond)
		close(block)
	}()
	p.Rundown()

	assert.True(t, rundownCalled.Load())
	assert.False(t, normalCalled.Load())
}

func TestPool_EnqueueAfterRundownFails(t *testing.T) {
	p := New(WithInitialThreads(1), WithMaxThreads(1))
	p.Rundown()

	code := p.Enqueue(func() {}, func() {})
	assert.False(t, code.Ok())
}
