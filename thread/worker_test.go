package thread

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorker_RunAndJoin(t *testing.T) {
	var w Worker
	var ran atomic.Bool

	code := w.Run(func() {
		time.Sleep(10 * time.Millisecond)
		ran.Store(true)
	})
	require.True(t, code.Ok())
	assert.True(t, w.IsJoinable())

	w.Join()

	assert.True(t, ran.Load())
	assert.False(t, w.IsJoinable())
}

func TestWorker_RunWhileRunningFails(t *testing.T) {
	var w Worker
	release := make(chan struct{})

	code := w.Run(func() { <-release })
	require.True(t, code.Ok())

	code = w.Run(func() {})
	assert.False(t, code.Ok())

	close(release)
	w.Join()
}

func TestWorker_CanRunAgainAfterJoin(t *testing.T) {
	var w Worker
	require.True(t, w.Run(func() {}).Ok())
	w.Join()

	require.True(t, w.Run(func() {}).Ok())
	w.Join()
}
