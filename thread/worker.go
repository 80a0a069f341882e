// Package thread implements the worker-thread adapter of §4.8: a lifecycle
// wrapper around a host.Handle that rejects concurrent Run calls and tracks
// whether a thread currently exists.
package thread

import (
	"sync"

	"github.com/joeycumines/go-rtcore/host"
	"github.com/joeycumines/go-rtcore/status"
)

// Worker is a single-thread lifecycle adapter: it holds the opaque thread
// handle behind an exclusive lock. The callback is handed to the spawned
// thread by Run and is not stored on the Worker. The zero value is ready
// to use.
type Worker struct {
	mu     sync.Mutex
	handle *host.Handle
}

// Run spawns a host thread that invokes callback, failing if a thread is
// already running under this adapter.
func (w *Worker) Run(callback func()) status.Code {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.handle != nil {
		return status.InvalidStateTransition
	}

	w.handle = host.Spawn(callback, host.SpawnOptions{})
	return status.OK
}

// Join blocks until the underlying thread has exited and releases the
// handle. Calling Join when no thread is running is a no-op.
func (w *Worker) Join() {
	w.mu.Lock()
	h := w.handle
	w.mu.Unlock()

	if h == nil {
		return
	}
	h.Join()

	w.mu.Lock()
	w.handle = nil
	w.mu.Unlock()
}

// IsJoinable reports whether a thread currently exists under this adapter.
func (w *Worker) IsJoinable() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.handle != nil
}
