package host

import "runtime"

// Handle is the opaque host-thread handle returned by Spawn. It is the Go
// realization of the "opaque platform handle" design note: the abstraction
// (goroutine + optional OS thread pin) is chosen at construction, not
// per-call.
type Handle struct {
	done chan struct{}
}

// Join blocks until the spawned function has returned.
func (h *Handle) Join() {
	<-h.done
}

// SpawnOptions configures Spawn.
type SpawnOptions struct {
	// PinOSThread requests runtime.LockOSThread for the duration of entry,
	// for callers that need OS-thread affinity for the lifetime of the
	// callback -- grounded on the
	// teacher's LockOSThread/UnlockOSThread bracket in eventloop's run().
	PinOSThread bool
}

// Spawn starts entry on a new goroutine (optionally pinned to its own OS
// thread) and returns a Handle that can be Join()ed. This is the
// `SpawnThread(entry, arg) -> handle|error` collaborator of §6; Go has no
// failure mode for starting a goroutine, so Spawn never returns an error,
// unlike its native-thread counterpart.
func Spawn(entry func(), opts SpawnOptions) *Handle {
	h := &Handle{done: make(chan struct{})}
	go func() {
		defer close(h.done)
		if opts.PinOSThread {
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
		}
		entry()
	}()
	return h
}

// YieldProcessor relinquishes the current OS thread's timeslice without
// sleeping, used by the busy lock on CAS contention, by the shared
// pointer's saturated-counter spin, and between critical allocation
// retries in the memory provider.
func YieldProcessor() {
	runtime.Gosched()
}
