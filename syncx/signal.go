package syncx

import (
	"time"

	"github.com/joeycumines/go-rtcore/host"
)

// Signal is the collaborator-facing wrapper of §4.4 around the host's wait
// primitive: Create(manual) allocates the event, Set/Reset/Wait map
// directly onto it. The indirection exists so callers depend on syncx
// (the data-model layer) rather than reaching into host directly, mirroring
// how the reference implementation layers xpf::Signal over the platform
// Signal implementation.
type Signal struct {
	event *host.Event
}

// NewSignal creates a Signal in the unsignaled state.
func NewSignal(manualReset bool) *Signal {
	return &Signal{event: host.NewEvent(manualReset)}
}

// Set transitions the signal to signaled.
func (s *Signal) Set() { s.event.Set() }

// Reset forces the signal to unsignaled.
func (s *Signal) Reset() { s.event.Reset() }

// Wait blocks up to timeout and reports whether the signal was observed (and,
// for auto-reset signals, consumed) signaled.
func (s *Signal) Wait(timeout time.Duration) bool { return s.event.Wait(timeout) }

// WaitForever blocks until Set is called, with no timeout.
func (s *Signal) WaitForever() { s.event.WaitIndefinite() }

// IsSignaled reports the current state without consuming it.
func (s *Signal) IsSignaled() bool { return s.event.IsSignaled() }
