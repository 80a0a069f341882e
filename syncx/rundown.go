package syncx

import (
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-rtcore/internal/xplog"
	"github.com/joeycumines/go-rtcore/status"
)

const (
	rundownActive    uint64 = 1
	rundownIncrement uint64 = 2
)

// Rundown is the rundown-protection primitive of §4.5: callers Acquire
// before touching a shared object and Release when done; once WaitForRelease
// has been called, every future Acquire fails, and WaitForRelease itself
// blocks until every already-acquired reference has been Released. Grounded
// on RundownProtection.cpp, whose single 64-bit word packs an "active" flag
// in bit 0 and a reference count in the remaining bits, incremented and
// decremented by 2 so the active bit is never disturbed by ordinary
// Acquire/Release traffic.
//
// The zero value is a usable, not-yet-rundown Rundown.
type Rundown struct {
	word atomic.Uint64
}

// Acquire takes a reference, returning false if the object is already
// rundown (or being rundown).
func (r *Rundown) Acquire() bool {
	for {
		cur := r.word.Load()
		if cur&rundownActive != 0 {
			return false
		}

		newVal := cur + rundownIncrement
		if r.word.CompareAndSwap(cur, newVal) {
			return true
		}
	}
}

// Release gives back a reference acquired via a successful Acquire. Calling
// it without a matching Acquire is an invariant violation and panics via
// status.Fatal.
func (r *Rundown) Release() {
	for {
		cur := r.word.Load()
		if cur < rundownIncrement {
			status.Fatal(status.InvalidStateTransition, "Rundown: Release without a matching Acquire")
		}

		newVal := cur - rundownIncrement
		if r.word.CompareAndSwap(cur, newVal) {
			return
		}
	}
}

// WaitForRelease marks the object as run down (failing all future Acquire
// calls) and blocks until every outstanding reference has been Released.
// It is idempotent: calling it again after the object is already run down
// simply waits (which returns immediately once the refcount has drained).
func (r *Rundown) WaitForRelease() {
	for {
		cur := r.word.Load()
		if cur&rundownActive != 0 {
			for poll := 0; r.word.Load() != rundownActive; poll++ {
				if poll > 0 && poll%10 == 0 {
					xplog.L().Debug().Log("syncx: Rundown.WaitForRelease still draining outstanding references")
				}
				time.Sleep(100 * time.Millisecond)
			}
			return
		}

		newVal := cur | rundownActive
		r.word.CompareAndSwap(cur, newVal)
		// Whether or not this particular CAS won, re-enter the loop: either
		// we set the bit (and will now observe it on the next iteration) or
		// someone else did.
	}
}

// IsRundown reports whether WaitForRelease has been called (regardless of
// whether it has finished draining outstanding references).
func (r *Rundown) IsRundown() bool {
	return r.word.Load()&rundownActive != 0
}
