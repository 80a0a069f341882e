// Package syncx implements the synchronization and lifetime primitives of
// the data model (§4.2-§4.5): a busy (spin) lock, a read/write lock, a
// wait/signal wrapper, and rundown protection. All are grounded on the
// reference implementation's private/Locks and private/Multithreading
// sources, translated from CAS-on-a-packed-integer spin loops into the Go
// atomics equivalent.
package syncx

import (
	"sync/atomic"

	"github.com/joeycumines/go-rtcore/host"
	"github.com/joeycumines/go-rtcore/internal/xplog"
	"github.com/joeycumines/go-rtcore/status"
)

// spinLogThreshold bounds how often a stalled spin loop logs: once every
// this many YieldProcessor calls, not every single one, so the hot path
// stays lock-free in the common (briefly-contended) case.
const spinLogThreshold = 4096

const (
	busySharedMask  uint32 = 0x7fff
	busyWriterBit   uint32 = 0x8000
	busyMaxSharedV         = 0x7fff
)

// BusyLock is a spin-only shared/exclusive lock over a packed 16-bit word
// (bits 0-14: shared holder count, bit 15: writer flag), grounded on
// BusyLock.cpp. It never parks a goroutine; callers on genuinely contended
// paths should prefer RWLock instead, matching the reference
// implementation's own warning that BusyLock is for short, low-contention
// critical sections only.
//
// The zero value is an unlocked BusyLock, ready to use.
type BusyLock struct {
	word atomic.Uint32 // only the low 16 bits are meaningful
}

// LockExclusive spins until exclusive access is acquired.
func (l *BusyLock) LockExclusive() {
	var spins int
	for {
		oldLock := l.word.Load() & busySharedMask
		newLock := oldLock | busyWriterBit
		if !l.word.CompareAndSwap(oldLock, newLock) {
			host.YieldProcessor()
			spins++
			if spins%spinLogThreshold == 0 {
				xplog.L().Debug().Log("syncx: BusyLock.LockExclusive still spinning for the writer bit")
			}
			continue
		}

		// Acquired the writer bit; now drain any readers that got in before
		// us under the shared-count mask.
		for drain := 0; l.word.Load()&busySharedMask != 0; drain++ {
			host.YieldProcessor()
			if drain%spinLogThreshold == 0 && drain > 0 {
				xplog.L().Debug().Log("syncx: BusyLock.LockExclusive still spinning for readers to drain")
			}
		}
		return
	}
}

// UnlockExclusive releases an exclusive hold. Calling it without a matching
// LockExclusive is an invariant violation and panics via status.Fatal,
// matching the reference implementation's STATUS_MUTANT_NOT_OWNED assert.
func (l *BusyLock) UnlockExclusive() {
	oldLock := l.word.Load()
	if oldLock != busyWriterBit {
		status.Fatal(status.MutantNotOwned, "BusyLock: UnlockExclusive without exclusive ownership")
	}
	if !l.word.CompareAndSwap(oldLock, 0) {
		status.Fatal(status.MutantNotOwned, "BusyLock: UnlockExclusive lost the race for its own lock word")
	}
}

// LockShared spins until shared access is acquired.
func (l *BusyLock) LockShared() {
	var spins int
	for {
		oldLock := l.word.Load() & busySharedMask
		if oldLock == busyMaxSharedV {
			// At the maximum concurrent-reader count; spin rather than
			// overflow into the writer bit.
			host.YieldProcessor()
			spins++
			if spins%spinLogThreshold == 0 {
				xplog.L().Debug().Log("syncx: BusyLock.LockShared pinned at max shared holders")
			}
			continue
		}

		newLock := oldLock + 1
		if !l.word.CompareAndSwap(oldLock, newLock) {
			host.YieldProcessor()
			spins++
			if spins%spinLogThreshold == 0 {
				xplog.L().Debug().Log("syncx: BusyLock.LockShared still spinning on CAS")
			}
			continue
		}
		return
	}
}

// UnlockShared releases one shared hold. Calling it when the lock is
// unheld is an invariant violation and panics via status.Fatal.
func (l *BusyLock) UnlockShared() {
	for {
		oldLock := l.word.Load()
		if oldLock == 0 {
			status.Fatal(status.MutantNotOwned, "BusyLock: UnlockShared without any shared ownership")
		}

		newLock := oldLock - 1
		if !l.word.CompareAndSwap(oldLock, newLock) {
			host.YieldProcessor()
			continue
		}
		return
	}
}
