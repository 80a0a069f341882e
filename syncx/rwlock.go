package syncx

import "sync"

// RWLock is the read/write lock of §4.3. Unlike BusyLock it is expected to
// be held across blocking sections, so -- matching the reference
// implementation's note that hosts whose primitive "does not tolerate"
// suspension mid-section fall back to a plain critical-region bracket -- it
// is backed directly by sync.RWMutex rather than a spin loop.
type RWLock struct {
	mu sync.RWMutex
}

// LockShared acquires the lock for reading.
func (l *RWLock) LockShared() { l.mu.RLock() }

// UnlockShared releases a read acquisition.
func (l *RWLock) UnlockShared() { l.mu.RUnlock() }

// LockExclusive acquires the lock for writing.
func (l *RWLock) LockExclusive() { l.mu.Lock() }

// UnlockExclusive releases a write acquisition.
func (l *RWLock) UnlockExclusive() { l.mu.Unlock() }
