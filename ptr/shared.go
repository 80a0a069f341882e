package ptr

import (
	"math"
	"sync/atomic"

	"github.com/joeycumines/go-rtcore/host"
)

// sharedBlock is the single combined allocation named in §4.11: "a single
// contiguous allocation containing the counter (aligned) followed by the
// object". Go cannot place an atomic counter and an arbitrary T in one
// literal allocation the way the C++ placement-new original can, but a
// struct{refcount; object} achieves the same effect: one allocation, the
// counter immediately preceding the object.
type sharedBlock[T any] struct {
	refcount atomic.Int32
	object   T
	destruct func(*T)
}

// Shared is a reference-counted shared pointer (§4.11). The zero value is
// not usable; construct with NewShared.
type Shared[T any] struct {
	block *sharedBlock[T]
}

// NewShared allocates a combined counter+object block, initializes the
// counter to 1, and returns a Shared owning it. destruct may be nil.
func NewShared[T any](object T, destruct func(*T)) Shared[T] {
	b := &sharedBlock[T]{object: object, destruct: destruct}
	b.refcount.Store(1)
	return Shared[T]{block: b}
}

// Get returns a pointer to the owned object, or nil if the Shared is empty.
func (s *Shared[T]) Get() *T {
	if s.block == nil {
		return nil
	}
	return &s.block.object
}

// Clone increments the reference count and returns a new Shared over the
// same block. Saturating the counter at its maximum value causes Clone to
// yield and retry rather than overflow (§4.11), which in practice is
// unreachable but preserved for fidelity to the reference semantics.
func (s *Shared[T]) Clone() Shared[T] {
	if s.block == nil {
		return Shared[T]{}
	}
	for {
		cur := s.block.refcount.Load()
		if cur >= math.MaxInt32 {
			host.YieldProcessor()
			continue
		}
		if s.block.refcount.CompareAndSwap(cur, cur+1) {
			return Shared[T]{block: s.block}
		}
	}
}

// Release decrements the reference count. The terminal decrement (0 --
// sized to match the reference implementation's "single contiguous
// allocation" model rather than an intrusive WaitForRelease) runs the
// destructor, if any, and frees the block. It is safe to call Release on an
// already-empty Shared.
func (s *Shared[T]) Release() {
	if s.block == nil {
		return
	}
	b := s.block
	s.block = nil

	if b.refcount.Add(-1) == 0 {
		if b.destruct != nil {
			b.destruct(&b.object)
		}
	}
}

// RefCount returns the current reference count. Intended for diagnostics;
// racy against concurrent Clone/Release.
func (s *Shared[T]) RefCount() int32 {
	if s.block == nil {
		return 0
	}
	return s.block.refcount.Load()
}

// IsEmpty reports whether the Shared currently owns nothing.
func (s *Shared[T]) IsEmpty() bool {
	return s.block == nil
}
