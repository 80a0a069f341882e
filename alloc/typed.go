package alloc

import "github.com/joeycumines/go-rtcore/queue"

// TypedLookaside generalizes the free-list pattern of §4.1 to typed Go
// values that cannot be represented as raw provider-backed bytes -- most
// notably thread-pool work items, which carry function fields. The cached
// count is bounded the same way Lookaside bounds it: an atomic counter,
// advisory rather than a hard serialization point.
type TypedLookaside[T any] struct {
	maxCached int32
	cached    atomicCounter
	freeList  *queue.AtomicStack[*T]
	newFn     func() *T
	resetFn   func(*T)
}

// NewTypedLookaside constructs a TypedLookaside. newFn allocates a fresh T
// on a cache miss; resetFn (optional) clears a recycled T's fields before
// it is handed back out.
func NewTypedLookaside[T any](maxCached int32, newFn func() *T, resetFn func(*T)) *TypedLookaside[T] {
	return &TypedLookaside[T]{
		maxCached: maxCached,
		freeList:  queue.NewAtomicStack[*T](),
		newFn:     newFn,
		resetFn:   resetFn,
	}
}

// Allocate pops a recycled T off the free-list, or constructs a new one on
// a miss.
func (l *TypedLookaside[T]) Allocate() *T {
	if v, ok := l.freeList.Pop(); ok {
		l.cached.add(-1)
		if l.resetFn != nil {
			l.resetFn(v)
		}
		return v
	}
	return l.newFn()
}

// Free returns v to the free-list, unless the cache is already at capacity,
// in which case v is simply dropped (left to the garbage collector).
func (l *TypedLookaside[T]) Free(v *T) {
	if v == nil {
		return
	}
	if l.cached.add(1) > l.maxCached {
		l.cached.add(-1)
		return
	}
	l.freeList.Insert(v)
}

// CurrentCachedElements returns the approximate number of cached elements.
func (l *TypedLookaside[T]) CurrentCachedElements() int32 {
	return l.cached.load()
}
