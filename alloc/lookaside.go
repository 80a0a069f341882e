// Package alloc implements the memory-provider-backed allocators of §4.1:
// a fixed-size-class lookaside (free-list) allocator and a split allocator
// that routes variable-sized requests to one of five lookaside allocators
// or a passthrough path, grounded on the split-allocator / lookaside design
// described in §3-§4.1 (the reference C++ sources for this subsystem were
// not among the retained files, so the Go port follows the specification's
// prose directly, using queue.AtomicStack as the free-list exactly as §3
// names it: "underlying free-list (atomic stack)").
package alloc

import (
	"github.com/joeycumines/go-rtcore/provider"
	"github.com/joeycumines/go-rtcore/queue"
	"github.com/joeycumines/go-rtcore/status"
)

// Lookaside is a fixed-element-size free-list allocator (§3: "fixed
// ElementSize, MaxCachedElements, CurrentCachedElements (atomic), underlying
// free-list (atomic stack)").
type Lookaside struct {
	elementSize       uintptr
	maxCachedElements int32
	cached            atomicCounter
	freeList          *queue.AtomicStack[[]byte]
	provider          provider.Handle
	critical          bool
}

// NewLookaside constructs a Lookaside allocator for elements of exactly
// elementSize bytes, caching at most maxCachedElements freed blocks.
func NewLookaside(elementSize uintptr, maxCachedElements int32, critical bool, p provider.Handle) *Lookaside {
	return &Lookaside{
		elementSize:       elementSize,
		maxCachedElements: maxCachedElements,
		freeList:          queue.NewAtomicStack[[]byte](),
		provider:          p,
		critical:          critical,
	}
}

// Allocate returns a zeroed block of exactly l.elementSize bytes, or fails
// if size exceeds the element size.
func (l *Lookaside) Allocate(size uintptr) ([]byte, status.Code) {
	if size > l.elementSize {
		return nil, status.InvalidParameter
	}

	if buf, ok := l.freeList.Pop(); ok {
		l.cached.add(-1)
		clear(buf)
		return buf, status.OK
	}

	buf := l.provider.Alloc(l.elementSize, l.critical)
	if buf == nil {
		return nil, status.InsufficientResources
	}
	return buf, status.OK
}

// Free returns buf to the free-list, unless the (approximate) cached count
// has reached MaxCachedElements, in which case it is returned to the
// memory provider instead. The count is maintained with atomic
// increment/decrement; the bound is advisory, not a hard limit, to avoid a
// strict serialization point (§4.1).
func (l *Lookaside) Free(buf []byte) {
	if buf == nil {
		return
	}

	if l.cached.add(1) > l.maxCachedElements {
		l.cached.add(-1)
		l.provider.Free(buf)
		return
	}

	l.freeList.Insert(buf)
}

// Deinitialize returns every cached block to the memory provider.
func (l *Lookaside) Deinitialize() {
	for {
		buf, ok := l.freeList.Pop()
		if !ok {
			return
		}
		l.cached.add(-1)
		l.provider.Free(buf)
	}
}

// CurrentCachedElements returns the approximate number of blocks currently
// cached in the free-list.
func (l *Lookaside) CurrentCachedElements() int32 {
	return l.cached.load()
}
