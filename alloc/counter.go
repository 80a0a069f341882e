package alloc

import "sync/atomic"

// atomicCounter is the "approximate, best-effort" CurrentCachedElements
// bookkeeping named in §3: maintained with atomic add, deliberately not
// synchronized with the free-list push/pop it tracks, so it can briefly
// overshoot or undershoot under contention.
type atomicCounter struct {
	v atomic.Int32
}

func (c *atomicCounter) add(delta int32) int32 {
	return c.v.Add(delta)
}

func (c *atomicCounter) load() int32 {
	return c.v.Load()
}
