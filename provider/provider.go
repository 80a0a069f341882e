// Package provider implements the memory-provider collaborator (§4.1,
// §6): a stateless {alloc, free} function pair that the allocator
// infrastructure consumes. Go has no analog of VirtualAlloc/ExAllocatePool
// with a "critical" (non-paged) vs. pageable distinction, so Handle.Alloc
// approximates it with a bounded retry-with-yield loop for critical
// requests, matching the reference implementation's "retried up to five
// times with processor yields" behavior (§4.1).
package provider

import (
	"unsafe"

	"github.com/joeycumines/go-rtcore/host"
)

// Handle is the allocator handle from the data model: a pair of pointers
// {alloc(size) -> ptr|null, free(ptr) -> void}. It is stateless and
// copyable by value.
type Handle struct {
	Alloc func(size uintptr, critical bool) []byte
	Free  func(buf []byte)
}

const maxCriticalRetries = 5

// OS is the default Handle, backed by the Go runtime's allocator. All
// returned buffers are pre-zeroed (Go guarantees this for make([]byte, n))
// and checked against the platform's default alignment; an unaligned
// buffer is treated as an allocation failure.
var OS = Handle{
	Alloc: osAlloc,
	Free:  osFree,
}

func osAlloc(size uintptr, critical bool) []byte {
	if size == 0 {
		return nil
	}

	attempts := 1
	if critical {
		attempts = maxCriticalRetries
	}

	for i := 0; i < attempts; i++ {
		buf := make([]byte, size)
		if isAligned(buf) {
			return buf
		}
		// An unaligned allocation is treated as a failure (§4.1); yield and
		// retry rather than returning misaligned memory to the caller.
		if critical {
			host.YieldProcessor()
			continue
		}
		return nil
	}
	return nil
}

func osFree(buf []byte) {
	// free(null) is a no-op; Go's GC reclaims the backing array once buf is
	// no longer reachable, so there is nothing else to do here. The
	// function exists to keep the {alloc, free} pair symmetric for callers
	// that route through the Handle type, and as the place a pooled
	// provider (e.g. one backed by sync.Pool) would return its buffer.
	_ = buf
}

func isAligned(buf []byte) bool {
	if len(buf) == 0 {
		return true
	}
	align := unsafe.Alignof(uintptr(0))
	return uintptr(unsafe.Pointer(&buf[0]))%align == 0
}
