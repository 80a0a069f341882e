package alloc

import (
	"sync"
	"unsafe"

	"github.com/joeycumines/go-rtcore/provider"
	"github.com/joeycumines/go-rtcore/status"
)

// sizeClasses is the fixed size-class ladder named in §3.
var sizeClasses = [...]uintptr{64, 512, 4096, 32768, 262144}

// splitMagic tags every header so Free can detect a mismatched or corrupt
// pointer (§4.1: "verifies the tag (fatal on mismatch)").
const splitMagic uint32 = 0x5850_4c53 // "XPLS"

// header is the fixed prefix {magic, requestedSize} the specification says
// precedes every user pointer. Go slices cannot be re-sliced backwards past
// their start, so rather than prepending the header into the same backing
// array and handing back a sub-slice (which would make recovering the
// header from the user pointer alone require unsafe pointer arithmetic),
// Split keeps the header in a side table keyed by the user slice's backing
// address -- the same {requested size, magic} information, reached by a
// map lookup instead of negative offset.
type header struct {
	magic     uint32
	requested uintptr
	raw       []byte // the full block, as obtained from the owning class/provider
}

// Split is a process-wide size-class allocator: requests are routed to the
// smallest size class that fits, or to a passthrough path (direct to the
// memory provider) for requests larger than the largest class (§4.1).
type Split struct {
	classes     [len(sizeClasses)]*Lookaside
	provider    provider.Handle
	critical    bool
	outstanding atomicCounter

	headersMu sync.Mutex
	headers   map[uintptr]header
}

// NewSplit constructs a Split allocator over the given memory provider.
// maxCachedElements bounds each size class's lookaside cache.
func NewSplit(p provider.Handle, critical bool, maxCachedElements int32) *Split {
	s := &Split{
		provider: p,
		critical: critical,
		headers:  make(map[uintptr]header),
	}
	for i, class := range sizeClasses {
		s.classes[i] = NewLookaside(class, maxCachedElements, critical, p)
	}
	return s
}

var (
	criticalSplit    *Split
	nonCriticalSplit *Split
	splitInitOnce    sync.Once
)

// Initialize constructs the two process-wide Split instances (one critical,
// one non-critical), each routed through provider.OS (§4.1: "Initialize()
// constructs one critical and one non-critical instance"). Calling it more
// than once is a no-op.
func Initialize() {
	splitInitOnce.Do(func() {
		criticalSplit = NewSplit(provider.OS, true, 64)
		nonCriticalSplit = NewSplit(provider.OS, false, 64)
	})
}

// Critical returns the process-wide critical Split instance. Initialize
// must be called first.
func Critical() *Split { return criticalSplit }

// NonCritical returns the process-wide non-critical Split instance.
// Initialize must be called first.
func NonCritical() *Split { return nonCriticalSplit }

// classFor returns the index of the smallest size class that fits size, or
// -1 if size exceeds the largest class (meaning: use the passthrough path).
func classFor(size uintptr) int {
	for i, class := range sizeClasses {
		if size <= class {
			return i
		}
	}
	return -1
}

// addrOf returns the address of b's backing array via unsafe.SliceData,
// which depends only on b's capacity, not its length. Allocate hands back
// payload slices with the full capacity of raw (not truncated to
// [:size:size]), so a zero-size payload still carries raw's non-zero
// capacity and addrOf(payload) == addrOf(raw). Truncating capacity to size
// (as an earlier version did) collapses every zero-length Allocate onto the
// same address, since an empty slice has no indexable element to take the
// address of -- making one Allocate(0)'s header silently overwrite
// another's.
func addrOf(b []byte) uintptr {
	return uintptr(unsafe.Pointer(unsafe.SliceData(b)))
}

// Allocate returns a zeroed buffer of exactly size usable bytes, routed to
// the owning size class or the passthrough path.
func (s *Split) Allocate(size uintptr) ([]byte, status.Code) {
	idx := classFor(size)

	var raw []byte
	if idx < 0 {
		raw = s.provider.Alloc(size, s.critical)
		if raw == nil {
			return nil, status.InsufficientResources
		}
	} else {
		var code status.Code
		raw, code = s.classes[idx].Allocate(sizeClasses[idx])
		if !code.Ok() {
			return nil, code
		}
	}

	// Retain raw's full capacity rather than truncating to [:size:size]: a
	// zero-size payload needs to keep addrOf(payload) == addrOf(raw) (see
	// addrOf), which requires a non-zero capacity to survive the slice.
	payload := raw[:size]
	key := addrOf(raw)

	s.headersMu.Lock()
	s.headers[key] = header{magic: splitMagic, requested: size, raw: raw}
	s.headersMu.Unlock()

	s.outstanding.add(1)
	return payload, status.OK
}

// Free recovers the header associated with ptr, verifies its tag, and
// routes the block back to its owning size class or the passthrough path.
// A missing or corrupt header is an invariant violation and panics via
// status.Fatal.
func (s *Split) Free(ptr []byte) {
	if ptr == nil {
		return
	}

	key := addrOf(ptr)

	s.headersMu.Lock()
	h, ok := s.headers[key]
	if ok {
		delete(s.headers, key)
	}
	s.headersMu.Unlock()

	if !ok || h.magic != splitMagic {
		status.Fatal(status.BufferOverflow, "Split.Free: header missing or corrupt, foreign or double-freed pointer")
	}

	idx := classFor(h.requested)
	if idx < 0 {
		s.provider.Free(h.raw)
	} else {
		s.classes[idx].Free(h.raw)
	}
	s.outstanding.add(-1)
}

// Deinitialize returns every cached block to the memory provider. It is a
// fatal error to call Deinitialize while any allocation remains outstanding
// (§4.1).
func (s *Split) Deinitialize() {
	if s.outstanding.load() != 0 {
		status.Fatal(status.InvalidStateTransition, "Split.Deinitialize: outstanding allocations remain")
	}
	for _, c := range s.classes {
		c.Deinitialize()
	}
}
