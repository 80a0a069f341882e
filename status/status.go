// Package status models the collaborator error-code space described by the
// runtime core's external interface: a single signed 32-bit status space,
// carried by value, never via panics (except for programmer errors, see
// [Fatal]).
package status

import "fmt"

// Code is a status value returned by rtcore operations in place of an error
// constructed per-callsite. It mirrors the NTSTATUS-derived status space of
// the reference implementation, keeping the same numeric values so that log
// output and bug reports stay comparable across ports.
type Code int32

// Kinds of the collaborator error-code space. Values match the status codes
// of the original xpf_lib CrossPlatformStatus header bit for bit.
const (
	OK                    Code = 0x00000000
	BufferOverflow        Code = -0x7FFFFFFB // 0x80000005
	Unsuccessful          Code = -0x3FFFFFFF // 0xC0000001
	InvalidParameter      Code = -0x3FFFFFF3 // 0xC000000D
	QuotaExceeded         Code = -0x3FFFFFBC // 0xC0000044
	MutantNotOwned        Code = -0x3FFFFFBA // 0xC0000046
	IntegerOverflow       Code = -0x3FFFFF6B // 0xC0000095
	InsufficientResources Code = -0x3FFFFF66 // 0xC000009A
	NotFound              Code = -0x3FFFFDDB // 0xC0000225
	TooLate               Code = -0x3FFFFE77 // 0xC0000189
	ShutdownInProgress    Code = -0x3FFFFD02 // 0xC00002FE
	InvalidStateTransition Code = -0x3FFF5FFD // 0xC000A003
)

var names = map[Code]string{
	OK:                     "success",
	BufferOverflow:         "buffer-overflow",
	Unsuccessful:           "unsuccessful",
	InvalidParameter:       "invalid-parameter",
	QuotaExceeded:          "quota-exceeded",
	MutantNotOwned:         "mutant-not-owned",
	IntegerOverflow:        "integer-overflow",
	InsufficientResources:  "insufficient-resources",
	NotFound:               "not-found",
	TooLate:                "too-late",
	ShutdownInProgress:     "shutdown-in-progress",
	InvalidStateTransition: "invalid-state-transition",
}

// Error implements the error interface, so a Code can be returned and
// compared anywhere a Go error is expected.
func (c Code) Error() string {
	if name, ok := names[c]; ok {
		return name
	}
	return fmt.Sprintf("status(%#08x)", uint32(c))
}

// Ok reports whether c represents success.
func (c Code) Ok() bool {
	return c == OK
}

// Is allows errors.Is(err, status.ShutdownInProgress) style matching against
// a wrapped Code.
func (c Code) Is(target error) bool {
	other, ok := target.(Code)
	return ok && other == c
}

// Fatal reports a programmer error: an invariant violation, a double
// release, or a release of a lock/rundown the caller never held. These are
// never recoverable and are never returned as an error value -- per §7 of
// the specification they terminate the process via a panic primitive.
func Fatal(c Code, detail string) {
	panic(fmt.Sprintf("rtcore: fatal invariant violation: %s: %s", c, detail))
}
