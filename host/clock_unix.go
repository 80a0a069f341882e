//go:build linux || darwin

package host

import "golang.org/x/sys/unix"

// currentMonotonicTime reads CLOCK_MONOTONIC via golang.org/x/sys/unix and
// converts to 100ns units, mirroring the teacher's use of x/sys/unix for
// low-level platform calls (see eventloop's unix.Read/Write/Close wiring).
func currentMonotonicTime() uint64 {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0
	}
	return uint64(ts.Sec)*10_000_000 + uint64(ts.Nsec)/100
}
