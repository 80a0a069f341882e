//go:build !linux && !darwin

package host

import "time"

// processStart anchors currentMonotonicTime; time.Since uses the monotonic
// clock reading that time.Now attaches to it.
var processStart = time.Now()

// currentMonotonicTime falls back to the Go runtime's monotonic clock
// reading (time elapsed since package initialization) on platforms where
// golang.org/x/sys/unix's clock_gettime isn't applicable (e.g. Windows).
func currentMonotonicTime() uint64 {
	return uint64(time.Since(processStart) / 100)
}
