// Package xplog is the shared structured-logging wiring for go-rtcore.
//
// It mirrors the teacher's (eventloop/logging.go) package-level logger
// pattern -- a process-wide logger reachable via a small setter, whose
// default drops debug-level events so the debug lines of the spin and
// poll loops (busy lock, rundown) are not emitted unless a caller opts in
// -- but swaps the
// hand-rolled Logger interface for github.com/joeycumines/logiface, backed
// by github.com/joeycumines/logiface-slog writing to log/slog.
package xplog

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/joeycumines/logiface"
	logifaceslog "github.com/joeycumines/logiface-slog"
)

var current atomic.Pointer[logiface.Logger[*logifaceslog.Event]]

var initOnce sync.Once

// L returns the process-wide logger, lazily defaulting to a logger wired to
// slog.Default() with events disabled below logiface.LevelInformational;
// informational and more severe events are written.
func L() *logiface.Logger[*logifaceslog.Event] {
	if l := current.Load(); l != nil {
		return l
	}
	initOnce.Do(func() {
		current.CompareAndSwap(nil, logiface.New[*logifaceslog.Event](
			logifaceslog.NewLogger(slog.Default()),
			logiface.WithLevel[*logifaceslog.Event](logiface.LevelInformational),
		))
	})
	return current.Load()
}

// SetLogger replaces the process-wide logger. Pass a logger built with
// logiface.WithLevel[*logifaceslog.Event](logiface.LevelDisabled) to
// silence rtcore's logging entirely.
func SetLogger(l *logiface.Logger[*logifaceslog.Event]) {
	current.Store(l)
}
