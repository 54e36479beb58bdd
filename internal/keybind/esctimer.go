package keybind

import (
	"sync"
	"time"
)

// EscapeTimer disambiguates a bare Escape keystroke from the first byte of
// an escape-prefixed sequence (arrow keys, function keys) in raw client
// input. Grounded directly on overlay/input.go's
// StartPendingEsc/CancelPendingEsc/EscTimer pattern, generalized from a
// fixed 50ms to the configurable escape-time option.
type EscapeTimer struct {
	mu      sync.Mutex
	timeout time.Duration
	timer   *time.Timer
	pending bool

	// OnTimeout fires if no continuation byte arrives within the timeout,
	// meaning the Escape was a standalone keystroke.
	OnTimeout func()
}

// NewEscapeTimer creates a timer using the given escape-time duration
//.
func NewEscapeTimer(timeout time.Duration, onTimeout func()) *EscapeTimer {
	return &EscapeTimer{timeout: timeout, OnTimeout: onTimeout}
}

// Start begins waiting for a continuation byte after an ESC was seen.
func (e *EscapeTimer) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = true
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.timeout, func() {
		e.mu.Lock()
		fire := e.pending
		e.pending = false
		e.mu.Unlock()
		if fire && e.OnTimeout != nil {
			e.OnTimeout()
		}
	})
}

// Cancel stops the pending timer, e.g. because a continuation byte arrived
// and the sequence was recognized before the timeout fired.
func (e *EscapeTimer) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = false
	if e.timer != nil {
		e.timer.Stop()
	}
}

// Pending reports whether a disambiguation wait is in progress.
func (e *EscapeTimer) Pending() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pending
}
