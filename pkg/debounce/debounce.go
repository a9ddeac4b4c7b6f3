// Package debounce provides a trailing-edge call coalescer for noisy
// inputs such as a search box. The wrapped function runs once per burst,
// after the configured window of quiet.
package debounce

import (
	"sync"
	"time"
)

// Debouncer coalesces calls to a function. Safe for concurrent use.
type Debouncer struct {
	mu     sync.Mutex
	window time.Duration
	timer  *time.Timer
	fn     func()
}

// New builds a debouncer around fn. A non-positive window makes every
// call run immediately.
func New(window time.Duration, fn func()) *Debouncer {
	return &Debouncer{window: window, fn: fn}
}

// Trigger schedules a trailing-edge invocation, resetting the window if
// one is already pending.
func (d *Debouncer) Trigger() {
	if d.window <= 0 {
		d.fn()
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.fn)
}

// Stop cancels any pending invocation.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
