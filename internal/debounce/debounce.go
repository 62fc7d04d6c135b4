package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period applied to search input
const DefaultDelay = 300 * time.Millisecond

// Debouncer defers execution until no new call has arrived for the delay.
// Each Trigger cancels the pending call, so only the most recent one runs.
type Debouncer struct {
	delay      time.Duration
	mu         sync.Mutex
	timer      *time.Timer
	pending    func()
	generation uint64
}

// New creates a debouncer with the given delay
func New(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, replacing any pending function
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}

	d.generation++
	gen := d.generation
	d.pending = fn
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		// a timer that fired while Trigger was replacing it must not run
		if gen != d.generation {
			d.mu.Unlock()
			return
		}
		run := d.pending
		d.pending = nil
		d.timer = nil
		d.mu.Unlock()

		if run != nil {
			run()
		}
	})
}

// Cancel drops any pending execution
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
	d.pending = nil
}

// Flush runs the pending function now, if any
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.generation++
	run := d.pending
	d.pending = nil
	d.mu.Unlock()

	if run != nil {
		run()
	}
}

// Pending reports whether a call is scheduled
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending != nil
}
