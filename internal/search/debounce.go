package search

import (
	"sync"
	"time"
)

// DefaultDebounceDelay is the quiet period before a search fires
const DefaultDebounceDelay = 300 * time.Millisecond

// Debouncer coalesces rapid query updates into a single callback fired once
// the input has been quiet for the configured delay.
type Debouncer struct {
	mu      sync.Mutex
	delay   time.Duration
	fn      func(query string)
	timer   *time.Timer
	gen     uint64
	pending *string
	stopped bool

	// in-flight timer callbacks, waited on by Stop
	running sync.WaitGroup
}

// NewDebouncer creates a debouncer. A non-positive delay uses
// DefaultDebounceDelay.
func NewDebouncer(delay time.Duration, fn func(query string)) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounceDelay
	}
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger schedules fn(query), cancelling any pending call
func (d *Debouncer) Trigger(query string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}

	d.gen++
	gen := d.gen
	d.pending = &query
	d.timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := gen == d.gen && !d.stopped
		if current {
			d.pending = nil
			d.running.Add(1)
		}
		d.mu.Unlock()
		if current {
			defer d.running.Done()
			d.fn(query)
		}
	})
}

// Flush runs the pending call immediately, if there is one
func (d *Debouncer) Flush() {
	d.mu.Lock()
	if d.stopped || d.pending == nil {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	query := *d.pending
	d.pending = nil
	d.mu.Unlock()

	d.fn(query)
}

// Stop cancels any pending call and waits for a running one to return.
// Later triggers are ignored. Stop must not be called from fn.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.pending = nil
	if d.timer != nil {
		d.timer.Stop()
	}
	d.mu.Unlock()

	d.running.Wait()
}
