package editor

import (
	"sync"
	"time"
)

// Debouncer coalesces bursts of Trigger calls into a single call of fn,
// made once delay has passed without another trigger.
type Debouncer struct {
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
	running sync.WaitGroup
}

// NewDebouncer creates a debouncer. fn runs on its own goroutine.
func NewDebouncer(delay time.Duration, fn func()) *Debouncer {
	return &Debouncer{delay: delay, fn: fn}
}

// Trigger (re)starts the delay.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	d.cancelLocked()

	d.running.Add(1)
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		defer d.running.Done()
		d.mu.Lock()
		if d.timer != t {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		d.fn()
	})
	d.timer = t
}

// Cancel drops a pending call. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelLocked()
}

func (d *Debouncer) cancelLocked() bool {
	if d.timer == nil {
		return false
	}
	if d.timer.Stop() {
		d.running.Done()
	}
	d.timer = nil
	return true
}

// Flush runs a pending call now, on the calling goroutine. It reports
// whether a call was pending.
func (d *Debouncer) Flush() bool {
	if !d.Cancel() {
		return false
	}
	d.fn()
	return true
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

// Stop cancels any pending call, waits for a running one to return, and
// ignores later triggers. It must not be called from fn.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	d.stopped = true
	d.cancelLocked()
	d.mu.Unlock()
	d.running.Wait()
}
