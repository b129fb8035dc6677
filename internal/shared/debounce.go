package shared

import (
	"sync"
	"time"
)

// Debouncer coalesces repeated invocations per key.
//
// A second Debounce call with the same key cancels the pending invocation and
// re-arms the delay. Distinct keys are independent.
type Debouncer struct {
	mu      sync.Mutex
	pending map[string]*time.Timer
	stopped bool
}

// NewDebouncer creates an empty Debouncer.
func NewDebouncer() *Debouncer {
	return &Debouncer{pending: make(map[string]*time.Timer)}
}

// Debounce schedules fn to run after delay, cancelling any pending invocation
// for the same key. fn runs on a timer goroutine.
func (d *Debouncer) Debounce(key string, delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	if t, ok := d.pending[key]; ok {
		t.Stop()
	}

	d.pending[key] = time.AfterFunc(delay, func() {
		d.mu.Lock()
		delete(d.pending, key)
		d.mu.Unlock()
		fn()
	})
}

// Cancel drops any pending invocation for key without running it.
func (d *Debouncer) Cancel(key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.pending[key]; ok {
		t.Stop()
		delete(d.pending, key)
	}
}

// Stop cancels all pending invocations. The Debouncer accepts no further work.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for key, t := range d.pending {
		t.Stop()
		delete(d.pending, key)
	}
	d.stopped = true
}
