package jobs

import "sync"

// Cell is a single-assignment completion slot. A target's fate can arrive
// from several directions at once: the worker's response, the timeout timer,
// the surface closing underneath it. Whichever settles first wins; the rest
// become no-ops. The response path, the timer and the surface watcher are
// real goroutines here, so first-wins is enforced with a lock rather than
// by convention.
type Cell[T any] struct {
	mu      sync.Mutex
	settled bool
	value   T
	done    chan struct{}
}

// NewCell creates an unsettled cell.
func NewCell[T any]() *Cell[T] {
	return &Cell[T]{done: make(chan struct{})}
}

// Settle records the value if the cell is still open. It reports whether
// this call won.
func (c *Cell[T]) Settle(v T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.settled {
		return false
	}
	c.settled = true
	c.value = v
	close(c.done)
	return true
}

// Done is closed once the cell settles.
func (c *Cell[T]) Done() <-chan struct{} { return c.done }

// Value returns the settled value. Only valid after Done is closed.
func (c *Cell[T]) Value() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}
