package surface

import (
	"sync"

	"github.com/therealtombi/Rumble-Live-Ops/internal/shared"
)

// Handle is one hidden execution surface bound to a single target URL.
//
// A handle moves through at most three points: created, ready (or failed to
// load), closed. Ready fires exactly once; Closed is idempotent and may fire
// at any point, including before ready.
type Handle struct {
	id  string
	url string

	ready     chan error
	readyOnce sync.Once

	closed    chan struct{}
	closeOnce sync.Once

	disposeOnce sync.Once
	onDispose   func()
}

// NewHandle creates a handle for the given target URL.
func NewHandle(url string, onDispose func()) *Handle {
	return &Handle{
		id:        shared.GenerateID(),
		url:       url,
		ready:     make(chan error, 1),
		closed:    make(chan struct{}),
		onDispose: onDispose,
	}
}

// ID returns the handle's unique id.
func (h *Handle) ID() string { return h.id }

// URL returns the target URL the surface was opened for.
func (h *Handle) URL() string { return h.url }

// Ready delivers the load outcome exactly once: nil when the surface loaded
// and is injectable, an error when loading failed.
func (h *Handle) Ready() <-chan error { return h.ready }

// Closed is closed when the surface goes away out from under its owner.
func (h *Handle) Closed() <-chan struct{} { return h.closed }

// MarkReady records the load outcome. Later calls are ignored.
func (h *Handle) MarkReady(err error) {
	h.readyOnce.Do(func() { h.ready <- err })
}

// MarkClosed signals that the surface disappeared. Safe to call repeatedly.
func (h *Handle) MarkClosed() {
	h.closeOnce.Do(func() { close(h.closed) })
}

// dispose runs the teardown callback at most once, no matter how many times
// or from how many goroutines it is called.
func (h *Handle) dispose() {
	h.disposeOnce.Do(func() {
		h.MarkClosed()
		if h.onDispose != nil {
			h.onDispose()
		}
	})
}
