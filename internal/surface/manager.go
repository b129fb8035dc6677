package surface

import (
	"context"

	"github.com/charmbracelet/log"
)

// Loader verifies a target page can be opened and worked against. For the
// session-backed implementation this means fetching the page with the
// imported browser session.
type Loader interface {
	Load(ctx context.Context, url string) error
}

// LoadFunc adapts a function to the Loader interface.
type LoadFunc func(ctx context.Context, url string) error

// Load calls f.
func (f LoadFunc) Load(ctx context.Context, url string) error { return f(ctx, url) }

// Manager opens and disposes execution surfaces.
type Manager interface {
	// Acquire opens a surface for the target URL. Loading happens in the
	// background; the handle's Ready channel delivers the outcome.
	Acquire(ctx context.Context, url string) (*Handle, error)

	// Dispose tears a surface down. Calling it repeatedly, or for a surface
	// that already went away, is a no-op.
	Dispose(h *Handle)
}

// TabManager is the production Manager. Each surface is backed by a page
// fetch through the platform session.
type TabManager struct {
	loader Loader
	logger *log.Logger
}

// NewTabManager creates a manager backed by the given loader.
func NewTabManager(loader Loader, logger *log.Logger) *TabManager {
	return &TabManager{loader: loader, logger: logger}
}

// Acquire opens a surface and starts loading the target page.
func (m *TabManager) Acquire(ctx context.Context, url string) (*Handle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	h := NewHandle(url, func() {
		m.logger.Debug("surface disposed", "url", url)
	})

	m.logger.Debug("surface opened", "id", h.ID(), "url", url)

	go func() {
		h.MarkReady(m.loader.Load(ctx, url))
	}()

	return h, nil
}

// Dispose tears the surface down. Idempotent.
func (m *TabManager) Dispose(h *Handle) {
	if h == nil {
		return
	}
	h.dispose()
}
