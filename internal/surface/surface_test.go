package surface

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func testLogger() *log.Logger {
	logger := log.New(io.Discard)
	logger.SetLevel(log.FatalLevel)
	return logger
}

func TestTabManager_AcquireReady(t *testing.T) {
	manager := NewTabManager(LoadFunc(func(ctx context.Context, url string) error {
		return nil
	}), testLogger())

	h, err := manager.Acquire(context.Background(), "https://rumble.com/v123-test.html")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer manager.Dispose(h)

	select {
	case err := <-h.Ready():
		if err != nil {
			t.Errorf("Ready() delivered error = %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Ready() never fired")
	}

	if h.URL() != "https://rumble.com/v123-test.html" {
		t.Errorf("URL() = %q", h.URL())
	}
	if h.ID() == "" {
		t.Error("handle should have an id")
	}
}

func TestTabManager_AcquireLoadFailure(t *testing.T) {
	loadErr := errors.New("page unreachable")
	manager := NewTabManager(LoadFunc(func(ctx context.Context, url string) error {
		return loadErr
	}), testLogger())

	h, err := manager.Acquire(context.Background(), "https://rumble.com/v404.html")
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	defer manager.Dispose(h)

	select {
	case err := <-h.Ready():
		if !errors.Is(err, loadErr) {
			t.Errorf("Ready() error = %v, want %v", err, loadErr)
		}
	case <-time.After(time.Second):
		t.Fatal("Ready() never fired")
	}
}

func TestTabManager_DisposeIdempotent(t *testing.T) {
	var disposed atomic.Int32

	h := NewHandle("https://rumble.com/v1.html", func() {
		disposed.Add(1)
	})
	manager := NewTabManager(LoadFunc(func(ctx context.Context, url string) error {
		return nil
	}), testLogger())

	// Dispose from many goroutines at once; teardown must run exactly once.
	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			manager.Dispose(h)
		}()
	}
	wg.Wait()

	if got := disposed.Load(); got != 1 {
		t.Errorf("teardown ran %d times, want 1", got)
	}

	select {
	case <-h.Closed():
	default:
		t.Error("Closed() should be signalled after dispose")
	}

	manager.Dispose(nil) // must not panic
}

func TestHandle_MarkClosedIdempotent(t *testing.T) {
	h := NewHandle("https://rumble.com/v1.html", nil)

	h.MarkClosed()
	h.MarkClosed()

	select {
	case <-h.Closed():
	default:
		t.Error("Closed() should be signalled")
	}
}

type fakeParser struct {
	closed atomic.Int32
}

func (p *fakeParser) Close() error {
	p.closed.Add(1)
	return nil
}

func TestShared_SingleCreation(t *testing.T) {
	var created atomic.Int32
	release := make(chan struct{})

	shared := NewShared(func(ctx context.Context) (*fakeParser, error) {
		created.Add(1)
		<-release
		return &fakeParser{}, nil
	})

	const callers = 8
	results := make(chan *fakeParser, callers)
	errs := make(chan error, callers)

	for range callers {
		go func() {
			p, err := shared.Acquire(context.Background())
			results <- p
			errs <- err
		}()
	}

	// Let everyone pile onto the in-flight creation before it finishes.
	time.Sleep(50 * time.Millisecond)
	close(release)

	var first *fakeParser
	for i := range callers {
		p := <-results
		if err := <-errs; err != nil {
			t.Fatalf("Acquire() %d error = %v", i, err)
		}
		if first == nil {
			first = p
		} else if p != first {
			t.Error("concurrent acquires should share one instance")
		}
	}

	if got := created.Load(); got != 1 {
		t.Errorf("constructor ran %d times, want 1", got)
	}
	if got := shared.Refs(); got != callers {
		t.Errorf("Refs() = %d, want %d", got, callers)
	}
}

func TestShared_LastReleaseCloses(t *testing.T) {
	parser := &fakeParser{}
	shared := NewShared(func(ctx context.Context) (*fakeParser, error) {
		return parser, nil
	})

	for range 3 {
		if _, err := shared.Acquire(context.Background()); err != nil {
			t.Fatalf("Acquire() error = %v", err)
		}
	}

	for i := range 3 {
		if err := shared.Release(); err != nil {
			t.Fatalf("Release() %d error = %v", i, err)
		}
	}

	if got := parser.closed.Load(); got != 1 {
		t.Errorf("Close() ran %d times, want 1", got)
	}

	// Extra release after teardown is a no-op.
	if err := shared.Release(); err != nil {
		t.Errorf("Release() after teardown error = %v", err)
	}
	if got := parser.closed.Load(); got != 1 {
		t.Errorf("Close() ran %d times after extra release, want 1", got)
	}
}

func TestShared_RecreateAfterTeardown(t *testing.T) {
	var created atomic.Int32
	shared := NewShared(func(ctx context.Context) (*fakeParser, error) {
		created.Add(1)
		return &fakeParser{}, nil
	})

	if _, err := shared.Acquire(context.Background()); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if err := shared.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	if _, err := shared.Acquire(context.Background()); err != nil {
		t.Fatalf("second Acquire() error = %v", err)
	}

	if got := created.Load(); got != 2 {
		t.Errorf("constructor ran %d times, want 2", got)
	}
}

func TestShared_CreationFailure(t *testing.T) {
	createErr := errors.New("session rejected")
	var created atomic.Int32

	shared := NewShared(func(ctx context.Context) (*fakeParser, error) {
		created.Add(1)
		return nil, createErr
	})

	if _, err := shared.Acquire(context.Background()); !errors.Is(err, createErr) {
		t.Fatalf("Acquire() error = %v, want %v", err, createErr)
	}
	if got := shared.Refs(); got != 0 {
		t.Errorf("Refs() after failed creation = %d, want 0", got)
	}

	// A later acquire retries the creation rather than caching the failure.
	if _, err := shared.Acquire(context.Background()); !errors.Is(err, createErr) {
		t.Fatalf("retry Acquire() error = %v, want %v", err, createErr)
	}
	if got := created.Load(); got != 2 {
		t.Errorf("constructor ran %d times, want 2", got)
	}
}
