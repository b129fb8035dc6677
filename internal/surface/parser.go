package surface

import (
	"context"
	"io"
	"sync"
)

// Shared is a process-wide refcounted singleton surface. The first Acquire
// creates the underlying value; later acquires share it. Concurrent acquires
// during creation wait for the same in-flight creation instead of starting a
// second one. The value is closed when the last holder releases it.
type Shared[T io.Closer] struct {
	create func(context.Context) (T, error)

	mu      sync.Mutex
	cur     T
	ok      bool
	refs    int
	pending chan struct{}
	lastErr error
}

// NewShared creates a shared surface around the given constructor.
func NewShared[T io.Closer](create func(context.Context) (T, error)) *Shared[T] {
	return &Shared[T]{create: create}
}

// Acquire returns the shared value, creating it if necessary. Every
// successful Acquire must be paired with a Release.
func (s *Shared[T]) Acquire(ctx context.Context) (T, error) {
	var zero T

	for {
		s.mu.Lock()

		if s.ok {
			s.refs++
			cur := s.cur
			s.mu.Unlock()
			return cur, nil
		}

		if s.pending == nil {
			pending := make(chan struct{})
			s.pending = pending
			s.lastErr = nil
			s.mu.Unlock()

			cur, err := s.create(ctx)

			s.mu.Lock()
			s.pending = nil
			s.lastErr = err
			if err == nil {
				s.cur = cur
				s.ok = true
				s.refs = 1
			}
			close(pending)
			s.mu.Unlock()

			if err != nil {
				return zero, err
			}
			return cur, nil
		}

		pending := s.pending
		s.mu.Unlock()

		select {
		case <-pending:
		case <-ctx.Done():
			return zero, ctx.Err()
		}

		s.mu.Lock()
		if s.ok {
			s.refs++
			cur := s.cur
			s.mu.Unlock()
			return cur, nil
		}
		err := s.lastErr
		s.mu.Unlock()
		if err != nil {
			return zero, err
		}
		// Creation succeeded but the value was already released; retry.
	}
}

// Release drops one reference. The underlying value is closed when the count
// reaches zero. Releasing an already-released surface is a no-op.
func (s *Shared[T]) Release() error {
	s.mu.Lock()
	if !s.ok || s.refs == 0 {
		s.mu.Unlock()
		return nil
	}

	s.refs--
	if s.refs > 0 {
		s.mu.Unlock()
		return nil
	}

	cur := s.cur
	var zero T
	s.cur = zero
	s.ok = false
	s.mu.Unlock()

	return cur.Close()
}

// Refs reports the current reference count.
func (s *Shared[T]) Refs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.refs
}
