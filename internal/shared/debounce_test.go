package shared

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer(t *testing.T) {
	t.Run("rapid calls collapse to one invocation", func(t *testing.T) {
		d := NewDebouncer()
		defer d.Stop()

		var calls atomic.Int32
		for i := 0; i < 5; i++ {
			d.Debounce("harvest", 20*time.Millisecond, func() {
				calls.Add(1)
			})
		}

		time.Sleep(100 * time.Millisecond)

		if got := calls.Load(); got != 1 {
			t.Errorf("expected 1 invocation, got %d", got)
		}
	})

	t.Run("distinct keys do not interfere", func(t *testing.T) {
		d := NewDebouncer()
		defer d.Stop()

		var a, b atomic.Int32
		d.Debounce("a", 10*time.Millisecond, func() { a.Add(1) })
		d.Debounce("b", 10*time.Millisecond, func() { b.Add(1) })

		time.Sleep(80 * time.Millisecond)

		if a.Load() != 1 || b.Load() != 1 {
			t.Errorf("expected both keys to fire once, got a=%d b=%d", a.Load(), b.Load())
		}
	})

	t.Run("cancel drops pending invocation", func(t *testing.T) {
		d := NewDebouncer()
		defer d.Stop()

		var calls atomic.Int32
		d.Debounce("x", 20*time.Millisecond, func() { calls.Add(1) })
		d.Cancel("x")

		time.Sleep(80 * time.Millisecond)

		if calls.Load() != 0 {
			t.Errorf("expected cancelled invocation not to run, got %d", calls.Load())
		}
	})

	t.Run("stop rejects further work", func(t *testing.T) {
		d := NewDebouncer()
		d.Stop()

		var calls atomic.Int32
		d.Debounce("x", 5*time.Millisecond, func() { calls.Add(1) })

		time.Sleep(50 * time.Millisecond)

		if calls.Load() != 0 {
			t.Errorf("expected no invocations after Stop, got %d", calls.Load())
		}
	})
}
