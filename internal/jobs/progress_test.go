package jobs

import (
	"testing"
	"time"
)

func TestBroadcaster_FanOut(t *testing.T) {
	b := NewBroadcaster()

	first, unsubFirst := b.Subscribe(4)
	second, unsubSecond := b.Subscribe(4)
	defer unsubFirst()
	defer unsubSecond()

	b.Publish(startedEvent("job-1", 3))

	for _, sub := range []<-chan Event{first, second} {
		select {
		case e := <-sub:
			if e.Kind != EventStarted || e.Total != 3 {
				t.Errorf("event = %+v", e)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber never received event")
		}
	}
}

func TestBroadcaster_SlowSubscriberNeverBlocks(t *testing.T) {
	b := NewBroadcaster()

	// Zero-buffer subscriber that never drains.
	_, unsub := b.Subscribe(0)
	defer unsub()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := range 100 {
			b.Publish(progressEvent("job-1", i+1, 100, "t", ""))
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Publish() blocked on a stalled subscriber")
	}
}

func TestBroadcaster_Unsubscribe(t *testing.T) {
	b := NewBroadcaster()

	sub, unsub := b.Subscribe(1)
	unsub()
	unsub() // repeated unsubscribe is fine

	if _, open := <-sub; open {
		t.Error("channel should be closed after unsubscribe")
	}

	b.Publish(errorEvent("late")) // must not panic
}

func TestEventKindString(t *testing.T) {
	tests := []struct {
		kind EventKind
		want string
	}{
		{EventStarted, "started"},
		{EventProgress, "progress"},
		{EventComplete, "complete"},
		{EventError, "error"},
		{EventKind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("String(%d) = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
