package jobs

import "sync"

// EventKind distinguishes the four progress signals a job can emit.
type EventKind int

const (
	// EventStarted fires once when a job is accepted, before the first target opens.
	EventStarted EventKind = iota
	// EventProgress fires after each target finishes, successful or not.
	EventProgress
	// EventComplete fires once after the final target.
	EventComplete
	// EventError fires when a submission is rejected. Never follows EventStarted.
	EventError
)

// String returns the event kind's wire name.
func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventProgress:
		return "progress"
	case EventComplete:
		return "complete"
	case EventError:
		return "error"
	default:
		return "unknown"
	}
}

// Event is one progress broadcast.
type Event struct {
	Kind         EventKind `json:"kind"`
	JobID        string    `json:"job_id,omitempty"`
	Done         int       `json:"done,omitempty"`
	Total        int       `json:"total,omitempty"`
	Target       string    `json:"target,omitempty"`
	Note         string    `json:"note,omitempty"`
	SuccessCount int       `json:"success_count,omitempty"`
	Message      string    `json:"message,omitempty"`
}

func startedEvent(jobID string, total int) Event {
	return Event{Kind: EventStarted, JobID: jobID, Total: total}
}

func progressEvent(jobID string, done, total int, target, note string) Event {
	return Event{Kind: EventProgress, JobID: jobID, Done: done, Total: total, Target: target, Note: note}
}

func completeEvent(jobID string, success, total int) Event {
	return Event{Kind: EventComplete, JobID: jobID, SuccessCount: success, Total: total}
}

func errorEvent(message string) Event {
	return Event{Kind: EventError, Message: message}
}

// Broadcaster fans progress events out to any number of subscribers. Sends
// never block: a subscriber that stops draining misses events rather than
// stalling the job.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[int]chan Event
	next int
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[int]chan Event)}
}

// Subscribe registers a listener with the given buffer size and returns the
// event channel plus an unsubscribe function.
func (b *Broadcaster) Subscribe(buffer int) (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++

	ch := make(chan Event, buffer)
	b.subs[id] = ch

	unsubscribe := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}

	return ch, unsubscribe
}

// Publish delivers an event to every subscriber without blocking.
func (b *Broadcaster) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		select {
		case sub <- e:
		default:
		}
	}
}
