package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/therealtombi/Rumble-Live-Ops/internal/shared"
)

// OperationKind selects what a job does to each target.
type OperationKind int

const (
	// OpSet applies a set of playlists to each target.
	OpSet OperationKind = iota
	// OpClear removes each target from all playlists.
	OpClear
)

// String returns a human-readable operation name.
func (k OperationKind) String() string {
	switch k {
	case OpSet:
		return "set"
	case OpClear:
		return "clear"
	default:
		return "unknown"
	}
}

// ParseOperationKind converts a string into an OperationKind.
func ParseOperationKind(s string) (OperationKind, error) {
	switch s {
	case "set":
		return OpSet, nil
	case "clear":
		return OpClear, nil
	default:
		return 0, fmt.Errorf("%w: operation %q", shared.ErrInvalidArgument, s)
	}
}

// Outcome classifies what happened to one target.
type Outcome int

const (
	// OutcomeSuccess means the worker completed the operation.
	OutcomeSuccess Outcome = iota
	// OutcomeSkipped means the worker examined the target and declined with a reason.
	OutcomeSkipped
	// OutcomeTimedOut means no response arrived within the target timeout.
	OutcomeTimedOut
	// OutcomeInjectionFailed means the worker could not run at all.
	OutcomeInjectionFailed
)

// String returns a human-readable outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeSkipped:
		return "skipped"
	case OutcomeTimedOut:
		return "timed out"
	case OutcomeInjectionFailed:
		return "injection failed"
	default:
		return "unknown"
	}
}

// Result records what happened to exactly one target.
type Result struct {
	Target  string      `json:"target"`
	Outcome Outcome     `json:"outcome"`
	Reason  string      `json:"reason,omitempty"`
	Detail  *WorkDetail `json:"detail,omitempty"`
}

// Note renders a short progress annotation for the result.
func (r Result) Note() string {
	switch r.Outcome {
	case OutcomeSuccess:
		if r.Detail != nil {
			return fmt.Sprintf("ok (%d checked, %d skipped)", r.Detail.Checked, r.Detail.Skipped)
		}
		return "ok"
	case OutcomeSkipped:
		if r.Reason != "" {
			return "skipped: " + r.Reason
		}
		return "skipped"
	case OutcomeTimedOut:
		return "timed out"
	case OutcomeInjectionFailed:
		if r.Reason != "" {
			return "injection failed: " + r.Reason
		}
		return "injection failed"
	default:
		return r.Outcome.String()
	}
}

// Job is one submitted batch. All fields are owned by the run loop once the
// job starts; snapshots for readers are taken under the orchestrator lock.
type Job struct {
	id      string
	kind    OperationKind
	request WorkRequest
	queue   []string
	timeout time.Duration
	missing int

	done    int
	success int
	results []Result

	ctx      context.Context
	cancel   context.CancelFunc
	finished chan struct{}
}

// ID returns the job's unique id.
func (j *Job) ID() string { return j.id }

// Kind returns the job's operation kind.
func (j *Job) Kind() OperationKind { return j.kind }

// Total returns the number of targets in the queue after deduplication.
func (j *Job) Total() int { return len(j.queue) }

// Results returns the per-target results recorded so far.
func (j *Job) Results() []Result { return j.results }

// MissingNames returns how many requested playlist names had no directory match.
func (j *Job) MissingNames() int { return j.missing }

// SuccessCount returns the number of targets that completed successfully.
func (j *Job) SuccessCount() int { return j.success }

// Finished is closed when the run loop exits, whether the job completed or
// was cancelled.
func (j *Job) Finished() <-chan struct{} { return j.finished }

// Report is an immutable snapshot of a job, taken for rendering and export.
type Report struct {
	JobID        string        `json:"job_id"`
	Operation    OperationKind `json:"operation"`
	Total        int           `json:"total"`
	SuccessCount int           `json:"success_count"`
	Results      []Result      `json:"results"`
}

// Report snapshots the job. Take it after Finished closes; the run loop owns
// the fields until then.
func (j *Job) Report() Report {
	results := make([]Result, len(j.results))
	copy(results, j.results)

	return Report{
		JobID:        j.id,
		Operation:    j.kind,
		Total:        j.Total(),
		SuccessCount: j.success,
		Results:      results,
	}
}
