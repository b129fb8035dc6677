package jobs

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/therealtombi/Rumble-Live-Ops/internal/shared"
	"github.com/therealtombi/Rumble-Live-Ops/internal/surface"
)

// Orchestrator runs bulk jobs on a single lane: at most one job at a time,
// one open surface at a time, exactly one result per consumed target.
type Orchestrator struct {
	logger      *log.Logger
	surfaces    surface.Manager
	worker      Worker
	directory   DirectoryLookup
	broadcaster *Broadcaster

	baseURL        string
	defaultTimeout time.Duration

	mu     sync.Mutex
	active *Job
}

// SubmitRequest describes one job submission.
type SubmitRequest struct {
	Kind          OperationKind
	PlaylistIDs   []string
	PlaylistNames []string
	Targets       []string
	TargetTimeout time.Duration
}

// NewOrchestrator wires a job runner.
func NewOrchestrator(surfaces surface.Manager, worker Worker, directory DirectoryLookup, cfg *shared.Config, logger *log.Logger) *Orchestrator {
	return &Orchestrator{
		logger:         logger,
		surfaces:       surfaces,
		worker:         worker,
		directory:      directory,
		broadcaster:    NewBroadcaster(),
		baseURL:        cfg.Session.BaseURL,
		defaultTimeout: cfg.Jobs.TargetTimeout(),
	}
}

// Events exposes the progress broadcaster for subscribers.
func (o *Orchestrator) Events() *Broadcaster {
	return o.broadcaster
}

// Active reports whether a job is currently running.
func (o *Orchestrator) Active() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.active != nil
}

// Start validates a submission and, if it is runnable, begins processing in
// the background. A running job is torn down first; its surface is disposed
// and no further events from it are emitted. Rejections publish a single
// Error event and never a Started event.
func (o *Orchestrator) Start(req SubmitRequest) (*Job, error) {
	o.Cancel()

	job, err := o.buildJob(req)
	if err != nil {
		o.broadcaster.Publish(errorEvent(err.Error()))
		return nil, err
	}

	o.mu.Lock()
	o.active = job
	o.mu.Unlock()

	o.logger.Info("job started",
		"id", job.id,
		"operation", job.kind.String(),
		"targets", job.Total(),
		"playlists", len(job.request.PlaylistIDs),
	)

	o.broadcaster.Publish(startedEvent(job.id, job.Total()))
	go o.run(job)

	return job, nil
}

// Cancel stops the active job, if any, and waits for its surface to be
// disposed. Cancellation is silent: no Complete and no Error is emitted for
// the abandoned job. Cancelling when idle is a no-op.
func (o *Orchestrator) Cancel() {
	o.mu.Lock()
	job := o.active
	o.active = nil
	o.mu.Unlock()

	if job == nil {
		return
	}

	job.cancel()
	<-job.finished
	o.logger.Info("job cancelled", "id", job.id, "done", job.done, "total", job.Total())
}

// buildJob normalizes targets, resolves playlist names and rejects
// submissions that cannot do any work.
func (o *Orchestrator) buildJob(req SubmitRequest) (*Job, error) {
	queue := NormalizeTargets(o.baseURL, req.Targets)
	if len(queue) == 0 {
		return nil, fmt.Errorf("%w: no targets to process", shared.ErrEmptyTargetList)
	}

	request := WorkRequest{ClearAll: req.Kind == OpClear}
	missingCount := 0

	if req.Kind == OpSet {
		resolved, missing, err := ResolvePlaylists(o.directory, req.PlaylistIDs, req.PlaylistNames)
		if err != nil {
			return nil, err
		}
		if len(resolved) == 0 {
			if len(missing) > 0 {
				return nil, fmt.Errorf("%w: no playlists matched %s", shared.ErrNoPlaylists, strings.Join(missing, ", "))
			}
			return nil, fmt.Errorf("%w: no playlists selected", shared.ErrNoPlaylists)
		}
		request.PlaylistIDs = resolved
		request.PlaylistNames = req.PlaylistNames
		missingCount = len(missing)

		if missingCount > 0 {
			o.logger.Warn("playlist names not found in directory", "missing", missing)
		}
	}

	timeout := req.TargetTimeout
	if timeout <= 0 {
		timeout = o.defaultTimeout
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Job{
		id:       shared.GenerateID(),
		kind:     req.Kind,
		request:  request,
		queue:    queue,
		timeout:  timeout,
		missing:  missingCount,
		ctx:      ctx,
		cancel:   cancel,
		finished: make(chan struct{}),
	}, nil
}

// run walks the queue sequentially. The next surface is not opened until the
// previous target's result is recorded and its surface disposed.
func (o *Orchestrator) run(job *Job) {
	defer close(job.finished)

	for _, target := range job.queue {
		if job.ctx.Err() != nil {
			return
		}

		result, cancelled := o.processTarget(job, target)
		if cancelled {
			return
		}

		job.done++
		if result.Outcome == OutcomeSuccess {
			job.success++
		}
		job.results = append(job.results, *result)

		o.logger.Debug("target finished",
			"job", job.id,
			"target", target,
			"outcome", result.Outcome.String(),
			"done", job.done,
			"total", job.Total(),
		)

		o.broadcaster.Publish(progressEvent(job.id, job.done, job.Total(), target, result.Note()))
	}

	o.mu.Lock()
	if o.active == job {
		o.active = nil
	}
	o.mu.Unlock()

	if job.ctx.Err() != nil {
		return
	}

	o.logger.Info("job complete", "id", job.id, "success", job.success, "total", job.Total())
	o.broadcaster.Publish(completeEvent(job.id, job.success, job.Total()))
}

// processTarget opens a surface for one target, runs the worker and settles
// on exactly one outcome. The timeout arms as soon as the surface is
// requested, so a page that never finishes loading cannot stall the queue.
func (o *Orchestrator) processTarget(job *Job, target string) (*Result, bool) {
	h, err := o.surfaces.Acquire(job.ctx, target)
	if err != nil {
		if job.ctx.Err() != nil {
			return nil, true
		}
		return &Result{
			Target:  target,
			Outcome: OutcomeInjectionFailed,
			Reason:  err.Error(),
		}, false
	}
	defer o.surfaces.Dispose(h)

	targetCtx, targetCancel := context.WithCancel(job.ctx)
	defer targetCancel()

	timer := time.NewTimer(job.timeout)
	defer timer.Stop()

	cell := NewCell[Result]()

	select {
	case loadErr := <-h.Ready():
		if loadErr != nil {
			cell.Settle(Result{
				Target:  target,
				Outcome: OutcomeInjectionFailed,
				Reason:  loadErr.Error(),
			})
			break
		}
		go func() {
			resp, runErr := o.worker.Run(targetCtx, h, job.request)
			if runErr != nil {
				cell.Settle(Result{
					Target:  target,
					Outcome: OutcomeInjectionFailed,
					Reason:  runErr.Error(),
				})
				return
			}
			cell.Settle(resultFromResponse(target, resp))
		}()
	case <-timer.C:
		cell.Settle(Result{Target: target, Outcome: OutcomeTimedOut})
	case <-h.Closed():
		cell.Settle(Result{
			Target:  target,
			Outcome: OutcomeInjectionFailed,
			Reason:  "surface closed before it was ready",
		})
	case <-job.ctx.Done():
		return nil, true
	}

	select {
	case <-cell.Done():
	case <-timer.C:
		cell.Settle(Result{Target: target, Outcome: OutcomeTimedOut})
	case <-h.Closed():
		cell.Settle(Result{
			Target:  target,
			Outcome: OutcomeInjectionFailed,
			Reason:  "surface closed mid-operation",
		})
	case <-job.ctx.Done():
		return nil, true
	}

	result := cell.Value()
	return &result, false
}

// resultFromResponse maps a worker reply onto a result. An OK reply is a
// success; a non-OK reply is an orderly skip carrying the worker's reason.
func resultFromResponse(target string, resp *WorkResponse) Result {
	if resp == nil {
		return Result{
			Target:  target,
			Outcome: OutcomeInjectionFailed,
			Reason:  "worker returned no response",
		}
	}

	detail := resp.Detail
	if resp.OK {
		return Result{Target: target, Outcome: OutcomeSuccess, Detail: &detail}
	}
	return Result{
		Target:  target,
		Outcome: OutcomeSkipped,
		Reason:  resp.Reason,
		Detail:  &detail,
	}
}
