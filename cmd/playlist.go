package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"

	"github.com/therealtombi/Rumble-Live-Ops/internal/formatter"
	"github.com/therealtombi/Rumble-Live-Ops/internal/jobs"
	"github.com/therealtombi/Rumble-Live-Ops/internal/platform"
	"github.com/therealtombi/Rumble-Live-Ops/internal/shared"
	"github.com/therealtombi/Rumble-Live-Ops/internal/surface"
	"github.com/therealtombi/Rumble-Live-Ops/internal/ui"
)

// newOrchestrator wires the job runner against the imported session.
func (r *Runner) newOrchestrator(directory jobs.DirectoryLookup) (*jobs.Orchestrator, error) {
	service, err := r.requireService()
	if err != nil {
		return nil, err
	}

	manager := surface.NewTabManager(surface.LoadFunc(func(ctx context.Context, url string) error {
		_, err := service.FetchVideoPage(ctx, url)
		return err
	}), r.logger)

	worker := platform.NewPlaylistWorker(service, r.logger)

	return jobs.NewOrchestrator(manager, worker, directory, r.config, r.logger), nil
}

// collectTargets merges --target flags with an optional --targets-file.
func collectTargets(cmd *cli.Command) ([]string, error) {
	targets := cmd.StringSlice("target")

	if path := cmd.String("targets-file"); path != "" {
		fromFile, err := readTargetsFile(path)
		if err != nil {
			return nil, err
		}
		targets = append(targets, fromFile...)
	}

	return targets, nil
}

// readTargetsFile reads one target URL per line, skipping blanks and #
// comments.
func readTargetsFile(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open targets file: %w", err)
	}
	defer file.Close()

	var targets []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		targets = append(targets, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read targets file: %w", err)
	}

	return targets, nil
}

// PlaylistApply runs a bulk set job against the given targets.
func (r *Runner) PlaylistApply(ctx context.Context, cmd *cli.Command) error {
	return r.runJob(ctx, cmd, jobs.OpSet)
}

// PlaylistClear runs a bulk clear job against the given targets.
func (r *Runner) PlaylistClear(ctx context.Context, cmd *cli.Command) error {
	return r.runJob(ctx, cmd, jobs.OpClear)
}

func (r *Runner) runJob(ctx context.Context, cmd *cli.Command, kind jobs.OperationKind) error {
	r.loadConfig(cmd)

	targets, err := collectTargets(cmd)
	if err != nil {
		return err
	}

	repo, db, err := r.openDirectory()
	if err != nil {
		return err
	}
	defer db.Close()

	orchestrator, err := r.newOrchestrator(repo)
	if err != nil {
		return err
	}

	if kind == jobs.OpSet && cmd.Bool("ui") {
		model := ui.NewModel(orchestrator, repo, kind, targets)
		if _, err := tea.NewProgram(model, tea.WithAltScreen()).Run(); err != nil {
			return fmt.Errorf("dashboard failed: %w", err)
		}
		return nil
	}

	request := jobs.SubmitRequest{
		Kind:          kind,
		PlaylistIDs:   cmd.StringSlice("id"),
		PlaylistNames: cmd.StringSlice("name"),
		Targets:       targets,
		TargetTimeout: time.Duration(cmd.Int("timeout")) * time.Second,
	}

	events, unsubscribe := orchestrator.Events().Subscribe(64)
	defer unsubscribe()

	job, err := orchestrator.Start(request)
	if err != nil {
		return err
	}

	if err := r.watchJob(ctx, orchestrator, job, events); err != nil {
		return err
	}

	if reportPath := cmd.String("report"); reportPath != "" {
		if err := formatter.WriteReport(job.Report(), cmd.String("format"), reportPath); err != nil {
			return err
		}
		r.writePlain("Report written to %s\n", reportPath)
	}

	return nil
}

// watchJob prints progress lines until the job completes or the context is
// cancelled. Cancellation via ctx tears the job down.
func (r *Runner) watchJob(ctx context.Context, orchestrator *jobs.Orchestrator, job *jobs.Job, events <-chan jobs.Event) error {
	for {
		select {
		case event := <-events:
			switch event.Kind {
			case jobs.EventStarted:
				r.writePlain("Processing %d targets\n", event.Total)
			case jobs.EventProgress:
				r.writePlain("  (%d/%d) %s: %s\n", event.Done, event.Total, event.Target, event.Note)
			case jobs.EventComplete:
				r.writePlain("✓ Done: %d/%d succeeded\n", event.SuccessCount, event.Total)
				return nil
			case jobs.EventError:
				return fmt.Errorf("%w: %s", shared.ErrInvalidInput, event.Message)
			}
		case <-ctx.Done():
			orchestrator.Cancel()
			r.writePlain("Job cancelled\n")
			return nil
		case <-job.Finished():
			// The run loop is done; drain anything still buffered, then
			// stop. A cancelled job leaves no terminal event behind.
			for {
				select {
				case event := <-events:
					if event.Kind == jobs.EventComplete {
						r.writePlain("✓ Done: %d/%d succeeded\n", event.SuccessCount, event.Total)
						return nil
					}
					if event.Kind == jobs.EventProgress {
						r.writePlain("  (%d/%d) %s: %s\n", event.Done, event.Total, event.Target, event.Note)
					}
				default:
					return nil
				}
			}
		}
	}
}
