package main

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/therealtombi/Rumble-Live-Ops/internal/server"
	"github.com/therealtombi/Rumble-Live-Ops/internal/shared"
)

// Serve runs the HTTP control API until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd)

	repo, db, err := r.openDirectory()
	if err != nil {
		return err
	}
	defer db.Close()

	orchestrator, err := r.newOrchestrator(repo)
	if err != nil {
		return err
	}

	scraper, err := r.newScraper(repo)
	if err != nil {
		return err
	}

	debouncer := shared.NewDebouncer()
	defer debouncer.Stop()

	srv := server.New(r.config.Server, r.logger,
		server.NewJobsHandler(orchestrator, r.logger),
		server.NewEventsHandler(orchestrator.Events(), r.logger),
		server.NewDirectoryHandler(repo, r.logger),
		server.NewScrapeHandler(scraper, debouncer, r.config.Jobs.HarvestDebounce(), r.logger),
	)

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(srv.URL()); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	}

	return srv.ListenAndServe(ctx)
}
