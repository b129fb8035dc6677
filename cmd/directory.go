package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/therealtombi/Rumble-Live-Ops/internal/formatter"
	"github.com/therealtombi/Rumble-Live-Ops/internal/jobs"
	"github.com/therealtombi/Rumble-Live-Ops/internal/models"
	"github.com/therealtombi/Rumble-Live-Ops/internal/platform"
	"github.com/therealtombi/Rumble-Live-Ops/internal/shared"
	"github.com/therealtombi/Rumble-Live-Ops/internal/surface"
)

// newScraper builds the one-shot scrape runner over a shared parse surface.
func (r *Runner) newScraper(store jobs.DirectoryStore) (*jobs.Scraper, error) {
	service, err := r.requireService()
	if err != nil {
		return nil, err
	}

	parsers := surface.NewShared(func(ctx context.Context) (jobs.PageParser, error) {
		return platform.NewParseSurface(ctx, service, r.logger)
	})

	return jobs.NewScraper(parsers, store, r.config.Jobs.TargetTimeout(), r.logger), nil
}

// DirectoryList prints the cached playlist directory.
func (r *Runner) DirectoryList(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd)

	repo, db, err := r.openDirectory()
	if err != nil {
		return err
	}
	defer db.Close()

	playlists, err := repo.List(nil)
	if err != nil {
		return fmt.Errorf("failed to list directory: %w", err)
	}

	if len(playlists) == 0 {
		return r.writePlain("Directory is empty. Run 'rlo directory harvest' first.\n")
	}

	switch {
	case cmd.Bool("csv"):
		data, err := formatter.DirectoryToCSV(playlists)
		if err != nil {
			return err
		}
		return r.writePlain("%s", data)
	case cmd.Bool("json"):
		entries := make([]models.Playlist, 0, len(playlists))
		for _, p := range playlists {
			entries = append(entries, p.DTO())
		}
		return r.writeJSON(entries, cmd.Bool("pretty"))
	default:
		for _, p := range playlists {
			if err := r.writePlain("%-24s %-40s %5d videos  %s\n",
				p.PlaylistID(), p.Title(), p.VideoCount(), shared.VisibilityString(p.Public())); err != nil {
				return err
			}
		}
		return nil
	}
}

// DirectoryHarvest refreshes the directory from the account's playlists.
func (r *Runner) DirectoryHarvest(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd)

	repo, db, err := r.openDirectory()
	if err != nil {
		return err
	}
	defer db.Close()

	scraper, err := r.newScraper(repo)
	if err != nil {
		return err
	}

	result, err := scraper.Harvest(ctx)
	if err != nil {
		return fmt.Errorf("harvest failed: %w", err)
	}

	r.writePlain("✓ Directory refreshed: %d playlists\n", result.Playlists)
	return nil
}
