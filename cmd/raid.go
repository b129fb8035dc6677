package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// RaidSuggest lists followed channels that are live right now, ordered by
// viewer count.
func (r *Runner) RaidSuggest(ctx context.Context, cmd *cli.Command) error {
	r.loadConfig(cmd)

	scraper, err := r.newScraper(nil)
	if err != nil {
		return err
	}

	channels, err := scraper.RaidCandidates(ctx)
	if err != nil {
		return fmt.Errorf("failed to find raid candidates: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(channels, true)
	}

	if len(channels) == 0 {
		return r.writePlain("No followed channels are live right now.\n")
	}

	for i, channel := range channels {
		if err := r.writePlain("%d. %-30s %6d viewers  %s\n", i+1, channel.Name, channel.Viewers, channel.URL); err != nil {
			return err
		}
	}

	return nil
}
