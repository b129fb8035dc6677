package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/therealtombi/Rumble-Live-Ops/internal/models"
	"github.com/therealtombi/Rumble-Live-Ops/internal/surface"
)

// PageParser is the parse-only surface contract one-shot scrape tasks run
// against. Unlike a job surface it carries no target of its own; it is shared
// between whatever tasks happen to overlap.
type PageParser interface {
	ListPlaylists(ctx context.Context) ([]models.Playlist, error)
	FollowedChannels(ctx context.Context) ([]models.Channel, error)
	Close() error
}

// DirectoryStore is the write side of the playlist directory.
type DirectoryStore interface {
	ReplaceAll(playlists []models.Playlist, harvestedAt time.Time) error
}

// HarvestResult summarizes one directory refresh.
type HarvestResult struct {
	Playlists   int       `json:"playlists"`
	HarvestedAt time.Time `json:"harvested_at"`
}

// Scraper runs the one-shot scrape tasks that do not go through the job
// lane: directory harvests and raid candidate discovery. Concurrent tasks
// share one parse surface; the last one out closes it.
type Scraper struct {
	logger  *log.Logger
	parsers *surface.Shared[PageParser]
	store   DirectoryStore
	timeout time.Duration
}

// NewScraper wires a scrape task runner.
func NewScraper(parsers *surface.Shared[PageParser], store DirectoryStore, timeout time.Duration, logger *log.Logger) *Scraper {
	return &Scraper{
		logger:  logger,
		parsers: parsers,
		store:   store,
		timeout: timeout,
	}
}

// Harvest refreshes the playlist directory from the account's playlists.
// The previous directory survives any failure along the way.
func (s *Scraper) Harvest(ctx context.Context) (*HarvestResult, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	parser, err := s.parsers.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parse surface: %w", err)
	}
	defer s.parsers.Release()

	playlists, err := parser.ListPlaylists(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}

	harvestedAt := time.Now()
	if err := s.store.ReplaceAll(playlists, harvestedAt); err != nil {
		return nil, fmt.Errorf("failed to store directory: %w", err)
	}

	s.logger.Info("directory harvested", "playlists", len(playlists))

	return &HarvestResult{Playlists: len(playlists), HarvestedAt: harvestedAt}, nil
}

// RaidCandidates returns the followed channels that are currently live,
// ordered by viewer count.
func (s *Scraper) RaidCandidates(ctx context.Context) ([]models.Channel, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	parser, err := s.parsers.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parse surface: %w", err)
	}
	defer s.parsers.Release()

	channels, err := parser.FollowedChannels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list followed channels: %w", err)
	}

	var live []models.Channel
	for _, c := range channels {
		if c.Live {
			live = append(live, c)
		}
	}

	s.logger.Debug("raid candidates", "live", len(live), "followed", len(channels))

	return live, nil
}
