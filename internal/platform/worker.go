package platform

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/therealtombi/Rumble-Live-Ops/internal/jobs"
	"github.com/therealtombi/Rumble-Live-Ops/internal/models"
	"github.com/therealtombi/Rumble-Live-Ops/internal/surface"
)

// PlaylistWorker executes playlist membership operations against a ready
// surface. It is the session-backed analogue of the injected page script:
// it re-reads the video's current memberships, applies only the deltas, and
// reports what it actually touched.
type PlaylistWorker struct {
	service Service
	logger  *log.Logger
}

// NewPlaylistWorker creates a worker on top of the platform service.
func NewPlaylistWorker(service Service, logger *log.Logger) *PlaylistWorker {
	return &PlaylistWorker{service: service, logger: logger}
}

// Run performs one operation against the surface's target. An error return
// means the worker could not run at all; a response with OK false is an
// orderly skip.
func (w *PlaylistWorker) Run(ctx context.Context, h *surface.Handle, req jobs.WorkRequest) (*jobs.WorkResponse, error) {
	page, err := w.service.FetchVideoPage(ctx, h.URL())
	if err != nil {
		return nil, fmt.Errorf("failed to identify video: %w", err)
	}

	current, err := w.service.VideoPlaylists(ctx, page.VideoID)
	if err != nil {
		return nil, fmt.Errorf("failed to read memberships: %w", err)
	}

	if req.ClearAll {
		return w.clearAll(ctx, page, current)
	}
	return w.apply(ctx, page, current, req.PlaylistIDs)
}

// apply brings the video's memberships up to include every requested
// playlist. Playlists the video is already in are skipped, not re-added.
func (w *PlaylistWorker) apply(ctx context.Context, page *VideoPage, current, wanted []string) (*jobs.WorkResponse, error) {
	if len(wanted) == 0 {
		return &jobs.WorkResponse{
			OK:     false,
			Reason: "no playlists to apply",
		}, nil
	}

	member := make(map[string]bool, len(current))
	for _, id := range current {
		member[id] = true
	}

	detail := jobs.WorkDetail{}
	for _, id := range wanted {
		if member[id] {
			detail.Skipped++
			continue
		}
		if err := w.service.AddToPlaylist(ctx, page.VideoID, id); err != nil {
			return nil, fmt.Errorf("failed to add video %s to playlist %s: %w", page.VideoID, id, err)
		}
		detail.Checked++
	}

	w.logger.Debug("playlists applied",
		"video", page.VideoID,
		"checked", detail.Checked,
		"skipped", detail.Skipped,
	)

	return &jobs.WorkResponse{OK: true, Detail: detail}, nil
}

// clearAll removes the video from every playlist it is currently in.
func (w *PlaylistWorker) clearAll(ctx context.Context, page *VideoPage, current []string) (*jobs.WorkResponse, error) {
	if len(current) == 0 {
		return &jobs.WorkResponse{
			OK:     false,
			Reason: "video is not in any playlist",
		}, nil
	}

	detail := jobs.WorkDetail{}
	for _, id := range current {
		if err := w.service.RemoveFromPlaylist(ctx, page.VideoID, id); err != nil {
			return nil, fmt.Errorf("failed to remove video %s from playlist %s: %w", page.VideoID, id, err)
		}
		detail.Checked++
	}

	w.logger.Debug("playlists cleared", "video", page.VideoID, "removed", detail.Checked)

	return &jobs.WorkResponse{OK: true, Detail: detail}, nil
}

// ParseSurface adapts the platform service to the parse-only surface used by
// scrape tasks.
type ParseSurface struct {
	service Service
	logger  *log.Logger
}

// NewParseSurface creates a parse surface over the platform service.
func NewParseSurface(ctx context.Context, service Service, logger *log.Logger) (*ParseSurface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	logger.Debug("parse surface created")
	return &ParseSurface{service: service, logger: logger}, nil
}

// ListPlaylists retrieves the account's playlists.
func (p *ParseSurface) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	return p.service.ListPlaylists(ctx)
}

// FollowedChannels retrieves followed channels with live status.
func (p *ParseSurface) FollowedChannels(ctx context.Context) ([]models.Channel, error) {
	return p.service.FollowedChannels(ctx)
}

// Close releases the surface.
func (p *ParseSurface) Close() error {
	p.logger.Debug("parse surface closed")
	return nil
}
