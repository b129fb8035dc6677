// package platform implements the Rumble-facing client used by automation
// workers and scrape tasks.
//
// All requests ride on the streamer's imported browser session. Page
// extraction is kept to narrow, typed helpers; anything the markup no longer
// exposes surfaces as [shared.ErrElementNotFound] rather than a guess.
package platform

import (
	"context"

	"github.com/therealtombi/Rumble-Live-Ops/internal/models"
)

// VideoPage is the loaded state of one video page.
type VideoPage struct {
	URL     string
	VideoID string
	Title   string
}

// MembershipChange summarizes one apply/clear operation on a video.
type MembershipChange struct {
	Checked int // playlists toggled on
	Skipped int // playlists already in the desired state
}

// Service defines the platform operations the orchestrator and scrape tasks
// depend on.
type Service interface {
	// FetchVideoPage loads a video page and extracts its identity.
	FetchVideoPage(ctx context.Context, url string) (*VideoPage, error)

	// VideoPlaylists returns the playlist ids the video currently belongs to.
	VideoPlaylists(ctx context.Context, videoID string) ([]string, error)

	// AddToPlaylist adds the video to one playlist.
	AddToPlaylist(ctx context.Context, videoID, playlistID string) error

	// RemoveFromPlaylist removes the video from one playlist.
	RemoveFromPlaylist(ctx context.Context, videoID, playlistID string) error

	// ListPlaylists retrieves the account's playlists for the directory harvest.
	ListPlaylists(ctx context.Context) ([]models.Playlist, error)

	// FollowedChannels retrieves followed channels with live status for raid discovery.
	FollowedChannels(ctx context.Context) ([]models.Channel, error)

	// Name returns the platform name for logging and display.
	Name() string
}
