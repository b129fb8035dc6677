package models

import (
	"fmt"
	"strings"
	"time"
)

// Playlist is the harvested metadata for one account playlist.
type Playlist struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	VideoCount int    `json:"video_count"`
	Public     bool   `json:"public"`
}

// TitleKey returns the lowercased title used for case-insensitive lookups.
func (p Playlist) TitleKey() string {
	return strings.ToLower(strings.TrimSpace(p.Title))
}

// Channel is a followed channel surfaced as a raid candidate.
type Channel struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Live    bool   `json:"live"`
	Viewers int    `json:"viewers"`
}

// PersistedPlaylist wraps a Playlist with persistence metadata for the
// directory cache.
type PersistedPlaylist struct {
	id          string
	sequence    int
	playlist    Playlist
	harvestedAt time.Time
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   *time.Time
}

// NewPersistedPlaylist creates a PersistedPlaylist from a harvested Playlist.
func NewPersistedPlaylist(sequence int, harvestedAt time.Time, dto Playlist) *PersistedPlaylist {
	now := time.Now()
	return &PersistedPlaylist{
		sequence:    sequence,
		playlist:    dto,
		harvestedAt: harvestedAt,
		createdAt:   now,
		updatedAt:   now,
	}
}

func (p *PersistedPlaylist) ID() string             { return p.id }
func (p *PersistedPlaylist) Sequence() int          { return p.sequence }
func (p *PersistedPlaylist) PlaylistID() string     { return p.playlist.ID }
func (p *PersistedPlaylist) Title() string          { return p.playlist.Title }
func (p *PersistedPlaylist) TitleKey() string       { return p.playlist.TitleKey() }
func (p *PersistedPlaylist) VideoCount() int        { return p.playlist.VideoCount }
func (p *PersistedPlaylist) Public() bool           { return p.playlist.Public }
func (p *PersistedPlaylist) HarvestedAt() time.Time { return p.harvestedAt }
func (p *PersistedPlaylist) CreatedAt() time.Time   { return p.createdAt }
func (p *PersistedPlaylist) UpdatedAt() time.Time   { return p.updatedAt }
func (p *PersistedPlaylist) DeletedAt() *time.Time  { return p.deletedAt }

// DTO returns the underlying harvested metadata.
func (p *PersistedPlaylist) DTO() Playlist { return p.playlist }

func (p *PersistedPlaylist) SetID(id string)            { p.id = id }
func (p *PersistedPlaylist) SetUpdatedAt(t time.Time)   { p.updatedAt = t }
func (p *PersistedPlaylist) SetDeletedAt(t *time.Time)  { p.deletedAt = t }
func (p *PersistedPlaylist) SetHarvestedAt(t time.Time) { p.harvestedAt = t }

// Validate checks the playlist's data before persistence.
func (p *PersistedPlaylist) Validate() error {
	if p.playlist.ID == "" {
		return fmt.Errorf("playlist ID is required")
	}
	if p.playlist.Title == "" {
		return fmt.Errorf("playlist title is required")
	}
	if p.playlist.VideoCount < 0 {
		return fmt.Errorf("video count cannot be negative")
	}
	return nil
}
