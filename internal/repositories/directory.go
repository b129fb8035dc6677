package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/therealtombi/Rumble-Live-Ops/internal/models"
	"github.com/therealtombi/Rumble-Live-Ops/internal/shared"
)

// DirectoryRepository implements models.Repository[*models.PersistedPlaylist]
// for the playlist directory cache.
//
// The directory is read-only while a bulk job runs; only an explicit harvest
// rewrites it, so lookups never race a concurrent mutation.
type DirectoryRepository struct {
	db *sql.DB
}

// NewDirectoryRepository creates a new DirectoryRepository with the given database connection
func NewDirectoryRepository(db *sql.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// Create inserts a new playlist into the directory with generated ID and sequence
func (r *DirectoryRepository) Create(playlist *models.PersistedPlaylist) error {
	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	playlist.SetID(id)

	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO playlists (id, sequence, playlist_id, title, title_key, video_count, public, harvested_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		playlist.PlaylistID(),
		playlist.Title(),
		playlist.TitleKey(),
		playlist.VideoCount(),
		playlist.Public(),
		playlist.HarvestedAt(),
		playlist.CreatedAt(),
		playlist.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	return nil
}

// Get retrieves a playlist by ID, excluding soft-deleted rows
func (r *DirectoryRepository) Get(id string) (*models.PersistedPlaylist, error) {
	query := `
		SELECT id, sequence, playlist_id, title, video_count, public, harvested_at, created_at, updated_at, deleted_at
		FROM playlists
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByPlaylistID retrieves a playlist by its platform playlist id
func (r *DirectoryRepository) GetByPlaylistID(playlistID string) (*models.PersistedPlaylist, error) {
	query := `
		SELECT id, sequence, playlist_id, title, video_count, public, harvested_at, created_at, updated_at, deleted_at
		FROM playlists
		WHERE playlist_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, playlistID))
}

// Update modifies an existing playlist in the directory
func (r *DirectoryRepository) Update(playlist *models.PersistedPlaylist) error {
	if err := playlist.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	playlist.SetUpdatedAt(now)

	query := `
		UPDATE playlists
		SET title = ?, title_key = ?, video_count = ?, public = ?, harvested_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		playlist.Title(),
		playlist.TitleKey(),
		playlist.VideoCount(),
		playlist.Public(),
		playlist.HarvestedAt(),
		now,
		playlist.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("playlist not found or already deleted: %s", playlist.ID())
	}

	return nil
}

// Delete soft-deletes a playlist by ID
func (r *DirectoryRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE playlists
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("playlist not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all playlists in the directory, excluding soft-deleted rows
func (r *DirectoryRepository) List(criteria map[string]any) ([]*models.PersistedPlaylist, error) {
	query := `
		SELECT id, sequence, playlist_id, title, video_count, public, harvested_at, created_at, updated_at, deleted_at
		FROM playlists
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if public, ok := criteria["public"].(bool); ok {
		query += " AND public = ?"
		args = append(args, public)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.PersistedPlaylist
	for rows.Next() {
		playlist, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

// LookupByName returns the platform ids of playlists whose title matches name,
// compared case-insensitively. Several playlists may share a title.
func (r *DirectoryRepository) LookupByName(name string) ([]string, error) {
	key := (models.Playlist{Title: name}).TitleKey()

	query := `
		SELECT playlist_id
		FROM playlists
		WHERE title_key = ? AND deleted_at IS NULL
		ORDER BY sequence ASC
	`

	rows, err := r.db.Query(query, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists by name: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan playlist id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return ids, nil
}

// ReplaceAll replaces the whole directory with a fresh harvest inside one
// transaction. Existing rows are hard-deleted; a failed harvest leaves the
// previous directory intact.
func (r *DirectoryRepository) ReplaceAll(playlists []models.Playlist, harvestedAt time.Time) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM playlists"); err != nil {
		return fmt.Errorf("failed to clear directory: %w", err)
	}

	for _, dto := range playlists {
		var sequence int
		if _, err := tx.Exec("UPDATE playlists_sequence SET value = value + 1 WHERE id = 1"); err != nil {
			return fmt.Errorf("failed to increment sequence: %w", err)
		}
		if err := tx.QueryRow("SELECT value FROM playlists_sequence WHERE id = 1").Scan(&sequence); err != nil {
			return fmt.Errorf("failed to get sequence value: %w", err)
		}

		persisted := models.NewPersistedPlaylist(sequence, harvestedAt, dto)
		persisted.SetID(shared.GenerateID())

		if err := persisted.Validate(); err != nil {
			return fmt.Errorf("validation failed for %s: %w", dto.ID, err)
		}

		_, err := tx.Exec(`
			INSERT INTO playlists (id, sequence, playlist_id, title, title_key, video_count, public, harvested_at, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			persisted.ID(),
			sequence,
			persisted.PlaylistID(),
			persisted.Title(),
			persisted.TitleKey(),
			persisted.VideoCount(),
			persisted.Public(),
			harvestedAt,
			persisted.CreatedAt(),
			persisted.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert playlist %s: %w", dto.ID, err)
		}
	}

	return tx.Commit()
}

// scanOne scans a single row into a [models.PersistedPlaylist]
func (r *DirectoryRepository) scanOne(row *sql.Row) (*models.PersistedPlaylist, error) {
	var (
		id          string
		sequence    int
		playlistID  string
		title       string
		videoCount  int
		public      bool
		harvestedAt time.Time
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := row.Scan(&id, &sequence, &playlistID, &title, &videoCount, &public, &harvestedAt, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	return buildPersisted(id, sequence, playlistID, title, videoCount, public, harvestedAt, updatedAt, deletedAt), nil
}

// scanRow scans a row from [sql.Rows] into a [models.PersistedPlaylist]
func (r *DirectoryRepository) scanRow(rows *sql.Rows) (*models.PersistedPlaylist, error) {
	var (
		id          string
		sequence    int
		playlistID  string
		title       string
		videoCount  int
		public      bool
		harvestedAt time.Time
		createdAt   time.Time
		updatedAt   time.Time
		deletedAt   sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &playlistID, &title, &videoCount, &public, &harvestedAt, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	return buildPersisted(id, sequence, playlistID, title, videoCount, public, harvestedAt, updatedAt, deletedAt), nil
}

func buildPersisted(id string, sequence int, playlistID, title string, videoCount int, public bool, harvestedAt, updatedAt time.Time, deletedAt sql.NullTime) *models.PersistedPlaylist {
	dto := models.Playlist{
		ID:         playlistID,
		Title:      title,
		VideoCount: videoCount,
		Public:     public,
	}

	playlist := models.NewPersistedPlaylist(sequence, harvestedAt, dto)
	playlist.SetID(id)
	playlist.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		playlist.SetDeletedAt(&deletedAt.Time)
	}

	return playlist
}
