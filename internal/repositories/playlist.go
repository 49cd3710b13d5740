package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/shared"
)

// PlaylistRepository handles cached playlist rows keyed by the server's
// playlist id (remote_id). Soft deletes keep history without ghost entries.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Upsert inserts or refreshes the cached row for a remote playlist.
func (r *PlaylistRepository) Upsert(playlist models.Playlist) error {
	now := time.Now().UTC()

	var existing string
	err := r.db.QueryRow("SELECT id FROM playlists WHERE remote_id = ?", playlist.ID).Scan(&existing)
	switch {
	case err == sql.ErrNoRows:
		sequence, err := NextSequence(r.db, "playlists")
		if err != nil {
			return fmt.Errorf("failed to generate sequence: %w", err)
		}

		_, err = r.db.Exec(`
			INSERT INTO playlists (id, sequence, remote_id, name, url, epg_url, is_custom, public_token, last_sync_at, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			shared.GenerateID(),
			sequence,
			playlist.ID,
			playlist.Name,
			nullable(playlist.URL),
			nullable(playlist.EPGURL),
			playlist.IsCustom,
			nullable(playlist.PublicToken),
			playlist.LastSyncAt,
			now,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert playlist: %w", err)
		}
		return nil

	case err != nil:
		return fmt.Errorf("failed to look up playlist: %w", err)
	}

	_, err = r.db.Exec(`
		UPDATE playlists
		SET name = ?, url = ?, epg_url = ?, is_custom = ?, public_token = ?, last_sync_at = ?, updated_at = ?, deleted_at = NULL
		WHERE id = ?
	`,
		playlist.Name,
		nullable(playlist.URL),
		nullable(playlist.EPGURL),
		playlist.IsCustom,
		nullable(playlist.PublicToken),
		playlist.LastSyncAt,
		now,
		existing,
	)
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}
	return nil
}

// Get retrieves a cached playlist by its remote id, excluding soft-deleted rows.
func (r *PlaylistRepository) Get(remoteID string) (*models.Playlist, error) {
	row := r.db.QueryRow(`
		SELECT remote_id, name, url, epg_url, is_custom, public_token, last_sync_at
		FROM playlists
		WHERE remote_id = ? AND deleted_at IS NULL
	`, remoteID)

	playlist, err := scanPlaylist(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, remoteID)
	}
	return playlist, err
}

// List retrieves all cached playlists in sequence order, excluding soft-deleted rows.
func (r *PlaylistRepository) List() ([]models.Playlist, error) {
	rows, err := r.db.Query(`
		SELECT remote_id, name, url, epg_url, is_custom, public_token, last_sync_at
		FROM playlists
		WHERE deleted_at IS NULL
		ORDER BY sequence
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list playlists: %w", err)
	}
	defer rows.Close()

	var playlists []models.Playlist
	for rows.Next() {
		playlist, err := scanPlaylist(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, *playlist)
	}
	return playlists, rows.Err()
}

// PruneExcept soft-deletes cached playlists whose remote id is not in keep.
// Called after a full refresh so deletions on the server propagate.
func (r *PlaylistRepository) PruneExcept(keep []string) error {
	keepSet := make(map[string]bool, len(keep))
	for _, id := range keep {
		keepSet[id] = true
	}

	rows, err := r.db.Query("SELECT remote_id FROM playlists WHERE deleted_at IS NULL")
	if err != nil {
		return fmt.Errorf("failed to list playlists for pruning: %w", err)
	}
	defer rows.Close()

	var prune []string
	for rows.Next() {
		var remoteID string
		if err := rows.Scan(&remoteID); err != nil {
			return err
		}
		if !keepSet[remoteID] {
			prune = append(prune, remoteID)
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, remoteID := range prune {
		if _, err := r.db.Exec("UPDATE playlists SET deleted_at = ? WHERE remote_id = ?", now, remoteID); err != nil {
			return fmt.Errorf("failed to prune playlist %s: %w", remoteID, err)
		}
	}
	return nil
}

// Count returns the number of live cached playlists.
func (r *PlaylistRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM playlists WHERE deleted_at IS NULL").Scan(&count)
	return count, err
}

// rowID resolves the local row id for a remote playlist id.
func (r *PlaylistRepository) rowID(remoteID string) (string, error) {
	var id string
	err := r.db.QueryRow("SELECT id FROM playlists WHERE remote_id = ? AND deleted_at IS NULL", remoteID).Scan(&id)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, remoteID)
	}
	return id, err
}

type scannable interface {
	Scan(dest ...any) error
}

func scanPlaylist(row scannable) (*models.Playlist, error) {
	var playlist models.Playlist
	var url, epgURL, publicToken sql.NullString
	var lastSyncAt sql.NullTime

	if err := row.Scan(&playlist.ID, &playlist.Name, &url, &epgURL, &playlist.IsCustom, &publicToken, &lastSyncAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	playlist.URL = url.String
	playlist.EPGURL = epgURL.String
	playlist.PublicToken = publicToken.String
	if lastSyncAt.Valid {
		t := lastSyncAt.Time
		playlist.LastSyncAt = &t
	}
	return &playlist, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
