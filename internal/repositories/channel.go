package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/shared"
)

// ChannelRepository handles cached channel rows, always scoped to their
// parent playlist. Channels are never shared across playlists.
type ChannelRepository struct {
	db *sql.DB
}

// NewChannelRepository creates a new ChannelRepository with the given database connection
func NewChannelRepository(db *sql.DB) *ChannelRepository {
	return &ChannelRepository{db: db}
}

// ReplaceForPlaylist swaps a playlist's cached channel set for the given
// sequence in one transaction, preserving the server-assigned order.
func (r *ChannelRepository) ReplaceForPlaylist(playlistRowID string, channels []models.Channel) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM channels WHERE playlist_id = ?", playlistRowID); err != nil {
		return fmt.Errorf("failed to clear channels: %w", err)
	}

	now := time.Now().UTC()
	for _, channel := range channels {
		tags, err := json.Marshal(channel.ExtraTags)
		if err != nil {
			return fmt.Errorf("failed to encode channel tags: %w", err)
		}

		sequence, err := nextSequenceTx(tx, "channels")
		if err != nil {
			return fmt.Errorf("failed to generate sequence: %w", err)
		}

		_, err = tx.Exec(`
			INSERT INTO channels (id, sequence, remote_id, playlist_id, name, url, group_title, logo_url, tvg_id, extra_tags, position, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			shared.GenerateID(),
			sequence,
			channel.ID,
			playlistRowID,
			channel.Name,
			channel.URL,
			nullable(channel.GroupTitle),
			nullable(channel.LogoURL),
			nullable(channel.TvgID),
			string(tags),
			channel.Position,
			now,
			now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert channel: %w", err)
		}
	}

	return tx.Commit()
}

// ListForPlaylist retrieves a playlist's cached channels in position order.
func (r *ChannelRepository) ListForPlaylist(playlistRowID string) ([]models.Channel, error) {
	rows, err := r.db.Query(`
		SELECT remote_id, name, url, group_title, logo_url, tvg_id, extra_tags, position
		FROM channels
		WHERE playlist_id = ? AND deleted_at IS NULL
		ORDER BY position
	`, playlistRowID)
	if err != nil {
		return nil, fmt.Errorf("failed to list channels: %w", err)
	}
	defer rows.Close()

	var channels []models.Channel
	for rows.Next() {
		var channel models.Channel
		var groupTitle, logoURL, tvgID sql.NullString
		var tags string

		if err := rows.Scan(&channel.ID, &channel.Name, &channel.URL, &groupTitle, &logoURL, &tvgID, &tags, &channel.Position); err != nil {
			return nil, fmt.Errorf("failed to scan channel: %w", err)
		}

		channel.GroupTitle = groupTitle.String
		channel.LogoURL = logoURL.String
		channel.TvgID = tvgID.String
		if tags != "" && tags != "{}" && tags != "null" {
			if err := json.Unmarshal([]byte(tags), &channel.ExtraTags); err != nil {
				return nil, fmt.Errorf("failed to decode channel tags: %w", err)
			}
		}

		channels = append(channels, channel)
	}
	return channels, rows.Err()
}

// Count returns the number of live cached channels across all playlists.
func (r *ChannelRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow("SELECT COUNT(*) FROM channels WHERE deleted_at IS NULL").Scan(&count)
	return count, err
}
