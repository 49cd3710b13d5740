package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/tvx/internal/models"
)

// SnapshotAdapter implements store.PlaylistCache over the row repositories.
//
// Save replaces the cached collection with the given items (pruning rows the
// server no longer has); Load reassembles the last saved collection with
// channels attached.
type SnapshotAdapter struct {
	playlists *PlaylistRepository
	channels  *ChannelRepository
}

// NewSnapshotAdapter creates a SnapshotAdapter over the given database.
func NewSnapshotAdapter(db *sql.DB) *SnapshotAdapter {
	return &SnapshotAdapter{
		playlists: NewPlaylistRepository(db),
		channels:  NewChannelRepository(db),
	}
}

// Save caches the playlist collection as the last known-good snapshot.
func (a *SnapshotAdapter) Save(items []models.Playlist) error {
	keep := make([]string, 0, len(items))
	for _, item := range items {
		if err := a.playlists.Upsert(item); err != nil {
			return fmt.Errorf("failed to cache playlist %s: %w", item.ID, err)
		}
		keep = append(keep, item.ID)

		// Channels only arrive on single-playlist fetches; an empty set on a
		// collection refresh means "unknown", not "none", so leave the cached
		// channels alone.
		if len(item.Channels) == 0 {
			continue
		}

		rowID, err := a.playlists.rowID(item.ID)
		if err != nil {
			return err
		}
		if err := a.channels.ReplaceForPlaylist(rowID, item.Channels); err != nil {
			return fmt.Errorf("failed to cache channels for %s: %w", item.ID, err)
		}
	}

	return a.playlists.PruneExcept(keep)
}

// Load reads the cached collection back, channels attached in position order.
func (a *SnapshotAdapter) Load() ([]models.Playlist, error) {
	items, err := a.playlists.List()
	if err != nil {
		return nil, err
	}

	for i := range items {
		rowID, err := a.playlists.rowID(items[i].ID)
		if err != nil {
			return nil, err
		}
		channels, err := a.channels.ListForPlaylist(rowID)
		if err != nil {
			return nil, err
		}
		items[i].Channels = channels
	}

	return items, nil
}

// Stats summarizes the cache contents for the CLI.
type Stats struct {
	Playlists int `json:"playlists"`
	Channels  int `json:"channels"`
}

// CollectStats counts live cached rows.
func (a *SnapshotAdapter) CollectStats() (*Stats, error) {
	playlists, err := a.playlists.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count playlists: %w", err)
	}
	channels, err := a.channels.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count channels: %w", err)
	}
	return &Stats{Playlists: playlists, Channels: channels}, nil
}
