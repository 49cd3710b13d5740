package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tvx/internal/repositories"
	"github.com/desertthunder/tvx/internal/shared"
	"github.com/urfave/cli/v3"
)

// CacheStats prints row counts from the offline snapshot.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return fmt.Errorf("%w: cache database not initialized, run 'tvx setup'", shared.ErrMissingConfig)
	}

	stats, err := repositories.NewSnapshotAdapter(r.db).CollectStats()
	if err != nil {
		return fmt.Errorf("failed to collect cache stats: %w", err)
	}

	r.writePlain("Cached playlists: %d\n", stats.Playlists)
	r.writePlain("Cached channels:  %d\n", stats.Channels)
	return nil
}

// CacheRefresh reloads the collection from the server. With the cache wired,
// a successful load rewrites the snapshot as a side effect.
func (r *Runner) CacheRefresh(ctx context.Context, cmd *cli.Command) error {
	if r.db == nil {
		return fmt.Errorf("%w: cache database not initialized, run 'tvx setup'", shared.ErrMissingConfig)
	}

	if err := r.store.Playlists.LoadAll(ctx); err != nil {
		return r.storeErr("Failed to load playlists")
	}

	count := len(r.store.Snapshot().Playlists.Items)
	return r.writePlain("✓ Cached %d playlists\n", count)
}
