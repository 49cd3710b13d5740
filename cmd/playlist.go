package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/tvx/internal/formatter"
	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistList loads the collection through the store and prints it. A server
// failure still prints cached rows when the cache could restore them.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	loadErr := r.store.Playlists.LoadAll(ctx)

	snap := r.store.Snapshot().Playlists
	if loadErr != nil && len(snap.Items) == 0 {
		return r.storeErr("Failed to load playlists")
	}

	if cmd.Bool("json") {
		return r.writeJSON(snap.Items, cmd.Bool("pretty"))
	}

	if loadErr != nil {
		r.writePlain("%s (showing cached data)\n\n", snap.Err)
	}

	if len(snap.Items) == 0 {
		return r.writePlain("No playlists yet. Create one with 'tvx playlists create'.\n")
	}

	for _, pl := range snap.Items {
		kind := "m3u"
		if pl.IsCustom {
			kind = "custom"
		}
		r.writePlain("%s  %-30s %-7s last sync %s\n", pl.ID, pl.Name, kind, shared.FormatTimestamp(pl.LastSyncAt))
	}
	return nil
}

// PlaylistShow prints one playlist with its channels.
func (r *Runner) PlaylistShow(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	if err := r.store.Playlists.LoadOne(ctx, id); err != nil {
		return r.storeErr("Failed to load playlist")
	}

	playlist := r.store.Snapshot().Playlists.Current
	if playlist == nil {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, id)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlist, cmd.Bool("pretty"))
	}

	r.writePlain("%s\n", playlist.Name)
	if playlist.URL != "" {
		r.writePlain("Source: %s\n", playlist.URL)
	}
	if playlist.PublicToken != "" {
		r.writePlain("Share token: %s\n", playlist.PublicToken)
	}
	r.writePlain("Last sync: %s\n", shared.FormatTimestamp(playlist.LastSyncAt))
	r.writePlain("Channels: %d\n\n", len(playlist.Channels))

	for _, ch := range playlist.Channels {
		group := ch.GroupTitle
		if group == "" {
			group = "-"
		}
		r.writePlain("%4d  %s  %-30s %s\n", ch.Position, ch.ID, ch.Name, group)
	}
	return nil
}

// PlaylistCreate creates a playlist from flags.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	draft := models.PlaylistDraft{
		Name:     cmd.String("name"),
		URL:      cmd.String("url"),
		EPGURL:   cmd.String("epg"),
		IsCustom: cmd.String("url") == "",
	}

	playlist, err := r.store.Playlists.Create(ctx, draft)
	if err != nil {
		return r.storeErr("Failed to create playlist")
	}

	r.logger.Infof("created playlist %v", playlist.ID)
	return r.writePlain("✓ Created '%s' (%s)\n", playlist.Name, playlist.ID)
}

// PlaylistUpdate applies a partial update from the provided flags.
func (r *Runner) PlaylistUpdate(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	var patch models.PlaylistPatch
	if cmd.IsSet("name") {
		name := cmd.String("name")
		patch.Name = &name
	}
	if cmd.IsSet("url") {
		url := cmd.String("url")
		patch.URL = &url
	}
	if cmd.IsSet("epg") {
		epg := cmd.String("epg")
		patch.EPGURL = &epg
	}

	playlist, err := r.store.Playlists.Update(ctx, id, patch)
	if err != nil {
		return r.storeErr("Failed to update playlist")
	}

	return r.writePlain("✓ Updated '%s'\n", playlist.Name)
}

// PlaylistDelete removes a playlist after confirmation.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	if !cmd.Bool("yes") {
		r.writePlain("Delete playlist %s? [y/N] ", id)
		var answer string
		fmt.Fscanln(os.Stdin, &answer)
		if !strings.EqualFold(answer, "y") {
			return r.writePlain("Aborted.\n")
		}
	}

	if err := r.store.Playlists.Delete(ctx, id); err != nil {
		return r.storeErr("Failed to delete playlist")
	}

	return r.writePlain("✓ Deleted %s\n", id)
}

// PlaylistSync re-fetches a playlist's source and reports the tracked outcome.
func (r *Runner) PlaylistSync(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	r.logger.Infof("syncing playlist %v", id)
	if err := r.store.Playlists.Sync(ctx, id); err != nil {
		return r.storeErr("Sync failed")
	}

	if status := r.store.Playlists.Tracker().Status(id); status != models.SyncSuccess {
		return fmt.Errorf("sync finished with status %s", status)
	}
	return r.writePlain("✓ Playlist synchronized\n")
}

// PlaylistShare enables public sharing and prints the token URL.
func (r *Runner) PlaylistShare(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	playlist, err := r.store.Playlists.GenerateToken(ctx, id)
	if err != nil {
		return r.storeErr("Failed to generate share token")
	}

	r.writePlain("✓ Sharing enabled for '%s'\n", playlist.Name)
	r.writePlain("Token: %s\n", playlist.PublicToken)
	r.writePlain("M3U:   %s/playlists/%s/m3u\n", r.config.API.BaseURL, playlist.PublicToken)
	return nil
}

// PlaylistPreview fetches a shared playlist by its public token and lists its
// channels. No session needed; the token in the path is the credential.
func (r *Runner) PlaylistPreview(ctx context.Context, cmd *cli.Command) error {
	token := cmd.StringArg("token")
	if token == "" {
		return fmt.Errorf("%w: share token", shared.ErrMissingArgument)
	}

	body, err := r.service.PublicM3U(ctx, token)
	if err != nil {
		return fmt.Errorf("failed to fetch shared playlist: %w", err)
	}

	if cmd.Bool("raw") {
		return r.writePlain("%s", body)
	}

	channels, err := formatter.ParseM3U([]byte(body))
	if err != nil {
		return fmt.Errorf("failed to parse shared playlist: %w", err)
	}

	if epg := formatter.EPGFromM3U([]byte(body)); epg != "" {
		r.writePlain("EPG: %s\n", epg)
	}
	for _, channel := range channels {
		group := channel.GroupTitle
		if group == "" {
			group = "ungrouped"
		}
		r.writePlain("%3d. %s (%s)\n", channel.Position, channel.Name, group)
	}
	return r.writePlain("%d channels\n", len(channels))
}

// PlaylistExport writes a playlist in the requested format.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: playlist id", shared.ErrMissingArgument)
	}

	playlist, err := r.service.GetPlaylist(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to load playlist: %w", err)
	}

	var data []byte
	switch format := cmd.String("format"); format {
	case "m3u":
		data = formatter.ExportToM3U(playlist)
	case "csv":
		if data, err = formatter.ExportToCSV(playlist); err != nil {
			return err
		}
	case "md", "markdown":
		data = formatter.ExportToMarkdown(playlist)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}

	outputPath := cmd.String("output")
	if outputPath == "" {
		return r.writePlain("%s", string(data))
	}

	if err := os.WriteFile(outputPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	return r.writePlain("✓ Exported '%s' to %s\n", playlist.Name, outputPath)
}
