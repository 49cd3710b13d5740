package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/shared"
	"github.com/urfave/cli/v3"
)

// ChannelAdd appends a channel to a playlist.
func (r *Runner) ChannelAdd(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("playlist")
	draft := models.ChannelDraft{
		Name:       cmd.String("name"),
		URL:        cmd.String("url"),
		GroupTitle: cmd.String("group"),
		LogoURL:    cmd.String("logo"),
		TvgID:      cmd.String("tvg-id"),
	}

	if err := r.store.Playlists.AddChannel(ctx, playlistID, draft); err != nil {
		return r.storeErr("Failed to add channel")
	}

	return r.writePlain("✓ Added '%s'\n", draft.Name)
}

// ChannelUpdate applies a partial update from the provided flags.
func (r *Runner) ChannelUpdate(ctx context.Context, cmd *cli.Command) error {
	channelID := cmd.StringArg("id")
	if channelID == "" {
		return fmt.Errorf("%w: channel id", shared.ErrMissingArgument)
	}

	var patch models.ChannelPatch
	if cmd.IsSet("name") {
		name := cmd.String("name")
		patch.Name = &name
	}
	if cmd.IsSet("url") {
		url := cmd.String("url")
		patch.URL = &url
	}
	if cmd.IsSet("group") {
		group := cmd.String("group")
		patch.GroupTitle = &group
	}

	if err := r.store.Playlists.UpdateChannel(ctx, cmd.String("playlist"), channelID, patch); err != nil {
		return r.storeErr("Failed to update channel")
	}

	return r.writePlain("✓ Updated channel %s\n", channelID)
}

// ChannelDelete removes a channel.
func (r *Runner) ChannelDelete(ctx context.Context, cmd *cli.Command) error {
	channelID := cmd.StringArg("id")
	if channelID == "" {
		return fmt.Errorf("%w: channel id", shared.ErrMissingArgument)
	}

	if err := r.store.Playlists.DeleteChannel(ctx, cmd.String("playlist"), channelID); err != nil {
		return r.storeErr("Failed to delete channel")
	}

	return r.writePlain("✓ Deleted channel %s\n", channelID)
}

// ChannelMove reorders one channel by 1-based position over the playlist's
// full channel sequence.
func (r *Runner) ChannelMove(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("playlist")
	from := int(cmd.Int("from"))
	to := int(cmd.Int("to"))

	if err := r.store.Playlists.LoadOne(ctx, playlistID); err != nil {
		return r.storeErr("Failed to load playlist")
	}

	playlist := r.store.Snapshot().Playlists.Current
	if playlist == nil {
		return fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, playlistID)
	}

	count := len(playlist.Channels)
	if from < 1 || from > count || to < 1 || to > count {
		return fmt.Errorf("%w: positions must be between 1 and %d", shared.ErrInvalidInput, count)
	}

	dest := to - 1
	drop := models.DropResult{SourceIndex: from - 1, DestinationIndex: &dest}
	if err := r.store.Playlists.ReorderChannels(ctx, playlistID, playlist.Channels, drop); err != nil {
		return r.storeErr("Failed to reorder channels")
	}

	return r.writePlain("✓ Moved channel from %d to %d\n", from, to)
}

// ChannelPlay opens a channel's stream in the system player.
func (r *Runner) ChannelPlay(ctx context.Context, cmd *cli.Command) error {
	channelID := cmd.StringArg("id")
	if channelID == "" {
		return fmt.Errorf("%w: channel id", shared.ErrMissingArgument)
	}

	playlist, err := r.service.GetPlaylist(ctx, cmd.String("playlist"))
	if err != nil {
		return fmt.Errorf("failed to load playlist: %w", err)
	}

	for _, ch := range playlist.Channels {
		if ch.ID == channelID {
			r.logger.Infof("opening stream %v", ch.URL)
			if err := shared.OpenStream(ch.URL); err != nil {
				return fmt.Errorf("failed to open stream: %w", err)
			}
			return r.writePlain("✓ Playing '%s'\n", ch.Name)
		}
	}

	return fmt.Errorf("%w: %s", shared.ErrChannelNotFound, channelID)
}
