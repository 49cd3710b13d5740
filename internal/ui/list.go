package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/shared"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = channelItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item]. The sync
// badge is captured at construction from the tracker snapshot.
type playlistItem struct {
	playlist models.Playlist
	status   models.SyncStatus
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }

func (i playlistItem) Title() string {
	switch i.status {
	case models.SyncSyncing:
		return fmt.Sprintf("%s %s", i.playlist.Name, styles.warn.Render("⟳"))
	case models.SyncSuccess:
		return fmt.Sprintf("%s %s", i.playlist.Name, styles.ok.Render("✓"))
	case models.SyncError:
		return fmt.Sprintf("%s %s", i.playlist.Name, styles.err.Render("✗"))
	default:
		return i.playlist.Name
	}
}

func (i playlistItem) Description() string {
	desc := fmt.Sprintf("last sync %s", shared.FormatTimestamp(i.playlist.LastSyncAt))
	if i.playlist.IsCustom {
		desc = fmt.Sprintf("custom • %s", desc)
	}
	return desc
}

// channelItem wraps [models.Channel] to implement [list.Item].
type channelItem struct {
	channel models.Channel
}

func (i channelItem) FilterValue() string { return i.channel.Name }
func (i channelItem) Title() string {
	return fmt.Sprintf("%d. %s", i.channel.Position, i.channel.Name)
}
func (i channelItem) Description() string {
	if i.channel.GroupTitle != "" {
		return i.channel.GroupTitle
	}
	return "ungrouped"
}
