package models

import (
	"errors"
	"strings"
	"time"
)

// ErrEmptyName is the single client-side validation failure: playlist drafts
// must carry a non-empty name before any network call is made.
var ErrEmptyName = errors.New("playlist name is required")

// Playlist represents an IPTV channel collection, either synchronized from a
// remote M3U source (URL set) or manually curated (IsCustom).
type Playlist struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	URL         string     `json:"url,omitempty"`
	EPGURL      string     `json:"epg_url,omitempty"`
	IsCustom    bool       `json:"is_custom"`
	PublicToken string     `json:"public_token,omitempty"`
	LastSyncAt  *time.Time `json:"last_sync_at,omitempty"`
	Channels    []Channel  `json:"channels,omitempty"`
}

// Channel represents a single stream entry within a playlist.
type Channel struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	URL        string            `json:"url"`
	GroupTitle string            `json:"group_title,omitempty"`
	LogoURL    string            `json:"logo_url,omitempty"`
	TvgID      string            `json:"tvg_id,omitempty"`
	ExtraTags  map[string]string `json:"extra_tags,omitempty"`
	Position   int               `json:"position"`
}

// Principal is the authenticated user's identity as derived from the bearer token.
type Principal struct {
	Username string    `json:"username"`
	Expiry   time.Time `json:"expiry"`
}

// PlaylistDraft carries the fields accepted when creating a playlist.
// Everything beyond a non-empty name is validated server-side.
type PlaylistDraft struct {
	Name     string `json:"name"`
	URL      string `json:"url,omitempty"`
	EPGURL   string `json:"epg_url,omitempty"`
	IsCustom bool   `json:"is_custom"`
}

// PlaylistPatch is a partial playlist update; nil fields are left untouched.
type PlaylistPatch struct {
	Name     *string `json:"name,omitempty"`
	URL      *string `json:"url,omitempty"`
	EPGURL   *string `json:"epg_url,omitempty"`
	IsCustom *bool   `json:"is_custom,omitempty"`
}

// ChannelDraft carries the fields accepted when adding a channel.
type ChannelDraft struct {
	Name       string            `json:"name"`
	URL        string            `json:"url"`
	GroupTitle string            `json:"group_title,omitempty"`
	LogoURL    string            `json:"logo_url,omitempty"`
	TvgID      string            `json:"tvg_id,omitempty"`
	ExtraTags  map[string]string `json:"extra_tags,omitempty"`
}

// ChannelPatch is a partial channel update; nil fields are left untouched.
type ChannelPatch struct {
	Name       *string            `json:"name,omitempty"`
	URL        *string            `json:"url,omitempty"`
	GroupTitle *string            `json:"group_title,omitempty"`
	LogoURL    *string            `json:"logo_url,omitempty"`
	TvgID      *string            `json:"tvg_id,omitempty"`
	ExtraTags  *map[string]string `json:"extra_tags,omitempty"`
}

// ChannelPosition is one {id, position} pair of a batch reorder submission.
type ChannelPosition struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// DropResult reduces a drag gesture to plain indices over the displayed
// channel sequence. DestinationIndex is nil when the drop landed outside a
// valid target.
type DropResult struct {
	SourceIndex      int
	DestinationIndex *int
}

// SyncStatus is the per-playlist synchronization state observed by this client.
type SyncStatus int

const (
	SyncIdle SyncStatus = iota
	SyncSyncing
	SyncSuccess
	SyncError
)

func (s SyncStatus) String() string {
	switch s {
	case SyncSyncing:
		return "syncing"
	case SyncSuccess:
		return "success"
	case SyncError:
		return "error"
	default:
		return "idle"
	}
}

// ToastKind classifies a toast notification for display styling.
type ToastKind string

const (
	ToastInfo    ToastKind = "info"
	ToastSuccess ToastKind = "success"
	ToastWarning ToastKind = "warning"
	ToastError   ToastKind = "error"
)

// Toast is a transient notification shown by the overlay slice.
type Toast struct {
	Message string
	Kind    ToastKind
}

// Clone returns a deep copy of the playlist, detaching the channel slice and
// per-channel tag maps so snapshot consumers cannot reach store-owned state.
func (p Playlist) Clone() Playlist {
	out := p
	if p.LastSyncAt != nil {
		t := *p.LastSyncAt
		out.LastSyncAt = &t
	}
	if p.Channels != nil {
		out.Channels = make([]Channel, len(p.Channels))
		for i, ch := range p.Channels {
			out.Channels[i] = ch.Clone()
		}
	}
	return out
}

// Clone returns a copy of the channel with a detached tag map.
func (c Channel) Clone() Channel {
	out := c
	if c.ExtraTags != nil {
		out.ExtraTags = make(map[string]string, len(c.ExtraTags))
		for k, v := range c.ExtraTags {
			out.ExtraTags[k] = v
		}
	}
	return out
}

// Validate checks the one client-side precondition for playlist drafts: a
// non-empty name. The server is authoritative for everything else.
func (d PlaylistDraft) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// Groups returns the distinct, non-empty group titles of a channel sequence
// in first-seen order.
func Groups(channels []Channel) []string {
	seen := make(map[string]bool)
	var groups []string
	for _, ch := range channels {
		if ch.GroupTitle == "" || seen[ch.GroupTitle] {
			continue
		}
		seen[ch.GroupTitle] = true
		groups = append(groups, ch.GroupTitle)
	}
	return groups
}
