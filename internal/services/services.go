// package services defines interface PlaylistService for the tvx backend API
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/tvx/internal/models"
)

// PlaylistService defines the playlist backend operations the client consumes.
// All calls except Login and PublicM3U require an authenticated session.
type PlaylistService interface {
	// Login exchanges credentials for a bearer token (form-encoded password grant).
	// The returned raw token is also stored in the client's token store.
	Login(ctx context.Context, username, password string) (string, error)

	// Me returns the authenticated user's identity per the server.
	Me(ctx context.Context) (*models.Principal, error)

	// ListPlaylists retrieves the full playlist collection (without channels).
	ListPlaylists(ctx context.Context) ([]models.Playlist, error)

	// GetPlaylist retrieves a single playlist with its channels.
	GetPlaylist(ctx context.Context, id string) (*models.Playlist, error)

	// CreatePlaylist creates a playlist and returns the server's version of it.
	CreatePlaylist(ctx context.Context, draft models.PlaylistDraft) (*models.Playlist, error)

	// UpdatePlaylist applies a partial update and returns the updated playlist.
	UpdatePlaylist(ctx context.Context, id string, patch models.PlaylistPatch) (*models.Playlist, error)

	// DeletePlaylist removes a playlist. Confirmation only; no body.
	DeletePlaylist(ctx context.Context, id string) error

	// SyncPlaylist asks the server to re-fetch the playlist's M3U source.
	SyncPlaylist(ctx context.Context, id string) error

	// GeneratePublicToken enables sharing and returns the playlist with its token.
	GeneratePublicToken(ctx context.Context, id string) (*models.Playlist, error)

	// PublicM3U fetches a shared playlist's M3U export by public token, unauthenticated.
	PublicM3U(ctx context.Context, token string) (string, error)

	// AddChannel appends a channel to a playlist.
	AddChannel(ctx context.Context, playlistID string, draft models.ChannelDraft) (*models.Channel, error)

	// UpdateChannel applies a partial update to a channel.
	UpdateChannel(ctx context.Context, channelID string, patch models.ChannelPatch) (*models.Channel, error)

	// DeleteChannel removes a channel from its playlist.
	DeleteChannel(ctx context.Context, channelID string) error

	// ReorderChannels submits a batch of position assignments as one
	// all-or-nothing call.
	ReorderChannels(ctx context.Context, playlistID string, positions []models.ChannelPosition) error
}

// APIError is a non-2xx response from the playlist backend.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("server returned status %d", e.Status)
}

// Detail extracts a server-supplied error message from err, or "" when the
// failure carried none (network errors, decode errors).
func Detail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return ""
}
