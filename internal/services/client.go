// HTTP implementation of [PlaylistService]
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

var _ PlaylistService = (*Client)(nil)

// Client talks to the playlist backend over HTTPS with JSON bodies.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *TokenStore
	limiter    *rate.Limiter
	logger     *log.Logger
}

// ClientOpts configures a [Client].
type ClientOpts struct {
	BaseURL    string
	HTTPClient *http.Client
	Tokens     *TokenStore
	RateLimit  float64 // requests per second; 0 disables throttling
	Logger     *log.Logger
}

// NewClient creates a playlist API client.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "http://localhost:8000"
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	if opts.Tokens == nil {
		opts.Tokens = &TokenStore{}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		tokens:     opts.Tokens,
		limiter:    rate.NewLimiter(limit, 1),
		logger:     opts.Logger,
	}
}

// Tokens exposes the client's token store so the auth slice can own writes.
func (c *Client) Tokens() *TokenStore {
	return c.tokens
}

// detailPayload is the backend's error body shape.
type detailPayload struct {
	Detail string `json:"detail"`
}

// doRequest performs one authenticated JSON request against the backend.
//
// A missing token is rejected before any bytes leave the process; the caller
// is expected to have redirected to login already.
func (c *Client) doRequest(ctx context.Context, method, endpoint string, body any, result any) error {
	token, ok := c.tokens.Raw()
	if !ok {
		return shared.ErrNotAuthenticated
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.statusError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// statusError turns a non-2xx response into an [*APIError], tagging 401s so
// the store layer can distinguish an expired session from ordinary rejection.
func (c *Client) statusError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	var payload detailPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err == nil {
		apiErr.Detail = payload.Detail
	}

	c.logger.Debugf("api rejected request: status=%d detail=%q", apiErr.Status, apiErr.Detail)

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: %w", shared.ErrTokenExpired, apiErr)
	}
	return apiErr
}

// Login performs the password grant against POST /token (form-encoded) and
// installs the returned bearer token in the token store.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	conf := &oauth2.Config{
		Endpoint: oauth2.Endpoint{
			TokenURL:  c.baseURL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	tok, err := conf.PasswordCredentialsToken(ctx, username, password)
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) {
			apiErr := &APIError{Status: rErr.Response.StatusCode}
			var payload detailPayload
			if jsonErr := json.Unmarshal(rErr.Body, &payload); jsonErr == nil {
				apiErr.Detail = payload.Detail
			}
			return "", fmt.Errorf("%w: %w", shared.ErrAuthFailed, apiErr)
		}
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if err := c.tokens.Set(tok.AccessToken); err != nil {
		return "", err
	}
	return tok.AccessToken, nil
}

// Me returns the server's view of the authenticated user.
func (c *Client) Me(ctx context.Context) (*models.Principal, error) {
	var principal models.Principal
	if err := c.doRequest(ctx, http.MethodGet, "/users/me", nil, &principal); err != nil {
		return nil, err
	}
	return &principal, nil
}

// ListPlaylists retrieves the full playlist collection.
func (c *Client) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	var playlists []models.Playlist
	if err := c.doRequest(ctx, http.MethodGet, "/playlists", nil, &playlists); err != nil {
		return nil, err
	}
	return playlists, nil
}

// GetPlaylist retrieves a single playlist with channels.
func (c *Client) GetPlaylist(ctx context.Context, id string) (*models.Playlist, error) {
	var playlist models.Playlist
	endpoint := fmt.Sprintf("/playlists/%s", url.PathEscape(id))
	if err := c.doRequest(ctx, http.MethodGet, endpoint, nil, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// CreatePlaylist creates a playlist.
func (c *Client) CreatePlaylist(ctx context.Context, draft models.PlaylistDraft) (*models.Playlist, error) {
	var playlist models.Playlist
	if err := c.doRequest(ctx, http.MethodPost, "/playlists", draft, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// UpdatePlaylist applies a partial update.
func (c *Client) UpdatePlaylist(ctx context.Context, id string, patch models.PlaylistPatch) (*models.Playlist, error) {
	var playlist models.Playlist
	endpoint := fmt.Sprintf("/playlists/%s", url.PathEscape(id))
	if err := c.doRequest(ctx, http.MethodPut, endpoint, patch, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// DeletePlaylist removes a playlist.
func (c *Client) DeletePlaylist(ctx context.Context, id string) error {
	endpoint := fmt.Sprintf("/playlists/%s", url.PathEscape(id))
	return c.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// SyncPlaylist asks the server to re-fetch the playlist's M3U source.
func (c *Client) SyncPlaylist(ctx context.Context, id string) error {
	endpoint := fmt.Sprintf("/playlists/%s/sync", url.PathEscape(id))
	return c.doRequest(ctx, http.MethodPost, endpoint, nil, nil)
}

// GeneratePublicToken enables sharing for a playlist.
func (c *Client) GeneratePublicToken(ctx context.Context, id string) (*models.Playlist, error) {
	var playlist models.Playlist
	endpoint := fmt.Sprintf("/playlists/%s/generate-token", url.PathEscape(id))
	if err := c.doRequest(ctx, http.MethodPost, endpoint, nil, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// PublicM3U fetches a shared playlist's M3U export. No bearer token: the
// public token in the path is the credential.
func (c *Client) PublicM3U(ctx context.Context, token string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	endpoint := fmt.Sprintf("%s/playlists/%s/m3u", c.baseURL, url.PathEscape(token))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload detailPayload
		if jsonErr := json.Unmarshal(body, &payload); jsonErr == nil {
			apiErr.Detail = payload.Detail
		}
		return "", apiErr
	}

	return string(body), nil
}

// AddChannel appends a channel to a playlist.
func (c *Client) AddChannel(ctx context.Context, playlistID string, draft models.ChannelDraft) (*models.Channel, error) {
	var channel models.Channel
	endpoint := fmt.Sprintf("/playlists/%s/channels", url.PathEscape(playlistID))
	if err := c.doRequest(ctx, http.MethodPost, endpoint, draft, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

// UpdateChannel applies a partial update to a channel.
func (c *Client) UpdateChannel(ctx context.Context, channelID string, patch models.ChannelPatch) (*models.Channel, error) {
	var channel models.Channel
	endpoint := fmt.Sprintf("/channels/%s", url.PathEscape(channelID))
	if err := c.doRequest(ctx, http.MethodPut, endpoint, patch, &channel); err != nil {
		return nil, err
	}
	return &channel, nil
}

// DeleteChannel removes a channel.
func (c *Client) DeleteChannel(ctx context.Context, channelID string) error {
	endpoint := fmt.Sprintf("/channels/%s", url.PathEscape(channelID))
	return c.doRequest(ctx, http.MethodDelete, endpoint, nil, nil)
}

// ReorderChannels submits the batch of position assignments. The server
// applies the batch atomically; a failure leaves the stored order untouched.
func (c *Client) ReorderChannels(ctx context.Context, playlistID string, positions []models.ChannelPosition) error {
	endpoint := fmt.Sprintf("/playlists/%s/channels/reorder", url.PathEscape(playlistID))
	return c.doRequest(ctx, http.MethodPut, endpoint, positions, nil)
}
