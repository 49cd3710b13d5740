// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/desertthunder/tvx/internal/models"
)

// MockService is a test double for [services.PlaylistService]. Each method
// delegates to the matching Fn field when set and returns zero values
// otherwise, so tests only configure the calls they care about.
type MockService struct {
	LoginFn           func(ctx context.Context, username, password string) (string, error)
	MeFn              func(ctx context.Context) (*models.Principal, error)
	ListPlaylistsFn   func(ctx context.Context) ([]models.Playlist, error)
	GetPlaylistFn     func(ctx context.Context, id string) (*models.Playlist, error)
	CreatePlaylistFn  func(ctx context.Context, draft models.PlaylistDraft) (*models.Playlist, error)
	UpdatePlaylistFn  func(ctx context.Context, id string, patch models.PlaylistPatch) (*models.Playlist, error)
	DeletePlaylistFn  func(ctx context.Context, id string) error
	SyncPlaylistFn    func(ctx context.Context, id string) error
	GenerateTokenFn   func(ctx context.Context, id string) (*models.Playlist, error)
	PublicM3UFn       func(ctx context.Context, token string) (string, error)
	AddChannelFn      func(ctx context.Context, playlistID string, draft models.ChannelDraft) (*models.Channel, error)
	UpdateChannelFn   func(ctx context.Context, channelID string, patch models.ChannelPatch) (*models.Channel, error)
	DeleteChannelFn   func(ctx context.Context, channelID string) error
	ReorderChannelsFn func(ctx context.Context, playlistID string, positions []models.ChannelPosition) error
}

func (m *MockService) Login(ctx context.Context, username, password string) (string, error) {
	if m.LoginFn != nil {
		return m.LoginFn(ctx, username, password)
	}
	return "", nil
}

func (m *MockService) Me(ctx context.Context) (*models.Principal, error) {
	if m.MeFn != nil {
		return m.MeFn(ctx)
	}
	return &models.Principal{}, nil
}

func (m *MockService) ListPlaylists(ctx context.Context) ([]models.Playlist, error) {
	if m.ListPlaylistsFn != nil {
		return m.ListPlaylistsFn(ctx)
	}
	return []models.Playlist{}, nil
}

func (m *MockService) GetPlaylist(ctx context.Context, id string) (*models.Playlist, error) {
	if m.GetPlaylistFn != nil {
		return m.GetPlaylistFn(ctx, id)
	}
	return &models.Playlist{ID: id}, nil
}

func (m *MockService) CreatePlaylist(ctx context.Context, draft models.PlaylistDraft) (*models.Playlist, error) {
	if m.CreatePlaylistFn != nil {
		return m.CreatePlaylistFn(ctx, draft)
	}
	return &models.Playlist{Name: draft.Name, URL: draft.URL}, nil
}

func (m *MockService) UpdatePlaylist(ctx context.Context, id string, patch models.PlaylistPatch) (*models.Playlist, error) {
	if m.UpdatePlaylistFn != nil {
		return m.UpdatePlaylistFn(ctx, id, patch)
	}
	return &models.Playlist{ID: id}, nil
}

func (m *MockService) DeletePlaylist(ctx context.Context, id string) error {
	if m.DeletePlaylistFn != nil {
		return m.DeletePlaylistFn(ctx, id)
	}
	return nil
}

func (m *MockService) SyncPlaylist(ctx context.Context, id string) error {
	if m.SyncPlaylistFn != nil {
		return m.SyncPlaylistFn(ctx, id)
	}
	return nil
}

func (m *MockService) GeneratePublicToken(ctx context.Context, id string) (*models.Playlist, error) {
	if m.GenerateTokenFn != nil {
		return m.GenerateTokenFn(ctx, id)
	}
	return &models.Playlist{ID: id, PublicToken: "token"}, nil
}

func (m *MockService) PublicM3U(ctx context.Context, token string) (string, error) {
	if m.PublicM3UFn != nil {
		return m.PublicM3UFn(ctx, token)
	}
	return "#EXTM3U\n", nil
}

func (m *MockService) AddChannel(ctx context.Context, playlistID string, draft models.ChannelDraft) (*models.Channel, error) {
	if m.AddChannelFn != nil {
		return m.AddChannelFn(ctx, playlistID, draft)
	}
	return &models.Channel{Name: draft.Name, URL: draft.URL}, nil
}

func (m *MockService) UpdateChannel(ctx context.Context, channelID string, patch models.ChannelPatch) (*models.Channel, error) {
	if m.UpdateChannelFn != nil {
		return m.UpdateChannelFn(ctx, channelID, patch)
	}
	return &models.Channel{ID: channelID}, nil
}

func (m *MockService) DeleteChannel(ctx context.Context, channelID string) error {
	if m.DeleteChannelFn != nil {
		return m.DeleteChannelFn(ctx, channelID)
	}
	return nil
}

func (m *MockService) ReorderChannels(ctx context.Context, playlistID string, positions []models.ChannelPosition) error {
	if m.ReorderChannelsFn != nil {
		return m.ReorderChannelsFn(ctx, playlistID, positions)
	}
	return nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// RoundTripFunc adapts a function to http.RoundTripper for per-request logic.
type RoundTripFunc func(*http.Request) (*http.Response, error)

func (f RoundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
