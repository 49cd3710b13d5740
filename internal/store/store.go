package store

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/services"
	"github.com/desertthunder/tvx/internal/shared"
)

// View names consumed by the routing guard.
const (
	ViewLogin     = "login"
	ViewPlaylists = "playlists" // default protected view
)

// Snapshot is one immutable observation of the whole state tree. Every
// successful state-replacing operation publishes a new one; subscribers are
// notified synchronously after the mutation commits.
type Snapshot struct {
	Auth      AuthState
	Playlists PlaylistState
	UI        OverlayState
}

// Store composes the state slices into one observable tree. It is the sole
// mutation surface consumed by views: slices are reachable for reads and
// direct operations, and the intent methods below layer overlay reactions
// (toasts) on top of domain outcomes.
type Store struct {
	Auth      *AuthSession
	Playlists *PlaylistStore
	UI        *OverlayManager

	logger *log.Logger

	subMu sync.Mutex
	subs  []func(Snapshot)
}

// Opts configures a [Store].
type Opts struct {
	Service       services.PlaylistService
	Tokens        *services.TokenStore
	Cache         PlaylistCache
	Logger        *log.Logger
	ToastDuration time.Duration
}

// New wires the slices together around one publish callback.
func New(opts Opts) *Store {
	if opts.Tokens == nil {
		opts.Tokens = &services.TokenStore{}
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}

	s := &Store{logger: opts.Logger}
	publish := s.notify

	s.Auth = NewAuthSession(opts.Service, opts.Tokens, shared.WithLogger(opts.Logger, "slice", "auth"), publish)
	s.Playlists = NewPlaylistStore(
		opts.Service,
		opts.Cache,
		shared.WithLogger(opts.Logger, "slice", "playlists"),
		publish,
		s.Auth.expire,
	)
	s.UI = NewOverlayManager(publish, opts.ToastDuration)
	return s
}

// Subscribe registers fn for synchronous notification after every mutation.
// The first snapshot arrives immediately.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.subMu.Lock()
	s.subs = append(s.subs, fn)
	s.subMu.Unlock()

	fn(s.Snapshot())
}

// Snapshot assembles the current state tree from all slices.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		Auth:      s.Auth.snapshot(),
		Playlists: s.Playlists.snapshot(),
		UI:        s.UI.snapshot(),
	}
}

func (s *Store) notify() {
	snap := s.Snapshot()

	s.subMu.Lock()
	subs := make([]func(Snapshot), len(s.subs))
	copy(subs, s.subs)
	s.subMu.Unlock()

	for _, fn := range subs {
		fn(snap)
	}
}

// RouteFor applies the auth guard to a navigation target: unauthenticated
// users land on the login view, and an authenticated visit to login redirects
// to the default protected view. Pure in IsAuthenticated plus the target, and
// loop-free: an unauthenticated login target stays put.
func (s *Store) RouteFor(target string) string {
	if !s.Auth.IsAuthenticated() {
		return ViewLogin
	}
	if target == ViewLogin {
		return ViewPlaylists
	}
	return target
}

// Intent methods: operations plus their overlay reactions. Domain slices
// never touch UI state; the composition layer reacts to outcomes here.

// toastFailure surfaces the slice's normalized error. An auth expiry leaves
// the slice error empty (the auth guard owns that outcome), so there is
// nothing to toast.
func (s *Store) toastFailure() {
	if msg := s.Playlists.snapshot().Err; msg != "" {
		s.UI.ShowToast(msg, models.ToastError)
	}
}

// SyncPlaylist syncs and toasts the outcome. The tracker state itself is
// already part of the snapshot for inline badges.
func (s *Store) SyncPlaylist(ctx context.Context, id string) {
	if err := s.Playlists.Sync(ctx, id); err != nil {
		s.toastFailure()
		return
	}
	if s.Playlists.Tracker().Status(id) == models.SyncSuccess {
		s.UI.ShowToast("Playlist synchronized", models.ToastSuccess)
	}
}

// CreatePlaylist creates and toasts the outcome.
func (s *Store) CreatePlaylist(ctx context.Context, draft models.PlaylistDraft) *models.Playlist {
	playlist, err := s.Playlists.Create(ctx, draft)
	if err != nil {
		s.toastFailure()
		return nil
	}
	s.UI.ShowToast("Playlist created", models.ToastSuccess)
	return playlist
}

// DeletePlaylist deletes and toasts the outcome.
func (s *Store) DeletePlaylist(ctx context.Context, id string) {
	if err := s.Playlists.Delete(ctx, id); err != nil {
		s.toastFailure()
		return
	}
	s.UI.ShowToast("Playlist deleted", models.ToastSuccess)
}

// MoveChannel submits a reorder for the displayed sequence and toasts on
// failure. Successful moves stay quiet; the reloaded order is feedback enough.
func (s *Store) MoveChannel(ctx context.Context, playlistID string, displayed []models.Channel, drop models.DropResult) {
	if err := s.Playlists.ReorderChannels(ctx, playlistID, displayed, drop); err != nil {
		s.toastFailure()
	}
}
