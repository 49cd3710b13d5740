package store

import (
	"context"
	"testing"
	"time"

	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/services"
	tu "github.com/desertthunder/tvx/internal/testing"
)

func newTestStore(svc services.PlaylistService, tokens *services.TokenStore) *Store {
	return New(Opts{
		Service:       svc,
		Tokens:        tokens,
		Logger:        testLogger(),
		ToastDuration: time.Minute,
	})
}

func TestStore(t *testing.T) {
	ctx := context.Background()

	t.Run("Subscribe delivers an immediate snapshot", func(t *testing.T) {
		store := newTestStore(&tu.MockService{}, nil)

		received := 0
		store.Subscribe(func(snap Snapshot) { received++ })

		if received != 1 {
			t.Fatalf("expected one immediate snapshot, got %d", received)
		}
	})

	t.Run("mutations notify synchronously", func(t *testing.T) {
		svc := &tu.MockService{
			ListPlaylistsFn: func(ctx context.Context) ([]models.Playlist, error) {
				return []models.Playlist{{ID: "p1", Name: "Sports"}}, nil
			},
		}
		store := newTestStore(svc, nil)

		var last Snapshot
		notifications := 0
		store.Subscribe(func(snap Snapshot) {
			last = snap
			notifications++
		})

		if err := store.Playlists.LoadAll(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if notifications < 2 {
			t.Errorf("expected notifications beyond the initial snapshot, got %d", notifications)
		}
		if len(last.Playlists.Items) != 1 || last.Playlists.Items[0].ID != "p1" {
			t.Errorf("expected the final snapshot to carry the loaded items, got %+v", last.Playlists.Items)
		}
		if last.Playlists.Loading {
			t.Error("expected the final snapshot to have loading cleared")
		}
	})

	t.Run("RouteFor", func(t *testing.T) {
		t.Run("unauthenticated always lands on login", func(t *testing.T) {
			store := newTestStore(&tu.MockService{}, &services.TokenStore{})

			for _, target := range []string{ViewPlaylists, ViewLogin, "settings"} {
				if got := store.RouteFor(target); got != ViewLogin {
					t.Errorf("target %q: expected login, got %q", target, got)
				}
			}
		})

		t.Run("authenticated login target redirects to playlists", func(t *testing.T) {
			tokens := &services.TokenStore{}
			if err := tokens.Set(makeToken(t, "alice", time.Now().Add(time.Hour))); err != nil {
				t.Fatal(err)
			}
			store := newTestStore(&tu.MockService{}, tokens)

			if got := store.RouteFor(ViewLogin); got != ViewPlaylists {
				t.Errorf("expected playlists, got %q", got)
			}
			if got := store.RouteFor("settings"); got != "settings" {
				t.Errorf("expected passthrough, got %q", got)
			}
		})

		t.Run("guard is loop-free", func(t *testing.T) {
			store := newTestStore(&tu.MockService{}, &services.TokenStore{})

			target := ViewLogin
			if got := store.RouteFor(target); got != target {
				t.Errorf("expected a stable fixed point at login, got %q", got)
			}
		})
	})

	t.Run("intent methods", func(t *testing.T) {
		t.Run("SyncPlaylist toasts success", func(t *testing.T) {
			svc := &tu.MockService{
				SyncPlaylistFn: func(ctx context.Context, id string) error { return nil },
				GetPlaylistFn: func(ctx context.Context, id string) (*models.Playlist, error) {
					return &models.Playlist{ID: id}, nil
				},
			}
			store := newTestStore(svc, nil)

			store.SyncPlaylist(ctx, "p1")

			toast := store.Snapshot().UI.Toast
			if toast == nil || toast.Kind != models.ToastSuccess {
				t.Fatalf("expected success toast, got %+v", toast)
			}
		})

		t.Run("SyncPlaylist toasts failure with the slice error", func(t *testing.T) {
			svc := &tu.MockService{
				SyncPlaylistFn: func(ctx context.Context, id string) error {
					return serverError(502, "Source returned 502")
				},
			}
			store := newTestStore(svc, nil)

			store.SyncPlaylist(ctx, "p1")

			toast := store.Snapshot().UI.Toast
			if toast == nil || toast.Kind != models.ToastError {
				t.Fatalf("expected error toast, got %+v", toast)
			}
			if toast.Message != "Source returned 502" {
				t.Errorf("expected server detail in toast, got %q", toast.Message)
			}
		})

		t.Run("CreatePlaylist toasts outcome", func(t *testing.T) {
			svc := &tu.MockService{
				CreatePlaylistFn: func(ctx context.Context, draft models.PlaylistDraft) (*models.Playlist, error) {
					return &models.Playlist{ID: "p1", Name: draft.Name}, nil
				},
			}
			store := newTestStore(svc, nil)

			if playlist := store.CreatePlaylist(ctx, models.PlaylistDraft{Name: "Movies"}); playlist == nil {
				t.Fatal("expected the created playlist")
			}
			if toast := store.Snapshot().UI.Toast; toast == nil || toast.Kind != models.ToastSuccess {
				t.Fatalf("expected success toast, got %+v", toast)
			}
		})

		t.Run("DeletePlaylist toasts failure", func(t *testing.T) {
			svc := &tu.MockService{
				DeletePlaylistFn: func(ctx context.Context, id string) error {
					return serverError(500, "")
				},
			}
			store := newTestStore(svc, nil)

			store.DeletePlaylist(ctx, "p1")
			if toast := store.Snapshot().UI.Toast; toast == nil || toast.Kind != models.ToastError {
				t.Fatalf("expected error toast, got %+v", toast)
			}
		})

		t.Run("auth expiry shows no toast", func(t *testing.T) {
			tokens := &services.TokenStore{}
			if err := tokens.Set(makeToken(t, "alice", time.Now().Add(time.Hour))); err != nil {
				t.Fatal(err)
			}
			svc := &tu.MockService{
				SyncPlaylistFn: func(ctx context.Context, id string) error {
					return serverExpiredError()
				},
			}
			store := newTestStore(svc, tokens)

			store.SyncPlaylist(ctx, "p1")

			if toast := store.Snapshot().UI.Toast; toast != nil {
				t.Fatalf("expected no toast when the auth guard owns the failure, got %+v", toast)
			}
			if store.Snapshot().Auth.Authenticated {
				t.Error("expected session cleared")
			}
		})
	})

	t.Run("sync failure then retry recovers", func(t *testing.T) {
		attempts := 0
		svc := &tu.MockService{
			SyncPlaylistFn: func(ctx context.Context, id string) error {
				attempts++
				if attempts == 1 {
					return serverError(502, "Source unreachable")
				}
				return nil
			},
			GetPlaylistFn: func(ctx context.Context, id string) (*models.Playlist, error) {
				return &models.Playlist{ID: id, Name: "News"}, nil
			},
		}
		store := newTestStore(svc, nil)

		store.SyncPlaylist(ctx, "news")
		snap := store.Snapshot()
		if snap.Playlists.SyncStatus["news"] != models.SyncError {
			t.Fatalf("expected Error after first attempt, got %s", snap.Playlists.SyncStatus["news"])
		}
		if snap.UI.Toast == nil || snap.UI.Toast.Message != "Source unreachable" {
			t.Fatalf("expected failure toast, got %+v", snap.UI.Toast)
		}

		store.SyncPlaylist(ctx, "news")
		snap = store.Snapshot()
		if snap.Playlists.SyncStatus["news"] != models.SyncSuccess {
			t.Fatalf("expected Success after retry, got %s", snap.Playlists.SyncStatus["news"])
		}
		if snap.UI.Toast == nil || snap.UI.Toast.Kind != models.ToastSuccess {
			t.Fatalf("expected success toast after retry, got %+v", snap.UI.Toast)
		}
	})

	t.Run("expired token during an operation clears the session", func(t *testing.T) {
		tokens := &services.TokenStore{}
		if err := tokens.Set(makeToken(t, "alice", time.Now().Add(time.Hour))); err != nil {
			t.Fatal(err)
		}
		svc := &tu.MockService{
			ListPlaylistsFn: func(ctx context.Context) ([]models.Playlist, error) {
				return nil, serverExpiredError()
			},
		}
		store := newTestStore(svc, tokens)

		store.Playlists.LoadAll(ctx)

		snap := store.Snapshot()
		if snap.Auth.Authenticated {
			t.Error("expected session cleared after backend rejection")
		}
		if snap.Playlists.Err != "" {
			t.Errorf("expected no playlist error for auth expiry, got %q", snap.Playlists.Err)
		}
		if snap.Auth.Err == "" {
			t.Error("expected the auth slice to carry the expiry message")
		}
		if store.RouteFor(ViewPlaylists) != ViewLogin {
			t.Error("expected the guard to route to login")
		}
	})

	t.Run("MoveChannel stays quiet on success", func(t *testing.T) {
		svc := &tu.MockService{
			ReorderChannelsFn: func(ctx context.Context, playlistID string, positions []models.ChannelPosition) error {
				return nil
			},
			GetPlaylistFn: func(ctx context.Context, id string) (*models.Playlist, error) {
				return &models.Playlist{ID: id}, nil
			},
		}
		store := newTestStore(svc, nil)

		store.MoveChannel(ctx, "p1", channelSeq("A", "B"), models.DropResult{
			SourceIndex:      0,
			DestinationIndex: intPtr(1),
		})

		if toast := store.Snapshot().UI.Toast; toast != nil {
			t.Errorf("expected no toast on a successful move, got %+v", toast)
		}
	})
}
