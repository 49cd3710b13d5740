package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/shared"
)

func authedClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	tokens := &TokenStore{}
	if err := tokens.Set(signedToken(t, "alice", time.Now().Add(time.Hour))); err != nil {
		t.Fatal(err)
	}
	return NewClient(ClientOpts{BaseURL: baseURL, Tokens: tokens})
}

func TestClientLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("posts form-encoded credentials to /token", func(t *testing.T) {
		raw := signedToken(t, "alice", time.Now().Add(time.Hour))
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/token" {
				t.Errorf("expected /token, got %s", r.URL.Path)
			}
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if err := r.ParseForm(); err != nil {
				t.Fatalf("expected form body: %v", err)
			}
			if r.PostFormValue("username") != "alice" || r.PostFormValue("password") != "secret" {
				t.Errorf("unexpected credentials %v", r.PostForm)
			}

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{
				"access_token": raw,
				"token_type":   "bearer",
			})
		}))
		defer server.Close()

		client := NewClient(ClientOpts{BaseURL: server.URL})
		got, err := client.Login(ctx, "alice", "secret")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got != raw {
			t.Error("expected the issued token returned")
		}
		if client.Tokens().Subject() != "alice" {
			t.Error("expected token installed in the store")
		}
	})

	t.Run("rejection surfaces the server detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Incorrect username or password"})
		}))
		defer server.Close()

		client := NewClient(ClientOpts{BaseURL: server.URL})
		_, err := client.Login(ctx, "alice", "wrong")
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Fatalf("expected auth failure, got %v", err)
		}
		if Detail(err) != "Incorrect username or password" {
			t.Errorf("expected server detail, got %q", Detail(err))
		}
	})

	t.Run("network failure is not an auth failure", func(t *testing.T) {
		client := NewClient(ClientOpts{BaseURL: "http://127.0.0.1:1"})

		_, err := client.Login(ctx, "alice", "secret")
		if err == nil {
			t.Fatal("expected an error")
		}
		if errors.Is(err, shared.ErrAuthFailed) {
			t.Error("expected network failure not to claim bad credentials")
		}
		if Detail(err) != "" {
			t.Errorf("expected no server detail for network failure, got %q", Detail(err))
		}
	})
}

func TestClientRequests(t *testing.T) {
	ctx := context.Background()

	t.Run("missing token fails before the wire", func(t *testing.T) {
		hit := false
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hit = true
		}))
		defer server.Close()

		client := NewClient(ClientOpts{BaseURL: server.URL})
		_, err := client.ListPlaylists(ctx)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Fatalf("expected not-authenticated, got %v", err)
		}
		if hit {
			t.Error("expected no request to reach the server")
		}
	})

	t.Run("sends the bearer token", func(t *testing.T) {
		var gotAuth string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			json.NewEncoder(w).Encode([]models.Playlist{})
		}))
		defer server.Close()

		client := authedClient(t, server.URL)
		if _, err := client.ListPlaylists(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		raw, _ := client.Tokens().Raw()
		if gotAuth != "Bearer "+raw {
			t.Errorf("expected bearer header, got %q", gotAuth)
		}
	})

	t.Run("decodes playlist payloads", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/playlists":
				json.NewEncoder(w).Encode([]models.Playlist{{ID: "p1", Name: "Sports"}})
			case "/playlists/p1":
				json.NewEncoder(w).Encode(models.Playlist{
					ID:   "p1",
					Name: "Sports",
					Channels: []models.Channel{
						{ID: "c1", Name: "ESPN", Position: 1, ExtraTags: map[string]string{"catchup": "default"}},
					},
				})
			default:
				http.NotFound(w, r)
			}
		}))
		defer server.Close()

		client := authedClient(t, server.URL)

		playlists, err := client.ListPlaylists(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(playlists) != 1 || playlists[0].Name != "Sports" {
			t.Errorf("unexpected playlists %+v", playlists)
		}

		playlist, err := client.GetPlaylist(ctx, "p1")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(playlist.Channels) != 1 || playlist.Channels[0].ExtraTags["catchup"] != "default" {
			t.Errorf("unexpected channels %+v", playlist.Channels)
		}
	})

	t.Run("401 is tagged as an expired session", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Could not validate credentials"})
		}))
		defer server.Close()

		client := authedClient(t, server.URL)
		_, err := client.ListPlaylists(ctx)
		if !errors.Is(err, shared.ErrTokenExpired) {
			t.Fatalf("expected expired-session tag, got %v", err)
		}
		if Detail(err) != "Could not validate credentials" {
			t.Errorf("expected detail preserved, got %q", Detail(err))
		}
	})

	t.Run("non-401 rejection carries status and detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnprocessableEntity)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Name already taken"})
		}))
		defer server.Close()

		client := authedClient(t, server.URL)
		_, err := client.CreatePlaylist(ctx, models.PlaylistDraft{Name: "Dup"})
		if err == nil {
			t.Fatal("expected an error")
		}
		if errors.Is(err, shared.ErrTokenExpired) {
			t.Error("expected 422 not to be tagged as expired")
		}

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.Status != http.StatusUnprocessableEntity || apiErr.Detail != "Name already taken" {
			t.Errorf("unexpected APIError %+v", apiErr)
		}
	})

	t.Run("rejection without a JSON body still reports the status", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "bad gateway", http.StatusBadGateway)
		}))
		defer server.Close()

		client := authedClient(t, server.URL)
		_, err := client.ListPlaylists(ctx)

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.Status != http.StatusBadGateway {
			t.Errorf("expected 502, got %d", apiErr.Status)
		}
		if apiErr.Error() != "server returned status 502" {
			t.Errorf("unexpected message %q", apiErr.Error())
		}
	})

	t.Run("reorder submits the full batch", func(t *testing.T) {
		var got []models.ChannelPosition
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/playlists/p1/channels/reorder" || r.Method != http.MethodPut {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
				t.Fatalf("failed to decode batch: %v", err)
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := authedClient(t, server.URL)
		batch := []models.ChannelPosition{{ID: "c2", Position: 1}, {ID: "c1", Position: 2}}
		if err := client.ReorderChannels(ctx, "p1", batch); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(got) != 2 || got[0].ID != "c2" {
			t.Errorf("unexpected batch %+v", got)
		}
	})

	t.Run("delete sends no body and expects none", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete {
				t.Errorf("expected DELETE, got %s", r.Method)
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := authedClient(t, server.URL)
		if err := client.DeletePlaylist(ctx, "p1"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("path segments are escaped", func(t *testing.T) {
		var gotPath string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.EscapedPath()
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		client := authedClient(t, server.URL)
		if err := client.DeleteChannel(ctx, "weird/id"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if gotPath != "/channels/weird%2Fid" {
			t.Errorf("expected escaped path, got %q", gotPath)
		}
	})
}

func TestClientPublicM3U(t *testing.T) {
	ctx := context.Background()

	t.Run("fetches without a bearer token", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if auth := r.Header.Get("Authorization"); auth != "" {
				t.Errorf("expected no auth header, got %q", auth)
			}
			fmt.Fprint(w, "#EXTM3U\n#EXTINF:-1,ESPN\nhttp://x/espn\n")
		}))
		defer server.Close()

		// Deliberately no token in the store.
		client := NewClient(ClientOpts{BaseURL: server.URL})
		body, err := client.PublicM3U(ctx, "tok123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if body == "" || body[:7] != "#EXTM3U" {
			t.Errorf("expected M3U body, got %q", body)
		}
	})

	t.Run("unknown token reports the server detail", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Playlist not found"})
		}))
		defer server.Close()

		client := NewClient(ClientOpts{BaseURL: server.URL})
		_, err := client.PublicM3U(ctx, "expired")

		var apiErr *APIError
		if !errors.As(err, &apiErr) {
			t.Fatalf("expected APIError, got %v", err)
		}
		if apiErr.Detail != "Playlist not found" {
			t.Errorf("expected detail, got %q", apiErr.Detail)
		}
	})
}

func TestAPIErrorDetail(t *testing.T) {
	t.Run("Detail extracts through wrapping", func(t *testing.T) {
		err := fmt.Errorf("%w: %w", shared.ErrAPIRequest, &APIError{Status: 500, Detail: "boom"})
		if Detail(err) != "boom" {
			t.Errorf("expected wrapped detail, got %q", Detail(err))
		}
	})

	t.Run("Detail is empty for plain errors", func(t *testing.T) {
		if Detail(errors.New("dial tcp: timeout")) != "" {
			t.Error("expected no detail for non-API errors")
		}
	})

	t.Run("Detail is empty for detail-less APIError", func(t *testing.T) {
		if Detail(&APIError{Status: 500}) != "" {
			t.Error("expected no detail when the server sent none")
		}
	})
}
