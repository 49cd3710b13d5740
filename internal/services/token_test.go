package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, subject string, expiry time.Time) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(expiry),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign test token: %v", err)
	}
	return raw
}

func TestTokenStore(t *testing.T) {
	t.Run("zero value is unauthenticated", func(t *testing.T) {
		store := &TokenStore{}

		if _, ok := store.Raw(); ok {
			t.Error("expected no raw token")
		}
		if store.Valid() {
			t.Error("expected invalid")
		}
		if store.Principal() != nil {
			t.Error("expected nil principal")
		}
	})

	t.Run("Set parses subject and expiry", func(t *testing.T) {
		store := &TokenStore{}
		expiry := time.Now().Add(time.Hour).Truncate(time.Second)

		if err := store.Set(signedToken(t, "alice", expiry)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if store.Subject() != "alice" {
			t.Errorf("expected subject alice, got %q", store.Subject())
		}
		if !store.Expiry().Equal(expiry) {
			t.Errorf("expected expiry %v, got %v", expiry, store.Expiry())
		}
		if !store.Valid() {
			t.Error("expected valid")
		}
	})

	t.Run("Set rejects garbage and keeps the previous token", func(t *testing.T) {
		store := &TokenStore{}
		if err := store.Set(signedToken(t, "alice", time.Now().Add(time.Hour))); err != nil {
			t.Fatal(err)
		}

		if err := store.Set("not-a-jwt"); err == nil {
			t.Fatal("expected an error for malformed token")
		}
		if store.Subject() != "alice" {
			t.Errorf("expected previous token kept, got subject %q", store.Subject())
		}
	})

	t.Run("expired token is present but invalid", func(t *testing.T) {
		store := &TokenStore{}
		if err := store.Set(signedToken(t, "alice", time.Now().Add(-time.Minute))); err != nil {
			t.Fatalf("expected parse to succeed for expired token, got %v", err)
		}

		if _, ok := store.Raw(); !ok {
			t.Error("expected raw token present")
		}
		if store.Valid() {
			t.Error("expected expired token to be invalid")
		}
	})

	t.Run("Principal carries subject and expiry", func(t *testing.T) {
		store := &TokenStore{}
		expiry := time.Now().Add(time.Hour).Truncate(time.Second)
		if err := store.Set(signedToken(t, "bob", expiry)); err != nil {
			t.Fatal(err)
		}

		principal := store.Principal()
		if principal == nil || principal.Username != "bob" {
			t.Fatalf("expected principal bob, got %+v", principal)
		}
		if !principal.Expiry.Equal(expiry) {
			t.Errorf("expected expiry %v, got %v", expiry, principal.Expiry)
		}
	})

	t.Run("Clear empties the store", func(t *testing.T) {
		store := &TokenStore{}
		if err := store.Set(signedToken(t, "alice", time.Now().Add(time.Hour))); err != nil {
			t.Fatal(err)
		}

		store.Clear()
		if store.Valid() || store.Subject() != "" {
			t.Error("expected cleared store")
		}
	})

	t.Run("SaveTo and LoadFrom round-trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "token")
		store := &TokenStore{}
		if err := store.Set(signedToken(t, "alice", time.Now().Add(time.Hour))); err != nil {
			t.Fatal(err)
		}

		if err := store.SaveTo(path); err != nil {
			t.Fatalf("expected save to succeed, got %v", err)
		}

		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("expected token file, got %v", err)
		}
		if info.Mode().Perm() != 0600 {
			t.Errorf("expected 0600 permissions, got %v", info.Mode().Perm())
		}

		restored := &TokenStore{}
		if err := restored.LoadFrom(path); err != nil {
			t.Fatalf("expected load to succeed, got %v", err)
		}
		if restored.Subject() != "alice" || !restored.Valid() {
			t.Error("expected restored session")
		}
	})

	t.Run("SaveTo with a cleared store removes the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "token")
		store := &TokenStore{}
		if err := store.Set(signedToken(t, "alice", time.Now().Add(time.Hour))); err != nil {
			t.Fatal(err)
		}
		if err := store.SaveTo(path); err != nil {
			t.Fatal(err)
		}

		store.Clear()
		if err := store.SaveTo(path); err != nil {
			t.Fatalf("expected removal to succeed, got %v", err)
		}
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			t.Error("expected token file removed")
		}
	})

	t.Run("LoadFrom", func(t *testing.T) {
		t.Run("missing file starts logged out", func(t *testing.T) {
			store := &TokenStore{}
			if err := store.LoadFrom(filepath.Join(t.TempDir(), "absent")); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if store.Valid() {
				t.Error("expected logged-out store")
			}
		})

		t.Run("expired token is discarded silently", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "token")
			if err := os.WriteFile(path, []byte(signedToken(t, "alice", time.Now().Add(-time.Hour))), 0600); err != nil {
				t.Fatal(err)
			}

			store := &TokenStore{}
			if err := store.LoadFrom(path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if store.Valid() {
				t.Error("expected expired token discarded")
			}
			if _, ok := store.Raw(); ok {
				t.Error("expected empty store after discarding expired token")
			}
		})

		t.Run("garbage content starts logged out", func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "token")
			if err := os.WriteFile(path, []byte("corrupted"), 0600); err != nil {
				t.Fatal(err)
			}

			store := &TokenStore{}
			if err := store.LoadFrom(path); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if store.Valid() {
				t.Error("expected logged-out store")
			}
		})
	})
}
