package services

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/shared"
	"github.com/golang-jwt/jwt/v5"
)

// TokenStore holds the current bearer token for the session.
//
// Reads happen synchronously on every outgoing request; the auth slice is the
// only writer (login, logout, forced expiry). The zero value is an empty,
// unauthenticated store.
type TokenStore struct {
	mu     sync.RWMutex
	raw    string
	claims jwt.RegisteredClaims
}

// Set parses the raw token's claims and installs it as the current session
// token. A token whose claims cannot be read is rejected and the previous
// token is kept.
func (s *TokenStore) Set(raw string) error {
	claims, err := parseClaims(raw)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = raw
	s.claims = *claims
	return nil
}

// Clear removes the current token. Never fails.
func (s *TokenStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw = ""
	s.claims = jwt.RegisteredClaims{}
}

// Raw returns the current bearer token and whether one is present.
func (s *TokenStore) Raw() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.raw, s.raw != ""
}

// Subject returns the token's subject claim (the username), or "".
func (s *TokenStore) Subject() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.claims.Subject
}

// Expiry returns the token's expiry, or the zero time when no token or no
// expiry claim is present.
func (s *TokenStore) Expiry() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.claims.ExpiresAt == nil {
		return time.Time{}
	}
	return s.claims.ExpiresAt.Time
}

// Valid reports whether a token is present and its expiry is strictly after
// now. Advisory only: a structurally valid but server-revoked token still
// fails at the /users/me check.
func (s *TokenStore) Valid() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.raw != "" && s.claims.ExpiresAt != nil && s.claims.ExpiresAt.After(time.Now())
}

// Principal derives the user identity from the stored token, or nil when no
// token is present.
func (s *TokenStore) Principal() *models.Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.raw == "" {
		return nil
	}
	p := &models.Principal{Username: s.claims.Subject}
	if s.claims.ExpiresAt != nil {
		p.Expiry = s.claims.ExpiresAt.Time
	}
	return p
}

// SaveTo writes the raw token to path (0600), creating parent directories.
// A cleared store removes the file instead.
func (s *TokenStore) SaveTo(path string) error {
	raw, ok := s.Raw()
	if !ok {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove token file: %w", err)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(raw), 0600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

// LoadFrom restores a previously saved token. A missing file or an expired
// token leaves the store empty without error; sessions just start logged out.
func (s *TokenStore) LoadFrom(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read token file: %w", err)
	}

	raw := strings.TrimSpace(string(data))
	if raw == "" {
		return nil
	}
	if err := s.Set(raw); err != nil {
		return nil
	}
	if !s.Valid() {
		s.Clear()
	}
	return nil
}

// parseClaims reads a token's registered claims without verifying the
// signature. Verification belongs to the server; the client only needs
// subject and expiry.
func parseClaims(raw string) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	if _, _, err := parser.ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTokenInvalid, err)
	}
	return claims, nil
}
