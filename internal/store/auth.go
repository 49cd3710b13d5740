package store

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tvx/internal/models"
	"github.com/desertthunder/tvx/internal/services"
	"github.com/desertthunder/tvx/internal/shared"
)

// AuthSession owns the current user identity derived from the bearer token.
//
// It is the only writer of the shared [services.TokenStore]; every outgoing
// request reads the token from there synchronously.
type AuthSession struct {
	mu      sync.Mutex
	svc     services.PlaylistService
	tokens  *services.TokenStore
	logger  *log.Logger
	publish func()

	user *models.Principal
	err  string
}

// NewAuthSession creates the auth slice around the shared token store.
func NewAuthSession(svc services.PlaylistService, tokens *services.TokenStore, logger *log.Logger, publish func()) *AuthSession {
	if publish == nil {
		publish = func() {}
	}
	session := &AuthSession{svc: svc, tokens: tokens, logger: logger, publish: publish}
	// Restore identity from a token that survived a restart.
	session.user = tokens.Principal()
	return session
}

// Login exchanges credentials for a bearer token and derives the Principal
// from its claims. On failure the prior session, if any, is left untouched
// and the server's detail message (or a generic fallback) is recorded.
func (a *AuthSession) Login(ctx context.Context, username, password string) bool {
	if _, err := a.svc.Login(ctx, username, password); err != nil {
		msg := services.Detail(err)
		if msg == "" {
			msg = "Login failed"
		}

		a.mu.Lock()
		a.err = msg
		a.mu.Unlock()

		a.logger.Warnf("login failed for %s: %v", username, err)
		a.publish()
		return false
	}

	a.mu.Lock()
	a.user = a.tokens.Principal()
	a.err = ""
	a.mu.Unlock()

	a.logger.Infof("logged in as %s", username)
	a.publish()
	return true
}

// Logout clears the stored token and Principal unconditionally. Never fails.
func (a *AuthSession) Logout() {
	a.tokens.Clear()

	a.mu.Lock()
	a.user = nil
	a.err = ""
	a.mu.Unlock()

	a.publish()
}

// CheckAuth revalidates the current token against the identity endpoint.
// Any failure (network, expired, revoked) clears the session and returns
// false. Safe to call repeatedly and concurrently: every completed call
// writes the Principal, so the last completion wins.
func (a *AuthSession) CheckAuth(ctx context.Context) bool {
	principal, err := a.svc.Me(ctx)
	if err != nil {
		a.logger.Debugf("token revalidation failed: %v", err)
		a.tokens.Clear()

		a.mu.Lock()
		a.user = nil
		a.mu.Unlock()

		a.publish()
		return false
	}

	a.mu.Lock()
	a.user = principal
	a.mu.Unlock()

	a.publish()
	return true
}

// IsAuthenticated reports whether a token is present with an expiry strictly
// after now. Pure and advisory: server-revoked tokens still pass here and are
// caught by CheckAuth.
func (a *AuthSession) IsAuthenticated() bool {
	return a.tokens.Valid()
}

// expire force-logs-out after the backend rejected our token (reactive 401).
// The outcome is a cleared session handed to the auth guard, not an error
// toast on whatever operation happened to trip it.
func (a *AuthSession) expire() {
	a.tokens.Clear()

	a.mu.Lock()
	a.user = nil
	a.err = shared.ErrTokenExpired.Error()
	a.mu.Unlock()

	a.publish()
}

// AuthState is the auth slice's piece of a [Snapshot].
type AuthState struct {
	User          *models.Principal
	Err           string
	Authenticated bool
}

func (a *AuthSession) snapshot() AuthState {
	a.mu.Lock()
	defer a.mu.Unlock()

	state := AuthState{Err: a.err, Authenticated: a.tokens.Valid()}
	if a.user != nil {
		u := *a.user
		state.User = &u
	}
	return state
}
