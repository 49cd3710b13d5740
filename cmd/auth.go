package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/desertthunder/tvx/internal/shared"
	"github.com/urfave/cli/v3"
)

// AuthLogin exchanges credentials for a session token and stores it.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username := cmd.String("username")
	password := cmd.String("password")

	if password == "" {
		r.writePlain("Password: ")
		reader := bufio.NewReader(os.Stdin)
		line, err := reader.ReadString('\n')
		if err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		password = strings.TrimSpace(line)
	}
	if password == "" {
		return fmt.Errorf("%w: password", shared.ErrMissingArgument)
	}

	r.logger.Infof("signing in as %v", username)

	if !r.store.Auth.Login(ctx, username, password) {
		msg := r.store.Snapshot().Auth.Err
		if msg == "" {
			msg = "Login failed"
		}
		return fmt.Errorf("%w: %s", shared.ErrAuthFailed, msg)
	}

	r.saveTokens()
	return r.writePlain("✓ Signed in as %s\n", username)
}

// AuthLogout clears the session locally. No server call is involved; the
// token simply stops being presented.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	r.store.Auth.Logout()

	tokenPath := shared.ExpandPath(r.config.Auth.TokenPath)
	if err := os.Remove(tokenPath); err != nil && !os.IsNotExist(err) {
		r.logger.Warnf("failed to remove token file: %v", err)
	}

	return r.writePlain("✓ Signed out\n")
}

// AuthWhoami asks the server who the session belongs to.
func (r *Runner) AuthWhoami(ctx context.Context, cmd *cli.Command) error {
	if !r.store.Auth.CheckAuth(ctx) {
		return fmt.Errorf("%w: run 'tvx auth login'", shared.ErrNotAuthenticated)
	}

	user := r.store.Snapshot().Auth.User
	if cmd.Bool("json") {
		return r.writeJSON(user, cmd.Bool("pretty"))
	}

	r.writePlain("Signed in as: %s\n", user.Username)
	if !user.Expiry.IsZero() {
		r.writePlain("Session expires: %s\n", shared.FormatTimestamp(&user.Expiry))
	}
	return nil
}

// AuthStatus reports local session state without touching the network.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if !r.tokens.Valid() {
		return r.writePlain("✗ No active session\n")
	}

	expiry := r.tokens.Expiry()
	r.writePlain("✓ Session active\n")
	r.writePlain("Subject: %s\n", r.tokens.Subject())
	r.writePlain("Expires: %s\n", shared.FormatTimestamp(&expiry))
	return nil
}
