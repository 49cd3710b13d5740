package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"time"

	"github.com/desertthunder/tvx/internal/services"
	"github.com/desertthunder/tvx/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	tokens := &services.TokenStore{}
	tokenPath := shared.ExpandPath(config.Auth.TokenPath)
	if err := tokens.LoadFrom(tokenPath); err != nil {
		logger.Debugf("no stored session: %v", err)
	}

	client := services.NewClient(services.ClientOpts{
		BaseURL: config.API.BaseURL,
		HTTPClient: &http.Client{
			Timeout: time.Duration(config.API.TimeoutSeconds) * time.Second,
		},
		Tokens:    tokens,
		RateLimit: config.API.RateLimit,
		Logger:    logger,
	})

	var db *sql.DB
	dbPath := shared.ExpandPath(config.Database.Path)
	if _, err := os.Stat(dbPath); err == nil {
		if opened, err := shared.NewDatabase(dbPath); err == nil {
			shared.ConfigureDatabase(opened, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
			db = opened
			defer db.Close()
		} else {
			logger.Warnf("cache database unavailable: %v", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Service: client,
		Tokens:  tokens,
		DB:      db,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "tvx",
		Usage:    "Manage IPTV playlists and channels from the terminal",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotAuthenticated) || errors.Is(err, shared.ErrTokenExpired) {
			logger.Fatal("session required, run 'tvx auth login'")
		}
		logger.Fatalf("application error: %v", err)
	}
}
