package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tvx/internal/repositories"
	"github.com/desertthunder/tvx/internal/services"
	"github.com/desertthunder/tvx/internal/shared"
	"github.com/desertthunder/tvx/internal/store"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config  *shared.Config
	service services.PlaylistService
	tokens  *services.TokenStore
	store   *store.Store
	db      *sql.DB
	logger  *log.Logger
	output  io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config  *shared.Config
	Service services.PlaylistService
	Tokens  *services.TokenStore
	DB      *sql.DB
	Logger  *log.Logger
	Output  io.Writer
}

// NewRunner creates a new Runner with the provided configuration. The state
// store is wired over the service; when a cache database is available the
// store falls back to it for cold-start reads.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Tokens == nil {
		opts.Tokens = &services.TokenStore{}
	}

	var cache store.PlaylistCache
	if opts.DB != nil {
		cache = repositories.NewSnapshotAdapter(opts.DB)
	}

	st := store.New(store.Opts{
		Service:       opts.Service,
		Tokens:        opts.Tokens,
		Cache:         cache,
		Logger:        opts.Logger,
		ToastDuration: time.Duration(opts.Config.UI.ToastSeconds) * time.Second,
	})

	return &Runner{
		config:  opts.Config,
		service: opts.Service,
		tokens:  opts.Tokens,
		store:   st,
		db:      opts.DB,
		logger:  opts.Logger,
		output:  opts.Output,
	}
}

// SetLogger swaps the runner's logger, e.g. when the TUI owns the terminal.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, playlistCommand, channelCommand, cacheCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// saveTokens persists the session token; failure is a warning, not an error,
// because the in-process session still works.
func (r *Runner) saveTokens() {
	path := shared.ExpandPath(r.config.Auth.TokenPath)
	if err := r.tokens.SaveTo(path); err != nil {
		r.logger.Warnf("failed to save token: %v", err)
	}
}

// storeErr surfaces the store's last error string as a returned error.
func (r *Runner) storeErr(fallback string) error {
	if msg := r.store.Snapshot().Playlists.Err; msg != "" {
		return fmt.Errorf("%s", msg)
	}
	return fmt.Errorf("%s", fallback)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
