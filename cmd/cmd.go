// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   "config.toml",
	}
}

func jsonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
		&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
	}
}

// setupCommand initializes config and the local cache database
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Initialize config file, cache database and migrations",
		Flags:  []cli.Flag{configFlag()},
		Action: r.Setup,
	}
}

// authCommand handles session management against the playlist server
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the server session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in with username and password",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "username",
						Aliases:  []string{"u"},
						Usage:    "Account username",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "password",
						Aliases: []string{"p"},
						Usage:   "Account password (prompted when omitted)",
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Discard the stored session token",
				Action: r.AuthLogout,
			},
			{
				Name:   "whoami",
				Usage:  "Show the authenticated user per the server",
				Flags:  jsonFlags(),
				Action: r.AuthWhoami,
			},
			{
				Name:   "status",
				Usage:  "Show local session state without a network call",
				Action: r.AuthStatus,
			},
		},
	}
}

// playlistCommand handles playlist CRUD, sync and export operations
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlists",
		Aliases: []string{"pl"},
		Usage:   "Playlist operations",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List playlists",
				Flags:  jsonFlags(),
				Action: r.PlaylistList,
			},
			{
				Name:  "show",
				Usage: "Show a playlist and its channels",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  jsonFlags(),
				Action: r.PlaylistShow,
			},
			{
				Name:  "create",
				Usage: "Create a playlist",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "name",
						Aliases:  []string{"n"},
						Usage:    "Playlist name",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "url",
						Usage: "M3U source URL (omit for a custom playlist)",
					},
					&cli.StringFlag{
						Name:  "epg",
						Usage: "EPG guide URL",
					},
				},
				Action: r.PlaylistCreate,
			},
			{
				Name:  "update",
				Usage: "Update playlist fields",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "New name"},
					&cli.StringFlag{Name: "url", Usage: "New M3U source URL"},
					&cli.StringFlag{Name: "epg", Usage: "New EPG guide URL"},
				},
				Action: r.PlaylistUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Aliases: []string{"y"}, Usage: "Skip confirmation"},
				},
				Action: r.PlaylistDelete,
			},
			{
				Name:  "sync",
				Usage: "Re-fetch a playlist's channels from its M3U source",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.PlaylistSync,
			},
			{
				Name:  "share",
				Usage: "Generate a public share token for a playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.PlaylistShare,
			},
			{
				Name:  "preview",
				Usage: "Fetch a shared playlist by its public token",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "token"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "raw", Usage: "Print the raw M3U instead of a channel listing"},
				},
				Action: r.PlaylistPreview,
			},
			{
				Name:    "export",
				Aliases: []string{"m3u"},
				Usage:   "Export a playlist as M3U, CSV or Markdown",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: m3u, csv or md",
						Value:   "m3u",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path (stdout when omitted)",
					},
				},
				Action: r.PlaylistExport,
			},
		},
	}
}

// channelCommand handles channel operations within a playlist
func channelCommand(r *Runner) *cli.Command {
	playlistFlag := &cli.StringFlag{
		Name:     "playlist",
		Aliases:  []string{"P"},
		Usage:    "Playlist ID",
		Required: true,
	}

	return &cli.Command{
		Name:    "channels",
		Aliases: []string{"ch"},
		Usage:   "Channel operations",
		Commands: []*cli.Command{
			{
				Name:  "add",
				Usage: "Add a channel to a playlist",
				Flags: []cli.Flag{
					playlistFlag,
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "Channel name", Required: true},
					&cli.StringFlag{Name: "url", Usage: "Stream URL", Required: true},
					&cli.StringFlag{Name: "group", Usage: "Group title"},
					&cli.StringFlag{Name: "logo", Usage: "Logo URL"},
					&cli.StringFlag{Name: "tvg-id", Usage: "EPG channel id"},
				},
				Action: r.ChannelAdd,
			},
			{
				Name:  "update",
				Usage: "Update channel fields",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					playlistFlag,
					&cli.StringFlag{Name: "name", Aliases: []string{"n"}, Usage: "New name"},
					&cli.StringFlag{Name: "url", Usage: "New stream URL"},
					&cli.StringFlag{Name: "group", Usage: "New group title"},
				},
				Action: r.ChannelUpdate,
			},
			{
				Name:  "delete",
				Usage: "Remove a channel from its playlist",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{playlistFlag},
				Action: r.ChannelDelete,
			},
			{
				Name:  "move",
				Usage: "Move a channel to a new position",
				Flags: []cli.Flag{
					playlistFlag,
					&cli.IntFlag{Name: "from", Usage: "Current position (1-based)", Required: true},
					&cli.IntFlag{Name: "to", Usage: "Target position (1-based)", Required: true},
				},
				Action: r.ChannelMove,
			},
			{
				Name:  "play",
				Usage: "Open a channel's stream in the default player",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags:  []cli.Flag{playlistFlag},
				Action: r.ChannelPlay,
			},
		},
	}
}

// cacheCommand inspects and refreshes the offline snapshot
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Offline playlist snapshot",
		Commands: []*cli.Command{
			{
				Name:   "stats",
				Usage:  "Show cached row counts",
				Action: r.CacheStats,
			},
			{
				Name:   "refresh",
				Usage:  "Reload playlists from the server into the cache",
				Action: r.CacheRefresh,
			},
		},
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch the interactive terminal UI",
		Action: r.TUI,
	}
}
