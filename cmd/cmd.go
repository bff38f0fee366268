// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func formatFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: text, csv, markdown or json",
			Value:   "text",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Write to a file instead of stdout",
		},
	}
}

// setupCommand writes a starter config and initializes the token cache.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "setup",
		Usage:  "Create the config file and initialize the database",
		Action: r.Setup,
	}
}

// authCommand handles the Spotify authorization flow.
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "auth",
		Usage:  "Authorize sptx with Spotify using OAuth2",
		Action: r.Auth,
		Commands: []*cli.Command{
			{
				Name:   "status",
				Usage:  "Show the cached token and when it expires",
				Action: r.AuthStatus,
			},
		},
	}
}

// cacheCommand manages the local token cache
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage cached tokens",
		Commands: []*cli.Command{
			{
				Name:  "prune",
				Usage: "Keep only the most recent tokens",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "keep",
						Usage: "Number of tokens to keep",
						Value: tokenHistory,
					},
				},
				Action: r.CachePrune,
			},
			{
				Name:   "clear",
				Usage:  "Remove every cached token (requires 'sptx auth' again)",
				Action: r.CacheClear,
			},
		},
	}
}

// tuiCommand returns the interactive player, also the default action.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive player",
		Action:  r.TUI,
	}
}

func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "status",
		Aliases: []string{"now"},
		Usage:   "Show what is playing",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Status,
	}
}

func devicesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "devices",
		Usage:  "List available playback devices",
		Action: r.Devices,
	}
}

func deviceCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "device",
		Usage: "Manage the playback device",
		Commands: []*cli.Command{
			{
				Name:  "set",
				Usage: "Select the device commands are sent to",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.DeviceSet,
			},
		},
	}
}

func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Resume playback, or play a context or list of tracks",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "context",
				Usage: "Album, artist or playlist URI to play",
			},
			&cli.StringSliceFlag{
				Name:    "track",
				Aliases: []string{"t"},
				Usage:   "Track URI to play (repeatable)",
			},
			&cli.IntFlag{
				Name:  "offset",
				Usage: "Position in the context or track list to start from",
				Value: -1,
			},
		},
		Action: r.Play,
	}
}

func pauseCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "pause",
		Usage:  "Pause playback",
		Action: r.Pause,
	}
}

func nextCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "next",
		Usage:  "Skip to the next track",
		Action: r.Next,
	}
}

func prevCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "prev",
		Aliases: []string{"previous"},
		Usage:   "Go back to the previous track",
		Action:  r.Previous,
	}
}

func seekCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "seek",
		Usage: "Seek to a position (90, 1:30 or 1m30s)",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "position"},
		},
		Action: r.Seek,
	}
}

func volumeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "volume",
		Aliases: []string{"vol"},
		Usage:   "Set the volume (0-100)",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "percent"},
		},
		Action: r.Volume,
	}
}

func shuffleCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "shuffle",
		Usage:  "Toggle shuffle",
		Action: r.Shuffle,
	}
}

func repeatCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "repeat",
		Usage:  "Cycle repeat: off, context, track",
		Action: r.Repeat,
	}
}

func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search tracks, artists, albums and playlists",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "query"},
		},
		Flags: append(formatFlags(),
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Results per category (defaults to small_search_limit)",
			},
		),
		Action: r.Search,
	}
}

func likeCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "like",
		Usage: "Save or unsave a track (defaults to the playing track)",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Action: r.Like,
	}
}

func recommendCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "recommend",
		Aliases: []string{"radio"},
		Usage:   "Start a radio from a track (defaults to the playing track)",
		Arguments: []cli.Argument{
			&cli.StringArg{Name: "id"},
		},
		Flags:  formatFlags(),
		Action: r.Recommend,
	}
}

func savedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "saved",
		Aliases: []string{"liked"},
		Usage:   "List liked songs",
		Flags: append(formatFlags(),
			&cli.IntFlag{
				Name:  "offset",
				Usage: "Index of the first track",
			},
		),
		Action: r.Saved,
	}
}

func playlistsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "playlists",
		Usage: "List your playlists",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
		},
		Action: r.Playlists,
	}
}
