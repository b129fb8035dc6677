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

// setupCommand initializes the database and imports the browser session
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize the database and import a Rumble session",
		Commands: []*cli.Command{
			{
				Name:   "database",
				Usage:  "Initialize database and run migrations",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupDatabase,
			},
			{
				Name:  "session",
				Usage: "Import a Rumble browser session from a 'Copy as cURL' capture",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "curl",
						Usage: "cURL command copied from browser DevTools",
					},
					&cli.StringFlag{
						Name:  "curl-file",
						Usage: "Path to a file containing the cURL command",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Where to store the imported session",
					},
				},
				Action: r.SetupSession,
			},
		},
	}
}

// directoryCommand manages the harvested playlist directory
func directoryCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "directory",
		Aliases: []string{"dir"},
		Usage:   "Inspect and refresh the playlist directory",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached playlists",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Output CSV",
					},
				},
				Action: r.DirectoryList,
			},
			{
				Name:   "harvest",
				Usage:  "Refresh the directory from the account's playlists",
				Flags:  []cli.Flag{configFlag()},
				Action: r.DirectoryHarvest,
			},
		},
	}
}

// playlistCommand runs bulk playlist jobs
func playlistCommand(r *Runner) *cli.Command {
	jobFlags := []cli.Flag{
		configFlag(),
		&cli.StringSliceFlag{
			Name:    "target",
			Aliases: []string{"t"},
			Usage:   "Video page URL to process (repeatable)",
		},
		&cli.StringFlag{
			Name:  "targets-file",
			Usage: "File with one video page URL per line",
		},
		&cli.IntFlag{
			Name:  "timeout",
			Usage: "Per-target timeout in seconds",
		},
		&cli.StringFlag{
			Name:  "report",
			Usage: "Write a per-target report to this path",
		},
		&cli.StringFlag{
			Name:  "format",
			Usage: "Report format: text, csv, markdown, json",
			Value: "text",
		},
	}

	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Bulk playlist membership operations",
		Commands: []*cli.Command{
			{
				Name:  "apply",
				Usage: "Apply playlists to each target video",
				Flags: append([]cli.Flag{
					&cli.StringSliceFlag{
						Name:  "id",
						Usage: "Playlist id to apply (repeatable)",
					},
					&cli.StringSliceFlag{
						Name:  "name",
						Usage: "Playlist name to resolve against the directory (repeatable)",
					},
					&cli.BoolFlag{
						Name:  "ui",
						Usage: "Run with the interactive dashboard",
					},
				}, jobFlags...),
				Action: r.PlaylistApply,
			},
			{
				Name:   "clear",
				Usage:  "Remove each target video from all playlists",
				Flags:  jobFlags,
				Action: r.PlaylistClear,
			},
		},
	}
}

// raidCommand suggests live followed channels to raid
func raidCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "raid",
		Usage: "Raid helpers",
		Commands: []*cli.Command{
			{
				Name:  "suggest",
				Usage: "List followed channels that are live right now",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.RaidSuggest,
			},
		},
	}
}

// serveCommand runs the control API server
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP control API",
		Flags: []cli.Flag{
			configFlag(),
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the server URL in a browser",
			},
		},
		Action: r.Serve,
	}
}
