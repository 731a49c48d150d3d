// submodule cmd contains command definitions
package main

import (
	"time"

	"github.com/urfave/cli/v3"
)

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
		Value:   defaultConfigPath,
	}
}

func tokenFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "token",
		Aliases: []string{"t"},
		Usage:   "Access token (defaults to a client-credentials token from config)",
		Sources: cli.EnvVars("SONGFINDER_TOKEN"),
	}
}

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write a config.toml with default settings",
				Flags:  []cli.Flag{configFlag()},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the lookup history database and run migrations",
				Flags: []cli.Flag{
					configFlag(),
					&cli.BoolFlag{
						Name:  "rollback",
						Usage: "Revert the most recent migration instead",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// tokenCommand obtains an app access token.
func tokenCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Obtain an access token with the client-credentials flow",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output the token as JSON",
			},
		},
		Action: r.Token,
	}
}

// searchCommand resolves preview URLs for one or more songs.
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Aliases:   []string{"s"},
		Usage:     "Resolve preview URLs for song names",
		ArgsUsage: "<song> [song...]",
		Flags: []cli.Flag{
			tokenFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
				Value: true,
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of concurrent lookups",
				Value: 4,
			},
			&cli.FloatFlag{
				Name:  "rate",
				Usage: "Maximum searches per second",
				Value: 5,
			},
		},
		Action: r.Search,
	}
}

// previewCommand downloads one preview.
func previewCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "preview",
		Aliases:   []string{"p"},
		Usage:     "Resolve a song and download its preview audio",
		ArgsUsage: "<song>",
		Flags: []cli.Flag{
			tokenFlag(),
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Output file path (default: derived from the song name)",
			},
		},
		Action: r.Preview,
	}
}

// serveCommand runs the HTTP endpoint.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve GET /rest/songfinder over HTTP",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Listen host (overrides server.host)",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Listen port (overrides server.port)",
				Value: -1,
			},
		},
		Action: r.Serve,
	}
}

// historyCommand lists and prunes recorded lookups.
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "List recorded lookups",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "limit",
				Aliases: []string{"n"},
				Usage:   "Maximum number of lookups to list",
				Value:   20,
			},
			&cli.BoolFlag{
				Name:  "failed",
				Usage: "Only list failed lookups",
			},
			&cli.StringFlag{
				Name:  "source",
				Usage: "Only list lookups from a source (http or cli)",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: json, csv, markdown or txt",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write the export to a file instead of stdout",
			},
		},
		Action: r.History,
		Commands: []*cli.Command{
			{
				Name:  "prune",
				Usage: "Delete lookups older than a duration",
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "older-than",
						Usage: "Age of the oldest lookup to keep",
						Value: 30 * 24 * time.Hour,
					},
				},
				Action: r.HistoryPrune,
			},
		},
	}
}
