// submodule cmd contains command definitions
package main

import (
	"github.com/desertthunder/songsearch/internal/formatter"
	"github.com/urfave/cli/v3"
)

// setupCommand writes a starter configuration file
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Initialize configuration",
		Commands: []*cli.Command{
			{
				Name:   "config",
				Usage:  "Write config.toml from the built-in defaults",
				Action: r.SetupConfig,
			},
		},
	}
}

// searchCommand submits a search and prints the rendered results
func searchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "search",
		Aliases:   []string{"s"},
		Usage:     "Search for songs",
		ArgsUsage: "<query>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, markdown, csv or json",
				Value:   formatter.FormatText,
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write results to a file instead of stdout",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print JSON output",
			},
		},
		Action: r.Search,
	}
}

// suggestCommand asks for playlists matching a vibe
func suggestCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "suggest",
		Usage:     "Suggest playlists for a vibe",
		ArgsUsage: "<vibe>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.Suggest,
	}
}

// historyCommand lists recent searches
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Show recent searches, most recent first",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
		},
		Action: r.History,
	}
}

// webCommand serves the search page locally
func webCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "web",
		Usage: "Serve the search page in the browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (defaults to server.host:server.port from config)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the page in the default browser",
			},
		},
		Action: r.Web,
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:   "tui",
		Usage:  "Launch interactive terminal UI",
		Action: r.TUI,
	}
}
