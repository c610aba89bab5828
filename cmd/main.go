package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/songsearch/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)
	runner := NewRunner(RunnerOpts{Logger: logger})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp(runner).Run(ctx, os.Args); err != nil {
		switch {
		case errors.Is(err, shared.ErrNotImplemented):
			logger.Warn("not implemented")
			os.Exit(0)
		case isUsageError(err):
			logger.Warn(err.Error())
			os.Exit(1)
		default:
			logger.Fatalf("application error: %v", err)
		}
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "songsearch",
		Usage:   "Search songs and get playlist suggestions from a song search service",
		Version: "0.1.0",
		Writer:  r.output,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Before:   r.Before,
		Commands: r.register(),
	}
}

// isUsageError reports errors caused by user input rather than the service or the program.
func isUsageError(err error) bool {
	for _, target := range []error{
		shared.ErrInvalidInput, shared.ErrMissingArgument, shared.ErrInvalidFlag,
		shared.ErrInvalidConfig, shared.ErrMissingConfig,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
