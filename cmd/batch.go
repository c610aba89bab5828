package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/desertthunder/songsearch/internal/formatter"
	"github.com/desertthunder/songsearch/internal/shared"
	"github.com/desertthunder/songsearch/internal/tasks"
	"github.com/urfave/cli/v3"
)

// batchCommand searches every line of a file
func batchCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:      "batch",
		Usage:     "Search each line of a file and export the results",
		ArgsUsage: "<file|->",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Export format: text, markdown, csv or json",
				Value:   formatter.FormatText,
			},
			&cli.StringFlag{
				Name:  "out-dir",
				Usage: "Output directory (default: songsearch_batch_{epoch})",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Concurrent searches",
				Value: tasks.DefaultWorkers,
			},
		},
		Action: r.Batch,
	}
}

// Batch reads queries from a file (or stdin for "-") and exports one result file per query.
func (r *Runner) Batch(ctx context.Context, cmd *cli.Command) error {
	source := cmd.Args().First()
	if source == "" {
		return fmt.Errorf("%w: query file", shared.ErrMissingArgument)
	}

	var in io.Reader = os.Stdin
	if source != "-" {
		f, err := os.Open(source)
		if err != nil {
			return fmt.Errorf("failed to open query file: %w", err)
		}
		defer f.Close()
		in = f
	}

	queries, err := tasks.ReadQueries(in)
	if err != nil {
		return err
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progress {
			r.writePlain("%s\n", update.Message)
		}
	}()

	engine := tasks.NewBatchEngine(r.client(), r.logger)
	result, err := engine.Run(ctx, progress, queries, tasks.BatchOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("out-dir"),
		NumWorkers: cmd.Int("workers"),
	})
	close(progress)
	<-done

	if err != nil {
		return err
	}

	r.writePlainln("Batch complete: %d succeeded, %d failed", result.Succeeded, result.Failed)
	r.writePlain("Output: %s\n", result.OutputDirectory)
	return nil
}
