package main

import (
	"context"
	"strings"

	"github.com/desertthunder/songsearch/internal/formatter"
	"github.com/desertthunder/songsearch/internal/shared"
	"github.com/urfave/cli/v3"
)

// Search submits the query made of all arguments and prints the results in the requested format.
func (r *Runner) Search(ctx context.Context, cmd *cli.Command) error {
	query := strings.Join(cmd.Args().Slice(), " ")
	outputPath := cmd.String("output")

	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	ctrl := r.newController()
	defer ctrl.Close()

	result, err := ctrl.SubmitSearch(ctx, query)
	if err != nil {
		return r.failure(ctrl, err)
	}

	r.logger.Info("search complete", "found", len(result.TracksFound), "not_found", len(result.TracksNotFound))

	if format == formatter.FormatJSON && outputPath == "" {
		return r.writeJSON(result, cmd.Bool("pretty"))
	}

	var data []byte
	if format == formatter.FormatJSON {
		data, err = shared.MarshalJSON(result, cmd.Bool("pretty"))
	} else {
		data, err = formatter.ExportResults(ctrl.Page(), format, strings.TrimSpace(query))
	}
	if err != nil {
		return err
	}

	if outputPath != "" {
		if err := formatter.WriteExport(data, outputPath); err != nil {
			return err
		}
		r.logger.Info("results exported", "path", outputPath, "format", format)
		return r.writePlain("✓ Results written to %s\n", outputPath)
	}

	return r.writeBytes(data)
}

// Suggest prints playlists suggested for the vibe made of all arguments.
func (r *Runner) Suggest(ctx context.Context, cmd *cli.Command) error {
	vibe := strings.Join(cmd.Args().Slice(), " ")

	ctrl := r.newController()
	defer ctrl.Close()

	playlists, err := ctrl.RequestPlaylistSuggestions(ctx, vibe)
	if err != nil {
		return r.failure(ctrl, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(playlists, true)
	}

	r.writePlainHeader("Playlists for " + strings.TrimSpace(vibe))
	return r.writeBytes(formatter.SuggestionsToText(ctrl.Page()))
}

// History prints recent searches, most recent first.
func (r *Runner) History(ctx context.Context, cmd *cli.Command) error {
	ctrl := r.newController()
	defer ctrl.Close()

	entries, err := ctrl.LoadHistory(ctx)
	if err != nil {
		return r.failure(ctrl, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, true)
	}

	r.writePlainHeader("Recent searches")
	return r.writeBytes(formatter.HistoryToText(ctrl.Page()))
}
