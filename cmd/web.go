package main

import (
	"context"
	"fmt"
	"net"

	"github.com/desertthunder/songsearch/internal/server"
	"github.com/desertthunder/songsearch/internal/shared"
	"github.com/desertthunder/songsearch/internal/web"
	"github.com/urfave/cli/v3"
)

// Web serves the search page until the context is canceled.
//
// Every browser shares one page session.
func (r *Runner) Web(ctx context.Context, cmd *cli.Command) error {
	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	ctrl := r.newController()
	defer ctrl.Close()

	app, err := web.New(ctrl, web.Opts{
		Logger:        r.logger,
		BannerTimeout: r.config.UI.ErrorTimeout.Duration,
	})
	if err != nil {
		return err
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	pageURL := "http://" + ln.Addr().String()
	r.writePlain("Serving song search at %s\n", pageURL)
	r.writePlain("Press Ctrl+C to stop\n")

	if cmd.Bool("open") {
		if err := shared.OpenBrowser(pageURL); err != nil {
			r.logger.Warn("failed to open browser automatically", "error", err)
			r.writePlain("Open %s in your browser\n", pageURL)
		}
	}

	return server.Serve(ctx, ln, app.Router(), r.logger)
}
