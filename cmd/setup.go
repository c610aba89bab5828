package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/desertthunder/songsearch/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the default configuration to the --config path.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")
	if configPath == "" {
		return fmt.Errorf("%w: --config", shared.ErrMissingArgument)
	}

	if dir := filepath.Dir(configPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	r.logger.Info("creating config file from template", "path", configPath)
	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	if _, err := shared.LoadConfig(configPath); err != nil {
		return fmt.Errorf("created config does not load: %w", err)
	}
	r.configPath = configPath

	r.writePlain("✓ Configuration written to %s\n", configPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Set api.base_url to your song search service (or export %s)\n", shared.EnvAPIURL)
	r.writePlain("2. Run 'songsearch search \"your song\"' to test the connection\n")

	return nil
}
