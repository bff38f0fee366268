package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/sptx/internal/shared"
	"github.com/urfave/cli/v3"
)

// Setup creates the config file when missing and initializes the token cache database.
func (r *Runner) Setup(ctx context.Context, cmd *cli.Command) error {
	if _, err := os.Stat(r.configPath); err == nil {
		r.logger.Info("using existing config", "path", r.configPath)
	} else {
		r.logger.Info("config file not found, creating from template", "path", r.configPath)
		if err := shared.CreateConfigFile(r.configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}

		config, err := shared.LoadConfig(r.configPath)
		if err != nil {
			return err
		}
		r.config = config
		r.devices = shared.NewClientConfig(r.configPath, config)
	}

	dbPath, err := r.config.DatabasePath()
	if err != nil {
		return fmt.Errorf("failed to resolve database path: %w", err)
	}

	r.logger.Info("initializing database", "path", dbPath)
	if err := r.openTokens(ctx); err != nil {
		return err
	}

	r.writePlain("✓ Config: %s\n", r.configPath)
	r.writePlain("✓ Database: %s\n", dbPath)
	r.writePlainln("Next steps:")
	r.writePlain("1. Add your Spotify client_id and client_secret to %s\n", r.configPath)
	r.writePlain("2. Run 'sptx auth' to authorize\n")
	return nil
}
