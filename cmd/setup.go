package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songfinder/internal/shared"
	"github.com/desertthunder/songfinder/internal/ui"
)

// SetupConfig writes the default configuration file.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if err := shared.CreateConfigFile(configPath); err != nil {
		return err
	}

	r.logger.Info("config file created", "path", configPath)
	r.writePlain("%s Config written to %s\n", ui.Styles.Success("✓"), configPath)
	r.writePlain("%s\n", ui.Styles.Help("Set credentials.spotify.client_id and client_secret to use the token command."))
	return nil
}

// SetupDatabase initializes the database and runs migrations.
func (r *Runner) SetupDatabase(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	config := r.config
	if _, err := os.Stat(configPath); err == nil {
		if config, err = shared.LoadConfig(configPath); err != nil {
			r.logger.Warn("failed to load config, using current settings", "error", err)
			config = r.config
		}
	} else {
		r.logger.Info("config file not found, using current settings", "path", configPath)
	}

	r.logger.Info("initializing database", "path", config.Database.Path)

	db, err := shared.OpenDatabase(config.Database)
	if err != nil {
		return fmt.Errorf("failed to set up database: %w", err)
	}
	defer db.Close()

	if cmd.Bool("rollback") {
		r.logger.Info("rolling back most recent migration")
		if err := shared.RollbackMigration(db); err != nil {
			return err
		}
		r.writePlain("%s Rolled back most recent migration on %s\n", ui.Styles.Success("✓"), config.Database.Path)
		return nil
	}

	r.logger.Infof("setup complete for database: %v", config.Database.Path)
	r.writePlain("%s Database ready at %s\n", ui.Styles.Success("✓"), config.Database.Path)
	return nil
}
