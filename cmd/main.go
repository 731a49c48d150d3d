package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songfinder/internal/repositories"
	"github.com/desertthunder/songfinder/internal/shared"
)

const defaultConfigPath = "config.toml"

func main() {
	configPath := os.Getenv("SONGFINDER_CONFIG")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			shared.NewLogger(nil).Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}

	logger, closeLog, err := shared.NewConfiguredLogger(config.Logging)
	if err != nil {
		log.Fatalf("failed to configure logging: %v", err)
	}
	defer closeLog()

	var history *repositories.LookupRepository
	if config.Database.Path != "" {
		if db, err := shared.OpenDatabase(config.Database); err == nil {
			defer db.Close()
			history = repositories.NewLookupRepository(db)
		} else {
			logger.Warn("lookup history disabled", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Logger:     logger,
		History:    history,
	})

	if err := newApp(runner).Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		logger.Error("application error", "error", err)
		closeLog()
		os.Exit(1)
	}
}

func newApp(r *Runner) *cli.Command {
	return &cli.Command{
		Name:     "songfinder",
		Usage:    "Resolve song names to preview audio",
		Version:  "0.1.0",
		Commands: r.register(),
	}
}
