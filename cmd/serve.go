package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/songfinder/internal/server"
)

// Serve runs the lookup endpoint until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port >= 0 {
		cfg.Port = port
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(server.Options{
		Config:  cfg,
		Engine:  r.engine,
		Metrics: r.metrics,
		Logger:  r.logger,
	})

	r.logger.Info("starting server", "addr", srv.Addr, "history", r.history != nil)
	return server.ListenAndServe(ctx, srv, r.logger)
}
