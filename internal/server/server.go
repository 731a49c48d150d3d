// package server contains middleware & handlers for the song preview web service
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/songfinder/internal/metrics"
	"github.com/desertthunder/songfinder/internal/shared"
	"github.com/desertthunder/songfinder/internal/tasks"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, request IDs, rate limiting and panic recovery.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the song preview service.
// Implementations handle specific endpoints (lookup, health).
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

const shutdownTimeout = 10 * time.Second

// Options holds the dependencies of [New].
type Options struct {
	Config  shared.ServerConfig
	Engine  tasks.Engine
	Metrics *metrics.Recorder
	Logger  *log.Logger
}

// NewRouter builds the service router: recovery, request IDs, logging and rate limiting in that order,
// then the lookup, health and metrics routes.
func NewRouter(opts Options) *BasicRouter {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	r := NewBasicRouter()
	r.Use(
		Recover(opts.Logger),
		RequestID(),
		Logging(opts.Logger),
		RateLimit(opts.Config.RateLimit, opts.Config.Burst),
	)

	r.Handler(NewSongFinderHandler(opts.Engine, opts.Metrics, opts.Logger))
	r.Handler(NewHealthHandler())
	r.Handle(http.MethodGet, "/metrics", opts.Metrics.Handler())
	return r
}

// New returns an [http.Server] for the configured address serving [NewRouter].
func New(opts Options) *http.Server {
	return &http.Server{
		Addr:              opts.Config.Addr(),
		Handler:           NewRouter(opts),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// Serve accepts connections on ln until ctx is done, then shuts down gracefully.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, logger *log.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	logger.Info("server listening", "addr", ln.Addr().String())

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// ListenAndServe listens on srv.Addr and calls [Serve].
func ListenAndServe(ctx context.Context, srv *http.Server, logger *log.Logger) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", srv.Addr, err)
	}
	return Serve(ctx, srv, ln, logger)
}
