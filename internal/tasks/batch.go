package tasks

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/desertthunder/songfinder/internal/models"
	"github.com/desertthunder/songfinder/internal/shared"
)

// BatchOpts contains configuration for concurrent lookups.
type BatchOpts struct {
	NumWorkers int           // Concurrent lookups (default: 4, max: 10)
	RateLimit  float64       // Upstream requests per second (default: 5)
	Download   bool          // Also download audio for each resolved preview
	Source     models.Source // History source (default: cli)
}

// BatchResult contains the results of a batch, in input order.
type BatchResult struct {
	Results    []*LookupResult
	Successful int
	Failed     int
}

// BatchResolve looks up every query concurrently with rate limiting.
//
// A failed lookup never cancels the others; its error is kept in its [LookupResult]. The returned error is set only
// when the batch itself could not run (no queries, or ctx canceled before every lookup started).
func (e *LookupEngine) BatchResolve(
	ctx context.Context,
	progress chan<- ProgressUpdate,
	queries []string,
	token string,
	opts BatchOpts,
) (*BatchResult, error) {
	if len(queries) == 0 {
		return nil, fmt.Errorf("%w: at least one song name", shared.ErrMissingArgument)
	}

	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 4
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}
	if opts.Source == "" {
		opts.Source = models.SourceCLI
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	result := &BatchResult{Results: make([]*LookupResult, len(queries))}

	var (
		mu        sync.Mutex
		completed int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.NumWorkers)

	for i, query := range queries {
		g.Go(func() error {
			if err := limiter.Wait(gctx); err != nil {
				return err
			}

			var res *LookupResult
			if opts.Download {
				res = e.Lookup(gctx, nil, query, token, opts.Source)
			} else {
				res = e.Resolve(gctx, nil, query, token, opts.Source)
			}

			mu.Lock()
			result.Results[i] = res
			completed++
			if res.OK() {
				result.Successful++
			} else {
				result.Failed++
			}
			e.sendProgress(progress, batchCompletedUpdate(completed, len(queries), res))
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return result, fmt.Errorf("batch interrupted: %w", err)
	}
	return result, nil
}
