// package tasks implements preview lookups on top of the upstream services.
//
// The core abstraction is LookupEngine, which resolves a song to a preview URL, downloads the audio and records the outcome.
// Operations emit progress updates via channels for non-blocking status reporting to CLI layers.
package tasks

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/songfinder/internal/metrics"
	"github.com/desertthunder/songfinder/internal/models"
	"github.com/desertthunder/songfinder/internal/services"
	"github.com/desertthunder/songfinder/internal/shared"
)

// LookupResult contains everything produced by one lookup.
type LookupResult struct {
	Query      string         // Normalized query sent upstream
	PreviewURL string         // Resolved preview URL, empty on search failure
	Audio      []byte         // Downloaded audio, nil unless fetched
	Record     *models.Lookup // History entry describing the outcome
	Err        error          // Classified failure, nil on success
}

// OK reports whether the lookup succeeded.
func (r *LookupResult) OK() bool { return r.Err == nil }

// HistoryRecorder persists finished lookups. [repositories.LookupRepository] implements it.
type HistoryRecorder interface {
	Create(lookup *models.Lookup) error
}

// Engine defines the preview lookup operations.
type Engine interface {
	// Lookup resolves query and downloads the preview audio.
	Lookup(ctx context.Context, progress chan<- ProgressUpdate, query, token string, source models.Source) *LookupResult

	// Resolve resolves query to a preview URL without downloading.
	Resolve(ctx context.Context, progress chan<- ProgressUpdate, query, token string, source models.Source) *LookupResult

	// BatchResolve resolves many queries concurrently.
	BatchResolve(ctx context.Context, progress chan<- ProgressUpdate, queries []string, token string, opts BatchOpts) (*BatchResult, error)
}

// LookupEngine implements Engine with a catalog searcher, a preview fetcher and an optional history recorder.
type LookupEngine struct {
	search  services.CatalogSearcher
	preview services.PreviewFetcher
	history HistoryRecorder
	metrics *metrics.Recorder
	logger  *log.Logger
}

var _ Engine = (*LookupEngine)(nil)

// NewLookupEngine creates a LookupEngine. history and m may be nil.
func NewLookupEngine(search services.CatalogSearcher, preview services.PreviewFetcher, history HistoryRecorder, m *metrics.Recorder, logger *log.Logger) *LookupEngine {
	if logger == nil {
		logger = log.Default()
	}
	return &LookupEngine{search: search, preview: preview, history: history, metrics: m, logger: logger}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *LookupEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Lookup resolves query, downloads the preview and records the outcome.
func (e *LookupEngine) Lookup(ctx context.Context, progress chan<- ProgressUpdate, query, token string, source models.Source) *LookupResult {
	result := e.resolve(ctx, progress, query, token, source, 2)
	if result.OK() {
		result = e.download(ctx, progress, result)
	}
	e.finish(progress, result)
	return result
}

// Resolve resolves query to a preview URL and records the outcome.
func (e *LookupEngine) Resolve(ctx context.Context, progress chan<- ProgressUpdate, query, token string, source models.Source) *LookupResult {
	result := e.resolve(ctx, progress, query, token, source, 1)
	e.finish(progress, result)
	return result
}

func (e *LookupEngine) resolve(ctx context.Context, progress chan<- ProgressUpdate, query, token string, source models.Source, total int) *LookupResult {
	query = shared.NormalizeQuery(query)
	result := &LookupResult{Query: query, Record: models.NewLookup(query, source)}

	if e.search == nil {
		result.Err = shared.NewTransportError("catalog search is not configured", shared.ErrMissingConfig)
		return result
	}

	e.sendProgress(progress, resolveUpdate(1, total, e.search.Name(), query))
	previewURL, err := e.search.ResolvePreviewURL(ctx, query, token)
	if err != nil {
		result.Err = err
		return result
	}

	result.PreviewURL = previewURL
	e.sendProgress(progress, resolvedUpdate(1, total, previewURL))
	return result
}

func (e *LookupEngine) download(ctx context.Context, progress chan<- ProgressUpdate, result *LookupResult) *LookupResult {
	if e.preview == nil {
		result.Err = shared.NewTransportError("preview fetcher is not configured", shared.ErrMissingConfig)
		return result
	}

	e.sendProgress(progress, downloadUpdate(2, 2, result.PreviewURL))
	audio, err := e.preview.FetchPreviewAudio(ctx, result.PreviewURL)
	if err != nil {
		result.Err = err
		return result
	}

	result.Audio = audio
	e.sendProgress(progress, downloadedUpdate(2, 2, len(audio)))
	return result
}

// finish completes the history record, counts the outcome and persists it.
// Persistence failures are logged and never change the lookup result.
func (e *LookupEngine) finish(progress chan<- ProgressUpdate, result *LookupResult) {
	if result.Err != nil {
		result.Record.Fail(result.Err)
		e.logger.Warn("lookup failed", "query", result.Query, "error", result.Err)
	} else {
		result.Record.Succeed(result.PreviewURL, len(result.Audio))
	}

	e.metrics.Lookup(result.Record.Outcome())

	if e.history == nil || result.Query == "" {
		return
	}

	e.sendProgress(progress, recordUpdate(result.Record))
	if err := e.history.Create(result.Record); err != nil {
		e.logger.Error("failed to record lookup", "query", result.Query, "error", err)
	}
}
