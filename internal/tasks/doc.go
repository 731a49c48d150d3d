// Package tasks orchestrates preview lookups with real-time progress reporting.
//
// # Core Operations
//
// The [Engine] interface defines three operations:
//
//  1. [Engine.Lookup] : song name → preview URL → audio bytes
//     - Resolves the preview URL with a [services.CatalogSearcher]
//     - Downloads the audio with a [services.PreviewFetcher]
//     - Records the outcome, successful or not
//
//  2. [Engine.Resolve] : song name → preview URL only
//
//  3. [Engine.BatchResolve] : many lookups at once
//     - Runs in an errgroup bounded by [BatchOpts.NumWorkers]
//     - Shares one token-bucket limiter across workers
//     - Keeps results in input order; one failure never cancels the rest
//
// # Progress Reporting
//
// # All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data.
// Updates use select with default to prevent blocking.
//
// # History
//
// The optional [HistoryRecorder] interface persists every finished lookup.
// Recording errors are logged and never turn a successful lookup into a failure.
//
// # Implementation
//
// [LookupEngine] implements [Engine] with dependencies on:
//   - [services.CatalogSearcher] : Spotify search
//   - [services.PreviewFetcher] : preview download
//   - [HistoryRecorder] : Optional persistence layer (repositories.LookupRepository)
//   - [metrics.Recorder] : Optional lookup counters
package tasks
