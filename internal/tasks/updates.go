package tasks

import (
	"fmt"

	"github.com/desertthunder/songfinder/internal/models"
)

// ProgressUpdate represents a progress event during a lookup.
//
// Used to send real-time updates to the CLI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data
}

// Operation phase enumeration
type Phase int

const (
	ResolvePreview Phase = iota
	DownloadAudio
	RecordLookup
	BatchProgress
)

func (p Phase) String() string {
	switch p {
	case ResolvePreview:
		return "resolve_preview"
	case DownloadAudio:
		return "download_audio"
	case RecordLookup:
		return "record_lookup"
	case BatchProgress:
		return "batch"
	default:
		return ""
	}
}

func resolveUpdate(step, total int, catalog, query string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolvePreview,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Searching %s for %q...", catalog, query),
	}
}

func resolvedUpdate(step, total int, previewURL string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolvePreview,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Found preview: %s", previewURL),
		Data:    previewURL,
	}
}

func downloadUpdate(step, total int, previewURL string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadAudio,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Downloading %s...", previewURL),
	}
}

func downloadedUpdate(step, total, n int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   DownloadAudio,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Downloaded %d bytes", n),
		Data:    n,
	}
}

func recordUpdate(l *models.Lookup) ProgressUpdate {
	return ProgressUpdate{
		Phase:   RecordLookup,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Recording lookup (%s)", l.Outcome()),
		Data:    l,
	}
}

func batchCompletedUpdate(step, total int, res *LookupResult) ProgressUpdate {
	if res.OK() {
		return ProgressUpdate{
			Phase:   BatchProgress,
			Step:    step,
			Total:   total,
			Message: fmt.Sprintf("[%d/%d] ✓ %s", step, total, res.Query),
			Data:    res,
		}
	}
	return ProgressUpdate{
		Phase:   BatchProgress,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, res.Query, res.Err),
		Data:    res,
	}
}
