package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/desertthunder/songfinder/internal/models"
	"github.com/desertthunder/songfinder/internal/shared"
	"github.com/desertthunder/songfinder/internal/tasks"
)

func TestRender(t *testing.T) {
	t.Run("Lookup Success", func(t *testing.T) {
		out := RenderLookup(&tasks.LookupResult{Query: "Gülpembe", PreviewURL: "https://p.scdn.co/x"})

		assert.Contains(t, out, "✓")
		assert.Contains(t, out, "Gülpembe -> https://p.scdn.co/x")
	})

	t.Run("Lookup Upstream Failure", func(t *testing.T) {
		out := RenderLookup(&tasks.LookupResult{
			Query: "song",
			Err:   shared.NewUpstreamError(401, "unauthorized, credential should be renewed"),
		})

		assert.Contains(t, out, "✗")
		assert.Contains(t, out, "[401 upstream_http]")
		assert.Contains(t, out, "unauthorized, credential should be renewed")
	})

	t.Run("Lookup Transport Failure", func(t *testing.T) {
		out := RenderLookup(&tasks.LookupResult{Query: "song", Err: shared.NewTransportError("connection refused", nil)})

		assert.Contains(t, out, "[transport]")
		assert.NotContains(t, out, "[0 ")
	})

	t.Run("Progress", func(t *testing.T) {
		out := RenderProgress(tasks.ProgressUpdate{Phase: tasks.DownloadAudio, Step: 2, Total: 2, Message: "Downloading"})
		assert.Contains(t, out, "[download_audio 2/2] Downloading")

		out = RenderProgress(tasks.ProgressUpdate{Phase: tasks.BatchProgress, Step: 1, Total: 3, Message: "[1/3] ✓ a"})
		assert.Equal(t, "[1/3] ✓ a", strings.TrimSpace(out))
	})

	t.Run("Batch Summary", func(t *testing.T) {
		out := RenderBatchSummary(&tasks.BatchResult{Successful: 2, Failed: 1})
		assert.Contains(t, out, "2 resolved, 1 failed")
	})

	t.Run("History Row", func(t *testing.T) {
		created := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

		ok := models.RestoreLookup("a", 7, "Gülpembe", "https://p.scdn.co/x", 200, "", "", 10, models.SourceCLI, created)
		assert.Contains(t, RenderHistoryRow(ok), "Gülpembe -> https://p.scdn.co/x")
		assert.Contains(t, RenderHistoryRow(ok), "   7")

		failed := models.RestoreLookup("b", 8, "song", "", 500, "parse", "cannot parse input as JSON", 0, models.SourceHTTP, created)
		row := RenderHistoryRow(failed)
		assert.Contains(t, row, "[500 parse]")
		assert.Contains(t, row, "cannot parse input as JSON")
		assert.Contains(t, row, "http")
	})
}

func TestPalette(t *testing.T) {
	p := NewPalette("#000000", "#111111", "#222222", "#333333", "#444444")

	for name, render := range map[string]func(string) string{
		"Title":   p.Title,
		"Success": p.Success,
		"Error":   p.Error,
		"Warn":    p.Warn,
		"Help":    p.Help,
	} {
		t.Run(name, func(t *testing.T) {
			assert.Contains(t, render("text"), "text")
		})
	}
}
