package ui

import (
	"fmt"
	"strings"

	"github.com/desertthunder/songfinder/internal/models"
	"github.com/desertthunder/songfinder/internal/shared"
	"github.com/desertthunder/songfinder/internal/tasks"
)

// RenderLookup renders one lookup result as "✓ query -> url" or "✗ query: [status kind] message".
func RenderLookup(res *tasks.LookupResult) string {
	if res.OK() {
		return fmt.Sprintf("%s %s -> %s", Styles.Success("✓"), res.Query, res.PreviewURL)
	}
	ce := shared.AsClassified(res.Err)
	return fmt.Sprintf("%s %s: %s %s", Styles.Error("✗"), res.Query, Styles.Warn(errorTag(ce)), ce.Message)
}

// RenderProgress renders a progress update with its phase and step counter.
func RenderProgress(u tasks.ProgressUpdate) string {
	if u.Total > 0 && u.Phase != tasks.BatchProgress {
		return Styles.Help(fmt.Sprintf("[%s %d/%d] %s", u.Phase, u.Step, u.Total, u.Message))
	}
	return Styles.Help(u.Message)
}

// RenderBatchSummary renders the totals line printed after a batch.
func RenderBatchSummary(r *tasks.BatchResult) string {
	line := fmt.Sprintf("%d resolved, %d failed", r.Successful, r.Failed)
	if r.Failed > 0 {
		return Styles.Warn(line)
	}
	return Styles.Success(line)
}

// RenderHistoryRow renders a stored lookup as one history line.
func RenderHistoryRow(l *models.Lookup) string {
	when := l.CreatedAt().Local().Format("2006-01-02 15:04:05")
	prefix := fmt.Sprintf("%4d  %s  %-4s", l.Sequence(), Styles.Help(when), l.Source())
	if l.OK() {
		return fmt.Sprintf("%s  %s %s -> %s", prefix, Styles.Success("✓"), l.Query(), l.PreviewURL())
	}
	return fmt.Sprintf("%s  %s %s: %s %s", prefix, Styles.Error("✗"), l.Query(),
		Styles.Warn(fmt.Sprintf("[%d %s]", l.Status(), l.ErrorKind())), l.ErrorMessage())
}

func errorTag(ce *shared.ClassifiedError) string {
	var b strings.Builder
	b.WriteString("[")
	if ce.Status != 0 {
		fmt.Fprintf(&b, "%d ", ce.Status)
	}
	b.WriteString(string(ce.Kind))
	b.WriteString("]")
	return b.String()
}
