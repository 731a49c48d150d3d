// package formatter exports lookup history to various formats (JSON, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/songfinder/internal/models"
)

// Format names an export format.
type Format string

const (
	FormatJSON     Format = "json"
	FormatCSV      Format = "csv"
	FormatMarkdown Format = "markdown"
	FormatText     Format = "txt"
)

// ParseFormat resolves a format name, accepting "md" and "text" as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "csv":
		return FormatCSV, nil
	case "markdown", "md":
		return FormatMarkdown, nil
	case "txt", "text", "":
		return FormatText, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected json, csv, markdown or txt)", s)
	}
}

// LookupView is the exported shape of a [models.Lookup].
type LookupView struct {
	ID           string    `json:"id"`
	Sequence     int       `json:"sequence"`
	Query        string    `json:"query"`
	PreviewURL   string    `json:"previewUrl,omitempty"`
	Status       int       `json:"status"`
	ErrorKind    string    `json:"errorKind,omitempty"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
	AudioBytes   int       `json:"audioBytes,omitempty"`
	Source       string    `json:"source"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewLookupView copies a lookup into its exported shape.
func NewLookupView(l *models.Lookup) LookupView {
	return LookupView{
		ID:           l.ID(),
		Sequence:     l.Sequence(),
		Query:        l.Query(),
		PreviewURL:   l.PreviewURL(),
		Status:       l.Status(),
		ErrorKind:    l.ErrorKind(),
		ErrorMessage: l.ErrorMessage(),
		AudioBytes:   l.AudioBytes(),
		Source:       string(l.Source()),
		CreatedAt:    l.CreatedAt(),
	}
}

func views(lookups []*models.Lookup) []LookupView {
	out := make([]LookupView, 0, len(lookups))
	for _, l := range lookups {
		out = append(out, NewLookupView(l))
	}
	return out
}

// Export renders lookups in format f.
func Export(f Format, lookups []*models.Lookup) ([]byte, error) {
	switch f {
	case FormatJSON:
		return ExportToJSON(lookups)
	case FormatCSV:
		return ExportToCSV(lookups)
	case FormatMarkdown:
		return ExportToMarkdown(lookups)
	case FormatText:
		return ExportToText(lookups)
	default:
		return nil, fmt.Errorf("unknown format %q", f)
	}
}

// ExportToJSON renders lookups as an indented JSON array.
func ExportToJSON(lookups []*models.Lookup) ([]byte, error) {
	data, err := json.MarshalIndent(views(lookups), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal lookups: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToCSV renders lookups with columns: Sequence, ID, Query, Status, Outcome, PreviewURL, AudioBytes, Source, CreatedAt, Error
func ExportToCSV(lookups []*models.Lookup) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Sequence", "ID", "Query", "Status", "Outcome", "PreviewURL", "AudioBytes", "Source", "CreatedAt", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, l := range lookups {
		record := []string{
			strconv.Itoa(l.Sequence()),
			l.ID(),
			l.Query(),
			strconv.Itoa(l.Status()),
			l.Outcome(),
			l.PreviewURL(),
			strconv.Itoa(l.AudioBytes()),
			string(l.Source()),
			l.CreatedAt().UTC().Format(time.RFC3339),
			l.ErrorMessage(),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders lookups as a Markdown table with a summary line.
func ExportToMarkdown(lookups []*models.Lookup) ([]byte, error) {
	var buf bytes.Buffer

	ok := 0
	for _, l := range lookups {
		if l.OK() {
			ok++
		}
	}

	buf.WriteString("# Lookup History\n\n")
	buf.WriteString(fmt.Sprintf("**Lookups**: %d (%d succeeded, %d failed)\n\n", len(lookups), ok, len(lookups)-ok))

	if len(lookups) == 0 {
		return buf.Bytes(), nil
	}

	buf.WriteString("| # | Query | Status | Result | Source | When |\n")
	buf.WriteString("|---|---|---|---|---|---|\n")
	for _, l := range lookups {
		result := l.PreviewURL()
		if !l.OK() {
			result = l.ErrorMessage()
		}
		buf.WriteString(fmt.Sprintf("| %d | %s | %d | %s | %s | %s |\n",
			l.Sequence(),
			escapeCell(l.Query()),
			l.Status(),
			escapeCell(result),
			l.Source(),
			l.CreatedAt().UTC().Format(time.RFC3339),
		))
	}

	return buf.Bytes(), nil
}

// ExportToText renders one line per lookup.
func ExportToText(lookups []*models.Lookup) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Lookups: %d\n\n", len(lookups)))

	for _, l := range lookups {
		if l.OK() {
			buf.WriteString(fmt.Sprintf("%d. %s -> %s\n", l.Sequence(), l.Query(), l.PreviewURL()))
		} else {
			buf.WriteString(fmt.Sprintf("%d. %s [%d %s] %s\n", l.Sequence(), l.Query(), l.Status(), l.ErrorKind(), l.ErrorMessage()))
		}
	}

	return buf.Bytes(), nil
}

// WriteExport renders lookups and writes them to path.
//
// Defaults to history.{ext} when path is empty. Returns the path written.
func WriteExport(f Format, lookups []*models.Lookup, path string) (string, error) {
	if path == "" {
		path = "history." + f.Extension()
	}

	data, err := Export(f, lookups)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", f, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}
	return path, nil
}

// Extension returns the file extension for f.
func (f Format) Extension() string {
	if f == FormatMarkdown {
		return "md"
	}
	return string(f)
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
