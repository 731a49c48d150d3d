// package shared defines shared helpers
package shared

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/natefinch/lumberjack.v2"
)

// NewLogger creates a new [log.Logger] instance with the specified [io.Writer], with timestamps and caller reporting enabled.
//
// The writer defaults to [os.Stderr]
func NewLogger(w io.Writer) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := log.Options{ReportTimestamp: true, ReportCaller: true}
	return log.NewWithOptions(w, opts)
}

// NewConfiguredLogger builds a logger from [LoggingConfig].
//
// When cfg.File is set, output goes to a [lumberjack.Logger] rotating file instead of stderr.
// The returned cleanup closes the file and must be called on shutdown.
func NewConfiguredLogger(cfg LoggingConfig) (*log.Logger, func() error, error) {
	if cfg.File == "" {
		logger := NewLogger(nil)
		SetLogLevel(logger, ParseLevel(cfg.Level))
		return logger, func() error { return nil }, nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.File), 0755); err != nil {
		return nil, nil, err
	}

	lj := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		LocalTime:  true,
	}
	logger := NewLogger(lj)
	SetLogLevel(logger, ParseLevel(cfg.Level))
	return logger, lj.Close, nil
}

// WithLogger creates a child [log.Logger] with the specified key-value pairs added to all log entries.
func WithLogger(l *log.Logger, kv ...any) *log.Logger {
	return l.With(kv...)
}

// SetLogLevel sets the [log.Level] for the given [log.Logger].
func SetLogLevel(l *log.Logger, ll log.Level) {
	l.SetLevel(ll)
}

// ParseLevel maps a config level name to a [log.Level]. "warning" is accepted for warn;
// unknown names fall back to info.
func ParseLevel(s string) log.Level {
	if strings.EqualFold(s, "warning") {
		return log.WarnLevel
	}
	level, err := log.ParseLevel(s)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// GenerateID generates a new v4 [uuid.UUID] as a string
func GenerateID() string {
	return uuid.New().String()
}

// NormalizeQuery trims a search query, collapses inner whitespace and converts it to Unicode NFC.
//
// Decomposed input like "Akşam" and precomposed "Akşam" produce the same query.
func NormalizeQuery(q string) string {
	return norm.NFC.String(strings.Join(strings.Fields(q), " "))
}
