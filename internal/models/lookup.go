package models

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/desertthunder/songfinder/internal/shared"
)

// Lookup records one attempt to resolve and download a song preview.
type Lookup struct {
	id           string
	sequence     int
	query        string
	previewURL   string
	status       int
	errorKind    string
	errorMessage string
	audioBytes   int
	source       Source
	createdAt    time.Time
}

var _ Model = (*Lookup)(nil)

// NewLookup starts a pending lookup for query. Status stays zero until [Lookup.Succeed] or [Lookup.Fail].
func NewLookup(query string, source Source) *Lookup {
	return &Lookup{
		query:     query,
		source:    source,
		createdAt: time.Now().UTC(),
	}
}

// RestoreLookup rebuilds a stored lookup. Used by repositories when scanning rows.
func RestoreLookup(
	id string,
	sequence int,
	query, previewURL string,
	status int,
	errorKind, errorMessage string,
	audioBytes int,
	source Source,
	createdAt time.Time,
) *Lookup {
	return &Lookup{
		id:           id,
		sequence:     sequence,
		query:        query,
		previewURL:   previewURL,
		status:       status,
		errorKind:    errorKind,
		errorMessage: errorMessage,
		audioBytes:   audioBytes,
		source:       source,
		createdAt:    createdAt,
	}
}

func (l *Lookup) ID() string           { return l.id }
func (l *Lookup) Sequence() int        { return l.sequence }
func (l *Lookup) Query() string        { return l.query }
func (l *Lookup) PreviewURL() string   { return l.previewURL }
func (l *Lookup) Status() int          { return l.status }
func (l *Lookup) ErrorKind() string    { return l.errorKind }
func (l *Lookup) ErrorMessage() string { return l.errorMessage }
func (l *Lookup) AudioBytes() int      { return l.audioBytes }
func (l *Lookup) Source() Source       { return l.source }
func (l *Lookup) CreatedAt() time.Time { return l.createdAt }

func (l *Lookup) SetID(id string)        { l.id = id }
func (l *Lookup) SetSequence(s int)      { l.sequence = s }
func (l *Lookup) SetPreviewURL(u string) { l.previewURL = u }

// Succeed marks the lookup resolved. audioBytes is zero when only the URL was resolved.
func (l *Lookup) Succeed(previewURL string, audioBytes int) {
	l.previewURL = previewURL
	l.audioBytes = audioBytes
	l.status = http.StatusOK
	l.errorKind = ""
	l.errorMessage = ""
}

// Fail records err. Unclassified errors are stored as internal errors.
func (l *Lookup) Fail(err error) {
	ce := shared.AsClassified(err)
	if ce == nil {
		return
	}
	l.status = ce.HTTPStatus()
	l.errorKind = string(ce.Kind)
	l.errorMessage = ce.Message
}

// OK reports whether the lookup succeeded.
func (l *Lookup) OK() bool { return l.status == http.StatusOK && l.errorKind == "" }

// Outcome returns "success" or the error kind. Used as the metrics label.
func (l *Lookup) Outcome() string {
	switch {
	case l.OK():
		return "success"
	case l.errorKind != "":
		return l.errorKind
	default:
		return "pending"
	}
}

// Validate checks that the lookup can be stored.
func (l *Lookup) Validate() error {
	if strings.TrimSpace(l.query) == "" {
		return fmt.Errorf("%w: lookup query is required", shared.ErrInvalidInput)
	}
	if l.status == 0 {
		return fmt.Errorf("%w: lookup has not finished", shared.ErrInvalidInput)
	}
	switch l.source {
	case SourceHTTP, SourceCLI:
	default:
		return fmt.Errorf("%w: unknown lookup source %q", shared.ErrInvalidInput, l.source)
	}
	return nil
}
