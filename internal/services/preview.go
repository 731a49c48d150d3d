package services

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"

	"github.com/desertthunder/songfinder/internal/metrics"
	"github.com/desertthunder/songfinder/internal/rest"
	"github.com/desertthunder/songfinder/internal/shared"
)

// PreviewService downloads preview audio. Preview URLs are pre-signed, so no credential is sent.
type PreviewService struct {
	client  *resty.Client
	logger  *log.Logger
	metrics *metrics.Recorder
}

// NewPreviewService creates a downloader using client, which may be nil.
func NewPreviewService(client *resty.Client, logger *log.Logger, m *metrics.Recorder) *PreviewService {
	if logger == nil {
		logger = log.Default()
	}
	return &PreviewService{client: client, logger: logger, metrics: m}
}

// FetchPreviewAudio downloads the raw bytes at previewURL.
//
// An empty URL is a client error and sends nothing. Transport and HTTP failures are returned as
// classified by [rest.Response.Err].
func (p *PreviewService) FetchPreviewAudio(ctx context.Context, previewURL string) ([]byte, error) {
	if previewURL == "" {
		return nil, shared.NewClientError("preview url cannot be empty")
	}

	logger := shared.WithLogger(p.logger, "service", "preview")
	resp := rest.New(previewURL, rest.WithClient(p.client), rest.WithLogger(logger)).
		WithHeader("Accept", "*/*").
		Get(ctx)

	p.metrics.Upstream("preview", resp.Outcome().String(), resp.Duration())
	if !resp.IsSuccess() {
		return nil, resp.Err()
	}

	audio := resp.RawBody()
	logger.Debug("downloaded preview", "url", resp.Target(), "bytes", len(audio))
	return audio, nil
}
