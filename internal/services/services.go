// package services defines the upstream clients used to resolve and download song previews
//
// Spotify search, preview CDN
package services

import (
	"context"
)

// CatalogSearcher resolves a song name to a preview URL.
type CatalogSearcher interface {
	// ResolvePreviewURL returns the preview URL of the best match for query.
	// token is an access token sent as a bearer credential.
	ResolvePreviewURL(ctx context.Context, query, token string) (string, error)

	// Name returns the name of the catalog (e.g., "Spotify")
	Name() string
}

// PreviewFetcher downloads preview audio.
type PreviewFetcher interface {
	// FetchPreviewAudio returns the raw bytes served at previewURL.
	FetchPreviewAudio(ctx context.Context, previewURL string) ([]byte, error)
}

var (
	_ CatalogSearcher = (*SpotifyService)(nil)
	_ PreviewFetcher  = (*PreviewService)(nil)
)
