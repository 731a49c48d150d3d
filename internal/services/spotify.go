// Spotify catalog search implementation of [CatalogSearcher]
//
// Search endpoint reference: https://developer.spotify.com/documentation/web-api/reference/search
package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-resty/resty/v2"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/desertthunder/songfinder/internal/jsonq"
	"github.com/desertthunder/songfinder/internal/metrics"
	"github.com/desertthunder/songfinder/internal/rest"
	"github.com/desertthunder/songfinder/internal/shared"
)

const (
	spotifyTokenURL  = "https://accounts.spotify.com/api/token"
	spotifySearchURL = "https://api.spotify.com/v1/search"
	defaultMarket    = "TR"
)

// previewPath locates the preview URL of the first track in a search response.
var previewPath = []jsonq.Step{
	jsonq.Key("tracks"),
	jsonq.ArrayKey("items"),
	jsonq.Index(0),
	jsonq.FieldKey("preview_url"),
}

// SpotifyService resolves song names to preview URLs through the Spotify search endpoint.
type SpotifyService struct {
	searchURL string
	market    string
	client    *resty.Client
	logger    *log.Logger
	metrics   *metrics.Recorder
}

// SpotifyOption configures a [SpotifyService].
type SpotifyOption func(*SpotifyService)

// WithSearchURL overrides the search endpoint.
func WithSearchURL(u string) SpotifyOption {
	return func(s *SpotifyService) {
		if u != "" {
			s.searchURL = u
		}
	}
}

// WithMarket overrides the market sent with every search.
func WithMarket(m string) SpotifyOption {
	return func(s *SpotifyService) {
		if m != "" {
			s.market = m
		}
	}
}

// WithSpotifyClient sets the shared transport.
func WithSpotifyClient(c *resty.Client) SpotifyOption {
	return func(s *SpotifyService) {
		s.client = c
	}
}

// WithSpotifyLogger sets the logger.
func WithSpotifyLogger(l *log.Logger) SpotifyOption {
	return func(s *SpotifyService) {
		s.logger = l
	}
}

// WithSpotifyMetrics records upstream latency on m.
func WithSpotifyMetrics(m *metrics.Recorder) SpotifyOption {
	return func(s *SpotifyService) {
		s.metrics = m
	}
}

// NewSpotifyService creates a search client. Without options it targets the public endpoint and the TR market.
func NewSpotifyService(opts ...SpotifyOption) *SpotifyService {
	s := &SpotifyService{searchURL: spotifySearchURL, market: defaultMarket}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	return s
}

// NewSpotifyServiceFromConfig wires a search client from the [spotify] and [http] config sections.
func NewSpotifyServiceFromConfig(cfg *shared.Config, client *resty.Client, logger *log.Logger, m *metrics.Recorder) *SpotifyService {
	return NewSpotifyService(
		WithSearchURL(cfg.Spotify.SearchURL),
		WithMarket(cfg.Spotify.Market),
		WithSpotifyClient(client),
		WithSpotifyLogger(logger),
		WithSpotifyMetrics(m),
	)
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Market returns the market sent with every search.
func (s *SpotifyService) Market() string { return s.market }

// ResolvePreviewURL searches for query and returns the preview URL of the best-matching track.
//
// Only non-emptiness of token is checked; its validity is left to the upstream, which answers 401.
// Failures are [*shared.ClassifiedError] values:
//   - client: empty query or token, no request is sent
//   - upstream_http / transport: forwarded from the search request unchanged
//   - parse: the response does not contain tracks.items[0].preview_url as a primitive (null included)
//   - contract_violation: preview_url is a number or boolean
func (s *SpotifyService) ResolvePreviewURL(ctx context.Context, query, token string) (string, error) {
	query = shared.NormalizeQuery(query)
	if query == "" {
		return "", shared.NewClientError("songname cannot be empty")
	}
	if token == "" {
		return "", shared.NewClientError("token cannot be empty")
	}

	bearer := &oauth2.Token{AccessToken: token, TokenType: "Bearer"}
	logger := shared.WithLogger(s.logger, "service", "spotify", "query", query)

	req := rest.New(s.searchURL, rest.WithClient(s.client), rest.WithLogger(logger)).
		WithHeader("Accept", "application/json").
		WithHeader("Authorization", bearer.Type()+" "+bearer.AccessToken).
		WithQueryParam("q", query).
		WithQueryParam("type", "track").
		WithQueryParam("market", s.market).
		WithQueryParam("limit", "1").
		WithQueryParam("offset", "0")

	resp := req.Get(ctx)
	s.metrics.Upstream("search", resp.Outcome().String(), resp.Duration())
	if !resp.IsSuccess() {
		return "", resp.Err()
	}

	nav := jsonq.Parse(resp.TextBody()).Walk(previewPath...)
	if !nav.OK() {
		logger.Warn("search response has no preview", "url", resp.Target(), "path", jsonq.Path(previewPath...), "error", nav.ErrorMessage())
		return "", shared.NewParseError(nav.ErrorMessage())
	}

	previewURL, ok := nav.AsString()
	if !ok {
		logger.Warn("preview_url is not a string", "url", resp.Target(), "value", nav.Value().Raw)
		return "", shared.NewContractError("resulting field is not a string")
	}

	logger.Debug("resolved preview", "url", previewURL)
	return previewURL, nil
}

// ClientCredentialsToken obtains an app access token with the client-credentials flow.
//
// The [credentials.spotify] section must carry client_id and client_secret. hc, when set, is used for the token request.
func ClientCredentialsToken(ctx context.Context, creds shared.SpotifyCredentials, hc *http.Client) (*oauth2.Token, error) {
	if creds.ClientID == "" || creds.ClientSecret == "" {
		return nil, fmt.Errorf("%w: spotify client_id and client_secret", shared.ErrMissingCredentials)
	}

	tokenURL := creds.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyTokenURL
	}

	cfg := &clientcredentials.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		TokenURL:     tokenURL,
		AuthStyle:    oauth2.AuthStyleInHeader,
	}

	if hc != nil {
		ctx = context.WithValue(ctx, oauth2.HTTPClient, hc)
	}

	token, err := cfg.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to obtain token: %w", shared.ErrAPIRequest, err)
	}
	return token, nil
}
