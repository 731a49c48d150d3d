package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync/atomic"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/desertthunder/songfinder/internal/metrics"
	"github.com/desertthunder/songfinder/internal/services"
	"github.com/desertthunder/songfinder/internal/shared"
	"github.com/desertthunder/songfinder/internal/tasks"
	tu "github.com/desertthunder/songfinder/internal/testing"
)

var previewAudio = bytes.Repeat([]byte{0xff, 0xf3, 0x44, 0xc4}, 2500)

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

// upstream fakes the search endpoint and the preview CDN on one server.
type upstream struct {
	srv          *httptest.Server
	searchStatus int
	searchBody   string
	searchCalls  atomic.Int32
	previewCalls atomic.Int32
}

func newUpstream(t *testing.T) *upstream {
	t.Helper()
	u := &upstream{searchStatus: http.StatusOK}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/search", func(w http.ResponseWriter, r *http.Request) {
		u.searchCalls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(u.searchStatus)
		body := u.searchBody
		if body == "" {
			body = `{"tracks":{"items":[{"preview_url":"` + u.srv.URL + `/mp3-preview/abc"}]}}`
		}
		io.WriteString(w, body)
	})
	mux.HandleFunc("/mp3-preview/abc", func(w http.ResponseWriter, r *http.Request) {
		u.previewCalls.Add(1)
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write(previewAudio)
	})
	u.srv = tu.NewServer(t, mux.ServeHTTP)
	return u
}

func newTestRouter(t *testing.T, up *upstream, cfg shared.ServerConfig) (*BasicRouter, *metrics.Recorder) {
	t.Helper()
	rec := metrics.New()
	search := services.NewSpotifyService(
		services.WithSearchURL(up.srv.URL+"/v1/search"),
		services.WithSpotifyLogger(quietLogger()),
		services.WithSpotifyMetrics(rec),
	)
	preview := services.NewPreviewService(nil, quietLogger(), rec)
	engine := tasks.NewLookupEngine(search, preview, nil, rec, quietLogger())

	return NewRouter(Options{Config: cfg, Engine: engine, Metrics: rec, Logger: quietLogger()}), rec
}

func lookupURL(songname, token string) string {
	v := url.Values{}
	v.Set("songname", songname)
	v.Set("token", token)
	return "/rest/songfinder?" + v.Encode()
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, rec.Code, body.StatusCode)
	return body
}

func TestSongFinderHandler(t *testing.T) {
	t.Run("Returns Preview Audio", func(t *testing.T) {
		up := newUpstream(t)
		router, _ := newTestRouter(t, up, shared.ServerConfig{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, lookupURL("Bodrum Akşamları", "T"), nil))

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, "audio/mpeg", rec.Header().Get("Content-Type"))
		assert.Equal(t, strconv.Itoa(len(previewAudio)), rec.Header().Get("Content-Length"))
		assert.Equal(t, "bytes", rec.Header().Get("Accept-Ranges"))
		assert.Equal(t, previewAudio, rec.Body.Bytes())
		assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
		assert.EqualValues(t, 1, up.searchCalls.Load())
		assert.EqualValues(t, 1, up.previewCalls.Load())
	})

	t.Run("Validation", func(t *testing.T) {
		tc := []struct {
			name     string
			target   string
			expected string
		}{
			{name: "Missing Token", target: "/rest/songfinder?songname=x", expected: "token cannot be empty"},
			{name: "Token Checked First", target: "/rest/songfinder", expected: "token cannot be empty"},
			{name: "Missing Songname", target: "/rest/songfinder?token=T", expected: "songname cannot be empty"},
			{name: "Blank Songname", target: lookupURL("   ", "T"), expected: "songname cannot be empty"},
		}

		for _, tt := range tc {
			t.Run(tt.name, func(t *testing.T) {
				up := newUpstream(t)
				router, _ := newTestRouter(t, up, shared.ServerConfig{})

				rec := httptest.NewRecorder()
				router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

				assert.Equal(t, http.StatusBadRequest, rec.Code)
				assert.Equal(t, tt.expected, decodeError(t, rec).ErrorMessage)
				assert.Zero(t, up.searchCalls.Load())
			})
		}
	})

	t.Run("Upstream Unauthorized", func(t *testing.T) {
		up := newUpstream(t)
		up.searchStatus = http.StatusUnauthorized
		up.searchBody = `{"error":{"status":401,"message":"The access token expired"}}`
		router, _ := newTestRouter(t, up, shared.ServerConfig{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, lookupURL("song", "expired"), nil))

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "unauthorized, credential should be renewed", decodeError(t, rec).ErrorMessage)
		assert.Zero(t, up.previewCalls.Load())
	})

	t.Run("No Results", func(t *testing.T) {
		up := newUpstream(t)
		up.searchBody = `{"tracks":{"items":[]}}`
		router, _ := newTestRouter(t, up, shared.ServerConfig{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, lookupURL("zzzz", "T"), nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, decodeError(t, rec).ErrorMessage, "index 0")
	})

	t.Run("Non-String Preview", func(t *testing.T) {
		up := newUpstream(t)
		up.searchBody = `{"tracks":{"items":[{"preview_url":7}]}}`
		router, _ := newTestRouter(t, up, shared.ServerConfig{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, lookupURL("song", "T"), nil))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "resulting field is not a string", decodeError(t, rec).ErrorMessage)
	})

	t.Run("Unreachable Upstream", func(t *testing.T) {
		search := services.NewSpotifyService(services.WithSearchURL(tu.UnreachableURL(t)), services.WithSpotifyLogger(quietLogger()))
		engine := tasks.NewLookupEngine(search, services.NewPreviewService(nil, quietLogger(), nil), nil, nil, quietLogger())
		router := NewRouter(Options{Engine: engine, Logger: quietLogger()})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, lookupURL("song", "T"), nil))

		assert.Equal(t, http.StatusBadGateway, rec.Code)
		assert.NotEmpty(t, decodeError(t, rec).ErrorMessage)
	})

	t.Run("Method Not Allowed", func(t *testing.T) {
		router, _ := newTestRouter(t, newUpstream(t), shared.ServerConfig{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, lookupURL("song", "T"), nil))

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, "GET, HEAD", rec.Header().Get("Allow"))
		decodeError(t, rec)
	})

	t.Run("Missing Engine", func(t *testing.T) {
		router := NewRouter(Options{Logger: quietLogger()})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, lookupURL("song", "T"), nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestWriteError(t *testing.T) {
	for _, status := range []int{0, 200, 302, 600, 999} {
		rec := httptest.NewRecorder()
		WriteError(rec, status, "bad")
		assert.Equal(t, http.StatusInternalServerError, rec.Code, "status %d", status)
	}

	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusNotFound, "endpoint not found: http://x")
	assert.JSONEq(t, `{"statusCode":404,"errorMessage":"endpoint not found: http://x"}`, rec.Body.String())
}

func TestOperationalEndpoints(t *testing.T) {
	up := newUpstream(t)
	router, _ := newTestRouter(t, up, shared.ServerConfig{})

	t.Run("Health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	})

	t.Run("Metrics", func(t *testing.T) {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, lookupURL("song", "T"), nil))
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/rest/songfinder", nil))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, `songfinder_lookups_total{outcome="success"} 1`)
		assert.Contains(t, body, `songfinder_lookups_total{outcome="client"} 1`)
		assert.Contains(t, body, `songfinder_upstream_request_duration_seconds_count{endpoint="search",outcome="success"} 1`)
		assert.Contains(t, body, `songfinder_upstream_request_duration_seconds_count{endpoint="preview",outcome="success"} 1`)
	})
}

func TestMiddleware(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, RequestIDFrom(r.Context()))
	})

	t.Run("RequestID", func(t *testing.T) {
		t.Run("Generated", func(t *testing.T) {
			rec := httptest.NewRecorder()
			RequestID()(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

			id := rec.Header().Get(RequestIDHeader)
			assert.Len(t, id, 36)
			assert.Equal(t, id, rec.Body.String())
		})

		t.Run("Propagated", func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(RequestIDHeader, "abc-123")
			rec := httptest.NewRecorder()
			RequestID()(ok).ServeHTTP(rec, req)

			assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))
			assert.Equal(t, "abc-123", rec.Body.String())
		})
	})

	t.Run("RateLimit", func(t *testing.T) {
		h := RateLimit(0.001, 2)(ok)

		codes := []int{}
		for range 3 {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			codes = append(codes, rec.Code)
		}
		assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	})

	t.Run("RateLimit Disabled", func(t *testing.T) {
		h := RateLimit(0, 0)(ok)
		for range 50 {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})

	t.Run("Recover", func(t *testing.T) {
		boom := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { panic("boom") })
		rec := httptest.NewRecorder()

		assert.NotPanics(t, func() {
			Recover(quietLogger())(boom).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("Logging Omits Query", func(t *testing.T) {
		var buf bytes.Buffer
		logger := log.New(&buf)

		rec := httptest.NewRecorder()
		Logging(logger)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/rest/songfinder?token=secret", nil))

		assert.Contains(t, buf.String(), "/rest/songfinder")
		assert.NotContains(t, buf.String(), "secret")
	})

	t.Run("Order", func(t *testing.T) {
		var order []string
		mw := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		r := NewBasicRouter()
		r.Use(mw("first"), mw("second"))
		r.Handle(http.MethodGet, "/", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, []string{"first", "second"}, order)
	})
}

func TestServe(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := &http.Server{Handler: NewRouter(Options{Logger: quietLogger()})}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, srv, ln, quietLogger()) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "server did not shut down")
	}
}
