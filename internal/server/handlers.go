package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/desertthunder/songfinder/internal/metrics"
	"github.com/desertthunder/songfinder/internal/models"
	"github.com/desertthunder/songfinder/internal/shared"
	"github.com/desertthunder/songfinder/internal/tasks"
)

// ErrorResponse is the JSON body of every failed request.
type ErrorResponse struct {
	StatusCode   int    `json:"statusCode"`
	ErrorMessage string `json:"errorMessage"`
}

// WriteError writes an [ErrorResponse]. Statuses outside 400-599 are sent as 500.
func WriteError(w http.ResponseWriter, status int, message string) {
	if status < 400 || status > 599 || http.StatusText(status) == "" {
		status = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{StatusCode: status, ErrorMessage: message})
}

// SongFinderHandler serves GET /rest/songfinder?songname=<q>&token=<t> with the preview audio.
type SongFinderHandler struct {
	engine  tasks.Engine
	metrics *metrics.Recorder
	logger  *log.Logger
}

// NewSongFinderHandler creates the lookup handler.
func NewSongFinderHandler(engine tasks.Engine, m *metrics.Recorder, logger *log.Logger) *SongFinderHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &SongFinderHandler{engine: engine, metrics: m, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *SongFinderHandler) Routes() []string {
	return []string{"/rest/songfinder"}
}

// ServeHTTP validates the token, then the song name, and streams the preview as audio/mpeg.
func (h *SongFinderHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	token := q.Get("token")
	songname := q.Get("songname")

	if token == "" {
		h.metrics.Lookup(string(shared.KindClient))
		WriteError(w, http.StatusBadRequest, "token cannot be empty")
		return
	}
	if strings.TrimSpace(songname) == "" {
		h.metrics.Lookup(string(shared.KindClient))
		WriteError(w, http.StatusBadRequest, "songname cannot be empty")
		return
	}
	if h.engine == nil {
		WriteError(w, http.StatusServiceUnavailable, "lookup engine is not configured")
		return
	}

	res := h.engine.Lookup(r.Context(), nil, songname, token, models.SourceHTTP)
	if !res.OK() {
		ce := shared.AsClassified(res.Err)
		h.logger.Warn("lookup failed", "query", res.Query, "kind", ce.Kind, "status", ce.Status, "request_id", RequestIDFrom(r.Context()))
		WriteError(w, ce.HTTPStatus(), ce.Message)
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Audio)))
	w.Header().Set("Accept-Ranges", "bytes")
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(res.Audio); err != nil {
		h.logger.Error("failed to write audio", "error", err)
	}
}

// HealthHandler serves GET /health.
type HealthHandler struct{}

// NewHealthHandler creates the health handler.
func NewHealthHandler() *HealthHandler { return &HealthHandler{} }

// Routes returns the HTTP routes this handler serves.
func (h *HealthHandler) Routes() []string {
	return []string{"/health"}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
