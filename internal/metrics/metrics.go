// package metrics exposes Prometheus collectors for preview lookups and upstream calls
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "songfinder"

// Recorder owns a private registry so tests and multiple servers never collide on registration.
//
// A nil *Recorder is valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry
	lookups  *prometheus.CounterVec
	upstream *prometheus.HistogramVec
}

// New registers the lookup counter, the upstream latency histogram and the Go runtime collectors.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "lookups_total",
			Help:      "Preview lookups by outcome.",
		}, []string{"outcome"}),
		upstream: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of upstream GET requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint", "outcome"}),
	}

	r.registry.MustRegister(
		r.lookups,
		r.upstream,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// Lookup counts one finished lookup. Outcome is "success" or an error kind.
func (r *Recorder) Lookup(outcome string) {
	if r == nil {
		return
	}
	r.lookups.WithLabelValues(outcome).Inc()
}

// Upstream observes one upstream request against endpoint ("search" or "preview").
func (r *Recorder) Upstream(endpoint, outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.upstream.WithLabelValues(endpoint, outcome).Observe(d.Seconds())
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// Handler serves the exposition format for this recorder's registry.
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
