// Package metrics exposes Prometheus counters for board loading and rendering.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/JonMunkholm/statboard/internal/fetch"
)

const namespace = "statboard"

// Fetch result labels.
const (
	ResultOK       = "ok"
	ResultNotFound = "not_found"
	ResultTooLarge = "too_large"
	ResultBusy     = "busy"
	ResultError    = "error"
)

// Recorder owns a private registry so tests can create as many as they like.
type Recorder struct {
	registry *prometheus.Registry

	fetches       *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	views         *prometheus.CounterVec
}

// New builds a Recorder with Go runtime and process collectors registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fetch_total",
			Help:      "Data file fetches by result.",
		}, []string{"result"}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching data files.",
			Buckets:   prometheus.DefBuckets,
		}),
		views: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "views_total",
			Help:      "Rendered board views by preset and output format.",
		}, []string{"preset", "format"}),
	}

	r.registry.MustRegister(
		r.fetches,
		r.fetchDuration,
		r.views,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// ObserveFetch implements fetch.Observer.
func (r *Recorder) ObserveFetch(_ string, err error, elapsed time.Duration) {
	r.fetches.WithLabelValues(fetchResult(err)).Inc()
	r.fetchDuration.Observe(elapsed.Seconds())
}

// ObserveView counts one rendered view.
func (r *Recorder) ObserveView(preset, format string) {
	r.views.WithLabelValues(preset, format).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func fetchResult(err error) string {
	if err == nil {
		return ResultOK
	}

	var fe *fetch.Error
	switch {
	case errors.As(err, &fe) && fe.NotFound():
		return ResultNotFound
	case errors.Is(err, fetch.ErrBodyTooLarge):
		return ResultTooLarge
	case errors.Is(err, fetch.ErrTooManyFetches):
		return ResultBusy
	default:
		return ResultError
	}
}

var _ fetch.Observer = (*Recorder)(nil)
