// Package metrics exposes Prometheus metrics for the inspector server.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	TranslationsTotal   *prometheus.CounterVec
	TranslationDuration *prometheus.HistogramVec
	TranslationWarnings *prometheus.CounterVec

	ModelObjects    *prometheus.GaugeVec
	ObjectsRemoved  prometheus.Counter
	FieldEditsTotal *prometheus.CounterVec

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

func NewRegistry() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}
	auto := promauto.With(r.registry)

	r.HTTPRequestsTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idf_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)
	r.HTTPRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "idf_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	r.TranslationsTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idf_translations_total",
			Help: "Total number of translations by direction",
		},
		[]string{"direction"},
	)
	r.TranslationDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "idf_translation_duration_seconds",
			Help:    "Translation duration in seconds",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"direction"},
	)
	r.TranslationWarnings = auto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idf_translation_warnings_total",
			Help: "Total number of translation warnings by direction",
		},
		[]string{"direction"},
	)

	r.ModelObjects = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "idf_model_objects",
			Help: "Objects in the loaded model by type",
		},
		[]string{"type"},
	)
	r.ObjectsRemoved = auto.NewCounter(
		prometheus.CounterOpts{
			Name: "idf_model_objects_removed_total",
			Help: "Total number of objects removed from the loaded model, cascades included",
		},
	)
	r.FieldEditsTotal = auto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "idf_field_edits_total",
			Help: "Total number of field edits by outcome",
		},
		[]string{"op", "status"},
	)

	return r
}

func (r *Registry) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordTranslation records one translation pass, "forward" or "reverse".
func (r *Registry) RecordTranslation(direction string, duration time.Duration, warnings int) {
	r.TranslationsTotal.WithLabelValues(direction).Inc()
	r.TranslationDuration.WithLabelValues(direction).Observe(duration.Seconds())
	r.TranslationWarnings.WithLabelValues(direction).Add(float64(warnings))
}

func (r *Registry) RecordFieldEdit(op string, ok bool) {
	status := "ok"
	if !ok {
		status = "rejected"
	}
	r.FieldEditsTotal.WithLabelValues(op, status).Inc()
}

// SetModelObjects replaces the per type object counts.
func (r *Registry) SetModelObjects(counts map[string]int) {
	r.ModelObjects.Reset()
	for typ, n := range counts {
		r.ModelObjects.WithLabelValues(typ).Set(float64(n))
	}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
