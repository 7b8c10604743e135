// Package metrics exposes Prometheus collectors for the HTTP surface and the
// recommendation engine. All Observe methods are safe on a nil *Metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	RecommendationsTotal  *prometheus.CounterVec
	SceneTransitionsTotal *prometheus.CounterVec
	FallbackDuration      prometheus.Histogram
	FallbackErrorsTotal   prometheus.Counter
	ProfileLoadsTotal     *prometheus.CounterVec
}

// New registers all collectors on a private registry.
func New(namespace string) *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		RecommendationsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "recommendations_total",
				Help:      "Completed recommendations by source (keyword, scene, llm)",
			},
			[]string{"source"},
		),
		SceneTransitionsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "scene_transitions_total",
				Help:      "Scene state machine transitions by event",
			},
			[]string{"event"},
		),
		FallbackDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "llm_fallback_duration_seconds",
				Help:      "Latency of the LLM fallback call",
				Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
			},
		),
		FallbackErrorsTotal: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "llm_fallback_errors_total",
				Help:      "Failed LLM fallback calls",
			},
		),
		ProfileLoadsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "profile_loads_total",
				Help:      "Profile loads by status (loaded, defaulted)",
			},
			[]string{"status"},
		),
	}
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveHTTP(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

func (m *Metrics) ObserveRecommendation(source string) {
	if m == nil {
		return
	}
	m.RecommendationsTotal.WithLabelValues(source).Inc()
}

func (m *Metrics) ObserveScene(event string) {
	if m == nil {
		return
	}
	m.SceneTransitionsTotal.WithLabelValues(event).Inc()
}

func (m *Metrics) ObserveFallback(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.FallbackDuration.Observe(d.Seconds())
	if err != nil {
		m.FallbackErrorsTotal.Inc()
	}
}

func (m *Metrics) ObserveProfileLoad(status string) {
	if m == nil {
		return
	}
	m.ProfileLoadsTotal.WithLabelValues(status).Inc()
}
