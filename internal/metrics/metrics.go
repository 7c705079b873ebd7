// Package metrics exposes Prometheus instrumentation for the analysis pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "ats_scorer"

// Outcome labels for analyses_total.
const (
	OutcomeSuccess       = "success"
	OutcomeInvalidInput  = "invalid_input"
	OutcomeExtractFailed = "extraction_failed"
	OutcomeError         = "error"
)

// Metrics holds the collectors of one service instance on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	analyses    *prometheus.CounterVec
	suggestions *prometheus.CounterVec
	score       prometheus.Histogram
	extraction  *prometheus.HistogramVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "analyses_total",
			Help:      "Résumé analyses by outcome.",
		}, []string{"outcome"}),
		suggestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "suggestions_total",
			Help:      "Suggestion sets by source (ai or fallback).",
		}, []string{"source"}),
		score: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ats_score",
			Help:      "Distribution of computed ATS scores.",
			Buckets:   prometheus.LinearBuckets(10, 10, 10),
		}),
		extraction: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "extraction_duration_seconds",
			Help:      "Time spent extracting text from documents.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"kind"}),
	}

	m.registry.MustRegister(
		m.analyses,
		m.suggestions,
		m.score,
		m.extraction,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveAnalysis counts a finished analysis.
func (m *Metrics) ObserveAnalysis(outcome string) {
	m.analyses.WithLabelValues(outcome).Inc()
}

// ObserveScore records a computed ATS score.
func (m *Metrics) ObserveScore(score int) {
	m.score.Observe(float64(score))
}

// ObserveSuggestions counts a suggestion set by its source.
func (m *Metrics) ObserveSuggestions(source string) {
	m.suggestions.WithLabelValues(source).Inc()
}

// ObserveExtraction records how long extracting a document took.
func (m *Metrics) ObserveExtraction(kind string, d time.Duration) {
	m.extraction.WithLabelValues(kind).Observe(d.Seconds())
}
