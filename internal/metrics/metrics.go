// Package metrics provides Prometheus metrics for the planning assistant.
// All recording methods are safe to call on a nil *Metrics.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	SuggestionsTotal   *prometheus.CounterVec
	SuggestionDuration *prometheus.HistogramVec
	ChangesApplied     *prometheus.CounterVec
	PlaceLookups       *prometheus.CounterVec
	LinkChecks         *prometheus.CounterVec

	registry *prometheus.Registry
}

// New creates and registers all metrics.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		SuggestionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_suggestions_total",
				Help: "Total number of suggestion requests by project type and status.",
			},
			[]string{"project_type", "status"},
		),
		SuggestionDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "assistant_suggestion_duration_seconds",
				Help:    "Suggestion pipeline duration by project type.",
				Buckets: []float64{0.5, 1, 2.5, 5, 10, 20, 40, 80},
			},
			[]string{"project_type"},
		),
		ChangesApplied: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_changes_applied_total",
				Help: "Total number of changes persisted by project type and kind.",
			},
			[]string{"project_type", "kind"},
		),
		PlaceLookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_place_lookups_total",
				Help: "Place resolutions by result (hit, lookup, miss, error).",
			},
			[]string{"result"},
		),
		LinkChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "assistant_link_checks_total",
				Help: "Link checks by result (ok, rejected, error).",
			},
			[]string{"result"},
		),
		registry: reg,
	}

	reg.MustRegister(m.SuggestionsTotal)
	reg.MustRegister(m.SuggestionDuration)
	reg.MustRegister(m.ChangesApplied)
	reg.MustRegister(m.PlaceLookups)
	reg.MustRegister(m.LinkChecks)

	return m
}

// Handler returns an http.Handler for the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordSuggestion counts one suggestion request and observes its duration.
func (m *Metrics) RecordSuggestion(projectType, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SuggestionsTotal.WithLabelValues(projectType, status).Inc()
	m.SuggestionDuration.WithLabelValues(projectType).Observe(elapsed.Seconds())
}

// RecordChangeApplied counts one persisted change.
func (m *Metrics) RecordChangeApplied(projectType, kind string) {
	if m == nil {
		return
	}
	m.ChangesApplied.WithLabelValues(projectType, kind).Inc()
}

// RecordPlaceLookup counts one place resolution.
func (m *Metrics) RecordPlaceLookup(result string) {
	if m == nil {
		return
	}
	m.PlaceLookups.WithLabelValues(result).Inc()
}

// RecordLinkCheck counts one link check.
func (m *Metrics) RecordLinkCheck(result string) {
	if m == nil {
		return
	}
	m.LinkChecks.WithLabelValues(result).Inc()
}
