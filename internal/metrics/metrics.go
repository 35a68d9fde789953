// Package metrics holds the prometheus instrumentation for the overlay engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the engine's collectors. A nil *Metrics is valid and
// records nothing, so instrumentation stays optional for embedders.
type Metrics struct {
	ResolveDuration *prometheus.HistogramVec
	ResolveFailures *prometheus.CounterVec
	RenderPasses    prometheus.Counter
	MarkersDrawn    prometheus.Gauge
}

// New creates the collectors and registers them on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ResolveDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "planpin_status_resolve_duration_seconds",
				Help:    "Latency of individual entity status lookups.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"entity_type"},
		),
		ResolveFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "planpin_status_resolve_failures_total",
				Help: "Status lookups that failed and dropped their pin for the pass.",
			},
			[]string{"entity_type"},
		),
		RenderPasses: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "planpin_render_passes_total",
				Help: "Full destroy-and-recreate marker passes.",
			},
		),
		MarkersDrawn: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "planpin_markers_drawn",
				Help: "Markers on the surface after the latest pass.",
			},
		),
	}
	reg.MustRegister(m.ResolveDuration, m.ResolveFailures, m.RenderPasses, m.MarkersDrawn)
	return m
}

// ObserveResolve records one lookup's latency.
func (m *Metrics) ObserveResolve(entityType string, seconds float64) {
	if m == nil {
		return
	}
	m.ResolveDuration.WithLabelValues(entityType).Observe(seconds)
}

// CountResolveFailure records one dropped lookup.
func (m *Metrics) CountResolveFailure(entityType string) {
	if m == nil {
		return
	}
	m.ResolveFailures.WithLabelValues(entityType).Inc()
}

// CountRenderPass records one full marker pass and the resulting marker count.
func (m *Metrics) CountRenderPass(markers int) {
	if m == nil {
		return
	}
	m.RenderPasses.Inc()
	m.MarkersDrawn.Set(float64(markers))
}
