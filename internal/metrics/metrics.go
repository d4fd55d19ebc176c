// Package metrics provides Prometheus instrumentation for the engine.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for split computation and review flows.
type Metrics struct {
	// Splits computed by mode
	SplitsComputed *prometheus.CounterVec

	// Reconciliation verdicts by outcome
	ReconcileOutcome *prometheus.CounterVec

	// Receipt review decisions by action
	ReviewDecision *prometheus.CounterVec

	// Split computation latency
	ComputeLatency prometheus.Histogram
}

// New creates a Metrics instance registered against the given registerer.
// Tests pass a fresh registry to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SplitsComputed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tabsplit_splits_computed_total",
			Help: "Total splits computed by mode",
		}, []string{"mode"}),

		ReconcileOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tabsplit_reconcile_outcomes_total",
			Help: "Total reconciliation verdicts by outcome",
		}, []string{"outcome"}), // outcome: "matched", "mismatched"

		ReviewDecision: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tabsplit_review_decisions_total",
			Help: "Total receipt review decisions by action",
		}, []string{"action"}), // action: "finalize", "accept_anyway", "correct", "reject"

		ComputeLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tabsplit_compute_duration_seconds",
			Help:    "Duration of split computation including reconciliation",
			Buckets: []float64{0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025, 0.05, 0.1},
		}),
	}
}

// IncrementSplit records a computed split.
func (m *Metrics) IncrementSplit(mode string) {
	if m != nil {
		m.SplitsComputed.WithLabelValues(mode).Inc()
	}
}

// IncrementOutcome records a reconciliation verdict.
func (m *Metrics) IncrementOutcome(outcome string) {
	if m != nil {
		m.ReconcileOutcome.WithLabelValues(outcome).Inc()
	}
}

// IncrementReview records a receipt review decision.
func (m *Metrics) IncrementReview(action string) {
	if m != nil {
		m.ReviewDecision.WithLabelValues(action).Inc()
	}
}

// ObserveComputeLatency records the duration of a split computation.
func (m *Metrics) ObserveComputeLatency(d time.Duration) {
	if m != nil {
		m.ComputeLatency.Observe(d.Seconds())
	}
}
