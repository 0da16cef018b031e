// Package telemetry holds the Prometheus instrumentation for the engine.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// MetricsRegistry holds all Prometheus metrics for the engine
type MetricsRegistry struct {
	// Evaluation metrics
	Evaluations prometheus.Counter
	Violations  *prometheus.CounterVec

	// Feasibility triage metrics
	FeasibilityChecks *prometheus.CounterVec

	// Optimizer metrics
	Optimizations     prometheus.Counter
	OptimizeDuration  prometheus.Histogram
	AdvisorDivergence prometheus.Counter

	// Rate menu fetch metrics
	MenuFetches *prometheus.CounterVec
}

// NewMetricsRegistry creates a new metrics registry with all engine metrics
func NewMetricsRegistry() *MetricsRegistry {
	return &MetricsRegistry{
		Evaluations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "mashkanta_evaluations_total",
				Help: "Total number of eligibility evaluations performed",
			},
		),

		Violations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mashkanta_violations_total",
				Help: "Total regulatory violations surfaced by violation code",
			},
			[]string{"code"},
		),

		FeasibilityChecks: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mashkanta_feasibility_checks_total",
				Help: "Total feasibility checks by outcome",
			},
			[]string{"outcome"},
		),

		Optimizations: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "mashkanta_optimizations_total",
				Help: "Total mix optimization runs",
			},
		),

		OptimizeDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "mashkanta_optimize_duration_seconds",
				Help:    "Duration of one optimization run in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
			},
		),

		AdvisorDivergence: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "mashkanta_advisor_divergence_total",
				Help: "Runs where the advisor pick differed from the engine pick",
			},
		),

		MenuFetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mashkanta_menu_fetches_total",
				Help: "Published rate menu fetch attempts by result",
			},
			[]string{"result"},
		),
	}
}

// Register registers all metrics with the given registry.
func (m *MetricsRegistry) Register(reg prometheus.Registerer) error {
	collectors := []prometheus.Collector{
		m.Evaluations,
		m.Violations,
		m.FeasibilityChecks,
		m.Optimizations,
		m.OptimizeDuration,
		m.AdvisorDivergence,
		m.MenuFetches,
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordEvaluation counts one evaluation and its violations.
func (m *MetricsRegistry) RecordEvaluation(violationCodes []string) {
	m.Evaluations.Inc()
	for _, code := range violationCodes {
		m.Violations.WithLabelValues(code).Inc()
	}
}

// RecordFeasibility counts one feasibility check.
func (m *MetricsRegistry) RecordFeasibility(feasible bool) {
	outcome := "feasible"
	if !feasible {
		outcome = "infeasible"
	}
	m.FeasibilityChecks.WithLabelValues(outcome).Inc()
}
