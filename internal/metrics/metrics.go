// Package metrics exposes Prometheus collectors for solve runs and dataset
// reloads.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/katalvlaran/teamsolver/solver"
)

// Outcome labels of teamsolver_solve_total.
const (
	OutcomeComplete      = "complete"
	OutcomeTimedOut      = "timed_out"
	OutcomeCancelled     = "cancelled"
	OutcomeUnsatisfiable = "unsatisfiable"
	OutcomeError         = "error"
)

// Reload labels of teamsolver_dataset_reloads_total.
const (
	ReloadOK     = "ok"
	ReloadFailed = "failed"
)

// Metrics groups the collectors. The zero value is not usable; call New.
type Metrics struct {
	solveDuration *prometheus.HistogramVec
	solveNodes    *prometheus.HistogramVec
	solveTotal    *prometheus.CounterVec
	reloads       *prometheus.CounterVec
}

// New registers the collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)

	return &Metrics{
		// Labels: variant
		solveDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "teamsolver",
			Subsystem: "solve",
			Name:      "duration_seconds",
			Help:      "Wall-clock time of one solve call in seconds",
			Buckets:   []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 20, 30, 60},
		}, []string{"variant"}),

		// Labels: variant
		solveNodes: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "teamsolver",
			Subsystem: "solve",
			Name:      "nodes",
			Help:      "Search nodes visited per solve call",
			Buckets:   prometheus.ExponentialBuckets(1, 10, 9),
		}, []string{"variant"}),

		// Labels: variant, outcome (complete, timed_out, cancelled, unsatisfiable, error)
		solveTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teamsolver",
			Subsystem: "solve",
			Name:      "total",
			Help:      "Solve calls by variant and outcome",
		}, []string{"variant", "outcome"}),

		// Labels: result (ok, failed)
		reloads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "teamsolver",
			Subsystem: "dataset",
			Name:      "reloads_total",
			Help:      "Dataset reload attempts by result",
		}, []string{"result"}),
	}
}

// ObserveSolve records one finished solve call.
func (m *Metrics) ObserveSolve(variant string, stats solver.Stats) {
	m.solveDuration.WithLabelValues(variant).Observe(stats.Elapsed.Seconds())
	m.solveNodes.WithLabelValues(variant).Observe(float64(stats.Nodes))
	m.solveTotal.WithLabelValues(variant, Outcome(stats)).Inc()
}

// ObserveSolveError counts a solve call rejected before the search ran.
func (m *Metrics) ObserveSolveError(variant string) {
	m.solveTotal.WithLabelValues(variant, OutcomeError).Inc()
}

// ObserveReload counts one reload attempt.
func (m *Metrics) ObserveReload(err error) {
	if err != nil {
		m.reloads.WithLabelValues(ReloadFailed).Inc()
		return
	}
	m.reloads.WithLabelValues(ReloadOK).Inc()
}

// Outcome classifies a finished search.
func Outcome(s solver.Stats) string {
	switch {
	case s.Unsatisfiable:
		return OutcomeUnsatisfiable
	case s.Cancelled:
		return OutcomeCancelled
	case s.TimedOut:
		return OutcomeTimedOut
	default:
		return OutcomeComplete
	}
}
