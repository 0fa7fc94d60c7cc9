package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RunsTotal counts engine runs by outcome
	RunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plagiarism_runs_total",
			Help: "Total number of plagiarism runs",
		},
		[]string{"status"},
	)

	// RunDuration measures a whole run from loading to stored report
	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "plagiarism_run_duration_seconds",
			Help:    "Plagiarism run duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.01, 2, 14),
		},
	)

	// ComparisonsTotal counts owner pairs compared, by sweep
	ComparisonsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plagiarism_comparisons_total",
			Help: "Total number of owner pairs compared",
		},
		[]string{"sweep"},
	)

	// ResultsTotal counts owner pairs with at least one matching fragment, by sweep
	ResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plagiarism_results_total",
			Help: "Total number of owner pairs reported as overlapping",
		},
		[]string{"sweep"},
	)

	// SubmissionsTotal counts ingested submissions by outcome
	SubmissionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "plagiarism_submissions_total",
			Help: "Total number of ingested submissions",
		},
		[]string{"status"},
	)

	once sync.Once
)

// Sweep labels
const (
	SweepUntrusted = "untrusted"
	SweepTrusted   = "trusted"
)

// InitPrometheus registers the collectors with the default registry; safe to call more than once
func InitPrometheus() {
	once.Do(func() {
		prometheus.MustRegister(RunsTotal)
		prometheus.MustRegister(RunDuration)
		prometheus.MustRegister(ComparisonsTotal)
		prometheus.MustRegister(ResultsTotal)
		prometheus.MustRegister(SubmissionsTotal)
	})
}

// ObserveSweep records the size and yield of one sweep
func ObserveSweep(sweep string, pairs, results int) {
	ComparisonsTotal.WithLabelValues(sweep).Add(float64(pairs))
	ResultsTotal.WithLabelValues(sweep).Add(float64(results))
}
