// Package telemetry holds the counters recorded during an analysis run.
package telemetry

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// File error reasons
const (
	ReasonRead      = "read"
	ReasonTooLarge  = "too_large"
	ReasonParse     = "parse"
	ReasonStructure = "structure"
)

// Metrics is a set of run counters on a private registry, so concurrent
// runs in one process do not share state.
type Metrics struct {
	registry *prometheus.Registry

	FilesAnalyzed prometheus.Counter
	FileErrors    *prometheus.CounterVec
	Anomalies     *prometheus.CounterVec
	Methods       prometheus.Counter
	Issues        *prometheus.CounterVec
	ParseDuration prometheus.Histogram
}

// New creates and registers the run counters
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		FilesAnalyzed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "codeanalyzer_files_analyzed_total",
			Help: "Files walked to completion.",
		}),
		FileErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codeanalyzer_file_errors_total",
			Help: "Files that could not be analyzed, by reason.",
		}, []string{"reason"}),
		Anomalies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codeanalyzer_anomalies_total",
			Help: "Non-fatal input anomalies seen while walking, by kind.",
		}, []string{"kind"}),
		Methods: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "codeanalyzer_methods_total",
			Help: "Methods measured.",
		}),
		Issues: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "codeanalyzer_issues_total",
			Help: "Debt issues reported, by category.",
		}, []string{"category"}),
		ParseDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "codeanalyzer_parse_duration_seconds",
			Help:    "Time spent parsing and walking one file.",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}
	m.registry.MustRegister(m.FilesAnalyzed, m.FileErrors, m.Anomalies, m.Methods, m.Issues, m.ParseDuration)
	return m
}

// Registry exposes the private registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// WriteFile writes every counter to path in the Prometheus text format
func (m *Metrics) WriteFile(path string) error {
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics file: %w", err)
	}
	return nil
}
