// Package metrics defines the Prometheus collectors for a feature-extraction
// run and writes them out in the text exposition format at the end of the
// run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus collectors for one run.
type Metrics struct {
	registry *prometheus.Registry

	DocumentsIndexedTotal *prometheus.CounterVec
	TokensAcceptedTotal   *prometheus.CounterVec
	TermsTrimmedTotal     prometheus.Counter
	VocabularySize        prometheus.Gauge
	FeatureRowsTotal      *prometheus.CounterVec
	StageDuration         *prometheus.HistogramVec
	ArtifactsPublished    *prometheus.CounterVec
}

// New creates the collectors and registers them on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		DocumentsIndexedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailfilter_documents_indexed_total",
				Help: "Documents tokenized into the inverted index, by mode.",
			},
			[]string{"mode"},
		),
		TokensAcceptedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailfilter_tokens_accepted_total",
				Help: "Terms recorded in the inverted index after stemming and stop-word filtering, by mode.",
			},
			[]string{"mode"},
		),
		TermsTrimmedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "mailfilter_terms_trimmed_total",
				Help: "Terms removed by document-frequency selection.",
			},
		),
		VocabularySize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "mailfilter_vocabulary_size",
				Help: "Number of selected feature terms.",
			},
		),
		FeatureRowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailfilter_feature_rows_total",
				Help: "Rows emitted into the feature table, by mode and class.",
			},
			[]string{"mode", "class"},
		),
		StageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "mailfilter_stage_duration_seconds",
				Help:    "Wall time of each pipeline stage in seconds.",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 15, 60},
			},
			[]string{"stage"},
		),
		ArtifactsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "mailfilter_artifacts_published_total",
				Help: "Artifacts written, by sink and status.",
			},
			[]string{"sink", "status"},
		),
	}

	m.registry.MustRegister(
		m.DocumentsIndexedTotal,
		m.TokensAcceptedTotal,
		m.TermsTrimmedTotal,
		m.VocabularySize,
		m.FeatureRowsTotal,
		m.StageDuration,
		m.ArtifactsPublished,
	)

	return m
}

// ObserveStage records the time elapsed since start for stage.
func (m *Metrics) ObserveStage(stage string, start time.Time) {
	m.StageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// Gatherer exposes the run registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteTextfile writes all metrics to path in the Prometheus text format,
// suitable for the node-exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
