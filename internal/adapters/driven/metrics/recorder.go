// Package metrics records batch counters in the Prometheus text format so a
// node_exporter textfile collector can pick them up.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driven"
)

// Ensure Recorder implements the interface.
var _ driven.MetricsRecorder = (*Recorder)(nil)

// Verdict label values.
const (
	VerdictODI      = "odi"
	VerdictExcluded = "excluded"
	VerdictOther    = "other"
)

// Recorder accumulates counters across batches and rewrites its textfile
// after each one.
//
// Metrics:
//   - odiscan_runs_total - Count of completed batches
//   - odiscan_documents_total{verdict} - Documents by classification verdict
//   - odiscan_extractions_total{outcome} - Accepted documents by extraction path
//   - odiscan_model_fields_total - Fields examined while merging model records
//   - odiscan_fallback_fields_total - Blank model fields filled from rules
//   - odiscan_last_run_timestamp_seconds - Completion time of the latest batch
type Recorder struct {
	path     string
	registry *prometheus.Registry
	now      func() time.Time

	runs        prometheus.Counter
	documents   *prometheus.CounterVec
	extractions *prometheus.CounterVec
	fields      prometheus.Counter
	fallbacks   prometheus.Counter
	lastRun     prometheus.Gauge
}

// NewRecorder creates a recorder that writes to path.
func NewRecorder(path string) (*Recorder, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: metrics file path is required", domain.ErrInvalidInput)
	}

	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		path:     path,
		registry: reg,
		now:      time.Now,

		runs: factory.NewCounter(prometheus.CounterOpts{
			Name: "odiscan_runs_total",
			Help: "Total number of completed batches",
		}),
		documents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "odiscan_documents_total",
				Help: "Total number of documents by classification verdict",
			},
			[]string{"verdict"}, // "odi", "excluded" or "other"
		),
		extractions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "odiscan_extractions_total",
				Help: "Total number of accepted documents by extraction outcome",
			},
			[]string{"outcome"},
		),
		fields: factory.NewCounter(prometheus.CounterOpts{
			Name: "odiscan_model_fields_total",
			Help: "Total number of fields examined while merging model records",
		}),
		fallbacks: factory.NewCounter(prometheus.CounterOpts{
			Name: "odiscan_fallback_fields_total",
			Help: "Total number of blank model fields filled from rule extraction",
		}),
		lastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "odiscan_last_run_timestamp_seconds",
			Help: "Unix time the latest batch completed",
		}),
	}, nil
}

// Path returns the textfile path.
func (r *Recorder) Path() string {
	return r.path
}

// RecordBatch adds the summary's counters and rewrites the textfile.
func (r *Recorder) RecordBatch(summary domain.BatchSummary) error {
	r.runs.Inc()
	r.documents.WithLabelValues(VerdictODI).Add(float64(summary.ODI))
	r.documents.WithLabelValues(VerdictExcluded).Add(float64(summary.Excluded))
	r.documents.WithLabelValues(VerdictOther).Add(float64(summary.Other))
	for outcome, n := range summary.Outcomes {
		r.extractions.WithLabelValues(outcome.String()).Add(float64(n))
	}
	r.fields.Add(float64(summary.Stats.TotalFields))
	r.fallbacks.Add(float64(summary.Stats.LLMFallback))
	r.lastRun.Set(float64(r.now().Unix()))

	if err := prometheus.WriteToTextfile(r.path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
