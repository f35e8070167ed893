package driven

import (
	"context"

	"github.com/custodia-labs/odiscan/internal/core/domain"
)

// ResultSink consumes the finished output of a batch.
type ResultSink interface {
	// Write persists the batch and returns where it was written.
	Write(ctx context.Context, result domain.BatchResult) (string, error)
}

// MetricsRecorder records aggregate counters for a batch.
type MetricsRecorder interface {
	// RecordBatch adds the summary's counters to the recorder.
	RecordBatch(summary domain.BatchSummary) error
}
