package driving

import (
	"context"

	"github.com/custodia-labs/odiscan/internal/core/domain"
)

// Extractor produces structured fields for an accepted document.
type Extractor interface {
	// Extract never fails; a broken model path degrades to rule output.
	Extract(ctx context.Context, doc domain.Document, cls domain.ClassificationResult) domain.ExtractionResult
}

// StatsReporter exposes running extraction counters.
type StatsReporter interface {
	// Stats returns a snapshot of the counters.
	Stats() domain.ExtractionStats

	// ResetStats zeroes the counters.
	ResetStats()
}
