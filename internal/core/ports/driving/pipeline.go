package driving

import (
	"context"

	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driven"
)

// Processed is the outcome for a single document.
type Processed struct {
	Document       domain.Document
	Classification domain.ClassificationResult

	// Result is set only when the document was accepted.
	Result *domain.ExtractionResult
}

// Accepted returns true if the document was classified as an outbound investment.
func (p Processed) Accepted() bool {
	return p.Result != nil
}

// Pipeline runs classification and extraction over documents.
type Pipeline interface {
	// Process classifies one document and extracts it when accepted.
	Process(ctx context.Context, doc domain.Document) Processed

	// Run processes documents strictly in input order.
	Run(ctx context.Context, docs []domain.Document) (domain.BatchResult, error)

	// RunSource reads every document from source, runs the batch and
	// hands the result to sink. Returns the sink location.
	RunSource(ctx context.Context, source driven.DocumentSource, sink driven.ResultSink) (domain.BatchResult, string, error)
}
