package driving

import "github.com/custodia-labs/odiscan/internal/core/domain"

// Classifier decides whether documents describe outbound investments.
type Classifier interface {
	// Classify returns exactly one result per document. It never fails;
	// missing input degrades to a negative result.
	Classify(doc domain.Document) domain.ClassificationResult

	// ClassifyBatch classifies documents in input order.
	ClassifyBatch(docs []domain.Document) []domain.ClassificationResult
}
