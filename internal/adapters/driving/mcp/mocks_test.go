package mcp

import (
	"context"

	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driven"
	"github.com/custodia-labs/odiscan/internal/core/ports/driving"
)

// mockClassifier is a mock implementation of driving.Classifier.
type mockClassifier struct {
	result domain.ClassificationResult
	docs   []domain.Document
}

func (m *mockClassifier) Classify(doc domain.Document) domain.ClassificationResult {
	m.docs = append(m.docs, doc)
	return m.result
}

func (m *mockClassifier) ClassifyBatch(docs []domain.Document) []domain.ClassificationResult {
	out := make([]domain.ClassificationResult, len(docs))
	for i := range docs {
		out[i] = m.Classify(docs[i])
	}
	return out
}

// mockPipeline is a mock implementation of driving.Pipeline.
type mockPipeline struct {
	processed driving.Processed
	docs      []domain.Document
}

func (m *mockPipeline) Process(_ context.Context, doc domain.Document) driving.Processed {
	m.docs = append(m.docs, doc)
	out := m.processed
	out.Document = doc
	return out
}

func (m *mockPipeline) Run(_ context.Context, _ []domain.Document) (domain.BatchResult, error) {
	return domain.BatchResult{}, nil
}

func (m *mockPipeline) RunSource(
	_ context.Context,
	_ driven.DocumentSource,
	_ driven.ResultSink,
) (domain.BatchResult, string, error) {
	return domain.BatchResult{}, "", nil
}
