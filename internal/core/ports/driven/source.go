package driven

import (
	"context"

	"github.com/custodia-labs/odiscan/internal/core/domain"
)

// DocumentSource supplies plain-text documents.
type DocumentSource interface {
	// Documents returns every document in a stable order.
	// Unreadable files are returned with ParseSuccess=false rather than
	// failing the whole listing.
	Documents(ctx context.Context) ([]domain.Document, error)

	// Load reads a single document by path.
	Load(ctx context.Context, path string) (domain.Document, error)
}

// DocumentWatcher delivers documents as they appear.
type DocumentWatcher interface {
	// Watch calls fn for each new or rewritten document until ctx is
	// cancelled. Calls to fn are sequential.
	Watch(ctx context.Context, fn func(domain.Document)) error
}
