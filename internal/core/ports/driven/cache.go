package driven

import (
	"context"
	"time"
)

// CachedResponse is a stored model response.
type CachedResponse struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// ResponseCache is a content-addressed store of model responses.
// Entries never expire. Each key is written once per miss; callers never
// write concurrently.
type ResponseCache interface {
	// Get returns the entry for key, or domain.ErrNotFound.
	Get(ctx context.Context, key string) (CachedResponse, error)

	// Put stores an entry, replacing any previous value.
	Put(ctx context.Context, key string, entry CachedResponse) error

	// Len returns the number of stored entries.
	Len(ctx context.Context) (int, error)

	// Clear removes every entry.
	Clear(ctx context.Context) error
}
