// Package memory provides an in-process response cache. Entries live for
// the lifetime of the process.
package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driven"
)

// Ensure ResponseCache implements the interface.
var _ driven.ResponseCache = (*ResponseCache)(nil)

// ResponseCache is an in-memory implementation of driven.ResponseCache.
type ResponseCache struct {
	mu      sync.RWMutex
	entries map[string]driven.CachedResponse
}

// NewResponseCache creates a new in-memory response cache.
func NewResponseCache() *ResponseCache {
	return &ResponseCache{
		entries: make(map[string]driven.CachedResponse),
	}
}

// Get returns the entry for key.
func (c *ResponseCache) Get(_ context.Context, key string) (driven.CachedResponse, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok {
		return driven.CachedResponse{}, domain.ErrNotFound
	}
	return entry, nil
}

// Put stores an entry, replacing any previous value.
func (c *ResponseCache) Put(_ context.Context, key string, entry driven.CachedResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry
	return nil
}

// Len returns the number of stored entries.
func (c *ResponseCache) Len(_ context.Context) (int, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries), nil
}

// Clear removes every entry.
func (c *ResponseCache) Clear(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]driven.CachedResponse)
	return nil
}
