package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driven"
)

// --- Mock implementations shared by the extraction tests ---

// mockCompletionClient returns queued responses in order. When the queue is
// exhausted the last entry repeats.
type mockCompletionClient struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	requests  []driven.CompletionRequest
	callTimes []time.Time
}

func (m *mockCompletionClient) Complete(_ context.Context, req driven.CompletionRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := len(m.requests)
	m.requests = append(m.requests, req)
	m.callTimes = append(m.callTimes, time.Now())

	var err error
	if len(m.errs) > 0 {
		err = m.errs[min(i, len(m.errs)-1)]
	}
	if err != nil {
		return "", err
	}
	if len(m.responses) == 0 {
		return "", nil
	}
	return m.responses[min(i, len(m.responses)-1)], nil
}

func (m *mockCompletionClient) ModelName() string           { return "mock-model" }
func (m *mockCompletionClient) Ping(_ context.Context) error { return nil }
func (m *mockCompletionClient) Close() error                 { return nil }

func (m *mockCompletionClient) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// mockResponseCache is an in-memory driven.ResponseCache.
type mockResponseCache struct {
	entries map[string]driven.CachedResponse
	getErr  error
	putErr  error
	puts    int
}

func newMockResponseCache() *mockResponseCache {
	return &mockResponseCache{entries: make(map[string]driven.CachedResponse)}
}

func (m *mockResponseCache) Get(_ context.Context, key string) (driven.CachedResponse, error) {
	if m.getErr != nil {
		return driven.CachedResponse{}, m.getErr
	}
	e, ok := m.entries[key]
	if !ok {
		return driven.CachedResponse{}, domain.ErrNotFound
	}
	return e, nil
}

func (m *mockResponseCache) Put(_ context.Context, key string, entry driven.CachedResponse) error {
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.entries[key] = entry
	return nil
}

func (m *mockResponseCache) Len(_ context.Context) (int, error) { return len(m.entries), nil }

func (m *mockResponseCache) Clear(_ context.Context) error {
	m.entries = make(map[string]driven.CachedResponse)
	return nil
}

// mockPromptStore serves prompts from a map.
type mockPromptStore struct {
	prompts map[string]string
}

func (m *mockPromptStore) Load(name string) (string, error) {
	p, ok := m.prompts[name]
	if !ok {
		return "", errors.New("prompt not found: " + name)
	}
	return p, nil
}

func (m *mockPromptStore) Reload() {}

// mockModelCaller returns a fixed response.
type mockModelCaller struct {
	response string
	ok       bool
	prompts  []string
	systems  []string
}

func (m *mockModelCaller) Extract(_ context.Context, prompt, systemPrompt string) (string, bool) {
	m.prompts = append(m.prompts, prompt)
	m.systems = append(m.systems, systemPrompt)
	return m.response, m.ok
}
