package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driven"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := NewCache(filepath.Join(t.TempDir(), "cache"))
	require.NoError(t, err)
	return c
}

func TestNewCache_RequiresDir(t *testing.T) {
	_, err := NewCache("")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCache_PutGet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	ts := time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC)

	require.NoError(t, c.Put(ctx, "abc123", driven.CachedResponse{Response: `{"x":"中文"}`, Timestamp: ts}))

	got, err := c.Get(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, `{"x":"中文"}`, got.Response)
	assert.True(t, ts.Equal(got.Timestamp))

	data, err := os.ReadFile(filepath.Join(c.Dir(), "abc123.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"response"`)
	assert.Contains(t, string(data), `"timestamp": "2024-05-01T08:30:00Z"`)
}

func TestCache_GetMissing(t *testing.T) {
	c := newTestCache(t)

	_, err := c.Get(context.Background(), "missing")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCache_GetCorrupt(t *testing.T) {
	c := newTestCache(t)
	require.NoError(t, os.WriteFile(filepath.Join(c.Dir(), "bad.json"), []byte("{not json"), 0600))

	_, err := c.Get(context.Background(), "bad")

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrNotFound)
}

func TestCache_ReadsZonelessTimestamp(t *testing.T) {
	c := newTestCache(t)
	content := `{"response": "ok", "timestamp": "2024-01-02T03:04:05.123456"}`
	require.NoError(t, os.WriteFile(filepath.Join(c.Dir(), "legacy.json"), []byte(content), 0600))

	got, err := c.Get(context.Background(), "legacy")

	require.NoError(t, err)
	assert.Equal(t, "ok", got.Response)
	assert.Equal(t, 2024, got.Timestamp.Year())
	assert.Equal(t, 123456000, got.Timestamp.Nanosecond())
}

func TestCache_RejectsPathKeys(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	for _, key := range []string{"", "../x", "a/b", `a\b`} {
		err := c.Put(ctx, key, driven.CachedResponse{Response: "x"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput, key)
	}
}

func TestCache_LenAndClear(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	require.NoError(t, c.Put(ctx, "a", driven.CachedResponse{Response: "1"}))
	require.NoError(t, c.Put(ctx, "b", driven.CachedResponse{Response: "2"}))
	require.NoError(t, os.WriteFile(filepath.Join(c.Dir(), "notes.txt"), []byte("keep"), 0600))

	n, err := c.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.NoError(t, c.Clear(ctx))

	n, err = c.Len(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.FileExists(t, filepath.Join(c.Dir(), "notes.txt"))
}
