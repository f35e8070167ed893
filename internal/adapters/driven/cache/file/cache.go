// Package file provides a response cache that stores one JSON file per key.
//
// Each entry is written to <dir>/<key>.json as
//
//	{"response": "...", "timestamp": "..."}
//
// Timestamps written by older tools without a zone offset are accepted.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driven"
)

// Ensure Cache implements the interface.
var _ driven.ResponseCache = (*Cache)(nil)

const ext = ".json"

// localTimestamp is the zone-less ISO layout.
const localTimestamp = "2006-01-02T15:04:05.999999"

// entry is the on-disk format.
type entry struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

// Cache is a directory of JSON response files.
type Cache struct {
	dir string
}

// NewCache creates the cache directory if needed.
func NewCache(dir string) (*Cache, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: cache directory is required", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache directory.
func (c *Cache) Dir() string {
	return c.dir
}

func (c *Cache) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: cache key %q", domain.ErrInvalidInput, key)
	}
	return filepath.Join(c.dir, key+ext), nil
}

// Get reads the entry for key.
func (c *Cache) Get(_ context.Context, key string) (driven.CachedResponse, error) {
	p, err := c.path(key)
	if err != nil {
		return driven.CachedResponse{}, err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return driven.CachedResponse{}, domain.ErrNotFound
		}
		return driven.CachedResponse{}, fmt.Errorf("reading cache file: %w", err)
	}

	var e entry
	if err := json.Unmarshal(data, &e); err != nil {
		return driven.CachedResponse{}, fmt.Errorf("parsing cache file %s: %w", filepath.Base(p), err)
	}
	return driven.CachedResponse{Response: e.Response, Timestamp: parseTimestamp(e.Timestamp)}, nil
}

// Put writes the entry for key. The file is replaced atomically.
func (c *Cache) Put(_ context.Context, key string, resp driven.CachedResponse) error {
	p, err := c.path(key)
	if err != nil {
		return err
	}

	ts := resp.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	data, err := json.MarshalIndent(entry{
		Response:  resp.Response,
		Timestamp: ts.Format(time.RFC3339Nano),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing cache file: %w", err)
	}
	if err := os.Rename(tmpName, p); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("renaming cache file: %w", err)
	}
	return nil
}

// Len counts the cached entries.
func (c *Cache) Len(_ context.Context) (int, error) {
	files, err := c.files()
	if err != nil {
		return 0, err
	}
	return len(files), nil
}

// Clear removes every cached entry. Other files in the directory are left alone.
func (c *Cache) Clear(_ context.Context) error {
	files, err := c.files()
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("removing %s: %w", filepath.Base(f), err)
		}
	}
	return nil
}

func (c *Cache) files() ([]string, error) {
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return nil, fmt.Errorf("reading cache directory: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		out = append(out, filepath.Join(c.dir, e.Name()))
	}
	return out, nil
}

func parseTimestamp(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	if t, err := time.ParseInLocation(localTimestamp, s, time.Local); err == nil {
		return t
	}
	return time.Time{}
}
