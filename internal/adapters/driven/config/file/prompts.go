package file

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

//go:embed defaults/*.txt
var builtinPrompts embed.FS

const promptExt = ".txt"

// PromptStore serves the extraction prompts. A non-blank <dir>/<name>.txt
// replaces the built-in text of the same name; a blank or missing file
// leaves the built-in in effect. Edited files are picked up on the next
// Load without a restart.
type PromptStore struct {
	dir string

	mu      sync.Mutex
	entries map[string]promptEntry
}

// promptEntry is a file override as last read from disk.
type promptEntry struct {
	text    string
	modTime time.Time
	size    int64
}

// NewPromptStore creates a store over dir. Nothing is read or written
// until the first Load or WriteDefaults.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: prompt directory is required", domain.ErrInvalidInput)
	}
	return &PromptStore{dir: dir, entries: make(map[string]promptEntry)}, nil
}

// PromptNames returns the names of the built-in prompts in sorted order.
func PromptNames() []string {
	files, _ := fs.Glob(builtinPrompts, "defaults/*"+promptExt)
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, strings.TrimSuffix(path.Base(f), promptExt))
	}
	sort.Strings(names)
	return names
}

// DefaultPrompt returns the built-in text of a prompt.
func DefaultPrompt(name string) (string, error) {
	data, err := builtinPrompts.ReadFile("defaults/" + name + promptExt)
	if err != nil {
		return "", fmt.Errorf("%w: prompt %q", domain.ErrNotFound, name)
	}
	return strings.TrimSpace(string(data)), nil
}

// Dir returns the override directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Path returns the override file for a prompt.
func (s *PromptStore) Path(name string) string {
	return filepath.Join(s.dir, name+promptExt)
}

// Load returns the effective text of a prompt. Only built-in prompt names
// are accepted. An override that exists but cannot be read is an error
// rather than a silent fallback.
func (s *PromptStore) Load(name string) (string, error) {
	builtin, err := DefaultPrompt(name)
	if err != nil {
		return "", err
	}

	p := s.Path(name)
	info, err := os.Stat(p)
	if errors.Is(err, fs.ErrNotExist) {
		return builtin, nil
	}
	if err != nil {
		return "", fmt.Errorf("stat prompt %s: %w", p, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[name]; ok && e.modTime.Equal(info.ModTime()) && e.size == info.Size() {
		return e.text, nil
	}

	data, err := os.ReadFile(p)
	if err != nil {
		return "", fmt.Errorf("read prompt %s: %w", p, err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		text = builtin
	}
	s.entries[name] = promptEntry{text: text, modTime: info.ModTime(), size: info.Size()}
	return text, nil
}

// Reload forgets every override read so far.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[string]promptEntry)
}

// WriteDefaults copies the built-in prompts into the override directory
// so they can be edited. Existing files are kept unless overwrite is set.
// It returns the files written.
func (s *PromptStore) WriteDefaults(overwrite bool) ([]string, error) {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return nil, fmt.Errorf("create prompt directory: %w", err)
	}

	var written []string
	for _, name := range PromptNames() {
		p := s.Path(name)
		if _, err := os.Stat(p); err == nil && !overwrite {
			continue
		}
		text, err := DefaultPrompt(name)
		if err != nil {
			return written, err
		}
		if err := os.WriteFile(p, []byte(text+"\n"), 0600); err != nil {
			return written, fmt.Errorf("write prompt %s: %w", name, err)
		}
		written = append(written, p)
	}
	s.Reload()
	return written, nil
}
