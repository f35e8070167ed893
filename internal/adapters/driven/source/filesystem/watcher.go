package filesystem

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/custodia-labs/odiscan/internal/core/domain"
	"github.com/custodia-labs/odiscan/internal/core/ports/driven"
)

// Ensure Watcher implements the interface.
var _ driven.DocumentWatcher = (*Watcher)(nil)

// DefaultSettle is how long a file must be quiet before it is read.
const DefaultSettle = 500 * time.Millisecond

// Watcher delivers .txt files created or rewritten in a directory.
type Watcher struct {
	source *Source
	settle time.Duration
	logger *zap.Logger
}

// NewWatcher creates a watcher over the source's directory. Writes to the
// same file within settle are coalesced into one delivery.
func NewWatcher(source *Source, settle time.Duration, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Watcher{source: source, settle: settle, logger: logger}
}

// Watch blocks until ctx is cancelled, calling fn once per settled file.
func (w *Watcher) Watch(ctx context.Context, fn func(domain.Document)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(w.source.Dir()); err != nil {
		return fmt.Errorf("watch %s: %w", w.source.Dir(), err)
	}
	w.logger.Info("watching for documents", zap.String("dir", w.source.Dir()))

	ready := make(chan string, 16)
	pending := newDebouncer(w.settle, func(path string) {
		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
	defer pending.stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if path, ok := w.relevant(event); ok {
				pending.schedule(path)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", zap.Error(err))

		case path := <-ready:
			doc, err := w.source.Load(ctx, path)
			if err != nil {
				w.logger.Warn("read watched document", zap.String("file", filepath.Base(path)), zap.Error(err))
				continue
			}
			fn(doc)
		}
	}
}

// relevant returns the path of a create or write event on a text file.
func (w *Watcher) relevant(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if !IsTextFile(filepath.Base(event.Name)) {
		return "", false
	}
	info, err := os.Stat(event.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return event.Name, true
}

// debouncer delivers a path once it has gone settle without being
// rescheduled. Each schedule starts a new generation; a timer that fires
// for a superseded generation delivers nothing.
type debouncer struct {
	settle time.Duration
	fire   func(path string)

	mu      sync.Mutex
	gen     uint64
	pending map[string]pendingFile
}

type pendingFile struct {
	gen   uint64
	timer *time.Timer
}

func newDebouncer(settle time.Duration, fire func(path string)) *debouncer {
	return &debouncer{settle: settle, fire: fire, pending: make(map[string]pendingFile)}
}

func (d *debouncer) schedule(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if p, ok := d.pending[path]; ok {
		p.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.pending[path] = pendingFile{
		gen:   gen,
		timer: time.AfterFunc(d.settle, func() { d.expire(path, gen) }),
	}
}

// expire delivers path if gen is still its current generation.
func (d *debouncer) expire(path string, gen uint64) {
	d.mu.Lock()
	p, ok := d.pending[path]
	if !ok || p.gen != gen {
		d.mu.Unlock()
		return
	}
	delete(d.pending, path)
	d.mu.Unlock()

	d.fire(path)
}

func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for path, p := range d.pending {
		p.timer.Stop()
		delete(d.pending, path)
	}
}
