// Package watcher rebuilds the vector index when corpus files change.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/busrag/internal/core/domain"
	"github.com/custodia-labs/busrag/internal/logger"
)

// DefaultDebounce is the quiet period after the last change before a rebuild.
const DefaultDebounce = 500 * time.Millisecond

// Rebuilder rebuilds the index from the current corpus.
type Rebuilder interface {
	Rebuild(ctx context.Context) (*domain.BuildReport, error)
}

// Config holds watcher options.
type Config struct {
	// Debounce is the quiet period before a rebuild (default 500ms).
	Debounce time.Duration

	// OnRebuild is called after every rebuild attempt. May be nil.
	OnRebuild func(report *domain.BuildReport, err error)

	// Ignore reports whether a changed path should not trigger a rebuild.
	// Defaults to skipping hidden files and SQLite database files.
	Ignore func(path string) bool
}

// Watcher coalesces file events into index rebuilds.
type Watcher struct {
	fsw       *fsnotify.Watcher
	rebuilder Rebuilder
	cfg       Config

	mu     sync.Mutex
	closed bool
}

// New starts watching the given directories. Paths that do not exist are
// skipped; at least one must exist.
func New(paths []string, r Rebuilder, cfg Config) (*Watcher, error) {
	if r == nil {
		return nil, errors.New("watcher: rebuilder is required")
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Ignore == nil {
		cfg.Ignore = ignoreDefault
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: %w", err)
	}

	watched := 0
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || !info.IsDir() {
			logger.Debug("Not watching %s: not a directory", p)
			continue
		}
		if err := fsw.Add(p); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watcher: add %s: %w", p, err)
		}
		logger.Debug("Watching %s", p)
		watched++
	}
	if watched == 0 {
		fsw.Close()
		return nil, fmt.Errorf("watcher: none of %v is a directory", paths)
	}

	return &Watcher{fsw: fsw, rebuilder: r, cfg: cfg}, nil
}

// Run processes events until ctx is cancelled, then closes the watcher.
// A rebuild runs once per burst of changes.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	timer := time.NewTimer(w.cfg.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("Corpus change: %s %s", event.Op, event.Name)
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.cfg.Debounce)
			pending = true

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("Watcher error: %v", err)

		case <-timer.C:
			pending = false
			w.rebuild(ctx)
		}
	}
}

// Close stops watching. Safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	return w.fsw.Close()
}

func (w *Watcher) rebuild(ctx context.Context) {
	logger.Section("Corpus Changed")
	report, err := w.rebuilder.Rebuild(ctx)
	if err != nil {
		logger.Warn("Rebuild failed: %v", err)
	}
	if w.cfg.OnRebuild != nil {
		w.cfg.OnRebuild(report, err)
	}
}

// relevant filters out permission changes and ignored paths.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return !w.cfg.Ignore(event.Name)
}

func ignoreDefault(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	for _, suffix := range []string{".db", ".db-wal", ".db-shm", ".db-journal"} {
		if strings.HasSuffix(base, suffix) {
			return true
		}
	}
	return false
}
