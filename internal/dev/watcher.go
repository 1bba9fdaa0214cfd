package dev

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// ChangeKind distinguishes how a watched file changed.
type ChangeKind int

const (
	ChangeCreated ChangeKind = iota
	ChangeModified
	ChangeRemoved
)

// Change is a single detected file change.
type Change struct {
	Path string
	Kind ChangeKind
}

// WatcherConfig configures the file watcher.
type WatcherConfig struct {
	// Paths are the directories to watch.
	Paths []string

	// Ignore holds base names and glob patterns to skip while
	// scanning. Path-prefix filtering against canonical ignore roots is
	// the orchestrator's job.
	Ignore []string

	// PollInterval is how often the tree is scanned.
	PollInterval time.Duration

	// Quiet is how long the tree must stay unchanged before pending
	// changes are emitted as one batch.
	Quiet time.Duration
}

// DefaultIgnore contains base names skipped by every watcher.
var DefaultIgnore = []string{
	".git",
	".hashira",
	"node_modules",
	"*.tmp",
	"*.swp",
	"*~",
}

// Watcher polls the filesystem for changes and emits them as debounced
// batches: rapid consecutive changes coalesce into a single batch once
// the tree has been quiet for the configured window.
type Watcher struct {
	config  WatcherConfig
	onBatch func([]Change)

	mu         sync.Mutex
	running    bool
	stopCh     chan struct{}
	timestamps map[string]time.Time

	pending    []Change
	lastChange time.Time
}

// NewWatcher creates a watcher for the configured paths.
func NewWatcher(config WatcherConfig) *Watcher {
	if config.PollInterval == 0 {
		config.PollInterval = 100 * time.Millisecond
	}
	if config.Quiet == 0 {
		config.Quiet = 200 * time.Millisecond
	}
	config.Ignore = append(append([]string{}, DefaultIgnore...), config.Ignore...)

	return &Watcher{
		config:     config,
		timestamps: make(map[string]time.Time),
	}
}

// OnBatch sets the callback invoked with each debounced change batch.
func (w *Watcher) OnBatch(fn func([]Change)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onBatch = fn
}

// Start scans the watched paths until the context is cancelled or Stop
// is called. The initial scan only records state; it emits nothing.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.stopCh = make(chan struct{})
	stopCh := w.stopCh
	w.mu.Unlock()

	w.scanInitial()

	ticker := time.NewTicker(w.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-stopCh:
			return nil
		case <-ticker.C:
			w.scan()
			w.flushIfQuiet()
		}
	}
}

// Stop stops the watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		close(w.stopCh)
		w.running = false
	}
}

// IsRunning reports whether the watcher loop is active.
func (w *Watcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// scanInitial records the current tree without reporting changes.
func (w *Watcher) scanInitial() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for _, root := range w.config.Paths {
		w.walk(root, func(p string, mod time.Time) {
			w.timestamps[p] = mod
		})
	}
}

// scan detects created, modified, and removed files since the last
// scan and appends them to the pending batch.
func (w *Watcher) scan() {
	w.mu.Lock()
	defer w.mu.Unlock()

	seen := make(map[string]struct{}, len(w.timestamps))
	var found []Change

	for _, root := range w.config.Paths {
		w.walk(root, func(p string, mod time.Time) {
			seen[p] = struct{}{}
			last, exists := w.timestamps[p]
			switch {
			case !exists:
				w.timestamps[p] = mod
				found = append(found, Change{Path: p, Kind: ChangeCreated})
			case mod.After(last):
				w.timestamps[p] = mod
				found = append(found, Change{Path: p, Kind: ChangeModified})
			}
		})
	}

	for p := range w.timestamps {
		if _, ok := seen[p]; !ok {
			delete(w.timestamps, p)
			found = append(found, Change{Path: p, Kind: ChangeRemoved})
		}
	}

	if len(found) > 0 {
		w.pending = append(w.pending, found...)
		w.lastChange = time.Now()
	}
}

// flushIfQuiet emits the pending batch once the quiet window has
// elapsed with no further changes.
func (w *Watcher) flushIfQuiet() {
	w.mu.Lock()
	if len(w.pending) == 0 || time.Since(w.lastChange) < w.config.Quiet {
		w.mu.Unlock()
		return
	}
	batch := w.pending
	w.pending = nil
	callback := w.onBatch
	w.mu.Unlock()

	if callback != nil {
		callback(batch)
	}
}

// walk visits every regular file under root that is not ignored.
func (w *Watcher) walk(root string, visit func(path string, mod time.Time)) {
	filepath.Walk(root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() {
			if p != root && w.shouldIgnore(p) {
				return filepath.SkipDir
			}
			return nil
		}
		if !w.shouldIgnore(p) {
			visit(p, info.ModTime())
		}
		return nil
	})
}

// shouldIgnore matches the path's base name against the ignore set.
func (w *Watcher) shouldIgnore(fullPath string) bool {
	name := filepath.Base(fullPath)
	for _, pattern := range w.config.Ignore {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		if name == pattern {
			return true
		}
		if strings.ContainsAny(pattern, "*?[") {
			if matched, _ := filepath.Match(pattern, name); matched {
				return true
			}
		}
	}
	return false
}
