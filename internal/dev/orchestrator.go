package dev

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashira-dev/hashira/internal/build"
	"github.com/hashira-dev/hashira/internal/config"
	"github.com/hashira-dev/hashira/internal/errors"
)

// Orchestrator drives the dev loop: watch the project, rebuild on
// change batches, replace the application process, and notify
// live-reload listeners.
type Orchestrator struct {
	cfg         *config.Config
	logger      *slog.Logger
	builder     *build.Builder
	watcher     *Watcher
	runner      *Runner
	broadcaster *Broadcaster
	reload      *ReloadServer

	// ignoreRoots are canonical directory prefixes whose changes never
	// trigger a rebuild. Computed once at startup.
	ignoreRoots []string

	// guard enforces at most one in-flight build. Batches arriving
	// while it is held are dropped, not queued: the running build reads
	// cumulative disk state anyway.
	guardMu  sync.Mutex
	building bool
}

// NewOrchestrator wires the dev loop for a project.
func NewOrchestrator(cfg *config.Config, logger *slog.Logger) (*Orchestrator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	ignoreRoots, err := canonicalIgnoreRoots(cfg)
	if err != nil {
		return nil, err
	}

	watchPaths := make([]string, 0, len(cfg.Dev.Watch))
	for _, p := range cfg.Dev.Watch {
		if !filepath.IsAbs(p) {
			p = filepath.Join(cfg.Dir(), p)
		}
		watchPaths = append(watchPaths, p)
	}

	builder := build.New(cfg, build.Options{}, logger)
	broadcaster := NewBroadcaster()

	o := &Orchestrator{
		cfg:         cfg,
		logger:      logger,
		builder:     builder,
		watcher:     NewWatcher(WatcherConfig{Paths: watchPaths}),
		runner:      NewRunner(cfg, filepath.Join(cfg.OutputPath(), "server"), true),
		broadcaster: broadcaster,
		reload:      NewReloadServer(broadcaster, logger),
		ignoreRoots: ignoreRoots,
	}
	return o, nil
}

// Run starts the dev session and blocks until the context is
// cancelled. Cancellation broadcasts a shutdown to every live-reload
// listener before returning.
func (o *Orchestrator) Run(ctx context.Context) error {
	batches := make(chan []Change, 1)
	o.watcher.OnBatch(func(batch []Change) {
		select {
		case batches <- batch:
		default:
			// A batch is already waiting; the pending one will see the
			// same disk state.
		}
	})

	go func() {
		if err := o.reload.ListenAndServe(ctx, o.cfg.ReloadAddress()); err != nil {
			o.logger.Error("live reload listener failed", "error", err)
		}
	}()

	go func() {
		if err := o.watcher.Start(ctx); err != nil && ctx.Err() == nil {
			o.logger.Error("watcher stopped", "error", err)
		}
	}()

	o.logger.Info("dev server starting",
		"app", o.cfg.DevURL(),
		"reload", o.cfg.ReloadAddress())

	// Initial unconditional build and run.
	o.rebuild(ctx, true)

	for {
		select {
		case <-ctx.Done():
			o.shutdown()
			return nil
		case batch := <-batches:
			o.handleBatch(ctx, batch)
		}
	}
}

// handleBatch filters a change batch and, when something relevant
// remains, triggers a rebuild unless one is already in flight.
func (o *Orchestrator) handleBatch(ctx context.Context, batch []Change) {
	filtered := o.filterIgnored(batch)
	if len(filtered) == 0 {
		o.logger.Debug("change batch fully ignored", "size", len(batch))
		return
	}

	if !o.tryAcquire() {
		o.logger.Debug("build in progress, dropping batch", "size", len(filtered))
		return
	}

	for _, c := range filtered {
		o.logger.Info("changed", "path", c.Path)
	}

	go func() {
		defer o.release()
		o.rebuild(ctx, false)
	}()
}

// rebuild runs one build-and-relaunch cycle. Build failures are logged
// and leave the loop alive; the next change batch tries again.
func (o *Orchestrator) rebuild(ctx context.Context, firstRun bool) {
	if firstRun {
		if !o.tryAcquire() {
			return
		}
		defer o.release()
	}

	o.broadcaster.Publish(EventLoading)
	o.runner.Stop()

	start := time.Now()
	result, err := o.builder.Build(ctx)
	if err != nil {
		if he, ok := err.(*errors.HashiraError); ok {
			o.logger.Error("build failed", "error", he.FormatCompact(), "detail", he.Detail)
		} else {
			o.logger.Error("build failed", "error", err)
		}
		return
	}
	o.logger.Info("build finished",
		"duration", time.Since(start).Round(time.Millisecond),
		"packaged", result.Packaged)
	if result.Unclaimed > 0 {
		o.logger.Warn("some files were not claimed by any pipeline", "count", result.Unclaimed)
	}

	if err := o.runner.Start(ctx); err != nil {
		o.logger.Error("failed to start application", "error", err)
		return
	}

	o.broadcaster.Publish(EventReload)
	if n := o.broadcaster.SubscriberCount(); n > 0 {
		o.logger.Debug("notified live reload clients", "clients", n)
	}
}

// shutdown stops the application process and tells every listener the
// session is over.
func (o *Orchestrator) shutdown() {
	o.logger.Info("shutting down dev server")
	o.watcher.Stop()
	o.runner.Stop()
	o.broadcaster.Close()
}

// tryAcquire takes the single build slot if it is free.
func (o *Orchestrator) tryAcquire() bool {
	o.guardMu.Lock()
	defer o.guardMu.Unlock()
	if o.building {
		return false
	}
	o.building = true
	return true
}

// release frees the build slot. Deferred on every build path so a
// failed build never wedges the loop.
func (o *Orchestrator) release() {
	o.guardMu.Lock()
	o.building = false
	o.guardMu.Unlock()
}

// filterIgnored drops changes under any canonical ignore root.
func (o *Orchestrator) filterIgnored(batch []Change) []Change {
	var kept []Change
	for _, c := range batch {
		canonical := canonicalPath(c.Path)
		ignored := false
		for _, root := range o.ignoreRoots {
			if pathWithin(root, canonical) {
				ignored = true
				break
			}
		}
		if !ignored {
			kept = append(kept, c)
		}
	}
	return kept
}

// canonicalIgnoreRoots resolves the ignored directory prefixes once:
// the build output, the VCS directory, the tool cache, and the
// configured ignore list.
func canonicalIgnoreRoots(cfg *config.Config) ([]string, error) {
	roots := []string{
		cfg.OutputPath(),
		filepath.Join(cfg.Dir(), ".git"),
		filepath.Join(cfg.Dir(), ".hashira"),
	}
	for _, p := range cfg.Dev.Ignore {
		if !filepath.IsAbs(p) {
			p = filepath.Join(cfg.Dir(), p)
		}
		roots = append(roots, p)
	}

	canonical := make([]string, 0, len(roots))
	for _, r := range roots {
		canonical = append(canonical, canonicalPath(r))
	}
	return canonical, nil
}

// canonicalPath resolves symlinks where possible and always returns an
// absolute cleaned path. Removed files cannot be resolved, so the
// absolute form is the fallback.
func canonicalPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		abs = filepath.Clean(p)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

// pathWithin reports whether path is dir or lies under it.
func pathWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}
