package dev

import (
	"context"
	"os"
	"sync"

	"github.com/hashira-dev/hashira/internal/config"
	"github.com/hashira-dev/hashira/internal/env"
	"github.com/hashira-dev/hashira/internal/errors"
)

// Runner launches and replaces the application process. The process is
// started in its own group so its children die with it.
type Runner struct {
	cfg        *config.Config
	binary     string
	liveReload bool

	mu      sync.Mutex
	current *processHandle
}

// NewRunner creates a runner for the compiled binary.
func NewRunner(cfg *config.Config, binary string, liveReload bool) *Runner {
	return &Runner{
		cfg:        cfg,
		binary:     binary,
		liveReload: liveReload,
	}
}

// Start launches the application process, first stopping any previous
// one. The runtime settings are handed over through the environment.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil {
		stopProcess(r.current)
		r.current = nil
	}

	vars := env.Vars(
		r.cfg.Dev.Host,
		r.cfg.Dev.Port,
		r.cfg.PublicPath(),
		r.liveReload,
		r.cfg.Dev.ReloadHost,
		r.cfg.Dev.ReloadPort,
		r.cfg.ClientLibName(),
	)

	proc, err := startProcess(ctx, r.binary, r.cfg.Dir(), append(os.Environ(), vars...))
	if err != nil {
		return errors.New("H241").Wrap(err)
	}
	r.current = proc
	return nil
}

// Stop terminates the application process if one is running. Failure
// to kill is tolerated; the next Start replaces the handle regardless.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current != nil {
		stopProcess(r.current)
		r.current = nil
	}
}

// IsRunning reports whether a process handle is held.
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current != nil
}
