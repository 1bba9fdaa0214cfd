// Package dev runs the watch, rebuild, restart and live-reload loop.
//
// This package implements:
//   - Polling file watcher emitting debounced change batches
//   - Application process lifecycle (start, stop, restart)
//   - WebSocket-based browser refresh
//   - Build coalescing so at most one build runs at a time
//
// # Architecture
//
// The development loop consists of several components:
//
//   - Watcher: Polls watched paths and batches changes after a quiet period
//   - Runner: Starts and stops the built application binary
//   - Broadcaster: Fans out loading and reload events to subscribers
//   - ReloadServer: Pushes events to browsers via WebSocket
//   - Orchestrator: Ties the above into the rebuild state machine
//
// # Usage
//
//	orch, err := dev.NewOrchestrator(cfg, logger)
//	if err != nil {
//	    return err
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := orch.Run(ctx); err != nil {
//	    return err
//	}
//
// # Rebuild Loop
//
// Each change batch is filtered against the configured ignore roots
// (output directory, .git, .hashira, dev.ignore entries). Batches that
// arrive while a build is in flight are dropped rather than queued: a
// build reads cumulative disk state, so the next accepted batch picks
// up everything.
//
// # Live Reload Protocol
//
// The browser connects to /_hashira/reload via WebSocket.
// Frames are JSON-encoded:
//
//	{"loading": true} // A rebuild has started
//	{"reload": true}  // The rebuild finished, reload the page
package dev
