package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hashira-dev/hashira/internal/config"
	"github.com/hashira-dev/hashira/internal/dev"
	"github.com/hashira-dev/hashira/internal/env"
	hashiraerrors "github.com/hashira-dev/hashira/internal/errors"
)

func devCmd() *cobra.Command {
	var (
		port    int
		host    string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Start the development server",
		Long: `Start the development server with watch and live reload.

The dev server watches the project for file changes, rebuilds,
restarts the application, and refreshes connected browsers.

Examples:
  hashira dev
  hashira dev --port=8080
  hashira dev --host=0.0.0.0`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDev(port, host, verbose)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from hashira.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from hashira.json)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	return cmd
}

func runDev(port int, host string, verbose bool) error {
	if _, err := exec.LookPath("go"); err != nil {
		return hashiraerrors.New("H281").Wrap(err)
	}

	// A .env next to hashira.json participates in the env contract.
	if err := env.LoadDotEnv("."); err != nil {
		warn("could not load .env: %v", err)
	}

	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}

	if port > 0 {
		cfg.Dev.Port = port
	}
	if host != "" {
		cfg.Dev.Host = host
		cfg.Dev.ReloadHost = host
	}

	printBanner()
	fmt.Println("  dev")
	fmt.Println()

	logger := newLogger(verbose)
	orch, err := dev.NewOrchestrator(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Interrupt exits cleanly, anything else is a real failure.
	return orch.Run(ctx)
}

// newLogger builds the CLI's slog logger.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
