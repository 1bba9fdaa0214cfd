package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hashira-dev/hashira/internal/build"
	"github.com/hashira-dev/hashira/internal/config"
	"github.com/hashira-dev/hashira/internal/env"
	hashiraerrors "github.com/hashira-dev/hashira/internal/errors"
)

func runCmd() *cobra.Command {
	var (
		port    int
		host    string
		noBuild bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build and run the application",
		Long: `Build the application and run it in the foreground.

Unlike "hashira dev" this does not watch for changes or serve
live reload; it is the production binary running locally.

Examples:
  hashira run
  hashira run --port=8080
  hashira run --no-build`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(port, host, noBuild, verbose)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to run on (default from hashira.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from hashira.json)")
	cmd.Flags().BoolVar(&noBuild, "no-build", false, "Run the existing build output without rebuilding")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	return cmd
}

func runRun(port int, host string, noBuild, verbose bool) error {
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
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	binary := filepath.Join(cfg.OutputPath(), "server")
	if !noBuild {
		if _, err := exec.LookPath("go"); err != nil {
			return hashiraerrors.New("H281").Wrap(err)
		}
		builder := build.New(cfg, build.Options{
			Release: cfg.Build.Release,
			OnProgress: func(step string) {
				info(step)
			},
		}, newLogger(verbose))
		result, err := builder.Build(ctx)
		if err != nil {
			return err
		}
		binary = result.Binary
		success("Built in %s", result.Duration.Round(time.Millisecond))
	}

	if _, err := os.Stat(binary); err != nil {
		return hashiraerrors.New("H280").
			WithDetail("no build output at " + binary + ", run hashira build first").
			Wrap(err)
	}

	fmt.Println()
	info("Serving on %s", cfg.DevURL())
	fmt.Println()

	vars := env.Vars(
		cfg.Dev.Host,
		cfg.Dev.Port,
		cfg.PublicPath(),
		false,
		"", 0,
		cfg.ClientLibName(),
	)

	app := exec.CommandContext(ctx, binary)
	app.Dir = cfg.Dir()
	app.Stdout = os.Stdout
	app.Stderr = os.Stderr
	app.Env = append(os.Environ(), vars...)

	err = app.Run()
	if ctx.Err() != nil {
		// Interrupted, clean exit.
		return nil
	}
	return err
}
