package main

import (
	"context"
	"fmt"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hashira-dev/hashira/internal/build"
	"github.com/hashira-dev/hashira/internal/config"
	hashiraerrors "github.com/hashira-dev/hashira/internal/errors"
)

func buildCmd() *cobra.Command {
	var (
		output     string
		release    bool
		skipClient bool
		clean      bool
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build for production",
		Long: `Build the application for production deployment.

This command:
  • Compiles the Go server binary
  • Compiles the WebAssembly client (if a client/ directory exists)
  • Copies wasm_exec.js and the public/ assets
  • Runs the packaging pipelines over included files

Examples:
  hashira build
  hashira build --release
  hashira build --output=out`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuildCmd(output, release, skipClient, clean, verbose)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Output directory (default from hashira.json)")
	cmd.Flags().BoolVar(&release, "release", false, "Optimized build (strip symbols, trim paths)")
	cmd.Flags().BoolVar(&skipClient, "no-client", false, "Skip the WebAssembly client build")
	cmd.Flags().BoolVar(&clean, "clean", false, "Clean output directory before build")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	return cmd
}

func runBuildCmd(output string, release, skipClient, clean, verbose bool) error {
	if _, err := exec.LookPath("go"); err != nil {
		return hashiraerrors.New("H281").Wrap(err)
	}

	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}
	if output != "" {
		cfg.Build.Output = output
	}
	if release {
		cfg.Build.Release = true
	}

	fmt.Println("  Building...")
	fmt.Println()

	builder := build.New(cfg, build.Options{
		Release:    cfg.Build.Release,
		SkipClient: skipClient,
		OnProgress: func(step string) {
			info(step)
		},
	}, newLogger(verbose))

	if clean {
		info("Cleaning output directory...")
		if err := builder.Clean(); err != nil {
			return err
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	result, err := builder.Build(ctx)
	if err != nil {
		return err
	}

	fmt.Println()
	success("Build complete in %s", result.Duration.Round(time.Millisecond))
	for _, name := range result.FailedPipelines {
		warn("pipeline %s failed, its files were skipped", name)
	}
	fmt.Println()
	fmt.Println("  Output:")
	fmt.Printf("    %s/\n", cfg.Build.Output)
	fmt.Printf("    ├── server\n")
	if result.ClientLib != "" {
		fmt.Printf("    ├── public/%s\n", filepath.Base(result.ClientLib))
	}
	fmt.Printf("    └── public/\n")
	if result.Unclaimed > 0 {
		warn("%d files were not claimed by any pipeline", result.Unclaimed)
	}
	fmt.Println()
	fmt.Println("  To run:")
	fmt.Printf("    ./%s/server\n", cfg.Build.Output)
	fmt.Println()

	return nil
}
