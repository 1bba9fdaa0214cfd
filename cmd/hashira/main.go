package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	hashiraerrors "github.com/hashira-dev/hashira/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ╦ ╦┌─┐┌─┐┬ ┬┬┬─┐┌─┐
  ╠═╣├─┤└─┐├─┤│├┬┘├─┤
  ╩ ╩┴ ┴└─┘┴ ┴┴┴└─┴ ┴
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "hashira",
		Short: "Full-stack web framework for Go",
		Long: `Hashira is a full-stack web framework for Go.

Write your pages and API handlers in Go, compile the client to
WebAssembly, and serve both from a single binary. Features include:

  • Route tables with typed parameters and wildcards
  • Per-status error pages with chained fallback
  • Dev server with watch, rebuild, and live reload
  • Production build and packaging pipeline
  • One-command deploy to S3`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		newCmd(),
		devCmd(),
		buildCmd(),
		runCmd(),
		deployCmd(),
		toolsCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		hashiraerrors.PrintError(err)
		os.Exit(1)
	}
}

// printBanner prints the Hashira ASCII art banner.
func printBanner() {
	fmt.Print(banner)
}

// success prints a success message.
func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}

// errorMsg prints an error message.
func errorMsg(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "\033[31m✗\033[0m %s\n", fmt.Sprintf(format, args...))
}
