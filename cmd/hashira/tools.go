package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	hashiraerrors "github.com/hashira-dev/hashira/internal/errors"
	"github.com/hashira-dev/hashira/internal/tools"
)

// knownTools maps CLI names to their tool definitions.
var knownTools = map[string]tools.Tool{
	"esbuild":     tools.ESBuild{},
	"tailwindcss": tools.Tailwind{},
}

func toolsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tools",
		Short: "Manage external tool binaries",
		Long: `Manage the external tool binaries Hashira uses.

Tools are cached per version under ~/.hashira/bin and downloaded
on first use.`,
	}

	cmd.AddCommand(toolsInstallCmd(), toolsListCmd())
	return cmd
}

func toolsInstallCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "install <tool> [version]",
		Short: "Download a tool into the cache",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tool, ok := knownTools[args[0]]
			if !ok {
				return hashiraerrors.Newf(hashiraerrors.CategoryCLI,
					"unknown tool %q", args[0])
			}

			version := tool.DefaultVersion()
			if len(args) == 2 {
				v, err := tools.ParseVersion(args[1])
				if err != nil {
					return err
				}
				version = v
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			installer := tools.NewInstaller(newLogger(verbose))
			path, err := installer.Get(ctx, tool, version)
			if err != nil {
				return err
			}
			if err := tools.CheckVersion(ctx, tool, path, version); err != nil {
				return err
			}
			success("%s %s installed at %s", tool.Name(), version.String(), path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	return cmd
}

func toolsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List known tools and their cache state",
		Run: func(cmd *cobra.Command, args []string) {
			installer := tools.NewInstaller(nil)
			for name, tool := range knownTools {
				version := tool.DefaultVersion()
				state := "not installed"
				if installer.IsInstalled(tool, version) {
					state = "installed"
				}
				fmt.Printf("  %-14s %-10s %s\n", name, version.String(), state)
			}
		},
	}
}
