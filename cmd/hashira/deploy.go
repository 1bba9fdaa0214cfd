package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hashira-dev/hashira/internal/config"
	"github.com/hashira-dev/hashira/internal/deploy"
)

func deployCmd() *cobra.Command {
	var (
		bucket  string
		prefix  string
		region  string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Upload the build output to S3",
		Long: `Upload the build output directory to an S3 bucket.

Credentials come from the standard AWS chain (environment,
shared config, instance role). The bucket, key prefix, and
region come from hashira.json and can be overridden by flags.

Examples:
  hashira deploy
  hashira deploy --bucket=my-site --prefix=v2/`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeploy(bucket, prefix, region, verbose)
		},
	}

	cmd.Flags().StringVar(&bucket, "bucket", "", "S3 bucket (default from hashira.json)")
	cmd.Flags().StringVar(&prefix, "prefix", "", "Object key prefix (default from hashira.json)")
	cmd.Flags().StringVar(&region, "region", "", "AWS region (default from hashira.json)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")

	return cmd
}

func runDeploy(bucket, prefix, region string, verbose bool) error {
	cfg, err := config.LoadFromWorkingDir()
	if err != nil {
		return err
	}
	if bucket != "" {
		cfg.Deploy.Bucket = bucket
	}
	if prefix != "" {
		cfg.Deploy.Prefix = prefix
	}
	if region != "" {
		cfg.Deploy.Region = region
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	deployer, err := deploy.New(ctx, cfg.Deploy, newLogger(verbose))
	if err != nil {
		return err
	}

	info("Uploading %s to s3://%s/%s", cfg.Build.Output, cfg.Deploy.Bucket, cfg.Deploy.Prefix)
	fmt.Println()

	result, err := deployer.Sync(ctx, cfg.OutputPath())
	if err != nil {
		return err
	}

	success("Deployed %d objects (%s) in %s",
		result.Uploaded,
		formatBytes(result.Bytes),
		result.Duration.Round(1000000))
	return nil
}

// formatBytes formats bytes as a human-readable string.
func formatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(b)/float64(div), "KMGTPE"[exp])
}
