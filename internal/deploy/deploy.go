package deploy

import (
	"context"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hashira-dev/hashira/internal/config"
	hashiraerrors "github.com/hashira-dev/hashira/internal/errors"
)

// S3Client is the subset of the S3 API the deployer uses. Satisfied by
// *s3.Client; tests substitute a fake.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Result summarizes a completed sync.
type Result struct {
	// Uploaded is the number of objects written.
	Uploaded int

	// Bytes is the total payload size.
	Bytes int64

	// Duration is the wall time of the sync.
	Duration time.Duration
}

// Deployer uploads a build output directory to S3.
type Deployer struct {
	client S3Client
	cfg    config.DeployConfig
	logger *slog.Logger
}

// New creates a deployer from the project's deploy configuration,
// loading AWS credentials from the default chain.
func New(ctx context.Context, cfg config.DeployConfig, logger *slog.Logger) (*Deployer, error) {
	if cfg.Bucket == "" {
		return nil, hashiraerrors.New("H282").
			WithDetail("deploy.bucket is not set in " + config.ConfigFileName)
	}

	var loadOpts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, hashiraerrors.New("H282").Wrap(err)
	}

	return NewWithClient(s3.NewFromConfig(awsCfg), cfg, logger), nil
}

// NewWithClient creates a deployer around an existing client.
func NewWithClient(client S3Client, cfg config.DeployConfig, logger *slog.Logger) *Deployer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deployer{client: client, cfg: cfg, logger: logger}
}

// Sync uploads every file under dir to the configured bucket,
// preserving the directory layout below the key prefix.
func (d *Deployer) Sync(ctx context.Context, dir string) (*Result, error) {
	start := time.Now()

	if _, err := os.Stat(dir); err != nil {
		return nil, hashiraerrors.New("H282").
			WithDetail("build output not found, run a build first").
			Wrap(err)
	}

	result := &Result{}
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		key := d.objectKey(rel)

		if err := d.upload(ctx, path, key, info.Size()); err != nil {
			return err
		}
		result.Uploaded++
		result.Bytes += info.Size()
		return nil
	})
	if err != nil {
		if _, ok := err.(*hashiraerrors.HashiraError); ok {
			return nil, err
		}
		return nil, hashiraerrors.New("H282").Wrap(err)
	}

	result.Duration = time.Since(start)
	d.logger.Info("deploy complete",
		"bucket", d.cfg.Bucket,
		"objects", result.Uploaded,
		"bytes", result.Bytes,
		"duration", result.Duration.Round(time.Millisecond))
	return result, nil
}

func (d *Deployer) upload(ctx context.Context, path, key string, size int64) error {
	f, err := os.Open(path)
	if err != nil {
		return hashiraerrors.New("H282").Wrap(err)
	}
	defer f.Close()

	_, err = d.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(d.cfg.Bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType(path)),
	})
	if err != nil {
		return hashiraerrors.New("H282").
			WithDetail("uploading " + key).
			Wrap(err)
	}

	d.logger.Debug("uploaded", "key", key, "bytes", size)
	return nil
}

// objectKey maps a file path relative to the output dir onto its
// bucket key. Keys always use forward slashes.
func (d *Deployer) objectKey(rel string) string {
	key := filepath.ToSlash(rel)
	if d.cfg.Prefix != "" {
		key = strings.TrimSuffix(d.cfg.Prefix, "/") + "/" + key
	}
	return key
}

func contentType(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
