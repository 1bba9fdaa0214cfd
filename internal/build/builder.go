package build

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/hashira-dev/hashira/internal/config"
	"github.com/hashira-dev/hashira/internal/errors"
	"github.com/hashira-dev/hashira/internal/tools"
)

// Result contains the build output.
type Result struct {
	// Duration is how long the build took.
	Duration time.Duration

	// Binary is the path to the compiled server binary.
	Binary string

	// ClientLib is the path to the compiled WebAssembly client library,
	// empty when the project has no client source.
	ClientLib string

	// Public is the packaged static assets directory.
	Public string

	// Packaged is the number of files claimed by pipelines.
	Packaged int

	// Unclaimed is the number of discovered files no pipeline claimed.
	Unclaimed int

	// FailedPipelines names the pipelines that reported an error. The
	// remaining pipelines still ran.
	FailedPipelines []string
}

// Options configures the builder.
type Options struct {
	// Release enables optimized builds.
	Release bool

	// SkipClient disables the WebAssembly client build.
	SkipClient bool

	// OnProgress is called with progress updates.
	OnProgress func(step string)
}

// Builder sequences the server build, the client build, and the
// packaging pipelines.
type Builder struct {
	config    *config.Config
	options   Options
	logger    *slog.Logger
	pipelines []Pipeline
}

// New creates a builder with the default pipeline set: stylesheets
// through Tailwind, scripts through esbuild, and the copy pipeline
// last so specialized pipelines get first claim. Tool binaries come
// from the shared cache and are installed on first use.
func New(cfg *config.Config, options Options, logger *slog.Logger) *Builder {
	if !options.Release && cfg.Build.Release {
		options.Release = true
	}
	if logger == nil {
		logger = slog.Default()
	}
	installer := tools.NewInstaller(logger)
	return &Builder{
		config:  cfg,
		options: options,
		logger:  logger,
		pipelines: []Pipeline{
			StylesheetPipeline{Resolver: installer, Minify: options.Release},
			ScriptPipeline{Resolver: installer, Minify: options.Release},
			CopyFilesPipeline{},
		},
	}
}

// AddPipeline inserts a pipeline ahead of the default copy pipeline.
func (b *Builder) AddPipeline(p Pipeline) {
	last := b.pipelines[len(b.pipelines)-1]
	b.pipelines = append(b.pipelines[:len(b.pipelines)-1], p, last)
}

// Build performs a full build into the configured output directory.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	start := time.Now()
	result := &Result{}

	outputDir := b.config.OutputPath()
	publicDir := filepath.Join(outputDir, b.config.Build.PublicDir)

	b.progress("Cleaning output directory")
	if err := os.RemoveAll(outputDir); err != nil {
		return nil, errors.New("H200").Wrap(err)
	}
	if err := os.MkdirAll(publicDir, 0755); err != nil {
		return nil, errors.New("H200").Wrap(err)
	}

	b.progress("Compiling server")
	binaryPath := filepath.Join(outputDir, serverBinaryName())
	if err := b.buildServer(ctx, binaryPath); err != nil {
		return nil, err
	}
	result.Binary = binaryPath

	if !b.options.SkipClient {
		b.progress("Compiling client library")
		clientPath, err := b.buildClient(ctx, publicDir)
		if err != nil {
			return nil, err
		}
		result.ClientLib = clientPath

		if clientPath != "" {
			if err := b.copyWasmExec(publicDir); err != nil {
				return nil, err
			}
		}
	}

	b.progress("Packaging files")
	packaged, unclaimed, failed, err := b.runPipelines(ctx, publicDir)
	if err != nil {
		return nil, err
	}
	result.Packaged = packaged
	result.Unclaimed = unclaimed
	result.FailedPipelines = failed

	result.Duration = time.Since(start)
	result.Public = publicDir
	return result, nil
}

// buildServer compiles the server binary.
func (b *Builder) buildServer(ctx context.Context, output string) error {
	args := []string{"build", "-o", output}
	if b.options.Release {
		args = append(args, "-ldflags", "-s -w", "-trimpath")
	}
	args = append(args, ".")

	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = b.config.Dir()
	cmd.Env = append(os.Environ(), "CGO_ENABLED=0")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return errors.New("H200").
			WithDetail(stderr.String()).
			Wrap(err)
	}
	return nil
}

// buildClient compiles the client library for WebAssembly. Projects
// without a client package produce no library, which is not an error.
func (b *Builder) buildClient(ctx context.Context, publicDir string) (string, error) {
	clientPkg := filepath.Join(b.config.Dir(), "client")
	if _, err := os.Stat(clientPkg); os.IsNotExist(err) {
		b.logger.Debug("no client package, skipping wasm build")
		return "", nil
	}

	output := filepath.Join(publicDir, b.config.ClientLibName()+".wasm")

	args := []string{"build", "-o", output}
	if b.options.Release {
		args = append(args, "-ldflags", "-s -w", "-trimpath")
	}
	args = append(args, "./client")

	cmd := exec.CommandContext(ctx, "go", args...)
	cmd.Dir = b.config.Dir()
	cmd.Env = append(os.Environ(), "GOOS=js", "GOARCH=wasm")

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", errors.New("H201").
			WithDetail(stderr.String()).
			Wrap(err)
	}
	return output, nil
}

// copyWasmExec copies the Go runtime's JavaScript support file next to
// the client library. Its location moved in newer Go releases, so both
// are tried.
func (b *Builder) copyWasmExec(publicDir string) error {
	out, err := exec.Command("go", "env", "GOROOT").Output()
	if err != nil {
		return errors.New("H201").
			WithDetail("Could not resolve GOROOT").
			Wrap(err)
	}
	goroot := strings.TrimSpace(string(out))

	candidates := []string{
		filepath.Join(goroot, "lib", "wasm", "wasm_exec.js"),
		filepath.Join(goroot, "misc", "wasm", "wasm_exec.js"),
	}
	for _, src := range candidates {
		if _, err := os.Stat(src); err == nil {
			return copyFile(src, filepath.Join(publicDir, "wasm_exec.js"))
		}
	}
	return errors.New("H201").
		WithDetail("wasm_exec.js not found under " + goroot)
}

// runPipelines discovers package files and feeds them through the
// pipeline set in order. A failing pipeline is logged and skipped, the
// rest still run; only a cancelled context aborts. Unclaimed files are
// logged, not dropped silently.
func (b *Builder) runPipelines(ctx context.Context, destDir string) (packaged, unclaimed int, failed []string, err error) {
	baseDir := b.config.PublicPath()

	files, err := b.discoverFiles(baseDir)
	if err != nil {
		return 0, 0, nil, err
	}

	remaining := files
	for _, p := range b.pipelines {
		var claimed, rest []string
		for _, f := range remaining {
			if p.CanProcess(f) {
				claimed = append(claimed, f)
			} else {
				rest = append(rest, f)
			}
		}
		remaining = rest

		if len(claimed) == 0 {
			continue
		}
		b.logger.Debug("running pipeline", "pipeline", p.Name(), "files", len(claimed))
		if perr := p.Process(ctx, claimed, baseDir, destDir); perr != nil {
			if ctx.Err() != nil {
				return packaged, 0, failed, ctx.Err()
			}
			b.logger.Error("pipeline failed", "pipeline", p.Name(), "error", perr)
			failed = append(failed, p.Name())
			continue
		}
		packaged += len(claimed)
	}

	for _, f := range remaining {
		b.logger.Warn("no pipeline claimed file", "file", f)
	}
	return packaged, len(remaining), failed, nil
}

// discoverFiles collects static assets plus the resolved include globs.
func (b *Builder) discoverFiles(publicSrc string) ([]string, error) {
	var files []string

	if info, err := os.Stat(publicSrc); err == nil && info.IsDir() {
		err := filepath.Walk(publicSrc, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.Mode().IsRegular() {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, errors.New("H204").Wrap(err)
		}
	}

	included, err := ResolveIncludes(b.config)
	if err != nil {
		return nil, err
	}
	return append(files, included...), nil
}

// Clean removes the build output directory.
func (b *Builder) Clean() error {
	return os.RemoveAll(b.config.OutputPath())
}

// progress reports build progress.
func (b *Builder) progress(step string) {
	if b.options.OnProgress != nil {
		b.options.OnProgress(step)
	}
}

func serverBinaryName() string {
	// The packaged binary keeps a stable name so run and deploy can
	// find it.
	return "server"
}
