package build

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/hashira-dev/hashira/internal/errors"
	"github.com/hashira-dev/hashira/internal/tools"
)

// BinaryResolver turns a tool into a runnable binary path, installing
// it into the cache on a miss. Satisfied by *tools.Installer.
type BinaryResolver interface {
	GetDefault(ctx context.Context, tool tools.Tool) (string, error)
}

// runTool executes a resolved binary and returns its combined output.
// Swapped out in tests.
type runTool func(ctx context.Context, bin string, args ...string) ([]byte, error)

func execTool(ctx context.Context, bin string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, bin, args...).CombinedOutput()
}

// destFor mirrors the copy pipeline's layout rule: keep the path
// relative to the base, fall back to the bare name outside it.
func destFor(file, baseDir, destDir string) string {
	rel, err := filepath.Rel(baseDir, file)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(file)
	}
	return filepath.Join(destDir, rel)
}

// StylesheetPipeline compiles stylesheets through the standalone
// Tailwind binary instead of copying them verbatim. The binary is
// resolved lazily, so projects without stylesheets never install it.
type StylesheetPipeline struct {
	Resolver BinaryResolver
	Minify   bool
	Run      runTool
}

func (StylesheetPipeline) Name() string { return "stylesheets" }

func (StylesheetPipeline) CanProcess(file string) bool {
	return strings.EqualFold(filepath.Ext(file), ".css")
}

func (p StylesheetPipeline) Process(ctx context.Context, files []string, baseDir, destDir string) error {
	bin, err := p.Resolver.GetDefault(ctx, tools.Tailwind{})
	if err != nil {
		return err
	}
	run := p.Run
	if run == nil {
		run = execTool
	}

	for _, file := range files {
		dest := destFor(file, baseDir, destDir)
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		args := []string{"-i", file, "-o", dest}
		if p.Minify {
			args = append(args, "--minify")
		}
		if out, err := run(ctx, bin, args...); err != nil {
			return errors.Newf(errors.CategoryBuild, "tailwindcss %s: %v: %s",
				filepath.Base(file), err, strings.TrimSpace(string(out)))
		}
	}
	return nil
}

// ScriptPipeline bundles JavaScript and TypeScript files with esbuild.
// TypeScript sources come out as .js next to where the input would
// have been copied.
type ScriptPipeline struct {
	Resolver BinaryResolver
	Minify   bool
	Run      runTool
}

func (ScriptPipeline) Name() string { return "scripts" }

func (ScriptPipeline) CanProcess(file string) bool {
	switch strings.ToLower(filepath.Ext(file)) {
	case ".js", ".mjs", ".ts":
		return true
	}
	return false
}

func (p ScriptPipeline) Process(ctx context.Context, files []string, baseDir, destDir string) error {
	bin, err := p.Resolver.GetDefault(ctx, tools.ESBuild{})
	if err != nil {
		return err
	}
	run := p.Run
	if run == nil {
		run = execTool
	}

	for _, file := range files {
		dest := destFor(file, baseDir, destDir)
		if ext := filepath.Ext(dest); strings.EqualFold(ext, ".ts") {
			dest = strings.TrimSuffix(dest, ext) + ".js"
		}
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		args := []string{file, "--bundle", "--outfile=" + dest}
		if p.Minify {
			args = append(args, "--minify")
		}
		if out, err := run(ctx, bin, args...); err != nil {
			return errors.Newf(errors.CategoryBuild, "esbuild %s: %v: %s",
				filepath.Base(file), err, strings.TrimSpace(string(out)))
		}
	}
	return nil
}
