package build

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Pipeline processes a subset of the files discovered for packaging.
// Pipelines run in order; each claims the files its predicate accepts.
type Pipeline interface {
	// Name identifies the pipeline in logs.
	Name() string

	// CanProcess reports whether this pipeline claims the file.
	CanProcess(file string) bool

	// Process handles the claimed files. baseDir is the directory the
	// files' relative layout is computed against, destDir is the
	// packaging target.
	Process(ctx context.Context, files []string, baseDir, destDir string) error
}

// CopyFilesPipeline copies static assets into the output, preserving
// their layout relative to the base directory.
type CopyFilesPipeline struct{}

func (CopyFilesPipeline) Name() string { return "copy-files" }

// CanProcess claims every regular file. It runs last so earlier
// pipelines get first pick.
func (CopyFilesPipeline) CanProcess(file string) bool {
	return true
}

func (CopyFilesPipeline) Process(ctx context.Context, files []string, baseDir, destDir string) error {
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return err
		}

		rel, err := filepath.Rel(baseDir, file)
		if err != nil || strings.HasPrefix(rel, "..") {
			// Files outside the base keep only their name.
			rel = filepath.Base(file)
		}

		dest := filepath.Join(destDir, rel)
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}
		if err := copyFile(file, dest); err != nil {
			return err
		}
	}
	return nil
}

// copyFile copies a file preserving its mode.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
