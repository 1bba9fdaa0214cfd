package build

import (
	"path/filepath"
	"strings"

	"github.com/hashira-dev/hashira/internal/config"
	"github.com/hashira-dev/hashira/internal/errors"
)

// ResolveIncludes expands the configured include globs into file paths
// and applies the packaging safety checks: a match outside the project
// directory or inside the source directory is refused unless the
// corresponding override is set.
func ResolveIncludes(cfg *config.Config) ([]string, error) {
	root, err := filepath.Abs(cfg.Dir())
	if err != nil {
		return nil, err
	}
	srcDir := filepath.Join(root, config.DefaultSrcDir)

	var files []string
	for _, pattern := range cfg.Build.Include {
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(root, pattern)
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, errors.Newf(errors.CategoryBuild, "invalid include pattern %q: %v", pattern, err)
		}

		for _, match := range matches {
			abs, err := filepath.Abs(match)
			if err != nil {
				return nil, err
			}

			if !cfg.Build.AllowIncludeExternal && !isWithin(root, abs) {
				return nil, errors.New("H202").
					WithDetail(abs + " is outside " + root).
					WithSuggestion("Set build.allowIncludeExternal to package files outside the project")
			}
			if !cfg.Build.AllowIncludeSrc && isWithin(srcDir, abs) {
				return nil, errors.New("H203").
					WithDetail(abs + " is inside " + srcDir).
					WithSuggestion("Set build.allowIncludeSrc to package source files")
			}

			files = append(files, abs)
		}
	}
	return files, nil
}

// isWithin reports whether path is dir or lies under it.
func isWithin(dir, path string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (!strings.HasPrefix(rel, "..") && !filepath.IsAbs(rel))
}
