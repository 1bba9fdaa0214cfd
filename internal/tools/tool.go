// Package tools resolves the external binaries the build pipeline
// depends on. Binaries are looked up in a local version-keyed cache and
// downloaded and extracted on a miss.
package tools

import (
	"context"
	"os/exec"
	"strings"

	"github.com/hashira-dev/hashira/internal/errors"
)

// Tool describes an external binary the build pipeline can install.
type Tool interface {
	// Name is the short identifier used in logs and cache paths.
	Name() string

	// BinaryName is the executable file name, including any platform
	// suffix.
	BinaryName() string

	// DefaultVersion is the version installed when none is requested.
	DefaultVersion() Version

	// VersionArgs are the arguments that make the binary print its
	// version.
	VersionArgs() []string

	// ParseVersionOutput extracts the version from the binary's
	// version output.
	ParseVersionOutput(out string) (Version, error)

	// DownloadURL returns the archive URL for the given version on the
	// current platform.
	DownloadURL(v Version) (string, error)
}

// Probe runs an installed binary and reports the version it claims.
func Probe(ctx context.Context, tool Tool, binPath string) (Version, error) {
	out, err := exec.CommandContext(ctx, binPath, tool.VersionArgs()...).Output()
	if err != nil {
		return Version{}, errors.New("H222").
			WithDetail("Could not run " + binPath).
			Wrap(err)
	}
	return tool.ParseVersionOutput(strings.TrimSpace(string(out)))
}

// CheckVersion probes a binary and fails if it does not report the
// expected version.
func CheckVersion(ctx context.Context, tool Tool, binPath string, want Version) error {
	got, err := Probe(ctx, tool, binPath)
	if err != nil {
		return err
	}
	if !got.Equal(want) {
		return errors.New("H222").
			WithDetail(tool.Name() + " reported " + got.String() + ", expected " + want.String())
	}
	return nil
}
