package tools

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/hashira-dev/hashira/internal/errors"
)

// Tailwind is the standalone Tailwind CSS binary, distributed as a raw
// executable rather than an archive.
type Tailwind struct{}

func (Tailwind) Name() string { return "tailwindcss" }

func (Tailwind) BinaryName() string {
	if runtime.GOOS == "windows" {
		return "tailwindcss.exe"
	}
	return "tailwindcss"
}

func (Tailwind) DefaultVersion() Version {
	return NewVersion(3, 4, 17)
}

func (Tailwind) VersionArgs() []string {
	return []string{"--help"}
}

// ParseVersionOutput handles the "tailwindcss v3.4.17" banner on the
// first line of --help output.
func (Tailwind) ParseVersionOutput(out string) (Version, error) {
	line, _, _ := strings.Cut(strings.TrimSpace(out), "\n")
	fields := strings.Fields(line)
	for _, f := range fields {
		if strings.HasPrefix(f, "v") {
			return ParseVersion(f)
		}
	}
	return Version{}, errors.New("H222").
		WithDetail("Could not find a version in: " + line)
}

func (t Tailwind) DownloadURL(v Version) (string, error) {
	asset, err := tailwindAsset()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://github.com/tailwindlabs/tailwindcss/releases/download/v%s/%s",
		v.String(), asset), nil
}

func tailwindAsset() (string, error) {
	var osName string
	switch runtime.GOOS {
	case "linux":
		osName = "linux"
	case "darwin":
		osName = "macos"
	case "windows":
		osName = "windows"
	default:
		return "", errors.New("H220").
			WithDetail("No tailwindcss build for " + runtime.GOOS)
	}

	var arch string
	switch runtime.GOARCH {
	case "amd64":
		arch = "x64"
	case "arm64":
		arch = "arm64"
	default:
		return "", errors.New("H220").
			WithDetail("No tailwindcss build for " + runtime.GOARCH)
	}

	name := fmt.Sprintf("tailwindcss-%s-%s", osName, arch)
	if osName == "windows" {
		name += ".exe"
	}
	return name, nil
}
