package tools

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/hashira-dev/hashira/internal/errors"
)

// ESBuild is the bundler used to package client-side assets.
type ESBuild struct{}

func (ESBuild) Name() string { return "esbuild" }

func (ESBuild) BinaryName() string {
	if runtime.GOOS == "windows" {
		return "esbuild.exe"
	}
	return "esbuild"
}

func (ESBuild) DefaultVersion() Version {
	return NewVersion(0, 21, 5)
}

func (ESBuild) VersionArgs() []string {
	return []string{"--version"}
}

// ParseVersionOutput handles esbuild's bare "0.21.5" output.
func (ESBuild) ParseVersionOutput(out string) (Version, error) {
	return ParseVersion(strings.TrimSpace(out))
}

func (e ESBuild) DownloadURL(v Version) (string, error) {
	platform, err := esbuildPlatform()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("https://registry.npmjs.org/@esbuild/%s/-/%s-%s.tgz",
		platform, platform, v.String()), nil
}

func esbuildPlatform() (string, error) {
	var osName string
	switch runtime.GOOS {
	case "linux":
		osName = "linux"
	case "darwin":
		osName = "darwin"
	case "windows":
		osName = "win32"
	default:
		return "", errors.New("H220").
			WithDetail("No esbuild build for " + runtime.GOOS)
	}

	var arch string
	switch runtime.GOARCH {
	case "amd64":
		arch = "x64"
	case "arm64":
		arch = "arm64"
	default:
		return "", errors.New("H220").
			WithDetail("No esbuild build for " + runtime.GOARCH)
	}

	return osName + "-" + arch, nil
}
