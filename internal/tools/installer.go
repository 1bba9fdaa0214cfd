package tools

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashira-dev/hashira/internal/errors"
)

// DefaultCacheDir is the cache directory under the user's home.
const DefaultCacheDir = ".hashira/bin"

// Installer resolves tool binaries through a version-keyed local cache,
// downloading and extracting archives on a miss.
type Installer struct {
	// CacheDir is the root of the binary cache.
	CacheDir string

	// HTTPClient is used for downloads. If nil, a default client with a
	// generous timeout is used.
	HTTPClient *http.Client

	// Logger receives download progress. If nil, progress is discarded.
	Logger *slog.Logger

	mu sync.Mutex
}

// NewInstaller creates an Installer caching under ~/.hashira/bin.
func NewInstaller(logger *slog.Logger) *Installer {
	return &Installer{
		CacheDir: defaultCacheDir(),
		Logger:   logger,
	}
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", DefaultCacheDir)
	}
	return filepath.Join(home, DefaultCacheDir)
}

// binaryPath is where a given tool version lives in the cache.
func (in *Installer) binaryPath(tool Tool, v Version) string {
	return filepath.Join(in.CacheDir, tool.Name(), v.String(), tool.BinaryName())
}

// IsInstalled reports whether a tool version is present in the cache.
func (in *Installer) IsInstalled(tool Tool, v Version) bool {
	_, err := os.Stat(in.binaryPath(tool, v))
	return err == nil
}

// Get returns the path to the requested tool version, downloading and
// extracting it on a cache miss.
func (in *Installer) Get(ctx context.Context, tool Tool, v Version) (string, error) {
	in.mu.Lock()
	defer in.mu.Unlock()

	path := in.binaryPath(tool, v)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := in.install(ctx, tool, v, path); err != nil {
		return "", err
	}
	return path, nil
}

// GetDefault installs the tool's default version.
func (in *Installer) GetDefault(ctx context.Context, tool Tool) (string, error) {
	return in.Get(ctx, tool, tool.DefaultVersion())
}

func (in *Installer) install(ctx context.Context, tool Tool, v Version, destPath string) error {
	url, err := tool.DownloadURL(v)
	if err != nil {
		return err
	}

	if in.Logger != nil {
		in.Logger.Info("downloading tool", "tool", tool.Name(), "version", v.String(), "url", url)
	}

	destDir := filepath.Dir(destPath)
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return errors.New("H223").Wrap(err)
	}

	archivePath, size, err := in.download(ctx, url, destDir)
	if err != nil {
		return err
	}
	defer os.Remove(archivePath)

	if in.Logger != nil {
		in.Logger.Info("downloaded tool archive", "tool", tool.Name(), "size_mb", fmt.Sprintf("%.1f", float64(size)/1024/1024))
	}

	extracted, err := ExtractFile(archivePath, destDir, tool.BinaryName())
	if err != nil {
		return err
	}

	if err := os.Chmod(extracted, 0755); err != nil {
		return errors.New("H220").Wrap(err)
	}

	if extracted != destPath {
		if err := os.Rename(extracted, destPath); err != nil {
			return errors.New("H220").Wrap(err)
		}
	}

	if in.Logger != nil {
		in.Logger.Info("installed tool", "tool", tool.Name(), "path", destPath)
	}
	return nil
}

// download fetches url into a temp file inside dir and returns its path.
func (in *Installer) download(ctx context.Context, url, dir string) (string, int64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", 0, errors.New("H220").Wrap(err)
	}

	client := in.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Minute}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", 0, errors.New("H220").Wrap(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, errors.New("H220").
			WithDetail(fmt.Sprintf("Download failed with status %d (URL: %s)", resp.StatusCode, url))
	}

	f, err := os.CreateTemp(dir, "download-*"+archiveSuffix(url))
	if err != nil {
		return "", 0, errors.New("H220").Wrap(err)
	}

	written, err := io.Copy(f, resp.Body)
	f.Close()
	if err != nil {
		os.Remove(f.Name())
		return "", 0, errors.New("H220").Wrap(err)
	}

	return f.Name(), written, nil
}

// archiveSuffix preserves the archive extension so extraction can
// dispatch on it.
func archiveSuffix(url string) string {
	switch {
	case strings.HasSuffix(url, ".tar.gz"):
		return ".tar.gz"
	case strings.HasSuffix(url, ".tgz"):
		return ".tgz"
	case strings.HasSuffix(url, ".zip"):
		return ".zip"
	default:
		return ""
	}
}
