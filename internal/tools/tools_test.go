package tools

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "0.21.5", want: "0.21.5"},
		{in: "v3.4.17", want: "3.4.17"},
		{in: "1.2", want: "1.2"},
		{in: " 1.2.3 ", want: "1.2.3"},
		{in: "1", wantErr: true},
		{in: "1.2.3.4", wantErr: true},
		{in: "a.b.c", wantErr: true},
		{in: "1.-2", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		v, err := ParseVersion(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseVersion(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseVersion(%q) error: %v", tt.in, err)
			continue
		}
		if v.String() != tt.want {
			t.Errorf("ParseVersion(%q).String() = %q, want %q", tt.in, v.String(), tt.want)
		}
	}
}

func TestVersionEqual(t *testing.T) {
	if !NewVersion(1, 2, 3).Equal(NewVersion(1, 2, 3)) {
		t.Error("identical versions should be equal")
	}
	if NewVersion(1, 2, 0).Equal(NewVersionShort(1, 2)) {
		t.Error("1.2.0 should not equal 1.2")
	}
}

// tarGzArchive builds a .tar.gz holding files at the given paths.
func tarGzArchive(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for name, data := range files {
		if err := tw.WriteHeader(&tar.Header{
			Name:     name,
			Mode:     0755,
			Size:     int64(len(data)),
			Typeflag: tar.TypeReg,
		}); err != nil {
			t.Fatal(err)
		}
		if _, err := tw.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func zipArchive(t *testing.T, files map[string][]byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, data := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := w.Write(data); err != nil {
			t.Fatal(err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExtractFile_TarGz(t *testing.T) {
	tmpDir := t.TempDir()
	archive := filepath.Join(tmpDir, "tool.tar.gz")
	data := tarGzArchive(t, map[string][]byte{
		"package/bin/mytool": []byte("binary-bytes"),
		"package/README.md":  []byte("docs"),
	})
	if err := os.WriteFile(archive, data, 0644); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(tmpDir, "out")
	if err := os.Mkdir(dest, 0755); err != nil {
		t.Fatal(err)
	}

	path, err := ExtractFile(archive, dest, "mytool")
	if err != nil {
		t.Fatalf("ExtractFile error: %v", err)
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "binary-bytes" {
		t.Errorf("extracted content = %q", got)
	}
}

func TestExtractFile_Zip(t *testing.T) {
	tmpDir := t.TempDir()
	archive := filepath.Join(tmpDir, "tool.zip")
	data := zipArchive(t, map[string][]byte{
		"dist/mytool.exe": []byte("zip-binary"),
	})
	if err := os.WriteFile(archive, data, 0644); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(tmpDir, "out")
	if err := os.Mkdir(dest, 0755); err != nil {
		t.Fatal(err)
	}

	path, err := ExtractFile(archive, dest, "mytool.exe")
	if err != nil {
		t.Fatalf("ExtractFile error: %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "zip-binary" {
		t.Errorf("extracted content = %q", got)
	}
}

func TestExtractFile_Raw(t *testing.T) {
	tmpDir := t.TempDir()
	raw := filepath.Join(tmpDir, "download-abc")
	if err := os.WriteFile(raw, []byte("raw-binary"), 0644); err != nil {
		t.Fatal(err)
	}

	dest := filepath.Join(tmpDir, "out")
	if err := os.Mkdir(dest, 0755); err != nil {
		t.Fatal(err)
	}

	path, err := ExtractFile(raw, dest, "mytool")
	if err != nil {
		t.Fatalf("ExtractFile error: %v", err)
	}
	if filepath.Base(path) != "mytool" {
		t.Errorf("extracted path = %q", path)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "raw-binary" {
		t.Errorf("extracted content = %q", got)
	}
}

func TestExtractFile_MissingDest(t *testing.T) {
	tmpDir := t.TempDir()
	raw := filepath.Join(tmpDir, "download")
	if err := os.WriteFile(raw, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ExtractFile(raw, filepath.Join(tmpDir, "nope"), "mytool")
	if err == nil {
		t.Fatal("extraction into a missing directory should fail")
	}
	if !strings.Contains(err.Error(), "H223") {
		t.Errorf("error = %v, want H223", err)
	}
}

func TestExtractFile_EntryNotInArchive(t *testing.T) {
	tmpDir := t.TempDir()
	archive := filepath.Join(tmpDir, "tool.tar.gz")
	data := tarGzArchive(t, map[string][]byte{"other": []byte("x")})
	if err := os.WriteFile(archive, data, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ExtractFile(archive, tmpDir, "mytool")
	if err == nil {
		t.Fatal("missing entry should fail")
	}
	if !strings.Contains(err.Error(), "H221") {
		t.Errorf("error = %v, want H221", err)
	}
}

// fakeTool downloads from a test server and ships as a .tar.gz.
type fakeTool struct {
	baseURL string
}

func (fakeTool) Name() string            { return "faketool" }
func (fakeTool) BinaryName() string      { return "faketool" }
func (fakeTool) DefaultVersion() Version { return NewVersion(1, 0, 0) }
func (fakeTool) VersionArgs() []string   { return []string{"--version"} }
func (fakeTool) ParseVersionOutput(out string) (Version, error) {
	return ParseVersion(out)
}
func (f fakeTool) DownloadURL(v Version) (string, error) {
	return f.baseURL + "/faketool-" + v.String() + ".tar.gz", nil
}

func TestInstaller_GetDownloadsAndCaches(t *testing.T) {
	archive := tarGzArchive(t, map[string][]byte{
		"faketool": []byte("#!/bin/sh\necho 1.0.0\n"),
	})

	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write(archive)
	}))
	defer srv.Close()

	in := &Installer{CacheDir: t.TempDir()}
	tool := fakeTool{baseURL: srv.URL}

	path, err := in.Get(context.Background(), tool, tool.DefaultVersion())
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !strings.Contains(path, filepath.Join("faketool", "1.0.0")) {
		t.Errorf("cache path = %q, should be keyed by tool and version", path)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode()&0100 == 0 {
		t.Error("installed binary should be executable")
	}

	// Second Get hits the cache, not the server.
	if _, err := in.Get(context.Background(), tool, tool.DefaultVersion()); err != nil {
		t.Fatalf("cached Get error: %v", err)
	}
	if got := atomic.LoadInt32(&hits); got != 1 {
		t.Errorf("server hits = %d, want 1", got)
	}

	if !in.IsInstalled(tool, tool.DefaultVersion()) {
		t.Error("IsInstalled should report true after install")
	}
}

func TestInstaller_GetDownloadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	in := &Installer{CacheDir: t.TempDir()}
	tool := fakeTool{baseURL: srv.URL}

	_, err := in.Get(context.Background(), tool, tool.DefaultVersion())
	if err == nil {
		t.Fatal("download failure should propagate")
	}
	if !strings.Contains(err.Error(), "H220") {
		t.Errorf("error = %v, want H220", err)
	}
}

func TestESBuildParseVersionOutput(t *testing.T) {
	v, err := ESBuild{}.ParseVersionOutput("0.21.5\n")
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "0.21.5" {
		t.Errorf("version = %q", v.String())
	}
}

func TestTailwindParseVersionOutput(t *testing.T) {
	out := "tailwindcss v3.4.17\n\nUsage:\n  tailwindcss [options]\n"
	v, err := Tailwind{}.ParseVersionOutput(out)
	if err != nil {
		t.Fatal(err)
	}
	if v.String() != "3.4.17" {
		t.Errorf("version = %q", v.String())
	}

	if _, err := (Tailwind{}).ParseVersionOutput("no version here"); err == nil {
		t.Error("missing version should fail")
	}
}

func TestArchiveSuffix(t *testing.T) {
	tests := []struct {
		url, want string
	}{
		{"https://example.com/a.tar.gz", ".tar.gz"},
		{"https://example.com/a-1.0.tgz", ".tgz"},
		{"https://example.com/a.zip", ".zip"},
		{"https://example.com/tailwindcss-linux-x64", ""},
	}
	for _, tt := range tests {
		if got := archiveSuffix(tt.url); got != tt.want {
			t.Errorf("archiveSuffix(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}

func TestDownloadURLs(t *testing.T) {
	url, err := ESBuild{}.DownloadURL(NewVersion(0, 21, 5))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(url, "registry.npmjs.org/@esbuild/") || !strings.HasSuffix(url, "-0.21.5.tgz") {
		t.Errorf("esbuild url = %q", url)
	}

	url, err = Tailwind{}.DownloadURL(NewVersion(3, 4, 17))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(url, "download/v3.4.17/tailwindcss-") {
		t.Errorf("tailwind url = %q", url)
	}
}
