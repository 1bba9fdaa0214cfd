package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	cfg := New()

	if cfg.Dev.Port != DefaultPort {
		t.Errorf("Dev.Port = %d, want %d", cfg.Dev.Port, DefaultPort)
	}
	if cfg.Dev.Host != DefaultHost {
		t.Errorf("Dev.Host = %q, want %q", cfg.Dev.Host, DefaultHost)
	}
	if cfg.Dev.ReloadPort != DefaultReloadPort {
		t.Errorf("Dev.ReloadPort = %d, want %d", cfg.Dev.ReloadPort, DefaultReloadPort)
	}
	if cfg.Build.Output != DefaultOutput {
		t.Errorf("Build.Output = %q, want %q", cfg.Build.Output, DefaultOutput)
	}
	if cfg.Build.PublicDir != DefaultPublicDir {
		t.Errorf("Build.PublicDir = %q, want %q", cfg.Build.PublicDir, DefaultPublicDir)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()

	// Loading a directory without hashira.json fails
	_, err := Load(tmpDir)
	if err == nil {
		t.Error("Expected error for missing config")
	}

	configPath := filepath.Join(tmpDir, ConfigFileName)
	configJSON := `{
  "name": "blog",
  "dev": {
    "port": 8080,
    "host": "0.0.0.0",
    "watch": ["src", "public"],
    "ignore": ["tmp"]
  },
  "build": {
    "output": "build",
    "include": ["docs/**"],
    "release": true
  },
  "deploy": {
    "bucket": "blog-static",
    "region": "us-east-1"
  }
}
`
	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}

	if cfg.Name != "blog" {
		t.Errorf("Name = %q, want %q", cfg.Name, "blog")
	}
	if cfg.Dev.Port != 8080 {
		t.Errorf("Dev.Port = %d, want %d", cfg.Dev.Port, 8080)
	}
	if cfg.Dev.Host != "0.0.0.0" {
		t.Errorf("Dev.Host = %q, want %q", cfg.Dev.Host, "0.0.0.0")
	}
	if len(cfg.Dev.Watch) != 2 || cfg.Dev.Watch[0] != "src" {
		t.Errorf("Dev.Watch = %v", cfg.Dev.Watch)
	}
	if cfg.Build.Output != "build" {
		t.Errorf("Build.Output = %q, want %q", cfg.Build.Output, "build")
	}
	if !cfg.Build.Release {
		t.Error("Build.Release should be true")
	}
	if cfg.Deploy.Bucket != "blog-static" {
		t.Errorf("Deploy.Bucket = %q", cfg.Deploy.Bucket)
	}

	// Defaults fill in what the file omits
	if cfg.Dev.ReloadPort != DefaultReloadPort {
		t.Errorf("Dev.ReloadPort = %d, want %d", cfg.Dev.ReloadPort, DefaultReloadPort)
	}
	if cfg.Dev.ReloadHost != "0.0.0.0" {
		t.Errorf("Dev.ReloadHost = %q, want %q", cfg.Dev.ReloadHost, "0.0.0.0")
	}
	if cfg.Build.PublicDir != DefaultPublicDir {
		t.Errorf("Build.PublicDir = %q, want %q", cfg.Build.PublicDir, DefaultPublicDir)
	}

	if cfg.Path() != configPath {
		t.Errorf("Path() = %q, want %q", cfg.Path(), configPath)
	}
	if cfg.Dir() != tmpDir {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), tmpDir)
	}
}

func TestLoadReloadHostExplicit(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)
	configJSON := `{"dev": {"host": "0.0.0.0", "reloadHost": "127.0.0.1"}}`
	if err := os.WriteFile(configPath, []byte(configJSON), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Dev.ReloadHost != "127.0.0.1" {
		t.Errorf("Dev.ReloadHost = %q, explicit value should win over the host", cfg.Dev.ReloadHost)
	}
}

func TestLoadMalformed(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(tmpDir)
	if err == nil {
		t.Fatal("Expected error for malformed config")
	}
	if !strings.Contains(err.Error(), "H260") {
		t.Errorf("error = %v, want H260", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)

	cfg := New()
	cfg.Name = "shop"
	cfg.Dev.Port = 4000
	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("SaveTo error: %v", err)
	}

	loaded, err := Load(tmpDir)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Name != "shop" {
		t.Errorf("Name = %q, want %q", loaded.Name, "shop")
	}
	if loaded.Dev.Port != 4000 {
		t.Errorf("Dev.Port = %d, want %d", loaded.Dev.Port, 4000)
	}

	// Saved file ends with a newline
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		t.Error("saved config should end with a newline")
	}
}

func TestValidate(t *testing.T) {
	cfg := New()
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}

	cfg.Dev.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("out-of-range port should fail validation")
	}

	cfg = New()
	cfg.Dev.ReloadPort = cfg.Dev.Port
	if err := cfg.Validate(); err == nil {
		t.Error("shared app and reload address should fail validation")
	}
}

func TestAddresses(t *testing.T) {
	cfg := New()
	cfg.Dev.Host = "localhost"
	cfg.Dev.Port = 5000
	cfg.Dev.ReloadHost = "localhost"
	cfg.Dev.ReloadPort = 5002

	if got := cfg.DevAddress(); got != "localhost:5000" {
		t.Errorf("DevAddress() = %q", got)
	}
	if got := cfg.DevURL(); got != "http://localhost:5000" {
		t.Errorf("DevURL() = %q", got)
	}
	if got := cfg.ReloadAddress(); got != "localhost:5002" {
		t.Errorf("ReloadAddress() = %q", got)
	}
}

func TestPaths(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(tmpDir)
	if err != nil {
		t.Fatal(err)
	}

	if got := cfg.OutputPath(); got != filepath.Join(tmpDir, "dist") {
		t.Errorf("OutputPath() = %q", got)
	}
	if got := cfg.PublicPath(); got != filepath.Join(tmpDir, "public") {
		t.Errorf("PublicPath() = %q", got)
	}
	if got := cfg.SrcPath(); got != filepath.Join(tmpDir, "src") {
		t.Errorf("SrcPath() = %q", got)
	}

	// Absolute output path is kept as-is
	cfg.Build.Output = tmpDir
	if got := cfg.OutputPath(); got != tmpDir {
		t.Errorf("OutputPath() = %q, want %q", got, tmpDir)
	}
}

func TestClientLibName(t *testing.T) {
	cfg := New()
	if got := cfg.ClientLibName(); got != "app" {
		t.Errorf("ClientLibName() = %q, want %q", got, "app")
	}

	cfg.Name = "my-blog"
	if got := cfg.ClientLibName(); got != "my_blog" {
		t.Errorf("ClientLibName() = %q, want %q", got, "my_blog")
	}

	cfg.Build.LibName = "custom"
	if got := cfg.ClientLibName(); got != "custom" {
		t.Errorf("ClientLibName() = %q, want %q", got, "custom")
	}
}

func TestFindProjectRoot(t *testing.T) {
	tmpDir := t.TempDir()
	nested := filepath.Join(tmpDir, "a", "b", "c")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatal(err)
	}
	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}

	root, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot error: %v", err)
	}
	if root != tmpDir {
		t.Errorf("root = %q, want %q", root, tmpDir)
	}
}

func TestExists(t *testing.T) {
	tmpDir := t.TempDir()
	if Exists(tmpDir) {
		t.Error("Exists should be false without hashira.json")
	}
	configPath := filepath.Join(tmpDir, ConfigFileName)
	if err := os.WriteFile(configPath, []byte("{}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if !Exists(tmpDir) {
		t.Error("Exists should be true with hashira.json")
	}
}
