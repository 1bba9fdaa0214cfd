package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashira-dev/hashira/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "hashira.json"

	// DefaultPort is the default development server port.
	DefaultPort = 5000

	// DefaultHost is the default development server host.
	DefaultHost = "127.0.0.1"

	// DefaultReloadPort is the default live reload listener port.
	DefaultReloadPort = 5002

	// DefaultOutput is the default build output directory.
	DefaultOutput = "dist"

	// DefaultPublicDir is the default static assets directory.
	DefaultPublicDir = "public"

	// DefaultSrcDir is the application source directory. Include globs
	// are refused when they match files under it.
	DefaultSrcDir = "src"
)

// Config represents the complete hashira.json configuration.
type Config struct {
	// Name is the project name. It doubles as the client library name
	// when Build.LibName is not set.
	Name string `json:"name,omitempty"`

	// Version is the project version.
	Version string `json:"version,omitempty"`

	// Dev contains development server configuration.
	Dev DevConfig `json:"dev,omitempty"`

	// Build contains build and packaging configuration.
	Build BuildConfig `json:"build,omitempty"`

	// Deploy contains deployment configuration.
	Deploy DeployConfig `json:"deploy,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DevConfig contains development server settings.
type DevConfig struct {
	// Host is the host the application binds to.
	Host string `json:"host,omitempty"`

	// Port is the port the application listens on.
	Port int `json:"port,omitempty"`

	// ReloadHost is the host the live reload listener binds to.
	ReloadHost string `json:"reloadHost,omitempty"`

	// ReloadPort is the port the live reload listener uses.
	ReloadPort int `json:"reloadPort,omitempty"`

	// Watch contains paths to watch for changes.
	Watch []string `json:"watch,omitempty"`

	// Ignore contains paths excluded from watching. The build output
	// directory is always excluded.
	Ignore []string `json:"ignore,omitempty"`
}

// BuildConfig contains build and packaging settings.
type BuildConfig struct {
	// Output is the output directory for builds.
	Output string `json:"output,omitempty"`

	// PublicDir is the directory of static assets copied into the output.
	PublicDir string `json:"publicDir,omitempty"`

	// Include contains glob patterns for extra files to package.
	Include []string `json:"include,omitempty"`

	// AllowIncludeExternal permits include globs that resolve outside
	// the project directory.
	AllowIncludeExternal bool `json:"allowIncludeExternal,omitempty"`

	// AllowIncludeSrc permits include globs that resolve inside the
	// source directory.
	AllowIncludeSrc bool `json:"allowIncludeSrc,omitempty"`

	// Release enables optimized builds.
	Release bool `json:"release,omitempty"`

	// LibName overrides the client library name.
	LibName string `json:"libName,omitempty"`
}

// DeployConfig contains deployment settings.
type DeployConfig struct {
	// Bucket is the S3 bucket the build output is uploaded to.
	Bucket string `json:"bucket,omitempty"`

	// Prefix is the object key prefix inside the bucket.
	Prefix string `json:"prefix,omitempty"`

	// Region is the AWS region of the bucket.
	Region string `json:"region,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Version: "0.1.0",
		Dev: DevConfig{
			Host:       DefaultHost,
			Port:       DefaultPort,
			ReloadHost: DefaultHost,
			ReloadPort: DefaultReloadPort,
			Watch:      []string{"."},
		},
		Build: BuildConfig{
			Output:    DefaultOutput,
			PublicDir: DefaultPublicDir,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for hashira.json in the directory.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	return LoadFile(configPath)
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("H280").
				WithDetail("No hashira.json found in " + filepath.Dir(path)).
				WithSuggestion("Run 'hashira new' to create a project or create hashira.json manually")
		}
		return nil, errors.New("H260").Wrap(err)
	}

	// Decode into a zero value so applyDefaults can tell an absent
	// field from an explicit one. ReloadHost in particular inherits
	// from Host only when the file leaves it unset.
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.New("H260").
			WithDetail("Failed to parse hashira.json: " + err.Error()).
			WithSuggestion("Check that hashira.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	return &cfg, nil
}

// Save writes the configuration to the file it was loaded from.
func (c *Config) Save() error {
	if c.configPath == "" {
		return errors.Newf(errors.CategoryConfig, "no config path set")
	}
	return c.SaveTo(c.configPath)
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.New("H260").Wrap(err)
	}

	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("H260").Wrap(err)
	}

	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// Dir returns the directory containing the config file.
func (c *Config) Dir() string {
	if c.configPath == "" {
		return ""
	}
	return filepath.Dir(c.configPath)
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Dev.Host == "" {
		c.Dev.Host = DefaultHost
	}
	if c.Dev.Port == 0 {
		c.Dev.Port = DefaultPort
	}
	if c.Dev.ReloadHost == "" {
		c.Dev.ReloadHost = c.Dev.Host
	}
	if c.Dev.ReloadPort == 0 {
		c.Dev.ReloadPort = DefaultReloadPort
	}
	if c.Dev.Watch == nil {
		c.Dev.Watch = []string{"."}
	}

	if c.Build.Output == "" {
		c.Build.Output = DefaultOutput
	}
	if c.Build.PublicDir == "" {
		c.Build.PublicDir = DefaultPublicDir
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Dev.Port < 0 || c.Dev.Port > 65535 {
		return errors.New("H262").
			WithDetail("Port must be between 0 and 65535")
	}
	if c.Dev.ReloadPort < 0 || c.Dev.ReloadPort > 65535 {
		return errors.New("H262").
			WithDetail("Reload port must be between 0 and 65535")
	}
	if c.Dev.Port == c.Dev.ReloadPort && c.Dev.Host == c.Dev.ReloadHost {
		return errors.New("H262").
			WithDetail("The application and the live reload listener cannot share an address")
	}
	return nil
}

// DevAddress returns the address string for the dev server.
func (c *Config) DevAddress() string {
	return c.Dev.Host + ":" + strconv.Itoa(c.Dev.Port)
}

// DevURL returns the full URL for the dev server.
func (c *Config) DevURL() string {
	return "http://" + c.DevAddress()
}

// ReloadAddress returns the address string for the live reload listener.
func (c *Config) ReloadAddress() string {
	return c.Dev.ReloadHost + ":" + strconv.Itoa(c.Dev.ReloadPort)
}

// OutputPath returns the absolute path to the build output directory.
func (c *Config) OutputPath() string {
	if filepath.IsAbs(c.Build.Output) {
		return c.Build.Output
	}
	return filepath.Join(c.Dir(), c.Build.Output)
}

// PublicPath returns the absolute path to the static assets directory.
func (c *Config) PublicPath() string {
	if filepath.IsAbs(c.Build.PublicDir) {
		return c.Build.PublicDir
	}
	return filepath.Join(c.Dir(), c.Build.PublicDir)
}

// SrcPath returns the absolute path to the application source directory.
func (c *Config) SrcPath() string {
	return filepath.Join(c.Dir(), DefaultSrcDir)
}

// ClientLibName returns the name of the client library, falling back to
// a sanitized project name.
func (c *Config) ClientLibName() string {
	if c.Build.LibName != "" {
		return c.Build.LibName
	}
	if c.Name != "" {
		return strings.ReplaceAll(c.Name, "-", "_")
	}
	return "app"
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	path := filepath.Join(dir, ConfigFileName)
	_, err := os.Stat(path)
	return err == nil
}

// FindProjectRoot walks up directories to find the project root.
// Returns the directory containing hashira.json, or an error if not found.
func FindProjectRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if Exists(dir) {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("H280").
				WithDetail("No hashira.json found in " + startDir + " or any parent directory").
				WithSuggestion("Run 'hashira new' to create a project")
		}
		dir = parent
	}
}

// LoadFromWorkingDir loads configuration from the current working directory.
func LoadFromWorkingDir() (*Config, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, err
	}

	root, err := FindProjectRoot(wd)
	if err != nil {
		return nil, err
	}

	return Load(root)
}
