package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/vango-dev/reflex/internal/errors"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "reflex.json"

	// DefaultDevtoolsAddr is the default devtools listen address.
	DefaultDevtoolsAddr = "localhost:7070"

	// DefaultDevtoolsPath is the URL prefix the devtools routes mount under.
	DefaultDevtoolsPath = "/_reflex"

	// DefaultLogLevel is the default log level.
	DefaultLogLevel = "info"

	// DefaultLogFormat is the default log output format.
	DefaultLogFormat = "text"
)

// Config represents the complete reflex.json configuration.
type Config struct {
	// Devtools contains devtools server configuration.
	Devtools DevtoolsConfig `json:"devtools,omitempty"`

	// Snapshot contains initial state snapshot configuration.
	Snapshot SnapshotConfig `json:"snapshot,omitempty"`

	// Log contains logging configuration.
	Log LogConfig `json:"log,omitempty"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// DevtoolsConfig contains devtools server settings.
type DevtoolsConfig struct {
	// Addr is the address to listen on.
	Addr string `json:"addr,omitempty" validate:"required,hostname_port"`

	// Path is the URL prefix for the devtools routes.
	Path string `json:"path,omitempty" validate:"required,startswith=/"`
}

// SnapshotConfig locates the snapshot used to hydrate the demo store.
// Bucket and Key select an S3 object; otherwise Path selects a file.
type SnapshotConfig struct {
	// Path is a local snapshot file.
	Path string `json:"path,omitempty"`

	// Bucket is the S3 bucket holding the snapshot.
	Bucket string `json:"bucket,omitempty" validate:"required_with=Key"`

	// Key is the S3 object key.
	Key string `json:"key,omitempty" validate:"required_with=Bucket"`

	// Region is the S3 region.
	Region string `json:"region,omitempty"`

	// Endpoint overrides the S3 endpoint (MinIO, LocalStack).
	Endpoint string `json:"endpoint,omitempty" validate:"omitempty,url"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level,omitempty" validate:"oneof=debug info warn error"`

	// Format is text or json.
	Format string `json:"format,omitempty" validate:"oneof=text json"`
}

// New creates a new Config with default values.
func New() *Config {
	return &Config{
		Devtools: DevtoolsConfig{
			Addr: DefaultDevtoolsAddr,
			Path: DefaultDevtoolsPath,
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// Load reads configuration from the specified directory.
// It looks for reflex.json in the directory.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New("E104").
				WithDetail("No reflex.json found in " + filepath.Dir(path)).
				WithSuggestion("Create reflex.json or pass settings as flags")
		}
		return nil, errors.New("E105").Wrap(err)
	}

	cfg := New()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("E105").
			WithDetail("Failed to parse reflex.json: " + err.Error()).
			WithSuggestion("Check that reflex.json is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads reflex.json from dir, falling back to defaults when
// the file does not exist.
func LoadOrDefault(dir string) (*Config, error) {
	cfg, err := Load(dir)
	if errors.HasCode(err, "E104") {
		return New(), nil
	}
	return cfg, err
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
		return errors.New("E105").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.New("E105").Wrap(err)
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
	if c.Devtools.Addr == "" {
		c.Devtools.Addr = DefaultDevtoolsAddr
	}
	if c.Devtools.Path == "" {
		c.Devtools.Path = DefaultDevtoolsPath
	}
	if !strings.HasPrefix(c.Devtools.Path, "/") {
		c.Devtools.Path = "/" + c.Devtools.Path
	}
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
}

// HasSnapshot reports whether a snapshot source is configured.
func (c *Config) HasSnapshot() bool {
	return c.Snapshot.Path != "" || c.Snapshot.Bucket != ""
}

// UsesS3 reports whether the snapshot lives in S3.
func (c *Config) UsesS3() bool {
	return c.Snapshot.Bucket != ""
}

// SnapshotPath returns the absolute path to the snapshot file. Relative
// paths resolve against the config file's directory.
func (c *Config) SnapshotPath() string {
	path := c.Snapshot.Path
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(c.Dir(), path)
}

// Exists checks if a config file exists in the given directory.
func Exists(dir string) bool {
	_, err := os.Stat(filepath.Join(dir, ConfigFileName))
	return err == nil
}
