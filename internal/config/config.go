package config

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/vango-go/routesync/internal/errors"
	"github.com/vango-go/routesync/pkg/store"
)

const (
	// ConfigFileName is the name of the configuration file.
	ConfigFileName = "routesync.json"

	// DefaultAddr is the default server listen address.
	DefaultAddr = ":8080"

	// DefaultPollInterval is how often a route source is re-read.
	DefaultPollInterval = "30s"

	// DefaultNamespace is the default metrics namespace.
	DefaultNamespace = "routesync"
)

// Config represents the complete routesync.json configuration.
type Config struct {
	// Server contains HTTP server settings.
	Server ServerConfig `json:"server"`

	// Plugin contains the route sync plugin settings.
	Plugin PluginConfig `json:"plugin"`

	// Source names where the route table is loaded from.
	Source SourceConfig `json:"source"`

	// Metrics contains Prometheus settings.
	Metrics MetricsConfig `json:"metrics"`

	// Log contains logging settings.
	Log LogConfig `json:"log"`

	// configPath stores the path where the config was loaded from.
	configPath string
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `json:"addr,omitempty"`
}

// PluginConfig mirrors the serializable part of routesync.Config.
type PluginConfig struct {
	// StoreName is the store announcing route changes.
	StoreName string `json:"storeName,omitempty"`

	// StoreEvent is the event carrying the new table.
	StoreEvent string `json:"storeEvent,omitempty"`
}

// SourceConfig names a route table source.
type SourceConfig struct {
	// File is a local JSON or YAML route table.
	File string `json:"file,omitempty"`

	// S3Bucket and S3Key name a route table object in S3.
	S3Bucket string `json:"s3Bucket,omitempty"`
	S3Key    string `json:"s3Key,omitempty"`

	// S3Region defaults to AWS_REGION, then us-east-1.
	S3Region string `json:"s3Region,omitempty"`

	// PollInterval is how often the source is re-read (e.g., "30s").
	// "0" disables polling.
	PollInterval string `json:"pollInterval,omitempty"`
}

// MetricsConfig contains Prometheus settings.
type MetricsConfig struct {
	// Namespace is the metrics namespace.
	Namespace string `json:"namespace,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `json:"level,omitempty"`

	// Format is text or json.
	Format string `json:"format,omitempty"`
}

// New creates a new Config with default values.
func New() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads configuration from routesync.json in dir.
func Load(dir string) (*Config, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads configuration from the specified file path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("R010").WithDetail(path).Wrap(err)
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.New("R011").
			WithDetail("failed to parse " + path + ": " + err.Error()).
			WithSuggestion("check that the file is valid JSON")
	}

	cfg.configPath = path
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
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
		return errors.New("R011").Wrap(err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.New("R010").WithDetail(path).Wrap(err)
	}
	c.configPath = path
	return nil
}

// Path returns the path where the config was loaded from.
func (c *Config) Path() string {
	return c.configPath
}

// applyDefaults fills in default values for empty fields.
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Plugin.StoreName == "" {
		c.Plugin.StoreName = store.RoutesStoreName
	}
	if c.Plugin.StoreEvent == "" {
		c.Plugin.StoreEvent = store.ChangeEvent
	}
	if c.Source.PollInterval == "" {
		c.Source.PollInterval = DefaultPollInterval
	}
	if c.Metrics.Namespace == "" {
		c.Metrics.Namespace = DefaultNamespace
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Source.File != "" && (c.Source.S3Bucket != "" || c.Source.S3Key != "") {
		return errors.New("R011").WithDetail("source: set either file or s3Bucket/s3Key, not both")
	}
	if (c.Source.S3Bucket == "") != (c.Source.S3Key == "") {
		return errors.New("R011").WithDetail("source: s3Bucket and s3Key go together")
	}
	if _, err := c.Source.Interval(); err != nil {
		return errors.New("R011").WithDetail("source.pollInterval").Wrap(err)
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return errors.New("R011").WithDetail("log.level").Wrap(err)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.New("R011").WithDetailf("log.format %q must be text or json", c.Log.Format)
	}
	return nil
}

// Interval parses PollInterval.
func (s SourceConfig) Interval() (time.Duration, error) {
	if s.PollInterval == "" || s.PollInterval == "0" {
		return 0, nil
	}
	return time.ParseDuration(s.PollInterval)
}

// HasSource reports whether a route source is configured.
func (s SourceConfig) HasSource() bool {
	return s.File != "" || s.S3Bucket != ""
}

// NewLogger builds a slog.Logger writing to w.
func (l LogConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := parseLevel(l.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if l.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	err := level.UnmarshalText([]byte(strings.ToUpper(s)))
	return level, err
}
