package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/vango-go/routesync/internal/errors"
)

func TestNewDefaults(t *testing.T) {
	cfg := New()

	if cfg.Server.Addr != DefaultAddr {
		t.Errorf("Server.Addr = %q, want %q", cfg.Server.Addr, DefaultAddr)
	}
	if cfg.Plugin.StoreName != "RoutesStore" || cfg.Plugin.StoreEvent != "change" {
		t.Errorf("Plugin = %+v", cfg.Plugin)
	}
	if cfg.Metrics.Namespace != DefaultNamespace {
		t.Errorf("Metrics.Namespace = %q", cfg.Metrics.Namespace)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	content := `{
  "server": {"addr": ":9090"},
  "plugin": {"storeEvent": "routes"},
  "source": {"file": "routes.yaml", "pollInterval": "5s"},
  "log": {"level": "debug", "format": "json"}
}`
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Plugin.StoreName != "RoutesStore" {
		t.Errorf("StoreName default not applied: %q", cfg.Plugin.StoreName)
	}
	if cfg.Plugin.StoreEvent != "routes" {
		t.Errorf("StoreEvent = %q", cfg.Plugin.StoreEvent)
	}
	if d, _ := cfg.Source.Interval(); d != 5*time.Second {
		t.Errorf("Interval = %v, want 5s", d)
	}
	if cfg.Path() != filepath.Join(dir, ConfigFileName) {
		t.Errorf("Path() = %q", cfg.Path())
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(dir); !errors.HasCode(err, "R010") {
		t.Errorf("missing file error = %v, want R010", err)
	}

	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFile(path); !errors.HasCode(err, "R011") {
		t.Errorf("bad json error = %v, want R011", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"file and s3", func(c *Config) { c.Source.File = "r.json"; c.Source.S3Bucket = "b"; c.Source.S3Key = "k" }},
		{"bucket without key", func(c *Config) { c.Source.S3Bucket = "b" }},
		{"bad interval", func(c *Config) { c.Source.PollInterval = "soon" }},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.HasCode(err, "R011") {
				t.Errorf("Validate() = %v, want R011", err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	cfg.Source.S3Bucket = "routes-bucket"
	cfg.Source.S3Key = "prod/routes.json"

	if err := cfg.Save(); err == nil {
		t.Error("Save without a path should fail")
	}
	path := filepath.Join(dir, ConfigFileName)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if loaded.Source.S3Key != "prod/routes.json" || !loaded.Source.HasSource() {
		t.Errorf("Source = %+v", loaded.Source)
	}
}

func TestIntervalDisabled(t *testing.T) {
	for _, v := range []string{"", "0"} {
		d, err := SourceConfig{PollInterval: v}.Interval()
		if err != nil || d != 0 {
			t.Errorf("Interval(%q) = (%v, %v), want (0, nil)", v, d, err)
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := LogConfig{Level: "warn", Format: "json"}.NewLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("info record should be filtered at warn level")
	}
	if !strings.Contains(out, `"msg":"shown"`) {
		t.Errorf("json output missing record: %q", out)
	}
}
