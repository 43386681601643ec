package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 8080
  mode: "debug"
remote:
  base_url: "https://dummyjson.com"
  timeout: "15s"
  page_size: 10
log:
  level: "info"
  format: "text"
toast:
  life_ms: 3000
`

func TestLoad_Valid(t *testing.T) {
	path := writeConfigFile(t, validYAML)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Port = %d; want 8080", cfg.Server.Port)
	}
	if cfg.Remote.BaseURL != "https://dummyjson.com" {
		t.Errorf("BaseURL = %q", cfg.Remote.BaseURL)
	}
	if cfg.Remote.PageSize != 10 {
		t.Errorf("PageSize = %d; want 10", cfg.Remote.PageSize)
	}
	if cfg.Toast.LifeMS != 3000 {
		t.Errorf("LifeMS = %d; want 3000", cfg.Toast.LifeMS)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	path := writeConfigFile(t, validYAML)

	t.Setenv("APP__SERVER__PORT", "9090")
	t.Setenv("APP__REMOTE__BASE_URL", "https://example.com/api/")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Port = %d; want env override 9090", cfg.Server.Port)
	}
	if cfg.Remote.BaseURL != "https://example.com/api" {
		t.Errorf("BaseURL = %q; want trailing slash trimmed", cfg.Remote.BaseURL)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load() error = nil; want file error")
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server: ServerConfig{Host: "127.0.0.1", Port: 8080, Mode: "debug"},
			Remote: RemoteConfig{BaseURL: "https://dummyjson.com", PageSize: 10},
			Log:    LogConfig{Level: "info", Format: "text"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(*Config) {}, false},
		{"bad mode", func(c *Config) { c.Server.Mode = "production" }, true},
		{"port too low", func(c *Config) { c.Server.Port = 0 }, true},
		{"port too high", func(c *Config) { c.Server.Port = 70000 }, true},
		{"empty host", func(c *Config) { c.Server.Host = "  " }, true},
		{"missing base url", func(c *Config) { c.Remote.BaseURL = "" }, true},
		{"relative base url", func(c *Config) { c.Remote.BaseURL = "/users" }, true},
		{"non-http scheme", func(c *Config) { c.Remote.BaseURL = "ftp://host" }, true},
		{"zero page size", func(c *Config) { c.Remote.PageSize = 0 }, true},
		{"bad remote timeout", func(c *Config) { c.Remote.Timeout = "soon" }, true},
		{"negative remote timeout", func(c *Config) { c.Remote.Timeout = "-5s" }, true},
		{"negative toast life", func(c *Config) { c.Toast.LifeMS = -1 }, true},
		{"bad log level", func(c *Config) { c.Log.Level = "verbose" }, true},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"level case-insensitive", func(c *Config) { c.Log.Level = "INFO" }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v; wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_TrimsTrailingSlash(t *testing.T) {
	cfg := &Config{
		Server: ServerConfig{Host: "h", Port: 80, Mode: "release"},
		Remote: RemoteConfig{BaseURL: "https://dummyjson.com/", PageSize: 5},
		Log:    LogConfig{Level: "warn", Format: "json"},
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Remote.BaseURL != "https://dummyjson.com" {
		t.Errorf("BaseURL = %q", cfg.Remote.BaseURL)
	}
}

func TestRemoteTimeout(t *testing.T) {
	tests := []struct {
		name    string
		timeout string
		want    time.Duration
	}{
		{"unset defaults to 15s", "", 15 * time.Second},
		{"configured value", "30s", 30 * time.Second},
		{"unparsable falls back", "soon", 15 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Remote: RemoteConfig{Timeout: tt.timeout}}
			if got := cfg.RemoteTimeout(); got != tt.want {
				t.Errorf("RemoteTimeout() = %v; want %v", got, tt.want)
			}
		})
	}
}

func TestToastLife(t *testing.T) {
	cfg := &Config{}
	if got := cfg.ToastLife(); got != 5*time.Second {
		t.Errorf("ToastLife() = %v; want 5s default", got)
	}

	cfg.Toast.LifeMS = 2500
	if got := cfg.ToastLife(); got != 2500*time.Millisecond {
		t.Errorf("ToastLife() = %v; want 2.5s", got)
	}
}
