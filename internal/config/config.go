package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the top-level application configuration.
type Config struct {
	Server ServerConfig `koanf:"server"`
	Remote RemoteConfig `koanf:"remote"`
	Log    LogConfig    `koanf:"log"`
	Toast  ToastConfig  `koanf:"toast"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host       string `koanf:"host"`
	Port       int    `koanf:"port"`
	Mode       string `koanf:"mode"`
	CSRFSecret string `koanf:"csrf_secret"`
	Timeout    string `koanf:"timeout"`
}

// RemoteConfig holds settings for the upstream users API.
type RemoteConfig struct {
	BaseURL  string `koanf:"base_url"`
	Timeout  string `koanf:"timeout"`
	PageSize int    `koanf:"page_size"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level           string `koanf:"level"`
	Format          string `koanf:"format"`
	Color           *bool  `koanf:"color"`
	FilePath        string `koanf:"file_path"`
	MaxSizeMB       int    `koanf:"max_size_mb"`
	RetentionDays   int    `koanf:"retention_days"`
	MaxBackups      int    `koanf:"max_backups"`
	CompressRotated *bool  `koanf:"compress_rotated"`
}

// ToastConfig holds user-notification settings.
type ToastConfig struct {
	LifeMS int64 `koanf:"life_ms"`
}

// Load reads configuration from a YAML file and overlays environment
// variables. Environment variables use the prefix "APP__" and
// double-underscore as the hierarchy separator, so APP__REMOTE__BASE_URL
// overrides remote.base_url and APP__SERVER__PORT overrides server.port.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
	}

	if err := k.Load(env.Provider("APP__", ".", func(s string) string {
		key := strings.TrimPrefix(s, "APP__")
		key = strings.ToLower(key)
		key = strings.ReplaceAll(key, "__", ".")
		return key
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env variables: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints and normalizes values in place.
func (c *Config) Validate() error {
	// Validate server.mode.
	mode := strings.TrimSpace(c.Server.Mode)
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		c.Server.Mode = mode
	default:
		return fmt.Errorf("invalid server.mode %q: must be one of %q, %q, %q", c.Server.Mode, gin.DebugMode, gin.ReleaseMode, gin.TestMode)
	}

	// Validate server.port range.
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d: must be between 1 and 65535", c.Server.Port)
	}

	// Validate server.host.
	host := strings.TrimSpace(c.Server.Host)
	if host == "" {
		return fmt.Errorf("server.host is required")
	}
	c.Server.Host = host

	// Validate remote.base_url: absolute http(s) URL, no trailing slash.
	baseURL := strings.TrimSpace(c.Remote.BaseURL)
	if baseURL == "" {
		return fmt.Errorf("remote.base_url is required")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid remote.base_url %q: %w", c.Remote.BaseURL, err)
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return fmt.Errorf("invalid remote.base_url %q: must be an absolute http(s) URL", c.Remote.BaseURL)
	}
	c.Remote.BaseURL = strings.TrimRight(baseURL, "/")

	// Validate remote.page_size.
	if c.Remote.PageSize < 1 {
		return fmt.Errorf("invalid remote.page_size %d: must be at least 1", c.Remote.PageSize)
	}

	// Normalize optional duration fields: whitespace-only means unset.
	c.Server.Timeout = strings.TrimSpace(c.Server.Timeout)
	c.Remote.Timeout = strings.TrimSpace(c.Remote.Timeout)

	for _, d := range []struct {
		name  string
		value string
	}{
		{"server.timeout", c.Server.Timeout},
		{"remote.timeout", c.Remote.Timeout},
	} {
		if d.value == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", d.name, d.value, err)
		}
		if parsed <= 0 {
			return fmt.Errorf("invalid %s %q: must be greater than 0", d.name, d.value)
		}
	}

	// Validate toast.life_ms (optional; zero means the built-in default).
	if c.Toast.LifeMS < 0 {
		return fmt.Errorf("invalid toast.life_ms %d: must not be negative", c.Toast.LifeMS)
	}

	// Validate log.level.
	level := strings.ToLower(strings.TrimSpace(c.Log.Level))
	switch level {
	case "debug", "info", "warn", "error":
		c.Log.Level = level
	default:
		return fmt.Errorf("invalid log.level %q: must be one of %q, %q, %q, %q", c.Log.Level, "debug", "info", "warn", "error")
	}

	// Validate log.format.
	format := strings.ToLower(strings.TrimSpace(c.Log.Format))
	switch format {
	case "text", "json":
		c.Log.Format = format
	default:
		return fmt.Errorf("invalid log.format %q: must be one of %q, %q", c.Log.Format, "text", "json")
	}

	return nil
}

// RemoteTimeout returns the configured upstream call timeout, defaulting to
// 15 seconds when unset.
func (c *Config) RemoteTimeout() time.Duration {
	if c.Remote.Timeout == "" {
		return 15 * time.Second
	}
	d, err := time.ParseDuration(c.Remote.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// ToastLife returns the configured toast display lifetime, defaulting to
// five seconds when unset.
func (c *Config) ToastLife() time.Duration {
	if c.Toast.LifeMS <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Toast.LifeMS) * time.Millisecond
}
