package config

import (
	"log/slog"
	"path/filepath"
	"testing"
)

func TestSetupLogger_NilConfig(t *testing.T) {
	if _, err := SetupLogger(nil); err == nil {
		t.Fatal("SetupLogger(nil) error = nil; want error")
	}
}

func TestSetupLogger_ConsoleOnly(t *testing.T) {
	log, err := SetupLogger(&LogConfig{Level: "info", Format: "text"})
	if err != nil {
		t.Fatalf("SetupLogger() error = %v", err)
	}
	defer log.Close()

	log.Info("hello from test")
}

func TestSetupLogger_WithFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := SetupLogger(&LogConfig{
		Level:         "debug",
		Format:        "json",
		FilePath:      path,
		MaxSizeMB:     1,
		RetentionDays: 1,
		MaxBackups:    1,
	})
	if err != nil {
		t.Fatalf("SetupLogger() error = %v", err)
	}
	defer log.Close()

	log.Debug("file sink works")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"WARN", slog.LevelWarn},
		{"unknown", slog.LevelInfo},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v; want %v", tt.in, got, tt.want)
		}
	}
}
