package pane

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pane.toml")
	data := `
log_level = "debug"
border = "double"
mouse = false
resize_poll_ms = 100
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("level = %v, want debug", cfg.Level())
	}
	if cfg.BorderStyle() != BorderDouble {
		t.Error("border style not parsed")
	}
	if cfg.Mouse {
		t.Error("mouse should be disabled")
	}
	if cfg.PollInterval() != 100*time.Millisecond {
		t.Errorf("poll interval = %v", cfg.PollInterval())
	}
}

func TestLoadConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("log_level = ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("malformed config should return an error")
	}
}

func TestConfigFallbacks(t *testing.T) {
	c := Config{}
	if c.Level() != slog.LevelInfo {
		t.Error("empty level should default to info")
	}
	if c.BorderStyle() != BorderSingle {
		t.Error("empty border should default to single")
	}
	if c.PollInterval() != 250*time.Millisecond {
		t.Error("zero poll interval should default to 250ms")
	}
}
