package pane

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/lmittmann/tint"
	"github.com/pkg/errors"
)

// Config is the engine configuration, loadable from a TOML file.
type Config struct {
	LogLevel     string `toml:"log_level"`     // debug, info, warn, error
	LogFile      string `toml:"log_file"`      // empty disables logging
	Border       string `toml:"border"`        // none, single, rounded, double
	Mouse        bool   `toml:"mouse"`         // enable mouse reporting
	ResizePollMs int    `toml:"resize_poll_ms"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		LogLevel:     "info",
		Border:       "single",
		Mouse:        true,
		ResizePollMs: 250,
	}
}

// LoadConfig reads a TOML config file, filling unset fields with
// defaults. A missing file is not an error: it yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrapf(err, "load config %s", path)
	}
	return cfg, nil
}

// Level parses the configured log level, defaulting to info.
func (c Config) Level() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// BorderStyle resolves the configured border name.
func (c Config) BorderStyle() BorderStyle {
	switch c.Border {
	case "none":
		return BorderNone
	case "rounded":
		return BorderRounded
	case "double":
		return BorderDouble
	default:
		return BorderSingle
	}
}

// PollInterval returns the resize poll interval.
func (c Config) PollInterval() time.Duration {
	if c.ResizePollMs <= 0 {
		return 250 * time.Millisecond
	}
	return time.Duration(c.ResizePollMs) * time.Millisecond
}

// NewLogger builds a logger per the config. The terminal belongs to the
// screen, so logs go to the configured file; with no file configured
// everything is discarded. The returned closer is non-nil when a file
// was opened.
func NewLogger(cfg Config) (*slog.Logger, io.Closer, error) {
	if cfg.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), nil, nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open log file %s", cfg.LogFile)
	}
	log := slog.New(tint.NewHandler(f, &tint.Options{
		Level:      cfg.Level(),
		TimeFormat: time.TimeOnly,
		NoColor:    true,
	}))
	return log, f, nil
}
