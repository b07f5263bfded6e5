// Package config loads user settings for the grapho tools from a TOML
// file and turns them into viewer configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/ha1tch/grapho/pkg/viewport"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "GRAPHO_CONFIG"

// Log levels accepted in [log] level.
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Config is the on-disk configuration.
type Config struct {
	Viewer ViewerConfig `toml:"viewer"`
	Log    LogConfig    `toml:"log"`
}

// ViewerConfig holds interaction and animation settings.
type ViewerConfig struct {
	Animations  bool    `toml:"animations"`
	NodeSize    float64 `toml:"node_size"`
	Arrows      bool    `toml:"arrows"`
	AnimationMS int     `toml:"animation_ms"`
	ThrottleMS  int     `toml:"throttle_ms"`
	ZoomFactor  float64 `toml:"zoom_factor"`
}

// Validate validates the viewer settings.
func (c *ViewerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.NodeSize, validation.Required, validation.Min(0.01), validation.Max(8.0)),
		validation.Field(&c.AnimationMS, validation.Required, validation.Min(1), validation.Max(10000)),
		validation.Field(&c.ThrottleMS, validation.Required, validation.Min(1), validation.Max(1000)),
		validation.Field(&c.ZoomFactor, validation.Required, validation.Min(1.01)),
	)
}

// LogConfig controls the slog handler.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// Validate validates the log settings.
func (c *LogConfig) Validate() error {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	return validation.ValidateStruct(c,
		validation.Field(&c.Level, validation.In(LevelDebug, LevelInfo, LevelWarn, LevelError)),
	)
}

// Validate validates the whole configuration.
func (c *Config) Validate() error {
	if err := c.Viewer.Validate(); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	return nil
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Viewer: ViewerConfig{
			Animations:  true,
			NodeSize:    1,
			AnimationMS: int(viewport.DefaultAnimationDuration / time.Millisecond),
			ThrottleMS:  int(viewport.DefaultThrottleWindow / time.Millisecond),
			ZoomFactor:  viewport.DefaultZoomFactor,
		},
		Log: LogConfig{Level: LevelInfo},
	}
}

// Path returns $GRAPHO_CONFIG, or ~/.grapho.toml.
func Path() string {
	if p := os.Getenv(EnvPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".grapho.toml"
	}
	return filepath.Join(home, ".grapho.toml")
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// Viewport converts the settings into a viewer config of the given size.
func (c *Config) Viewport(width, height float64) viewport.Config {
	vc := viewport.DefaultConfig(width, height)
	vc.Animations = c.Viewer.Animations
	vc.NodeSize = c.Viewer.NodeSize
	vc.Arrows = c.Viewer.Arrows
	vc.AnimationDuration = time.Duration(c.Viewer.AnimationMS) * time.Millisecond
	vc.ThrottleWindow = time.Duration(c.Viewer.ThrottleMS) * time.Millisecond
	vc.ZoomFactor = c.Viewer.ZoomFactor
	return vc
}

// Level maps the configured level name to a slog level.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.Log.Level) {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
