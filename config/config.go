// Package config provides configuration loading for forcefield.
// It supports loading from YAML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/TFMV/forcefield/physics"
	"gopkg.in/yaml.v3"
)

// Config contains all forcefield settings.
type Config struct {
	// Physics holds the simulation parameters.
	Physics physics.Config `json:"physics" yaml:"physics"`

	// Logging contains settings for operational logging and frame tracing.
	Logging LoggingConfig `json:"logging" yaml:"logging"`

	// Layout controls headless runs and initial placement.
	Layout LayoutConfig `json:"layout" yaml:"layout"`

	// Server configures the HTTP front-end.
	Server ServerConfig `json:"server" yaml:"server"`

	// View configures the terminal viewer.
	View ViewConfig `json:"view" yaml:"view"`

	// Render configures file output.
	Render RenderConfig `json:"render" yaml:"render"`
}

// LoggingConfig configures logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	Level string `json:"level" yaml:"level"`

	// TracePath, when set, receives one JSON line per frame.
	TracePath string `json:"trace_path,omitempty" yaml:"trace_path,omitempty"`
}

// LayoutConfig controls headless layout runs.
type LayoutConfig struct {
	// MaxFrames bounds a headless run. Zero means run until settled.
	MaxFrames int `json:"max_frames" yaml:"max_frames"`

	// Seed drives the noise used to scatter unplaced nodes.
	Seed int64 `json:"seed" yaml:"seed"`

	// Spacing is the distance between scattered nodes.
	Spacing float32 `json:"spacing" yaml:"spacing"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Addr          string        `json:"addr" yaml:"addr"`
	FrameInterval time.Duration `json:"frame_interval" yaml:"frame_interval"`
}

// ViewConfig configures the terminal viewer.
type ViewConfig struct {
	// FPS is the target frame rate.
	FPS int `json:"fps" yaml:"fps"`

	// Scale is the number of world units per terminal cell at zoom 1.
	Scale float64 `json:"scale" yaml:"scale"`

	// HitRadius is how close, in world units, a click must land to grab a node.
	HitRadius float32 `json:"hit_radius" yaml:"hit_radius"`

	// EdgeModifier is the key held while pressing to draw an edge:
	// "ctrl" (default) or "alt".
	EdgeModifier string `json:"edge_modifier" yaml:"edge_modifier"`
}

// RenderConfig configures rendered output.
type RenderConfig struct {
	Format  string  `json:"format" yaml:"format"`
	Width   float64 `json:"width" yaml:"width"`
	Height  float64 `json:"height" yaml:"height"`
	Padding float64 `json:"padding" yaml:"padding"`
	Labels  bool    `json:"labels" yaml:"labels"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Physics: physics.DefaultConfig(),
		Logging: LoggingConfig{
			Level: "info",
		},
		Layout: LayoutConfig{
			MaxFrames: 5000,
			Seed:      1,
			Spacing:   150,
		},
		Server: ServerConfig{
			Addr:          ":8080",
			FrameInterval: time.Second / 60,
		},
		View: ViewConfig{
			FPS:          60,
			Scale:        40,
			HitRadius:    60,
			EdgeModifier: "ctrl",
		},
		Render: RenderConfig{
			Format:  "svg",
			Width:   800,
			Height:  600,
			Padding: 40,
			Labels:  true,
		},
	}
}

// Load returns defaults, overlaid with the YAML file at path when path is
// not empty, then with environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		fileCfg, err := LoadFromFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config file: %w", err)
		}
		cfg = fileCfg
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// LoadFromFile loads configuration from a specific YAML file. Fields the
// file omits keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if err := c.Physics.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("physics: %w", err))
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		errs = append(errs, fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level))
	}

	if c.Layout.MaxFrames < 0 {
		errs = append(errs, fmt.Errorf("max_frames must be non-negative, got %d", c.Layout.MaxFrames))
	}
	if !(c.Layout.Spacing > 0) {
		errs = append(errs, fmt.Errorf("spacing must be positive, got %v", c.Layout.Spacing))
	}

	if c.Server.FrameInterval <= 0 {
		errs = append(errs, fmt.Errorf("frame_interval must be positive, got %v", c.Server.FrameInterval))
	}

	if c.View.FPS <= 0 {
		errs = append(errs, fmt.Errorf("fps must be positive, got %d", c.View.FPS))
	}
	if !(c.View.Scale > 0) {
		errs = append(errs, fmt.Errorf("scale must be positive, got %v", c.View.Scale))
	}
	if c.View.HitRadius < 0 {
		errs = append(errs, fmt.Errorf("hit_radius must be non-negative, got %v", c.View.HitRadius))
	}
	if c.View.EdgeModifier != "ctrl" && c.View.EdgeModifier != "alt" {
		errs = append(errs, fmt.Errorf("invalid edge_modifier: %s (valid: ctrl, alt)", c.View.EdgeModifier))
	}

	if c.Render.Width <= 0 || c.Render.Height <= 0 {
		errs = append(errs, fmt.Errorf("render size must be positive, got %vx%v", c.Render.Width, c.Render.Height))
	}

	return errors.Join(errs...)
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FORCEFIELD_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	if v := os.Getenv("FORCEFIELD_TRACE_PATH"); v != "" {
		cfg.Logging.TracePath = v
	}

	if v := os.Getenv("FORCEFIELD_ADDR"); v != "" {
		cfg.Server.Addr = v
	}

	if v := os.Getenv("FORCEFIELD_COOLING"); v != "" {
		cfg.Physics.Cooling = v == "true" || v == "1"
	}

	if v := os.Getenv("FORCEFIELD_MAX_FRAMES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Layout.MaxFrames = n
		}
	}
}
