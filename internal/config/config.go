// Package config handles engine configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all engine settings.
type Config struct {
	Window  WindowConfig  `yaml:"window"`
	Loop    LoopConfig    `yaml:"loop"`
	Camera  CameraConfig  `yaml:"camera"`
	Assets  AssetsConfig  `yaml:"assets"`
	Audio   AudioConfig   `yaml:"audio"`
	Logging LoggingConfig `yaml:"logging"`
	Debug   DebugConfig   `yaml:"debug"`
}

// WindowConfig holds display settings.
type WindowConfig struct {
	Title      string     `yaml:"title"`
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Fullscreen bool       `yaml:"fullscreen"`
	VSync      bool       `yaml:"vsync"`
	Background [3]float32 `yaml:"background"` // initial clear color
}

// LoopConfig holds fixed-timestep settings.
type LoopConfig struct {
	TickRate   int `yaml:"tick_rate"`    // fixed updates per second
	MaxCatchUp int `yaml:"max_catch_up"` // 0 = unbounded
}

// CameraConfig holds defaults for cameras created by the engine.
type CameraConfig struct {
	Width      float32    `yaml:"width"` // visible world width
	Near       float32    `yaml:"near"`
	Far        float32    `yaml:"far"`
	Background [4]float32 `yaml:"background"`
}

// AssetsConfig holds resource fetching settings.
type AssetsConfig struct {
	Root             string        `yaml:"root"` // directory or http(s) base URL
	Preload          []string      `yaml:"preload"`
	CoalesceInFlight bool          `yaml:"coalesce_in_flight"`
	HTTPTimeout      time.Duration `yaml:"http_timeout"`
}

// AudioConfig holds sound settings.
type AudioConfig struct {
	Enabled bool    `yaml:"enabled"`
	Volume  float64 `yaml:"volume"` // master volume, 0.0 to 1.0
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// DebugConfig holds developer tooling settings.
type DebugConfig struct {
	ScreenshotDir string `yaml:"screenshot_dir"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      "quadloop",
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			Background: [3]float32{0.0, 0.8, 0.0},
		},
		Loop: LoopConfig{
			TickRate:   60,
			MaxCatchUp: 0,
		},
		Camera: CameraConfig{
			Width:      100,
			Near:       0,
			Far:        1000,
			Background: [4]float32{0.8, 0.8, 0.8, 1.0},
		},
		Assets: AssetsConfig{
			Root:        "assets",
			HTTPTimeout: 10 * time.Second,
		},
		Audio: AudioConfig{
			Enabled: true,
			Volume:  1.0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
		Debug: DebugConfig{
			ScreenshotDir: "screenshots",
		},
	}
}

// FixedStep returns the duration of one fixed update.
func (c *Config) FixedStep() time.Duration {
	return time.Second / time.Duration(c.Loop.TickRate)
}

// Validate reports settings the engine cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Loop.TickRate <= 0 {
		errs = append(errs, fmt.Errorf("tick_rate %d must be positive", c.Loop.TickRate))
	}
	if c.Loop.MaxCatchUp < 0 {
		errs = append(errs, fmt.Errorf("max_catch_up %d must not be negative", c.Loop.MaxCatchUp))
	}
	if c.Camera.Width <= 0 {
		errs = append(errs, fmt.Errorf("camera width %g must be positive", c.Camera.Width))
	}
	if c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera far %g must exceed near %g", c.Camera.Far, c.Camera.Near))
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio volume %g must be within [0, 1]", c.Audio.Volume))
	}
	return errors.Join(errs...)
}
