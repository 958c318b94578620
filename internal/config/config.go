// Package config handles viewer configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all viewer settings.
type Config struct {
	Window  WindowConfig  `yaml:"window" toml:"window"`
	Render  RenderConfig  `yaml:"render" toml:"render"`
	Camera  CameraConfig  `yaml:"camera" toml:"camera"`
	Mesh    MeshConfig    `yaml:"mesh" toml:"mesh"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// WindowConfig holds window settings. Sizes are logical (screen coordinates).
type WindowConfig struct {
	Title  string `yaml:"title" toml:"title"`
	Width  int    `yaml:"width" toml:"width"`
	Height int    `yaml:"height" toml:"height"`
}

// RenderConfig holds GPU and shading settings.
type RenderConfig struct {
	Shader        string     `yaml:"shader" toml:"shader"` // shaded, uv or checker
	VSync         bool       `yaml:"vsync" toml:"vsync"`
	MSAA          int        `yaml:"msaa" toml:"msaa"` // 1 or 4
	ForceSoftware bool       `yaml:"force_software" toml:"force_software"`
	CullBackFaces bool       `yaml:"cull_back_faces" toml:"cull_back_faces"`
	FrontFaceCW   bool       `yaml:"front_face_cw" toml:"front_face_cw"`
	ClearColor    [4]float64 `yaml:"clear_color" toml:"clear_color"`
	Profile       bool       `yaml:"profile" toml:"profile"`
}

// CameraConfig holds the initial orbit camera state. Angles are in radians.
type CameraConfig struct {
	Radius float32 `yaml:"radius" toml:"radius"`
	Theta  float32 `yaml:"theta" toml:"theta"`
	Phi    float32 `yaml:"phi" toml:"phi"`
}

// MeshConfig holds mesh source settings.
type MeshConfig struct {
	Source          string `yaml:"source" toml:"source"`
	BaseDir         string `yaml:"base_dir" toml:"base_dir"`
	Watch           bool   `yaml:"watch" toml:"watch"`
	WatchDebounceMS int    `yaml:"watch_debounce_ms" toml:"watch_debounce_ms"`
	HTTPTimeoutSec  int    `yaml:"http_timeout_sec" toml:"http_timeout_sec"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Window: WindowConfig{
			Title:  "oxy-view",
			Width:  1280,
			Height: 720,
		},
		Render: RenderConfig{
			Shader:     shader.VariantShaded.String(),
			VSync:      true,
			MSAA:       4,
			ClearColor: [4]float64{0.1, 0.1, 0.1, 1},
		},
		Camera: CameraConfig{
			Radius: camera.DefaultRadius,
			Theta:  camera.DefaultTheta,
			Phi:    camera.DefaultPhi,
		},
		Mesh: MeshConfig{
			WatchDebounceMS: 250,
			HTTPTimeoutSec:  30,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Variant returns the configured shader variant.
func (c *Config) Variant() (shader.Variant, error) {
	return shader.ParseVariant(c.Render.Shader)
}

// Validate reports the first out-of-range setting.
func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalidConfig, c.Window.Width, c.Window.Height)
	}
	if _, err := c.Variant(); err != nil {
		return fmt.Errorf("%w: %w (known: %v)", ErrInvalidConfig, err, shader.Variants())
	}
	if c.Render.MSAA != 1 && c.Render.MSAA != 4 {
		return fmt.Errorf("%w: msaa must be 1 or 4, got %d", ErrInvalidConfig, c.Render.MSAA)
	}
	if c.Mesh.Source == "" {
		return fmt.Errorf("%w: no mesh source", ErrInvalidConfig)
	}
	if c.Mesh.WatchDebounceMS < 0 || c.Mesh.HTTPTimeoutSec < 0 {
		return fmt.Errorf("%w: negative duration", ErrInvalidConfig)
	}
	return nil
}
