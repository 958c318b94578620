package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1280, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height)
	assert.True(t, cfg.Render.VSync)
	assert.Equal(t, 4, cfg.Render.MSAA)
	assert.Equal(t, camera.DefaultRadius, cfg.Camera.Radius)
	assert.Equal(t, 250, cfg.Mesh.WatchDebounceMS)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Empty(t, cfg.Logging.LogFile)

	v, err := cfg.Variant()
	require.NoError(t, err)
	assert.Equal(t, shader.VariantShaded, v)
}

func TestLoadFromFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oxy-view.yaml")
	content := `
window:
  width: 800
render:
  shader: checker
  vsync: false
  front_face_cw: true
mesh:
  source: models/bunny.obj
  watch: true
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg := Default()
	require.NoError(t, loadFromFile(cfg, path))

	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "unset keys keep their defaults")
	assert.Equal(t, "checker", cfg.Render.Shader)
	assert.False(t, cfg.Render.VSync)
	assert.True(t, cfg.Render.FrontFaceCW)
	assert.Equal(t, 4, cfg.Render.MSAA)
	assert.Equal(t, "models/bunny.obj", cfg.Mesh.Source)
	assert.True(t, cfg.Mesh.Watch)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadFromFileTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "oxy-view.toml")
	content := `
[render]
shader = "uv"
msaa = 1
clear_color = [1.0, 0.0, 0.0, 1.0]

[camera]
radius = 12.5

[mesh]
source = "https://example.com/teapot.obj"
http_timeout_sec = 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "uv", cfg.Render.Shader)
	assert.Equal(t, 1, cfg.Render.MSAA)
	assert.Equal(t, [4]float64{1, 0, 0, 1}, cfg.Render.ClearColor)
	assert.Equal(t, float32(12.5), cfg.Camera.Radius)
	assert.Equal(t, camera.DefaultTheta, cfg.Camera.Theta)
	assert.Equal(t, "https://example.com/teapot.obj", cfg.Mesh.Source)
	assert.Equal(t, 5, cfg.Mesh.HTTPTimeoutSec)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromFileErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, loadFromFile(Default(), filepath.Join(dir, "nope.yaml")))
	})

	t.Run("unknown extension", func(t *testing.T) {
		path := filepath.Join(dir, "oxy-view.json")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
		assert.ErrorIs(t, loadFromFile(Default(), path), ErrUnknownFormat)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("window: [unclosed"), 0644))
		assert.Error(t, loadFromFile(Default(), path))
	})
}

func TestFindConfigFile(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()

	assert.Empty(t, findConfigFile(first, second))

	tomlPath := filepath.Join(second, "oxy-view.toml")
	require.NoError(t, os.WriteFile(tomlPath, nil, 0644))
	assert.Equal(t, tomlPath, findConfigFile(first, second))

	yamlPath := filepath.Join(first, "oxy-view.yaml")
	require.NoError(t, os.WriteFile(yamlPath, nil, 0644))
	assert.Equal(t, yamlPath, findConfigFile(first, second), "earlier directories win")
}

func TestSaveToRoundTrip(t *testing.T) {
	for _, name := range []string{"nested/oxy-view.yaml", "nested/oxy-view.toml"} {
		t.Run(filepath.Ext(name), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			cfg := Default()
			cfg.Mesh.Source = "cube.obj"
			cfg.Render.Shader = "uv"
			cfg.Window.Title = "cube"

			require.NoError(t, cfg.SaveTo(path))

			loaded, err := LoadFile(path)
			require.NoError(t, err)
			assert.Equal(t, cfg, loaded)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Mesh.Source = "cube.obj"
		return cfg
	}
	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.Window.Width = 0 }},
		{"unknown shader", func(c *Config) { c.Render.Shader = "wireframe" }},
		{"msaa 2", func(c *Config) { c.Render.MSAA = 2 }},
		{"no source", func(c *Config) { c.Mesh.Source = "" }},
		{"negative debounce", func(c *Config) { c.Mesh.WatchDebounceMS = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestApplyFlags(t *testing.T) {
	setString := func(p *string, v string) {
		old := *p
		*p = v
		t.Cleanup(func() { *p = old })
	}
	setBool := func(p *bool, v bool) {
		old := *p
		*p = v
		t.Cleanup(func() { *p = old })
	}
	setInt := func(p *int, v int) {
		old := *p
		*p = v
		t.Cleanup(func() { *p = old })
	}

	setString(flagMesh, "suzanne.obj")
	setString(flagShader, "checker")
	setBool(flagDebug, true)
	setInt(flagWidth, 640)
	setBool(flagWatch, true)
	setBool(flagNoVSync, true)
	setBool(flagProfile, true)

	cfg := Default()
	applyFlags(cfg)

	assert.Equal(t, "suzanne.obj", cfg.Mesh.Source)
	assert.Equal(t, "checker", cfg.Render.Shader)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 640, cfg.Window.Width)
	assert.Equal(t, 720, cfg.Window.Height, "zero height flag keeps the config value")
	assert.True(t, cfg.Mesh.Watch)
	assert.False(t, cfg.Render.VSync)
	assert.True(t, cfg.Render.Profile)
}
