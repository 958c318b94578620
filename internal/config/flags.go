package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file (.yaml, .yml or .toml)")
	flagMesh    = flag.String("mesh", "", "Mesh source: local path or http(s) URL (also accepted as the first argument)")
	flagShader  = flag.String("shader", "", "Initial shader: shaded, uv or checker")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagWidth   = flag.Int("width", 0, "Window width")
	flagHeight  = flag.Int("height", 0, "Window height")
	flagWatch   = flag.Bool("watch", false, "Reload the mesh when the local file changes")
	flagNoVSync = flag.Bool("no-vsync", false, "Disable vertical sync")
	flagProfile = flag.Bool("profile", false, "Log frame statistics")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagMesh != "" {
		cfg.Mesh.Source = *flagMesh
	} else if arg := flag.Arg(0); arg != "" {
		cfg.Mesh.Source = arg
	}
	if *flagShader != "" {
		cfg.Render.Shader = *flagShader
	}
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagWidth > 0 {
		cfg.Window.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Window.Height = *flagHeight
	}
	if *flagWatch {
		cfg.Mesh.Watch = true
	}
	if *flagNoVSync {
		cfg.Render.VSync = false
	}
	if *flagProfile {
		cfg.Render.Profile = true
	}
}
