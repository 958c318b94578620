// Package main is the entry point for the oxy-view mesh viewer.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/loader"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
	"github.com/Carmen-Shannon/oxy-view/internal/config"
	"github.com/Carmen-Shannon/oxy-view/internal/logger"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

func init() {
	// Window events and surface presentation must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== oxy-view ===", zap.String("mesh", cfg.Mesh.Source))
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("viewer error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

// run opens the window, starts a session for the configured mesh and pumps frames until
// the window closes or the process is interrupted.
func run(cfg *config.Config) error {
	variant, err := cfg.Variant()
	if err != nil {
		return err
	}

	w, err := window.NewWindow(
		window.WithTitle(common.Coalesce(cfg.Window.Title, "oxy-view")),
		window.WithSize(cfg.Window.Width, cfg.Window.Height),
	)
	if err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer w.Close()

	eng := engine.NewEngine(w,
		engine.WithLogger(logger.Named("engine")),
		engine.WithLoader(loader.NewLoader(
			loader.WithLogger(logger.Named("loader")),
			loader.WithBaseDir(cfg.Mesh.BaseDir),
			loader.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.Mesh.HTTPTimeoutSec) * time.Second}),
		)),
		engine.WithProfiling(cfg.Render.Profile),
		engine.WithHotReload(cfg.Mesh.Watch, time.Duration(cfg.Mesh.WatchDebounceMS)*time.Millisecond),
		engine.WithGPUOptions(gpuOptions(cfg)...),
		engine.WithCameraOptions(
			camera.WithRadius(cfg.Camera.Radius),
			camera.WithTheta(cfg.Camera.Theta),
			camera.WithPhi(cfg.Camera.Phi),
		),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := eng.Start(ctx, cfg.Mesh.Source, int(variant))
	if err != nil {
		if errors.Is(err, engine.ErrWindowClosed) || ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("starting session: %w", err)
	}
	logger.Info("viewing mesh",
		zap.String("session", s.ID().String()),
		zap.String("variant", s.Variant().String()),
	)

	if err := eng.Run(ctx); err != nil {
		return err
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("session stopped: %w", err)
	}
	return nil
}

// gpuOptions maps the render settings onto GPU context options.
func gpuOptions(cfg *config.Config) []renderer.GPUContextBuilderOption {
	presentMode := renderer.PresentModeVSync
	if !cfg.Render.VSync {
		presentMode = renderer.PresentModeUncapped
	}
	msaa := renderer.MSAA4x
	if cfg.Render.MSAA == 1 {
		msaa = renderer.MSAAOff
	}
	cull := wgpu.CullModeNone
	if cfg.Render.CullBackFaces {
		cull = wgpu.CullModeBack
	}
	face := wgpu.FrontFaceCCW
	if cfg.Render.FrontFaceCW {
		face = wgpu.FrontFaceCW
	}
	c := cfg.Render.ClearColor
	return []renderer.GPUContextBuilderOption{
		renderer.WithPresentMode(presentMode),
		renderer.WithMSAA(msaa),
		renderer.WithForceSoftwareRenderer(cfg.Render.ForceSoftware),
		renderer.WithCullMode(cull),
		renderer.WithFrontFace(face),
		renderer.WithClearColor(wgpu.Color{R: c[0], G: c[1], B: c[2], A: c[3]}),
	}
}
