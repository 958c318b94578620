package engine

import (
	"time"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/loader"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"go.uber.org/zap"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithLogger sets the structured logger shared by the engine and its sessions.
//
// Parameters:
//   - logger: the zap logger (nil keeps the no-op default)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) EngineBuilderOption {
	return func(e *engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLoader sets the mesh loader. By default the engine creates one with its logger.
//
// Parameters:
//   - l: the loader
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLoader(l loader.Loader) EngineBuilderOption {
	return func(e *engine) {
		e.loader = l
	}
}

// WithProfiling enables or disables per-session frame statistics logging.
//
// Parameters:
//   - enabled: if true, enables performance profiling
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithHotReload restarts the active session whenever its local mesh file changes.
//
// Parameters:
//   - enabled: if true, watches local mesh sources
//   - debounce: quiet period after the last change before reloading (non-positive keeps the default)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithHotReload(enabled bool, debounce time.Duration) EngineBuilderOption {
	return func(e *engine) {
		e.hotReload = enabled
		if debounce > 0 {
			e.reloadDebounce = debounce
		}
	}
}

// WithLoadWorkers sets the maximum number of background mesh loads.
//
// Parameters:
//   - n: the worker count (values < 1 are treated as 1)
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLoadWorkers(n int) EngineBuilderOption {
	return func(e *engine) {
		e.loadWorkers = max(n, 1)
	}
}

// WithGPUOptions sets options applied to every session's GPU context.
//
// Parameters:
//   - options: the renderer options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithGPUOptions(options ...renderer.GPUContextBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.gpuOptions = append(e.gpuOptions, options...)
	}
}

// WithCameraOptions sets options applied to every session's camera controller.
//
// Parameters:
//   - options: the controller options
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithCameraOptions(options ...camera.CameraControllerOption) EngineBuilderOption {
	return func(e *engine) {
		e.cameraOptions = append(e.cameraOptions, options...)
	}
}
