package render_loop

import (
	"github.com/Carmen-Shannon/oxy-view/engine/profiler"
	"go.uber.org/zap"
)

// RenderLoopBuilderOption is a functional option applied to a renderLoop during construction via NewRenderLoop.
type RenderLoopBuilderOption func(*renderLoop)

// WithLogger sets the structured logger for lifecycle events.
//
// Parameters:
//   - logger: the zap logger (nil keeps the no-op default)
//
// Returns:
//   - RenderLoopBuilderOption: option function to apply
func WithLogger(logger *zap.Logger) RenderLoopBuilderOption {
	return func(l *renderLoop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// WithProfiler ticks the given profiler after every drawn frame.
//
// Parameters:
//   - p: the profiler, or nil to disable
//
// Returns:
//   - RenderLoopBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) RenderLoopBuilderOption {
	return func(l *renderLoop) {
		l.profiler = p
	}
}

// WithOnStopped registers a callback invoked on the presentation thread after the loop stops
// and the GPU context is destroyed. err is nil for a requested stop.
func WithOnStopped(callback func(err error)) RenderLoopBuilderOption {
	return func(l *renderLoop) {
		l.onStopped = callback
	}
}
