package render_loop

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/profiler"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"go.uber.org/zap"
)

// ErrAlreadyStarted is returned by Start on a loop that has left the idle state.
var ErrAlreadyStarted = errors.New("render loop already started")

// State is the lifecycle position of a RenderLoop.
type State int32

const (
	// StateIdle is a constructed loop that has not been started.
	StateIdle State = iota
	// StateRunning draws one frame per Step.
	StateRunning
	// StateStopped is terminal; the GPU context has been destroyed.
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// RenderLoop drives one GPUContext frame by frame from the presentation thread.
// A stopped loop is never restarted; a new session builds a new loop.
type RenderLoop interface {
	// Start moves the loop from idle to running and sizes the camera to the surface.
	//
	// Returns:
	//   - error: ErrAlreadyStarted if the loop is not idle
	Start() error

	// Step runs one iteration: stop check, resize check, uniform upload, draw and present.
	// Any error from the GPU context stops the loop and is reported by Err.
	// Must be called from the presentation thread.
	//
	// Returns:
	//   - bool: true if a frame was drawn, false once the loop is stopped
	Step() bool

	// Stop requests the loop to stop. Safe to call from any goroutine and more than once.
	// The request is observed at the start of the next Step, which destroys the GPU context.
	Stop()

	// State returns the current lifecycle state.
	State() State

	// Frames returns the number of frames drawn so far.
	Frames() uint64

	// Err returns the error that stopped the loop, or nil for a requested stop.
	Err() error

	// Done is closed once the loop has stopped and the GPU context is destroyed.
	Done() <-chan struct{}
}

// renderLoop is the implementation of the RenderLoop interface.
type renderLoop struct {
	gpu    renderer.GPUContext
	camera camera.Camera
	logger *zap.Logger

	profiler  *profiler.Profiler
	onStopped func(err error)

	state         atomic.Int32
	stopRequested atomic.Bool
	frames        atomic.Uint64

	errMu sync.Mutex
	err   error

	done     chan struct{}
	doneOnce sync.Once
}

var _ RenderLoop = &renderLoop{}

// NewRenderLoop creates an idle RenderLoop over a GPU context and camera.
//
// Parameters:
//   - gpu: the context to draw with; the loop destroys it when stopping
//   - cam: the camera providing per-frame uniforms
//   - options: functional options to configure the loop
//
// Returns:
//   - RenderLoop: the idle loop
func NewRenderLoop(gpu renderer.GPUContext, cam camera.Camera, options ...RenderLoopBuilderOption) RenderLoop {
	l := &renderLoop{
		gpu:    gpu,
		camera: cam,
		logger: zap.NewNop(),
		done:   make(chan struct{}),
	}
	for _, opt := range options {
		opt(l)
	}
	return l
}

func (l *renderLoop) Start() error {
	if !l.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return ErrAlreadyStarted
	}
	l.camera.SetViewport(l.gpu.Size())
	l.logger.Debug("render loop started", zap.String("label", l.gpu.Label()))
	return nil
}

func (l *renderLoop) Step() bool {
	if l.State() != StateRunning {
		return false
	}
	if l.stopRequested.Load() {
		l.finish(nil)
		return false
	}

	resized, err := l.gpu.CheckResize()
	if err != nil {
		l.finish(err)
		return false
	}
	if resized {
		l.camera.SetViewport(l.gpu.Size())
	}

	if err := l.gpu.WriteUniforms(l.camera.Uniforms()); err != nil {
		l.finish(err)
		return false
	}
	if err := l.gpu.DrawFrame(); err != nil {
		l.finish(err)
		return false
	}

	l.frames.Add(1)
	if l.profiler != nil {
		l.profiler.Tick()
	}
	return true
}

func (l *renderLoop) Stop() {
	l.stopRequested.Store(true)
}

func (l *renderLoop) State() State {
	return State(l.state.Load())
}

func (l *renderLoop) Frames() uint64 {
	return l.frames.Load()
}

func (l *renderLoop) Err() error {
	l.errMu.Lock()
	defer l.errMu.Unlock()
	return l.err
}

func (l *renderLoop) Done() <-chan struct{} {
	return l.done
}

// finish moves the loop to its terminal state and destroys the GPU context exactly once.
func (l *renderLoop) finish(err error) {
	l.doneOnce.Do(func() {
		l.state.Store(int32(StateStopped))

		l.errMu.Lock()
		l.err = err
		l.errMu.Unlock()

		if err != nil {
			l.logger.Error("render loop failed", zap.String("label", l.gpu.Label()), zap.Uint64("frames", l.Frames()), zap.Error(err))
		} else {
			l.logger.Debug("render loop stopped", zap.String("label", l.gpu.Label()), zap.Uint64("frames", l.Frames()))
		}

		l.gpu.Destroy()
		close(l.done)
		if l.onStopped != nil {
			l.onStopped(err)
		}
	})
}
