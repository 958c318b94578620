package engine

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/render_loop"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session is the handle of one running viewer: one mesh, one GPU context, one render loop.
type Session interface {
	// ID returns the unique identifier of the session.
	ID() uuid.UUID

	// Source returns the mesh source identifier the session was started with.
	Source() string

	// Variant returns the shader variant currently drawn.
	Variant() shader.Variant

	// SetVariant switches the shader variant. Switching to the current variant is a no-op and
	// no switch ever touches the mesh buffers.
	//
	// Parameters:
	//   - index: the variant index
	//
	// Returns:
	//   - error: shader.ErrUnknownVariant for an invalid index, renderer.ErrDestroyed after stop
	SetVariant(index int) error

	// Camera returns the session camera.
	Camera() camera.Camera

	// Frames returns the number of frames drawn so far.
	Frames() uint64

	// Stop stops the render loop at the next frame boundary, destroys the GPU state and
	// removes the session's input listeners. When the engine is not running the stop
	// completes before Stop returns; while Run is active it completes at the next frame,
	// or immediately when Engine.Start is called first. Safe to call more than once.
	Stop()

	// Done is closed once the session has fully stopped.
	Done() <-chan struct{}

	// Err returns the error that stopped the session, or nil for a requested stop.
	Err() error
}

// session implements the Session interface.
type session struct {
	id     uuid.UUID
	source string
	engine *engine
	logger *zap.Logger

	gpu     renderer.GPUContext
	camera  camera.Camera
	loop    render_loop.RenderLoop
	watcher *meshWatcher

	stopping atomic.Bool
}

var _ Session = &session{}

func (s *session) ID() uuid.UUID {
	return s.id
}

func (s *session) Source() string {
	return s.source
}

func (s *session) Variant() shader.Variant {
	return s.gpu.Variant()
}

func (s *session) SetVariant(index int) error {
	v, err := shader.VariantFromIndex(index)
	if err != nil {
		return err
	}
	return s.gpu.SetVariant(v)
}

func (s *session) Camera() camera.Camera {
	return s.camera
}

func (s *session) Frames() uint64 {
	return s.loop.Frames()
}

func (s *session) Stop() {
	s.stopping.Store(true)
	s.loop.Stop()
	if !s.engine.running.Load() {
		s.loop.Step()
	}
}

// stopNow stops the session synchronously. Must be called from the main thread.
func (s *session) stopNow() {
	s.stopping.Store(true)
	s.loop.Stop()
	s.loop.Step()
}

func (s *session) Done() <-chan struct{} {
	return s.loop.Done()
}

func (s *session) Err() error {
	return s.loop.Err()
}
