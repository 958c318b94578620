package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/loader"
	"github.com/Carmen-Shannon/oxy-view/engine/model"
	"github.com/Carmen-Shannon/oxy-view/engine/profiler"
	"github.com/Carmen-Shannon/oxy-view/engine/render_loop"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-view/engine/window"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrSessionActive is returned by Start while a previous session has not stopped.
	ErrSessionActive = errors.New("a viewer session is already active")
	// ErrEngineRunning is returned by Run when the engine loop is already running.
	ErrEngineRunning = errors.New("engine is already running")
	// ErrWindowClosed is returned by Start when the window closes before the mesh is ready.
	ErrWindowClosed = errors.New("window closed")
)

// wheelDeltaPerNotch converts one wheel notch into the zoom delta of a pixel-mode scroll event.
const wheelDeltaPerNotch = 100

// loadPollInterval is how often the window is pumped while a mesh loads in the background.
const loadPollInterval = 10 * time.Millisecond

// gpuContextFactory builds the GPU state for a session. renderer.NewGPUContext satisfies it.
type gpuContextFactory func(surface renderer.Surface, mesh *model.MeshData, initial shader.Variant, options ...renderer.GPUContextBuilderOption) (renderer.GPUContext, error)

// engine implements the Engine interface.
// Owns the window, the mesh loader, the background worker pool and at most one active session.
type engine struct {
	mu sync.Mutex

	logger *zap.Logger
	window window.Window
	loader loader.Loader

	pool        worker.DynamicWorkerPool
	loadWorkers int
	taskID      int

	newGPUContext gpuContextFactory
	gpuOptions    []renderer.GPUContextBuilderOption
	cameraOptions []camera.CameraControllerOption

	profilingEnabled bool
	hotReload        bool
	reloadDebounce   time.Duration

	session  *session
	starting bool

	// requests carries work from other goroutines to the main thread.
	requests chan func()

	running     atomic.Bool
	quitChannel chan struct{}
	quitOnce    sync.Once
}

// Engine is the main entry point of the viewer.
// It starts viewer sessions against its window and drives them from the main thread.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Loader returns the mesh loader shared by all sessions.
	//
	// Returns:
	//   - loader.Loader: the loader instance
	Loader() loader.Loader

	// Start loads the mesh at source on a background worker, then builds the camera, the GPU
	// context and the render loop for it and binds window input to the new session.
	// The mesh is always fetched afresh; a cached copy of the same source is discarded.
	// The window keeps processing events while the mesh loads.
	// A previous session whose Stop is still pending is finished first.
	// Must be called from the main thread; other goroutines use Reload.
	//
	// Parameters:
	//   - ctx: cancels the mesh fetch
	//   - source: a file path, file:// URL, or http(s) URL
	//   - variantIndex: the initial shader variant index
	//
	// Returns:
	//   - Session: the running session
	//   - error: ErrSessionActive, shader.ErrUnknownVariant, loader.ErrFetch, loader.ErrParse,
	//     or a renderer acquisition error
	Start(ctx context.Context, source string, variantIndex int) (Session, error)

	// Session returns the active session, or nil when none is running.
	//
	// Returns:
	//   - Session: the active session or nil
	Session() Session

	// Reload re-reads the active session's mesh and restarts the session with the same
	// source, shader variant and camera state. Safe to call from any goroutine; the work
	// runs on the main thread at the next frame boundary. A failed reload keeps the
	// current session.
	Reload()

	// Run pumps window events and steps the active session once per iteration until the
	// window closes, ctx is cancelled or Quit is called. The active session is stopped
	// before Run returns. Must be called from the main thread.
	//
	// Parameters:
	//   - ctx: cancels the loop
	//
	// Returns:
	//   - error: ErrEngineRunning if Run is already active
	Run(ctx context.Context) error

	// Quit signals Run to return. Safe to call from any goroutine and more than once.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine rendering into the given window.
//
// Parameters:
//   - w: the window sessions render into and take input from
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(w window.Window, options ...EngineBuilderOption) Engine {
	e := &engine{
		logger:         zap.NewNop(),
		window:         w,
		loadWorkers:    2,
		newGPUContext:  renderer.NewGPUContext,
		reloadDebounce: defaultReloadDebounce,
		requests:       make(chan func(), 16),
		quitChannel:    make(chan struct{}),
	}
	for _, opt := range options {
		opt(e)
	}
	if e.loader == nil {
		e.loader = loader.NewLoader(loader.WithLogger(e.logger))
	}
	e.pool = worker.NewDynamicWorkerPool(e.loadWorkers, 16, time.Second)
	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Loader() loader.Loader {
	return e.loader
}

func (e *engine) Session() Session {
	if s := e.activeSession(); s != nil {
		return s
	}
	return nil
}

func (e *engine) activeSession() *session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session
}

func (e *engine) Start(ctx context.Context, source string, variantIndex int) (Session, error) {
	variant, err := shader.VariantFromIndex(variantIndex)
	if err != nil {
		return nil, err
	}

	if prev := e.activeSession(); prev != nil && prev.stopping.Load() {
		prev.stopNow()
	}

	e.mu.Lock()
	if e.session != nil || e.starting {
		e.mu.Unlock()
		return nil, ErrSessionActive
	}
	e.starting = true
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.starting = false
		e.mu.Unlock()
	}()

	e.loader.Invalidate(source)
	mesh, err := e.loadMesh(ctx, source)
	if err != nil {
		return nil, err
	}
	s, err := e.startWithMesh(source, mesh, variant, nil)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// loadMesh runs the fetch and parse on the worker pool and pumps window events until it completes.
func (e *engine) loadMesh(ctx context.Context, source string) (*model.MeshData, error) {
	type result struct {
		mesh *model.MeshData
		err  error
	}
	results := make(chan result, 1)

	e.mu.Lock()
	id := e.taskID
	e.taskID++
	e.mu.Unlock()

	e.pool.SubmitTask(worker.Task{
		ID: id,
		Do: func() (any, error) {
			mesh, err := e.loader.Load(ctx, source)
			results <- result{mesh: mesh, err: err}
			return mesh, err
		},
	})

	ticker := time.NewTicker(loadPollInterval)
	defer ticker.Stop()
	for {
		select {
		case r := <-results:
			return r.mesh, r.err
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %w", loader.ErrFetch, source, ctx.Err())
		case <-ticker.C:
			if !e.window.PollEvents() {
				return nil, ErrWindowClosed
			}
		}
	}
}

// startWithMesh builds and starts a session for an already parsed mesh. When state is non-nil
// the camera resumes from it.
func (e *engine) startWithMesh(source string, mesh *model.MeshData, variant shader.Variant, state *camera.State) (*session, error) {
	id := uuid.New()
	logger := e.logger.With(zap.String("session", id.String()))

	ctrlOptions := append([]camera.CameraControllerOption(nil), e.cameraOptions...)
	if state != nil {
		ctrlOptions = append(ctrlOptions,
			camera.WithTheta(state.Theta),
			camera.WithPhi(state.Phi),
			camera.WithRadius(state.Radius),
			camera.WithPanOffset(state.PanOffset[0], state.PanOffset[1]),
		)
	}
	cam := camera.NewCamera(camera.WithController(camera.NewCameraController(ctrlOptions...)))

	gpuOptions := append([]renderer.GPUContextBuilderOption(nil), e.gpuOptions...)
	gpuOptions = append(gpuOptions, renderer.WithLogger(logger), renderer.WithLabel("oxy-view "+id.String()[:8]))
	gpu, err := e.newGPUContext(e.window, mesh, variant, gpuOptions...)
	if err != nil {
		return nil, err
	}

	s := &session{
		id:     id,
		source: source,
		engine: e,
		logger: logger,
		gpu:    gpu,
		camera: cam,
	}

	loopOptions := []render_loop.RenderLoopBuilderOption{
		render_loop.WithLogger(logger),
		render_loop.WithOnStopped(func(err error) { e.sessionStopped(s, err) }),
	}
	if e.profilingEnabled {
		loopOptions = append(loopOptions, render_loop.WithProfiler(profiler.NewProfiler(profiler.WithLogger(logger))))
	}
	s.loop = render_loop.NewRenderLoop(gpu, cam, loopOptions...)

	if err := s.loop.Start(); err != nil {
		gpu.Destroy()
		return nil, err
	}
	e.mu.Lock()
	e.session = s
	e.mu.Unlock()
	e.bindInput(s)
	if e.hotReload {
		e.watch(s)
	}

	logger.Info("session started",
		zap.String("source", source),
		zap.Stringer("variant", variant),
		zap.Int("vertices", gpu.VertexCount()),
		zap.Int("indices", gpu.IndexCount()),
	)
	return s, nil
}

// watch starts the hot reload watcher for a local mesh source.
func (e *engine) watch(s *session) {
	path := loader.LocalPath(s.source, e.loader.BaseDir())
	if path == "" {
		s.logger.Debug("hot reload skipped for remote source", zap.String("source", s.source))
		return
	}
	id := s.id
	w, err := newMeshWatcher(path, e.reloadDebounce, s.logger, func() {
		e.post(func() { e.reload(id) })
	})
	if err != nil {
		s.logger.Warn("hot reload unavailable", zap.String("path", path), zap.Error(err))
		return
	}
	s.watcher = w
}

// bindInput routes window input to the session's camera and variant controls.
func (e *engine) bindInput(s *session) {
	ctrl := s.camera.Controller()
	e.window.SetPointerDownCallback(ctrl.PointerDown)
	e.window.SetPointerMoveCallback(ctrl.PointerMove)
	e.window.SetPointerUpCallback(ctrl.PointerUp)
	// Scrolling toward the user zooms in.
	e.window.SetScrollCallback(func(yoff float32) {
		ctrl.Wheel(-yoff * wheelDeltaPerNotch)
	})
	e.window.SetKeyDownCallback(func(keyCode uint32) {
		switch keyCode {
		case common.Key1, common.Key2, common.Key3:
			if err := s.SetVariant(int(keyCode - common.Key1)); err != nil {
				s.logger.Warn("variant switch failed", zap.Error(err))
			}
		case common.KeyR:
			ctrl.Reset()
		}
	})
}

// unbindInput removes every listener bindInput registered.
func (e *engine) unbindInput() {
	e.window.SetPointerDownCallback(nil)
	e.window.SetPointerMoveCallback(nil)
	e.window.SetPointerUpCallback(nil)
	e.window.SetScrollCallback(nil)
	e.window.SetKeyDownCallback(nil)
}

// sessionStopped runs on the main thread once a session's loop has stopped and destroyed its GPU state.
func (e *engine) sessionStopped(s *session, err error) {
	e.mu.Lock()
	current := e.session == s
	if current {
		e.session = nil
	}
	e.mu.Unlock()

	if current {
		e.unbindInput()
	}
	if s.watcher != nil {
		s.watcher.Close()
	}
	if err != nil {
		s.logger.Error("session stopped on error", zap.Uint64("frames", s.loop.Frames()), zap.Error(err))
		return
	}
	s.logger.Info("session stopped", zap.Uint64("frames", s.loop.Frames()))
}

func (e *engine) Reload() {
	e.post(func() {
		if s := e.activeSession(); s != nil {
			e.reload(s.id)
		}
	})
}

// reload restarts the session with the given ID from a fresh read of its source.
// Runs on the main thread.
func (e *engine) reload(id uuid.UUID) {
	s := e.activeSession()
	if s == nil || s.id != id {
		return
	}

	e.loader.Invalidate(s.source)
	mesh, err := e.loadMesh(context.Background(), s.source)
	if err != nil {
		s.logger.Warn("mesh reload failed, keeping current session", zap.String("source", s.source), zap.Error(err))
		return
	}

	variant := s.Variant()
	state := s.camera.Controller().State()
	s.stopNow()

	next, err := e.startWithMesh(s.source, mesh, variant, &state)
	if err != nil {
		e.logger.Error("session restart failed", zap.String("source", s.source), zap.Error(err))
		return
	}
	next.logger.Info("session reloaded", zap.String("previous", s.id.String()))
}

// post queues fn for the main thread. Requests beyond the queue capacity are dropped.
func (e *engine) post(fn func()) {
	select {
	case e.requests <- fn:
	default:
		e.logger.Warn("main thread request queue full, request dropped")
	}
}

func (e *engine) Run(ctx context.Context) error {
	if !e.running.CompareAndSwap(false, true) {
		return ErrEngineRunning
	}
	defer e.running.Store(false)

	stop := context.AfterFunc(ctx, e.Quit)
	defer stop()

	e.window.SetUpdateCallback(e.frame)
	defer e.window.SetUpdateCallback(nil)
	e.window.ProcessMessages()

	if s := e.activeSession(); s != nil {
		s.stopNow()
	}
	return nil
}

// frame is one main thread iteration: quit check, queued requests, then one session step.
func (e *engine) frame() {
	select {
	case <-e.quitChannel:
		e.window.RequestClose()
		return
	default:
	}

	for drained := false; !drained; {
		select {
		case fn := <-e.requests:
			fn()
		default:
			drained = true
		}
	}

	if s := e.activeSession(); s != nil {
		s.loop.Step()
	}
}

// Quit signals Run to return.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		close(e.quitChannel)
	})
}
