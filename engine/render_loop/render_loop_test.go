package render_loop

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-view/engine/camera"
	"github.com/Carmen-Shannon/oxy-view/engine/model"
	"github.com/Carmen-Shannon/oxy-view/engine/profiler"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeGPU records the frame protocol instead of touching a device.
type fakeGPU struct {
	width, height uint32
	pendingSize   *[2]uint32

	calls     []string
	uniforms  []model.GPUUniforms
	variant   shader.Variant
	destroyed int

	resizeErr error
	drawErr   error
}

var _ renderer.GPUContext = &fakeGPU{}

func (g *fakeGPU) record(call string) {
	g.calls = append(g.calls, call)
}

func (g *fakeGPU) Label() string                     { return "test" }
func (g *fakeGPU) Variant() shader.Variant           { return g.variant }
func (g *fakeGPU) SetVariant(v shader.Variant) error { g.variant = v; return nil }
func (g *fakeGPU) VertexCount() int                  { return 4 }
func (g *fakeGPU) IndexCount() int                   { return 6 }
func (g *fakeGPU) Destroyed() bool                   { return g.destroyed > 0 }
func (g *fakeGPU) Destroy()                          { g.record("destroy"); g.destroyed++ }

func (g *fakeGPU) CheckResize() (bool, error) {
	g.record("resize")
	if g.resizeErr != nil {
		return false, g.resizeErr
	}
	if g.pendingSize == nil {
		return false, nil
	}
	g.width, g.height = g.pendingSize[0], g.pendingSize[1]
	g.pendingSize = nil
	return true, nil
}

func (g *fakeGPU) Size() (uint32, uint32) {
	return g.width, g.height
}

func (g *fakeGPU) WriteUniforms(u model.GPUUniforms) error {
	g.record("uniforms")
	g.uniforms = append(g.uniforms, u)
	return nil
}

func (g *fakeGPU) DrawFrame() error {
	g.record("draw")
	return g.drawErr
}

func newTestLoop(t *testing.T, gpu *fakeGPU, cam camera.Camera, options ...RenderLoopBuilderOption) RenderLoop {
	t.Helper()
	options = append([]RenderLoopBuilderOption{WithLogger(zaptest.NewLogger(t))}, options...)
	return NewRenderLoop(gpu, cam, options...)
}

func TestStartSizesCamera(t *testing.T) {
	gpu := &fakeGPU{width: 800, height: 400}
	cam := camera.NewCamera()
	l := newTestLoop(t, gpu, cam)

	assert.Equal(t, StateIdle, l.State())
	require.NoError(t, l.Start())
	assert.Equal(t, StateRunning, l.State())
	assert.InDelta(t, 2.0, cam.Aspect(), 1e-6)

	assert.ErrorIs(t, l.Start(), ErrAlreadyStarted)
}

func TestStepBeforeStart(t *testing.T) {
	gpu := &fakeGPU{width: 1, height: 1}
	l := newTestLoop(t, gpu, camera.NewCamera())

	assert.False(t, l.Step())
	assert.Empty(t, gpu.calls)
}

func TestStepFrameOrder(t *testing.T) {
	gpu := &fakeGPU{width: 640, height: 480}
	cam := camera.NewCamera()
	l := newTestLoop(t, gpu, cam)
	require.NoError(t, l.Start())

	assert.True(t, l.Step())
	assert.True(t, l.Step())

	assert.Equal(t, []string{"resize", "uniforms", "draw", "resize", "uniforms", "draw"}, gpu.calls)
	assert.Equal(t, uint64(2), l.Frames())
	require.Len(t, gpu.uniforms, 2)
	assert.Equal(t, cam.Uniforms(), gpu.uniforms[1])
}

func TestStepAppliesResize(t *testing.T) {
	gpu := &fakeGPU{width: 100, height: 100}
	cam := camera.NewCamera()
	l := newTestLoop(t, gpu, cam)
	require.NoError(t, l.Start())
	assert.InDelta(t, 1.0, cam.Aspect(), 1e-6)

	gpu.pendingSize = &[2]uint32{300, 100}
	require.True(t, l.Step())

	assert.InDelta(t, 3.0, cam.Aspect(), 1e-6)
	assert.Equal(t, cam.Uniforms(), gpu.uniforms[0], "uniforms use the resized projection")
}

func TestStopObservedAtNextStep(t *testing.T) {
	gpu := &fakeGPU{width: 10, height: 10}
	var stoppedErr error
	stoppedCalls := 0
	l := newTestLoop(t, gpu, camera.NewCamera(), WithOnStopped(func(err error) {
		stoppedCalls++
		stoppedErr = err
	}))
	require.NoError(t, l.Start())
	require.True(t, l.Step())

	l.Stop()
	l.Stop()
	assert.Equal(t, StateRunning, l.State(), "stop is cooperative")
	assert.Equal(t, 0, gpu.destroyed)

	assert.False(t, l.Step())
	assert.False(t, l.Step())

	assert.Equal(t, StateStopped, l.State())
	assert.Equal(t, 1, gpu.destroyed)
	assert.Equal(t, 1, stoppedCalls)
	assert.NoError(t, stoppedErr)
	assert.NoError(t, l.Err())
	assert.Equal(t, uint64(1), l.Frames())
	select {
	case <-l.Done():
	default:
		t.Fatal("done channel not closed")
	}
	assert.ErrorIs(t, l.Start(), ErrAlreadyStarted, "a stopped loop never restarts")
}

func TestStopFromAnotherGoroutine(t *testing.T) {
	gpu := &fakeGPU{width: 10, height: 10}
	l := newTestLoop(t, gpu, camera.NewCamera())
	require.NoError(t, l.Start())

	stopped := make(chan struct{})
	go func() {
		l.Stop()
		close(stopped)
	}()
	<-stopped

	for l.Step() {
	}
	<-l.Done()
	assert.Equal(t, 1, gpu.destroyed)
}

func TestFrameErrorsStopTheLoop(t *testing.T) {
	boom := errors.New("device lost")
	tests := []struct {
		name  string
		gpu   *fakeGPU
		calls []string
	}{
		{
			name:  "resize",
			gpu:   &fakeGPU{width: 1, height: 1, resizeErr: boom},
			calls: []string{"resize", "destroy"},
		},
		{
			name:  "draw",
			gpu:   &fakeGPU{width: 1, height: 1, drawErr: boom},
			calls: []string{"resize", "uniforms", "draw", "destroy"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newTestLoop(t, tt.gpu, camera.NewCamera())
			require.NoError(t, l.Start())

			assert.False(t, l.Step())

			assert.Equal(t, tt.calls, tt.gpu.calls)
			assert.ErrorIs(t, l.Err(), boom)
			assert.Equal(t, StateStopped, l.State())
			assert.Equal(t, uint64(0), l.Frames())
		})
	}
}

func TestProfilerTicksPerFrame(t *testing.T) {
	gpu := &fakeGPU{width: 1, height: 1}
	p := profiler.NewProfiler()
	l := newTestLoop(t, gpu, camera.NewCamera(), WithProfiler(p))
	require.NoError(t, l.Start())

	for range 3 {
		require.True(t, l.Step())
	}
	assert.Equal(t, uint64(3), l.Frames())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "running", StateRunning.String())
	assert.Equal(t, "stopped", StateStopped.String())
	assert.Equal(t, "unknown", State(9).String())
}
