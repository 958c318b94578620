package renderer

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-view/engine/model"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// fakeSurface is a Surface with a settable size.
type fakeSurface struct {
	width, height int
	ratio         float32
}

func (s *fakeSurface) SurfaceDescriptor() *wgpu.SurfaceDescriptor { return &wgpu.SurfaceDescriptor{} }
func (s *fakeSurface) LogicalSize() (int, int)                     { return s.width, s.height }
func (s *fakeSurface) PixelRatio() float32                         { return s.ratio }

// fakeBackend records every call instead of touching a GPU.
type fakeBackend struct {
	configures   [][2]uint32
	presentMode  PresentMode
	clearColor   wgpu.Color
	vertexData   []byte
	indexData    []byte
	meshInits    int
	bindGroups   int
	pipelines    []pipeline.Pipeline
	writes       []bind_group_provider.BufferWrite
	draws        []shader.Variant
	frames       int
	presents     int
	releases     int
	configureErr error
	beginErr     error
	pipelineErr  error
}

var _ RendererBackend = &fakeBackend{}

func (b *fakeBackend) ConfigureSurface(width, height uint32) error {
	if b.configureErr != nil {
		return b.configureErr
	}
	b.configures = append(b.configures, [2]uint32{width, height})
	return nil
}

func (b *fakeBackend) SetPresentMode(mode PresentMode) { b.presentMode = mode }
func (b *fakeBackend) SetClearColor(color wgpu.Color)  { b.clearColor = color }

func (b *fakeBackend) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, vertexCount, indexCount int) error {
	b.meshInits++
	b.vertexData = append([]byte(nil), vertexData...)
	b.indexData = append([]byte(nil), indexData...)
	provider.SetMeshBuffers(nil, nil, vertexCount, indexCount)
	return nil
}

func (b *fakeBackend) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	b.bindGroups++
	return nil
}

func (b *fakeBackend) RegisterRenderPipeline(p pipeline.Pipeline, layouts []*wgpu.BindGroupLayout) error {
	if b.pipelineErr != nil {
		return b.pipelineErr
	}
	b.pipelines = append(b.pipelines, p)
	return nil
}

func (b *fakeBackend) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.writes = append(b.writes, writes...)
}

func (b *fakeBackend) BeginFrame() error {
	if b.beginErr != nil {
		return b.beginErr
	}
	b.frames++
	return nil
}

func (b *fakeBackend) DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) {
	b.draws = append(b.draws, p.Variant())
}

func (b *fakeBackend) EndFrame() error { return nil }
func (b *fakeBackend) Present()        { b.presents++ }
func (b *fakeBackend) Release()        { b.releases++ }

func withFakeBackend(b *fakeBackend) GPUContextBuilderOption {
	return func(c *gpuContext) {
		c.newBackend = func(backendConfig) (RendererBackend, error) {
			return b, nil
		}
	}
}

func quadMesh() *model.MeshData {
	return &model.MeshData{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}},
		Normals:   [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		UVs:       [][2]float32{{0, 0}, {1, 0}, {1, 1}, {0, 1}},
		Indices:   []uint32{0, 1, 2, 0, 2, 3},
	}
}

func newTestContext(t *testing.T, surface *fakeSurface, backend *fakeBackend) GPUContext {
	t.Helper()
	c, err := NewGPUContext(surface, quadMesh(), shader.VariantShaded,
		withFakeBackend(backend),
		WithLogger(zaptest.NewLogger(t)),
	)
	require.NoError(t, err)
	return c
}

func TestNewGPUContext(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestContext(t, &fakeSurface{width: 400, height: 300, ratio: 2}, backend)

	w, h := c.Size()
	assert.Equal(t, uint32(800), w)
	assert.Equal(t, uint32(600), h)
	assert.Equal(t, [][2]uint32{{800, 600}}, backend.configures)
	assert.Equal(t, PresentModeVSync, backend.presentMode)

	assert.Equal(t, 1, backend.meshInits)
	assert.Len(t, backend.vertexData, 4*model.GPUVertexStride)
	assert.Len(t, backend.indexData, 6*4)
	assert.Equal(t, 1, backend.bindGroups)
	assert.Equal(t, 4, c.VertexCount())
	assert.Equal(t, 6, c.IndexCount())

	require.Len(t, backend.pipelines, int(shader.VariantCount))
	for i, p := range backend.pipelines {
		assert.Equal(t, shader.Variant(i), p.Variant())
	}
	assert.Equal(t, shader.VariantShaded, c.Variant())
}

func TestNewGPUContextPipelineFaceOptions(t *testing.T) {
	backend := &fakeBackend{}
	_, err := NewGPUContext(&fakeSurface{width: 400, height: 300, ratio: 1}, quadMesh(), shader.VariantShaded,
		withFakeBackend(backend),
		WithCullMode(wgpu.CullModeBack),
		WithFrontFace(wgpu.FrontFaceCW),
	)
	require.NoError(t, err)

	require.Len(t, backend.pipelines, int(shader.VariantCount))
	for _, p := range backend.pipelines {
		assert.Equal(t, wgpu.CullModeBack, p.CullMode())
		assert.Equal(t, wgpu.FrontFaceCW, p.FrontFace())
		assert.True(t, p.DepthTestEnabled())
	}
}

func TestNewGPUContextBackendFailure(t *testing.T) {
	for _, sentinel := range []error{ErrPlatformUnsupported, ErrNoAdapter, ErrNoDevice} {
		_, err := NewGPUContext(&fakeSurface{width: 1, height: 1, ratio: 1}, quadMesh(), shader.VariantShaded,
			func(c *gpuContext) {
				c.newBackend = func(backendConfig) (RendererBackend, error) { return nil, sentinel }
			},
		)
		assert.ErrorIs(t, err, sentinel)
	}
}

func TestNewGPUContextInvalidInput(t *testing.T) {
	backend := &fakeBackend{}
	surface := &fakeSurface{width: 10, height: 10, ratio: 1}

	_, err := NewGPUContext(surface, quadMesh(), shader.VariantCount, withFakeBackend(backend))
	assert.ErrorIs(t, err, shader.ErrUnknownVariant)

	bad := quadMesh()
	bad.Indices = append(bad.Indices, 9, 9, 9)
	_, err = NewGPUContext(surface, bad, shader.VariantShaded, withFakeBackend(backend))
	assert.ErrorIs(t, err, model.ErrInvalidMesh)

	// Input is rejected before any GPU resource is allocated.
	assert.Zero(t, backend.meshInits)
	assert.Empty(t, backend.configures)
}

func TestNewGPUContextReleasesOnPipelineFailure(t *testing.T) {
	backend := &fakeBackend{pipelineErr: errors.New("bad wgsl")}
	_, err := NewGPUContext(&fakeSurface{width: 10, height: 10, ratio: 1}, quadMesh(), shader.VariantShaded, withFakeBackend(backend))
	require.Error(t, err)
	assert.Equal(t, 1, backend.releases)
}

func TestSetVariantLeavesBuffersUntouched(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestContext(t, &fakeSurface{width: 64, height: 64, ratio: 1}, backend)

	vertexBefore := append([]byte(nil), backend.vertexData...)
	indexBefore := append([]byte(nil), backend.indexData...)

	require.NoError(t, c.SetVariant(shader.VariantChecker))
	assert.Equal(t, shader.VariantChecker, c.Variant())
	require.NoError(t, c.SetVariant(shader.VariantChecker))
	require.NoError(t, c.SetVariant(shader.VariantUVDebug))

	assert.Equal(t, 1, backend.meshInits)
	assert.Equal(t, vertexBefore, backend.vertexData)
	assert.Equal(t, indexBefore, backend.indexData)
	assert.Empty(t, backend.writes)
	assert.Equal(t, 4, c.VertexCount())
	assert.Equal(t, 6, c.IndexCount())

	assert.ErrorIs(t, c.SetVariant(shader.Variant(-1)), shader.ErrUnknownVariant)
	assert.Equal(t, shader.VariantUVDebug, c.Variant())
}

func TestCheckResizeIdempotent(t *testing.T) {
	backend := &fakeBackend{}
	surface := &fakeSurface{width: 100, height: 50, ratio: 1}
	c := newTestContext(t, surface, backend)

	changed, err := c.CheckResize()
	require.NoError(t, err)
	assert.False(t, changed)

	surface.width, surface.ratio = 200, 1.5
	changed, err = c.CheckResize()
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = c.CheckResize()
	require.NoError(t, err)
	assert.False(t, changed)

	assert.Equal(t, [][2]uint32{{100, 50}, {300, 75}}, backend.configures)
}

func TestCheckResizeIgnoresZeroSize(t *testing.T) {
	backend := &fakeBackend{}
	surface := &fakeSurface{width: 100, height: 50, ratio: 1}
	c := newTestContext(t, surface, backend)

	surface.width, surface.height = 0, 0
	changed, err := c.CheckResize()
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Len(t, backend.configures, 1)
}

func TestCheckResizeError(t *testing.T) {
	backend := &fakeBackend{}
	surface := &fakeSurface{width: 100, height: 50, ratio: 1}
	c := newTestContext(t, surface, backend)

	backend.configureErr = errors.New("out of memory")
	surface.width = 120
	_, err := c.CheckResize()
	assert.ErrorIs(t, err, backend.configureErr)

	w, _ := c.Size()
	assert.Equal(t, uint32(100), w)
}

func TestDrawFrame(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestContext(t, &fakeSurface{width: 64, height: 64, ratio: 1}, backend)

	require.NoError(t, c.WriteUniforms(model.GPUUniforms{LightDir: [4]float32{0, 1, 0, 0}}))
	require.Len(t, backend.writes, 1)
	assert.Len(t, backend.writes[0].Data, model.GPUUniformsSize)
	assert.Equal(t, shader.UniformBinding, backend.writes[0].Binding)

	require.NoError(t, c.DrawFrame())
	require.NoError(t, c.SetVariant(shader.VariantChecker))
	require.NoError(t, c.DrawFrame())

	assert.Equal(t, []shader.Variant{shader.VariantShaded, shader.VariantChecker}, backend.draws)
	assert.Equal(t, 2, backend.presents)
}

func TestDrawFrameBeginError(t *testing.T) {
	backend := &fakeBackend{beginErr: errors.New("surface lost")}
	c := newTestContext(t, &fakeSurface{width: 64, height: 64, ratio: 1}, backend)

	err := c.DrawFrame()
	assert.ErrorIs(t, err, backend.beginErr)
	assert.Empty(t, backend.draws)
	assert.Zero(t, backend.presents)
}

func TestDestroyIdempotent(t *testing.T) {
	backend := &fakeBackend{}
	c := newTestContext(t, &fakeSurface{width: 64, height: 64, ratio: 1}, backend)

	c.Destroy()
	c.Destroy()
	assert.True(t, c.Destroyed())
	assert.Equal(t, 1, backend.releases)

	assert.ErrorIs(t, c.DrawFrame(), ErrDestroyed)
	assert.ErrorIs(t, c.WriteUniforms(model.GPUUniforms{}), ErrDestroyed)
	assert.ErrorIs(t, c.SetVariant(shader.VariantChecker), ErrDestroyed)
	_, err := c.CheckResize()
	assert.ErrorIs(t, err, ErrDestroyed)
}

func TestPixelSize(t *testing.T) {
	w, h := PixelSize(&fakeSurface{width: 801, height: 601, ratio: 1.25})
	assert.Equal(t, uint32(1001), w)
	assert.Equal(t, uint32(751), h)

	w, h = PixelSize(&fakeSurface{width: 10, height: 20, ratio: 0})
	assert.Equal(t, uint32(10), w)
	assert.Equal(t, uint32(20), h)

	w, h = PixelSize(&fakeSurface{width: -5, height: 0, ratio: 2})
	assert.Zero(t, w)
	assert.Zero(t, h)
}
