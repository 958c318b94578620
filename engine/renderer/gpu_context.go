package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-view/engine/model"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// gpuContext is the implementation of the GPUContext interface.
type gpuContext struct {
	mu     *sync.Mutex
	logger *zap.Logger
	label  string

	surface     Surface
	backendType RendererBackendType
	backend     RendererBackend
	newBackend  backendFactory

	// provider holds the vertex/index buffers and the uniform bind group.
	provider  bind_group_provider.BindGroupProvider
	pipelines [shader.VariantCount]pipeline.Pipeline
	current   shader.Variant

	// width and height are the configured surface size in pixels.
	width, height uint32

	destroyed bool

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	presentMode          PresentMode
	sampleCount          MSAASampleCount
	clearColor           wgpu.Color
	cullMode             wgpu.CullMode
	frontFace            wgpu.FrontFace
}

// GPUContext owns every GPU resource of one viewer session: the device, the mesh buffers,
// the uniform buffer and bind group, the depth attachment, and one precompiled render pipeline
// per shader.Variant. Exactly one pipeline is current at a time.
//
// All methods are expected to be called from the render thread between frames.
type GPUContext interface {
	// Label returns the debug label prefixed to every GPU object.
	Label() string

	// Variant returns the shading variant whose pipeline is current.
	//
	// Returns:
	//   - shader.Variant: the current variant
	Variant() shader.Variant

	// SetVariant makes v's pipeline current. Does nothing when v is already current
	// and never touches the mesh or uniform buffers.
	//
	// Parameters:
	//   - v: the variant to select
	//
	// Returns:
	//   - error: shader.ErrUnknownVariant for an invalid variant, ErrDestroyed after Destroy
	SetVariant(v shader.Variant) error

	// CheckResize compares the surface's logical size × pixel ratio with the configured size and
	// reconfigures the surface and depth attachment when they differ. A zero-sized surface
	// (e.g. a minimized window) is ignored.
	//
	// Returns:
	//   - bool: true if the surface was reconfigured
	//   - error: ErrDestroyed after Destroy, or an attachment creation error
	CheckResize() (bool, error)

	// Size returns the configured surface size in pixels.
	//
	// Returns:
	//   - width, height: the configured size
	Size() (width, height uint32)

	// WriteUniforms uploads the 192-byte uniform block for the next draw.
	//
	// Parameters:
	//   - u: the uniform values
	//
	// Returns:
	//   - error: ErrDestroyed after Destroy
	WriteUniforms(u model.GPUUniforms) error

	// DrawFrame records and submits one render pass: clear, bind the current pipeline and
	// bind group, one indexed draw over the whole mesh. The submission does not wait for the GPU.
	//
	// Returns:
	//   - error: ErrDestroyed after Destroy, or a surface acquisition/submission error
	DrawFrame() error

	// VertexCount returns the number of vertices uploaded to the vertex buffer.
	VertexCount() int

	// IndexCount returns the number of indices drawn each frame.
	IndexCount() int

	// Destroy releases every GPU resource. Safe to call more than once.
	Destroy()

	// Destroyed reports whether Destroy has been called.
	Destroyed() bool
}

var _ GPUContext = &gpuContext{}

// NewGPUContext acquires a device for surface, uploads mesh, creates the uniform bind group,
// and compiles one pipeline per shading variant with initial as the current one.
//
// Parameters:
//   - surface: the drawable surface
//   - mesh: the mesh to upload; must satisfy MeshData.Validate
//   - initial: the initially selected variant
//   - options: variadic list of GPUContextBuilderOption functions to configure the context
//
// Returns:
//   - GPUContext: the initialized context
//   - error: ErrPlatformUnsupported, ErrNoAdapter or ErrNoDevice when GPU acquisition fails,
//     shader.ErrUnknownVariant or model.ErrInvalidMesh for bad input, or a resource creation error
func NewGPUContext(surface Surface, mesh *model.MeshData, initial shader.Variant, options ...GPUContextBuilderOption) (GPUContext, error) {
	c := &gpuContext{
		mu:          &sync.Mutex{},
		logger:      zap.NewNop(),
		label:       "oxy-view",
		surface:     surface,
		backendType: BackendTypeWGPU,
		presentMode: PresentModeVSync,
		sampleCount: MSAA4x,
		clearColor:  wgpu.Color{R: 0.1, G: 0.1, B: 0.1, A: 1.0},
		cullMode:    wgpu.CullModeNone,
		frontFace:   wgpu.FrontFaceCCW,
	}

	for _, opt := range options {
		opt(c)
	}

	if !initial.Valid() {
		return nil, fmt.Errorf("%w: %d", shader.ErrUnknownVariant, int(initial))
	}
	if mesh == nil {
		return nil, fmt.Errorf("%w: nil mesh", model.ErrInvalidMesh)
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	if c.newBackend == nil {
		switch c.backendType {
		case BackendTypeWGPU:
			fallthrough
		default:
			c.newBackend = newWGPURendererBackend
		}
	}

	backend, err := c.newBackend(backendConfig{
		surfaceDescriptor:    surface.SurfaceDescriptor(),
		forceFallbackAdapter: c.forceFallbackAdapter,
		sampleCount:          c.sampleCount,
		label:                c.label,
	})
	if err != nil {
		return nil, err
	}
	c.backend = backend
	c.current = initial

	if err := c.init(mesh); err != nil {
		c.Destroy()
		return nil, err
	}

	c.logger.Info("gpu context ready",
		zap.String("label", c.label),
		zap.Uint32("width", c.width),
		zap.Uint32("height", c.height),
		zap.Int("vertices", c.provider.VertexCount()),
		zap.Int("indices", c.provider.IndexCount()),
		zap.Stringer("variant", c.current),
	)
	return c, nil
}

// init configures the surface and creates the buffers, bind group and pipelines.
func (c *gpuContext) init(mesh *model.MeshData) error {
	c.backend.SetPresentMode(c.presentMode)
	c.backend.SetClearColor(c.clearColor)

	// The surface must be configured before any frame; a zero-sized surface starts at 1x1
	// and is corrected by the first CheckResize once it has a real size.
	width, height := PixelSize(c.surface)
	width, height = max(width, 1), max(height, 1)
	if err := c.backend.ConfigureSurface(width, height); err != nil {
		return fmt.Errorf("configure surface: %w", err)
	}
	c.width, c.height = width, height

	c.provider = bind_group_provider.NewBindGroupProvider(c.label + " Mesh")
	vertexData := model.MarshalVertices(mesh.Interleave())
	indexData := model.MarshalIndices(mesh.Indices)
	if err := c.backend.InitMeshBuffers(c.provider, vertexData, indexData, mesh.VertexCount(), mesh.IndexCount()); err != nil {
		return fmt.Errorf("create mesh buffers: %w", err)
	}
	if err := c.backend.InitBindGroup(c.provider, shader.UniformLayoutDescriptor()); err != nil {
		return fmt.Errorf("create uniform bind group: %w", err)
	}

	layouts := []*wgpu.BindGroupLayout{c.provider.BindGroupLayout()}
	for v, s := range shader.NewShaders() {
		p := pipeline.NewPipeline(s,
			pipeline.WithKey(fmt.Sprintf("%s %s Pipeline", c.label, s.Key())),
			pipeline.WithCullMode(c.cullMode),
			pipeline.WithFrontFace(c.frontFace),
		)
		if err := c.backend.RegisterRenderPipeline(p, layouts); err != nil {
			return err
		}
		c.pipelines[v] = p
	}
	return nil
}

func (c *gpuContext) Label() string {
	return c.label
}

func (c *gpuContext) Variant() shader.Variant {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

func (c *gpuContext) SetVariant(v shader.Variant) error {
	if !v.Valid() {
		return fmt.Errorf("%w: %d", shader.ErrUnknownVariant, int(v))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return ErrDestroyed
	}
	if v == c.current {
		return nil
	}
	c.logger.Debug("shader variant changed", zap.String("label", c.label), zap.Stringer("from", c.current), zap.Stringer("to", v))
	c.current = v
	return nil
}

func (c *gpuContext) CheckResize() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return false, ErrDestroyed
	}

	width, height := PixelSize(c.surface)
	if width == 0 || height == 0 {
		return false, nil
	}
	if width == c.width && height == c.height {
		return false, nil
	}

	if err := c.backend.ConfigureSurface(width, height); err != nil {
		return false, fmt.Errorf("reconfigure surface %dx%d: %w", width, height, err)
	}
	c.logger.Debug("surface reconfigured",
		zap.String("label", c.label),
		zap.Uint32("width", width),
		zap.Uint32("height", height),
	)
	c.width, c.height = width, height
	return true, nil
}

func (c *gpuContext) Size() (uint32, uint32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.width, c.height
}

func (c *gpuContext) WriteUniforms(u model.GPUUniforms) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return ErrDestroyed
	}
	c.backend.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: c.provider,
		Binding:  shader.UniformBinding,
		Offset:   0,
		Data:     u.Marshal(),
	}})
	return nil
}

func (c *gpuContext) DrawFrame() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return ErrDestroyed
	}

	if err := c.backend.BeginFrame(); err != nil {
		return fmt.Errorf("begin frame: %w", err)
	}
	c.backend.DrawCall(c.pipelines[c.current], c.provider, []bind_group_provider.BindGroupProvider{c.provider})
	if err := c.backend.EndFrame(); err != nil {
		return fmt.Errorf("submit frame: %w", err)
	}
	c.backend.Present()
	return nil
}

func (c *gpuContext) VertexCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.provider == nil {
		return 0
	}
	return c.provider.VertexCount()
}

func (c *gpuContext) IndexCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.provider == nil {
		return 0
	}
	return c.provider.IndexCount()
}

func (c *gpuContext) Destroy() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.destroyed {
		return
	}
	c.destroyed = true

	for i, p := range c.pipelines {
		if p != nil {
			p.Release()
			c.pipelines[i] = nil
		}
	}
	if c.provider != nil {
		c.provider.Release()
	}
	if c.backend != nil {
		c.backend.Release()
	}
	c.logger.Debug("gpu context destroyed", zap.String("label", c.label))
}

func (c *gpuContext) Destroyed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.destroyed
}
