package renderer

import (
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-view/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

// RendererBackendType identifies the GPU backend implementation used by the GPUContext.
type RendererBackendType int

const (
	// BackendTypeWGPU selects the WebGPU-based rendering backend.
	BackendTypeWGPU RendererBackendType = iota
)

// PresentMode controls how rendered frames are presented to the display surface.
type PresentMode int

const (
	// PresentModeVSync waits for the next vertical blank before presenting, pacing the
	// render loop to the monitor's refresh rate. Eliminates tearing.
	PresentModeVSync PresentMode = iota

	// PresentModeUncapped presents frames immediately without waiting for vertical blank.
	// May cause screen tearing but provides the lowest latency.
	PresentModeUncapped
)

// MSAASampleCount controls the number of samples used for multisample anti-aliasing (MSAA).
// WebGPU guarantees support for 1 (off) and 4.
type MSAASampleCount uint32

const (
	// MSAAOff disables multisample anti-aliasing (sample count 1).
	MSAAOff MSAASampleCount = 1

	// MSAA4x enables 4× multisample anti-aliasing. This is the default.
	MSAA4x MSAASampleCount = 4
)

// backendConfig carries the construction parameters handed to a backend factory.
type backendConfig struct {
	surfaceDescriptor    *wgpu.SurfaceDescriptor
	forceFallbackAdapter bool
	sampleCount          MSAASampleCount
	label                string
}

// backendFactory creates a RendererBackend. Failures are reported with
// ErrPlatformUnsupported, ErrNoAdapter or ErrNoDevice.
type backendFactory func(cfg backendConfig) (RendererBackend, error)

// RendererBackend is the top-level backend interface for the GPUContext.
// It embeds the concrete backend interface for the selected GPU API.
type RendererBackend interface {
	wgpuRendererBackend
}

type wgpuRendererBackend interface {
	// ConfigureSurface (re)configures the surface at the given pixel size and recreates
	// the depth texture and, with MSAA enabled, the multisample color target.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	//
	// Returns:
	//   - error: an error if an attachment texture could not be created
	ConfigureSurface(width, height uint32) error

	// SetPresentMode sets the present mode applied by the next ConfigureSurface.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SetClearColor sets the color the render pass clears to.
	//
	// Parameters:
	//   - color: the clear color
	SetClearColor(color wgpu.Color)

	// InitMeshBuffers creates the vertex and index buffers, uploads their contents, and stores
	// them on provider. Empty data leaves the corresponding buffer nil.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the interleaved vertex bytes
	//   - indexData: the uint32 index bytes
	//   - vertexCount: number of vertices in vertexData
	//   - indexCount: number of indices in indexData
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, vertexCount, indexCount int) error

	// InitBindGroup creates the layout, buffers and bind group described by descriptor and stores
	// them on provider. Existing layout and buffers on the provider are reused.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created resources on
	//   - descriptor: the layout descriptor defining the bind group entries
	//
	// Returns:
	//   - error: an error if bind group creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// RegisterRenderPipeline compiles p's shader and creates its GPU render pipeline.
	//
	// Parameters:
	//   - p: the pipeline description; receives the created pipeline
	//   - layouts: bind group layouts indexed by group number
	//
	// Returns:
	//   - error: an error if shader compilation or pipeline creation fails
	RegisterRenderPipeline(p pipeline.Pipeline, layouts []*wgpu.BindGroupLayout) error

	// WriteBuffers enqueues buffer writes on the device queue.
	//
	// Parameters:
	//   - writes: the writes to perform, in order
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawCall records one indexed draw of the mesh held by meshProvider.
	//
	// Parameters:
	//   - p: the compiled pipeline to bind
	//   - meshProvider: the provider holding vertex and index buffers
	//   - bindGroups: providers whose bind groups are set at their slice index
	DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider)

	// EndFrame ends the render pass and submits the command buffer without waiting for completion.
	//
	// Returns:
	//   - error: an error if the command buffer could not be finished
	EndFrame() error

	// Present presents the surface and releases the swapchain texture.
	Present()

	// Release releases the attachments, device, adapter, surface and instance.
	Release()
}
