package renderer

import (
	"github.com/cogentcore/webgpu/wgpu"
	"go.uber.org/zap"
)

// GPUContextBuilderOption is a functional option applied to a GPUContext during construction via NewGPUContext.
type GPUContextBuilderOption func(*gpuContext)

// WithLogger sets the structured logger used for lifecycle diagnostics.
//
// Parameters:
//   - logger: the zap logger (nil keeps the no-op default)
//
// Returns:
//   - GPUContextBuilderOption: a function that applies the logger option
func WithLogger(logger *zap.Logger) GPUContextBuilderOption {
	return func(c *gpuContext) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLabel sets the debug label prefixed to every GPU object created by the context.
//
// Parameters:
//   - label: the debug label
//
// Returns:
//   - GPUContextBuilderOption: a function that applies the label option
func WithLabel(label string) GPUContextBuilderOption {
	return func(c *gpuContext) {
		c.label = label
	}
}

// WithBackendType selects the GPU backend implementation.
//
// Parameters:
//   - backendType: the backend to use
//
// Returns:
//   - GPUContextBuilderOption: a function that applies the backend type option
func WithBackendType(backendType RendererBackendType) GPUContextBuilderOption {
	return func(c *gpuContext) {
		c.backendType = backendType
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - GPUContextBuilderOption: a function that applies the present mode option
func WithPresentMode(mode PresentMode) GPUContextBuilderOption {
	return func(c *gpuContext) {
		c.presentMode = mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count. The default is MSAA4x.
//
// Parameters:
//   - count: the MSAASampleCount to use (MSAAOff or MSAA4x)
//
// Returns:
//   - GPUContextBuilderOption: a function that applies the MSAA option
func WithMSAA(count MSAASampleCount) GPUContextBuilderOption {
	return func(c *gpuContext) {
		c.sampleCount = count
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - GPUContextBuilderOption: a function that applies the force software renderer option
func WithForceSoftwareRenderer(force bool) GPUContextBuilderOption {
	return func(c *gpuContext) {
		c.forceFallbackAdapter = force
	}
}

// WithClearColor sets the background color the render pass clears to.
//
// Parameters:
//   - color: the clear color
//
// Returns:
//   - GPUContextBuilderOption: a function that applies the clear color option
func WithClearColor(color wgpu.Color) GPUContextBuilderOption {
	return func(c *gpuContext) {
		c.clearColor = color
	}
}

// WithCullMode sets the face culling mode of every variant's pipeline.
//
// Parameters:
//   - mode: the cull mode (wgpu.CullModeNone keeps meshes with mixed winding visible)
//
// Returns:
//   - GPUContextBuilderOption: a function that applies the cull mode option
func WithCullMode(mode wgpu.CullMode) GPUContextBuilderOption {
	return func(c *gpuContext) {
		c.cullMode = mode
	}
}

// WithFrontFace sets the winding order treated as front facing by every variant's pipeline.
// Only matters when a cull mode is set.
//
// Parameters:
//   - face: wgpu.FrontFaceCCW (the default) or wgpu.FrontFaceCW
//
// Returns:
//   - GPUContextBuilderOption: a function that applies the front face option
func WithFrontFace(face wgpu.FrontFace) GPUContextBuilderOption {
	return func(c *gpuContext) {
		c.frontFace = face
	}
}
