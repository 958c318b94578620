package shader

import (
	_ "embed"
	"fmt"

	"github.com/Carmen-Shannon/oxy-view/engine/model"
	"github.com/cogentcore/webgpu/wgpu"
)

const (
	// VertexEntryPoint is the vertex stage entry point shared by every variant.
	VertexEntryPoint = "vs_main"
	// FragmentEntryPoint is the fragment stage entry point of every variant.
	FragmentEntryPoint = "fs_main"
	// UniformGroup and UniformBinding locate the uniform block.
	UniformGroup   = 0
	UniformBinding = 0
)

var (
	//go:embed assets/shaded.wgsl
	shadedSource string
	//go:embed assets/uv_debug.wgsl
	uvDebugSource string
	//go:embed assets/checker.wgsl
	checkerSource string
)

var fragmentSources = [VariantCount]string{
	VariantShaded:  shadedSource,
	VariantUVDebug: uvDebugSource,
	VariantChecker: checkerSource,
}

// shader is the implementation of the Shader interface.
// It holds the complete WGSL program for one variant and the layout metadata needed to build its pipeline.
type shader struct {
	key     string
	variant Variant
	source  string
	module  *wgpu.ShaderModuleDescriptor
}

// Shader is a complete WGSL program (vertex + fragment stage) for one shading variant.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used for labels and lookups.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Variant returns the shading mode this program implements.
	//
	// Returns:
	//   - Variant: the shading variant
	Variant() Variant

	// Source retrieves the full WGSL source: the shared vertex stage followed by the variant's fragment stage.
	//
	// Returns:
	//   - string: the WGSL source code of the shader
	Source() string

	// Module returns the shader module descriptor built from Source.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the shader module descriptor containing the WGSL code and label
	Module() *wgpu.ShaderModuleDescriptor

	// VertexLayouts returns the vertex buffer layouts consumed by the vertex stage.
	//
	// Returns:
	//   - []wgpu.VertexBufferLayout: a single interleaved position/normal/uv layout
	VertexLayouts() []wgpu.VertexBufferLayout

	// BindGroupLayoutDescriptor returns the layout of the uniform block bind group.
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor for group UniformGroup
	BindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor
}

var _ Shader = &shader{}

// NewShader assembles the WGSL program for a variant.
//
// Parameters:
//   - v: the shading variant
//
// Returns:
//   - Shader: the assembled shader
//   - error: ErrUnknownVariant if v is not a valid variant
func NewShader(v Variant) (Shader, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownVariant, int(v))
	}
	s := &shader{
		key:     v.String(),
		variant: v,
		source:  model.GPUVertexSource + "\n" + fragmentSources[v],
	}
	s.module = &wgpu.ShaderModuleDescriptor{
		Label: s.key,
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	}
	return s, nil
}

// NewShaders assembles the program for every variant, indexed by Variant.
//
// Returns:
//   - [VariantCount]Shader: one shader per variant
func NewShaders() [VariantCount]Shader {
	var shaders [VariantCount]Shader
	for v := range VariantCount {
		// Every index below VariantCount is valid.
		shaders[v], _ = NewShader(v)
	}
	return shaders
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Variant() Variant {
	return s.variant
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) VertexLayouts() []wgpu.VertexBufferLayout {
	return []wgpu.VertexBufferLayout{model.GPUVertexLayout()}
}

func (s *shader) BindGroupLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return UniformLayoutDescriptor()
}

// UniformLayoutDescriptor describes the single uniform buffer binding shared by all variants.
//
// Returns:
//   - wgpu.BindGroupLayoutDescriptor: a layout with one uniform buffer visible to both stages
func UniformLayoutDescriptor() wgpu.BindGroupLayoutDescriptor {
	return wgpu.BindGroupLayoutDescriptor{
		Label: "Uniforms Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    UniformBinding,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: model.GPUUniformsSize,
				},
			},
		},
	}
}
