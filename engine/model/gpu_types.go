package model

import (
	_ "embed"
	"encoding/binary"
	"math"

	"github.com/cogentcore/webgpu/wgpu"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput and Uniforms structs shared
// by every shading variant. Matches GPUVertex and GPUUniforms layouts exactly.
//
//go:embed assets/vertex.wgsl
var GPUVertexSource string

// GPUVertexStride is the byte stride of one interleaved vertex.
const GPUVertexStride = 32

// GPUUniformsSize is the byte size of the per-frame uniform block.
const GPUUniformsSize = 192

// GPUVertex is the GPU-aligned representation of a single interleaved mesh vertex.
// Size: 32 bytes (position 3f, normal 3f, uv 2f; no padding).
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal for lighting (12 bytes)
	TexCoord [2]float32 // offset 24: UV texture coordinate (8 bytes)
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, GPUVertexStride)
	putFloats(buf[0:12], g.Position[:])
	putFloats(buf[12:24], g.Normal[:])
	putFloats(buf[24:32], g.TexCoord[:])
	return buf
}

// GPUVertexLayout describes the interleaved vertex buffer to the render pipeline:
// @location(0) position, @location(1) normal, @location(2) uv.
//
// Returns:
//   - wgpu.VertexBufferLayout: the layout for buffer slot 0
func GPUVertexLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: GPUVertexStride,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
			{Format: wgpu.VertexFormatFloat32x2, Offset: 24, ShaderLocation: 2},
		},
	}
}

// MarshalVertices serializes a slice of vertices into one contiguous upload buffer.
//
// Parameters:
//   - vertices: the vertices to serialize
//
// Returns:
//   - []byte: len(vertices) * 32 bytes
func MarshalVertices(vertices []GPUVertex) []byte {
	buf := make([]byte, 0, len(vertices)*GPUVertexStride)
	for i := range vertices {
		buf = append(buf, vertices[i].Marshal()...)
	}
	return buf
}

// MarshalIndices serializes uint32 indices in little-endian order.
//
// Parameters:
//   - indices: the triangle-list indices
//
// Returns:
//   - []byte: len(indices) * 4 bytes
func MarshalIndices(indices []uint32) []byte {
	buf := make([]byte, len(indices)*4)
	for i, idx := range indices {
		binary.LittleEndian.PutUint32(buf[i*4:], idx)
	}
	return buf
}

// GPUUniforms is the per-frame uniform block shared by all shading variants.
// Matches the WGSL Uniforms struct (see GPUVertexSource). All matrices are column-major.
// Size: 192 bytes.
type GPUUniforms struct {
	MVP      [16]float32 // offset   0: model-view-projection matrix (64 bytes)
	Normal   [16]float32 // offset  64: transpose(inverse(model)) (64 bytes)
	LightDir [4]float32  // offset 128: world-space light direction, w unused (16 bytes)
	_        [12]float32 // offset 144: padding to the 192-byte block size (48 bytes)
}

// Marshal serializes the GPUUniforms struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 192-byte buffer ready for GPU upload.
func (g *GPUUniforms) Marshal() []byte {
	buf := make([]byte, GPUUniformsSize)
	putFloats(buf[0:64], g.MVP[:])
	putFloats(buf[64:128], g.Normal[:])
	putFloats(buf[128:144], g.LightDir[:])
	return buf
}

func putFloats(dst []byte, src []float32) {
	for i, f := range src {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(f))
	}
}
