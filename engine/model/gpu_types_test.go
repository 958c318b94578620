package model

import (
	"encoding/binary"
	"math"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatAt(buf []byte, offset int) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(buf[offset:]))
}

func TestGPUVertexLayout(t *testing.T) {
	assert.Equal(t, uintptr(GPUVertexStride), unsafe.Sizeof(GPUVertex{}))

	buf := (&GPUVertex{Position: [3]float32{1, 2, 3}, Normal: [3]float32{4, 5, 6}, TexCoord: [2]float32{7, 8}}).Marshal()
	require.Len(t, buf, GPUVertexStride)
	assert.Equal(t, float32(1), floatAt(buf, 0))
	assert.Equal(t, float32(4), floatAt(buf, 12))
	assert.Equal(t, float32(8), floatAt(buf, 28))

	layout := GPUVertexLayout()
	assert.Equal(t, uint64(GPUVertexStride), layout.ArrayStride)
	assert.Len(t, layout.Attributes, 3)
}

func TestGPUUniformsLayout(t *testing.T) {
	assert.Equal(t, uintptr(GPUUniformsSize), unsafe.Sizeof(GPUUniforms{}))

	var u GPUUniforms

	u.MVP[0] = 1
	u.Normal[15] = 2
	u.LightDir = [4]float32{0.5, 1, 0.25, 0}
	buf := u.Marshal()
	require.Len(t, buf, GPUUniformsSize)
	assert.Equal(t, float32(1), floatAt(buf, 0))
	assert.Equal(t, float32(2), floatAt(buf, 64+15*4))
	assert.Equal(t, float32(0.25), floatAt(buf, 128+8))
}

func TestMarshalBuffers(t *testing.T) {
	assert.Len(t, MarshalVertices(make([]GPUVertex, 4)), 4*GPUVertexStride)

	idx := MarshalIndices([]uint32{7, 9})
	require.Len(t, idx, 8)
	assert.Equal(t, uint32(9), binary.LittleEndian.Uint32(idx[4:]))
}

func TestGPUVertexSourceDeclaresEntryPoint(t *testing.T) {
	assert.Contains(t, GPUVertexSource, "fn vs_main")
	assert.Contains(t, GPUVertexSource, "struct Uniforms")
}
