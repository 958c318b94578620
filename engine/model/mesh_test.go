package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triangle() *MeshData {
	return &MeshData{
		Positions: [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 2, 0}},
		Normals:   [][3]float32{{0, 0, 1}, {0, 0, 1}, {0, 0, 1}},
		UVs:       [][2]float32{{0, 0}, {1, 0}, {0, 1}},
		Indices:   []uint32{0, 1, 2},
	}
}

func TestMeshDataCounts(t *testing.T) {
	m := triangle()
	assert.Equal(t, 3, m.VertexCount())
	assert.Equal(t, 3, m.IndexCount())
	assert.Equal(t, 1, m.TriangleCount())
	assert.InDelta(t, 2.0, m.BoundingRadius(), 1e-6)
}

func TestMeshDataValidate(t *testing.T) {
	require.NoError(t, triangle().Validate())

	m := triangle()
	m.UVs = m.UVs[:2]
	assert.ErrorIs(t, m.Validate(), ErrInvalidMesh)

	m = triangle()
	m.Indices = []uint32{0, 1, 3}
	assert.ErrorIs(t, m.Validate(), ErrInvalidMesh)

	m = triangle()
	m.Indices = []uint32{0, 1}
	assert.ErrorIs(t, m.Validate(), ErrInvalidMesh)
}

func TestMeshDataInterleave(t *testing.T) {
	v := triangle().Interleave()
	require.Len(t, v, 3)
	assert.Equal(t, [3]float32{1, 0, 0}, v[1].Position)
	assert.Equal(t, [2]float32{1, 0}, v[1].TexCoord)
}
