package model

import (
	"errors"
	"fmt"

	"github.com/chewxy/math32"
)

// ErrInvalidMesh is returned by MeshData.Validate when the attribute streams or indices are inconsistent.
var ErrInvalidMesh = errors.New("invalid mesh")

// MeshData is the CPU-side result of parsing a mesh-description file: de-indexed attribute
// streams of equal length and a triangle-list index buffer into them.
// A MeshData is never mutated after the loader returns it.
type MeshData struct {
	// Positions holds one model-space position per output vertex.
	Positions [][3]float32
	// Normals holds one normal per output vertex, (0,0,1) where the source had none.
	Normals [][3]float32
	// UVs holds one texture coordinate per output vertex, (0,0) where the source had none.
	UVs [][2]float32
	// Indices is a triangle list; its length is always a multiple of 3.
	Indices []uint32
}

// VertexCount returns the number of deduplicated output vertices.
//
// Returns:
//   - int: the vertex count
func (m *MeshData) VertexCount() int {
	return len(m.Positions)
}

// IndexCount returns the number of indices in the triangle list.
//
// Returns:
//   - int: the index count
func (m *MeshData) IndexCount() int {
	return len(m.Indices)
}

// TriangleCount returns the number of triangles in the mesh.
//
// Returns:
//   - int: len(Indices) / 3
func (m *MeshData) TriangleCount() int {
	return len(m.Indices) / 3
}

// Validate checks the structural invariants of the mesh: equal attribute lengths,
// a triangle-list index count, and every index inside the vertex range.
//
// Returns:
//   - error: an error wrapping ErrInvalidMesh describing the first violation, or nil
func (m *MeshData) Validate() error {
	n := len(m.Positions)
	if len(m.Normals) != n || len(m.UVs) != n {
		return fmt.Errorf("%w: attribute lengths differ (positions=%d normals=%d uvs=%d)", ErrInvalidMesh, n, len(m.Normals), len(m.UVs))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%w: index count %d is not a multiple of 3", ErrInvalidMesh, len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("%w: index %d at %d out of range [0,%d)", ErrInvalidMesh, idx, i, n)
		}
	}
	return nil
}

// Interleave packs the attribute streams into GPU vertex records in output-vertex order.
//
// Returns:
//   - []GPUVertex: one record per output vertex
func (m *MeshData) Interleave() []GPUVertex {
	out := make([]GPUVertex, len(m.Positions))
	for i := range m.Positions {
		out[i] = GPUVertex{
			Position: m.Positions[i],
			Normal:   m.Normals[i],
			TexCoord: m.UVs[i],
		}
	}
	return out
}

// BoundingRadius returns the largest distance from the model-space origin to any vertex.
//
// Returns:
//   - float32: the bounding sphere radius around the origin
func (m *MeshData) BoundingRadius() float32 {
	var maxDistSq float32
	for _, p := range m.Positions {
		distSq := p[0]*p[0] + p[1]*p[1] + p[2]*p[2]
		if distSq > maxDistSq {
			maxDistSq = distSq
		}
	}
	return math32.Sqrt(maxDistSq)
}
