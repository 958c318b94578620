package common

import (
	"cmp"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Clamp restricts v to the closed range [lo, hi].
//
// Parameters:
//   - v: the value to clamp
//   - lo: lower bound
//   - hi: upper bound
//
// Returns:
//   - T: v limited to [lo, hi]
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	return max(lo, min(v, hi))
}

// Perspective creates a right-handed perspective projection matrix mapping view-space depth
// into the WebGPU clip range [0, 1]. mgl32.Perspective targets the OpenGL [-1, 1] range and
// cannot be used directly against a WebGPU depth attachment.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / math32.Tan(fovY/2.0)
	rangeInv := 1.0 / (near - far)

	var m mgl32.Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = far * rangeInv
	m[11] = -1.0
	m[14] = near * far * rangeInv
	return m
}

// NormalMatrix returns the transpose of the inverse of the model matrix, used to carry
// normals into world space under non-uniform scale. A singular model matrix yields identity.
//
// Parameters:
//   - model: the model (object-to-world) matrix
//
// Returns:
//   - mgl32.Mat4: the normal matrix
func NormalMatrix(model mgl32.Mat4) mgl32.Mat4 {
	if model.Det() == 0 {
		return mgl32.Ident4()
	}
	return model.Inv().Transpose()
}
