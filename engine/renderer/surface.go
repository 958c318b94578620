package renderer

import "github.com/cogentcore/webgpu/wgpu"

// Surface is a drawable region the GPUContext renders into. engine/window.Window satisfies it.
type Surface interface {
	// SurfaceDescriptor returns the platform-specific descriptor used to create the WebGPU surface.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the descriptor, or nil if the platform has none
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// LogicalSize returns the drawable size in screen coordinates.
	//
	// Returns:
	//   - width, height: the logical size
	LogicalSize() (width, height int)

	// PixelRatio returns the number of framebuffer pixels per logical unit.
	//
	// Returns:
	//   - float32: the device pixel ratio
	PixelRatio() float32
}

// PixelSize converts a surface's logical size to its backing pixel size, rounding to the nearest pixel.
// A non-positive pixel ratio is treated as 1.
//
// Parameters:
//   - s: the surface
//
// Returns:
//   - width, height: the pixel size
func PixelSize(s Surface) (width, height uint32) {
	w, h := s.LogicalSize()
	ratio := s.PixelRatio()
	if ratio <= 0 {
		ratio = 1
	}
	return scale(w, ratio), scale(h, ratio)
}

func scale(v int, ratio float32) uint32 {
	if v <= 0 {
		return 0
	}
	return uint32(float32(v)*ratio + 0.5)
}
