package camera

import "github.com/go-gl/mathgl/mgl32"

type CameraBuilderOption func(*cameraImpl)

// WithFov sets the camera's vertical field of view in radians.
//
// Parameters:
//   - fov: field of view in radians
//
// Returns:
//   - CameraBuilderOption: a function that sets the camera's field of view
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithClipPlanes sets the near and far clipping plane distances.
//
// Parameters:
//   - near: near plane distance (must be > 0)
//   - far: far plane distance (must be > near)
//
// Returns:
//   - CameraBuilderOption: a function that sets the clip planes
func WithClipPlanes(near, far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
		c.far = far
	}
}

// WithViewport sets the initial aspect ratio from a pixel size.
//
// Parameters:
//   - width, height: viewport size in pixels
//
// Returns:
//   - CameraBuilderOption: a function that sets the aspect ratio
func WithViewport(width, height uint32) CameraBuilderOption {
	return func(c *cameraImpl) {
		if width > 0 && height > 0 {
			c.aspect = float32(width) / float32(height)
		}
	}
}

// WithLightDir sets the light direction. A zero vector keeps the default.
//
// Parameters:
//   - dir: world-space direction toward the light; normalized on use
//
// Returns:
//   - CameraBuilderOption: a function that sets the light direction
func WithLightDir(dir mgl32.Vec3) CameraBuilderOption {
	return func(c *cameraImpl) {
		if dir.Len() > 0 {
			c.lightDir = dir.Normalize()
		}
	}
}

// WithController attaches a controller to the camera.
//
// Parameters:
//   - ctrl: the controller driving the view
//
// Returns:
//   - CameraBuilderOption: a function that attaches the controller
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}
