package renderer

import "errors"

var (
	// ErrPlatformUnsupported is returned when no WebGPU instance or surface can be created.
	ErrPlatformUnsupported = errors.New("webgpu is not supported on this platform")
	// ErrNoAdapter is returned when no graphics adapter compatible with the surface is available.
	ErrNoAdapter = errors.New("no compatible graphics adapter")
	// ErrNoDevice is returned when the adapter refuses to create a device.
	ErrNoDevice = errors.New("graphics device request failed")
	// ErrDestroyed is returned by operations on a GPUContext after Destroy.
	ErrDestroyed = errors.New("gpu context destroyed")
)
