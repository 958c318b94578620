package camera

import "github.com/Carmen-Shannon/oxy-view/common"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithRadius sets the initial distance from the pivot. Clamped to [MinRadius, MaxRadius].
//
// Parameters:
//   - radius: distance from the pivot
//
// Returns:
//   - CameraControllerOption: functional option to set the radius
func WithRadius(radius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.state.Radius = radius
	}
}

// WithTheta sets the initial horizontal angle around the Y axis.
//
// Parameters:
//   - theta: horizontal angle in radians (0 = +Z axis)
//
// Returns:
//   - CameraControllerOption: functional option to set theta
func WithTheta(theta float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.state.Theta = theta
	}
}

// WithPhi sets the initial polar angle measured from +Y. Clamped to [MinPhi, MaxPhi].
//
// Parameters:
//   - phi: polar angle in radians
//
// Returns:
//   - CameraControllerOption: functional option to set phi
func WithPhi(phi float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.state.Phi = phi
	}
}

// WithPanOffset sets the initial pivot position in world XY.
//
// Parameters:
//   - x, y: pivot coordinates
//
// Returns:
//   - CameraControllerOption: functional option to set the pan offset
func WithPanOffset(x, y float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.state.PanOffset = [2]float32{x, y}
	}
}

// WithDragModifiers sets the modifiers that select orbit and pan on a primary-button press.
// When both are held, orbit wins.
//
// Parameters:
//   - orbit: modifier that starts an orbit drag
//   - pan: modifier that starts a pan drag
//
// Returns:
//   - CameraControllerOption: functional option to set the drag modifiers
func WithDragModifiers(orbit, pan common.ModifierKey) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.orbitModifier = orbit
		cc.panModifier = pan
	}
}
