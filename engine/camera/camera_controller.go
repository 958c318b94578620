package camera

import (
	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/go-gl/mathgl/mgl32"
)

// InteractionMode is the drag state of a CameraController. Exactly one mode is active at a time.
type InteractionMode int

const (
	// ModeIdle means no drag is in progress; pointer motion is ignored.
	ModeIdle InteractionMode = iota

	// ModeOrbiting means pointer motion rotates the camera around the pivot.
	ModeOrbiting

	// ModePanning means pointer motion translates the pivot.
	ModePanning
)

func (m InteractionMode) String() string {
	switch m {
	case ModeOrbiting:
		return "orbiting"
	case ModePanning:
		return "panning"
	default:
		return "idle"
	}
}

// State is the complete orbit camera state: spherical angles, distance, and the pivot offset in the XY plane.
type State struct {
	// Theta is the horizontal angle around the Y axis in radians. Unbounded.
	Theta float32
	// Phi is the polar angle from +Y in radians, kept inside [MinPhi, MaxPhi].
	Phi float32
	// Radius is the distance from the pivot, kept inside [MinRadius, MaxRadius].
	Radius float32
	// PanOffset is the pivot position in world XY.
	PanOffset [2]float32
}

// CameraController is a deterministic state machine that turns pointer and wheel
// events into orbit, pan, and zoom updates of a State, and derives the view from it.
//
// A primary-button press selects the mode from the held modifiers: the orbit modifier
// starts ModeOrbiting, the pan modifier starts ModePanning. Releasing the button returns
// to ModeIdle.
type CameraController interface {
	// PointerDown begins a drag if the button and modifiers select one.
	//
	// Parameters:
	//   - x, y: pointer position in window coordinates
	//   - button: the pressed mouse button
	//   - mods: modifier keys held at the time of the press
	PointerDown(x, y float32, button int, mods common.ModifierKey)

	// PointerMove applies the motion since the previous pointer event to the active drag.
	// Does nothing while idle.
	//
	// Parameters:
	//   - x, y: pointer position in window coordinates
	PointerMove(x, y float32)

	// PointerUp ends the active drag when the primary button is released.
	//
	// Parameters:
	//   - button: the released mouse button
	PointerUp(button int)

	// Wheel zooms by radius *= 0.95^(deltaY*0.01), clamped to the radius bounds.
	//
	// Parameters:
	//   - deltaY: scroll amount; positive moves the camera closer
	Wheel(deltaY float32)

	// Orbit rotates the camera by a pointer delta as if an orbit drag were active.
	//
	// Parameters:
	//   - dx, dy: pointer motion in pixels
	Orbit(dx, dy float32)

	// Pan translates the pivot by a pointer delta as if a pan drag were active.
	//
	// Parameters:
	//   - dx, dy: pointer motion in pixels
	Pan(dx, dy float32)

	// Reset restores the initial state and returns to ModeIdle.
	Reset()

	// Mode returns the current interaction mode.
	//
	// Returns:
	//   - InteractionMode: the active mode
	Mode() InteractionMode

	// State returns a copy of the current camera state.
	//
	// Returns:
	//   - State: the current state
	State() State

	// Eye returns the world-space camera position derived from the state.
	//
	// Returns:
	//   - mgl32.Vec3: panOffset + radius*(sinθ·sinφ, cosφ, cosθ·sinφ)
	Eye() mgl32.Vec3

	// Target returns the look-at point, which is the pan offset on the Z=0 plane.
	//
	// Returns:
	//   - mgl32.Vec3: the pivot position
	Target() mgl32.Vec3

	// ViewMatrix returns the look-at view matrix with world up (0,1,0).
	//
	// Returns:
	//   - mgl32.Mat4: the column-major view matrix
	ViewMatrix() mgl32.Mat4
}
