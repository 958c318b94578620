package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// OrbitSensitivity is the radians of rotation per pixel of orbit drag.
	OrbitSensitivity float32 = 0.005
	// PanSensitivity scales pan motion by the current radius so drags feel size-invariant.
	PanSensitivity float32 = 0.002
	// ZoomBase and ZoomScale define radius *= ZoomBase^(deltaY*ZoomScale).
	ZoomBase  float32 = 0.95
	ZoomScale float32 = 0.01

	MinPhi    float32 = 0.01
	MaxPhi    float32 = math32.Pi - 0.01
	MinRadius float32 = 1
	MaxRadius float32 = 50

	// Default initial orbit state.
	DefaultTheta  float32 = math32.Pi / 4
	DefaultPhi    float32 = math32.Pi / 3
	DefaultRadius float32 = 6
)

var worldUp = mgl32.Vec3{0, 1, 0}

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	state   State
	initial State

	mode         InteractionMode
	lastX, lastY float32

	orbitModifier common.ModifierKey
	panModifier   common.ModifierKey
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new camera controller. The defaults frame a unit-sized
// mesh at the origin from above and to the side; Alt+drag orbits and Shift+drag pans.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu: &sync.Mutex{},
		state: State{
			Theta:  DefaultTheta,
			Phi:    DefaultPhi,
			Radius: DefaultRadius,
		},
		orbitModifier: common.ModAlt,
		panModifier:   common.ModShift,
	}

	for _, option := range options {
		option(cc)
	}

	cc.state.Phi = common.Clamp(cc.state.Phi, MinPhi, MaxPhi)
	cc.state.Radius = common.Clamp(cc.state.Radius, MinRadius, MaxRadius)
	cc.initial = cc.state
	return cc
}

// --- input handlers ---

func (cc *cameraControllerImpl) PointerDown(x, y float32, button int, mods common.ModifierKey) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if button != common.MouseButtonPrimary {
		return
	}
	switch {
	case mods.Has(cc.orbitModifier):
		cc.mode = ModeOrbiting
	case mods.Has(cc.panModifier):
		cc.mode = ModePanning
	default:
		cc.mode = ModeIdle
		return
	}
	cc.lastX, cc.lastY = x, y
}

func (cc *cameraControllerImpl) PointerMove(x, y float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	dx, dy := x-cc.lastX, y-cc.lastY
	cc.lastX, cc.lastY = x, y

	switch cc.mode {
	case ModeOrbiting:
		cc.orbit(dx, dy)
	case ModePanning:
		cc.pan(dx, dy)
	}
}

func (cc *cameraControllerImpl) PointerUp(button int) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if button == common.MouseButtonPrimary {
		cc.mode = ModeIdle
	}
}

func (cc *cameraControllerImpl) Wheel(deltaY float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	r := cc.state.Radius * math32.Pow(ZoomBase, deltaY*ZoomScale)
	if math32.IsNaN(r) {
		return
	}
	// Overflow to +Inf or underflow to 0 still clamps into range.
	cc.state.Radius = common.Clamp(r, MinRadius, MaxRadius)
}

func (cc *cameraControllerImpl) Orbit(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.orbit(dx, dy)
}

func (cc *cameraControllerImpl) Pan(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.pan(dx, dy)
}

func (cc *cameraControllerImpl) Reset() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.state = cc.initial
	cc.mode = ModeIdle
}

// --- state accessors ---

func (cc *cameraControllerImpl) Mode() InteractionMode {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.mode
}

func (cc *cameraControllerImpl) State() State {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.state
}

func (cc *cameraControllerImpl) Eye() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.eye()
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target()
}

func (cc *cameraControllerImpl) ViewMatrix() mgl32.Mat4 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return mgl32.LookAtV(cc.eye(), cc.target(), worldUp)
}

// --- internal helpers ---
// Callers must hold the mutex.

func (cc *cameraControllerImpl) orbit(dx, dy float32) {
	theta := cc.state.Theta - dx*OrbitSensitivity
	phi := cc.state.Phi - dy*OrbitSensitivity
	if math32.IsNaN(theta) || math32.IsNaN(phi) || math32.IsInf(theta, 0) {
		return
	}
	cc.state.Theta = theta
	cc.state.Phi = common.Clamp(phi, MinPhi, MaxPhi)
}

func (cc *cameraControllerImpl) pan(dx, dy float32) {
	right, trueUp := cc.screenAxes()
	speed := PanSensitivity * cc.state.Radius

	x := cc.state.PanOffset[0] - (dx*speed*right.X() + dy*speed*trueUp.X())
	y := cc.state.PanOffset[1] - (dx*speed*right.Y() + dy*speed*trueUp.Y())
	if math32.IsNaN(x) || math32.IsNaN(y) || math32.IsInf(x, 0) || math32.IsInf(y, 0) {
		return
	}
	cc.state.PanOffset = [2]float32{x, y}
}

// offsetDir is the unit vector from the pivot toward the eye.
func (cc *cameraControllerImpl) offsetDir() mgl32.Vec3 {
	st, ct := math32.Sin(cc.state.Theta), math32.Cos(cc.state.Theta)
	sp, cp := math32.Sin(cc.state.Phi), math32.Cos(cc.state.Phi)
	return mgl32.Vec3{st * sp, cp, ct * sp}
}

// screenAxes returns the camera's right and up vectors. Phi never reaches 0 or π,
// so forward is never parallel to world up.
func (cc *cameraControllerImpl) screenAxes() (right, trueUp mgl32.Vec3) {
	forward := cc.offsetDir().Mul(-1)
	right = forward.Cross(worldUp).Normalize()
	trueUp = right.Cross(forward).Normalize()
	return right, trueUp
}

func (cc *cameraControllerImpl) target() mgl32.Vec3 {
	return mgl32.Vec3{cc.state.PanOffset[0], cc.state.PanOffset[1], 0}
}

func (cc *cameraControllerImpl) eye() mgl32.Vec3 {
	return cc.target().Add(cc.offsetDir().Mul(cc.state.Radius))
}
