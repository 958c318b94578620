package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-view/common"
	"github.com/Carmen-Shannon/oxy-view/engine/model"
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultFov  float32 = math32.Pi / 4
	DefaultNear float32 = 0.1
	DefaultFar  float32 = 100
)

// DefaultLightDir is the normalized world-space direction toward the single scene light.
var DefaultLightDir = mgl32.Vec3{0.4, 1, 0.6}.Normalize()

type cameraImpl struct {
	mu *sync.Mutex

	fov    float32
	aspect float32
	near   float32
	far    float32

	model    mgl32.Mat4
	lightDir mgl32.Vec3

	controller CameraController
}

// Camera holds the perspective projection and combines it with the view of an attached
// CameraController into the per-frame uniform block.
type Camera interface {
	// Fov returns the vertical field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// LightDir returns the normalized light direction written into every uniform block.
	LightDir() mgl32.Vec3

	// Controller returns the attached CameraController.
	//
	// Returns:
	//   - CameraController: the controller driving the view
	Controller() CameraController

	// SetViewport updates the aspect ratio from a pixel size. A zero height leaves the aspect unchanged.
	//
	// Parameters:
	//   - width: viewport width in pixels
	//   - height: viewport height in pixels
	SetViewport(width, height uint32)

	// ViewMatrix returns the controller's current view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the perspective projection for the current aspect ratio,
	// mapping depth into [0, 1].
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// Uniforms builds the uniform block for one frame: projection * view * model,
	// the normal matrix of the model transform, and the light direction.
	//
	// Returns:
	//   - model.GPUUniforms: the populated uniform block
	Uniforms() model.GPUUniforms
}

var _ Camera = &cameraImpl{}

// NewCamera creates a Camera with a π/4 vertical field of view, a [0.1, 100] depth range,
// an identity model transform, and a default CameraController unless one is supplied.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		fov:      DefaultFov,
		aspect:   1,
		near:     DefaultNear,
		far:      DefaultFar,
		model:    mgl32.Ident4(),
		lightDir: DefaultLightDir,
	}

	for _, option := range options {
		option(c)
	}

	if c.controller == nil {
		c.controller = NewCameraController()
	}
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) LightDir() mgl32.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lightDir
}

func (c *cameraImpl) Controller() CameraController {
	return c.controller
}

func (c *cameraImpl) SetViewport(width, height uint32) {
	if height == 0 || width == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = float32(width) / float32(height)
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	return c.controller.ViewMatrix()
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.Perspective(c.fov, c.aspect, c.near, c.far)
}

func (c *cameraImpl) Uniforms() model.GPUUniforms {
	view := c.controller.ViewMatrix()

	c.mu.Lock()
	defer c.mu.Unlock()

	proj := common.Perspective(c.fov, c.aspect, c.near, c.far)
	mvp := proj.Mul4(view).Mul4(c.model)

	return model.GPUUniforms{
		MVP:      mvp,
		Normal:   common.NormalMatrix(c.model),
		LightDir: [4]float32{c.lightDir.X(), c.lightDir.Y(), c.lightDir.Z(), 0},
	}
}
