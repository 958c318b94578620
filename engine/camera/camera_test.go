package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestNewCameraDefaults(t *testing.T) {
	c := NewCamera()

	assert.InDelta(t, DefaultFov, c.Fov(), eps)
	assert.Equal(t, DefaultNear, c.Near())
	assert.Equal(t, DefaultFar, c.Far())
	assert.Equal(t, float32(1), c.Aspect())
	assert.NotNil(t, c.Controller())
	assert.InDelta(t, 1, c.LightDir().Len(), eps)
}

func TestSetViewport(t *testing.T) {
	c := NewCamera(WithViewport(640, 480))
	assert.InDelta(t, 640.0/480.0, c.Aspect(), eps)

	c.SetViewport(800, 400)
	assert.InDelta(t, 2, c.Aspect(), eps)

	c.SetViewport(800, 0)
	assert.InDelta(t, 2, c.Aspect(), eps)
}

func TestUniforms(t *testing.T) {
	ctrl := NewCameraController()
	c := NewCamera(WithController(ctrl), WithViewport(1600, 900), WithLightDir(mgl32.Vec3{0, 2, 0}))

	u := c.Uniforms()

	want := c.ProjectionMatrix().Mul4(ctrl.ViewMatrix())
	for i := range want {
		assert.InDelta(t, want[i], u.MVP[i], eps)
	}
	assert.Equal(t, [16]float32(mgl32.Ident4()), u.Normal)
	assert.Equal(t, [4]float32{0, 1, 0, 0}, u.LightDir)
}

func TestUniformsPivotProjectsToCenter(t *testing.T) {
	c := NewCamera(WithController(NewCameraController(WithPanOffset(2, -1))))
	u := c.Uniforms()

	clip := mgl32.Mat4(u.MVP).Mul4x1(mgl32.Vec4{2, -1, 0, 1})
	assert.InDelta(t, 0, clip.X()/clip.W(), eps)
	assert.InDelta(t, 0, clip.Y()/clip.W(), eps)

	ndcZ := clip.Z() / clip.W()
	assert.Greater(t, ndcZ, float32(0))
	assert.Less(t, ndcZ, float32(1))
}
