package component

import "github.com/go-gl/mathgl/mgl32"

// ProjectionType selects how a SceneCamera projects the world.
type ProjectionType int

const (
	Orthographic ProjectionType = iota
	Perspective
)

func (p ProjectionType) String() string {
	switch p {
	case Orthographic:
		return "orthographic"
	case Perspective:
		return "perspective"
	default:
		return "unknown"
	}
}

// SceneCamera holds projection parameters and the derived projection matrix.
type SceneCamera struct {
	Type ProjectionType

	OrthographicSize float32
	OrthographicNear float32
	OrthographicFar  float32

	PerspectiveFOV  float32
	PerspectiveNear float32
	PerspectiveFar  float32

	AspectRatio float32
	Projection  mgl32.Mat4
}

// NewSceneCamera returns an orthographic camera ten units tall.
func NewSceneCamera() SceneCamera {
	c := SceneCamera{
		Type:             Orthographic,
		OrthographicSize: 10,
		OrthographicNear: -1,
		OrthographicFar:  1,
		PerspectiveFOV:   mgl32.DegToRad(45),
		PerspectiveNear:  0.01,
		PerspectiveFar:   1000,
		AspectRatio:      1,
	}
	c.Recalculate()
	return c
}

// SetViewportSize updates the aspect ratio and projection. Zero sizes are
// ignored.
func (c *SceneCamera) SetViewportSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	c.AspectRatio = float32(width) / float32(height)
	c.Recalculate()
}

// Recalculate rebuilds Projection from the current parameters.
func (c *SceneCamera) Recalculate() {
	if c.AspectRatio <= 0 {
		c.AspectRatio = 1
	}
	switch c.Type {
	case Perspective:
		c.Projection = mgl32.Perspective(c.PerspectiveFOV, c.AspectRatio, c.PerspectiveNear, c.PerspectiveFar)
	default:
		halfH := c.OrthographicSize * 0.5
		halfW := halfH * c.AspectRatio
		c.Projection = mgl32.Ortho(-halfW, halfW, -halfH, halfH, c.OrthographicNear, c.OrthographicFar)
	}
}

// Camera makes an entity a scene camera. The primary camera drives runtime
// rendering; FixedAspectRatio cameras ignore viewport resizes.
type Camera struct {
	Camera           SceneCamera
	Primary          bool
	FixedAspectRatio bool
}

// NewCamera returns a camera with default projection.
func NewCamera(primary bool) Camera {
	return Camera{Camera: NewSceneCamera(), Primary: primary}
}
