package component

import "github.com/go-gl/mathgl/mgl32"

// Transform places an entity in the world. Rotation holds Euler angles in
// radians applied in X, Y, Z order.
type Transform struct {
	Translation mgl32.Vec3
	Rotation    mgl32.Vec3
	Scale       mgl32.Vec3
}

// NewTransform returns an identity transform at position.
func NewTransform(position mgl32.Vec3) Transform {
	return Transform{
		Translation: position,
		Scale:       mgl32.Vec3{1, 1, 1},
	}
}

// Matrix returns the model matrix translation * rotation * scale.
func (t Transform) Matrix() mgl32.Mat4 {
	rotation := mgl32.AnglesToQuat(t.Rotation[0], t.Rotation[1], t.Rotation[2], mgl32.XYZ).Mat4()
	return mgl32.Translate3D(t.Translation[0], t.Translation[1], t.Translation[2]).
		Mul4(rotation).
		Mul4(mgl32.Scale3D(t.Scale[0], t.Scale[1], t.Scale[2]))
}
