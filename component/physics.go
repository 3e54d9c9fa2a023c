package component

import "github.com/go-gl/mathgl/mgl32"

// BodyType is the simulation type of a rigid body.
type BodyType int

const (
	StaticBody BodyType = iota
	DynamicBody
	KinematicBody
)

func (t BodyType) String() string {
	switch t {
	case StaticBody:
		return "static"
	case DynamicBody:
		return "dynamic"
	case KinematicBody:
		return "kinematic"
	default:
		return "unknown"
	}
}

// RigidBody2D makes an entity take part in the physics simulation once the
// scene is running. It requires a Transform.
type RigidBody2D struct {
	Type          BodyType
	FixedRotation bool
	Bullet        bool
}

// BoxCollider2D attaches a box fixture to the entity's rigid body. Size holds
// half extents before the transform's scale is applied.
type BoxCollider2D struct {
	Offset      mgl32.Vec2
	Size        mgl32.Vec2
	Density     float32
	Friction    float32
	Restitution float32
	IsSensor    bool
}

// NewBoxCollider2D returns a unit box with density 1 and friction 0.5.
func NewBoxCollider2D() BoxCollider2D {
	return BoxCollider2D{
		Size:     mgl32.Vec2{0.5, 0.5},
		Density:  1,
		Friction: 0.5,
	}
}

// HalfExtents returns the collider's half extents scaled by the transform.
func (c BoxCollider2D) HalfExtents(scale mgl32.Vec3) mgl32.Vec2 {
	return mgl32.Vec2{c.Size[0] * scale[0], c.Size[1] * scale[1]}
}
