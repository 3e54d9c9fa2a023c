package script

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stage/component"
	"github.com/plus3/stage/ecs"
)

// Context is handed to every hook call. It holds the entity id and the scene
// facade, never a component pointer, so it resolves everything at call time
// and a torn down entity simply reads as missing.
type Context struct {
	host   ecs.Host
	entity ecs.EntityId
}

// NewContext binds a context to entity inside host.
func NewContext(host ecs.Host, entity ecs.EntityId) *Context {
	return &Context{host: host, entity: entity}
}

// Entity returns the bound entity id.
func (c *Context) Entity() ecs.EntityId {
	return c.entity
}

// Host returns the scene facade.
func (c *Context) Host() ecs.Host {
	return c.host
}

// Valid reports whether the bound entity still exists.
func (c *Context) Valid() bool {
	return c.host != nil && c.host.Storage().Exists(c.entity)
}

func (c *Context) storage() *ecs.Storage {
	if c.host == nil {
		return nil
	}
	return c.host.Storage()
}

// Get returns the bound entity's T component or nil.
func Get[T any](c *Context) *T {
	s := c.storage()
	if s == nil {
		return nil
	}
	return ecs.Get[T](s, c.entity)
}

// Has reports whether the bound entity has a T component.
func Has[T any](c *Context) bool {
	s := c.storage()
	return s != nil && ecs.Has[T](s, c.entity)
}

// Add attaches value to the bound entity and returns the stored component.
func Add[T any](c *Context, value T) *T {
	s := c.storage()
	if s == nil {
		return nil
	}
	return ecs.Add(s, c.entity, value)
}

// Remove detaches the bound entity's T component.
func Remove[T any](c *Context) bool {
	s := c.storage()
	return s != nil && ecs.Remove[T](s, c.entity)
}

// FindEntity looks up an entity by its tag name.
func (c *Context) FindEntity(name string) (ecs.EntityId, bool) {
	if c.host == nil {
		return 0, false
	}
	return c.host.FindEntityByName(name)
}

// CreateEntity creates a named entity in the bound entity's scene.
func (c *Context) CreateEntity(name string) ecs.EntityId {
	return c.host.CreateEntity(name)
}

// DestroyEntity destroys an entity in the bound entity's scene.
func (c *Context) DestroyEntity(id ecs.EntityId) {
	c.host.DestroyEntity(id)
}

func (c *Context) transform() *component.Transform {
	return Get[component.Transform](c)
}

// Position returns the entity's translation, or zero without a Transform.
func (c *Context) Position() mgl32.Vec3 {
	if t := c.transform(); t != nil {
		return t.Translation
	}
	return mgl32.Vec3{}
}

// SetPosition moves the entity. It is a no-op without a Transform.
func (c *Context) SetPosition(p mgl32.Vec3) {
	if t := c.transform(); t != nil {
		t.Translation = p
	}
}

// Rotation returns Euler angles in radians.
func (c *Context) Rotation() mgl32.Vec3 {
	if t := c.transform(); t != nil {
		return t.Rotation
	}
	return mgl32.Vec3{}
}

func (c *Context) SetRotation(r mgl32.Vec3) {
	if t := c.transform(); t != nil {
		t.Rotation = r
	}
}

func (c *Context) Scale() mgl32.Vec3 {
	if t := c.transform(); t != nil {
		return t.Scale
	}
	return mgl32.Vec3{1, 1, 1}
}

func (c *Context) SetScale(s mgl32.Vec3) {
	if t := c.transform(); t != nil {
		t.Scale = s
	}
}

// Forward returns the unit view direction derived from pitch (rotation X)
// and yaw (rotation Y). With no rotation it points down -Z.
func (c *Context) Forward() mgl32.Vec3 {
	r := c.Rotation()
	pitch, yaw := float64(r[0]), float64(r[1])
	return mgl32.Vec3{
		float32(-math.Sin(yaw) * math.Cos(pitch)),
		float32(math.Sin(pitch)),
		float32(-math.Cos(yaw) * math.Cos(pitch)),
	}
}

// Right returns the unit vector to the right of Forward in the horizontal
// plane.
func (c *Context) Right() mgl32.Vec3 {
	yaw := float64(c.Rotation()[1])
	return mgl32.Vec3{float32(math.Cos(yaw)), 0, float32(-math.Sin(yaw))}
}

// Up returns the unit vector orthogonal to Forward and Right.
func (c *Context) Up() mgl32.Vec3 {
	return c.Right().Cross(c.Forward())
}
