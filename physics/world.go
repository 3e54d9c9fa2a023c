// Package physics wraps the 2D rigid-body simulation a running scene owns.
package physics

import (
	"github.com/ByteArena/box2d"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stage/component"
	"github.com/plus3/stage/ecs"
)

// maxSubSteps bounds how many fixed steps one Step call may take.
const maxSubSteps = 8

// Config holds world parameters.
type Config struct {
	Gravity            mgl32.Vec2
	VelocityIterations int
	PositionIterations int
	// FixedStep, when positive, advances the simulation in steps of exactly
	// this many seconds, carrying the remainder to the next call.
	FixedStep float64
}

// DefaultConfig returns earth gravity with the iteration counts box2d recommends.
func DefaultConfig() Config {
	return Config{
		Gravity:            mgl32.Vec2{0, -9.8},
		VelocityIterations: 6,
		PositionIterations: 2,
	}
}

// BodyDef describes a body to create.
type BodyDef struct {
	Type          component.BodyType
	Position      mgl32.Vec2
	Angle         float32
	FixedRotation bool
	Bullet        bool
}

// FixtureDef describes a box fixture. HalfExtents is final, already scaled.
type FixtureDef struct {
	HalfExtents mgl32.Vec2
	Offset      mgl32.Vec2
	Density     float32
	Friction    float32
	Restitution float32
	IsSensor    bool
}

// World owns a box2d world, the bodies created for entities and the contact
// listener registered with it. A World belongs to one scene and is not safe
// for concurrent use.
type World struct {
	world       box2d.B2World
	config      Config
	contacts    *ContactListener
	bodies      map[ecs.EntityId]*Body
	accumulator float64
}

// NewWorld creates a world and registers its contact listener.
func NewWorld(config Config) *World {
	if config.VelocityIterations <= 0 {
		config.VelocityIterations = DefaultConfig().VelocityIterations
	}
	if config.PositionIterations <= 0 {
		config.PositionIterations = DefaultConfig().PositionIterations
	}

	w := &World{
		world:    box2d.MakeB2World(vec(config.Gravity)),
		config:   config,
		contacts: NewContactListener(),
		bodies:   make(map[ecs.EntityId]*Body),
	}
	w.world.SetContactListener(w.contacts)
	return w
}

// Config returns the world parameters.
func (w *World) Config() Config {
	return w.config
}

// Contacts returns the listener buffering contact events for this world.
func (w *World) Contacts() *ContactListener {
	return w.contacts
}

// CreateBody creates a body tagged with entity. An existing body for the same
// entity is destroyed first.
func (w *World) CreateBody(entity ecs.EntityId, def BodyDef) *Body {
	w.DestroyBody(entity)

	bd := box2d.MakeB2BodyDef()
	bd.Type = bodyType(def.Type)
	bd.Position = vec(def.Position)
	bd.Angle = float64(def.Angle)
	bd.FixedRotation = def.FixedRotation
	bd.Bullet = def.Bullet

	b := w.world.CreateBody(&bd)
	b.SetUserData(entity)

	body := &Body{body: b, entity: entity, kind: def.Type}
	w.bodies[entity] = body
	return body
}

// Body returns the entity's body.
func (w *World) Body(entity ecs.EntityId) (*Body, bool) {
	body, ok := w.bodies[entity]
	return body, ok
}

// BodyCount returns the number of live bodies.
func (w *World) BodyCount() int {
	return len(w.bodies)
}

// DestroyBody removes the entity's body. Contacts it was part of end, which
// enqueues end events for the next drain.
func (w *World) DestroyBody(entity ecs.EntityId) bool {
	body, ok := w.bodies[entity]
	if !ok {
		return false
	}
	delete(w.bodies, entity)
	w.world.DestroyBody(body.body)
	body.body = nil
	return true
}

// Clear destroys every body and drops queued contact events.
func (w *World) Clear() {
	for entity := range w.bodies {
		w.DestroyBody(entity)
	}
	w.contacts.Reset()
	w.accumulator = 0
}

// Step advances the simulation by dt seconds and returns the number of
// solver steps taken. Contact callbacks fire inside this call and only
// enqueue events; drain them after Step returns.
func (w *World) Step(dt float64) int {
	if dt <= 0 {
		return 0
	}

	if w.config.FixedStep <= 0 {
		w.world.Step(dt, w.config.VelocityIterations, w.config.PositionIterations)
		return 1
	}

	w.accumulator += dt
	steps := 0
	for w.accumulator >= w.config.FixedStep && steps < maxSubSteps {
		w.world.Step(w.config.FixedStep, w.config.VelocityIterations, w.config.PositionIterations)
		w.accumulator -= w.config.FixedStep
		steps++
	}
	if steps == maxSubSteps {
		w.accumulator = 0
	}
	return steps
}

// Body is a simulated body bound to one entity.
type Body struct {
	body   *box2d.B2Body
	entity ecs.EntityId
	kind   component.BodyType
}

// Entity returns the entity the body is tagged with.
func (b *Body) Entity() ecs.EntityId {
	return b.entity
}

// Type returns the simulation type the body was created with.
func (b *Body) Type() component.BodyType {
	return b.kind
}

// Valid reports whether the body still exists in its world.
func (b *Body) Valid() bool {
	return b != nil && b.body != nil
}

// AddBox attaches a box fixture.
func (b *Body) AddBox(def FixtureDef) {
	shape := box2d.MakeB2PolygonShape()
	shape.SetAsBoxFromCenterAndAngle(
		float64(def.HalfExtents[0]), float64(def.HalfExtents[1]),
		vec(def.Offset), 0,
	)

	fd := box2d.MakeB2FixtureDef()
	fd.Shape = &shape
	fd.Density = float64(def.Density)
	fd.Friction = float64(def.Friction)
	fd.Restitution = float64(def.Restitution)
	fd.IsSensor = def.IsSensor
	b.body.CreateFixtureFromDef(&fd)
}

// Position returns the body origin in world units.
func (b *Body) Position() mgl32.Vec2 {
	p := b.body.GetPosition()
	return mgl32.Vec2{float32(p.X), float32(p.Y)}
}

// Angle returns the body rotation in radians.
func (b *Body) Angle() float32 {
	return float32(b.body.GetAngle())
}

// SetTransform teleports the body.
func (b *Body) SetTransform(position mgl32.Vec2, angle float32) {
	b.body.SetTransform(vec(position), float64(angle))
}

// LinearVelocity returns the body's velocity.
func (b *Body) LinearVelocity() mgl32.Vec2 {
	v := b.body.GetLinearVelocity()
	return mgl32.Vec2{float32(v.X), float32(v.Y)}
}

// SetLinearVelocity sets the body's velocity.
func (b *Body) SetLinearVelocity(v mgl32.Vec2) {
	b.body.SetLinearVelocity(vec(v))
}

func vec(v mgl32.Vec2) box2d.B2Vec2 {
	return box2d.MakeB2Vec2(float64(v[0]), float64(v[1]))
}

func bodyType(t component.BodyType) uint8 {
	switch t {
	case component.DynamicBody:
		return box2d.B2BodyType.B2_dynamicBody
	case component.KinematicBody:
		return box2d.B2BodyType.B2_kinematicBody
	default:
		return box2d.B2BodyType.B2_staticBody
	}
}
