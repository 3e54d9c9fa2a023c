package scene

import (
	"fmt"

	"github.com/plus3/stage/component"
	"github.com/plus3/stage/ecs"
	"github.com/plus3/stage/physics"
)

// Built-in system priorities. Physics steps and drains contacts before
// scripts update, and rendering sees the results of both.
const (
	PhysicsPriority       = 100
	ScriptPriority        = 200
	RenderPriority        = 300
	ColliderDebugPriority = 400
)

func sceneOf(frame *ecs.UpdateFrame) (*Scene, error) {
	s, ok := frame.Host.(*Scene)
	if !ok || s == nil {
		return nil, fmt.Errorf("frame host %T is not a scene", frame.Host)
	}
	return s, nil
}

// physicsBody is what the physics system syncs after each step.
type physicsBody struct {
	ecs.EntityId
	*component.Transform
	*component.RigidBody2D
}

// PhysicsSystem steps the scene's physics world, copies body positions onto
// transforms and then drains the contact queue into script hooks. It is
// private to one scene because it drives that scene's world; the Manager
// binds Bodies to that scene's storage on registration.
type PhysicsSystem struct {
	ecs.BaseSystem
	Bodies ecs.Query[physicsBody]
	steps  int64
}

func (p *PhysicsSystem) Name() string  { return "physics" }
func (p *PhysicsSystem) Priority() int { return PhysicsPriority }

func (p *PhysicsSystem) Update(frame *ecs.UpdateFrame) error {
	s, err := sceneOf(frame)
	if err != nil {
		return err
	}

	p.steps += int64(s.world.Step(frame.DeltaTime))
	p.syncTransforms(s.world)
	s.world.Contacts().Drain(s.dispatchContact)
	return nil
}

// syncTransforms copies simulated positions back onto transforms.
func (p *PhysicsSystem) syncTransforms(world *physics.World) {
	for id, item := range p.Bodies.Iter() {
		if item.RigidBody2D.Type == component.StaticBody {
			continue
		}
		body, ok := world.Body(id)
		if !ok {
			continue
		}
		pos := body.Position()
		item.Transform.Translation[0] = pos[0]
		item.Transform.Translation[1] = pos[1]
		item.Transform.Rotation[2] = body.Angle()
	}
}

// Steps returns the number of solver steps taken since creation.
func (p *PhysicsSystem) Steps() int64 {
	return p.steps
}

// ScriptSystem binds and creates scripts on Init, updates them every frame
// and destroys them when a scene detaches. It holds no per-scene state and
// is shared by every scene.
type ScriptSystem struct {
	ecs.BaseSystem
}

func (ScriptSystem) Name() string  { return "scripts" }
func (ScriptSystem) Priority() int { return ScriptPriority }

func (ScriptSystem) Init(frame *ecs.UpdateFrame) error {
	s, err := sceneOf(frame)
	if err != nil {
		return err
	}
	for _, id := range s.scriptedEntities() {
		s.ensureScript(id)
	}
	return nil
}

// Update binds scripts attached since the last frame, then calls OnUpdate on
// each. Each hook call is isolated, so one faulting script does not stop the
// others.
func (ScriptSystem) Update(frame *ecs.UpdateFrame) error {
	s, err := sceneOf(frame)
	if err != nil {
		return err
	}

	dt := frame.DeltaTime
	for _, id := range s.scriptedEntities() {
		if !s.storage.Exists(id) {
			continue
		}
		instance, ok := s.ensureScript(id)
		if !ok || !s.storage.Exists(id) {
			continue
		}
		s.invokeUpdate(id, instance, dt)
	}
	return nil
}

func (ScriptSystem) Detach(frame *ecs.UpdateFrame) error {
	s, err := sceneOf(frame)
	if err != nil {
		return err
	}
	for _, id := range s.scriptedEntities() {
		s.destroyScript(id)
	}
	return nil
}

// RenderSystem draws the running scene through its primary camera. Scenes
// without a primary camera draw nothing.
type RenderSystem struct {
	ecs.BaseSystem
}

func (RenderSystem) Name() string  { return "render" }
func (RenderSystem) Priority() int { return RenderPriority }

func (RenderSystem) Update(frame *ecs.UpdateFrame) error {
	s, err := sceneOf(frame)
	if err != nil {
		return err
	}
	camera, ok := s.RuntimeCamera()
	if !ok {
		return nil
	}
	surface := s.deps.Surface
	surface.BeginScene(camera)
	s.drawEntities(surface)
	surface.EndScene()
	return nil
}

// ColliderDebugSystem outlines colliders over the running scene when the
// scene enables it.
type ColliderDebugSystem struct {
	ecs.BaseSystem
}

func (ColliderDebugSystem) Name() string  { return "collider-debug" }
func (ColliderDebugSystem) Priority() int { return ColliderDebugPriority }

func (ColliderDebugSystem) Update(frame *ecs.UpdateFrame) error {
	s, err := sceneOf(frame)
	if err != nil {
		return err
	}
	if !s.deps.ShowColliders {
		return nil
	}
	camera, ok := s.RuntimeCamera()
	if !ok {
		return nil
	}
	s.drawColliders(camera)
	return nil
}
