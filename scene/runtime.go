package scene

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/plus3/stage/component"
	"github.com/plus3/stage/ecs"
	"github.com/plus3/stage/physics"
	"github.com/plus3/stage/script"
)

// StartRuntime validates the scene, initializes the system manager and
// creates a physics body for every entity with a RigidBody2D. A rigid body
// without a Transform fails with a ConfigError wrapping ErrMissingTransform
// and leaves the scene in editing state. Starting a running scene is a no-op.
func (s *Scene) StartRuntime() error {
	if s.disposed {
		return ErrDisposed
	}
	if s.running {
		return nil
	}

	view := ecs.NewView[struct {
		ecs.EntityId
		*component.RigidBody2D
		Transform *component.Transform `ecs:"optional"`
	}](s.storage)
	for id, item := range view.Iter() {
		if item.Transform == nil {
			return &ConfigError{Entity: id, Err: ErrMissingTransform}
		}
	}

	s.running = true
	s.manager.Init()

	bodies := 0
	for id := range view.Iter() {
		if err := s.createBody(id); err != nil {
			s.logger.Error("body not created", slog.Uint64("entity", uint64(id)), slog.Any("error", err))
			continue
		}
		bodies++
	}

	s.logger.Info("runtime started",
		slog.Int("entities", s.storage.Len()),
		slog.Int("bodies", bodies),
	)
	return nil
}

// StopRuntime shuts the system manager down, which gives every script its
// OnDestroy, and removes all bodies from the physics world.
func (s *Scene) StopRuntime() error {
	if !s.running {
		return ErrNotRunning
	}

	s.manager.Shutdown()
	s.world.Clear()
	clear(s.created)
	clear(s.failedScripts)
	s.running = false

	s.logger.Info("runtime stopped")
	return nil
}

// UpdateRuntime advances the running scene by dt seconds. Physics, scripts
// and rendering all run as systems in priority order.
func (s *Scene) UpdateRuntime(dt float64) error {
	if !s.running {
		return ErrNotRunning
	}
	s.manager.Update(dt)
	return nil
}

// Run drives UpdateRuntime at the given interval until ctx is cancelled.
func (s *Scene) Run(ctx context.Context, interval time.Duration) error {
	if !s.running {
		return ErrNotRunning
	}
	s.manager.Run(ctx, interval)
	return ctx.Err()
}

// createBody builds the entity's body from its RigidBody2D, Transform and
// optional BoxCollider2D, replacing any body it already has.
func (s *Scene) createBody(id ecs.EntityId) error {
	rb := ecs.Get[component.RigidBody2D](s.storage, id)
	if rb == nil {
		return nil
	}
	tr := ecs.Get[component.Transform](s.storage, id)
	if tr == nil {
		return &ConfigError{Entity: id, Err: ErrMissingTransform}
	}

	body := s.world.CreateBody(id, physics.BodyDef{
		Type:          rb.Type,
		Position:      tr.Translation.Vec2(),
		Angle:         tr.Rotation[2],
		FixedRotation: rb.FixedRotation,
		Bullet:        rb.Bullet,
	})

	if bc := ecs.Get[component.BoxCollider2D](s.storage, id); bc != nil {
		body.AddBox(physics.FixtureDef{
			HalfExtents: bc.HalfExtents(tr.Scale),
			Offset:      bc.Offset,
			Density:     bc.Density,
			Friction:    bc.Friction,
			Restitution: bc.Restitution,
			IsSensor:    bc.IsSensor,
		})
	}
	return nil
}

// dispatchContact notifies both participants of one drained contact event.
// The event is dropped when either participant no longer exists, which is
// the case for the end contact box2d reports while a body is destroyed.
// Participants without a bound script are skipped.
func (s *Scene) dispatchContact(event physics.ContactEvent) {
	if !s.storage.Exists(event.A) || !s.storage.Exists(event.B) {
		return
	}
	s.notifyContact(event.A, event.B, event)
	s.notifyContact(event.B, event.A, event)
}

func (s *Scene) notifyContact(self, other ecs.EntityId, event physics.ContactEvent) {
	// The peer's hook may have destroyed self.
	if !s.storage.Exists(self) {
		return
	}
	sc := ecs.Get[script.Component](s.storage, self)
	if !sc.Bound() {
		return
	}

	ctx := script.NewContext(s, self)
	instance := sc.Instance
	switch {
	case event.Trigger && event.Begin:
		script.Invoke(s.logger, ctx, sc.TypeName, script.HookTriggerEnter, func() { instance.OnTriggerEnter(ctx, other) })
	case event.Trigger:
		script.Invoke(s.logger, ctx, sc.TypeName, script.HookTriggerExit, func() { instance.OnTriggerExit(ctx, other) })
	case event.Begin:
		script.Invoke(s.logger, ctx, sc.TypeName, script.HookCollisionBegin, func() { instance.OnCollisionBegin(ctx, other) })
	default:
		script.Invoke(s.logger, ctx, sc.TypeName, script.HookCollisionEnd, func() { instance.OnCollisionEnd(ctx, other) })
	}
}

// ensureScript binds and creates the entity's script if needed and returns
// it. Factory failures are logged once per entity and type name.
func (s *Scene) ensureScript(id ecs.EntityId) (script.Entity, bool) {
	sc := ecs.Get[script.Component](s.storage, id)
	if sc == nil {
		return nil, false
	}

	if sc.Instance == nil {
		if sc.TypeName == "" || s.deps.Scripts == nil || s.failedScripts[id] == sc.TypeName {
			return nil, false
		}
		instance, err := s.deps.Scripts.New(sc.TypeName)
		if err != nil {
			s.failedScripts[id] = sc.TypeName
			s.logger.Error("script not instantiated",
				slog.Uint64("entity", uint64(id)),
				slog.String("script", sc.TypeName),
				slog.Any("error", err),
			)
			return nil, false
		}
		sc.Instance = instance
	}

	instance := sc.Instance
	if !s.created[id] {
		s.created[id] = true
		ctx := script.NewContext(s, id)
		script.Invoke(s.logger, ctx, sc.TypeName, script.HookCreate, func() { instance.OnCreate(ctx) })
	}
	return instance, true
}

// destroyScript gives a created script its OnDestroy. Scripts the scene
// instantiated from a type name are unbound so the next run starts fresh.
func (s *Scene) destroyScript(id ecs.EntityId) {
	if !s.created[id] {
		return
	}
	delete(s.created, id)

	sc := ecs.Get[script.Component](s.storage, id)
	if !sc.Bound() {
		return
	}
	instance := sc.Instance
	ctx := script.NewContext(s, id)
	script.Invoke(s.logger, ctx, sc.TypeName, script.HookDestroy, func() { instance.OnDestroy(ctx) })

	// OnDestroy may have removed the component.
	if sc := ecs.Get[script.Component](s.storage, id); sc != nil && sc.TypeName != "" {
		sc.Instance = nil
	}
}

// scriptedEntities snapshots the ids carrying a script component.
func (s *Scene) scriptedEntities() []ecs.EntityId {
	view := ecs.NewView[struct {
		ecs.EntityId
		*script.Component
	}](s.storage)
	ids := make([]ecs.EntityId, 0, 16)
	for id := range view.Iter() {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// KeyPressed forwards a key press to every script while running.
func (s *Scene) KeyPressed(key script.Key) {
	s.eachScript(script.HookKeyPressed, func(ctx *script.Context, e script.Entity) { e.OnKeyPressed(ctx, key) })
}

// KeyReleased forwards a key release to every script while running.
func (s *Scene) KeyReleased(key script.Key) {
	s.eachScript(script.HookKeyReleased, func(ctx *script.Context, e script.Entity) { e.OnKeyReleased(ctx, key) })
}

// MouseButtonPressed forwards a mouse button press to every script while
// running.
func (s *Scene) MouseButtonPressed(button script.MouseButton) {
	s.eachScript(script.HookMouseButton, func(ctx *script.Context, e script.Entity) { e.OnMouseButtonPressed(ctx, button) })
}

func (s *Scene) eachScript(hook string, fn func(*script.Context, script.Entity)) {
	if !s.running {
		return
	}
	for _, id := range s.scriptedEntities() {
		if !s.storage.Exists(id) || !s.created[id] {
			continue
		}
		sc := ecs.Get[script.Component](s.storage, id)
		if !sc.Bound() {
			continue
		}
		instance := sc.Instance
		ctx := script.NewContext(s, id)
		script.Invoke(s.logger, ctx, sc.TypeName, hook, func() { fn(ctx, instance) })
	}
}

func (s *Scene) invokeUpdate(id ecs.EntityId, instance script.Entity, dt float64) {
	var typeName string
	if sc := ecs.Get[script.Component](s.storage, id); sc != nil {
		typeName = sc.TypeName
	}
	ctx := script.NewContext(s, id)
	script.Invoke(s.logger, ctx, typeName, script.HookUpdate, func() { instance.OnUpdate(ctx, dt) })
}
