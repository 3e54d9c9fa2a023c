package scene

import (
	"log/slog"
	"reflect"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stage/component"
	"github.com/plus3/stage/ecs"
	"github.com/plus3/stage/script"
)

var (
	tagType    = reflect.TypeFor[component.Tag]()
	scriptType = reflect.TypeFor[script.Component]()
)

// CreateEntity creates an entity with a Tag and an identity Transform. Ids
// are positive, strictly increasing and never reused.
func (s *Scene) CreateEntity(name string) ecs.EntityId {
	s.lastID++
	for s.storage.Exists(s.lastID) {
		s.lastID++
	}
	id := s.lastID
	if err := s.storage.Create(id); err != nil {
		panic(err)
	}
	s.attach(id, name)
	ecs.Add(s.storage, id, component.NewTransform(mgl32.Vec3{}))
	return id
}

// AddEntity restores an entity under an existing id with a Tag, then the
// given components. A Transform is added when components holds none. The id
// counter is advanced past id so later CreateEntity calls never collide.
func (s *Scene) AddEntity(id ecs.EntityId, name string, components ...any) error {
	if s.disposed {
		return ErrDisposed
	}
	if err := s.storage.Create(id); err != nil {
		return &ConfigError{Entity: id, Err: err}
	}
	if id > s.lastID {
		s.lastID = id
	}

	s.attach(id, name)
	for _, c := range components {
		s.storage.AddComponent(id, c)
	}
	if !ecs.Has[component.Transform](s.storage, id) {
		ecs.Add(s.storage, id, component.NewTransform(mgl32.Vec3{}))
	}
	return nil
}

// attach tags the entity and subscribes the scene's component observer.
func (s *Scene) attach(id ecs.EntityId, name string) {
	s.subscriptions[id] = s.storage.Observe(id, s.componentAdded).OnRemove(s.componentRemoved)
	ecs.Add(s.storage, id, component.Tag{Name: name})
}

// componentAdded keeps new cameras in step with the viewport and, while
// running, brings bodies and scripts attached mid-run to life.
func (s *Scene) componentAdded(id ecs.EntityId, c any) {
	switch c := c.(type) {
	case *component.Camera:
		if !c.FixedAspectRatio && s.viewportWidth > 0 && s.viewportHeight > 0 {
			c.Camera.SetViewportSize(s.viewportWidth, s.viewportHeight)
		}
	case *component.RigidBody2D, *component.BoxCollider2D:
		if s.running && ecs.Has[component.RigidBody2D](s.storage, id) {
			if err := s.createBody(id); err != nil {
				s.logger.Error("body not created", slog.Uint64("entity", uint64(id)), slog.Any("error", err))
			}
		}
	case *script.Component:
		delete(s.failedScripts, id)
	}
}

// componentRemoved runs a live script's OnDestroy while its component is
// still attached, whether the component is being removed or replaced.
func (s *Scene) componentRemoved(id ecs.EntityId, c any) {
	if _, ok := c.(*script.Component); !ok {
		return
	}
	if s.running {
		s.destroyScript(id)
	}
	delete(s.created, id)
}

// DestroyEntity removes the entity. While running its script receives
// OnDestroy first and its body leaves the physics world. Unknown ids are
// ignored.
func (s *Scene) DestroyEntity(id ecs.EntityId) {
	if !s.storage.Exists(id) || s.destroying[id] {
		return
	}
	s.destroying[id] = true
	defer delete(s.destroying, id)

	if s.running {
		s.destroyScript(id)
		s.world.DestroyBody(id)
	}

	if sub, ok := s.subscriptions[id]; ok {
		sub.Unsubscribe()
		delete(s.subscriptions, id)
	}
	delete(s.created, id)
	delete(s.failedScripts, id)
	s.storage.Delete(id)
}

// DuplicateEntity creates a new entity holding an independent copy of every
// component of id. A bound script is replaced by a fresh instance of the
// same type with its exposed fields copied.
func (s *Scene) DuplicateEntity(id ecs.EntityId) (ecs.EntityId, bool) {
	if !s.storage.Exists(id) {
		return 0, false
	}
	dup := s.CreateEntity(s.EntityName(id))
	s.copyComponents(s, id, dup)

	if s.running {
		s.ensureScript(dup)
	}
	return dup, true
}

// copyComponents clones every component of src in from onto dst in s.
func (s *Scene) copyComponents(from *Scene, src, dst ecs.EntityId) {
	for _, typ := range from.storage.Components(src) {
		if typ == tagType {
			continue
		}
		clone, ok := from.storage.CloneComponent(src, typ)
		if !ok {
			continue
		}
		if typ == scriptType {
			sc := clone.(script.Component)
			sc.Instance = s.cloneScript(from, src)
			clone = sc
		}
		s.storage.AddComponent(dst, clone)
	}
}

func (s *Scene) cloneScript(from *Scene, src ecs.EntityId) script.Entity {
	orig := ecs.Get[script.Component](from.storage, src)
	if !orig.Bound() || orig.TypeName == "" || s.deps.Scripts == nil {
		return nil
	}

	instance, err := s.deps.Scripts.New(orig.TypeName)
	if err != nil {
		s.logger.Error("script not cloned",
			slog.Uint64("entity", uint64(src)),
			slog.String("script", orig.TypeName),
			slog.Any("error", err),
		)
		return nil
	}
	if err := script.CopyFields(instance, orig.Instance); err != nil {
		s.logger.Warn("script fields not copied",
			slog.Uint64("entity", uint64(src)),
			slog.String("script", orig.TypeName),
			slog.Any("error", err),
		)
	}
	return instance
}

// FindEntityByName returns the first entity, in creation order, whose Tag
// has the given name.
func (s *Scene) FindEntityByName(name string) (ecs.EntityId, bool) {
	for id := range s.storage.Entities() {
		if tag := ecs.Get[component.Tag](s.storage, id); tag != nil && tag.Name == name {
			return id, true
		}
	}
	return 0, false
}

// EntityName returns the entity's Tag name.
func (s *Scene) EntityName(id ecs.EntityId) string {
	if tag := ecs.Get[component.Tag](s.storage, id); tag != nil {
		return tag.Name
	}
	return ""
}

// EntityCount returns the number of live entities.
func (s *Scene) EntityCount() int {
	return s.storage.Len()
}
