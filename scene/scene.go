// Package scene runs a set of entities: it owns their storage, the physics
// world simulating them and the system manager updating them, and switches
// between editing and running.
package scene

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/plus3/stage/component"
	"github.com/plus3/stage/ecs"
	"github.com/plus3/stage/physics"
	"github.com/plus3/stage/render"
	"github.com/plus3/stage/script"
)

var (
	// ErrMissingTransform is reported for a rigid body on an entity without a Transform.
	ErrMissingTransform = errors.New("scene: rigid body requires a transform")
	// ErrNotRunning is returned by runtime operations on a scene that is not running.
	ErrNotRunning = errors.New("scene: not running")
	// ErrDisposed is returned by operations on a disposed scene.
	ErrDisposed = errors.New("scene: disposed")
)

// ConfigError reports malformed scene data found while starting the runtime
// or restoring entities.
type ConfigError struct {
	Entity ecs.EntityId
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("scene: entity %d: %v", e.Entity, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// Dependencies are the collaborators a scene draws, loads and instantiates
// scripts through.
type Dependencies struct {
	Surface  render.Surface
	Textures render.TextureLoader
	Scripts  script.Factory
	// Systems supplies the shared systems. When nil the scene builds a
	// registry of its own and closes it on Dispose.
	Systems *SystemRegistry
	Physics physics.Config
	// ShowColliders draws collider outlines over the running scene.
	ShowColliders bool
	Logger        *slog.Logger
}

// NewComponentRegistry returns a registry holding every component a scene
// understands.
func NewComponentRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	component.Register(registry)
	script.RegisterComponent(registry)
	return registry
}

// Scene is the aggregate root for one set of entities. A Scene is driven by
// a single goroutine.
type Scene struct {
	id     uuid.UUID
	name   string
	deps   Dependencies
	logger *slog.Logger

	storage *ecs.Storage
	manager *ecs.Manager
	world   *physics.World
	physics *PhysicsSystem

	systems     *SystemRegistry
	ownsSystems bool

	lastID        ecs.EntityId
	subscriptions map[ecs.EntityId]*ecs.Subscription

	// created holds entities whose script received OnCreate this run.
	created map[ecs.EntityId]bool
	// failedScripts remembers type names the factory rejected per entity.
	failedScripts map[ecs.EntityId]string
	destroying    map[ecs.EntityId]bool

	viewportWidth  int
	viewportHeight int

	textures  map[string]render.Texture
	tileCache map[string]render.Texture
	running   bool
	disposed  bool
}

// New creates an empty scene in editing state.
func New(name string, deps Dependencies) *Scene {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Surface == nil {
		deps.Surface = render.Discard()
	}
	if deps.Physics == (physics.Config{}) {
		deps.Physics = physics.DefaultConfig()
	}

	s := &Scene{
		id:            uuid.New(),
		name:          name,
		deps:          deps,
		storage:       ecs.NewStorage(NewComponentRegistry()),
		world:         physics.NewWorld(deps.Physics),
		subscriptions: make(map[ecs.EntityId]*ecs.Subscription),
		created:       make(map[ecs.EntityId]bool),
		failedScripts: make(map[ecs.EntityId]string),
		destroying:    make(map[ecs.EntityId]bool),
		textures:      make(map[string]render.Texture),
		tileCache:     make(map[string]render.Texture),
	}
	s.logger = deps.Logger.With(
		slog.String("scene", name),
		slog.String("scene_id", s.id.String()),
	)

	s.systems = deps.Systems
	if s.systems == nil {
		s.systems = NewSystemRegistry(deps.Logger)
		s.ownsSystems = true
	}

	s.manager = ecs.NewManager(s.storage,
		ecs.WithHost(s),
		ecs.WithSharedSystems(s.systems.Shared()),
		ecs.WithLogger(s.logger),
	)
	s.physics = &PhysicsSystem{}
	if err := s.manager.Register(s.physics, false); err != nil {
		panic(err)
	}
	if _, err := s.systems.Populate(s.manager); err != nil {
		panic(err)
	}
	return s
}

// ID returns the scene instance id.
func (s *Scene) ID() uuid.UUID {
	return s.id
}

// Name returns the scene name.
func (s *Scene) Name() string {
	return s.name
}

// Storage returns the entity registry.
func (s *Scene) Storage() *ecs.Storage {
	return s.storage
}

// Manager returns the scene's system manager.
func (s *Scene) Manager() *ecs.Manager {
	return s.manager
}

// World returns the physics world.
func (s *Scene) World() *physics.World {
	return s.world
}

// Logger returns the scene-scoped logger.
func (s *Scene) Logger() *slog.Logger {
	return s.logger
}

// Running reports whether the runtime is started.
func (s *Scene) Running() bool {
	return s.running
}

// Body returns the physics body of an entity while running.
func (s *Scene) Body(id ecs.EntityId) (*physics.Body, bool) {
	return s.world.Body(id)
}

// Dispose stops the runtime, drops observers, releases cached textures and
// clears every entity. Texture disposal failures are logged and do not stop
// the rest of the teardown. Dispose is idempotent.
func (s *Scene) Dispose() {
	if s.disposed {
		return
	}

	if s.running {
		_ = s.StopRuntime()
	}
	s.manager.Shutdown()

	for id, sub := range s.subscriptions {
		sub.Unsubscribe()
		delete(s.subscriptions, id)
	}

	s.disposeTextures(s.tileCache, "tile atlas")
	s.disposeTextures(s.textures, "texture")

	s.world.Clear()
	s.storage.Clear()

	if s.ownsSystems {
		s.systems.Close()
	}
	s.disposed = true
	s.logger.Debug("scene disposed")
}

func (s *Scene) disposeTextures(cache map[string]render.Texture, kind string) {
	for key, tex := range cache {
		if tex != nil {
			if err := tex.Dispose(); err != nil {
				s.logger.Warn("dispose failed",
					slog.String("kind", kind),
					slog.String("key", key),
					slog.Any("error", err),
				)
			}
		}
		delete(cache, key)
	}
}

// Copy builds a new scene with the same dependencies holding a copy of every
// entity under its original id. Scripts get fresh instances with their
// exposed fields copied.
func (s *Scene) Copy(name string) (*Scene, error) {
	deps := s.deps
	deps.Systems = s.systems

	dst := New(name, deps)
	dst.ResizeViewport(s.viewportWidth, s.viewportHeight)
	for id := range s.storage.Entities() {
		if err := dst.AddEntity(id, s.EntityName(id)); err != nil {
			dst.Dispose()
			return nil, err
		}
		dst.copyComponents(s, id, id)
	}
	return dst, nil
}
