package scene

import (
	"log/slog"

	"github.com/plus3/stage/ecs"
)

// SystemRegistryVersion identifies the list of shared systems Populate
// registers. It changes whenever a system is added, removed or reordered.
const SystemRegistryVersion = 1

// SystemRegistry builds the shared systems once and hands the same instances
// to every scene. The underlying SharedSystems owns them: each is shut down
// exactly once, after Close and after the last scene using it shuts down.
type SystemRegistry struct {
	shared  *ecs.SharedSystems
	systems []ecs.System
}

// NewSystemRegistry creates the script, render and collider-debug systems.
func NewSystemRegistry(logger *slog.Logger) *SystemRegistry {
	r := &SystemRegistry{
		shared: ecs.NewSharedSystems(logger),
		systems: []ecs.System{
			&ScriptSystem{},
			&RenderSystem{},
			&ColliderDebugSystem{},
		},
	}
	for _, system := range r.systems {
		if err := r.shared.Own(system); err != nil {
			panic(err)
		}
	}
	return r
}

// Version returns SystemRegistryVersion.
func (r *SystemRegistry) Version() int {
	return SystemRegistryVersion
}

// Shared returns the reference-counting owner of the systems.
func (r *SystemRegistry) Shared() *ecs.SharedSystems {
	return r.shared
}

// Systems returns the shared systems in registration order.
func (r *SystemRegistry) Systems() []ecs.System {
	return append([]ecs.System(nil), r.systems...)
}

// Populate registers every shared system with manager and returns them. The
// manager must have been created with this registry's SharedSystems.
func (r *SystemRegistry) Populate(manager *ecs.Manager) ([]ecs.System, error) {
	for _, system := range r.systems {
		if err := manager.Register(system, true); err != nil {
			return nil, err
		}
	}
	return r.Systems(), nil
}

// Close releases the registry's ownership. Systems still used by a scene
// shut down when that scene stops.
func (r *SystemRegistry) Close() {
	r.shared.Close()
}
