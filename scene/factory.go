package scene

import "log/slog"

// Factory creates scenes sharing one set of dependencies and, through them,
// one SystemRegistry.
type Factory struct {
	deps        Dependencies
	ownsSystems bool
}

// NewFactory creates a factory. When deps.Systems is nil the factory builds
// a registry and closes it in Close.
func NewFactory(deps Dependencies) *Factory {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	f := &Factory{deps: deps}
	if f.deps.Systems == nil {
		f.deps.Systems = NewSystemRegistry(deps.Logger)
		f.ownsSystems = true
	}
	return f
}

// New creates an empty scene in editing state.
func (f *Factory) New(name string) *Scene {
	return New(name, f.deps)
}

// Systems returns the registry every scene of this factory shares.
func (f *Factory) Systems() *SystemRegistry {
	return f.deps.Systems
}

// Close releases the shared systems once no scene uses them anymore.
func (f *Factory) Close() {
	if f.ownsSystems {
		f.deps.Systems.Close()
	}
}
