package script

import (
	"fmt"
	"slices"
	"sync"

	"github.com/plus3/stage/ecs"
)

// Factory creates script instances by type name.
type Factory interface {
	New(typeName string) (Entity, error)
}

// Constructor builds a fresh script instance.
type Constructor func() Entity

// Registry is a Factory backed by registered constructors. It is safe for
// concurrent use.
type Registry struct {
	mu    sync.RWMutex
	ctors map[string]Constructor
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{ctors: make(map[string]Constructor)}
}

// Register maps name to ctor, replacing any earlier registration.
func (r *Registry) Register(name string, ctor Constructor) {
	if name == "" || ctor == nil {
		panic("script: Register requires a name and a constructor")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctors[name] = ctor
}

// New instantiates the named script. A panicking constructor is reported as
// an error.
func (r *Registry) New(name string) (Entity, error) {
	r.mu.RLock()
	ctor, ok := r.ctors[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownScript, name)
	}

	var instance Entity
	err := ecs.Protect(func() error {
		instance = ctor()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("script %q: %w", name, err)
	}
	if instance == nil {
		return nil, fmt.Errorf("script %q: constructor returned nil", name)
	}
	return instance, nil
}

// Names returns the registered type names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.ctors))
	for name := range r.ctors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
