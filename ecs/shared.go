package ecs

import (
	"fmt"
	"log/slog"
	"sync"
)

type sharedEntry struct {
	system  System
	refs    int
	owned   bool
	retired bool
}

// SharedSystems owns systems that are reused across scenes. Managers acquire
// a reference when they initialize a shared system and release it when they
// shut down; the system's Shutdown runs exactly once, when the last
// reference is released. Systems handed to Own carry an extra reference held
// by the registry itself until Close, which keeps them alive between scenes.
//
// A reference taken for an Init that fails is dropped without retiring the
// system.
//
// SharedSystems is safe for concurrent use so scenes living on different
// goroutines may share one registry.
type SharedSystems struct {
	mu      sync.Mutex
	entries map[System]*sharedEntry
	order   []System
	logger  *slog.Logger
	closed  bool
}

// NewSharedSystems creates an empty registry.
func NewSharedSystems(logger *slog.Logger) *SharedSystems {
	if logger == nil {
		logger = slog.Default()
	}
	return &SharedSystems{
		entries: make(map[System]*sharedEntry),
		logger:  logger,
	}
}

func (r *SharedSystems) entryFor(system System) *sharedEntry {
	entry, ok := r.entries[system]
	if !ok {
		entry = &sharedEntry{system: system}
		r.entries[system] = entry
		r.order = append(r.order, system)
	}
	return entry
}

// Own registers system as owned by the registry. The registry's reference is
// released by Close.
func (r *SharedSystems) Own(system System) error {
	if system == nil || isNilPointer(system) {
		return ErrNilSystem
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.entryFor(system)
	if entry.retired || r.closed {
		return &SystemError{System: system.Name(), Phase: "own", Err: ErrSystemRetired}
	}
	if !entry.owned {
		entry.owned = true
		entry.refs++
	}
	return nil
}

// Refs returns the number of live references to system.
func (r *SharedSystems) Refs(system System) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.entries[system]; ok {
		return entry.refs
	}
	return 0
}

// Retired reports whether system has been shut down.
func (r *SharedSystems) Retired(system System) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[system]
	return ok && entry.retired
}

// Systems returns every system known to the registry in first-seen order.
func (r *SharedSystems) Systems() []System {
	r.mu.Lock()
	defer r.mu.Unlock()

	systems := make([]System, len(r.order))
	copy(systems, r.order)
	return systems
}

func (r *SharedSystems) acquire(system System) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry := r.entryFor(system)
	if entry.retired {
		return ErrSystemRetired
	}
	entry.refs++
	return nil
}

func (r *SharedSystems) release(system System) error {
	r.mu.Lock()
	entry, ok := r.entries[system]
	if !ok || entry.refs == 0 {
		r.mu.Unlock()
		return fmt.Errorf("release of unreferenced shared system %s", system.Name())
	}
	entry.refs--
	shutdown := r.retireLocked(entry)
	r.mu.Unlock()

	if shutdown {
		return r.shutdown(entry.system)
	}
	return nil
}

// abandon drops a reference taken for an Init that failed. The system is
// not retired, so later scenes may still acquire it; if nothing else holds
// it, Close shuts it down.
func (r *SharedSystems) abandon(system System) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if entry, ok := r.entries[system]; ok && entry.refs > 0 {
		entry.refs--
	}
}

// retireLocked marks the entry retired when nothing references it anymore
// and reports whether the caller must run the system's Shutdown.
func (r *SharedSystems) retireLocked(entry *sharedEntry) bool {
	if entry.refs > 0 || entry.retired {
		return false
	}
	entry.retired = true
	return true
}

func (r *SharedSystems) shutdown(system System) error {
	if err := Protect(system.Shutdown); err != nil {
		r.logger.Error("system fault",
			slog.String("system", system.Name()),
			slog.String("phase", PhaseShutdown),
			slog.Bool("shared", true),
			slog.Any("error", err),
		)
		return &SystemError{System: system.Name(), Phase: PhaseShutdown, Err: err}
	}
	return nil
}

// Close releases the registry's own references. Systems no Manager still
// references are shut down now; the rest shut down when their last Manager
// releases them. Close is idempotent.
func (r *SharedSystems) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true

	var pending []System
	for _, system := range r.order {
		entry := r.entries[system]
		if entry.owned {
			entry.owned = false
			entry.refs--
		}
		if r.retireLocked(entry) {
			pending = append(pending, system)
		}
	}
	r.mu.Unlock()

	// Reverse registration order, matching Manager.Shutdown.
	for i := len(pending) - 1; i >= 0; i-- {
		r.shutdown(pending[i])
	}
}
