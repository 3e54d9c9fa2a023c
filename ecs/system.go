package ecs

import (
	"errors"
	"fmt"
)

// System represents a unit of per-frame behavior. Systems run in ascending
// Priority order; systems sharing a priority run in registration order.
//
// A System may be registered with several Managers (one per scene) when it
// is shared. Shared systems must not keep per-scene state: everything they
// need arrives through the frame.
type System interface {
	Name() string
	Priority() int
	Init(frame *UpdateFrame) error
	Update(frame *UpdateFrame) error
	Shutdown() error
}

// Detacher is implemented by systems that do per-scene work on Init which
// must be undone when the owning Manager shuts down, even when the system
// itself is shared and outlives that Manager.
type Detacher interface {
	Detach(frame *UpdateFrame) error
}

// BaseSystem provides no-op lifecycle methods. Embed it and override what
// the system needs.
type BaseSystem struct{}

func (BaseSystem) Init(*UpdateFrame) error   { return nil }
func (BaseSystem) Update(*UpdateFrame) error { return nil }
func (BaseSystem) Shutdown() error           { return nil }

var (
	// ErrNilSystem is returned when registering a nil system.
	ErrNilSystem = errors.New("ecs: nil system")
	// ErrSystemNotRegistered is returned when unregistering an unknown system.
	ErrSystemNotRegistered = errors.New("ecs: system not registered")
	// ErrSystemAlreadyRegistered is returned when a system is registered twice with one Manager.
	ErrSystemAlreadyRegistered = errors.New("ecs: system already registered")
	// ErrSystemRetired is returned when acquiring a shared system that has been shut down.
	ErrSystemRetired = errors.New("ecs: shared system already shut down")
)

// Lifecycle phases reported in SystemError.
const (
	PhaseInit     = "init"
	PhaseUpdate   = "update"
	PhaseDetach   = "detach"
	PhaseShutdown = "shutdown"
)

// SystemError describes a fault raised by a system during one lifecycle call.
type SystemError struct {
	System string
	Phase  string
	Err    error
}

func (e *SystemError) Error() string {
	return fmt.Sprintf("system %s: %s: %v", e.System, e.Phase, e.Err)
}

func (e *SystemError) Unwrap() error {
	return e.Err
}

// PanicError carries a value recovered from a panicking call.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}

// Protect runs fn and converts a panic into a *PanicError.
func Protect(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r}
		}
	}()
	return fn()
}
