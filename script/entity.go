// Package script defines the behavior contract attached to scene entities and
// the per-call context scripts use to reach their entity and scene.
package script

import (
	"errors"
	"fmt"

	"github.com/plus3/stage/ecs"
)

// Key identifies a keyboard key. Values follow ebiten.Key.
type Key int

// MouseButton identifies a mouse button. Values follow ebiten.MouseButton.
type MouseButton int

// Entity is the behavior bound to one scene entity. Every hook receives a
// Context resolving the entity and its scene at call time; implementations
// must not keep the Context past the call.
//
// Collision and trigger hooks are only called after the physics step has
// finished, so they may freely create, destroy or modify entities.
type Entity interface {
	OnCreate(ctx *Context)
	OnUpdate(ctx *Context, dt float64)
	OnDestroy(ctx *Context)

	OnKeyPressed(ctx *Context, key Key)
	OnKeyReleased(ctx *Context, key Key)
	OnMouseButtonPressed(ctx *Context, button MouseButton)

	OnCollisionBegin(ctx *Context, other ecs.EntityId)
	OnCollisionEnd(ctx *Context, other ecs.EntityId)
	OnTriggerEnter(ctx *Context, other ecs.EntityId)
	OnTriggerExit(ctx *Context, other ecs.EntityId)

	// Fields lists the values an editor or serializer may read, in display
	// order.
	Fields() []Field
	// SetField assigns a value by name, coercing it to the field's kind.
	SetField(name string, value Value) error
}

// Field is one exposed script value.
type Field struct {
	Name  string
	Value Value
}

var (
	// ErrUnknownField is returned by SetField for names a script does not expose.
	ErrUnknownField = errors.New("script: unknown field")
	// ErrUnknownScript is returned by a Factory for unregistered type names.
	ErrUnknownScript = errors.New("script: unknown script type")
)

// UnknownField returns an error wrapping ErrUnknownField for name.
func UnknownField(name string) error {
	return fmt.Errorf("%w %q", ErrUnknownField, name)
}

// Base implements every hook as a no-op. Embed it and override what the
// script needs.
type Base struct{}

func (Base) OnCreate(*Context)                          {}
func (Base) OnUpdate(*Context, float64)                 {}
func (Base) OnDestroy(*Context)                         {}
func (Base) OnKeyPressed(*Context, Key)                 {}
func (Base) OnKeyReleased(*Context, Key)                {}
func (Base) OnMouseButtonPressed(*Context, MouseButton) {}
func (Base) OnCollisionBegin(*Context, ecs.EntityId)    {}
func (Base) OnCollisionEnd(*Context, ecs.EntityId)      {}
func (Base) OnTriggerEnter(*Context, ecs.EntityId)      {}
func (Base) OnTriggerExit(*Context, ecs.EntityId)       {}
func (Base) Fields() []Field                            { return nil }

func (Base) SetField(name string, _ Value) error {
	return UnknownField(name)
}

// CopyFields assigns every field src exposes onto dst.
func CopyFields(dst, src Entity) error {
	var errs []error
	for _, field := range src.Fields() {
		if err := dst.SetField(field.Name, field.Value); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
