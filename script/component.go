package script

import "github.com/plus3/stage/ecs"

// Component attaches a script to an entity. TypeName is what the factory
// instantiates; Instance is nil until the scene starts running or the script
// is bound explicitly.
type Component struct {
	TypeName string
	Instance Entity
}

// Bound reports whether the component holds a live script.
func (c *Component) Bound() bool {
	return c != nil && c.Instance != nil
}

// Clone copies the type name only. Script instances are never shared between
// entities; the scene instantiates a fresh one for the copy.
func (c *Component) Clone() Component {
	return Component{TypeName: c.TypeName}
}

// RegisterComponent adds Component to the registry.
func RegisterComponent(r *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Component](r)
}
