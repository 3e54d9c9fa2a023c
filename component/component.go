// Package component holds the plain-data components a scene understands.
package component

import "github.com/plus3/stage/ecs"

// Register adds every component type of this package to the registry.
func Register(r *ecs.ComponentRegistry) {
	ecs.RegisterComponent[Tag](r)
	ecs.RegisterComponent[Transform](r)
	ecs.RegisterComponent[SpriteRenderer](r)
	ecs.RegisterComponent[SubTexture](r)
	ecs.RegisterComponent[TileMap](r)
	ecs.RegisterComponent[Camera](r)
	ecs.RegisterComponent[RigidBody2D](r)
	ecs.RegisterComponent[BoxCollider2D](r)
}

// Tag names an entity. Every scene entity carries one.
type Tag struct {
	Name string
}
