package main

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stage/component"
	"github.com/plus3/stage/ecs"
	"github.com/plus3/stage/scene"
	"github.com/plus3/stage/script"
)

var (
	groundColor = mgl32.Vec4{0.35, 0.3, 0.25, 1}
	crateColor  = mgl32.Vec4{0.8, 0.55, 0.2, 1}
	playerColor = mgl32.Vec4{0.2, 0.6, 0.9, 1}
	zoneColor   = mgl32.Vec4{0.9, 0.2, 0.2, 0.3}
)

// buildDemo fills s with a camera, ground, a stack of crates, a player and a
// trigger zone.
func buildDemo(s *scene.Scene) {
	storage := s.Storage()

	camera := s.CreateEntity("Camera")
	ecs.Add(storage, camera, component.NewCamera(true))
	ecs.Get[component.Transform](storage, camera).Translation = mgl32.Vec3{0, 2, 0}

	ground := box(s, "Ground", mgl32.Vec3{0, -3, 0}, mgl32.Vec3{16, 1, 1}, groundColor)
	ecs.Add(storage, ground, component.RigidBody2D{Type: component.StaticBody})
	ecs.Add(storage, ground, component.NewBoxCollider2D())

	for i := 0; i < 5; i++ {
		crate := box(s, "Crate", mgl32.Vec3{float32(i%2) * 0.3, float32(i) * 1.2, 0}, mgl32.Vec3{1, 1, 1}, crateColor)
		ecs.Add(storage, crate, component.RigidBody2D{Type: component.DynamicBody})
		ecs.Add(storage, crate, component.NewBoxCollider2D())
	}

	player := box(s, "Player", mgl32.Vec3{-4, 0, 0}, mgl32.Vec3{0.8, 1.6, 1}, playerColor)
	ecs.Add(storage, player, component.RigidBody2D{Type: component.DynamicBody, FixedRotation: true})
	ecs.Add(storage, player, component.NewBoxCollider2D())
	ecs.Add(storage, player, script.Component{TypeName: "player"})

	zone := box(s, "Zone", mgl32.Vec3{4, -1.5, 0}, mgl32.Vec3{2, 2, 1}, zoneColor)
	ecs.Add(storage, zone, component.RigidBody2D{Type: component.StaticBody})
	sensor := component.NewBoxCollider2D()
	sensor.IsSensor = true
	ecs.Add(storage, zone, sensor)
	ecs.Add(storage, zone, script.Component{TypeName: "zone"})
}

func box(s *scene.Scene, name string, pos, scale mgl32.Vec3, color mgl32.Vec4) ecs.EntityId {
	id := s.CreateEntity(name)
	tr := ecs.Get[component.Transform](s.Storage(), id)
	tr.Translation = pos
	tr.Scale = scale
	ecs.Add(s.Storage(), id, component.NewSpriteRenderer(color))
	return id
}

func logPositions(s *scene.Scene, logger *slog.Logger) {
	view := ecs.NewView[struct {
		ecs.EntityId
		*component.Transform
		*component.RigidBody2D
	}](s.Storage())
	for id, item := range view.Iter() {
		logger.Info("body",
			slog.Uint64("entity", uint64(id)),
			slog.String("name", s.EntityName(id)),
			slog.String("type", item.RigidBody2D.Type.String()),
			slog.Float64("x", float64(item.Transform.Translation[0])),
			slog.Float64("y", float64(item.Transform.Translation[1])),
		)
	}
}
