package ecs_test

import "github.com/plus3/stage/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

// Custom primitive types for testing non-pointer components
type Score int32

type Inventory struct {
	Items []string
}

func (i *Inventory) Clone() Inventory {
	return Inventory{Items: append([]string(nil), i.Items...)}
}

type Waypoints struct {
	Points [][2]float32
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[Score](registry)
	ecs.RegisterComponent[Inventory](registry)
	ecs.RegisterComponent[Waypoints](registry)
	return registry
}

// spawner hands out increasing ids the way a scene does.
type spawner struct {
	storage *ecs.Storage
	next    ecs.EntityId
}

func newSpawner() *spawner {
	return &spawner{storage: ecs.NewStorage(newTestRegistry())}
}

func (s *spawner) spawn(components ...any) ecs.EntityId {
	s.next++
	if err := s.storage.Create(s.next); err != nil {
		panic(err)
	}
	for _, c := range components {
		s.storage.AddComponent(s.next, c)
	}
	return s.next
}
