package ecs_test

import (
	"fmt"

	"github.com/plus3/stage/ecs"
)

type movement struct {
	ecs.BaseSystem
	Movers ecs.Query[struct {
		*Position
		*Velocity
	}]
}

func (m *movement) Name() string  { return "movement" }
func (m *movement) Priority() int { return 10 }

func (m *movement) Update(frame *ecs.UpdateFrame) error {
	dt := float32(frame.DeltaTime)
	for item := range m.Movers.Values() {
		item.Position.X += item.Velocity.DX * dt
		item.Position.Y += item.Velocity.DY * dt
	}
	return nil
}

func ExampleManager() {
	storage := ecs.NewStorage(newTestRegistry())
	_ = storage.Create(1)
	ecs.Add(storage, 1, Position{X: 0, Y: 0})
	ecs.Add(storage, 1, Velocity{DX: 2, DY: 1})

	manager := ecs.NewManager(storage)
	_ = manager.Register(&movement{}, false)
	manager.Init()

	for i := 0; i < 4; i++ {
		manager.Update(0.5)
	}
	manager.Shutdown()

	pos := ecs.Get[Position](storage, 1)
	fmt.Printf("%.1f %.1f\n", pos.X, pos.Y)
	// Output: 4.0 2.0
}

func ExampleSharedSystems() {
	registry := ecs.NewSharedSystems(nil)
	render := &recordingSystem{name: "render"}
	_ = registry.Own(render)

	for scene := 0; scene < 2; scene++ {
		manager := ecs.NewManager(ecs.NewStorage(newTestRegistry()), ecs.WithSharedSystems(registry))
		_ = manager.Register(render, true)
		manager.Init()
		manager.Update(0.016)
		manager.Shutdown()
	}
	fmt.Println("shutdowns before close:", render.shutdowns)

	registry.Close()
	fmt.Println("shutdowns after close:", render.shutdowns)
	// Output:
	// shutdowns before close: 0
	// shutdowns after close: 1
}
