package ecs

// Host is the narrow view of the owning scene handed to systems and scripts.
// It replaces any global "current scene": whoever needs the scene gets it
// through a frame or a script context.
type Host interface {
	Storage() *Storage
	FindEntityByName(name string) (EntityId, bool)
	CreateEntity(name string) EntityId
	DestroyEntity(id EntityId)
}

// UpdateFrame is passed to every system lifecycle call.
type UpdateFrame struct {
	DeltaTime float64
	Storage   *Storage
	Host      Host
}

func newUpdateFrame(storage *Storage, host Host) *UpdateFrame {
	return &UpdateFrame{
		Storage: storage,
		Host:    host,
	}
}
