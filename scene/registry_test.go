package scene_test

import (
	"testing"

	"github.com/plus3/stage/component"
	"github.com/plus3/stage/ecs"
	"github.com/plus3/stage/scene"
	"github.com/plus3/stage/script"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemRegistry(t *testing.T) {
	registry := scene.NewSystemRegistry(nil)
	defer registry.Close()

	assert.Equal(t, scene.SystemRegistryVersion, registry.Version())
	names := make([]string, 0, 3)
	for _, system := range registry.Systems() {
		names = append(names, system.Name())
		assert.Equal(t, 1, registry.Shared().Refs(system))
	}
	assert.Equal(t, []string{"scripts", "render", "collider-debug"}, names)
}

func TestFactorySharesSystems(t *testing.T) {
	factory := scene.NewFactory(scene.Dependencies{})
	a := factory.New("a")
	b := factory.New("b")

	shared := a.Manager().Systems()[1:]
	assert.Equal(t, shared, b.Manager().Systems()[1:])
	assert.NotSame(t, a.Manager().Systems()[0], b.Manager().Systems()[0], "physics is private")

	require.NoError(t, a.StartRuntime())
	require.NoError(t, b.StartRuntime())
	for _, system := range factory.Systems().Systems() {
		assert.Equal(t, 3, factory.Systems().Shared().Refs(system), system.Name())
	}

	a.Dispose()
	factory.Close()
	for _, system := range factory.Systems().Systems() {
		assert.False(t, factory.Systems().Shared().Retired(system), "still used by b: %s", system.Name())
	}

	require.NoError(t, b.UpdateRuntime(frame))
	b.Dispose()
	for _, system := range factory.Systems().Systems() {
		assert.True(t, factory.Systems().Shared().Retired(system), system.Name())
	}
}

func TestSharedSystemsOutliveScenes(t *testing.T) {
	factory := scene.NewFactory(scene.Dependencies{})
	defer factory.Close()

	for i := 0; i < 3; i++ {
		s := factory.New("level")
		require.NoError(t, s.StartRuntime())
		require.NoError(t, s.UpdateRuntime(frame))
		s.Dispose()
	}

	for _, system := range factory.Systems().Systems() {
		assert.False(t, factory.Systems().Shared().Retired(system), system.Name())
		assert.Equal(t, 1, factory.Systems().Shared().Refs(system), system.Name())
	}
}

func TestSceneLeavesBorrowedRegistryOpen(t *testing.T) {
	registry := scene.NewSystemRegistry(nil)
	defer registry.Close()

	s := scene.New("borrower", scene.Dependencies{Systems: registry})
	require.NoError(t, s.StartRuntime())
	s.Dispose()

	for _, system := range registry.Systems() {
		assert.False(t, registry.Shared().Retired(system), system.Name())
		assert.Equal(t, 1, registry.Shared().Refs(system), system.Name())
	}

	registry.Close()
	for _, system := range registry.Systems() {
		assert.True(t, registry.Shared().Retired(system), system.Name())
	}
}

func TestScenesShareScriptSystemButNotState(t *testing.T) {
	scripts := script.NewRegistry()
	log := &journal{}
	scripts.Register("probe", func() script.Entity { return &probe{log: log} })
	factory := scene.NewFactory(scene.Dependencies{Scripts: scripts})
	defer factory.Close()

	a := factory.New("a")
	defer a.Dispose()
	b := factory.New("b")
	defer b.Dispose()

	for _, s := range []*scene.Scene{a, b} {
		id := s.CreateEntity("player")
		ecs.Add(s.Storage(), id, script.Component{TypeName: "probe"})
		ecs.Add(s.Storage(), id, component.NewCamera(true))
	}

	require.NoError(t, a.StartRuntime())
	require.NoError(t, a.UpdateRuntime(frame))
	require.NoError(t, b.StartRuntime())

	assert.Equal(t, []string{"1:create", "1:update", "1:create"}, log.entries)
	assert.True(t, ecs.Get[script.Component](a.Storage(), 1).Bound())
	assert.True(t, ecs.Get[script.Component](b.Storage(), 1).Bound())
	assert.NotSame(t,
		ecs.Get[script.Component](a.Storage(), 1).Instance,
		ecs.Get[script.Component](b.Storage(), 1).Instance,
	)
}
