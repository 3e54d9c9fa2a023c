package ecs_test

import (
	"errors"
	"testing"

	"github.com/plus3/stage/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedSystemShutdownOnce(t *testing.T) {
	registry := ecs.NewSharedSystems(nil)
	shared := &detachingSystem{recordingSystem{name: "render"}}

	a, _ := newTestManager(ecs.WithSharedSystems(registry))
	b, _ := newTestManager(ecs.WithSharedSystems(registry))
	require.NoError(t, a.Register(shared, true))
	require.NoError(t, b.Register(shared, true))

	a.Init()
	b.Init()
	assert.Equal(t, 2, shared.inits, "Init runs once per scene")
	assert.Equal(t, 2, registry.Refs(shared))

	a.Update(0.016)
	b.Update(0.016)
	assert.Equal(t, 2, shared.updates)

	a.Shutdown()
	assert.Equal(t, 0, shared.shutdowns)
	assert.Equal(t, 1, shared.detaches)
	assert.False(t, registry.Retired(shared))

	b.Shutdown()
	assert.Equal(t, 1, shared.shutdowns)
	assert.Equal(t, 2, shared.detaches)
	assert.True(t, registry.Retired(shared))

	a.Shutdown()
	b.Shutdown()
	registry.Close()
	assert.Equal(t, 1, shared.shutdowns)
}

func TestSharedSystemOwnedOutlivesScenes(t *testing.T) {
	registry := ecs.NewSharedSystems(nil)
	shared := &recordingSystem{name: "sprites"}
	require.NoError(t, registry.Own(shared))
	require.NoError(t, registry.Own(shared))
	assert.Equal(t, 1, registry.Refs(shared))

	for scene := 0; scene < 3; scene++ {
		m, _ := newTestManager(ecs.WithSharedSystems(registry))
		require.NoError(t, m.Register(shared, true))
		m.Init()
		m.Update(0.016)
		m.Shutdown()
	}
	assert.Equal(t, 3, shared.inits)
	assert.Equal(t, 0, shared.shutdowns)

	registry.Close()
	assert.Equal(t, 1, shared.shutdowns)
	assert.True(t, registry.Retired(shared))

	registry.Close()
	assert.Equal(t, 1, shared.shutdowns)
}

func TestSharedSystemCloseWhileInUse(t *testing.T) {
	registry := ecs.NewSharedSystems(nil)
	shared := &recordingSystem{name: "physics-debug"}
	require.NoError(t, registry.Own(shared))

	m, _ := newTestManager(ecs.WithSharedSystems(registry))
	require.NoError(t, m.Register(shared, true))
	m.Init()

	registry.Close()
	assert.Equal(t, 0, shared.shutdowns, "still referenced by a live scene")

	m.Update(0.016)
	assert.Equal(t, 1, shared.updates)

	m.Shutdown()
	assert.Equal(t, 1, shared.shutdowns)
}

func TestSharedSystemRetired(t *testing.T) {
	registry := ecs.NewSharedSystems(nil)
	shared := &recordingSystem{name: "retired"}

	m, logs := newTestManager(ecs.WithSharedSystems(registry))
	require.NoError(t, m.Register(shared, true))
	m.Init()
	m.Shutdown()
	require.True(t, registry.Retired(shared))

	other, otherLogs := newTestManager(ecs.WithSharedSystems(registry))
	require.NoError(t, other.Register(shared, true))
	other.Init()
	other.Update(0.016)

	assert.Equal(t, 1, shared.inits, "a retired system is never initialized again")
	assert.Equal(t, 0, shared.updates)
	assert.Contains(t, otherLogs.String(), "already shut down")
	assert.Empty(t, logs.String())

	assert.ErrorIs(t, registry.Own(shared), ecs.ErrSystemRetired)
}

func TestSharedSystemInitFailureReleases(t *testing.T) {
	registry := ecs.NewSharedSystems(nil)
	shared := &recordingSystem{name: "flaky", panicOn: "init"}
	require.NoError(t, registry.Own(shared))

	m, _ := newTestManager(ecs.WithSharedSystems(registry))
	require.NoError(t, m.Register(shared, true))
	m.Init()
	assert.Equal(t, 1, registry.Refs(shared))

	m.Shutdown()
	assert.Equal(t, 1, registry.Refs(shared))
	assert.Equal(t, 0, shared.shutdowns)
}

func TestSharedSystemInitFailureDoesNotRetire(t *testing.T) {
	registry := ecs.NewSharedSystems(nil)
	shared := &recordingSystem{name: "assets", initErr: errors.New("not ready")}

	first, logs := newTestManager(ecs.WithSharedSystems(registry))
	require.NoError(t, first.Register(shared, true))
	first.Init()
	assert.Contains(t, logs.String(), "not ready")
	assert.Equal(t, 0, registry.Refs(shared))
	assert.False(t, registry.Retired(shared))
	assert.Equal(t, 0, shared.shutdowns)

	shared.initErr = nil
	second, _ := newTestManager(ecs.WithSharedSystems(registry))
	require.NoError(t, second.Register(shared, true))
	second.Init()
	second.Update(0.016)
	assert.Equal(t, 1, shared.updates)
	assert.Equal(t, 1, registry.Refs(shared))

	first.Shutdown()
	second.Shutdown()
	assert.Equal(t, 1, shared.shutdowns)
	assert.True(t, registry.Retired(shared))
}

func TestSharedSystemsOwnNil(t *testing.T) {
	registry := ecs.NewSharedSystems(nil)
	assert.ErrorIs(t, registry.Own(nil), ecs.ErrNilSystem)
	assert.Empty(t, registry.Systems())
}
