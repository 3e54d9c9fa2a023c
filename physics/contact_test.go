package physics_test

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stage/component"
	"github.com/plus3/stage/ecs"
	"github.com/plus3/stage/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactListenerDrainFIFO(t *testing.T) {
	l := physics.NewContactListener()
	l.Push(physics.ContactEvent{A: 1, B: 2, Begin: true})
	l.Push(physics.ContactEvent{A: 3, B: 4, Begin: true, Trigger: true})
	l.Push(physics.ContactEvent{A: 1, B: 2})
	assert.Equal(t, 3, l.Len())

	var got []physics.ContactEvent
	n := l.Drain(func(e physics.ContactEvent) {
		got = append(got, e)
	})

	assert.Equal(t, 3, n)
	assert.Equal(t, []physics.ContactEvent{
		{A: 1, B: 2, Begin: true},
		{A: 3, B: 4, Begin: true, Trigger: true},
		{A: 1, B: 2},
	}, got)
	assert.Equal(t, 0, l.Len())
	assert.Equal(t, 0, l.Drain(func(physics.ContactEvent) { t.Fatal("queue should be empty") }))
}

func TestContactListenerPushDuringDrain(t *testing.T) {
	l := physics.NewContactListener()
	l.Push(physics.ContactEvent{A: 1, B: 2, Begin: true})

	calls := 0
	l.Drain(func(e physics.ContactEvent) {
		calls++
		l.Push(physics.ContactEvent{A: e.A, B: e.B})
	})
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, l.Len(), "events pushed while draining wait for the next drain")

	var next []physics.ContactEvent
	l.Drain(func(e physics.ContactEvent) { next = append(next, e) })
	assert.Equal(t, []physics.ContactEvent{{A: 1, B: 2}}, next)
}

func TestContactListenerDropsUntagged(t *testing.T) {
	l := physics.NewContactListener()
	l.Push(physics.ContactEvent{A: 0, B: 2, Begin: true})
	l.Push(physics.ContactEvent{A: 1, B: 0, Begin: true})
	assert.Equal(t, 0, l.Len())
}

func TestContactListenerReset(t *testing.T) {
	l := physics.NewContactListener()
	l.Push(physics.ContactEvent{A: 1, B: 2})
	l.Reset()
	assert.Equal(t, 0, l.Len())
}

func overlappingBoxes(t *testing.T, sensor bool) *physics.World {
	t.Helper()
	cfg := physics.DefaultConfig()
	cfg.Gravity = mgl32.Vec2{}
	world := physics.NewWorld(cfg)

	for i, x := range []float32{0, 0.5} {
		body := world.CreateBody(ecs.EntityId(i+1), physics.BodyDef{
			Type:     component.DynamicBody,
			Position: mgl32.Vec2{x, 0},
		})
		body.AddBox(physics.FixtureDef{
			HalfExtents: mgl32.Vec2{0.5, 0.5},
			Density:     1,
			IsSensor:    sensor,
		})
	}
	return world
}

func collect(world *physics.World) []physics.ContactEvent {
	var events []physics.ContactEvent
	world.Contacts().Drain(func(e physics.ContactEvent) {
		events = append(events, e)
	})
	return events
}

func TestWorldContactCallbacks(t *testing.T) {
	for _, sensor := range []bool{false, true} {
		world := overlappingBoxes(t, sensor)
		world.Step(1.0 / 60)

		events := collect(world)
		require.NotEmpty(t, events, "sensor=%v", sensor)
		first := events[0]
		assert.True(t, first.Begin)
		assert.Equal(t, sensor, first.Trigger)
		assert.ElementsMatch(t, []ecs.EntityId{1, 2}, []ecs.EntityId{first.A, first.B})
	}
}

func TestWorldDestroyBodyEndsContact(t *testing.T) {
	world := overlappingBoxes(t, true)
	world.Step(1.0 / 60)
	collect(world)

	require.True(t, world.DestroyBody(1))
	assert.False(t, world.DestroyBody(1))

	events := collect(world)
	require.Len(t, events, 1)
	assert.False(t, events[0].Begin)
	assert.True(t, events[0].Trigger)
	assert.Equal(t, 1, world.BodyCount())
}
