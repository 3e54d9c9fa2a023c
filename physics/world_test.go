package physics_test

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stage/component"
	"github.com/plus3/stage/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorldGravity(t *testing.T) {
	world := physics.NewWorld(physics.DefaultConfig())
	body := world.CreateBody(7, physics.BodyDef{
		Type:     component.DynamicBody,
		Position: mgl32.Vec2{0, 5},
	})
	body.AddBox(physics.FixtureDef{HalfExtents: mgl32.Vec2{0.5, 0.5}, Density: 1})

	for i := 0; i < 120; i++ {
		world.Step(1.0 / 60)
		y := body.Position()[1]
		require.False(t, math.IsNaN(float64(y)) || math.IsInf(float64(y), 0))
	}

	assert.Less(t, body.Position()[1], float32(5))
	assert.Less(t, body.LinearVelocity()[1], float32(0))
}

func TestWorldStaticBodyStays(t *testing.T) {
	world := physics.NewWorld(physics.DefaultConfig())
	body := world.CreateBody(1, physics.BodyDef{
		Type:     component.StaticBody,
		Position: mgl32.Vec2{1, 2},
		Angle:    0.5,
	})
	body.AddBox(physics.FixtureDef{HalfExtents: mgl32.Vec2{5, 0.5}})

	world.Step(1)
	assert.Equal(t, mgl32.Vec2{1, 2}, body.Position())
	assert.InDelta(t, 0.5, body.Angle(), 1e-6)
	assert.Equal(t, component.StaticBody, body.Type())
}

func TestWorldFixedStep(t *testing.T) {
	cfg := physics.DefaultConfig()
	cfg.FixedStep = 0.01
	world := physics.NewWorld(cfg)

	assert.Equal(t, 0, world.Step(0.005))
	assert.Equal(t, 1, world.Step(0.006))
	assert.Equal(t, 3, world.Step(0.03))
	assert.Equal(t, 8, world.Step(10), "sub steps are capped")
	assert.Equal(t, 0, world.Step(0.005), "remainder dropped after hitting the cap")
	assert.Equal(t, 0, world.Step(0))
}

func TestWorldCreateBodyReplaces(t *testing.T) {
	world := physics.NewWorld(physics.DefaultConfig())
	first := world.CreateBody(3, physics.BodyDef{Type: component.DynamicBody})
	second := world.CreateBody(3, physics.BodyDef{Type: component.KinematicBody})

	assert.False(t, first.Valid())
	assert.True(t, second.Valid())
	got, ok := world.Body(3)
	require.True(t, ok)
	assert.Same(t, second, got)

	world.Clear()
	assert.Equal(t, 0, world.BodyCount())
	assert.False(t, second.Valid())
}

func TestWorldSetTransform(t *testing.T) {
	world := physics.NewWorld(physics.DefaultConfig())
	body := world.CreateBody(1, physics.BodyDef{Type: component.KinematicBody})
	body.SetTransform(mgl32.Vec2{3, 4}, 1)
	body.SetLinearVelocity(mgl32.Vec2{1, 0})

	assert.Equal(t, mgl32.Vec2{3, 4}, body.Position())
	assert.InDelta(t, 1, body.Angle(), 1e-6)
	assert.Equal(t, mgl32.Vec2{1, 0}, body.LinearVelocity())
}
