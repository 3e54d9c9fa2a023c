package component_test

import (
	"math"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/stage/component"
	"github.com/plus3/stage/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformMatrix(t *testing.T) {
	tr := component.NewTransform(mgl32.Vec3{1, 2, 3})
	tr.Scale = mgl32.Vec3{2, 2, 1}

	point := tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 3, point[0], 1e-5)
	assert.InDelta(t, 2, point[1], 1e-5)
	assert.InDelta(t, 3, point[2], 1e-5)

	tr.Rotation = mgl32.Vec3{0, 0, math.Pi / 2}
	point = tr.Matrix().Mul4x1(mgl32.Vec4{1, 0, 0, 1})
	assert.InDelta(t, 1, point[0], 1e-5)
	assert.InDelta(t, 4, point[1], 1e-5)
}

func TestSceneCameraViewport(t *testing.T) {
	cam := component.NewSceneCamera()
	cam.SetViewportSize(1600, 800)
	assert.Equal(t, float32(2), cam.AspectRatio)

	// Ortho size 10 at aspect 2 spans x in [-10, 10].
	edge := cam.Projection.Mul4x1(mgl32.Vec4{10, 5, 0, 1})
	assert.InDelta(t, 1, edge[0], 1e-5)
	assert.InDelta(t, 1, edge[1], 1e-5)

	before := cam.Projection
	cam.SetViewportSize(0, 100)
	assert.Equal(t, before, cam.Projection)

	cam.Type = component.Perspective
	cam.Recalculate()
	assert.NotEqual(t, before, cam.Projection)
}

func TestTileMap(t *testing.T) {
	tm := component.NewTileMap("atlas.png", 4, 2, 3, 2)
	assert.Equal(t, -1, tm.Tile(0, 0))

	tm.SetTile(2, 1, 5)
	tm.SetTile(9, 9, 1)
	assert.Equal(t, 5, tm.Tile(2, 1))
	assert.Equal(t, -1, tm.Tile(9, 9))

	clone := tm.Clone()
	tm.SetTile(2, 1, 0)
	assert.Equal(t, 5, clone.Tile(2, 1))

	min, max := tm.TileRegion(5)
	assert.Equal(t, mgl32.Vec2{0.25, 0.5}, min)
	assert.Equal(t, mgl32.Vec2{0.5, 1}, max)
}

func TestSubTextureRegion(t *testing.T) {
	sub := component.SubTexture{Columns: 4, Rows: 4, Cell: [2]int{1, 2}, Span: [2]int{2, 1}}
	min, max := sub.Region()
	assert.Equal(t, mgl32.Vec2{0.25, 0.5}, min)
	assert.Equal(t, mgl32.Vec2{0.75, 0.75}, max)
}

func TestBoxColliderHalfExtents(t *testing.T) {
	c := component.NewBoxCollider2D()
	assert.Equal(t, mgl32.Vec2{1, 1.5}, c.HalfExtents(mgl32.Vec3{2, 3, 1}))
}

func TestRegister(t *testing.T) {
	registry := ecs.NewComponentRegistry()
	component.Register(registry)
	storage := ecs.NewStorage(registry)
	require.NoError(t, storage.Create(1))

	tm := component.NewTileMap("atlas.png", 2, 2, 2, 2)
	tm.SetTile(0, 0, 3)
	ecs.Add(storage, 1, tm)

	clone, ok := storage.CloneComponent(1, reflect.TypeFor[component.TileMap]())
	require.True(t, ok)
	ecs.Get[component.TileMap](storage, 1).SetTile(0, 0, 1)
	cloned := clone.(component.TileMap)
	assert.Equal(t, 3, cloned.Tile(0, 0))
}
