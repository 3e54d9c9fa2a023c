package ecs_test

import (
	"testing"

	"github.com/plus3/stage/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView(t *testing.T) {
	s := newSpawner()
	id := s.spawn(Position{X: 1, Y: 2}, Velocity{DX: 3, DY: 4})

	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](s.storage)

	result := view.Get(id)
	require.NotNil(t, result)
	assert.Equal(t, float32(1), result.Position.X)
	assert.Equal(t, float32(4), result.Velocity.DY)
}

func TestViewMissingComponent(t *testing.T) {
	s := newSpawner()
	id := s.spawn(Position{X: 1})

	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](s.storage)

	assert.Nil(t, view.Get(id))
	assert.Nil(t, view.Get(999))
}

func TestViewComponentMutation(t *testing.T) {
	s := newSpawner()
	id := s.spawn(Position{X: 1})

	view := ecs.NewView[struct{ *Position }](s.storage)
	view.Get(id).Position.X = 10

	assert.Equal(t, float32(10), ecs.Get[Position](s.storage, id).X)
}

func TestViewEntityIdField(t *testing.T) {
	s := newSpawner()
	s.spawn(Position{X: 1})
	id := s.spawn(Position{X: 2}, Velocity{})

	view := ecs.NewView[struct {
		ecs.EntityId
		*Position
		*Velocity
	}](s.storage)

	var got []ecs.EntityId
	for item := range view.Values() {
		got = append(got, item.EntityId)
	}
	assert.Equal(t, []ecs.EntityId{id}, got)
}

func TestViewIter(t *testing.T) {
	s := newSpawner()
	s.spawn(Position{X: 1}, Velocity{DX: 1})
	s.spawn(Position{X: 2}, Velocity{DX: 2})
	s.spawn(Position{X: 3})
	s.spawn(Velocity{DX: 4})

	view := ecs.NewView[struct {
		*Position
		*Velocity
	}](s.storage)

	sum := float32(0)
	count := 0
	for _, item := range view.Iter() {
		sum += item.Position.X + item.Velocity.DX
		count++
	}
	assert.Equal(t, 2, count)
	assert.Equal(t, float32(6), sum)
}

func TestViewIterEmpty(t *testing.T) {
	s := newSpawner()
	view := ecs.NewView[struct{ *Health }](s.storage)

	for range view.Iter() {
		t.Fatal("expected no entities")
	}

	_, _, ok := view.First()
	assert.False(t, ok)
}

func TestViewIterEarlyBreak(t *testing.T) {
	s := newSpawner()
	for i := 0; i < 10; i++ {
		s.spawn(Position{X: float32(i)})
	}

	view := ecs.NewView[struct{ *Position }](s.storage)
	count := 0
	for range view.Iter() {
		count++
		if count == 3 {
			break
		}
	}
	assert.Equal(t, 3, count)
}

func TestViewIterWithDeletedEntities(t *testing.T) {
	s := newSpawner()
	a := s.spawn(Position{X: 1})
	s.spawn(Position{X: 2})
	s.storage.Delete(a)

	view := ecs.NewView[struct{ *Position }](s.storage)
	var xs []float32
	for item := range view.Values() {
		xs = append(xs, item.Position.X)
	}
	assert.Equal(t, []float32{2}, xs)
}

func TestViewOptionalComponent(t *testing.T) {
	s := newSpawner()
	withHealth := s.spawn(Position{X: 1}, Health{Current: 5})
	without := s.spawn(Position{X: 2})

	view := ecs.NewView[struct {
		*Position
		Health *Health `ecs:"optional"`
	}](s.storage)

	a := view.Get(withHealth)
	require.NotNil(t, a)
	require.NotNil(t, a.Health)
	assert.Equal(t, 5, a.Health.Current)

	b := view.Get(without)
	require.NotNil(t, b)
	assert.Nil(t, b.Health)
}

func TestViewAllOptional(t *testing.T) {
	s := newSpawner()
	s.spawn(Position{})
	s.spawn(Name{Value: "n"})
	s.spawn()

	view := ecs.NewView[struct {
		Position *Position `ecs:"optional"`
		Name     *Name     `ecs:"optional"`
	}](s.storage)

	count := 0
	for range view.Iter() {
		count++
	}
	assert.Equal(t, 3, count)
}

func TestViewInvalidTag(t *testing.T) {
	s := newSpawner()
	assert.Panics(t, func() {
		ecs.NewView[struct {
			Position *Position `ecs:"sometimes"`
		}](s.storage)
	})
}

func TestViewNonPointerFieldPanics(t *testing.T) {
	s := newSpawner()
	assert.Panics(t, func() {
		ecs.NewView[struct{ Position }](s.storage)
	})
}
