package ecs_test

import (
	"testing"

	"github.com/plus3/stage/ecs"
	"github.com/stretchr/testify/assert"
)

func TestQuery(t *testing.T) {
	s := newSpawner()
	s.spawn(Position{X: 1, Y: 2}, Velocity{DX: 0.5, DY: 0.5})
	s.spawn(Position{X: 3, Y: 4}, Velocity{DX: 1.0, DY: 1.0})
	s.spawn(Position{X: 5, Y: 6}, Velocity{DX: 1.5, DY: 1.5}, Health{Current: 100, Max: 100})
	s.spawn(Position{X: 7, Y: 8})

	query := ecs.NewQuery[struct {
		*Position
		*Velocity
	}](s.storage)

	t.Run("builds cache lazily", func(t *testing.T) {
		assert.Equal(t, 3, query.Len())
	})

	t.Run("invalidated by structural change", func(t *testing.T) {
		id := s.spawn(Position{}, Velocity{})
		assert.Equal(t, 4, query.Len())

		s.storage.Delete(id)
		assert.Equal(t, 3, query.Len())
	})

	t.Run("skips entities deleted mid iteration", func(t *testing.T) {
		var seen []ecs.EntityId
		for id := range query.Iter() {
			seen = append(seen, id)
			s.storage.Delete(2)
		}
		assert.Equal(t, []ecs.EntityId{1, 3}, seen)
	})

	t.Run("uninitialized query panics", func(t *testing.T) {
		var q ecs.Query[struct{ *Position }]
		assert.Panics(t, func() { q.Len() })
	})
}
