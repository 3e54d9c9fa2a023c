package ecs

import (
	"iter"
	"slices"
)

// Query wraps a View with a cached snapshot of matching entities. The
// snapshot is rebuilt whenever the storage reports a structural change, so a
// system may keep a Query across frames without holding stale entity sets.
type Query[T any] struct {
	view    *View[T]
	storage *Storage

	cachedEntities   []EntityId
	cachedComponents []T
	cachedVersion    uint64
	cacheValid       bool
}

// NewQuery creates a new Query bound to storage.
func NewQuery[T any](storage *Storage) *Query[T] {
	q := &Query[T]{}
	q.Init(storage)
	return q
}

// Init initializes or re-initializes the Query with a storage.
// Called by the Manager when a private system is registered.
func (q *Query[T]) Init(storage *Storage) {
	q.view = NewView[T](storage)
	q.storage = storage
	q.cacheValid = false
}

// Execute rebuilds the entity and component caches.
func (q *Query[T]) Execute() {
	q.cachedEntities = q.cachedEntities[:0]
	q.cachedComponents = q.cachedComponents[:0]

	for id, item := range q.view.Iter() {
		q.cachedEntities = append(q.cachedEntities, id)
		q.cachedComponents = append(q.cachedComponents, item)
	}

	q.cachedVersion = q.storage.Version()
	q.cacheValid = true
}

func (q *Query[T]) refresh() {
	if q.storage == nil {
		panic("Query used before Init")
	}
	if !q.cacheValid || q.cachedVersion != q.storage.Version() {
		q.Execute()
	}
}

// Len returns the number of matching entities.
func (q *Query[T]) Len() int {
	q.refresh()
	return len(q.cachedEntities)
}

// Iter returns an iterator over entity IDs and component data. Entities
// deleted during iteration are skipped.
func (q *Query[T]) Iter() iter.Seq2[EntityId, T] {
	q.refresh()
	entities := slices.Clone(q.cachedEntities)
	components := slices.Clone(q.cachedComponents)

	return func(yield func(EntityId, T) bool) {
		for i, id := range entities {
			if !q.storage.Exists(id) {
				continue
			}
			if !yield(id, components[i]) {
				return
			}
		}
	}
}

// Values returns an iterator over component data only.
func (q *Query[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range q.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}
