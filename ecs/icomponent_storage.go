package ecs

import "iter"

// iComponentStorage is an interface for a type-erased component storage.
type iComponentStorage interface {
	Insert(id EntityId, item any) any
	Delete(id EntityId) bool
	Get(id EntityId) any
	Has(id EntityId) bool
	Clone(id EntityId) any
	Len() int
	Iter() iter.Seq[EntityId]
}
