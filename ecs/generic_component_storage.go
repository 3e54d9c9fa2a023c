package ecs

import (
	"iter"
	"reflect"

	"github.com/kamstrup/intmap"
)

// Cloner is implemented by components holding reference-typed fields (slices,
// maps, pointers) that must be deep-copied when an entity is duplicated.
// Components without it are copied by value.
type Cloner[T any] interface {
	Clone() T
}

// ComponentRegistry manages component type registration for an ECS instance.
// Each Storage instance references a ComponentRegistry; one registry can back
// several storages (one per scene) since it only holds factories.
type ComponentRegistry struct {
	factories map[reflect.Type]func() iComponentStorage
}

// NewComponentRegistry creates a new component registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		factories: make(map[reflect.Type]func() iComponentStorage),
	}
}

// RegisterComponent registers a new component type with the given registry.
// This must be called for each component type before it can be used.
func RegisterComponent[T any](r *ComponentRegistry) {
	t := reflect.TypeFor[T]()
	r.factories[t] = func() iComponentStorage {
		return &genericComponentStorage[T]{
			slots: intmap.New[EntityId, int](64),
		}
	}
}

// Registered reports whether the type has been registered.
func (r *ComponentRegistry) Registered(t reflect.Type) bool {
	_, ok := r.factories[t]
	return ok
}

// getFactory returns the factory function for a given component type.
// Returns nil if the type is not registered.
func (r *ComponentRegistry) getFactory(t reflect.Type) func() iComponentStorage {
	return r.factories[t]
}

const (
	genericBlockSize = 64
)

// genericComponentStorage stores components of type T in fixed-size blocks.
// Blocks are allocated individually so a pointer handed out by Get stays
// valid until that component is deleted.
type genericComponentStorage[T any] struct {
	blocks    []*[genericBlockSize]T
	owners    []*[genericBlockSize]EntityId
	slots     *intmap.Map[EntityId, int]
	freeSlots []int
	nextIndex int
	count     int
}

func (cs *genericComponentStorage[T]) locate(index int) (int, int) {
	return index / genericBlockSize, index % genericBlockSize
}

// Insert stores item for the entity, overwriting any existing value, and
// returns a pointer to the stored component.
func (cs *genericComponentStorage[T]) Insert(id EntityId, item any) any {
	var concreteItem T
	if ptr, ok := item.(*T); ok {
		concreteItem = *ptr
	} else if val, ok := item.(T); ok {
		concreteItem = val
	} else {
		panic("component value " + reflect.TypeOf(item).String() + " does not match storage type " + reflect.TypeFor[T]().String())
	}

	if index, ok := cs.slots.Get(id); ok {
		blockIdx, slotIdx := cs.locate(index)
		cs.blocks[blockIdx][slotIdx] = concreteItem
		return &cs.blocks[blockIdx][slotIdx]
	}

	var index int
	if len(cs.freeSlots) > 0 {
		index = cs.freeSlots[len(cs.freeSlots)-1]
		cs.freeSlots = cs.freeSlots[:len(cs.freeSlots)-1]
	} else {
		index = cs.nextIndex
		cs.nextIndex++
	}

	blockIdx, slotIdx := cs.locate(index)
	if blockIdx >= len(cs.blocks) {
		cs.blocks = append(cs.blocks, new([genericBlockSize]T))
		cs.owners = append(cs.owners, new([genericBlockSize]EntityId))
	}

	cs.blocks[blockIdx][slotIdx] = concreteItem
	cs.owners[blockIdx][slotIdx] = id
	cs.slots.Put(id, index)
	cs.count++
	return &cs.blocks[blockIdx][slotIdx]
}

// Get returns a pointer to the entity's component, or nil.
func (cs *genericComponentStorage[T]) Get(id EntityId) any {
	index, ok := cs.slots.Get(id)
	if !ok {
		return nil
	}
	blockIdx, slotIdx := cs.locate(index)
	return &cs.blocks[blockIdx][slotIdx]
}

// Delete zeroes the entity's slot and makes it available for reuse.
func (cs *genericComponentStorage[T]) Delete(id EntityId) bool {
	index, ok := cs.slots.Get(id)
	if !ok {
		return false
	}

	blockIdx, slotIdx := cs.locate(index)
	var zero T
	cs.blocks[blockIdx][slotIdx] = zero
	cs.owners[blockIdx][slotIdx] = 0
	cs.slots.Del(id)
	cs.freeSlots = append(cs.freeSlots, index)
	cs.count--
	return true
}

// Has checks if the entity owns a component in this storage.
func (cs *genericComponentStorage[T]) Has(id EntityId) bool {
	_, ok := cs.slots.Get(id)
	return ok
}

// Clone returns an independent copy of the entity's component as a T value.
func (cs *genericComponentStorage[T]) Clone(id EntityId) any {
	index, ok := cs.slots.Get(id)
	if !ok {
		return nil
	}
	blockIdx, slotIdx := cs.locate(index)
	ptr := &cs.blocks[blockIdx][slotIdx]
	if cloner, ok := any(ptr).(Cloner[T]); ok {
		return cloner.Clone()
	}
	return *ptr
}

func (cs *genericComponentStorage[T]) Len() int {
	return cs.count
}

// Iter yields owning entity ids in slot order.
func (cs *genericComponentStorage[T]) Iter() iter.Seq[EntityId] {
	return func(yield func(EntityId) bool) {
		for i := 0; i < cs.nextIndex; i++ {
			blockIdx, slotIdx := cs.locate(i)
			if blockIdx >= len(cs.owners) {
				return
			}

			if owner := cs.owners[blockIdx][slotIdx]; owner != 0 {
				if !yield(owner) {
					return
				}
			}
		}
	}
}
