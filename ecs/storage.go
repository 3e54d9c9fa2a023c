package ecs

import (
	"errors"
	"iter"
	"reflect"
	"slices"
	"sort"

	"github.com/kamstrup/intmap"
)

var (
	// ErrInvalidEntity is returned when the zero id is used to create an entity.
	ErrInvalidEntity = errors.New("ecs: invalid entity id")
	// ErrEntityExists is returned when creating an entity whose id is taken.
	ErrEntityExists = errors.New("ecs: entity already exists")
)

// Storage is the entity registry: it owns entities and their components.
// A Storage is not safe for concurrent use; it belongs to a single scene.
type Storage struct {
	registry  *ComponentRegistry
	entities  *intmap.Map[EntityId, *entityRecord]
	order     []EntityId
	stores    map[reflect.Type]iComponentStorage
	observers map[EntityId][]*Subscription
	version   uint64
}

// NewStorage creates a new ECS storage system with the given component registry
func NewStorage(registry *ComponentRegistry) *Storage {
	return &Storage{
		registry:  registry,
		entities:  intmap.New[EntityId, *entityRecord](256),
		stores:    make(map[reflect.Type]iComponentStorage),
		observers: make(map[EntityId][]*Subscription),
	}
}

// Registry returns the component registry backing this storage.
func (s *Storage) Registry() *ComponentRegistry {
	return s.registry
}

// Version is bumped on every structural change (entity created or deleted,
// component type added or removed). Cached queries compare against it.
func (s *Storage) Version() uint64 {
	return s.version
}

// Create registers an entity with the given id.
func (s *Storage) Create(id EntityId) error {
	if !id.Valid() {
		return ErrInvalidEntity
	}
	if _, ok := s.entities.Get(id); ok {
		return ErrEntityExists
	}

	s.entities.Put(id, &entityRecord{id: id})
	s.order = append(s.order, id)
	s.version++
	return nil
}

// Exists reports whether the entity is registered.
func (s *Storage) Exists(id EntityId) bool {
	_, ok := s.entities.Get(id)
	return ok
}

// Delete removes the entity, all of its components and its observers.
func (s *Storage) Delete(id EntityId) bool {
	record, ok := s.entities.Get(id)
	if !ok {
		return false
	}

	for _, typ := range record.types {
		s.stores[typ].Delete(id)
	}

	for _, sub := range s.observers[id] {
		sub.storage = nil
	}
	delete(s.observers, id)

	s.entities.Del(id)
	if idx := slices.Index(s.order, id); idx >= 0 {
		s.order = slices.Delete(s.order, idx, idx+1)
	}
	s.version++
	return true
}

// Clear removes every entity.
func (s *Storage) Clear() {
	for _, subs := range s.observers {
		for _, sub := range subs {
			sub.storage = nil
		}
	}
	clear(s.observers)

	s.entities.Clear()
	s.order = s.order[:0]
	clear(s.stores)
	s.version++
}

// Len returns the number of entities.
func (s *Storage) Len() int {
	return len(s.order)
}

// Entities iterates entity ids in creation order. The iteration works on a
// snapshot, so entities may be created or deleted while iterating.
func (s *Storage) Entities() iter.Seq[EntityId] {
	snapshot := slices.Clone(s.order)
	return func(yield func(EntityId) bool) {
		for _, id := range snapshot {
			if !s.Exists(id) {
				continue
			}
			if !yield(id) {
				return
			}
		}
	}
}

func (s *Storage) storageFor(t reflect.Type) iComponentStorage {
	if store, ok := s.stores[t]; ok {
		return store
	}

	factory := s.registry.getFactory(t)
	if factory == nil {
		panic("component type " + t.String() + " not registered")
	}
	store := factory()
	s.stores[t] = store
	return store
}

// AddComponent attaches component to the entity and returns a pointer to the
// stored copy. Adding a type the entity already has replaces the value in
// place after notifying removal observers. Returns nil if the entity does
// not exist.
func (s *Storage) AddComponent(id EntityId, component any) any {
	if !s.Exists(id) {
		return nil
	}

	compType := componentType(component)
	store := s.storageFor(compType)

	if store.Has(id) {
		s.publishRemoved(id, store.Get(id))
	}
	// A removal observer may have deleted the entity or the component.
	record, ok := s.entities.Get(id)
	if !ok {
		return nil
	}

	isNew := !store.Has(id)
	ptr := store.Insert(id, component)
	if isNew {
		record.types = append(record.types, compType)
		s.version++
	}

	s.publish(id, ptr)
	return ptr
}

// RemoveComponent detaches the component type from the entity. Removal
// observers see the component before it goes.
func (s *Storage) RemoveComponent(id EntityId, compType reflect.Type) bool {
	store, ok := s.stores[compType]
	if !ok || !store.Has(id) {
		return false
	}
	s.publishRemoved(id, store.Get(id))

	record, ok := s.entities.Get(id)
	if !ok || !store.Delete(id) {
		return false
	}

	if idx := slices.Index(record.types, compType); idx >= 0 {
		record.types = slices.Delete(record.types, idx, idx+1)
	}
	s.version++
	return true
}

// GetComponent returns the component for the given entity ID and component type
func (s *Storage) GetComponent(id EntityId, compType reflect.Type) any {
	store, ok := s.stores[compType]
	if !ok {
		return nil
	}
	return store.Get(id)
}

// HasComponent checks if an entity has a specific component type
func (s *Storage) HasComponent(id EntityId, compType reflect.Type) bool {
	store, ok := s.stores[compType]
	if !ok {
		return false
	}
	return store.Has(id)
}

// Components returns the entity's component types in the order they were
// attached.
func (s *Storage) Components(id EntityId) []reflect.Type {
	record, ok := s.entities.Get(id)
	if !ok {
		return nil
	}
	return slices.Clone(record.types)
}

// CloneComponent returns an independent copy of the entity's component,
// suitable for AddComponent on another entity.
func (s *Storage) CloneComponent(id EntityId, compType reflect.Type) (any, bool) {
	store, ok := s.stores[compType]
	if !ok {
		return nil, false
	}
	clone := store.Clone(id)
	return clone, clone != nil
}

// StorageStats summarizes storage contents.
type StorageStats struct {
	EntityCount    int
	ComponentTypes []ComponentTypeStats
}

// ComponentTypeStats counts live components of one type.
type ComponentTypeStats struct {
	Type  string
	Count int
}

// Stats collects entity and per-type component counts.
func (s *Storage) Stats() StorageStats {
	stats := StorageStats{EntityCount: len(s.order)}
	for typ, store := range s.stores {
		stats.ComponentTypes = append(stats.ComponentTypes, ComponentTypeStats{
			Type:  typ.String(),
			Count: store.Len(),
		})
	}
	sort.Slice(stats.ComponentTypes, func(i, j int) bool {
		return stats.ComponentTypes[i].Type < stats.ComponentTypes[j].Type
	})
	return stats
}

func componentType(component any) reflect.Type {
	compType := reflect.TypeOf(component)
	if compType == nil {
		panic("cannot add nil component")
	}

	// If it's a pointer, get the underlying type
	if compType.Kind() == reflect.Ptr {
		compType = compType.Elem()
	}

	// Components can be structs or primitives (int, string, etc.)
	// But not pointers, maps, channels, or functions (those aren't value types)
	if compType.Kind() == reflect.Ptr || compType.Kind() == reflect.Map ||
		compType.Kind() == reflect.Chan || compType.Kind() == reflect.Func {
		panic("components cannot be pointers, maps, channels, or functions")
	}
	return compType
}

type ComponentReader interface {
	GetComponent(EntityId, reflect.Type) any
}

// ReadComponent returns the typed component or nil.
func ReadComponent[T any](reader ComponentReader, entityId EntityId) *T {
	comp := reader.GetComponent(entityId, reflect.TypeFor[T]())
	if comp == nil {
		return nil
	}
	return comp.(*T)
}

// Get returns the entity's T component or nil.
func Get[T any](s *Storage, id EntityId) *T {
	return ReadComponent[T](s, id)
}

// Has reports whether the entity has a T component.
func Has[T any](s *Storage, id EntityId) bool {
	return s.HasComponent(id, reflect.TypeFor[T]())
}

// Add attaches value to the entity and returns the stored component, or nil
// if the entity does not exist.
func Add[T any](s *Storage, id EntityId, value T) *T {
	ptr := s.AddComponent(id, value)
	if ptr == nil {
		return nil
	}
	return ptr.(*T)
}

// Remove detaches the entity's T component.
func Remove[T any](s *Storage, id EntityId) bool {
	return s.RemoveComponent(id, reflect.TypeFor[T]())
}
