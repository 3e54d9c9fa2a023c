package ecs

import (
	"iter"
	"reflect"
	"sync"
	"unsafe"
)

// viewLayout is the reflected shape of a view struct. Layouts are computed
// once per struct type and shared by every View over that type.
type viewLayout struct {
	types       []reflect.Type
	optional    []bool
	fieldOffset []uintptr
	idOffset    uintptr
	hasId       bool
}

var layoutCache sync.Map

var entityIdType = reflect.TypeFor[EntityId]()

func layoutFor(structType reflect.Type) *viewLayout {
	if cached, ok := layoutCache.Load(structType); ok {
		return cached.(*viewLayout)
	}

	if structType.Kind() != reflect.Struct {
		panic("View type parameter must be a struct")
	}

	layout := &viewLayout{
		types:       make([]reflect.Type, 0, structType.NumField()),
		optional:    make([]bool, 0, structType.NumField()),
		fieldOffset: make([]uintptr, 0, structType.NumField()),
	}

	for i := 0; i < structType.NumField(); i++ {
		field := structType.Field(i)
		fieldType := field.Type

		if fieldType == entityIdType {
			layout.idOffset = field.Offset
			layout.hasId = true
			continue
		}

		if fieldType.Kind() != reflect.Ptr {
			panic("View struct fields must be pointer types or ecs.EntityId")
		}

		// Parse struct tag to check if component is optional
		// Embedded fields (field.Anonymous) are always required
		isOptional := false
		if !field.Anonymous {
			tag := field.Tag.Get("ecs")
			if tag != "" {
				if tag == "optional" {
					isOptional = true
				} else {
					panic("invalid ecs tag value: \"" + tag + "\" (only \"optional\" is supported)")
				}
			}
		}

		layout.types = append(layout.types, fieldType.Elem())
		layout.optional = append(layout.optional, isOptional)
		layout.fieldOffset = append(layout.fieldOffset, field.Offset)
	}

	actual, _ := layoutCache.LoadOrStore(structType, layout)
	return actual.(*viewLayout)
}

// View represents a query for entities with a specific combination of components
// The type T should be a struct with embedded pointer fields for each component type
// Named fields can be marked as optional using the `ecs:"optional"` struct tag.
// A field of type EntityId receives the entity's id.
type View[T any] struct {
	storage *Storage
	layout  *viewLayout
}

// NewView creates a new view for the given struct type. Views are cheap to
// create; shared systems build one per update against the calling scene's
// storage.
func NewView[T any](storage *Storage) *View[T] {
	return &View[T]{
		storage: storage,
		layout:  layoutFor(reflect.TypeFor[T]()),
	}
}

// Fill populates the provided struct pointer with component data for the given entity
// Returns false if the entity is missing any required components
// Optional components are set to nil if not present
func (v *View[T]) Fill(id EntityId, ptr *T) bool {
	if !v.storage.Exists(id) {
		return false
	}

	// Use unsafe.Pointer to directly access the struct's memory
	// This avoids reflection overhead in the hot path
	structPtr := unsafe.Pointer(ptr)

	for i, componentType := range v.layout.types {
		component := v.storage.GetComponent(id, componentType)

		// Calculate the address of the field using the pre-computed offset
		fieldPtr := unsafe.Add(structPtr, v.layout.fieldOffset[i])

		if component == nil {
			if !v.layout.optional[i] {
				return false
			}
			*(*unsafe.Pointer)(fieldPtr) = nil
			continue
		}

		// Component found, set the field to point to the component
		// We need to extract the pointer from the interface{}
		componentPtr := (*iface)(unsafe.Pointer(&component)).data
		*(*unsafe.Pointer)(fieldPtr) = componentPtr
	}

	if v.layout.hasId {
		*(*EntityId)(unsafe.Add(structPtr, v.layout.idOffset)) = id
	}

	return true
}

// Get returns a populated view struct for the given entity, or nil if the entity
// doesn't have all the required components
func (v *View[T]) Get(id EntityId) *T {
	var result T
	if !v.Fill(id, &result) {
		return nil
	}
	return &result
}

// driver picks the smallest storage among the required component types to
// drive iteration. A nil driver with ok=false means nothing can match.
func (v *View[T]) driver() (iComponentStorage, bool) {
	var best iComponentStorage
	required := false
	for i, typ := range v.layout.types {
		if v.layout.optional[i] {
			continue
		}
		required = true
		store, ok := v.storage.stores[typ]
		if !ok {
			return nil, false
		}
		if best == nil || store.Len() < best.Len() {
			best = store
		}
	}
	if !required {
		return nil, true
	}
	return best, true
}

// Iter returns an iterator over all entities that have all the required components for this view
// The iterator yields (EntityId, T) pairs where T is the populated view struct
// Optional components are set to nil if not present
func (v *View[T]) Iter() iter.Seq2[EntityId, T] {
	return func(yield func(EntityId, T) bool) {
		driver, ok := v.driver()
		if !ok {
			return
		}

		var ids iter.Seq[EntityId]
		if driver != nil {
			ids = driver.Iter()
		} else {
			ids = v.storage.Entities()
		}

		var result T
		for id := range ids {
			if !v.Fill(id, &result) {
				continue
			}
			if !yield(id, result) {
				return
			}
		}
	}
}

// Values returns an iterator over just the view structs (without entity IDs)
// This is useful when you only care about the component data, not which entity it belongs to
func (v *View[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, value := range v.Iter() {
			if !yield(value) {
				return
			}
		}
	}
}

// First returns the first matching entity.
func (v *View[T]) First() (EntityId, *T, bool) {
	for id, value := range v.Iter() {
		return id, &value, true
	}
	return 0, nil, false
}
