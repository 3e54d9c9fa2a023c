package ecs

import (
	"reflect"
	"strconv"
)

// EntityId identifies an entity within one Storage. Valid ids are positive;
// the zero value never refers to an entity.
type EntityId uint64

// Valid reports whether the id could refer to an entity.
func (e EntityId) Valid() bool {
	return e != 0
}

func (e EntityId) String() string {
	return strconv.FormatUint(uint64(e), 10)
}

// entityRecord is the per-entity bookkeeping kept by Storage.
type entityRecord struct {
	id    EntityId
	types []reflect.Type
}
