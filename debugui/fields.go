package debugui

import (
	"reflect"
	"sync"
)

// FieldKind groups field types by the widget that edits them.
type FieldKind int

const (
	FieldReadOnly FieldKind = iota
	FieldBool
	FieldInt
	FieldUint
	FieldFloat
	FieldString
	// FieldVector is a float32 array of two to four elements, such as mgl32.Vec3.
	FieldVector
	FieldStruct
)

// FieldInfo describes one exported field of a component struct.
type FieldInfo struct {
	Name  string
	Index int
	Kind  FieldKind
	Type  reflect.Type
}

type fieldCache struct {
	mu     sync.RWMutex
	fields map[reflect.Type][]FieldInfo
}

var fields = &fieldCache{fields: make(map[reflect.Type][]FieldInfo)}

// Fields returns the editable layout of a struct type. Non-struct types
// have no fields.
func Fields(t reflect.Type) []FieldInfo {
	return fields.get(t)
}

func (c *fieldCache) get(t reflect.Type) []FieldInfo {
	c.mu.RLock()
	cached, ok := c.fields[t]
	c.mu.RUnlock()
	if ok {
		return cached
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.fields[t]; ok {
		return cached
	}

	var out []FieldInfo
	if t.Kind() == reflect.Struct {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if !field.IsExported() {
				continue
			}
			out = append(out, FieldInfo{Name: field.Name, Index: i, Kind: kindOf(field.Type), Type: field.Type})
		}
	}
	c.fields[t] = out
	return out
}

func kindOf(t reflect.Type) FieldKind {
	switch t.Kind() {
	case reflect.Bool:
		return FieldBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return FieldInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return FieldUint
	case reflect.Float32, reflect.Float64:
		return FieldFloat
	case reflect.String:
		return FieldString
	case reflect.Array:
		if t.Elem().Kind() == reflect.Float32 && t.Len() >= 2 && t.Len() <= 4 {
			return FieldVector
		}
	case reflect.Struct:
		return FieldStruct
	}
	return FieldReadOnly
}
