package debugui

import (
	"fmt"
	"log/slog"
	"reflect"

	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/plus3/stage/ecs"
	"github.com/plus3/stage/scene"
	"github.com/plus3/stage/script"
)

var scriptType = reflect.TypeFor[script.Component]()

var axes = [4]string{"x", "y", "z", "w"}

// Inspector edits the components of the selected entity in place.
type Inspector struct{}

func (in *Inspector) Render(s *scene.Scene, id ecs.EntityId) {
	if !imgui.BeginV("Inspector", nil, imgui.WindowFlagsNone) {
		imgui.End()
		return
	}
	defer imgui.End()

	storage := s.Storage()
	if id == 0 || !storage.Exists(id) {
		imgui.Text("No entity selected")
		return
	}

	imgui.Text(fmt.Sprintf("Entity %d", id))
	imgui.Separator()

	for _, typ := range storage.Components(id) {
		component := storage.GetComponent(id, typ)
		if component == nil {
			continue
		}
		if !imgui.TreeNodeStr(typ.Name()) {
			continue
		}
		if typ == scriptType {
			in.renderScript(s, id, component.(*script.Component))
		} else {
			in.renderStruct(typ.Name(), reflect.ValueOf(component).Elem())
		}
		imgui.TreePop()
	}
}

func (in *Inspector) renderStruct(path string, val reflect.Value) {
	for _, field := range Fields(val.Type()) {
		in.renderField(path+"."+field.Name, field, val.Field(field.Index))
	}
}

// renderField draws one widget for val and writes edits straight back;
// val is addressable because components live behind stable pointers.
func (in *Inspector) renderField(id string, field FieldInfo, val reflect.Value) {
	label := fmt.Sprintf("%s##%s", field.Name, id)

	switch field.Kind {
	case FieldBool:
		v := val.Bool()
		if imgui.Checkbox(label, &v) {
			val.SetBool(v)
		}

	case FieldInt:
		v := int32(val.Int())
		if imgui.InputInt(label, &v) {
			val.SetInt(int64(v))
		}

	case FieldUint:
		v := int32(val.Uint())
		if imgui.InputInt(label, &v) && v >= 0 {
			val.SetUint(uint64(v))
		}

	case FieldFloat:
		v := float32(val.Float())
		if imgui.InputFloat(label, &v) {
			val.SetFloat(float64(v))
		}

	case FieldString:
		v := val.String()
		if imgui.InputTextWithHint(label, "", &v, imgui.InputTextFlagsNone, nil) {
			val.SetString(v)
		}

	case FieldVector:
		imgui.Text(field.Name)
		for i := 0; i < val.Len(); i++ {
			v := float32(val.Index(i).Float())
			imgui.SetNextItemWidth(80)
			if imgui.InputFloat(fmt.Sprintf("%s##%s.%d", axes[i], id, i), &v) {
				val.Index(i).SetFloat(float64(v))
			}
			if i < val.Len()-1 {
				imgui.SameLine()
			}
		}

	case FieldStruct:
		if imgui.TreeNodeStr(label) {
			in.renderStruct(id, val)
			imgui.TreePop()
		}

	default:
		switch val.Kind() {
		case reflect.Slice, reflect.Array:
			imgui.Text(fmt.Sprintf("%s: [%d items]", field.Name, val.Len()))
		case reflect.Map:
			imgui.Text(fmt.Sprintf("%s: map[%d items]", field.Name, val.Len()))
		case reflect.Interface, reflect.Pointer:
			if val.IsNil() {
				imgui.Text(field.Name + ": nil")
			} else {
				imgui.Text(fmt.Sprintf("%s: %T", field.Name, val.Interface()))
			}
		default:
			imgui.Text(fmt.Sprintf("%s: %v", field.Name, val.Interface()))
		}
	}
}

// renderScript shows the type name and, once bound, the script's exposed
// fields through its Fields/SetField contract.
func (in *Inspector) renderScript(s *scene.Scene, id ecs.EntityId, sc *script.Component) {
	name := sc.TypeName
	if imgui.InputTextWithHint(fmt.Sprintf("Type##script.%d", id), "script name", &name, imgui.InputTextFlagsNone, nil) && !s.Running() {
		sc.TypeName = name
	}
	if !sc.Bound() {
		imgui.Text("not bound")
		return
	}
	for _, f := range sc.Instance.Fields() {
		if v, ok := editValue(fmt.Sprintf("script.%d.%s", id, f.Name), f.Name, f.Value); ok {
			if err := sc.Instance.SetField(f.Name, v); err != nil {
				s.Logger().Warn("script field rejected",
					slog.Uint64("entity", uint64(id)),
					slog.String("field", f.Name),
					slog.Any("error", err),
				)
			}
		}
	}
}

// editValue draws a widget for v and returns the edited value when it
// changed.
func editValue(id, name string, v script.Value) (script.Value, bool) {
	label := fmt.Sprintf("%s##%s", name, id)

	switch v.Kind() {
	case script.KindBool:
		b := v.Bool()
		if imgui.Checkbox(label, &b) {
			return script.Bool(b), true
		}
	case script.KindInt:
		n := int32(v.Int())
		if imgui.InputInt(label, &n) {
			return script.Int(int(n)), true
		}
	case script.KindFloat32, script.KindFloat64:
		wide, _ := v.Coerce(script.KindFloat64)
		f := float32(wide.Float64())
		if imgui.InputFloat(label, &f) {
			return coerced(script.Float64(float64(f)), v.Kind())
		}
	case script.KindString:
		str := v.String()
		if imgui.InputTextWithHint(label, "", &str, imgui.InputTextFlagsNone, nil) {
			return script.String(str), true
		}
	case script.KindVec2, script.KindVec3, script.KindVec4:
		wide, _ := v.Coerce(script.KindVec4)
		vec := wide.Vec4()
		n := vectorLen(v.Kind())
		changed := false
		imgui.Text(name)
		for i := 0; i < n; i++ {
			imgui.SetNextItemWidth(80)
			if imgui.InputFloat(fmt.Sprintf("%s##%s.%d", axes[i], id, i), &vec[i]) {
				changed = true
			}
			if i < n-1 {
				imgui.SameLine()
			}
		}
		if changed {
			return coerced(script.Vec4(vec), v.Kind())
		}
	default:
		imgui.Text(fmt.Sprintf("%s: %s", name, v))
	}
	return script.Value{}, false
}

func coerced(v script.Value, kind script.Kind) (script.Value, bool) {
	out, err := v.Coerce(kind)
	return out, err == nil
}

func vectorLen(kind script.Kind) int {
	switch kind {
	case script.KindVec2:
		return 2
	case script.KindVec3:
		return 3
	}
	return 4
}
