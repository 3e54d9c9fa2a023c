package script

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrCoerce is returned when a value cannot be converted to the requested kind.
var ErrCoerce = errors.New("script: cannot coerce value")

// Kind enumerates the value types a script may expose.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindInt
	KindFloat32
	KindFloat64
	KindString
	KindVec2
	KindVec3
	KindVec4
)

var kindNames = [...]string{
	KindInvalid: "invalid",
	KindBool:    "bool",
	KindInt:     "int",
	KindFloat32: "float32",
	KindFloat64: "float64",
	KindString:  "string",
	KindVec2:    "vec2",
	KindVec3:    "vec3",
	KindVec4:    "vec4",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "invalid"
	}
	return kindNames[k]
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name && Kind(k) != KindInvalid {
			return Kind(k), true
		}
	}
	return KindInvalid, false
}

func (k Kind) numeric() bool {
	return k == KindBool || k == KindInt || k == KindFloat32 || k == KindFloat64
}

func (k Kind) vector() int {
	switch k {
	case KindVec2:
		return 2
	case KindVec3:
		return 3
	case KindVec4:
		return 4
	default:
		return 0
	}
}

// Value is a tagged union over the exposable kinds. The zero Value is
// invalid. Ints keep their own payload so every int64 survives a round trip.
type Value struct {
	kind Kind
	num  float64
	i    int64
	str  string
	vec  mgl32.Vec4
}

func Bool(b bool) Value {
	if b {
		return Value{kind: KindBool, num: 1}
	}
	return Value{kind: KindBool}
}

func Int(i int) Value         { return Value{kind: KindInt, i: int64(i)} }
func Float32(f float32) Value { return Value{kind: KindFloat32, num: float64(f)} }
func Float64(f float64) Value { return Value{kind: KindFloat64, num: f} }
func String(s string) Value   { return Value{kind: KindString, str: s} }
func Vec2(v mgl32.Vec2) Value { return Value{kind: KindVec2, vec: mgl32.Vec4{v[0], v[1]}} }
func Vec3(v mgl32.Vec3) Value { return Value{kind: KindVec3, vec: v.Vec4(0)} }
func Vec4(v mgl32.Vec4) Value { return Value{kind: KindVec4, vec: v} }

// Kind returns the value's kind.
func (v Value) Kind() Kind {
	return v.kind
}

// Valid reports whether the value holds one of the supported kinds.
func (v Value) Valid() bool {
	return v.kind != KindInvalid
}

// The accessors below return the zero value when v holds another kind; use
// Coerce first to convert.

func (v Value) Bool() bool {
	return v.kind == KindBool && v.num != 0
}

func (v Value) Int() int {
	if v.kind != KindInt {
		return 0
	}
	return int(v.i)
}

func (v Value) Float32() float32 {
	if v.kind != KindFloat32 {
		return 0
	}
	return float32(v.num)
}

func (v Value) Float64() float64 {
	if v.kind != KindFloat64 {
		return 0
	}
	return v.num
}

func (v Value) Vec2() mgl32.Vec2 {
	if v.kind != KindVec2 {
		return mgl32.Vec2{}
	}
	return v.vec.Vec2()
}

func (v Value) Vec3() mgl32.Vec3 {
	if v.kind != KindVec3 {
		return mgl32.Vec3{}
	}
	return v.vec.Vec3()
}

func (v Value) Vec4() mgl32.Vec4 {
	if v.kind != KindVec4 {
		return mgl32.Vec4{}
	}
	return v.vec
}

// String formats the value. Strings are returned verbatim and vectors as
// comma separated components, both of which Coerce parses back.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		return strconv.FormatBool(v.num != 0)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat32:
		return strconv.FormatFloat(v.num, 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return v.str
	case KindVec2, KindVec3, KindVec4:
		n := v.kind.vector()
		parts := make([]string, n)
		for i := 0; i < n; i++ {
			parts[i] = strconv.FormatFloat(float64(v.vec[i]), 'g', -1, 32)
		}
		return strings.Join(parts, ",")
	default:
		return "<invalid>"
	}
}

// Coerce converts v to kind. Numeric kinds convert between each other (floats
// truncate toward zero when becoming ints), every kind formats to a string,
// strings parse into every kind, and vectors widen with zeros or drop
// trailing components.
func (v Value) Coerce(kind Kind) (Value, error) {
	if v.kind == KindInvalid || kind == KindInvalid || kind > KindVec4 {
		return Value{}, fmt.Errorf("%w: %s to %s", ErrCoerce, v.kind, kind)
	}
	if v.kind == kind {
		return v, nil
	}

	switch {
	case kind == KindString:
		return String(v.String()), nil
	case v.kind == KindString:
		return parse(v.str, kind)
	case v.kind == KindInt && kind.numeric():
		return fromInt(v.i, kind), nil
	case v.kind.numeric() && kind.numeric():
		return fromNumber(v.num, kind)
	case v.kind.vector() > 0 && kind.vector() > 0:
		out := Value{kind: kind}
		copy(out.vec[:kind.vector()], v.vec[:min(v.kind.vector(), kind.vector())])
		return out, nil
	}
	return Value{}, fmt.Errorf("%w: %s to %s", ErrCoerce, v.kind, kind)
}

func fromNumber(f float64, kind Kind) (Value, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		if kind == KindFloat32 || kind == KindFloat64 {
			return Value{kind: kind, num: f}, nil
		}
		return Value{}, fmt.Errorf("%w: %v to %s", ErrCoerce, f, kind)
	}
	switch kind {
	case KindBool:
		return Bool(f != 0), nil
	case KindInt:
		// float64(math.MaxInt64) rounds up to 2^63, which does not fit.
		if f >= math.MaxInt64 || f < math.MinInt64 {
			return Value{}, fmt.Errorf("%w: %v overflows int", ErrCoerce, f)
		}
		return Int(int(f)), nil
	case KindFloat32:
		return Float32(float32(f)), nil
	default:
		return Float64(f), nil
	}
}

func fromInt(i int64, kind Kind) Value {
	switch kind {
	case KindBool:
		return Bool(i != 0)
	case KindFloat32:
		return Float32(float32(i))
	case KindFloat64:
		return Float64(float64(i))
	default:
		return Value{kind: KindInt, i: i}
	}
}

func parse(s string, kind Kind) (Value, error) {
	s = strings.TrimSpace(s)
	switch kind {
	case KindBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q to bool", ErrCoerce, s)
		}
		return Bool(b), nil
	case KindInt:
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q to int", ErrCoerce, s)
		}
		return Value{kind: KindInt, i: i}, nil
	case KindFloat32, KindFloat64:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q to %s", ErrCoerce, s, kind)
		}
		return fromNumber(f, kind)
	default:
		return parseVector(s, kind)
	}
}

// parseVector accepts "1,2,3" optionally wrapped in (), [] or {} with any
// spacing. Fewer components than the kind needs are padded with zeros.
func parseVector(s string, kind Kind) (Value, error) {
	s = strings.Trim(s, "()[]{} ")
	if s == "" {
		return Value{}, fmt.Errorf("%w: empty string to %s", ErrCoerce, kind)
	}
	parts := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	if len(parts) > kind.vector() {
		return Value{}, fmt.Errorf("%w: %d components to %s", ErrCoerce, len(parts), kind)
	}

	out := Value{kind: kind}
	for i, part := range parts {
		f, err := strconv.ParseFloat(part, 32)
		if err != nil {
			return Value{}, fmt.Errorf("%w: %q to %s", ErrCoerce, s, kind)
		}
		out.vec[i] = float32(f)
	}
	return out, nil
}

// ValueOf wraps a Go value of a supported type.
func ValueOf(x any) (Value, error) {
	switch x := x.(type) {
	case bool:
		return Bool(x), nil
	case int:
		return Int(x), nil
	case float32:
		return Float32(x), nil
	case float64:
		return Float64(x), nil
	case string:
		return String(x), nil
	case mgl32.Vec2:
		return Vec2(x), nil
	case mgl32.Vec3:
		return Vec3(x), nil
	case mgl32.Vec4:
		return Vec4(x), nil
	case Value:
		return x, nil
	default:
		return Value{}, fmt.Errorf("%w: unsupported type %T", ErrCoerce, x)
	}
}

// Assign coerces v and stores it through dst, which must point to one of the
// supported Go types.
func Assign(dst any, v Value) error {
	var kind Kind
	switch dst.(type) {
	case *bool:
		kind = KindBool
	case *int:
		kind = KindInt
	case *float32:
		kind = KindFloat32
	case *float64:
		kind = KindFloat64
	case *string:
		kind = KindString
	case *mgl32.Vec2:
		kind = KindVec2
	case *mgl32.Vec3:
		kind = KindVec3
	case *mgl32.Vec4:
		kind = KindVec4
	default:
		return fmt.Errorf("%w: unsupported target %T", ErrCoerce, dst)
	}

	c, err := v.Coerce(kind)
	if err != nil {
		return err
	}

	switch p := dst.(type) {
	case *bool:
		*p = c.Bool()
	case *int:
		*p = c.Int()
	case *float32:
		*p = c.Float32()
	case *float64:
		*p = c.Float64()
	case *string:
		*p = c.String()
	case *mgl32.Vec2:
		*p = c.Vec2()
	case *mgl32.Vec3:
		*p = c.Vec3()
	case *mgl32.Vec4:
		*p = c.Vec4()
	}
	return nil
}
