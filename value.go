package greenmoon

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cast"
)

// Kind identifies the variant stored in a Value.
type Kind uint8

const (
	KindNone Kind = iota
	KindBool
	KindInt8
	KindInt16
	KindInt32
	KindInt64
	KindUint8
	KindUint16
	KindUint32
	KindUint64
	KindFloat32
	KindFloat64
	KindString
	KindVec2
	KindSize
	KindFlip
	KindRepeat
	KindAlign
	KindAny
	KindCustom0
	KindCustom1
	KindCustomN
	KindMultiple
	KindTarget
	KindObject
	KindMessage
)

var kindNames = [...]string{
	"none", "bool", "i8", "i16", "i32", "i64", "u8", "u16", "u32", "u64",
	"f32", "f64", "string", "vec2", "size", "flip", "repeat", "align", "any",
	"custom0", "custom1", "customN", "multiple", "target", "object", "message",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// IsNumeric reports whether k is one of the integer or float kinds.
func (k Kind) IsNumeric() bool {
	return k >= KindInt8 && k <= KindFloat64
}

// Payload is the capability required of values smuggled through a Value as
// KindAny. Use PayloadAs to get the concrete type back.
type Payload interface {
	PayloadName() string
}

// opaque wraps arbitrary Go values handed to ValueOf.
type opaque struct{ v any }

func (o opaque) PayloadName() string { return fmt.Sprintf("%T", o.v) }

// Func is a callback payload, used to hand behavior to objects through messages.
type Func func(v Value, om *ObjectManager) error

func (Func) PayloadName() string { return "func" }

// CustomValue is the content of the three custom tag variants.
type CustomValue struct {
	Name string
	Args []Value
}

// Value is the universal payload and result type of the message protocol.
// The zero Value is None. Values are immutable by replacement; accessors fail
// with a *TypeMismatchError when the stored variant differs.
type Value struct {
	kind Kind
	data any
}

// --- Constructors ---

func None() Value                 { return Value{} }
func Bool(b bool) Value           { return Value{KindBool, b} }
func Int8(i int8) Value           { return Value{KindInt8, i} }
func Int16(i int16) Value         { return Value{KindInt16, i} }
func Int32(i int32) Value         { return Value{KindInt32, i} }
func Int64(i int64) Value         { return Value{KindInt64, i} }
func Int(i int) Value             { return Value{KindInt64, int64(i)} }
func Uint8(u uint8) Value         { return Value{KindUint8, u} }
func Uint16(u uint16) Value       { return Value{KindUint16, u} }
func Uint32(u uint32) Value       { return Value{KindUint32, u} }
func Uint64(u uint64) Value       { return Value{KindUint64, u} }
func Float32(f float32) Value     { return Value{KindFloat32, f} }
func Float64(f float64) Value     { return Value{KindFloat64, f} }
func String(s string) Value       { return Value{KindString, s} }
func VecOf(v Vec2) Value          { return Value{KindVec2, v} }
func Vec(x, y float64) Value      { return Value{KindVec2, Vec2{x, y}} }
func SizeOf(s Size) Value         { return Value{KindSize, s} }
func FlipOf(f Flip) Value         { return Value{KindFlip, f} }
func RepeatOf(r RepeatMode) Value { return Value{KindRepeat, r} }
func AlignOf(a Alignment) Value   { return Value{KindAlign, a} }
func TargetOf(t Target) Value     { return Value{KindTarget, t} }
func MessageOf(m Message) Value   { return Value{KindMessage, m} }

// AnyOf wraps a payload. A nil payload yields None.
func AnyOf(p Payload) Value {
	if p == nil {
		return None()
	}
	return Value{KindAny, p}
}

// ObjectOf wraps an owned object. A nil object yields None.
func ObjectOf(o Object) Value {
	if o == nil {
		return None()
	}
	return Value{KindObject, o}
}

// Tag builds a named zero-argument custom value.
func Tag(name string) Value { return Value{KindCustom0, CustomValue{Name: name}} }

// Tag1 builds a named custom value wrapping one Value.
func Tag1(name string, v Value) Value {
	return Value{KindCustom1, CustomValue{Name: name, Args: []Value{v}}}
}

// TagN builds a named custom value wrapping a list of Values.
func TagN(name string, vs ...Value) Value {
	return Value{KindCustomN, CustomValue{Name: name, Args: append([]Value(nil), vs...)}}
}

// Multiple builds an ordered sequence of values.
func Multiple(vs ...Value) Value {
	return Value{KindMultiple, append([]Value{}, vs...)}
}

// ValueOf converts a native Go value to a Value. It never fails: types
// without a dedicated variant are wrapped as an opaque KindAny payload.
func ValueOf(x any) Value {
	switch t := x.(type) {
	case nil:
		return None()
	case Value:
		return t
	case bool:
		return Bool(t)
	case int:
		return Int(t)
	case int8:
		return Int8(t)
	case int16:
		return Int16(t)
	case int32:
		return Int32(t)
	case int64:
		return Int64(t)
	case uint:
		return Uint64(uint64(t))
	case uint8:
		return Uint8(t)
	case uint16:
		return Uint16(t)
	case uint32:
		return Uint32(t)
	case uint64:
		return Uint64(t)
	case float32:
		return Float32(t)
	case float64:
		return Float64(t)
	case string:
		return String(t)
	case Vec2:
		return VecOf(t)
	case Size:
		return SizeOf(t)
	case Flip:
		return FlipOf(t)
	case RepeatMode:
		return RepeatOf(t)
	case Alignment:
		return AlignOf(t)
	case Target:
		return TargetOf(t)
	case Message:
		return MessageOf(t)
	case CustomValue:
		return customOf(t)
	case []Value:
		return Multiple(t...)
	case []any:
		vs := make([]Value, len(t))
		for i, e := range t {
			vs[i] = ValueOf(e)
		}
		return Value{KindMultiple, vs}
	case Object:
		return ObjectOf(t)
	case Payload:
		return AnyOf(t)
	default:
		return Value{KindAny, opaque{x}}
	}
}

func customOf(c CustomValue) Value {
	switch len(c.Args) {
	case 0:
		return Tag(c.Name)
	case 1:
		return Tag1(c.Name, c.Args[0])
	default:
		return TagN(c.Name, c.Args...)
	}
}

// Tuple converts each element with ValueOf and returns them as a Multiple.
func Tuple(xs ...any) Value {
	return ValueOf(xs)
}

// --- Inspection ---

// Kind returns the stored variant.
func (v Value) Kind() Kind { return v.kind }

// IsNone reports whether v holds no value.
func (v Value) IsNone() bool { return v.kind == KindNone }

// Len returns the number of elements of a Multiple, 0 for None and 1 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindNone:
		return 0
	case KindMultiple:
		return len(v.data.([]Value))
	default:
		return 1
	}
}

// --- Accessors ---

func as[T any](v Value, want Kind) (T, error) {
	if v.kind != want {
		var zero T
		return zero, &TypeMismatchError{Want: want, Got: v.kind}
	}
	return v.data.(T), nil
}

func (v Value) AsBool() (bool, error)         { return as[bool](v, KindBool) }
func (v Value) AsInt8() (int8, error)         { return as[int8](v, KindInt8) }
func (v Value) AsInt16() (int16, error)       { return as[int16](v, KindInt16) }
func (v Value) AsInt32() (int32, error)       { return as[int32](v, KindInt32) }
func (v Value) AsInt64() (int64, error)       { return as[int64](v, KindInt64) }
func (v Value) AsUint8() (uint8, error)       { return as[uint8](v, KindUint8) }
func (v Value) AsUint16() (uint16, error)     { return as[uint16](v, KindUint16) }
func (v Value) AsUint32() (uint32, error)     { return as[uint32](v, KindUint32) }
func (v Value) AsUint64() (uint64, error)     { return as[uint64](v, KindUint64) }
func (v Value) AsFloat32() (float32, error)   { return as[float32](v, KindFloat32) }
func (v Value) AsFloat64() (float64, error)   { return as[float64](v, KindFloat64) }
func (v Value) AsString() (string, error)     { return as[string](v, KindString) }
func (v Value) AsVec2() (Vec2, error)         { return as[Vec2](v, KindVec2) }
func (v Value) AsSize() (Size, error)         { return as[Size](v, KindSize) }
func (v Value) AsFlip() (Flip, error)         { return as[Flip](v, KindFlip) }
func (v Value) AsRepeat() (RepeatMode, error) { return as[RepeatMode](v, KindRepeat) }
func (v Value) AsAlign() (Alignment, error)   { return as[Alignment](v, KindAlign) }
func (v Value) AsTarget() (Target, error)     { return as[Target](v, KindTarget) }
func (v Value) AsMessage() (Message, error)   { return as[Message](v, KindMessage) }
func (v Value) AsObject() (Object, error)     { return as[Object](v, KindObject) }
func (v Value) AsPayload() (Payload, error)   { return as[Payload](v, KindAny) }

// AsMultiple returns the elements of a Multiple. The slice must not be mutated.
func (v Value) AsMultiple() ([]Value, error) { return as[[]Value](v, KindMultiple) }

// AsCustom returns the content of any of the three custom variants.
func (v Value) AsCustom() (CustomValue, error) {
	switch v.kind {
	case KindCustom0, KindCustom1, KindCustomN:
		return v.data.(CustomValue), nil
	}
	return CustomValue{}, &TypeMismatchError{Want: KindCustomN, Got: v.kind}
}

// Number widens any numeric variant to float64.
func (v Value) Number() (float64, error) {
	if !v.kind.IsNumeric() {
		return 0, &TypeMismatchError{Want: KindFloat64, Got: v.kind}
	}
	return cast.ToFloat64E(v.data)
}

// AsInt widens any integer variant to int.
func (v Value) AsInt() (int, error) {
	if !v.kind.IsNumeric() || v.kind == KindFloat32 || v.kind == KindFloat64 {
		return 0, &TypeMismatchError{Want: KindInt64, Got: v.kind}
	}
	return cast.ToIntE(v.data)
}

// PayloadAs extracts a KindAny payload of concrete type T.
func PayloadAs[T Payload](v Value) (T, error) {
	var zero T
	p, err := v.AsPayload()
	if err != nil {
		return zero, err
	}
	t, ok := p.(T)
	if !ok {
		return zero, fmt.Errorf("%w: payload is %s, want %T", ErrTypeMismatch, p.PayloadName(), zero)
	}
	return t, nil
}

// Unpack2 splits a two-element Multiple.
func (v Value) Unpack2() (Value, Value, error) {
	vs, err := v.unpack(2)
	if err != nil {
		return Value{}, Value{}, err
	}
	return vs[0], vs[1], nil
}

// Unpack3 splits a three-element Multiple.
func (v Value) Unpack3() (Value, Value, Value, error) {
	vs, err := v.unpack(3)
	if err != nil {
		return Value{}, Value{}, Value{}, err
	}
	return vs[0], vs[1], vs[2], nil
}

// Unpack4 splits a four-element Multiple.
func (v Value) Unpack4() (Value, Value, Value, Value, error) {
	vs, err := v.unpack(4)
	if err != nil {
		return Value{}, Value{}, Value{}, Value{}, err
	}
	return vs[0], vs[1], vs[2], vs[3], nil
}

func (v Value) unpack(n int) ([]Value, error) {
	vs, err := v.AsMultiple()
	if err != nil {
		return nil, err
	}
	if len(vs) != n {
		return nil, fmt.Errorf("%w: want %d values, got %d", ErrTypeMismatch, n, len(vs))
	}
	return vs, nil
}

// At returns element i of a Multiple, or None when out of range.
func (v Value) At(i int) Value {
	vs, err := v.AsMultiple()
	if err != nil || i < 0 || i >= len(vs) {
		return None()
	}
	return vs[i]
}

// --- Composition ---

// Chain concatenates two values. Two Multiples merge, a Multiple and a
// single value append (or prepend), and two single values become a
// two-element Multiple.
func Chain(a, b Value) Value {
	aVals, aMulti := a.data.([]Value)
	bVals, bMulti := b.data.([]Value)
	aMulti = aMulti && a.kind == KindMultiple
	bMulti = bMulti && b.kind == KindMultiple
	out := make([]Value, 0, a.Len()+b.Len()+2)
	if aMulti {
		out = append(out, aVals...)
	} else {
		out = append(out, a)
	}
	if bMulti {
		out = append(out, bVals...)
	} else {
		out = append(out, b)
	}
	return Value{KindMultiple, out}
}

// Chain is shorthand for Chain(v, o).
func (v Value) Chain(o Value) Value { return Chain(v, o) }

// Equal reports whether two values hold the same variant and content.
// Objects and payloads compare by identity when comparable.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNone:
		return true
	case KindMultiple:
		return valuesEqual(v.data.([]Value), o.data.([]Value))
	case KindCustom0, KindCustom1, KindCustomN:
		a, b := v.data.(CustomValue), o.data.(CustomValue)
		return a.Name == b.Name && valuesEqual(a.Args, b.Args)
	case KindMessage:
		a, b := v.data.(Message), o.data.(Message)
		return a.Method == b.Method && strings.Join(a.tags, ".") == strings.Join(b.tags, ".") && a.Value.Equal(b.Value)
	case KindTarget:
		return v.data.(Target).Equal(o.data.(Target))
	case KindObject, KindAny:
		return dynamicEqual(v.data, o.data)
	}
	return v.data == o.data
}

// dynamicEqual compares object and payload data with ==. Values whose
// dynamic type holds slices, maps or funcs are never equal.
func dynamicEqual(a, b any) bool {
	if x, ok := a.(opaque); ok {
		y, ok := b.(opaque)
		if !ok {
			return false
		}
		a, b = x.v, y.v
	}
	if reflect.TypeOf(a) != reflect.TypeOf(b) {
		return false
	}
	if a == nil {
		return true
	}
	if !reflect.ValueOf(a).Comparable() {
		return false
	}
	return a == b
}

func valuesEqual(a, b []Value) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func (v Value) String() string {
	switch v.kind {
	case KindNone:
		return "None"
	case KindString:
		return fmt.Sprintf("%q", v.data)
	case KindMultiple:
		vs := v.data.([]Value)
		parts := make([]string, len(vs))
		for i, e := range vs {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindCustom0, KindCustom1, KindCustomN:
		c := v.data.(CustomValue)
		if len(c.Args) == 0 {
			return c.Name
		}
		return c.Name + Multiple(c.Args...).String()
	case KindAny:
		return "any(" + v.data.(Payload).PayloadName() + ")"
	case KindObject:
		return fmt.Sprintf("object(%T)", v.data)
	default:
		return fmt.Sprintf("%v", v.data)
	}
}
