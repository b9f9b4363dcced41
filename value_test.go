package greenmoon

import (
	"errors"
	"testing"
)

func TestValueOfPrimitives(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want Kind
	}{
		{"nil", nil, KindNone},
		{"bool", true, KindBool},
		{"int", 3, KindInt64},
		{"int8", int8(3), KindInt8},
		{"uint16", uint16(3), KindUint16},
		{"float32", float32(1.5), KindFloat32},
		{"float64", 1.5, KindFloat64},
		{"string", "hi", KindString},
		{"vec", Vec2{1, 2}, KindVec2},
		{"size", Size{1, 2}, KindSize},
		{"flip", Flip{H: true}, KindFlip},
		{"repeat", Mirror, KindRepeat},
		{"align", AlignCenter, KindAlign},
		{"target", To("a"), KindTarget},
		{"message", Msg("m"), KindMessage},
		{"values", []Value{Int(1)}, KindMultiple},
		{"object", newRecorder("r", nil), KindObject},
		{"func", Func(func(Value, *ObjectManager) error { return nil }), KindAny},
		{"struct", struct{ A int }{1}, KindAny},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ValueOf(tt.in).Kind(); got != tt.want {
				t.Errorf("ValueOf(%v).Kind() = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestValueAccessorMismatch(t *testing.T) {
	v := String("x")
	_, err := v.AsFloat32()
	var tm *TypeMismatchError
	if !errors.As(err, &tm) {
		t.Fatalf("err = %v, want *TypeMismatchError", err)
	}
	if tm.Want != KindFloat32 || tm.Got != KindString {
		t.Errorf("mismatch = %+v", tm)
	}
	if !errors.Is(err, ErrTypeMismatch) {
		t.Error("errors.Is(err, ErrTypeMismatch) = false")
	}
	if s, err := v.AsString(); err != nil || s != "x" {
		t.Errorf("AsString = (%q, %v)", s, err)
	}
}

func TestValueNumberWidens(t *testing.T) {
	for _, v := range []Value{Int8(4), Uint32(4), Int(4), Float32(4), Float64(4)} {
		f, err := v.Number()
		if err != nil || f != 4 {
			t.Errorf("%v.Number() = (%v, %v), want 4", v, f, err)
		}
	}
	if _, err := Bool(true).Number(); !IsTypeMismatch(err) {
		t.Errorf("Bool.Number err = %v, want type mismatch", err)
	}
	if _, err := Float64(1.5).AsInt(); !IsTypeMismatch(err) {
		t.Errorf("Float64.AsInt err = %v, want type mismatch", err)
	}
}

func TestTupleAndUnpack(t *testing.T) {
	v := Tuple("a", 1, Vec2{2, 3})
	a, b, c, err := v.Unpack3()
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(String("a")) || !b.Equal(Int(1)) || !c.Equal(Vec(2, 3)) {
		t.Errorf("unpacked = %v %v %v", a, b, c)
	}
	if _, _, err := v.Unpack2(); !IsTypeMismatch(err) {
		t.Errorf("Unpack2 of 3 values err = %v", err)
	}
	w, x, y, z, err := Tuple(1, 2, 3, 4).Unpack4()
	if err != nil || !z.Equal(Int(4)) || !w.Equal(Int(1)) || x.IsNone() || y.IsNone() {
		t.Errorf("Unpack4 = %v %v %v %v %v", w, x, y, z, err)
	}
	if !v.At(5).IsNone() {
		t.Error("At out of range should be None")
	}
}

func TestChain(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want Value
	}{
		{"multi+multi", Multiple(Int(1), Int(2)), Multiple(Int(3)), Multiple(Int(1), Int(2), Int(3))},
		{"multi+single", Multiple(Int(1)), Int(2), Multiple(Int(1), Int(2))},
		{"single+multi", Int(1), Multiple(Int(2), Int(3)), Multiple(Int(1), Int(2), Int(3))},
		{"single+single", Int(1), String("x"), Multiple(Int(1), String("x"))},
		{"empty+single", Multiple(), Int(1), Multiple(Int(1))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Chain(tt.a, tt.b); !got.Equal(tt.want) {
				t.Errorf("Chain(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

type shipPayload struct{ hull int }

func (shipPayload) PayloadName() string { return "ship" }

type cargoPayload struct{}

func (cargoPayload) PayloadName() string { return "cargo" }

func TestPayloadAs(t *testing.T) {
	v := AnyOf(shipPayload{hull: 3})
	p, err := PayloadAs[shipPayload](v)
	if err != nil || p.hull != 3 {
		t.Fatalf("PayloadAs = (%v, %v)", p, err)
	}
	if _, err := PayloadAs[cargoPayload](v); !IsTypeMismatch(err) {
		t.Errorf("wrong payload err = %v, want type mismatch", err)
	}
	if _, err := PayloadAs[shipPayload](Int(1)); !IsTypeMismatch(err) {
		t.Errorf("non-any err = %v, want type mismatch", err)
	}
}

func TestCustomValues(t *testing.T) {
	c, err := TagN("rgb", Int(1), Int(2), Int(3)).AsCustom()
	if err != nil || c.Name != "rgb" || len(c.Args) != 3 {
		t.Errorf("AsCustom = (%+v, %v)", c, err)
	}
	if ValueOf(CustomValue{Name: "solo"}).Kind() != KindCustom0 {
		t.Error("CustomValue without args should be Custom0")
	}
	if Tag1("hp", Int(9)).Kind() != KindCustom1 {
		t.Error("Tag1 kind")
	}
	if _, err := Int(1).AsCustom(); !IsTypeMismatch(err) {
		t.Errorf("Int.AsCustom err = %v", err)
	}
}

func TestValueEqual(t *testing.T) {
	r := newRecorder("r", nil)
	if !ObjectOf(r).Equal(ObjectOf(r)) {
		t.Error("same object should be equal")
	}
	if ObjectOf(r).Equal(ObjectOf(newRecorder("r", nil))) {
		t.Error("different objects should not be equal")
	}
	if Int(1).Equal(Int32(1)) {
		t.Error("different kinds should not be equal")
	}
	if !MessageOf(TaggedMessage("a.b", "m", Int(1))).Equal(MessageOf(TaggedMessage("a.b", "m", Int(1)))) {
		t.Error("equal messages should be equal")
	}
}

func TestValueEqualUncomparablePayload(t *testing.T) {
	if ValueOf([]int{1}).Equal(ValueOf([]int{1})) {
		t.Error("slice payloads should not be equal")
	}
	m := map[string]int{"hp": 3}
	if ValueOf(m).Equal(ValueOf(m)) {
		t.Error("map payloads should not be equal")
	}
	if ValueOf([]int{1}).Equal(ValueOf(struct{ n int }{1})) {
		t.Error("payloads of different types should not be equal")
	}

	type point struct{ x, y int }
	if !ValueOf(point{1, 2}).Equal(ValueOf(point{1, 2})) {
		t.Error("comparable payloads with equal contents should be equal")
	}
	if ValueOf(point{1, 2}).Equal(ValueOf(point{2, 1})) {
		t.Error("comparable payloads with different contents should not be equal")
	}
	if AnyOf(Func(nil)).Equal(AnyOf(Func(nil))) {
		t.Error("func payloads should not be equal")
	}
}

func TestValueString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{None(), "None"},
		{String("x"), `"x"`},
		{Multiple(Int(1), Bool(true)), "[1, true]"},
		{Tag("stop"), "stop"},
	}
	for _, tt := range tests {
		if got := tt.v.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
