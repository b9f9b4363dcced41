package greenmoon

import (
	"errors"
	"math"
	"testing"

	"github.com/tanema/gween/ease"
)

func TestInterpolationReachesEndExactly(t *testing.T) {
	in := NewInterpolation(0, 10, 0.1, OnceForward)

	for i := 0; i < 10; i++ {
		in.Advance()
	}

	if !in.IsFinished() {
		t.Fatal("expected finished after 10 steps")
	}
	if got := in.Value(); got != 10 {
		t.Errorf("Value = %v, want exactly 10", got)
	}

	in.Advance()
	if got := in.Value(); got != 10 {
		t.Errorf("Value after extra step = %v, want 10", got)
	}
}

func TestInterpolationNotFinishedEarly(t *testing.T) {
	in := NewInterpolation(0, 10, 0.1, OnceForward)
	for i := 0; i < 9; i++ {
		in.Advance()
	}
	if in.IsFinished() {
		t.Fatal("finished after 9 steps")
	}
	if math.Abs(in.Value()-9) > 1e-9 {
		t.Errorf("Value = %v, want ~9", in.Value())
	}
}

func TestInterpolationOnceBackward(t *testing.T) {
	in := NewInterpolation(0, 10, 0.25, OnceBackward)
	if got := in.Value(); got != 10 {
		t.Fatalf("initial Value = %v, want 10", got)
	}
	for i := 0; i < 4; i++ {
		in.Advance()
	}
	if !in.IsFinished() || in.Value() != 0 {
		t.Errorf("Value = %v finished = %v, want 0 true", in.Value(), in.IsFinished())
	}
}

func TestInterpolationRepeatForwardWraps(t *testing.T) {
	in := NewInterpolation(0, 1, 0.5, RepeatForward)
	want := []float64{0.5, 1, 0.5, 1}
	for i, w := range want {
		in.Advance()
		if got := in.Value(); got != w {
			t.Errorf("step %d: Value = %v, want %v", i, got, w)
		}
	}
	if in.IsFinished() {
		t.Error("repeating interpolation must never finish")
	}
}

func TestInterpolationRepeatBackwardWraps(t *testing.T) {
	in := NewInterpolation(0, 1, 0.5, RepeatBackward)
	want := []float64{0.5, 0, 0.5, 0}
	for i, w := range want {
		in.Advance()
		if got := in.Value(); got != w {
			t.Errorf("step %d: Value = %v, want %v", i, got, w)
		}
	}
}

func TestInterpolationMirrorBounces(t *testing.T) {
	in := NewInterpolation(0, 4, 0.5, Mirror)
	want := []float64{2, 4, 2, 0, 2, 4}
	for i, w := range want {
		in.Advance()
		if got := in.Value(); got != w {
			t.Errorf("step %d: Value = %v, want %v", i, got, w)
		}
	}
	if in.IsFinished() {
		t.Error("mirror must never finish")
	}
}

func TestInterpolationOnceMirrorStopsAtStart(t *testing.T) {
	in := NewInterpolation(0, 4, 0.5, OnceMirror)
	for i := 0; i < 4; i++ {
		in.Advance()
	}
	if !in.IsFinished() {
		t.Fatal("expected finished after going out and back")
	}
	if in.Value() != 0 {
		t.Errorf("Value = %v, want 0", in.Value())
	}
}

func TestInterpolationEaseKeepsBounds(t *testing.T) {
	in := NewInterpolation(3, 7, 0.5, OnceForward)
	in.SetEase(ease.OutBounce)
	if in.Value() != 3 {
		t.Errorf("start Value = %v, want 3", in.Value())
	}
	in.Advance()
	in.Advance()
	if in.Value() != 7 {
		t.Errorf("end Value = %v, want 7", in.Value())
	}
}

func TestInterpolationRestart(t *testing.T) {
	in := NewInterpolation(0, 10, 0.5, OnceForward)
	in.Advance()
	in.Advance()
	in.Restart()
	if in.IsFinished() || in.Value() != 0 {
		t.Errorf("after Restart: Value = %v finished = %v", in.Value(), in.IsFinished())
	}
}

func TestVecInterpolationComponents(t *testing.T) {
	in := NewVecInterpolation(Vec2{0, 10}, Vec2{10, 0}, 0.5, OnceForward)
	if got := in.Step(); got != (Vec2{5, 5}) {
		t.Errorf("Step = %v, want (5, 5)", got)
	}
	if got := in.Step(); got != (Vec2{10, 0}) {
		t.Errorf("Step = %v, want (10, 0)", got)
	}
}

func TestInterpolationMessages(t *testing.T) {
	in := NewInterpolation(0, 10, 0.1, OnceForward)

	if _, err := in.SendMessage(TaggedMessage("end", "set", Float64(20))); err != nil {
		t.Fatal(err)
	}
	v, err := in.SendMessage(TaggedMessage("end", "get", None()))
	if err != nil {
		t.Fatal(err)
	}
	if f, _ := v.AsFloat64(); f != 20 {
		t.Errorf("end = %v, want 20", v)
	}

	if _, err := in.SendMessage(Msg("set_repeat", "mirror")); err != nil {
		t.Fatal(err)
	}
	if in.Mode() != Mirror {
		t.Errorf("Mode = %v, want mirror", in.Mode())
	}

	_, err = in.SendMessage(Msg("set_speed", "fast"))
	if !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("set_speed with string: err = %v, want type mismatch", err)
	}

	v, err = in.SendMessage(Msg("no_such_method"))
	if err != nil || !v.IsNone() {
		t.Errorf("unknown method = (%v, %v), want (None, nil)", v, err)
	}
}

func TestVecInterpolationTagPaths(t *testing.T) {
	in := NewVecInterpolation(Vec2{}, Vec2{1, 1}, 0.1, OnceForward)

	if _, err := in.SendMessage(TaggedMessage("start.x", "add", Float64(3))); err != nil {
		t.Fatal(err)
	}
	if _, err := in.SendMessage(TaggedMessage("end", "set", Vec(8, 9))); err != nil {
		t.Fatal(err)
	}
	if in.Start != (Vec2{3, 0}) || in.End != (Vec2{8, 9}) {
		t.Errorf("Start = %v End = %v", in.Start, in.End)
	}
	v, _ := in.SendMessage(TaggedMessage("end.y", "get", None()))
	if f, _ := v.AsFloat64(); f != 9 {
		t.Errorf("end.y = %v, want 9", v)
	}
}
