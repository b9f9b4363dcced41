package greenmoon

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

func placedAt(x, y float64) Placement {
	p := DefaultPlacement()
	p.Position = Vec2{x, y}
	return p
}

// --- matrix ---

func TestPlacementMatrixIdentity(t *testing.T) {
	p := placedAt(0, 0)
	assertMatrix(t, "identity", p.matrix(10, 10), [6]float64{1, 0, 0, 1, 0, 0})
}

func TestPlacementMatrixTranslate(t *testing.T) {
	p := placedAt(30, 40)
	assertMatrix(t, "translate", p.matrix(10, 10), [6]float64{1, 0, 0, 1, 30, 40})
}

func TestPlacementMatrixScale(t *testing.T) {
	p := placedAt(5, 5)
	p.Scale = Vec2{2, 3}
	assertMatrix(t, "scale", p.matrix(10, 10), [6]float64{2, 0, 0, 3, 5, 5})
}

func TestPlacementMatrixCenterPivot(t *testing.T) {
	p := placedAt(50, 50)
	p.Align = AlignCenter
	x, y := transformPoint(p.matrix(10, 20), 5, 10)
	assertNear(t, "pivot x", x, 50)
	assertNear(t, "pivot y", y, 50)
}

func TestPlacementMatrixRotation(t *testing.T) {
	p := placedAt(100, 0)
	p.Rotation = math.Pi / 2
	x, y := transformPoint(p.matrix(10, 10), 10, 0)
	assertNear(t, "rotated x", x, 100)
	assertNear(t, "rotated y", y, 10)
}

func TestPlacementMatrixFlip(t *testing.T) {
	p := placedAt(0, 0)
	p.Flip = Flip{H: true}
	x, y := transformPoint(p.matrix(10, 4), 0, 0)
	assertNear(t, "flipped left x", x, 10)
	assertNear(t, "flipped left y", y, 0)
	x, _ = transformPoint(p.matrix(10, 4), 10, 0)
	assertNear(t, "flipped right x", x, 0)

	// Flipping keeps the box where it was.
	b := p.Bounds(10, 4)
	if b != (Rect{0, 0, 10, 4}) {
		t.Errorf("flipped bounds = %+v, want {0 0 10 4}", b)
	}
}

// --- invertAffine ---

func TestInvertAffineRoundTrip(t *testing.T) {
	p := placedAt(12, -7)
	p.Scale = Vec2{2, 0.5}
	p.Rotation = 0.3
	m := p.matrix(8, 8)
	inv := invertAffine(m)
	x, y := transformPoint(m, 3, 4)
	bx, by := transformPoint(inv, x, y)
	assertNear(t, "x", bx, 3)
	assertNear(t, "y", by, 4)
}

func TestInvertAffineSingular(t *testing.T) {
	got := invertAffine([6]float64{0, 0, 0, 0, 5, 5})
	assertMatrix(t, "singular", got, [6]float64{1, 0, 0, 1, 0, 0})
}

// --- Bounds / Contains ---

func TestPlacementBounds(t *testing.T) {
	p := placedAt(50, 50)
	p.Align = AlignCenter
	b := p.Bounds(10, 20)
	assertNear(t, "X", b.X, 45)
	assertNear(t, "Y", b.Y, 40)
	assertNear(t, "Width", b.Width, 10)
	assertNear(t, "Height", b.Height, 20)
}

func TestPlacementBoundsRotated(t *testing.T) {
	p := placedAt(0, 0)
	p.Align = AlignCenter
	p.Rotation = math.Pi / 4
	b := p.Bounds(10, 10)
	want := 10 * math.Sqrt2
	assertNear(t, "Width", b.Width, want)
	assertNear(t, "Height", b.Height, want)
}

func TestPlacementContains(t *testing.T) {
	p := placedAt(0, 0)
	p.Align = AlignCenter
	p.Rotation = math.Pi / 4
	if !p.Contains(10, 10, Vec2{0, 6}) {
		t.Error("point on the rotated diagonal should be inside")
	}
	if p.Contains(10, 10, Vec2{6, 6}) {
		t.Error("corner of the bounding box should be outside the rotated box")
	}
}

func TestRectContainsAndIntersects(t *testing.T) {
	r := Rect{0, 0, 10, 10}
	if !r.Contains(10, 10) {
		t.Error("edge point should be inside")
	}
	if r.Contains(11, 5) {
		t.Error("outside point reported inside")
	}
	if !r.Intersects(Rect{10, 10, 5, 5}) {
		t.Error("touching rects should intersect")
	}
	if r.Intersects(Rect{11, 0, 5, 5}) {
		t.Error("separate rects should not intersect")
	}
}

// --- messages ---

func TestPlacementMessages(t *testing.T) {
	p := placedAt(1, 2)
	send := func(msg Message) Value {
		t.Helper()
		v, ok, err := p.handle(msg, 10, 10)
		if !ok || err != nil {
			t.Fatalf("handle(%s) = ok %v, err %v", msg, ok, err)
		}
		return v
	}

	send(Msg("add_position", Vec2{1, 1}))
	if p.Position != (Vec2{2, 3}) {
		t.Errorf("Position = %v, want {2 3}", p.Position)
	}
	send(Msg("set_scale", 2))
	if p.Scale != (Vec2{2, 2}) {
		t.Errorf("uniform Scale = %v, want {2 2}", p.Scale)
	}
	send(Msg("set_scale", Vec2{1, 3}))
	if got := vec(t, send(Msg("get_scale"))); got != (Vec2{1, 3}) {
		t.Errorf("get_scale = %v, want {1 3}", got)
	}
	send(Msg("set_rotation", 1.5))
	assertNear(t, "rotation", float(t, send(Msg("get_rotation"))), 1.5)
	send(Msg("set_alignment", "bottom_right"))
	if p.Align != AlignBottomRight {
		t.Errorf("Align = %v, want bottom_right", p.Align)
	}
	send(Msg("set_alignment", AlignCenter))
	if p.Align != AlignCenter {
		t.Errorf("Align = %v, want center", p.Align)
	}
	send(Msg("set_flip", Flip{V: true}))
	if !p.Flip.V || p.Flip.H {
		t.Errorf("Flip = %+v, want vertical only", p.Flip)
	}
	send(Msg("set_alpha", 3))
	assertNear(t, "alpha", p.Color.A, 1)
	send(Msg("set_color", 0.5, 0.25, 1, 0.5))
	if p.Color != (Color{0.5, 0.25, 1, 0.5}) {
		t.Errorf("Color = %+v", p.Color)
	}
}

func TestPlacementGetBoundsMessage(t *testing.T) {
	p := placedAt(10, 20)
	v, _, err := p.handle(Msg("get_bounds"), 4, 6)
	if err != nil {
		t.Fatal(err)
	}
	pos, size, err := v.Unpack2()
	if err != nil {
		t.Fatal(err)
	}
	if got := vec(t, pos); got != (Vec2{10, 20}) {
		t.Errorf("bounds origin = %v, want {10 20}", got)
	}
	if got, _ := size.AsSize(); got != (Size{4, 6}) {
		t.Errorf("bounds size = %v, want {4 6}", got)
	}

	v, _, _ = p.handle(Msg("contains_point", Vec2{12, 22}), 4, 6)
	if inside, _ := v.AsBool(); !inside {
		t.Error("contains_point = false, want true")
	}
}

func TestPlacementMessageErrors(t *testing.T) {
	p := DefaultPlacement()
	if _, ok, _ := p.handle(Msg("jump"), 1, 1); ok {
		t.Error("unknown method should report ok = false")
	}
	for _, msg := range []Message{
		Msg("set_position", "here"),
		Msg("set_scale", "big"),
		Msg("set_alignment", "diagonal"),
		Msg("set_color", 1, 2),
	} {
		if _, ok, err := p.handle(msg, 1, 1); !ok || err == nil {
			t.Errorf("handle(%s) = ok %v, err %v, want type error", msg, ok, err)
		}
	}
}
