package greenmoon

import (
	"fmt"
	"image/color"
	"math"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

// Vec2 is a 2D vector used for positions, velocities and offsets.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v multiplied by s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

func (v Vec2) String() string { return fmt.Sprintf("(%g, %g)", v.X, v.Y) }

// Size is a width/height pair.
type Size struct {
	W, H float64
}

// Rect is an axis-aligned rectangle with its origin at the top-left.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap. Touching edges count.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Flip holds horizontal and vertical mirroring flags.
type Flip struct {
	H, V bool
}

// Range is a general-purpose min/max range used by the particle effect.
type Range struct {
	Min, Max float64
}

// RepeatMode controls what an interpolation does when it reaches a bound.
type RepeatMode uint8

const (
	OnceForward    RepeatMode = iota // start to end, then stop
	OnceBackward                     // end to start, then stop
	RepeatForward                    // start to end, wrap to start
	RepeatBackward                   // end to start, wrap to end
	Mirror                           // bounce between start and end forever
	OnceMirror                       // start to end and back, then stop
)

var repeatModeNames = [...]string{"once_forward", "once_backward", "repeat_forward", "repeat_backward", "mirror", "once_mirror"}

func (r RepeatMode) String() string {
	if int(r) < len(repeatModeNames) {
		return repeatModeNames[r]
	}
	return fmt.Sprintf("RepeatMode(%d)", r)
}

// ParseRepeatMode returns the RepeatMode with the given name.
func ParseRepeatMode(s string) (RepeatMode, bool) {
	for i, n := range repeatModeNames {
		if n == s {
			return RepeatMode(i), true
		}
	}
	return 0, false
}

// Alignment selects which point of an object its position refers to.
type Alignment uint8

const (
	AlignTopLeft Alignment = iota // position is the top-left corner (default)
	AlignTop
	AlignTopRight
	AlignLeft
	AlignCenter
	AlignRight
	AlignBottomLeft
	AlignBottom
	AlignBottomRight
)

var alignmentNames = [...]string{"top_left", "top", "top_right", "left", "center", "right", "bottom_left", "bottom", "bottom_right"}

func (a Alignment) String() string {
	if int(a) < len(alignmentNames) {
		return alignmentNames[a]
	}
	return fmt.Sprintf("Alignment(%d)", a)
}

// ParseAlignment returns the Alignment with the given name.
func ParseAlignment(s string) (Alignment, bool) {
	for i, n := range alignmentNames {
		if n == s {
			return Alignment(i), true
		}
	}
	return 0, false
}

// Offset returns the fraction of a box's width and height that the alignment
// point sits at, e.g. (0.5, 0.5) for AlignCenter.
func (a Alignment) Offset() (fx, fy float64) {
	col := int(a) % 3
	row := int(a) / 3
	return float64(col) / 2, float64(row) / 2
}
