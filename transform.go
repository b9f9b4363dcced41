package greenmoon

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Placement is the screen transform and tint shared by drawable objects.
type Placement struct {
	Position Vec2
	Scale    Vec2
	Rotation float64
	Flip     Flip
	Align    Alignment
	Color    Color
}

// DefaultPlacement is unscaled, unrotated, top-left aligned and untinted.
func DefaultPlacement() Placement {
	return Placement{Scale: Vec2{1, 1}, Color: ColorWhite}
}

// matrix computes the affine matrix [a, b, c, d, tx, ty] for a w×h box.
//
// Composition order:
//
//	Flip (about the box) -> Translate(-pivot) -> Scale -> Rotate -> Translate(Position)
//
// where the pivot is the alignment point of the box.
func (p *Placement) matrix(w, h float64) [6]float64 {
	fx, fy := p.Align.Offset()
	px, py := fx*w, fy*h

	ax, tx := 1.0, -px
	if p.Flip.H {
		ax, tx = -1, w-px
	}
	ay, ty := 1.0, -py
	if p.Flip.V {
		ay, ty = -1, h-py
	}

	a := ax * p.Scale.X
	d := ay * p.Scale.Y
	tx *= p.Scale.X
	ty *= p.Scale.Y

	sin, cos := math.Sincos(p.Rotation)
	return [6]float64{
		cos * a, sin * a,
		-sin * d, cos * d,
		cos*tx - sin*ty + p.Position.X,
		sin*tx + cos*ty + p.Position.Y,
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return [6]float64{1, 0, 0, 1, 0, 0}
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

func geoM(m [6]float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.SetElement(0, 0, m[0])
	g.SetElement(1, 0, m[1])
	g.SetElement(0, 1, m[2])
	g.SetElement(1, 1, m[3])
	g.SetElement(0, 2, m[4])
	g.SetElement(1, 2, m[5])
	return g
}

// Bounds returns the axis-aligned screen box of a transformed w×h box.
func (p *Placement) Bounds(w, h float64) Rect {
	m := p.matrix(w, h)
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range [4][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}} {
		x, y := transformPoint(m, c[0], c[1])
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Contains reports whether the screen point lies inside the transformed
// w×h box.
func (p *Placement) Contains(w, h float64, pt Vec2) bool {
	x, y := transformPoint(invertAffine(p.matrix(w, h)), pt.X, pt.Y)
	return Rect{Width: w, Height: h}.Contains(x, y)
}

func (p *Placement) drawOptions(w, h float64) *ebiten.DrawImageOptions {
	op := &ebiten.DrawImageOptions{GeoM: geoM(p.matrix(w, h))}
	a := float32(p.Color.A)
	op.ColorScale.Scale(float32(p.Color.R)*a, float32(p.Color.G)*a, float32(p.Color.B)*a, a)
	return op
}

// placementCommand is the decoded method of a placement message.
type placementCommand uint8

const (
	placementUnknown placementCommand = iota
	placementGetPosition
	placementSetPosition
	placementAddPosition
	placementGetScale
	placementSetScale
	placementGetRotation
	placementSetRotation
	placementSetFlip
	placementSetAlignment
	placementSetAlpha
	placementSetColor
	placementGetBounds
	placementContains
)

var placementCommands = map[string]placementCommand{
	"get_position":   placementGetPosition,
	"set_position":   placementSetPosition,
	"add_position":   placementAddPosition,
	"get_scale":      placementGetScale,
	"set_scale":      placementSetScale,
	"get_rotation":   placementGetRotation,
	"set_rotation":   placementSetRotation,
	"set_flip":       placementSetFlip,
	"set_alignment":  placementSetAlignment,
	"set_alpha":      placementSetAlpha,
	"set_color":      placementSetColor,
	"get_bounds":     placementGetBounds,
	"contains_point": placementContains,
}

// handle answers the placement messages for a w×h object. ok is false for
// methods that are not placement methods.
func (p *Placement) handle(msg Message, w, h float64) (v Value, ok bool, err error) {
	cmd := placementCommands[msg.Method]
	if cmd == placementUnknown {
		return None(), false, nil
	}
	v = None()
	switch cmd {
	case placementGetPosition:
		v = VecOf(p.Position)
	case placementSetPosition, placementAddPosition:
		d, e := msg.Value.AsVec2()
		if e != nil {
			return None(), true, e
		}
		if cmd == placementSetPosition {
			p.Position = d
		} else {
			p.Position = p.Position.Add(d)
		}
	case placementGetScale:
		v = VecOf(p.Scale)
	case placementSetScale:
		// A single number scales uniformly.
		if n, e := msg.Value.Number(); e == nil {
			p.Scale = Vec2{n, n}
			break
		}
		s, e := msg.Value.AsVec2()
		if e != nil {
			return None(), true, e
		}
		p.Scale = s
	case placementGetRotation:
		v = Float64(p.Rotation)
	case placementSetRotation:
		r, e := msg.Value.Number()
		if e != nil {
			return None(), true, e
		}
		p.Rotation = r
	case placementSetFlip:
		f, e := msg.Value.AsFlip()
		if e != nil {
			return None(), true, e
		}
		p.Flip = f
	case placementSetAlignment:
		a, e := alignArg(msg.Value)
		if e != nil {
			return None(), true, e
		}
		p.Align = a
	case placementSetAlpha:
		a, e := msg.Value.Number()
		if e != nil {
			return None(), true, e
		}
		p.Color.A = clamp01(a)
	case placementSetColor:
		r, g, b, a, e := msg.Value.Unpack4()
		if e != nil {
			return None(), true, e
		}
		var c [4]float64
		for i, cv := range []Value{r, g, b, a} {
			if c[i], e = cv.Number(); e != nil {
				return None(), true, e
			}
		}
		p.Color = Color{c[0], c[1], c[2], c[3]}
	case placementGetBounds:
		b := p.Bounds(w, h)
		v = Multiple(Vec(b.X, b.Y), SizeOf(Size{b.Width, b.Height}))
	case placementContains:
		pt, e := msg.Value.AsVec2()
		if e != nil {
			return None(), true, e
		}
		v = Bool(p.Contains(w, h, pt))
	}
	return v, true, nil
}

// alignArg accepts an Align value or its name.
func alignArg(v Value) (Alignment, error) {
	if s, err := v.AsString(); err == nil {
		if a, ok := ParseAlignment(s); ok {
			return a, nil
		}
	}
	return v.AsAlign()
}
