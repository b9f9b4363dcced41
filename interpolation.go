package greenmoon

import (
	"math"

	"github.com/tanema/gween/ease"
)

// snapEpsilon absorbs float accumulation so that e.g. ten steps of 0.1 land
// exactly on the bound.
const snapEpsilon = 1e-9

// easeFuncs maps names accepted by the set_ease message to gween easings.
var easeFuncs = map[string]ease.TweenFunc{
	"linear":       ease.Linear,
	"in_quad":      ease.InQuad,
	"out_quad":     ease.OutQuad,
	"in_out_quad":  ease.InOutQuad,
	"in_out_cubic": ease.InOutCubic,
	"in_out_sine":  ease.InOutSine,
	"out_bounce":   ease.OutBounce,
	"out_elastic":  ease.OutElastic,
}

// Progress is the normalized position t in [0, 1] of an interpolation. It
// moves by Speed on every Advance and behaves at the bounds according to its
// RepeatMode.
type Progress struct {
	t        float64
	speed    float64
	mode     RepeatMode
	forward  bool
	finished bool
	easeFn   ease.TweenFunc
}

func newProgress(speed float64, mode RepeatMode) Progress {
	p := Progress{speed: speed, mode: mode, easeFn: ease.Linear}
	p.Restart()
	return p
}

// Restart puts t back at the bound the mode starts from.
func (p *Progress) Restart() {
	p.finished = false
	switch p.mode {
	case OnceBackward, RepeatBackward:
		p.t, p.forward = 1, false
	default:
		p.t, p.forward = 0, true
	}
}

// Advance moves t by one step. It is a no-op once finished.
func (p *Progress) Advance() {
	if p.finished {
		return
	}
	switch p.mode {
	case OnceForward:
		p.t = snap(p.t + p.speed)
		if p.t >= 1 {
			p.t, p.finished = 1, true
		}
	case OnceBackward:
		p.t = snap(p.t - p.speed)
		if p.t <= 0 {
			p.t, p.finished = 0, true
		}
	case RepeatForward:
		p.t = snap(p.t + p.speed)
		if p.t > 1 {
			p.t = snap(p.t - 1)
		}
	case RepeatBackward:
		p.t = snap(p.t - p.speed)
		if p.t < 0 {
			p.t = snap(p.t + 1)
		}
	case Mirror, OnceMirror:
		if p.forward {
			p.t = snap(p.t + p.speed)
			if p.t >= 1 {
				p.t, p.forward = 1, false
			}
			return
		}
		p.t = snap(p.t - p.speed)
		if p.t <= 0 {
			p.t, p.forward = 0, true
			p.finished = p.mode == OnceMirror
		}
	}
}

// repeatArg accepts a Repeat value or its name.
func repeatArg(v Value) (RepeatMode, error) {
	if s, err := v.AsString(); err == nil {
		if m, ok := ParseRepeatMode(s); ok {
			return m, nil
		}
	}
	return v.AsRepeat()
}

func snap(t float64) float64 {
	switch {
	case math.Abs(t) < snapEpsilon:
		return 0
	case math.Abs(t-1) < snapEpsilon:
		return 1
	}
	return t
}

// T returns the raw progress.
func (p *Progress) T() float64 { return p.t }

// SetT moves progress to t, clamped to [0, 1].
func (p *Progress) SetT(t float64) { p.t = math.Max(0, math.Min(1, t)) }

// IsFinished reports whether a Once* interpolation reached its final bound.
// Repeating modes never finish.
func (p *Progress) IsFinished() bool { return p.finished }

func (p *Progress) Speed() float64         { return p.speed }
func (p *Progress) SetSpeed(speed float64) { p.speed = speed }
func (p *Progress) Mode() RepeatMode       { return p.mode }

// SetMode changes the repeat mode and restarts.
func (p *Progress) SetMode(mode RepeatMode) {
	p.mode = mode
	p.Restart()
}

// SetEase replaces the easing function (default ease.Linear).
func (p *Progress) SetEase(fn ease.TweenFunc) {
	if fn == nil {
		fn = ease.Linear
	}
	p.easeFn = fn
}

// eased returns the eased fraction. The bounds are returned exactly.
func (p *Progress) eased() float64 {
	switch {
	case p.t <= 0:
		return 0
	case p.t >= 1:
		return 1
	}
	return float64(p.easeFn(float32(p.t), 0, 1, 1))
}

// handle answers the progress messages shared by every interpolation.
func (p *Progress) handle(msg Message) (Value, bool, error) {
	switch msg.Method {
	case "is_finished":
		return Bool(p.finished), true, nil
	case "restart":
		p.Restart()
		return None(), true, nil
	case "get_speed":
		return Float64(p.speed), true, nil
	case "set_speed":
		s, err := msg.Value.Number()
		if err != nil {
			return None(), true, err
		}
		p.speed = s
		return None(), true, nil
	case "get_progress":
		return Float64(p.t), true, nil
	case "set_progress":
		t, err := msg.Value.Number()
		if err != nil {
			return None(), true, err
		}
		p.SetT(t)
		return None(), true, nil
	case "set_repeat":
		mode, err := repeatArg(msg.Value)
		if err != nil {
			return None(), true, err
		}
		p.SetMode(mode)
		return None(), true, nil
	case "set_ease":
		name, err := msg.Value.AsString()
		if err != nil {
			return None(), true, err
		}
		fn, ok := easeFuncs[name]
		if !ok {
			return None(), true, nil
		}
		p.easeFn = fn
		return None(), true, nil
	}
	return None(), false, nil
}

// --- Scalar ---

// Interpolation moves a float64 from Start to End.
type Interpolation struct {
	Start, End float64
	Progress
}

// NewInterpolation creates a scalar interpolation advancing by speed per step.
func NewInterpolation(start, end, speed float64, mode RepeatMode) *Interpolation {
	return &Interpolation{Start: start, End: end, Progress: newProgress(speed, mode)}
}

// Value returns the current interpolated value.
func (i *Interpolation) Value() float64 {
	return lerpBounds(i.Start, i.End, i.eased())
}

// Step advances and returns the new value.
func (i *Interpolation) Step() float64 {
	i.Advance()
	return i.Value()
}

func lerpBounds(a, b, e float64) float64 {
	switch e {
	case 0:
		return a
	case 1:
		return b
	}
	return a + (b-a)*e
}

// SendMessage handles get_value plus the shared progress methods, and the
// tag paths "start" and "end" with get/set/add.
func (i *Interpolation) SendMessage(msg Message) (Value, error) {
	switch tag := msg.NextTag(); tag {
	case "start":
		return scalarField(&i.Start, msg)
	case "end":
		return scalarField(&i.End, msg)
	case "":
	default:
		return None(), nil
	}
	if msg.Method == "get_value" {
		return Float64(i.Value()), nil
	}
	v, _, err := i.handle(msg)
	return v, err
}

func scalarField(f *float64, msg Message) (Value, error) {
	switch msg.Method {
	case "get":
		return Float64(*f), nil
	case "set", "add":
		n, err := msg.Value.Number()
		if err != nil {
			return None(), err
		}
		if msg.Method == "set" {
			*f = n
		} else {
			*f += n
		}
	}
	return None(), nil
}

// --- Vector ---

// VecInterpolation moves a Vec2 from Start to End.
type VecInterpolation struct {
	Start, End Vec2
	Progress
}

// NewVecInterpolation creates a vector interpolation advancing by speed per step.
func NewVecInterpolation(start, end Vec2, speed float64, mode RepeatMode) *VecInterpolation {
	return &VecInterpolation{Start: start, End: end, Progress: newProgress(speed, mode)}
}

// Value returns the current interpolated point.
func (i *VecInterpolation) Value() Vec2 {
	e := i.eased()
	return Vec2{lerpBounds(i.Start.X, i.End.X, e), lerpBounds(i.Start.Y, i.End.Y, e)}
}

// Step advances and returns the new point.
func (i *VecInterpolation) Step() Vec2 {
	i.Advance()
	return i.Value()
}

// SendMessage handles get_value plus the shared progress methods, and the
// tag paths "start" and "end" (optionally followed by "x" or "y").
func (i *VecInterpolation) SendMessage(msg Message) (Value, error) {
	switch tag := msg.NextTag(); tag {
	case "start":
		return vecField(&i.Start, msg)
	case "end":
		return vecField(&i.End, msg)
	case "":
	default:
		return None(), nil
	}
	if msg.Method == "get_value" {
		return VecOf(i.Value()), nil
	}
	v, _, err := i.handle(msg)
	return v, err
}

// vecField handles get/set/add on a point, or on one of its components when
// the next tag is "x" or "y".
func vecField(p *Vec2, msg Message) (Value, error) {
	switch msg.NextTag() {
	case "x":
		return scalarField(&p.X, msg)
	case "y":
		return scalarField(&p.Y, msg)
	case "":
	default:
		return None(), nil
	}
	switch msg.Method {
	case "get":
		return VecOf(*p), nil
	case "set", "add":
		v, err := msg.Value.AsVec2()
		if err != nil {
			return None(), err
		}
		if msg.Method == "set" {
			*p = v
		} else {
			*p = p.Add(v)
		}
	}
	return None(), nil
}
