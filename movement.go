package greenmoon

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Subject is what a mover moves: either an object reached by target through
// the manager, or a child object owned (updated and drawn) by the mover.
type Subject struct {
	target Target
	child  Object
}

// SubjectNamed moves the object with the given name.
func SubjectNamed(name string) Subject { return Subject{target: To(name)} }

// SubjectTarget moves every object addressed by t.
func SubjectTarget(t Target) Subject { return Subject{target: t} }

// SubjectChild moves obj, which the mover owns.
func SubjectChild(obj Object) Subject { return Subject{child: obj} }

// Owned reports whether the subject is a child object.
func (s Subject) Owned() bool { return s.child != nil }

func (s Subject) send(msg Message, om *ObjectManager) (Value, error) {
	if s.child != nil {
		return s.child.SendMessage(msg, om)
	}
	return om.SendMessage(s.target, msg)
}

func (s Subject) update(om *ObjectManager) error {
	if s.child == nil {
		return nil
	}
	return s.child.Update(om)
}

func (s Subject) draw(dc *DrawContext) {
	if s.child != nil {
		s.child.Draw(dc)
	}
}

func (s Subject) clone() Subject {
	if s.child != nil {
		return Subject{child: s.child.Clone()}
	}
	return s
}

// forward handles the "target" and "child" tags, which pass the rest of the
// message to the subject. ok is false when msg carries no tag.
func (s Subject) forward(msg *Message, om *ObjectManager) (v Value, ok bool, err error) {
	switch tag := msg.NextTag(); tag {
	case "":
		return None(), false, nil
	case "target", "child":
		v, err = s.send(*msg, om)
		return v, true, err
	}
	return None(), true, nil
}

// moverCommand is the decoded method of a message sent to a mover.
type moverCommand uint8

const (
	moverUnknown moverCommand = iota
	moverGetVelocity
	moverSetVelocity
	moverAddVelocity
	moverGetAcceleration
	moverSetAcceleration
	moverAddAcceleration
	moverGetPosition
	moverToChild
	moverToAllChildren
	moverGetCenter
	moverSetCenter
	moverGetRadius
	moverSetRadius
	moverGetAngle
)

var moverCommands = map[string]moverCommand{
	"get_velocity":     moverGetVelocity,
	"set_velocity":     moverSetVelocity,
	"add_velocity":     moverAddVelocity,
	"get_acceleration": moverGetAcceleration,
	"set_acceleration": moverSetAcceleration,
	"add_acceleration": moverAddAcceleration,
	"get_position":     moverGetPosition,
	"to_child":         moverToChild,
	"to_all_children":  moverToAllChildren,
	"get_center":       moverGetCenter,
	"set_center":       moverSetCenter,
	"get_radius":       moverGetRadius,
	"set_radius":       moverSetRadius,
	"get_angle":        moverGetAngle,
}

// vecOp applies a get, set or add command to a vector field.
func vecOp(field *Vec2, get, set, add moverCommand, cmd moverCommand, v Value) (Value, error) {
	switch cmd {
	case get:
		return VecOf(*field), nil
	case set, add:
		d, err := v.AsVec2()
		if err != nil {
			return None(), err
		}
		if cmd == set {
			*field = d
		} else {
			*field = field.Add(d)
		}
	}
	return None(), nil
}

// --- Velocity / acceleration ---

// VelocityMover adds its velocity to the subject's position every update.
type VelocityMover struct {
	Subject  Subject
	Velocity Vec2
}

func NewVelocityMover(subject Subject, velocity Vec2) *VelocityMover {
	return &VelocityMover{Subject: subject, Velocity: velocity}
}

func (m *VelocityMover) SendMessage(msg Message, om *ObjectManager) (Value, error) {
	if v, ok, err := m.Subject.forward(&msg, om); ok {
		return v, err
	}
	cmd := moverCommands[msg.Method]
	return vecOp(&m.Velocity, moverGetVelocity, moverSetVelocity, moverAddVelocity, cmd, msg.Value)
}

func (m *VelocityMover) Update(om *ObjectManager) error {
	if _, err := m.Subject.send(Msg("add_position", m.Velocity), om); err != nil {
		return fmt.Errorf("velocity mover: %w", err)
	}
	return m.Subject.update(om)
}

func (m *VelocityMover) Draw(dc *DrawContext) { m.Subject.draw(dc) }

func (m *VelocityMover) Clone() Object {
	return &VelocityMover{Subject: m.Subject.clone(), Velocity: m.Velocity}
}

// AccelerationMover adds its acceleration to the subject's velocity every
// update. The subject is usually a VelocityMover.
type AccelerationMover struct {
	Subject      Subject
	Acceleration Vec2
}

func NewAccelerationMover(subject Subject, acceleration Vec2) *AccelerationMover {
	return &AccelerationMover{Subject: subject, Acceleration: acceleration}
}

func (m *AccelerationMover) SendMessage(msg Message, om *ObjectManager) (Value, error) {
	if v, ok, err := m.Subject.forward(&msg, om); ok {
		return v, err
	}
	cmd := moverCommands[msg.Method]
	return vecOp(&m.Acceleration, moverGetAcceleration, moverSetAcceleration, moverAddAcceleration, cmd, msg.Value)
}

func (m *AccelerationMover) Update(om *ObjectManager) error {
	if _, err := m.Subject.send(Msg("add_velocity", m.Acceleration), om); err != nil {
		return fmt.Errorf("acceleration mover: %w", err)
	}
	return m.Subject.update(om)
}

func (m *AccelerationMover) Draw(dc *DrawContext) { m.Subject.draw(dc) }

func (m *AccelerationMover) Clone() Object {
	return &AccelerationMover{Subject: m.Subject.clone(), Acceleration: m.Acceleration}
}

// VelAccelMover keeps both vectors itself: each update the acceleration is
// added to the velocity, then the velocity to the subject's position.
type VelAccelMover struct {
	Subject      Subject
	Velocity     Vec2
	Acceleration Vec2
}

func NewVelAccelMover(subject Subject, velocity, acceleration Vec2) *VelAccelMover {
	return &VelAccelMover{Subject: subject, Velocity: velocity, Acceleration: acceleration}
}

func (m *VelAccelMover) SendMessage(msg Message, om *ObjectManager) (Value, error) {
	if v, ok, err := m.Subject.forward(&msg, om); ok {
		return v, err
	}
	switch cmd := moverCommands[msg.Method]; cmd {
	case moverGetVelocity, moverSetVelocity, moverAddVelocity:
		return vecOp(&m.Velocity, moverGetVelocity, moverSetVelocity, moverAddVelocity, cmd, msg.Value)
	case moverGetAcceleration, moverSetAcceleration, moverAddAcceleration:
		return vecOp(&m.Acceleration, moverGetAcceleration, moverSetAcceleration, moverAddAcceleration, cmd, msg.Value)
	}
	return None(), nil
}

func (m *VelAccelMover) Update(om *ObjectManager) error {
	m.Velocity = m.Velocity.Add(m.Acceleration)
	if _, err := m.Subject.send(Msg("add_position", m.Velocity), om); err != nil {
		return fmt.Errorf("velocity/acceleration mover: %w", err)
	}
	return m.Subject.update(om)
}

func (m *VelAccelMover) Draw(dc *DrawContext) { m.Subject.draw(dc) }

func (m *VelAccelMover) Clone() Object {
	c := *m
	c.Subject = m.Subject.clone()
	return &c
}

// --- Two-point mover ---

// TwoPointMover interpolates the subject's position between two points.
// Each update advances the interpolation and sends set_position.
//
// The points are addressed as children 0 (start) and 1 (end):
//
//	to_child        Multiple(Int(0|1), Message(get|set|add))
//	to_all_children Message(get|set|add)
type TwoPointMover struct {
	Subject Subject
	Path    *VecInterpolation
}

func NewTwoPointMover(subject Subject, start, end Vec2, speed float64, mode RepeatMode) *TwoPointMover {
	return &TwoPointMover{Subject: subject, Path: NewVecInterpolation(start, end, speed, mode)}
}

func (m *TwoPointMover) point(i int) (*Vec2, error) {
	switch i {
	case 0:
		return &m.Path.Start, nil
	case 1:
		return &m.Path.End, nil
	}
	return nil, fmt.Errorf("%w: two-point mover has no child %d", ErrInvalidCommand, i)
}

func (m *TwoPointMover) SendMessage(msg Message, om *ObjectManager) (Value, error) {
	if msg.HasTags() {
		tag := msg.NextTag()
		msg.PreTag(tag)
		if tag == "start" || tag == "end" {
			return m.Path.SendMessage(msg)
		}
	}
	if v, ok, err := m.Subject.forward(&msg, om); ok {
		return v, err
	}
	switch moverCommands[msg.Method] {
	case moverGetPosition:
		return VecOf(m.Path.Value()), nil
	case moverToChild:
		iv, mv, err := msg.Value.Unpack2()
		if err != nil {
			return None(), err
		}
		i, err := iv.AsInt()
		if err != nil {
			return None(), err
		}
		inner, err := mv.AsMessage()
		if err != nil {
			return None(), err
		}
		p, err := m.point(i)
		if err != nil {
			return None(), err
		}
		return vecField(p, inner)
	case moverToAllChildren:
		inner, err := msg.Value.AsMessage()
		if err != nil {
			return None(), err
		}
		a, err := vecField(&m.Path.Start, inner)
		if err != nil {
			return None(), err
		}
		b, err := vecField(&m.Path.End, inner)
		if err != nil {
			return None(), err
		}
		return Multiple(a, b), nil
	}
	return m.Path.SendMessage(msg)
}

func (m *TwoPointMover) Update(om *ObjectManager) error {
	if _, err := m.Subject.send(Msg("set_position", m.Path.Step()), om); err != nil {
		return fmt.Errorf("two-point mover: %w", err)
	}
	return m.Subject.update(om)
}

func (m *TwoPointMover) Draw(dc *DrawContext) { m.Subject.draw(dc) }

func (m *TwoPointMover) Clone() Object {
	p := *m.Path
	return &TwoPointMover{Subject: m.Subject.clone(), Path: &p}
}

// --- Circular mover ---

// CircularMover moves the subject around Center at Radius. The angle, in
// radians, is itself an interpolation, so the orbit can be partial, repeat or
// mirror.
type CircularMover struct {
	Subject Subject
	Center  Vec2
	Radius  float64
	Angle   *Interpolation
}

// NewCircularMover orbits from angle from to angle to (radians), advancing by
// speed of the full range per update.
func NewCircularMover(subject Subject, center Vec2, radius, from, to, speed float64, mode RepeatMode) *CircularMover {
	return &CircularMover{
		Subject: subject,
		Center:  center,
		Radius:  radius,
		Angle:   NewInterpolation(from, to, speed, mode),
	}
}

// Position returns the point on the circle at the current angle.
func (m *CircularMover) Position() Vec2 {
	off := mgl64.Rotate2D(m.Angle.Value()).Mul2x1(mgl64.Vec2{m.Radius, 0})
	return Vec2{m.Center.X + off.X(), m.Center.Y + off.Y()}
}

func (m *CircularMover) SendMessage(msg Message, om *ObjectManager) (Value, error) {
	if msg.HasTags() {
		tag := msg.NextTag()
		if tag == "angle" {
			return m.Angle.SendMessage(msg)
		}
		msg.PreTag(tag)
	}
	if v, ok, err := m.Subject.forward(&msg, om); ok {
		return v, err
	}
	switch cmd := moverCommands[msg.Method]; cmd {
	case moverGetPosition:
		return VecOf(m.Position()), nil
	case moverGetCenter, moverSetCenter:
		return vecOp(&m.Center, moverGetCenter, moverSetCenter, moverUnknown, cmd, msg.Value)
	case moverGetRadius:
		return Float64(m.Radius), nil
	case moverSetRadius:
		r, err := msg.Value.Number()
		if err != nil {
			return None(), err
		}
		m.Radius = r
		return None(), nil
	case moverGetAngle:
		return Float64(m.Angle.Value()), nil
	}
	v, _, err := m.Angle.handle(msg)
	return v, err
}

func (m *CircularMover) Update(om *ObjectManager) error {
	m.Angle.Advance()
	if _, err := m.Subject.send(Msg("set_position", m.Position()), om); err != nil {
		return fmt.Errorf("circular mover: %w", err)
	}
	return m.Subject.update(om)
}

func (m *CircularMover) Draw(dc *DrawContext) { m.Subject.draw(dc) }

func (m *CircularMover) Clone() Object {
	a := *m.Angle
	c := *m
	c.Subject = m.Subject.clone()
	c.Angle = &a
	return &c
}
