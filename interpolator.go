package greenmoon

import "fmt"

// ScalarInterpolator advances an Interpolation every update and hands the
// new value to its callback.
//
// Besides the progress methods (get_value, is_finished, restart, get_speed,
// set_speed, set_repeat, set_ease) it accepts set_callback with a Func
// payload, and the tag path "interpolation.start|end" with get/set/add.
type ScalarInterpolator struct {
	Interpolation *Interpolation
	Callback      Func
}

// NewScalarInterpolator creates an interpolator. callback may be nil.
func NewScalarInterpolator(start, end, speed float64, mode RepeatMode, callback Func) *ScalarInterpolator {
	return &ScalarInterpolator{Interpolation: NewInterpolation(start, end, speed, mode), Callback: callback}
}

func (s *ScalarInterpolator) SendMessage(msg Message, _ *ObjectManager) (Value, error) {
	switch tag := msg.NextTag(); tag {
	case "":
	case "interpolation":
		return s.Interpolation.SendMessage(msg)
	default:
		return None(), nil
	}
	if msg.Method == "set_callback" {
		fn, err := PayloadAs[Func](msg.Value)
		if err != nil {
			return None(), err
		}
		s.Callback = fn
		return None(), nil
	}
	return s.Interpolation.SendMessage(msg)
}

func (s *ScalarInterpolator) Update(om *ObjectManager) error {
	v := s.Interpolation.Step()
	if s.Callback == nil {
		return nil
	}
	if err := s.Callback(Float64(v), om); err != nil {
		return fmt.Errorf("interpolator callback: %w", err)
	}
	return nil
}

func (s *ScalarInterpolator) Draw(*DrawContext) {}

func (s *ScalarInterpolator) Clone() Object {
	in := *s.Interpolation
	return &ScalarInterpolator{Interpolation: &in, Callback: s.Callback}
}

// VectorInterpolator is the Vec2 counterpart of ScalarInterpolator. Its tag
// path also accepts a component: "interpolation.end.x".
type VectorInterpolator struct {
	Interpolation *VecInterpolation
	Callback      Func
}

// NewVectorInterpolator creates an interpolator. callback may be nil.
func NewVectorInterpolator(start, end Vec2, speed float64, mode RepeatMode, callback Func) *VectorInterpolator {
	return &VectorInterpolator{Interpolation: NewVecInterpolation(start, end, speed, mode), Callback: callback}
}

func (s *VectorInterpolator) SendMessage(msg Message, _ *ObjectManager) (Value, error) {
	switch tag := msg.NextTag(); tag {
	case "":
	case "interpolation":
		return s.Interpolation.SendMessage(msg)
	default:
		return None(), nil
	}
	if msg.Method == "set_callback" {
		fn, err := PayloadAs[Func](msg.Value)
		if err != nil {
			return None(), err
		}
		s.Callback = fn
		return None(), nil
	}
	return s.Interpolation.SendMessage(msg)
}

func (s *VectorInterpolator) Update(om *ObjectManager) error {
	v := s.Interpolation.Step()
	if s.Callback == nil {
		return nil
	}
	if err := s.Callback(VecOf(v), om); err != nil {
		return fmt.Errorf("interpolator callback: %w", err)
	}
	return nil
}

func (s *VectorInterpolator) Draw(*DrawContext) {}

func (s *VectorInterpolator) Clone() Object {
	in := *s.Interpolation
	return &VectorInterpolator{Interpolation: &in, Callback: s.Callback}
}

// SendTo returns a callback that forwards each interpolated value to target
// as msg's payload, e.g. SendTo(To("ship"), "set_position").
func SendTo(target Target, method string) Func {
	return func(v Value, om *ObjectManager) error {
		_, err := om.SendMessage(target, NewMessage(method, v))
		return err
	}
}
