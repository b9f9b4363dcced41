package greenmoon

import (
	"errors"
	"testing"
	"time"
)

var errRecorder = errors.New("recorder failure")

// recorder is a test object that keeps a position, records the messages it
// receives and appends its name to a shared log on every update and draw.
type recorder struct {
	name     string
	pos      Vec2
	got      []Message
	updates  int
	draws    int
	log      *[]string
	onUpdate func(om *ObjectManager) error
}

func newRecorder(name string, log *[]string) *recorder {
	return &recorder{name: name, log: log}
}

func (r *recorder) SendMessage(msg Message, _ *ObjectManager) (Value, error) {
	r.got = append(r.got, msg)
	switch msg.Method {
	case "get_position":
		return VecOf(r.pos), nil
	case "set_position":
		p, err := msg.Value.AsVec2()
		if err != nil {
			return None(), err
		}
		r.pos = p
	case "add_position":
		p, err := msg.Value.AsVec2()
		if err != nil {
			return None(), err
		}
		r.pos = r.pos.Add(p)
	case "echo":
		return msg.Value, nil
	case "name":
		return String(r.name), nil
	case "fail":
		return None(), errRecorder
	}
	return None(), nil
}

func (r *recorder) Update(om *ObjectManager) error {
	r.updates++
	if r.log != nil {
		*r.log = append(*r.log, r.name)
	}
	if r.onUpdate != nil {
		return r.onUpdate(om)
	}
	return nil
}

func (r *recorder) Draw(*DrawContext) {
	r.draws++
	if r.log != nil {
		*r.log = append(*r.log, "draw:"+r.name)
	}
}

func (r *recorder) Clone() Object {
	c := *r
	c.got = nil
	return &c
}

// methods returns the method names of every received message.
func (r *recorder) methods() []string {
	out := make([]string, len(r.got))
	for i, m := range r.got {
		out[i] = m.Method
	}
	return out
}

// quarter is an exactly representable frame delta for timer tests.
const quarter = 250 * time.Millisecond

// step runs n update passes with the given delta.
func step(t *testing.T, om *ObjectManager, n int, delta time.Duration) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := om.Update(FrameContext{Frame: om.Frame() + 1, Delta: delta}); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
}

func mustSend(t *testing.T, om *ObjectManager, target Target, msg Message) Value {
	t.Helper()
	v, err := om.SendMessage(target, msg)
	if err != nil {
		t.Fatalf("SendMessage(%s, %s): %v", target, msg, err)
	}
	return v
}

func float(t *testing.T, v Value) float64 {
	t.Helper()
	f, err := v.Number()
	if err != nil {
		t.Fatalf("Number(%v): %v", v, err)
	}
	return f
}

func vec(t *testing.T, v Value) Vec2 {
	t.Helper()
	p, err := v.AsVec2()
	if err != nil {
		t.Fatalf("AsVec2(%v): %v", v, err)
	}
	return p
}
