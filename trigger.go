package greenmoon

import (
	"fmt"

	"go.uber.org/multierr"
)

// Action is one (target, message) pair fired by a Trigger.
type Action struct {
	Target  Target
	Message Message
}

type triggerCommand uint8

const (
	triggerUnknown triggerCommand = iota
	triggerFire
	triggerReset
	triggerIsArmed
	triggerAddAction
	triggerCount
)

var triggerCommands = map[string]triggerCommand{
	"trigger":    triggerFire,
	"reset":      triggerReset,
	"is_armed":   triggerIsArmed,
	"add_action": triggerAddAction,
	"count":      triggerCount,
}

// Trigger sends its actions, in order, when it receives "trigger". A
// once-only trigger disarms after firing until it is reset.
type Trigger struct {
	actions []Action
	once    bool
	armed   bool
}

// NewTrigger creates an armed trigger.
func NewTrigger(once bool, actions ...Action) *Trigger {
	return &Trigger{actions: actions, once: once, armed: true}
}

// Fire sends every action and returns their results as a Multiple. A
// disarmed trigger returns None.
func (t *Trigger) Fire(om *ObjectManager) (Value, error) {
	if !t.armed {
		return None(), nil
	}
	if t.once {
		t.armed = false
	}
	var errs error
	results := make([]Value, 0, len(t.actions))
	for _, a := range t.actions {
		v, err := om.SendMessage(a.Target, a.Message)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("trigger action %s: %w", a.Target, err))
		}
		results = append(results, v)
	}
	return Multiple(results...), errs
}

func (t *Trigger) SendMessage(msg Message, om *ObjectManager) (Value, error) {
	if msg.HasTags() {
		return None(), nil
	}
	switch triggerCommands[msg.Method] {
	case triggerFire:
		return t.Fire(om)
	case triggerReset:
		t.armed = true
	case triggerIsArmed:
		return Bool(t.armed), nil
	case triggerCount:
		return Int(len(t.actions)), nil
	case triggerAddAction:
		tv, mv, err := msg.Value.Unpack2()
		if err != nil {
			return None(), err
		}
		target, err := tv.AsTarget()
		if err != nil {
			return None(), err
		}
		m, err := mv.AsMessage()
		if err != nil {
			return None(), err
		}
		t.actions = append(t.actions, Action{Target: target, Message: m})
	}
	return None(), nil
}

func (t *Trigger) Update(*ObjectManager) error { return nil }

func (t *Trigger) Draw(*DrawContext) {}

func (t *Trigger) Clone() Object {
	return &Trigger{actions: append([]Action(nil), t.actions...), once: t.once, armed: t.armed}
}
