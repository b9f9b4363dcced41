package greenmoon

import (
	"fmt"

	"github.com/google/uuid"
)

type factoryCommand uint8

const (
	factoryUnknown factoryCommand = iota
	factorySpawn
	factorySetTemplate
	factorySpawned
)

var factoryCommands = map[string]factoryCommand{
	"spawn":        factorySpawn,
	"set_template": factorySetTemplate,
	"spawned":      factorySpawned,
}

// ObjectFactory spawns clones of a template object into the manager it
// lives in.
//
// spawn accepts None, a name, a position, or Multiple(name, position). Without
// a name the clone is called Prefix + "-" + a random UUID. A position is
// delivered to the clone as a set_position initialize message. The spawned
// name is returned.
type ObjectFactory struct {
	Template Object
	Prefix   string
	Visible  bool
	Options  []ObjectOption

	spawned int
}

// NewObjectFactory creates a factory for drawable clones of template.
func NewObjectFactory(template Object, prefix string, opts ...ObjectOption) *ObjectFactory {
	return &ObjectFactory{Template: template, Prefix: prefix, Visible: true, Options: opts}
}

// Spawn clones the template under name (generated when empty) and adds it to
// om. The add is deferred when om is mid-update.
func (f *ObjectFactory) Spawn(om *ObjectManager, name string, pos *Vec2) (string, error) {
	if f.Template == nil {
		return "", fmt.Errorf("%w: factory has no template", ErrInvalidCommand)
	}
	if name == "" {
		name = f.Prefix + "-" + uuid.NewString()
	}
	cmd := AddObjectCommand{Name: name, Object: f.Template.Clone(), Visible: f.Visible, Options: f.Options}
	if err := om.Post(cmd); err != nil {
		return "", err
	}
	if pos != nil {
		om.InitializeObject(name, Msg("set_position", *pos))
	}
	f.spawned++
	return name, nil
}

func (f *ObjectFactory) SendMessage(msg Message, om *ObjectManager) (Value, error) {
	if msg.HasTags() {
		return None(), nil
	}
	switch factoryCommands[msg.Method] {
	case factorySpawn:
		name, pos, err := spawnArgs(msg.Value)
		if err != nil {
			return None(), err
		}
		name, err = f.Spawn(om, name, pos)
		if err != nil {
			return None(), err
		}
		return String(name), nil
	case factorySetTemplate:
		obj, err := msg.Value.AsObject()
		if err != nil {
			return None(), err
		}
		f.Template = obj
	case factorySpawned:
		return Int(f.spawned), nil
	}
	return None(), nil
}

func spawnArgs(v Value) (name string, pos *Vec2, err error) {
	switch v.Kind() {
	case KindNone:
		return "", nil, nil
	case KindString:
		name, err = v.AsString()
		return name, nil, err
	case KindVec2:
		p, err := v.AsVec2()
		return "", &p, err
	}
	nv, pv, err := v.Unpack2()
	if err != nil {
		return "", nil, err
	}
	if name, err = nv.AsString(); err != nil {
		return "", nil, err
	}
	p, err := pv.AsVec2()
	if err != nil {
		return "", nil, err
	}
	return name, &p, nil
}

func (f *ObjectFactory) Update(*ObjectManager) error { return nil }

func (f *ObjectFactory) Draw(*DrawContext) {}

func (f *ObjectFactory) Clone() Object {
	c := *f
	if f.Template != nil {
		c.Template = f.Template.Clone()
	}
	c.Options = append([]ObjectOption(nil), f.Options...)
	c.spawned = 0
	return &c
}
