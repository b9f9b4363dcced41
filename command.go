package greenmoon

import (
	"fmt"
)

// Command is a structural mutation of an ObjectManager. Commands posted
// during an update pass are queued and applied, in order, after every
// object has been updated.
type Command interface {
	Apply(om *ObjectManager) error
}

// AddObjectCommand adds (or replaces) an object.
type AddObjectCommand struct {
	Name    string
	Object  Object
	Visible bool
	Options []ObjectOption
}

func (c AddObjectCommand) Apply(om *ObjectManager) error {
	om.insert(c.Name, newObjectInfo(c.Object, c.Visible, c.Options))
	return nil
}

// RemoveObjectCommand removes an object. Removing an absent name yields a
// *NotFoundError, which the deferred queue treats as a no-op.
type RemoveObjectCommand struct {
	Name string
}

func (c RemoveObjectCommand) Apply(om *ObjectManager) error {
	return om.remove(c.Name)
}

// ReplaceObjectCommand swaps the object stored under a name, keeping its
// flags, indices, groups and state.
type ReplaceObjectCommand struct {
	Name   string
	Object Object
}

func (c ReplaceObjectCommand) Apply(om *ObjectManager) error {
	return om.replace(c.Name, c.Object)
}

// SetActiveCommand toggles participation in update passes.
type SetActiveCommand struct {
	Name   string
	Active bool
}

func (c SetActiveCommand) Apply(om *ObjectManager) error {
	return om.SetActive(c.Name, c.Active)
}

// SetVisibleCommand toggles participation in draw passes.
type SetVisibleCommand struct {
	Name    string
	Visible bool
}

func (c SetVisibleCommand) Apply(om *ObjectManager) error {
	return om.SetVisible(c.Name, c.Visible)
}

// SetUpdateIndexCommand changes an update sort key.
type SetUpdateIndexCommand struct {
	Name  string
	Index int
}

func (c SetUpdateIndexCommand) Apply(om *ObjectManager) error {
	return om.SetUpdateIndex(c.Name, c.Index)
}

// SetDrawIndexCommand changes a draw sort key.
type SetDrawIndexCommand struct {
	Name  string
	Index int
}

func (c SetDrawIndexCommand) Apply(om *ObjectManager) error {
	return om.SetDrawIndex(c.Name, c.Index)
}

// GroupCommand adds an object to, or removes it from, a group.
type GroupCommand struct {
	Name  string
	Group string
	Join  bool
}

func (c GroupCommand) Apply(om *ObjectManager) error {
	if c.Join {
		return om.AddToGroup(c.Name, c.Group)
	}
	return om.RemoveFromGroup(c.Name, c.Group)
}

// SetStatePropertyCommand writes the state side channel of an object.
type SetStatePropertyCommand struct {
	Name  string
	Key   string
	Value Value
}

func (c SetStatePropertyCommand) Apply(om *ObjectManager) error {
	return om.SetStateProperty(c.Name, c.Key, c.Value)
}

// ClearCommand removes every object.
type ClearCommand struct{}

func (ClearCommand) Apply(om *ObjectManager) error {
	om.clear()
	return nil
}

// decodeCommand turns a manager-directed message into a Command. Unknown
// methods decode to a nil Command and no error.
func decodeCommand(msg Message) (Command, error) {
	switch msg.Method {
	case "add_object", "add_normal_object":
		return decodeAdd(msg.Value, false)
	case "add_draw_object":
		return decodeAdd(msg.Value, true)
	case "remove_object":
		name, err := msg.Value.AsString()
		if err != nil {
			return nil, commandError(msg, err)
		}
		return RemoveObjectCommand{Name: name}, nil
	case "replace_object":
		nv, ov, err := msg.Value.Unpack2()
		if err != nil {
			return nil, commandError(msg, err)
		}
		name, err := nv.AsString()
		if err != nil {
			return nil, commandError(msg, err)
		}
		obj, err := ov.AsObject()
		if err != nil {
			return nil, commandError(msg, err)
		}
		return ReplaceObjectCommand{Name: name, Object: obj}, nil
	case "set_active", "set_visible":
		name, flag, err := nameAnd(msg.Value, Value.AsBool)
		if err != nil {
			return nil, commandError(msg, err)
		}
		if msg.Method == "set_active" {
			return SetActiveCommand{Name: name, Active: flag}, nil
		}
		return SetVisibleCommand{Name: name, Visible: flag}, nil
	case "set_update_index", "set_draw_index":
		name, index, err := nameAnd(msg.Value, Value.AsInt)
		if err != nil {
			return nil, commandError(msg, err)
		}
		if msg.Method == "set_update_index" {
			return SetUpdateIndexCommand{Name: name, Index: index}, nil
		}
		return SetDrawIndexCommand{Name: name, Index: index}, nil
	case "add_to_group", "remove_from_group":
		name, group, err := nameAnd(msg.Value, Value.AsString)
		if err != nil {
			return nil, commandError(msg, err)
		}
		return GroupCommand{Name: name, Group: group, Join: msg.Method == "add_to_group"}, nil
	case "set_state_property":
		nv, kv, v, err := msg.Value.Unpack3()
		if err != nil {
			return nil, commandError(msg, err)
		}
		name, err := nv.AsString()
		if err != nil {
			return nil, commandError(msg, err)
		}
		key, err := kv.AsString()
		if err != nil {
			return nil, commandError(msg, err)
		}
		return SetStatePropertyCommand{Name: name, Key: key, Value: v}, nil
	case "clear":
		return ClearCommand{}, nil
	}
	return nil, nil
}

// decodeAdd reads Multiple(name, object[, update_index[, draw_index[, groups]]]).
func decodeAdd(v Value, visible bool) (Command, error) {
	vs, err := v.AsMultiple()
	if err != nil {
		return nil, err
	}
	if len(vs) < 2 {
		return nil, fmt.Errorf("%w: add needs a name and an object", ErrInvalidCommand)
	}
	name, err := vs[0].AsString()
	if err != nil {
		return nil, err
	}
	obj, err := vs[1].AsObject()
	if err != nil {
		return nil, err
	}
	cmd := AddObjectCommand{Name: name, Object: obj, Visible: visible}
	if len(vs) > 2 {
		idx, err := vs[2].AsInt()
		if err != nil {
			return nil, err
		}
		cmd.Options = append(cmd.Options, WithUpdateIndex(idx))
	}
	if len(vs) > 3 {
		idx, err := vs[3].AsInt()
		if err != nil {
			return nil, err
		}
		cmd.Options = append(cmd.Options, WithDrawIndex(idx))
	}
	if len(vs) > 4 {
		groups, err := stringsOf(vs[4])
		if err != nil {
			return nil, err
		}
		cmd.Options = append(cmd.Options, WithGroups(groups...))
	}
	return cmd, nil
}

func nameAnd[T any](v Value, get func(Value) (T, error)) (string, T, error) {
	var zero T
	nv, tv, err := v.Unpack2()
	if err != nil {
		return "", zero, err
	}
	name, err := nv.AsString()
	if err != nil {
		return "", zero, err
	}
	t, err := get(tv)
	if err != nil {
		return "", zero, err
	}
	return name, t, nil
}

// stringsOf accepts a String or a Multiple of Strings.
func stringsOf(v Value) ([]string, error) {
	if s, err := v.AsString(); err == nil {
		return []string{s}, nil
	}
	vs, err := v.AsMultiple()
	if err != nil {
		return nil, err
	}
	out := make([]string, len(vs))
	for i, e := range vs {
		if out[i], err = e.AsString(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func commandError(msg Message, err error) error {
	return fmt.Errorf("manager command %q: %w", msg.Method, err)
}
