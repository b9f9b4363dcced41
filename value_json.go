package greenmoon

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

// JSON forms, used by the script runner and the remote console:
//
//	None                 null
//	Bool, numbers        true, 3, 2.5
//	String               "text"
//	Vec2                 {"x": 1, "y": 2}
//	Size                 {"width": 1, "height": 2}
//	Flip                 {"h": true, "v": false}
//	Repeat               {"repeat": "mirror"}
//	Align                {"align": "center"}
//	Custom0/1/N          {"tag": "name", "args": [...]}
//	Multiple             [...]
//	Target               {"target": <target>}
//	Message              {"method": "m", "tags": ["a"], "value": ...}
//
// Objects and Any payloads encode as {"object": "<type>"} and
// {"any": "<payload name>"} and cannot be decoded.

// MarshalJSON encodes v in the form listed above.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.jsonTree())
}

func (v Value) jsonTree() any {
	switch v.kind {
	case KindNone:
		return nil
	case KindVec2:
		p := v.data.(Vec2)
		return map[string]any{"x": p.X, "y": p.Y}
	case KindSize:
		s := v.data.(Size)
		return map[string]any{"width": s.W, "height": s.H}
	case KindFlip:
		f := v.data.(Flip)
		return map[string]any{"h": f.H, "v": f.V}
	case KindRepeat:
		return map[string]any{"repeat": v.data.(RepeatMode).String()}
	case KindAlign:
		return map[string]any{"align": v.data.(Alignment).String()}
	case KindCustom0, KindCustom1, KindCustomN:
		c := v.data.(CustomValue)
		out := map[string]any{"tag": c.Name}
		if len(c.Args) > 0 {
			out["args"] = valuesTree(c.Args)
		}
		return out
	case KindMultiple:
		return valuesTree(v.data.([]Value))
	case KindTarget:
		return map[string]any{"target": v.data.(Target).jsonTree()}
	case KindMessage:
		return v.data.(Message).jsonTree()
	case KindObject:
		return map[string]any{"object": fmt.Sprintf("%T", v.data)}
	case KindAny:
		return map[string]any{"any": v.data.(Payload).PayloadName()}
	default:
		return v.data
	}
}

func valuesTree(vs []Value) []any {
	out := make([]any, len(vs))
	for i, e := range vs {
		out[i] = e.jsonTree()
	}
	return out
}

// ValueFromJSON decodes the JSON forms listed above. Integral numbers
// become Int64, other numbers Float64.
func ValueFromJSON(r gjson.Result) (Value, error) {
	switch r.Type {
	case gjson.Null:
		return None(), nil
	case gjson.True, gjson.False:
		return Bool(r.Bool()), nil
	case gjson.Number:
		if strings.ContainsAny(r.Raw, ".eE") {
			return Float64(r.Float()), nil
		}
		return Int64(r.Int()), nil
	case gjson.String:
		return String(r.String()), nil
	}

	if r.IsArray() {
		elems := r.Array()
		vs := make([]Value, len(elems))
		for i, e := range elems {
			v, err := ValueFromJSON(e)
			if err != nil {
				return None(), fmt.Errorf("[%d]: %w", i, err)
			}
			vs[i] = v
		}
		return Value{KindMultiple, vs}, nil
	}
	if !r.IsObject() {
		return None(), fmt.Errorf("greenmoon: cannot decode JSON %s", r.Raw)
	}

	switch {
	case r.Get("x").Exists() && r.Get("y").Exists():
		return Vec(r.Get("x").Float(), r.Get("y").Float()), nil
	case r.Get("width").Exists() && r.Get("height").Exists():
		return SizeOf(Size{r.Get("width").Float(), r.Get("height").Float()}), nil
	case r.Get("h").Exists() || r.Get("v").Exists():
		return FlipOf(Flip{H: r.Get("h").Bool(), V: r.Get("v").Bool()}), nil
	case r.Get("repeat").Exists():
		m, ok := ParseRepeatMode(r.Get("repeat").String())
		if !ok {
			return None(), fmt.Errorf("greenmoon: unknown repeat mode %s", r.Get("repeat").Raw)
		}
		return RepeatOf(m), nil
	case r.Get("align").Exists():
		a, ok := ParseAlignment(r.Get("align").String())
		if !ok {
			return None(), fmt.Errorf("greenmoon: unknown alignment %s", r.Get("align").Raw)
		}
		return AlignOf(a), nil
	case r.Get("tag").Exists():
		args, err := ValueFromJSON(r.Get("args"))
		if err != nil {
			return None(), fmt.Errorf("tag %s: %w", r.Get("tag").Raw, err)
		}
		c := CustomValue{Name: r.Get("tag").String()}
		if args.kind == KindMultiple {
			c.Args = args.data.([]Value)
		} else if !args.IsNone() {
			c.Args = []Value{args}
		}
		return customOf(c), nil
	case r.Get("target").Exists():
		t, err := TargetFromJSON(r.Get("target"))
		if err != nil {
			return None(), err
		}
		return TargetOf(t), nil
	case r.Get("method").Exists():
		m, err := MessageFromJSON(r)
		if err != nil {
			return None(), err
		}
		return MessageOf(m), nil
	}
	return None(), fmt.Errorf("greenmoon: cannot decode JSON object %s", r.Raw)
}

// MarshalJSON encodes t as TargetFromJSON reads it.
func (t Target) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.jsonTree())
}

func (t Target) jsonTree() any {
	switch t.Kind {
	case TargetSingle:
		return t.Name()
	case TargetNames:
		return t.Names
	case TargetGroup:
		return map[string]any{"group": t.Name()}
	case TargetGroups:
		return map[string]any{"groups": t.Names}
	case TargetManager:
		return map[string]any{"manager": true}
	case TargetComposite:
		all := make([]any, len(t.Targets))
		for i, e := range t.Targets {
			all[i] = e.jsonTree()
		}
		return map[string]any{"all": all}
	}
	return nil
}

// TargetFromJSON decodes a target: "name", ["a", "b"], {"group": "g"},
// {"groups": ["g", "h"]}, {"manager": true} or {"all": [<target>...]}.
func TargetFromJSON(r gjson.Result) (Target, error) {
	switch {
	case r.Type == gjson.String:
		return To(r.String()), nil
	case r.IsArray():
		names, err := jsonStrings(r)
		if err != nil {
			return Target{}, err
		}
		return Names(names...), nil
	case r.Get("group").Exists():
		return Group(r.Get("group").String()), nil
	case r.Get("groups").Exists():
		names, err := jsonStrings(r.Get("groups"))
		if err != nil {
			return Target{}, err
		}
		return Groups(names...), nil
	case r.Get("manager").Bool():
		return Manager(), nil
	case r.Get("all").IsArray():
		var ts []Target
		for _, e := range r.Get("all").Array() {
			t, err := TargetFromJSON(e)
			if err != nil {
				return Target{}, err
			}
			ts = append(ts, t)
		}
		return Composite(ts...), nil
	}
	return Target{}, fmt.Errorf("greenmoon: cannot decode target %s", r.Raw)
}

func jsonStrings(r gjson.Result) ([]string, error) {
	if !r.IsArray() {
		return nil, fmt.Errorf("greenmoon: want a string array, got %s", r.Raw)
	}
	var out []string
	for _, e := range r.Array() {
		if e.Type != gjson.String {
			return nil, fmt.Errorf("greenmoon: want a string, got %s", e.Raw)
		}
		out = append(out, e.String())
	}
	return out, nil
}

// MarshalJSON encodes m as MessageFromJSON reads it. Consumed tags are not
// included.
func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.jsonTree())
}

func (m Message) jsonTree() any {
	out := map[string]any{"method": m.Method}
	if len(m.tags) > 0 {
		out["tags"] = m.tags
	}
	if !m.Value.IsNone() {
		out["value"] = m.Value.jsonTree()
	}
	return out
}

// MessageFromJSON reads {"method", "tags", "value"}. tags is either a string
// array or a dotted path.
func MessageFromJSON(r gjson.Result) (Message, error) {
	method := r.Get("method")
	if method.Type != gjson.String || method.String() == "" {
		return Message{}, fmt.Errorf("greenmoon: message without method: %s", r.Raw)
	}
	v, err := ValueFromJSON(r.Get("value"))
	if err != nil {
		return Message{}, fmt.Errorf("message %q value: %w", method.String(), err)
	}
	m := NewMessage(method.String(), v)
	switch tags := r.Get("tags"); {
	case tags.Type == gjson.String:
		m.tags = splitTags(tags.String())
	case tags.IsArray():
		names, err := jsonStrings(tags)
		if err != nil {
			return Message{}, err
		}
		m.tags = names
	}
	return m, nil
}
