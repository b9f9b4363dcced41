package greenmoon

import (
	"slices"
	"strings"
)

// Message is a routed request: a tag path consumed one segment at a time by
// nested containers, a method name and a payload.
type Message struct {
	tags   []string
	Method string
	Value  Value
}

// NewMessage builds an untagged message.
func NewMessage(method string, v Value) Message {
	return Message{Method: method, Value: v}
}

// Msg builds a message from native arguments: no argument yields None, one
// argument is converted with ValueOf, several become a Multiple.
func Msg(method string, args ...any) Message {
	switch len(args) {
	case 0:
		return Message{Method: method}
	case 1:
		return Message{Method: method, Value: ValueOf(args[0])}
	default:
		return Message{Method: method, Value: Tuple(args...)}
	}
}

// TaggedMessage builds a message whose tag path is given in dotted form,
// e.g. "interpolation.start.x".
func TaggedMessage(path, method string, v Value) Message {
	return Message{tags: splitTags(path), Method: method, Value: v}
}

func splitTags(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// WithTags returns a copy of m with tags appended to its path.
func (m Message) WithTags(tags ...string) Message {
	m.tags = append(slices.Clip(m.tags), tags...)
	return m
}

// NextTag pops and returns the first unconsumed tag, or "" when the path is
// exhausted.
func (m *Message) NextTag() string {
	if len(m.tags) == 0 {
		return ""
	}
	t := m.tags[0]
	m.tags = m.tags[1:]
	return t
}

// PreTag puts tag back at the front of the path.
func (m *Message) PreTag(tag string) {
	m.tags = append([]string{tag}, m.tags...)
}

// Tags returns the unconsumed tag path.
func (m Message) Tags() []string { return slices.Clone(m.tags) }

// HasTags reports whether any tag is left to consume.
func (m Message) HasTags() bool { return len(m.tags) > 0 }

func (m Message) String() string {
	var b strings.Builder
	if len(m.tags) > 0 {
		b.WriteString(strings.Join(m.tags, "."))
		b.WriteByte(':')
	}
	b.WriteString(m.Method)
	if !m.Value.IsNone() {
		b.WriteByte('(')
		b.WriteString(m.Value.String())
		b.WriteByte(')')
	}
	return b.String()
}
