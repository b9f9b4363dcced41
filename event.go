package greenmoon

// ObjectEventType identifies a change to an ObjectManager's object set.
type ObjectEventType uint8

const (
	ObjectAdded    ObjectEventType = iota // a new name was inserted
	ObjectRemoved                         // a name was removed (or cleared)
	ObjectReplaced                        // an existing name got a new object
)

func (t ObjectEventType) String() string {
	switch t {
	case ObjectAdded:
		return "added"
	case ObjectRemoved:
		return "removed"
	case ObjectReplaced:
		return "replaced"
	}
	return "unknown"
}

// ObjectEvent describes one change to the object set.
type ObjectEvent struct {
	Type  ObjectEventType
	Name  string
	Frame uint64
}

// EventSink is the interface for optional ECS integration. When set on an
// ObjectManager, every add, remove and replace is forwarded to it.
type EventSink interface {
	EmitEvent(event ObjectEvent)
}

func (om *ObjectManager) emit(t ObjectEventType, name string) {
	if om.sink == nil {
		return
	}
	om.sink.EmitEvent(ObjectEvent{Type: t, Name: name, Frame: om.frame.Frame})
}
