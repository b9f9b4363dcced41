package greenmoon

import (
	"maps"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Object is the capability every managed entity implements.
//
// SendMessage is the only generic extension point: behavior is added by
// handling new (tag, method, value) combinations, not by growing this
// interface. An object returns (None, nil) for tags and methods it does not
// know, and a *TypeMismatchError when a known method gets a payload of the
// wrong shape.
//
// Objects never hold pointers to sibling objects. They refer to them by name
// through a Target and reach them through the ObjectManager passed in.
type Object interface {
	SendMessage(msg Message, om *ObjectManager) (Value, error)
	Update(om *ObjectManager) error
	Draw(dc *DrawContext)
	Clone() Object
}

// DrawContext is handed to Object.Draw once per visible object per frame.
type DrawContext struct {
	// Screen is the render target. It is nil when drawing headless.
	Screen *ebiten.Image
	// Frame is the number of completed update passes.
	Frame uint64
}

// FrameContext describes the frame an update pass belongs to.
type FrameContext struct {
	Frame uint64
	Delta time.Duration
}

// ObjectInfo is the manager-side record wrapping an Object. Active and
// Visible are the manager's own filters and are distinct from any flag an
// object keeps internally.
type ObjectInfo struct {
	Object      Object
	Active      bool
	Visible     bool
	DrawIndex   int
	UpdateIndex int

	groups map[string]struct{}
	state  map[string]Value
}

func newObjectInfo(obj Object, visible bool, opts []ObjectOption) *ObjectInfo {
	info := &ObjectInfo{
		Object:  obj,
		Active:  true,
		Visible: visible,
		groups:  make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(info)
	}
	return info
}

// Groups returns the object's group names in sorted order.
func (i *ObjectInfo) Groups() []string {
	return slices.Sorted(maps.Keys(i.groups))
}

// InGroup reports whether the object is a member of group.
func (i *ObjectInfo) InGroup(group string) bool {
	_, ok := i.groups[group]
	return ok
}

func (i *ObjectInfo) clone() *ObjectInfo {
	c := *i
	c.Object = i.Object.Clone()
	c.groups = maps.Clone(i.groups)
	c.state = maps.Clone(i.state)
	if c.groups == nil {
		c.groups = make(map[string]struct{})
	}
	return &c
}

// ObjectOption configures the ObjectInfo created when an object is added.
type ObjectOption func(*ObjectInfo)

// WithUpdateIndex sets the update sort key (default 0).
func WithUpdateIndex(index int) ObjectOption {
	return func(i *ObjectInfo) { i.UpdateIndex = index }
}

// WithDrawIndex sets the draw sort key (default 0).
func WithDrawIndex(index int) ObjectOption {
	return func(i *ObjectInfo) { i.DrawIndex = index }
}

// WithGroups adds the object to the given groups.
func WithGroups(groups ...string) ObjectOption {
	return func(i *ObjectInfo) {
		for _, g := range groups {
			i.groups[g] = struct{}{}
		}
	}
}

// Inactive adds the object without it taking part in update passes.
func Inactive() ObjectOption {
	return func(i *ObjectInfo) { i.Active = false }
}

// Hidden adds the object without it taking part in draw passes.
func Hidden() ObjectOption {
	return func(i *ObjectInfo) { i.Visible = false }
}
