package greenmoon

// ObjectGroup is an object that owns its own ObjectManager. It updates and
// draws its children as part of its own update and draw.
//
// A message whose first tag names a child is forwarded to that child with the
// rest of the tag path. An untagged message is handled as if sent to the
// sub-manager itself: add_object, remove_object, count, names and the other
// manager methods.
type ObjectGroup struct {
	objects *ObjectManager
}

// NewObjectGroup creates an empty group.
func NewObjectGroup() *ObjectGroup {
	return &ObjectGroup{objects: NewObjectManager()}
}

// Objects returns the group's sub-manager.
func (g *ObjectGroup) Objects() *ObjectManager { return g.objects }

func (g *ObjectGroup) SendMessage(msg Message, om *ObjectManager) (Value, error) {
	g.inherit(om)
	if tag := msg.NextTag(); tag != "" {
		if !g.objects.Has(tag) {
			return None(), nil
		}
		return g.objects.SendMessageObject(tag, msg)
	}
	return g.objects.sendManager(msg)
}

// Update runs one pass of the sub-manager with the parent's frame.
func (g *ObjectGroup) Update(om *ObjectManager) error {
	g.inherit(om)
	return g.objects.Update(om.frame)
}

func (g *ObjectGroup) Draw(dc *DrawContext) { g.objects.Draw(dc) }

func (g *ObjectGroup) Clone() Object {
	return &ObjectGroup{objects: g.objects.Clone()}
}

// inherit hands the parent's scene host and debug mode to the sub-manager.
func (g *ObjectGroup) inherit(om *ObjectManager) {
	if om == nil {
		return
	}
	g.objects.host = om.host
	g.objects.debug = om.debug
}
