package ecs

import (
	"github.com/phanxgames/greenmoon"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ObjectEventType is the Donburi event type for greenmoon object events.
var ObjectEventType = events.NewEventType[greenmoon.ObjectEvent]()

// ObjectName tags the entity mirroring a named greenmoon object.
var ObjectName = donburi.NewComponentType[string]()

// DonburiSink forwards object events into a Donburi world.
type DonburiSink struct {
	world    donburi.World
	entities map[string]donburi.Entity
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on ObjectEventType and delivered by ProcessEvents.
func NewDonburiSink(world donburi.World) *DonburiSink {
	return &DonburiSink{world: world, entities: make(map[string]donburi.Entity)}
}

// EmitEvent publishes the event and keeps the mirrored entities in step.
func (s *DonburiSink) EmitEvent(event greenmoon.ObjectEvent) {
	switch event.Type {
	case greenmoon.ObjectAdded:
		e := s.world.Create(ObjectName)
		ObjectName.SetValue(s.world.Entry(e), event.Name)
		s.entities[event.Name] = e
	case greenmoon.ObjectRemoved:
		if e, ok := s.entities[event.Name]; ok {
			s.world.Remove(e)
			delete(s.entities, event.Name)
		}
	}
	ObjectEventType.Publish(s.world, event)
}

// Entity returns the entity mirroring the named object.
func (s *DonburiSink) Entity(name string) (donburi.Entity, bool) {
	e, ok := s.entities[name]
	return e, ok
}
