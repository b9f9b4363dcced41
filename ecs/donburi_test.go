package ecs

import (
	"testing"

	"github.com/phanxgames/greenmoon"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

var _ greenmoon.EventSink = (*DonburiSink)(nil)

type nop struct{}

func (nop) SendMessage(greenmoon.Message, *greenmoon.ObjectManager) (greenmoon.Value, error) {
	return greenmoon.None(), nil
}
func (nop) Update(*greenmoon.ObjectManager) error { return nil }
func (nop) Draw(*greenmoon.DrawContext)           {}
func (nop) Clone() greenmoon.Object               { return nop{} }

func TestDonburiSink_EmitEvent(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var received []greenmoon.ObjectEvent
	ObjectEventType.Subscribe(world, func(w donburi.World, e greenmoon.ObjectEvent) {
		received = append(received, e)
	})

	sink.EmitEvent(greenmoon.ObjectEvent{Type: greenmoon.ObjectAdded, Name: "hero", Frame: 3})
	sink.EmitEvent(greenmoon.ObjectEvent{Type: greenmoon.ObjectReplaced, Name: "hero", Frame: 4})

	// Events are queued until processed.
	if len(received) != 0 {
		t.Fatalf("received %d events before processing", len(received))
	}
	ObjectEventType.ProcessEvents(world)

	if len(received) != 2 {
		t.Fatalf("expected 2 events, got %d", len(received))
	}
	if e := received[0]; e.Type != greenmoon.ObjectAdded || e.Name != "hero" || e.Frame != 3 {
		t.Errorf("event 0: %+v", e)
	}
	if e := received[1]; e.Type != greenmoon.ObjectReplaced {
		t.Errorf("event 1: %+v", e)
	}
}

func TestDonburiSink_MirrorsObjects(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)
	om := greenmoon.NewObjectManager()
	om.SetEventSink(sink)

	om.AddNormalObject("a", nop{})
	om.AddNormalObject("b", nop{})
	if world.Len() != 2 {
		t.Fatalf("world has %d entities, want 2", world.Len())
	}
	e, ok := sink.Entity("a")
	if !ok {
		t.Fatal("no entity for a")
	}
	if got := *ObjectName.Get(world.Entry(e)); got != "a" {
		t.Errorf("ObjectName = %q, want a", got)
	}

	if err := om.RemoveObject("a"); err != nil {
		t.Fatal(err)
	}
	if world.Valid(e) {
		t.Error("entity for a should be removed")
	}
	if _, ok := sink.Entity("a"); ok {
		t.Error("sink still maps a")
	}
	if world.Len() != 1 {
		t.Errorf("world has %d entities, want 1", world.Len())
	}
}

func TestDonburiSink_MultipleSubscribers(t *testing.T) {
	world := donburi.NewWorld()
	sink := NewDonburiSink(world)

	var count1, count2 int
	ObjectEventType.Subscribe(world, func(w donburi.World, e greenmoon.ObjectEvent) {
		count1++
	})
	ObjectEventType.Subscribe(world, func(w donburi.World, e greenmoon.ObjectEvent) {
		count2++
	})

	sink.EmitEvent(greenmoon.ObjectEvent{Type: greenmoon.ObjectRemoved, Name: "ghost"})
	events.ProcessAllEvents(world)

	if count1 != 1 || count2 != 1 {
		t.Errorf("expected both subscribers called once, got %d and %d", count1, count2)
	}
}
