// Package ecs bridges greenmoon object lifecycle events into a [Donburi]
// world.
//
// [NewDonburiSink] publishes every add, remove and replace as an
// [ObjectEventType] event and mirrors the object set as entities carrying
// an [ObjectName] component. Subscribe to ObjectEventType in your systems to
// react to them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	scene.Objects().SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
