// Package greenmoon is a message-driven 2D game core for [Ebitengine].
//
// Greenmoon keeps every game entity behind one small interface, [Object], and
// lets entities talk to each other only through [Message] values routed by
// name. The engine owns the frame loop, deterministic update and draw order,
// deferred structural changes, and scene switching.
//
// # Quick start
//
// The simplest way to get started is [Run], which creates a window and game
// loop for you:
//
//	scene := greenmoon.NewScene("main", nil)
//	scene.Objects().AddDrawObject("hero", greenmoon.NewSprite(img, greenmoon.Vec2{X: 100, Y: 50}))
//
//	sm := greenmoon.NewSceneManager()
//	sm.AddScene(scene)
//	greenmoon.Run(sm, greenmoon.DefaultConfig())
//
// For tests and servers, [RunHeadless] steps the same loop without a window
// at a fixed frame rate.
//
// # Objects and messages
//
// An [Object] answers SendMessage, Update, Draw and Clone. The
// [ObjectManager] stores objects by unique name, runs Update on active
// objects in UpdateIndex order and Draw on visible objects in DrawIndex order.
// Messages are addressed with a [Target]:
//
//	om.SendMessage(greenmoon.To("hero"), greenmoon.Msg("set_position", greenmoon.Vec2{X: 4, Y: 2}))
//	om.SendMessage(greenmoon.Group("enemies"), greenmoon.Msg("set_speed", 0.5))
//	om.SendMessage(greenmoon.Manager(), greenmoon.Msg("remove_object", "hero"))
//
// A message may carry a tag path that composite objects consume one tag at a
// time to reach a nested component, e.g. "interpolation.start".
//
// Adding, removing or reordering objects while an update pass runs is queued
// and applied after the pass, so every object sees a stable set.
//
// # Scenes
//
// A [SceneManager] owns named [Scene] values, each with its own
// ObjectManager. Scene changes requested during a frame take effect at the
// start of the next one, with the leave and enter hooks run in between.
//
// # Built-in objects
//
// Greenmoon ships timers and timed senders, triggers, interpolators and
// movers (via [gween]), object factories, object groups, sprites, labels,
// an FPS widget and a CPU particle effect. Lifecycle events can be bridged
// into a [Donburi] world with greenmoon/ecs, and a running game can be
// driven over a WebSocket with greenmoon/console.
//
// [Ebitengine]: https://ebitengine.org
// [gween]: https://github.com/tanema/gween
// [Donburi]: https://github.com/yohamta/donburi
package greenmoon
