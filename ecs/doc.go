// Package ecs bridges slidefx scene events into a [Donburi] world.
//
// [NewDonburiSink] publishes every [slidefx.SceneEvent] as a typed Donburi
// event. Subscribe to [SceneEventType] in your systems to receive phase
// changes, transmutations, recycles and catches:
//
//	sink := ecs.NewDonburiSink(world)
//	session.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
