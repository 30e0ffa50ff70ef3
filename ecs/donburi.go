package ecs

import (
	"github.com/phanxgames/slidefx"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEventType is the Donburi event type for slidefx scene events.
var SceneEventType = events.NewEventType[slidefx.SceneEvent]()

type donburiSink struct {
	world donburi.World
	// filter limits publication to these types; empty publishes everything.
	filter map[slidefx.EventType]bool
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Events are
// queued on SceneEventType and delivered by ProcessEvents. When types are
// given, only events of those types are published.
func NewDonburiSink(world donburi.World, types ...slidefx.EventType) slidefx.EventSink {
	s := &donburiSink{world: world}
	if len(types) > 0 {
		s.filter = make(map[slidefx.EventType]bool, len(types))
		for _, t := range types {
			s.filter[t] = true
		}
	}
	return s
}

func (s *donburiSink) EmitEvent(event slidefx.SceneEvent) {
	if s.filter != nil && !s.filter[event.Type] {
		return
	}
	SceneEventType.Publish(s.world, event)
}
