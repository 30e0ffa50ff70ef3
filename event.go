package slidefx

// EventType identifies a SceneEvent.
type EventType uint8

const (
	EventPhase     EventType = iota // a phase machine changed phase
	EventTransmute                  // a particle changed kind
	EventRecycle                    // a particle left its bounds and was reset
	EventCatch                      // a falling body landed in its bin
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case EventPhase:
		return "phase"
	case EventTransmute:
		return "transmute"
	case EventRecycle:
		return "recycle"
	case EventCatch:
		return "catch"
	default:
		return "unknown"
	}
}

// SceneEvent reports a notable simulation moment. Which fields are set
// depends on Type.
type SceneEvent struct {
	Type      EventType
	SessionID string
	Scene     string
	TimeMs    float64

	// Phase transitions.
	From, To Phase
	Level    int

	// Particle index for transmute/recycle, system name for catch.
	Index  int
	System string
}

// EventSink receives scene events. Set one on a session with SetEventSink.
// See the ecs package for a donburi-backed implementation.
type EventSink interface {
	EmitEvent(event SceneEvent)
}

// EventSinkFunc adapts a function to EventSink.
type EventSinkFunc func(SceneEvent)

// EmitEvent implements EventSink.
func (f EventSinkFunc) EmitEvent(e SceneEvent) { f(e) }
