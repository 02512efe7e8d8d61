// Package telemetry records what a view does: frame timing, camera phase
// usage per window, and the selection history.
package telemetry

// EventType identifies telemetry events.
type EventType uint8

const (
	EventSelect EventType = iota
	EventDeselect
	EventFlyTo
)

func (t EventType) String() string {
	switch t {
	case EventDeselect:
		return "deselect"
	case EventFlyTo:
		return "fly_to"
	default:
		return "select"
	}
}

// Event is one interaction with a world.
type Event struct {
	Type    EventType `csv:"-"`
	Action  string    `csv:"action"`
	Frame   uint64    `csv:"frame"`
	SimTime float64   `csv:"sim_time"`
	WorldID string    `csv:"world_id"`
	Title   string    `csv:"title"`
}

// NewSelectEvent creates a selection event.
func NewSelectEvent(frame uint64, simTime float64, id, title string) Event {
	return Event{Type: EventSelect, Action: EventSelect.String(), Frame: frame, SimTime: simTime, WorldID: id, Title: title}
}

// NewDeselectEvent creates a selection-cleared event.
func NewDeselectEvent(frame uint64, simTime float64) Event {
	return Event{Type: EventDeselect, Action: EventDeselect.String(), Frame: frame, SimTime: simTime}
}

// NewFlyToEvent creates an event for a flight toward a world.
func NewFlyToEvent(frame uint64, simTime float64, id, title string) Event {
	return Event{Type: EventFlyTo, Action: EventFlyTo.String(), Frame: frame, SimTime: simTime, WorldID: id, Title: title}
}
