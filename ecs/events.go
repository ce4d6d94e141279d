package ecs

// EventType identifies gameplay events pushed during a tick.
type EventType string

const (
	EventMaterialStateChanged EventType = "material_state_changed"
	EventLanded               EventType = "landed"
	EventMarkerAdded          EventType = "marker_added"
	EventMarkerRemoved        EventType = "marker_removed"
	EventInteracted           EventType = "interacted"
)

// Event is a generic ECS event payload.
type Event struct {
	Type   EventType
	Entity Entity
	Data   any
}

// EventQueue is a simple FIFO queue.
type EventQueue struct {
	items []Event
}

// Push adds an event.
func (q *EventQueue) Push(evt Event) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue) Drain() []Event {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}
