package session

import "time"

// EventType classifies session events published to observers.
type EventType string

const (
	EventStageChanged    EventType = "stage_changed"
	EventScanProgress    EventType = "scan_progress"
	EventTargetRequested EventType = "target_requested"
	EventTargetConfirmed EventType = "target_confirmed"
	EventTargetNotFound  EventType = "target_not_found"
	EventHapticLevel     EventType = "haptic_level"
	EventGuidanceSent    EventType = "guidance_sent"
	EventSessionReset    EventType = "session_reset"
)

// Event is a point-in-time notification about the session. The core emits
// events; observers (dashboard, logging) subscribe. Observers never mutate
// the session through this channel.
type Event struct {
	Type    EventType `json:"type"`
	Stage   string    `json:"stage"`
	Detail  string    `json:"detail,omitempty"`
	Value   float64   `json:"value,omitempty"`
	Time    time.Time `json:"time"`
	Session string    `json:"session"`
}

// Events is a fan-out of session events to a bounded set of subscribers.
// Slow subscribers drop events rather than block the core.
type Events struct {
	subs []chan Event
}

// NewEvents creates an event fan-out.
func NewEvents() *Events {
	return &Events{}
}

// Subscribe returns a buffered channel receiving all future events.
// Subscribe is intended for wiring at composition time, before the
// session starts publishing.
func (e *Events) Subscribe() <-chan Event {
	ch := make(chan Event, 64)
	e.subs = append(e.subs, ch)
	return ch
}

// Publish delivers an event to every subscriber without blocking.
func (e *Events) Publish(ev Event) {
	if ev.Time.IsZero() {
		ev.Time = time.Now()
	}
	for _, ch := range e.subs {
		select {
		case ch <- ev:
		default:
			// Subscriber too slow - drop rather than stall the core.
		}
	}
}
