package lifecycle

import (
	"fmt"
	"strings"
)

// Event is a lifecycle transition. EventAny matches every transition and is
// never dispatched on its own.
type Event int

const (
	EventCreate Event = iota
	EventStart
	EventResume
	EventPause
	EventStop
	EventDestroy
	EventAny
)

var ErrUnknownEvent = fmt.Errorf("lifecycle: unknown event")

var eventNames = [...]string{
	EventCreate:  "create",
	EventStart:   "start",
	EventResume:  "resume",
	EventPause:   "pause",
	EventStop:    "stop",
	EventDestroy: "destroy",
	EventAny:     "any",
}

// Events returns every event in declaration order.
func Events() []Event {
	return []Event{EventCreate, EventStart, EventResume, EventPause, EventStop, EventDestroy, EventAny}
}

func (e Event) String() string {
	if e >= 0 && int(e) < len(eventNames) {
		return eventNames[e]
	}
	return fmt.Sprintf("Event(%d)", int(e))
}

// ParseEvent accepts "create", "on_create" and "ON_CREATE" spellings.
func ParseEvent(s string) (Event, error) {
	name := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(s)), "on_")
	for e, n := range eventNames {
		if n == name {
			return Event(e), nil
		}
	}
	return EventAny, fmt.Errorf("%w: %q", ErrUnknownEvent, s)
}

func (e Event) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

func (e *Event) UnmarshalText(text []byte) error {
	parsed, err := ParseEvent(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}

// Matches reports whether an observer bound to e reacts to dispatched.
func (e Event) Matches(dispatched Event) bool {
	return e == EventAny || e == dispatched
}

// TargetState is the state a lifecycle is in right after e.
func (e Event) TargetState() (State, bool) {
	switch e {
	case EventCreate, EventStop:
		return StateCreated, true
	case EventStart, EventPause:
		return StateStarted, true
	case EventResume:
		return StateResumed, true
	case EventDestroy:
		return StateDestroyed, true
	default:
		return StateDestroyed, false
	}
}

// UpFrom is the event that moves a lifecycle from s one state up.
func UpFrom(s State) (Event, bool) {
	switch s {
	case StateInitialized:
		return EventCreate, true
	case StateCreated:
		return EventStart, true
	case StateStarted:
		return EventResume, true
	default:
		return EventAny, false
	}
}

// DownFrom is the event that moves a lifecycle from s one state down.
func DownFrom(s State) (Event, bool) {
	switch s {
	case StateCreated:
		return EventDestroy, true
	case StateStarted:
		return EventStop, true
	case StateResumed:
		return EventPause, true
	default:
		return EventAny, false
	}
}

// UpTo is the event that moves a lifecycle up into s.
func UpTo(s State) (Event, bool) {
	switch s {
	case StateCreated:
		return EventCreate, true
	case StateStarted:
		return EventStart, true
	case StateResumed:
		return EventResume, true
	default:
		return EventAny, false
	}
}

// DownTo is the event that moves a lifecycle down into s.
func DownTo(s State) (Event, bool) {
	switch s {
	case StateDestroyed:
		return EventDestroy, true
	case StateCreated:
		return EventStop, true
	case StateStarted:
		return EventPause, true
	default:
		return EventAny, false
	}
}

// IsUp reports whether e moves a lifecycle towards resumed.
func (e Event) IsUp() bool {
	return e == EventCreate || e == EventStart || e == EventResume
}

// IsDown reports whether e moves a lifecycle towards destroyed.
func (e Event) IsDown() bool {
	return e == EventPause || e == EventStop || e == EventDestroy
}
