package types

import "fmt"

// EventKind represents the type of a broadcast event pushed to realtime clients
type EventKind string

const (
	EventTaskCreated     EventKind = "TASK_CREATED"
	EventTaskUpdated     EventKind = "TASK_UPDATED"
	EventBlockerCreated  EventKind = "BLOCKER_CREATED"
	EventBlockerResolved EventKind = "BLOCKER_RESOLVED"
	EventActivityNew     EventKind = "ACTIVITY_NEW"
)

// AllEventKinds returns all valid event kinds
func AllEventKinds() []EventKind {
	return []EventKind{
		EventTaskCreated,
		EventTaskUpdated,
		EventBlockerCreated,
		EventBlockerResolved,
		EventActivityNew,
	}
}

// IsValid checks if the event kind is valid
func (k EventKind) IsValid() bool {
	switch k {
	case EventTaskCreated,
		EventTaskUpdated,
		EventBlockerCreated,
		EventBlockerResolved,
		EventActivityNew:
		return true
	default:
		return false
	}
}

// String returns the string representation of the event kind
func (k EventKind) String() string {
	return string(k)
}

// ParseEventKind parses a string into an EventKind
func ParseEventKind(s string) (EventKind, error) {
	kind := EventKind(s)
	if !kind.IsValid() {
		return "", fmt.Errorf("invalid event kind: %s", s)
	}
	return kind, nil
}
