package model

import (
	"encoding/json"

	"github.com/secmon-lab/pulseboard/pkg/domain/types"
)

// Event is the envelope broadcast to every realtime connection when a
// mutation completes. Payload mirrors the entity returned by the mutation,
// except BLOCKER_RESOLVED which carries only the blocker ID.
type Event struct {
	Type    types.EventKind `json:"type"`
	Payload any             `json:"payload"`
}

// NewTaskCreated builds a TASK_CREATED event
func NewTaskCreated(task *Task) Event {
	return Event{Type: types.EventTaskCreated, Payload: task}
}

// NewTaskUpdated builds a TASK_UPDATED event
func NewTaskUpdated(task *Task) Event {
	return Event{Type: types.EventTaskUpdated, Payload: task}
}

// NewBlockerCreated builds a BLOCKER_CREATED event
func NewBlockerCreated(blocker *Blocker) Event {
	return Event{Type: types.EventBlockerCreated, Payload: blocker}
}

// BlockerResolvedPayload is the payload of a BLOCKER_RESOLVED event
type BlockerResolvedPayload struct {
	ID int64 `json:"id"`
}

// NewBlockerResolved builds a BLOCKER_RESOLVED event carrying only the ID
func NewBlockerResolved(id int64) Event {
	return Event{Type: types.EventBlockerResolved, Payload: BlockerResolvedPayload{ID: id}}
}

// NewActivity builds an ACTIVITY_NEW event
func NewActivity(record *ActivityRecord) Event {
	return Event{Type: types.EventActivityNew, Payload: record}
}

// RawEvent is the wire form of an Event as received by a client, with the
// payload left undecoded until the kind is known.
type RawEvent struct {
	Type    types.EventKind `json:"type"`
	Payload json.RawMessage `json:"payload"`
}
