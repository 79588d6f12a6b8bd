package client

import (
	"context"
	"encoding/json"

	"github.com/secmon-lab/pulseboard/pkg/domain/model"
	"github.com/secmon-lab/pulseboard/pkg/domain/types"
	"github.com/secmon-lab/pulseboard/pkg/utils/logging"
)

// activityLimit matches the server-side feed cap.
const activityLimit = 50

// Mirror is the client's in-memory view of the board. It is treated as
// immutable: Apply returns a new Mirror and never mutates its input.
type Mirror struct {
	Tasks    []*model.Task
	Blockers []*model.Blocker
	Activity []*model.ActivityRecord
	Settings map[string]string
}

func emptyMirror() *Mirror {
	return &Mirror{
		Settings: map[string]string{},
	}
}

func (m *Mirror) clone() *Mirror {
	copied := &Mirror{
		Tasks:    make([]*model.Task, len(m.Tasks)),
		Blockers: make([]*model.Blocker, len(m.Blockers)),
		Activity: make([]*model.ActivityRecord, len(m.Activity)),
		Settings: make(map[string]string, len(m.Settings)),
	}
	copy(copied.Tasks, m.Tasks)
	copy(copied.Blockers, m.Blockers)
	copy(copied.Activity, m.Activity)
	for k, v := range m.Settings {
		copied.Settings[k] = v
	}
	return copied
}

// Apply folds one broadcast event into the mirror. Unknown event kinds and
// undecodable payloads leave the mirror unchanged; the next baseline fetch
// corrects any drift.
func Apply(ctx context.Context, m *Mirror, ev model.RawEvent) *Mirror {
	switch ev.Type {
	case types.EventTaskCreated:
		var task model.Task
		if !decodePayload(ctx, ev, &task) {
			return m
		}
		next := m.clone()
		next.Tasks = append([]*model.Task{&task}, next.Tasks...)
		return next

	case types.EventTaskUpdated:
		var task model.Task
		if !decodePayload(ctx, ev, &task) {
			return m
		}
		next := m.clone()
		for i, existing := range next.Tasks {
			if existing.ID == task.ID {
				next.Tasks[i] = &task
				break
			}
		}
		return next

	case types.EventBlockerCreated:
		var blocker model.Blocker
		if !decodePayload(ctx, ev, &blocker) {
			return m
		}
		next := m.clone()
		next.Blockers = append([]*model.Blocker{&blocker}, next.Blockers...)
		return next

	case types.EventBlockerResolved:
		var payload model.BlockerResolvedPayload
		if !decodePayload(ctx, ev, &payload) {
			return m
		}
		next := m.clone()
		blockers := next.Blockers[:0]
		for _, b := range next.Blockers {
			if b.ID != payload.ID {
				blockers = append(blockers, b)
			}
		}
		next.Blockers = blockers
		return next

	case types.EventActivityNew:
		var record model.ActivityRecord
		if !decodePayload(ctx, ev, &record) {
			return m
		}
		next := m.clone()
		next.Activity = append([]*model.ActivityRecord{&record}, next.Activity...)
		if len(next.Activity) > activityLimit {
			next.Activity = next.Activity[:activityLimit]
		}
		return next

	default:
		logging.From(ctx).Warn("ignoring unknown event kind", "type", ev.Type)
		return m
	}
}

func decodePayload(ctx context.Context, ev model.RawEvent, v any) bool {
	if err := json.Unmarshal(ev.Payload, v); err != nil {
		logging.From(ctx).Warn("failed to decode event payload",
			"type", ev.Type,
			"error", err,
		)
		return false
	}
	return true
}
