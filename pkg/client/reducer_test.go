package client_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/pulseboard/pkg/client"
	"github.com/secmon-lab/pulseboard/pkg/domain/model"
	"github.com/secmon-lab/pulseboard/pkg/domain/types"
)

func rawEvent(t *testing.T, ev model.Event) model.RawEvent {
	t.Helper()

	payload, err := json.Marshal(ev.Payload)
	gt.NoError(t, err).Required()
	return model.RawEvent{Type: ev.Type, Payload: payload}
}

func TestApplyTaskEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("TASK_CREATED prepends", func(t *testing.T) {
		m := &client.Mirror{
			Tasks: []*model.Task{{ID: 1, Title: "First"}},
		}

		next := client.Apply(ctx, m, rawEvent(t, model.NewTaskCreated(&model.Task{ID: 2, Title: "Second"})))

		gt.Number(t, len(next.Tasks)).Equal(2)
		gt.Value(t, next.Tasks[0].ID).Equal(int64(2))
		gt.Value(t, next.Tasks[1].ID).Equal(int64(1))

		// Input mirror is untouched.
		gt.Number(t, len(m.Tasks)).Equal(1)
	})

	t.Run("TASK_UPDATED replaces in place", func(t *testing.T) {
		m := &client.Mirror{
			Tasks: []*model.Task{
				{ID: 2, Title: "Second", Status: types.TaskStatusTodo},
				{ID: 1, Title: "First", Status: types.TaskStatusTodo},
			},
		}

		next := client.Apply(ctx, m, rawEvent(t, model.NewTaskUpdated(&model.Task{
			ID: 1, Title: "First", Status: types.TaskStatusDone,
		})))

		gt.Number(t, len(next.Tasks)).Equal(2)
		gt.Value(t, next.Tasks[1].Status).Equal(types.TaskStatusDone)
		gt.Value(t, m.Tasks[1].Status).Equal(types.TaskStatusTodo)
	})

	t.Run("TASK_UPDATED with absent ID is a no-op", func(t *testing.T) {
		m := &client.Mirror{
			Tasks: []*model.Task{{ID: 1, Title: "First"}},
		}

		next := client.Apply(ctx, m, rawEvent(t, model.NewTaskUpdated(&model.Task{ID: 99, Title: "Ghost"})))

		gt.Number(t, len(next.Tasks)).Equal(1)
		gt.Value(t, next.Tasks[0].ID).Equal(int64(1))
	})
}

func TestApplyBlockerEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("BLOCKER_CREATED prepends", func(t *testing.T) {
		m := &client.Mirror{
			Blockers: []*model.Blocker{{ID: 1, Description: "First"}},
		}

		next := client.Apply(ctx, m, rawEvent(t, model.NewBlockerCreated(&model.Blocker{ID: 2, Description: "Second"})))

		gt.Number(t, len(next.Blockers)).Equal(2)
		gt.Value(t, next.Blockers[0].ID).Equal(int64(2))
	})

	t.Run("BLOCKER_RESOLVED removes from active list", func(t *testing.T) {
		m := &client.Mirror{
			Blockers: []*model.Blocker{
				{ID: 2, Description: "Second"},
				{ID: 1, Description: "First"},
			},
		}

		next := client.Apply(ctx, m, rawEvent(t, model.NewBlockerResolved(2)))

		gt.Number(t, len(next.Blockers)).Equal(1)
		gt.Value(t, next.Blockers[0].ID).Equal(int64(1))
		gt.Number(t, len(m.Blockers)).Equal(2)
	})

	t.Run("BLOCKER_RESOLVED for unknown ID is a no-op", func(t *testing.T) {
		m := &client.Mirror{
			Blockers: []*model.Blocker{{ID: 1, Description: "First"}},
		}

		next := client.Apply(ctx, m, rawEvent(t, model.NewBlockerResolved(99)))
		gt.Number(t, len(next.Blockers)).Equal(1)
	})
}

func TestApplyActivityEvents(t *testing.T) {
	ctx := context.Background()

	t.Run("ACTIVITY_NEW prepends and truncates to 50", func(t *testing.T) {
		m := &client.Mirror{}
		for i := 1; i <= 55; i++ {
			m = client.Apply(ctx, m, rawEvent(t, model.NewActivity(&model.ActivityRecord{
				ID:     int64(i),
				User:   "Alice",
				Action: "created task",
				Details: fmt.Sprintf("task %d", i),
			})))
		}

		gt.Number(t, len(m.Activity)).Equal(50)
		gt.Value(t, m.Activity[0].ID).Equal(int64(55))
		gt.Value(t, m.Activity[49].ID).Equal(int64(6))
	})
}

func TestApplyIgnoresBadInput(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown kind", func(t *testing.T) {
		m := &client.Mirror{Tasks: []*model.Task{{ID: 1}}}

		next := client.Apply(ctx, m, model.RawEvent{Type: types.EventKind("SOMETHING_ELSE"), Payload: []byte(`{}`)})
		gt.Value(t, next).Equal(m)
	})

	t.Run("malformed payload", func(t *testing.T) {
		m := &client.Mirror{Tasks: []*model.Task{{ID: 1}}}

		next := client.Apply(ctx, m, model.RawEvent{Type: types.EventTaskCreated, Payload: []byte(`not json`)})
		gt.Value(t, next).Equal(m)
	})
}
