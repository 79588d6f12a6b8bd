package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/pulseboard/pkg/domain/model"
	"github.com/secmon-lab/pulseboard/pkg/domain/types"
	"github.com/secmon-lab/pulseboard/pkg/repository/memory"
	"github.com/secmon-lab/pulseboard/pkg/usecase"
)

// recordingPublisher captures published events in order for assertions
type recordingPublisher struct {
	events []model.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, ev model.Event) {
	p.events = append(p.events, ev)
}

func (p *recordingPublisher) kinds() []types.EventKind {
	kinds := make([]types.EventKind, 0, len(p.events))
	for _, ev := range p.events {
		kinds = append(kinds, ev.Type)
	}
	return kinds
}

func newBoardTest() (*usecase.UseCases, *recordingPublisher) {
	pub := &recordingPublisher{}
	uc := usecase.New(memory.New(), usecase.WithPublisher(pub))
	return uc, pub
}

func TestCreateTask(t *testing.T) {
	t.Run("creates with defaults and broadcasts", func(t *testing.T) {
		uc, pub := newBoardTest()
		ctx := context.Background()

		task, err := uc.Board.CreateTask(ctx, &usecase.CreateTaskInput{
			Title: "Fix login bug",
			Owner: "Alice",
		})
		gt.NoError(t, err).Required()

		gt.Value(t, task.ID).NotEqual(int64(0))
		gt.Value(t, task.Status).Equal(types.TaskStatusTodo)
		gt.Value(t, task.Priority).Equal(types.PriorityMedium)

		gt.Array(t, pub.kinds()).Equal([]types.EventKind{
			types.EventTaskCreated,
			types.EventActivityNew,
		})

		record := gt.Cast[*model.ActivityRecord](t, pub.events[1].Payload)
		gt.Value(t, record.User).Equal("Alice")
		gt.Value(t, record.Action).Equal("created task")
		gt.Value(t, record.Details).Equal("Fix login bug")
	})

	t.Run("rejects empty title", func(t *testing.T) {
		uc, pub := newBoardTest()
		ctx := context.Background()

		_, err := uc.Board.CreateTask(ctx, &usecase.CreateTaskInput{})
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
		gt.Number(t, len(pub.events)).Equal(0)
	})

	t.Run("rejects unknown priority", func(t *testing.T) {
		uc, pub := newBoardTest()
		ctx := context.Background()

		_, err := uc.Board.CreateTask(ctx, &usecase.CreateTaskInput{
			Title:    "Fix login bug",
			Priority: types.Priority("urgent"),
		})
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
		gt.Number(t, len(pub.events)).Equal(0)
	})

	t.Run("activity falls back to System without owner", func(t *testing.T) {
		uc, pub := newBoardTest()
		ctx := context.Background()

		_, err := uc.Board.CreateTask(ctx, &usecase.CreateTaskInput{Title: "Write docs"})
		gt.NoError(t, err).Required()

		record := gt.Cast[*model.ActivityRecord](t, pub.events[1].Payload)
		gt.Value(t, record.User).Equal(model.SystemUser)
	})
}

func TestUpdateTask(t *testing.T) {
	t.Run("status change bumps updated_at and broadcasts", func(t *testing.T) {
		uc, pub := newBoardTest()
		ctx := context.Background()

		task, err := uc.Board.CreateTask(ctx, &usecase.CreateTaskInput{
			Title: "Fix login bug",
			Owner: "Alice",
		})
		gt.NoError(t, err).Required()
		pub.events = nil

		time.Sleep(time.Millisecond)

		status := types.TaskStatusDone
		updated, err := uc.Board.UpdateTask(ctx, task.ID, &usecase.UpdateTaskInput{Status: &status})
		gt.NoError(t, err).Required()

		gt.Value(t, updated.Status).Equal(types.TaskStatusDone)
		gt.Bool(t, updated.UpdatedAt.After(task.UpdatedAt)).True()

		gt.Array(t, pub.kinds()).Equal([]types.EventKind{
			types.EventTaskUpdated,
			types.EventActivityNew,
		})

		record := gt.Cast[*model.ActivityRecord](t, pub.events[1].Payload)
		gt.Value(t, record.Action).Equal("updated task status to done")
		gt.Value(t, record.Details).Equal("Fix login bug")
	})

	t.Run("owner-only patch broadcasts without activity", func(t *testing.T) {
		uc, pub := newBoardTest()
		ctx := context.Background()

		task, err := uc.Board.CreateTask(ctx, &usecase.CreateTaskInput{Title: "Fix login bug"})
		gt.NoError(t, err).Required()
		pub.events = nil

		owner := "Bob"
		updated, err := uc.Board.UpdateTask(ctx, task.ID, &usecase.UpdateTaskInput{Owner: &owner})
		gt.NoError(t, err).Required()

		gt.Value(t, updated.Owner).Equal("Bob")
		gt.Bool(t, updated.UpdatedAt.Equal(task.UpdatedAt)).True()

		// Connected clients still learn the new owner, but the feed
		// records only status transitions.
		gt.Array(t, pub.kinds()).Equal([]types.EventKind{types.EventTaskUpdated})
		got := gt.Cast[*model.Task](t, pub.events[0].Payload)
		gt.Value(t, got.Owner).Equal("Bob")

		records, err := uc.Board.ListRecentActivity(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, len(records)).Equal(1)
		gt.Value(t, records[0].Action).Equal("created task")
	})

	t.Run("rejects invalid status", func(t *testing.T) {
		uc, _ := newBoardTest()
		ctx := context.Background()

		task, err := uc.Board.CreateTask(ctx, &usecase.CreateTaskInput{Title: "Fix login bug"})
		gt.NoError(t, err).Required()

		status := types.TaskStatus("archived")
		_, err = uc.Board.UpdateTask(ctx, task.ID, &usecase.UpdateTaskInput{Status: &status})
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
	})

	t.Run("unknown ID returns ErrTaskNotFound", func(t *testing.T) {
		uc, _ := newBoardTest()
		ctx := context.Background()

		status := types.TaskStatusDone
		_, err := uc.Board.UpdateTask(ctx, 9999, &usecase.UpdateTaskInput{Status: &status})
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrTaskNotFound)).True()
	})
}

func TestCreateBlocker(t *testing.T) {
	t.Run("creates and broadcasts", func(t *testing.T) {
		uc, pub := newBoardTest()
		ctx := context.Background()

		taskID := int64(1)
		blocker, err := uc.Board.CreateBlocker(ctx, &usecase.CreateBlockerInput{
			TaskID:      &taskID,
			Description: "Staging environment down",
			Reporter:    "Bob",
		})
		gt.NoError(t, err).Required()
		gt.Bool(t, blocker.Resolved).False()

		gt.Array(t, pub.kinds()).Equal([]types.EventKind{
			types.EventBlockerCreated,
			types.EventActivityNew,
		})

		record := gt.Cast[*model.ActivityRecord](t, pub.events[1].Payload)
		gt.Value(t, record.User).Equal("Bob")
		gt.Value(t, record.Action).Equal("flagged a blocker")
		gt.Value(t, record.Details).Equal("Staging environment down")
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		uc, _ := newBoardTest()
		ctx := context.Background()

		_, err := uc.Board.CreateBlocker(ctx, &usecase.CreateBlockerInput{Reporter: "Bob"})
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()

		_, err = uc.Board.CreateBlocker(ctx, &usecase.CreateBlockerInput{Description: "CI broken"})
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrInvalidInput)).True()
	})
}

func TestResolveBlocker(t *testing.T) {
	t.Run("resolves and broadcasts ID-only payload", func(t *testing.T) {
		uc, pub := newBoardTest()
		ctx := context.Background()

		blocker, err := uc.Board.CreateBlocker(ctx, &usecase.CreateBlockerInput{
			Description: "CI broken",
			Reporter:    "Alice",
		})
		gt.NoError(t, err).Required()
		pub.events = nil

		gt.NoError(t, uc.Board.ResolveBlocker(ctx, blocker.ID, "Alice")).Required()

		gt.Array(t, pub.kinds()).Equal([]types.EventKind{
			types.EventBlockerResolved,
			types.EventActivityNew,
		})

		payload := gt.Cast[model.BlockerResolvedPayload](t, pub.events[0].Payload)
		gt.Value(t, payload.ID).Equal(blocker.ID)

		active, err := uc.Board.ListActiveBlockers(ctx)
		gt.NoError(t, err).Required()
		gt.Number(t, len(active)).Equal(0)
	})

	t.Run("re-resolve is idempotent but still broadcasts", func(t *testing.T) {
		uc, pub := newBoardTest()
		ctx := context.Background()

		blocker, err := uc.Board.CreateBlocker(ctx, &usecase.CreateBlockerInput{
			Description: "CI broken",
			Reporter:    "Alice",
		})
		gt.NoError(t, err).Required()

		gt.NoError(t, uc.Board.ResolveBlocker(ctx, blocker.ID, "")).Required()
		pub.events = nil

		gt.NoError(t, uc.Board.ResolveBlocker(ctx, blocker.ID, "")).Required()
		gt.Array(t, pub.kinds()).Equal([]types.EventKind{
			types.EventBlockerResolved,
			types.EventActivityNew,
		})

		record := gt.Cast[*model.ActivityRecord](t, pub.events[1].Payload)
		gt.Value(t, record.User).Equal(model.SystemUser)
		gt.Value(t, record.Action).Equal("resolved a blocker")
	})

	t.Run("unknown ID returns ErrBlockerNotFound", func(t *testing.T) {
		uc, _ := newBoardTest()
		ctx := context.Background()

		err := uc.Board.ResolveBlocker(ctx, 9999, "Alice")
		gt.Error(t, err)
		gt.Bool(t, errors.Is(err, usecase.ErrBlockerNotFound)).True()
	})
}

func TestSettingsAndSnapshot(t *testing.T) {
	t.Run("setting writes emit no events", func(t *testing.T) {
		uc, pub := newBoardTest()
		ctx := context.Background()

		gt.NoError(t, uc.Board.PutSetting(ctx, model.SettingGitHubRepo, "https://github.com/acme/rocket")).Required()
		gt.Number(t, len(pub.events)).Equal(0)

		settings, err := uc.Board.ListSettings(ctx)
		gt.NoError(t, err).Required()
		gt.Value(t, settings[model.SettingGitHubRepo]).Equal("https://github.com/acme/rocket")
	})

	t.Run("snapshot bundles all collections", func(t *testing.T) {
		uc, _ := newBoardTest()
		ctx := context.Background()

		_, err := uc.Board.CreateTask(ctx, &usecase.CreateTaskInput{Title: "Fix login bug"})
		gt.NoError(t, err).Required()
		_, err = uc.Board.CreateBlocker(ctx, &usecase.CreateBlockerInput{Description: "CI broken", Reporter: "Bob"})
		gt.NoError(t, err).Required()
		gt.NoError(t, uc.Board.PutSetting(ctx, "theme", "dark")).Required()

		snapshot, err := uc.Board.Snapshot(ctx)
		gt.NoError(t, err).Required()

		gt.Number(t, len(snapshot.Tasks)).Equal(1)
		gt.Number(t, len(snapshot.Blockers)).Equal(1)
		gt.Number(t, len(snapshot.Activity)).Equal(2)
		gt.Value(t, snapshot.Settings["theme"]).Equal("dark")
	})
}
