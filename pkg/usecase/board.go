package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulseboard/pkg/domain/interfaces"
	"github.com/secmon-lab/pulseboard/pkg/domain/model"
	"github.com/secmon-lab/pulseboard/pkg/domain/types"
	"github.com/secmon-lab/pulseboard/pkg/service/hub"
)

// activityLimit is the size of the surfaced activity feed.
const activityLimit = 50

// BoardUseCase implements the board mutations and reads. Every mutation
// completes its store write and activity append before any event is
// published, so a fresh fetch always reflects at least as much state as
// any event a client has observed.
type BoardUseCase struct {
	repo      interfaces.Repository
	publisher hub.Publisher
}

func NewBoardUseCase(repo interfaces.Repository, publisher hub.Publisher) *BoardUseCase {
	return &BoardUseCase{
		repo:      repo,
		publisher: publisher,
	}
}

func (uc *BoardUseCase) publish(ctx context.Context, events ...model.Event) {
	if uc.publisher == nil {
		return
	}
	for _, ev := range events {
		uc.publisher.Publish(ctx, ev)
	}
}

func (uc *BoardUseCase) logActivity(ctx context.Context, user, action, details string) (*model.ActivityRecord, error) {
	record, err := uc.repo.Activity().Append(ctx, &model.ActivityRecord{
		User:    user,
		Action:  action,
		Details: details,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to append activity record")
	}
	return record, nil
}

type CreateTaskInput struct {
	Title       string
	Description string
	Owner       string
	Priority    types.Priority
}

// CreateTask persists a new task, logs the creation, and broadcasts
// TASK_CREATED followed by ACTIVITY_NEW.
func (uc *BoardUseCase) CreateTask(ctx context.Context, input *CreateTaskInput) (*model.Task, error) {
	if input.Title == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "task title is required")
	}
	if input.Priority != "" && !input.Priority.IsValid() {
		return nil, goerr.Wrap(ErrInvalidInput, "invalid priority", goerr.V("priority", input.Priority))
	}

	created, err := uc.repo.Task().Create(ctx, &model.Task{
		Title:       input.Title,
		Description: input.Description,
		Owner:       input.Owner,
		Priority:    input.Priority,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create task")
	}

	record, err := uc.logActivity(ctx, created.Owner, "created task", created.Title)
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, model.NewTaskCreated(created), model.NewActivity(record))

	return created, nil
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Owner       *string
	Status      *types.TaskStatus
	Priority    *types.Priority
}

// UpdateTask applies a partial update to a task. Every change broadcasts
// TASK_UPDATED so connected clients converge without a refetch, but only
// a status change refreshes updated_at and appends an activity record
// (followed by ACTIVITY_NEW).
func (uc *BoardUseCase) UpdateTask(ctx context.Context, id int64, input *UpdateTaskInput) (*model.Task, error) {
	task, err := uc.repo.Task().Get(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, goerr.Wrap(ErrTaskNotFound, "task not found", goerr.V(TaskIDKey, id))
		}
		return nil, goerr.Wrap(err, "failed to get task", goerr.V(TaskIDKey, id))
	}

	if input.Title != nil {
		if *input.Title == "" {
			return nil, goerr.Wrap(ErrInvalidInput, "task title is required")
		}
		task.Title = *input.Title
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Owner != nil {
		task.Owner = *input.Owner
	}
	if input.Priority != nil {
		if !input.Priority.IsValid() {
			return nil, goerr.Wrap(ErrInvalidInput, "invalid priority", goerr.V("priority", *input.Priority))
		}
		task.Priority = *input.Priority
	}

	statusChanged := false
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, goerr.Wrap(ErrInvalidInput, "invalid status", goerr.V("status", *input.Status))
		}
		task.Status = *input.Status
		task.UpdatedAt = time.Now().UTC()
		statusChanged = true
	}

	updated, err := uc.repo.Task().Update(ctx, task)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to update task", goerr.V(TaskIDKey, id))
	}

	if !statusChanged {
		uc.publish(ctx, model.NewTaskUpdated(updated))
		return updated, nil
	}

	record, err := uc.logActivity(ctx, updated.Owner, "updated task status to "+updated.Status.String(), updated.Title)
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, model.NewTaskUpdated(updated), model.NewActivity(record))

	return updated, nil
}

type CreateBlockerInput struct {
	TaskID      *int64
	Description string
	Reporter    string
}

// CreateBlocker persists a new blocker and broadcasts BLOCKER_CREATED +
// ACTIVITY_NEW. TaskID is a weak reference and is not validated against
// existing tasks.
func (uc *BoardUseCase) CreateBlocker(ctx context.Context, input *CreateBlockerInput) (*model.Blocker, error) {
	if input.Description == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "blocker description is required")
	}
	if input.Reporter == "" {
		return nil, goerr.Wrap(ErrInvalidInput, "blocker reporter is required")
	}

	created, err := uc.repo.Blocker().Create(ctx, &model.Blocker{
		TaskID:      input.TaskID,
		Description: input.Description,
		Reporter:    input.Reporter,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create blocker")
	}

	record, err := uc.logActivity(ctx, created.Reporter, "flagged a blocker", created.Description)
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, model.NewBlockerCreated(created), model.NewActivity(record))

	return created, nil
}

// ResolveBlocker marks a blocker resolved and broadcasts BLOCKER_RESOLVED
// (payload: id only) + ACTIVITY_NEW. Resolving an already-resolved blocker
// is a no-op that still logs and re-emits events, so retried requests stay
// safe.
func (uc *BoardUseCase) ResolveBlocker(ctx context.Context, id int64, actingUser string) error {
	resolved, err := uc.repo.Blocker().Resolve(ctx, id)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return goerr.Wrap(ErrBlockerNotFound, "blocker not found", goerr.V(BlockerIDKey, id))
		}
		return goerr.Wrap(err, "failed to resolve blocker", goerr.V(BlockerIDKey, id))
	}

	user := actingUser
	if user == "" {
		user = model.SystemUser
	}
	record, err := uc.logActivity(ctx, user, "resolved a blocker", resolved.Description)
	if err != nil {
		return err
	}

	uc.publish(ctx, model.NewBlockerResolved(resolved.ID), model.NewActivity(record))

	return nil
}

func (uc *BoardUseCase) ListTasks(ctx context.Context) ([]*model.Task, error) {
	tasks, err := uc.repo.Task().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list tasks")
	}
	return tasks, nil
}

func (uc *BoardUseCase) ListActiveBlockers(ctx context.Context) ([]*model.Blocker, error) {
	blockers, err := uc.repo.Blocker().ListActive(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list blockers")
	}
	return blockers, nil
}

func (uc *BoardUseCase) ListRecentActivity(ctx context.Context) ([]*model.ActivityRecord, error) {
	records, err := uc.repo.Activity().ListRecent(ctx, activityLimit)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list activity")
	}
	return records, nil
}

func (uc *BoardUseCase) ListSettings(ctx context.Context) (map[string]string, error) {
	settings, err := uc.repo.Setting().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list settings")
	}
	return settings, nil
}

// PutSetting upserts a key/value pair. Settings changes are not broadcast.
func (uc *BoardUseCase) PutSetting(ctx context.Context, key, value string) error {
	if key == "" {
		return goerr.Wrap(ErrInvalidInput, "setting key is required")
	}
	if err := uc.repo.Setting().Put(ctx, key, value); err != nil {
		return goerr.Wrap(err, "failed to put setting", goerr.V("key", key))
	}
	return nil
}

// Snapshot bundles the bulk reads a client performs at session start.
func (uc *BoardUseCase) Snapshot(ctx context.Context) (*model.Snapshot, error) {
	tasks, err := uc.ListTasks(ctx)
	if err != nil {
		return nil, err
	}
	blockers, err := uc.ListActiveBlockers(ctx)
	if err != nil {
		return nil, err
	}
	activity, err := uc.ListRecentActivity(ctx)
	if err != nil {
		return nil, err
	}
	settings, err := uc.ListSettings(ctx)
	if err != nil {
		return nil, err
	}

	return &model.Snapshot{
		Tasks:    tasks,
		Blockers: blockers,
		Activity: activity,
		Settings: settings,
	}, nil
}
