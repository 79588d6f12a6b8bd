package interfaces

import (
	"context"

	"github.com/secmon-lab/pulseboard/pkg/domain/model"
)

// TaskRepository defines the interface for Task data access
type TaskRepository interface {
	// Create creates a new task with auto-generated ID and timestamps
	Create(ctx context.Context, task *model.Task) (*model.Task, error)

	// Get retrieves a task by ID
	Get(ctx context.Context, id int64) (*model.Task, error)

	// List retrieves all tasks ordered by updated_at descending
	List(ctx context.Context) ([]*model.Task, error)

	// Update replaces an existing task
	Update(ctx context.Context, task *model.Task) (*model.Task, error)
}
