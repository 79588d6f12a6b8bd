package interfaces

import (
	"context"

	"github.com/secmon-lab/pulseboard/pkg/domain/model"
)

// ActivityRepository defines the interface for the append-only activity log
type ActivityRepository interface {
	// Append inserts a new activity record with auto-generated ID and timestamp
	Append(ctx context.Context, record *model.ActivityRecord) (*model.ActivityRecord, error)

	// ListRecent retrieves up to limit records ordered by created_at descending
	ListRecent(ctx context.Context, limit int) ([]*model.ActivityRecord, error)
}
