package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/secmon-lab/pulseboard/pkg/domain/model"
)

type activityRepository struct {
	mu      sync.RWMutex
	records []*model.ActivityRecord
	nextID  int64
}

func newActivityRepository() *activityRepository {
	return &activityRepository{
		nextID: 1,
	}
}

func copyActivity(a *model.ActivityRecord) *model.ActivityRecord {
	copied := *a
	return &copied
}

func (r *activityRepository) Append(ctx context.Context, record *model.ActivityRecord) (*model.ActivityRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyActivity(record)
	created.ID = r.nextID
	created.CreatedAt = time.Now().UTC()
	if created.User == "" {
		created.User = model.SystemUser
	}
	r.nextID++

	r.records = append(r.records, created)
	return copyActivity(created), nil
}

func (r *activityRepository) ListRecent(ctx context.Context, limit int) ([]*model.ActivityRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.ActivityRecord, 0, len(r.records))
	for _, rec := range r.records {
		result = append(result, copyActivity(rec))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}

	return result, nil
}
