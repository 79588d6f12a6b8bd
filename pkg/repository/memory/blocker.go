package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulseboard/pkg/domain/model"
)

type blockerRepository struct {
	mu       sync.RWMutex
	blockers map[int64]*model.Blocker
	nextID   int64
}

func newBlockerRepository() *blockerRepository {
	return &blockerRepository{
		blockers: make(map[int64]*model.Blocker),
		nextID:   1,
	}
}

func copyBlocker(b *model.Blocker) *model.Blocker {
	copied := *b
	if b.TaskID != nil {
		taskID := *b.TaskID
		copied.TaskID = &taskID
	}
	return &copied
}

func (r *blockerRepository) Create(ctx context.Context, blocker *model.Blocker) (*model.Blocker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	created := copyBlocker(blocker)
	created.ID = r.nextID
	created.Resolved = false
	created.CreatedAt = time.Now().UTC()
	r.nextID++

	r.blockers[created.ID] = created
	return copyBlocker(created), nil
}

func (r *blockerRepository) Get(ctx context.Context, id int64) (*model.Blocker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	blocker, exists := r.blockers[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "blocker not found", goerr.V("id", id))
	}

	return copyBlocker(blocker), nil
}

func (r *blockerRepository) ListActive(ctx context.Context) ([]*model.Blocker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*model.Blocker, 0, len(r.blockers))
	for _, b := range r.blockers {
		if b.Resolved {
			continue
		}
		result = append(result, copyBlocker(b))
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	return result, nil
}

func (r *blockerRepository) Resolve(ctx context.Context, id int64) (*model.Blocker, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	blocker, exists := r.blockers[id]
	if !exists {
		return nil, goerr.Wrap(ErrNotFound, "blocker not found", goerr.V("id", id))
	}

	blocker.Resolved = true
	return copyBlocker(blocker), nil
}
