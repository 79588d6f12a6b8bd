package memory

import (
	"context"
	"maps"
	"sync"
)

type settingRepository struct {
	mu       sync.RWMutex
	settings map[string]string
}

func newSettingRepository() *settingRepository {
	return &settingRepository{
		settings: make(map[string]string),
	}
}

func (r *settingRepository) Get(ctx context.Context, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	value, ok := r.settings[key]
	return value, ok, nil
}

func (r *settingRepository) Put(ctx context.Context, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.settings[key] = value
	return nil
}

func (r *settingRepository) List(ctx context.Context) (map[string]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return maps.Clone(r.settings), nil
}
