package interfaces

import "context"

// SettingRepository defines the interface for the keyed settings store
type SettingRepository interface {
	// Get retrieves the value for a key. Returns ok=false if the key is absent.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Put writes a key/value pair, replacing any existing value
	Put(ctx context.Context, key, value string) error

	// List retrieves all settings as a key to value map
	List(ctx context.Context) (map[string]string, error)
}
