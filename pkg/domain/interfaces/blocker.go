package interfaces

import (
	"context"

	"github.com/secmon-lab/pulseboard/pkg/domain/model"
)

// BlockerRepository defines the interface for Blocker data access
type BlockerRepository interface {
	// Create creates a new blocker with auto-generated ID and timestamp
	Create(ctx context.Context, blocker *model.Blocker) (*model.Blocker, error)

	// Get retrieves a blocker by ID
	Get(ctx context.Context, id int64) (*model.Blocker, error)

	// ListActive retrieves unresolved blockers ordered by created_at descending
	ListActive(ctx context.Context) ([]*model.Blocker, error)

	// Resolve marks a blocker as resolved. Resolving is monotonic: an
	// already-resolved blocker stays resolved and no error is returned.
	Resolve(ctx context.Context, id int64) (*model.Blocker, error)
}
