package sessions

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/casebook/internal/workflow"
	"github.com/JaimeStill/casebook/pkg/pagination"
)

// System defines the public contract for session persistence.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Record], error)

	Find(ctx context.Context, id uuid.UUID) (*Record, error)

	// Create stores a newly confirmed session.
	Create(ctx context.Context, snap workflow.Snapshot) (*Record, error)

	// Save writes snap if the stored revision still equals revision and the
	// session is not abandoned. Otherwise it returns ErrStale or ErrAbandoned
	// and nothing is written.
	Save(ctx context.Context, snap workflow.Snapshot, revision int64) (*Record, error)

	// Abandon marks the session abandoned under the same revision check.
	Abandon(ctx context.Context, id uuid.UUID, generation, revision int64) error
}
