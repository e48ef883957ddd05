package reports

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/casebook/internal/workflow"
	"github.com/JaimeStill/casebook/pkg/pagination"
)

// System defines the public contract for report operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Report], error)

	Find(ctx context.Context, id uuid.UUID) (*Report, error)
	FindBySession(ctx context.Context, sessionID uuid.UUID) (*Report, error)

	// Draft fetches educational content for the selected diagnosis, composes
	// the report, and saves it. Content failures degrade to an empty block.
	Draft(ctx context.Context, s *workflow.Session) (*Report, error)

	// Save upserts r by session while the stored report is still a draft.
	Save(ctx context.Context, r Report) (*Report, error)

	// UpdateNotes replaces the learner notes of a draft report.
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (*Report, error)

	// Export returns the report PDF, rendering and storing it on first use.
	Export(ctx context.Context, id uuid.UUID) (*Export, error)
}
