package submissions

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/casebook/pkg/pagination"
)

// System defines the public contract for submission operations.
type System interface {
	Handler() *Handler

	List(
		ctx context.Context,
		page pagination.PageRequest,
		filters Filters,
	) (*pagination.PageResult[Submission], error)

	Find(ctx context.Context, id uuid.UUID) (*Submission, error)

	// Latest returns the most recent submission of a report.
	Latest(ctx context.Context, reportID uuid.UUID) (*Submission, error)

	// Submit marks the report submitted and assigns it to the reviewer in
	// one transaction.
	Submit(ctx context.Context, reportID, reviewerID uuid.UUID, notes string) (*Submission, error)

	// Open records that the reviewer started reading; the report moves to
	// under_review.
	Open(ctx context.Context, id uuid.UUID) (*Submission, error)

	// Review records the verdict and moves the report to the outcome.
	Review(ctx context.Context, id uuid.UUID, cmd ReviewCommand) (*Submission, error)
}
