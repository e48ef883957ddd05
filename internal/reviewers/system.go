package reviewers

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for reviewer lookups.
type System interface {
	Handler() *Handler

	// List returns active reviewers, optionally narrowed to a specialty.
	List(ctx context.Context, specialty string) ([]Reviewer, error)
	Find(ctx context.Context, id uuid.UUID) (*Reviewer, error)
}
