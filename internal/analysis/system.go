package analysis

import (
	"context"

	"github.com/google/uuid"

	"github.com/JaimeStill/casebook/internal/diagnosis"
)

// System defines the learner-facing workflow operations.
type System interface {
	Handler() *Handler

	// Start confirms the first region and creates the session.
	Start(ctx context.Context, cmd StartCommand) (*View, error)
	View(ctx context.Context, id uuid.UUID) (*View, error)

	ChooseRegion(ctx context.Context, id uuid.UUID, regionID string) (*View, error)
	SetSymptoms(ctx context.Context, id uuid.UUID, symptomIDs []string) (*View, error)
	RecordExchange(ctx context.Context, id uuid.UUID, ex diagnosis.Exchange) (*View, error)
	Select(ctx context.Context, id uuid.UUID, rank int) (*View, error)
	ChooseReviewer(ctx context.Context, id uuid.UUID, reviewerID uuid.UUID) (*View, error)
	UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (*NotesResult, error)

	// Advance fires the forward transition of the current step, calling
	// the generator, composer, or submission gateway where the step needs
	// it.
	Advance(ctx context.Context, id uuid.UUID, cmd AdvanceCommand) (*View, error)
	Back(ctx context.Context, id uuid.UUID) (*View, error)
	Reset(ctx context.Context, id uuid.UUID) (*ResetResult, error)
}
