package catalog

import (
	"context"

	"github.com/JaimeStill/casebook/internal/workflow"
)

// System defines the public contract for catalog lookups.
type System interface {
	Handler() *Handler

	Regions(ctx context.Context) ([]Region, error)
	Region(ctx context.Context, id string) (*Region, error)
	Symptoms(ctx context.Context, regionID string) ([]Symptom, error)

	// Resolve maps symptom IDs to session symptoms, rejecting any ID that
	// does not belong to the region.
	Resolve(ctx context.Context, regionID string, ids []string) ([]workflow.Symptom, error)
}
