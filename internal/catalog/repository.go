package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/JaimeStill/casebook/internal/workflow"
	"github.com/JaimeStill/casebook/pkg/cache"
	"github.com/JaimeStill/casebook/pkg/fault"
	"github.com/JaimeStill/casebook/pkg/query"
	"github.com/JaimeStill/casebook/pkg/repository"
)

type repo struct {
	db     *sql.DB
	cache  cache.System
	logger *slog.Logger
}

// New creates a catalog repository implementing the System interface.
// Symptom lists are cached per region.
func New(db *sql.DB, c cache.System, logger *slog.Logger) System {
	return &repo{
		db:     db,
		cache:  c,
		logger: logger.With("system", "catalog"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) Regions(ctx context.Context) ([]Region, error) {
	q, args := query.NewBuilder(regionProjection, defaultSort...).Build()

	regions, err := repository.QueryMany(ctx, r.db, q, args, scanRegion)
	if err != nil {
		return nil, fault.Persistence(fmt.Errorf("query regions: %w", err))
	}
	return regions, nil
}

func (r *repo) Region(ctx context.Context, id string) (*Region, error) {
	q, args := query.NewBuilder(regionProjection).BuildSingle("ID", id)

	region, err := repository.QueryOne(ctx, r.db, q, args, scanRegion)
	if err != nil {
		return nil, fault.Persistence(repository.MapError(err, ErrRegionNotFound, fault.ErrConflict))
	}
	return &region, nil
}

func (r *repo) Symptoms(ctx context.Context, regionID string) ([]Symptom, error) {
	key := "catalog:symptoms:" + regionID

	var cached []Symptom
	hit, err := r.cache.Get(ctx, key, &cached)
	if err != nil {
		r.logger.Warn("symptom cache read failed", "region", regionID, "error", err)
	}
	if hit {
		return cached, nil
	}

	if _, err := r.Region(ctx, regionID); err != nil {
		return nil, err
	}

	q, args := query.
		NewBuilder(symptomProjection, defaultSort...).
		WhereEquals("RegionID", regionID).
		Build()

	symptoms, err := repository.QueryMany(ctx, r.db, q, args, scanSymptom)
	if err != nil {
		return nil, fault.Persistence(fmt.Errorf("query symptoms: %w", err))
	}

	if err := r.cache.Set(ctx, key, symptoms); err != nil {
		r.logger.Warn("symptom cache write failed", "region", regionID, "error", err)
	}
	return symptoms, nil
}

func (r *repo) Resolve(ctx context.Context, regionID string, ids []string) ([]workflow.Symptom, error) {
	symptoms, err := r.Symptoms(ctx, regionID)
	if err != nil {
		return nil, err
	}
	return Match(symptoms, regionID, ids)
}

// Match picks the symptoms named by ids from a region's catalog, keeping the
// order of ids. An ID outside the catalog is a validation error.
func Match(catalog []Symptom, regionID string, ids []string) ([]workflow.Symptom, error) {
	byID := make(map[string]Symptom, len(catalog))
	for _, s := range catalog {
		byID[s.ID] = s
	}

	out := make([]workflow.Symptom, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok || s.RegionID != regionID {
			return nil, fault.Invalid("symptoms", fmt.Sprintf("unknown symptom %q for region %q", id, regionID))
		}
		out = append(out, s.Choice())
	}
	return out, nil
}
