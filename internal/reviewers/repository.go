package reviewers

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/JaimeStill/casebook/pkg/cache"
	"github.com/JaimeStill/casebook/pkg/fault"
	"github.com/JaimeStill/casebook/pkg/query"
	"github.com/JaimeStill/casebook/pkg/repository"
)

const listKey = "reviewers:active"

type repo struct {
	db     *sql.DB
	cache  cache.System
	logger *slog.Logger
}

// New creates a reviewer repository implementing the System interface.
// The active reviewer list is cached.
func New(db *sql.DB, c cache.System, logger *slog.Logger) System {
	return &repo{
		db:     db,
		cache:  c,
		logger: logger.With("system", "reviewers"),
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

func (r *repo) List(ctx context.Context, specialty string) ([]Reviewer, error) {
	all, err := r.active(ctx)
	if err != nil {
		return nil, err
	}
	return BySpecialty(all, specialty), nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Reviewer, error) {
	q, args := query.NewBuilder(projection).BuildSingle("ID", id)

	rv, err := repository.QueryOne(ctx, r.db, q, args, scanReviewer)
	if err != nil {
		return nil, fault.Persistence(repository.MapError(err, ErrNotFound, fault.ErrConflict))
	}
	return &rv, nil
}

func (r *repo) active(ctx context.Context) ([]Reviewer, error) {
	var cached []Reviewer
	hit, err := r.cache.Get(ctx, listKey, &cached)
	if err != nil {
		r.logger.Warn("reviewer cache read failed", "error", err)
	}
	if hit {
		return cached, nil
	}

	active := true
	q, args := query.
		NewBuilder(projection, defaultSort).
		WhereEquals("Active", &active).
		Build()

	list, err := repository.QueryMany(ctx, r.db, q, args, scanReviewer)
	if err != nil {
		return nil, fault.Persistence(fmt.Errorf("query reviewers: %w", err))
	}

	if err := r.cache.Set(ctx, listKey, list); err != nil {
		r.logger.Warn("reviewer cache write failed", "error", err)
	}
	return list, nil
}

// BySpecialty filters reviewers to a specialty, case-insensitively.
// An empty specialty returns the input unchanged.
func BySpecialty(list []Reviewer, specialty string) []Reviewer {
	if specialty == "" {
		return list
	}
	out := make([]Reviewer, 0, len(list))
	for _, rv := range list {
		if strings.EqualFold(rv.Specialty, specialty) {
			out = append(out, rv)
		}
	}
	return out
}
