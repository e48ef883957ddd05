package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/casebook/internal/workflow"
	"github.com/JaimeStill/casebook/pkg/fault"
	"github.com/JaimeStill/casebook/pkg/pagination"
	"github.com/JaimeStill/casebook/pkg/query"
	"github.com/JaimeStill/casebook/pkg/repository"
)

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a session repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "sessions"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(
	ctx context.Context,
	page pagination.PageRequest,
	filters Filters,
) (*pagination.PageResult[Record], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "RegionName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fault.Persistence(fmt.Errorf("count sessions: %w", err))
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	records, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanRecord)
	if err != nil {
		return nil, fault.Persistence(fmt.Errorf("query sessions: %w", err))
	}

	result := pagination.NewPageResult(records, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Record, error) {
	return find(ctx, r.db, id)
}

func find(ctx context.Context, q repository.Querier, id uuid.UUID) (*Record, error) {
	sqlText, args := query.NewBuilder(projection).BuildSingle("ID", id)

	rec, err := repository.QueryOne(ctx, q, sqlText, args, scanRecord)
	if err != nil {
		return nil, fault.Persistence(repository.MapError(err, ErrNotFound, fault.ErrConflict))
	}
	return &rec, nil
}

func (r *repo) Create(ctx context.Context, snap workflow.Snapshot) (*Record, error) {
	args, err := writeArgs(snap)
	if err != nil {
		return nil, err
	}
	s := snap.Session

	q := `
		INSERT INTO sessions(id, step, generation, region_id, symptoms, transcript, diagnoses, reviewer_id, completed_at, learner_id, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	rec, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*Record, error) {
		if _, err := tx.ExecContext(ctx, q, append(args, s.LearnerID, s.StartedAt)...); err != nil {
			return nil, err
		}
		return find(ctx, tx, s.ID)
	})
	if err != nil {
		return nil, fault.Persistence(repository.MapError(err, ErrNotFound, fault.ErrConflict))
	}

	r.logger.Info("session created", "id", rec.ID, "learner_id", rec.LearnerID, "region", rec.Region.ID)
	return rec, nil
}

func (r *repo) Save(ctx context.Context, snap workflow.Snapshot, revision int64) (*Record, error) {
	args, err := writeArgs(snap)
	if err != nil {
		return nil, err
	}

	q := `
		UPDATE sessions
		SET step = $2, generation = $3, region_id = $4, symptoms = $5, transcript = $6,
			diagnoses = $7, reviewer_id = $8, completed_at = $9,
			revision = revision + 1, updated_at = NOW()
		WHERE id = $1 AND revision = $10 AND abandoned_at IS NULL`

	rec, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*Record, error) {
		if err := repository.ExecExpectOne(ctx, tx, q, append(args, revision)...); err != nil {
			return nil, err
		}
		return find(ctx, tx, snap.Session.ID)
	})
	if err != nil {
		return nil, r.conflict(ctx, snap.Session.ID, err)
	}

	r.logger.Debug("session saved", "id", rec.ID, "step", rec.Step, "revision", rec.Revision)
	return rec, nil
}

func (r *repo) Abandon(ctx context.Context, id uuid.UUID, generation, revision int64) error {
	q := `
		UPDATE sessions
		SET generation = $2, abandoned_at = NOW(), revision = revision + 1, updated_at = NOW()
		WHERE id = $1 AND revision = $3 AND abandoned_at IS NULL`

	if err := repository.ExecExpectOne(ctx, r.db, q, id, generation, revision); err != nil {
		return r.conflict(ctx, id, err)
	}

	r.logger.Info("session abandoned", "id", id)
	return nil
}

// conflict explains a conditional write that matched no row.
func (r *repo) conflict(ctx context.Context, id uuid.UUID, err error) error {
	if !errors.Is(err, sql.ErrNoRows) {
		return fault.Persistence(err)
	}

	current, findErr := r.Find(ctx, id)
	if findErr != nil {
		return findErr
	}
	if current.Abandoned() {
		return ErrAbandoned
	}
	return ErrStale
}

func writeArgs(snap workflow.Snapshot) ([]any, error) {
	s := snap.Session
	if s == nil || s.Region == nil {
		return nil, ErrNoSession
	}

	symptoms, err := encode(s.Symptoms)
	if err != nil {
		return nil, fault.Persistence(fmt.Errorf("encode symptoms: %w", err))
	}
	transcript, err := encode(s.Transcript)
	if err != nil {
		return nil, fault.Persistence(fmt.Errorf("encode transcript: %w", err))
	}
	diagnoses, err := encode(s.Diagnoses)
	if err != nil {
		return nil, fault.Persistence(fmt.Errorf("encode diagnoses: %w", err))
	}

	return []any{
		s.ID,
		string(snap.Step),
		snap.Generation,
		s.Region.ID,
		symptoms,
		transcript,
		diagnoses,
		snap.ReviewerID,
		s.CompletedAt,
	}, nil
}
