package submissions

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/casebook/internal/reports"
	"github.com/JaimeStill/casebook/internal/reviewers"
	"github.com/JaimeStill/casebook/pkg/fault"
	"github.com/JaimeStill/casebook/pkg/pagination"
	"github.com/JaimeStill/casebook/pkg/query"
	"github.com/JaimeStill/casebook/pkg/repository"
)

type repo struct {
	db         *sql.DB
	reports    reports.System
	reviewers  reviewers.System
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a submission repository implementing the System interface.
func New(
	db *sql.DB,
	rpt reports.System,
	rev reviewers.System,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		reports:    rpt,
		reviewers:  rev,
		logger:     logger.With("system", "submissions"),
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
) (*pagination.PageResult[Submission], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "ReportTitle", "DiagnosisName", "ReviewerName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fault.Persistence(fmt.Errorf("count submissions: %w", err))
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	list, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSubmission)
	if err != nil {
		return nil, fault.Persistence(fmt.Errorf("query submissions: %w", err))
	}

	result := pagination.NewPageResult(list, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Submission, error) {
	return find(ctx, r.db, id)
}

func find(ctx context.Context, q repository.Querier, id uuid.UUID) (*Submission, error) {
	sqlText, args := query.NewBuilder(projection).BuildSingle("ID", id)

	sub, err := repository.QueryOne(ctx, q, sqlText, args, scanSubmission)
	if err != nil {
		return nil, fault.Persistence(repository.MapError(err, ErrNotFound, ErrAlreadySubmitted))
	}
	return &sub, nil
}

func (r *repo) Latest(ctx context.Context, reportID uuid.UUID) (*Submission, error) {
	sqlText, args := query.
		NewBuilder(projection).
		WhereEquals("ReportID", reportID).
		BuildSingleOrNull()

	sub, err := repository.QueryOne(ctx, r.db, sqlText, args, scanSubmission)
	if err != nil {
		return nil, fault.Persistence(repository.MapError(err, ErrNotFound, ErrAlreadySubmitted))
	}
	return &sub, nil
}

func (r *repo) Submit(ctx context.Context, reportID, reviewerID uuid.UUID, notes string) (*Submission, error) {
	var (
		rep *reports.Report
		rev *reviewers.Reviewer
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		rep, err = r.reports.Find(gctx, reportID)
		return err
	})
	g.Go(func() error {
		var err error
		rev, err = r.reviewers.Find(gctx, reviewerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := Assignable(rep, rev); err != nil {
		return nil, err
	}

	sub, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*Submission, error) {
		if err := repository.ExecExpectOne(ctx, tx, `
			UPDATE reports
			SET status = 'submitted', submitted_at = NOW(), updated_at = NOW()
			WHERE id = $1 AND status = 'draft'`,
			rep.ID,
		); err != nil {
			return nil, err
		}

		id := uuid.New()
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO submissions(id, report_id, reviewer_id, learner_id, notes)
			VALUES ($1, $2, $3, $4, $5)`,
			id, rep.ID, rev.ID, rep.LearnerID, notes,
		); err != nil {
			return nil, err
		}

		return find(ctx, tx, id)
	})
	if err != nil {
		return nil, fault.Persistence(repository.MapError(err, reports.ErrNotDraft, ErrAlreadySubmitted))
	}

	r.logger.InfoContext(ctx, "report submitted",
		"submission_id", sub.ID,
		"report_id", sub.ReportID,
		"reviewer_id", sub.ReviewerID,
	)
	return sub, nil
}

func (r *repo) Open(ctx context.Context, id uuid.UUID) (*Submission, error) {
	sub, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*Submission, error) {
		current, err := lock(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if err := current.Reviewable(); err != nil {
			return nil, err
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE reports
			SET status = 'under_review', updated_at = NOW()
			WHERE id = $1 AND status = 'submitted'`,
			current.ReportID,
		); err != nil {
			return nil, err
		}
		return current, nil
	})
	if err != nil {
		return nil, fault.Persistence(repository.MapError(err, ErrNotFound, ErrAlreadySubmitted))
	}

	r.logger.InfoContext(ctx, "submission opened", "id", sub.ID, "report_id", sub.ReportID)
	return sub, nil
}

func (r *repo) Review(ctx context.Context, id uuid.UUID, cmd ReviewCommand) (*Submission, error) {
	cmd.Normalize()
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	feedback, err := json.Marshal(cmd.Feedback)
	if err != nil {
		return nil, fault.Persistence(fmt.Errorf("encode feedback: %w", err))
	}

	sub, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*Submission, error) {
		current, err := lock(ctx, tx, id)
		if err != nil {
			return nil, err
		}
		if err := current.Reviewable(); err != nil {
			return nil, err
		}

		if err := repository.ExecExpectOne(ctx, tx, `
			UPDATE submissions
			SET status = 'reviewed', outcome = $2, feedback = $3, reviewed_at = NOW()
			WHERE id = $1`,
			id, string(cmd.Outcome), string(feedback),
		); err != nil {
			return nil, err
		}

		if err := repository.ExecExpectOne(ctx, tx, `
			UPDATE reports
			SET status = $2, updated_at = NOW()
			WHERE id = $1 AND status IN ('submitted', 'under_review')`,
			current.ReportID, string(cmd.Outcome.ReportStatus()),
		); err != nil {
			return nil, err
		}

		return find(ctx, tx, id)
	})
	if err != nil {
		return nil, fault.Persistence(repository.MapError(err, ErrNotFound, ErrAlreadySubmitted))
	}

	r.logger.InfoContext(ctx, "submission reviewed", "id", sub.ID, "outcome", cmd.Outcome)
	return sub, nil
}

// lock loads a submission and holds its row for the rest of the transaction.
func lock(ctx context.Context, tx *sql.Tx, id uuid.UUID) (*Submission, error) {
	sqlText, args := query.NewBuilder(projection).BuildSingle("ID", id)
	sub, err := repository.QueryOne(ctx, tx, sqlText+" FOR UPDATE OF sb", args, scanSubmission)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}
