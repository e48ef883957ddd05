package reports

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"github.com/iancoleman/strcase"

	"github.com/JaimeStill/casebook/internal/diagnosis"
	"github.com/JaimeStill/casebook/internal/workflow"
	"github.com/JaimeStill/casebook/pkg/cache"
	"github.com/JaimeStill/casebook/pkg/fault"
	"github.com/JaimeStill/casebook/pkg/formatting"
	"github.com/JaimeStill/casebook/pkg/pagination"
	"github.com/JaimeStill/casebook/pkg/query"
	"github.com/JaimeStill/casebook/pkg/repository"
	"github.com/JaimeStill/casebook/pkg/storage"
)

type repo struct {
	db         *sql.DB
	storage    storage.System
	cache      cache.System
	generator  diagnosis.Generator
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a report repository implementing the System interface.
func New(
	db *sql.DB,
	store storage.System,
	c cache.System,
	generator diagnosis.Generator,
	logger *slog.Logger,
	pagination pagination.Config,
) System {
	return &repo{
		db:         db,
		storage:    store,
		cache:      c,
		generator:  generator,
		logger:     logger.With("system", "reports"),
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
) (*pagination.PageResult[Report], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "DiagnosisName")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs := qb.BuildCount()
	var total int
	if err := r.db.QueryRowContext(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, fault.Persistence(fmt.Errorf("count reports: %w", err))
	}

	pageSQL, pageArgs := qb.BuildPage(page.Page, page.PageSize)
	list, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanReport)
	if err != nil {
		return nil, fault.Persistence(fmt.Errorf("query reports: %w", err))
	}

	result := pagination.NewPageResult(list, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Report, error) {
	return findBy(ctx, r.db, "ID", id)
}

func (r *repo) FindBySession(ctx context.Context, sessionID uuid.UUID) (*Report, error) {
	return findBy(ctx, r.db, "SessionID", sessionID)
}

func findBy(ctx context.Context, q repository.Querier, field string, id uuid.UUID) (*Report, error) {
	sqlText, args := query.NewBuilder(projection).BuildSingle(field, id)

	rep, err := repository.QueryOne(ctx, q, sqlText, args, scanReport)
	if err != nil {
		return nil, fault.Persistence(repository.MapError(err, ErrNotFound, ErrNotDraft))
	}
	return &rep, nil
}

func (r *repo) Draft(ctx context.Context, s *workflow.Session) (*Report, error) {
	primary, ok := s.Primary()
	if !ok {
		return nil, ErrNoSelection
	}

	content, err := r.content(ctx, primary.Name)
	if err != nil {
		r.logger.WarnContext(ctx, "educational content unavailable", "diagnosis", primary.Name, "error", err)
		content = diagnosis.Content{}
	}

	composed, err := Compose(s, content)
	if err != nil {
		return nil, err
	}
	return r.Save(ctx, composed)
}

// content returns educational content for a diagnosis, cached by the
// snake_case form of its name.
func (r *repo) content(ctx context.Context, name string) (diagnosis.Content, error) {
	key := "content:" + strcase.ToSnake(name)

	var cached diagnosis.Content
	hit, err := r.cache.Get(ctx, key, &cached)
	if err != nil {
		r.logger.Warn("content cache read failed", "key", key, "error", err)
	}
	if hit {
		return cached, nil
	}

	content, err := r.generator.Content(ctx, name)
	if err != nil {
		return diagnosis.Content{}, err
	}

	if !content.Empty() {
		if err := r.cache.Set(ctx, key, content); err != nil {
			r.logger.Warn("content cache write failed", "key", key, "error", err)
		}
	}
	return content, nil
}

func (r *repo) Save(ctx context.Context, rep Report) (*Report, error) {
	if err := rep.Validate(); err != nil {
		return nil, err
	}

	soap, err := json.Marshal(rep.SOAP)
	if err != nil {
		return nil, fault.Persistence(fmt.Errorf("encode soap: %w", err))
	}
	content, err := json.Marshal(rep.Content)
	if err != nil {
		return nil, fault.Persistence(fmt.Errorf("encode content: %w", err))
	}

	q := `
		INSERT INTO reports(id, session_id, learner_id, title, diagnosis_name, region, soap, content)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (session_id) DO UPDATE
		SET title = EXCLUDED.title, diagnosis_name = EXCLUDED.diagnosis_name, region = EXCLUDED.region,
			soap = EXCLUDED.soap, content = EXCLUDED.content, export_key = NULL, updated_at = NOW()
		WHERE reports.status = 'draft'
		RETURNING id`

	args := []any{
		uuid.New(),
		rep.SessionID,
		rep.LearnerID,
		rep.Title,
		rep.DiagnosisName,
		rep.Region,
		string(soap),
		string(content),
	}

	var stale *string
	saved, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*Report, error) {
		err := tx.QueryRowContext(ctx, "SELECT export_key FROM reports WHERE session_id = $1", rep.SessionID).Scan(&stale)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}

		var id uuid.UUID
		if err := tx.QueryRowContext(ctx, q, args...).Scan(&id); err != nil {
			return nil, err
		}
		return findBy(ctx, tx, "ID", id)
	})
	if err != nil {
		return nil, fault.Persistence(repository.MapError(err, ErrNotDraft, ErrNotDraft))
	}

	r.dropExport(ctx, stale)
	r.logger.InfoContext(ctx, "report saved", "id", saved.ID, "session_id", saved.SessionID, "diagnosis", saved.DiagnosisName)
	return saved, nil
}

func (r *repo) UpdateNotes(ctx context.Context, id uuid.UUID, notes string) (*Report, error) {
	var stale *string
	updated, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*Report, error) {
		var status Status
		err := tx.QueryRowContext(ctx,
			"SELECT status, export_key FROM reports WHERE id = $1 FOR UPDATE", id,
		).Scan(&status, &stale)
		if err != nil {
			return nil, err
		}

		current := Report{Status: status}
		if err := current.Editable(); err != nil {
			return nil, err
		}

		if err := repository.ExecExpectOne(ctx, tx,
			"UPDATE reports SET notes = $2, export_key = NULL, updated_at = NOW() WHERE id = $1",
			id, notes,
		); err != nil {
			return nil, err
		}
		return findBy(ctx, tx, "ID", id)
	})
	if err != nil {
		return nil, fault.Persistence(repository.MapError(err, ErrNotFound, ErrNotDraft))
	}

	r.dropExport(ctx, stale)
	return updated, nil
}

func (r *repo) Export(ctx context.Context, id uuid.UUID) (*Export, error) {
	rep, err := r.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	filename := Slug(rep.Title) + ".pdf"

	if rep.ExportKey != nil {
		data, err := r.download(ctx, *rep.ExportKey)
		if err == nil {
			pages, err := PageCount(data)
			if err != nil {
				return nil, err
			}
			return &Export{Key: *rep.ExportKey, Filename: filename, Pages: pages, Data: data}, nil
		}
		if !errors.Is(err, storage.ErrNotFound) {
			return nil, fault.Persistence(err)
		}
		r.logger.WarnContext(ctx, "stored export missing, rendering again", "id", id, "key", *rep.ExportKey)
	}

	data, err := Render(*rep)
	if err != nil {
		return nil, err
	}
	pages, err := PageCount(data)
	if err != nil {
		return nil, err
	}

	key := r.storage.Key("reports", rep.ID.String(), filename)
	if err := r.storage.Upload(ctx, key, bytes.NewReader(data), "application/pdf"); err != nil {
		return nil, fault.Persistence(fmt.Errorf("upload export: %w", err))
	}

	if err := repository.ExecExpectOne(ctx, r.db,
		"UPDATE reports SET export_key = $2 WHERE id = $1", rep.ID, key,
	); err != nil {
		return nil, fault.Persistence(repository.MapError(err, ErrNotFound, ErrNotDraft))
	}

	r.logger.InfoContext(ctx, "report exported", "id", rep.ID, "key", key, "pages", pages, "size", formatting.FormatBytes(int64(len(data)), 1))
	return &Export{Key: key, Filename: filename, Pages: pages, Data: data}, nil
}

func (r *repo) download(ctx context.Context, key string) ([]byte, error) {
	rc, err := r.storage.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// dropExport deletes a superseded export blob. Failures only leave an
// orphaned blob behind.
func (r *repo) dropExport(ctx context.Context, key *string) {
	if key == nil || *key == "" {
		return
	}
	if err := r.storage.Delete(ctx, *key); err != nil && !errors.Is(err, storage.ErrNotFound) {
		r.logger.Warn("stale export delete failed", "key", *key, "error", err)
	}
}

// Slug converts a title into a lowercase, hyphenated file name stem.
func Slug(title string) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, title)

	slug := strcase.ToKebab(strings.Join(strings.Fields(clean), " "))
	if slug == "" {
		return "report"
	}
	return slug
}
