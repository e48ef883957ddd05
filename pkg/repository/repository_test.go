package repository_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/JaimeStill/casebook/pkg/fault"
	"github.com/JaimeStill/casebook/pkg/repository"
)

var (
	errNotFound  = errors.New("submission not found")
	errDuplicate = errors.New("report already submitted")
)

func TestMapError(t *testing.T) {
	other := errors.New("connection reset")
	serialization := &pgconn.PgError{Code: "40001"}

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, errNotFound},
		{"wrapped no rows", fmt.Errorf("lock: %w", sql.ErrNoRows), errNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"other pg error passes through", serialization, serialization},
		{"other error passes through", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.err, errNotFound, errDuplicate)
			if tt.want == nil {
				assert.NoError(t, got)
				return
			}
			assert.Same(t, tt.want, got)
		})
	}
}

func TestMapErrorConstraintViolations(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		field string
	}{
		{"foreign key", &pgconn.PgError{Code: "23503", ConstraintName: "sessions_region_id_fkey"}, "sessions_region_id_fkey"},
		{"check", &pgconn.PgError{Code: "23514", ConstraintName: "sessions_step_check"}, "sessions_step_check"},
		{"unnamed constraint", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23503"}), "request"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := repository.MapError(tt.err, errNotFound, errDuplicate)
			assert.ErrorIs(t, got, fault.ErrValidation)
			assert.Equal(t, []string{tt.field}, fault.Fields(got))
			assert.Same(t, got, fault.Persistence(got))
		})
	}
}

type result struct {
	rows int64
	err  error
}

func (r result) LastInsertId() (int64, error) { return 0, nil }
func (r result) RowsAffected() (int64, error) { return r.rows, r.err }

type executor struct {
	res  sql.Result
	err  error
	args []any
}

func (e *executor) ExecContext(_ context.Context, _ string, args ...any) (sql.Result, error) {
	e.args = args
	return e.res, e.err
}

func TestExecExpectOne(t *testing.T) {
	t.Run("one row", func(t *testing.T) {
		e := &executor{res: result{rows: 1}}
		assert.NoError(t, repository.ExecExpectOne(context.Background(), e, "UPDATE", "id", 3))
		assert.Equal(t, []any{"id", 3}, e.args)
	})

	t.Run("no rows is ErrNoRows", func(t *testing.T) {
		e := &executor{res: result{rows: 0}}
		assert.ErrorIs(t, repository.ExecExpectOne(context.Background(), e, "UPDATE"), sql.ErrNoRows)
	})

	t.Run("exec error", func(t *testing.T) {
		boom := errors.New("boom")
		e := &executor{err: boom}
		assert.ErrorIs(t, repository.ExecExpectOne(context.Background(), e, "UPDATE"), boom)
	})

	t.Run("rows affected error", func(t *testing.T) {
		boom := errors.New("unsupported")
		e := &executor{res: result{err: boom}}
		assert.ErrorIs(t, repository.ExecExpectOne(context.Background(), e, "UPDATE"), boom)
	})
}
