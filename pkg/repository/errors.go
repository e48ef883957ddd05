package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/casebook/pkg/fault"
)

const (
	pgForeignKeyCode   = "23503"
	pgDuplicateKeyCode = "23505"
	pgCheckCode        = "23514"
)

// MapError translates database errors to domain errors.
// sql.ErrNoRows becomes notFoundErr and a unique violation becomes
// duplicateErr. Foreign key and check violations become validation faults
// keyed by constraint name. Other errors are returned unchanged.
func MapError(err error, notFoundErr, duplicateErr error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFoundErr
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgDuplicateKeyCode:
		return duplicateErr
	case pgForeignKeyCode:
		return fault.Invalid(constraintField(pgErr), "references a record that does not exist")
	case pgCheckCode:
		return fault.Invalid(constraintField(pgErr), "violates a data constraint")
	}

	return err
}

func constraintField(pgErr *pgconn.PgError) string {
	if pgErr.ConstraintName != "" {
		return pgErr.ConstraintName
	}
	return "request"
}
