package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation   = "23505"
	pgCheckViolation    = "23514"
	pgInvalidTextRepr   = "22P02"
	pgNotNullViolation  = "23502"
	pgForeignKeyMissing = "23503"
)

// ErrorMap names the domain errors that database failures translate to.
// A nil entry leaves the matching database error unchanged.
type ErrorMap struct {
	NotFound  error
	Duplicate error
	Invalid   error
}

// MapError translates database errors to domain errors.
//
//   - sql.ErrNoRows, and malformed key input (22P02), map to NotFound
//   - unique violations (23505) map to Duplicate
//   - check, not-null, and foreign key violations map to Invalid
//
// Other errors are returned unchanged.
func MapError(err error, m ErrorMap) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return or(m.NotFound, err)
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgInvalidTextRepr:
		return or(m.NotFound, err)
	case pgUniqueViolation:
		return or(m.Duplicate, err)
	case pgCheckViolation, pgNotNullViolation, pgForeignKeyMissing:
		return or(m.Invalid, err)
	}
	return err
}

func or(mapped, original error) error {
	if mapped == nil {
		return original
	}
	return mapped
}
