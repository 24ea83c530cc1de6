package repository_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JaimeStill/umai/pkg/repository"
)

var (
	errNotFound  = errors.New("not found")
	errDuplicate = errors.New("duplicate")
	errInvalid   = errors.New("invalid")
)

func TestMapError(t *testing.T) {
	m := repository.ErrorMap{NotFound: errNotFound, Duplicate: errDuplicate, Invalid: errInvalid}
	other := errors.New("connection refused")

	tests := []struct {
		name string
		err  error
		want error
	}{
		{"nil", nil, nil},
		{"no rows", sql.ErrNoRows, errNotFound},
		{"wrapped no rows", fmt.Errorf("find: %w", sql.ErrNoRows), errNotFound},
		{"bad uuid", &pgconn.PgError{Code: "22P02"}, errNotFound},
		{"unique", &pgconn.PgError{Code: "23505"}, errDuplicate},
		{"check", &pgconn.PgError{Code: "23514"}, errInvalid},
		{"not null", &pgconn.PgError{Code: "23502"}, errInvalid},
		{"other", other, other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := repository.MapError(tt.err, m); got != tt.want {
				t.Errorf("MapError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestMapErrorUnmappedPassesThrough(t *testing.T) {
	err := repository.MapError(sql.ErrNoRows, repository.ErrorMap{})
	if !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("got %v, want sql.ErrNoRows", err)
	}
}

func TestMapErrorOtherPgCode(t *testing.T) {
	err := repository.MapError(&pgconn.PgError{Code: "40001"}, repository.ErrorMap{NotFound: errNotFound})

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "40001" {
		t.Errorf("got %v, want original pg error", err)
	}
}
