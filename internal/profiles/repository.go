package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/JaimeStill/umai/pkg/query"
	"github.com/JaimeStill/umai/pkg/repository"
)

var errorMap = repository.ErrorMap{NotFound: ErrNotFound}

type repo struct {
	db     *sql.DB
	logger *slog.Logger
}

// New creates a profile repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger) System {
	return &repo{
		db:     db,
		logger: logger.With("system", "profiles"),
	}
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Profile, error) {
	q, args, err := query.NewBuilder(projection).BuildSingle("ID", id)
	if err != nil {
		return nil, fmt.Errorf("build profile query: %w", err)
	}

	p, err := repository.QueryOne(ctx, r.db, q, args, scanProfile)
	if err != nil {
		return nil, repository.MapError(err, errorMap)
	}
	return &p, nil
}

func (r *repo) IsAdmin(ctx context.Context, userID string) (bool, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		r.logger.Warn("auth user id is not a uuid", "user_id", userID)
		return false, nil
	}

	p, err := r.Find(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup profile: %w", err)
	}
	return p.IsAdmin, nil
}
