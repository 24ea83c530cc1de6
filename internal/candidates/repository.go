package candidates

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/JaimeStill/umai/internal/works"
	"github.com/JaimeStill/umai/pkg/pagination"
	"github.com/JaimeStill/umai/pkg/query"
	"github.com/JaimeStill/umai/pkg/repository"
)

var errorMap = repository.ErrorMap{NotFound: ErrNotFound, Invalid: ErrInvalidStatus}

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// New creates a candidate repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "candidates"),
		pagination: pagination,
		now:        time.Now,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Candidate], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort...).
		WhereSearch(page.Search, "Title", "Creator", "EvidenceSnippet")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs, err := qb.BuildCount()
	if err != nil {
		return nil, fmt.Errorf("build candidate count: %w", err)
	}
	total, err := repository.Count(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count candidates: %w", err)
	}

	pageSQL, pageArgs, err := qb.BuildPage(page.Page, page.PageSize)
	if err != nil {
		return nil, fmt.Errorf("build candidate page: %w", err)
	}
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanCandidate)
	if err != nil {
		return nil, fmt.Errorf("query candidates: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Candidate, error) {
	q, args, err := query.NewBuilder(projection).BuildSingle("ID", id)
	if err != nil {
		return nil, fmt.Errorf("build candidate query: %w", err)
	}

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCandidate)
	if err != nil {
		return nil, repository.MapError(err, errorMap)
	}
	return &c, nil
}

func (r *repo) UpdateStatus(ctx context.Context, id uuid.UUID, cmd StatusCommand) (*Candidate, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q, args, err := statusStatement(id, cmd, r.now())
	if err != nil {
		return nil, fmt.Errorf("build status update: %w", err)
	}

	c, err := repository.QueryOne(ctx, r.db, q, args, scanCandidate)
	if errors.Is(err, sql.ErrNoRows) {
		// The guard excludes promoted rows; separate those from missing ones.
		existing, findErr := r.Find(ctx, id)
		if findErr != nil {
			return nil, findErr
		}
		if existing.Promoted() {
			return nil, ErrAlreadyPromoted
		}
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, repository.MapError(err, errorMap)
	}

	r.logger.Info("candidate triaged", "id", c.ID, "status", c.Status)
	return &c, nil
}

func (r *repo) Promote(ctx context.Context, id uuid.UUID, cmd PromoteCommand) (*PromoteResult, error) {
	now := r.now()

	result, err := repository.WithTx(ctx, r.db, func(tx *sql.Tx) (*PromoteResult, error) {
		q, args, err := lockStatement(id)
		if err != nil {
			return nil, fmt.Errorf("build candidate lock: %w", err)
		}

		c, err := repository.QueryOne(ctx, tx, q, args, scanCandidate)
		if err != nil {
			return nil, repository.MapError(err, errorMap)
		}

		return promote(ctx, &txStore{tx: tx, now: now}, &c, cmd.Notes, now)
	})
	if err != nil {
		return nil, err
	}

	r.logger.Info("candidate promoted", "id", result.Candidate.ID, "work_id", result.Work.ID)
	return result, nil
}

func (r *repo) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByStatus: make(map[string]int, len(Statuses))}
	for _, s := range Statuses {
		stats.ByStatus[s] = 0
	}

	q, args, err := statsStatement()
	if err != nil {
		return stats, fmt.Errorf("build candidate stats: %w", err)
	}

	type bucket struct {
		status string
		count  int
	}
	rows, err := repository.QueryMany(ctx, r.db, q, args, func(s repository.Scanner) (bucket, error) {
		var b bucket
		err := s.Scan(&b.status, &b.count)
		return b, err
	})
	if err != nil {
		return stats, fmt.Errorf("candidate stats: %w", err)
	}

	for _, b := range rows {
		stats.ByStatus[b.status] = b.count
		stats.Total += b.count
	}
	return stats, nil
}

// txStore performs promotion writes inside an open transaction.
type txStore struct {
	tx  *sql.Tx
	now time.Time
}

func (s *txStore) InsertWork(ctx context.Context, cmd works.CreateCommand) (*works.Work, error) {
	return works.Insert(ctx, s.tx, cmd, s.now)
}

func (s *txStore) MarkPromoted(ctx context.Context, c *Candidate, workID string, notes *string, now time.Time) (*Candidate, error) {
	q, args, err := promoteStatement(c.ID, workID, notes, now)
	if err != nil {
		return nil, fmt.Errorf("build promote update: %w", err)
	}

	updated, err := repository.QueryOne(ctx, s.tx, q, args, scanCandidate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAlreadyPromoted
	}
	if err != nil {
		return nil, repository.MapError(err, errorMap)
	}
	return &updated, nil
}
