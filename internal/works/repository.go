package works

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/JaimeStill/umai/pkg/pagination"
	"github.com/JaimeStill/umai/pkg/query"
	"github.com/JaimeStill/umai/pkg/repository"
)

var errorMap = repository.ErrorMap{
	NotFound:  ErrNotFound,
	Duplicate: ErrDuplicate,
	Invalid:   ErrInvalidWork,
}

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
	now        func() time.Time
}

// New creates a work repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "works"),
		pagination: pagination,
		now:        time.Now,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Work], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort).
		WhereSearch(page.Search, "Title", "Creator")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs, err := qb.BuildCount()
	if err != nil {
		return nil, fmt.Errorf("build work count: %w", err)
	}
	total, err := repository.Count(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count works: %w", err)
	}

	pageSQL, pageArgs, err := qb.BuildPage(page.Page, page.PageSize)
	if err != nil {
		return nil, fmt.Errorf("build work page: %w", err)
	}
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanWork)
	if err != nil {
		return nil, fmt.Errorf("query works: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id string) (*Work, error) {
	q, args, err := query.NewBuilder(projection).BuildSingle("ID", id)
	if err != nil {
		return nil, fmt.Errorf("build work query: %w", err)
	}

	w, err := repository.QueryOne(ctx, r.db, q, args, scanWork)
	if err != nil {
		return nil, repository.MapError(err, errorMap)
	}
	return &w, nil
}

func (r *repo) Save(ctx context.Context, id string, cmd SaveCommand) (*Work, error) {
	w, err := r.update(ctx, id, cmd, false)
	if err != nil {
		return nil, err
	}
	r.logger.Info("work saved", "id", w.ID, "score_total", w.ScoreTotal)
	return w, nil
}

func (r *repo) Publish(ctx context.Context, id string, cmd SaveCommand) (*Work, error) {
	w, err := r.update(ctx, id, cmd, true)
	if err != nil {
		return nil, err
	}
	r.logger.Info("work published", "id", w.ID)
	return w, nil
}

func (r *repo) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{ByStatus: make(map[string]int, len(Statuses))}
	for _, s := range Statuses {
		stats.ByStatus[s] = 0
	}

	q, args, err := statsStatement()
	if err != nil {
		return stats, fmt.Errorf("build work stats: %w", err)
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
		return stats, fmt.Errorf("work stats: %w", err)
	}

	for _, b := range rows {
		stats.ByStatus[b.status] = b.count
		stats.Total += b.count
	}
	return stats, nil
}

func (r *repo) update(ctx context.Context, id string, cmd SaveCommand, publish bool) (*Work, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	q, args, err := saveStatement(id, cmd, r.now(), publish)
	if err != nil {
		return nil, fmt.Errorf("build work update: %w", err)
	}

	w, err := repository.QueryOne(ctx, r.db, q, args, scanWork)
	if err != nil {
		return nil, repository.MapError(err, errorMap)
	}
	return &w, nil
}

// Insert creates a work through q, which may be a pool or an open
// transaction, and returns the stored row.
func Insert(ctx context.Context, q repository.Querier, cmd CreateCommand, now time.Time) (*Work, error) {
	if cmd.Title == "" {
		return nil, ErrInvalidTitle
	}

	stmt, args, err := insertStatement(cmd, now)
	if err != nil {
		return nil, fmt.Errorf("build work insert: %w", err)
	}

	w, err := repository.QueryOne(ctx, q, stmt, args, scanWork)
	if err != nil {
		return nil, repository.MapError(err, errorMap)
	}
	return &w, nil
}
