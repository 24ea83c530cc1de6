package sources

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/JaimeStill/umai/pkg/pagination"
	"github.com/JaimeStill/umai/pkg/query"
	"github.com/JaimeStill/umai/pkg/repository"
)

var errorMap = repository.ErrorMap{NotFound: ErrNotFound, Invalid: ErrInvalidWeight}

type repo struct {
	db         *sql.DB
	logger     *slog.Logger
	pagination pagination.Config
}

// New creates a source repository implementing the System interface.
func New(db *sql.DB, logger *slog.Logger, pagination pagination.Config) System {
	return &repo{
		db:         db,
		logger:     logger.With("system", "sources"),
		pagination: pagination,
	}
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger, r.pagination)
}

func (r *repo) List(ctx context.Context, page pagination.PageRequest, filters Filters) (*pagination.PageResult[Source], error) {
	page.Normalize(r.pagination)

	qb := query.
		NewBuilder(projection, defaultSort...).
		WhereSearch(page.Search, "Name")

	filters.Apply(qb)

	if len(page.Sort) > 0 {
		qb.OrderByFields(page.Sort)
	}

	countSQL, countArgs, err := qb.BuildCount()
	if err != nil {
		return nil, fmt.Errorf("build source count: %w", err)
	}
	total, err := repository.Count(ctx, r.db, countSQL, countArgs)
	if err != nil {
		return nil, fmt.Errorf("count sources: %w", err)
	}

	pageSQL, pageArgs, err := qb.BuildPage(page.Page, page.PageSize)
	if err != nil {
		return nil, fmt.Errorf("build source page: %w", err)
	}
	items, err := repository.QueryMany(ctx, r.db, pageSQL, pageArgs, scanSource)
	if err != nil {
		return nil, fmt.Errorf("query sources: %w", err)
	}

	result := pagination.NewPageResult(items, total, page.Page, page.PageSize)
	return &result, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*Source, error) {
	q, args, err := query.NewBuilder(projection).BuildSingle("ID", id)
	if err != nil {
		return nil, fmt.Errorf("build source query: %w", err)
	}

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSource)
	if err != nil {
		return nil, repository.MapError(err, errorMap)
	}
	return &s, nil
}

func (r *repo) Toggle(ctx context.Context, id uuid.UUID) (*Source, error) {
	q, args, err := toggleStatement(id)
	if err != nil {
		return nil, fmt.Errorf("build toggle: %w", err)
	}

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSource)
	if err != nil {
		return nil, repository.MapError(err, errorMap)
	}

	r.logger.Info("source toggled", "id", s.ID, "enabled", s.Enabled)
	return &s, nil
}

func (r *repo) SetWeight(ctx context.Context, id uuid.UUID, weight int) (*Source, error) {
	if err := ValidateWeight(weight); err != nil {
		return nil, err
	}

	q, args, err := weightStatement(id, weight)
	if err != nil {
		return nil, fmt.Errorf("build weight update: %w", err)
	}

	s, err := repository.QueryOne(ctx, r.db, q, args, scanSource)
	if err != nil {
		return nil, repository.MapError(err, errorMap)
	}

	r.logger.Info("source weight updated", "id", s.ID, "quality_weight", s.QualityWeight)
	return &s, nil
}

func (r *repo) Stats(ctx context.Context) (Stats, error) {
	var s Stats

	q, args, err := statsStatement()
	if err != nil {
		return s, fmt.Errorf("build source stats: %w", err)
	}
	if err := r.db.QueryRowContext(ctx, q, args...).Scan(&s.Total, &s.Enabled); err != nil {
		return s, fmt.Errorf("source stats: %w", err)
	}
	return s, nil
}

func toggleStatement(id uuid.UUID) (string, []any, error) {
	return query.Update(projection).
		Set("enabled", sq.Expr("NOT enabled")).
		Where(sq.Eq{projection.Column("ID"): id}).
		ToSql()
}

func weightStatement(id uuid.UUID, weight int) (string, []any, error) {
	return query.Update(projection).
		Set("quality_weight", weight).
		Where(sq.Eq{projection.Column("ID"): id}).
		ToSql()
}

func statsStatement() (string, []any, error) {
	return sq.Select("COUNT(*)", "COUNT(*) FILTER (WHERE "+projection.Column("Enabled")+")").
		From(projection.Table()).
		ToSql()
}
