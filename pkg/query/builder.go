package query

import (
	"reflect"
	"strings"

	sq "github.com/Masterminds/squirrel"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// SortField represents a single column in an ORDER BY clause.
// Field is the logical field name (mapped via ProjectionMap).
type SortField struct {
	Field      string
	Descending bool
}

// Builder accumulates filter conditions and ordering for SELECT statements
// over a ProjectionMap.
type Builder struct {
	projection  *ProjectionMap
	conditions  []sq.Sqlizer
	orderBy     []SortField
	defaultSort []SortField
}

// NewBuilder creates a Builder for the given projection with optional default sort fields.
func NewBuilder(projection *ProjectionMap, defaultSort ...SortField) *Builder {
	return &Builder{
		projection:  projection,
		defaultSort: defaultSort,
	}
}

// ParseSortFields parses a comma-separated sort string. Fields prefixed with
// "-" are descending. Example: "title,-updatedAt". Returns nil for empty input.
func ParseSortFields(s string) []SortField {
	if s == "" {
		return nil
	}

	var fields []SortField
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, desc := strings.CutPrefix(part, "-")
		fields = append(fields, SortField{Field: name, Descending: desc})
	}
	return fields
}

// OrderByFields sets the sort order, overriding default sort fields.
func (b *Builder) OrderByFields(fields []SortField) *Builder {
	b.orderBy = fields
	return b
}

// WhereEquals adds an equality condition. No-op for nil values.
func (b *Builder) WhereEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	b.conditions = append(b.conditions, sq.Eq{b.projection.Column(field): deref(value)})
	return b
}

// WhereNotEquals adds an inequality condition. No-op for nil values.
func (b *Builder) WhereNotEquals(field string, value any) *Builder {
	if isNil(value) {
		return b
	}
	b.conditions = append(b.conditions, sq.NotEq{b.projection.Column(field): deref(value)})
	return b
}

// WhereSearch adds an OR of case-insensitive matches across fields.
// No-op for nil or empty search.
func (b *Builder) WhereSearch(search *string, fields ...string) *Builder {
	if search == nil || *search == "" || len(fields) == 0 {
		return b
	}

	pattern := "%" + *search + "%"
	or := make(sq.Or, len(fields))
	for i, field := range fields {
		or[i] = sq.ILike{b.projection.Column(field): pattern}
	}
	b.conditions = append(b.conditions, or)
	return b
}

// Build returns a SELECT with the current conditions and ordering.
func (b *Builder) Build() (string, []any, error) {
	return b.ordered(b.selectRows()).ToSql()
}

// BuildCount returns a COUNT(*) query with the current conditions.
func (b *Builder) BuildCount() (string, []any, error) {
	return b.filtered(psql.Select("COUNT(*)").From(b.projection.Table())).ToSql()
}

// BuildPage returns a SELECT with ordering, limit, and offset for a 1-based page.
func (b *Builder) BuildPage(page, pageSize int) (string, []any, error) {
	offset := (page - 1) * pageSize
	return b.ordered(b.selectRows()).
		Limit(uint64(pageSize)).
		Offset(uint64(offset)).
		ToSql()
}

// BuildSingle returns a SELECT for the single record whose idField equals id.
// Accumulated conditions are ignored.
func (b *Builder) BuildSingle(idField string, id any) (string, []any, error) {
	return psql.Select(b.projection.ColumnList()...).
		From(b.projection.Table()).
		Where(sq.Eq{b.projection.Column(idField): id}).
		ToSql()
}

func (b *Builder) selectRows() sq.SelectBuilder {
	return b.filtered(psql.Select(b.projection.ColumnList()...).From(b.projection.Table()))
}

func (b *Builder) filtered(s sq.SelectBuilder) sq.SelectBuilder {
	for _, c := range b.conditions {
		s = s.Where(c)
	}
	return s
}

func (b *Builder) ordered(s sq.SelectBuilder) sq.SelectBuilder {
	fields := b.orderBy
	if len(fields) == 0 {
		fields = b.defaultSort
	}

	for _, f := range fields {
		dir := " ASC"
		if f.Descending {
			dir = " DESC"
		}
		s = s.OrderBy(b.projection.Column(f.Field) + dir)
	}
	return s
}

func isNil(value any) bool {
	if value == nil {
		return true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	}
	return false
}

func deref(value any) any {
	if v := reflect.ValueOf(value); v.Kind() == reflect.Pointer {
		return v.Elem().Interface()
	}
	return value
}
