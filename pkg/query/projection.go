// Package query builds SQL statements over a projection of table columns onto
// view property names. Statements are assembled with squirrel using
// PostgreSQL dollar placeholders.
package query

import (
	"fmt"
	"strings"
)

// ProjectionMap maps view property names to qualified column references (alias.column).
type ProjectionMap struct {
	schema     string
	table      string
	alias      string
	columns    map[string]string
	columnList []string
}

// NewProjectionMap creates a ProjectionMap for the given schema, table, and alias.
func NewProjectionMap(schema, table, alias string) *ProjectionMap {
	return &ProjectionMap{
		schema:     schema,
		table:      table,
		alias:      alias,
		columns:    make(map[string]string),
		columnList: make([]string, 0),
	}
}

// Project adds a column mapping from database column to view property name.
func (p *ProjectionMap) Project(column, viewName string) *ProjectionMap {
	qualified := p.qualify(column)
	p.columns[viewName] = qualified
	p.columnList = append(p.columnList, qualified)
	return p
}

// ProjectExpr selects format applied to the qualified column, e.g.
// "array_to_json(%s)". Filters and sorting on viewName still target the bare
// column.
func (p *ProjectionMap) ProjectExpr(format, column, viewName string) *ProjectionMap {
	qualified := p.qualify(column)
	p.columns[viewName] = qualified
	p.columnList = append(p.columnList, fmt.Sprintf(format, qualified))
	return p
}

// Alias returns the table alias.
func (p *ProjectionMap) Alias() string {
	return p.alias
}

// Name returns the schema-qualified table name without alias.
func (p *ProjectionMap) Name() string {
	return p.schema + "." + p.table
}

// Table returns the schema-qualified table with its alias (schema.table alias).
func (p *ProjectionMap) Table() string {
	return p.Name() + " " + p.alias
}

// Column returns the qualified column for a view property name, or the input if not mapped.
func (p *ProjectionMap) Column(viewName string) string {
	if col, ok := p.columns[viewName]; ok {
		return col
	}
	return viewName
}

// Columns returns the select list as a comma-separated string.
func (p *ProjectionMap) Columns() string {
	return strings.Join(p.columnList, ", ")
}

// ColumnList returns the select list as a slice.
func (p *ProjectionMap) ColumnList() []string {
	return p.columnList
}

func (p *ProjectionMap) qualify(column string) string {
	return p.alias + "." + column
}
