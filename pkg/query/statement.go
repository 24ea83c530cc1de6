package query

import sq "github.com/Masterminds/squirrel"

// Update starts an aliased UPDATE against the projection's table that
// returns the full projection for the changed row.
func Update(p *ProjectionMap) sq.UpdateBuilder {
	return psql.Update(p.Table()).Suffix("RETURNING " + p.Columns())
}

// Insert starts an aliased INSERT into the projection's table that returns
// the full projection for the new row.
func Insert(p *ProjectionMap) sq.InsertBuilder {
	return psql.Insert(p.Name() + " AS " + p.Alias()).Suffix("RETURNING " + p.Columns())
}
