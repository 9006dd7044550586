package sql

import (
	"context"

	"github.com/ti/memberquery/dependencies/database"
	"github.com/ti/memberquery/dependencies/sql/adapters/postgres"
)

func (s *SQL) statement(q *Query) string {
	query := q.String()
	if s.scheme == schemePostgres {
		return postgres.ConvertSQL(query)
	}
	return query
}

// Query run the content query, the rows scan like database/sql rows.
func (s *SQL) Query(ctx context.Context, q *database.Query) (database.Rows, error) {
	query, err := BuildQuery(q)
	if err != nil {
		return nil, err
	}
	rows, err := s.QueryContext(ctx, s.statement(query), query.Arguments...)
	if err != nil {
		return nil, convertError(s.scheme, err)
	}
	return &sqlRows{Rows: rows, scheme: s.scheme}, nil
}

// Count the matching rows of the join.
func (s *SQL) Count(ctx context.Context, source database.Join, conds database.C) (total int64, err error) {
	query, err := BuildCount(source, conds)
	if err != nil {
		return 0, err
	}
	err = s.QueryRowContext(ctx, s.statement(query), query.Arguments...).Scan(&total)
	if err != nil {
		return 0, convertError(s.scheme, err)
	}
	return total, nil
}

type sqlRows struct {
	database.Rows
	scheme string
}

// Err the iteration error converted like the query errors.
func (r *sqlRows) Err() error {
	if err := r.Rows.Err(); err != nil {
		return convertError(r.scheme, err)
	}
	return nil
}
