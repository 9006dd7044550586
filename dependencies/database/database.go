// Package database the read capability the search layer runs on, implemented by sql, mongo and mock.
package database

import (
	"context"
	"fmt"
	"net/url"
)

// Database the read only query engine over a join.
type Database interface {
	// Query run the content query, the rows are returned in the query order.
	Query(ctx context.Context, q *Query) (Rows, error)
	// Count the rows of source that match the conditions, no projection, ordering or paging.
	Count(ctx context.Context, source Join, condition C) (int64, error)
	Close(ctx context.Context) error
}

// Rows the projected rows of a content query, Scan follows the database/sql semantics,
// one destination pointer per selected column.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close() error
}

// New database client by uri, for exp: sqlite3://local/file::memory:, mock://local/test.
func New(ctx context.Context, uri string) (Database, error) {
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}
	d := &DB{}
	err = d.Init(ctx, u)
	if err != nil {
		return nil, err
	}
	return d.Database, nil
}

var implements = make(map[string]func(context.Context, *url.URL) (Database, error))

// RegisterImplements register implements.
func RegisterImplements(scheme string, newFN func(context.Context, *url.URL) (Database, error)) {
	implements[scheme] = newFN
}

// DB the db instance
type DB struct {
	Database
}

// Init by uri
func (d *DB) Init(ctx context.Context, u *url.URL) (err error) {
	newFN, ok := implements[u.Scheme]
	if !ok {
		return fmt.Errorf("%s not implement", u.Scheme)
	}
	d.Database, err = newFN(ctx, u)
	return err
}

// Close the db.
func (d *DB) Close(ctx context.Context) error {
	return d.Database.Close(ctx)
}
