package mock

import (
	"fmt"

	"github.com/ti/memberquery/dependencies/database"
)

type rows struct {
	values [][]any
	pos    int
	closed bool
}

func (r *rows) Next() bool {
	if r.closed || r.pos+1 >= len(r.values) {
		return false
	}
	r.pos++
	return true
}

func (r *rows) Err() error {
	return nil
}

func (r *rows) Close() error {
	r.closed = true
	return nil
}

// Scan copies the current row into dest like database/sql does, nil goes into pointer
// destinations only.
func (r *rows) Scan(dest ...any) error {
	if r.closed || r.pos < 0 || r.pos >= len(r.values) {
		return ErrNoRow
	}
	row := r.values[r.pos]
	if len(dest) != len(row) {
		return NewInvalidArgumentError("scan", fmt.Sprintf("expected %d destination arguments, not %d", len(row), len(dest)))
	}
	for i, d := range dest {
		if err := database.Assign(d, row[i]); err != nil {
			return NewInvalidArgumentError("scan", fmt.Sprintf("column %d: %s", i, err))
		}
	}
	return nil
}

