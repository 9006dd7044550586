// Package projection declares how the rows of a join query become transfer records.
//
// Two styles are offered. Positional projections pass the scanned columns to a constructor in
// declared order, the column and parameter types are checked by the compiler. Named projections
// assign each column to an explicitly aliased struct field, the mapping is checked once with
// reflection when the projection is defined.
package projection

import (
	"errors"
	"fmt"

	"github.com/ti/memberquery/dependencies/database"
)

// ErrConfig the projection does not fit the record or the rows, a programming error.
var ErrConfig = errors.New("projection configuration error")

// ConfigError a projection configuration error.
type ConfigError struct {
	Projection string
	Reason     string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrConfig, e.Projection, e.Reason)
}

// Is every ConfigError is an ErrConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrConfig
}

func configError(projection, format string, args ...any) error {
	return &ConfigError{Projection: projection, Reason: fmt.Sprintf(format, args...)}
}

// Projection the selected columns of a query and the way one row becomes a T.
type Projection[T any] interface {
	Columns() []database.Column
	// Scan the current row of rows.
	Scan(rows database.Rows) (T, error)
}

// Col a typed column, T is the Go type the column is scanned into.
type Col[T any] struct {
	Field string
	Name  string
}

// Column a typed column of a qualified field, the output name is the column part of the field.
func Column[T any](field string) Col[T] {
	_, name := database.SplitField(field)
	return Col[T]{Field: field, Name: name}
}

// As the same column returned under another name.
func (c Col[T]) As(name string) Col[T] {
	c.Name = name
	return c
}

func (c Col[T]) column() database.Column {
	return database.Column{Field: c.Field, Name: c.Name}
}

// All scan every row and close rows, the first error aborts the whole read.
func All[T any](p Projection[T], rows database.Rows) (out []T, err error) {
	defer func() {
		if errClose := rows.Close(); errClose != nil && err == nil {
			err = errClose
		}
	}()
	for rows.Next() {
		record, errScan := p.Scan(rows)
		if errScan != nil {
			return nil, errScan
		}
		out = append(out, record)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
