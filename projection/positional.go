package projection

import (
	"fmt"

	"github.com/ti/memberquery/dependencies/database"
)

type positional[T any] struct {
	name    string
	columns []database.Column
	scan    func(rows database.Rows) (T, error)
}

func (p *positional[T]) Columns() []database.Column {
	out := make([]database.Column, len(p.columns))
	copy(out, p.columns)
	return out
}

func (p *positional[T]) Scan(rows database.Rows) (T, error) {
	record, err := p.scan(rows)
	if err != nil {
		var zero T
		return zero, configError(p.name, "scan: %v", err)
	}
	return record, nil
}

func typeName[T any]() string {
	var zero T
	return fmt.Sprintf("%T", zero)
}

// Positional2 a two column constructor projection.
func Positional2[A, B, T any](a Col[A], b Col[B], fn func(A, B) T) Projection[T] {
	return &positional[T]{
		name:    typeName[T](),
		columns: []database.Column{a.column(), b.column()},
		scan: func(rows database.Rows) (T, error) {
			var va A
			var vb B
			if err := rows.Scan(&va, &vb); err != nil {
				var zero T
				return zero, err
			}
			return fn(va, vb), nil
		},
	}
}

// Positional3 a three column constructor projection.
func Positional3[A, B, C, T any](a Col[A], b Col[B], c Col[C], fn func(A, B, C) T) Projection[T] {
	return &positional[T]{
		name:    typeName[T](),
		columns: []database.Column{a.column(), b.column(), c.column()},
		scan: func(rows database.Rows) (T, error) {
			var va A
			var vb B
			var vc C
			if err := rows.Scan(&va, &vb, &vc); err != nil {
				var zero T
				return zero, err
			}
			return fn(va, vb, vc), nil
		},
	}
}

// Positional5 a five column constructor projection.
func Positional5[A, B, C, D, E, T any](a Col[A], b Col[B], c Col[C], d Col[D], e Col[E],
	fn func(A, B, C, D, E) T,
) Projection[T] {
	return &positional[T]{
		name:    typeName[T](),
		columns: []database.Column{a.column(), b.column(), c.column(), d.column(), e.column()},
		scan: func(rows database.Rows) (T, error) {
			var va A
			var vb B
			var vc C
			var vd D
			var ve E
			if err := rows.Scan(&va, &vb, &vc, &vd, &ve); err != nil {
				var zero T
				return zero, err
			}
			return fn(va, vb, vc, vd, ve), nil
		},
	}
}
