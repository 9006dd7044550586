package database

import (
	"errors"
	"fmt"
	"strings"
)

// Table a source table and its alias, the alias qualifies the fields of a query, for exp: m.age.
type Table struct {
	Name  string `json:"name"`
	Alias string `json:"alias"`
}

// Join the relation two tables are read through: From.FromKey = To.ToKey.
type Join struct {
	From    Table  `json:"from"`
	To      Table  `json:"to"`
	FromKey string `json:"from_key"`
	ToKey   string `json:"to_key"`
	// Outer keeps the rows of From without a matching row in To, the To fields are null.
	Outer bool `json:"outer,omitempty"`
}

// WithOuter copy of the join with the outer flag set.
func (j Join) WithOuter(outer bool) Join {
	j.Outer = outer
	return j
}

// Column one projected field and the name it is returned as.
type Column struct {
	Field string
	Name  string
}

// Query the content query over a join.
type Query struct {
	Source Join
	Where  C
	Select []Column
	Order  []Order
	Offset int
	// Limit 0 means no limit.
	Limit int
}

// ErrUnknownField the field is not qualified by one of the aliases of the join.
var ErrUnknownField = errors.New("unknown field")

// SplitField split a qualified field into alias and column, "m.age" gives "m", "age".
func SplitField(field string) (alias, column string) {
	alias, column, ok := strings.Cut(field, ".")
	if !ok {
		return "", field
	}
	return alias, column
}

// Resolve the table a qualified field belongs to.
func (j Join) Resolve(field string) (Table, string, error) {
	alias, column := SplitField(field)
	switch alias {
	case j.From.Alias:
		return j.From, column, nil
	case j.To.Alias:
		return j.To, column, nil
	}
	return Table{}, "", fmt.Errorf("%w: %s", ErrUnknownField, field)
}
