// Package postgres the postgres specifics of the sql backend.
package postgres

import (
	"strconv"
	"strings"
)

// ConvertSQL convert sql written with backtick identifiers and ? placeholders to pgsql
func ConvertSQL(query string) string {
	query = strings.ReplaceAll(query, "`", `"`)
	return replaceQuestionMarks(query)
}

// replaceQuestionMarks replace ? with $n outside of string literals.
func replaceQuestionMarks(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	count := 0
	inLiteral := false
	for _, r := range query {
		switch {
		case r == '\'':
			inLiteral = !inLiteral
		case r == '?' && !inLiteral:
			count++
			b.WriteString("$" + strconv.Itoa(count))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
