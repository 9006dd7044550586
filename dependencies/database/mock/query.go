package mock

import (
	"context"
	"reflect"
	"sort"
	"strings"

	"github.com/ti/memberquery/dependencies/database"
)

// Query implements the content query for mock database
func (m *Mock) Query(ctx context.Context, q *database.Query) (database.Rows, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.queries.Add(1)
	for _, col := range q.Select {
		if _, _, err := q.Source.Resolve(col.Field); err != nil {
			return nil, NewInvalidArgumentError("select", err.Error())
		}
	}
	for _, o := range q.Order {
		if _, _, err := q.Source.Resolve(o.Field); err != nil {
			return nil, NewInvalidArgumentError("order", err.Error())
		}
	}
	joined, err := m.filter(q.Source, q.Where)
	if err != nil {
		return nil, err
	}
	if len(q.Order) > 0 {
		sortRows(joined, q.Order)
	}
	if q.Offset > 0 {
		if q.Offset >= len(joined) {
			joined = nil
		} else {
			joined = joined[q.Offset:]
		}
	}
	if q.Limit > 0 && len(joined) > q.Limit {
		joined = joined[:q.Limit]
	}
	out := &rows{pos: -1, values: make([][]any, 0, len(joined))}
	for _, row := range joined {
		values := make([]any, len(q.Select))
		for i, col := range q.Select {
			values[i] = row[normalizeField(col.Field)]
		}
		out.values = append(out.values, values)
	}
	return out, nil
}

// Count counts the joined rows matching the condition
func (m *Mock) Count(ctx context.Context, source database.Join, condition database.C) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	m.counts.Add(1)
	joined, err := m.filter(source, condition)
	if err != nil {
		return 0, err
	}
	return int64(len(joined)), nil
}

// filter joins the two tables and keeps the rows matching all conditions, the joined row
// keys are qualified by the table alias: m.age, t.name.
func (m *Mock) filter(source database.Join, condition database.C) ([]map[string]any, error) {
	for _, cond := range condition {
		if _, _, err := source.Resolve(cond.Key); err != nil {
			return nil, NewInvalidArgumentError("condition", err.Error())
		}
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.tables == nil {
		return nil, ErrClosed
	}
	var from, to []map[string]any
	if t := m.tables[source.From.Name]; t != nil {
		from = t.data
	}
	if t := m.tables[source.To.Name]; t != nil {
		to = t.data
	}
	fromKey := toSnakeCase(source.FromKey)
	toKey := toSnakeCase(source.ToKey)
	var result []map[string]any
	for _, left := range from {
		matched := false
		for _, right := range to {
			key := left[fromKey]
			if key == nil || !reflect.DeepEqual(key, right[toKey]) {
				continue
			}
			matched = true
			row := merge(source, left, right)
			if matchConditions(row, condition) {
				result = append(result, row)
			}
		}
		if !matched && source.Outer {
			row := merge(source, left, nil)
			if matchConditions(row, condition) {
				result = append(result, row)
			}
		}
	}
	return result, nil
}

func merge(source database.Join, left, right map[string]any) map[string]any {
	row := make(map[string]any, len(left)+len(right))
	for k, v := range left {
		row[source.From.Alias+"."+k] = v
	}
	for k, v := range right {
		row[source.To.Alias+"."+k] = v
	}
	return row
}

func normalizeField(field string) string {
	alias, column := database.SplitField(field)
	if alias == "" {
		return toSnakeCase(column)
	}
	return alias + "." + toSnakeCase(column)
}

// matchCondition checks if a row matches the given condition, a null value never matches
func matchCondition(row map[string]any, cond database.CE) bool {
	value := row[normalizeField(cond.Key)]
	if value == nil {
		return false
	}
	want := normalize(cond.Value)
	switch cond.C {
	case database.Eq:
		return reflect.DeepEqual(value, want)
	case database.Ne:
		return !reflect.DeepEqual(value, want)
	case database.Gt:
		return compareValues(value, want) > 0
	case database.Gte:
		return compareValues(value, want) >= 0
	case database.Lt:
		return compareValues(value, want) < 0
	case database.Lte:
		return compareValues(value, want) <= 0
	case database.In:
		return containsValue(value, cond.Value)
	case database.Nin:
		return !containsValue(value, cond.Value)
	case database.Contains:
		s, ok := value.(string)
		sub, okSub := want.(string)
		return ok && okSub && strings.Contains(s, sub)
	default:
		return false
	}
}

// compareValues compares two normalized values
func compareValues(a, b any) int {
	switch v1 := a.(type) {
	case int64:
		switch v2 := b.(type) {
		case int64:
			return compareOrdered(v1, v2)
		case float64:
			return compareOrdered(float64(v1), v2)
		}
	case float64:
		switch v2 := b.(type) {
		case float64:
			return compareOrdered(v1, v2)
		case int64:
			return compareOrdered(v1, float64(v2))
		}
	case string:
		if v2, ok := b.(string); ok {
			return strings.Compare(v1, v2)
		}
	case bool:
		if v2, ok := b.(bool); ok && v1 != v2 {
			if v1 {
				return 1
			}
			return -1
		}
	}
	return 0
}

func compareOrdered[T int64 | float64](a, b T) int {
	if a > b {
		return 1
	} else if a < b {
		return -1
	}
	return 0
}

// containsValue checks if value is in the slice
func containsValue(value any, slice any) bool {
	sliceValue := reflect.ValueOf(slice)
	if sliceValue.Kind() != reflect.Slice {
		return false
	}
	for i := 0; i < sliceValue.Len(); i++ {
		if reflect.DeepEqual(value, normalize(sliceValue.Index(i).Interface())) {
			return true
		}
	}
	return false
}

// matchConditions checks if a row matches all conditions
func matchConditions(row map[string]any, conditions database.C) bool {
	for _, cond := range conditions {
		if !matchCondition(row, cond) {
			return false
		}
	}
	return true
}

// sortRows sort the rows by the keys from left to right, the sort is stable so equal rows
// keep the insertion order.
func sortRows(data []map[string]any, orders []database.Order) {
	sort.SliceStable(data, func(i, j int) bool {
		for _, o := range orders {
			key := normalizeField(o.Field)
			a, b := data[i][key], data[j][key]
			if a == nil || b == nil {
				if a == nil && b == nil {
					continue
				}
				// a is null: it goes first unless nulls are last
				return (a == nil) != o.NullsLastFor()
			}
			c := compareValues(a, b)
			if c == 0 {
				continue
			}
			if o.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
}
