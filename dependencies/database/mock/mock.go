package mock

import (
	"context"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/ti/memberquery/dependencies/database"
)

func init() {
	database.RegisterImplements("mock", func(ctx context.Context, u *url.URL) (database.Database, error) {
		m := &Mock{}
		return m, m.Init(ctx, u)
	})
}

// Mock is an in-memory database implementation for testing
type Mock struct {
	mu              sync.RWMutex
	tables          map[string]*table
	defaultDatabase string
	queries         atomic.Int64
	counts          atomic.Int64
}

type table struct {
	data []map[string]any
}

// New creates a new mock database instance
func New(ctx context.Context, uri string) (*Mock, error) {
	m := &Mock{}
	u, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}
	return m, m.Init(ctx, u)
}

// Init initializes the mock database from URL
// URL format: mock://host/database
func (m *Mock) Init(_ context.Context, u *url.URL) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tables = make(map[string]*table)

	if u.Path == "" || u.Path == "/" {
		return NewInvalidArgumentError("uri_path", "database name not specified in mock URI")
	}
	m.defaultDatabase = strings.TrimPrefix(u.Path, "/")
	return nil
}

// Close clears all data
func (m *Mock) Close(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables = nil
	return nil
}

// Stats the number of content and count queries served since the last ResetStats.
func (m *Mock) Stats() (queries, counts int64) {
	return m.queries.Load(), m.counts.Load()
}

// ResetStats reset the query counters.
func (m *Mock) ResetStats() {
	m.queries.Store(0)
	m.counts.Store(0)
}

// Insert inserts one struct or a slice of structs, it is the fixture path of the mock,
// the search layer never writes.
func (m *Mock) Insert(_ context.Context, tableName string, docs any) (count int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.tables == nil {
		return 0, ErrClosed
	}
	t := m.tables[tableName]
	if t == nil {
		t = &table{}
		m.tables[tableName] = t
	}
	v := reflect.ValueOf(docs)
	if v.Kind() == reflect.Ptr && v.Elem().Kind() == reflect.Slice {
		v = v.Elem()
	}
	if v.Kind() != reflect.Slice {
		row, errMap := structToMap(docs)
		if errMap != nil {
			return 0, errMap
		}
		t.data = append(t.data, row)
		return 1, nil
	}
	for i := 0; i < v.Len(); i++ {
		row, errMap := structToMap(v.Index(i).Interface())
		if errMap != nil {
			return count, errMap
		}
		t.data = append(t.data, row)
		count++
	}
	return count, nil
}

// toSnakeCase converts camelCase or PascalCase to snake_case
// Examples:
//   - teamId -> team_id
//   - UserName -> user_name
//   - HTTPResponse -> http_response
func toSnakeCase(s string) string {
	if s == "" {
		return s
	}
	var result strings.Builder
	result.Grow(len(s) + 5)
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			prevLower := s[i-1] >= 'a' && s[i-1] <= 'z'
			nextLower := i+1 < len(s) && s[i+1] >= 'a' && s[i+1] <= 'z'
			if prevLower || nextLower {
				result.WriteByte('_')
			}
		}
		result.WriteRune(r)
	}
	return strings.ToLower(result.String())
}

// fieldName the column name of a struct field: db tag, json tag, then the Go name.
func fieldName(field reflect.StructField) string {
	for _, key := range []string{"db", "json"} {
		if tag := field.Tag.Get(key); tag != "" && tag != "-" {
			name, _, _ := strings.Cut(tag, ",")
			if name != "" {
				return toSnakeCase(name)
			}
		}
	}
	return toSnakeCase(field.Name)
}

// structToMap converts a struct to a row, pointers are stored dereferenced or as nil.
func structToMap(data any) (map[string]any, error) {
	v := reflect.ValueOf(data)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("data must be a struct or struct pointer, got %T", data)
	}
	result := make(map[string]any)
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() || field.Tag.Get("db") == "-" {
			continue
		}
		result[fieldName(field)] = normalizeValue(v.Field(i))
	}
	return result, nil
}

// normalizeValue stores every integer as int64 and every float as float64 so values compare across types.
func normalizeValue(v reflect.Value) any {
	for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
		if v.IsNil() {
			return nil
		}
		v = v.Elem()
	}
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(v.Uint())
	case reflect.Float32, reflect.Float64:
		return v.Float()
	default:
		return v.Interface()
	}
}

func normalize(value any) any {
	if value == nil {
		return nil
	}
	return normalizeValue(reflect.ValueOf(value))
}
