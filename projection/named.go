package projection

import (
	"reflect"
	"strings"

	"github.com/ti/memberquery/dependencies/database"
)

// Alias a column assigned to a named struct field.
type Alias struct {
	column database.Column
	typ    reflect.Type
	field  string
}

// Bind assign the column to the struct field named field, matched by db tag then Go name.
// An empty field means the column name itself.
func Bind[V any](c Col[V], field string) Alias {
	return Alias{
		column: c.column(),
		typ:    reflect.TypeOf((*V)(nil)).Elem(),
		field:  field,
	}
}

// Named a field assignment projection into the struct T.
type Named[T any] struct {
	name    string
	aliases []Alias
	index   [][]int
}

// NewNamed validates the aliases against T: every alias must reach an exported field whose
// type accepts the column type, and no field may be assigned twice.
func NewNamed[T any](aliases ...Alias) (*Named[T], error) {
	t := reflect.TypeOf((*T)(nil)).Elem()
	name := t.String()
	if t.Kind() != reflect.Struct {
		return nil, configError(name, "named projection target must be a struct")
	}
	if len(aliases) == 0 {
		return nil, configError(name, "no column selected")
	}
	n := &Named[T]{name: name, aliases: aliases, index: make([][]int, len(aliases))}
	used := make(map[string]string, len(aliases))
	for i, a := range aliases {
		target := a.field
		if target == "" {
			target = a.column.Name
		}
		field, ok := lookupField(t, target)
		if !ok {
			return nil, configError(name, "column %s has no field %q, add an alias", a.column.Field, target)
		}
		if !field.IsExported() {
			return nil, configError(name, "field %s is not exported", field.Name)
		}
		if !a.typ.AssignableTo(field.Type) {
			return nil, configError(name, "column %s of type %s can not be assigned to field %s of type %s",
				a.column.Field, a.typ, field.Name, field.Type)
		}
		if prev, dup := used[field.Name]; dup {
			return nil, configError(name, "field %s is assigned by %s and %s", field.Name, prev, a.column.Field)
		}
		used[field.Name] = a.column.Field
		n.index[i] = field.Index
	}
	return n, nil
}

// MustNamed NewNamed that panics, for package level projections.
func MustNamed[T any](aliases ...Alias) *Named[T] {
	n, err := NewNamed[T](aliases...)
	if err != nil {
		panic(err)
	}
	return n
}

func lookupField(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag, _, _ := strings.Cut(f.Tag.Get("db"), ",")
		if tag != "" && tag == name {
			return f, true
		}
	}
	return t.FieldByName(name)
}

// Columns the selected columns in alias order.
func (n *Named[T]) Columns() []database.Column {
	out := make([]database.Column, len(n.aliases))
	for i, a := range n.aliases {
		out[i] = a.column
	}
	return out
}

// Scan the current row into a new T.
func (n *Named[T]) Scan(rows database.Rows) (T, error) {
	var record T
	dest := make([]any, len(n.aliases))
	for i, a := range n.aliases {
		dest[i] = reflect.New(a.typ).Interface()
	}
	if err := rows.Scan(dest...); err != nil {
		return record, configError(n.name, "scan: %v", err)
	}
	rv := reflect.ValueOf(&record).Elem()
	for i := range n.aliases {
		rv.FieldByIndex(n.index[i]).Set(reflect.ValueOf(dest[i]).Elem())
	}
	return record, nil
}
