// Package predicate composes the optional filters of a search condition into one conjunction.
//
// Every filterable field gets a fragment builder that turns an Optional value into either an
// inert fragment or a single comparison. And keeps the active fragments, an empty conjunction
// is the identity and filters nothing. Adding a filter means writing one builder and passing
// its fragment to And.
package predicate

import (
	"strings"

	"github.com/ti/memberquery/dependencies/database"
)

// Fragment one atomic filter, or nothing.
type Fragment struct {
	cond   database.CE
	active bool
}

// Inert the fragment that does not constrain anything.
func Inert() Fragment {
	return Fragment{}
}

// Atom a fragment holding one condition.
func Atom(cond database.CE) Fragment {
	return Fragment{cond: cond, active: true}
}

// Active reports whether the fragment constrains the result.
func (f Fragment) Active() bool {
	return f.active
}

// Condition the condition of an active fragment.
func (f Fragment) Condition() (database.CE, bool) {
	return f.cond, f.active
}

// Build the generic fragment builder: absent gives Inert, present gives field <c> value.
func Build[T any](field string, c database.Condition, v Optional[T]) Fragment {
	value, ok := v.Get()
	if !ok {
		return Inert()
	}
	return Atom(database.CE{Key: field, Value: value, C: c})
}

// Eq field = v
func Eq[T any](field string, v Optional[T]) Fragment {
	return Build(field, database.Eq, v)
}

// Contains field contains the substring v
func Contains(field string, v Optional[string]) Fragment {
	return Build(field, database.Contains, v)
}

// Goe field >= v
func Goe[T any](field string, v Optional[T]) Fragment {
	return Build(field, database.Gte, v)
}

// Loe field <= v
func Loe[T any](field string, v Optional[T]) Fragment {
	return Build(field, database.Lte, v)
}

// Predicate an immutable conjunction of conditions, the zero value is the identity.
type Predicate struct {
	conds database.C
}

// And the conjunction of the active fragments, the order of the fragments does not change the matched rows.
func And(fragments ...Fragment) Predicate {
	var conds database.C
	for _, f := range fragments {
		if cond, ok := f.Condition(); ok {
			conds = append(conds, cond)
		}
	}
	return Predicate{conds: conds}
}

// And the conjunction of this predicate and more fragments.
func (p Predicate) And(fragments ...Fragment) Predicate {
	more := And(fragments...)
	conds := make(database.C, 0, len(p.conds)+len(more.conds))
	conds = append(conds, p.conds...)
	conds = append(conds, more.conds...)
	return Predicate{conds: conds}
}

// IsIdentity reports whether the predicate matches every row.
func (p Predicate) IsIdentity() bool {
	return len(p.conds) == 0
}

// Conditions a copy of the conditions for a backend, nil for the identity.
func (p Predicate) Conditions() database.C {
	if len(p.conds) == 0 {
		return nil
	}
	out := make(database.C, len(p.conds))
	copy(out, p.conds)
	return out
}

// References reports whether a condition targets a field qualified by alias.
func (p Predicate) References(alias string) bool {
	prefix := alias + "."
	for _, c := range p.conds {
		if strings.HasPrefix(c.Key, prefix) {
			return true
		}
	}
	return false
}

func (p Predicate) String() string {
	if p.IsIdentity() {
		return "true"
	}
	return p.conds.String()
}
