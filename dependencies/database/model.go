package database

import (
	"fmt"
	"strings"
)

// CE the condition elements
type CE struct {
	Key   string
	Value any
	C     Condition
}

// C the conditions, all elements are joined with AND.
type C []CE

// String print the condition as string
func (c C) String() (result string) {
	for _, v := range c {
		result += fmt.Sprintf("[%s %v %v]", v.Key, v.C, v.Value)
	}
	return
}

// Condition the condition
type Condition uint8

// Condition
const (
	// Eq =
	Eq Condition = iota
	// Ne !=
	Ne
	// Lt <
	Lt
	// Lte <=
	Lte
	// Gt >
	Gt
	// Gte >=
	Gte
	// In [a,b,c]
	In
	// Nin Not in [a,b,c]
	Nin
	// Contains substring match, the value must be a string
	Contains
)

var conditionNames = [...]string{"=", "!=", "<", "<=", ">", ">=", "in", "nin", "contains"}

// String the operator symbol of the condition.
func (c Condition) String() string {
	if int(c) < len(conditionNames) {
		return conditionNames[c]
	}
	return fmt.Sprintf("condition(%d)", uint8(c))
}

// NullOrder where null values go in an ordering.
type NullOrder uint8

const (
	// NullsDefault nulls sort as the smallest value: first ascending, last descending.
	// Every backend of this module follows that rule.
	NullsDefault NullOrder = iota
	// NullsFirst nulls before any value.
	NullsFirst
	// NullsLast nulls after any value.
	NullsLast
)

// Order one ordering key.
type Order struct {
	Field string    `json:"field"`
	Desc  bool      `json:"desc,omitempty"`
	Nulls NullOrder `json:"nulls,omitempty"`
}

// NullsLastFor reports if a null value of this key must go after the non-null values.
func (o Order) NullsLastFor() bool {
	switch o.Nulls {
	case NullsLast:
		return true
	case NullsFirst:
		return false
	default:
		return o.Desc
	}
}

// ParseSort parse sort keys, "age" means age ASC, "-age" means age DESC, a "!" suffix
// means nulls last and a "^" suffix nulls first, for exp: "-m.age", "m.username!".
func ParseSort(sorts []string) []Order {
	orders := make([]Order, 0, len(sorts))
	for _, v := range sorts {
		if v == "" || v == "-" {
			continue
		}
		var o Order
		if strings.HasPrefix(v, "-") {
			o.Desc = true
			v = v[1:]
		}
		switch {
		case strings.HasSuffix(v, "!"):
			o.Nulls = NullsLast
			v = v[:len(v)-1]
		case strings.HasSuffix(v, "^"):
			o.Nulls = NullsFirst
			v = v[:len(v)-1]
		}
		o.Field = v
		orders = append(orders, o)
	}
	return orders
}
