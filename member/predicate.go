package member

import (
	"github.com/ti/memberquery/predicate"
)

// UsernameEq m.username = v
func UsernameEq(v predicate.Optional[string]) predicate.Fragment {
	return predicate.Eq(FieldUsername, v)
}

// UsernameContains m.username contains v
func UsernameContains(v predicate.Optional[string]) predicate.Fragment {
	return predicate.Contains(FieldUsername, v)
}

// AgeGoe m.age >= v
func AgeGoe(v predicate.Optional[int]) predicate.Fragment {
	return predicate.Goe(FieldAge, v)
}

// AgeLoe m.age <= v
func AgeLoe(v predicate.Optional[int]) predicate.Fragment {
	return predicate.Loe(FieldAge, v)
}

// TeamNameEq t.name = v
func TeamNameEq(v predicate.Optional[string]) predicate.Fragment {
	return predicate.Eq(FieldTeamName, v)
}

// Predicate the conjunction of the present fields of c.
func (c SearchCondition) Predicate() predicate.Predicate {
	return predicate.And(
		UsernameEq(c.Username),
		UsernameContains(c.UsernameContains),
		TeamNameEq(c.TeamName),
		AgeGoe(c.AgeGoe),
		AgeLoe(c.AgeLoe),
	)
}
