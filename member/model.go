// Package member searches the members of the member ⋈ team join by optional conditions,
// as a list or as pages with an accurate total.
package member

import (
	"github.com/ti/memberquery/dependencies/database"
	"github.com/ti/memberquery/predicate"
)

// Member a member row, a member without team has a nil TeamID.
type Member struct {
	ID       int64   `db:"id" json:"id" bson:"id"`
	Username *string `db:"username" json:"username" bson:"username"`
	Age      int     `db:"age" json:"age" bson:"age"`
	TeamID   *int64  `db:"team_id" json:"team_id" bson:"team_id"`
}

// Team a team row.
type Team struct {
	ID   int64  `db:"id" json:"id" bson:"id"`
	Name string `db:"name" json:"name" bson:"name"`
}

// SearchCondition the optional filters of a search, an absent field does not filter.
type SearchCondition struct {
	Username         predicate.Optional[string] `json:"username"`
	UsernameContains predicate.Optional[string] `json:"username_contains"`
	AgeGoe           predicate.Optional[int]    `json:"age_goe"`
	AgeLoe           predicate.Optional[int]    `json:"age_loe"`
	TeamName         predicate.Optional[string] `json:"team_name"`
}

// MemberTeamDTO one row of the join, the team fields are nil for a member without team.
type MemberTeamDTO struct {
	MemberID int64   `json:"member_id"`
	Username *string `json:"username"`
	Age      int     `json:"age"`
	TeamID   *int64  `json:"team_id"`
	TeamName *string `json:"team_name"`
}

// MemberDTO the username and age of a member.
type MemberDTO struct {
	Username *string `json:"username"`
	Age      int     `json:"age"`
}

// UserDTO a member under another field name, filled by a named projection.
type UserDTO struct {
	Name *string `db:"name" json:"name"`
	Age  int     `db:"age" json:"age"`
}

// Fields of the join.
const (
	FieldID       = "m.id"
	FieldUsername = "m.username"
	FieldAge      = "m.age"
	FieldTeamID   = "t.id"
	FieldTeamName = "t.name"
)

// Join member m joined to its team t on m.team_id = t.id.
var Join = database.Join{
	From:    database.Table{Name: "member", Alias: "m"},
	To:      database.Table{Name: "team", Alias: "t"},
	FromKey: "team_id",
	ToKey:   "id",
}
