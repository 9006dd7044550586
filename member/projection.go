package member

import (
	"github.com/ti/memberquery/projection"
)

// MemberTeam projects the join into MemberTeamDTO.
var MemberTeam = projection.Positional5(
	projection.Column[int64](FieldID).As("member_id"),
	projection.Column[*string](FieldUsername),
	projection.Column[int](FieldAge),
	projection.Column[*int64](FieldTeamID).As("team_id"),
	projection.Column[*string](FieldTeamName).As("team_name"),
	func(id int64, username *string, age int, teamID *int64, teamName *string) MemberTeamDTO {
		return MemberTeamDTO{MemberID: id, Username: username, Age: age, TeamID: teamID, TeamName: teamName}
	},
)

// Members projects the join into MemberDTO.
var Members = projection.Positional2(
	projection.Column[*string](FieldUsername),
	projection.Column[int](FieldAge),
	func(username *string, age int) MemberDTO {
		return MemberDTO{Username: username, Age: age}
	},
)

// Users projects the username into the Name field of UserDTO.
var Users = projection.MustNamed[UserDTO](
	projection.Bind(projection.Column[*string](FieldUsername).As("name"), "name"),
	projection.Bind(projection.Column[int](FieldAge), ""),
)
