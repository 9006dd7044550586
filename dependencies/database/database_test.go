package database

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var memberTeam = Join{
	From:    Table{Name: "member", Alias: "m"},
	To:      Table{Name: "team", Alias: "t"},
	FromKey: "team_id",
	ToKey:   "id",
}

func TestResolve(t *testing.T) {
	table, column, err := memberTeam.Resolve("m.age")
	require.NoError(t, err)
	assert.Equal(t, "member", table.Name)
	assert.Equal(t, "age", column)

	table, column, err = memberTeam.Resolve("t.name")
	require.NoError(t, err)
	assert.Equal(t, "team", table.Name)
	assert.Equal(t, "name", column)

	_, _, err = memberTeam.Resolve("age")
	assert.True(t, errors.Is(err, ErrUnknownField))
	_, _, err = memberTeam.Resolve("x.age")
	assert.True(t, errors.Is(err, ErrUnknownField))
}

func TestWithOuter(t *testing.T) {
	outer := memberTeam.WithOuter(true)
	assert.True(t, outer.Outer)
	assert.False(t, memberTeam.Outer)
}

func TestParseSort(t *testing.T) {
	orders := ParseSort([]string{"-m.age", "", "m.username!", "t.name^", "-"})
	assert.Equal(t, []Order{
		{Field: "m.age", Desc: true},
		{Field: "m.username", Nulls: NullsLast},
		{Field: "t.name", Nulls: NullsFirst},
	}, orders)
}

func TestNullsLastFor(t *testing.T) {
	assert.False(t, Order{Field: "m.age"}.NullsLastFor())
	assert.True(t, Order{Field: "m.age", Desc: true}.NullsLastFor())
	assert.True(t, Order{Field: "m.age", Nulls: NullsLast}.NullsLastFor())
	assert.False(t, Order{Field: "m.age", Desc: true, Nulls: NullsFirst}.NullsLastFor())
}

func TestConditionString(t *testing.T) {
	c := C{{Key: "m.age", Value: 15, C: Gte}, {Key: "t.name", Value: "teamB"}}
	assert.Equal(t, "[m.age >= 15][t.name = teamB]", c.String())
	assert.Equal(t, "condition(99)", Condition(99).String())
}

func TestAssign(t *testing.T) {
	var i int
	require.NoError(t, Assign(&i, int64(30)))
	assert.Equal(t, 30, i)

	var s *string
	require.NoError(t, Assign(&s, "member1"))
	require.NotNil(t, s)
	assert.Equal(t, "member1", *s)
	require.NoError(t, Assign(&s, nil))
	assert.Nil(t, s)

	var id *int64
	require.NoError(t, Assign(&id, int32(2)))
	assert.Equal(t, int64(2), *id)

	assert.Error(t, Assign(&i, nil))
	assert.Error(t, Assign(&s, int64(1)))
	assert.Error(t, Assign(i, int64(1)))
}

func TestNewUnknownScheme(t *testing.T) {
	_, err := New(context.Background(), "unknown://local/db")
	assert.Error(t, err)

	RegisterImplements("fake", func(_ context.Context, u *url.URL) (Database, error) {
		return nil, errors.New("fake " + u.Host)
	})
	_, err = New(context.Background(), "fake://local/db")
	assert.EqualError(t, err, "fake local")
}
