package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ti/memberquery/dependencies/database"
	"go.mongodb.org/mongo-driver/bson"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var memberTeam = database.Join{
	From:    database.Table{Name: "member", Alias: "m"},
	To:      database.Table{Name: "team", Alias: "t"},
	FromKey: "team_id",
	ToKey:   "id",
}

func TestMatch(t *testing.T) {
	match, err := Match(memberTeam, nil)
	require.NoError(t, err)
	assert.Nil(t, match)

	match, err = Match(memberTeam, database.C{{Key: "t.name", Value: "teamB"}})
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "t.name", Value: "teamB"}}, match)

	match, err = Match(memberTeam, database.C{
		{Key: "m.age", Value: 15, C: database.Gte},
		{Key: "m.username", Value: "a.b", C: database.Contains},
	})
	require.NoError(t, err)
	assert.Equal(t, bson.D{{Key: "$and", Value: bson.A{
		bson.D{{Key: "age", Value: bson.D{{Key: "$ne", Value: nil}}}},
		bson.D{{Key: "age", Value: bson.D{{Key: "$gte", Value: 15}}}},
		bson.D{{Key: "username", Value: bson.D{{Key: "$ne", Value: nil}}}},
		bson.D{{Key: "username", Value: bson.D{{Key: "$regex", Value: `a\.b`}}}},
	}}}, match)
}

func TestMatchInvalid(t *testing.T) {
	_, err := Match(memberTeam, database.C{{Key: "x.age", Value: 1}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = Match(memberTeam, database.C{{Key: "m.age", Value: 1, C: database.In}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = Match(memberTeam, database.C{{Key: "m.username", Value: 1, C: database.Contains}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestPipeline(t *testing.T) {
	pipeline, err := Pipeline(&database.Query{
		Source: memberTeam.WithOuter(true),
		Where:  database.C{{Key: "m.age", Value: 10, C: database.Gt}},
		Select: []database.Column{{Field: "m.id"}, {Field: "t.name"}},
		Order:  []database.Order{{Field: "m.age", Desc: true}, {Field: "m.username", Nulls: database.NullsLast}},
		Offset: 3,
		Limit:  3,
	})
	require.NoError(t, err)
	require.Len(t, pipeline, 8)

	stages := make([]string, len(pipeline))
	for i, stage := range pipeline {
		stages[i] = stage.(bson.D)[0].Key
	}
	assert.Equal(t, []string{"$lookup", "$unwind", "$match", "$addFields", "$sort", "$skip", "$limit", "$project"}, stages)

	unwind := pipeline[1].(bson.D)[0].Value.(bson.D)
	assert.Equal(t, true, unwind[1].Value)

	sortDoc := pipeline[4].(bson.D)[0].Value.(bson.D)
	assert.Equal(t, bson.D{
		{Key: "_null0", Value: 1},
		{Key: "age", Value: -1},
		{Key: "_null1", Value: 1},
		{Key: "username", Value: 1},
	}, sortDoc)

	project := pipeline[7].(bson.D)[0].Value.(bson.D)
	assert.Equal(t, "c1", project[2].Key)
	assert.Equal(t, bson.D{{Key: "$ifNull", Value: bson.A{"$t.name", nil}}}, project[2].Value)
}

func TestPipelineNoPaging(t *testing.T) {
	pipeline, err := Pipeline(&database.Query{
		Source: memberTeam,
		Select: []database.Column{{Field: "m.id"}},
		Order:  []database.Order{{Field: "m.id"}},
	})
	require.NoError(t, err)
	require.Len(t, pipeline, 5)
	sortDoc := pipeline[3].(bson.D)[0].Value.(bson.D)
	// ascending with default nulls: nulls first
	assert.Equal(t, -1, sortDoc[0].Value)

	_, err = Pipeline(&database.Query{Source: memberTeam})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestCountPipeline(t *testing.T) {
	pipeline, err := CountPipeline(memberTeam, database.C{{Key: "t.name", Value: "teamA"}})
	require.NoError(t, err)
	require.Len(t, pipeline, 4)
	assert.Equal(t, bson.D{{Key: "$count", Value: "total"}}, pipeline[3])
	assert.Equal(t, false, pipeline[1].(bson.D)[0].Value.(bson.D)[1].Value)

	pipeline, err = CountPipeline(memberTeam, nil)
	require.NoError(t, err)
	assert.Len(t, pipeline, 3)
}

func TestPlain(t *testing.T) {
	assert.Nil(t, plain(nil))
	assert.Equal(t, int32(3), plain(int32(3)))
	assert.Equal(t, "teamA", plain("teamA"))
}
