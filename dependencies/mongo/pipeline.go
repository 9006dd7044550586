package mongo

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/ti/memberquery/dependencies/database"
	"go.mongodb.org/mongo-driver/bson"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// path the document path of a qualified field: fields of the From collection are top level,
// fields of the To collection live under the $lookup alias.
func path(source database.Join, field string) (string, error) {
	table, column, err := source.Resolve(field)
	if err != nil {
		return "", status.Error(codes.InvalidArgument, err.Error())
	}
	if table == source.From {
		return column, nil
	}
	return table.Alias + "." + column, nil
}

// joinStages $lookup the To documents and $unwind them, the outer join keeps the From
// documents without a match.
func joinStages(source database.Join) bson.A {
	return bson.A{
		bson.D{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: source.To.Name},
			{Key: "localField", Value: source.FromKey},
			{Key: "foreignField", Value: source.ToKey},
			{Key: "as", Value: source.To.Alias},
		}}},
		bson.D{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$" + source.To.Alias},
			{Key: "preserveNullAndEmptyArrays", Value: source.Outer},
		}}},
	}
}

// Match the $match document of the conditions, nil for no condition.
func Match(source database.Join, conds database.C) (bson.D, error) {
	if len(conds) == 0 {
		return nil, nil
	}
	parts := make(bson.A, 0, len(conds))
	for _, c := range conds {
		p, err := path(source, c.Key)
		if err != nil {
			return nil, err
		}
		var value any
		switch c.C {
		case database.Eq:
			value = c.Value
		case database.Ne:
			value = bson.D{{Key: "$ne", Value: c.Value}}
		case database.Lt:
			value = bson.D{{Key: "$lt", Value: c.Value}}
		case database.Lte:
			value = bson.D{{Key: "$lte", Value: c.Value}}
		case database.Gt:
			value = bson.D{{Key: "$gt", Value: c.Value}}
		case database.Gte:
			value = bson.D{{Key: "$gte", Value: c.Value}}
		case database.In, database.Nin:
			if reflect.ValueOf(c.Value).Kind() != reflect.Slice {
				return nil, status.Errorf(codes.InvalidArgument, "condition %s needs a slice", c.Key)
			}
			op := "$in"
			if c.C == database.Nin {
				op = "$nin"
			}
			value = bson.D{{Key: op, Value: c.Value}}
		case database.Contains:
			s, ok := c.Value.(string)
			if !ok {
				return nil, status.Errorf(codes.InvalidArgument, "condition %s contains needs a string", c.Key)
			}
			value = bson.D{{Key: "$regex", Value: regexp.QuoteMeta(s)}}
		default:
			return nil, status.Errorf(codes.InvalidArgument, "condition %v not supported", c.C)
		}
		// null never matches a comparison, as in sql
		if c.C != database.Eq {
			parts = append(parts, bson.D{{Key: p, Value: bson.D{{Key: "$ne", Value: nil}}}})
		}
		parts = append(parts, bson.D{{Key: p, Value: value}})
	}
	if len(parts) == 1 {
		return parts[0].(bson.D), nil
	}
	return bson.D{{Key: "$and", Value: parts}}, nil
}

func nullKey(i int) string {
	return fmt.Sprintf("_null%d", i)
}

// sortStages flag the null value of every key then sort on flag and value, so nulls go
// first or last the same way as the sql backend.
func sortStages(source database.Join, orders []database.Order) (bson.A, error) {
	if len(orders) == 0 {
		return nil, nil
	}
	flags := bson.D{}
	sortDoc := bson.D{}
	for i, o := range orders {
		p, err := path(source, o.Field)
		if err != nil {
			return nil, err
		}
		flags = append(flags, bson.E{Key: nullKey(i), Value: bson.D{{Key: "$cond", Value: bson.A{
			bson.D{{Key: "$eq", Value: bson.A{bson.D{{Key: "$ifNull", Value: bson.A{"$" + p, nil}}}, nil}}},
			1, 0,
		}}}})
		nullDir := -1
		if o.NullsLastFor() {
			nullDir = 1
		}
		dir := 1
		if o.Desc {
			dir = -1
		}
		sortDoc = append(sortDoc, bson.E{Key: nullKey(i), Value: nullDir}, bson.E{Key: p, Value: dir})
	}
	return bson.A{
		bson.D{{Key: "$addFields", Value: flags}},
		bson.D{{Key: "$sort", Value: sortDoc}},
	}, nil
}

// columnKey the output key of the i-th selected column.
func columnKey(i int) string {
	return fmt.Sprintf("c%d", i)
}

// Pipeline the aggregation of the content query.
func Pipeline(q *database.Query) (bson.A, error) {
	if len(q.Select) == 0 {
		return nil, status.Error(codes.InvalidArgument, "no column selected")
	}
	pipeline := joinStages(q.Source)
	match, err := Match(q.Source, q.Where)
	if err != nil {
		return nil, err
	}
	if match != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	sorts, err := sortStages(q.Source, q.Order)
	if err != nil {
		return nil, err
	}
	pipeline = append(pipeline, sorts...)
	if q.Offset > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$skip", Value: int64(q.Offset)}})
	}
	if q.Limit > 0 {
		pipeline = append(pipeline, bson.D{{Key: "$limit", Value: int64(q.Limit)}})
	}
	project := bson.D{{Key: "_id", Value: 0}}
	for i, c := range q.Select {
		p, errPath := path(q.Source, c.Field)
		if errPath != nil {
			return nil, errPath
		}
		project = append(project, bson.E{Key: columnKey(i), Value: bson.D{
			{Key: "$ifNull", Value: bson.A{"$" + p, nil}},
		}})
	}
	return append(pipeline, bson.D{{Key: "$project", Value: project}}), nil
}

// CountPipeline the aggregation of the count query.
func CountPipeline(source database.Join, conds database.C) (bson.A, error) {
	pipeline := joinStages(source)
	match, err := Match(source, conds)
	if err != nil {
		return nil, err
	}
	if match != nil {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: match}})
	}
	return append(pipeline, bson.D{{Key: "$count", Value: "total"}}), nil
}
