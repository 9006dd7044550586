package mongo

import (
	"context"
	"fmt"

	"github.com/ti/memberquery/dependencies/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Query run the content query as an aggregation on the From collection.
func (m *Mongo) Query(ctx context.Context, q *database.Query) (database.Rows, error) {
	pipeline, err := Pipeline(q)
	if err != nil {
		return nil, err
	}
	cursor, err := m.Collection(q.Source.From.Name).Aggregate(ctx, pipeline)
	if err != nil {
		return nil, ConvertError(err)
	}
	return &rows{cursor: cursor, ctx: ctx, columns: len(q.Select)}, nil
}

// Count the matching documents of the join.
func (m *Mongo) Count(ctx context.Context, source database.Join, conds database.C) (int64, error) {
	pipeline, err := CountPipeline(source, conds)
	if err != nil {
		return 0, err
	}
	cursor, err := m.Collection(source.From.Name).Aggregate(ctx, pipeline)
	if err != nil {
		return 0, ConvertError(err)
	}
	defer cursor.Close(ctx)
	// $count gives no document when nothing matches
	if !cursor.Next(ctx) {
		return 0, ConvertError(cursor.Err())
	}
	var result struct {
		Total int64 `bson:"total"`
	}
	if err = cursor.Decode(&result); err != nil {
		return 0, ConvertError(err)
	}
	return result.Total, nil
}

type rows struct {
	cursor  *mongo.Cursor
	ctx     context.Context
	columns int
	current bson.M
	err     error
}

func (r *rows) Next() bool {
	if r.err != nil || !r.cursor.Next(r.ctx) {
		return false
	}
	r.current = bson.M{}
	if err := r.cursor.Decode(&r.current); err != nil {
		r.err = err
		return false
	}
	return true
}

// Scan copy the projected c0..cN values of the current document into dest.
func (r *rows) Scan(dest ...any) error {
	if r.current == nil {
		return status.Error(codes.FailedPrecondition, "scan called without a current document")
	}
	if len(dest) != r.columns {
		return status.Errorf(codes.InvalidArgument, "expected %d destination arguments, not %d", r.columns, len(dest))
	}
	for i, d := range dest {
		if err := database.Assign(d, plain(r.current[columnKey(i)])); err != nil {
			return status.Errorf(codes.InvalidArgument, "column %d: %s", i, err)
		}
	}
	return nil
}

func (r *rows) Err() error {
	if r.err != nil {
		return ConvertError(r.err)
	}
	return ConvertError(r.cursor.Err())
}

func (r *rows) Close() error {
	return r.cursor.Close(r.ctx)
}

// plain the go value of a bson value the scan destinations understand.
func plain(v any) any {
	switch t := v.(type) {
	case primitive.Null, primitive.Undefined:
		return nil
	case primitive.ObjectID:
		return t.Hex()
	case primitive.DateTime:
		return t.Time()
	case primitive.Decimal128:
		return t.String()
	case fmt.Stringer:
		return t.String()
	}
	return v
}
