package sql

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/ti/memberquery/dependencies/database"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	queryAnd   = " AND "
	likeEscape = "!"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

func quote(name string) (string, error) {
	if !identifier.MatchString(name) {
		return "", status.Errorf(codes.InvalidArgument, "invalid identifier %q", name)
	}
	return "`" + name + "`", nil
}

// column the quoted `alias`.`column` of a qualified field of the join.
func column(source database.Join, field string) (string, error) {
	table, name, err := source.Resolve(field)
	if err != nil {
		return "", status.Error(codes.InvalidArgument, err.Error())
	}
	alias, err := quote(table.Alias)
	if err != nil {
		return "", err
	}
	col, err := quote(name)
	if err != nil {
		return "", err
	}
	return alias + "." + col, nil
}

// From the FROM clause of the join, for exp:
// `member` `m` INNER JOIN `team` `t` ON `m`.`team_id` = `t`.`id`
func From(source database.Join) (string, error) {
	from, err := quote(source.From.Name)
	if err != nil {
		return "", err
	}
	fromAlias, err := quote(source.From.Alias)
	if err != nil {
		return "", err
	}
	to, err := quote(source.To.Name)
	if err != nil {
		return "", err
	}
	toAlias, err := quote(source.To.Alias)
	if err != nil {
		return "", err
	}
	fromKey, err := column(source, source.From.Alias+"."+source.FromKey)
	if err != nil {
		return "", err
	}
	toKey, err := column(source, source.To.Alias+"."+source.ToKey)
	if err != nil {
		return "", err
	}
	join := " INNER JOIN "
	if source.Outer {
		join = " LEFT JOIN "
	}
	return from + " " + fromAlias + join + to + " " + toAlias + " ON " + fromKey + " = " + toKey, nil
}

// Where the conditions joined with AND and their arguments, empty for no condition.
func Where(source database.Join, conds database.C) (query string, args []any, err error) {
	parts := make([]string, 0, len(conds))
	for _, c := range conds {
		col, errCol := column(source, c.Key)
		if errCol != nil {
			return "", nil, errCol
		}
		switch c.C {
		case database.In, database.Nin:
			data := reflect.ValueOf(c.Value)
			if data.Kind() != reflect.Slice || data.Len() == 0 {
				return "", nil, status.Errorf(codes.InvalidArgument, "condition %s needs a non empty slice", c.Key)
			}
			holder := strings.TrimSuffix(strings.Repeat("?,", data.Len()), ",")
			op := "IN"
			if c.C == database.Nin {
				op = "NOT IN"
			}
			parts = append(parts, fmt.Sprintf("%s %s (%s)", col, op, holder))
			for i := 0; i < data.Len(); i++ {
				args = append(args, data.Index(i).Interface())
			}
		case database.Contains:
			s, ok := c.Value.(string)
			if !ok {
				return "", nil, status.Errorf(codes.InvalidArgument, "condition %s contains needs a string", c.Key)
			}
			parts = append(parts, fmt.Sprintf("%s LIKE ? ESCAPE '%s'", col, likeEscape))
			args = append(args, "%"+escapeLike(s)+"%")
		default:
			op, ok := conditionMap[c.C]
			if !ok {
				return "", nil, status.Errorf(codes.InvalidArgument, "condition %v not supported", c.C)
			}
			parts = append(parts, fmt.Sprintf("%s %s ?", col, op))
			args = append(args, c.Value)
		}
	}
	return strings.Join(parts, queryAnd), args, nil
}

var likeReplacer = strings.NewReplacer(likeEscape, likeEscape+likeEscape, "%", likeEscape+"%", "_", likeEscape+"_")

func escapeLike(s string) string {
	return likeReplacer.Replace(s)
}

// OrderBy the ORDER BY keys, every key is preceded by its null test so nulls go first or last
// the same way on every dialect.
func OrderBy(source database.Join, orders []database.Order) (string, error) {
	parts := make([]string, 0, len(orders)*2)
	for _, o := range orders {
		col, err := column(source, o.Field)
		if err != nil {
			return "", err
		}
		if o.NullsLastFor() {
			parts = append(parts, col+" IS NULL ASC")
		} else {
			parts = append(parts, col+" IS NULL DESC")
		}
		if o.Desc {
			parts = append(parts, col+" DESC")
		} else {
			parts = append(parts, col+" ASC")
		}
	}
	return strings.Join(parts, ", "), nil
}

// Query the sql query
type Query struct {
	From      string
	Where     string
	Arguments []any
	Select    string
	Order     string
	Offset    int
	Limit     int
}

func (q *Query) String() string {
	query := "SELECT " + q.Select + " FROM " + q.From
	if q.Where != "" {
		query += " WHERE " + q.Where
	}
	if q.Order != "" {
		query += " ORDER BY " + q.Order
	}
	if q.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", q.Limit)
	}
	if q.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", q.Offset)
	}
	return query
}

// BuildQuery the content query of q.
func BuildQuery(q *database.Query) (*Query, error) {
	if len(q.Select) == 0 {
		return nil, status.Error(codes.InvalidArgument, "no column selected")
	}
	if q.Offset > 0 && q.Limit <= 0 {
		return nil, status.Error(codes.InvalidArgument, "offset without limit")
	}
	out := &Query{Offset: q.Offset, Limit: q.Limit}
	var err error
	if out.From, err = From(q.Source); err != nil {
		return nil, err
	}
	selects := make([]string, len(q.Select))
	for i, c := range q.Select {
		col, errCol := column(q.Source, c.Field)
		if errCol != nil {
			return nil, errCol
		}
		if c.Name != "" {
			name, errName := quote(c.Name)
			if errName != nil {
				return nil, errName
			}
			col += " AS " + name
		}
		selects[i] = col
	}
	out.Select = strings.Join(selects, ", ")
	if out.Where, out.Arguments, err = Where(q.Source, q.Where); err != nil {
		return nil, err
	}
	if out.Order, err = OrderBy(q.Source, q.Order); err != nil {
		return nil, err
	}
	return out, nil
}

// BuildCount the count query of the filtered join.
func BuildCount(source database.Join, conds database.C) (*Query, error) {
	out := &Query{Select: "COUNT(*)"}
	var err error
	if out.From, err = From(source); err != nil {
		return nil, err
	}
	if out.Where, out.Arguments, err = Where(source, conds); err != nil {
		return nil, err
	}
	return out, nil
}

var conditionMap = map[database.Condition]string{
	database.Eq:  "=",
	database.Ne:  "!=",
	database.Lt:  "<",
	database.Lte: "<=",
	database.Gt:  ">",
	database.Gte: ">=",
}
