package postgres

import (
	"errors"

	"github.com/lib/pq"
	"google.golang.org/grpc/codes"

	"github.com/ti/memberquery/dependencies/database"
)

// ConvertError wrap a postgres error with its grpc code, other errors are returned as is.
func ConvertError(err error) error {
	var pgError *pq.Error
	if errors.As(err, &pgError) {
		var code codes.Code
		switch pgError.Code {
		// undefined_table
		case "42P01":
			code = codes.NotFound
		// undefined_column
		case "42703":
			code = codes.InvalidArgument
		// deadlock_detected, serialization_failure
		case "40P01", "40001":
			code = codes.Aborted
		// query_canceled
		case "57014":
			code = codes.Canceled
		default:
			code = codes.Unknown
		}
		err = database.NewStatusError(code, err, "error for code %s, message %s",
			pgError.Code, pgError.Message)
	}
	return err
}
