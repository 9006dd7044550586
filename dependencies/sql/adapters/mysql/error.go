// Package mysql the mysql specifics of the sql backend.
package mysql

import (
	"errors"

	"github.com/go-sql-driver/mysql"
	"google.golang.org/grpc/codes"

	"github.com/ti/memberquery/dependencies/database"
)

// ConvertError wrap a mysql error with its grpc code, other errors are returned as is.
// nolint: gomnd
func ConvertError(err error) error {
	var mySQLError *mysql.MySQLError
	if errors.As(err, &mySQLError) {
		var code codes.Code
		switch mySQLError.Number {
		case 1049, 1146:
			// unknown database, unknown table
			code = codes.NotFound
		case 1054:
			// unknown column
			code = codes.InvalidArgument
		case 1205:
			// lock wait timeout
			code = codes.DeadlineExceeded
		case 1213:
			// deadlock, the read may be retried by the caller
			code = codes.Aborted
		case 1690:
			code = codes.OutOfRange
		default:
			code = codes.Unknown
		}
		err = database.NewStatusError(code, err, "error for code %d, message %s",
			mySQLError.Number, mySQLError.Message)
	}
	return err
}
