// Package sqlite the sqlite3 specifics of the sql backend.
package sqlite

import (
	"errors"

	"github.com/mattn/go-sqlite3"
	"google.golang.org/grpc/codes"

	"github.com/ti/memberquery/dependencies/database"
)

// ConvertError wrap a sqlite3 error with its grpc code, other errors are returned as is.
func ConvertError(err error) error {
	var sqliteError sqlite3.Error
	if errors.As(err, &sqliteError) {
		var code codes.Code
		switch sqliteError.Code {
		case sqlite3.ErrBusy, sqlite3.ErrLocked:
			code = codes.Unavailable
		case sqlite3.ErrCantOpen, sqlite3.ErrNotFound:
			code = codes.NotFound
		case sqlite3.ErrInterrupt:
			code = codes.Canceled
		default:
			code = codes.Unknown
		}
		err = database.NewStatusError(code, err, "error for code %d, message %s",
			int(sqliteError.Code), sqliteError.Error())
	}
	return err
}
