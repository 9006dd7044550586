package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/grpc/codes"

	"github.com/ti/memberquery/dependencies/database"
)

// ConvertError wrap a driver error with its grpc code, context errors are returned as is.
func ConvertError(err error) error {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	switch {
	case mongo.IsTimeout(err):
		return database.NewStatusError(codes.DeadlineExceeded, err, "%s", err.Error())
	case mongo.IsNetworkError(err):
		return database.NewStatusError(codes.Unavailable, err, "%s", err.Error())
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		if cmdErr.HasErrorLabel("TransientTransactionError") {
			return database.NewStatusError(codes.Aborted, err, "error for code %d, message %s", cmdErr.Code, cmdErr.Message)
		}
		return database.NewStatusError(codes.Unknown, err, "error for code %d, message %s", cmdErr.Code, cmdErr.Message)
	}
	return err
}
