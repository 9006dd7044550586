package database

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// StatusError a driver error carrying the grpc code it maps to, the driver error stays
// reachable by errors.As and errors.Is.
type StatusError struct {
	code codes.Code
	msg  string
	err  error
}

// NewStatusError wrap err with code and a formatted message.
func NewStatusError(code codes.Code, err error, format string, args ...any) *StatusError {
	return &StatusError{code: code, msg: fmt.Sprintf(format, args...), err: err}
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("rpc error: code = %s desc = %s", e.code, e.msg)
}

// GRPCStatus lets status.FromError and status.Code read the code.
func (e *StatusError) GRPCStatus() *status.Status {
	return status.New(e.code, e.msg)
}

func (e *StatusError) Unwrap() error {
	return e.err
}
