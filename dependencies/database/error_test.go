package database

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestStatusError(t *testing.T) {
	cause := fmt.Errorf("lock wait: %w", context.DeadlineExceeded)
	var err error = NewStatusError(codes.DeadlineExceeded, cause, "error for code %d, message %s", 1205, "lock wait")

	assert.Equal(t, codes.DeadlineExceeded, status.Code(err))
	assert.Equal(t, "error for code 1205, message lock wait", status.Convert(err).Message())
	s, ok := status.FromError(fmt.Errorf("member.count: %w", err))
	assert.True(t, ok)
	assert.Equal(t, codes.DeadlineExceeded, s.Code())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Same(t, cause, errors.Unwrap(err))
	assert.Equal(t, "rpc error: code = DeadlineExceeded desc = error for code 1205, message lock wait", err.Error())
}
