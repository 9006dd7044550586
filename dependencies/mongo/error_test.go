package mongo

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestConvertError(t *testing.T) {
	transient := mongo.CommandError{Code: 112, Message: "write conflict", Labels: []string{"TransientTransactionError"}}
	err := ConvertError(transient)
	assert.Equal(t, codes.Aborted, status.Code(err))
	assert.Equal(t, "error for code 112, message write conflict", status.Convert(err).Message())
	var cmdErr mongo.CommandError
	require.True(t, errors.As(err, &cmdErr), "the driver error must stay reachable")
	assert.Equal(t, int32(112), cmdErr.Code)

	err = ConvertError(mongo.CommandError{Code: 2, Message: "bad value"})
	assert.Equal(t, codes.Unknown, status.Code(err))
	assert.True(t, errors.As(err, &cmdErr))

	deadline := fmt.Errorf("find: %w", context.DeadlineExceeded)
	assert.Same(t, deadline, ConvertError(deadline))
	assert.NoError(t, ConvertError(nil))
}
