package mysql

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestConvertError(t *testing.T) {
	tests := []struct {
		number uint16
		want   codes.Code
	}{
		{1146, codes.NotFound},
		{1054, codes.InvalidArgument},
		{1205, codes.DeadlineExceeded},
		{1213, codes.Aborted},
		{1690, codes.OutOfRange},
		{1064, codes.Unknown},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.number), func(t *testing.T) {
			driverErr := &mysql.MySQLError{Number: tt.number, Message: "failed"}
			err := ConvertError(fmt.Errorf("query: %w", driverErr))
			assert.Equal(t, tt.want, status.Code(err))
			assert.Equal(t, fmt.Sprintf("error for code %d, message failed", tt.number), status.Convert(err).Message())

			var got *mysql.MySQLError
			require.True(t, errors.As(err, &got), "the driver error must stay reachable")
			assert.Same(t, driverErr, got)
		})
	}

	other := errors.New("other")
	assert.Same(t, other, ConvertError(other))
	assert.NoError(t, ConvertError(nil))
}
