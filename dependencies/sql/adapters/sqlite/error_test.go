package sqlite

import (
	"errors"
	"testing"

	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestConvertError(t *testing.T) {
	tests := []struct {
		code sqlite3.ErrNo
		want codes.Code
	}{
		{sqlite3.ErrBusy, codes.Unavailable},
		{sqlite3.ErrLocked, codes.Unavailable},
		{sqlite3.ErrCantOpen, codes.NotFound},
		{sqlite3.ErrInterrupt, codes.Canceled},
		{sqlite3.ErrConstraint, codes.Unknown},
	}
	for _, tt := range tests {
		err := ConvertError(sqlite3.Error{Code: tt.code})
		assert.Equal(t, tt.want, status.Code(err))

		var got sqlite3.Error
		require.True(t, errors.As(err, &got), "the driver error must stay reachable")
		assert.Equal(t, tt.code, got.Code)
	}
	other := errors.New("other")
	assert.Same(t, other, ConvertError(other))
}
