package paging_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/ti/memberquery/dependencies/database"
	"github.com/ti/memberquery/paging"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		req     paging.Request
		invalid bool
	}{
		{"first page", paging.Of(0, 3), false},
		{"negative page", paging.Of(-1, 3), true},
		{"zero size", paging.Of(0, 0), true},
		{"negative size", paging.Of(1, -2), true},
		{"sort without field", paging.Of(0, 3, database.Order{Desc: true}), true},
		{"sorted", paging.Of(2, 3, database.Order{Field: "m.age", Desc: true}), false},
		{"offset overflow", paging.Of(math.MaxInt/2+1, 2), true},
		{"last representable page", paging.Of(math.MaxInt/2-1, 2), false},
		{"size overflow", paging.Of(1, math.MaxInt), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !tt.invalid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, paging.IsInvalidRequest(err))
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestLimits(t *testing.T) {
	limits := paging.Limits{DefaultSize: 20, MaxSize: 100}
	r, err := limits.Apply(paging.Of(1, 0))
	require.NoError(t, err)
	assert.Equal(t, 20, r.Size)
	assert.Equal(t, 20, r.Offset())

	_, err = limits.Apply(paging.Of(0, 101))
	assert.True(t, paging.IsInvalidRequest(err))

	_, err = paging.Limits{}.Apply(paging.Of(0, 0))
	assert.True(t, paging.IsInvalidRequest(err))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 0, paging.TotalPages(0, 3))
	assert.Equal(t, 1, paging.TotalPages(1, 3))
	assert.Equal(t, 1, paging.TotalPages(3, 3))
	assert.Equal(t, 2, paging.TotalPages(4, 3))
	assert.Equal(t, 34, paging.TotalPages(100, 3))
}

func TestCountRequired(t *testing.T) {
	tests := []struct {
		page, size, returned int
		want                 bool
	}{
		{0, 3, 3, true},
		{0, 3, 2, false},
		{0, 3, 0, false},
		{1, 3, 1, false},
		{1, 3, 3, true},
		{2, 3, 0, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, paging.CountRequired(tt.page, tt.size, tt.returned),
			"page %d size %d returned %d", tt.page, tt.size, tt.returned)
	}
}

func TestResolveTotal(t *testing.T) {
	ctx := context.Background()
	calls := 0
	count := func(context.Context) (int64, error) {
		calls++
		return 4, nil
	}

	total, err := paging.ResolveTotal(ctx, paging.Of(0, 3), 3, count)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, 1, calls)

	total, err = paging.ResolveTotal(ctx, paging.Of(1, 3), 1, count)
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Equal(t, 1, calls, "a partial page must not be counted")

	boom := errors.New("boom")
	_, err = paging.ResolveTotal(ctx, paging.Of(0, 3), 3, func(context.Context) (int64, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
}

func countDecisions(t *testing.T) (issued, skipped float64) {
	t.Helper()
	vec, ok := paging.Collectors()[0].(*prometheus.CounterVec)
	require.True(t, ok)
	value := func(decision string) float64 {
		var m dto.Metric
		require.NoError(t, vec.WithLabelValues(decision).Write(&m))
		return m.GetCounter().GetValue()
	}
	return value("issued"), value("skipped")
}

func TestResolveTotalDecisions(t *testing.T) {
	ctx := context.Background()
	count := func(context.Context) (int64, error) { return 4, nil }
	issued, skipped := countDecisions(t)

	_, err := paging.ResolveTotal(ctx, paging.Of(0, 3), 3, count)
	require.NoError(t, err)
	_, err = paging.ResolveTotal(ctx, paging.Of(1, 3), 1, count)
	require.NoError(t, err)

	gotIssued, gotSkipped := countDecisions(t)
	assert.Equal(t, issued+1, gotIssued)
	assert.Equal(t, skipped+1, gotSkipped)
}

func TestKnownTotal(t *testing.T) {
	issued, skipped := countDecisions(t)

	assert.Equal(t, int64(4), paging.KnownTotal(paging.Of(0, 3), 3, 4))
	// the last page proves the total even when the count raced a concurrent insert
	assert.Equal(t, int64(4), paging.KnownTotal(paging.Of(1, 3), 1, 5))
	assert.Equal(t, int64(4), paging.KnownTotal(paging.Of(3, 3), 0, 4))

	gotIssued, gotSkipped := countDecisions(t)
	assert.Equal(t, issued+3, gotIssued, "a count that ran is always issued")
	assert.Equal(t, skipped, gotSkipped)
}

func TestAssemble(t *testing.T) {
	p := paging.Assemble([]int{1, 2, 3}, 4, paging.Of(0, 3))
	assert.Equal(t, 2, p.TotalPages)
	assert.Equal(t, int64(4), p.TotalElements)
	assert.True(t, p.HasNext())

	empty := paging.Assemble[int](nil, 0, paging.Of(0, 3))
	assert.NotNil(t, empty.Content)
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext())
}
