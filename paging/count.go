package paging

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// CountFunc the count query of the filtered source.
type CountFunc func(ctx context.Context) (int64, error)

var countDecisions = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "memberquery",
	Name:      "count_queries_total",
	Help:      "Count query decisions of paged searches, issued or skipped.",
}, []string{"decision"})

// Collectors the metrics of the package, for registration by the service.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{countDecisions}
}

// CountRequired reports whether the total has to be counted. A non empty page holding fewer
// rows than the page size is the last one, the total is then offset + returned and no count is
// needed; on the first page that also holds for zero rows. A full page may be followed by more
// rows, and an empty page past the first one says nothing about the rows before it.
func CountRequired(page, size, returned int) bool {
	if returned >= size {
		return true
	}
	return returned == 0 && page > 0
}

// ResolveTotal the total of the rows matching the content query of r that returned rows,
// count is only called when the content does not prove the end of the result.
func ResolveTotal(ctx context.Context, r Request, returned int, count CountFunc) (int64, error) {
	if !CountRequired(r.Page, r.Size, returned) {
		countDecisions.WithLabelValues("skipped").Inc()
		return int64(r.Offset() + returned), nil
	}
	countDecisions.WithLabelValues("issued").Inc()
	return count(ctx)
}

// KnownTotal the total of a page whose count already ran beside the content query. The count
// is recorded as issued; the content still decides the total when it shows where the result ends.
func KnownTotal(r Request, returned int, counted int64) int64 {
	countDecisions.WithLabelValues("issued").Inc()
	if !CountRequired(r.Page, r.Size, returned) {
		return int64(r.Offset() + returned)
	}
	return counted
}
