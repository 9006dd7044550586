package member

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ti/memberquery/async"
	"github.com/ti/memberquery/dependencies/database"
	"github.com/ti/memberquery/log"
	"github.com/ti/memberquery/paging"
	"github.com/ti/memberquery/predicate"
	"github.com/ti/memberquery/projection"
)

var queryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "memberquery",
	Name:      "query_duration_seconds",
	Help:      "Duration of the content and count queries of member searches.",
	Buckets:   prometheus.DefBuckets,
}, []string{"kind"})

// Collectors the metrics of the package, for registration by the service.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{queryDuration}
}

// Repository the member search over a read only database.
type Repository struct {
	db              database.Database
	limits          paging.Limits
	concurrentCount bool
	tracer          trace.Tracer
}

// Option a repository option.
type Option func(*Repository)

// WithLimits the default and maximum page size, the zero Limits only validates requests.
func WithLimits(limits paging.Limits) Option {
	return func(r *Repository) {
		r.limits = limits
	}
}

// WithConcurrentCountDefault run the count next to the content query on every paged call.
func WithConcurrentCountDefault(enabled bool) Option {
	return func(r *Repository) {
		r.concurrentCount = enabled
	}
}

// WithTracer the tracer of the search spans, otel.Tracer("member") by default.
func WithTracer(tracer trace.Tracer) Option {
	return func(r *Repository) {
		r.tracer = tracer
	}
}

// New repository over db.
func New(db database.Database, opts ...Option) *Repository {
	r := &Repository{db: db}
	for _, opt := range opts {
		opt(r)
	}
	if r.tracer == nil {
		r.tracer = otel.Tracer("member")
	}
	return r
}

type callOptions struct {
	teamless        bool
	concurrentCount bool
}

// CallOption an option of one search call.
type CallOption func(*callOptions)

// WithTeamless keep the members without team, their team fields are nil.
func WithTeamless() CallOption {
	return func(o *callOptions) {
		o.teamless = true
	}
}

// WithConcurrentCount run the count next to the content query for this call.
func WithConcurrentCount() CallOption {
	return func(o *callOptions) {
		o.concurrentCount = true
	}
}

func (r *Repository) callOptions(opts []CallOption) callOptions {
	o := callOptions{concurrentCount: r.concurrentCount}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o callOptions) source() database.Join {
	return Join.WithOuter(o.teamless)
}

// Search every member matching cond with its team, ordered by member id.
func (r *Repository) Search(ctx context.Context, cond SearchCondition, opts ...CallOption) ([]MemberTeamDTO, error) {
	return SearchAs(ctx, r, cond, MemberTeam, opts...)
}

// SearchPageSimple one page of the members matching cond, the total is always counted.
func (r *Repository) SearchPageSimple(ctx context.Context, cond SearchCondition, req paging.Request,
	opts ...CallOption) (*paging.Page[MemberTeamDTO], error) {
	return searchPage(ctx, r, "member.SearchPageSimple", cond, MemberTeam, req, true, opts)
}

// SearchPageComplex one page of the members matching cond, the total is counted only when the
// page does not prove where the result ends.
func (r *Repository) SearchPageComplex(ctx context.Context, cond SearchCondition, req paging.Request,
	opts ...CallOption) (*paging.Page[MemberTeamDTO], error) {
	return searchPage(ctx, r, "member.SearchPageComplex", cond, MemberTeam, req, false, opts)
}

// SearchPage the paged search of production callers.
func (r *Repository) SearchPage(ctx context.Context, cond SearchCondition, req paging.Request,
	opts ...CallOption) (*paging.Page[MemberTeamDTO], error) {
	return r.SearchPageComplex(ctx, cond, req, opts...)
}

// SearchAs every member matching cond projected by p, ordered by member id.
func SearchAs[T any](ctx context.Context, r *Repository, cond SearchCondition, p projection.Projection[T],
	opts ...CallOption) (out []T, err error) {
	ctx, span := r.tracer.Start(ctx, "member.Search")
	defer func() { endSpan(span, err) }()
	o := r.callOptions(opts)
	pred := cond.Predicate()
	span.SetAttributes(attribute.String("predicate", pred.String()))
	out, err = content(ctx, r, o.source(), pred, p, []database.Order{{Field: FieldID}}, 0, 0)
	if err != nil {
		return nil, err
	}
	log.Extract(ctx).Action("member.search").Debug("predicate %s returned %d rows", pred, len(out))
	return out, nil
}

// SearchPageAs one page of the members matching cond projected by p, with the optimized total.
func SearchPageAs[T any](ctx context.Context, r *Repository, cond SearchCondition, p projection.Projection[T],
	req paging.Request, opts ...CallOption) (*paging.Page[T], error) {
	return searchPage(ctx, r, "member.SearchPage", cond, p, req, false, opts)
}

func searchPage[T any](ctx context.Context, r *Repository, name string, cond SearchCondition,
	p projection.Projection[T], req paging.Request, alwaysCount bool, opts []CallOption) (page *paging.Page[T], err error) {
	req, err = r.limits.Apply(req)
	if err != nil {
		return nil, err
	}
	ctx, span := r.tracer.Start(ctx, name)
	defer func() { endSpan(span, err) }()
	o := r.callOptions(opts)
	source := o.source()
	pred := cond.Predicate()
	span.SetAttributes(
		attribute.String("predicate", pred.String()),
		attribute.Int("page", req.Page),
		attribute.Int("size", req.Size),
		attribute.Bool("concurrent_count", o.concurrentCount),
	)
	count := func(ctx context.Context) (int64, error) {
		return total(ctx, r, source, pred)
	}
	var (
		rows  []T
		found int64
	)
	if o.concurrentCount {
		f := async.New(ctx)
		rowsPtr := async.Go(f, func(ctx context.Context) ([]T, error) {
			return content(ctx, r, source, pred, p, req.Sort, req.Offset(), req.Size)
		})
		countPtr := async.Go(f, count)
		if err = f.Await(); err != nil {
			return nil, err
		}
		rows, found = *rowsPtr, *countPtr
		if !alwaysCount {
			found = paging.KnownTotal(req, len(rows), *countPtr)
		}
	} else {
		rows, err = content(ctx, r, source, pred, p, req.Sort, req.Offset(), req.Size)
		if err != nil {
			return nil, err
		}
		if alwaysCount {
			found, err = count(ctx)
		} else {
			found, err = paging.ResolveTotal(ctx, req, len(rows), count)
		}
	}
	if err != nil {
		return nil, err
	}
	page = paging.Assemble(rows, found, req)
	log.Extract(ctx).Action(name).Debug("predicate %s page %d size %d returned %d of %d",
		pred, req.Page, req.Size, len(page.Content), page.TotalElements)
	return page, nil
}

func content[T any](ctx context.Context, r *Repository, source database.Join, pred predicate.Predicate,
	p projection.Projection[T], order []database.Order, offset, limit int) (out []T, err error) {
	ctx, span := r.tracer.Start(ctx, "member.content")
	defer func() { endSpan(span, err) }()
	defer observe("content", time.Now())
	rows, err := r.db.Query(ctx, &database.Query{
		Source: source,
		Where:  pred.Conditions(),
		Select: p.Columns(),
		Order:  order,
		Offset: offset,
		Limit:  limit,
	})
	if err != nil {
		return nil, err
	}
	out, err = projection.All(p, rows)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows", len(out)))
	return out, nil
}

func total(ctx context.Context, r *Repository, source database.Join, pred predicate.Predicate) (n int64, err error) {
	ctx, span := r.tracer.Start(ctx, "member.count")
	defer func() { endSpan(span, err) }()
	defer observe("count", time.Now())
	return r.db.Count(ctx, source, pred.Conditions())
}

func observe(kind string, start time.Time) {
	queryDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())
	}
	span.End()
}
