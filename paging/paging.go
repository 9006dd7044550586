// Package paging validates page requests, decides whether a total count query is needed and
// assembles the page result.
package paging

import (
	"errors"
	"fmt"
	"math"

	"github.com/ti/memberquery/dependencies/database"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ErrInvalidRequest the page request was rejected before any query.
var ErrInvalidRequest = errors.New("invalid page request")

// Request a zero based page index, a positive size and the ordering keys.
type Request struct {
	Page int              `json:"page"`
	Size int              `json:"size"`
	Sort []database.Order `json:"sort,omitempty"`
}

// Of a request without ordering.
func Of(page, size int, sort ...database.Order) Request {
	return Request{Page: page, Size: size, Sort: sort}
}

// Offset the number of rows before the page.
func (r Request) Offset() int {
	return r.Page * r.Size
}

// Validate the request, the error is an InvalidArgument status wrapping ErrInvalidRequest.
func (r Request) Validate() error {
	if r.Page < 0 {
		return invalid("page index %d is negative", r.Page)
	}
	if r.Size <= 0 {
		return invalid("page size %d is not positive", r.Size)
	}
	// offset and offset+size must stay representable
	if r.Page > (math.MaxInt-r.Size)/r.Size {
		return invalid("page index %d with size %d is out of range", r.Page, r.Size)
	}
	for i, o := range r.Sort {
		if o.Field == "" {
			return invalid("sort key %d has no field", i)
		}
	}
	return nil
}

type invalidError struct {
	st *status.Status
}

func (e *invalidError) Error() string {
	return e.st.Message()
}

// GRPCStatus lets status.Code and status.FromError see the InvalidArgument code.
func (e *invalidError) GRPCStatus() *status.Status {
	return e.st
}

func (e *invalidError) Is(target error) bool {
	return target == ErrInvalidRequest
}

func invalid(format string, args ...any) error {
	msg := fmt.Sprintf("%s: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
	return &invalidError{st: status.New(codes.InvalidArgument, msg)}
}

// IsInvalidRequest reports whether err is a rejected page request.
func IsInvalidRequest(err error) bool {
	return errors.Is(err, ErrInvalidRequest)
}

// Limits the default and maximum page size of a service.
type Limits struct {
	DefaultSize int `json:"defaultSize" yaml:"defaultSize"`
	MaxSize     int `json:"maxSize" yaml:"maxSize"`
}

// Apply a zero size takes the default size, a size above the maximum is rejected.
func (l Limits) Apply(r Request) (Request, error) {
	if r.Size == 0 && l.DefaultSize > 0 {
		r.Size = l.DefaultSize
	}
	if l.MaxSize > 0 && r.Size > l.MaxSize {
		return r, invalid("page size %d is above the maximum %d", r.Size, l.MaxSize)
	}
	return r, r.Validate()
}

// Page one page of content and the totals over all pages.
type Page[T any] struct {
	Content       []T   `json:"content"`
	TotalElements int64 `json:"total_elements"`
	TotalPages    int   `json:"total_pages"`
	Number        int   `json:"number"`
	Size          int   `json:"size"`
}

// HasNext reports whether a page follows this one.
func (p *Page[T]) HasNext() bool {
	return p.Number+1 < p.TotalPages
}

// TotalPages ceil(total/size), 0 for an empty result.
func TotalPages(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Assemble the page of a request, content is used as is.
func Assemble[T any](content []T, total int64, r Request) *Page[T] {
	if content == nil {
		content = []T{}
	}
	return &Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    TotalPages(total, r.Size),
		Number:        r.Page,
		Size:          r.Size,
	}
}
