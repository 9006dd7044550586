// Package async runs independent calls concurrently under one context and joins them.
package async

import (
	"context"
	"sync"
)

// Future joins a set of concurrent calls, the first error cancels the context of the
// calls still running.
// Examples in async_test.go
type Future struct {
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
	err    error
}

// New future bound to ctx.
func New(ctx context.Context) *Future {
	f := &Future{parent: ctx}
	f.ctx, f.cancel = context.WithCancel(ctx)
	return f
}

// Async execute fn(ctx, in) in a goroutine, the returned pointer holds the output once
// Await returned nil.
func Async[I, O any](f *Future, fn func(ctx context.Context, in I) (O, error), in I) *O {
	out := new(O)
	f.wg.Add(1)
	go func() {
		defer f.wg.Done()
		o, err := fn(f.ctx, in)
		if err != nil {
			f.fail(err)
			return
		}
		*out = o
	}()
	return out
}

// Go execute fn(ctx) in a goroutine.
func Go[O any](f *Future, fn func(ctx context.Context) (O, error)) *O {
	return Async(f, func(ctx context.Context, _ struct{}) (O, error) {
		return fn(ctx)
	}, struct{}{})
}

func (f *Future) fail(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err == nil {
		f.err = err
		f.cancel()
	}
}

func (f *Future) firstErr() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Await wait for all calls done or the parent context done.
// Await return the first error, or the parent ctx.Err() or nil; the calls still running
// when the parent is done are abandoned with a cancelled context.
func (f *Future) Await() error {
	done := make(chan struct{})
	go func() {
		f.wg.Wait()
		close(done)
	}()
	defer f.cancel()
	select {
	case <-done:
		return f.firstErr()
	case <-f.parent.Done():
		if err := f.firstErr(); err != nil {
			return err
		}
		return f.parent.Err()
	}
}
