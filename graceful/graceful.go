// Package graceful runs a command until it returns or the process is signalled, then closes
// the registered clients.
package graceful

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/ti/memberquery/log"
)

var (
	mu      sync.Mutex
	closers []Fn
)

// CloseTimeout the time every closer has to return.
var CloseTimeout = 30 * time.Second

// Fn is a function with error.
type Fn func(context.Context) error

// AddCloser add closer, closers run first-in-last-out.
func AddCloser(closer func(ctx context.Context) error) {
	mu.Lock()
	defer mu.Unlock()
	closers = append(closers, closer)
}

// Run fn with a context cancelled on SIGINT or SIGTERM, then run the closers.
func Run(ctx context.Context, fn Fn) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := fn(ctx)
	if ctx.Err() != nil && errors.Is(err, context.Canceled) {
		log.Action("graceful").Warn("closed by signal")
	}
	Close()
	return err
}

// Close run and forget the registered closers.
func Close() {
	mu.Lock()
	pending := closers
	closers = nil
	mu.Unlock()
	for i := len(pending) - 1; i > -1; i-- {
		ctx, cc := context.WithTimeout(context.Background(), CloseTimeout)
		err := pending[i](ctx)
		cc()
		if err != nil {
			var pathErr *os.PathError
			if errors.As(err, &pathErr) && strings.HasPrefix(pathErr.Path, "/dev/std") {
				continue
			}
			log.Action("graceful.close").Warn(err.Error())
		}
	}
}
