package graceful

import (
	"context"
	"errors"
	"testing"
)

func TestRunClosesInReverseOrder(t *testing.T) {
	var order []int
	for i := 1; i <= 3; i++ {
		AddCloser(func(context.Context) error {
			order = append(order, i)
			if i == 2 {
				return errors.New("close failed")
			}
			return nil
		})
	}
	errRun := errors.New("run")
	err := Run(context.Background(), func(ctx context.Context) error {
		if ctx.Err() != nil {
			t.Fatal("context must be alive while running")
		}
		return errRun
	})
	if !errors.Is(err, errRun) {
		t.Fatalf("run error is expected, got %v", err)
	}
	if len(order) != 3 || order[0] != 3 || order[2] != 1 {
		t.Fatalf("closers must run first-in-last-out, got %v", order)
	}
	// closers run once
	Close()
	if len(order) != 3 {
		t.Fatalf("closers ran twice: %v", order)
	}
}
