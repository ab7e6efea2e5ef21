// Package resilience bounds how long a call to an external store may run.
package resilience

import (
	"context"
	"fmt"
	"time"

	apperrors "github.com/Adithya-Monish-Kumar-K/mailfilter/pkg/errors"
)

// WithDeadline runs fn under a context that expires after limit. A limit of
// zero runs fn unbounded. Overrunning the limit is reported as an I/O
// failure naming op; cancellation of ctx itself is passed through.
func WithDeadline(ctx context.Context, limit time.Duration, op string, fn func(ctx context.Context) error) error {
	if limit <= 0 {
		return fn(ctx)
	}
	dctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- fn(dctx)
	}()
	select {
	case err := <-done:
		return err
	case <-dctx.Done():
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		return apperrors.IOf(context.DeadlineExceeded, "%s exceeded %v", op, limit)
	}
}
