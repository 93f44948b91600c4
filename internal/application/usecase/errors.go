package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnavailable marks a transient failure of a collaborator (timeout,
	// unreachable catalog). Callers may retry.
	ErrUnavailable = errors.New("service temporarily unavailable")
	// ErrPersistence marks an unexpected storage failure. Its detail is for
	// logs only.
	ErrPersistence = errors.New("persistence failure")
)

// storeError classifies an error returned by a repository.
func storeError(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", ErrUnavailable, op, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrPersistence, op, err)
}

// withTimeout bounds ctx by d. A non-positive d only adds cancellation.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// dayWindow returns [date 00:00, date+1 00:00) in loc, using only the
// calendar part of date.
func dayWindow(date time.Time, loc *time.Location) (time.Time, time.Time) {
	y, m, d := date.Date()
	from := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return from, from.AddDate(0, 0, 1)
}
