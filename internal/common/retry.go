package common

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/tourquote/internal/service"
)

var (
	// ErrRateLimit marks a provider response asking the caller to slow down.
	ErrRateLimit = errors.New("rate limit exceeded")
	// ErrMaxRetries is returned once every attempt has failed.
	ErrMaxRetries = errors.New("max retries exceeded")
)

// RetryableError lets an operation tell WithRetry whether another attempt
// could succeed.
type RetryableError struct {
	Err       error
	Retryable bool
}

func (e *RetryableError) Error() string { return e.Err.Error() }

func (e *RetryableError) Unwrap() error { return e.Err }

// backoff yields the wait before each retry, growing geometrically up to a ceiling.
type backoff struct {
	next       time.Duration
	ceiling    time.Duration
	multiplier float64
}

func newBackoff(opts service.RetryOptions) *backoff {
	b := &backoff{next: opts.InitialDelay, ceiling: opts.MaxDelay, multiplier: opts.Multiplier}
	if b.next <= 0 {
		b.next = 100 * time.Millisecond
	}
	if b.ceiling <= 0 {
		b.ceiling = 30 * time.Second
	}
	if b.multiplier <= 0 {
		b.multiplier = 2
	}
	return b
}

// wait returns the delay for the upcoming retry and advances the schedule.
// A rate-limited failure jumps straight to the ceiling.
func (b *backoff) wait(cause error) time.Duration {
	if errors.Is(cause, ErrRateLimit) {
		b.next = b.ceiling
	}
	d := b.next
	b.next = min(time.Duration(float64(b.next)*b.multiplier), b.ceiling)
	return d
}

// WithRetry runs op until it succeeds, returns a non-retryable
// RetryableError, exhausts opts.MaxAttempts or ctx is done.
func WithRetry(ctx context.Context, op func() error, opts service.RetryOptions) error {
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	schedule := newBackoff(opts)

	var err error
	for attempt := 1; ; attempt++ {
		if err = op(); err == nil {
			return nil
		}

		var re *RetryableError
		if errors.As(err, &re) && !re.Retryable {
			return err
		}
		if attempt >= attempts {
			return fmt.Errorf("%w after %d attempts: %w", ErrMaxRetries, attempts, err)
		}

		delay := schedule.wait(err)
		slog.Warn("Retrying after failure", "attempt", attempt, "of", attempts, "delay", delay, "error", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
