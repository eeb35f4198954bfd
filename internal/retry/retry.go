// Package retry implements the backoff policy wrapping outbound requests.
//
// Failures classified as recoverable (network, timeout, rate-limit,
// server) are retried with exponentially growing, jittered delays up to a
// fixed attempt ceiling. Everything else surfaces immediately. Retries are
// strictly sequential; there is never more than one request in flight.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/ddomene/vesper/internal/apierr"
)

// Defaults for the policy. Four attempts total, one second base delay,
// thirty second cap.
const (
	DefaultMaxAttempts = 4
	DefaultBaseDelay   = time.Second
	DefaultMaxDelay    = 30 * time.Second
)

// jitterFactor bounds the random inflation applied to each delay: the
// wait for attempt n lies in [base·2^(n-1), base·2^(n-1)·1.25].
const jitterFactor = 0.25

// ErrExhausted marks a terminal failure after the attempt ceiling.
var ErrExhausted = errors.New("retry attempts exhausted")

// ExhaustedError is returned once the attempt ceiling is hit. It names the
// ceiling and wraps the last failure.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("giving up after %d attempts: %v", e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

// Is matches the ErrExhausted sentinel.
func (e *ExhaustedError) Is(target error) bool { return target == ErrExhausted }

// Policy configures the retry loop.
type Policy struct {
	// MaxAttempts is the total attempt ceiling, first try included.
	MaxAttempts int
	// BaseDelay is the wait before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps every wait.
	MaxDelay time.Duration
	// Notify, when set, is called before each wait with the attempt that
	// just failed, the upcoming delay, and the failure.
	Notify func(attempt int, delay time.Duration, err error)

	// jitter returns a value in [0, 1). Overridable for tests.
	jitter func() float64
}

// DefaultPolicy returns the standard policy.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
	}
}

// Delay computes the jittered wait after failed attempt n (n >= 1).
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	base := p.BaseDelay
	if base <= 0 {
		base = DefaultBaseDelay
	}
	max := p.MaxDelay
	if max <= 0 {
		max = DefaultMaxDelay
	}

	// base·2^(n-1), saturating at the cap before jitter so the shift
	// cannot overflow on large attempt numbers.
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= max {
			d = max
			break
		}
	}

	jitter := p.jitter
	if jitter == nil {
		jitter = rand.Float64
	}
	d = time.Duration(float64(d) * (1 + jitterFactor*jitter()))
	if d > max {
		d = max
	}
	return d
}

// Do runs fn until it succeeds, fails terminally, or the attempt ceiling
// is reached. Context cancellation aborts the wait between attempts, never
// an attempt itself.
func (p Policy) Do(ctx context.Context, fn func(context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = DefaultMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !apierr.Recoverable(err) {
			return err
		}
		if attempt == attempts {
			break
		}

		delay := p.Delay(attempt)
		if p.Notify != nil {
			p.Notify(attempt, delay, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return &ExhaustedError{Attempts: attempts, Last: lastErr}
}
