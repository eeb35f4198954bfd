package retry

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ddomene/vesper/internal/apierr"
)

func fastPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   time.Millisecond,
		MaxDelay:    5 * time.Millisecond,
	}
}

func TestDoSucceedsFirstTry(t *testing.T) {
	calls := 0
	err := fastPolicy().Do(context.Background(), func(context.Context) error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do() = %v, want nil", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoRetriesRecoverableThenSucceeds(t *testing.T) {
	calls := 0
	err := fastPolicy().Do(context.Background(), func(context.Context) error {
		calls++
		if calls < 3 {
			return apierr.New(apierr.KindServer, "complete", "bad gateway")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do() = %v, want nil", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoStopsOnTerminalError(t *testing.T) {
	calls := 0
	authErr := apierr.New(apierr.KindAuth, "complete", "session expired")
	err := fastPolicy().Do(context.Background(), func(context.Context) error {
		calls++
		return authErr
	})
	if !errors.Is(err, apierr.ErrAuth) {
		t.Fatalf("Do() = %v, want the auth error", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on terminal errors)", calls)
	}
}

func TestDoExhaustsCeiling(t *testing.T) {
	calls := 0
	err := fastPolicy().Do(context.Background(), func(context.Context) error {
		calls++
		return apierr.New(apierr.KindNetwork, "complete", "connection refused")
	})

	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("Do() = %v, want ErrExhausted", err)
	}

	var ex *ExhaustedError
	if !errors.As(err, &ex) {
		t.Fatal("error must be an *ExhaustedError")
	}
	if ex.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", ex.Attempts)
	}
	if !strings.Contains(err.Error(), "3 attempts") {
		t.Errorf("message %q must reference the attempt ceiling", err.Error())
	}
	if !errors.Is(err, apierr.ErrNetwork) {
		t.Error("last failure must remain reachable through the terminal error")
	}
}

func TestDoHonorsContextDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := Policy{MaxAttempts: 5, BaseDelay: time.Hour, MaxDelay: time.Hour}

	done := make(chan error, 1)
	go func() {
		done <- p.Do(ctx, func(context.Context) error {
			return apierr.New(apierr.KindTimeout, "complete", "timed out")
		})
	}()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Do() = %v, want context.Canceled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Do() did not return after cancellation")
	}
}

func TestDoNotifiesBeforeEachWait(t *testing.T) {
	var attempts []int
	p := fastPolicy()
	p.Notify = func(attempt int, delay time.Duration, err error) {
		attempts = append(attempts, attempt)
		if delay <= 0 {
			t.Errorf("delay for attempt %d = %v, want > 0", attempt, delay)
		}
		if err == nil {
			t.Error("notify must carry the failure")
		}
	}

	_ = p.Do(context.Background(), func(context.Context) error {
		return apierr.New(apierr.KindRateLimit, "complete", "429")
	})

	// Three attempts means two waits.
	if len(attempts) != 2 {
		t.Fatalf("notify count = %d, want 2", len(attempts))
	}
	if attempts[0] != 1 || attempts[1] != 2 {
		t.Errorf("notified attempts = %v, want [1 2]", attempts)
	}
}

func TestDelayBounds(t *testing.T) {
	base := 100 * time.Millisecond
	max := 2 * time.Second

	for _, jitter := range []float64{0, 0.5, 0.999} {
		p := Policy{
			MaxAttempts: 8,
			BaseDelay:   base,
			MaxDelay:    max,
			jitter:      func() float64 { return jitter },
		}

		for attempt := 1; attempt <= 8; attempt++ {
			exp := base << (attempt - 1)
			if exp > max {
				exp = max
			}
			hi := time.Duration(float64(exp) * (1 + jitterFactor))
			if hi > max {
				hi = max
			}

			got := p.Delay(attempt)
			if got < exp || got > hi {
				t.Errorf("jitter=%v attempt=%d: Delay() = %v, want in [%v, %v]",
					jitter, attempt, got, exp, hi)
			}
			if got > max {
				t.Errorf("attempt %d: Delay() = %v exceeds cap %v", attempt, got, max)
			}
		}
	}
}

func TestDelayRandomJitterStaysInRange(t *testing.T) {
	p := Policy{MaxAttempts: 4, BaseDelay: 50 * time.Millisecond, MaxDelay: 10 * time.Second}

	for i := 0; i < 200; i++ {
		for attempt := 1; attempt <= 4; attempt++ {
			exp := p.BaseDelay << (attempt - 1)
			got := p.Delay(attempt)
			if got < exp || got > time.Duration(float64(exp)*(1+jitterFactor)) {
				t.Fatalf("attempt %d: Delay() = %v outside jitter window starting at %v", attempt, got, exp)
			}
		}
	}
}

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	if p.MaxAttempts != DefaultMaxAttempts {
		t.Errorf("MaxAttempts = %d, want %d", p.MaxAttempts, DefaultMaxAttempts)
	}
	if p.BaseDelay != DefaultBaseDelay || p.MaxDelay != DefaultMaxDelay {
		t.Errorf("delays = (%v, %v), want (%v, %v)", p.BaseDelay, p.MaxDelay, DefaultBaseDelay, DefaultMaxDelay)
	}
}

func TestExhaustedErrorMessage(t *testing.T) {
	ex := &ExhaustedError{Attempts: 4, Last: fmt.Errorf("boom")}
	want := "giving up after 4 attempts: boom"
	if ex.Error() != want {
		t.Errorf("Error() = %q, want %q", ex.Error(), want)
	}
}
