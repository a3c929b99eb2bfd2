package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRunRetriesTemporaryFailure(t *testing.T) {
	exec := NewExecutor(Policy{
		RetryAttempts:  3,
		RetryBaseDelay: 1 * time.Millisecond,
		RetryMaxDelay:  2 * time.Millisecond,
		RetryGrowth:    2,
		BreakerEnabled: false,
	})

	attempts := 0
	errTemp := errors.New("temporary")
	err := exec.Run(context.Background(), "op", func(context.Context) error {
		attempts++
		if attempts < 3 {
			return errTemp
		}
		return nil
	}, func(err error) Verdict {
		return Verdict{
			Retryable:       errors.Is(err, errTemp),
			CountsAsFailure: true,
		}
	})
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRunDoesNotRetryPermanentFailure(t *testing.T) {
	exec := NewExecutor(Policy{
		RetryAttempts:  3,
		RetryBaseDelay: 1 * time.Millisecond,
		RetryMaxDelay:  2 * time.Millisecond,
		RetryGrowth:    2,
		BreakerEnabled: false,
	})

	attempts := 0
	errPermanent := errors.New("permanent")
	err := exec.Run(context.Background(), "op", func(context.Context) error {
		attempts++
		return errPermanent
	}, func(error) Verdict {
		return Verdict{Retryable: false, CountsAsFailure: false}
	})
	if !errors.Is(err, errPermanent) {
		t.Fatalf("expected permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", attempts)
	}
}

func TestRunOpensCircuitAfterFailures(t *testing.T) {
	exec := NewExecutor(Policy{
		RetryAttempts:       1,
		RetryBaseDelay:      1 * time.Millisecond,
		RetryMaxDelay:       1 * time.Millisecond,
		RetryGrowth:         2,
		BreakerEnabled:      true,
		BreakerMinRequests:  2,
		BreakerFailureRatio: 0.5,
		BreakerOpenTimeout:  50 * time.Millisecond,
		BreakerProbeCalls:   1,
	})

	errTemp := errors.New("temporary")
	classifier := func(error) Verdict {
		return Verdict{Retryable: false, CountsAsFailure: true}
	}

	for i := 0; i < 2; i++ {
		err := exec.Run(context.Background(), "op", func(context.Context) error {
			return errTemp
		}, classifier)
		if !errors.Is(err, errTemp) {
			t.Fatalf("expected temporary error on iteration %d, got %v", i, err)
		}
	}

	err := exec.Run(context.Background(), "op", func(context.Context) error {
		t.Fatalf("circuit should be open and must not call operation")
		return nil
	}, classifier)
	if !IsCircuitOpen(err) {
		t.Fatalf("expected open circuit, got %v", err)
	}
}

func TestRunStopsWaitingOnCancelledContext(t *testing.T) {
	exec := NewExecutor(Policy{
		RetryAttempts:  5,
		RetryBaseDelay: 50 * time.Millisecond,
		RetryMaxDelay:  100 * time.Millisecond,
		RetryGrowth:    2,
		BreakerEnabled: false,
	})

	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	errTemp := errors.New("temporary")
	err := exec.Run(ctx, "op", func(context.Context) error {
		attempts++
		cancel()
		return errTemp
	}, func(error) Verdict {
		return Verdict{Retryable: true, CountsAsFailure: true}
	})
	if !errors.Is(err, errTemp) {
		t.Fatalf("expected last operation error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("expected retry loop to stop after cancel, got %d attempts", attempts)
	}
}
