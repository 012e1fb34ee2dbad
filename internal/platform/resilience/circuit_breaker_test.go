package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(3, 10*time.Second, 1)
	clock := time.Date(2026, time.August, 1, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return clock }

	for i := 0; i < 2; i++ {
		if err := b.Allow(); err != nil {
			t.Fatalf("allow while closed: %v", err)
		}
		b.RecordFailure()
	}
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("state below threshold: got=%s want=closed", got)
	}

	b.RecordFailure()
	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("state at threshold: got=%s want=open", got)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
}

func TestCircuitBreaker_HalfOpenProbeClosesOnSuccess(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(1, 5*time.Second, 1)
	clock := time.Date(2026, time.August, 1, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return clock }

	b.RecordFailure()
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected open before timeout, got %v", err)
	}

	clock = clock.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe should be allowed after timeout: %v", err)
	}
	if got := b.State(); got != CircuitStateHalfOpen {
		t.Fatalf("state during probe: got=%s want=half_open", got)
	}

	b.RecordSuccess()
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("state after successful probe: got=%s want=closed", got)
	}
}

func TestCircuitBreaker_HalfOpenProbeFailureReopens(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(1, 5*time.Second, 2)
	clock := time.Date(2026, time.August, 1, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return clock }

	b.RecordFailure()
	clock = clock.Add(6 * time.Second)

	if err := b.Allow(); err != nil {
		t.Fatalf("first probe: %v", err)
	}
	b.RecordFailure()

	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("state after failed probe: got=%s want=open", got)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen after reopen, got %v", err)
	}
}

func TestCircuitBreaker_HalfOpenLimitsProbes(t *testing.T) {
	t.Parallel()

	b := NewCircuitBreaker(1, 5*time.Second, 1)
	clock := time.Date(2026, time.August, 1, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return clock }

	b.RecordFailure()
	clock = clock.Add(6 * time.Second)

	if err := b.Allow(); err != nil {
		t.Fatalf("first probe: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("second concurrent probe should be rejected, got %v", err)
	}
}
