package retry

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/kochabx/flowclient/errors"
)

func TestShouldRetryClassification(t *testing.T) {
	p := NewPolicy(0, 0, 0, 0)

	cases := []struct {
		name  string
		err   error
		retry bool
	}{
		{"nil error", nil, false},
		{"timeout 408", errors.FromResponse(408, "timeout"), true},
		{"rate limited 429", errors.FromResponse(429, "slow down"), true},
		{"server 500", errors.FromResponse(500, "boom"), true},
		{"server 503", errors.FromResponse(503, "unavailable"), true},
		{"transport failure", errors.FromTransport(stderrors.New("connection refused")), true},
		{"bad request 400", errors.FromResponse(400, "nope"), false},
		{"unauthorized 401", errors.FromResponse(401, "denied"), false},
		{"not found 404", errors.FromResponse(404, "missing"), false},
		{"plain error", stderrors.New("opaque"), false},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := p.ShouldRetry(1, c.err); got != c.retry {
				t.Errorf("ShouldRetry(1, %v) = %v, expected %v", c.err, got, c.retry)
			}
		})
	}
}

func TestShouldRetryAttemptBudget(t *testing.T) {
	p := NewPolicy(3, 0, 0, 0)
	err := errors.FromResponse(500, "boom")

	if !p.ShouldRetry(1, err) || !p.ShouldRetry(2, err) {
		t.Error("attempts 1 and 2 should be retryable")
	}
	if p.ShouldRetry(3, err) {
		t.Error("attempt budget of 3 must stop after the third attempt")
	}
}

func TestBackoffBounds(t *testing.T) {
	p := NewPolicy(0, 0, 0, 0)

	cases := []struct {
		n        int
		min, max time.Duration
	}{
		{0, time.Second, 2 * time.Second},
		{1, 2 * time.Second, 3 * time.Second},
		{2, 4 * time.Second, 5 * time.Second},
		{5, 10 * time.Second, 11 * time.Second}, // capped
	}

	for _, c := range cases {
		for i := 0; i < 50; i++ {
			d := p.Backoff(c.n)
			if d < c.min || d >= c.max {
				t.Fatalf("Backoff(%d) = %v, expected [%v, %v)", c.n, d, c.min, c.max)
			}
		}
	}
}

func TestDoStopsOnSuccess(t *testing.T) {
	p := NewPolicy(3, time.Millisecond, time.Millisecond, time.Millisecond)

	calls := 0
	err := Do(context.Background(), p, func(context.Context) error {
		calls++
		if calls < 2 {
			return errors.FromResponse(500, "boom")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Do failed: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}

func TestDoGivesUpOnTerminalError(t *testing.T) {
	p := NewPolicy(3, time.Millisecond, time.Millisecond, time.Millisecond)

	calls := 0
	bad := errors.FromResponse(400, "nope")
	err := Do(context.Background(), p, func(context.Context) error {
		calls++
		return bad
	})

	if !stderrors.Is(err, bad) {
		t.Fatalf("expected original error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("non-retryable error must not be retried, got %d calls", calls)
	}
}

func TestDoExhaustsBudget(t *testing.T) {
	p := NewPolicy(3, time.Millisecond, time.Millisecond, time.Millisecond)

	calls := 0
	err := Do(context.Background(), p, func(context.Context) error {
		calls++
		return errors.FromResponse(503, "unavailable")
	})

	if err == nil {
		t.Fatal("expected failure after exhausting attempts")
	}
	if calls != 3 {
		t.Errorf("expected exactly 3 attempts, got %d", calls)
	}
}

func TestDoHonorsContextCancel(t *testing.T) {
	p := NewPolicy(3, time.Minute, time.Minute, time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := Do(ctx, p, func(context.Context) error {
		return errors.FromResponse(500, "boom")
	})

	if err == nil {
		t.Fatal("expected failure")
	}
	if time.Since(start) > 5*time.Second {
		t.Error("cancellation should interrupt the backoff sleep")
	}
}
