package retry

import (
	"context"
	"time"

	"github.com/kochabx/flowclient/log"
)

// Do runs fn under the policy, sleeping the backoff delay between attempts.
// It returns the first success or the error of the final attempt. Context
// cancellation interrupts both the attempt loop and the backoff sleep.
func Do(ctx context.Context, p *Policy, fn func(ctx context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}

		// count the attempt that just finished
		if !p.ShouldRetry(attempt+1, err) {
			return err
		}

		delay := p.Backoff(attempt)
		log.Debugf("retrying after %v: attempt=%d err=%v", delay, attempt+1, err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}
