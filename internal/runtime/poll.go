// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"fmt"
	"time"

	"github.com/stagehand/stagehand/internal/issue"
)

type (
	// PollPolicy bounds a synchronous wait: at most Attempts probes,
	// Interval apart.
	PollPolicy struct {
		Attempts int
		Interval time.Duration
	}

	// Probe checks a condition once. A non-nil error aborts the wait.
	Probe func(ctx context.Context) (bool, error)
)

// DefaultPollPolicy is ten probes one second apart.
var DefaultPollPolicy = PollPolicy{Attempts: 10, Interval: time.Second}

// WaitFor calls probe until it reports true, returns an error, or the
// policy's attempts run out. Exhaustion returns an error wrapping
// issue.ErrConditionTimeout.
func WaitFor(ctx context.Context, policy PollPolicy, probe Probe) error {
	attempts := max(policy.Attempts, 1)

	for attempt := 1; ; attempt++ {
		ok, err := probe(ctx)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if attempt >= attempts {
			return fmt.Errorf("%w: gave up after %d attempts", issue.ErrConditionTimeout, attempts)
		}

		timer := time.NewTimer(policy.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
