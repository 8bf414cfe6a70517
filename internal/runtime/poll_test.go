// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stagehand/stagehand/internal/issue"
)

func TestWaitFor(t *testing.T) {
	errProbe := errors.New("ip: command failed")

	tests := []struct {
		name      string
		succeedAt int // 0 never
		probeErr  error
		attempts  int
		wantCalls int
		wantErr   error
	}{
		{name: "first attempt", succeedAt: 1, attempts: 10, wantCalls: 1},
		{name: "third attempt", succeedAt: 3, attempts: 10, wantCalls: 3},
		{name: "exhausted", attempts: 4, wantCalls: 4, wantErr: issue.ErrConditionTimeout},
		{name: "probe error is fatal", probeErr: errProbe, attempts: 10, wantCalls: 1, wantErr: errProbe},
		{name: "zero attempts probes once", attempts: 0, wantCalls: 1, wantErr: issue.ErrConditionTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			probe := func(context.Context) (bool, error) {
				calls++
				if tt.probeErr != nil {
					return false, tt.probeErr
				}
				return tt.succeedAt != 0 && calls >= tt.succeedAt, nil
			}

			err := WaitFor(t.Context(), PollPolicy{Attempts: tt.attempts, Interval: time.Millisecond}, probe)
			if tt.wantErr == nil && err != nil {
				t.Fatalf("WaitFor() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("WaitFor() error = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("probe called %d times, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestWaitForCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	calls := 0
	probe := func(context.Context) (bool, error) {
		calls++
		cancel()
		return false, nil
	}

	err := WaitFor(ctx, PollPolicy{Attempts: 5, Interval: time.Hour}, probe)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("WaitFor() error = %v, want context.Canceled", err)
	}
	if calls != 1 {
		t.Errorf("probe called %d times, want 1", calls)
	}
}

func TestDefaultPollPolicy(t *testing.T) {
	if DefaultPollPolicy.Attempts != 10 || DefaultPollPolicy.Interval != time.Second {
		t.Errorf("DefaultPollPolicy = %+v, want 10 x 1s", DefaultPollPolicy)
	}
}
