// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
)

// Sentinel errors. Components wrap these with fmt.Errorf("%w") so that
// errors.Is keeps working through every layer of context.
var (
	// ErrOperatorDecline reports a negative answer to a confirmation
	// prompt. It ends the current stage but is not a failure.
	ErrOperatorDecline = errors.New("operator declined to continue")

	// ErrIO wraps operating system, filesystem, and process-spawn errors.
	ErrIO = errors.New("io failure")

	// ErrInvalidConfig reports a configuration document that failed
	// load-time validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidTask reports a task name absent from the registry.
	ErrInvalidTask = errors.New("invalid task")

	// ErrInvalidStage reports a stage name absent from the stage map.
	ErrInvalidStage = errors.New("invalid stage")

	// ErrEmptyCommandOutput reports a capture-to-file invocation whose
	// command produced no output on its primary stream.
	ErrEmptyCommandOutput = errors.New("command produced no output")

	// ErrCommandFailed reports a command that exited with a nonzero status.
	ErrCommandFailed = errors.New("command failed")

	// ErrConditionTimeout reports a bounded poll that exhausted its
	// attempt budget without observing the expected condition.
	ErrConditionTimeout = errors.New("condition not met before attempts ran out")

	// ErrDuplicateTask reports two registry entries sharing one name.
	ErrDuplicateTask = errors.New("duplicate task name")
)

// Kind classifies an error chain by the sentinel it wraps.
type Kind int

// Error kinds, ordered roughly by how often an operator meets them.
const (
	KindUnknown Kind = iota
	KindOperatorDecline
	KindIO
	KindInvalidConfig
	KindInvalidTask
	KindInvalidStage
	KindEmptyCommandOutput
	KindCommandFailed
	KindConditionTimeout
	KindDuplicateTask
)

var kindSentinels = []struct {
	kind Kind
	err  error
}{
	// Decline is checked first: a declined nested run may also carry the
	// command failure that transported it.
	{KindOperatorDecline, ErrOperatorDecline},
	{KindInvalidConfig, ErrInvalidConfig},
	{KindInvalidTask, ErrInvalidTask},
	{KindInvalidStage, ErrInvalidStage},
	{KindDuplicateTask, ErrDuplicateTask},
	{KindEmptyCommandOutput, ErrEmptyCommandOutput},
	{KindConditionTimeout, ErrConditionTimeout},
	{KindCommandFailed, ErrCommandFailed},
	{KindIO, ErrIO},
}

// String returns the stable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindOperatorDecline:
		return "operator-decline"
	case KindIO:
		return "io-failure"
	case KindInvalidConfig:
		return "invalid-config"
	case KindInvalidTask:
		return "invalid-task"
	case KindInvalidStage:
		return "invalid-stage"
	case KindEmptyCommandOutput:
		return "empty-command-output"
	case KindCommandFailed:
		return "command-failed"
	case KindConditionTimeout:
		return "condition-timeout"
	case KindDuplicateTask:
		return "duplicate-task"
	default:
		return "unknown"
	}
}

// KindOf returns the kind of the first sentinel found in err's chain.
// A nil error has KindUnknown.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	for _, s := range kindSentinels {
		if errors.Is(err, s.err) {
			return s.kind
		}
	}
	return KindUnknown
}

// IsDecline reports whether err is (or wraps) ErrOperatorDecline.
func IsDecline(err error) bool {
	return errors.Is(err, ErrOperatorDecline)
}

// IOFailure wraps an operating system error as ErrIO, keeping the
// original error reachable through errors.Is and errors.As.
func IOFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s: %w", ErrIO, op, err)
}
