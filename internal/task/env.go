// SPDX-License-Identifier: MPL-2.0

package task

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/stagehand/stagehand/internal/config"
	"github.com/stagehand/stagehand/internal/issue"
	"github.com/stagehand/stagehand/internal/provision"
	"github.com/stagehand/stagehand/internal/runtime"
)

type (
	// Confirmer asks the operator a yes/no question.
	Confirmer interface {
		Confirm(question string) (bool, error)
	}

	// ConfirmFunc adapts a function to Confirmer.
	ConfirmFunc func(question string) (bool, error)

	// Env is everything a task may use while it runs.
	Env struct {
		Config   *config.Config
		Runner   *runtime.Runner
		Crossing *provision.Manager
		Prompt   Confirmer
		Log      *log.Logger
	}
)

// Confirm calls f.
func (f ConfirmFunc) Confirm(question string) (bool, error) { return f(question) }

// Confirm asks question and returns issue.ErrOperatorDecline unless the
// operator agrees. Without a prompt every question is declined.
func (e *Env) Confirm(question string) error {
	if e.Prompt == nil {
		return fmt.Errorf("%w: no prompt available for %q", issue.ErrOperatorDecline, question)
	}
	ok, err := e.Prompt.Confirm(question)
	if err != nil {
		return issue.IOFailure("read confirmation", err)
	}
	if !ok {
		return issue.ErrOperatorDecline
	}
	return nil
}

// Setenv sets a process environment variable. Commands spawned afterwards
// by any task inherit it.
func (e *Env) Setenv(key, value string) error {
	if err := os.Setenv(key, value); err != nil {
		return issue.IOFailure("set "+key, err)
	}
	e.Logger().Info("environment", "set", key, "value", value)
	return nil
}

// Logger returns Log, or the default logger when Log is unset.
func (e *Env) Logger() *log.Logger {
	if e.Log != nil {
		return e.Log
	}
	return log.Default()
}
