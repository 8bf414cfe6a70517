// SPDX-License-Identifier: MPL-2.0

package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/stagehand/stagehand/internal/issue"
	"github.com/stagehand/stagehand/internal/task"
)

type (
	// Observer is notified around every task the engine runs.
	Observer interface {
		TaskStarted(name string)
		TaskFinished(name string, err error)
	}

	// Option configures an Engine.
	Option func(*Engine)

	// Engine executes stages resolved against a registry.
	Engine struct {
		registry *task.Registry
		log      *log.Logger
		observer Observer
	}

	// Report describes how far a run got.
	Report struct {
		// Stage is empty for a single task run.
		Stage string
		// Completed lists the tasks that returned without error, in order.
		Completed []string
		// DeclinedAt names the task where the operator declined, if any.
		DeclinedAt string
	}

	// TaskError is a task failure annotated with where it happened.
	TaskError struct {
		Stage string
		Task  string
		Err   error
	}
)

// WithLogger sets the logger used for stage progress.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithObserver sets a progress observer.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		e.observer = o
	}
}

// New creates an Engine over registry.
func New(registry *task.Registry, opts ...Option) *Engine {
	e := &Engine{registry: registry, log: log.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Error implements error.
func (e *TaskError) Error() string {
	if e.Stage == "" {
		return fmt.Sprintf("task %s: %v", e.Task, e.Err)
	}
	return fmt.Sprintf("stage %s: task %s: %v", e.Stage, e.Task, e.Err)
}

// Unwrap returns the task's own error.
func (e *TaskError) Unwrap() error { return e.Err }

// Declined reports whether the run stopped at an operator decline.
func (r *Report) Declined() bool { return r.DeclinedAt != "" }

// Install runs the configuration's first stage.
func (e *Engine) Install(ctx context.Context, env *task.Env) (*Report, error) {
	return e.RunStage(ctx, env, env.Config.Stages.FirstStage)
}

// RunStage resolves every task of the named stage and then runs them in
// order. Nothing runs if any name is unknown.
func (e *Engine) RunStage(ctx context.Context, env *task.Env, name string) (*Report, error) {
	names, ok := env.Config.Stages.Stage(name)
	if !ok {
		return nil, fmt.Errorf("%w: there is no stage %q", issue.ErrInvalidStage, name)
	}
	entries, err := e.registry.Resolve(names)
	if err != nil {
		return nil, fmt.Errorf("stage %s: %w", name, err)
	}
	return e.run(ctx, env, task.Stage{Name: name, Tasks: entries})
}

// RunTask runs a single registered task outside any stage.
func (e *Engine) RunTask(ctx context.Context, env *task.Env, name string) (*Report, error) {
	entry, err := e.registry.Lookup(name)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, env, task.Stage{Tasks: []task.Entry{entry}})
}

func (e *Engine) run(ctx context.Context, env *task.Env, stage task.Stage) (*Report, error) {
	report := &Report{Stage: stage.Name, Completed: make([]string, 0, len(stage.Tasks))}
	started := time.Now()
	if stage.Name != "" {
		e.log.Info("stage start", "stage", stage.Name, "tasks", len(stage.Tasks))
	}

	for _, entry := range stage.Tasks {
		if err := ctx.Err(); err != nil {
			return report, &TaskError{Stage: stage.Name, Task: entry.Name, Err: err}
		}

		if e.observer != nil {
			e.observer.TaskStarted(entry.Name)
		}
		err := entry.Task.Run(ctx, env)
		if e.observer != nil {
			e.observer.TaskFinished(entry.Name, err)
		}

		switch {
		case issue.IsDecline(err):
			report.DeclinedAt = entry.Name
			e.log.Warn("operator declined, stopping", "stage", stage.Name, "task", entry.Name)
			return report, nil
		case err != nil:
			return report, &TaskError{Stage: stage.Name, Task: entry.Name, Err: err}
		}
		report.Completed = append(report.Completed, entry.Name)
	}

	if stage.Name != "" {
		e.log.Info("stage done", "stage", stage.Name, "elapsed", time.Since(started).Round(time.Millisecond))
	}
	return report, nil
}
