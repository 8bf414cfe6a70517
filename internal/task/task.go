// SPDX-License-Identifier: MPL-2.0

package task

import "context"

type (
	// Task is one provisioning step. Implementations keep no state between
	// runs; everything they need arrives through env.
	Task interface {
		Run(ctx context.Context, env *Env) error
	}

	// Func adapts a plain function to the Task interface.
	Func func(ctx context.Context, env *Env) error

	// Entry is a named Task.
	Entry struct {
		// Name is the stable identifier used in configuration documents.
		Name string
		// Description is a one-line summary for listings.
		Description string
		// Task is the step itself.
		Task Task
	}

	// Stage is a resolved, ordered list of entries.
	Stage struct {
		Name  string
		Tasks []Entry
	}
)

// Run calls f.
func (f Func) Run(ctx context.Context, env *Env) error { return f(ctx, env) }

// Names returns the names of entries, in order.
func Names(entries []Entry) []string {
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name
	}
	return names
}

// Names returns the stage's task names, in order.
func (s Stage) Names() []string { return Names(s.Tasks) }
