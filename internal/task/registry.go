// SPDX-License-Identifier: MPL-2.0

package task

import (
	"errors"
	"fmt"
	"slices"

	"github.com/stagehand/stagehand/internal/issue"
)

var (
	// ErrEmptyName is returned for an entry without a name.
	ErrEmptyName = errors.New("task name is empty")
	// ErrNilTask is returned for an entry without a Task.
	ErrNilTask = errors.New("task is nil")
)

// Registry maps task names to entries. It is immutable once built.
type Registry struct {
	order []Entry
	index map[string]int
}

// NewRegistry builds a registry from entries, keeping their order for
// listings. Empty names, nil tasks and duplicate names are rejected.
func NewRegistry(entries ...Entry) (*Registry, error) {
	r := &Registry{
		order: make([]Entry, 0, len(entries)),
		index: make(map[string]int, len(entries)),
	}
	for i, e := range entries {
		switch {
		case e.Name == "":
			return nil, fmt.Errorf("entry %d: %w", i, ErrEmptyName)
		case e.Task == nil:
			return nil, fmt.Errorf("entry %q: %w", e.Name, ErrNilTask)
		}
		if _, dup := r.index[e.Name]; dup {
			return nil, fmt.Errorf("%w: %q", issue.ErrDuplicateTask, e.Name)
		}
		r.index[e.Name] = len(r.order)
		r.order = append(r.order, e)
	}
	return r, nil
}

// Lookup returns the entry registered under name.
func (r *Registry) Lookup(name string) (Entry, error) {
	i, ok := r.index[name]
	if !ok {
		return Entry{}, fmt.Errorf("%w: there is no task %q", issue.ErrInvalidTask, name)
	}
	return r.order[i], nil
}

// Contains reports whether name is registered.
func (r *Registry) Contains(name string) bool {
	_, ok := r.index[name]
	return ok
}

// Len returns the number of registered tasks.
func (r *Registry) Len() int { return len(r.order) }

// Entries returns a copy of all entries in registration order.
func (r *Registry) Entries() []Entry {
	return slices.Clone(r.order)
}

// Names returns every registered name in registration order.
func (r *Registry) Names() []string {
	return Names(r.order)
}

// Resolve looks up every name before returning. The first unknown name
// fails the whole resolution.
func (r *Registry) Resolve(names []string) ([]Entry, error) {
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		e, err := r.Lookup(name)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Must resolves names and panics on an unknown one. It is meant for
// building fixed plans from compiled-in names.
func (r *Registry) Must(names ...string) []Entry {
	entries, err := r.Resolve(names)
	if err != nil {
		panic(err)
	}
	return entries
}
