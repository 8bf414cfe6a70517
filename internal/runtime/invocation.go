// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"errors"
	"slices"
	"strings"
	"sync/atomic"
)

// ErrInvocationConsumed is returned when an Invocation is executed twice.
var ErrInvocationConsumed = errors.New("runtime: invocation already executed")

// Invocation is a single-use description of one external program run.
// Build it with Command and the chainable setters, then hand it to exactly
// one Runner method.
type Invocation struct {
	program     string
	args        []string
	description string
	input       []byte
	dir         string
	interactive bool

	consumed atomic.Bool
}

// Command starts an Invocation of program with args.
func Command(program string, args ...string) *Invocation {
	return &Invocation{
		program: program,
		args:    slices.Clone(args),
	}
}

// Describe attaches a human-readable description. Described invocations
// are bracketed by start/done log markers.
func (i *Invocation) Describe(description string) *Invocation {
	i.description = description
	return i
}

// WithInput feeds b to the child's stdin.
func (i *Invocation) WithInput(b []byte) *Invocation {
	i.input = slices.Clone(b)
	return i
}

// InDir sets the child's working directory.
func (i *Invocation) InDir(dir string) *Invocation {
	i.dir = dir
	return i
}

// Interactive attaches the child to a pseudo-terminal when run in stream
// mode: the runner's stdin is forwarded and output is echoed to the
// runner's terminal as it arrives instead of being logged line by line.
// It is ignored when input bytes are set.
func (i *Invocation) Interactive() *Invocation {
	i.interactive = true
	return i
}

// Args returns a copy of the arguments.
func (i *Invocation) Args() []string { return slices.Clone(i.args) }

// String returns the command line for logs.
func (i *Invocation) String() string {
	if len(i.args) == 0 {
		return i.program
	}
	return i.program + " " + strings.Join(i.args, " ")
}

func (i *Invocation) consume() error {
	if i.consumed.Swap(true) {
		return ErrInvocationConsumed
	}
	return nil
}
