// SPDX-License-Identifier: MPL-2.0

package task

import (
	"context"
	"errors"
	"os"
	"slices"
	"testing"

	"github.com/stagehand/stagehand/internal/issue"
	"github.com/stagehand/stagehand/internal/testutil"
)

func noop(context.Context, *Env) error { return nil }

func entries(names ...string) []Entry {
	out := make([]Entry, len(names))
	for i, n := range names {
		out[i] = Entry{Name: n, Description: "does " + n, Task: Func(noop)}
	}
	return out
}

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry(entries("prepare", "base", "reboot")...)
	if err != nil {
		t.Fatalf("NewRegistry() error = %v", err)
	}
	if r.Len() != 3 {
		t.Errorf("Len() = %d, want 3", r.Len())
	}
	if got := r.Names(); !slices.Equal(got, []string{"prepare", "base", "reboot"}) {
		t.Errorf("Names() = %v, want registration order", got)
	}
}

func TestNewRegistryRejects(t *testing.T) {
	tests := []struct {
		name    string
		entries []Entry
		wantErr error
	}{
		{"duplicate", entries("base", "prepare", "base"), issue.ErrDuplicateTask},
		{"empty name", []Entry{{Task: Func(noop)}}, ErrEmptyName},
		{"nil task", []Entry{{Name: "base"}}, ErrNilTask},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := NewRegistry(tt.entries...)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewRegistry() error = %v, want %v", err, tt.wantErr)
			}
			if r != nil {
				t.Error("NewRegistry() returned a registry alongside an error")
			}
		})
	}
}

func TestLookup(t *testing.T) {
	r, err := NewRegistry(entries("prepare", "base")...)
	if err != nil {
		t.Fatal(err)
	}

	e, err := r.Lookup("base")
	if err != nil {
		t.Fatalf("Lookup(base) error = %v", err)
	}
	if e.Name != "base" || e.Description != "does base" {
		t.Errorf("Lookup(base) = %+v", e)
	}

	// The same name resolves to the same step every time.
	again, _ := r.Lookup("base")
	if again.Name != e.Name {
		t.Errorf("second Lookup() = %q", again.Name)
	}

	if _, err := r.Lookup("bootloader"); !errors.Is(err, issue.ErrInvalidTask) {
		t.Errorf("Lookup(unknown) error = %v, want ErrInvalidTask", err)
	}
	if !r.Contains("prepare") || r.Contains("Prepare") {
		t.Error("Contains() must match names exactly")
	}
}

func TestEntriesIsACopy(t *testing.T) {
	r, err := NewRegistry(entries("prepare", "base")...)
	if err != nil {
		t.Fatal(err)
	}

	got := r.Entries()
	got[0].Name = "mutated"

	if names := r.Names(); !slices.Equal(names, []string{"prepare", "base"}) {
		t.Errorf("registry changed through Entries(): %v", names)
	}
	if r.Contains("mutated") {
		t.Error("registry changed through Entries()")
	}
}

func TestNewRegistryCopiesInput(t *testing.T) {
	in := entries("prepare", "base")
	r, err := NewRegistry(in...)
	if err != nil {
		t.Fatal(err)
	}
	in[0].Name = "mutated"
	if !r.Contains("prepare") {
		t.Error("registry aliases the caller's slice")
	}
}

func TestResolve(t *testing.T) {
	r, err := NewRegistry(entries("prepare", "base", "reboot")...)
	if err != nil {
		t.Fatal(err)
	}

	got, err := r.Resolve([]string{"reboot", "prepare"})
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if names := Names(got); !slices.Equal(names, []string{"reboot", "prepare"}) {
		t.Errorf("Resolve() order = %v", names)
	}

	if _, err := r.Resolve([]string{"prepare", "nope", "base"}); !errors.Is(err, issue.ErrInvalidTask) {
		t.Errorf("Resolve() error = %v, want ErrInvalidTask", err)
	}
}

func TestMust(t *testing.T) {
	r, err := NewRegistry(entries("prepare")...)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if recover() == nil {
			t.Error("Must() did not panic on an unknown name")
		}
	}()
	r.Must("nope")
}

func TestStageNames(t *testing.T) {
	s := Stage{Name: "install", Tasks: entries("a", "b")}
	if got := s.Names(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestEnvConfirm(t *testing.T) {
	tests := []struct {
		name    string
		prompt  Confirmer
		wantErr error
	}{
		{"yes", ConfirmFunc(func(string) (bool, error) { return true, nil }), nil},
		{"no", ConfirmFunc(func(string) (bool, error) { return false, nil }), issue.ErrOperatorDecline},
		{"no prompt", nil, issue.ErrOperatorDecline},
		{"read error", ConfirmFunc(func(string) (bool, error) { return false, os.ErrClosed }), issue.ErrIO},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := &Env{Prompt: tt.prompt}
			err := env.Confirm("Partition disks?")
			if tt.wantErr == nil && err != nil {
				t.Fatalf("Confirm() error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("Confirm() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestEnvSetenv(t *testing.T) {
	t.Cleanup(testutil.MustUnsetenv(t, "STAGEHAND_TEST_SETENV"))
	logger, logs := testutil.NewLogger(t)
	env := &Env{Log: logger}

	if err := env.Setenv("STAGEHAND_TEST_SETENV", "1"); err != nil {
		t.Fatalf("Setenv() error = %v", err)
	}
	if os.Getenv("STAGEHAND_TEST_SETENV") != "1" {
		t.Error("variable not set in the process environment")
	}
	if logs.String() == "" {
		t.Error("Setenv() did not log the change")
	}
}
