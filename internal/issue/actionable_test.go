// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestActionableError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "run stage"},
			expected: "failed to run stage",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "run stage", Resource: "install"},
			expected: "failed to run stage: install",
		},
		{
			name: "full context",
			err: &ActionableError{
				Operation: "load configuration",
				Resource:  "config.yaml",
				Cause:     errors.New("file not found"),
			},
			expected: "failed to load configuration: config.yaml: file not found",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Format(t *testing.T) {
	cause := fmt.Errorf("stage install: %w", ErrInvalidStage)
	err := NewErrorContext().
		WithOperation("run stage").
		WithResource("install").
		WithSuggestion("Check stages.map").
		Wrap(cause).
		Build()

	short := err.Format(false)
	if !strings.Contains(short, "• Check stages.map") {
		t.Errorf("Format(false) missing suggestion:\n%s", short)
	}
	if strings.Contains(short, "Error chain:") {
		t.Errorf("Format(false) should not include the chain:\n%s", short)
	}

	long := err.Format(true)
	if !strings.Contains(long, "Error chain:") || !strings.Contains(long, "2. invalid stage") {
		t.Errorf("Format(true) missing chain:\n%s", long)
	}
	if err.Kind() != KindInvalidStage {
		t.Errorf("Kind() = %v, want %v", err.Kind(), KindInvalidStage)
	}
	if !errors.Is(err, ErrInvalidStage) {
		t.Error("ActionableError does not unwrap to its cause")
	}
}

func TestErrorContext_BuildWithoutOperation(t *testing.T) {
	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without operation should return nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() without operation = %v, want nil", err)
	}
}

func TestWrapWithContext(t *testing.T) {
	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil) should return nil")
	}
	err := WrapWithContext(ErrIO, "copy binary", "/mnt/root/installer")
	if got := err.Error(); got != "failed to copy binary: /mnt/root/installer: io failure" {
		t.Errorf("Error() = %q", got)
	}
}
