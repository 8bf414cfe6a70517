// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestPromptConfirm(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"yes", "y\n", true},
		{"yes word", "YES\n", true},
		{"no", "n\n", false},
		{"empty means no", "\n", false},
		{"retry after junk", "maybe\ny\n", true},
		{"answer without newline", "yes", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompt(strings.NewReader(tt.input), &out)

			got, err := p.Confirm("Format the disks?")
			if err != nil {
				t.Fatalf("Confirm() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Confirm() = %v, want %v", got, tt.want)
			}
			if !strings.Contains(out.String(), "Format the disks?") {
				t.Errorf("question not written: %q", out.String())
			}
		})
	}
}

func TestPromptConfirmRetryMessage(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompt(strings.NewReader("sure\nno\n"), &out)

	if ok, err := p.Confirm("Continue?"); err != nil || ok {
		t.Fatalf("Confirm() = %v, %v", ok, err)
	}
	if strings.Count(out.String(), "Continue?") != 2 {
		t.Errorf("question asked %d times, want 2:\n%s", strings.Count(out.String(), "Continue?"), out.String())
	}
	if !strings.Contains(out.String(), "please answer y or n") {
		t.Errorf("missing retry hint:\n%s", out.String())
	}
}

func TestPromptConfirmEndOfInput(t *testing.T) {
	for _, input := range []string{"", "later"} {
		p := NewPrompt(strings.NewReader(input), io.Discard)
		if _, err := p.Confirm("Continue?"); !errors.Is(err, io.ErrUnexpectedEOF) {
			t.Errorf("Confirm(%q) error = %v, want ErrUnexpectedEOF", input, err)
		}
	}
}
