// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestValues_OrderedAndComplete(t *testing.T) {
	values := Values()
	if len(values) != len(issues) {
		t.Fatalf("Values() returned %d entries, want %d", len(values), len(issues))
	}
	for i := 1; i < len(values); i++ {
		if values[i-1].Kind() >= values[i].Kind() {
			t.Errorf("Values() not ordered at %d: %v >= %v", i, values[i-1].Kind(), values[i].Kind())
		}
	}
	for _, v := range values {
		if strings.TrimSpace(string(v.MarkdownMsg())) == "" {
			t.Errorf("issue %v has empty markdown", v.Kind())
		}
	}
}

func TestForError(t *testing.T) {
	if ForError(fmt.Errorf("x: %w", ErrCommandFailed)) != commandFailedIssue {
		t.Error("ForError did not resolve the command-failed entry")
	}
	if ForError(ErrOperatorDecline) != nil {
		t.Error("decline is not a failure and has no catalog entry")
	}
}

func TestIssue_Render(t *testing.T) {
	orig := render
	t.Cleanup(func() { render = orig })

	var gotStyle string
	render = func(in, style string) (string, error) {
		gotStyle = style
		return "rendered:" + in, nil
	}

	out, err := invalidTaskIssue.Render("")
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if gotStyle != DefaultStyle {
		t.Errorf("style = %q, want %q", gotStyle, DefaultStyle)
	}
	if !strings.HasPrefix(out, "rendered:# Unknown task") {
		t.Errorf("Render() = %q", out)
	}

	render = func(string, string) (string, error) { return "", errors.New("no terminal") }
	if _, err := invalidTaskIssue.Render("dark"); err == nil {
		t.Error("Render() should surface renderer errors")
	}
}
