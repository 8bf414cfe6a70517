// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stagehand/stagehand/internal/issue"
	"github.com/stagehand/stagehand/internal/testutil"
)

func TestRunInteractive(t *testing.T) {
	logger, logs := testutil.NewLogger(t)
	var out bytes.Buffer
	r := NewRunner(WithLogger(logger), WithStdin(strings.NewReader("")), WithStdout(&out))

	err := r.Run(t.Context(), Command("sh", "-c", "echo on-the-terminal; test -t 0").Interactive().Describe("nested run"))
	if errors.Is(err, issue.ErrIO) {
		t.Skipf("pseudo-terminals unavailable: %v", err)
	}
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if !strings.Contains(out.String(), "on-the-terminal") {
		t.Errorf("terminal output = %q, want echoed child output", out.String())
	}
	if strings.Contains(logs.String(), "on-the-terminal") {
		t.Errorf("interactive output was logged line by line:\n%s", logs.String())
	}
	if !strings.Contains(logs.String(), "msg=done") {
		t.Errorf("done marker missing:\n%s", logs.String())
	}
}

func TestRunInteractiveExitCode(t *testing.T) {
	logger, _ := testutil.NewLogger(t)
	r := NewRunner(WithLogger(logger), WithStdin(strings.NewReader("")), WithStdout(&bytes.Buffer{}))

	err := r.Run(t.Context(), Command("sh", "-c", "exit 3").Interactive())
	if errors.Is(err, issue.ErrIO) {
		t.Skipf("pseudo-terminals unavailable: %v", err)
	}
	var failed *CommandFailedError
	if !errors.As(err, &failed) || failed.ExitCode != 3 {
		t.Fatalf("Run() error = %v, want exit code 3", err)
	}
}

func TestInteractiveIgnoredWithInput(t *testing.T) {
	logger, logs := testutil.NewLogger(t)
	var out bytes.Buffer
	r := NewRunner(WithLogger(logger), WithStdout(&out))

	err := r.Run(t.Context(), Command("cat").WithInput([]byte("piped\n")).Interactive())
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !strings.Contains(logs.String(), "msg=piped") {
		t.Errorf("expected stream mode logging, got:\n%s", logs.String())
	}
	if out.Len() != 0 {
		t.Errorf("terminal received %q, want nothing", out.String())
	}
}

func TestInteractiveLeavesLaterInputUnread(t *testing.T) {
	logger, _ := testutil.NewLogger(t)
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	var out bytes.Buffer
	r := NewRunner(WithLogger(logger), WithStdin(pr), WithStdout(&out))

	err := r.Run(t.Context(), Command("true").Interactive())
	if errors.Is(err, issue.ErrIO) {
		t.Skipf("pseudo-terminals unavailable: %v", err)
	}
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	go func() { _, _ = pw.Write([]byte("y\n")) }()

	line, err := bufio.NewReader(r.Stdin()).ReadString('\n')
	if err != nil {
		t.Fatalf("ReadString() error = %v", err)
	}
	if line != "y\n" {
		t.Errorf("answer after interactive run = %q, want %q", line, "y\n")
	}
}

func TestInteractiveRunsShareInput(t *testing.T) {
	logger, _ := testutil.NewLogger(t)
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })
	var out bytes.Buffer
	r := NewRunner(WithLogger(logger), WithStdin(pr), WithStdout(&out))

	err := r.Run(t.Context(), Command("true").Interactive())
	if errors.Is(err, issue.ErrIO) {
		t.Skipf("pseudo-terminals unavailable: %v", err)
	}
	if err != nil {
		t.Fatalf("first Run() error = %v", err)
	}

	go func() { _, _ = pw.Write([]byte("second\n")) }()

	if err := r.Run(t.Context(), Command("sh", "-c", `read answer; echo "got:$answer"`).Interactive()); err != nil {
		t.Fatalf("second Run() error = %v", err)
	}
	if !strings.Contains(out.String(), "got:second") {
		t.Errorf("second child output = %q, want it to read the answer", out.String())
	}
}
