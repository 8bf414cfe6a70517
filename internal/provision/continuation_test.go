// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"io"
	"slices"
	"strings"
	"testing"

	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

func TestSelectorKindString(t *testing.T) {
	if got := SelectTask.String(); got != "task" {
		t.Errorf("SelectTask.String() = %q", got)
	}
	if got := SelectStage.String(); got != "stage" {
		t.Errorf("SelectStage.String() = %q", got)
	}
}

func TestContinuationArgv(t *testing.T) {
	c := Continuation{
		Root:     "/mnt",
		Binary:   "/root/installer/stagehand",
		Config:   "/root/installer/config.cue",
		Selector: Selector{Kind: SelectTask, Name: "base_in_chroot"},
	}
	want := []string{"/root/installer/stagehand", "task", "base_in_chroot", "--config", "/root/installer/config.cue"}
	if got := c.Argv(); !slices.Equal(got, want) {
		t.Errorf("Argv() = %q, want %q", got, want)
	}
	if got := c.HostPath("/root/installer"); got != "/mnt/root/installer" {
		t.Errorf("HostPath() = %q", got)
	}
}

func TestContinuationScriptRequiresPath(t *testing.T) {
	c := Continuation{Selector: Selector{Kind: SelectStage, Name: "user_system"}}
	if _, err := c.Script(); err == nil {
		t.Fatal("Script() without ScriptPath should fail")
	}
}

// runScript executes script with an exec handler that records every
// external command instead of running it.
func runScript(t *testing.T, script string) [][]string {
	t.Helper()

	file, err := syntax.NewParser(syntax.Variant(syntax.LangPOSIX)).Parse(strings.NewReader(script), "continue.sh")
	if err != nil {
		t.Fatalf("script does not parse: %v\n%s", err, script)
	}

	var calls [][]string
	record := func(next interp.ExecHandlerFunc) interp.ExecHandlerFunc {
		return func(_ context.Context, args []string) error {
			calls = append(calls, slices.Clone(args))
			return nil
		}
	}
	runner, err := interp.New(interp.StdIO(nil, io.Discard, io.Discard), interp.ExecHandlers(record))
	if err != nil {
		t.Fatalf("interp.New() error = %v", err)
	}
	if err := runner.Run(t.Context(), file); err != nil {
		t.Fatalf("script run error = %v", err)
	}
	return calls
}

func TestContinuationScriptRuns(t *testing.T) {
	c := Continuation{
		Root:       "/mnt",
		Binary:     "/root/installer/stagehand",
		Config:     "/root/installer/config.cue",
		ScriptPath: "/root/continue_install.sh",
		Selector:   Selector{Kind: SelectStage, Name: "user_system"},
	}

	script, err := c.Script()
	if err != nil {
		t.Fatalf("Script() error = %v", err)
	}
	if !strings.HasPrefix(script, "#!/bin/sh\n") {
		t.Errorf("script lacks shebang:\n%s", script)
	}

	calls := runScript(t, script)
	want := [][]string{
		{"rm", "-f", "/root/continue_install.sh"},
		{"/root/installer/stagehand", "stage", "user_system", "--config", "/root/installer/config.cue"},
	}
	if len(calls) != len(want) {
		t.Fatalf("script ran %d commands, want %d: %q", len(calls), len(want), calls)
	}
	for i := range want {
		if !slices.Equal(calls[i], want[i]) {
			t.Errorf("command %d = %q, want %q", i, calls[i], want[i])
		}
	}
}

func TestContinuationScriptQuotesHostileNames(t *testing.T) {
	c := Continuation{
		Binary:     "/home/o'brien/installer/stagehand",
		Config:     "/home/o'brien/installer/config file; rm -rf $HOME.yaml",
		ScriptPath: "/home/o'brien/continue $(id).sh",
		Selector:   Selector{Kind: SelectStage, Name: "post_install"},
	}

	script, err := c.Script()
	if err != nil {
		t.Fatalf("Script() error = %v", err)
	}

	calls := runScript(t, script)
	if len(calls) != 2 {
		t.Fatalf("script ran %d commands, want 2: %q", len(calls), calls)
	}
	if got := calls[0][2]; got != c.ScriptPath {
		t.Errorf("rm target = %q, want %q", got, c.ScriptPath)
	}
	if !slices.Equal(calls[1], c.Argv()) {
		t.Errorf("exec argv = %q, want %q", calls[1], c.Argv())
	}
}
