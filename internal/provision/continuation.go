// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"mvdan.cc/sh/v3/syntax"
)

const (
	// SelectTask resumes with a single task.
	SelectTask SelectorKind = iota
	// SelectStage resumes with a whole stage.
	SelectStage
)

type (
	// SelectorKind says whether a Continuation runs a task or a stage.
	SelectorKind int

	// Selector names what runs on the other side of a crossing.
	Selector struct {
		Kind SelectorKind
		Name string
	}

	// Continuation describes how execution resumes inside Root. Binary,
	// Config and ScriptPath are absolute paths as seen from inside Root.
	Continuation struct {
		Root       string
		Binary     string
		Config     string
		ScriptPath string
		Selector   Selector
	}
)

// String returns the subcommand that runs the selection.
func (k SelectorKind) String() string {
	if k == SelectStage {
		return "stage"
	}
	return "task"
}

// Argv returns the command line that resumes execution, as run from
// inside Root.
func (c Continuation) Argv() []string {
	return []string{c.Binary, c.Selector.Kind.String(), c.Selector.Name, "--config", c.Config}
}

// HostPath maps a path inside Root to the corresponding host path.
func (c Continuation) HostPath(inside string) string {
	return filepath.Join(c.Root, inside)
}

// Script renders a POSIX shell script that deletes itself and then
// replaces the shell with Argv. Every word is quoted for POSIX sh and the
// result is parsed back before it is returned.
func (c Continuation) Script() (string, error) {
	if c.ScriptPath == "" {
		return "", fmt.Errorf("continuation for %s %q has no script path", c.Selector.Kind, c.Selector.Name)
	}

	rm, err := quoteWords("rm", "-f", c.ScriptPath)
	if err != nil {
		return "", err
	}
	exec, err := quoteWords(append([]string{"exec"}, c.Argv()...)...)
	if err != nil {
		return "", err
	}

	var src strings.Builder
	src.WriteString("#!/bin/sh\n")
	fmt.Fprintf(&src, "# Resume the installation: %s %s.\n", c.Selector.Kind, c.Selector.Name)
	src.WriteString(rm + "\n")
	src.WriteString(exec + "\n")

	parser := syntax.NewParser(syntax.Variant(syntax.LangPOSIX), syntax.KeepComments(true))
	file, err := parser.Parse(strings.NewReader(src.String()), filepath.Base(c.ScriptPath))
	if err != nil {
		return "", fmt.Errorf("generated continuation script does not parse: %w", err)
	}

	var out bytes.Buffer
	if err := syntax.NewPrinter().Print(&out, file); err != nil {
		return "", fmt.Errorf("print continuation script: %w", err)
	}
	return out.String(), nil
}

func quoteWords(words ...string) (string, error) {
	quoted := make([]string, len(words))
	for i, w := range words {
		q, err := syntax.Quote(w, syntax.LangPOSIX)
		if err != nil {
			return "", fmt.Errorf("quote %q: %w", w, err)
		}
		quoted[i] = q
	}
	return strings.Join(quoted, " "), nil
}
