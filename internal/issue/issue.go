// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type (
	// MarkdownMsg is remediation text rendered for the operator.
	MarkdownMsg string

	// Renderer renders markdown for a terminal.
	Renderer func(in string, stylePath string) (string, error)

	// Issue is one remediation catalog entry, keyed by error kind.
	Issue struct {
		kind  Kind
		mdMsg MarkdownMsg
	}
)

// DefaultStyle is the glamour style used when none is requested.
const DefaultStyle = "auto"

var (
	render Renderer = glamour.Render

	invalidConfigIssue = &Issue{
		kind: KindInvalidConfig,
		mdMsg: `
# The configuration document is invalid

Loading stops before any task runs.

## Checks performed at load time
- ` + "`installer.system_disk`" + ` and ` + "`installer.boot_disk`" + ` name existing device nodes under ` + "`/dev`" + `
- ` + "`stages.first_stage`" + ` is a key of ` + "`stages.map`" + `
- every task listed in a stage is registered

## Things you can try
~~~
$ stagehand default-config > config.cue
$ stagehand list-tasks
$ lsblk
~~~`,
	}

	invalidTaskIssue = &Issue{
		kind: KindInvalidTask,
		mdMsg: `
# Unknown task

Task names are matched exactly against the built-in registry. Nothing
was executed.

~~~
$ stagehand list-tasks
~~~`,
	}

	invalidStageIssue = &Issue{
		kind: KindInvalidStage,
		mdMsg: `
# Unknown stage

Stages are declared under ` + "`stages.map`" + ` in the configuration document.
Check the spelling of the stage name or add the stage to the document.`,
	}

	commandFailedIssue = &Issue{
		kind: KindCommandFailed,
		mdMsg: `
# A command exited with a nonzero status

The stage halted at the failing task. Nothing was rolled back: the
target system may be partially provisioned.

## Things you can try
- Read the command output logged above the error
- Fix the cause, then rerun only what is left:
~~~
$ stagehand stage <name> --config <file>
$ stagehand task <name> --config <file>
~~~`,
	}

	emptyOutputIssue = &Issue{
		kind: KindEmptyCommandOutput,
		mdMsg: `
# A command produced no output

The command exited successfully but printed nothing, so its destination
file was left untouched instead of being overwritten with an empty one.
This usually means a pipeline failed quietly (for example ` + "`genfstab`" + `
run before the target root was mounted).`,
	}

	ioFailureIssue = &Issue{
		kind: KindIO,
		mdMsg: `
# An operating system call failed

A file could not be read or written, or a program could not be started.

## Things you can try
- Run stagehand as root
- Check that the program named in the error is installed
- Check free space on the target root`,
	}

	conditionTimeoutIssue = &Issue{
		kind: KindConditionTimeout,
		mdMsg: `
# Gave up waiting

A bounded wait (for example for a network link to come up) used all of
its attempts. Check the hardware or service it was waiting for, then
rerun the task.`,
	}

	duplicateTaskIssue = &Issue{
		kind: KindDuplicateTask,
		mdMsg: `
# Two tasks share a name

The task registry was built with the same name twice. This is a defect in
the build, not in your configuration; report it with the output of
` + "`stagehand list-tasks`" + `.`,
	}

	issues = map[Kind]*Issue{
		duplicateTaskIssue.Kind():    duplicateTaskIssue,
		invalidConfigIssue.Kind():    invalidConfigIssue,
		invalidTaskIssue.Kind():      invalidTaskIssue,
		invalidStageIssue.Kind():     invalidStageIssue,
		commandFailedIssue.Kind():    commandFailedIssue,
		emptyOutputIssue.Kind():      emptyOutputIssue,
		ioFailureIssue.Kind():        ioFailureIssue,
		conditionTimeoutIssue.Kind(): conditionTimeoutIssue,
	}
)

// Kind returns the error kind the entry documents.
func (i *Issue) Kind() Kind {
	return i.kind
}

// MarkdownMsg returns the raw markdown of the entry.
func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

// Render renders the entry for a terminal using the given glamour style.
func (i *Issue) Render(stylePath string) (string, error) {
	if stylePath == "" {
		stylePath = DefaultStyle
	}
	out, err := render(strings.TrimSpace(string(i.mdMsg)), stylePath)
	if err != nil {
		return "", err
	}
	return out, nil
}

// Values returns every catalog entry ordered by kind.
func Values() []*Issue {
	kinds := make([]Kind, 0, len(issues))
	for k := range maps.Keys(issues) {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)

	out := make([]*Issue, 0, len(kinds))
	for _, k := range kinds {
		out = append(out, issues[k])
	}
	return out
}

// Get returns the entry for a kind, or nil when the kind has none.
func Get(kind Kind) *Issue {
	return issues[kind]
}

// ForError returns the entry documenting err's kind, or nil.
func ForError(err error) *Issue {
	return Get(KindOf(err))
}
