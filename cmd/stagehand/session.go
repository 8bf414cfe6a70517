// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/stagehand/stagehand/internal/config"
	"github.com/stagehand/stagehand/internal/engine"
	"github.com/stagehand/stagehand/internal/installer"
	"github.com/stagehand/stagehand/internal/issue"
	"github.com/stagehand/stagehand/internal/provision"
	"github.com/stagehand/stagehand/internal/runtime"
	"github.com/stagehand/stagehand/internal/task"
)

// session is everything a run command needs, wired once per process.
type session struct {
	log    *log.Logger
	env    *task.Env
	engine *engine.Engine
}

// logObserver reports task progress through the process logger.
type logObserver struct {
	log *log.Logger
}

func (o logObserver) TaskStarted(name string) {
	o.log.Info("task start", "task", name)
}

func (o logObserver) TaskFinished(name string, err error) {
	switch {
	case issue.IsDecline(err):
		o.log.Warn("task declined", "task", name)
	case err != nil:
		o.log.Error("task failed", "task", name, "err", err)
	default:
		o.log.Info("task done", "task", name)
	}
}

// newSession loads the configuration named by --config and wires the
// runner, the crossing manager and the engine around it.
func newSession(cmd *cobra.Command, opts ...provision.Option) (*session, error) {
	stdout := cmd.OutOrStdout()
	logger, err := newLogger(stdout)
	if err != nil {
		return nil, err
	}

	reg, err := installer.NewRegistry()
	if err != nil {
		return nil, err
	}

	cfg, err := config.NewProvider().Load(cmd.Context(), config.LoadOptions{Path: cfgFile, Tasks: reg})
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded", "path", cfg.Path, "first_stage", cfg.Stages.FirstStage, "tasks", reg.Len())

	runner := runtime.NewRunner(
		runtime.WithLogger(logger),
		runtime.WithStdin(cmd.InOrStdin()),
		runtime.WithStdout(stdout),
	)

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	crossing := provision.New(runner, reg, append([]provision.Option{provision.WithInteractive(interactive)}, opts...)...)

	return &session{
		log: logger,
		env: &task.Env{
			Config:   cfg,
			Runner:   runner,
			Crossing: crossing,
			Prompt:   installer.NewPrompt(runner.Stdin(), stdout),
			Log:      logger,
		},
		engine: engine.New(reg, engine.WithLogger(logger), engine.WithObserver(logObserver{log: logger})),
	}, nil
}

// finish reports the outcome of a run and converts it into the command's
// result. A decline exits with declineCode; other failures exit 1.
func (s *session) finish(cmd *cobra.Command, report *engine.Report, err error, declineCode int) error {
	if err != nil {
		return fail(cmd, 1, err)
	}

	if report.Declined() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s stopped at %s\n",
			WarningStyle.Render("Declined:"), CmdStyle.Render(report.DeclinedAt))
		return declined(cmd, declineCode)
	}

	what := "task"
	if report.Stage != "" {
		what = "stage " + report.Stage
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s finished (%d task(s))\n",
		SuccessStyle.Render("✓"), what, len(report.Completed))
	return nil
}

func declined(cmd *cobra.Command, code int) error {
	if code == 0 {
		return nil
	}
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return &ExitError{Code: runtime.ExitCode(code), Err: issue.ErrOperatorDecline}
}
