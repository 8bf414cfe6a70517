// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stagehand/stagehand/internal/provision"
	"github.com/stagehand/stagehand/internal/runtime"
)

var (
	// declineExitCode is the exit status of 'task' on an operator decline.
	declineExitCode int

	installCmd = &cobra.Command{
		Use:   "install",
		Short: "Run the configuration's first stage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return fail(cmd, 1, err)
			}
			report, err := s.engine.Install(cmd.Context(), s.env)
			return s.finish(cmd, report, err, 0)
		},
	}

	stageCmd = &cobra.Command{
		Use:   "stage NAME",
		Short: "Run one stage of the configuration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return fail(cmd, 1, err)
			}
			report, err := s.engine.RunStage(cmd.Context(), s.env, args[0])
			return s.finish(cmd, report, err, 0)
		},
	}

	taskCmd = &cobra.Command{
		Use:   "task NAME",
		Short: "Run a single task outside any stage",
		Long: `Run a single registered task.

This is also how work continues inside a chroot: the crossing stages this
binary and the configuration in the target root and runs 'task' there.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := runtime.ExitCode(declineExitCode)
			if err := code.Validate(); err != nil {
				return fail(cmd, 1, fmt.Errorf("--decline-exit-code: %w", err))
			}
			// Nested crossings keep the default decline status unless one
			// was given, so a decline deep inside still reaches the top.
			var opts []provision.Option
			if cmd.Flags().Changed("decline-exit-code") && declineExitCode != 0 {
				opts = append(opts, provision.WithDeclineExitCode(declineExitCode))
			}
			s, err := newSession(cmd, opts...)
			if err != nil {
				return fail(cmd, 1, err)
			}
			report, err := s.engine.RunTask(cmd.Context(), s.env, args[0])
			return s.finish(cmd, report, err, declineExitCode)
		},
	}
)

func init() {
	taskCmd.Flags().IntVar(&declineExitCode, "decline-exit-code", 0, "exit status to use when the operator declines")
	_ = taskCmd.Flags().MarkHidden("decline-exit-code")
}
