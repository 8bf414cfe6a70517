// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stagehand/stagehand/internal/installer"
)

var listTasksCmd = &cobra.Command{
	Use:   "list-tasks",
	Short: "List every registered task in registration order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		reg, err := installer.NewRegistry()
		if err != nil {
			return fail(cmd, 1, err)
		}

		width := 0
		for _, name := range reg.Names() {
			width = max(width, len(name))
		}

		out := cmd.OutOrStdout()
		for _, e := range reg.Entries() {
			name := fmt.Sprintf("%-*s", width, e.Name)
			fmt.Fprintf(out, "%s  %s\n", CmdStyle.Render(name), SubtitleStyle.Render(e.Description))
		}
		return nil
	},
}
