// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"github.com/spf13/cobra"

	"github.com/stagehand/stagehand/internal/config"
	"github.com/stagehand/stagehand/internal/installer"
)

var (
	templateFormat string

	defaultConfigCmd = &cobra.Command{
		Use:   "default-config",
		Short: "Print a template configuration with the default stage plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := config.ParseFormat(templateFormat)
			if err != nil {
				return fail(cmd, 1, err)
			}
			reg, err := installer.NewRegistry()
			if err != nil {
				return fail(cmd, 1, err)
			}

			stages := installer.DefaultStages(reg)
			doc, err := config.Generate(config.Template(stages.FirstStage, stages.Map), format)
			if err != nil {
				return fail(cmd, 1, err)
			}
			_, err = cmd.OutOrStdout().Write(doc)
			return err
		},
	}
)

func init() {
	defaultConfigCmd.Flags().StringVarP(&templateFormat, "format", "f", string(config.FormatCUE), "output format: cue, yaml or toml")
}
