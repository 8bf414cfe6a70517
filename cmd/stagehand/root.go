// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for stagehand.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/stagehand/stagehand/internal/config"
	"github.com/stagehand/stagehand/internal/issue"
	"github.com/stagehand/stagehand/internal/runtime"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose switches to debug logging and detailed error output
	verbose bool
	// cfgFile is the installation document
	cfgFile string
	// logLevel is the minimum level logged
	logLevel string

	rootCmd = &cobra.Command{
		Use:   "stagehand",
		Short: "Run an operating system install as ordered stages of tasks",
		Long: TitleStyle.Render("stagehand") + SubtitleStyle.Render(" - staged operating system installer") + `

stagehand runs the tasks of a stage one at a time, in the order the
configuration document lists them. Some tasks continue inside a chroot
of the new system, and some schedule the next stage to run after reboot.

` + SubtitleStyle.Render("Examples:") + `
  stagehand default-config > config.cue    Write a template document
  stagehand install -c config.cue          Run the first stage
  stagehand stage user_system -c config.cue
  stagehand list-tasks                     Show every registered task`,
		SilenceUsage: true,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging and detailed errors")
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "installation document (.cue, .yaml, .toml or .json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (env "+config.EnvPrefix+"_LOG_LEVEL)")

	rootCmd.AddCommand(installCmd)
	rootCmd.AddCommand(stageCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(listTasksCmd)
	rootCmd.AddCommand(defaultConfigCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithErrorHandler(handleError),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(int(exitErr.Code))
		}
		os.Exit(1)
	}
}

// handleError prints errors fang surfaces, except ExitErrors: their
// commands already reported them.
func handleError(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// newLogger builds the process logger. --verbose wins over --log-level,
// which wins over STAGEHAND_LOG_LEVEL.
func newLogger(w io.Writer) (*log.Logger, error) {
	level := log.InfoLevel
	name := logLevel
	if name == "" {
		name = os.Getenv(config.EnvPrefix + "_LOG_LEVEL")
	}
	if name != "" {
		parsed, err := log.ParseLevel(strings.ToLower(name))
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", name, err)
		}
		level = parsed
	}
	if verbose {
		level = log.DebugLevel
	}

	logger := log.NewWithOptions(w, log.Options{
		Prefix:          config.AppName,
		ReportTimestamp: true,
		Level:           level,
	})
	return logger, nil
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verboseMode)
	}
	return err.Error()
}

// fail prints err on the command's stderr and returns the exit error that
// carries code out of fang. In verbose mode the remediation note for the
// error's kind is rendered too.
func fail(cmd *cobra.Command, code int, err error) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	stderr := cmd.ErrOrStderr()
	fmt.Fprintf(stderr, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(err, verbose))
	if verbose {
		if entry := issue.ForError(err); entry != nil {
			if rendered, renderErr := entry.Render(issue.DefaultStyle); renderErr == nil {
				fmt.Fprint(stderr, rendered)
			}
		}
	}
	return &ExitError{Code: runtime.ExitCode(code), Err: err}
}
