// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"context"
	"fmt"
	"os"

	"github.com/stagehand/stagehand/internal/config"
	"github.com/stagehand/stagehand/internal/issue"
	"github.com/stagehand/stagehand/internal/runtime"
	"github.com/stagehand/stagehand/internal/task"
)

// setFile replaces the content of path.
func setFile(env *task.Env, path, content string) error {
	if err := runtime.WriteFileAtomic(path, []byte(content), 0o644); err != nil {
		return err
	}
	env.Logger().Info("file set", "path", path)
	return nil
}

// appendLine adds line and a newline to an existing file.
func appendLine(env *task.Env, path, line string) (err error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return issue.IOFailure("open "+path, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = issue.IOFailure("close "+path, closeErr)
		}
	}()

	if _, err := fmt.Fprintln(f, line); err != nil {
		return issue.IOFailure("append to "+path, err)
	}
	env.Logger().Info("line appended", "path", path, "line", line)
	return nil
}

// pacman installs packages without asking.
func pacman(ctx context.Context, env *task.Env, description string, packages ...string) error {
	args := append([]string{"--noconfirm", "-S"}, packages...)
	return env.Runner.Run(ctx, runtime.Command("pacman", args...).Describe(description))
}

func mountPoint(cfg *config.Config) string {
	if cfg.Installer.MountPoint != "" {
		return cfg.Installer.MountPoint
	}
	return config.DefaultMountPoint
}

// userName returns the configured user or fails for tasks that need one.
func userName(cfg *config.Config, taskName string) (string, error) {
	if cfg.User.Name == "" {
		return "", issue.NewErrorContext().
			WithOperation("run " + taskName).
			WithResource(cfg.Path).
			WithSuggestion("set user.name in the configuration").
			Wrap(fmt.Errorf("%w: user.name is required", issue.ErrInvalidConfig)).
			BuildError()
	}
	return cfg.User.Name, nil
}
