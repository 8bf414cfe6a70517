// SPDX-License-Identifier: MPL-2.0

package provision

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/stagehand/stagehand/internal/config"
	"github.com/stagehand/stagehand/internal/issue"
	"github.com/stagehand/stagehand/internal/runtime"
)

// ErrCopyMismatch is returned when a staged file differs from its source.
var ErrCopyMismatch = errors.New("staged copy does not match its source")

type (
	// Manager performs chroot and reboot crossings.
	Manager struct {
		runner   *runtime.Runner
		tasks    config.TaskLookup
		settings Settings
		log      *log.Logger

		removeAll func(string) error
	}

	// RebootPlan describes a continuation that runs after a reboot.
	RebootPlan struct {
		// Root is the host path of the installed system's root.
		Root string
		// Stage runs after the reboot. It must exist in the configuration.
		Stage string
		// StagingDir is relative to Root. Empty means the default.
		StagingDir string
		// ScriptPath is relative to Root. Empty means the default.
		ScriptPath string
		// Owner, when set, is applied with chown -R to the staged files
		// and the script, e.g. "alice:users".
		Owner string
	}
)

// New creates a Manager that runs commands through runner and validates
// task names against tasks.
func New(runner *runtime.Runner, tasks config.TaskLookup, opts ...Option) *Manager {
	s := DefaultSettings()
	s.Apply(opts...)
	return &Manager{
		runner:    runner,
		tasks:     tasks,
		settings:  s,
		log:       runner.Logger(),
		removeAll: os.RemoveAll,
	}
}

// Settings returns a copy of the manager's settings.
func (m *Manager) Settings() Settings { return m.settings }

// Chroot runs taskName inside root using a staged copy of this program and
// the configuration document. The chroot staging directory must not exist
// beforehand and is removed afterwards whatever the outcome; cleanup errors
// are joined with the run's error. A nested operator decline is returned
// as issue.ErrOperatorDecline.
func (m *Manager) Chroot(ctx context.Context, cfg *config.Config, root, taskName string) (err error) {
	if !m.tasks.Contains(taskName) {
		return fmt.Errorf("%w: there is no task %q", issue.ErrInvalidTask, taskName)
	}

	stagingRel := m.settings.ChrootStagingDir
	stagingHost := filepath.Join(root, stagingRel)
	if _, statErr := os.Lstat(stagingHost); statErr == nil {
		return issue.IOFailure("stage files for "+taskName, fmt.Errorf("%s: %w", stagingHost, fs.ErrExist))
	} else if !errors.Is(statErr, fs.ErrNotExist) {
		return issue.IOFailure("stage files for "+taskName, statErr)
	}
	defer func() {
		// A decline joined with rmErr still reads as a decline, so the
		// failure is logged here as well.
		if rmErr := m.removeAll(stagingHost); rmErr != nil {
			m.log.Error("cleanup failed", "dir", stagingHost, "err", rmErr)
			err = errors.Join(err, issue.IOFailure("remove "+stagingHost, rmErr))
		}
	}()

	cont, err := m.stage(cfg, root, stagingRel, Selector{Kind: SelectTask, Name: taskName})
	if err != nil {
		return err
	}

	code := m.settings.DeclineExitCode
	args := append([]string{root}, cont.Argv()...)
	args = append(args, "--decline-exit-code", strconv.Itoa(code))

	inv := runtime.Command(m.settings.ChrootCommand, args...).Describe(fmt.Sprintf("run %s inside %s", taskName, root))
	if m.settings.Interactive {
		inv.Interactive()
	}

	if err = m.runner.Run(ctx, inv); err != nil {
		var failed *runtime.CommandFailedError
		if errors.As(err, &failed) && int(failed.ExitCode) == code {
			return fmt.Errorf("%w: inside %s at task %s", issue.ErrOperatorDecline, root, taskName)
		}
		return err
	}
	return nil
}

// ScheduleReboot stages this program and the configuration inside
// plan.Root and writes a script there that resumes plan.Stage. Nothing is
// removed: the installed system runs and deletes the script after reboot.
func (m *Manager) ScheduleReboot(ctx context.Context, cfg *config.Config, plan RebootPlan) (*Continuation, error) {
	if _, ok := cfg.Stages.Map[plan.Stage]; !ok {
		return nil, fmt.Errorf("%w: there is no stage %q", issue.ErrInvalidStage, plan.Stage)
	}

	staging := plan.StagingDir
	if staging == "" {
		staging = m.settings.StagingDir
	}
	script := plan.ScriptPath
	if script == "" {
		script = m.settings.ScriptPath
	}

	cont, err := m.stage(cfg, plan.Root, staging, Selector{Kind: SelectStage, Name: plan.Stage})
	if err != nil {
		return nil, err
	}
	cont.ScriptPath = insidePath(script)

	body, err := cont.Script()
	if err != nil {
		return nil, err
	}
	scriptHost := cont.HostPath(cont.ScriptPath)
	if err := runtime.WriteFileAtomic(scriptHost, []byte(body), 0o755); err != nil {
		return nil, err
	}
	m.log.Info("continuation scheduled", "stage", plan.Stage, "script", scriptHost)

	if plan.Owner != "" {
		chown := runtime.Command("chown", "-R", plan.Owner, filepath.Join(plan.Root, staging), scriptHost).
			Describe("fix permissions")
		if err := m.runner.Run(ctx, chown); err != nil {
			return nil, err
		}
	}
	return cont, nil
}

// stage copies the executable and the configuration document into
// root/stagingRel and verifies both copies.
func (m *Manager) stage(cfg *config.Config, root, stagingRel string, sel Selector) (*Continuation, error) {
	if cfg == nil || cfg.Path == "" {
		return nil, fmt.Errorf("%w: configuration has no source file to stage", issue.ErrInvalidConfig)
	}

	exe := m.settings.Executable
	if exe == "" {
		var err error
		if exe, err = os.Executable(); err != nil {
			return nil, issue.IOFailure("locate running executable", err)
		}
	}

	hostDir := filepath.Join(root, stagingRel)
	if err := os.MkdirAll(hostDir, 0o755); err != nil {
		return nil, issue.IOFailure("create "+hostDir, err)
	}

	binName := m.settings.BinaryName
	cfgName := DefaultConfigName + filepath.Ext(cfg.Path)

	if err := copyVerified(exe, filepath.Join(hostDir, binName), 0o755); err != nil {
		return nil, issue.IOFailure("stage executable", err)
	}
	if err := copyVerified(cfg.Path, filepath.Join(hostDir, cfgName), 0o644); err != nil {
		return nil, issue.IOFailure("stage configuration", err)
	}
	m.log.Debug("staged", "dir", hostDir, "binary", binName, "config", cfgName)

	inside := insidePath(stagingRel)
	return &Continuation{
		Root:     root,
		Binary:   path.Join(inside, binName),
		Config:   path.Join(inside, cfgName),
		Selector: sel,
	}, nil
}

// insidePath turns a root-relative path into an absolute one.
func insidePath(rel string) string {
	return path.Join("/", filepath.ToSlash(rel))
}
