// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/stagehand/stagehand/internal/issue"
)

// resolve performs the checks the schema cannot express: device nodes must
// exist, first_stage must be a stage, and listed tasks must be registered.
func (c *Config) resolve(opts LoadOptions) error {
	deviceDir := opts.DeviceDir
	if deviceDir == "" {
		deviceDir = DefaultDeviceDir
	}

	var err error
	if c.Installer.SystemDisk, err = resolveDevice(deviceDir, "installer.system_disk", c.Installer.SystemDisk); err != nil {
		return c.deviceError(err)
	}
	if c.Installer.BootDisk, err = resolveDevice(deviceDir, "installer.boot_disk", c.Installer.BootDisk); err != nil {
		return c.deviceError(err)
	}

	if _, ok := c.Stages.Map[c.Stages.FirstStage]; !ok {
		return issue.NewErrorContext().
			WithOperation("load configuration").
			WithResource(c.Path).
			WithSuggestion("Set stages.first_stage to one of the keys of stages.map").
			Wrap(fmt.Errorf("%w: first stage %q is not defined in stages.map (have %v)",
				issue.ErrInvalidConfig, c.Stages.FirstStage, c.Stages.Names())).
			BuildError()
	}

	if opts.Tasks != nil {
		for _, stage := range c.Stages.Names() {
			for i, name := range c.Stages.Map[stage] {
				if opts.Tasks.Contains(name) {
					continue
				}
				return issue.NewErrorContext().
					WithOperation("load configuration").
					WithResource(c.Path).
					WithSuggestion("Run 'stagehand list-tasks' to see the available tasks").
					Wrap(fmt.Errorf("%w: stages.map.%s[%d]: there is no task %q", issue.ErrInvalidTask, stage, i, name)).
					BuildError()
			}
		}
	}
	return nil
}

func (c *Config) deviceError(err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(c.Path).
		WithSuggestion("Use a device name as listed by 'lsblk', without the /dev/ prefix").
		Wrap(err).
		BuildError()
}

// resolveDevice joins name onto dir and requires an existing node that is
// not a directory.
func resolveDevice(dir, field, name string) (string, error) {
	path := filepath.Join(dir, name)
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", fmt.Errorf("%w: %s: device %s doesn't exist", issue.ErrInvalidConfig, field, name)
	}
	return path, nil
}
