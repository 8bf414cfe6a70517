// SPDX-License-Identifier: MPL-2.0

package config

import (
	"maps"
	"slices"
)

const (
	// DefaultDeviceDir is where device names are resolved.
	DefaultDeviceDir = "/dev"
	// DefaultMountPoint is where the target root is mounted during install.
	DefaultMountPoint = "/mnt"
	// DefaultTimezone is used when the document sets none.
	DefaultTimezone = "UTC"
	// DefaultHostname is used when the document sets none.
	DefaultHostname = "archlinux"
)

type (
	// Config is the loaded installation document. It is read-only after
	// Load returns.
	Config struct {
		Installer Installer `mapstructure:"installer" yaml:"installer" toml:"installer" json:"installer"`
		User      User      `mapstructure:"user" yaml:"user" toml:"user" json:"user"`
		Stages    Stages    `mapstructure:"stages" yaml:"stages" toml:"stages" json:"stages"`

		// Path is the absolute path of the document this Config came from.
		Path string `mapstructure:"-" yaml:"-" toml:"-" json:"-"`
	}

	// Installer holds the target machine settings. After Load, SystemDisk
	// and BootDisk hold full device paths.
	Installer struct {
		SystemDisk string `mapstructure:"system_disk" yaml:"system_disk" toml:"system_disk" json:"system_disk"`
		BootDisk   string `mapstructure:"boot_disk" yaml:"boot_disk" toml:"boot_disk" json:"boot_disk"`
		Hostname   string `mapstructure:"hostname" yaml:"hostname,omitempty" toml:"hostname,omitempty" json:"hostname,omitempty"`
		Timezone   string `mapstructure:"timezone" yaml:"timezone,omitempty" toml:"timezone,omitempty" json:"timezone,omitempty"`
		MountPoint string `mapstructure:"mount_point" yaml:"mount_point,omitempty" toml:"mount_point,omitempty" json:"mount_point,omitempty"`
		HTTPProxy  string `mapstructure:"http_proxy" yaml:"http_proxy,omitempty" toml:"http_proxy,omitempty" json:"http_proxy,omitempty"`
	}

	// User describes the account created on the installed system.
	User struct {
		Name     string `mapstructure:"name" yaml:"name,omitempty" toml:"name,omitempty" json:"name,omitempty"`
		FullName string `mapstructure:"full_name" yaml:"full_name,omitempty" toml:"full_name,omitempty" json:"full_name,omitempty"`
		Email    string `mapstructure:"email" yaml:"email,omitempty" toml:"email,omitempty" json:"email,omitempty"`
	}

	// Stages maps stage names to ordered task-name lists.
	Stages struct {
		FirstStage string              `mapstructure:"first_stage" yaml:"first_stage" toml:"first_stage" json:"first_stage"`
		Map        map[string][]string `mapstructure:"map" yaml:"map" toml:"map" json:"map"`
	}

	// TaskLookup reports whether a task name is registered.
	TaskLookup interface {
		Contains(name string) bool
	}
)

// Stage returns the task names of the named stage.
func (s Stages) Stage(name string) ([]string, bool) {
	tasks, ok := s.Map[name]
	return slices.Clone(tasks), ok
}

// Names returns the stage names in lexical order.
func (s Stages) Names() []string {
	return slices.Sorted(maps.Keys(s.Map))
}
