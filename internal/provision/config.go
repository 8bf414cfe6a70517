// SPDX-License-Identifier: MPL-2.0

package provision

const (
	// DefaultChrootCommand enters the target root.
	DefaultChrootCommand = "arch-chroot"
	// DefaultStagingDir is where the binary and configuration are staged
	// for a reboot continuation, relative to the target root.
	DefaultStagingDir = "root/installer"
	// DefaultChrootStagingDir holds the staged files of a chroot crossing,
	// relative to the target root. It is removed when the crossing ends.
	DefaultChrootStagingDir = "root/installer-chroot"
	// DefaultScriptPath is the reboot continuation script, relative to the
	// target root.
	DefaultScriptPath = "root/continue_install.sh"
	// DefaultBinaryName is the staged binary's file name.
	DefaultBinaryName = "stagehand"
	// DefaultConfigName is the staged configuration's base name. The
	// source document's extension is appended.
	DefaultConfigName = "config"
	// DefaultDeclineExitCode is the nested exit status that reports an
	// operator decline across the chroot boundary.
	DefaultDeclineExitCode = 3
)

type (
	// Settings holds the Manager's tunables.
	Settings struct {
		// ChrootCommand is invoked as <ChrootCommand> <root> <argv...>.
		ChrootCommand string

		// StagingDir is relative to the target root.
		StagingDir string

		// ChrootStagingDir is relative to the target root. It must not
		// exist when a chroot crossing starts.
		ChrootStagingDir string

		// ScriptPath is relative to the target root.
		ScriptPath string

		// BinaryName is the staged binary's file name.
		BinaryName string

		// Executable is the binary to stage. Empty means os.Executable().
		Executable string

		// DeclineExitCode is passed to the nested run and mapped back to
		// an operator decline.
		DeclineExitCode int

		// Interactive attaches nested runs to a pseudo-terminal.
		Interactive bool
	}

	// Option is a functional option for configuring Settings.
	Option func(*Settings)
)

// DefaultSettings returns Settings with default values.
func DefaultSettings() Settings {
	return Settings{
		ChrootCommand:    DefaultChrootCommand,
		StagingDir:       DefaultStagingDir,
		ChrootStagingDir: DefaultChrootStagingDir,
		ScriptPath:       DefaultScriptPath,
		BinaryName:       DefaultBinaryName,
		DeclineExitCode:  DefaultDeclineExitCode,
	}
}

// WithChrootCommand returns an Option that sets the chroot facility.
func WithChrootCommand(cmd string) Option {
	return func(s *Settings) {
		s.ChrootCommand = cmd
	}
}

// WithStagingDir returns an Option that sets the staging directory.
func WithStagingDir(dir string) Option {
	return func(s *Settings) {
		s.StagingDir = dir
	}
}

// WithChrootStagingDir returns an Option that sets the chroot staging
// directory.
func WithChrootStagingDir(dir string) Option {
	return func(s *Settings) {
		s.ChrootStagingDir = dir
	}
}

// WithScriptPath returns an Option that sets the continuation script path.
func WithScriptPath(path string) Option {
	return func(s *Settings) {
		s.ScriptPath = path
	}
}

// WithExecutable returns an Option that sets the binary to stage.
func WithExecutable(path string) Option {
	return func(s *Settings) {
		s.Executable = path
	}
}

// WithDeclineExitCode returns an Option that sets the decline exit status.
func WithDeclineExitCode(code int) Option {
	return func(s *Settings) {
		s.DeclineExitCode = code
	}
}

// WithInteractive returns an Option that attaches nested runs to a
// pseudo-terminal.
func WithInteractive(interactive bool) Option {
	return func(s *Settings) {
		s.Interactive = interactive
	}
}

// Apply applies the given options.
func (s *Settings) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(s)
	}
}
