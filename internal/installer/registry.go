// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"github.com/stagehand/stagehand/internal/config"
	"github.com/stagehand/stagehand/internal/task"
)

const (
	// StageInstall runs from the live medium.
	StageInstall = "install"
	// StageUserSystem runs on the first boot of the installed system.
	StageUserSystem = "user_system"
	// StagePostInstall runs as the created user.
	StagePostInstall = "post_install"
)

// Entries returns every payload task in registration order.
func Entries() []task.Entry {
	return []task.Entry{
		{Name: "prepare", Description: "check prerequisites, format and mount the disks", Task: task.Func(prepare)},
		{Name: "download_base", Description: "pacstrap the base system", Task: task.Func(downloadBase)},
		{Name: "base", Description: "write fstab and configure the base system in a chroot", Task: task.Func(base)},
		{Name: "base_in_chroot", Description: "set timezone, locale, hostname and microcode", Task: task.Func(baseInChroot)},
		{Name: "bootloader", Description: "install the bootloader in a chroot", Task: task.Func(bootloader)},
		{Name: "bootloader_in_chroot", Description: "install GRUB for UEFI", Task: task.Func(bootloaderInChroot)},
		{Name: "setup_reboot_user_system", Description: "resume with user_system after reboot", Task: task.Func(setupRebootUserSystem)},
		{Name: "reboot", Description: "sync disks and reboot", Task: task.Func(reboot)},
		{Name: "set_in_qemu_http_proxy", Description: "export http_proxy for the QEMU host cache", Task: task.Func(setInQEMUHTTPProxy)},
		{Name: "systemd_network", Description: "enable DHCP through systemd-networkd and wait for a link", Task: task.Func(systemdNetwork)},
		{Name: "essential_packages", Description: "install editors, build tools and ssh", Task: task.Func(essentialPackages)},
		{Name: "vga", Description: "install the video driver matching the hardware", Task: task.Func(vga)},
		{Name: "audio", Description: "install pulseaudio", Task: task.Func(audio)},
		{Name: "terminal_packages", Description: "install the terminal and shell tools", Task: task.Func(terminalPackages)},
		{Name: "codecs", Description: "install media codecs", Task: task.Func(codecs)},
		{Name: "desktop", Description: "install Xorg, lightdm and i3", Task: task.Func(desktop)},
		{Name: "desktop_packages", Description: "install desktop applications and fonts", Task: task.Func(desktopPackages)},
		{Name: "add_user", Description: "create the configured user with sudo rights", Task: task.Func(addUser)},
		{Name: "generate_ssh_keys", Description: "generate an RSA key for the user", Task: task.Func(generateSSHKeys)},
		{Name: "disable_root_login", Description: "lock the root password", Task: task.Func(disableRootLogin)},
		{Name: "power_management", Description: "install power management tools", Task: task.Func(powerManagement)},
		{Name: "firewall", Description: "install and enable nftables", Task: task.Func(firewall)},
		{Name: "setup_reboot_post_install", Description: "resume with post_install in the user's home", Task: task.Func(setupRebootPostInstall)},
		{Name: "set_git_user", Description: "set the global git identity", Task: task.Func(setGitUser)},
		{Name: "setup_dotfiles", Description: "check out the dotfiles repository", Task: task.Func(setupDotfiles)},
		{Name: "cleanup_reboot_hook", Description: "remove the staged installer from the user's home", Task: task.Func(cleanupRebootHook)},
	}
}

// NewRegistry builds the registry of payload tasks.
func NewRegistry() (*task.Registry, error) {
	return task.NewRegistry(Entries()...)
}

// DefaultStages returns the stage plan used by default-config. Names come
// from the registry entries themselves.
func DefaultStages(reg *task.Registry) config.Stages {
	return config.Stages{
		FirstStage: StageInstall,
		Map: map[string][]string{
			StageInstall: task.Names(reg.Must(
				"prepare", "download_base", "base", "bootloader",
				"setup_reboot_user_system", "reboot",
			)),
			StageUserSystem: task.Names(reg.Must(
				"set_in_qemu_http_proxy", "systemd_network", "essential_packages",
				"vga", "audio", "terminal_packages", "desktop", "desktop_packages",
				"add_user", "generate_ssh_keys", "disable_root_login",
				"power_management", "firewall", "setup_reboot_post_install", "reboot",
			)),
			StagePostInstall: task.Names(reg.Must(
				"set_git_user", "setup_dotfiles", "cleanup_reboot_hook",
			)),
		},
	}
}
