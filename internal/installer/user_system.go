// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/stagehand/stagehand/internal/provision"
	"github.com/stagehand/stagehand/internal/runtime"
	"github.com/stagehand/stagehand/internal/task"
)

// DefaultQEMUProxy is the host-side cache as seen from QEMU user networking.
const DefaultQEMUProxy = "http://10.0.2.2:3128"

const dhcpNetwork = `[Match]
Name=en*

[Network]
DHCP=ipv4
`

func setInQEMUHTTPProxy(_ context.Context, env *task.Env) error {
	proxy := env.Config.Installer.HTTPProxy
	if proxy == "" {
		proxy = DefaultQEMUProxy
	}
	return env.Setenv("http_proxy", proxy)
}

func systemdNetwork(ctx context.Context, env *task.Env) error {
	if err := setFile(env, "/etc/systemd/network/MyDhcp.network", dhcpNetwork); err != nil {
		return err
	}
	for _, unit := range []string{"systemd-networkd.service", "systemd-resolved.service"} {
		inv := runtime.Command("systemctl", "enable", "--now", unit).Describe("enable " + unit)
		if err := env.Runner.Run(ctx, inv); err != nil {
			return err
		}
	}

	return runtime.WaitFor(ctx, runtime.DefaultPollPolicy, func(ctx context.Context) (bool, error) {
		env.Logger().Info("waiting for network")
		out, err := env.Runner.Output(ctx, runtime.Command("ip", "a"))
		if err != nil {
			return false, err
		}
		return strings.Contains(out, "state UP"), nil
	})
}

func essentialPackages(ctx context.Context, env *task.Env) error {
	if err := env.Runner.Run(ctx, runtime.Command("pacman", "-Sy").Describe("update pacman databases")); err != nil {
		return err
	}
	return pacman(ctx, env, "install essential packages",
		"neovim", "smbclient", "base-devel", "curl", "git", "openssh", "man")
}

func vga(ctx context.Context, env *task.Env) error {
	devices, err := env.Runner.Output(ctx, runtime.Command("lspci"))
	if err != nil {
		return err
	}
	if strings.Contains(devices, "NVIDIA") {
		return pacman(ctx, env, "install Nvidia drivers", "nvidia", "nvidia-settings")
	}
	return pacman(ctx, env, "install generic VGA driver", "xf86-video-vesa")
}

func audio(ctx context.Context, env *task.Env) error {
	return pacman(ctx, env, "install audio packages", "pulseaudio", "pulseaudio-alsa", "pavucontrol")
}

func terminalPackages(ctx context.Context, env *task.Env) error {
	return pacman(ctx, env, "install terminal packages",
		"alacritty", "xclip", "ttf-fira-code", "fish", "ranger", "bat", "hexyl", "broot", "fd", "ripgrep")
}

func codecs(context.Context, *task.Env) error {
	return nil
}

func desktop(ctx context.Context, env *task.Env) error {
	if err := pacman(ctx, env, "install desktop packages",
		"xorg-server", "lightdm", "lightdm-gtk-greeter", "i3-gaps", "i3lock", "rofi", "maim"); err != nil {
		return err
	}
	return env.Runner.Run(ctx, runtime.Command("systemctl", "enable", "lightdm.service").Describe("enable lightdm"))
}

func desktopPackages(ctx context.Context, env *task.Env) error {
	if err := pacman(ctx, env, "install desktop applications",
		"firefox", "transmission-gtk", "telegram-desktop", "vlc"); err != nil {
		return err
	}
	return pacman(ctx, env, "install fonts",
		"xorg-fonts-type1", "ttf-dejavu", "font-bh-ttf", "ttf-liberation", "ttf-freefont")
}

func addUser(ctx context.Context, env *task.Env) error {
	name, err := userName(env.Config, "add_user")
	if err != nil {
		return err
	}
	create := runtime.Command("useradd", "-g", "users", "--create-home", "--shell", "/usr/bin/fish", name).
		Describe("create user")
	if err := env.Runner.Run(ctx, create); err != nil {
		return err
	}
	passwd := runtime.Command("chpasswd").
		Describe("set password to user name").
		WithInput([]byte(name + ":" + name + "\n"))
	if err := env.Runner.Run(ctx, passwd); err != nil {
		return err
	}
	return appendLine(env, "/etc/sudoers", name+" ALL=(ALL) ALL")
}

func generateSSHKeys(ctx context.Context, env *task.Env) error {
	name, err := userName(env.Config, "generate_ssh_keys")
	if err != nil {
		return err
	}
	dir := path.Join("/home", name, ".ssh")
	if err := env.Runner.Run(ctx, runtime.Command("mkdir", "-p", dir).Describe("ensure .ssh exists")); err != nil {
		return err
	}
	keygen := runtime.Command("ssh-keygen", "-t", "rsa", "-b", "4096",
		"-C", env.Config.User.Email, "-f", path.Join(dir, "id_rsa"), "-N", "").
		Describe("generate ssh key")
	return env.Runner.Run(ctx, keygen)
}

func disableRootLogin(ctx context.Context, env *task.Env) error {
	return env.Runner.Run(ctx, runtime.Command("passwd", "-l", "root").Describe("lock root password"))
}

func powerManagement(ctx context.Context, env *task.Env) error {
	return pacman(ctx, env, "install power management tools", "xfce4-power-manager")
}

func firewall(ctx context.Context, env *task.Env) error {
	if err := pacman(ctx, env, "install nftables", "nftables"); err != nil {
		return err
	}
	return env.Runner.Run(ctx, runtime.Command("systemctl", "enable", "nftables.service").Describe("enable nftables"))
}

func setupRebootPostInstall(ctx context.Context, env *task.Env) error {
	name, err := userName(env.Config, "setup_reboot_post_install")
	if err != nil {
		return err
	}
	home := path.Join("home", name)
	_, err = env.Crossing.ScheduleReboot(ctx, env.Config, provision.RebootPlan{
		Root:       "/",
		Stage:      StagePostInstall,
		StagingDir: path.Join(home, "installer"),
		ScriptPath: path.Join(home, "continue_install.sh"),
		Owner:      fmt.Sprintf("%s:users", name),
	})
	return err
}
