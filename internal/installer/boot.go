// SPDX-License-Identifier: MPL-2.0

package installer

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sys/unix"

	"github.com/stagehand/stagehand/internal/config"
	"github.com/stagehand/stagehand/internal/provision"
	"github.com/stagehand/stagehand/internal/runtime"
	"github.com/stagehand/stagehand/internal/task"
)

func prepare(ctx context.Context, env *task.Env) error {
	if err := env.Confirm("Are you connected to the Internet?"); err != nil {
		return err
	}
	if err := env.Confirm("Are your disks partitioned?"); err != nil {
		return err
	}

	run := env.Runner
	if err := run.Run(ctx, runtime.Command("ip", "link").Describe("current network settings")); err != nil {
		return err
	}
	if err := run.Run(ctx, runtime.Command("timedatectl", "set-ntp", "true").Describe("update system clock")); err != nil {
		return err
	}
	if err := run.Run(ctx, runtime.Command("fdisk", "-l").Describe("list disks")); err != nil {
		return err
	}

	in := env.Config.Installer
	if err := env.Confirm(fmt.Sprintf("Use %s as boot disk and %s as system disk?", in.BootDisk, in.SystemDisk)); err != nil {
		return err
	}

	mnt := mountPoint(env.Config)
	efi := filepath.Join(mnt, "efi")
	steps := []*runtime.Invocation{
		runtime.Command("mkfs.fat", "-F32", in.BootDisk).Describe("format boot disk"),
		runtime.Command("mkfs.ext4", in.SystemDisk).Describe("format system disk"),
		runtime.Command("mount", in.SystemDisk, mnt).Describe("mount system disk"),
		runtime.Command("mkdir", "-p", efi),
		runtime.Command("mount", in.BootDisk, efi).Describe("mount boot disk"),
	}
	for _, inv := range steps {
		if err := run.Run(ctx, inv); err != nil {
			return err
		}
	}
	return nil
}

func downloadBase(ctx context.Context, env *task.Env) error {
	inv := runtime.Command("pacstrap", mountPoint(env.Config), "base", "linux", "linux-firmware").
		Describe("install essential packages")
	return env.Runner.Run(ctx, inv)
}

func base(ctx context.Context, env *task.Env) error {
	mnt := mountPoint(env.Config)
	fstab := runtime.Command("genfstab", "-U", mnt).Describe("generate fstab")
	if err := env.Runner.ToFile(ctx, fstab, filepath.Join(mnt, "etc", "fstab")); err != nil {
		return err
	}
	return env.Crossing.Chroot(ctx, env.Config, mnt, "base_in_chroot")
}

func baseInChroot(ctx context.Context, env *task.Env) error {
	in := env.Config.Installer
	tz := in.Timezone
	if tz == "" {
		tz = config.DefaultTimezone
	}
	host := in.Hostname
	if host == "" {
		host = config.DefaultHostname
	}

	run := env.Runner
	if err := run.Run(ctx, runtime.Command("ln", "-sf", "/usr/share/zoneinfo/"+tz, "/etc/localtime").Describe("set timezone")); err != nil {
		return err
	}
	if err := run.Run(ctx, runtime.Command("hwclock", "--systohc").Describe("set hardware clock from system clock")); err != nil {
		return err
	}
	if err := run.Run(ctx, runtime.Command("locale-gen").Describe("generate locale")); err != nil {
		return err
	}

	if err := setFile(env, "/etc/hostname", host+"\n"); err != nil {
		return err
	}
	for _, line := range hostsEntries(host) {
		if err := appendLine(env, "/etc/hosts", line); err != nil {
			return err
		}
	}
	return pacman(ctx, env, "install intel microcode", "intel-ucode")
}

func hostsEntries(host string) []string {
	return []string{
		"127.0.0.1\tlocalhost",
		"::1\t\tlocalhost",
		fmt.Sprintf("127.0.1.1\t%s.localdomain\t%s", host, host),
	}
}

func bootloader(ctx context.Context, env *task.Env) error {
	return env.Crossing.Chroot(ctx, env.Config, mountPoint(env.Config), "bootloader_in_chroot")
}

func bootloaderInChroot(ctx context.Context, env *task.Env) error {
	if err := pacman(ctx, env, "install grub", "grub", "efibootmgr"); err != nil {
		return err
	}
	install := runtime.Command("grub-install", "--target=x86_64-efi", "--efi-directory=/efi", "--bootloader-id=GRUB").
		Describe("install bootloader in UEFI mode")
	if err := env.Runner.Run(ctx, install); err != nil {
		return err
	}
	return env.Runner.Run(ctx, runtime.Command("grub-mkconfig", "-o", "/boot/grub/grub.cfg").Describe("generate grub config"))
}

func setupRebootUserSystem(ctx context.Context, env *task.Env) error {
	_, err := env.Crossing.ScheduleReboot(ctx, env.Config, provision.RebootPlan{
		Root:  mountPoint(env.Config),
		Stage: StageUserSystem,
	})
	return err
}

func reboot(ctx context.Context, env *task.Env) error {
	unix.Sync()
	return env.Runner.Run(ctx, runtime.Command("reboot", "-h", "now").Describe("reboot"))
}
