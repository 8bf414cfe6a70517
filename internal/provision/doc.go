// SPDX-License-Identifier: MPL-2.0

// Package provision carries an installation across a chroot or a reboot.
//
// Both crossings stage the running stagehand binary and the exact
// configuration document into a directory inside the target root, so the
// same program can pick up where it left off on the other side:
//
//	m := provision.New(runner, registry)
//	// run one task inside /mnt, then remove the staged files
//	err := m.Chroot(ctx, cfg, "/mnt", "base_in_chroot")
//	// leave a script that resumes the user_system stage after reboot
//	cont, err := m.ScheduleReboot(ctx, cfg, provision.RebootPlan{Root: "/mnt", Stage: "user_system"})
//
// A Continuation describes what runs on the other side. It is a plain value
// whose argv and shell script can be inspected without touching the disk.
package provision
