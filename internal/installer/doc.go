// SPDX-License-Identifier: MPL-2.0

// Package installer is the Arch Linux payload: the concrete tasks, the
// registry that names them, the default stage plan and the operator
// prompt. Tasks reach the system only through the task.Env they receive.
package installer
