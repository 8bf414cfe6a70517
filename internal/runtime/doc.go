// SPDX-License-Identifier: MPL-2.0

// Package runtime runs the external programs a provisioning task needs.
//
// An Invocation describes one program run: argv, an optional description
// used for start/done log markers, optional bytes fed to stdin, and an
// optional working directory. The Runner consumes an Invocation exactly once
// through one of three terminal methods, which select how output is consumed:
//
//   - Run streams the merged stdout/stderr line by line into the logger.
//   - Output captures the merged streams and returns them as a string.
//   - ToFile captures stdout only and writes it atomically to a path,
//     refusing to write when the command printed nothing.
//
// Every spawn receives an explicit copy of the current process environment,
// read at spawn time, so a variable set by one task is visible to the next
// command. Failures are never retried.
package runtime
