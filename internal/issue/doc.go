// SPDX-License-Identifier: MPL-2.0

// Package issue defines the stagehand error taxonomy and the user-facing
// error types built on top of it.
//
// Every component reports failures by wrapping one of the sentinel errors
// declared here, so callers classify any error chain with KindOf instead of
// matching on message text. ActionableError adds the operation, resource,
// and remediation hints printed by the CLI, and the remediation catalog
// renders a longer markdown note per Kind in verbose mode.
package issue
