// SPDX-License-Identifier: MPL-2.0

// Package engine runs stages: ordered lists of registered tasks executed one
// at a time. A stage halts at the first failing task. An operator decline
// also stops the stage but is reported, not returned as an error.
package engine
