// SPDX-License-Identifier: MPL-2.0

// Package config loads the installation document using Viper, with an
// embedded CUE schema (config_schema.cue) as the validation layer.
//
// The document has three sections: installer (target disks and host
// settings), user (the account created on the new system) and stages (the
// named task lists and the stage an install starts with). It may be written
// as CUE, YAML, TOML or JSON; the encoding is chosen by file extension.
// Every encoding is validated against the same #Config schema before it is
// merged into Viper, where STAGEHAND_* environment variables can override
// individual settings.
//
// After decoding, Load resolves device names to existing nodes under /dev,
// checks that first_stage names a stage, and, when given a task lookup,
// that every listed task exists.
package config
