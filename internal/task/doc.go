// SPDX-License-Identifier: MPL-2.0

// Package task defines the provisioning step abstraction and the registry
// that names steps.
//
// A Task is one stateless step. An Entry pairs a Task with its stable name
// so that code holding a step always knows what it is called. The Registry
// is built once from a fixed list of entries and cannot be changed
// afterwards; it is the only place task names are resolved.
package task
