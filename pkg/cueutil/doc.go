// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates documents against an embedded CUE schema.
//
// Validation follows three steps:
//
//  1. Compile the embedded schema
//  2. Compile user data and unify it with a schema definition
//  3. Validate and decode, either into a Go struct (ParseAndDecode) or
//     into a generic map (DecodeMap) for callers that merge the result
//     into another configuration layer
//
// # Usage
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	values, err := cueutil.DecodeMap(schema, data, "#Config",
//	    cueutil.WithFilename("install.cue"))
//	if err != nil {
//	    return err // includes the offending field path
//	}
package cueutil
