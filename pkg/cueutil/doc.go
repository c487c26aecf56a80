// SPDX-License-Identifier: MPL-2.0

// Package cueutil wraps the CUE evaluation flow used by schema-backed
// configuration files: compile the embedded schema, compile the user's
// file, unify the two, validate, and decode into a Go struct. Errors come
// back with the offending JSON path so they can be shown to users as-is.
//
//	//go:embed config_schema.cue
//	var schemaBytes []byte
//
//	result, err := cueutil.ParseAndDecode[Config](
//	    schemaBytes,
//	    userFileBytes,
//	    "#Config",
//	    cueutil.WithFilename("config.cue"),
//	)
package cueutil
