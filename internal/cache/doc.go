// SPDX-License-Identifier: MPL-2.0

// Package cache provides the pluggable store for resolved inventory results.
//
// A backend is selected by name (the cache plugin) and configured by a
// connection string whose meaning belongs to the backend: for jsonfile it
// is the directory holding one JSON file per entry, for memory it is
// ignored. Both settings, plus the validity window and key prefix, can
// come from the source file, the VAGRANTORY_CACHE_* environment variables,
// or the app config; ResolveSettings applies that precedence.
//
// Backends are byte-for-byte transparent: Get returns exactly the bytes
// previously passed to Set for the same key. Encoding inventory records
// to JSON is the caller's business.
package cache
