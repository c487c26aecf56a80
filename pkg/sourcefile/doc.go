// SPDX-License-Identifier: MPL-2.0

// Package sourcefile provides types and parsing for inventory source files.
//
// A source file is a small YAML document that names the inventory provider
// to query (vagrant, proxmox), the provider's inputs (project folders for
// vagrant, an API endpoint for proxmox), and optional per-source cache
// settings. Parsing is strict: unknown fields are rejected so typos fail
// loudly instead of being silently ignored.
//
// External consumers should use the exported Parse() and ParseBytes()
// functions together with Validate(); the YAML decoding internals are not
// part of the public API.
package sourcefile
