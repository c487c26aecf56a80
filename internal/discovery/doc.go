// SPDX-License-Identifier: MPL-2.0

// Package discovery locates inventory source files and loads them for
// resolution.
//
// Sources come from three places, in precedence order: an explicit path
// (the --inventory flag), the first accepted file name in the working
// directory, and the sources listed in the app configuration. Skipped or
// broken entries surface as structured Diagnostics rather than stderr
// writes, so the CLI layer owns the rendering policy.
//
// File organization:
//   - discovery.go: Core types (Discovery, DiscoveredSource) and the
//     Discover/DiscoverAndLoad/DiscoverAndValidate pipeline
//   - diagnostic.go: Severity, DiagnosticCode and the Diagnostic type
package discovery
