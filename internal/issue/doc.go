// SPDX-License-Identifier: MPL-2.0

// Package issue turns known failure classes into guidance the user can act
// on. Each Issue pairs an identifier with Markdown remediation steps that
// the CLI renders when inventory resolution fails (no source file found,
// unknown cache plugin, vagrant missing, ...). ActionableError carries
// operation/resource context and suggestions for everything else.
package issue
