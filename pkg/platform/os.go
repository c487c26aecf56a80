// SPDX-License-Identifier: MPL-2.0

package platform

// OS name constants for runtime.GOOS comparisons, so the strings are
// written once.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
