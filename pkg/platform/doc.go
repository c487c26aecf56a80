// SPDX-License-Identifier: MPL-2.0

// Package platform answers questions about the environment the process
// runs in: the operating system, and whether an application sandbox
// (Flatpak, Snap) sits between the process and the host. The vagrant
// provider needs the latter to spawn the host's vagrant binary from a
// sandboxed install.
package platform
