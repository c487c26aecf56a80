// SPDX-License-Identifier: MPL-2.0

// Package resolve turns inventory source files into inventories. It
// decouples CLI-layer orchestration from provider construction and
// cache consultation.
//
// The central operation is get-or-refresh: a source with caching
// enabled is answered from its cache backend while the stored result
// is fresh, and from the live provider otherwise, storing the new
// result on the way out. Sources that never opted into caching never
// touch a backend.
package resolve
