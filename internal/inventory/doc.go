// SPDX-License-Identifier: MPL-2.0

// Package inventory holds the host/group model and its renderings.
//
// Providers emit flat GroupRecords; Build folds them into an Inventory
// whose group hierarchy is cycle-checked. Renderings follow the dynamic
// inventory conventions automation engines consume: ListJSON emits the
// groups plus _meta.hostvars document, HostJSON the vars of one host,
// and Graph an @all tree for humans.
package inventory
