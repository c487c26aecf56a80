// SPDX-License-Identifier: MPL-2.0

// Package proxmox harvests inventory records from a Proxmox VE cluster.
//
// The provider lists cluster nodes over the REST API and collects the
// running LXC containers and QEMU virtual machines of each node into
// one group per node. Guests are addressed by their name, so hosts are
// expected to be resolvable via DNS; connection details such as user
// and port are left to group or play configuration.
//
// Authentication uses an API token ("user@realm!tokenid=secret"),
// supplied inline, read from a file, or taken from PROXMOX_TOKEN.
package proxmox
