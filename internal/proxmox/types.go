// SPDX-License-Identifier: MPL-2.0

package proxmox

import "encoding/json"

// guestStatusRunning is the status value Proxmox reports for a live guest.
const guestStatusRunning = "running"

type (
	// Node is one cluster member from /nodes.
	Node struct {
		Node   string `json:"node"`
		Status string `json:"status"`
	}

	// Guest is an LXC container or QEMU virtual machine on a node.
	// VMID is a json.Number because the API returns it as a string for
	// containers and as a number for virtual machines.
	Guest struct {
		VMID   json.Number `json:"vmid"`
		Name   string      `json:"name"`
		Status string      `json:"status"`
	}
)

// Running reports whether the guest is live.
func (g Guest) Running() bool {
	return g.Status == guestStatusRunning
}
