// SPDX-License-Identifier: MPL-2.0

package proxmox

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vagrantory/vagrantory/internal/inventory"
)

// PluginName is the provider token inventory source files select with.
const PluginName = "proxmox"

// Provider lists running guests of a Proxmox VE cluster, one inventory
// group per node. It implements inventory.Source.
type Provider struct {
	client *Client
	node   string
}

// NewProvider creates a Provider over the cluster behind client. A
// non-empty node restricts the harvest to that single node.
func NewProvider(client *Client, node string) *Provider {
	return &Provider{client: client, node: node}
}

// Name returns the provider token.
func (p *Provider) Name() string {
	return PluginName
}

// Fetch lists cluster nodes and their running guests. Offline nodes are
// skipped with a warning; API errors on a reachable cluster abort the
// fetch so stale data is never mistaken for an empty cluster.
func (p *Provider) Fetch(ctx context.Context) ([]inventory.GroupRecord, error) {
	nodes, err := p.ListNodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing cluster nodes: %w", err)
	}

	var records []inventory.GroupRecord
	for _, node := range nodes {
		if p.node != "" && node.Node != p.node {
			continue
		}
		if node.Status != "online" {
			slog.Warn("node not online, skipped", "node", node.Node, "status", node.Status)
			continue
		}

		guests, err := p.ListGuests(ctx, node.Node)
		if err != nil {
			return nil, fmt.Errorf("listing guests on %s: %w", node.Node, err)
		}

		rec := inventory.GroupRecord{Group: node.Node}
		for _, g := range guests {
			if !g.Running() {
				continue
			}
			if g.Name == "" {
				slog.Warn("guest without a name, skipped", "node", node.Node, "vmid", g.VMID.String())
				continue
			}
			rec.VMs = append(rec.VMs, inventory.VMRecord{
				Name: g.Name,
				Host: g.Name,
			})
		}
		records = append(records, rec)
	}

	if p.node != "" && len(records) == 0 {
		return nil, fmt.Errorf("node %q not found or not online", p.node)
	}
	return records, nil
}

// ListNodes returns the cluster's members.
func (p *Provider) ListNodes(ctx context.Context) ([]Node, error) {
	var nodes []Node
	if err := p.client.get(ctx, "/nodes", &nodes); err != nil {
		return nil, err
	}
	return nodes, nil
}

// ListGuests returns the LXC containers and QEMU machines on one node.
func (p *Provider) ListGuests(ctx context.Context, node string) ([]Guest, error) {
	var containers []Guest
	if err := p.client.get(ctx, fmt.Sprintf("/nodes/%s/lxc", node), &containers); err != nil {
		return nil, err
	}

	var machines []Guest
	if err := p.client.get(ctx, fmt.Sprintf("/nodes/%s/qemu", node), &machines); err != nil {
		return nil, err
	}

	return append(containers, machines...), nil
}
