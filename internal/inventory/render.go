// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"encoding/json"
	"fmt"
	"strings"
)

// listGroup is one group in the --list document. Empty sections are
// omitted, matching what engines emit themselves.
type listGroup struct {
	Hosts    []string       `json:"hosts,omitempty"`
	Vars     map[string]any `json:"vars,omitempty"`
	Children []string       `json:"children,omitempty"`
}

// ListJSON renders the full inventory document: every group keyed by
// name plus the _meta.hostvars block, indented, with deterministic key
// order. This is the payload a dynamic-inventory consumer reads from
// a --list invocation.
func (inv *Inventory) ListJSON() ([]byte, error) {
	out := make(map[string]any, len(inv.groups)+1)

	hostvars := make(map[string]map[string]any, len(inv.hosts))
	for _, h := range inv.Hosts() {
		vars, _ := inv.HostVars(h)
		hostvars[h.String()] = vars
	}
	out["_meta"] = map[string]any{"hostvars": hostvars}

	for _, g := range inv.Groups() {
		entry := listGroup{
			Vars:     inv.GroupVars(g),
			Children: groupNameStrings(inv.Children(g)),
		}
		// "all" carries the hierarchy, not hosts.
		if g != GroupAll {
			entry.Hosts = hostNameStrings(inv.GroupHosts(g))
		}
		if g != GroupAll && g != GroupUngrouped &&
			len(entry.Hosts) == 0 && len(entry.Vars) == 0 && len(entry.Children) == 0 {
			continue
		}
		out[g.String()] = entry
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("rendering inventory: %w", err)
	}
	return data, nil
}

// HostJSON renders the vars of one host. Unknown hosts yield an empty
// object and found=false; the script protocol wants the empty object,
// interactive callers want the flag.
func (inv *Inventory) HostJSON(name HostName) ([]byte, bool, error) {
	vars, found := inv.HostVars(name)
	if vars == nil {
		vars = map[string]any{}
	}
	data, err := json.MarshalIndent(vars, "", "  ")
	if err != nil {
		return nil, found, fmt.Errorf("rendering host %s: %w", name, err)
	}
	return data, found, nil
}

// Graph renders the group tree rooted at "all" in the familiar
// @group/host indentation.
func (inv *Inventory) Graph() string {
	var b strings.Builder
	inv.writeGroupTree(&b, GroupAll, 0)
	return b.String()
}

func (inv *Inventory) writeGroupTree(b *strings.Builder, g GroupName, depth int) {
	prefix := strings.Repeat("  |", depth)
	if depth == 0 {
		fmt.Fprintf(b, "@%s:\n", g)
	} else {
		fmt.Fprintf(b, "%s--@%s:\n", prefix, g)
	}
	for _, child := range inv.Children(g) {
		inv.writeGroupTree(b, child, depth+1)
	}
	hostPrefix := strings.Repeat("  |", depth+1)
	for _, h := range inv.GroupHosts(g) {
		fmt.Fprintf(b, "%s--%s\n", hostPrefix, h)
	}
}

func hostNameStrings(names []HostName) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n.String()
	}
	return out
}

func groupNameStrings(names []GroupName) []string {
	if len(names) == 0 {
		return nil
	}
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = n.String()
	}
	return out
}
