// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"fmt"
	"sort"

	"github.com/vagrantory/vagrantory/internal/dag"
)

type (
	// Inventory is the mutable host/group model. The built-in groups
	// "all" and "ungrouped" always exist, and the group hierarchy is
	// kept acyclic: AddChild refuses edges that would close a loop.
	//
	// Accessors return sorted copies so renderings are deterministic and
	// callers cannot mutate internal state.
	Inventory struct {
		groups map[GroupName]*group
		hosts  map[HostName]*host
		graph  *dag.Graph
		// parents counts incoming hierarchy edges per group. Groups
		// without any parent render as children of "all".
		parents map[GroupName]int
	}

	group struct {
		hosts   []HostName
		hostSet map[HostName]bool
		vars    map[string]any
	}

	host struct {
		vars map[string]any
	}
)

// New creates an Inventory with the built-in groups in place.
func New() *Inventory {
	inv := &Inventory{
		groups:  make(map[GroupName]*group),
		hosts:   make(map[HostName]*host),
		graph:   dag.New(),
		parents: make(map[GroupName]int),
	}
	_ = inv.AddGroup(GroupAll)
	_ = inv.AddGroup(GroupUngrouped)
	_ = inv.AddChild(GroupAll, GroupUngrouped)
	return inv
}

// AddGroup registers a group. Adding an existing group is a no-op.
func (inv *Inventory) AddGroup(name GroupName) error {
	if ok, errs := name.IsValid(); !ok {
		return errs[0]
	}
	if _, exists := inv.groups[name]; exists {
		return nil
	}
	inv.groups[name] = &group{
		hostSet: make(map[HostName]bool),
		vars:    make(map[string]any),
	}
	inv.graph.AddNode(name.String())
	return nil
}

// HasGroup reports whether the group exists.
func (inv *Inventory) HasGroup(name GroupName) bool {
	_, ok := inv.groups[name]
	return ok
}

// AddChild makes child a subgroup of parent, creating either as needed.
// Edges that would introduce a cycle are refused with a dag.CycleError
// and leave the inventory unchanged.
func (inv *Inventory) AddChild(parent, child GroupName) error {
	if err := inv.AddGroup(parent); err != nil {
		return err
	}
	if err := inv.AddGroup(child); err != nil {
		return err
	}
	if inv.graph.HasEdge(parent.String(), child.String()) {
		return nil
	}
	if err := inv.graph.AddEdgeChecked(parent.String(), child.String()); err != nil {
		return err
	}
	inv.parents[child]++
	return nil
}

// AddHost puts a host into a group, creating both as needed. An empty
// group name files the host under "ungrouped". Adding a host to a group
// it is already in is a no-op.
func (inv *Inventory) AddHost(name HostName, groupName GroupName) error {
	if ok, errs := name.IsValid(); !ok {
		return errs[0]
	}
	if groupName == "" {
		groupName = GroupUngrouped
	}
	if err := inv.AddGroup(groupName); err != nil {
		return err
	}

	if _, exists := inv.hosts[name]; !exists {
		inv.hosts[name] = &host{vars: make(map[string]any)}
	}

	g := inv.groups[groupName]
	if !g.hostSet[name] {
		g.hostSet[name] = true
		g.hosts = append(g.hosts, name)
	}
	return nil
}

// HasHost reports whether the host exists in the inventory.
func (inv *Inventory) HasHost(name HostName) bool {
	_, ok := inv.hosts[name]
	return ok
}

// SetHostVar attaches a variable to an existing host.
func (inv *Inventory) SetHostVar(name HostName, key string, value any) error {
	h, ok := inv.hosts[name]
	if !ok {
		return fmt.Errorf("unknown host %q", name)
	}
	h.vars[key] = value
	return nil
}

// SetGroupVar attaches a variable to an existing group.
func (inv *Inventory) SetGroupVar(name GroupName, key string, value any) error {
	g, ok := inv.groups[name]
	if !ok {
		return fmt.Errorf("unknown group %q", name)
	}
	g.vars[key] = value
	return nil
}

// Hosts returns every host name, sorted.
func (inv *Inventory) Hosts() []HostName {
	names := make([]HostName, 0, len(inv.hosts))
	for name := range inv.hosts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Groups returns every group name, sorted.
func (inv *Inventory) Groups() []GroupName {
	names := make([]GroupName, 0, len(inv.groups))
	for name := range inv.groups {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// GroupHosts returns the group's hosts, sorted. Unknown groups yield nil.
func (inv *Inventory) GroupHosts(name GroupName) []HostName {
	g, ok := inv.groups[name]
	if !ok || len(g.hosts) == 0 {
		return nil
	}
	hosts := make([]HostName, len(g.hosts))
	copy(hosts, g.hosts)
	sort.Slice(hosts, func(i, j int) bool { return hosts[i] < hosts[j] })
	return hosts
}

// GroupVars returns a copy of the group's variables. Unknown groups yield nil.
func (inv *Inventory) GroupVars(name GroupName) map[string]any {
	g, ok := inv.groups[name]
	if !ok || len(g.vars) == 0 {
		return nil
	}
	vars := make(map[string]any, len(g.vars))
	for k, v := range g.vars {
		vars[k] = v
	}
	return vars
}

// HostVars returns a copy of the host's variables and whether the host exists.
func (inv *Inventory) HostVars(name HostName) (map[string]any, bool) {
	h, ok := inv.hosts[name]
	if !ok {
		return nil, false
	}
	vars := make(map[string]any, len(h.vars))
	for k, v := range h.vars {
		vars[k] = v
	}
	return vars, true
}

// Children returns a group's subgroups, sorted. For "all" this includes
// every group that has no explicit parent, so the whole hierarchy stays
// reachable from the root.
func (inv *Inventory) Children(name GroupName) []GroupName {
	seen := make(map[GroupName]bool)
	var children []GroupName
	for _, c := range inv.graph.Children(name.String()) {
		child := GroupName(c)
		if !seen[child] {
			seen[child] = true
			children = append(children, child)
		}
	}
	if name == GroupAll {
		for g := range inv.groups {
			if g == GroupAll || seen[g] || inv.parents[g] > 0 {
				continue
			}
			seen[g] = true
			children = append(children, g)
		}
	}
	sort.Slice(children, func(i, j int) bool { return children[i] < children[j] })
	return children
}

// Merge folds other into the inventory: groups and hosts are unioned,
// variables from other win on conflict, and hierarchy edges are re-checked
// so merging cannot smuggle in a cycle.
func (inv *Inventory) Merge(other *Inventory) error {
	if other == nil {
		return nil
	}

	for _, g := range other.Groups() {
		if err := inv.AddGroup(g); err != nil {
			return err
		}
		for k, v := range other.groups[g].vars {
			if err := inv.SetGroupVar(g, k, v); err != nil {
				return err
			}
		}
		for _, h := range other.GroupHosts(g) {
			if err := inv.AddHost(h, g); err != nil {
				return err
			}
		}
	}

	for h := range other.hosts {
		if len(other.hostGroups(h)) == 0 {
			if err := inv.AddHost(h, GroupUngrouped); err != nil {
				return err
			}
		}
		for k, v := range other.hosts[h].vars {
			if err := inv.SetHostVar(h, k, v); err != nil {
				return err
			}
		}
	}

	for _, parent := range other.Groups() {
		for _, child := range other.graph.Children(parent.String()) {
			if err := inv.AddChild(parent, GroupName(child)); err != nil {
				return err
			}
		}
	}
	return nil
}

func (inv *Inventory) hostGroups(name HostName) []GroupName {
	var groups []GroupName
	for g, rec := range inv.groups {
		if rec.hostSet[name] {
			groups = append(groups, g)
		}
	}
	return groups
}
