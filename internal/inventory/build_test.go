// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"slices"
	"testing"
)

func sampleRecords() []GroupRecord {
	return []GroupRecord{
		{
			Group: "k8s",
			Vars:  map[string]any{"env": "lab"},
			VMs: []VMRecord{
				{
					Name:         "control",
					Host:         "127.0.0.1",
					User:         "vagrant",
					Port:         2222,
					IdentityFile: "/lab/.vagrant/machines/control/virtualbox/private_key",
				},
				{
					Name:         "worker1",
					Host:         "127.0.0.1",
					User:         "vagrant",
					Port:         2200,
					IdentityFile: "/lab/.vagrant/machines/worker1/virtualbox/private_key",
					HostOnlyIP:   "192.168.56.11",
				},
			},
		},
	}
}

func TestBuild_GroupHierarchy(t *testing.T) {
	t.Parallel()

	inv := New()
	if err := inv.Build(sampleRecords(), "vagrant"); err != nil {
		t.Fatalf("Build() returned error: %v", err)
	}

	if got := inv.Children(GroupAll); !slices.Contains(got, GroupName("vagrant")) {
		t.Errorf("Children(all) = %v, want vagrant included", got)
	}
	if got := inv.Children("vagrant"); !slices.Equal(got, []GroupName{"k8s"}) {
		t.Errorf("Children(vagrant) = %v, want [k8s]", got)
	}
	if gv := inv.GroupVars("k8s"); gv["env"] != "lab" {
		t.Errorf("GroupVars(k8s) = %v, want env=lab", gv)
	}
}

func TestBuild_HostVars(t *testing.T) {
	t.Parallel()

	inv := New()
	if err := inv.Build(sampleRecords(), "vagrant"); err != nil {
		t.Fatalf("Build() returned error: %v", err)
	}

	vars, found := inv.HostVars("control")
	if !found {
		t.Fatalf("control not in inventory; hosts = %v", inv.Hosts())
	}
	want := map[string]any{
		"ht_name":                      "control",
		"ansible_host":                 "127.0.0.1",
		"ansible_user":                 "vagrant",
		"ansible_port":                 2222,
		"ansible_ssh_private_key_file": "/lab/.vagrant/machines/control/virtualbox/private_key",
	}
	for k, v := range want {
		if vars[k] != v {
			t.Errorf("control vars[%q] = %v, want %v", k, vars[k], v)
		}
	}
	if len(vars) != len(want) {
		t.Errorf("control has %d vars, want %d: %v", len(vars), len(want), vars)
	}
}

func TestBuild_HostOnlyIPKeysTheHost(t *testing.T) {
	t.Parallel()

	inv := New()
	if err := inv.Build(sampleRecords(), "vagrant"); err != nil {
		t.Fatalf("Build() returned error: %v", err)
	}

	if inv.HasHost("worker1") {
		t.Error("worker1 keyed by VM name despite having a host-only IP")
	}
	vars, found := inv.HostVars("192.168.56.11")
	if !found {
		t.Fatalf("host-only IP not in inventory; hosts = %v", inv.Hosts())
	}
	// The machine keeps its name and its forwarded SSH address as vars.
	if vars["ht_name"] != "worker1" {
		t.Errorf("ht_name = %v, want worker1", vars["ht_name"])
	}
	if vars["ansible_host"] != "127.0.0.1" {
		t.Errorf("ansible_host = %v, want the SSH address 127.0.0.1", vars["ansible_host"])
	}
}

func TestBuild_OmitsUnknownConnectionVars(t *testing.T) {
	t.Parallel()

	records := []GroupRecord{{
		Group: "pve1",
		VMs:   []VMRecord{{Name: "ct101", Host: "10.0.0.101"}},
	}}

	inv := New()
	if err := inv.Build(records, "proxmox"); err != nil {
		t.Fatalf("Build() returned error: %v", err)
	}

	vars, _ := inv.HostVars("ct101")
	for _, absent := range []string{"ansible_port", "ansible_user", "ansible_ssh_private_key_file"} {
		if _, ok := vars[absent]; ok {
			t.Errorf("vars[%q] present for a record without that field", absent)
		}
	}
	if vars["ansible_host"] != "10.0.0.101" {
		t.Errorf("ansible_host = %v, want 10.0.0.101", vars["ansible_host"])
	}
}

func TestBuild_LocalGroupAlwaysPresent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		records []GroupRecord
	}{
		{name: "no records", records: nil},
		{name: "with records", records: sampleRecords()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			inv := New()
			if err := inv.Build(tt.records, "vagrant"); err != nil {
				t.Fatalf("Build() returned error: %v", err)
			}

			if got := inv.GroupHosts(GroupLocal); !slices.Equal(got, []HostName{"127.0.0.1"}) {
				t.Fatalf("GroupHosts(local) = %v, want [127.0.0.1]", got)
			}
			vars, _ := inv.HostVars("127.0.0.1")
			if vars["ansible_connection"] != "local" {
				t.Errorf("ansible_connection = %v, want local", vars["ansible_connection"])
			}
			if vars["ht_name"] != "local" {
				t.Errorf("ht_name = %v, want local", vars["ht_name"])
			}
		})
	}
}

func TestBuild_MultipleProviderParents(t *testing.T) {
	t.Parallel()

	inv := New()
	if err := inv.Build(sampleRecords(), "vagrant"); err != nil {
		t.Fatal(err)
	}
	proxmox := []GroupRecord{{
		Group: "pve1",
		VMs:   []VMRecord{{Name: "ct101", Host: "10.0.0.101"}},
	}}
	if err := inv.Build(proxmox, "proxmox"); err != nil {
		t.Fatal(err)
	}

	got := inv.Children(GroupAll)
	for _, parent := range []GroupName{"vagrant", "proxmox", GroupLocal, GroupUngrouped} {
		if !slices.Contains(got, parent) {
			t.Errorf("Children(all) = %v, want %s included", got, parent)
		}
	}
}
