// SPDX-License-Identifier: MPL-2.0

package inventory

// Host variable names the automation engine understands.
const (
	varHostName     = "ht_name"
	varAnsibleHost  = "ansible_host"
	varAnsiblePort  = "ansible_port"
	varAnsibleUser  = "ansible_user"
	varAnsibleKey   = "ansible_ssh_private_key_file"
	varAnsibleConn  = "ansible_connection"
	localHost       = HostName("127.0.0.1")
	localConnection = "local"
)

// Build folds provider records into the inventory. Groups land under the
// provider's parent group, which in turn hangs off "all". A machine with a
// host-only IP is keyed by that IP while ansible_host keeps the SSH
// address, so play targets stay stable across vagrant destroy/up cycles.
//
// The "local" control group (127.0.0.1 with a local connection) is always
// present so plays that bootstrap the workstation itself have a target.
func (inv *Inventory) Build(records []GroupRecord, parent GroupName) error {
	if err := inv.AddChild(GroupAll, parent); err != nil {
		return err
	}

	for _, rec := range records {
		groupName := GroupName(rec.Group)
		if err := inv.AddChild(parent, groupName); err != nil {
			return err
		}
		for key, value := range rec.Vars {
			if err := inv.SetGroupVar(groupName, key, value); err != nil {
				return err
			}
		}

		for _, vm := range rec.VMs {
			hostName := HostName(vm.Name)
			if vm.HostOnlyIP != "" {
				hostName = HostName(vm.HostOnlyIP)
			}
			if err := inv.AddHost(hostName, groupName); err != nil {
				return err
			}

			vars := map[string]any{
				varHostName:    vm.Name,
				varAnsibleHost: vm.Host,
			}
			if vm.Port != 0 {
				vars[varAnsiblePort] = vm.Port
			}
			if vm.User != "" {
				vars[varAnsibleUser] = vm.User
			}
			if vm.IdentityFile != "" {
				vars[varAnsibleKey] = vm.IdentityFile
			}
			for key, value := range vars {
				if err := inv.SetHostVar(hostName, key, value); err != nil {
					return err
				}
			}
		}
	}

	return inv.ensureLocalGroup()
}

func (inv *Inventory) ensureLocalGroup() error {
	if err := inv.AddChild(GroupAll, GroupLocal); err != nil {
		return err
	}
	if err := inv.AddHost(localHost, GroupLocal); err != nil {
		return err
	}
	if err := inv.SetHostVar(localHost, varHostName, localConnection); err != nil {
		return err
	}
	return inv.SetHostVar(localHost, varAnsibleConn, localConnection)
}
