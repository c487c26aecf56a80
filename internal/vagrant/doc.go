// SPDX-License-Identifier: MPL-2.0

// Package vagrant harvests inventory records from Vagrant projects.
//
// The provider runs `vagrant ssh-config` in each configured project
// directory and parses the SSH blocks into machine records. A record is
// kept only when the block carries a host name, address, user, port,
// and identity file. Optionally the project's Vagrantfile is scanned
// for host-only (private network) addresses, which then key the host
// in the resulting inventory.
//
// Command execution goes through the Runner interface so tests can
// substitute canned output for a real vagrant binary.
package vagrant
