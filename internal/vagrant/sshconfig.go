// SPDX-License-Identifier: MPL-2.0

package vagrant

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// SSHEntry is one machine block from `vagrant ssh-config` output.
type SSHEntry struct {
	Name         string
	Host         string
	User         string
	Port         int
	IdentityFile string
}

// ParseSSHConfig extracts machine blocks from ssh-config output. A block
// opens at an unindented "Host" line and completes once HostName, User,
// Port, and IdentityFile have all been seen; incomplete blocks are
// dropped. UserKnownHostsFile lines do not count as the user.
func ParseSSHConfig(r io.Reader) []SSHEntry {
	var (
		entries []SSHEntry
		current SSHEntry
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		if strings.HasPrefix(line, "Host ") {
			current = SSHEntry{Name: lastField(line)}
			continue
		}
		if current.Name == "" {
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "HostName"):
			current.Host = lastField(trimmed)
		case strings.HasPrefix(trimmed, "User") && !strings.HasPrefix(trimmed, "UserKnownHostsFile"):
			current.User = lastField(trimmed)
		case strings.HasPrefix(trimmed, "Port"):
			if port, err := strconv.Atoi(lastField(trimmed)); err == nil {
				current.Port = port
			}
		case strings.HasPrefix(trimmed, "IdentityFile"):
			current.IdentityFile = lastField(trimmed)
		}

		if current.complete() {
			entries = append(entries, current)
			current = SSHEntry{}
		}
	}

	return entries
}

func (e SSHEntry) complete() bool {
	return e.Name != "" && e.Host != "" && e.User != "" && e.Port != 0 && e.IdentityFile != ""
}

func lastField(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[len(fields)-1]
}
