// SPDX-License-Identifier: MPL-2.0

package vagrant

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

const (
	defineMarker  = "config.vm.define"
	networkMarker = "vm.network :private_network, ip:"
)

// ScanVagrantfile reads a Vagrantfile and pairs each `config.vm.define`
// machine name with the next `private_network` address. The scan is
// line-oriented: it only understands the common one-statement-per-line
// layout, and a machine without a private network simply has no entry.
func ScanVagrantfile(path string) (map[string]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading Vagrantfile: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	ips := make(map[string]string)
	var name, ip string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(line, defineMarker) {
			name = defineName(line)
		}
		if strings.Contains(line, networkMarker) {
			ip = strings.Trim(strings.TrimSpace(line[strings.LastIndex(line, ":")+1:]), `"'`)
		}

		if name != "" && ip != "" {
			ips[name] = ip
			name, ip = "", ""
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading Vagrantfile: %w", err)
	}

	return ips, nil
}

// defineName pulls the machine name out of a define line, which may be
//
//	config.vm.define "web" do |web|
//	config.vm.define "web", primary: true do |web|
//
// The name is the first token after the marker, minus quotes.
func defineName(line string) string {
	head := strings.SplitN(line, ",", 2)[0]
	fields := strings.Fields(head)
	if len(fields) < 2 {
		return ""
	}
	return strings.Trim(fields[1], `"'`)
}
