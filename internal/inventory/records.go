// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"context"
	"encoding/json"
	"fmt"
)

type (
	// Source is an inventory provider: something that can be queried for
	// the current set of machines. Fetch is the expensive call the result
	// cache exists to avoid.
	Source interface {
		// Name identifies the provider; it prefixes cache keys and names
		// the default parent group.
		Name() string

		// Fetch queries the provider and returns its machines grouped
		// the way the source file asked for. Per-machine problems are
		// logged and skipped; only total failure returns an error.
		Fetch(ctx context.Context) ([]GroupRecord, error)
	}

	// GroupRecord is one group of machines as emitted by a provider.
	// Records are the unit of caching: they serialize to JSON and fold
	// into the inventory model via Build.
	GroupRecord struct {
		// Group is the group name, already deduplicated by the provider.
		Group string `json:"group"`
		// Vars are group variables from the source file.
		Vars map[string]any `json:"vars,omitempty"`
		// VMs are the group's machines.
		VMs []VMRecord `json:"vms"`
	}

	// VMRecord is one machine. Host/User/Port/IdentityFile carry what the
	// automation engine needs to connect; HostOnlyIP, when present, keys
	// the host by its private-network address instead of its name.
	VMRecord struct {
		Name         string `json:"name"`
		Host         string `json:"host"`
		User         string `json:"user,omitempty"`
		Port         int    `json:"port,omitempty"`
		IdentityFile string `json:"identity_file,omitempty"`
		HostOnlyIP   string `json:"host_only_ip,omitempty"`
	}
)

// EncodeRecords serializes records for cache storage. The output is
// indented so file-backed cache entries stay readable when inspected by
// hand.
func EncodeRecords(records []GroupRecord) ([]byte, error) {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding inventory records: %w", err)
	}
	return data, nil
}

// DecodeRecords deserializes cached records. An error here means the
// cache entry is corrupt and should be treated as a miss.
func DecodeRecords(data []byte) ([]GroupRecord, error) {
	var records []GroupRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding inventory records: %w", err)
	}
	return records, nil
}
