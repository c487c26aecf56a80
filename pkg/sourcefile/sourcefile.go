// SPDX-License-Identifier: MPL-2.0

package sourcefile

import (
	"path/filepath"

	"github.com/vagrantory/vagrantory/pkg/types"
)

// AcceptedNames lists the file names recognized as inventory sources, in
// the order discovery probes them. The vagrant/dynamic pair mirrors the
// names the original Ansible-side plugin accepted, so existing home-lab
// layouts keep working unchanged.
var AcceptedNames = []string{
	"vagrantory.yml",
	"vagrantory.yaml",
	"vagrant.yml",
	"vagrant.yaml",
	"dynamic.yml",
	"dynamic.yaml",
}

type (
	// SourceFile is the parsed form of an inventory source document.
	// Exactly one provider block is meaningful per file, selected by Plugin:
	// the Paths/HostOnlyIPs fields feed the vagrant provider, the
	// URL/Token/TokenFile/Insecure/Node fields feed the proxmox provider.
	SourceFile struct {
		// Plugin names the inventory provider to query.
		Plugin PluginName `yaml:"plugin"`

		// Cache enables result caching for this source. Off by default:
		// a source that never opted in never touches a cache backend.
		Cache bool `yaml:"cache"`

		// CachePlugin etc. override the environment and app config for
		// this source only. Unset fields fall through to the next layer.
		CachePlugin     string               `yaml:"cache_plugin"`
		CacheConnection types.FilesystemPath `yaml:"cache_connection"`
		CacheTimeout    *int                 `yaml:"cache_timeout"`
		CachePrefix     string               `yaml:"cache_prefix"`

		// Paths lists the Vagrant project folders to query (vagrant provider).
		Paths []PathEntry `yaml:"paths"`

		// HostOnlyIPs keys hosts by the private-network IP found in each
		// project's Vagrantfile instead of the VM name (vagrant provider).
		HostOnlyIPs bool `yaml:"host_only_ips"`

		// URL is the API endpoint, e.g. "https://pve.lab:8006" (proxmox provider).
		URL string `yaml:"url"`
		// Token is an inline API token in "user@realm!name=uuid" form.
		// TokenFile points at a file holding the same; it applies when
		// no inline token is set.
		Token     string               `yaml:"token"`
		TokenFile types.FilesystemPath `yaml:"token_file"`
		// Insecure skips TLS certificate verification (proxmox provider).
		Insecure bool `yaml:"insecure"`
		// Node restricts discovery to one cluster node; empty means all nodes.
		Node string `yaml:"node"`

		// Group is the parent group discovered hosts are placed under.
		// Empty means the provider's default (its own name).
		Group string `yaml:"group"`

		// path is where the document was read from; it anchors relative
		// project paths and derives the cache key. Set by Parse.
		path types.FilesystemPath
	}

	// PathEntry is one Vagrant project folder to query.
	PathEntry struct {
		// Path is the folder containing the Vagrantfile. Relative paths
		// are resolved against the source file's directory.
		Path types.FilesystemPath `yaml:"path"`

		// Group overrides the group name derived from the folder basename.
		// Entries sharing an explicit Group merge into one group; derived
		// names are deduplicated with numeric suffixes instead.
		Group string `yaml:"group"`

		// Vars are group variables attached to every host of the entry's group.
		Vars map[string]any `yaml:"vars"`
	}
)

// Path returns where the source file was read from.
// Empty for documents parsed from bytes.
func (s *SourceFile) Path() types.FilesystemPath { return s.path }

// Dir returns the directory containing the source file, the anchor for
// relative project paths. Empty for documents parsed from bytes.
func (s *SourceFile) Dir() types.FilesystemPath {
	if s.path == "" {
		return ""
	}
	return types.FilesystemPath(filepath.Dir(s.path.String()))
}

// ResolvePath anchors a possibly-relative project path against the source
// file's directory, expanding a leading tilde first.
func (s *SourceFile) ResolvePath(p types.FilesystemPath) (types.FilesystemPath, error) {
	expanded, err := p.ExpandUser()
	if err != nil {
		return p, err
	}
	if filepath.IsAbs(expanded.String()) || s.path == "" {
		return expanded, nil
	}
	return types.FilesystemPath(filepath.Join(s.Dir().String(), expanded.String())), nil
}

// VerifyName reports whether the base name of path is one of the accepted
// inventory source file names.
func VerifyName(path types.FilesystemPath) bool {
	base := filepath.Base(path.String())
	for _, name := range AcceptedNames {
		if base == name {
			return true
		}
	}
	return false
}
