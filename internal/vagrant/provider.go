// SPDX-License-Identifier: MPL-2.0

package vagrant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vagrantory/vagrantory/internal/inventory"
)

// PluginName is the provider token inventory source files select with.
const PluginName = "vagrant"

// ErrUnusableBinary is returned when the vagrant binary cannot run at
// all. Per-project failures are warnings; this one aborts the fetch.
var ErrUnusableBinary = errors.New("vagrant binary not usable")

type (
	// PathSpec is one Vagrant project to harvest: its directory plus the
	// optional explicit group name and group vars from the source file.
	PathSpec struct {
		Dir   string
		Group string
		Vars  map[string]any
	}

	// Provider lists running Vagrant machines across a set of projects.
	// It implements inventory.Source.
	Provider struct {
		runner      Runner
		paths       []PathSpec
		hostOnlyIPs bool
	}
)

// NewProvider creates a Provider over the given projects. When
// hostOnlyIPs is set, each project's Vagrantfile is scanned for private
// network addresses.
func NewProvider(runner Runner, paths []PathSpec, hostOnlyIPs bool) *Provider {
	return &Provider{runner: runner, paths: paths, hostOnlyIPs: hostOnlyIPs}
}

// Name returns the provider token.
func (p *Provider) Name() string {
	return PluginName
}

// Fetch queries every configured project and returns the harvested
// group records. An unusable vagrant binary fails the whole fetch;
// anything wrong with a single project logs a warning and skips it.
func (p *Provider) Fetch(ctx context.Context) ([]inventory.GroupRecord, error) {
	version := p.runner.Run(ctx, os.TempDir(), "--version")
	if version.Error != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnusableBinary, version.Error)
	}
	if version.ExitCode != 0 {
		return nil, fmt.Errorf("%w: --version exited %d: %s",
			ErrUnusableBinary, version.ExitCode, strings.TrimSpace(version.ErrOutput))
	}
	slog.Debug("vagrant version", "version", strings.TrimSpace(version.Output))

	var (
		records []inventory.GroupRecord
		index   = make(map[string]int)
		derived = make(map[string]bool)
	)

	for _, spec := range p.paths {
		if spec.Dir == "" {
			slog.Warn("path entry without a directory, skipped")
			continue
		}

		vagrantfile := filepath.Join(spec.Dir, "Vagrantfile")
		if info, err := os.Stat(vagrantfile); err != nil || info.IsDir() {
			slog.Warn("Vagrantfile not found, path skipped", "dir", spec.Dir)
			continue
		}

		groupName := spec.Group
		if groupName == "" {
			groupName = deriveGroupName(filepath.Base(filepath.Clean(spec.Dir)), derived)
		}

		// The group exists as soon as it is named, so an entry whose
		// machines cannot be listed still contributes its vars.
		i, ok := index[groupName]
		if !ok {
			i = len(records)
			index[groupName] = i
			records = append(records, inventory.GroupRecord{Group: groupName})
		}
		if len(spec.Vars) > 0 {
			records[i].Vars = spec.Vars
		}

		var hostOnly map[string]string
		if p.hostOnlyIPs {
			ips, err := ScanVagrantfile(vagrantfile)
			if err != nil {
				slog.Warn("Vagrantfile scan failed, host-only addresses unavailable", "dir", spec.Dir, "error", err)
			} else {
				hostOnly = ips
			}
		}

		sshConfig := p.runner.Run(ctx, spec.Dir, "ssh-config")
		if sshConfig.Error != nil || sshConfig.ExitCode != 0 {
			slog.Warn("vagrant ssh-config failed, path skipped",
				"dir", spec.Dir,
				"exit_code", sshConfig.ExitCode,
				"stderr", strings.TrimSpace(sshConfig.ErrOutput),
				"error", sshConfig.Error)
			continue
		}

		for _, entry := range ParseSSHConfig(strings.NewReader(sshConfig.Output)) {
			records[i].VMs = append(records[i].VMs, inventory.VMRecord{
				Name:         entry.Name,
				Host:         entry.Host,
				User:         entry.User,
				Port:         entry.Port,
				IdentityFile: entry.IdentityFile,
				HostOnlyIP:   hostOnly[entry.Name],
			})
		}
	}

	return records, nil
}

// deriveGroupName turns a project folder basename into a group name,
// suffixing -1, -2, ... when another derived name already took it.
// Explicit names never land in taken, so they merge instead.
func deriveGroupName(base string, taken map[string]bool) string {
	name := base
	for n := 1; taken[name]; n++ {
		name = fmt.Sprintf("%s-%d", base, n)
	}
	taken[name] = true
	return name
}
