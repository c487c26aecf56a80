// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"

	"github.com/vagrantory/vagrantory/internal/cache"
	"github.com/vagrantory/vagrantory/internal/inventory"
	"github.com/vagrantory/vagrantory/internal/proxmox"
	"github.com/vagrantory/vagrantory/internal/vagrant"
	"github.com/vagrantory/vagrantory/pkg/sourcefile"
	"github.com/vagrantory/vagrantory/pkg/types"
)

// clearCacheEnv neutralizes the ambient VAGRANTORY_CACHE_* variables for
// one test; resolution treats empty values as unset.
func clearCacheEnv(t *testing.T) {
	t.Helper()
	t.Setenv(cache.EnvPlugin, "")
	t.Setenv(cache.EnvConnection, "")
	t.Setenv(cache.EnvTimeout, "")
	t.Setenv(cache.EnvPrefix, "")
}

// parseSource writes doc into dir as vagrantory.yml and parses it back,
// so relative paths inside the document anchor to dir.
func parseSource(t *testing.T, dir, doc string) *sourcefile.SourceFile {
	t.Helper()
	path := filepath.Join(dir, "vagrantory.yml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}
	src, err := sourcefile.Parse(types.FilesystemPath(path))
	if err != nil {
		t.Fatalf("Parse() returned error: %v", err)
	}
	return src
}

func TestProviderNames(t *testing.T) {
	t.Parallel()

	want := []string{proxmox.PluginName, vagrant.PluginName}
	if got := ProviderNames(); !reflect.DeepEqual(got, want) {
		t.Errorf("ProviderNames() = %v, want %v", got, want)
	}
}

func TestRegistry_UnknownProvider(t *testing.T) {
	t.Parallel()

	reg := NewProviderRegistry()
	reg.Register("vagrant", func(*sourcefile.SourceFile, Options) (inventory.Source, error) {
		return &fakeSource{name: "vagrant"}, nil
	})

	_, err := reg.New(&sourcefile.SourceFile{Plugin: "nomad"}, Options{})
	if !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("New() error = %v, want ErrUnknownProvider", err)
	}

	var perr *UnknownProviderError
	if !errors.As(err, &perr) {
		t.Fatalf("error %v is not an UnknownProviderError", err)
	}
	if perr.Name != "nomad" {
		t.Errorf("Name = %q, want %q", perr.Name, "nomad")
	}
	if !reflect.DeepEqual(perr.Registered, []string{"vagrant"}) {
		t.Errorf("Registered = %v, want [vagrant]", perr.Registered)
	}
	if !strings.Contains(err.Error(), "nomad") {
		t.Errorf("error %q does not name the unknown plugin", err)
	}
}

func TestRegistry_ReplacesRegistration(t *testing.T) {
	t.Parallel()

	reg := NewProviderRegistry()
	reg.Register("stub", func(*sourcefile.SourceFile, Options) (inventory.Source, error) {
		return &fakeSource{name: "first"}, nil
	})
	reg.Register("stub", func(*sourcefile.SourceFile, Options) (inventory.Source, error) {
		return &fakeSource{name: "second"}, nil
	})

	if got := reg.Names(); !reflect.DeepEqual(got, []string{"stub"}) {
		t.Errorf("Names() = %v, want [stub]", got)
	}

	src, err := reg.New(&sourcefile.SourceFile{Plugin: "stub"}, Options{})
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	if src.Name() != "second" {
		t.Errorf("Name() = %q, want %q", src.Name(), "second")
	}
}

// TestNewSource_VagrantAnchorsRelativePaths drives the built vagrant
// provider end to end against a stub binary: the relative project path
// in the source file must resolve against the file's own directory, and
// entries without a path must be left out of the run.
func TestNewSource_VagrantAnchorsRelativePaths(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("stub vagrant binary is a shell script")
	}

	dir := t.TempDir()
	project := filepath.Join(dir, "lab")
	if err := os.MkdirAll(project, 0o755); err != nil {
		t.Fatal(err)
	}
	vagrantfile := "Vagrant.configure(\"2\") do |config|\nend\n"
	if err := os.WriteFile(filepath.Join(project, "Vagrantfile"), []byte(vagrantfile), 0o600); err != nil {
		t.Fatal(err)
	}

	stub := filepath.Join(dir, "vagrant-stub")
	script := `#!/bin/sh
case "$1" in
--version)
	echo "Vagrant 2.4.1"
	;;
ssh-config)
	cat <<'EOF'
Host control
  HostName 127.0.0.1
  User vagrant
  Port 2222
  IdentityFile /tmp/lab/key
EOF
	;;
esac
`
	if err := os.WriteFile(stub, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	src := parseSource(t, dir, "plugin: vagrant\npaths:\n  - path: ./lab\n  - path: \"\"\n")

	provider, err := NewSource(src, Options{VagrantBinary: stub})
	if err != nil {
		t.Fatalf("NewSource() returned error: %v", err)
	}
	records, err := provider.Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch() returned error: %v", err)
	}

	if len(records) != 1 {
		t.Fatalf("got %d records, want 1: %+v", len(records), records)
	}
	rec := records[0]
	if rec.Group != "lab" {
		t.Errorf("Group = %q, want %q", rec.Group, "lab")
	}
	if len(rec.VMs) != 1 || rec.VMs[0].Name != "control" {
		t.Fatalf("VMs = %+v, want one machine named control", rec.VMs)
	}
	if rec.VMs[0].Port != 2222 {
		t.Errorf("Port = %d, want 2222", rec.VMs[0].Port)
	}
}

func TestNewSource_ProxmoxToken(t *testing.T) {
	t.Run("inline token", func(t *testing.T) {
		t.Setenv(proxmox.EnvToken, "")

		src := &sourcefile.SourceFile{
			Plugin: "proxmox",
			URL:    "https://pve.lab:8006",
			Token:  "root@pam!inv=uuid",
		}
		provider, err := NewSource(src, Options{})
		if err != nil {
			t.Fatalf("NewSource() returned error: %v", err)
		}
		if provider.Name() != proxmox.PluginName {
			t.Errorf("Name() = %q, want %q", provider.Name(), proxmox.PluginName)
		}
	})

	t.Run("token file relative to source", func(t *testing.T) {
		t.Setenv(proxmox.EnvToken, "")

		dir := t.TempDir()
		if err := os.WriteFile(filepath.Join(dir, "token"), []byte(" root@pam!inv=uuid\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		src := parseSource(t, dir, "plugin: proxmox\nurl: https://pve.lab:8006\ntoken_file: ./token\n")

		if _, err := NewSource(src, Options{}); err != nil {
			t.Fatalf("NewSource() returned error: %v", err)
		}
	})

	t.Run("no token anywhere", func(t *testing.T) {
		t.Setenv(proxmox.EnvToken, "")

		src := &sourcefile.SourceFile{Plugin: "proxmox", URL: "https://pve.lab:8006"}
		_, err := NewSource(src, Options{})
		if err == nil {
			t.Fatal("NewSource() succeeded without a token")
		}
		if !strings.Contains(err.Error(), proxmox.EnvToken) {
			t.Errorf("error %q does not mention %s", err, proxmox.EnvToken)
		}
	})
}

func TestNewRequest(t *testing.T) {
	clearCacheEnv(t)

	doc := `plugin: vagrant
cache: true
cache_plugin: memory
cache_prefix: req_
group: homelab
`
	src := parseSource(t, t.TempDir(), doc)

	req, err := NewRequest(src, cache.Overrides{}, Options{})
	if err != nil {
		t.Fatalf("NewRequest() returned error: %v", err)
	}

	if !req.CacheEnabled {
		t.Error("CacheEnabled = false, want true")
	}
	if req.Settings.Plugin != "memory" {
		t.Errorf("Settings.Plugin = %q, want %q", req.Settings.Plugin, "memory")
	}
	if req.Settings.Prefix != "req_" {
		t.Errorf("Settings.Prefix = %q, want %q", req.Settings.Prefix, "req_")
	}
	if req.Settings.Timeout != cache.DefaultTimeout {
		t.Errorf("Settings.Timeout = %d, want default %d", req.Settings.Timeout, cache.DefaultTimeout)
	}
	if req.SourcePath != src.Path() {
		t.Errorf("SourcePath = %q, want %q", req.SourcePath, src.Path())
	}
	if req.parentGroup() != "homelab" {
		t.Errorf("parentGroup() = %q, want %q", req.parentGroup(), "homelab")
	}
}

func TestRequest_ParentDefaultsToProviderName(t *testing.T) {
	t.Parallel()

	req := Request{Source: &fakeSource{name: "vagrant"}}
	if got := req.parentGroup(); got != "vagrant" {
		t.Errorf("parentGroup() = %q, want %q", got, "vagrant")
	}
}

func TestNewRequest_CacheDisabledSkipsSettings(t *testing.T) {
	// A bogus ambient cache plugin must not fail sources that never cache.
	clearCacheEnv(t)
	t.Setenv(cache.EnvPlugin, "redis")

	src := &sourcefile.SourceFile{Plugin: "vagrant"}
	req, err := NewRequest(src, cache.Overrides{}, Options{})
	if err != nil {
		t.Fatalf("NewRequest() returned error: %v", err)
	}
	if req.CacheEnabled {
		t.Error("CacheEnabled = true, want false")
	}
	if req.Settings.Plugin != "" {
		t.Errorf("Settings.Plugin = %q, want empty", req.Settings.Plugin)
	}
}

func TestNewRequest_InvalidTimeout(t *testing.T) {
	clearCacheEnv(t)

	negative := -5
	src := &sourcefile.SourceFile{
		Plugin:       "vagrant",
		Cache:        true,
		CacheTimeout: &negative,
	}
	_, err := NewRequest(src, cache.Overrides{}, Options{})
	if !errors.Is(err, cache.ErrInvalidTimeout) {
		t.Fatalf("NewRequest() error = %v, want ErrInvalidTimeout", err)
	}
}

func TestNewRequest_UnknownProvider(t *testing.T) {
	t.Parallel()

	src := &sourcefile.SourceFile{Plugin: "nomad"}
	_, err := NewRequest(src, cache.Overrides{}, Options{})
	if !errors.Is(err, ErrUnknownProvider) {
		t.Fatalf("NewRequest() error = %v, want ErrUnknownProvider", err)
	}
}
