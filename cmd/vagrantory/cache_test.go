// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/vagrantory/vagrantory/internal/cache"
	"github.com/vagrantory/vagrantory/pkg/types"
)

// Not parallel: subtests pin the VAGRANTORY_CACHE_* environment with t.Setenv.

// setCacheEnv points the ambient cache at a jsonfile store in a temp dir.
func setCacheEnv(t *testing.T) types.FilesystemPath {
	t.Helper()

	dir := t.TempDir()
	t.Setenv(cache.EnvPlugin, "jsonfile")
	t.Setenv(cache.EnvConnection, dir)
	return types.FilesystemPath(dir)
}

// seedCacheEntry writes one entry through the real backend.
func seedCacheEntry(t *testing.T, connection types.FilesystemPath, key string) {
	t.Helper()

	backend, err := cache.Open(cache.Settings{
		Plugin:     "jsonfile",
		Connection: connection,
		Timeout:    3600,
		Prefix:     cache.DefaultPrefix,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if err := backend.Set(cache.Key(key), []byte(`[]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
}

func TestRunCacheInfo(t *testing.T) {
	connection := setCacheEnv(t)
	seedCacheEntry(t, connection, "vagrant_abc123")

	app, stdout, _ := newTestApp(t, Dependencies{})
	if err := runCacheInfo(context.Background(), app); err != nil {
		t.Fatalf("runCacheInfo() error = %v", err)
	}

	out := stdout.String()
	for _, want := range []string{"jsonfile", connection.String(), "3600s", cache.DefaultPrefix, "entries:"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(out, " 1\n") {
		t.Errorf("output missing the entry count:\n%s", out)
	}
}

func TestRunCacheInfoNeverExpires(t *testing.T) {
	setCacheEnv(t)
	t.Setenv(cache.EnvTimeout, "0")

	app, stdout, _ := newTestApp(t, Dependencies{})
	if err := runCacheInfo(context.Background(), app); err != nil {
		t.Fatalf("runCacheInfo() error = %v", err)
	}

	if !strings.Contains(stdout.String(), "never expires") {
		t.Errorf("output = %q, want it to mention never expires", stdout.String())
	}
}

func TestRunCacheInfoUnknownPlugin(t *testing.T) {
	t.Setenv(cache.EnvPlugin, "redis")

	app, _, stderr := newTestApp(t, Dependencies{})
	if err := runCacheInfo(context.Background(), app); err == nil {
		t.Fatal("runCacheInfo() error = nil, want a failure for an unknown plugin")
	}
	if stderr.Len() == 0 {
		t.Error("stderr empty, want rendered guidance")
	}
}

func TestRunCacheKeys(t *testing.T) {
	connection := setCacheEnv(t)
	seedCacheEntry(t, connection, "vagrant_abc123")
	seedCacheEntry(t, connection, "proxmox_def456")

	app, stdout, _ := newTestApp(t, Dependencies{})
	if err := runCacheKeys(context.Background(), app); err != nil {
		t.Fatalf("runCacheKeys() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2:\n%s", len(lines), stdout.String())
	}
	// Sorted output keeps the command script-friendly.
	if lines[0] != "proxmox_def456" || lines[1] != "vagrant_abc123" {
		t.Errorf("keys = %v, want sorted [proxmox_def456 vagrant_abc123]", lines)
	}
}

func TestRunCacheKeysEmpty(t *testing.T) {
	setCacheEnv(t)

	app, stdout, _ := newTestApp(t, Dependencies{})
	if err := runCacheKeys(context.Background(), app); err != nil {
		t.Fatalf("runCacheKeys() error = %v", err)
	}
	if stdout.Len() != 0 {
		t.Errorf("stdout = %q, want no output for an empty cache", stdout.String())
	}
}

func TestRunCacheFlush(t *testing.T) {
	connection := setCacheEnv(t)
	seedCacheEntry(t, connection, "vagrant_abc123")

	app, stdout, _ := newTestApp(t, Dependencies{})
	if err := runCacheFlush(context.Background(), app); err != nil {
		t.Fatalf("runCacheFlush() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "Flushed") {
		t.Errorf("output = %q, want a flush confirmation", stdout.String())
	}

	backend, err := cache.Open(cache.Settings{
		Plugin:     "jsonfile",
		Connection: connection,
		Timeout:    3600,
		Prefix:     cache.DefaultPrefix,
	})
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	keys, err := backend.Keys()
	if err != nil {
		t.Fatalf("Keys() error = %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("keys after flush = %v, want none", keys)
	}
}
