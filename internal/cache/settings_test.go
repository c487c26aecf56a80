// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vagrantory/vagrantory/pkg/types"
)

// clearCacheEnv neutralizes the ambient VAGRANTORY_CACHE_* variables for
// one test; resolution treats empty values as unset. t.Setenv restores the
// previous values on cleanup.
func clearCacheEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvPlugin, "")
	t.Setenv(EnvConnection, "")
	t.Setenv(EnvTimeout, "")
	t.Setenv(EnvPrefix, "")
}

func TestResolveSettings_BuiltinDefaults(t *testing.T) {
	clearCacheEnv(t)

	s, err := ResolveSettings(Overrides{}, Overrides{})
	if err != nil {
		t.Fatalf("ResolveSettings() returned error: %v", err)
	}

	if s.Plugin != DefaultPlugin {
		t.Errorf("Plugin = %q, want %q", s.Plugin, DefaultPlugin)
	}
	if s.Connection != "" {
		t.Errorf("Connection = %q, want empty", s.Connection)
	}
	if s.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %d, want %d", s.Timeout, DefaultTimeout)
	}
	if s.Prefix != DefaultPrefix {
		t.Errorf("Prefix = %q, want %q", s.Prefix, DefaultPrefix)
	}
}

func TestResolveSettings_EnvironmentLayer(t *testing.T) {
	clearCacheEnv(t)
	t.Setenv(EnvPlugin, "jsonfile")
	t.Setenv(EnvConnection, "/var/cache/vagrantory")
	t.Setenv(EnvTimeout, "60")
	t.Setenv(EnvPrefix, "ci_")

	s, err := ResolveSettings(Overrides{}, Overrides{})
	if err != nil {
		t.Fatalf("ResolveSettings() returned error: %v", err)
	}

	if s.Plugin != "jsonfile" {
		t.Errorf("Plugin = %q, want jsonfile", s.Plugin)
	}
	if s.Connection != "/var/cache/vagrantory" {
		t.Errorf("Connection = %q", s.Connection)
	}
	if s.Timeout != 60 {
		t.Errorf("Timeout = %d, want 60", s.Timeout)
	}
	if s.Prefix != "ci_" {
		t.Errorf("Prefix = %q, want ci_", s.Prefix)
	}
}

func TestResolveSettings_SourceBeatsEnvironment(t *testing.T) {
	clearCacheEnv(t)
	t.Setenv(EnvPlugin, "memory")
	t.Setenv(EnvTimeout, "60")

	timeout := 0
	s, err := ResolveSettings(Overrides{Plugin: "jsonfile", Connection: "/srv/cache", Timeout: &timeout}, Overrides{})
	if err != nil {
		t.Fatalf("ResolveSettings() returned error: %v", err)
	}

	if s.Plugin != "jsonfile" {
		t.Errorf("Plugin = %q, want the source file's jsonfile", s.Plugin)
	}
	if s.Timeout != 0 {
		t.Errorf("Timeout = %d, want the source file's explicit 0", s.Timeout)
	}
}

func TestResolveSettings_EnvironmentBeatsConfig(t *testing.T) {
	clearCacheEnv(t)
	t.Setenv(EnvPlugin, "jsonfile")

	cfgTimeout := 120
	s, err := ResolveSettings(Overrides{}, Overrides{Plugin: "memory", Timeout: &cfgTimeout, Prefix: "cfg_"})
	if err != nil {
		t.Fatalf("ResolveSettings() returned error: %v", err)
	}

	if s.Plugin != "jsonfile" {
		t.Errorf("Plugin = %q, want the environment's jsonfile", s.Plugin)
	}
	// Fields the environment leaves unset still fall through to config.
	if s.Timeout != 120 {
		t.Errorf("Timeout = %d, want the config's 120", s.Timeout)
	}
	if s.Prefix != "cfg_" {
		t.Errorf("Prefix = %q, want the config's cfg_", s.Prefix)
	}
}

func TestResolveSettings_TildeConnection(t *testing.T) {
	clearCacheEnv(t)
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory available: %v", err)
	}
	t.Setenv(EnvConnection, "~/.vagrantory/cache")

	s, err := ResolveSettings(Overrides{}, Overrides{})
	if err != nil {
		t.Fatalf("ResolveSettings() returned error: %v", err)
	}
	want := types.FilesystemPath(filepath.Join(home, ".vagrantory", "cache"))
	if s.Connection != want {
		t.Errorf("Connection = %q, want %q", s.Connection, want)
	}
}

func TestResolveSettings_TimeoutErrors(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) (Overrides, Overrides)
		target string
	}{
		{
			name: "malformed environment value",
			setup: func(t *testing.T) (Overrides, Overrides) {
				t.Setenv(EnvTimeout, "soon")
				return Overrides{}, Overrides{}
			},
			target: "soon",
		},
		{
			name: "negative environment value",
			setup: func(t *testing.T) (Overrides, Overrides) {
				t.Setenv(EnvTimeout, "-10")
				return Overrides{}, Overrides{}
			},
			target: "-10",
		},
		{
			name: "negative source value",
			setup: func(t *testing.T) (Overrides, Overrides) {
				v := -1
				return Overrides{Timeout: &v}, Overrides{}
			},
			target: "-1",
		},
		{
			name: "negative config value",
			setup: func(t *testing.T) (Overrides, Overrides) {
				v := -7
				return Overrides{}, Overrides{Timeout: &v}
			},
			target: "-7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearCacheEnv(t)
			source, config := tt.setup(t)

			_, err := ResolveSettings(source, config)
			if err == nil {
				t.Fatal("ResolveSettings() accepted an invalid timeout")
			}
			if !errors.Is(err, ErrInvalidTimeout) {
				t.Errorf("error should wrap ErrInvalidTimeout, got: %v", err)
			}
			var te *InvalidTimeoutError
			if !errors.As(err, &te) {
				t.Fatalf("error should be *InvalidTimeoutError, got %T", err)
			}
			if te.Value != tt.target {
				t.Errorf("InvalidTimeoutError.Value = %q, want %q", te.Value, tt.target)
			}
		})
	}
}

func TestSettingsTimeoutDuration(t *testing.T) {
	t.Parallel()

	if got := (Settings{Timeout: 90}).TimeoutDuration(); got.Seconds() != 90 {
		t.Errorf("TimeoutDuration() = %v, want 90s", got)
	}
	if got := (Settings{}).TimeoutDuration(); got != 0 {
		t.Errorf("TimeoutDuration() = %v, want 0", got)
	}
}
