// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"errors"
	"slices"
	"testing"
)

func TestDetectFrom(t *testing.T) {
	t.Parallel()

	noEnv := func(string) string { return "" }
	noFile := func(string) error { return errors.New("not found") }

	tests := []struct {
		name   string
		getenv func(string) string
		stat   func(string) error
		want   Sandbox
	}{
		{
			name:   "no sandbox",
			getenv: noEnv,
			stat:   noFile,
			want:   SandboxNone,
		},
		{
			name:   "flatpak",
			getenv: noEnv,
			stat: func(path string) error {
				if path == "/.flatpak-info" {
					return nil
				}
				return errors.New("not found")
			},
			want: SandboxFlatpak,
		},
		{
			name: "snap",
			getenv: func(key string) string {
				if key == "SNAP_NAME" {
					return "vagrantory"
				}
				return ""
			},
			stat: noFile,
			want: SandboxSnap,
		},
		{
			name: "flatpak wins over snap",
			getenv: func(string) string {
				return "vagrantory"
			},
			stat: func(string) error { return nil },
			want: SandboxFlatpak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := detectFrom(tt.getenv, tt.stat); got != tt.want {
				t.Errorf("detectFrom() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHostCommandFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		sandbox  Sandbox
		wantName string
		wantArgs []string
	}{
		{
			name:     "no sandbox passes through",
			sandbox:  SandboxNone,
			wantName: "vagrant",
			wantArgs: []string{"ssh-config"},
		},
		{
			name:     "flatpak spawns on host",
			sandbox:  SandboxFlatpak,
			wantName: "flatpak-spawn",
			wantArgs: []string{"--host", "vagrant", "ssh-config"},
		},
		{
			name:     "snap shells out",
			sandbox:  SandboxSnap,
			wantName: "snap",
			wantArgs: []string{"run", "--shell", "vagrant", "ssh-config"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			gotName, gotArgs := hostCommandFor(tt.sandbox, "vagrant", []string{"ssh-config"})
			if gotName != tt.wantName {
				t.Errorf("name = %q, want %q", gotName, tt.wantName)
			}
			if !slices.Equal(gotArgs, tt.wantArgs) {
				t.Errorf("args = %v, want %v", gotArgs, tt.wantArgs)
			}
		})
	}
}

func TestHostCommandOutsideSandbox(t *testing.T) {
	t.Parallel()

	// Test binaries never run inside Flatpak; the only env hazard is a
	// stray SNAP_NAME, which CI does not set. Whatever DetectSandbox
	// finds, HostCommand must keep the trailing command intact.
	name, args := HostCommand("vagrant", []string{"status"})
	if name == "" {
		t.Fatal("HostCommand returned an empty command")
	}
	if len(args) == 0 || args[len(args)-1] != "status" {
		t.Errorf("args = %v, want the original args preserved at the tail", args)
	}
}
