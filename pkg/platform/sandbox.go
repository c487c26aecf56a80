// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"os"
	"sync"
)

// Sandbox identifies the application sandbox the process runs in, if any.
type Sandbox string

const (
	SandboxNone    Sandbox = ""
	SandboxFlatpak Sandbox = "flatpak"
	SandboxSnap    Sandbox = "snap"
)

// detectOnce caches detection for the process lifetime; the sandbox
// cannot change while we run. sync.OnceValue re-panics on every call if
// the function panics, so detectFrom must not panic.
var detectOnce = sync.OnceValue(func() Sandbox {
	return detectFrom(os.Getenv, statFile)
})

// DetectSandbox reports which sandbox the process runs in. Flatpak is
// recognized by the /.flatpak-info file, Snap by the SNAP_NAME
// environment variable.
func DetectSandbox() Sandbox {
	return detectOnce()
}

// HostCommand rewrites a command line so it executes on the host rather
// than inside the detected sandbox. Outside a sandbox the input comes
// back unchanged. The vagrant provider routes every binary invocation
// through this, since the vagrant install lives on the host, not in the
// sandbox image.
func HostCommand(name string, args []string) (string, []string) {
	return hostCommandFor(DetectSandbox(), name, args)
}

// hostCommandFor is the pure mapping behind HostCommand, split out so
// tests can exercise every sandbox type without faking process state.
func hostCommandFor(sb Sandbox, name string, args []string) (string, []string) {
	switch sb {
	case SandboxFlatpak:
		return "flatpak-spawn", append([]string{"--host", name}, args...)
	case SandboxSnap:
		return "snap", append([]string{"run", "--shell", name}, args...)
	default:
		return name, args
	}
}

func detectFrom(getenv func(string) string, stat func(string) error) Sandbox {
	// The /.flatpak-info file is present inside every Flatpak sandbox.
	if err := stat("/.flatpak-info"); err == nil {
		return SandboxFlatpak
	}
	// SNAP_NAME is set for all snaps.
	if getenv("SNAP_NAME") != "" {
		return SandboxSnap
	}
	return SandboxNone
}

func statFile(path string) error {
	_, err := os.Stat(path)
	return err
}
