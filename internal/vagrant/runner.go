// SPDX-License-Identifier: MPL-2.0

package vagrant

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/vagrantory/vagrantory/pkg/platform"
)

const (
	// DefaultBinary is the vagrant executable looked up on PATH when no
	// explicit binary is configured.
	DefaultBinary = "vagrant"

	// DefaultTimeout bounds a single vagrant invocation. ssh-config on a
	// halted machine can hang on provider locks, so every call is capped.
	DefaultTimeout = 15 * time.Second
)

type (
	// Runner executes the vagrant binary. Tests substitute a fake that
	// serves canned ssh-config output.
	Runner interface {
		// Run executes vagrant with the given arguments in dir and
		// returns the captured result.
		Run(ctx context.Context, dir string, args ...string) *Result
	}

	// Result contains the result of a vagrant invocation.
	Result struct {
		// ExitCode is the exit code of the command
		ExitCode int
		// Error contains any infrastructure error that occurred
		Error error
		// Output contains captured stdout
		Output string
		// ErrOutput contains captured stderr
		ErrOutput string
	}

	// ExecRunner runs the real vagrant binary with captured output.
	ExecRunner struct {
		// Binary overrides the vagrant executable (path or name).
		Binary string
		// Timeout overrides the per-invocation cap.
		Timeout time.Duration
	}
)

// Run executes vagrant in dir and captures stdout/stderr. A non-zero
// exit lands in ExitCode with Error left nil; failures to start the
// process at all (binary missing, permission) land in Error.
func (r *ExecRunner) Run(ctx context.Context, dir string, args ...string) *Result {
	binary := r.Binary
	if binary == "" {
		binary = DefaultBinary
	}
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Inside a Flatpak or Snap install the vagrant binary lives on the
	// host, not in the sandbox image.
	name, hostArgs := platform.HostCommand(binary, args)
	cmd := exec.CommandContext(ctx, name, hostArgs...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := &Result{
		Output:    stdout.String(),
		ErrOutput: stderr.String(),
	}

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			result.ExitCode = 1
			result.Error = fmt.Errorf("%s %s timed out after %s", binary, strings.Join(args, " "), timeout)
			return result
		}
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
			return result
		}
		result.ExitCode = 1
		result.Error = fmt.Errorf("failed to execute %s: %w", binary, err)
	}

	return result
}
