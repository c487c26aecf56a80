// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/vagrantory/vagrantory/internal/discovery"
)

func TestRunHostFound(t *testing.T) {
	t.Parallel()

	app, stdout, _ := newTestApp(t, Dependencies{
		Sources:  &fakeSourceService{sources: []*discovery.DiscoveredSource{usableSource("vagrant")}},
		Resolver: &fakeResolver{inv: testInventory(t)},
	})

	if err := runHost(context.Background(), app, "web1"); err != nil {
		t.Fatalf("runHost() error = %v", err)
	}

	var vars map[string]any
	if err := json.Unmarshal(stdout.Bytes(), &vars); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if vars["ansible_host"] != "127.0.0.1" {
		t.Errorf("ansible_host = %v, want 127.0.0.1", vars["ansible_host"])
	}
	if vars["ansible_port"] != float64(2222) {
		t.Errorf("ansible_port = %v, want 2222", vars["ansible_port"])
	}
}

func TestRunHostNotFound(t *testing.T) {
	t.Parallel()

	app, stdout, stderr := newTestApp(t, Dependencies{
		Sources:  &fakeSourceService{sources: []*discovery.DiscoveredSource{usableSource("vagrant")}},
		Resolver: &fakeResolver{inv: testInventory(t)},
	})

	err := runHost(context.Background(), app, "ghost")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error = %v, want an ExitError", err)
	}
	if exitErr.Code != 1 {
		t.Errorf("Code = %d, want 1", exitErr.Code)
	}
	if strings.TrimSpace(stdout.String()) != "{}" {
		t.Errorf("stdout = %q, want an empty JSON object", stdout.String())
	}
	if stderr.Len() == 0 {
		t.Error("stderr empty, want rendered guidance")
	}
}

func TestRunScriptHostUnknownExitsClean(t *testing.T) {
	t.Parallel()

	app, stdout, _ := newTestApp(t, Dependencies{
		Sources:  &fakeSourceService{sources: []*discovery.DiscoveredSource{usableSource("vagrant")}},
		Resolver: &fakeResolver{inv: testInventory(t)},
	})

	// Ansible probes --host with names from --list; an unknown name must not
	// fail the play, only yield an empty object.
	if err := runScriptHost(context.Background(), app, "ghost"); err != nil {
		t.Fatalf("runScriptHost() error = %v", err)
	}
	if strings.TrimSpace(stdout.String()) != "{}" {
		t.Errorf("stdout = %q, want an empty JSON object", stdout.String())
	}
}

func TestRunScriptHostKnown(t *testing.T) {
	t.Parallel()

	app, stdout, _ := newTestApp(t, Dependencies{
		Sources:  &fakeSourceService{sources: []*discovery.DiscoveredSource{usableSource("vagrant")}},
		Resolver: &fakeResolver{inv: testInventory(t)},
	})

	if err := runScriptHost(context.Background(), app, "web1"); err != nil {
		t.Fatalf("runScriptHost() error = %v", err)
	}
	if !strings.Contains(stdout.String(), "ansible_host") {
		t.Errorf("stdout = %q, want host variables", stdout.String())
	}
}
