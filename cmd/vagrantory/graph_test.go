// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"strings"
	"testing"

	"github.com/vagrantory/vagrantory/internal/discovery"
)

func TestRunGraph(t *testing.T) {
	t.Parallel()

	app, stdout, _ := newTestApp(t, Dependencies{
		Sources:  &fakeSourceService{sources: []*discovery.DiscoveredSource{usableSource("vagrant")}},
		Resolver: &fakeResolver{inv: testInventory(t)},
	})

	if err := runGraph(context.Background(), app); err != nil {
		t.Fatalf("runGraph() error = %v", err)
	}

	out := stdout.String()
	if !strings.HasPrefix(out, "@all:") {
		t.Errorf("output %q does not start at the all group", out)
	}
	for _, want := range []string{"--@vagrant:", "--@web:", "--web1"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
