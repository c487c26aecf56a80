// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vagrantory/vagrantory/internal/inventory"
	"github.com/vagrantory/vagrantory/internal/issue"
)

// newHostCommand prints a single host's connection variables.
func newHostCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "host <name>",
		Short: "Print one host's connection variables as JSON",
		Long: `Resolve the inventory and print the named host's variables
(ansible_host, ansible_port, ansible_user, and friends) as a JSON
object.

Unlike the script-protocol --host flag, an unknown host name is treated
as an error: the command still prints an empty object for tooling, but
renders guidance and exits non-zero.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHost(cmd.Context(), app, args[0])
		},
	}
}

// runHost implements the interactive subcommand: unknown hosts print an
// empty object, render guidance, and exit non-zero.
func runHost(ctx context.Context, app *App, name string) error {
	data, found, err := lookupHost(ctx, app, name)
	if err != nil {
		return app.fail(err)
	}

	fmt.Fprintln(app.stdout, string(data))
	if !found {
		notFound := fmt.Errorf("host %q not found in inventory", name)
		renderServiceError(app.stderr, newServiceError(notFound, issue.HostNotFoundId, ""))
		return &ExitError{Code: 1, Err: notFound}
	}
	return nil
}

// runScriptHost implements --host from the inventory script protocol.
// Ansible only probes hosts the --list output already named, so an unknown
// name prints an empty object and exits zero instead of failing the play.
func runScriptHost(ctx context.Context, app *App, name string) error {
	data, _, err := lookupHost(ctx, app, name)
	if err != nil {
		return app.fail(err)
	}

	fmt.Fprintln(app.stdout, string(data))
	return nil
}

// lookupHost resolves the inventory and fetches one host's variables.
func lookupHost(ctx context.Context, app *App, name string) ([]byte, bool, error) {
	inv, _, err := app.resolveInventory(ctx, rootResolveOptions())
	if err != nil {
		return nil, false, err
	}
	return inv.HostJSON(inventory.HostName(name))
}
