// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// newListCommand prints the full inventory as Ansible inventory JSON.
func newListCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the full inventory as Ansible inventory JSON",
		Long: `Resolve every discovered source file and print the merged inventory in
the Ansible dynamic-inventory format: all groups with their hosts,
variables, and children, plus a _meta.hostvars block carrying each
host's connection variables.

Equivalent to invoking the bare binary with --list, which is what
ansible-inventory does with an executable inventory source.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), app)
		},
	}
}

// runList resolves the inventory and writes it to stdout.
func runList(ctx context.Context, app *App) error {
	inv, _, err := app.resolveInventory(ctx, rootResolveOptions())
	if err != nil {
		return app.fail(err)
	}

	data, err := inv.ListJSON()
	if err != nil {
		return app.fail(err)
	}

	fmt.Fprintln(app.stdout, string(data))
	return nil
}
