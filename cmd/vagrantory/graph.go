// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// newGraphCommand prints the inventory group tree.
func newGraphCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "graph",
		Short: "Print the inventory group tree",
		Long: `Resolve the inventory and print its group hierarchy in the same
indented form 'ansible-inventory --graph' uses, with hosts listed under
their groups.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGraph(cmd.Context(), app)
		},
	}
}

// runGraph resolves the inventory and writes the group tree to stdout.
func runGraph(ctx context.Context, app *App) error {
	inv, _, err := app.resolveInventory(ctx, rootResolveOptions())
	if err != nil {
		return app.fail(err)
	}

	fmt.Fprint(app.stdout, inv.Graph())
	return nil
}
