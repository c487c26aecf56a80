// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vagrantory/vagrantory/internal/cache"
)

// newCacheCommand groups the result-cache inspection subcommands.
func newCacheCommand(app *App) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and manage the provider result cache",
		Long: `Inspect and manage the cache that stores provider query results
between invocations.

The effective settings come from four layers: per-source overrides in
the source file, the VAGRANTORY_CACHE_* environment variables, the app
config's cache block, and built-in defaults. These subcommands operate
on the environment/config layers; sources with their own cache_* keys
may use a different backend entirely.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cacheCmd.AddCommand(
		newCacheInfoCommand(app),
		newCacheKeysCommand(app),
		newCacheFlushCommand(app),
	)

	return cacheCmd
}

func newCacheInfoCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "info",
		Short: "Show the effective cache settings and entry count",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheInfo(cmd.Context(), app)
		},
	}
}

func newCacheKeysCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the fresh cache keys, one per line",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheKeys(cmd.Context(), app)
		},
	}
}

func newCacheFlushCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "flush",
		Short: "Delete every cached entry owned by this tool",
		Long: `Delete every cache entry carrying the configured prefix, expired
entries included. Entries written by other tools into a shared store
are left alone.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheFlush(cmd.Context(), app)
		},
	}
}

// appCacheSettings resolves the ambient cache settings (environment over app
// config over defaults) the way sources without their own overrides see them.
func (app *App) appCacheSettings(ctx context.Context) (cache.Settings, error) {
	cfg, diags := loadConfigWithFallback(ctx, app.Config, rootResolveOptions().configPath)
	app.Diagnostics.Render(ctx, diags, app.stderr)

	settings, err := cache.ResolveSettings(cache.Overrides{}, cacheOverrides(cfg))
	if err != nil {
		return cache.Settings{}, classifyResolveError(err)
	}
	return settings, nil
}

// runCacheInfo shows the effective settings and, when the backend opens, the
// number of fresh entries it currently holds.
func runCacheInfo(ctx context.Context, app *App) error {
	settings, err := app.appCacheSettings(ctx)
	if err != nil {
		return app.fail(err)
	}

	fmt.Fprintln(app.stdout, TitleStyle.Render("Cache settings"))
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("plugin:"), settings.Plugin)

	connection := string(settings.Connection)
	if connection == "" {
		connection = SubtitleStyle.Render("(none)")
	}
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("connection:"), connection)

	timeout := fmt.Sprintf("%ds", settings.Timeout)
	if settings.Timeout == 0 {
		timeout = "never expires"
	}
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("timeout:"), timeout)
	fmt.Fprintf(app.stdout, "  %s %s\n", SubtitleStyle.Render("prefix:"), settings.Prefix)

	backend, err := cache.Open(settings)
	if err != nil {
		return app.fail(classifyResolveError(err))
	}
	keys, err := backend.Keys()
	if err != nil {
		return app.fail(err)
	}
	fmt.Fprintf(app.stdout, "  %s %d\n", SubtitleStyle.Render("entries:"), len(keys))
	return nil
}

// runCacheKeys lists the fresh keys in the ambient backend.
// Output is plain and sorted for scripting; an empty cache prints nothing.
func runCacheKeys(ctx context.Context, app *App) error {
	settings, err := app.appCacheSettings(ctx)
	if err != nil {
		return app.fail(err)
	}

	backend, err := cache.Open(settings)
	if err != nil {
		return app.fail(classifyResolveError(err))
	}

	keys, err := backend.Keys()
	if err != nil {
		return app.fail(err)
	}

	sort.Strings(keys)
	for _, key := range keys {
		fmt.Fprintln(app.stdout, key)
	}
	return nil
}

// runCacheFlush deletes every owned entry from the ambient backend.
func runCacheFlush(ctx context.Context, app *App) error {
	settings, err := app.appCacheSettings(ctx)
	if err != nil {
		return app.fail(err)
	}

	backend, err := cache.Open(settings)
	if err != nil {
		return app.fail(classifyResolveError(err))
	}

	if err := backend.Flush(); err != nil {
		return app.fail(err)
	}

	target := settings.Plugin
	if settings.Connection != "" {
		target = fmt.Sprintf("%s (%s)", settings.Plugin, settings.Connection)
	}
	fmt.Fprintf(app.stdout, "%s Flushed the %s cache\n", SuccessStyle.Render("✓"), strings.TrimSpace(target))
	return nil
}
