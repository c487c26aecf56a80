// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/vagrantory/vagrantory/internal/app/resolve"
	"github.com/vagrantory/vagrantory/internal/cache"
	"github.com/vagrantory/vagrantory/internal/config"
	"github.com/vagrantory/vagrantory/internal/dag"
	"github.com/vagrantory/vagrantory/internal/discovery"
	"github.com/vagrantory/vagrantory/internal/inventory"
	"github.com/vagrantory/vagrantory/internal/issue"
	"github.com/vagrantory/vagrantory/internal/vagrant"
	"github.com/vagrantory/vagrantory/pkg/types"
)

var (
	// errNoSources is returned when discovery finds no source file at all.
	errNoSources = errors.New("no inventory source file found")
	// errNoUsableSources is returned when every discovered source failed to
	// parse or validate.
	errNoUsableSources = errors.New("no usable inventory source file (all discovered sources failed to load)")
)

// resolveOptions carries the root flag state into the resolution pipeline as
// explicit values, keeping the pipeline testable without package-level state.
type resolveOptions struct {
	// configPath is the explicit --config value. Empty means the default path.
	configPath types.FilesystemPath
	// explicit is the --inventory value. When set, it replaces discovery.
	explicit types.FilesystemPath
	// refresh bypasses cached results and re-queries every provider.
	refresh bool
}

// rootResolveOptions snapshots the root flags for a command invocation.
func rootResolveOptions() resolveOptions {
	return resolveOptions{
		configPath: types.FilesystemPath(rootFlags.cfgFile),
		explicit:   types.FilesystemPath(rootFlags.inventory),
		refresh:    rootFlags.refresh,
	}
}

// resolveInventory runs the pipeline shared by every inventory-emitting
// command: load config, discover and validate source files, build one
// resolution request per usable source, and resolve them all into a merged
// inventory.
//
// Config and discovery diagnostics are rendered to stderr on every path, so
// script callers see warnings while stdout stays pure JSON. The returned
// sources include unusable ones whenever discovery itself succeeded; watch
// mode relies on that to keep broken files in its watch set until they are
// fixed.
func (app *App) resolveInventory(ctx context.Context, opts resolveOptions) (*inventory.Inventory, []*discovery.DiscoveredSource, error) {
	cfg, diags := loadConfigWithFallback(ctx, app.Config, opts.configPath)

	sources, discDiags, err := app.Sources.DiscoverAndValidate(ctx, cfg, opts.explicit)
	diags = append(diags, discDiags...)
	app.Diagnostics.Render(ctx, diags, app.stderr)
	if err != nil {
		return nil, nil, classifyDiscoveryError(err)
	}

	usable := discovery.Usable(sources)
	if len(usable) == 0 {
		if len(sources) == 0 {
			return nil, sources, newServiceError(errNoSources, issue.SourceNotFoundId, "")
		}
		return nil, sources, newServiceError(errNoUsableSources, issue.SourceParseErrorId, "")
	}

	reqs := make([]resolve.Request, 0, len(usable))
	for _, src := range usable {
		req, reqErr := resolve.NewRequest(src.File, cacheOverrides(cfg), providerOptions(cfg))
		if reqErr != nil {
			return nil, sources, classifyResolveError(reqErr)
		}
		req.Refresh = opts.refresh
		reqs = append(reqs, req)
	}

	inv, outcomes, err := app.Resolver.ResolveAll(ctx, reqs)
	if err != nil {
		return nil, sources, classifyResolveError(err)
	}
	logOutcomes(usable, outcomes)
	return inv, sources, nil
}

// cacheOverrides maps the app config's cache block to resolution overrides.
// Fields the config leaves unset fall through to the environment and the
// built-in defaults inside cache.ResolveSettings.
func cacheOverrides(cfg *config.Config) cache.Overrides {
	return cache.Overrides{
		Plugin:     cfg.Cache.Plugin,
		Connection: cfg.Cache.Connection,
		Timeout:    cfg.Cache.Timeout,
		Prefix:     cfg.Cache.Prefix,
	}
}

// providerOptions maps the app config's vagrant block to provider options.
func providerOptions(cfg *config.Config) resolve.Options {
	return resolve.Options{
		VagrantBinary:  string(cfg.Vagrant.Binary),
		VagrantTimeout: time.Duration(cfg.Vagrant.CommandTimeout) * time.Second,
	}
}

// classifyDiscoveryError attaches issue catalog guidance to hard discovery
// failures (an explicitly named source that is missing or unrecognized).
func classifyDiscoveryError(err error) error {
	if errors.Is(err, discovery.ErrSourceNotFound) || errors.Is(err, discovery.ErrUnrecognizedName) {
		return newServiceError(err, issue.SourceNotFoundId, "")
	}
	return err
}

// classifyResolveError attaches issue catalog guidance to known resolution
// failures. Unrecognized errors pass through for plain rendering.
func classifyResolveError(err error) error {
	var cycleErr *dag.CycleError
	switch {
	case errors.Is(err, resolve.ErrUnknownProvider):
		return newServiceError(err, issue.ProviderNotFoundId, "")
	case errors.Is(err, cache.ErrUnknownPlugin):
		return newServiceError(err, issue.UnknownCachePluginId, "")
	case errors.Is(err, cache.ErrMissingConnection), errors.Is(err, cache.ErrInvalidTimeout):
		return newServiceError(err, issue.CacheConfigInvalidId, "")
	case errors.Is(err, vagrant.ErrUnusableBinary):
		return newServiceError(err, issue.VagrantNotFoundId, "")
	case errors.As(err, &cycleErr):
		return newServiceError(err, issue.GroupCycleId, "")
	default:
		return err
	}
}

// logOutcomes reports per-source cache behavior at debug level.
func logOutcomes(usable []*discovery.DiscoveredSource, outcomes []resolve.Outcome) {
	for i, out := range outcomes {
		if i >= len(usable) {
			break
		}
		slog.Debug("source resolved",
			"source", usable[i].Path,
			"cache", out.State,
			"key", out.Key,
			"records", len(out.Records))
	}
}
