// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"context"
	"log/slog"

	"github.com/vagrantory/vagrantory/internal/cache"
	"github.com/vagrantory/vagrantory/internal/inventory"
	"github.com/vagrantory/vagrantory/pkg/sourcefile"
	"github.com/vagrantory/vagrantory/pkg/types"
)

// CacheState says how a source's records were obtained.
type CacheState string

const (
	// CacheDisabled marks a source that never opted into caching.
	CacheDisabled CacheState = "disabled"
	// CacheHit means the records came from a fresh cached entry.
	CacheHit CacheState = "hit"
	// CacheMiss means no fresh entry existed and the provider was queried.
	CacheMiss CacheState = "miss"
	// CacheRefreshed means the cache was bypassed on request.
	CacheRefreshed CacheState = "refreshed"
)

type (
	// Request is one source to resolve.
	Request struct {
		// Source queries the live provider.
		Source inventory.Source
		// SourcePath identifies the source document and derives the
		// cache key, so two files querying the same provider cache
		// independently.
		SourcePath types.FilesystemPath
		// Settings is the resolved cache configuration.
		Settings cache.Settings
		// CacheEnabled gates every cache read and write for this source.
		CacheEnabled bool
		// Refresh bypasses the cached entry and stores a fresh one.
		Refresh bool
		// Parent is the group the source's records land under.
		Parent inventory.GroupName
	}

	// Outcome is the result of resolving one source.
	Outcome struct {
		// Records are the provider records, cached or fresh.
		Records []inventory.GroupRecord
		// State says where the records came from.
		State CacheState
		// Key is the cache key consulted; empty when caching is disabled.
		Key cache.Key
	}

	// Resolver implements get-or-refresh over the cache plugin registry.
	// The zero value uses the package-default registry.
	Resolver struct {
		// Open overrides backend construction, mainly for tests.
		Open func(cache.Settings) (cache.Backend, error)
	}
)

// Resolve obtains records for one source. With caching enabled the
// backend is consulted first and a fresh hit short-circuits the
// provider entirely; on a miss (or an explicit refresh) the provider is
// queried and the result stored. Failures to read or write the cache
// degrade to a live query with a warning; configuration errors (unknown
// plugin, unusable connection) do not.
func (r *Resolver) Resolve(ctx context.Context, req Request) (Outcome, error) {
	if !req.CacheEnabled {
		records, err := req.Source.Fetch(ctx)
		if err != nil {
			return Outcome{}, err
		}
		return Outcome{Records: records, State: CacheDisabled}, nil
	}

	backend, err := r.open(req.Settings)
	if err != nil {
		return Outcome{}, err
	}

	key, err := cache.KeyFor(req.Source.Name(), req.SourcePath)
	if err != nil {
		return Outcome{}, err
	}

	if !req.Refresh {
		data, ok, err := backend.Get(key)
		switch {
		case err != nil:
			slog.Warn("cache read failed, querying provider", "key", key, "error", err)
		case ok:
			records, err := inventory.DecodeRecords(data)
			if err != nil {
				slog.Warn("cached entry not decodable, querying provider", "key", key, "error", err)
			} else {
				return Outcome{Records: records, State: CacheHit, Key: key}, nil
			}
		}
	}

	records, err := req.Source.Fetch(ctx)
	if err != nil {
		return Outcome{}, err
	}

	// A failed store is not fatal: the fresh records are already in hand.
	if data, err := inventory.EncodeRecords(records); err != nil {
		slog.Warn("encoding records for the cache failed", "key", key, "error", err)
	} else if err := backend.Set(key, data); err != nil {
		slog.Warn("cache write failed, continuing with fresh data", "key", key, "error", err)
	}

	state := CacheMiss
	if req.Refresh {
		state = CacheRefreshed
	}
	return Outcome{Records: records, State: state, Key: key}, nil
}

// ResolveAll resolves every request into one merged inventory. Records
// of each source land under its parent group; the outcomes parallel the
// requests.
func (r *Resolver) ResolveAll(ctx context.Context, reqs []Request) (*inventory.Inventory, []Outcome, error) {
	inv := inventory.New()
	outcomes := make([]Outcome, 0, len(reqs))
	for _, req := range reqs {
		out, err := r.Resolve(ctx, req)
		if err != nil {
			return nil, nil, err
		}
		if err := inv.Build(out.Records, req.parentGroup()); err != nil {
			return nil, nil, err
		}
		outcomes = append(outcomes, out)
	}
	return inv, outcomes, nil
}

// NewRequest assembles a Request from a parsed source file: the provider
// from the plugin registry, cache settings resolved over the app
// config's overrides when the source opted into caching, and the parent
// group from the file or the provider's name.
func NewRequest(src *sourcefile.SourceFile, configOverrides cache.Overrides, opts Options) (Request, error) {
	provider, err := NewSource(src, opts)
	if err != nil {
		return Request{}, err
	}

	req := Request{
		Source:       provider,
		SourcePath:   src.Path(),
		CacheEnabled: src.Cache,
		Parent:       inventory.GroupName(src.Group),
	}
	if !src.Cache {
		// Cache settings, ambient or per-source, are only consulted for
		// sources that opted in.
		return req, nil
	}

	settings, err := cache.ResolveSettings(cache.Overrides{
		Plugin:     src.CachePlugin,
		Connection: src.CacheConnection,
		Timeout:    src.CacheTimeout,
		Prefix:     src.CachePrefix,
	}, configOverrides)
	if err != nil {
		return Request{}, err
	}
	req.Settings = settings
	return req, nil
}

func (req Request) parentGroup() inventory.GroupName {
	if req.Parent != "" {
		return req.Parent
	}
	return inventory.GroupName(req.Source.Name())
}

func (r *Resolver) open(s cache.Settings) (cache.Backend, error) {
	if r.Open != nil {
		return r.Open(s)
	}
	return cache.Open(s)
}
