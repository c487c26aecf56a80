// SPDX-License-Identifier: MPL-2.0

package resolve

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/vagrantory/vagrantory/internal/inventory"
	"github.com/vagrantory/vagrantory/internal/proxmox"
	"github.com/vagrantory/vagrantory/internal/vagrant"
	"github.com/vagrantory/vagrantory/pkg/sourcefile"
)

// ErrUnknownProvider is the sentinel error wrapped by UnknownProviderError.
var ErrUnknownProvider = errors.New("unknown provider")

type (
	// Options carries app-config knobs provider factories may need.
	Options struct {
		// VagrantBinary overrides the vagrant executable.
		VagrantBinary string
		// VagrantTimeout caps a single vagrant invocation.
		VagrantTimeout time.Duration
	}

	// SourceFactory builds a provider from a parsed source file.
	SourceFactory func(src *sourcefile.SourceFile, opts Options) (inventory.Source, error)

	// ProviderRegistry maps plugin tokens to provider factories.
	ProviderRegistry struct {
		mu        sync.RWMutex
		factories map[string]SourceFactory
	}

	// UnknownProviderError is returned when a source file selects a
	// plugin token with no registered provider.
	UnknownProviderError struct {
		Name       sourcefile.PluginName
		Registered []string
	}
)

// NewProviderRegistry creates an empty ProviderRegistry. Most callers
// want the package's default registry, which has the built-in providers
// registered.
func NewProviderRegistry() *ProviderRegistry {
	return &ProviderRegistry{factories: make(map[string]SourceFactory)}
}

// Register adds a factory under the plugin token, replacing any previous
// registration.
func (r *ProviderRegistry) Register(name string, f SourceFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = f
}

// Names returns the registered plugin tokens, sorted.
func (r *ProviderRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the provider the source file's plugin token selects. An
// unregistered token is a configuration error, never a silent fallback.
func (r *ProviderRegistry) New(src *sourcefile.SourceFile, opts Options) (inventory.Source, error) {
	r.mu.RLock()
	factory, ok := r.factories[src.Plugin.String()]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnknownProviderError{Name: src.Plugin, Registered: r.Names()}
	}
	return factory(src, opts)
}

var defaultProviders = NewProviderRegistry()

func init() {
	defaultProviders.Register(vagrant.PluginName, newVagrantSource)
	defaultProviders.Register(proxmox.PluginName, newProxmoxSource)
}

// NewSource builds a provider from the default registry.
func NewSource(src *sourcefile.SourceFile, opts Options) (inventory.Source, error) {
	return defaultProviders.New(src, opts)
}

// ProviderNames returns the plugin tokens of the default registry.
func ProviderNames() []string { return defaultProviders.Names() }

// newVagrantSource adapts a source file's path entries into a vagrant
// provider. Relative project paths are anchored to the source file.
func newVagrantSource(src *sourcefile.SourceFile, opts Options) (inventory.Source, error) {
	specs := make([]vagrant.PathSpec, 0, len(src.Paths))
	for _, entry := range src.Paths {
		if entry.Path == "" {
			// Validation already warned; keep the entry out of the run.
			continue
		}
		dir, err := src.ResolvePath(entry.Path)
		if err != nil {
			slog.Warn("project path not resolvable, skipped", "path", entry.Path, "error", err)
			continue
		}
		specs = append(specs, vagrant.PathSpec{
			Dir:   dir.String(),
			Group: entry.Group,
			Vars:  entry.Vars,
		})
	}

	runner := &vagrant.ExecRunner{
		Binary:  opts.VagrantBinary,
		Timeout: opts.VagrantTimeout,
	}
	return vagrant.NewProvider(runner, specs, src.HostOnlyIPs), nil
}

// newProxmoxSource adapts a source file's endpoint block into a proxmox
// provider.
func newProxmoxSource(src *sourcefile.SourceFile, _ Options) (inventory.Source, error) {
	tokenFile := src.TokenFile
	if tokenFile != "" {
		resolved, err := src.ResolvePath(tokenFile)
		if err != nil {
			return nil, fmt.Errorf("resolving token file: %w", err)
		}
		tokenFile = resolved
	}

	token, err := proxmox.ResolveToken(src.Token, tokenFile.String())
	if err != nil {
		return nil, err
	}
	client := proxmox.NewClient(src.URL, token, src.Insecure)
	return proxmox.NewProvider(client, src.Node), nil
}

// Error implements the error interface for UnknownProviderError.
func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown provider %q (registered: %s)",
		e.Name, strings.Join(e.Registered, ", "))
}

// Unwrap returns ErrUnknownProvider for errors.Is() compatibility.
func (e *UnknownProviderError) Unwrap() error { return ErrUnknownProvider }
