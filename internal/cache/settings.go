// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"os"
	"strconv"
	"time"

	"github.com/vagrantory/vagrantory/pkg/types"
)

// Environment variables configuring the cache, read once per invocation.
const (
	// EnvPlugin selects the backend by name.
	EnvPlugin = "VAGRANTORY_CACHE_PLUGIN"
	// EnvConnection is the backend's connection string. Only backends
	// that need one consult it; memory ignores it.
	EnvConnection = "VAGRANTORY_CACHE_CONNECTION"
	// EnvTimeout is the validity window in seconds. 0 means entries
	// never expire.
	EnvTimeout = "VAGRANTORY_CACHE_TIMEOUT"
	// EnvPrefix namespaces keys inside shared stores.
	EnvPrefix = "VAGRANTORY_CACHE_PREFIX"
)

// Built-in defaults, the lowest-precedence layer.
const (
	DefaultPlugin  = "memory"
	DefaultTimeout = 3600
	DefaultPrefix  = "vagrantory_"
)

type (
	// Settings is a fully resolved cache configuration.
	Settings struct {
		// Plugin names the backend to construct.
		Plugin string
		// Connection is backend-specific; for jsonfile it is the
		// directory holding the cache files.
		Connection types.FilesystemPath
		// Timeout is the validity window in seconds; 0 = never expire.
		Timeout int
		// Prefix namespaces this tool's keys inside shared stores.
		Prefix string
	}

	// Overrides is one precedence layer of cache configuration.
	// Zero-valued fields mean "unset, fall through"; Timeout uses a
	// pointer so an explicit 0 survives.
	Overrides struct {
		Plugin     string
		Connection types.FilesystemPath
		Timeout    *int
		Prefix     string
	}
)

// TimeoutDuration returns the validity window as a time.Duration.
// Zero means entries never expire.
func (s Settings) TimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// ResolveSettings merges the configuration layers into concrete Settings.
// Precedence per field, highest first: the source file's overrides, the
// VAGRANTORY_CACHE_* environment, the app config's overrides, built-in
// defaults. The connection string has a tilde prefix expanded; timeouts
// are validated wherever they came from.
func ResolveSettings(source, config Overrides) (Settings, error) {
	s := Settings{
		Plugin:  firstNonEmpty(source.Plugin, os.Getenv(EnvPlugin), config.Plugin, DefaultPlugin),
		Prefix:  firstNonEmpty(source.Prefix, os.Getenv(EnvPrefix), config.Prefix, DefaultPrefix),
		Timeout: DefaultTimeout,
	}

	conn := source.Connection
	if conn == "" {
		conn = types.FilesystemPath(os.Getenv(EnvConnection))
	}
	if conn == "" {
		conn = config.Connection
	}
	if conn != "" {
		expanded, err := conn.ExpandUser()
		if err != nil {
			return Settings{}, err
		}
		conn = expanded
	}
	s.Connection = conn

	timeout, err := resolveTimeout(source.Timeout, config.Timeout)
	if err != nil {
		return Settings{}, err
	}
	s.Timeout = timeout

	return s, nil
}

func resolveTimeout(source, config *int) (int, error) {
	if source != nil {
		if *source < 0 {
			return 0, &InvalidTimeoutError{Value: strconv.Itoa(*source)}
		}
		return *source, nil
	}
	if raw := os.Getenv(EnvTimeout); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return 0, &InvalidTimeoutError{Value: raw}
		}
		return v, nil
	}
	if config != nil {
		if *config < 0 {
			return 0, &InvalidTimeoutError{Value: strconv.Itoa(*config)}
		}
		return *config, nil
	}
	return DefaultTimeout, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
