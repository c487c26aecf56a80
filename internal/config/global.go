// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"

	"github.com/vagrantory/vagrantory/pkg/types"
)

var (
	// globalConfig caches the loaded configuration for the process.
	globalConfig *Config
	// configPath records where globalConfig was loaded from; empty when
	// defaults are in effect.
	configPath string
	// configFilePathOverride forces loading from a specific file (--config).
	configFilePathOverride string
	// configDirOverride allows tests to override the config directory.
	// This is necessary because os.UserHomeDir() doesn't reliably respect
	// the HOME environment variable on all platforms (e.g., macOS in CI).
	configDirOverride string
	// errLastLoad stores the most recent load failure so callers that
	// fell back to defaults can still surface it.
	errLastLoad error
)

// Get returns the global config, loading it on first use. On load
// failure it returns defaults and stores the error for LastLoadError,
// so callers on the happy path never deal with a nil config.
func Get() *Config {
	cfg, err := Load()
	if err != nil {
		errLastLoad = err
		return DefaultConfig()
	}
	errLastLoad = nil
	return cfg
}

// LastLoadError returns the error from the most recent failed load, or
// nil when the last load succeeded.
func LastLoadError() error { return errLastLoad }

// Load returns the cached global config, reading it from disk on first
// use. Later calls return the cached value until ResetCache or
// SetConfigFilePathOverride invalidates it.
func Load() (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	cfg, path, err := loadWithOptions(context.Background(), LoadOptions{
		ConfigFilePath: types.FilesystemPath(configFilePathOverride),
		ConfigDirPath:  types.FilesystemPath(configDirOverride),
	})
	if err != nil {
		return nil, err
	}

	globalConfig = cfg
	configPath = path
	return cfg, nil
}

// ConfigFilePath returns the path of the loaded config file, or the
// empty string when defaults are in effect.
func ConfigFilePath() string { return configPath }

// SetConfigFilePathOverride forces subsequent loads to read the given
// file exclusively and clears the cached config.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
	ResetCache()
}

// SetConfigDirOverride sets a custom config directory path.
// This is primarily intended for testing to bypass os.UserHomeDir() which
// doesn't reliably respect the HOME env var on all platforms (e.g., macOS in CI).
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// Reset clears the cached config, the stored load error, and all
// overrides. Call from test cleanup to restore defaults.
func Reset() {
	globalConfig = nil
	configPath = ""
	configFilePathOverride = ""
	configDirOverride = ""
	errLastLoad = nil
}

// ResetCache clears the cached config so the next Load rereads the
// file, preserving overrides.
func ResetCache() {
	globalConfig = nil
	configPath = ""
}
