// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/vagrantory/vagrantory/internal/issue"
	"github.com/vagrantory/vagrantory/pkg/cueutil"
	"github.com/vagrantory/vagrantory/pkg/platform"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "vagrantory"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the vagrantory configuration directory using
// platform-specific conventions: Windows uses %APPDATA%, macOS uses
// ~/Library/Application Support, and Linux/others use $XDG_CONFIG_HOME
// (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	// Allow tests to override the config directory
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string

	switch runtime.GOOS {
	case platform.Windows:
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default: // Linux and others
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}

	return filepath.Join(configDir, AppName), nil
}

// loadWithOptions performs option-driven config loading without mutating
// package-level cache state. Callers that want caching can wrap this function.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	if err := opts.Validate(); err != nil {
		return nil, "", err
	}

	v := viper.New()

	// Defaults cover the UI section and the empty sources list. Cache and
	// vagrant keys stay unset so their packages' built-in defaults remain
	// the single authority.
	defaults := DefaultConfig()
	v.SetDefault("sources", defaults.Sources)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	resolvedPath := ""

	// If a custom config file path is set via --config flag, use it exclusively.
	if opts.ConfigFilePath != "" {
		cfgPath := opts.ConfigFilePath.String()
		if !fileExists(cfgPath) {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(cfgPath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file exists and is readable").
				WithSuggestion("Use 'vagrantory config show' to see default configuration").
				Wrap(fmt.Errorf("config file not found: %s", cfgPath)).
				BuildError()
		}
		if err := loadCUEIntoViper(v, cfgPath); err != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(cfgPath).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("See 'vagrantory config --help' for configuration options").
				Wrap(err).
				BuildError()
		}
		resolvedPath = cfgPath
	} else {
		// Get config directory
		cfgDir, err := configDirWithOverride(opts.ConfigDirPath.String())
		if err != nil {
			return nil, "", err
		}

		// Try to load CUE config file
		cuePath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)
		if fileExists(cuePath) {
			if err := loadCUEIntoViper(v, cuePath); err != nil {
				return nil, "", issue.NewErrorContext().
					WithOperation("load configuration").
					WithResource(cuePath).
					WithSuggestion("Check that the file contains valid CUE syntax").
					WithSuggestion("Verify the configuration values match the expected schema").
					WithSuggestion("See 'vagrantory config --help' for configuration options").
					Wrap(err).
					BuildError()
			}
			resolvedPath = cuePath
		} else {
			// Also check the working directory (or BaseDir when set)
			localCuePath := ConfigFileName + "." + ConfigFileExt
			if opts.BaseDir != "" {
				localCuePath = filepath.Join(opts.BaseDir.String(), localCuePath)
			}
			if fileExists(localCuePath) {
				if err := loadCUEIntoViper(v, localCuePath); err != nil {
					return nil, "", issue.NewErrorContext().
						WithOperation("load configuration").
						WithResource(localCuePath).
						WithSuggestion("Check that the file contains valid CUE syntax").
						WithSuggestion("Verify the configuration values match the expected schema").
						WithSuggestion("See 'vagrantory config --help' for configuration options").
						Wrap(err).
						BuildError()
				}
				resolvedPath = localCuePath
			}
			// If no config file found, use defaults (no error)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to parse config: %w", err)
	}

	// Validate sources constraints that CUE cannot express:
	// path uniqueness and name uniqueness across entries.
	if err := validateSources(cfg.Sources); err != nil {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Ensure each sources entry has a unique path").
			WithSuggestion("Ensure each non-empty name is unique across sources entries").
			Wrap(err).
			BuildError()
	}

	return &cfg, resolvedPath, nil
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}

	return ConfigDir()
}

// loadCUEIntoViper parses a CUE file, validates it against the #Config
// schema, and merges its contents into Viper. The file decodes to a
// plain map rather than a struct so Viper keeps layering defaults and
// overrides underneath it; every schema field is optional, so
// concreteness is not required.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	result, err := cueutil.ParseAndDecodeString[map[string]any](configSchema, data, "#Config",
		cueutil.WithFilename(path), cueutil.WithConcrete(false))
	if err != nil {
		return err
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(*result.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}

	return nil
}

// validateSources checks sources entries for constraints that CUE cannot
// express:
//   - all paths must be unique (normalized via filepath.Clean)
//   - all non-empty names must be globally unique across entries
//
// Entries may share a base name (most source files are named
// vagrantory.yml); the full path is their identity.
func validateSources(sources []SourceEntry) error {
	seenNames := make(map[string]string) // name -> path of first occurrence
	seenPaths := make(map[string]int)    // cleaned path -> index of first occurrence

	for i, entry := range sources {
		// Check path uniqueness (normalized to handle trailing slashes and redundant separators)
		cleanPath := filepath.Clean(entry.Path.String())
		if firstIdx, exists := seenPaths[cleanPath]; exists {
			return fmt.Errorf("sources[%d]: duplicate path %q (same as sources[%d])", i, entry.Path, firstIdx)
		}
		seenPaths[cleanPath] = i

		// Check name uniqueness
		if entry.Name != "" {
			if existingPath, exists := seenNames[entry.Name]; exists {
				return fmt.Errorf("sources: duplicate name %q used by both %q and %q", entry.Name, existingPath, entry.Path)
			}
			seenNames[entry.Name] = entry.Path.String()
		}
	}

	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// EnsureConfigDir creates the config directory if it doesn't exist
func EnsureConfigDir() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(cfgDir, 0o755)
}

// CreateDefaultConfig creates a default config file if it doesn't exist
func CreateDefaultConfig() error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	// Check if file already exists
	if _, err := os.Stat(cfgPath); err == nil {
		return nil // File exists
	}

	defaults := DefaultConfig()
	cueContent := GenerateCUE(defaults)

	if err := os.WriteFile(cfgPath, []byte(cueContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Save writes the current configuration to file
func Save(cfg *Config) error {
	cfgDir, err := ConfigDir()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(cfgDir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	cfgPath := filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt)

	cueContent := GenerateCUE(cfg)

	if err := os.WriteFile(cfgPath, []byte(cueContent), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE generates a CUE representation of the configuration.
// Zero-valued cache and vagrant sections are omitted entirely so the
// built-in defaults stay visible as such.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// Vagrantory Configuration File\n")
	sb.WriteString("// See https://github.com/vagrantory/vagrantory for documentation.\n")

	// Ambient cache settings
	if cfg.Cache.Plugin != "" || cfg.Cache.Connection != "" || cfg.Cache.Timeout != nil || cfg.Cache.Prefix != "" {
		sb.WriteString("\ncache: {\n")
		if cfg.Cache.Plugin != "" {
			sb.WriteString(fmt.Sprintf("\tplugin: %q\n", cfg.Cache.Plugin))
		}
		if cfg.Cache.Connection != "" {
			sb.WriteString(fmt.Sprintf("\tconnection: %q\n", cfg.Cache.Connection))
		}
		if cfg.Cache.Timeout != nil {
			sb.WriteString(fmt.Sprintf("\ttimeout: %d\n", *cfg.Cache.Timeout))
		}
		if cfg.Cache.Prefix != "" {
			sb.WriteString(fmt.Sprintf("\tprefix: %q\n", cfg.Cache.Prefix))
		}
		sb.WriteString("}\n")
	}

	// Vagrant invocation settings
	if cfg.Vagrant.Binary != "" || cfg.Vagrant.CommandTimeout != 0 {
		sb.WriteString("\nvagrant: {\n")
		if cfg.Vagrant.Binary != "" {
			sb.WriteString(fmt.Sprintf("\tbinary: %q\n", cfg.Vagrant.Binary))
		}
		if cfg.Vagrant.CommandTimeout != 0 {
			sb.WriteString(fmt.Sprintf("\tcommand_timeout: %d\n", cfg.Vagrant.CommandTimeout))
		}
		sb.WriteString("}\n")
	}

	// Sources
	if len(cfg.Sources) > 0 {
		sb.WriteString("\nsources: [\n")
		for _, entry := range cfg.Sources {
			if entry.Name != "" {
				sb.WriteString(fmt.Sprintf("\t{path: %q, name: %q},\n", entry.Path, entry.Name))
			} else {
				sb.WriteString(fmt.Sprintf("\t{path: %q},\n", entry.Path))
			}
		}
		sb.WriteString("]\n")
	}

	// UI config
	sb.WriteString("\nui: {\n")
	sb.WriteString(fmt.Sprintf("\tcolor_scheme: %q\n", cfg.UI.ColorScheme))
	sb.WriteString(fmt.Sprintf("\tverbose: %v\n", cfg.UI.Verbose))
	sb.WriteString("}\n")

	return sb.String()
}
