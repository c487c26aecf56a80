// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vagrantory/vagrantory/pkg/types"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidBinaryFilePath is returned when a BinaryFilePath value is whitespace-only.
	ErrInvalidBinaryFilePath = errors.New("invalid binary file path")
	// ErrInvalidSourceEntry is the sentinel error wrapped by InvalidSourceEntryError.
	ErrInvalidSourceEntry = errors.New("invalid source entry")
	// ErrInvalidCacheConfig is the sentinel error wrapped by InvalidCacheConfigError.
	ErrInvalidCacheConfig = errors.New("invalid cache config")
	// ErrInvalidVagrantConfig is the sentinel error wrapped by InvalidVagrantConfigError.
	ErrInvalidVagrantConfig = errors.New("invalid vagrant config")
	// ErrInvalidUIConfig is the sentinel error wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	// It wraps ErrInvalidColorScheme for errors.Is() compatibility.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// BinaryFilePath represents a filesystem path to a binary executable.
	// A valid path must be non-empty and not whitespace-only.
	// The zero value ("") is valid and means "look up the default binary on PATH".
	BinaryFilePath string

	// InvalidBinaryFilePathError is returned when a BinaryFilePath value is
	// non-empty but whitespace-only.
	InvalidBinaryFilePathError struct {
		Value BinaryFilePath
	}

	// InvalidSourceEntryError is returned when a SourceEntry has invalid fields.
	// It wraps ErrInvalidSourceEntry for errors.Is() compatibility and collects
	// field-level validation errors from Path and Name.
	InvalidSourceEntryError struct {
		FieldErrors []error
	}

	// InvalidCacheConfigError is returned when a CacheConfig has invalid fields.
	// It wraps ErrInvalidCacheConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidCacheConfigError struct {
		FieldErrors []error
	}

	// InvalidVagrantConfigError is returned when a VagrantConfig has invalid fields.
	// It wraps ErrInvalidVagrantConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidVagrantConfigError struct {
		FieldErrors []error
	}

	// InvalidUIConfigError is returned when a UIConfig has invalid fields.
	// It wraps ErrInvalidUIConfig for errors.Is() compatibility and collects
	// field-level validation errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError is returned when a Config has invalid fields.
	// It wraps ErrInvalidConfig for errors.Is() compatibility and collects
	// field-level validation errors from all sub-components.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// SourceEntry names an inventory source file to merge into every
	// resolution, after the discovered ones.
	SourceEntry struct {
		// Path locates the source file. Relative paths resolve against
		// the working directory.
		Path types.FilesystemPath `json:"path" mapstructure:"path"`
		// Name optionally labels the source in logs and diagnostics.
		Name string `json:"name,omitempty" mapstructure:"name"`
	}

	// CacheConfig holds ambient cache settings. Per-source keys and the
	// VAGRANTORY_CACHE_* environment take precedence; zero-valued fields
	// fall through to the cache package's built-in defaults.
	CacheConfig struct {
		// Plugin selects the cache backend by name.
		Plugin string `json:"plugin,omitempty" mapstructure:"plugin"`
		// Connection is the backend's connection string.
		Connection types.FilesystemPath `json:"connection,omitempty" mapstructure:"connection"`
		// Timeout is the validity window in seconds. A pointer so that an
		// explicit 0 ("never expire") survives next to "unset".
		Timeout *int `json:"timeout,omitempty" mapstructure:"timeout"`
		// Prefix namespaces this tool's keys inside shared stores.
		Prefix string `json:"prefix,omitempty" mapstructure:"prefix"`
	}

	// VagrantConfig configures how the vagrant CLI is invoked.
	VagrantConfig struct {
		// Binary overrides the vagrant executable. If empty, "vagrant" is
		// looked up on PATH.
		Binary BinaryFilePath `json:"binary,omitempty" mapstructure:"binary"`
		// CommandTimeout caps a single vagrant invocation, in seconds.
		// 0 means "use the built-in cap".
		CommandTimeout int `json:"command_timeout,omitempty" mapstructure:"command_timeout"`
	}

	// UIConfig configures the user interface.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables verbose output
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}

	// Config holds the application configuration.
	Config struct {
		// Cache holds ambient cache settings.
		Cache CacheConfig `json:"cache" mapstructure:"cache"`
		// Vagrant configures vagrant CLI invocations.
		Vagrant VagrantConfig `json:"vagrant" mapstructure:"vagrant"`
		// Sources lists extra inventory source files to merge.
		Sources []SourceEntry `json:"sources" mapstructure:"sources"`
		// UI configures the user interface.
		UI UIConfig `json:"ui" mapstructure:"ui"`
	}
)

// IsValid returns whether the SourceEntry has valid fields.
// It delegates to Path.IsValid() unconditionally; Name only needs to be
// free of whitespace-only values (the zero-value name is always valid).
func (e SourceEntry) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := e.Path.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if e.Name != "" && strings.TrimSpace(e.Name) == "" {
		errs = append(errs, fmt.Errorf("source name must not be whitespace-only"))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidSourceEntryError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidSourceEntryError.
func (e *InvalidSourceEntryError) Error() string {
	return fmt.Sprintf("invalid source entry: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidSourceEntry for errors.Is() compatibility.
func (e *InvalidSourceEntryError) Unwrap() error { return ErrInvalidSourceEntry }

// IsValid returns whether the CacheConfig has valid fields.
// Zero-valued fields are valid (they mean "use the built-in default");
// a set Connection must be a usable path and a set Timeout must be >= 0.
// The plugin name is not checked here: the cache registry rejects
// unknown plugins when a backend is actually opened.
func (c CacheConfig) IsValid() (bool, []error) {
	var errs []error
	if c.Connection != "" {
		if valid, fieldErrs := c.Connection.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if c.Timeout != nil && *c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("cache timeout must be >= 0 seconds, got %d", *c.Timeout))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidCacheConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidCacheConfigError.
func (e *InvalidCacheConfigError) Error() string {
	return fmt.Sprintf("invalid cache config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidCacheConfig for errors.Is() compatibility.
func (e *InvalidCacheConfigError) Unwrap() error { return ErrInvalidCacheConfig }

// IsValid returns whether the VagrantConfig has valid fields.
// It delegates to Binary.IsValid(); CommandTimeout must not be negative
// (0 means "use the built-in cap").
func (c VagrantConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Binary.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.CommandTimeout < 0 {
		errs = append(errs, fmt.Errorf("vagrant command timeout must be positive, got %d", c.CommandTimeout))
	}
	if len(errs) > 0 {
		return false, []error{&InvalidVagrantConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidVagrantConfigError.
func (e *InvalidVagrantConfigError) Error() string {
	return fmt.Sprintf("invalid vagrant config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidVagrantConfig for errors.Is() compatibility.
func (e *InvalidVagrantConfigError) Unwrap() error { return ErrInvalidVagrantConfig }

// IsValid returns whether the UIConfig has valid fields.
// It delegates to ColorScheme.IsValid(); bool fields need no validation.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidUIConfigError.
func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidUIConfig for errors.Is() compatibility.
func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid returns whether the Config has valid fields.
// It delegates to Cache.IsValid(), Vagrant.IsValid(), each Sources
// entry's IsValid(), and UI.IsValid().
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Cache.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Vagrant.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	for _, entry := range c.Sources {
		if valid, fieldErrs := entry.IsValid(); !valid {
			errs = append(errs, fieldErrs...)
		}
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface for InvalidConfigError.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %d field error(s)", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// String returns the string representation of the BinaryFilePath.
func (p BinaryFilePath) String() string { return string(p) }

// IsValid returns whether the BinaryFilePath is valid.
// The zero value ("") is valid (means "look up the default binary on PATH").
// Non-zero values must not be whitespace-only.
func (p BinaryFilePath) IsValid() (bool, []error) {
	if p == "" {
		return true, nil
	}
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidBinaryFilePathError{Value: p}}
	}
	return true, nil
}

// Error implements the error interface for InvalidBinaryFilePathError.
func (e *InvalidBinaryFilePathError) Error() string {
	return fmt.Sprintf("invalid binary file path %q: non-empty value must not be whitespace-only", e.Value)
}

// Unwrap returns ErrInvalidBinaryFilePath for errors.Is() compatibility.
func (e *InvalidBinaryFilePathError) Unwrap() error { return ErrInvalidBinaryFilePath }

// Error implements the error interface for InvalidColorSchemeError.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns the sentinel error for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error {
	return ErrInvalidColorScheme
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined color schemes,
// and a list of validation errors if it is not.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// DefaultConfig returns the default configuration. Cache and Vagrant
// stay zero-valued: their packages carry the built-in defaults, so the
// config file contributes only values the user actually set.
func DefaultConfig() *Config {
	return &Config{
		Cache:   CacheConfig{},
		Vagrant: VagrantConfig{},
		Sources: []SourceEntry{},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
			Verbose:     false,
		},
	}
}
