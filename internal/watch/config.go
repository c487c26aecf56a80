// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/vagrantory/vagrantory/pkg/types"
)

var (
	// ErrInvalidGlobPattern is the sentinel error wrapped by InvalidGlobPatternError.
	ErrInvalidGlobPattern = errors.New("invalid glob pattern")
	// ErrInvalidWatchConfig is the sentinel error wrapped by InvalidWatchConfigError.
	ErrInvalidWatchConfig = errors.New("invalid watch configuration")
)

type (
	// GlobPattern is a doublestar-compatible glob pattern (e.g., "*.yml").
	// A valid pattern is non-empty and syntactically well-formed.
	GlobPattern string

	// Config holds the parameters for a Watcher.
	Config struct {
		// Files are the exact files whose changes trigger callbacks.
		// Relative entries are anchored at BaseDir. The files do not have
		// to exist yet: their parent directories are watched, so a file
		// that appears later is picked up.
		Files []types.FilesystemPath

		// Patterns are glob patterns matched against event paths relative
		// to BaseDir (e.g., "vagrantory.yml" catches a source file created
		// after the watcher started). With no patterns configured, only
		// the explicit file set triggers callbacks.
		Patterns []GlobPattern

		// Ignore are additional glob patterns for paths that should never
		// trigger callbacks. These are merged with the built-in default
		// ignores.
		Ignore []GlobPattern

		// Debounce is the quiet period after the last event before the callback
		// fires. Zero or negative values fall back to defaultDebounce.
		Debounce time.Duration

		// ClearScreen controls whether the terminal is cleared before each
		// callback invocation by writing ANSI escape sequences to Stdout.
		// No terminal detection is performed; callers should ensure Stdout
		// is a real terminal when enabling this option.
		ClearScreen bool

		// BaseDir anchors relative file entries and pattern matching. An
		// empty value defaults to the current working directory.
		BaseDir types.FilesystemPath

		// OnChange is called after the debounce window closes with the
		// deduplicated list of changed file paths (relative to BaseDir). A nil
		// callback is a no-op.
		OnChange func(ctx context.Context, changed []string) error

		// Stdout and Stderr are the output writers for informational and error
		// messages respectively. nil values default to os.Stdout / os.Stderr.
		Stdout io.Writer
		Stderr io.Writer
	}

	// InvalidGlobPatternError is returned when a GlobPattern is empty or
	// syntactically malformed.
	InvalidGlobPatternError struct {
		Value GlobPattern
		Cause error
	}

	// InvalidWatchConfigError aggregates all field errors found while
	// validating a Config.
	InvalidWatchConfigError struct {
		FieldErrors []error
	}
)

// String returns the string representation of the GlobPattern.
func (p GlobPattern) String() string { return string(p) }

// IsValid returns whether the GlobPattern is valid.
func (p GlobPattern) IsValid() (bool, []error) {
	if strings.TrimSpace(string(p)) == "" {
		return false, []error{&InvalidGlobPatternError{Value: p}}
	}
	if _, err := doublestar.Match(string(p), ""); err != nil {
		return false, []error{&InvalidGlobPatternError{Value: p, Cause: err}}
	}
	return true, nil
}

// Error implements the error interface for InvalidGlobPatternError.
func (e *InvalidGlobPatternError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid glob pattern %q: %v", e.Value, e.Cause)
	}
	return fmt.Sprintf("invalid glob pattern %q: must be non-empty", e.Value)
}

// Unwrap returns ErrInvalidGlobPattern for errors.Is() compatibility.
func (e *InvalidGlobPatternError) Unwrap() error { return ErrInvalidGlobPattern }

// Validate checks every configured file path and pattern, collecting all
// field errors. An empty BaseDir is valid (the working directory is used).
func (c Config) Validate() error {
	var fieldErrors []error

	for _, f := range c.Files {
		if ok, errs := f.IsValid(); !ok {
			fieldErrors = append(fieldErrors, errs...)
		}
	}
	for _, p := range c.Patterns {
		if ok, errs := p.IsValid(); !ok {
			fieldErrors = append(fieldErrors, errs...)
		}
	}
	for _, p := range c.Ignore {
		if ok, errs := p.IsValid(); !ok {
			fieldErrors = append(fieldErrors, errs...)
		}
	}
	if c.BaseDir != "" {
		if ok, errs := c.BaseDir.IsValid(); !ok {
			fieldErrors = append(fieldErrors, errs...)
		}
	}

	if len(fieldErrors) > 0 {
		return &InvalidWatchConfigError{FieldErrors: fieldErrors}
	}
	return nil
}

// Error implements the error interface for InvalidWatchConfigError.
func (e *InvalidWatchConfigError) Error() string {
	if len(e.FieldErrors) == 1 {
		return fmt.Sprintf("invalid watch configuration: %v", e.FieldErrors[0])
	}
	return fmt.Sprintf("invalid watch configuration: %d field errors", len(e.FieldErrors))
}

// Unwrap returns ErrInvalidWatchConfig for errors.Is() compatibility.
func (e *InvalidWatchConfigError) Unwrap() error { return ErrInvalidWatchConfig }
