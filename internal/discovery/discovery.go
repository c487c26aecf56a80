// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/vagrantory/vagrantory/internal/config"
	"github.com/vagrantory/vagrantory/pkg/sourcefile"
	"github.com/vagrantory/vagrantory/pkg/types"
)

const (
	// SourceFlag indicates the file was named explicitly (the --inventory flag).
	SourceFlag Source = iota
	// SourceCurrentDir indicates the file was found in the working directory.
	SourceCurrentDir
	// SourceConfig indicates the file came from a configured sources entry.
	SourceConfig
)

var (
	// ErrInvalidSource is the sentinel error wrapped by InvalidSourceError.
	ErrInvalidSource = errors.New("invalid discovery source")
	// ErrSourceNotFound is returned when an explicitly named source file
	// does not exist.
	ErrSourceNotFound = errors.New("inventory source not found")
	// ErrUnrecognizedName is returned when an explicitly named source file
	// exists but its base name is not an accepted source file name.
	ErrUnrecognizedName = errors.New("unrecognized inventory source file name")
)

type (
	// Source represents where an inventory source file was found.
	Source int

	// DiscoveredSource represents a found inventory source file.
	DiscoveredSource struct {
		// Path is the absolute path to the source file.
		Path types.FilesystemPath
		// Source indicates where the file was found.
		Source Source
		// Name is the display name from the configured sources entry.
		// Empty for files found by probing.
		Name string
		// File is the parsed document (nil until DiscoverAndLoad runs,
		// or when parsing failed).
		File *sourcefile.SourceFile
		// Err records why the source is unusable (parse failure or
		// error-level validation findings). Usable sources have a nil Err.
		Err error
	}

	// Discovery locates inventory source files.
	Discovery struct {
		cfg      *config.Config
		baseDir  types.FilesystemPath
		explicit types.FilesystemPath

		// initDiagnostics records construction-time problems (e.g., an
		// unresolvable working directory) for the standard rendering pipeline.
		initDiagnostics []Diagnostic
	}

	// Option configures a Discovery instance.
	Option func(*Discovery)

	// InvalidSourceError is returned when a Source is not one of the
	// declared locations.
	InvalidSourceError struct {
		Value Source
	}
)

// WithBaseDir overrides the working directory used for local source
// discovery and for anchoring relative paths.
func WithBaseDir(dir types.FilesystemPath) Option {
	return func(d *Discovery) { d.baseDir = dir }
}

// WithExplicitSource names the one source file to use. When set, Discover
// skips the working directory probe and the configured sources entirely.
func WithExplicitSource(path types.FilesystemPath) Option {
	return func(d *Discovery) { d.explicit = path }
}

// New creates a Discovery instance. cfg may be nil, in which case only the
// working directory is probed. The working directory is captured once here;
// if it cannot be resolved, local discovery is skipped and a diagnostic is
// emitted instead of failing.
func New(cfg *config.Config, opts ...Option) *Discovery {
	d := &Discovery{cfg: cfg}
	for _, opt := range opts {
		opt(d)
	}

	if d.baseDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			d.initDiagnostics = append(d.initDiagnostics, NewDiagnosticWithCause(
				SeverityWarning,
				CodeWorkingDirUnavailable,
				fmt.Sprintf("failed to resolve working directory, skipping local source discovery: %v", err),
				"",
				err,
			))
		} else {
			d.baseDir = types.FilesystemPath(wd)
		}
	}

	return d
}

// String returns a human-readable source name.
func (s Source) String() string {
	switch s {
	case SourceFlag:
		return "inventory flag"
	case SourceCurrentDir:
		return "current directory"
	case SourceConfig:
		return "configured source"
	default:
		return "unknown"
	}
}

// IsValid returns whether the Source is one of the declared locations.
func (s Source) IsValid() (bool, []error) {
	switch s {
	case SourceFlag, SourceCurrentDir, SourceConfig:
		return true, nil
	default:
		return false, []error{&InvalidSourceError{Value: s}}
	}
}

// Error implements the error interface for InvalidSourceError.
func (e *InvalidSourceError) Error() string {
	return fmt.Sprintf("invalid discovery source %d", int(e.Value))
}

// Unwrap returns ErrInvalidSource for errors.Is() compatibility.
func (e *InvalidSourceError) Unwrap() error { return ErrInvalidSource }

// Discover finds inventory source files in precedence order:
//  1. The explicit path, when one was configured: it replaces discovery
//     entirely, and must exist and carry an accepted file name.
//  2. The working directory: the first accepted file name present wins.
//  3. Configured sources, in declaration order. Missing or unrecognized
//     entries are skipped with a warning diagnostic.
//
// A configured entry that resolves to an already-discovered file is dropped
// silently; the cleaned absolute path is a source's identity.
func (d *Discovery) Discover(ctx context.Context) ([]*DiscoveredSource, []Diagnostic, error) {
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("source discovery canceled: %w", ctx.Err())
	default:
	}

	// Seed with any init-time diagnostics (e.g., os.Getwd failures) so they
	// surface through the standard diagnostic rendering pipeline.
	diagnostics := make([]Diagnostic, 0, len(d.initDiagnostics))
	diagnostics = append(diagnostics, d.initDiagnostics...)

	if d.explicit != "" {
		src, err := d.resolveExplicit()
		if err != nil {
			return nil, diagnostics, err
		}
		return []*DiscoveredSource{src}, diagnostics, nil
	}

	var sources []*DiscoveredSource
	seen := make(map[string]bool)

	// 1. Working directory (highest precedence). Skipped when the working
	// directory could not be resolved at construction.
	if d.baseDir != "" {
		if local := d.discoverInDir(d.baseDir.String()); local != nil {
			sources = append(sources, local)
			seen[local.Path.String()] = true
		}
	}

	// 2. Configured sources, in declaration order.
	cfgSources, cfgDiags := d.configSources(seen)
	sources = append(sources, cfgSources...)
	diagnostics = append(diagnostics, cfgDiags...)

	return sources, diagnostics, nil
}

// DiscoverAndLoad discovers source files and parses each one. Parse failures
// do not abort the run: the affected source carries the error in Err and an
// error-severity diagnostic is emitted, so remaining sources stay usable.
func (d *Discovery) DiscoverAndLoad(ctx context.Context) ([]*DiscoveredSource, []Diagnostic, error) {
	sources, diagnostics, err := d.Discover(ctx)
	if err != nil {
		return nil, diagnostics, err
	}

	for _, src := range sources {
		select {
		case <-ctx.Done():
			return nil, diagnostics, fmt.Errorf("source discovery canceled: %w", ctx.Err())
		default:
		}

		parsed, parseErr := sourcefile.Parse(src.Path)
		if parseErr != nil {
			src.Err = parseErr
			diagnostics = append(diagnostics, NewDiagnosticWithCause(
				SeverityError,
				CodeSourceParseFailed,
				fmt.Sprintf("failed to parse inventory source %s: %v", src.Path, parseErr),
				src.Path,
				parseErr,
			))
			continue
		}
		src.File = parsed
	}

	return sources, diagnostics, nil
}

// DiscoverAndValidate discovers, parses, and semantically validates source
// files. Error-level findings mark the source unusable via Err; warning-level
// findings become warning diagnostics and leave the source usable.
func (d *Discovery) DiscoverAndValidate(ctx context.Context) ([]*DiscoveredSource, []Diagnostic, error) {
	sources, diagnostics, err := d.DiscoverAndLoad(ctx)
	if err != nil {
		return nil, diagnostics, err
	}

	for _, src := range sources {
		if src.File == nil {
			continue
		}

		findings := src.File.Validate()
		for _, finding := range findings {
			if finding.IsError() {
				diagnostics = append(diagnostics, NewDiagnosticWithPath(
					SeverityError,
					CodeSourceInvalid,
					fmt.Sprintf("invalid inventory source %s: %v", src.Path, finding),
					src.Path,
				))
			} else {
				diagnostics = append(diagnostics, NewDiagnosticWithPath(
					SeverityWarning,
					CodeSourceValidationWarning,
					fmt.Sprintf("inventory source %s: %v", src.Path, finding),
					src.Path,
				))
			}
		}
		if findings.HasErrors() {
			src.Err = findings
		}
	}

	return sources, diagnostics, nil
}

// Usable filters to the sources that parsed and validated cleanly.
func Usable(sources []*DiscoveredSource) []*DiscoveredSource {
	var usable []*DiscoveredSource
	for _, src := range sources {
		if src.Err == nil && src.File != nil {
			usable = append(usable, src)
		}
	}
	return usable
}

// resolveExplicit checks the explicitly named source file. Unlike configured
// entries, a bad explicit path is a hard error: the user asked for exactly
// this file.
func (d *Discovery) resolveExplicit() (*DiscoveredSource, error) {
	abs, err := d.absolutize(d.explicit)
	if err != nil {
		return nil, fmt.Errorf("resolve inventory path %q: %w", d.explicit, err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, abs)
	}
	if !sourcefile.VerifyName(types.FilesystemPath(abs)) {
		return nil, fmt.Errorf("%w: %s (accepted names: %s)",
			ErrUnrecognizedName, abs, strings.Join(sourcefile.AcceptedNames, ", "))
	}

	return &DiscoveredSource{Path: types.FilesystemPath(abs), Source: SourceFlag}, nil
}

// discoverInDir probes the accepted source file names in a directory and
// returns the first match.
func (d *Discovery) discoverInDir(dir string) *DiscoveredSource {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		slog.Warn("failed to resolve absolute path for discovery directory", "dir", dir, "error", err)
		return nil
	}

	for _, name := range sourcefile.AcceptedNames {
		path := filepath.Join(absDir, name)
		if _, err := os.Stat(path); err == nil {
			return &DiscoveredSource{Path: types.FilesystemPath(path), Source: SourceCurrentDir}
		}
	}

	return nil
}

// configSources processes configured sources entries and emits warnings for
// skipped entries while keeping permissive discovery behavior.
func (d *Discovery) configSources(seen map[string]bool) ([]*DiscoveredSource, []Diagnostic) {
	var sources []*DiscoveredSource
	diagnostics := make([]Diagnostic, 0)

	if d.cfg == nil {
		return sources, diagnostics
	}

	for _, entry := range d.cfg.Sources {
		abs, err := d.absolutize(entry.Path)
		if err != nil {
			diagnostics = append(diagnostics, NewDiagnosticWithCause(
				SeverityWarning,
				CodeConfigSourcePathInvalid,
				fmt.Sprintf("failed to resolve configured source path %q, skipping: %v", entry.Path, err),
				entry.Path,
				err,
			))
			continue
		}
		if seen[abs] {
			// Already discovered (e.g., the working directory file is also
			// listed in the configuration).
			continue
		}
		if _, statErr := os.Stat(abs); statErr != nil {
			diagnostics = append(diagnostics, NewDiagnosticWithCause(
				SeverityWarning,
				CodeConfigSourceMissing,
				fmt.Sprintf("configured source file does not exist, skipping: %s", abs),
				types.FilesystemPath(abs),
				statErr,
			))
			continue
		}
		if !sourcefile.VerifyName(types.FilesystemPath(abs)) {
			diagnostics = append(diagnostics, NewDiagnosticWithPath(
				SeverityWarning,
				CodeConfigSourceNameUnrecognized,
				fmt.Sprintf("configured source file name is not recognized, skipping: %s (accepted names: %s)",
					abs, strings.Join(sourcefile.AcceptedNames, ", ")),
				types.FilesystemPath(abs),
			))
			continue
		}

		seen[abs] = true
		sources = append(sources, &DiscoveredSource{
			Path:   types.FilesystemPath(abs),
			Source: SourceConfig,
			Name:   entry.Name,
		})
	}

	return sources, diagnostics
}

// absolutize expands a leading tilde and anchors a relative path against the
// working directory captured at construction.
func (d *Discovery) absolutize(p types.FilesystemPath) (string, error) {
	expanded, err := p.ExpandUser()
	if err != nil {
		return "", err
	}

	s := expanded.String()
	if !filepath.IsAbs(s) {
		if d.baseDir == "" {
			return "", errors.New("working directory unavailable to anchor relative path")
		}
		s = filepath.Join(d.baseDir.String(), s)
	}

	return filepath.Clean(s), nil
}
