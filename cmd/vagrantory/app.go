// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/vagrantory/vagrantory/internal/app/resolve"
	"github.com/vagrantory/vagrantory/internal/config"
	"github.com/vagrantory/vagrantory/internal/discovery"
	"github.com/vagrantory/vagrantory/internal/inventory"
	"github.com/vagrantory/vagrantory/pkg/types"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root
	// for the CLI layer — all Cobra command handlers receive an App reference and
	// delegate business logic through its service interfaces (Config, Sources,
	// Resolver).
	App struct {
		Config      ConfigProvider
		Sources     SourceService
		Resolver    InventoryResolver
		Diagnostics DiagnosticRenderer
		stdout      io.Writer
		stderr      io.Writer
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp. Tests can supply mock
	// implementations to isolate specific service behavior.
	Dependencies struct {
		Config      ConfigProvider
		Sources     SourceService
		Resolver    InventoryResolver
		Diagnostics DiagnosticRenderer
		Stdout      io.Writer
		Stderr      io.Writer
	}

	// SourceService locates inventory source files and validates their
	// contents. The explicit path, when set, replaces discovery entirely.
	SourceService interface {
		DiscoverAndValidate(ctx context.Context, cfg *config.Config, explicit types.FilesystemPath) ([]*discovery.DiscoveredSource, []discovery.Diagnostic, error)
	}

	// InventoryResolver turns resolution requests into one merged inventory,
	// consulting each request's cache backend along the way.
	InventoryResolver interface {
		ResolveAll(ctx context.Context, reqs []resolve.Request) (*inventory.Inventory, []resolve.Outcome, error)
	}

	// DiagnosticRenderer renders structured diagnostics.
	DiagnosticRenderer interface {
		Render(ctx context.Context, diags []discovery.Diagnostic, stderr io.Writer)
	}

	// ConfigProvider loads configuration using explicit options.
	// This abstraction enables testing with custom config sources or mock
	// implementations.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// appSourceService implements SourceService with the discovery package.
	appSourceService struct{}

	defaultDiagnosticRenderer struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Sources == nil {
		deps.Sources = appSourceService{}
	}
	if deps.Resolver == nil {
		deps.Resolver = &resolve.Resolver{}
	}
	if deps.Diagnostics == nil {
		deps.Diagnostics = &defaultDiagnosticRenderer{}
	}

	return &App{
		Config:      deps.Config,
		Sources:     deps.Sources,
		Resolver:    deps.Resolver,
		Diagnostics: deps.Diagnostics,
		stdout:      deps.Stdout,
		stderr:      deps.Stderr,
	}, nil
}

// fail renders ServiceError guidance to stderr and passes the error on for
// the command runner to report. Other errors pass through untouched.
func (app *App) fail(err error) error {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		renderServiceError(app.stderr, svcErr)
	}
	return err
}

// DiscoverAndValidate locates source files and parses and validates each one.
func (appSourceService) DiscoverAndValidate(ctx context.Context, cfg *config.Config, explicit types.FilesystemPath) ([]*discovery.DiscoveredSource, []discovery.Diagnostic, error) {
	var opts []discovery.Option
	if explicit != "" {
		opts = append(opts, discovery.WithExplicitSource(explicit))
	}
	return discovery.New(cfg, opts...).DiscoverAndValidate(ctx)
}

// loadConfigWithFallback loads configuration via the provider. On failure it
// returns defaults with a diagnostic so callers stay operational.
//
// Diagnostic severity depends on the failure mode:
//   - Explicit --config path: always SeverityError (user-specified file must work).
//   - Default path with existing but malformed file: SeverityError (syntax errors
//     in a file the user created should not be silently downgraded to a warning).
//   - Default path with missing config dir or similar infrastructure error:
//     SeverityWarning (common on fresh installs, defaults are appropriate).
func loadConfigWithFallback(ctx context.Context, provider ConfigProvider, configPath types.FilesystemPath) (*config.Config, []discovery.Diagnostic) {
	cfg, err := provider.Load(ctx, config.LoadOptions{ConfigFilePath: configPath})
	if err == nil {
		return cfg, nil
	}

	// When the user explicitly specified a config path, do not silently fall back
	// to defaults — surface the error as a diagnostic so downstream callers can
	// decide whether to abort.
	if configPath != "" {
		return config.DefaultConfig(), []discovery.Diagnostic{{
			Severity: discovery.SeverityError,
			Code:     discovery.CodeConfigLoadFailed,
			Message:  fmt.Sprintf("failed to load config from %s: %v", configPath, err),
			Path:     configPath,
			Cause:    err,
		}}
	}

	// Default config path: differentiate "file exists but is broken" (syntax error,
	// schema violation) from "cannot determine config dir" (missing HOME, etc.).
	// The config loader only returns errors for existing files; missing files silently
	// return defaults. So if we got an error here, a config file likely exists but
	// is malformed — use SeverityError to surface it clearly.
	severity := discovery.SeverityError
	if errors.Is(err, os.ErrNotExist) {
		severity = discovery.SeverityWarning
	}

	return config.DefaultConfig(), []discovery.Diagnostic{{
		Severity: severity,
		Code:     discovery.CodeConfigLoadFailed,
		Message:  fmt.Sprintf("failed to load config, using defaults: %v", err),
		Cause:    err,
	}}
}

// Render writes structured diagnostics to stderr with lipgloss styling.
func (r *defaultDiagnosticRenderer) Render(_ context.Context, diags []discovery.Diagnostic, stderr io.Writer) {
	for _, diag := range diags {
		prefix := WarningStyle.Render("warning")
		if diag.Severity == discovery.SeverityError {
			prefix = ErrorStyle.Render("error")
		}

		if diag.Path != "" {
			_, _ = fmt.Fprintf(stderr, "%s: %s (%s)\n", prefix, diag.Message, diag.Path)
			continue
		}

		_, _ = fmt.Fprintf(stderr, "%s: %s\n", prefix, diag.Message)
	}
}
