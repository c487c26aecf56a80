// SPDX-License-Identifier: MPL-2.0

package discovery

import (
	"errors"
	"fmt"

	"github.com/vagrantory/vagrantory/pkg/types"
)

const (
	// SeverityWarning indicates a recoverable discovery warning.
	SeverityWarning Severity = "warning"
	// SeverityError indicates a non-fatal discovery error diagnostic.
	SeverityError Severity = "error"
)

// Diagnostic codes emitted during source discovery. Codes are stable
// machine-readable identifiers; messages may change freely.
const (
	// CodeWorkingDirUnavailable is emitted when the working directory cannot
	// be resolved and local source discovery is skipped.
	CodeWorkingDirUnavailable DiagnosticCode = "working_dir_unavailable"
	// CodeConfigSourcePathInvalid is emitted when a configured source path
	// cannot be resolved to an absolute path.
	CodeConfigSourcePathInvalid DiagnosticCode = "config_source_path_invalid"
	// CodeConfigSourceMissing is emitted when a configured source file does
	// not exist.
	CodeConfigSourceMissing DiagnosticCode = "config_source_missing"
	// CodeConfigSourceNameUnrecognized is emitted when a configured source
	// file exists but its base name is not an accepted source file name.
	CodeConfigSourceNameUnrecognized DiagnosticCode = "config_source_name_unrecognized"
	// CodeSourceParseFailed is emitted when a discovered source file cannot
	// be parsed.
	CodeSourceParseFailed DiagnosticCode = "source_parse_failed"
	// CodeSourceInvalid is emitted when a discovered source file parses but
	// fails semantic validation.
	CodeSourceInvalid DiagnosticCode = "source_invalid"
	// CodeSourceValidationWarning is emitted for non-fatal validation
	// findings in a discovered source file.
	CodeSourceValidationWarning DiagnosticCode = "source_validation_warning"
	// CodeConfigLoadFailed is emitted by callers when the app configuration
	// cannot be loaded and discovery proceeds on defaults.
	CodeConfigLoadFailed DiagnosticCode = "config_load_failed"
)

var (
	// ErrInvalidSeverity is the sentinel error wrapped by InvalidSeverityError.
	ErrInvalidSeverity = errors.New("invalid diagnostic severity")
	// ErrInvalidDiagnosticCode is the sentinel error wrapped by InvalidDiagnosticCodeError.
	ErrInvalidDiagnosticCode = errors.New("invalid diagnostic code")

	// knownCodes is the closed set of codes this package emits.
	knownCodes = map[DiagnosticCode]struct{}{
		CodeWorkingDirUnavailable:        {},
		CodeConfigSourcePathInvalid:      {},
		CodeConfigSourceMissing:          {},
		CodeConfigSourceNameUnrecognized: {},
		CodeSourceParseFailed:            {},
		CodeSourceInvalid:                {},
		CodeSourceValidationWarning:      {},
		CodeConfigLoadFailed:             {},
	}
)

type (
	// Severity represents discovery diagnostic severity.
	Severity string

	// DiagnosticCode is a stable machine-readable diagnostic identifier
	// (e.g., "config_source_missing").
	DiagnosticCode string

	// Diagnostic represents a structured discovery diagnostic that is returned
	// to callers (rather than written to stderr) for consistent rendering policy.
	Diagnostic struct {
		// Severity is the diagnostic level (warning or error).
		Severity Severity
		// Code identifies the diagnostic kind.
		Code DiagnosticCode
		// Message is the human-readable description.
		Message string
		// Path is the file path associated with this diagnostic (optional).
		Path types.FilesystemPath
		// Cause is the underlying error (optional, for programmatic inspection).
		Cause error
	}

	// InvalidSeverityError is returned when a Severity is not one of the
	// declared levels.
	InvalidSeverityError struct {
		Value Severity
	}

	// InvalidDiagnosticCodeError is returned when a DiagnosticCode is not
	// one this package emits.
	InvalidDiagnosticCodeError struct {
		Value DiagnosticCode
	}
)

// NewDiagnostic builds a diagnostic without an associated file path.
func NewDiagnostic(severity Severity, code DiagnosticCode, message string) Diagnostic {
	return Diagnostic{Severity: severity, Code: code, Message: message}
}

// NewDiagnosticWithPath builds a diagnostic tied to a file path.
func NewDiagnosticWithPath(severity Severity, code DiagnosticCode, message string, path types.FilesystemPath) Diagnostic {
	return Diagnostic{Severity: severity, Code: code, Message: message, Path: path}
}

// NewDiagnosticWithCause builds a diagnostic carrying the underlying error
// for programmatic inspection.
func NewDiagnosticWithCause(severity Severity, code DiagnosticCode, message string, path types.FilesystemPath, cause error) Diagnostic {
	return Diagnostic{Severity: severity, Code: code, Message: message, Path: path, Cause: cause}
}

// String returns the string representation of the Severity.
func (s Severity) String() string { return string(s) }

// IsValid returns whether the Severity is one of the declared levels.
func (s Severity) IsValid() (bool, []error) {
	switch s {
	case SeverityWarning, SeverityError:
		return true, nil
	default:
		return false, []error{&InvalidSeverityError{Value: s}}
	}
}

// Error implements the error interface for InvalidSeverityError.
func (e *InvalidSeverityError) Error() string {
	return fmt.Sprintf("invalid diagnostic severity %q (valid: %s, %s)", e.Value, SeverityWarning, SeverityError)
}

// Unwrap returns ErrInvalidSeverity for errors.Is() compatibility.
func (e *InvalidSeverityError) Unwrap() error { return ErrInvalidSeverity }

// String returns the string representation of the DiagnosticCode.
func (c DiagnosticCode) String() string { return string(c) }

// IsValid returns whether the DiagnosticCode is one this package emits.
func (c DiagnosticCode) IsValid() (bool, []error) {
	if _, ok := knownCodes[c]; !ok {
		return false, []error{&InvalidDiagnosticCodeError{Value: c}}
	}
	return true, nil
}

// Error implements the error interface for InvalidDiagnosticCodeError.
func (e *InvalidDiagnosticCodeError) Error() string {
	return fmt.Sprintf("unknown diagnostic code %q", e.Value)
}

// Unwrap returns ErrInvalidDiagnosticCode for errors.Is() compatibility.
func (e *InvalidDiagnosticCodeError) Unwrap() error { return ErrInvalidDiagnosticCode }
