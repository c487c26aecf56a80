// SPDX-License-Identifier: MPL-2.0

package sourcefile

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

const (
	// SeverityError indicates a validation failure that prevents resolving the source.
	SeverityError ValidationSeverity = iota
	// SeverityWarning indicates a potential issue that doesn't prevent resolving.
	SeverityWarning
)

type (
	// ValidationSeverity indicates the severity level of a validation error.
	ValidationSeverity int

	// ValidationError represents a single validation issue found in a source file.
	ValidationError struct {
		// Field is the field path where the error occurred (e.g., "paths[1].path").
		Field string
		// Message is the human-readable error message.
		Message string
		// Severity indicates whether this is an error or warning.
		Severity ValidationSeverity
	}

	// ValidationErrors is a collection of validation errors that implements the
	// error interface, so a single validation pass can report every issue at once.
	ValidationErrors []ValidationError
)

// String returns a human-readable representation of the severity level.
func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Error implements the error interface for ValidationError.
func (e ValidationError) Error() string {
	if e.Field != "" {
		return e.Field + ": " + e.Message
	}
	return e.Message
}

// IsError returns true if this is an error-level validation issue.
func (e ValidationError) IsError() bool { return e.Severity == SeverityError }

// IsWarning returns true if this is a warning-level validation issue.
func (e ValidationError) IsWarning() bool { return e.Severity == SeverityWarning }

// Error implements the error interface by joining all issue messages.
func (errs ValidationErrors) Error() string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Error()
	}

	var b strings.Builder
	b.WriteString("validation failed with ")
	errorCount := errs.ErrorCount()
	warningCount := errs.WarningCount()

	if errorCount > 0 {
		if errorCount == 1 {
			b.WriteString("1 error")
		} else {
			b.WriteString(strconv.Itoa(errorCount))
			b.WriteString(" errors")
		}
	}
	if warningCount > 0 {
		if errorCount > 0 {
			b.WriteString(" and ")
		}
		if warningCount == 1 {
			b.WriteString("1 warning")
		} else {
			b.WriteString(strconv.Itoa(warningCount))
			b.WriteString(" warnings")
		}
	}
	b.WriteString(":\n")

	for i, err := range errs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("  - ")
		b.WriteString(err.Error())
	}

	return b.String()
}

// HasErrors returns true if there are any error-level validation issues.
func (errs ValidationErrors) HasErrors() bool {
	for _, e := range errs {
		if e.IsError() {
			return true
		}
	}
	return false
}

// Warnings returns only the warning-level validation issues.
func (errs ValidationErrors) Warnings() ValidationErrors {
	var result ValidationErrors
	for _, e := range errs {
		if e.IsWarning() {
			result = append(result, e)
		}
	}
	return result
}

// ErrorCount returns the number of error-level validation issues.
func (errs ValidationErrors) ErrorCount() int {
	count := 0
	for _, e := range errs {
		if e.IsError() {
			count++
		}
	}
	return count
}

// WarningCount returns the number of warning-level validation issues.
func (errs ValidationErrors) WarningCount() int {
	count := 0
	for _, e := range errs {
		if e.IsWarning() {
			count++
		}
	}
	return count
}

// Validate checks the source file's semantics and collects ALL issues found
// rather than stopping at the first, so users can fix everything in one pass.
// A nil result means the document is clean.
func (s *SourceFile) Validate() ValidationErrors {
	var errs ValidationErrors

	if ok, fieldErrs := s.Plugin.IsValid(); !ok {
		for _, fe := range fieldErrs {
			errs = append(errs, ValidationError{
				Field:    "plugin",
				Message:  fe.Error(),
				Severity: SeverityError,
			})
		}
	}

	if s.CacheTimeout != nil && *s.CacheTimeout < 0 {
		errs = append(errs, ValidationError{
			Field:    "cache_timeout",
			Message:  fmt.Sprintf("must be >= 0 seconds (0 disables expiry), got %d", *s.CacheTimeout),
			Severity: SeverityError,
		})
	}

	if !s.Cache && s.hasCacheOverrides() {
		errs = append(errs, ValidationError{
			Field:    "cache",
			Message:  "cache_* settings are present but caching is disabled; set 'cache: true' to use them",
			Severity: SeverityWarning,
		})
	}

	switch s.Plugin {
	case "vagrant":
		errs = append(errs, s.validateVagrant()...)
	case "proxmox":
		errs = append(errs, s.validateProxmox()...)
	}

	return errs
}

func (s *SourceFile) hasCacheOverrides() bool {
	return s.CachePlugin != "" || s.CacheConnection != "" || s.CacheTimeout != nil || s.CachePrefix != ""
}

func (s *SourceFile) validateVagrant() ValidationErrors {
	var errs ValidationErrors

	if len(s.Paths) == 0 {
		errs = append(errs, ValidationError{
			Field:    "paths",
			Message:  "the vagrant plugin needs at least one project folder",
			Severity: SeverityError,
		})
	}
	for i, entry := range s.Paths {
		if strings.TrimSpace(entry.Path.String()) == "" {
			// The original plugin warned about and skipped pathless
			// entries at query time; surface it at parse time instead.
			errs = append(errs, ValidationError{
				Field:    fmt.Sprintf("paths[%d].path", i),
				Message:  "entry has no path and will be skipped",
				Severity: SeverityWarning,
			})
		}
	}
	if s.URL != "" {
		errs = append(errs, ValidationError{
			Field:    "url",
			Message:  "ignored by the vagrant plugin",
			Severity: SeverityWarning,
		})
	}

	return errs
}

func (s *SourceFile) validateProxmox() ValidationErrors {
	var errs ValidationErrors

	if s.URL == "" {
		errs = append(errs, ValidationError{
			Field:    "url",
			Message:  "the proxmox plugin needs the API endpoint, e.g. https://pve.lab:8006",
			Severity: SeverityError,
		})
	} else if u, err := url.Parse(s.URL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, ValidationError{
			Field:    "url",
			Message:  fmt.Sprintf("%q is not an http(s) URL", s.URL),
			Severity: SeverityError,
		})
	}

	if s.Token == "" && s.TokenFile == "" {
		errs = append(errs, ValidationError{
			Field:    "token",
			Message:  "no token or token_file configured; the PROXMOX_TOKEN environment variable will be required",
			Severity: SeverityWarning,
		})
	}

	if len(s.Paths) > 0 {
		errs = append(errs, ValidationError{
			Field:    "paths",
			Message:  "ignored by the proxmox plugin",
			Severity: SeverityWarning,
		})
	}

	return errs
}
