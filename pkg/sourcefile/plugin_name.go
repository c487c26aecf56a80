// SPDX-License-Identifier: MPL-2.0

package sourcefile

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPluginName is the sentinel error wrapped by InvalidPluginNameError.
var ErrInvalidPluginName = errors.New("invalid plugin name")

type (
	// PluginName identifies the inventory provider a source file is for
	// (e.g., "vagrant", "proxmox"). A valid name is non-empty, lowercase,
	// and free of whitespace. Whether the name is actually registered is
	// decided by the provider registry, not here.
	PluginName string

	// InvalidPluginNameError is returned when a PluginName is empty,
	// contains whitespace, or contains uppercase characters.
	InvalidPluginNameError struct {
		Value PluginName
	}
)

// String returns the string representation of the PluginName.
func (n PluginName) String() string { return string(n) }

// IsValid returns whether the PluginName is valid.
func (n PluginName) IsValid() (bool, []error) {
	s := string(n)
	if strings.TrimSpace(s) == "" {
		return false, []error{&InvalidPluginNameError{Value: n}}
	}
	if strings.ContainsAny(s, " \t\n") || s != strings.ToLower(s) {
		return false, []error{&InvalidPluginNameError{Value: n}}
	}
	return true, nil
}

// Error implements the error interface for InvalidPluginNameError.
func (e *InvalidPluginNameError) Error() string {
	return fmt.Sprintf("invalid plugin name %q: must be non-empty, lowercase, and without whitespace", e.Value)
}

// Unwrap returns ErrInvalidPluginName for errors.Is() compatibility.
func (e *InvalidPluginNameError) Unwrap() error { return ErrInvalidPluginName }
