// SPDX-License-Identifier: MPL-2.0

package inventory

import (
	"errors"
	"fmt"
	"strings"
)

// Group names every inventory starts with.
const (
	GroupAll       GroupName = "all"
	GroupUngrouped GroupName = "ungrouped"
	GroupLocal     GroupName = "local"
)

var (
	// ErrInvalidHostName is the sentinel error wrapped by InvalidHostNameError.
	ErrInvalidHostName = errors.New("invalid host name")

	// ErrInvalidGroupName is the sentinel error wrapped by InvalidGroupNameError.
	ErrInvalidGroupName = errors.New("invalid group name")
)

type (
	// HostName identifies a host in the inventory: a VM name, an IP, or
	// a DNS name. Must be non-empty and free of whitespace.
	HostName string

	// GroupName identifies an inventory group. Must be non-empty and
	// free of whitespace.
	GroupName string

	// InvalidHostNameError is returned for empty or whitespace host names.
	InvalidHostNameError struct {
		Value HostName
	}

	// InvalidGroupNameError is returned for empty or whitespace group names.
	InvalidGroupNameError struct {
		Value GroupName
	}
)

// String returns the string representation of the HostName.
func (h HostName) String() string { return string(h) }

// IsValid returns whether the HostName is valid.
func (h HostName) IsValid() (bool, []error) {
	s := string(h)
	if strings.TrimSpace(s) == "" || strings.ContainsAny(s, " \t\n") {
		return false, []error{&InvalidHostNameError{Value: h}}
	}
	return true, nil
}

// String returns the string representation of the GroupName.
func (g GroupName) String() string { return string(g) }

// IsValid returns whether the GroupName is valid.
func (g GroupName) IsValid() (bool, []error) {
	s := string(g)
	if strings.TrimSpace(s) == "" || strings.ContainsAny(s, " \t\n") {
		return false, []error{&InvalidGroupNameError{Value: g}}
	}
	return true, nil
}

// Error implements the error interface for InvalidHostNameError.
func (e *InvalidHostNameError) Error() string {
	return fmt.Sprintf("invalid host name %q: must be non-empty and without whitespace", e.Value)
}

// Unwrap returns ErrInvalidHostName for errors.Is() compatibility.
func (e *InvalidHostNameError) Unwrap() error { return ErrInvalidHostName }

// Error implements the error interface for InvalidGroupNameError.
func (e *InvalidGroupNameError) Error() string {
	return fmt.Sprintf("invalid group name %q: must be non-empty and without whitespace", e.Value)
}

// Unwrap returns ErrInvalidGroupName for errors.Is() compatibility.
func (e *InvalidGroupNameError) Unwrap() error { return ErrInvalidGroupName }
