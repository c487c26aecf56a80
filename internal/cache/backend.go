// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownPlugin is the sentinel error wrapped by UnknownPluginError.
	ErrUnknownPlugin = errors.New("unknown cache plugin")

	// ErrMissingConnection is the sentinel error wrapped by MissingConnectionError.
	ErrMissingConnection = errors.New("cache connection required")

	// ErrInvalidTimeout is the sentinel error wrapped by InvalidTimeoutError.
	ErrInvalidTimeout = errors.New("invalid cache timeout")
)

type (
	// Backend is a byte store for cached inventory results. A miss and an
	// expired entry look the same to callers: (nil, false, nil).
	// Implementations must be safe for concurrent use.
	Backend interface {
		// Get returns (value, true, nil) on a fresh hit; (nil, false, nil)
		// on miss or expiry; (nil, false, err) on storage errors.
		Get(key Key) ([]byte, bool, error)

		// Set stores value under key, overwriting any previous entry.
		Set(key Key, value []byte) error

		// Delete removes a key. Deleting an absent key is not an error.
		Delete(key Key) error

		// Contains reports whether a fresh entry exists for key.
		Contains(key Key) (bool, error)

		// Keys lists the keys with fresh entries, in unspecified order.
		Keys() ([]string, error)

		// Flush removes every entry owned by this backend. For shared
		// stores only entries carrying the configured prefix are touched.
		Flush() error
	}

	// UnknownPluginError is returned when the configured plugin does not
	// name a registered backend.
	UnknownPluginError struct {
		Name       string
		Registered []string
	}

	// MissingConnectionError is returned when a backend that needs a
	// connection string is constructed without one.
	MissingConnectionError struct {
		Plugin string
	}

	// InvalidTimeoutError is returned when a timeout setting cannot be
	// parsed or is negative.
	InvalidTimeoutError struct {
		Value string
	}
)

// Error implements the error interface for UnknownPluginError.
func (e *UnknownPluginError) Error() string {
	return fmt.Sprintf("unknown cache plugin %q (registered: %s)", e.Name, strings.Join(e.Registered, ", "))
}

// Unwrap returns ErrUnknownPlugin for errors.Is() compatibility.
func (e *UnknownPluginError) Unwrap() error { return ErrUnknownPlugin }

// Error implements the error interface for MissingConnectionError.
func (e *MissingConnectionError) Error() string {
	return fmt.Sprintf("cache plugin %q requires a connection string (set %s or cache.connection)", e.Plugin, EnvConnection)
}

// Unwrap returns ErrMissingConnection for errors.Is() compatibility.
func (e *MissingConnectionError) Unwrap() error { return ErrMissingConnection }

// Error implements the error interface for InvalidTimeoutError.
func (e *InvalidTimeoutError) Error() string {
	return fmt.Sprintf("invalid cache timeout %q: must be a non-negative number of seconds", e.Value)
}

// Unwrap returns ErrInvalidTimeout for errors.Is() compatibility.
func (e *InvalidTimeoutError) Unwrap() error { return ErrInvalidTimeout }
