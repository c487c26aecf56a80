// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"crypto/sha256"
	"fmt"

	"github.com/vagrantory/vagrantory/pkg/types"
)

// Key identifies one cached inventory result. Keys are filename-safe.
type Key string

// String returns the string representation of the Key.
func (k Key) String() string { return string(k) }

// KeyFor derives the cache key for an inventory source: the provider name
// plus a short digest of the source file's absolute path. The same source
// file always yields the same key, and two checkouts of the same layout in
// different directories never collide.
func KeyFor(plugin string, sourcePath types.FilesystemPath) (Key, error) {
	abs, err := sourcePath.Abs()
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256([]byte(abs.String()))
	return Key(fmt.Sprintf("%s_%x", plugin, sum[:6])), nil
}
