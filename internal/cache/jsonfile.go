// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// jsonFileBackend keeps one file per key under a directory, named
// <prefix><key>.json. Freshness is judged by file modification time
// against the timeout, so entries survive across invocations and can be
// inspected or deleted by hand.
type jsonFileBackend struct {
	dir     string
	prefix  string
	timeout time.Duration // 0 = entries never expire
}

const jsonFileExt = ".json"

func newJSONFileBackend(s Settings) (Backend, error) {
	if strings.TrimSpace(s.Connection.String()) == "" {
		return nil, &MissingConnectionError{Plugin: s.Plugin}
	}

	abs, err := s.Connection.Abs()
	if err != nil {
		return nil, err
	}
	dir := abs.String()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory %s: %w", dir, err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("opening cache directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cache connection %s is not a directory", dir)
	}

	return &jsonFileBackend{
		dir:     dir,
		prefix:  s.Prefix,
		timeout: s.TimeoutDuration(),
	}, nil
}

func (b *jsonFileBackend) path(key Key) string {
	return filepath.Join(b.dir, b.prefix+key.String()+jsonFileExt)
}

func (b *jsonFileBackend) expired(info os.FileInfo) bool {
	return b.timeout > 0 && time.Since(info.ModTime()) > b.timeout
}

func (b *jsonFileBackend) Get(key Key) ([]byte, bool, error) {
	path := b.path(key)
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry %s: %w", path, err)
	}
	if b.expired(info) {
		return nil, false, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry %s: %w", path, err)
	}
	return data, true, nil
}

func (b *jsonFileBackend) Set(key Key, value []byte) error {
	if err := os.MkdirAll(b.dir, 0o755); err != nil {
		return fmt.Errorf("creating cache directory %s: %w", b.dir, err)
	}
	path := b.path(key)
	if err := os.WriteFile(path, value, 0o644); err != nil {
		return fmt.Errorf("writing cache entry %s: %w", path, err)
	}
	return nil
}

func (b *jsonFileBackend) Delete(key Key) error {
	err := os.Remove(b.path(key))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting cache entry %s: %w", b.path(key), err)
	}
	return nil
}

func (b *jsonFileBackend) Contains(key Key) (bool, error) {
	info, err := os.Stat(b.path(key))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !b.expired(info), nil
}

func (b *jsonFileBackend) Keys() ([]string, error) {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return nil, fmt.Errorf("listing cache directory %s: %w", b.dir, err)
	}

	var keys []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, b.prefix) || !strings.HasSuffix(name, jsonFileExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil || b.expired(info) {
			continue
		}
		keys = append(keys, strings.TrimSuffix(strings.TrimPrefix(name, b.prefix), jsonFileExt))
	}
	return keys, nil
}

func (b *jsonFileBackend) Flush() error {
	entries, err := os.ReadDir(b.dir)
	if err != nil {
		return fmt.Errorf("listing cache directory %s: %w", b.dir, err)
	}

	// Only files carrying our prefix are removed; the directory may be
	// shared with other tools.
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, b.prefix) || !strings.HasSuffix(name, jsonFileExt) {
			continue
		}
		if err := os.Remove(filepath.Join(b.dir, name)); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("removing cache entry %s: %w", name, err)
		}
	}
	return nil
}
