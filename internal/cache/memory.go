// SPDX-License-Identifier: MPL-2.0

package cache

import (
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// memoryStore is shared by every memory backend in the process, so
// flows that resolve the same source repeatedly (watch mode,
// multi-source configs sharing a file) hit it across opens. Entries
// carry their TTL individually; the store itself never expires them.
var memoryStore = gocache.New(gocache.NoExpiration, 0)

// memoryBackend is a prefix-scoped view of the process cache. It needs
// no connection string and ignores any that is set; entries live at
// most as long as the invocation.
type memoryBackend struct {
	c      *gocache.Cache
	prefix string
	ttl    time.Duration // gocache.NoExpiration when the timeout is 0
}

func newMemoryBackend(s Settings) (Backend, error) {
	ttl := s.TimeoutDuration()
	if s.Timeout == 0 {
		ttl = gocache.NoExpiration
	}
	// No janitor: expired items are filtered on read, and the process is
	// short-lived anyway.
	return &memoryBackend{c: memoryStore, prefix: s.Prefix, ttl: ttl}, nil
}

func (b *memoryBackend) item(key Key) string {
	return b.prefix + key.String()
}

func (b *memoryBackend) Get(key Key) ([]byte, bool, error) {
	v, found := b.c.Get(b.item(key))
	if !found {
		return nil, false, nil
	}
	data, ok := v.([]byte)
	if !ok {
		return nil, false, nil
	}
	return data, true, nil
}

func (b *memoryBackend) Set(key Key, value []byte) error {
	b.c.Set(b.item(key), value, b.ttl)
	return nil
}

func (b *memoryBackend) Delete(key Key) error {
	b.c.Delete(b.item(key))
	return nil
}

func (b *memoryBackend) Contains(key Key) (bool, error) {
	_, found := b.c.Get(b.item(key))
	return found, nil
}

func (b *memoryBackend) Keys() ([]string, error) {
	items := b.c.Items()
	keys := make([]string, 0, len(items))
	for k := range items {
		if strings.HasPrefix(k, b.prefix) {
			keys = append(keys, strings.TrimPrefix(k, b.prefix))
		}
	}
	return keys, nil
}

// Flush removes this backend's entries only; the store may be shared
// with backends using other prefixes.
func (b *memoryBackend) Flush() error {
	for k := range b.c.Items() {
		if strings.HasPrefix(k, b.prefix) {
			b.c.Delete(k)
		}
	}
	return nil
}
