// Package cache memoizes resolved configurations.
//
// Entries are keyed on the file path and the fingerprint of the
// configuration that produced them, so a reloaded configuration never sees
// results computed from an older one.
package cache

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/donaldgifford/fmtconf/internal/options"
	"github.com/donaldgifford/fmtconf/internal/resolver"
)

type key struct {
	path        string
	fingerprint uint64
}

// Stats reports cache usage.
type Stats struct {
	Entries int
	Hits    uint64
	Misses  uint64
}

// Cache is a concurrency-safe memo of effective configurations. The zero
// value is not usable; call New.
type Cache struct {
	mu      sync.RWMutex
	entries map[key]options.Options
	hits    atomic.Uint64
	misses  atomic.Uint64
}

// New returns an empty cache.
func New() *Cache {
	return &Cache{entries: make(map[key]options.Options)}
}

// Get returns a copy of the cached options for path under fingerprint.
func (c *Cache) Get(path string, fingerprint uint64) (options.Options, bool) {
	c.mu.RLock()
	o, ok := c.entries[key{path, fingerprint}]
	c.mu.RUnlock()

	if !ok {
		c.misses.Add(1)
		return options.Options{}, false
	}
	c.hits.Add(1)
	return o.Clone(), true
}

// Put stores a copy of o for path under fingerprint.
func (c *Cache) Put(path string, fingerprint uint64, o options.Options) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key{path, fingerprint}] = o.Clone()
}

// Purge drops every entry whose fingerprint is not in keep and returns how
// many were removed.
func (c *Cache) Purge(keep ...uint64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for k := range c.entries {
		if !slices.Contains(keep, k.fingerprint) {
			delete(c.entries, k)
			n++
		}
	}
	return n
}

// Stats returns a snapshot of cache usage.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{Entries: len(c.entries), Hits: c.hits.Load(), Misses: c.misses.Load()}
}

// Resolve returns the cached result for path, resolving and storing it on
// a miss. Errors are not cached. fingerprint must be FingerprintOf(r).
func (c *Cache) Resolve(r *resolver.Resolver, fingerprint uint64, path string) (options.Options, error) {
	if o, ok := c.Get(path, fingerprint); ok {
		return o, nil
	}
	o, err := r.Resolve(path)
	if err != nil {
		return options.Options{}, err
	}
	c.Put(path, fingerprint, o)
	return o, nil
}
